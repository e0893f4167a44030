// Package directus is a small read-only client for the Directus REST API.
package directus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/complai/internal/logging"
	"golang.org/x/oauth2"
)

const (
	DefaultBaseURL = "http://localhost:8055"
	DefaultTimeout = 5 * time.Second

	maxBodyBytes = 4 << 20
	userAgent    = "complai-frontend/1.0"
)

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues read requests against one Directus instance. It holds no
// mutable state and is safe for concurrent use.
type Client struct {
	baseURL string
	http    HTTPDoer
}

// Option customises a Client at construction.
type Option func(*Client)

// WithHTTPClient replaces the transport, including the token handling.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.http = doer
		}
	}
}

// NewClient builds a client for baseURL. An empty token produces
// unauthenticated requests; a non-positive timeout falls back to
// DefaultTimeout.
func NewClient(baseURL, token string, timeout time.Duration, opts ...Option) *Client {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL: base,
		http:    newHTTPClient(strings.TrimSpace(token), timeout),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newHTTPClient(token string, timeout time.Duration) *http.Client {
	client := &http.Client{Timeout: timeout}
	if token != "" {
		client.Transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   http.DefaultTransport,
		}
	}
	return client
}

// BaseURL returns the normalised CMS base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ReadItems fetches items of collection matching q and decodes the response
// "data" array into dst.
func (c *Client) ReadItems(ctx context.Context, collection string, q Query, dst any) error {
	values, err := q.Values()
	if err != nil {
		return fmt.Errorf("read %s: %w", collection, err)
	}

	endpoint := c.baseURL + "/items/" + url.PathEscape(collection)
	if encoded := values.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return fmt.Errorf("read %s: %w", collection, err)
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("read %s: %w: %w", collection, ErrMalformed, err)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return fmt.Errorf("read %s: %w: missing data", collection, ErrMalformed)
	}
	if err := json.Unmarshal(envelope.Data, dst); err != nil {
		return fmt.Errorf("read %s: %w: %w", collection, ErrMalformed, err)
	}
	return nil
}

// Ping calls /server/ping and returns the HTTP status code. The error is
// non-nil only when no response was received.
func (c *Client) Ping(ctx context.Context) (int, error) {
	req, err := c.newRequest(ctx, c.baseURL+"/server/ping")
	if err != nil {
		return 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("ping: %w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	return resp.StatusCode, nil
}

func (c *Client) newRequest(ctx context.Context, endpoint string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if id := logging.RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	return req, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := c.newRequest(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrUnreachable, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, newStatusError(resp.StatusCode, body)
	}
	return body, nil
}

func newStatusError(status int, body []byte) *StatusError {
	statusErr := &StatusError{StatusCode: status}

	var payload struct {
		Errors []apiError `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Errors) > 0 {
		statusErr.Message = strings.TrimSpace(payload.Errors[0].Message)
		statusErr.Code = strings.TrimSpace(payload.Errors[0].Extensions.Code)
	}
	if statusErr.Message == "" {
		statusErr.Message = truncate(strings.TrimSpace(string(body)), 200)
	}
	if statusErr.Message == "" {
		statusErr.Message = http.StatusText(status)
	}
	return statusErr
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
