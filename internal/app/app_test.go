package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/complai/internal/config"
	"github.com/complai/internal/devcms"
	"github.com/complai/internal/service"
	"github.com/gin-gonic/gin"
)

// cookiejar ignores relative URLs, so requests are built against testBaseURL.
const testBaseURL = "http://example.com"

type localClient struct {
	handler http.Handler
	jar     http.CookieJar
}

func newLocalClient(handler http.Handler) *localClient {
	jar, _ := cookiejar.New(nil)
	return &localClient{handler: handler, jar: jar}
}

func (c *localClient) get(t *testing.T, target string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, testBaseURL+target, nil)
	for _, cookie := range c.jar.Cookies(req.URL) {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	resp := w.Result()
	c.jar.SetCookies(req.URL, resp.Cookies())

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func testConfig(directusURL, token string) config.AppConfig {
	return config.AppConfig{
		ListenAddr:    "127.0.0.1:0",
		Port:          "0",
		DirectusURL:   directusURL,
		DirectusToken: token,
		AppURL:        config.DefaultAppURL,
		Environment:   "test",
		GinMode:       gin.TestMode,
		CMSTimeout:    time.Second,
		LogLevel:      "error",
		SessionSecret: "test-session-secret",
		SiteName:      "Complai",
	}
}

func startDevCMS(t *testing.T, token string) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := devcms.OpenMemory()
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = devcms.Close(gdb) })
	if err := devcms.Seed(gdb, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	srv := httptest.NewServer(devcms.NewServer(gdb, token, nil).Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

func initApp(t *testing.T, cfg config.AppConfig) *App {
	t.Helper()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	a, cleanup, err := InitializeApp(cfg)
	if err != nil {
		t.Fatalf("failed to initialize app: %v", err)
	}
	t.Cleanup(cleanup)
	return a
}

func TestEndToEndWithTokenProtectedCMS(t *testing.T) {
	base := startDevCMS(t, "static-token")
	a := initApp(t, testConfig(base, "static-token"))
	client := newLocalClient(a.Server.Handler)

	resp, body := client.get(t, "/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for home, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "/posts/writing-content-in-markdown") {
		t.Fatalf("expected latest post on home")
	}

	resp, body = client.get(t, "/posts/welcome-to-complai?lang=zh")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for post detail, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "返回文章列表") {
		t.Fatalf("expected chinese chrome after lang switch")
	}

	// the language choice rides on the session cookie
	_, body = client.get(t, "/pages/about")
	if !strings.Contains(body, `lang="zh-CN"`) {
		t.Fatalf("expected persisted language on following request")
	}

	resp, body = client.get(t, "/api/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected healthy, got %d: %s", resp.StatusCode, body)
	}
}

func TestEndToEndWithWrongToken(t *testing.T) {
	base := startDevCMS(t, "static-token")
	a := initApp(t, testConfig(base, "wrong-token"))
	client := newLocalClient(a.Server.Handler)

	resp, body := client.get(t, "/posts")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected degraded list page, got %d", resp.StatusCode)
	}
	if strings.Contains(body, "/posts/welcome-to-complai") {
		t.Fatalf("rejected credentials must not yield content")
	}

	// the ping endpoint is public, so health stays green
	resp, _ = client.get(t, "/api/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected ping to ignore token, got %d", resp.StatusCode)
	}
}

func TestCheck(t *testing.T) {
	a := initApp(t, testConfig(startDevCMS(t, ""), ""))

	var out bytes.Buffer
	if err := a.Check(context.Background(), &out); err != nil {
		t.Fatalf("expected healthy check, got %v", err)
	}
	var report service.HealthReport
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("invalid report: %v", err)
	}
	if report.Environment != "test" {
		t.Fatalf("unexpected environment %q", report.Environment)
	}

	srv := httptest.NewServer(http.NotFoundHandler())
	closed := srv.URL
	srv.Close()

	down := initApp(t, testConfig(closed, ""))
	out.Reset()
	if err := down.Check(context.Background(), &out); !errors.Is(err, ErrUnhealthy) {
		t.Fatalf("expected ErrUnhealthy, got %v", err)
	}
	if !strings.Contains(out.String(), `"error"`) {
		t.Fatalf("expected error field in report: %s", out.String())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	a := initApp(t, testConfig(startDevCMS(t, ""), ""))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatalf("server did not stop")
	}
}

func TestRunReportsListenError(t *testing.T) {
	cfg := testConfig(startDevCMS(t, ""), "")
	cfg.ListenAddr = "bad-address"
	a := initApp(t, cfg)

	if err := a.Run(context.Background()); err == nil {
		t.Fatalf("expected listen error")
	}
}

func TestLocalClientKeepsSessionCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/set", func(c *gin.Context) {
		c.SetCookie("complai_session", "zh", 3600, "/", "", false, true)
		c.Status(http.StatusNoContent)
	})
	r.GET("/echo", func(c *gin.Context) {
		value, _ := c.Cookie("complai_session")
		c.String(http.StatusOK, value)
	})

	client := newLocalClient(r)
	client.get(t, "/set")
	if _, body := client.get(t, "/echo"); body != "zh" {
		t.Fatalf("expected cookie replayed on following request, got %q", body)
	}
}

func TestProvideSite(t *testing.T) {
	cfg := testConfig("http://cms.example.com", "")
	site := ProvideSite(cfg)
	if site.DirectusURL != "http://cms.example.com" || site.Name != "Complai" {
		t.Fatalf("unexpected site %+v", site)
	}
	if _, err := url.Parse(site.AppURL); err != nil {
		t.Fatalf("app url should parse: %v", err)
	}
}
