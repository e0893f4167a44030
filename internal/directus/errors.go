package directus

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnreachable covers transport failures: refused connections, DNS,
	// timeouts and cancelled contexts.
	ErrUnreachable = errors.New("directus unreachable")
	// ErrBadStatus is matched by every *StatusError.
	ErrBadStatus = errors.New("directus returned an error status")
	// ErrMalformed means the response body could not be decoded.
	ErrMalformed = errors.New("directus response malformed")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "directus status %d", e.StatusCode)
	if e.Code != "" {
		fmt.Fprintf(&b, " (%s)", e.Code)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is lets errors.Is(err, ErrBadStatus) match any status error.
func (e *StatusError) Is(target error) bool {
	return target == ErrBadStatus
}

// Kind names the failure class of err for log fields.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnreachable):
		return "unreachable"
	case errors.Is(err, ErrBadStatus):
		return "bad_status"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	default:
		return "unknown"
	}
}

type apiError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}
