package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable   = errors.New("server unavailable")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("not found")
	ErrRequestFailed = errors.New("request failed")
)

// HTTPError describes a non-2xx answer. It unwraps to one of the sentinel
// errors above so callers match with errors.Is and never need the code.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Err        error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.Path, e.StatusCode, e.Err)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func mapStatus(code int) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ErrUnavailable
	default:
		return ErrRequestFailed
	}
}
