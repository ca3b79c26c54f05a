package grobid

import (
	"errors"
	"fmt"
	"net/http"
)

// Errors for GROBID's documented status codes, plus transport failures.
var (
	// ErrNoContent indicates GROBID accepted the PDF but extracted nothing (203).
	ErrNoContent = errors.New("content couldn't be extracted")

	// ErrBadRequest indicates a wrong request, missing parameters or header (400).
	ErrBadRequest = errors.New("wrong request, missing parameters, missing header")

	// ErrServerError indicates an internal GROBID failure (500).
	ErrServerError = errors.New("internal service error")

	// ErrUnavailable indicates every GROBID worker is busy (503).
	ErrUnavailable = errors.New("service not available")

	// ErrNetworkError indicates the server could not be reached.
	ErrNetworkError = errors.New("network error communicating with GROBID")
)

// StatusError carries the HTTP status of a failed GROBID call.
type StatusError struct {
	StatusCode int
	Err        error // One of the status sentinels above
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GROBID %d: %v", e.StatusCode, e.Err)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the call may succeed if repeated later.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrNetworkError)
}

// statusErr maps a documented status code to its error. Undocumented codes
// are not errors.
func statusErr(code int) error {
	var sentinel error
	switch code {
	case http.StatusNonAuthoritativeInfo:
		sentinel = ErrNoContent
	case http.StatusBadRequest:
		sentinel = ErrBadRequest
	case http.StatusInternalServerError:
		sentinel = ErrServerError
	case http.StatusServiceUnavailable:
		sentinel = ErrUnavailable
	default:
		return nil
	}
	return &StatusError{StatusCode: code, Err: sentinel}
}
