package publishingapi

import (
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Error is a failed publishing API call. The client never retries; it
// classifies each failure so an outer worker can decide whether to.
type Error struct {
	Op         string // operation, e.g. "PutContent"
	ContentID  string
	StatusCode int   // zero on transport failures
	Err        error // underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("publishing api: %s %s: status %d", e.Op, e.ContentID, e.StatusCode)
	}
	return fmt.Sprintf("publishing api: %s %s: %v", e.Op, e.ContentID, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports whether the remote side answered 404.
func (e *Error) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Temporary reports whether the failure is worth retrying: transport
// errors, timeouts, 429 and server-side 5xx responses.
func (e *Error) Temporary() bool {
	if e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500 {
		return true
	}
	if e.StatusCode != 0 {
		return false
	}
	var netErr net.Error
	if errors.As(e.Err, &netErr) && netErr.Timeout() {
		return true
	}
	// Connection-level failures with no response are retry-worthy.
	return e.Err != nil
}

// IsNotFound reports whether err is a publishing API 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.NotFound()
}

// IsTemporary reports whether err is a retry-worthy publishing API
// failure.
func IsTemporary(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Temporary()
}
