package search

import (
	"errors"
	"fmt"
)

// Sentinel errors for search operations.
var (
	// ErrNotFound indicates the document does not exist in the index.
	ErrNotFound = errors.New("document not found in search index")

	// ErrIndexingFailed indicates the backend rejected the document.
	ErrIndexingFailed = errors.New("failed to index document")

	// ErrBackendUnavailable indicates the backend could not be reached.
	ErrBackendUnavailable = errors.New("search backend unavailable")

	// ErrInvalidDocument indicates the document is missing required fields.
	ErrInvalidDocument = errors.New("invalid search document")
)

// Error wraps a search failure with the operation that produced it.
type Error struct {
	Op  string // operation, e.g. "Index", "Delete"
	Err error  // underlying error
	Msg string // optional context
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}
