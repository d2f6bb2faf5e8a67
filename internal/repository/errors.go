// Package repository loads and stores the manual and section aggregates,
// applying the two-edition retention policy and delegating side
// associations to pluggable marshallers.
package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound tags repository lookups that matched zero records. Callers
// branch with errors.Is rather than string matching.
var ErrNotFound = errors.New("not found")

// notFound wraps ErrNotFound with the entity kind and id.
func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// IsNotFound reports whether err is a repository not-found failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
