package storage

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a record or nested entry does not exist.
// Layer-specific errors wrap it so callers can match with errors.Is.
var ErrNotFound = errors.New("not found")

// NotFoundError reports which record or nested entry was missing.
type NotFoundError struct {
	Kind string // e.g. "item", "component", "word"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFound builds a NotFoundError for the given kind and id.
func NewNotFound(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

// RangeError reports an out-of-range index into a nested sequence.
type RangeError struct {
	What   string
	Index  int
	Length int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0, %d)", e.What, e.Index, e.Length)
}

// StorageError wraps a failed persistence write. Read failures are never
// surfaced as errors; they degrade to an empty collection.
type StorageError struct {
	Op         string
	Collection string
	Err        error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s on %q failed: %v", e.Op, e.Collection, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ImportError reports an import payload that could not be committed, either
// because it is not a recognizable array/envelope or because records failed
// validation. Imports are all-or-nothing.
type ImportError struct {
	Reason string
	Issues []ImportIssue
}

// ImportIssue pins validation failures to one element of the payload.
type ImportIssue struct {
	Index  int
	Errors []string
}

func (e *ImportError) Error() string {
	if len(e.Issues) == 0 {
		return fmt.Sprintf("import rejected: %s", e.Reason)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "import rejected: %s:", e.Reason)
	for _, issue := range e.Issues {
		fmt.Fprintf(&b, " [%d: %s]", issue.Index, strings.Join(issue.Errors, ", "))
	}
	return b.String()
}
