package storage

import (
	"context"
	"encoding/json"
)

//go:generate moq -out collection_mock.go . Collection

// Collection is the capability set every record store exposes, local or
// remote. All operations take a context so a network-backed implementation
// is interchangeable without changing callers.
type Collection interface {
	// GetAll returns every record in the collection, in stored order.
	GetAll(ctx context.Context) ([]Document, error)

	// GetByID returns the record whose id matches, or a NotFoundError.
	GetByID(ctx context.Context, id string) (Document, error)

	// Create assigns a fresh id and both timestamps, appends and persists.
	Create(ctx context.Context, data Document) (Document, error)

	// Update shallow-merges data over the existing record, force-preserving
	// the original id and refreshing updatedAt. NotFoundError when missing.
	Update(ctx context.Context, id string, data Document) (Document, error)

	// Delete removes the record and reports whether one was removed.
	// A missing id is not an error.
	Delete(ctx context.Context, id string) (bool, error)

	// BulkCreate behaves like repeated Create with a single persist.
	BulkCreate(ctx context.Context, docs []Document) ([]Document, error)

	// ReplaceAll unconditionally overwrites the whole collection.
	ReplaceAll(ctx context.Context, docs []Document) error

	// Export wraps the collection in the interchange envelope.
	Export(ctx context.Context) (*Envelope, error)

	// Import accepts a bare record array or an export envelope and replaces
	// the collection wholesale. Anything else is an ImportError.
	Import(ctx context.Context, payload json.RawMessage) error

	// Clear empties the collection.
	Clear(ctx context.Context) error

	// Count returns the number of records.
	Count(ctx context.Context) (int, error)
}
