// Package repository implements collection-specific read/query/mutate
// operations on top of the storage collection primitives. Business
// validation lives one layer up, in the services; repositories only enforce
// structural assumptions (components is always a map, tags is never nil).
package repository

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pmiralles/lorekeeper/internal/storage"
)

// passthrough exposes the collection primitives every repository forwards
// unchanged.
type passthrough struct {
	col storage.Collection
}

// Delete removes a record; a missing id reports false, never an error.
func (p passthrough) Delete(ctx context.Context, id string) (bool, error) {
	return p.col.Delete(ctx, id)
}

// Export wraps the collection in the interchange envelope.
func (p passthrough) Export(ctx context.Context) (*storage.Envelope, error) {
	return p.col.Export(ctx)
}

// Import replaces the collection wholesale from a raw payload.
func (p passthrough) Import(ctx context.Context, payload json.RawMessage) error {
	return p.col.Import(ctx, payload)
}

// ReplaceAll overwrites the collection with already-validated documents.
func (p passthrough) ReplaceAll(ctx context.Context, docs []storage.Document) error {
	return p.col.ReplaceAll(ctx, docs)
}

// Clear empties the collection.
func (p passthrough) Clear(ctx context.Context) error {
	return p.col.Clear(ctx)
}

// Count returns the number of records.
func (p passthrough) Count(ctx context.Context) (int, error) {
	return p.col.Count(ctx)
}

// containsFold reports a case-insensitive substring match.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// copyMarker is appended to the name-like field of duplicated records.
const copyMarker = " (Copy)"
