package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// System-managed document fields.
const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// Document is the generic persisted record: named fields plus the three
// system-managed fields. Timestamps are stored as RFC 3339 strings.
type Document map[string]any

// ID returns the document id, or "" when unset.
func (d Document) ID() string {
	id, _ := d[FieldID].(string)
	return id
}

// Clone returns a shallow copy of the document.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// NewID generates a collision-safe record identifier.
func NewID() string {
	return uuid.NewString()
}

// Timestamp formats t the way documents persist time fields.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ToDocument converts a typed record to its document form via JSON.
func ToDocument(v any) (Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return doc, nil
}

// FromDocument converts a document back to a typed record via JSON.
func FromDocument[T any](doc Document) (T, error) {
	var out T
	raw, err := json.Marshal(doc)
	if err != nil {
		return out, fmt.Errorf("encode document: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode document: %w", err)
	}
	return out, nil
}

// DecodeAll converts a document slice into typed records.
func DecodeAll[T any](docs []Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		v, err := FromDocument[T](doc)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
