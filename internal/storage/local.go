package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// Local is the Collection implementation over a byte-level Backend. The
// whole collection is read, modified and written back as one JSON array,
// which serializes mutations within each call.
type Local struct {
	backend Backend
	name    string
}

// NewLocal builds a local collection persisting under the given name.
func NewLocal(backend Backend, name string) *Local {
	return &Local{backend: backend, name: name}
}

// Name returns the collection storage key.
func (l *Local) Name() string { return l.name }

// load reads the stored array. Absent or corrupt data degrades to an empty
// collection; corruption is logged, never surfaced.
func (l *Local) load(ctx context.Context) []Document {
	raw, err := l.backend.Load(ctx, l.name)
	if err != nil {
		slog.Warn("failed to read collection, treating as empty",
			"collection", l.name, "error", err)
		return []Document{}
	}
	if len(raw) == 0 {
		return []Document{}
	}

	var docs []Document
	if err := json.Unmarshal(raw, &docs); err != nil {
		slog.Warn("corrupt collection data, treating as empty",
			"collection", l.name, "error", err)
		return []Document{}
	}
	return docs
}

func (l *Local) save(ctx context.Context, docs []Document) error {
	raw, err := json.Marshal(docs)
	if err != nil {
		return &StorageError{Op: "save", Collection: l.name, Err: err}
	}
	if err := l.backend.Save(ctx, l.name, raw); err != nil {
		return &StorageError{Op: "save", Collection: l.name, Err: err}
	}
	return nil
}

// GetAll returns every record in stored order.
func (l *Local) GetAll(ctx context.Context) ([]Document, error) {
	return l.load(ctx), nil
}

// GetByID returns the record with the given id.
func (l *Local) GetByID(ctx context.Context, id string) (Document, error) {
	for _, doc := range l.load(ctx) {
		if doc.ID() == id {
			return doc, nil
		}
	}
	return nil, NewNotFound("record", id)
}

// Create assigns a fresh id and both timestamps, appends and persists.
func (l *Local) Create(ctx context.Context, data Document) (Document, error) {
	docs := l.load(ctx)
	doc := l.stamp(data)
	docs = append(docs, doc)
	if err := l.save(ctx, docs); err != nil {
		return nil, err
	}
	return doc, nil
}

// stamp clones data and fills the system fields for a new record.
func (l *Local) stamp(data Document) Document {
	doc := data.Clone()
	now := Timestamp(time.Now())
	doc[FieldID] = NewID()
	doc[FieldCreatedAt] = now
	doc[FieldUpdatedAt] = now
	return doc
}

// Update shallow-merges data over the existing record. The original id is
// force-preserved and updatedAt refreshed.
func (l *Local) Update(ctx context.Context, id string, data Document) (Document, error) {
	docs := l.load(ctx)
	for i, doc := range docs {
		if doc.ID() != id {
			continue
		}
		merged := doc.Clone()
		for k, v := range data {
			merged[k] = v
		}
		merged[FieldID] = id
		merged[FieldUpdatedAt] = Timestamp(time.Now())
		docs[i] = merged
		if err := l.save(ctx, docs); err != nil {
			return nil, err
		}
		return merged, nil
	}
	return nil, NewNotFound("record", id)
}

// Delete removes the record and reports whether one was removed.
func (l *Local) Delete(ctx context.Context, id string) (bool, error) {
	docs := l.load(ctx)
	for i, doc := range docs {
		if doc.ID() != id {
			continue
		}
		docs = append(docs[:i], docs[i+1:]...)
		if err := l.save(ctx, docs); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// BulkCreate stamps every record and persists once.
func (l *Local) BulkCreate(ctx context.Context, data []Document) ([]Document, error) {
	docs := l.load(ctx)
	created := make([]Document, 0, len(data))
	for _, d := range data {
		doc := l.stamp(d)
		created = append(created, doc)
		docs = append(docs, doc)
	}
	if err := l.save(ctx, docs); err != nil {
		return nil, err
	}
	return created, nil
}

// ReplaceAll unconditionally overwrites the collection.
func (l *Local) ReplaceAll(ctx context.Context, docs []Document) error {
	if docs == nil {
		docs = []Document{}
	}
	return l.save(ctx, docs)
}

// Export wraps the collection in the interchange envelope.
func (l *Local) Export(ctx context.Context) (*Envelope, error) {
	return NewEnvelope(l.name, l.load(ctx)), nil
}

// Import replaces the collection from a bare array or export envelope.
func (l *Local) Import(ctx context.Context, payload json.RawMessage) error {
	docs, err := DecodePayload(payload)
	if err != nil {
		return fmt.Errorf("import into %q: %w", l.name, err)
	}
	return l.ReplaceAll(ctx, docs)
}

// Clear empties the collection.
func (l *Local) Clear(ctx context.Context) error {
	return l.save(ctx, []Document{})
}

// Count returns the number of records.
func (l *Local) Count(ctx context.Context) (int, error) {
	return len(l.load(ctx)), nil
}
