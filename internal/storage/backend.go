package storage

import "context"

//go:generate moq -out backend_mock.go . Backend

// Backend is the byte-level persistence seam beneath the local collection:
// one JSON blob per collection name. Load returns nil for a collection that
// was never saved.
type Backend interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
	Close() error
}
