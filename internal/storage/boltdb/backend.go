package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

// bucketCollections holds one key per collection name, value = JSON array.
var bucketCollections = []byte("collections")

// Backend is the BoltDB persistence backend. This is the default engine.
type Backend struct {
	db *bbolt.DB
}

// New opens (or creates) the BoltDB file at dbPath and initializes the
// collections bucket.
func New(ctx context.Context, dbPath string) (*Backend, error) {
	db, err := bbolt.Open(dbPath, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	backend := &Backend{db: db}
	if err := backend.initBucket(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}
	return backend, nil
}

// Close closes the database file.
func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

func (b *Backend) initBucket() error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketCollections); err != nil {
			return fmt.Errorf("failed to create collections bucket: %w", err)
		}
		return nil
	})
}

// Load returns the stored blob for the collection, nil if never saved.
func (b *Backend) Load(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCollections)
		if bucket == nil {
			return fmt.Errorf("collections bucket not found")
		}
		if v := bucket.Get([]byte(name)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save stores the blob for the collection.
func (b *Backend) Save(ctx context.Context, name string, data []byte) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCollections)
		if bucket == nil {
			return fmt.Errorf("collections bucket not found")
		}
		if err := bucket.Put([]byte(name), data); err != nil {
			return fmt.Errorf("failed to save collection: %w", err)
		}
		return nil
	})
}
