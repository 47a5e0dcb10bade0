package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pmiralles/lorekeeper/internal/storage"
	"github.com/pmiralles/lorekeeper/internal/storage/boltdb"
)

// newTestCollection opens a temporary BoltDB-backed collection.
func newTestCollection(t *testing.T, name string) storage.Collection {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "service_test.db")

	backend, err := boltdb.New(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, backend.Close())
	})
	return storage.NewLocal(backend, name)
}
