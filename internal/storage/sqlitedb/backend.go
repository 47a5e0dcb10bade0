package sqlitedb

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Backend is the SQLite persistence backend, an alternate local engine.
// Use ":memory:" as the path for tests.
type Backend struct {
	db *sql.DB
}

// New opens the SQLite database at dbPath and runs migrations.
func New(ctx context.Context, dbPath string) (*Backend, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Single writer; WAL lets readers coexist with it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA busy_timeout = 5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	backend := &Backend{db: db}
	if err := backend.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return backend, nil
}

// Close closes the database connection.
func (b *Backend) Close() error {
	return b.db.Close()
}

func (b *Backend) runMigrations() error {
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	goose.SetBaseFS(embedMigrations)
	if err := goose.Up(b.db, "migrations"); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}
	return nil
}

// Load returns the stored blob for the collection, nil if never saved.
func (b *Backend) Load(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := b.db.QueryRowContext(ctx,
		"SELECT data FROM collections WHERE name = ?", name).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}
	return data, nil
}

// Save upserts the blob for the collection.
func (b *Backend) Save(ctx context.Context, name string, data []byte) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO collections (name, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`, name, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save collection: %w", err)
	}
	return nil
}
