package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pmiralles/lorekeeper/internal/cli"
	"github.com/pmiralles/lorekeeper/internal/config"
	"github.com/pmiralles/lorekeeper/internal/repository"
	"github.com/pmiralles/lorekeeper/internal/service"
	"github.com/pmiralles/lorekeeper/internal/storage"
	"github.com/pmiralles/lorekeeper/internal/storage/boltdb"
	"github.com/pmiralles/lorekeeper/internal/storage/sqlitedb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load(os.Getenv("LOREKEEPER_CONFIG"))
	if err != nil {
		return err
	}
	setupLogging(cfg.LogLevel)

	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			slog.Error("failed to close storage", "error", err)
		}
	}()

	cols := repository.Open(ctx, cfg, backend)

	app := cli.New(
		service.NewItems(repository.NewItems(cols.Items)),
		service.NewDictionary(repository.NewDictionary(cols.Dictionary)),
		service.NewNotebook(repository.NewNotebook(cols.Notebook)),
		service.NewSoundtrack(repository.NewSoundtrack(cols.Soundtrack)),
	)

	root := app.Root()
	root.Version = fmt.Sprintf("%s (built %s, commit %s)", Version, BuildDate, GitCommit)
	return root.ExecuteContext(ctx)
}

func openBackend(ctx context.Context, cfg *config.Config) (storage.Backend, error) {
	switch cfg.Engine {
	case config.EngineSQLite:
		return sqlitedb.New(ctx, cfg.DBPath)
	default:
		return boltdb.New(ctx, cfg.DBPath)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
