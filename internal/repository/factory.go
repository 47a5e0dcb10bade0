package repository

import (
	"context"
	"log/slog"

	"github.com/pmiralles/lorekeeper/internal/config"
	"github.com/pmiralles/lorekeeper/internal/storage"
	"github.com/pmiralles/lorekeeper/internal/storage/remote"
)

// Collections bundles one storage collection per concern. The composition
// root builds it once and injects it; there are no package-level instances.
type Collections struct {
	Items      storage.Collection
	Dictionary storage.Collection
	Notebook   storage.Collection
	Soundtrack storage.Collection
}

// Open selects the storage implementation for every collection. With
// use_remote set it probes the remote service once and uses it for all
// collections; if the probe fails it logs a warning and falls back to the
// local backend. Without use_remote the local backend is used directly.
func Open(ctx context.Context, cfg *config.Config, backend storage.Backend) *Collections {
	useRemote := cfg.UseRemote
	if useRemote {
		probe := remote.New(cfg.RemoteURL, storage.CollectionItems, cfg.RemoteTimeout)
		if err := probe.Ping(ctx); err != nil {
			slog.Warn("remote service unavailable, falling back to local storage",
				"url", cfg.RemoteURL, "error", err)
			useRemote = false
		}
	}

	open := func(name string) storage.Collection {
		if useRemote {
			return remote.New(cfg.RemoteURL, name, cfg.RemoteTimeout)
		}
		return storage.NewLocal(backend, name)
	}

	return &Collections{
		Items:      open(storage.CollectionItems),
		Dictionary: open(storage.CollectionDictionary),
		Notebook:   open(storage.CollectionNotebook),
		Soundtrack: open(storage.CollectionSoundtrack),
	}
}
