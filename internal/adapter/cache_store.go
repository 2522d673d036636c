package adapter

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"log/slog"

	m "clar.dev/pkg/clargen/internal/model"
)

// CacheFormatVersion is bumped whenever the persisted snapshot layout changes.
const CacheFormatVersion = 1

// CacheStore persists the module registry between runs.
type CacheStore interface {
	// Load returns the persisted registry for appName, or an empty registry
	// when the cache is missing, unreadable, or was written for another
	// configuration. It never fails.
	Load(ctx context.Context, dir m.Path, appName, prefix string) *m.Registry
	// Save writes the full registry snapshot.
	Save(ctx context.Context, dir m.Path, appName, prefix string, registry *m.Registry) error
	// Path is the location of the cache file for appName inside dir.
	Path(dir m.Path, appName string) m.Path
}

type cacheSnapshot struct {
	Version int
	AppName string
	Prefix  string
	Modules map[string]*m.Module
}

type cacheStore struct {
	fs SourceFSAdapter
}

// NewCacheStore creates a gob-backed CacheStore writing through fs.
func NewCacheStore(fs SourceFSAdapter) CacheStore {
	return &cacheStore{fs: fs}
}

func (c *cacheStore) Path(dir m.Path, appName string) m.Path {
	return c.fs.JoinPath(string(dir), "."+appName+"cache")
}

func (c *cacheStore) Load(ctx context.Context, dir m.Path, appName, prefix string) *m.Registry {
	path := c.Path(dir, appName)

	data, err := c.fs.ReadFile(ctx, path)
	if err != nil {
		slog.Debug("cache not loaded", "path", path, "error", err)
		return m.NewRegistry()
	}

	var snap cacheSnapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		slog.Warn("discarding unreadable cache", "path", path, "error", err)
		return m.NewRegistry()
	}

	if snap.Version != CacheFormatVersion || snap.AppName != appName || snap.Prefix != prefix {
		slog.Info("discarding stale cache",
			"path", path, "version", snap.Version, "app", snap.AppName, "prefix", snap.Prefix)

		return m.NewRegistry()
	}

	registry := m.NewRegistry()

	for name, mod := range snap.Modules {
		if mod == nil {
			continue
		}

		registry.Modules[name] = mod
	}

	slog.Debug("cache loaded", "path", path, "modules", len(registry.Modules))

	return registry
}

func (c *cacheStore) Save(ctx context.Context, dir m.Path, appName, prefix string, registry *m.Registry) error {
	path := c.Path(dir, appName)

	snap := cacheSnapshot{
		Version: CacheFormatVersion,
		AppName: appName,
		Prefix:  prefix,
		Modules: registry.Modules,
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	if err := c.fs.WriteFileAtomic(ctx, path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write cache %s: %w", path, err)
	}

	slog.Debug("cache saved", "path", path, "modules", len(registry.Modules))

	return nil
}
