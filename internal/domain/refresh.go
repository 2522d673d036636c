package domain

import (
	"context"
	"log/slog"

	"clar.dev/pkg/clargen/internal/adapter"
	m "clar.dev/pkg/clargen/internal/model"
)

// Refresher brings cached modules up to date with their source files.
type Refresher interface {
	// Refresh reparses path into mod when its modification time differs from
	// the cached one. It returns false when the module should be dropped from
	// the registry: the file cannot be read or holds no ordinary test. The
	// only error is an *OptionError from a malformed annotation.
	Refresh(ctx context.Context, mod *m.Module, path m.Path) (bool, error)
}

type refresher struct {
	fs adapter.SourceFSAdapter
}

// NewRefresher creates a Refresher reading sources through fs.
func NewRefresher(fs adapter.SourceFSAdapter) Refresher {
	return &refresher{fs: fs}
}

func (r *refresher) Refresh(ctx context.Context, mod *m.Module, path m.Path) (bool, error) {
	mod.SetModified(false)

	info, err := r.fs.FileInfo(ctx, path)
	if err != nil {
		slog.Debug("source vanished", "module", mod.Name, "path", path, "error", err)
		return false, nil
	}

	if info.ModTime().Equal(mod.MTime) {
		slog.Debug("source unchanged", "module", mod.Name, "path", path)
		return true, nil
	}

	content, err := r.fs.ReadFile(ctx, path)
	if err != nil {
		slog.Debug("source unreadable", "module", mod.Name, "path", path, "error", err)
		return false, nil
	}

	functions, err := ParseModule(string(content), mod.Prefix, mod.Name)
	if err != nil {
		return false, err
	}

	mod.SetFunctions(functions)
	mod.MTime = info.ModTime()
	mod.SetModified(true)

	slog.Debug("source parsed",
		"module", mod.Name,
		"callbacks", len(mod.Callbacks),
		"initializers", len(mod.Initializers),
		"reset", mod.Reset != nil,
		"cleanup", mod.Cleanup != nil)

	return mod.HasCallbacks(), nil
}
