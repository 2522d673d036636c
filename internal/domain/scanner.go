package domain

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"clar.dev/pkg/clargen/internal/adapter"
	m "clar.dev/pkg/clargen/internal/model"
)

// DefaultSourcePattern selects C sources.
const DefaultSourcePattern = "*.c"

// Scanner discovers test source files.
type Scanner interface {
	Scan(ctx context.Context, root m.Path, pattern string) ([]m.SourceFile, error)
}

type scanner struct {
	fs adapter.SourceFSAdapter
}

// NewScanner creates a Scanner walking the tree through fs.
func NewScanner(fs adapter.SourceFSAdapter) Scanner {
	return &scanner{fs: fs}
}

// Scan returns every file under root whose base name matches pattern, with
// the module name derived from its path relative to root.
func (s *scanner) Scan(ctx context.Context, root m.Path, pattern string) ([]m.SourceFile, error) {
	if pattern == "" {
		pattern = DefaultSourcePattern
	}

	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid source pattern %q: %w", pattern, err)
	}

	if _, err := s.fs.FileInfo(ctx, root); err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	var sources []m.SourceFile

	err := s.fs.Walk(ctx, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			slog.Warn("skipping unreadable path", "path", path, "error", err)

			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if info.IsDir() {
			return nil
		}

		if ok, _ := filepath.Match(pattern, info.Name()); !ok {
			return nil
		}

		rel, err := s.fs.RelPath(root, m.Path(path))
		if err != nil {
			return err
		}

		sources = append(sources, m.SourceFile{
			Path:   m.Path(path),
			Module: moduleNameFor(string(rel)),
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	slog.Debug("scanned sources", "root", root, "pattern", pattern, "count", len(sources))

	return sources, nil
}

func moduleNameFor(rel string) string {
	dir, file := filepath.Split(filepath.ToSlash(rel))
	stem := strings.TrimSuffix(file, filepath.Ext(file))

	return m.ModuleName(strings.Split(dir, "/"), stem)
}
