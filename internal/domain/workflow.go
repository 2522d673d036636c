// Package domain contains the suite generation workflow and its parsing and
// rendering logic.
package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/pmezard/go-difflib/difflib"

	"clar.dev/pkg/clargen/internal/adapter"
	"clar.dev/pkg/clargen/internal/controller"
	m "clar.dev/pkg/clargen/internal/model"
)

// Default generation settings.
const (
	DefaultAppName = "clar"
	DefaultPrefix  = "test"

	artifactExt        = ".suite"
	artifactPerm       = 0o644
	defaultDiffContext = 3
)

// ScanArgs configures discovery and refresh of test modules.
type ScanArgs struct {
	Root    m.Path
	Output  m.Path
	AppName string
	Prefix  string
	Pattern string
	Exclude []string
	Force   bool
}

// GenerateArgs holds arguments for writing the suite artifact.
type GenerateArgs struct {
	ScanArgs
}

// ListArgs holds arguments for listing suites.
type ListArgs struct {
	ScanArgs
	Format controller.Format
}

// DiffArgs holds arguments for previewing artifact changes.
type DiffArgs struct {
	ScanArgs
	Context int
}

// Workflow runs the generator commands.
type Workflow interface {
	Generate(ctx context.Context, args GenerateArgs) error
	List(ctx context.Context, args ListArgs) error
	Diff(ctx context.Context, args DiffArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.CacheStore
	controller.UI
	Scanner
	Refresher
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	cacheStore adapter.CacheStore,
	ui controller.UI,
	scanner Scanner,
	refresher Refresher,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		CacheStore:      cacheStore,
		UI:              ui,
		Scanner:         scanner,
		Refresher:       refresher,
	}
}

func (args ScanArgs) withDefaults() ScanArgs {
	if args.Root == "" {
		args.Root = "."
	}

	if args.Output == "" {
		args.Output = args.Root
	}

	if args.AppName == "" {
		args.AppName = DefaultAppName
	}

	if args.Prefix == "" {
		args.Prefix = DefaultPrefix
	}

	if args.Pattern == "" {
		args.Pattern = DefaultSourcePattern
	}

	return args
}

// ArtifactPath is where the suite file for args is written.
func (w *workflow) ArtifactPath(args ScanArgs) m.Path {
	return w.JoinPath(string(args.Output), args.AppName+artifactExt)
}

// loadRegistry scans the tree, restores the cache (unless forced), refreshes
// every discovered module and applies exclusions. A malformed annotation
// aborts before anything is written.
func (w *workflow) loadRegistry(ctx context.Context, args ScanArgs) (*m.Registry, error) {
	sources, err := w.Scan(ctx, args.Root, args.Pattern)
	if err != nil {
		return nil, err
	}

	registry := m.NewRegistry()
	if !args.Force {
		registry = w.Load(ctx, args.Output, args.AppName, args.Prefix)
	}

	seen := make(map[string]struct{}, len(sources))

	for _, source := range sources {
		_, cached := registry.Modules[source.Module]
		mod := registry.Get(source.Module, args.AppName, args.Prefix)

		ok, err := w.Refresh(ctx, mod, source.Path)
		if err != nil {
			slog.Error("invalid annotation", "module", source.Module, "path", source.Path, "error", err)
			return nil, err
		}

		if !ok {
			slog.Debug("dropping module without tests",
				"module", source.Module, "path", source.Path, "cached", cached)

			if cached {
				registry.Remove(source.Module)
			} else {
				registry.Discard(source.Module)
			}

			continue
		}

		seen[source.Module] = struct{}{}
	}

	if pruned := registry.Prune(seen); len(pruned) > 0 {
		slog.Debug("pruned vanished modules", "modules", pruned)
	}

	if disabled := registry.Disable(args.Exclude); len(disabled) > 0 {
		slog.Info("disabled modules", "modules", disabled)
	}

	return registry, nil
}

// Generate writes <name>.suite when it is missing or any module changed, then
// persists the cache. Nothing is reported when there is nothing to do.
func (w *workflow) Generate(ctx context.Context, args GenerateArgs) error {
	scan := args.withDefaults()

	registry, err := w.loadRegistry(ctx, scan)
	if err != nil {
		return err
	}

	artifact := w.ArtifactPath(scan)

	if !w.shouldGenerate(ctx, artifact, registry) {
		slog.Debug("artifact up to date", "path", artifact)
		return nil
	}

	content := RenderSuite(scan.AppName, registry)
	if err := w.WriteFileAtomic(ctx, artifact, content, artifactPerm); err != nil {
		return fmt.Errorf("write %s: %w", artifact, err)
	}

	slog.Info("artifact written",
		"path", artifact, "suites", registry.SuiteCount(), "callbacks", registry.CallbackCount())

	if err := w.Save(ctx, scan.Output, scan.AppName, scan.Prefix, registry); err != nil {
		slog.Warn("failed to save cache", "error", err)
	}

	w.DisplayGenerated(ctx, controller.Summary{
		Artifact:  artifact,
		Callbacks: registry.CallbackCount(),
		Suites:    registry.SuiteCount(),
	})

	return nil
}

func (w *workflow) shouldGenerate(ctx context.Context, artifact m.Path, registry *m.Registry) bool {
	if _, err := w.FileInfo(ctx, artifact); err != nil {
		return true
	}

	return registry.Changed()
}

// List shows the suites the artifact would contain. The cache is read but
// never written.
func (w *workflow) List(ctx context.Context, args ListArgs) error {
	registry, err := w.loadRegistry(ctx, args.withDefaults())
	if err != nil {
		return err
	}

	return w.DisplaySuites(ctx, registry.Suites(), args.Format)
}

// Diff renders the artifact in memory and shows a unified diff against the
// file on disk. Nothing is written.
func (w *workflow) Diff(ctx context.Context, args DiffArgs) error {
	scan := args.withDefaults()

	registry, err := w.loadRegistry(ctx, scan)
	if err != nil {
		return err
	}

	artifact := w.ArtifactPath(scan)

	current, err := w.ReadFile(ctx, artifact)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read %s: %w", artifact, err)
	}

	contextLines := args.Context
	if contextLines < 0 {
		contextLines = defaultDiffContext
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(current),
		B:        splitLines(RenderSuite(scan.AppName, registry)),
		FromFile: string(artifact),
		ToFile:   string(artifact) + " (generated)",
		Context:  contextLines,
	})
	if err != nil {
		return fmt.Errorf("diff %s: %w", artifact, err)
	}

	w.DisplayDiff(ctx, diff)

	return nil
}

func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}

	return difflib.SplitLines(string(content))
}
