// Package controller provides output adapters for displaying generation results.
package controller

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "clar.dev/pkg/clargen/internal/model"
)

// Format selects how suite listings are rendered.
type Format string

// Available Format values.
const (
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(value string) (Format, error) {
	switch Format(value) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatYAML:
		return FormatYAML, nil
	}

	return "", fmt.Errorf("unsupported format %q (want %s or %s)", value, FormatTable, FormatYAML)
}

// Summary describes a written artifact.
type Summary struct {
	Artifact  m.Path
	Callbacks int
	Suites    int
}

// UI defines how the workflow reports back to the user.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	DisplayGenerated(ctx context.Context, summary Summary)
	DisplaySuites(ctx context.Context, suites []m.Suite, format Format) error
	DisplayDiff(ctx context.Context, diff string)
}

// NewUI picks the interactive UI when stdout is a terminal.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}
