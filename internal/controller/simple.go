package controller

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	m "clar.dev/pkg/clargen/internal/model"
)

// SimpleUI implements UI using cobra Command's output streams.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayGenerated prints the one-line summary of a written artifact.
func (s *SimpleUI) DisplayGenerated(ctx context.Context, summary Summary) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Written `%s` (%d tests in %d suites)\n",
		filepath.Base(string(summary.Artifact)), summary.Callbacks, summary.Suites)
}

// DisplaySuites prints one row per suite.
func (s *SimpleUI) DisplaySuites(ctx context.Context, suites []m.Suite, format Format) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if format == FormatYAML {
		out, err := renderSuitesYAML(suites)
		if err != nil {
			return err
		}

		s.printf("%s", out)

		return nil
	}

	s.printf("%s", renderSuitesTable(suites))

	return nil
}

// DisplayDiff prints a unified diff; an empty diff prints nothing.
func (s *SimpleUI) DisplayDiff(ctx context.Context, diff string) {
	if err := ctx.Err(); err != nil {
		return
	}

	if diff == "" {
		return
	}

	s.printf("%s", diff)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

type suiteRow struct {
	Name        string `yaml:"name"`
	Module      string `yaml:"module"`
	Tests       int    `yaml:"tests"`
	Initializer string `yaml:"initialize,omitempty"`
	Reset       string `yaml:"reset,omitempty"`
	Cleanup     string `yaml:"cleanup,omitempty"`
	Enabled     bool   `yaml:"enabled"`
}

func symbolOf(fn *m.TestFunction) string {
	if fn == nil {
		return ""
	}

	return fn.Symbol
}

func buildSuiteRows(suites []m.Suite) []suiteRow {
	rows := make([]suiteRow, 0, len(suites))

	for _, suite := range suites {
		rows = append(rows, suiteRow{
			Name:        suite.DisplayName(),
			Module:      suite.Module.Name,
			Tests:       len(suite.Module.Callbacks),
			Initializer: symbolOf(suite.Initializer),
			Reset:       symbolOf(suite.Module.Reset),
			Cleanup:     symbolOf(suite.Module.Cleanup),
			Enabled:     suite.Module.Enabled,
		})
	}

	return rows
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}

	return "no"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

func renderSuitesTable(suites []m.Suite) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Suite", "Tests", "Initialize", "Reset", "Cleanup", "Enabled"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER,
	})

	tests := 0
	modules := make(map[string]struct{})

	for _, row := range buildSuiteRows(suites) {
		table.Append([]string{
			row.Name,
			strconv.Itoa(row.Tests),
			dash(row.Initializer),
			dash(row.Reset),
			dash(row.Cleanup),
			yesNo(row.Enabled),
		})

		if _, seen := modules[row.Module]; !seen {
			modules[row.Module] = struct{}{}
			tests += row.Tests
		}
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Suites %d", len(suites)),
		strconv.Itoa(tests),
		"", "", "", "",
	})

	table.Render()

	return tableBuffer.String()
}

func renderSuitesYAML(suites []m.Suite) (string, error) {
	out, err := yaml.Marshal(map[string][]suiteRow{"suites": buildSuiteRows(suites)})
	if err != nil {
		return "", fmt.Errorf("render yaml: %w", err)
	}

	return string(out), nil
}
