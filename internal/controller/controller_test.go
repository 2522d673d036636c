package controller

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	m "clar.dev/pkg/clargen/internal/model"
)

func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	return cmd, &buf
}

func sampleSuites() []m.Suite {
	registry := m.NewRegistry()

	clone := registry.Get("core_clone", "clar", "test")
	clone.SetFunctions([]m.TestFunction{
		{ShortName: "initialize_bare", Symbol: "test_core_clone__initialize_bare"},
		{ShortName: "basic", Symbol: "test_core_clone__basic"},
		{ShortName: "local", Symbol: "test_core_clone__local"},
		{ShortName: "cleanup", Symbol: "test_core_clone__cleanup"},
	})

	refs := registry.Get("refs", "clar", "test")
	refs.SetFunctions([]m.TestFunction{{ShortName: "read", Symbol: "test_refs__read"}})
	refs.Enabled = false

	return registry.Suites()
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatTable},
		{in: "table", want: FormatTable},
		{in: "yaml", want: FormatYAML},
		{in: "json", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}

		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewUI(t *testing.T) {
	cmd, _ := newTestCmd()

	if _, ok := NewUI(cmd, false).(*SimpleUI); !ok {
		t.Error("expected SimpleUI without a terminal")
	}

	if _, ok := NewUI(cmd, true).(*TUI); !ok {
		t.Error("expected TUI on a terminal")
	}
}

func TestSimpleUI_DisplayGenerated(t *testing.T) {
	cmd, buf := newTestCmd()
	ui := NewSimpleUI(cmd)

	ui.DisplayGenerated(context.Background(), Summary{Artifact: "tests/clar.suite", Callbacks: 12, Suites: 4})

	if got, want := buf.String(), "Written `clar.suite` (12 tests in 4 suites)\n"; got != want {
		t.Errorf("DisplayGenerated() = %q, want %q", got, want)
	}
}

func TestSimpleUI_DisplayGenerated_CancelledContext(t *testing.T) {
	cmd, buf := newTestCmd()
	ui := NewSimpleUI(cmd)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ui.DisplayGenerated(ctx, Summary{Artifact: "clar.suite"})

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestSimpleUI_DisplaySuites_Table(t *testing.T) {
	cmd, buf := newTestCmd()
	ui := NewSimpleUI(cmd)

	if err := ui.DisplaySuites(context.Background(), sampleSuites(), FormatTable); err != nil {
		t.Fatalf("DisplaySuites() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"SUITE",
		"core::clone (bare)",
		"test_core_clone__initialize_bare",
		"test_core_clone__cleanup",
		"refs",
		"TOTAL SUITES 2",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("table output should contain %q, got:\n%s", want, output)
		}
	}
}

func TestSimpleUI_DisplaySuites_YAML(t *testing.T) {
	cmd, buf := newTestCmd()
	ui := NewSimpleUI(cmd)

	if err := ui.DisplaySuites(context.Background(), sampleSuites(), FormatYAML); err != nil {
		t.Fatalf("DisplaySuites() error = %v", err)
	}

	var doc map[string][]suiteRow
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not yaml: %v\n%s", err, buf.String())
	}

	rows := doc["suites"]
	if len(rows) != 2 {
		t.Fatalf("expected 2 suites, got %d", len(rows))
	}

	want := suiteRow{
		Name:        "core::clone (bare)",
		Module:      "core_clone",
		Tests:       2,
		Initializer: "test_core_clone__initialize_bare",
		Cleanup:     "test_core_clone__cleanup",
		Enabled:     true,
	}
	if rows[0] != want {
		t.Errorf("rows[0] = %+v, want %+v", rows[0], want)
	}

	if rows[1].Name != "refs" || rows[1].Enabled {
		t.Errorf("rows[1] = %+v, want disabled refs", rows[1])
	}
}

func TestSimpleUI_DisplayDiff(t *testing.T) {
	cmd, buf := newTestCmd()
	ui := NewSimpleUI(cmd)

	ui.DisplayDiff(context.Background(), "")
	if buf.Len() != 0 {
		t.Errorf("empty diff should print nothing, got %q", buf.String())
	}

	ui.DisplayDiff(context.Background(), "--- a\n+++ b\n")
	if buf.String() != "--- a\n+++ b\n" {
		t.Errorf("unexpected diff output %q", buf.String())
	}
}

func TestTUI_DisplaySuites_PrintsOnceWhenItFits(t *testing.T) {
	cmd, buf := newTestCmd()
	ui := NewTUI(cmd)

	if err := ui.DisplaySuites(context.Background(), sampleSuites(), FormatTable); err != nil {
		t.Fatalf("DisplaySuites() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "core::clone (bare)") {
		t.Errorf("output should contain the suite name, got:\n%s", output)
	}

	if !strings.Contains(output, "2 suites, 3 tests") {
		t.Errorf("output should contain the footer, got:\n%s", output)
	}
}

func TestTUI_DisplaySuites_YAMLFallsBack(t *testing.T) {
	cmd, buf := newTestCmd()
	ui := NewTUI(cmd)

	if err := ui.DisplaySuites(context.Background(), sampleSuites(), FormatYAML); err != nil {
		t.Fatalf("DisplaySuites() error = %v", err)
	}

	if !strings.HasPrefix(buf.String(), "suites:\n") {
		t.Errorf("expected yaml output, got:\n%s", buf.String())
	}
}

func TestSuiteTableModel(t *testing.T) {
	model := newSuiteTableModel(sampleSuites())

	if model.needsPagination() {
		t.Error("model without a known height should not paginate")
	}

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 5})
	model = updated.(suiteTableModel)

	if !model.needsPagination() {
		t.Error("two rows do not fit into five lines")
	}

	if !strings.Contains(model.View(), "q quit") {
		t.Errorf("paginated view should show key help, got:\n%s", model.View())
	}

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}

	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
