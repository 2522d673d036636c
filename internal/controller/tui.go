package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "clar.dev/pkg/clargen/internal/model"
)

var (
	baseStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
	footerStyle = lipgloss.NewStyle().Faint(true)
)

// chrome is the number of terminal lines used around the table rows:
// borders, header, header rule and footer.
const chrome = 6

// TUI implements UI with a Bubble Tea table for suite listings. Everything
// else is plain output shared with SimpleUI.
type TUI struct {
	*SimpleUI

	output io.Writer
	input  io.Reader
}

// NewTUI creates a new TUI writing to the command's output stream.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{
		SimpleUI: NewSimpleUI(cmd),
		output:   cmd.OutOrStdout(),
		input:    cmd.InOrStdin(),
	}
}

// DisplaySuites shows the suites in an interactive table. Short listings are
// printed once without taking over the terminal.
func (p *TUI) DisplaySuites(ctx context.Context, suites []m.Suite, format Format) error {
	if format != FormatTable {
		return p.SimpleUI.DisplaySuites(ctx, suites, format)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	model := newSuiteTableModel(suites)

	if f, ok := p.output.(*os.File); ok {
		if width, height, err := term.GetSize(int(f.Fd())); err == nil {
			model.resize(width, height)
		}
	}

	if !model.needsPagination() {
		_, err := fmt.Fprint(p.output, model.View())
		return err
	}

	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithOutput(p.output),
		tea.WithInput(p.input),
		tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

type suiteTableModel struct {
	table  table.Model
	total  int
	tests  int
	height int
}

func suiteColumns(width int) []table.Column {
	nameWidth := 32
	if width > 0 {
		nameWidth = max(24, width/3)
	}

	return []table.Column{
		{Title: "Suite", Width: nameWidth},
		{Title: "Tests", Width: 6},
		{Title: "Initialize", Width: 28},
		{Title: "Reset", Width: 8},
		{Title: "Cleanup", Width: 8},
		{Title: "Enabled", Width: 8},
	}
}

func newSuiteTableModel(suites []m.Suite) suiteTableModel {
	rows := make([]table.Row, 0, len(suites))
	tests := 0
	seen := make(map[string]struct{})

	for _, row := range buildSuiteRows(suites) {
		rows = append(rows, table.Row{
			row.Name,
			strconv.Itoa(row.Tests),
			dash(row.Initializer),
			yesNo(row.Reset != ""),
			yesNo(row.Cleanup != ""),
			yesNo(row.Enabled),
		})

		if _, ok := seen[row.Module]; !ok {
			seen[row.Module] = struct{}{}
			tests += row.Tests
		}
	}

	t := table.New(
		table.WithColumns(suiteColumns(0)),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(len(rows)),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(styles)

	return suiteTableModel{table: t, total: len(rows), tests: tests}
}

func (s *suiteTableModel) resize(width, height int) {
	s.height = height
	s.table.SetColumns(suiteColumns(width))

	if height > chrome {
		s.table.SetHeight(min(s.total, height-chrome))
	}
}

func (s suiteTableModel) needsPagination() bool {
	return s.height > 0 && s.total+chrome > s.height
}

func (s suiteTableModel) Init() tea.Cmd {
	return nil
}

func (s suiteTableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.resize(msg.Width, msg.Height)
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return s, tea.Quit
		}
	}

	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)

	return s, cmd
}

func (s suiteTableModel) View() string {
	footer := fmt.Sprintf("%d suites, %d tests", s.total, s.tests)
	if s.needsPagination() {
		footer += "  ↑/↓ scroll • q quit"
	}

	return baseStyle.Render(s.table.View()) + "\n" + footerStyle.Render(footer) + "\n"
}
