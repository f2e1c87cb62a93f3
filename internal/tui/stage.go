// Package tui is the interactive line picker in front of the staging
// engine: it renders the current hunks, lets the user toggle individual
// lines and applies the selection in one StageLines call.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avoro/tvc/internal/diff"
	"github.com/avoro/tvc/internal/repo"
	"github.com/avoro/tvc/internal/staging"
)

var (
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	addStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	removeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	selectedStyle = lipgloss.NewStyle().Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// row is one display line: either a hunk header or a diff line.
type row struct {
	header string
	line   diff.Line
}

func (r *row) selectable() bool {
	return r.header == "" && r.line.Origin != diff.Context
}

type model struct {
	repo *repo.Repository
	path string
	dir  staging.Direction

	rows     []row
	cursor   int
	selected map[diff.LinePosition]bool

	applied bool
	err     error
}

func newModel(r *repo.Repository, path string, dir staging.Direction) (model, error) {
	hunks, err := staging.HunksFor(r, path, dir)
	if err != nil {
		return model{}, err
	}
	if len(hunks) == 0 {
		return model{}, fmt.Errorf("no pending changes for %q in %s direction", path, dir)
	}

	var rows []row
	for i := range hunks {
		hunk := &hunks[i]
		rows = append(rows, row{header: hunk.Header()})
		for _, line := range hunk.Lines {
			rows = append(rows, row{line: line})
		}
	}

	m := model{
		repo:     r,
		path:     path,
		dir:      dir,
		rows:     rows,
		selected: make(map[diff.LinePosition]bool),
	}
	m.cursor = m.nextSelectable(-1)
	return m, nil
}

func (m model) Init() tea.Cmd {
	return nil
}

// nextSelectable returns the first selectable row after from, or from when
// there is none.
func (m model) nextSelectable(from int) int {
	for i := from + 1; i < len(m.rows); i++ {
		if m.rows[i].selectable() {
			return i
		}
	}
	return from
}

func (m model) prevSelectable(from int) int {
	for i := from - 1; i >= 0; i-- {
		if m.rows[i].selectable() {
			return i
		}
	}
	return from
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit

	case "down", "j":
		m.cursor = m.nextSelectable(m.cursor)

	case "up", "k":
		m.cursor = m.prevSelectable(m.cursor)

	case " ":
		if m.cursor >= 0 && m.cursor < len(m.rows) && m.rows[m.cursor].selectable() {
			pos := m.rows[m.cursor].line.Position
			if m.selected[pos] {
				delete(m.selected, pos)
			} else {
				m.selected[pos] = true
			}
		}

	case "enter":
		selection := make([]diff.LinePosition, 0, len(m.selected))
		for i := range m.rows {
			if m.rows[i].selectable() && m.selected[m.rows[i].line.Position] {
				selection = append(selection, m.rows[i].line.Position)
			}
		}
		m.err = staging.StageLines(m.repo, m.path, m.dir, selection)
		m.applied = m.err == nil && len(selection) > 0
		return m, tea.Quit
	}

	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n\n", m.dir, m.path)

	for i := range m.rows {
		r := &m.rows[i]
		if r.header != "" {
			b.WriteString(headerStyle.Render(r.header))
			b.WriteByte('\n')
			continue
		}

		marker := "   "
		if r.selectable() {
			if m.selected[r.line.Position] {
				marker = "[x]"
			} else {
				marker = "[ ]"
			}
		}

		text := fmt.Sprintf("%s %c%s", marker, r.line.Origin, strings.TrimSuffix(r.line.Content, "\n"))
		switch {
		case i == m.cursor:
			text = cursorStyle.Render(text)
		case m.selected[r.line.Position] && r.selectable():
			text = selectedStyle.Render(text)
		case r.line.Origin == diff.Addition:
			text = addStyle.Render(text)
		case r.line.Origin == diff.Deletion:
			text = removeStyle.Render(text)
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}

	b.WriteString(helpStyle.Render("\nspace toggle · enter apply · q quit\n"))
	return b.String()
}

// Run opens the picker for one file and direction and applies the collected
// selection when the user confirms.
func Run(r *repo.Repository, path string, dir staging.Direction) error {
	m, err := newModel(r, path, dir)
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}

	fm, ok := final.(model)
	if !ok {
		return nil
	}
	if fm.err != nil {
		return fm.err
	}
	if fm.applied {
		fmt.Printf("%sd %d line(s) of %s\n", dir, len(fm.selected), path)
	}
	return nil
}
