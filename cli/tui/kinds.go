package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KindRow is one registered transport kind in the browser.
type KindRow struct {
	Kind     string   `json:"kind"`
	Summary  string   `json:"summary"`
	Required []string `json:"required,omitempty"`
	Optional []string `json:"optional,omitempty"`
}

// keyMap defines the browser key bindings.
type keyMap struct {
	Up   key.Binding
	Down key.Binding
	Quit key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// KindsModel is a Bubble Tea model that browses registered kinds.
type KindsModel struct {
	rows     []KindRow
	cursor   int
	quitting bool
}

// NewKindsModel creates a browser over the given rows.
func NewKindsModel(rows []KindRow) KindsModel {
	return KindsModel{rows: rows}
}

// Init implements tea.Model.
func (m KindsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m KindsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m KindsModel) View() string {
	if m.quitting {
		return ""
	}
	if len(m.rows) == 0 {
		return TitleStyle.Render("Transport kinds") + "\n(no kinds registered)\n"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Transport kinds"))
	b.WriteString("\n")

	for i, row := range m.rows {
		line := fmt.Sprintf("  %s", row.Kind)
		if i == m.cursor {
			line = SelectedStyle.Render(fmt.Sprintf("> %s", row.Kind))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	selected := m.rows[m.cursor]
	detail := strings.Join([]string{
		LabelStyle.Render("summary") + selected.Summary,
		LabelStyle.Render("required") + strings.Join(selected.Required, ", "),
		LabelStyle.Render("optional") + strings.Join(selected.Optional, ", "),
	}, "\n")
	b.WriteString(BoxStyle.Render(detail))
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("↑/↓ navigate · q quit"))
	b.WriteString("\n")

	return b.String()
}

// RunKinds starts the kinds browser.
func RunKinds(rows []KindRow) error {
	p := tea.NewProgram(NewKindsModel(rows))
	_, err := p.Run()
	return err
}
