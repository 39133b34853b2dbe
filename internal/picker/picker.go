// Package picker holds the interactive terminal prompts: a list selector
// navigated with arrow keys, a single-line text prompt, and a yes/no
// confirmation.
package picker

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Key bindings handled by Update.
const (
	keyQuit  = "q"
	keyEsc   = "esc"
	keyCtrlC = "ctrl+c"
	keyUp    = "up"
	keyDown  = "down"
	keyJ     = "j"
	keyK     = "k"
	keyEnter = "enter"
)

// Model is the bubbletea model for a selectable list.
type Model struct {
	title    string
	items    []string
	cursor   int
	choice   int
	quitting bool
	height   int
}

// New creates a list selector over the given items.
func New(title string, items []string) Model {
	return Model{title: title, items: items, choice: -1}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit, keyEsc, keyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case keyUp, keyK:
		if len(m.items) > 0 {
			m.cursor = (m.cursor - 1 + len(m.items)) % len(m.items)
		}
	case keyDown, keyJ:
		if len(m.items) > 0 {
			m.cursor = (m.cursor + 1) % len(m.items)
		}
	case keyEnter:
		if len(m.items) > 0 {
			m.choice = m.cursor
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	for i, item := range m.items {
		var line string
		if i == m.cursor {
			line = selectedStyle.Render(fmt.Sprintf("→ %s", item))
		} else {
			line = itemStyle.Render(fmt.Sprintf("  %s", item))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ move · enter select · q quit"))
	b.WriteString("\n")
	return b.String()
}

// Choice returns the index of the selected item, or -1 when the user quit.
func (m Model) Choice() int {
	return m.choice
}

// Pick runs the list selector and returns the index of the user's selection,
// or -1 when the user backed out.
func Pick(title string, items []string) (int, error) {
	final, err := tea.NewProgram(New(title, items)).Run()
	if err != nil {
		return -1, err
	}
	m, ok := final.(Model)
	if !ok {
		return -1, fmt.Errorf("unexpected model type %T", final)
	}
	return m.Choice(), nil
}
