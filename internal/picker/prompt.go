package picker

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// promptModel is a single-line text input.
type promptModel struct {
	label     string
	value     []rune
	cancelled bool
	quitting  bool
}

func newPrompt(label string) promptModel {
	return promptModel{label: label}
}

func (m promptModel) Init() tea.Cmd {
	return nil
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyEnter:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEsc, tea.KeyCtrlC:
		m.cancelled = true
		m.quitting = true
		return m, tea.Quit
	case tea.KeyBackspace:
		if len(m.value) > 0 {
			m.value = m.value[:len(m.value)-1]
		}
	case tea.KeySpace:
		m.value = append(m.value, ' ')
	case tea.KeyRunes:
		m.value = append(m.value, key.Runes...)
	}
	return m, nil
}

func (m promptModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.label))
	b.WriteString("\n\n")
	b.WriteString(selectedStyle.Render(fmt.Sprintf("→ %s█", string(m.value))))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter confirm · esc cancel"))
	b.WriteString("\n")
	return b.String()
}

// Value returns the entered text and whether the prompt was confirmed.
func (m promptModel) Value() (string, bool) {
	if m.cancelled {
		return "", false
	}
	return strings.TrimSpace(string(m.value)), true
}

// Prompt asks for a single line of text. ok is false when the user
// cancelled.
func Prompt(label string) (value string, ok bool, err error) {
	final, err := tea.NewProgram(newPrompt(label)).Run()
	if err != nil {
		return "", false, err
	}
	m, isPrompt := final.(promptModel)
	if !isPrompt {
		return "", false, fmt.Errorf("unexpected model type %T", final)
	}
	value, ok = m.Value()
	return value, ok, nil
}

// confirmModel is a yes/no question.
type confirmModel struct {
	question string
	def      bool
	answer   bool
	quitting bool
}

func newConfirm(question string, def bool) confirmModel {
	return confirmModel{question: question, def: def, answer: def}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.answer = true
		m.quitting = true
		return m, tea.Quit
	case "n", "N":
		m.answer = false
		m.quitting = true
		return m, tea.Quit
	case keyEnter:
		m.answer = m.def
		m.quitting = true
		return m, tea.Quit
	case keyEsc, keyCtrlC:
		m.answer = false
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.quitting {
		return ""
	}
	hint := "[y/N]"
	if m.def {
		hint = "[Y/n]"
	}
	return titleStyle.Render(m.question) + " " + helpStyle.Render(hint) + "\n"
}

// Answer returns the user's decision.
func (m confirmModel) Answer() bool {
	return m.answer
}

// Confirm asks a yes/no question, falling back to def on a bare Enter.
func Confirm(question string, def bool) (bool, error) {
	final, err := tea.NewProgram(newConfirm(question, def)).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(confirmModel)
	if !ok {
		return false, fmt.Errorf("unexpected model type %T", final)
	}
	return m.Answer(), nil
}
