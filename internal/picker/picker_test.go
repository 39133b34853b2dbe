package picker

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func testItems() []string {
	return []string{"Books", "Preview", "Safari"}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCursorMovesAndWraps(t *testing.T) {
	m := New("apps", testItems())

	updated, _ := m.Update(key("down"))
	m = updated.(Model)
	if m.cursor != 1 {
		t.Errorf("cursor = %d after down, want 1", m.cursor)
	}

	updated, _ = m.Update(key("up"))
	m = updated.(Model)
	updated, _ = m.Update(key("up"))
	m = updated.(Model)
	if m.cursor != 2 {
		t.Errorf("cursor = %d after wrapping up, want 2", m.cursor)
	}

	updated, _ = m.Update(key("down"))
	m = updated.(Model)
	if m.cursor != 0 {
		t.Errorf("cursor = %d after wrapping down, want 0", m.cursor)
	}
}

func TestEnterSelectsItem(t *testing.T) {
	m := New("apps", testItems())

	updated, _ := m.Update(key("j"))
	m = updated.(Model)
	updated, cmd := m.Update(key("enter"))
	m = updated.(Model)

	if cmd == nil {
		t.Error("enter should quit the program")
	}
	choice := m.Choice()
	if choice != 1 {
		t.Fatalf("choice = %d, want 1", choice)
	}
	if got := testItems()[choice]; got != "Preview" {
		t.Errorf("choice = %s, want Preview", got)
	}
}

func TestQuitLeavesNoChoice(t *testing.T) {
	m := New("apps", testItems())

	updated, cmd := m.Update(key("q"))
	m = updated.(Model)

	if cmd == nil {
		t.Error("q should quit the program")
	}
	if m.Choice() != -1 {
		t.Error("quitting should not record a choice")
	}
}

func TestEmptyListSurvivesKeys(t *testing.T) {
	m := New("apps", nil)

	for _, k := range []string{"down", "up", "j", "k"} {
		updated, _ := m.Update(key(k))
		m = updated.(Model)
	}
	updated, _ := m.Update(key("enter"))
	m = updated.(Model)
	if m.Choice() != -1 {
		t.Error("empty list cannot yield a choice")
	}
}

func TestPromptCollectsTypedText(t *testing.T) {
	m := newPrompt("start page")

	for _, k := range []string{"1", "2", "44", "backspace"} {
		updated, _ := m.Update(key(k))
		m = updated.(promptModel)
	}
	updated, cmd := m.Update(key("enter"))
	m = updated.(promptModel)

	if cmd == nil {
		t.Error("enter should quit the prompt")
	}
	value, ok := m.Value()
	if !ok {
		t.Fatal("confirmed prompt reported cancellation")
	}
	if value != "124" {
		t.Errorf("value = %q, want 124", value)
	}
}

func TestPromptEscCancels(t *testing.T) {
	m := newPrompt("start page")

	updated, _ := m.Update(key("5"))
	m = updated.(promptModel)
	updated, cmd := m.Update(key("esc"))
	m = updated.(promptModel)

	if cmd == nil {
		t.Error("esc should quit the prompt")
	}
	if _, ok := m.Value(); ok {
		t.Error("cancelled prompt should not report a value")
	}
}

func TestConfirmAnswers(t *testing.T) {
	cases := []struct {
		name string
		def  bool
		key  string
		want bool
	}{
		{"explicit yes", false, "y", true},
		{"explicit no", true, "n", false},
		{"enter takes default no", false, "enter", false},
		{"enter takes default yes", true, "enter", true},
		{"esc declines", true, "esc", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := newConfirm("overwrite?", c.def)
			updated, cmd := m.Update(key(c.key))
			m = updated.(confirmModel)
			if cmd == nil {
				t.Error("answer should quit the program")
			}
			if m.Answer() != c.want {
				t.Errorf("answer = %v, want %v", m.Answer(), c.want)
			}
		})
	}
}
