package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ---------------------------------------------------------------------------
// Reusable form helpers
// ---------------------------------------------------------------------------
// Each step form is a fixed list of fields with one focused at a time.
// These helpers keep focus-cycling and textinput focus state in sync so
// the per-step handlers only deal with submit semantics.

// formNav provides shared focus-cycling for step forms with a fixed
// number of fields.
type formNav struct {
	fieldCount int
	focusIdx   int
}

// handleNav processes a navigation key. Returns true if focus changed.
func (n *formNav) handleNav(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "tab", "down":
		n.focusIdx = (n.focusIdx + 1) % n.fieldCount
		return true
	case "shift+tab", "up":
		n.focusIdx = (n.focusIdx - 1 + n.fieldCount) % n.fieldCount
		return true
	}
	return false
}

func (n *formNav) reset(fieldCount int) {
	n.fieldCount = fieldCount
	n.focusIdx = 0
}

// newInput builds a textinput with the wizard's defaults.
func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Prompt = ""
	return in
}

// syncFocus focuses exactly the input at idx and blurs the rest.
// Inputs positioned after non-text fields (toggles) pass idx == -1.
func syncFocus(inputs []*textinput.Model, idx int) {
	for i, in := range inputs {
		if i == idx {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

// updateFocused forwards a key to the focused input, if any.
func updateFocused(inputs []*textinput.Model, idx int, msg tea.Msg) tea.Cmd {
	if idx < 0 || idx >= len(inputs) {
		return nil
	}
	var cmd tea.Cmd
	*inputs[idx], cmd = inputs[idx].Update(msg)
	return cmd
}

// resetInputs clears values and cursors after a successful add.
func resetInputs(inputs ...*textinput.Model) {
	for _, in := range inputs {
		in.SetValue("")
		in.SetCursor(0)
	}
}
