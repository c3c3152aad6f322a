package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next    key.Binding
	Back    key.Binding
	Add     key.Binding
	Cycle   key.Binding
	Toggle  key.Binding
	Export  key.Binding
	Save    key.Binding
	Another key.Binding
	Discard key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Next:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "next step")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Add:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
		Cycle:   key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "fields")),
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Export:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Save:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save draft")),
		Another: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add another chain")),
		Discard: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "discard chain")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// formHelp is the footer for data-entry steps.
func (k keyMap) formHelp() []key.Binding {
	return []key.Binding{k.Add, k.Cycle, k.Next, k.Back, k.Quit}
}

// reviewHelp is the footer for the review step.
func (k keyMap) reviewHelp() []key.Binding {
	return []key.Binding{k.Export, k.Save, k.Another, k.Discard, k.Back, k.Quit}
}
