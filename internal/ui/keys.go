package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle         key.Binding
	ToggleAll      key.Binding
	Delete         key.Binding
	DeleteSelected key.Binding
	Export         key.Binding
	Clear          key.Binding
	Open           key.Binding
	Quit           key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select"),
		),
		ToggleAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "select all"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete row"),
		),
		DeleteSelected: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete selected"),
		),
		Export: key.NewBinding(
			key.WithKeys("e", "s"),
			key.WithHelp("e", "export"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open file"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// setHasData enables the actions that need records, the way the export and
// clear buttons are greyed out when nothing is loaded.
func (k *keyMap) setHasData(hasData bool) {
	k.Toggle.SetEnabled(hasData)
	k.ToggleAll.SetEnabled(hasData)
	k.Delete.SetEnabled(hasData)
	k.DeleteSelected.SetEnabled(hasData)
	k.Export.SetEnabled(hasData)
	k.Clear.SetEnabled(hasData)
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Delete, k.DeleteSelected, k.Export, k.Clear, k.Open, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.ToggleAll},
		{k.Delete, k.DeleteSelected},
		{k.Export, k.Clear, k.Open, k.Quit},
	}
}
