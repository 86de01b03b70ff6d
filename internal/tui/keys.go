package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit key.Binding
	Back key.Binding

	// Navigation
	Editor   key.Binding
	History  key.Binding
	Settings key.Binding

	// Actions
	Select  key.Binding
	New     key.Binding
	Add     key.Binding
	Delete  key.Binding
	Save    key.Binding
	Export  key.Binding
	Upload  key.Binding
	ClearQR key.Binding

	// Movement
	Up   key.Binding
	Down key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Back:     key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	Editor:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "invoice")),
	History:  key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
	Settings: key.NewBinding(key.WithKeys(","), key.WithHelp(",", "settings")),
	Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	New:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new invoice")),
	Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add item")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove item")),
	Save:     key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
	Export:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
	Upload:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "custom QR")),
	ClearQR:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear QR")),
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
}
