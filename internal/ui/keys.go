package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit       key.Binding
	Help       key.Binding
	Menu       key.Binding
	Enter      key.Binding
	Back       key.Binding
	Done       key.Binding
	Refresh    key.Binding
	Search     key.Binding
	Open       key.Binding
	ClearCache key.Binding
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
}

var Keys = KeyMap{
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Menu:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "menu")),
	Enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Done:       key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter/esc", "done")),
	Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Open:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open homepage")),
	ClearCache: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear cache")),
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "down")),
	PageUp:     key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown:   key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
}
