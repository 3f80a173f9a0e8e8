package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the workspace view.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding // directory: expand/collapse, file: preview

	Refresh  key.Binding
	Download key.Binding
	Upload   key.Binding
	Delete   key.Binding

	StopStream   key.Binding
	ClosePreview key.Binding
	Quit         key.Binding
}

// DefaultKeyMap is the built-in key binding set. Vim-style navigation
// alongside arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "open"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Download: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "download"),
	),
	Upload: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "upload"),
	),
	Delete: key.NewBinding(
		key.WithKeys("x", "delete"),
		key.WithHelp("x", "delete"),
	),
	StopStream: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "stop agent"),
	),
	ClosePreview: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
