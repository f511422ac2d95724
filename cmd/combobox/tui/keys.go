package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of a Select.
type KeyMap struct {
	Open   key.Binding // closed: open the list
	Up     key.Binding
	Down   key.Binding
	Commit key.Binding // open: select the focused option
	Close  key.Binding // open: dismiss without change
	Leave  key.Binding // open: dismiss and move focus on
	Remove key.Binding // multi: remove the last tag when the query is empty
}

// ShortHelp returns keybindings to show in compact help.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Commit, k.Close}
}

// FullHelp returns keybindings for expanded help.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open, k.Up, k.Down},
		{k.Commit, k.Close, k.Leave, k.Remove},
	}
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Open: key.NewBinding(
			key.WithKeys("enter", " ", "down"),
			key.WithHelp("enter", "open"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "down"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Leave: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "next field"),
		),
		Remove: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("⌫", "remove last"),
		),
	}
}
