// Package ui provides the Bubble Tea TUI for the pricegraph ladder
// viewer.
package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	Quit     key.Binding
	Pause    key.Binding
	Clear    key.Binding
	HopsUp   key.Binding
	HopsDown key.Binding
	Atoms    key.Binding
	Help     key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear errors"),
		),
		HopsUp: key.NewBinding(
			key.WithKeys("+", "]"),
			key.WithHelp("]", "more hops"),
		),
		HopsDown: key.NewBinding(
			key.WithKeys("-", "["),
			key.WithHelp("[", "fewer hops"),
		),
		Atoms: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "toggle atoms"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Pause, k.HopsUp, k.HopsDown, k.Atoms, k.Help}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Quit, k.Pause, k.Clear},
		{k.HopsUp, k.HopsDown, k.Atoms, k.Help},
	}
}
