// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the playground.
type KeyMap struct {
	// Tab management
	NextTab  key.Binding
	PrevTab  key.Binding
	NewTab   key.Binding
	CloseTab key.Binding

	// Panel operations
	SplitVertical   key.Binding
	SplitHorizontal key.Binding
	ClosePanel      key.Binding
	MoveToNewTab    key.Binding
	NextPanel       key.Binding

	// Drag and drop
	GrabPanel key.Binding
	GrabTab   key.Binding

	// Sidebar
	Sidebar key.Binding
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding

	// General
	Help   key.Binding
	Logs   key.Binding
	Escape key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextTab: key.NewBinding(
			key.WithKeys("tab", "]"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "["),
			key.WithHelp("shift+tab", "previous tab"),
		),
		NewTab: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new tab"),
		),
		CloseTab: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "close tab"),
		),

		SplitVertical: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "split vertical"),
		),
		SplitHorizontal: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "split horizontal"),
		),
		ClosePanel: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close panel"),
		),
		MoveToNewTab: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "move panel to new tab"),
		),
		NextPanel: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "next panel"),
		),

		GrabPanel: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "grab panel"),
		),
		GrabTab: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "grab tab"),
		),

		Sidebar: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "toggle sidebar"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "move down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "grab connection"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Logs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "log view"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.NewTab, k.SplitVertical, k.SplitHorizontal, k.ClosePanel,
		k.GrabPanel, k.Sidebar, k.Help, k.Quit,
	}
}

// FullHelp returns all bindings grouped for the help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.NewTab, k.CloseTab},
		{k.SplitVertical, k.SplitHorizontal, k.ClosePanel, k.MoveToNewTab, k.NextPanel},
		{k.GrabPanel, k.GrabTab, k.Enter, k.Escape},
		{k.Sidebar, k.Up, k.Down, k.Help, k.Logs, k.Quit},
	}
}
