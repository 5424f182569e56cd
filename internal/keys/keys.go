// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the chords that work regardless of focus. They all use a
// modifier so they never collide with text typed into an editor pane.
type KeyMap struct {
	// Panes
	FocusNext  key.Binding
	FocusPrev  key.Binding
	Split      key.Binding
	ClosePane  key.Binding
	FocusFiles key.Binding

	// Terminal split
	GrowTerminal   key.Binding
	ShrinkTerminal key.Binding

	// Project
	Save          key.Binding
	Refresh       key.Binding
	SwitchProject key.Binding

	// General
	ToggleStatus key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default global keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		FocusNext: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next pane"),
		),
		FocusPrev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous pane"),
		),
		Split: key.NewBinding(
			key.WithKeys(`ctrl+\`),
			key.WithHelp(`ctrl+\`, "split (add pane)"),
		),
		ClosePane: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("ctrl+w", "close pane"),
		),
		FocusFiles: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "focus file list"),
		),

		GrowTerminal: key.NewBinding(
			key.WithKeys("ctrl+up"),
			key.WithHelp("ctrl+↑", "grow terminal"),
		),
		ShrinkTerminal: key.NewBinding(
			key.WithKeys("ctrl+down"),
			key.WithHelp("ctrl+↓", "shrink terminal"),
		),

		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save project"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reload file list"),
		),
		SwitchProject: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "switch project"),
		),

		ToggleStatus: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "toggle status bar"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Split, k.ClosePane, k.Save, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.FocusNext, k.FocusPrev, k.Split, k.ClosePane, k.FocusFiles}, // Panes
		{k.GrowTerminal, k.ShrinkTerminal},                             // Terminal
		{k.Save, k.Refresh, k.SwitchProject},                           // Project
		{k.ToggleStatus, k.Help, k.Quit},                               // General
	}
}

// ListKeyMap defines the keybindings active while the file list has focus.
type ListKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Top  key.Binding
	End  key.Binding

	// Open shows the selected file in the focused (or first visible) pane.
	Open key.Binding
	// OpenSplit shows the selected file in a newly added pane.
	OpenSplit key.Binding

	Help key.Binding
	Quit key.Binding
}

// DefaultListKeyMap returns the keybindings for the file list.
func DefaultListKeyMap() ListKeyMap {
	return ListKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first file"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last file"),
		),
		Open: key.NewBinding(
			key.WithKeys("o", "enter"),
			key.WithHelp("o/enter", "open in pane"),
		),
		OpenSplit: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "open in new pane"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k ListKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.OpenSplit, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k ListKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.End},
		{k.Open, k.OpenSplit},
		{k.Help, k.Quit},
	}
}
