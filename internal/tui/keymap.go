package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding

	// Controls
	Decrease         key.Binding
	Increase         key.Binding
	Toggle           key.Binding
	NextStakeholder  key.Binding
	NextDimension    key.Binding
	Reset            key.Binding
	SelectAllFocused key.Binding

	// Application
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),

		// Controls
		Decrease: key.NewBinding(
			key.WithKeys("h", "left", "-"),
			key.WithHelp("←/h", "decrease"),
		),
		Increase: key.NewBinding(
			key.WithKeys("l", "right", "+"),
			key.WithHelp("→/l", "increase"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x", "enter"),
			key.WithHelp("Space/x", "toggle"),
		),
		NextStakeholder: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next stakeholder"),
		),
		NextDimension: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "next grouping"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset filters"),
		),
		SelectAllFocused: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "select all in group"),
		),

		// Application
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/Esc", "quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Decrease, k.Increase, k.Toggle, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Decrease, k.Increase},
		{k.Toggle, k.SelectAllFocused, k.Reset},
		{k.NextStakeholder, k.NextDimension},
		{k.Help, k.Quit},
	}
}
