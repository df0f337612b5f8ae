package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Conversation
	Send     key.Binding
	Newline  key.Binding
	Feedback key.Binding
	Reset    key.Binding

	// Cards
	NextPage       key.Binding
	PrevPage       key.Binding
	ToggleDetails  key.Binding
	NextCategory   key.Binding
	PrevCategory   key.Binding
	ToggleCategory key.Binding
	FocusCard      key.Binding

	// Thread
	ScrollUp   key.Binding
	ScrollDown key.Binding

	// Application
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		Newline: key.NewBinding(
			key.WithKeys("alt+enter"),
			key.WithHelp("Alt+Enter", "new line"),
		),
		Feedback: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("Ctrl+F", "not helpful"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("Ctrl+R", "new conversation"),
		),

		NextPage: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("Ctrl+N", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("Ctrl+P", "previous page"),
		),
		ToggleDetails: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("Ctrl+D", "toggle details"),
		),
		NextCategory: key.NewBinding(
			key.WithKeys("ctrl+down"),
			key.WithHelp("Ctrl+↓", "next category"),
		),
		PrevCategory: key.NewBinding(
			key.WithKeys("ctrl+up"),
			key.WithHelp("Ctrl+↑", "previous category"),
		),
		ToggleCategory: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("Ctrl+E", "expand category"),
		),
		FocusCard: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next card"),
		),

		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll down"),
		),

		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("Esc", "quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.FocusCard, k.ToggleDetails, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.Newline, k.Feedback, k.Reset},
		{k.NextPage, k.PrevPage, k.ToggleDetails, k.FocusCard},
		{k.NextCategory, k.PrevCategory, k.ToggleCategory},
		{k.ScrollUp, k.ScrollDown, k.Help, k.Quit},
	}
}
