package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Enter   key.Binding
	Escape  key.Binding

	// Search
	Search   key.Binding
	NextPage key.Binding
	PrevPage key.Binding

	// Library actions
	Save           key.Binding
	Unsave         key.Binding
	Block          key.Binding
	Unblock        key.Binding
	Remove         key.Binding
	ClearPreviews  key.Binding
	Collapse       key.Binding
	ClearBlocklist key.Binding
	Filter         key.Binding
	Sort           key.Binding
	Stop           key.Binding
	CustomURL      key.Binding
	Export         key.Binding
	Import         key.Binding

	// General
	Quit key.Binding
	Help key.Binding

	// Confirmations
	Confirm key.Binding
	Deny    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next view"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "previous view"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "load/play"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search/filter"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "previous page"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save repository"),
		),
		Unsave: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "unsave repository"),
		),
		Block: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "block repository"),
		),
		Unblock: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unblock"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "remove preview"),
		),
		ClearPreviews: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "clear previews"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "collapse/expand"),
		),
		ClearBlocklist: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "clear blocklist"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter"),
		),
		Sort: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "cycle sort"),
		),
		Stop: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "stop playback"),
		),
		CustomURL: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add custom url"),
		),
		Export: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "export library"),
		),
		Import: key.NewBinding(
			key.WithKeys("I"),
			key.WithHelp("I", "import library"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "cancel"),
		),
	}
}
