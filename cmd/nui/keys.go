package main

import "github.com/charmbracelet/bubbles/key"

// NormalKeyMap defines key bindings while browsing
type NormalKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	Back      key.Binding
	BackAlt   key.Binding
	Home      key.Binding
	Watchlist key.Binding
	Toggle    key.Binding
	Language  key.Binding
	Search    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var normalKeys = NormalKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Back: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "back"),
	),
	BackAlt: key.NewBinding(
		key.WithKeys("backspace"),
		key.WithHelp("bs", "back"),
	),
	Home: key.NewBinding(
		key.WithKeys("~"),
		key.WithHelp("~", "home"),
	),
	Watchlist: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "watchlist"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add/remove"),
	),
	Language: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "language"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// SearchKeyMap defines key bindings while the search box has focus
type SearchKeyMap struct {
	Confirm  key.Binding
	Cancel   key.Binding
	NextItem key.Binding
	PrevItem key.Binding
	Leave    key.Binding
	Quit     key.Binding
}

var searchKeys = SearchKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "go"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close"),
	),
	NextItem: key.NewBinding(
		key.WithKeys("ctrl+j", "down"),
		key.WithHelp("ctrl+j", "next"),
	),
	PrevItem: key.NewBinding(
		key.WithKeys("ctrl+k", "up"),
		key.WithHelp("ctrl+k", "prev"),
	),
	Leave: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "leave"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}
