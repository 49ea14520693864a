package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	Search    key.Binding
	NextAsset key.Binding
	PrevAsset key.Binding
	Clear     key.Binding
	Help      key.Binding
	Accept    key.Binding
	Cancel    key.Binding
}

var keys = keyMap{
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	NextAsset: key.NewBinding(key.WithKeys("a", "right"), key.WithHelp("a", "next asset")),
	PrevAsset: key.NewBinding(key.WithKeys("A", "left"), key.WithHelp("A", "prev asset")),
	Clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Accept:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
	Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.NextAsset, k.Clear, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Accept, k.Cancel},
		{k.NextAsset, k.PrevAsset, k.Clear},
		{k.Help, k.Quit},
	}
}
