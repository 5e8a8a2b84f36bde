package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	left   key.Binding
	right  key.Binding
	top    key.Binding
	bottom key.Binding
	help   key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "snap left")),
		right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "snap right")),
		top:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "snap top")),
		bottom: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "snap bottom")),
		help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.left, k.right, k.top, k.bottom, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.left, k.right, k.top, k.bottom},
		{k.help, k.quit},
	}
}
