package tui

import "github.com/charmbracelet/bubbles/key"

type studioKeys struct {
	Toggle  key.Binding
	Share   key.Binding
	Save    key.Binding
	Message key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newStudioKeys() studioKeys {
	return studioKeys{
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Share:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "share")),
		Save:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "save card")),
		Message: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "message")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k studioKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Share, k.Save, k.Help, k.Quit}
}

func (k studioKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Share, k.Save},
		{k.Message, k.Help, k.Quit},
	}
}

type searchKeys struct {
	Submit key.Binding
	Up     key.Binding
	Down   key.Binding
	Clear  key.Binding
	Quit   key.Binding
}

func newSearchKeys() searchKeys {
	return searchKeys{
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search/open")),
		Up:     key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "down")),
		Clear:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k searchKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Up, k.Down, k.Clear, k.Quit}
}

func (k searchKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
