package keyboard

import "github.com/charmbracelet/bubbles/key"

type Map struct {
	ToggleRun  key.Binding
	ToggleLogs key.Binding
	Follow     key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Quit       key.Binding
}

func New() Map {
	return Map{
		ToggleRun: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start/stop"),
		),
		ToggleLogs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "logs"),
		),
		Follow: key.NewBinding(
			key.WithKeys("f", "end"),
			key.WithHelp("f", "follow"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("up", "pgup", "k"),
			key.WithHelp("↑/pgup", "scroll"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("down", "pgdown", "j"),
			key.WithHelp("↓/pgdn", "scroll"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (m Map) ShortHelp() []key.Binding {
	return []key.Binding{m.ToggleRun, m.ToggleLogs, m.Follow, m.Quit}
}

func (m Map) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.ToggleRun, m.ToggleLogs, m.Quit},
		{m.ScrollUp, m.ScrollDown, m.Follow},
	}
}
