package app

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	HalfDown   key.Binding
	HalfUp     key.Binding
	SwitchPane key.Binding
	PaneLeft   key.Binding
	PaneRight  key.Binding
	DiffDown   key.Binding
	DiffUp     key.Binding

	Select      key.Binding
	SelectGroup key.Binding
	Enter       key.Binding
	ToggleView  key.Binding

	ExportFile    key.Binding
	ExportFiles   key.Binding
	ExportCommits key.Binding
	Overview      key.Binding
	Dump          key.Binding

	Pager   key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Top:        key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first row")),
		Bottom:     key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last row")),
		HalfDown:   key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "half page down")),
		HalfUp:     key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "half page up")),
		SwitchPane: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		PaneLeft:   key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "files pane")),
		PaneRight:  key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "commits pane")),
		DiffDown:   key.NewBinding(key.WithKeys("J", "pgdown"), key.WithHelp("J/pgdn", "diff page down")),
		DiffUp:     key.NewBinding(key.WithKeys("K", "pgup"), key.WithHelp("K/pgup", "diff page up")),

		Select:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		SelectGroup: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select group")),
		Enter:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "collapse / reload")),
		ToggleView:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "flat / tree")),

		ExportFile:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "quick export file")),
		ExportFiles:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export selection")),
		ExportCommits: key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "export commits")),
		Overview:      key.NewBinding(key.WithKeys("O"), key.WithHelp("O", "export file list")),
		Dump:          key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "code dump")),

		Pager:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in pager")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp is shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.ExportFiles, k.ExportCommits, k.ToggleView, k.Help, k.Quit}
}

// FullHelp is shown on the help screen, one column per group.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.HalfDown, k.HalfUp},
		{k.SwitchPane, k.PaneLeft, k.PaneRight, k.DiffDown, k.DiffUp, k.Enter},
		{k.Select, k.SelectGroup, k.ToggleView, k.Pager, k.Refresh},
		{k.ExportFile, k.ExportFiles, k.ExportCommits, k.Overview, k.Dump, k.Help, k.Quit},
	}
}
