package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines every binding of the mindmap viewer.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding // collapse, or jump to parent
	Right key.Binding // expand, or enter first child

	Toggle      key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	DrillDown   key.Binding
	DrillUp     key.Binding

	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding

	ZoomIn   key.Binding
	ZoomOut  key.Binding
	Fit      key.Binding
	PanLeft  key.Binding
	PanRight key.Binding
	PanUp    key.Binding
	PanDown  key.Binding

	FocusToggle key.Binding
	TopicFilter key.Binding
	NextTopic   key.Binding
	PrevTopic   key.Binding

	CopyID     key.Binding
	CopyJSON   key.Binding
	ExportJSON key.Binding
	ExportAll  key.Binding
	Relayout   key.Binding

	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap is the built-in binding set: vim-style movement alongside
// arrow keys.
var DefaultKeyMap = KeyMap{
	Up:    key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
	Down:  key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
	Left:  key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "collapse")),
	Right: key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "expand")),

	Toggle:      key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle")),
	ExpandAll:   key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "expand all")),
	CollapseAll: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "collapse all")),
	DrillDown:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "drill in")),
	DrillUp:     key.NewBinding(key.WithKeys("u", "backspace"), key.WithHelp("u", "drill out")),

	Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add child")),
	Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Delete: key.NewBinding(key.WithKeys("D", "delete"), key.WithHelp("D", "delete")),

	ZoomIn:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
	ZoomOut:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
	Fit:      key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "fit")),
	PanLeft:  key.NewBinding(key.WithKeys("H", "shift+left"), key.WithHelp("H", "pan left")),
	PanRight: key.NewBinding(key.WithKeys("L", "shift+right"), key.WithHelp("L", "pan right")),
	PanUp:    key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "pan up")),
	PanDown:  key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "pan down")),

	FocusToggle: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
	TopicFilter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "find topic")),
	NextTopic:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next topic")),
	PrevTopic:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev topic")),

	CopyID:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy id")),
	CopyJSON:   key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy json")),
	ExportJSON: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export json")),
	ExportAll:  key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "export bundle")),
	Relayout:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "re-layout")),

	Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.DrillDown, k.Add, k.Edit, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Toggle},
		{k.ExpandAll, k.CollapseAll, k.DrillDown, k.DrillUp},
		{k.Add, k.Edit, k.Delete},
		{k.ZoomIn, k.ZoomOut, k.Fit, k.PanLeft, k.PanRight, k.PanUp, k.PanDown},
		{k.FocusToggle, k.TopicFilter, k.NextTopic, k.PrevTopic},
		{k.CopyID, k.CopyJSON, k.ExportJSON, k.ExportAll, k.Relayout, k.Quit},
	}
}
