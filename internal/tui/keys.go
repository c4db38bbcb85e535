// ABOUTME: Key bindings for the login pad, dashboard, and edit modal
// ABOUTME: Uses bubbles/key so help text and matching share one definition

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Activate key.Binding
	MuteAll  key.Binding
	Unmute   key.Binding
	Edit     key.Binding
	Refresh  key.Binding
	Quit     key.Binding

	Clear key.Binding

	NextSwatch key.Binding
	PrevSwatch key.Binding
	Save       key.Binding
	Close      key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up", "left", "h"),
		key.WithHelp("←/k", "prev"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down", "right", "l"),
		key.WithHelp("→/j", "next"),
	),
	Activate: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "toggle/edit"),
	),
	MuteAll: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "mute all"),
	),
	Unmute: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "unmute all"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit mode"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Clear: key.NewBinding(
		key.WithKeys("backspace", "delete"),
		key.WithHelp("⌫", "clear"),
	),
	NextSwatch: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next color"),
	),
	PrevSwatch: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev color"),
	),
	Save: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "save"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

func (k keyMap) dashboardHelp() []key.Binding {
	return []key.Binding{k.Down, k.Activate, k.MuteAll, k.Unmute, k.Edit, k.Refresh, k.Quit}
}

func (k keyMap) modalHelp() []key.Binding {
	return []key.Binding{k.NextSwatch, k.PrevSwatch, k.Save, k.Close}
}
