// ABOUTME: Key bindings for the player screen
// ABOUTME: Implements help.KeyMap so the help line stays in step with the bindings

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	PlayPause      key.Binding
	PlaySelected   key.Binding
	Stop           key.Binding
	Next           key.Binding
	Previous       key.Binding
	Back           key.Binding
	Shuffle        key.Binding
	Repeat         key.Binding
	SeekBack       key.Binding
	SeekForward    key.Binding
	VolumeUp       key.Binding
	VolumeDown     key.Binding
	Mute           key.Binding
	SpeedUp        key.Binding
	SpeedDown      key.Binding
	Fullscreen     key.Binding
	TogglePlaylist key.Binding
	Up             key.Binding
	Down           key.Binding
	PageUp         key.Binding
	PageDown       key.Binding
	Home           key.Binding
	End            key.Binding
	MoveUp         key.Binding
	MoveDown       key.Binding
	Delete         key.Binding
	Search         key.Binding
	Open           key.Binding
	Save           key.Binding
	Load           key.Binding
	Theme          key.Binding
	CheckUpdate    key.Binding
	Quit           key.Binding
}

var keys = keyMap{
	PlayPause:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
	PlaySelected:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
	Stop:           key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
	Next:           key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
	Previous:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev")),
	Back:           key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "back")),
	Shuffle:        key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "shuffle")),
	Repeat:         key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "repeat")),
	SeekBack:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "seek")),
	SeekForward:    key.NewBinding(key.WithKeys("right", "l")),
	VolumeUp:       key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "volume")),
	VolumeDown:     key.NewBinding(key.WithKeys("-")),
	Mute:           key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
	SpeedUp:        key.NewBinding(key.WithKeys("]"), key.WithHelp("[/]", "speed")),
	SpeedDown:      key.NewBinding(key.WithKeys("[")),
	Fullscreen:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fullscreen")),
	TogglePlaylist: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "playlist")),
	Up:             key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "navigate")),
	Down:           key.NewBinding(key.WithKeys("down", "j")),
	PageUp:         key.NewBinding(key.WithKeys("pgup")),
	PageDown:       key.NewBinding(key.WithKeys("pgdown")),
	Home:           key.NewBinding(key.WithKeys("home", "g")),
	End:            key.NewBinding(key.WithKeys("end", "G")),
	MoveUp:         key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K/J", "reorder")),
	MoveDown:       key.NewBinding(key.WithKeys("J", "shift+down")),
	Delete:         key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "remove")),
	Search:         key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Open:           key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
	Save:           key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("^s", "save")),
	Load:           key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("^o", "load")),
	Theme:          key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
	CheckUpdate:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "update")),
	Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp lists the bindings shown on the help line
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.PlayPause, k.PlaySelected, k.Stop, k.Next, k.Previous, k.SeekBack,
		k.VolumeUp, k.Mute, k.Shuffle, k.Repeat, k.Search, k.Open, k.Quit,
	}
}

// FullHelp lists every binding that carries help text
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.PlaySelected, k.Stop, k.Next, k.Previous, k.Back},
		{k.SeekBack, k.VolumeUp, k.Mute, k.SpeedUp, k.Shuffle, k.Repeat},
		{k.Up, k.MoveUp, k.Delete, k.Search, k.Open, k.Save, k.Load},
		{k.Fullscreen, k.TogglePlaylist, k.Theme, k.CheckUpdate, k.Quit},
	}
}
