package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the player interface.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Select     key.Binding
	TogglePlay key.Binding
	Next       key.Binding
	Prev       key.Binding
	Shuffle    key.Binding
	Loop       key.Binding
	SeekBack   key.Binding
	SeekFwd    key.Binding
	VolDown    key.Binding
	VolUp      key.Binding
	MuteMaster key.Binding
	Detail     key.Binding
	CloseView  key.Binding
	NotesUp    key.Binding
	NotesDown  key.Binding
	StemMute   key.Binding
	StemSolo   key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the standard key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "play track"),
		),
		TogglePlay: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		Next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next track"),
		),
		Prev: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "previous track"),
		),
		Shuffle: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "shuffle"),
		),
		Loop: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "loop mode"),
		),
		SeekBack: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "seek back"),
		),
		SeekFwd: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "seek forward"),
		),
		VolDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "volume down"),
		),
		VolUp: key.NewBinding(
			key.WithKeys("=", "+"),
			key.WithHelp("=", "volume up"),
		),
		MuteMaster: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "mute"),
		),
		Detail: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "track details"),
		),
		CloseView: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		NotesUp: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "scroll notes up"),
		),
		NotesDown: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "scroll notes down"),
		),
		StemMute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute stem"),
		),
		StemSolo: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "solo stem"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
