// Package icons provides the glyph sets used by the player interface.
// Three styles are available: nerd font glyphs, plain unicode, and an
// ASCII fallback for terminals without glyph support.
package icons

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleASCII   Style = "ascii"
)

// Icons holds the icon characters for the current style.
type Icons struct {
	Play       string
	Pause      string
	Loading    string
	Error      string
	Shuffle    string
	RepeatAll  string
	RepeatOne  string
	Volume     string
	VolumeMute string
}

var (
	nerdIcons = Icons{
		Play:       "", // nf-fa-play
		Pause:      "", // nf-fa-pause
		Loading:    "", // nf-fa-spinner
		Error:      "", // nf-fa-warning
		Shuffle:    "󰒟",      // nf-md-shuffle
		RepeatAll:  "󰑖",      // nf-md-repeat
		RepeatOne:  "󰑘",      // nf-md-repeat_once
		Volume:     "", // nf-fa-volume_up
		VolumeMute: "", // nf-fa-volume_off
	}

	unicodeIcons = Icons{
		Play:       "▶",
		Pause:      "❚❚",
		Loading:    "◌",
		Error:      "✗",
		Shuffle:    "⇄",
		RepeatAll:  "⟳",
		RepeatOne:  "⟳¹",
		Volume:     "♪",
		VolumeMute: "⊘",
	}

	asciiIcons = Icons{
		Play:       ">",
		Pause:      "||",
		Loading:    "~",
		Error:      "!",
		Shuffle:    "[S]",
		RepeatAll:  "[R]",
		RepeatOne:  "[1]",
		Volume:     "vol",
		VolumeMute: "mut",
	}

	// current holds the active icon set
	current = unicodeIcons
)

// Init selects the icon set by style name. Unknown names keep the
// unicode default. Call once at startup.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleUnicode:
		current = unicodeIcons
	case StyleASCII:
		current = asciiIcons
	default:
		current = unicodeIcons
	}
}

// Play returns the playing indicator.
func Play() string {
	return current.Play
}

// Pause returns the paused indicator.
func Pause() string {
	return current.Pause
}

// Loading returns the loading indicator.
func Loading() string {
	return current.Loading
}

// Error returns the error indicator.
func Error() string {
	return current.Error
}

// Shuffle returns the shuffle mode icon.
func Shuffle() string {
	return current.Shuffle
}

// RepeatAll returns the repeat-all loop icon.
func RepeatAll() string {
	return current.RepeatAll
}

// RepeatOne returns the repeat-one loop icon.
func RepeatOne() string {
	return current.RepeatOne
}

// Volume returns the volume indicator.
func Volume() string {
	return current.Volume
}

// VolumeMute returns the muted volume indicator.
func VolumeMute() string {
	return current.VolumeMute
}
