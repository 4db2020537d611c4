package icons

import "testing"

func TestInit(t *testing.T) {
	tests := []struct {
		name  string
		style string
		want  Icons
	}{
		{"nerd style", "nerd", nerdIcons},
		{"unicode style", "unicode", unicodeIcons},
		{"ascii style", "ascii", asciiIcons},
		{"empty string defaults to unicode", "", unicodeIcons},
		{"unknown style defaults to unicode", "invalid", unicodeIcons},
		{"case sensitive - NERD defaults to unicode", "NERD", unicodeIcons},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init(tt.style)
			if current != tt.want {
				t.Errorf("Init(%q) selected %+v, want %+v", tt.style, current, tt.want)
			}
		})
	}

	Init("unicode")
}

func TestAccessorsFollowStyle(t *testing.T) {
	Init("ascii")
	if got := Play(); got != ">" {
		t.Errorf("Play() = %q, want %q", got, ">")
	}
	if got := Shuffle(); got != "[S]" {
		t.Errorf("Shuffle() = %q, want %q", got, "[S]")
	}
	if got := RepeatOne(); got != "[1]" {
		t.Errorf("RepeatOne() = %q, want %q", got, "[1]")
	}

	Init("unicode")
	if got := Play(); got != "▶" {
		t.Errorf("Play() = %q, want %q", got, "▶")
	}
	if got := VolumeMute(); got != "⊘" {
		t.Errorf("VolumeMute() = %q, want %q", got, "⊘")
	}
}

func TestASCIIStyleIsASCIIOnly(t *testing.T) {
	Init("ascii")
	defer Init("unicode")

	for name, value := range map[string]string{
		"Play":       Play(),
		"Pause":      Pause(),
		"Loading":    Loading(),
		"Error":      Error(),
		"Shuffle":    Shuffle(),
		"RepeatAll":  RepeatAll(),
		"RepeatOne":  RepeatOne(),
		"Volume":     Volume(),
		"VolumeMute": VolumeMute(),
	} {
		for _, r := range value {
			if r > 127 {
				t.Errorf("%s icon %q contains non-ASCII rune %q", name, value, r)
				break
			}
		}
	}
}

func TestNoEmptyGlyphs(t *testing.T) {
	for name, set := range map[string]Icons{
		"nerd":    nerdIcons,
		"unicode": unicodeIcons,
		"ascii":   asciiIcons,
	} {
		t.Run(name, func(t *testing.T) {
			if set.Play == "" || set.Pause == "" || set.Loading == "" || set.Error == "" {
				t.Error("state glyphs must not be empty")
			}
			if set.Shuffle == "" || set.RepeatAll == "" || set.RepeatOne == "" {
				t.Error("mode glyphs must not be empty")
			}
			if set.Volume == "" || set.VolumeMute == "" {
				t.Error("volume glyphs must not be empty")
			}
		})
	}
}
