package styles

import "github.com/charmbracelet/lipgloss"

// Theme is the palette behind every style in the UI: a violet accent
// over a grayscale text ramp.
type Theme struct {
	Primary   lipgloss.Color // violet: playing marker, focused border, header
	Secondary lipgloss.Color // amber: active mode markers, header fade

	FgBase   lipgloss.Color // track titles
	FgMuted  lipgloss.Color // artists, secondary columns
	FgSubtle lipgloss.Color // separators, hints, inactive markers

	BgCursor lipgloss.Color // list cursor row

	Border      lipgloss.Color
	BorderFocus lipgloss.Color

	Error   lipgloss.Color // failed loads, muted volume
	Warning lipgloss.Color // transient status lines

	styles *Styles
}

// Styles are the prebuilt lipgloss styles the views render with.
type Styles struct {
	Base    lipgloss.Style
	Muted   lipgloss.Style
	Subtle  lipgloss.Style
	Title   lipgloss.Style
	Playing lipgloss.Style // current track row, filled progress
	Cursor  lipgloss.Style
	Accent  lipgloss.Style // shuffle/loop markers when active
	Error   lipgloss.Style
	Warning lipgloss.Style
}

var defaultTheme = Theme{
	Primary:   lipgloss.Color("#a78bfa"),
	Secondary: lipgloss.Color("#f1a208"),

	FgBase:   lipgloss.Color("#c0c0c0"),
	FgMuted:  lipgloss.Color("#808080"),
	FgSubtle: lipgloss.Color("#585858"),

	BgCursor: lipgloss.Color("#303030"),

	Border:      lipgloss.Color("#585858"),
	BorderFocus: lipgloss.Color("#a78bfa"),

	Error:   lipgloss.Color("#ff5555"),
	Warning: lipgloss.Color("#f1a208"),
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the prebuilt styles, building them on first use.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)

	return &Styles{
		Base:    base,
		Muted:   lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle:  lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:   base.Bold(true),
		Playing: lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		Cursor:  lipgloss.NewStyle().Background(t.BgCursor).Foreground(t.FgBase),
		Accent:  lipgloss.NewStyle().Foreground(t.Secondary),
		Error:   lipgloss.NewStyle().Foreground(t.Error),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
	}
}
