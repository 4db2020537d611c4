package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// ApplyBoldGradient renders bold text with a horizontal color gradient.
// Blending is done in HCL color space for perceptually uniform transitions.
func ApplyBoldGradient(text string, from, to lipgloss.Color) string {
	if text == "" {
		return ""
	}

	// Split into grapheme clusters for proper unicode handling
	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}
	if len(clusters) == 0 {
		return ""
	}

	c1 := parseHex(string(from), defaultTheme.Primary)
	c2 := parseHex(string(to), defaultTheme.Secondary)

	var b strings.Builder
	for i, cluster := range clusters {
		t := 0.0
		if len(clusters) > 1 {
			t = float64(i) / float64(len(clusters)-1)
		}
		c := c1.BlendHcl(c2, t)
		b.WriteString(lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(c.Hex())).
			Render(cluster))
	}
	return b.String()
}

// StemColor converts a stem's hex color into a terminal color, falling
// back to the muted foreground when the value does not parse.
func StemColor(hex string) lipgloss.Color {
	if _, err := colorful.Hex(hex); err != nil {
		return defaultTheme.FgMuted
	}
	return lipgloss.Color(hex)
}

// DimStemColor returns the stem color blended toward the background,
// used for stems that are silenced by the mute/solo rules.
func DimStemColor(hex string) lipgloss.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return defaultTheme.FgSubtle
	}
	bg := parseHex("#1a1a1a", defaultTheme.FgSubtle)
	return lipgloss.Color(c.BlendHcl(bg, 0.6).Hex())
}

func parseHex(hex string, fallback lipgloss.Color) colorful.Color {
	if c, err := colorful.Hex(hex); err == nil {
		return c
	}
	c, _ := colorful.Hex(string(fallback))
	return c
}
