package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Ivanipani/song-viewer/internal/icons"
	"github.com/Ivanipani/song-viewer/internal/nav"
	"github.com/Ivanipani/song-viewer/internal/ui/render"
	"github.com/Ivanipani/song-viewer/internal/ui/styles"
)

const (
	filledBlock = "▓"
	emptyBlock  = "░"

	minBarWidth = 3
)

// renderPlayerBar draws the one-line transport for the main session:
// state glyph, track, position, progress blocks, mode indicators, and
// volume. The progress bar absorbs whatever width is left over and is
// dropped entirely when the terminal is too narrow.
func (m Model) renderPlayerBar(width int) string {
	s := styles.T().S()
	inner := max(width-2, 10)

	var left string
	if cur := m.session.CurrentTrack(); cur != nil {
		title := render.Truncate(render.Sanitize(cur.Title)+" · "+render.Sanitize(cur.Artist), inner/3)
		left = s.Playing.Render(m.stateGlyph()) + " " + s.Base.Render(title)
	} else {
		left = s.Subtle.Render("Nothing playing")
	}

	right := m.renderModes() + "  " + m.renderVolume()

	posStr := s.Muted.Render(formatDuration(m.session.Position()))
	durStr := s.Muted.Render(formatDuration(m.session.Duration()))

	fixed := lipgloss.Width(left) + lipgloss.Width(right) +
		lipgloss.Width(posStr) + lipgloss.Width(durStr)
	barW := inner - fixed - 8

	var middle string
	if barW >= minBarWidth {
		middle = posStr + "  " + m.renderProgress(barW) + "  " + durStr
	} else {
		middle = posStr + " " + durStr
	}

	return lipgloss.NewStyle().Padding(0, 1).Render(render.Row(left+"  "+middle, right, inner))
}

func (m Model) renderProgress(width int) string {
	s := styles.T().S()
	pos, dur := m.session.Position(), m.session.Duration()

	filled := 0
	if dur > 0 {
		filled = int(float64(pos) / float64(dur) * float64(width))
		filled = min(max(filled, 0), width)
	}
	return s.Playing.Render(strings.Repeat(filledBlock, filled)) +
		s.Subtle.Render(strings.Repeat(emptyBlock, width-filled))
}

func (m Model) renderModes() string {
	s := styles.T().S()

	shuffle := s.Subtle.Render(icons.Shuffle())
	if m.session.Shuffle() {
		shuffle = s.Accent.Render(icons.Shuffle())
	}

	loop := s.Subtle.Render(icons.RepeatAll())
	switch m.session.Loop() {
	case nav.LoopAll:
		loop = s.Accent.Render(icons.RepeatAll())
	case nav.LoopSingle:
		loop = s.Accent.Render(icons.RepeatOne())
	}

	return shuffle + " " + loop
}

func (m Model) renderVolume() string {
	s := styles.T().S()
	icon, style := icons.Volume(), s.Muted
	if m.session.Muted() {
		icon, style = icons.VolumeMute(), s.Error
	}
	pct := int(math.Round(m.session.Volume() * 100))
	return style.Render(fmt.Sprintf("%s %3d%%", icon, pct))
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
