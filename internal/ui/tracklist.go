package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Ivanipani/song-viewer/internal/catalog"
	"github.com/Ivanipani/song-viewer/internal/icons"
	"github.com/Ivanipani/song-viewer/internal/session"
	"github.com/Ivanipani/song-viewer/internal/ui/render"
	"github.com/Ivanipani/song-viewer/internal/ui/styles"
)

// renderTrackList draws the left pane: every catalog track with the
// cursor row highlighted and a state glyph on the current track.
func (m Model) renderTrackList(width, height int) string {
	if width < 4 {
		return ""
	}
	s := styles.T().S()
	innerW := max(width-2, 8)
	innerH := max(height-2, 3)
	listH := max(innerH-2, 1)

	cat := m.session.Catalog()
	curID := ""
	if cur := m.session.CurrentTrack(); cur != nil {
		curID = cur.ID
	}

	rows := make([]string, 0, innerH)
	rows = append(rows,
		s.Title.Render(render.TruncateAndPad("Tracks", innerW)),
		s.Subtle.Render(render.Separator(innerW)),
	)

	start := 0
	if m.cursor >= listH {
		start = m.cursor - listH + 1
	}
	for i := start; i < cat.Len() && i-start < listH; i++ {
		tr, ok := cat.Track(i)
		if !ok {
			break
		}
		rows = append(rows, m.renderTrackRow(tr, i, curID, innerW))
	}

	return styles.PanelStyle(!m.detailOpen).
		Width(innerW).
		Height(innerH).
		Render(strings.Join(rows, "\n"))
}

func (m Model) renderTrackRow(tr catalog.Track, index int, curID string, width int) string {
	s := styles.T().S()

	marker := " "
	if tr.ID == curID {
		marker = m.stateGlyph()
	}
	right := render.Truncate(tr.Artist, width/3)
	left := fmt.Sprintf("%s %2d  %s", marker, index+1, render.Sanitize(tr.Title))
	left = render.Truncate(left, max(width-lipgloss.Width(right)-1, 1))
	row := render.Row(left, right, width)

	switch {
	case index == m.cursor && !m.detailOpen:
		return s.Cursor.Render(row)
	case tr.ID == curID:
		return s.Playing.Render(row)
	}
	return s.Base.Render(row)
}

// stateGlyph maps the session state to the marker shown next to the
// current track.
func (m Model) stateGlyph() string {
	switch m.session.State() {
	case session.StateLoading:
		return icons.Loading()
	case session.StatePlaying:
		return icons.Play()
	case session.StatePaused:
		return icons.Pause()
	case session.StateError:
		return icons.Error()
	}
	return " "
}

func pluralTracks(n int) string {
	if n == 1 {
		return "1 track"
	}
	return fmt.Sprintf("%d tracks", n)
}
