package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Ivanipani/song-viewer/internal/catalog"
	"github.com/Ivanipani/song-viewer/internal/errmsg"
	"github.com/Ivanipani/song-viewer/internal/icons"
	"github.com/Ivanipani/song-viewer/internal/stems"
	"github.com/Ivanipani/song-viewer/internal/ui/render"
	"github.com/Ivanipani/song-viewer/internal/ui/styles"
)

// renderDetail draws the right pane: the scrollable notes for the
// selected track above the stem mixer, or a hint while nothing is open.
func (m Model) renderDetail(width, height int) string {
	if width < 4 {
		return ""
	}
	s := styles.T().S()
	innerW := max(width-2, 8)
	innerH := max(height-2, 3)

	title := "Details"
	if m.detailOpen {
		if tr, ok := m.session.Catalog().ByID(m.detailID); ok {
			title = render.Sanitize(tr.Title)
		}
	}

	rows := []string{
		s.Title.Render(render.TruncateAndPad(title, innerW)),
		s.Subtle.Render(render.Separator(innerW)),
	}

	switch {
	case !m.detailOpen:
		rows = append(rows, s.Subtle.Render(render.Truncate("tab opens notes and stems for the selected track", innerW)))
	case m.loadingDetail:
		rows = append(rows, s.Muted.Render("Loading…"))
	default:
		rows = append(rows, m.renderNotes(innerW))
		if len(m.stemList) > 0 || m.stemsErr != nil {
			rows = append(rows, m.renderMixer(innerW)...)
		}
	}

	return styles.PanelStyle(m.detailOpen).
		Width(innerW).
		Height(innerH).
		Render(strings.Join(rows, "\n"))
}

func (m Model) renderNotes(width int) string {
	s := styles.T().S()
	if m.notesErr != nil {
		return s.Error.Render(render.Truncate(errmsg.Format(errmsg.OpNotesLoad, m.notesErr), width))
	}
	if strings.TrimSpace(m.notesText) == "" {
		return s.Subtle.Render("No notes for this track.")
	}
	return m.notes.View()
}

func (m Model) wrapNotes(text string) string {
	w := max(m.notes.Width, 10)
	return lipgloss.NewStyle().Width(w).Render(render.Sanitize(text))
}

// renderMixer draws the stem section: a transport header followed by
// one row per stem with its color chip, mute/solo markers, and level.
func (m Model) renderMixer(width int) []string {
	s := styles.T().S()

	anySolo := false
	snap := make(map[string]stems.StemState, len(m.stemList))
	if m.stemSession != nil {
		anySolo = m.stemSession.AnySolo()
		for _, st := range m.stemSession.Snapshot() {
			snap[st.Stem.ID] = st
		}
	}

	transport := ""
	if m.stemSession != nil {
		glyph := icons.Pause()
		if m.stemSession.Playing() {
			glyph = icons.Play()
		}
		if m.stemSession.Loading() {
			glyph = icons.Loading()
		}
		transport = s.Muted.Render(fmt.Sprintf("%s %s / %s",
			glyph,
			formatDuration(m.stemSession.Position()),
			formatDuration(m.stemSession.Duration())))
	}

	rows := []string{
		"",
		render.Row(s.Title.Render("Stems"), transport, width),
	}

	if m.stemsErr != nil {
		rows = append(rows, s.Error.Render(render.Truncate(errmsg.Format(errmsg.OpStemsLoad, m.stemsErr), width)))
		return rows
	}
	for i, stem := range m.stemList {
		rows = append(rows, m.renderStemRow(stem, snap[stem.ID], i, anySolo, width))
	}
	return rows
}

func (m Model) renderStemRow(stem catalog.Stem, st stems.StemState, index int, anySolo bool, width int) string {
	s := styles.T().S()

	color := styles.StemColor(stem.Color)
	if !st.Audible(anySolo) {
		color = styles.DimStemColor(stem.Color)
	}
	chip := lipgloss.NewStyle().Foreground(color).Render("■")

	mute := s.Subtle.Render("M")
	if st.Muted {
		mute = s.Error.Render("M")
	}
	solo := s.Subtle.Render("S")
	if st.Solo {
		solo = s.Accent.Render("S")
	}

	var status string
	switch {
	case st.Loading:
		status = s.Muted.Render(icons.Loading())
	case st.Err != nil:
		status = s.Error.Render(icons.Error() + " " + render.Truncate(st.Err.Error(), width/3))
	default:
		status = s.Muted.Render(fmt.Sprintf("%3d%%", int(math.Round(st.Level*100))))
	}

	name := render.Truncate(stem.Name, max(width-lipgloss.Width(status)-8, 1))
	left := chip + " " + mute + solo + " " + s.Base.Render(name)
	row := render.Row(left, status, width)

	if index == m.stemCursor && len(m.stemList) > 0 {
		return s.Cursor.Render(row)
	}
	return row
}
