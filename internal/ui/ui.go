// Package ui implements the terminal interface for the song viewer: a
// track list, a player bar, and a detail pane with per-track notes and
// a stem mixer. It is a Bubble Tea program driven by session events and
// a once-per-second tick.
package ui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Ivanipani/song-viewer/internal/catalog"
	"github.com/Ivanipani/song-viewer/internal/errmsg"
	"github.com/Ivanipani/song-viewer/internal/session"
	"github.com/Ivanipani/song-viewer/internal/sound"
	"github.com/Ivanipani/song-viewer/internal/stems"
	"github.com/Ivanipani/song-viewer/internal/ui/render"
	"github.com/Ivanipani/song-viewer/internal/ui/styles"
)

const (
	seekStep   = 5 * time.Second
	volumeStep = 0.05

	// Vertical chrome outside the panes: header, player bar, status line.
	chromeHeight = 3
	// Rows consumed by a pane border.
	borderHeight = 2
)

// Model is the Bubble Tea model for the whole interface.
type Model struct {
	session *session.Session
	client  *catalog.Client
	sub     *session.Subscription
	keys    KeyMap

	factory  sound.Factory
	stemOpts stems.Options

	width  int
	height int

	cursor int

	detailOpen    bool
	detailID      string
	loadingDetail bool
	notes         viewport.Model
	notesText     string
	notesErr      error
	stemSession   *stems.Session
	stemList      []catalog.Stem
	stemsErr      error
	stemCursor    int

	status    string
	statusErr bool
}

// New builds the interface model around a started session. The stem
// factory and options are used to spin up mixer sessions on demand.
func New(sess *session.Session, client *catalog.Client, factory sound.Factory, stemOpts stems.Options) Model {
	m := Model{
		session:  sess,
		client:   client,
		sub:      sess.Subscribe(),
		keys:     DefaultKeyMap(),
		factory:  factory,
		stemOpts: stemOpts,
		notes:    viewport.New(0, 0),
	}
	if cur := sess.CurrentTrack(); cur != nil {
		m.cursor = cur.Index
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), watchSession(m.sub))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeNotes()
		return m, nil

	case tickMsg:
		return m, tickCmd()

	case stateMsg:
		if msg.Current == session.StatePlaying {
			m.clearStatus()
		}
		return m, watchSession(m.sub)

	case trackMsg:
		m.clearStatus()
		cmd := watchSession(m.sub)
		if m.detailOpen && msg.Current != nil && msg.Current.ID != m.detailID {
			reload := m.openDetail(msg.Current.ID)
			return m, tea.Batch(cmd, reload)
		}
		return m, cmd

	case positionMsg, modeMsg:
		return m, watchSession(m.sub)

	case errorMsg:
		m.setError(session.ErrorEvent(msg))
		return m, watchSession(m.sub)

	case sessionDoneMsg:
		m.closeDetail()
		return m, tea.Quit

	case detailMsg:
		m.applyDetail(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.closeDetail()
		return m, tea.Quit
	}
	if m.detailOpen {
		return m.handleDetailKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cat := m.session.Catalog()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < cat.Len()-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		if err := m.session.SelectIndex(m.cursor); err != nil {
			m.setStatus(errmsg.Format(errmsg.OpPlaybackStart, err), true)
		} else {
			m.clearStatus()
		}
	case key.Matches(msg, m.keys.TogglePlay):
		m.session.TogglePlay()
	case key.Matches(msg, m.keys.Next):
		m.session.PlayNext()
	case key.Matches(msg, m.keys.Prev):
		m.session.PlayPrev()
	case key.Matches(msg, m.keys.Shuffle):
		m.session.ToggleShuffle()
	case key.Matches(msg, m.keys.Loop):
		m.session.CycleLoop()
	case key.Matches(msg, m.keys.SeekBack):
		m.seekSession(-seekStep)
	case key.Matches(msg, m.keys.SeekFwd):
		m.seekSession(seekStep)
	case key.Matches(msg, m.keys.VolDown):
		m.session.SetVolume(clampLevel(m.session.Volume() - volumeStep))
	case key.Matches(msg, m.keys.VolUp):
		m.session.SetVolume(clampLevel(m.session.Volume() + volumeStep))
	case key.Matches(msg, m.keys.MuteMaster):
		m.session.ToggleMute()
	case key.Matches(msg, m.keys.Detail):
		if tr, ok := cat.Track(m.cursor); ok {
			return m, m.openDetail(tr.ID)
		}
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Detail), key.Matches(msg, m.keys.CloseView):
		m.closeDetail()
	case key.Matches(msg, m.keys.Up):
		if m.stemCursor > 0 {
			m.stemCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.stemCursor < len(m.stemList)-1 {
			m.stemCursor++
		}
	case key.Matches(msg, m.keys.NotesUp):
		m.notes.LineUp(3)
	case key.Matches(msg, m.keys.NotesDown):
		m.notes.LineDown(3)
	case key.Matches(msg, m.keys.TogglePlay):
		if m.stemSession != nil {
			if !m.stemSession.Playing() && m.session.Playing() {
				// One player at a time: the mixer takes over the audio.
				m.session.TogglePlay()
			}
			m.stemSession.TogglePlay()
		}
	case key.Matches(msg, m.keys.SeekBack):
		m.seekStems(-seekStep)
	case key.Matches(msg, m.keys.SeekFwd):
		m.seekStems(seekStep)
	case key.Matches(msg, m.keys.StemMute):
		if id, ok := m.stemAtCursor(); ok {
			m.stemSession.ToggleMute(id)
		}
	case key.Matches(msg, m.keys.StemSolo):
		if id, ok := m.stemAtCursor(); ok {
			m.stemSession.ToggleSolo(id)
		}
	case key.Matches(msg, m.keys.VolDown):
		m.adjustStemVolume(-volumeStep)
	case key.Matches(msg, m.keys.VolUp):
		m.adjustStemVolume(volumeStep)
	}
	return m, nil
}

// openDetail switches the detail pane to the given track and kicks off
// the notes and stem list fetch. Any previous mixer session is torn
// down first.
func (m *Model) openDetail(trackID string) tea.Cmd {
	m.teardownStems()
	m.detailOpen = true
	m.detailID = trackID
	m.loadingDetail = true
	m.notesText = ""
	m.notesErr = nil
	m.stemsErr = nil
	m.stemList = nil
	m.stemCursor = 0
	m.notes.SetContent("")
	m.notes.GotoTop()
	m.resizeNotes()
	return loadDetailCmd(m.client, trackID)
}

func (m *Model) closeDetail() {
	m.teardownStems()
	m.detailOpen = false
	m.detailID = ""
	m.loadingDetail = false
}

func (m *Model) teardownStems() {
	if m.stemSession != nil {
		m.stemSession.Close()
		m.stemSession = nil
	}
	m.stemList = nil
	m.stemCursor = 0
}

// applyDetail installs a fetched notes/stems pair, dropping stale
// results from a superseded fetch.
func (m *Model) applyDetail(msg detailMsg) {
	if !m.detailOpen || msg.trackID != m.detailID {
		return
	}
	m.loadingDetail = false

	m.notesErr = msg.notesErr
	if errors.Is(msg.notesErr, catalog.ErrNotFound) {
		m.notesErr = nil
	}
	if msg.notesErr == nil {
		m.notesText = msg.notes
		m.notes.SetContent(m.wrapNotes(msg.notes))
		m.notes.GotoTop()
	}

	m.stemsErr = msg.stemsErr
	if errors.Is(msg.stemsErr, catalog.ErrNotFound) {
		m.stemsErr = nil
	}
	if msg.stemsErr == nil && len(msg.stems) > 0 {
		m.stemList = msg.stems
		m.stemSession = stems.New(m.factory, msg.stems, m.stemOpts)
	}
	m.resizeNotes()
}

func (m *Model) seekSession(delta time.Duration) {
	target := clampDuration(m.session.Position()+delta, m.session.Duration())
	m.session.Seek(target)
	m.session.CommitSeek(target)
}

func (m *Model) seekStems(delta time.Duration) {
	if m.stemSession == nil {
		return
	}
	target := clampDuration(m.stemSession.Position()+delta, m.stemSession.Duration())
	m.stemSession.Seek(target)
}

func (m *Model) adjustStemVolume(delta float64) {
	id, ok := m.stemAtCursor()
	if !ok {
		return
	}
	for _, st := range m.stemSession.Snapshot() {
		if st.Stem.ID == id {
			m.stemSession.SetVolume(id, clampLevel(st.Level+delta))
			return
		}
	}
}

func (m Model) stemAtCursor() (string, bool) {
	if m.stemSession == nil || m.stemCursor >= len(m.stemList) {
		return "", false
	}
	return m.stemList[m.stemCursor].ID, true
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusErr = false
}

func (m *Model) setError(ev session.ErrorEvent) {
	op := errmsg.OpPlaybackStart
	if ev.Operation == "load" {
		op = errmsg.OpTrackLoad
	}
	context := ev.TrackID
	if tr, ok := m.session.Catalog().ByID(ev.TrackID); ok {
		context = tr.Title
	}
	m.setStatus(errmsg.FormatWith(op, context, ev.Err), true)
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading…"
	}

	listW, detailW := m.paneWidths()
	paneH := max(m.height-chromeHeight, borderHeight+1)

	header := m.renderHeader()
	panes := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderTrackList(listW, paneH),
		m.renderDetail(detailW, paneH),
	)
	bar := m.renderPlayerBar(m.width)
	status := m.renderStatus(m.width)

	return lipgloss.JoinVertical(lipgloss.Left, header, panes, bar, status)
}

func (m Model) paneWidths() (listW, detailW int) {
	listW = m.width * 2 / 5
	if listW < 24 {
		listW = min(24, m.width)
	}
	detailW = m.width - listW
	return listW, detailW
}

func (m *Model) resizeNotes() {
	_, detailW := m.paneWidths()
	innerW := max(detailW-borderHeight-2, 10)
	paneH := max(m.height-chromeHeight, borderHeight+1)
	notesH := m.notesHeight(paneH)
	m.notes.Width = innerW
	m.notes.Height = notesH
}

// notesHeight splits the detail pane interior between notes and the
// stem mixer. The mixer gets one row per stem plus a header, capped at
// half the pane.
func (m Model) notesHeight(paneH int) int {
	inner := paneH - borderHeight - 2 // minus pane title and separator
	if len(m.stemList) == 0 {
		return max(inner, 1)
	}
	mixerRows := min(len(m.stemList)+2, inner/2)
	return max(inner-mixerRows, 1)
}

func (m Model) renderHeader() string {
	s := styles.T().S()
	title := styles.ApplyBoldGradient("song viewer", styles.T().Primary, styles.T().Secondary)
	count := ""
	if cat := m.session.Catalog(); cat != nil {
		count = s.Subtle.Render(pluralTracks(cat.Len()))
	}
	gap := " "
	return lipgloss.NewStyle().Padding(0, 1).Render(title + gap + count)
}

func (m Model) renderStatus(width int) string {
	s := styles.T().S()
	if m.status != "" {
		style := s.Warning
		if m.statusErr {
			style = s.Error
		}
		return lipgloss.NewStyle().Padding(0, 1).Render(style.Render(render.Truncate(m.status, width-2)))
	}
	hints := "space play/pause · enter select · n/p track · s shuffle · r loop · tab details · q quit"
	if m.detailOpen {
		hints = "space play stems · m mute · o solo · j/k stem · [/] notes · esc close · q quit"
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(s.Subtle.Render(render.Truncate(hints, width-2)))
}

func clampLevel(level float64) float64 {
	return min(max(level, 0), 1)
}

func clampDuration(d, limit time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	if limit > 0 && d > limit {
		return limit
	}
	return d
}
