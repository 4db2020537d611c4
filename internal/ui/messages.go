package ui

import (
	"time"

	"github.com/Ivanipani/song-viewer/internal/catalog"
	"github.com/Ivanipani/song-viewer/internal/session"
)

// tickMsg drives the once-per-second render refresh.
type tickMsg time.Time

// Session events, re-delivered as Bubble Tea messages by watchSession.
type (
	stateMsg    session.StateChange
	trackMsg    session.TrackChange
	positionMsg session.PositionChange
	modeMsg     session.ModeChange
	errorMsg    session.ErrorEvent

	// sessionDoneMsg arrives when the session has been closed.
	sessionDoneMsg struct{}
)

// detailMsg carries the fetched notes and stem list for one track.
// Either half may have failed independently.
type detailMsg struct {
	trackID  string
	notes    string
	notesErr error
	stems    []catalog.Stem
	stemsErr error
}
