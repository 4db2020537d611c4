package session

import (
	"time"

	"github.com/Ivanipani/song-viewer/internal/catalog"
	"github.com/Ivanipani/song-viewer/internal/nav"
)

// StateChange is emitted when the session state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when the selection moves to a (possibly reselected)
// track, whatever caused it: user selection, next/previous, auto-advance, or
// history navigation. Side effects that follow the selection (notifications,
// MPRIS metadata, stem views) hang off this event.
type TrackChange struct {
	Previous *catalog.Track
	Current  *catalog.Track
}

// PositionChange is emitted when the playback position moves, by polling or
// by seek.
type PositionChange struct {
	Position time.Duration
}

// ModeChange is emitted when the loop mode or shuffle flag changes.
type ModeChange struct {
	Loop    nav.LoopMode
	Shuffle bool
}

// ErrorEvent is emitted when a resource operation fails.
type ErrorEvent struct {
	Operation string // e.g. "load", "play"
	TrackID   string
	Err       error
}
