package session

import (
	"time"

	"github.com/Ivanipani/song-viewer/internal/catalog"
	"github.com/Ivanipani/song-viewer/internal/nav"
)

// Resource callbacks re-enter the session here. Every handler checks the
// generation captured at resource creation first: callbacks from a
// superseded resource are dropped wholesale.

func (s *Session) onLoad(gen uint64, d time.Duration) {
	s.mu.Lock()
	if s.closed || gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.duration = d
	s.failStreak = 0
	prev := s.state
	if s.state == StateLoading {
		s.state = StatePaused
	}
	cur := s.state
	action := s.reconcileLocked()
	s.mu.Unlock()

	s.emitState(prev, cur)
	if action != nil {
		action()
	}
}

func (s *Session) onPlay(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.generation {
		s.mu.Unlock()
		return
	}
	prev := s.state
	s.state = StatePlaying
	s.mu.Unlock()

	s.poller.start()
	s.emitState(prev, StatePlaying)
}

func (s *Session) onPause(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.generation {
		s.mu.Unlock()
		return
	}
	prev := s.state
	s.state = StatePaused
	s.mu.Unlock()

	s.poller.stop()
	s.emitState(prev, StatePaused)
}

// onEnd resolves the end of a track: loop single replays the same resource,
// otherwise the navigation policy picks the next track. With nothing to
// advance to, playback stops at the end and the resource is retained so
// position and duration stay inspectable.
func (s *Session) onEnd(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.position = s.duration

	if s.loop == nav.LoopSingle {
		h := s.handle
		pos := s.position
		s.mu.Unlock()

		s.emitPosition(pos)
		if h != nil {
			h.Seek(0)
			h.Play()
		}
		return
	}

	next, ok := nav.Next(s.current, s.catalog, s.shuffle, s.loop)
	if !ok {
		prev := s.state
		s.intent = false
		s.state = StatePaused
		pos := s.position
		s.mu.Unlock()

		s.poller.stop()
		s.emitPosition(pos)
		s.emitState(prev, StatePaused)
		return
	}
	s.mu.Unlock()

	s.selectTrack(next, originUser)
}

func (s *Session) onSeek(gen uint64, offset time.Duration) {
	s.mu.Lock()
	if s.closed || gen != s.generation || s.seeking {
		s.mu.Unlock()
		return
	}
	offset = s.clampLocked(offset)
	s.position = offset
	s.mu.Unlock()

	s.emitPosition(offset)
}

// onLoadError skips past a track whose resource failed, as long as the
// session still wants to play and the failure streak has not covered the
// whole catalog. Loop single is dropped for the skip so a broken track
// cannot be retried forever.
func (s *Session) onLoadError(gen uint64, err error) {
	s.mu.Lock()
	if s.closed || gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.failStreak++
	trackID := ""
	if s.current != nil {
		trackID = s.current.ID
	}

	loop := s.loop
	if loop == nav.LoopSingle {
		loop = nav.LoopNone
	}
	var nextTrack catalog.Track
	advance := false
	if s.intent && s.failStreak < s.catalog.Len() {
		nextTrack, advance = nav.Next(s.current, s.catalog, s.shuffle, loop)
	}
	if !advance {
		prev := s.state
		s.intent = false
		s.state = StateError
		s.mu.Unlock()

		s.poller.stop()
		s.emitError("load", trackID, err)
		s.emitState(prev, StateError)
		return
	}
	s.mu.Unlock()

	s.emitError("load", trackID, err)
	s.selectTrack(nextTrack, originSkip)
}

func (s *Session) onPlayError(gen uint64, err error) {
	s.mu.Lock()
	if s.closed || gen != s.generation {
		s.mu.Unlock()
		return
	}
	trackID := ""
	if s.current != nil {
		trackID = s.current.ID
	}
	s.intent = false
	s.mu.Unlock()

	s.emitError("play", trackID, err)
}

// reconcileLocked compares the transport intent with the resource's actual
// state and returns the call that brings them in line, or nil when they
// already match. Caller must hold s.mu; the returned action must run with
// the lock released.
func (s *Session) reconcileLocked() func() {
	h := s.handle
	if h == nil || !h.Loaded() || h.Err() != nil {
		return nil
	}
	switch {
	case s.intent && !h.Playing():
		return h.Play
	case !s.intent && h.Playing():
		return h.Pause
	default:
		return nil
	}
}

// pollPosition is the poller tick: refresh the position from the live
// resource. Every tick re-checks liveness so a tick landing after pause,
// reselection, or teardown is a no-op.
func (s *Session) pollPosition() {
	s.mu.Lock()
	h := s.handle
	if s.closed || h == nil || s.state != StatePlaying || s.seeking {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	pos := h.Position()

	s.mu.Lock()
	if s.closed || s.handle != h || s.state != StatePlaying || s.seeking {
		s.mu.Unlock()
		return
	}
	pos = s.clampLocked(pos)
	changed := pos != s.position
	s.position = pos
	s.mu.Unlock()

	if changed {
		s.emitPosition(pos)
	}
}
