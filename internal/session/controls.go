package session

import (
	"time"

	"github.com/Ivanipani/song-viewer/internal/catalog"
	"github.com/Ivanipani/song-viewer/internal/history"
	"github.com/Ivanipani/song-viewer/internal/nav"
	"github.com/Ivanipani/song-viewer/internal/sound"
)

// SelectTrack selects a track by id and starts playing it. Reselecting the
// current track restarts it from the top.
func (s *Session) SelectTrack(id string) error {
	tr, ok := s.catalog.ByID(id)
	if !ok {
		return ErrTrackNotFound
	}
	s.selectTrack(tr, originUser)
	return nil
}

// SelectIndex selects a track by catalog position and starts playing it.
func (s *Session) SelectIndex(i int) error {
	tr, ok := s.catalog.Track(i)
	if !ok {
		return ErrTrackNotFound
	}
	s.selectTrack(tr, originUser)
	return nil
}

// selectTrack is the single selection path. It disposes the superseded
// resource before creating the new one, bumps the callback generation so
// stale resource callbacks are ignored, and records the selection in
// history according to the origin.
func (s *Session) selectTrack(tr catalog.Track, org origin) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	old := s.handle
	s.handle = nil
	s.generation++
	gen := s.generation

	prevTrack := s.current
	prevState := s.state
	cur := tr
	s.current = &cur
	s.position = 0
	s.duration = 0
	s.seeking = false
	s.state = StateLoading

	switch org {
	case originUser:
		s.intent = true
		s.failStreak = 0
		s.hist.Push(history.Location{TrackID: tr.ID})
	case originInit:
		s.intent = false
		s.failStreak = 0
		s.hist.Replace(history.Location{TrackID: tr.ID})
	case originHistory:
		// Keep the current intent: if music was playing, the track reached
		// through back/forward plays too.
		s.failStreak = 0
	case originSkip:
		s.hist.Push(history.Location{TrackID: tr.ID})
	}
	s.mu.Unlock()

	s.emitTrack(prevTrack, &cur)
	s.emitState(prevState, StateLoading)

	s.poller.stop()

	// The superseded resource is gone before its replacement exists.
	if old != nil {
		old.Dispose()
	}

	h := s.factory.Load(tr.URL, sound.Callbacks{
		OnLoad:      func(d time.Duration) { s.onLoad(gen, d) },
		OnPlay:      func() { s.onPlay(gen) },
		OnPause:     func() { s.onPause(gen) },
		OnEnd:       func() { s.onEnd(gen) },
		OnSeek:      func(off time.Duration) { s.onSeek(gen, off) },
		OnLoadError: func(err error) { s.onLoadError(gen, err) },
		OnPlayError: func(err error) { s.onPlayError(gen, err) },
	})

	s.mu.Lock()
	if s.closed || gen != s.generation {
		s.mu.Unlock()
		h.Dispose()
		return
	}
	s.handle = h
	level, muted := s.level, s.muted
	s.mu.Unlock()

	h.SetVolume(level)
	h.SetMuted(muted)
}

// TogglePlay flips the transport intent. The observed state follows once
// the resource confirms the change.
func (s *Session) TogglePlay() {
	s.mu.Lock()
	if s.closed || s.current == nil {
		s.mu.Unlock()
		return
	}
	s.intent = !s.intent
	action := s.reconcileLocked()
	s.mu.Unlock()

	if action != nil {
		action()
	}
}

// Seek moves the displayed position without touching the resource, for
// scrubbing. CommitSeek applies the final offset.
func (s *Session) Seek(offset time.Duration) {
	s.mu.Lock()
	if s.closed || s.current == nil {
		s.mu.Unlock()
		return
	}
	s.seeking = true
	offset = s.clampLocked(offset)
	s.position = offset
	s.mu.Unlock()

	s.emitPosition(offset)
}

// CommitSeek seeks the resource to the given offset and resumes position
// tracking.
func (s *Session) CommitSeek(offset time.Duration) {
	s.mu.Lock()
	if s.closed || s.current == nil {
		s.mu.Unlock()
		return
	}
	s.seeking = false
	offset = s.clampLocked(offset)
	s.position = offset
	h := s.handle
	s.mu.Unlock()

	s.emitPosition(offset)
	if h != nil {
		h.Seek(offset)
	}
}

// PlayNext switches to the track the navigation policy derives. Without a
// next track it does nothing.
func (s *Session) PlayNext() {
	s.mu.Lock()
	next, ok := nav.Next(s.current, s.catalog, s.shuffle, s.loop)
	s.mu.Unlock()
	if !ok {
		return
	}
	s.selectTrack(next, originUser)
}

// PlayPrev restarts the current track when more than a few seconds in,
// otherwise switches to the track the navigation policy derives. Without a
// previous track it restarts the current one.
func (s *Session) PlayPrev() {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	if s.position > restartThreshold {
		s.mu.Unlock()
		s.restartCurrent()
		return
	}
	prev, ok := nav.Previous(s.current, s.catalog, s.shuffle, s.loop)
	s.mu.Unlock()

	if !ok {
		s.restartCurrent()
		return
	}
	s.selectTrack(prev, originUser)
}

func (s *Session) restartCurrent() {
	s.mu.Lock()
	h := s.handle
	cur := s.current
	s.mu.Unlock()

	if h != nil && h.Loaded() {
		s.CommitSeek(0)
		return
	}
	if cur != nil {
		// No usable resource; reselect re-creates one.
		s.selectTrack(*cur, originUser)
	}
}

// ToggleShuffle flips shuffle and returns the new value.
func (s *Session) ToggleShuffle() bool {
	s.mu.Lock()
	s.shuffle = !s.shuffle
	v := s.shuffle
	s.mu.Unlock()

	s.emitMode()
	return v
}

// SetShuffle sets the shuffle flag.
func (s *Session) SetShuffle(enabled bool) {
	s.mu.Lock()
	changed := s.shuffle != enabled
	s.shuffle = enabled
	s.mu.Unlock()

	if changed {
		s.emitMode()
	}
}

// CycleLoop rotates the loop mode and returns the new value.
func (s *Session) CycleLoop() nav.LoopMode {
	s.mu.Lock()
	s.loop = s.loop.Cycle()
	m := s.loop
	s.mu.Unlock()

	s.emitMode()
	return m
}

// SetLoop sets the loop mode.
func (s *Session) SetLoop(mode nav.LoopMode) {
	s.mu.Lock()
	changed := s.loop != mode
	s.loop = mode
	s.mu.Unlock()

	if changed {
		s.emitMode()
	}
}

// SetVolume sets the session volume level, carried across track changes.
func (s *Session) SetVolume(level float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	s.mu.Lock()
	s.level = level
	h := s.handle
	s.mu.Unlock()

	if h != nil {
		h.SetVolume(level)
	}
}

// SetMuted mutes or unmutes the session, carried across track changes.
func (s *Session) SetMuted(muted bool) {
	s.mu.Lock()
	s.muted = muted
	h := s.handle
	s.mu.Unlock()

	if h != nil {
		h.SetMuted(muted)
	}
}

// ToggleMute flips the mute flag and returns the new value.
func (s *Session) ToggleMute() bool {
	s.mu.Lock()
	muted := !s.muted
	s.muted = muted
	h := s.handle
	s.mu.Unlock()

	if h != nil {
		h.SetMuted(muted)
	}
	return muted
}

// clampLocked bounds an offset to the known track duration.
// Caller must hold s.mu.
func (s *Session) clampLocked(offset time.Duration) time.Duration {
	if offset < 0 {
		return 0
	}
	if s.duration > 0 && offset > s.duration {
		return s.duration
	}
	return offset
}
