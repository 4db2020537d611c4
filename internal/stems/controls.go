package stems

import (
	"time"

	"github.com/Ivanipani/song-viewer/internal/sound"
)

// mixTarget pairs a handle with the effective mute the mixing rule
// computed for it. Targets are collected under the lock and applied
// after it is released.
type mixTarget struct {
	handle sound.Handle
	muted  bool
}

// Play starts every stem that is not already playing and begins
// position polling. Stems still loading pick the request up when their
// resource arrives.
func (s *Session) Play() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.playing = true
	s.startPollLocked()
	handles := s.liveHandlesLocked()
	s.mu.Unlock()

	for _, h := range handles {
		if !h.Playing() {
			h.Play()
		}
	}
}

// Pause suspends every stem and stops polling.
func (s *Session) Pause() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.playing = false
	s.stopPollLocked()
	handles := s.liveHandlesLocked()
	s.mu.Unlock()

	for _, h := range handles {
		h.Pause()
	}
}

// TogglePlay flips between Play and Pause.
func (s *Session) TogglePlay() {
	if s.Playing() {
		s.Pause()
	} else {
		s.Play()
	}
}

// Seek moves every stem to the same absolute offset. Seeking is also how
// the stems are pulled back into sync after their clocks drift apart.
func (s *Session) Seek(offset time.Duration) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if offset < 0 {
		offset = 0
	}
	if s.duration > 0 && offset > s.duration {
		offset = s.duration
	}
	s.position = offset
	handles := s.liveHandlesLocked()
	s.mu.Unlock()

	for _, h := range handles {
		h.Seek(offset)
	}
}

// ToggleMute flips one stem's mute flag and reapplies the mixing rule to
// every stem.
func (s *Session) ToggleMute(id string) {
	s.mu.Lock()
	st, ok := s.states[id]
	if !ok || s.closed {
		s.mu.Unlock()
		return
	}
	st.Muted = !st.Muted
	s.states[id] = st
	targets := s.applyMixLocked()
	s.mu.Unlock()

	applyMix(targets)
}

// ToggleSolo flips one stem's solo flag and reapplies the mixing rule to
// every stem: soloing one stem changes the effective mute of all others.
func (s *Session) ToggleSolo(id string) {
	s.mu.Lock()
	st, ok := s.states[id]
	if !ok || s.closed {
		s.mu.Unlock()
		return
	}
	st.Solo = !st.Solo
	s.states[id] = st
	targets := s.applyMixLocked()
	s.mu.Unlock()

	applyMix(targets)
}

// SetVolume sets one stem's gain, independent of mute and solo.
func (s *Session) SetVolume(id string, level float64) {
	s.mu.Lock()
	st, ok := s.states[id]
	if !ok || s.closed {
		s.mu.Unlock()
		return
	}
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	st.Level = level
	s.states[id] = st
	h := s.handles[id]
	s.mu.Unlock()

	if h != nil {
		h.SetVolume(level)
	}
}

// applyMixLocked recomputes every stem's effective mute under the
// solo/mute rule: any active solo silences all non-soloed stems, and an
// explicit mute always silences its own stem, soloed or not.
func (s *Session) applyMixLocked() []mixTarget {
	anySolo := s.anySoloLocked()
	targets := make([]mixTarget, 0, len(s.order))
	for _, id := range s.order {
		h, ok := s.handles[id]
		if !ok {
			continue
		}
		targets = append(targets, mixTarget{
			handle: h,
			muted:  !s.states[id].Audible(anySolo),
		})
	}
	return targets
}

func applyMix(targets []mixTarget) {
	for _, t := range targets {
		t.handle.SetMuted(t.muted)
	}
}
