package stems

import "time"

// Resource callbacks re-enter the session here, each carrying its stem's
// id. A closed session drops everything; a stem whose timeout already
// fired can still recover when its load eventually completes.

func (s *Session) onLoad(id string, d time.Duration) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	st, ok := s.states[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	if t := s.timers[id]; t != nil {
		t.Stop()
		delete(s.timers, id)
	}
	st.Loading = false
	st.Err = nil
	st.Duration = d
	s.states[id] = st
	if d > s.duration {
		s.duration = d
	}
	join := s.playing
	pos := s.position
	h := s.handles[id]
	s.mu.Unlock()

	// A stem that finished loading mid-playback joins the running mix at
	// the transport position.
	if join && h != nil && !h.Playing() {
		if pos > 0 {
			h.Seek(pos)
		}
		h.Play()
	}
}

func (s *Session) onLoadError(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	st, ok := s.states[id]
	if !ok {
		return
	}
	if t := s.timers[id]; t != nil {
		t.Stop()
		delete(s.timers, id)
	}
	st.Loading = false
	st.Err = err
	s.states[id] = st
}

// onTimeout marks a stem errored so one slow resource cannot hold the
// whole session in loading. The resource keeps loading in the
// background; onLoad clears the error if it ever arrives.
func (s *Session) onTimeout(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	st, ok := s.states[id]
	if !ok || !st.Loading {
		return
	}
	delete(s.timers, id)
	st.Loading = false
	st.Err = ErrLoadTimeout
	s.states[id] = st
}

func (s *Session) onPlayError(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	st, ok := s.states[id]
	if !ok {
		return
	}
	st.Err = err
	s.states[id] = st
}

// onEnd stops the transport once the last still-running stem finishes.
// Shorter stems end earlier without affecting the mix.
func (s *Session) onEnd(id string) {
	s.mu.Lock()
	if s.closed || !s.playing {
		s.mu.Unlock()
		return
	}
	handles := s.liveHandlesLocked()
	s.mu.Unlock()

	for _, h := range handles {
		if h.Playing() {
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.playing {
		return
	}
	s.playing = false
	s.position = s.duration
	s.stopPollLocked()
}

func (s *Session) pollPosition() {
	s.mu.Lock()
	if s.closed || !s.playing {
		s.mu.Unlock()
		return
	}
	h := s.referenceLocked()
	s.mu.Unlock()
	if h == nil {
		return
	}

	pos := h.Position()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.playing {
		return
	}
	if s.duration > 0 && pos > s.duration {
		pos = s.duration
	}
	s.position = pos
}
