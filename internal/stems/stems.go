// Package stems plays the independently-mixed instrument layers of one
// track as a single synchronized unit. Every stem gets its own sound
// resource; play, pause, and seek fan out to all of them, and a
// solo/mute mixing rule decides which layers are audible. A Session is
// built for one stem list and torn down whole; a changed list means a
// fresh Session.
package stems

import (
	"errors"
	"sync"
	"time"

	"github.com/Ivanipani/song-viewer/internal/catalog"
	"github.com/Ivanipani/song-viewer/internal/sound"
)

var (
	// ErrLoadTimeout marks a stem that did not finish loading in time.
	ErrLoadTimeout = errors.New("stem load timed out")
	// ErrNoVariant marks a stem with no playable file variant.
	ErrNoVariant = errors.New("no playable file variant")
)

const (
	// DefaultFormat is the preferred stem encoding when none is configured.
	DefaultFormat = "ogg"

	defaultLoadTimeout  = 10 * time.Second
	defaultPollInterval = time.Second
)

// StemState is one stem's snapshot entry. Entries are value types and are
// replaced wholesale on every change, so a copy handed out by Snapshot
// never mutates under the caller.
type StemState struct {
	Stem     catalog.Stem
	Muted    bool
	Solo     bool
	Level    float64
	Loading  bool
	Err      error
	Duration time.Duration
}

// Audible reports whether the stem produces sound under the mixing rule,
// given whether any stem in the session is soloed.
func (st StemState) Audible(anySolo bool) bool {
	return !st.Muted && (!anySolo || st.Solo)
}

// Options tune a stem session. Zero values select the defaults.
type Options struct {
	// PreferredFormat picks among a stem's file variants; falls back to
	// the first variant when no file matches.
	PreferredFormat string
	// LoadTimeout bounds how long a stem may load before it is marked
	// errored instead of holding up the session.
	LoadTimeout time.Duration
	// PollInterval is the position refresh cadence while playing.
	PollInterval time.Duration
	// Volume is the initial per-stem level, 1.0 when unset.
	Volume float64
}

func (o Options) withDefaults() Options {
	if o.PreferredFormat == "" {
		o.PreferredFormat = DefaultFormat
	}
	if o.LoadTimeout <= 0 {
		o.LoadTimeout = defaultLoadTimeout
	}
	if o.PollInterval <= 0 {
		o.PollInterval = defaultPollInterval
	}
	if o.Volume <= 0 {
		o.Volume = 1
	}
	return o
}

// Session drives N stem resources under one shared transport.
type Session struct {
	opts Options

	mu         sync.Mutex
	order      []string
	states     map[string]StemState
	handles    map[string]sound.Handle
	timers     map[string]*time.Timer
	playing    bool
	position   time.Duration
	duration   time.Duration
	pollCancel chan struct{}
	closed     bool
}

// New builds a session over the given stems, one resource per stem.
// Loading starts immediately; per-stem progress is visible via Snapshot.
func New(factory sound.Factory, list []catalog.Stem, opts Options) *Session {
	s := &Session{
		opts:    opts.withDefaults(),
		order:   make([]string, 0, len(list)),
		states:  make(map[string]StemState, len(list)),
		handles: make(map[string]sound.Handle, len(list)),
		timers:  make(map[string]*time.Timer, len(list)),
	}

	s.mu.Lock()
	for _, stem := range list {
		id := stem.ID
		s.order = append(s.order, id)
		st := StemState{
			Stem:  stem,
			Muted: stem.Muted,
			Solo:  stem.Solo,
			Level: s.opts.Volume,
		}

		file, ok := stem.PickFile(s.opts.PreferredFormat)
		if !ok {
			st.Err = ErrNoVariant
			s.states[id] = st
			continue
		}

		st.Loading = true
		s.states[id] = st
		s.handles[id] = factory.Load(file.URL, sound.Callbacks{
			OnLoad:      func(d time.Duration) { s.onLoad(id, d) },
			OnEnd:       func() { s.onEnd(id) },
			OnLoadError: func(err error) { s.onLoadError(id, err) },
			OnPlayError: func(err error) { s.onPlayError(id, err) },
		})
		s.timers[id] = time.AfterFunc(s.opts.LoadTimeout, func() { s.onTimeout(id) })
	}
	targets := s.applyMixLocked()
	s.mu.Unlock()

	for _, t := range targets {
		if s.opts.Volume != 1 {
			t.handle.SetVolume(s.opts.Volume)
		}
		t.handle.SetMuted(t.muted)
	}
	return s
}

// Playing reports whether the shared transport is running.
func (s *Session) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// Position returns the transport position, read from the reference stem.
func (s *Session) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

// Duration returns the mix length: the longest loaded stem.
func (s *Session) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.duration
}

// Loading reports whether any stem is still waiting on its resource.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.states {
		if st.Loading {
			return true
		}
	}
	return false
}

// AnySolo reports whether at least one stem is soloed.
func (s *Session) AnySolo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.anySoloLocked()
}

// Snapshot returns a copy of every stem's state in mixing order.
func (s *Session) Snapshot() []StemState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StemState, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.states[id])
	}
	return out
}

// Close disposes every stem resource and stops polling. Idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.playing = false
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.stopPollLocked()
	handles := s.liveHandlesLocked()
	s.mu.Unlock()

	for _, h := range handles {
		h.Dispose()
	}
}

func (s *Session) anySoloLocked() bool {
	for _, st := range s.states {
		if st.Solo {
			return true
		}
	}
	return false
}

// liveHandlesLocked returns the handles in mixing order.
func (s *Session) liveHandlesLocked() []sound.Handle {
	out := make([]sound.Handle, 0, len(s.handles))
	for _, id := range s.order {
		if h, ok := s.handles[id]; ok {
			out = append(out, h)
		}
	}
	return out
}

// referenceLocked returns the first loaded, healthy stem's handle. Its
// clock stands in for the whole mix between seeks.
func (s *Session) referenceLocked() sound.Handle {
	for _, id := range s.order {
		st := s.states[id]
		if st.Loading || st.Err != nil {
			continue
		}
		if h, ok := s.handles[id]; ok {
			return h
		}
	}
	return nil
}

func (s *Session) startPollLocked() {
	if s.pollCancel != nil || s.closed {
		return
	}
	cancel := make(chan struct{})
	s.pollCancel = cancel
	go func() {
		ticker := time.NewTicker(s.opts.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-cancel:
				return
			case <-ticker.C:
				s.pollPosition()
			}
		}
	}()
}

func (s *Session) stopPollLocked() {
	if s.pollCancel == nil {
		return
	}
	close(s.pollCancel)
	s.pollCancel = nil
}
