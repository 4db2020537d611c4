// Package session owns the single-track playback session: the selected
// track, the live sound resource, the transport intent, and the position.
// It derives next and previous tracks through the nav policy, keeps the
// history stack in step with the selection, and publishes changes through
// event subscriptions.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/Ivanipani/song-viewer/internal/catalog"
	"github.com/Ivanipani/song-viewer/internal/history"
	"github.com/Ivanipani/song-viewer/internal/nav"
	"github.com/Ivanipani/song-viewer/internal/sound"
)

// ErrTrackNotFound is returned when a selection names an unknown track id.
var ErrTrackNotFound = errors.New("track not found")

// Pressing previous after this much playback restarts the current track
// instead of switching to the previous one.
const restartThreshold = 3 * time.Second

const defaultPollInterval = time.Second

// origin tags what drove a selection, so history writes and autoplay follow
// the cause: user actions push and start playback, history navigation does
// neither, and the initial selection only seeds the history. originSkip is
// the error auto-advance, which acts like a user selection but preserves
// the failure streak.
type origin int

const (
	originUser origin = iota
	originHistory
	originInit
	originSkip
)

// Options configures a session.
type Options struct {
	// PollInterval is the position refresh period while playing.
	// Defaults to one second.
	PollInterval time.Duration
	// Volume is the initial volume level (0.0 to 1.0). Defaults to 1.
	Volume float64
}

// Session is the single-track playback session. Safe for concurrent use.
type Session struct {
	factory sound.Factory
	catalog *catalog.Catalog
	hist    *history.Stack

	mu         sync.Mutex
	current    *catalog.Track
	handle     sound.Handle
	generation uint64
	state      State
	intent     bool
	position   time.Duration
	duration   time.Duration
	seeking    bool
	loop       nav.LoopMode
	shuffle    bool
	level      float64
	muted      bool
	failStreak int
	closed     bool

	poller *poller
	done   chan struct{}

	subsMu sync.RWMutex
	subs   []*Subscription
}

// New creates a session over the given catalog. Call Start to resolve the
// initial selection and begin following history navigation.
func New(factory sound.Factory, cat *catalog.Catalog, hist *history.Stack, opts Options) *Session {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	level := opts.Volume
	if level <= 0 || level > 1 {
		level = 1
	}
	s := &Session{
		factory: factory,
		catalog: cat,
		hist:    hist,
		state:   StateUninitialized,
		level:   level,
		done:    make(chan struct{}),
	}
	s.poller = newPoller(interval, s.pollPosition)
	return s
}

// Start resolves the initial selection exactly once: the track named by the
// current history location if it is valid, else the first catalog track,
// seeding the history in place. It then follows history navigation until
// Close. The initial selection does not start playback.
func (s *Session) Start() {
	var tr catalog.Track
	found := false
	if loc, ok := s.hist.Current(); ok {
		tr, found = s.catalog.ByID(loc.TrackID)
	}
	if !found {
		tr, _ = s.catalog.Track(0)
	}
	s.selectTrack(tr, originInit)

	go s.watchHistory()
}

// watchHistory applies externally driven location changes to the selection.
func (s *Session) watchHistory() {
	for {
		select {
		case <-s.done:
			return
		case loc, ok := <-s.hist.Changes():
			if !ok {
				return
			}
			s.mu.Lock()
			same := s.current != nil && s.current.ID == loc.TrackID
			s.mu.Unlock()
			if same {
				continue
			}
			tr, found := s.catalog.ByID(loc.TrackID)
			if !found {
				continue
			}
			s.selectTrack(tr, originHistory)
		}
	}
}

// Close tears the session down: stops polling, disposes the live resource,
// and closes all subscriptions. Safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	h := s.handle
	s.handle = nil
	s.mu.Unlock()

	s.poller.stop()
	if h != nil {
		h.Dispose()
	}

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.subsMu.Unlock()
	return nil
}

// Subscribe creates a new event subscription.
func (s *Session) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

// State queries

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Playing reports whether audio is progressing.
func (s *Session) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StatePlaying
}

// Position returns the last observed playback position.
func (s *Session) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

// Duration returns the selected track's duration, 0 until its resource
// has loaded.
func (s *Session) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.duration
}

// CurrentTrack returns a copy of the selected track, or nil before the
// first selection.
func (s *Session) CurrentTrack() *catalog.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	tr := *s.current
	return &tr
}

// Loop returns the loop mode.
func (s *Session) Loop() nav.LoopMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loop
}

// Shuffle reports whether shuffle is enabled.
func (s *Session) Shuffle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shuffle
}

// Volume returns the session volume level (0.0 to 1.0).
func (s *Session) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// Muted reports whether the session is muted.
func (s *Session) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// Catalog returns the catalog the session plays from.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// Event emission

func (s *Session) emitState(prev, cur State) {
	if prev == cur {
		return
	}
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendState(StateChange{Previous: prev, Current: cur})
	}
}

func (s *Session) emitTrack(prev, cur *catalog.Track) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendTrack(TrackChange{Previous: prev, Current: cur})
	}
}

func (s *Session) emitPosition(pos time.Duration) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendPosition(pos)
	}
}

func (s *Session) emitMode() {
	s.mu.Lock()
	e := ModeChange{Loop: s.loop, Shuffle: s.shuffle}
	s.mu.Unlock()

	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendMode(e)
	}
}

func (s *Session) emitError(op, trackID string, err error) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendError(ErrorEvent{Operation: op, TrackID: trackID, Err: err})
	}
}
