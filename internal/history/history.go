// Package history provides the navigable location stack the playback
// session synchronizes with, standing in for a browser URL history.
// Push and Replace record the program's own navigation and do not emit;
// Back and Forward model externally driven navigation and emit the new
// current location on Changes.
package history

import "sync"

const changeBufferSize = 16

// Location is one history entry.
type Location struct {
	TrackID string
}

// Stack is a linear history with a cursor. Safe for concurrent use.
type Stack struct {
	mu      sync.Mutex
	entries []Location
	pos     int
	changes chan Location
	closed  bool
}

// New creates an empty history stack.
func New() *Stack {
	return &Stack{
		pos:     -1,
		changes: make(chan Location, changeBufferSize),
	}
}

// Current returns the location at the cursor.
func (s *Stack) Current() (Location, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos < 0 {
		return Location{}, false
	}
	return s.entries[s.pos], true
}

// Push appends a location at the cursor, discarding any forward entries.
func (s *Stack) Push(loc Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries[:s.pos+1], loc)
	s.pos = len(s.entries) - 1
}

// Replace swaps the location at the cursor, seeding the stack if empty.
func (s *Stack) Replace(loc Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos < 0 {
		s.entries = append(s.entries, loc)
		s.pos = 0
		return
	}
	s.entries[s.pos] = loc
}

// Back moves the cursor one entry back and emits the new location.
// Returns false at the start of the stack.
func (s *Stack) Back() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos <= 0 {
		return false
	}
	s.pos--
	s.emit(s.entries[s.pos])
	return true
}

// Forward moves the cursor one entry forward and emits the new location.
// Returns false at the end of the stack.
func (s *Stack) Forward() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos >= len(s.entries)-1 {
		return false
	}
	s.pos++
	s.emit(s.entries[s.pos])
	return true
}

// Len returns the number of entries.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Changes delivers locations reached through Back and Forward.
func (s *Stack) Changes() <-chan Location {
	return s.changes
}

// Close stops change delivery. Back and Forward still move the cursor.
func (s *Stack) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.changes)
}

// emit sends without blocking, dropping the event if the buffer is full.
// Caller must hold s.mu.
func (s *Stack) emit(loc Location) {
	if s.closed {
		return
	}
	select {
	case s.changes <- loc:
	default:
	}
}
