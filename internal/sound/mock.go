package sound

import (
	"sync"
	"time"
)

// MockFactory is a test double for Factory. It records every Load and hands
// out MockHandles whose loading, ending, and failing are driven by the test.
type MockFactory struct {
	mu      sync.Mutex
	handles []*MockHandle
}

// NewMockFactory creates a new mock factory for testing.
func NewMockFactory() *MockFactory {
	return &MockFactory{}
}

func (f *MockFactory) Load(url string, cb Callbacks) Handle {
	h := &MockHandle{url: url, cb: cb, level: 1}
	f.mu.Lock()
	f.handles = append(f.handles, h)
	f.mu.Unlock()
	return h
}

// Loads returns the URLs passed to Load, in order.
func (f *MockFactory) Loads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	urls := make([]string, len(f.handles))
	for i, h := range f.handles {
		urls[i] = h.url
	}
	return urls
}

// HandleCount returns how many handles were created.
func (f *MockFactory) HandleCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handles)
}

// HandleAt returns the i-th created handle.
func (f *MockFactory) HandleAt(i int) *MockHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handles[i]
}

// LastHandle returns the most recently created handle, or nil.
func (f *MockFactory) LastHandle() *MockHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.handles) == 0 {
		return nil
	}
	return f.handles[len(f.handles)-1]
}

// Verify MockFactory implements Factory at compile time.
var _ Factory = (*MockFactory)(nil)

// MockHandle is a test double for Handle. Callbacks fire synchronously on
// the calling goroutine, with no internal lock held.
type MockHandle struct {
	mu          sync.Mutex
	url         string
	cb          Callbacks
	loaded      bool
	playing     bool
	disposed    bool
	pendingPlay bool
	loadErr     error
	position    time.Duration
	duration    time.Duration
	level       float64
	muted       bool
	playCalls   int
	pauseCalls  int
	seekCalls   []time.Duration
}

func (m *MockHandle) Play() {
	m.mu.Lock()
	m.playCalls++
	if m.disposed {
		m.mu.Unlock()
		return
	}
	if m.loadErr != nil {
		cb, err := m.cb.OnPlayError, m.loadErr
		m.mu.Unlock()
		if cb != nil {
			cb(err)
		}
		return
	}
	if !m.loaded {
		m.pendingPlay = true
		m.mu.Unlock()
		return
	}
	if m.playing {
		m.mu.Unlock()
		return
	}
	m.playing = true
	cb := m.cb.OnPlay
	m.mu.Unlock()
	if cb != nil {
		cb()
	}
}

func (m *MockHandle) Pause() {
	m.mu.Lock()
	m.pauseCalls++
	if m.disposed || !m.playing {
		m.mu.Unlock()
		return
	}
	m.playing = false
	cb := m.cb.OnPause
	m.mu.Unlock()
	if cb != nil {
		cb()
	}
}

func (m *MockHandle) Seek(offset time.Duration) {
	m.mu.Lock()
	m.seekCalls = append(m.seekCalls, offset)
	if m.disposed || !m.loaded {
		m.mu.Unlock()
		return
	}
	if offset < 0 {
		offset = 0
	}
	if offset > m.duration {
		offset = m.duration
	}
	m.position = offset
	cb := m.cb.OnSeek
	m.mu.Unlock()
	if cb != nil {
		cb(offset)
	}
}

func (m *MockHandle) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

func (m *MockHandle) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

func (m *MockHandle) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadErr
}

func (m *MockHandle) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *MockHandle) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *MockHandle) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = level
}

func (m *MockHandle) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
}

func (m *MockHandle) Dispose() {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.disposed = true
	m.playing = false
	wasLoaded := m.loaded
	cb := m.cb.OnStop
	m.mu.Unlock()
	if wasLoaded && cb != nil {
		cb()
	}
}

// Test helpers

// SimulateLoad completes loading with the given duration, honoring a
// pending play request.
func (m *MockHandle) SimulateLoad(d time.Duration) {
	m.mu.Lock()
	if m.disposed || m.loaded {
		m.mu.Unlock()
		return
	}
	m.loaded = true
	m.duration = d
	play := m.pendingPlay
	m.pendingPlay = false
	cb := m.cb.OnLoad
	m.mu.Unlock()
	if cb != nil {
		cb(d)
	}
	if play {
		m.Play()
	}
}

// SimulateLoadError fails loading with err.
func (m *MockHandle) SimulateLoadError(err error) {
	m.mu.Lock()
	if m.disposed || m.loaded {
		m.mu.Unlock()
		return
	}
	m.loadErr = err
	m.pendingPlay = false
	cb := m.cb.OnLoadError
	m.mu.Unlock()
	if cb != nil {
		cb(err)
	}
}

// SimulateEnd simulates the track running to its end.
func (m *MockHandle) SimulateEnd() {
	m.mu.Lock()
	if m.disposed || !m.playing {
		m.mu.Unlock()
		return
	}
	m.playing = false
	m.position = m.duration
	cb := m.cb.OnEnd
	m.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// SetPosition moves the reported position without firing callbacks.
func (m *MockHandle) SetPosition(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = d
}

// URL returns the URL the handle was loaded from.
func (m *MockHandle) URL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.url
}

// Disposed reports whether Dispose was called.
func (m *MockHandle) Disposed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disposed
}

// PendingPlay reports whether a play request arrived before loading.
func (m *MockHandle) PendingPlay() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pendingPlay
}

// Muted returns the last SetMuted value.
func (m *MockHandle) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

// Level returns the last SetVolume value.
func (m *MockHandle) Level() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

// PlayCalls returns how many times Play was called.
func (m *MockHandle) PlayCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playCalls
}

// PauseCalls returns how many times Pause was called.
func (m *MockHandle) PauseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauseCalls
}

// SeekCalls returns the offsets passed to Seek.
func (m *MockHandle) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, len(m.seekCalls))
	copy(out, m.seekCalls)
	return out
}

// Verify MockHandle implements Handle at compile time.
var _ Handle = (*MockHandle)(nil)
