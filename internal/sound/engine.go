package sound

import (
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

const resampleQuality = 4

// Engine loads audio resources and plays them through the speaker. The
// speaker is initialized once, from the first loaded resource's sample
// rate; later resources with a different rate are resampled.
type Engine struct {
	client *http.Client

	mu          sync.Mutex
	initialized bool
	sampleRate  beep.SampleRate
}

// NewEngine creates an engine whose HTTP fetches time out after timeout.
func NewEngine(timeout time.Duration) *Engine {
	return &Engine{
		client: &http.Client{Timeout: timeout},
	}
}

// Load starts fetching and decoding the resource in the background and
// returns its handle immediately. The outcome arrives through cb.
func (e *Engine) Load(url string, cb Callbacks) Handle {
	h := &handle{eng: e, cb: cb, level: 1}
	go h.load(url)
	return h
}

func (e *Engine) ensureSpeaker(sr beep.SampleRate) (beep.SampleRate, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
			return 0, fmt.Errorf("init speaker: %w", err)
		}
		e.sampleRate = sr
		e.initialized = true
	}
	return e.sampleRate, nil
}

// Verify Engine implements Factory at compile time.
var _ Factory = (*Engine)(nil)

// handle is the beep-backed Handle implementation.
//
// h.mu guards the handle fields; the speaker lock guards streamer access
// shared with the audio goroutine. Callbacks are always invoked with h.mu
// released so they may re-enter the handle.
type handle struct {
	eng *Engine
	cb  Callbacks

	mu          sync.Mutex
	streamer    beep.StreamSeekCloser
	format      beep.Format
	ctrl        *beep.Ctrl
	volume      *effects.Volume
	gate        *gate
	duration    time.Duration
	loaded      bool
	attached    bool
	playing     bool
	pendingPlay bool
	disposed    bool
	loadErr     error
	level       float64
	muted       bool
}

func (h *handle) load(rawURL string) {
	data, err := h.eng.fetch(rawURL)
	if err != nil {
		h.fail(fmt.Errorf("fetch %s: %w", rawURL, err))
		return
	}

	streamer, format, err := decode(rawURL, data)
	if err != nil {
		h.fail(fmt.Errorf("decode %s: %w", rawURL, err))
		return
	}

	speakerRate, err := h.eng.ensureSpeaker(format.SampleRate)
	if err != nil {
		streamer.Close()
		h.fail(err)
		return
	}

	h.mu.Lock()
	if h.disposed {
		h.mu.Unlock()
		streamer.Close()
		return
	}
	h.streamer = streamer
	h.format = format

	var src beep.Streamer = streamer
	if format.SampleRate != speakerRate {
		src = beep.Resample(resampleQuality, format.SampleRate, speakerRate, streamer)
	}
	h.ctrl = &beep.Ctrl{Streamer: src, Paused: true}
	h.volume = &effects.Volume{Streamer: h.ctrl, Base: 2, Volume: levelToVolume(h.level), Silent: h.muted}
	h.duration = format.SampleRate.D(streamer.Len())
	h.loaded = true
	h.attach()

	play := h.pendingPlay
	h.pendingPlay = false
	onLoad := h.cb.OnLoad
	d := h.duration
	h.mu.Unlock()

	if onLoad != nil {
		onLoad(d)
	}
	if play {
		h.Play()
	}
}

// attach adds the (paused) chain to the speaker mixer with a fresh gate.
// Caller must hold h.mu.
func (h *handle) attach() {
	g := newGate(h.volume)
	h.gate = g
	h.attached = true
	speaker.Play(beep.Seq(g, beep.Callback(func() {
		// Runs on the audio goroutine with the speaker locked; do the
		// real work elsewhere.
		go h.drained(g)
	})))
}

// drained handles the chain leaving the mixer, distinguishing a natural
// end of track from a disposal.
func (h *handle) drained(g *gate) {
	h.mu.Lock()
	if h.disposed || h.gate != g || g.Closed() {
		h.mu.Unlock()
		return
	}
	h.attached = false
	h.playing = false
	onEnd := h.cb.OnEnd
	h.mu.Unlock()

	if onEnd != nil {
		onEnd()
	}
}

func (h *handle) fail(err error) {
	h.mu.Lock()
	if h.disposed {
		h.mu.Unlock()
		return
	}
	h.loadErr = err
	h.pendingPlay = false
	cb := h.cb.OnLoadError
	h.mu.Unlock()

	if cb != nil {
		cb(err)
	}
}

func (h *handle) Play() {
	h.mu.Lock()
	if h.disposed {
		h.mu.Unlock()
		return
	}
	if h.loadErr != nil {
		cb, err := h.cb.OnPlayError, h.loadErr
		h.mu.Unlock()
		if cb != nil {
			cb(err)
		}
		return
	}
	if !h.loaded {
		h.pendingPlay = true
		h.mu.Unlock()
		return
	}
	if h.playing {
		h.mu.Unlock()
		return
	}
	if !h.attached {
		// The track ran to the end earlier: restart from the top unless
		// a seek already moved the cursor back.
		speaker.Lock()
		if h.streamer.Position() >= h.streamer.Len() {
			_ = h.streamer.Seek(0)
		}
		speaker.Unlock()
		h.attach()
	}
	speaker.Lock()
	h.ctrl.Paused = false
	speaker.Unlock()
	h.playing = true
	cb := h.cb.OnPlay
	h.mu.Unlock()

	if cb != nil {
		cb()
	}
}

func (h *handle) Pause() {
	h.mu.Lock()
	if h.disposed || !h.loaded || !h.playing {
		h.mu.Unlock()
		return
	}
	speaker.Lock()
	h.ctrl.Paused = true
	speaker.Unlock()
	h.playing = false
	cb := h.cb.OnPause
	h.mu.Unlock()

	if cb != nil {
		cb()
	}
}

func (h *handle) Seek(offset time.Duration) {
	h.mu.Lock()
	if h.disposed || !h.loaded {
		h.mu.Unlock()
		return
	}
	if offset < 0 {
		offset = 0
	}
	if offset > h.duration {
		offset = h.duration
	}
	n := min(h.format.SampleRate.N(offset), h.streamer.Len())

	speaker.Lock()
	err := h.streamer.Seek(n)
	speaker.Unlock()

	if err != nil {
		cb := h.cb.OnPlayError
		h.mu.Unlock()
		if cb != nil {
			cb(fmt.Errorf("seek: %w", err))
		}
		return
	}
	cb := h.cb.OnSeek
	h.mu.Unlock()

	if cb != nil {
		cb(offset)
	}
}

func (h *handle) Playing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.playing
}

func (h *handle) Loaded() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loaded
}

func (h *handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loadErr
}

func (h *handle) Position() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.loaded || h.disposed {
		return 0
	}
	// Read position without the speaker lock - may be slightly stale but
	// avoids deadlocks.
	return h.format.SampleRate.D(h.streamer.Position())
}

func (h *handle) Duration() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.duration
}

func (h *handle) SetVolume(level float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.level = level
	if h.loaded && !h.disposed {
		speaker.Lock()
		h.volume.Volume = levelToVolume(level)
		speaker.Unlock()
	}
}

func (h *handle) SetMuted(muted bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.muted = muted
	if h.loaded && !h.disposed {
		speaker.Lock()
		h.volume.Silent = muted
		speaker.Unlock()
	}
}

func (h *handle) Dispose() {
	h.mu.Lock()
	if h.disposed {
		h.mu.Unlock()
		return
	}
	h.disposed = true
	h.playing = false
	h.attached = false
	h.pendingPlay = false
	g := h.gate
	streamer := h.streamer
	wasLoaded := h.loaded
	onStop := h.cb.OnStop
	h.mu.Unlock()

	if g != nil {
		g.Close()
	}
	if streamer != nil {
		// Synchronize with the audio goroutine before closing the decoder.
		speaker.Lock()
		speaker.Unlock()
		streamer.Close()
	}
	if wasLoaded && onStop != nil {
		onStop()
	}
}

// levelToVolume converts a 0.0-1.0 level to beep's Volume value.
// beep uses a logarithmic scale with base 2: 0 means no change, -1 half
// volume, -2 quarter. 0.0 maps to -10, essentially silent.
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}

// Verify handle implements Handle at compile time.
var _ Handle = (*handle)(nil)
