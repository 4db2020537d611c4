package sound

import (
	"sync/atomic"

	"github.com/gopxl/beep/v2"
)

// gate wraps a streamer so one resource can be detached from the speaker
// mixer without clearing sibling streams: once closed it reports drained
// and the mixer drops it on the next cycle.
type gate struct {
	inner  beep.Streamer
	closed atomic.Bool
}

func newGate(inner beep.Streamer) *gate {
	return &gate{inner: inner}
}

func (g *gate) Stream(samples [][2]float64) (int, bool) {
	if g.closed.Load() {
		return 0, false
	}
	return g.inner.Stream(samples)
}

func (g *gate) Err() error { return nil }

// Close makes the gate report drained. Safe to call from any goroutine.
func (g *gate) Close() {
	g.closed.Store(true)
}

func (g *gate) Closed() bool {
	return g.closed.Load()
}
