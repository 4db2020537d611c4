package session

import (
	"sync"
	"time"
)

// poller runs a repeating tick on its own goroutine. Start is idempotent
// and Stop cancels the goroutine; a tick landing after Stop is the tick
// function's problem, which is why every tick re-checks liveness.
type poller struct {
	interval time.Duration
	tick     func()

	mu     sync.Mutex
	cancel chan struct{}
}

func newPoller(interval time.Duration, tick func()) *poller {
	return &poller{interval: interval, tick: tick}
}

// start launches the tick loop if it is not already running.
func (p *poller) start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	cancel := make(chan struct{})
	p.cancel = cancel
	go p.loop(cancel)
}

// stop cancels the tick loop. Safe to call when not running.
func (p *poller) stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel == nil {
		return
	}
	close(p.cancel)
	p.cancel = nil
}

// running reports whether the tick loop is active.
func (p *poller) running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

func (p *poller) loop(cancel chan struct{}) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-cancel:
			return
		case <-ticker.C:
			p.tick()
		}
	}
}
