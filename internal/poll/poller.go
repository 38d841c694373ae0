// internal/poll/poller.go

// Package poll provides the recurring-invocation primitive behind lobby
// synchronization, pointer validity checks and the countdown tick. Each
// concern runs its own Poller; timers are never shared.
package poll

import (
	"sync"
	"time"
)

// Disabled is the interval sentinel that keeps a Poller inert.
const Disabled time.Duration = 0

// TickerFunc produces a tick channel for an interval plus a stop function.
// Tests substitute a virtual clock here; the default wraps time.NewTicker.
type TickerFunc func(d time.Duration) (<-chan time.Time, func())

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Poller invokes the latest registered callback on every interval tick. The
// first invocation happens after one full interval, never immediately: the
// initial fetch is done once, outside the timer. Start and Stop pair up
// one-to-one per mount so no timer leaks across remounts.
type Poller struct {
	mu       sync.Mutex
	interval time.Duration
	callback func()
	ticker   TickerFunc
	done     chan struct{}
	stop     func()
}

// New returns a stopped Poller. interval may be Disabled.
func New(interval time.Duration) *Poller {
	return &Poller{interval: interval, ticker: realTicker}
}

// NewWithTicker returns a Poller driven by a custom ticker source.
func NewWithTicker(interval time.Duration, ticker TickerFunc) *Poller {
	return &Poller{interval: interval, ticker: ticker}
}

// SetCallback swaps the function invoked on each tick. The running timer
// always sees the newest callback, never a stale closure.
func (p *Poller) SetCallback(fn func()) {
	p.mu.Lock()
	p.callback = fn
	p.mu.Unlock()
}

// Start launches the timer. No-op while already running or when the interval
// is Disabled.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done != nil || p.interval == Disabled {
		return
	}

	ch, stop := p.ticker(p.interval)
	done := make(chan struct{})
	p.done = done
	p.stop = stop

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ch:
				p.mu.Lock()
				fn := p.callback
				p.mu.Unlock()
				if fn != nil {
					fn()
				}
			}
		}
	}()
}

// Stop tears down the timer. No-op when not running.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done == nil {
		return
	}
	close(p.done)
	p.stop()
	p.done = nil
	p.stop = nil
}

// SetInterval re-keys the timer. A running Poller is restarted with the new
// interval; passing Disabled tears it down.
func (p *Poller) SetInterval(d time.Duration) {
	p.mu.Lock()
	running := p.done != nil
	p.mu.Unlock()

	if running {
		p.Stop()
	}
	p.mu.Lock()
	p.interval = d
	p.mu.Unlock()
	if running && d != Disabled {
		p.Start()
	}
}

// Running reports whether the timer is live.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done != nil
}
