// internal/countdown/countdown.go

// Package countdown derives a remaining-time view from an absolute expiry
// timestamp. It recomputes locally on a 1 second tick, independent of the
// lobby polling cadence, and fires an expiry callback exactly once.
package countdown

import (
	"fmt"
	"sync"
	"time"

	"github.com/groupie-app/groupie-client/internal/poll"
)

// Tick is the recompute cadence.
const Tick = 1 * time.Second

// urgentThreshold flags the remaining time for urgent styling.
const urgentThreshold = 300 * time.Second

// State is one derived view of the countdown.
type State struct {
	SecondsLeft int
	Display     string // MM:SS, zero-padded
	Urgent      bool
	Expired     bool
}

// Format renders whole seconds as MM:SS with zero-padding.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Derive computes the countdown state at now for the given expiry.
func Derive(now, expiresAt time.Time) State {
	remaining := expiresAt.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	secs := int(remaining / time.Second)
	return State{
		SecondsLeft: secs,
		Display:     Format(secs),
		Urgent:      remaining > 0 && remaining < urgentThreshold,
		Expired:     remaining == 0,
	}
}

// Countdown drives Derive on a fixed tick and reports each state to onTick.
// onExpired fires exactly once, the first time the remaining time reaches
// zero — including immediately when started with an already-past expiry.
type Countdown struct {
	expiresAt time.Time
	now       func() time.Time
	onTick    func(State)
	onExpired func()
	poller    *poll.Poller

	mu    sync.Mutex
	fired bool
}

// New builds a Countdown for expiresAt. Either callback may be nil.
func New(expiresAt time.Time, onTick func(State), onExpired func()) *Countdown {
	c := &Countdown{
		expiresAt: expiresAt,
		now:       time.Now,
		onTick:    onTick,
		onExpired: onExpired,
		poller:    poll.New(Tick),
	}
	c.poller.SetCallback(c.step)
	return c
}

// NewWithClock is New with an injectable clock and ticker source, for tests.
func NewWithClock(expiresAt time.Time, onTick func(State), onExpired func(), now func() time.Time, ticker poll.TickerFunc) *Countdown {
	c := &Countdown{
		expiresAt: expiresAt,
		now:       now,
		onTick:    onTick,
		onExpired: onExpired,
		poller:    poll.NewWithTicker(Tick, ticker),
	}
	c.poller.SetCallback(c.step)
	return c
}

// Start evaluates once right away (a re-mounted view with a past expiry must
// render expired immediately) and then on every tick.
func (c *Countdown) Start() {
	c.step()
	c.poller.Start()
}

// Stop tears the tick down. Safe to call more than once.
func (c *Countdown) Stop() {
	c.poller.Stop()
}

// Current returns the state as of now without ticking callbacks.
func (c *Countdown) Current() State {
	return Derive(c.now(), c.expiresAt)
}

func (c *Countdown) step() {
	st := Derive(c.now(), c.expiresAt)
	if c.onTick != nil {
		c.onTick(st)
	}
	if !st.Expired {
		return
	}

	c.mu.Lock()
	fire := !c.fired
	c.fired = true
	c.mu.Unlock()
	if fire && c.onExpired != nil {
		c.onExpired()
	}
}
