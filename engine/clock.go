package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/coaster/core"
	"github.com/lixenwraith/coaster/parameter"
)

// Clock is a pausable simulation clock
// Simulation time is wall time minus every paused interval.
type Clock struct {
	mu sync.RWMutex

	now    func() time.Time
	start  time.Time
	paused atomic.Bool
	// pausedAt is the wall time the current pause began
	pausedAt time.Time
	// pausedFor is the total length of finished pauses
	pausedFor time.Duration
}

// NewClock creates a running clock, now defaults to time.Now
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now, start: now()}
}

// Now returns the simulation time, frozen while paused
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.paused.Load() {
		return c.start.Add(c.pausedAt.Sub(c.start) - c.pausedFor)
	}
	return c.start.Add(c.now().Sub(c.start) - c.pausedFor)
}

// Pause stops simulation time
func (c *Clock) Pause() {
	if c.paused.CompareAndSwap(false, true) {
		c.mu.Lock()
		c.pausedAt = c.now()
		c.mu.Unlock()
	}
}

// Resume continues simulation time
func (c *Clock) Resume() {
	if c.paused.CompareAndSwap(true, false) {
		c.mu.Lock()
		c.pausedFor += c.now().Sub(c.pausedAt)
		c.pausedAt = time.Time{}
		c.mu.Unlock()
	}
}

// Paused reports whether the clock is paused
func (c *Clock) Paused() bool {
	return c.paused.Load()
}

// PausedFor returns the total paused time including a pause in progress
func (c *Clock) PausedFor() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d := c.pausedFor
	if c.paused.Load() {
		d += c.now().Sub(c.pausedAt)
	}
	return d
}

// Ticker drives Engine.AdvanceAll at a fixed logical rate
// Deadlines advance by whole intervals so the rate does not drift; a loop that
// falls more than two intervals behind resynchronises instead of bursting.
type Ticker struct {
	engine   *Engine
	clock    *Clock
	interval time.Duration
	// limit stops the loop after this many ticks, 0 runs until cancelled
	limit uint32

	tick    atomic.Uint32
	running atomic.Bool
	done    chan struct{}
	reports chan Report
}

// NewTicker creates a ticker for e, reports of every tick are offered on Reports without blocking
// A non-positive interval runs at parameter.TickInterval
func NewTicker(e *Engine, clock *Clock, interval time.Duration, limit uint32) *Ticker {
	if clock == nil {
		clock = NewClock(nil)
	}
	if interval <= 0 {
		interval = parameter.TickInterval
	}
	return &Ticker{
		engine:   e,
		clock:    clock,
		interval: interval,
		limit:    limit,
		done:     make(chan struct{}),
		reports:  make(chan Report, 1),
	}
}

// Clock returns the clock the ticker follows
func (t *Ticker) Clock() *Clock {
	return t.clock
}

// Tick returns the number of ticks run so far
func (t *Ticker) Tick() uint32 {
	return t.tick.Load()
}

// Reports delivers the latest tick report, older ones are dropped when nobody reads
func (t *Ticker) Reports() <-chan Report {
	return t.reports
}

// Done is closed when the loop exits
func (t *Ticker) Done() <-chan struct{} {
	return t.done
}

// Start runs the loop until ctx is cancelled or the tick limit is reached
func (t *Ticker) Start(ctx context.Context) {
	if !t.running.CompareAndSwap(false, true) {
		return
	}
	core.Go(func() { t.loop(ctx) })
}

// Step runs a single tick regardless of pause state
func (t *Ticker) Step() Report {
	r := t.engine.AdvanceAll(t.tick.Add(1))
	select {
	case t.reports <- r:
	default:
		select {
		case <-t.reports:
		default:
		}
		select {
		case t.reports <- r:
		default:
		}
	}
	return r
}

func (t *Ticker) loop(ctx context.Context) {
	defer close(t.done)

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	deadline := t.clock.Now().Add(t.interval)
	for {
		if t.limit != 0 && t.tick.Load() >= t.limit {
			return
		}

		var sleep time.Duration
		if t.clock.Paused() {
			sleep = t.interval * 2
		} else {
			now := t.clock.Now()
			if !now.Before(deadline) {
				t.Step()
				deadline = deadline.Add(t.interval)
				if now.Sub(deadline) > t.interval*2 {
					deadline = now.Add(t.interval)
				}
			}
			sleep = deadline.Sub(t.clock.Now())
		}

		if sleep <= 0 {
			select {
			case <-ctx.Done():
				return
			default:
			}
			continue
		}
		timer.Reset(sleep)
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
}
