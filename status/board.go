package status

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/coaster/engine"
	"github.com/lixenwraith/coaster/ride"
)

// Board records tick reports and ride states into a Registry
// Only one goroutine writes; any number may read
type Board struct {
	reg *Registry

	tick        *atomic.Int64
	trains      *atomic.Int64
	crashes     *atomic.Int64
	breakdowns  *atomic.Int64
	tests       *atomic.Int64
	soundActive *atomic.Int64
	tps         *AtomicFloat
	paused      *atomic.Bool

	lastTick uint32
	lastAt   time.Time
}

func NewBoard(reg *Registry) *Board {
	return &Board{
		reg:         reg,
		tick:        reg.Ints.Get("sim.tick"),
		trains:      reg.Ints.Get("sim.trains"),
		crashes:     reg.Ints.Get("sim.crashes"),
		breakdowns:  reg.Ints.Get("sim.breakdowns"),
		tests:       reg.Ints.Get("sim.tests"),
		soundActive: reg.Ints.Get("sound.active"),
		tps:         reg.Floats.Get("sim.tps"),
		paused:      reg.Bools.Get("sim.paused"),
	}
}

func (b *Board) Registry() *Registry {
	return b.reg
}

// Record folds one tick report in, at is the wall time it arrived
func (b *Board) Record(rep engine.Report, at time.Time) {
	b.tick.Store(int64(rep.Tick))
	b.trains.Store(int64(rep.Trains))
	b.crashes.Add(int64(rep.Crashes))
	b.breakdowns.Add(int64(rep.Breakdowns))
	b.tests.Add(int64(rep.Tests))
	b.soundActive.Store(int64(rep.Sound.Active))

	if !b.lastAt.IsZero() && rep.Tick > b.lastTick {
		if dt := at.Sub(b.lastAt).Seconds(); dt > 0 {
			b.tps.Set(float64(rep.Tick-b.lastTick) / dt)
		}
	}
	b.lastTick, b.lastAt = rep.Tick, at
}

func (b *Board) SetPaused(p bool) {
	b.paused.Store(p)
}

// RecordRide stores the state and queue length of a ride
// Called with the engine lock held
func (b *Board) RecordRide(r *ride.Ride, waiting int) {
	prefix := "ride." + rideKey(r.Name)
	b.reg.Strings.Get(prefix + ".state").Store(RideState(r))
	b.reg.Ints.Get(prefix + ".waiting").Store(int64(waiting))
	b.reg.Ints.Get(prefix + ".trains").Store(int64(len(r.Trains)))
}

// RideState is the park status of a ride, overridden by a crash or breakdown
func RideState(r *ride.Ride) string {
	switch {
	case r.Is(ride.LifecycleCrashed):
		return "crashed"
	case r.ActiveBreakdown() != ride.BreakdownNone:
		return "broken down"
	}
	return r.Status.String()
}

func rideKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// Line is a one-line summary for the terminal viewer
func (b *Board) Line() string {
	return fmt.Sprintf("%.0f tps  trains %d  crashes %d  breakdowns %d",
		b.tps.Get(), b.trains.Load(), b.crashes.Load(), b.breakdowns.Load())
}
