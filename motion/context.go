package motion

import (
	"github.com/lixenwraith/coaster/event"
	"github.com/lixenwraith/coaster/ride"
	"github.com/lixenwraith/coaster/track"
	"github.com/lixenwraith/coaster/vehicle"
	"github.com/lixenwraith/coaster/vmath"
)

// Context carries everything one integrator call reads or writes
// A Context is reused across calls and rides, it is not safe for concurrent use
type Context struct {
	// ===== Shared Services =====
	// Set once by NewContext, shared with the rest of the simulation

	Pool  *vehicle.Pool
	Types *vehicle.Registry
	Sink  event.Sink
	Rand  *vmath.FastRand

	// ===== Per Ride =====
	// Set by Bind before the vehicles of a ride are advanced

	Ride *ride.Ride
	Tick uint32

	// ===== Per Call Scratch =====
	// Reset at the start of every Advance

	head       *vehicle.Vehicle // train head as passed in
	front      *vehicle.Vehicle // leading car in travel direction, the tail when reversing
	velocity   int32            // train velocity for this tick
	distance   int32            // step units still to walk, trimmed by contact and dead ends
	flags      Flags
	station    int8
	brakeSound bool
	cars       []vehicle.ID
}

// NewContext creates a context over a vehicle pool, nil sink and rand get defaults
func NewContext(pool *vehicle.Pool, types *vehicle.Registry, sink event.Sink, rng *vmath.FastRand) *Context {
	if sink == nil {
		sink = event.Discard{}
	}
	if rng == nil {
		rng = vmath.NewFastRand(1)
	}
	return &Context{
		Pool:  pool,
		Types: types,
		Sink:  sink,
		Rand:  rng,
		cars:  make([]vehicle.ID, 0, 32),
	}
}

// Bind selects the ride and tick the next calls act on
func (c *Context) Bind(r *ride.Ride, tick uint32) {
	c.Ride = r
	c.Tick = tick
}

func (c *Context) reset(head *vehicle.Vehicle) {
	c.head = head
	c.front = head
	c.flags = 0
	c.station = -1
	c.brakeSound = false
}

// segment resolves a car's current piece
func (c *Context) segment(v *vehicle.Vehicle) (track.Segment, bool) {
	if c.Ride == nil || c.Ride.Track == nil {
		return track.Segment{}, false
	}
	seg, err := c.Ride.Track.Segment(v.Segment)
	if err != nil {
		return track.Segment{}, false
	}
	return seg, true
}

// trainID is the reference the ride uses for the train being advanced
func (c *Context) trainID() uint16 {
	return uint16(c.head.ID)
}

func (c *Context) playSound(s event.Sound, at vmath.Vec3) {
	c.Sink.PlaySound(s, at)
}
