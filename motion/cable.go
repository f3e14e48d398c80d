package motion

import (
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/physics"
	"github.com/lixenwraith/coaster/track"
	"github.com/lixenwraith/coaster/vehicle"
	"github.com/lixenwraith/coaster/vmath"
)

// AdvanceCableLift moves the cable lift chain that hauls trains up a cable hill
// The chain walks without piece effects or collision checks. FlagAtStation is
// raised once the chain rolls back off the bottom of the hill, FlagCableLiftEnd
// once its head nears the top.
func (c *Context) AdvanceCableLift(cable *vehicle.Vehicle) Flags {
	c.reset(cable)

	cable.Velocity = vmath.Saturate(int64(cable.Velocity) + int64(cable.Acceleration))
	c.velocity = cable.Velocity
	c.distance = StepDistance(cable.Velocity)

	c.cars = c.Pool.Cars(cable.ID, c.cars)
	n := len(c.cars)
	if n == 0 {
		return c.flags
	}
	if c.velocity < 0 {
		c.front = c.Pool.Get(c.cars[n-1])
	}

	var sum int64
	var friction int32
	for i := 0; i < n; i++ {
		idx := i
		if c.velocity < 0 {
			idx = n - 1 - i
		}
		car := c.Pool.Get(c.cars[idx])
		if car == nil {
			continue
		}
		seg, ok := c.segment(car)
		if !ok {
			c.flags |= FlagEndOfTrack
			continue
		}

		w := walker{c: c, car: car, typ: c.Types.Get(car.Type), seg: seg, last: car.Pos, steps: 1, quiet: true}
		w.accel = int64(pitchAcceleration(car.Pitch))
		car.Remainder += c.distance
		for bounce := 0; bounce < maxBounces; bounce++ {
			var again bool
			switch {
			case car.Remainder < 0:
				again = w.backward()
			case car.Remainder >= parameter.WayPointBudget:
				again = w.forward()
			}
			if !again {
				break
			}
		}
		car.Acceleration = int32(w.accel / int64(w.steps))
		sum += int64(car.Acceleration)
		friction += w.typ.Friction
	}

	if seg, ok := c.segment(cable); ok {
		switch {
		case c.velocity > 0 && seg.Element == track.ElemCableLiftHill && cable.Progress >= parameter.CableLiftEndProgress:
			c.flags |= FlagCableLiftEnd
		case c.velocity < 0 && seg.Element != track.ElemCableLiftHill:
			c.flags |= FlagAtStation
		}
	} else if c.velocity < 0 {
		c.flags |= FlagAtStation
	}
	if c.flags.Has(FlagEndOfTrack) && c.velocity < 0 {
		c.flags |= FlagAtStation
	}

	if friction < 1 {
		friction = 1
	}
	cable.Acceleration = physics.HaulAcceleration(sum, int32(n), cable.Velocity, friction)
	return c.flags
}
