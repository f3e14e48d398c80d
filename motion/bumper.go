package motion

import (
	"github.com/lixenwraith/coaster/event"
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/physics"
	"github.com/lixenwraith/coaster/vehicle"
	"github.com/lixenwraith/coaster/vmath"
)

// Step thresholds on the heading cosine and sine, Q16.16
const (
	roamStepEven = 29491 // 0.45
	roamStepOdd  = 19661 // 0.3
)

// Contact is what a roaming car ran into during its last move
// Other is nil for the arena wall
type Contact struct {
	Other   *vehicle.Vehicle
	Heading uint8
	Hit     bool
}

// Roam moves a free-roaming bumper car or boat for one tick inside the ride arena
// Returns FlagHitVehicleAhead when the car was stopped by another car. The caller
// resolves the contact, then calls Throttle.
func (c *Context) Roam(car *vehicle.Vehicle) (Flags, Contact) {
	c.reset(car)
	typ := c.Types.Get(car.Type)

	v := vmath.Saturate(int64(car.Velocity) + int64(car.Acceleration))
	if c.Ride.SafetyCutOut() {
		v = 0
	}
	car.Velocity = v
	c.velocity = v

	if c.Tick&1 == 0 {
		c.steer(car)
	}
	if car.Bounce != 0 {
		c.push(car, typ)
	}

	heading := car.Direction & 0x1E
	if v < 0 {
		heading ^= 16
	}
	car.Remainder += StepDistance(vmath.Abs(v))

	var contact Contact
	for car.Remainder >= parameter.WayPointBudget {
		next, mask := roamStep(car.Pos, heading, car.Parity+1)
		if !c.inArena(next, typ) {
			contact = Contact{Heading: heading, Hit: true}
			break
		}
		if other := c.Obstacle(car, next); other != nil {
			contact = Contact{Other: other, Heading: heading, Hit: true}
			c.flags |= FlagHitVehicleAhead
			break
		}
		car.Parity++
		car.Pos = next
		car.Remainder -= parameter.StepCost[mask]
	}

	if contact.Hit {
		car.Remainder = 0
		c.playSound(event.SoundBumperHit, car.Pos)
	}
	return c.flags, contact
}

// Throttle sets a roaming car's acceleration for the next tick from its settled velocity
func (c *Context) Throttle(car *vehicle.Vehicle) {
	typ := c.Types.Get(car.Type)
	var d *physics.Drive
	if typ.Has(vehicle.TypePowered) && car.Riding() {
		dr := drive(typ)
		d = &dr
	}
	car.Acceleration = physics.BumperAcceleration(car.Velocity, typ.Friction, d, car.Has(vehicle.FlagReversed))
	c.Sink.Invalidate(uint16(car.ID))
}

// Obstacle returns the first other car of the ride whose centre is within contact range of at
// Crashed cars are ignored
func (c *Context) Obstacle(car *vehicle.Vehicle, at vmath.Vec3) *vehicle.Vehicle {
	spacing := c.Types.Get(car.Type).Spacing
	for _, id := range c.Ride.Trains {
		other := c.Pool.Get(vehicle.ID(id))
		if other == nil || other == car {
			continue
		}
		if other.Status == vehicle.StatusCrashing || other.Status == vehicle.StatusCrashed {
			continue
		}
		r := physics.BumperRadius(spacing, c.Types.Get(other.Type).Spacing)
		if vmath.Abs(at.X-other.Pos.X) < r && vmath.Abs(at.Y-other.Pos.Y) < r {
			return other
		}
	}
	return nil
}

// steer spends one queued turn or randomly wanders by one heading step
func (c *Context) steer(car *vehicle.Vehicle) {
	switch {
	case car.Turn > 0:
		car.Direction = (car.Direction + 2) & 0x1E
		car.Turn--
	case car.Turn < 0:
		car.Direction = (car.Direction - 2) & 0x1E
		car.Turn++
	case c.Rand.Chance(parameter.BumperJitterChance):
		if c.Rand.Next()&1 == 0 {
			car.Direction = (car.Direction + 2) & 0x1E
		} else {
			car.Direction = (car.Direction - 2) & 0x1E
		}
	}
}

// push moves a car one step along its queued bounce unless the spot is taken
func (c *Context) push(car *vehicle.Vehicle, typ *vehicle.Type) {
	dir := car.Bounce & 0x1E
	car.Bounce = 0
	next, _ := roamStep(car.Pos, dir, 1)
	if !c.inArena(next, typ) || c.Obstacle(car, next) != nil {
		return
	}
	car.Pos = next
}

func (c *Context) inArena(p vmath.Vec3, typ *vehicle.Type) bool {
	a := c.Ride.Arena
	return a.Empty() || a.Contains(p.X, p.Y, physics.WallMargin(typ.Spacing))
}

// roamStep returns the neighbour of p along heading and the mask of axes that changed
// Odd parity takes the diagonal on shallow headings so alternate steps trace the angle
func roamStep(p vmath.Vec3, heading, parity uint8) (vmath.Vec3, int) {
	angle := vmath.DirectionAngle(heading)
	cos, sin := vmath.Cos(angle), vmath.Sin(angle)
	limit := int32(roamStepEven)
	if parity&1 == 1 {
		limit = roamStepOdd
	}

	mask := 0
	if vmath.Abs(cos) >= limit {
		p.X += vmath.Sign(cos)
		mask |= parameter.StepAxisX
	}
	if vmath.Abs(sin) >= limit {
		p.Y += vmath.Sign(sin)
		mask |= parameter.StepAxisY
	}
	return p, mask
}
