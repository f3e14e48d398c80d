package motion

import (
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/physics"
	"github.com/lixenwraith/coaster/ride"
	"github.com/lixenwraith/coaster/track"
	"github.com/lixenwraith/coaster/vehicle"
	"github.com/lixenwraith/coaster/vmath"
)

// contactAhead returns the last car of the train ahead when the front car touches it
func (c *Context) contactAhead(front *vehicle.Vehicle) *vehicle.Vehicle {
	if c.head.Has(vehicle.FlagCollisionDisabled) {
		return nil
	}
	ahead, ok := c.Ride.TrainAhead(c.trainID())
	if !ok {
		return nil
	}
	other := c.Pool.Get(c.Pool.Tail(vehicle.ID(ahead)))
	if c.touches(front, other) {
		return other
	}
	return nil
}

// contactBehind returns the head of the train behind when the reversing tail touches it
func (c *Context) contactBehind(front *vehicle.Vehicle) *vehicle.Vehicle {
	if c.head.Has(vehicle.FlagCollisionDisabled) {
		return nil
	}
	behind, ok := c.Ride.TrainBehind(c.trainID())
	if !ok {
		return nil
	}
	other := c.Pool.Get(vehicle.ID(behind))
	if c.touches(front, other) {
		return other
	}
	return nil
}

// touches reports whether two cars on the same track are within contact range and heading alike
func (c *Context) touches(a, b *vehicle.Vehicle) bool {
	if b == nil || b == a || b.Segment == track.NoSegment {
		return false
	}
	dx := vmath.Abs(a.Pos.X - b.Pos.X)
	dy := vmath.Abs(a.Pos.Y - b.Pos.Y)
	dz := vmath.Abs(a.Pos.Z - b.Pos.Z)
	if dx > parameter.CollisionReach || dy > parameter.CollisionReach || dz > parameter.CollisionReach {
		return false
	}
	r := physics.ContactRadius(c.Types.Get(a.Type).Spacing, c.Types.Get(b.Type).Spacing)
	if dx+dy+dz >= r {
		return false
	}
	return physics.FacingEachOther(a.Direction, b.Direction)
}

// contact resolves the velocities of this train and the train other belongs to
func (c *Context) contact(other *vehicle.Vehicle) {
	otherHead := c.Pool.Get(c.Pool.Head(other.ID))
	if otherHead == nil {
		return
	}

	typ := c.Types.Get(c.front.Type)
	profile := physics.CarToCar
	if typ.Has(vehicle.TypeBoat) {
		profile = physics.BoatToBoat
	}
	if typ.Has(vehicle.TypeNoCollisionCrash) || (c.Ride.Kind != nil && c.Ride.Kind.Has(ride.KindNoCollisionCrashes)) {
		profile.CrashDelta = 0
	}
	if physics.ApplyCollision(&c.head.Velocity, &otherHead.Velocity, &profile) {
		c.flags |= FlagCollision
	}
}
