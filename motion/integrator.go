package motion

import (
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/physics"
	"github.com/lixenwraith/coaster/ride"
	"github.com/lixenwraith/coaster/track"
	"github.com/lixenwraith/coaster/vehicle"
	"github.com/lixenwraith/coaster/vmath"
)

// maxBounces bounds how often one car may flip between the forward and backward walk in a tick
const maxBounces = 4

// Advance moves a train along its track for one tick
// The pending head.Acceleration is applied first, the acceleration for the next
// tick is left in head.Acceleration. Returns the outcome flags and the station
// index seen by the train, -1 when no car is on a platform.
func (c *Context) Advance(head *vehicle.Vehicle) (Flags, int8) {
	c.reset(head)
	typ := c.Types.Get(head.Type)

	c.checkUpStops(head, typ)
	c.checkBlock(head, typ)
	c.integrate(head)

	c.cars = c.Pool.Cars(head.ID, c.cars)
	n := len(c.cars)
	if n == 0 {
		return c.flags, c.station
	}
	if c.velocity < 0 {
		c.front = c.Pool.Get(c.cars[n-1])
	}

	for i := 0; i < n; i++ {
		idx := i
		if c.velocity < 0 {
			idx = n - 1 - i
		}
		car := c.Pool.Get(c.cars[idx])
		if car == nil {
			continue
		}
		c.walkCar(car, idx&1 == 1)
	}

	c.aggregate(head, typ)
	return c.flags, c.station
}

// checkUpStops derails cars without up-stop wheels that would leave the rail
// The g-forces of the head are cached on it for testing and sound
func (c *Context) checkUpStops(head *vehicle.Vehicle, typ *vehicle.Type) {
	seg, ok := c.segment(head)
	if !ok {
		return
	}
	head.VerticalG, head.LateralG = physics.SegmentGForces(seg, head.Progress, head.Pitch, head.Bank, head.Velocity)

	rule := physics.UpStopNone
	switch {
	case typ.Has(vehicle.TypeNoUpStops):
		rule = physics.UpStopCoaster
	case typ.Has(vehicle.TypeNoUpStopsBobsleigh):
		rule = physics.UpStopBobsleigh
	}
	if rule == physics.UpStopNone || seg.Descriptor().Has(track.FlagCovered) {
		return
	}
	if rule.Derails(head.Pitch, head.VerticalG, head.LateralG) {
		c.flags |= FlagDerailed
	}
}

// checkBlock holds the head at a closed block section and drives chairlifts at their cable speed
func (c *Context) checkBlock(head *vehicle.Vehicle, typ *vehicle.Type) {
	if typ.Has(vehicle.TypeChairlift) {
		v := int32(c.Ride.Config.LiftHillSpeed) << 16
		if c.Ride.SafetyCutOut() {
			v = 0
		}
		head.Velocity = v
		head.Acceleration = 0
	}

	seg, ok := c.segment(head)
	if !ok {
		return
	}
	mode := c.Ride.Config.Mode
	switch seg.Element {
	case track.ElemEndStation, track.ElemBlockBrakes:
		if mode != ride.ModeContinuousCircuit && !mode.BlockSectioned() {
			return
		}
	case track.ElemUp25ToFlat, track.ElemUp60ToFlat, track.ElemCableLiftHill:
		if !mode.BlockSectioned() {
			return
		}
	default:
		return
	}

	closed := c.Ride.Blocks.Closed(seg.ID, c.trainID())
	if seg.Element == track.ElemEndStation {
		if closed {
			c.flags |= FlagBlockedByBrake
		}
		return
	}
	if seg.Element != track.ElemCableLiftHill && seg.Element != track.ElemBlockBrakes && !seg.LiftHill {
		return
	}

	if !closed {
		if seg.Element == track.ElemBlockBrakes && head.Velocity >= 0 {
			if head.Velocity <= parameter.BlockBrakeCreepVelocity {
				head.Velocity = parameter.BlockBrakeCreepVelocity
			} else {
				head.Velocity -= head.Velocity >> 4
			}
			head.Acceleration = 0
		}
		return
	}

	c.flags |= FlagBlockedByBrake
	head.Acceleration = 0
	if head.Velocity <= parameter.BlockStopVelocity {
		head.Velocity = 0
	}
	head.Velocity -= head.Velocity >> 3
}

// integrate applies the pending acceleration and converts velocity into the step distance
func (c *Context) integrate(head *vehicle.Vehicle) {
	v := vmath.Saturate(int64(head.Velocity) + int64(head.Acceleration))
	if head.Has(vehicle.FlagZeroVelocity) {
		v = 0
	}
	if head.Has(vehicle.FlagOnBrakeForDrop) {
		head.Hold--
		if head.Hold == parameter.BrakeForDropReleaseTicks {
			head.Clear(vehicle.FlagOnBrakeForDrop)
		}
		if head.Hold >= 0 {
			v = 0
			head.Acceleration = 0
		}
	}
	head.Velocity = v
	c.velocity = v
	c.distance = StepDistance(v)
}

// StepDistance converts a velocity into step units walked in one tick
func StepDistance(v int32) int32 {
	return (v >> parameter.DistanceShift) * parameter.DistanceScale
}

// walkCar moves one car by the train distance and folds its way-points into its acceleration
func (c *Context) walkCar(car *vehicle.Vehicle, odd bool) {
	typ := c.Types.Get(car.Type)
	seg, ok := c.segment(car)
	if !ok {
		c.flags |= FlagEndOfTrack
		return
	}

	if typ.Has(vehicle.TypeSwinging) {
		c.swing(car, typ, seg)
	}
	if typ.Has(vehicle.TypeSpinning) {
		c.spin(car, typ, seg, odd)
	}

	w := walker{c: c, car: car, typ: typ, seg: seg, last: car.Pos, steps: 1}
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
	c.finishCar(&w)
}

func (c *Context) swing(car *vehicle.Vehicle, typ *vehicle.Type, seg track.Segment) {
	_, lateral := physics.SegmentGForces(seg, car.Progress, car.Pitch, car.Bank, c.velocity)
	s := physics.Swing{Pos: car.SwingPos, Speed: car.SwingSpeed}
	physics.UpdateSwing(&s, lateral, typ.SwingAmplitude)
	car.SwingPos, car.SwingSpeed = s.Pos, s.Speed
}

func (c *Context) spin(car *vehicle.Vehicle, typ *vehicle.Type, seg track.Segment, odd bool) {
	s := physics.Spin{Angle: car.SpinAngle, Momentum: car.SpinMomentum}
	if car.Has(vehicle.FlagSpinLocked) {
		physics.LockSpin(&s)
	} else {
		p := physics.SpinParams{Inertia: typ.SpinInertia, Friction: typ.SpinFriction}
		physics.UpdateSpin(&s, p, seg, car.Progress, c.velocity, odd)
	}
	car.SpinAngle, car.SpinMomentum = s.Angle, s.Momentum
}

// aggregate computes the train acceleration for the next tick
func (c *Context) aggregate(head *vehicle.Vehicle, typ *vehicle.Type) {
	t := physics.Train{
		Velocity: head.Velocity,
		Pitch:    head.Pitch,
		Reversed: head.Has(vehicle.FlagReversed),
	}
	for _, id := range c.cars {
		car := c.Pool.Get(id)
		if car == nil {
			continue
		}
		t.Cars++
		t.AccelSum += int64(car.Acceleration)
		t.Friction += c.Types.Get(car.Type).Friction
	}
	if t.Friction < 1 {
		t.Friction = 1
	}

	var acc int32
	if typ.Has(vehicle.TypePowered) {
		d := drive(typ)
		acc = physics.Acceleration(&t, &d, &head.SpinMomentum)
	} else {
		acc = physics.Acceleration(&t, nil, nil)
	}

	if seg, ok := c.segment(head); ok {
		if seg.Element == track.ElemWaterSplash &&
			head.Progress >= parameter.SplashDragStart && head.Progress <= parameter.SplashDragEnd {
			acc -= physics.WaterDrag(head.Velocity)
		}
		if c.Ride.Kind != nil && c.Ride.Kind.Has(ride.KindCoveredSlide) &&
			seg.Descriptor().Has(track.FlagCovered) && head.Velocity > parameter.CoveredDragVelocity {
			acc -= physics.WaterDrag(head.Velocity)
		}
	}
	head.Acceleration = acc

	for _, id := range c.cars[1:] {
		if car := c.Pool.Get(id); car != nil {
			car.Velocity = head.Velocity
		}
	}
}

// drive builds the motor of a powered vehicle type
func drive(typ *vehicle.Type) physics.Drive {
	d := physics.Drive{Speed: int32(typ.PoweredSpeed), Accel: int32(typ.PoweredAccel)}
	if typ.Has(vehicle.TypePoweredUnrestricted) {
		d.Flags |= physics.DriveUnrestricted
	}
	if typ.Has(vehicle.TypeWaterRide) {
		d.Flags |= physics.DriveWater
	}
	if typ.Has(vehicle.TypeSpinning) {
		d.Flags |= physics.DriveSpinning
	}
	return d
}

func pitchAcceleration(p track.Pitch) int32 {
	if p >= track.PitchCount {
		return 0
	}
	return parameter.PitchAcceleration[p]
}
