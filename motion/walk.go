package motion

import (
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/track"
	"github.com/lixenwraith/coaster/vehicle"
)

// walker is the state of one car during its way-point walk
type walker struct {
	c   *Context
	car *vehicle.Vehicle
	typ *vehicle.Type
	seg track.Segment
	// last is the position the next step cost is measured from
	last track.Point
	// accel sums the pitch acceleration of every way-point visited, steps counts them
	accel int64
	steps int32
	// quiet walks skip every trigger, used when placing cars
	quiet bool
}

// forward advances while the remainder covers a way-point
// Returns true when the car overshot and must walk back
func (w *walker) forward() bool {
	c, car := w.c, w.car
	for {
		if !w.quiet {
			w.forwardTrigger()
		}

		next := car.Progress + 1
		if next >= w.seg.Length() {
			if !w.enterNext() {
				c.flags |= FlagEndOfTrack
				c.distance -= car.Remainder + 1
				car.Remainder = -1
				return true
			}
			next = 0
		}
		car.Progress = next
		if !w.quiet {
			w.splash()
		}
		car.Remainder -= w.moveTo()

		if !w.quiet && car == c.front && c.velocity >= 0 {
			if other := c.contactAhead(car); other != nil {
				c.distance -= car.Remainder + 1
				car.Remainder = -1
				c.contact(other)
				c.flags |= FlagHitVehicleAhead
				return true
			}
		}

		if car.Remainder < parameter.WayPointBudget {
			return false
		}
		w.accumulate()
	}
}

// backward retreats until the remainder is no longer negative
// Returns true when the car ran out of track and must step forward again
func (w *walker) backward() bool {
	c, car := w.c, w.car
	for {
		if !w.quiet {
			w.backwardTrigger()
		}

		if car.Progress == 0 {
			if !w.enterPrevious() {
				c.flags |= FlagEndOfTrack
				c.distance -= car.Remainder - parameter.WayPointBudget
				car.Remainder = parameter.WayPointBudget
				return true
			}
		} else {
			car.Progress--
		}
		car.Remainder += w.moveTo()

		if !w.quiet && car == c.front && c.velocity < 0 {
			if other := c.contactBehind(car); other != nil {
				c.distance -= car.Remainder - parameter.WayPointBudget
				car.Remainder = parameter.WayPointBudget
				c.contact(other)
				c.flags |= FlagHitVehicleBehind
				return true
			}
		}

		if car.Remainder >= 0 {
			return false
		}
		w.accumulate()
	}
}

func (w *walker) accumulate() {
	w.accel += int64(pitchAcceleration(w.car.Pitch))
	w.steps++
}

// moveTo places the car on its current way-point and returns the step cost of the move
func (w *walker) moveTo() int32 {
	car := w.car
	wp := w.seg.WayPoint(car.Progress)
	pos := track.Offset(w.seg.Origin, wp)

	mask := 0
	if pos.X != w.last.X {
		mask |= parameter.StepAxisX
	}
	if pos.Y != w.last.Y {
		mask |= parameter.StepAxisY
	}
	if pos.Z != w.last.Z {
		mask |= parameter.StepAxisZ
	}
	if wp.Turntable {
		mask |= parameter.StepRotation
	}

	w.last = pos
	car.Pos = pos
	car.Direction = wp.Direction
	car.Pitch = wp.Pitch
	car.Bank = wp.Bank
	return parameter.StepCost[mask]
}

// enterNext moves the car onto the following piece
func (w *walker) enterNext() bool {
	c, car := w.c, w.car
	old := w.seg

	if !w.quiet {
		w.leaveForward(old)
	}
	next, err := c.Ride.Track.Next(old.ID)
	if err != nil {
		return false
	}
	w.seg = next
	car.Segment = next.ID
	if !w.quiet {
		w.enterForward(old, next)
	}
	return true
}

// enterPrevious moves the car onto the end of the preceding piece
func (w *walker) enterPrevious() bool {
	c, car := w.c, w.car
	old := w.seg

	prev, err := c.Ride.Track.Previous(old.ID)
	if err != nil {
		return false
	}
	w.seg = prev
	car.Segment = prev.ID
	car.Progress = prev.Length() - 1
	if !w.quiet {
		w.enterBackward(old, prev)
	}
	return true
}

// Place puts a train on the track with its head at progress of seg
// Every following car is walked back by the spacing of the car in front
func (c *Context) Place(head *vehicle.Vehicle, seg track.SegmentID, progress uint16) error {
	s, err := c.Ride.Track.Segment(seg)
	if err != nil {
		return err
	}
	if l := s.Length(); progress >= l {
		progress = l - 1
	}

	c.reset(head)
	prev := head
	for id := head.ID; id != vehicle.NoVehicle; {
		car := c.Pool.Get(id)
		if car == nil {
			break
		}
		if car == head {
			car.Segment, car.Progress, car.Remainder = s.ID, progress, 0
			w := walker{c: c, car: car, seg: s, quiet: true}
			w.moveTo()
		} else {
			c.follow(car, prev)
		}
		prev = car
		id = car.Next
	}
	return nil
}

// follow places car one spacing behind the car in front of it
func (c *Context) follow(car, ahead *vehicle.Vehicle) {
	seg, ok := c.segment(ahead)
	if !ok {
		return
	}
	car.Segment, car.Progress = ahead.Segment, ahead.Progress
	car.Pos, car.Direction, car.Pitch, car.Bank = ahead.Pos, ahead.Direction, ahead.Pitch, ahead.Bank
	car.Remainder = ahead.Remainder - c.Types.Get(ahead.Type).Spacing

	w := walker{c: c, car: car, seg: seg, last: car.Pos, quiet: true}
	for bounce := 0; bounce < maxBounces && car.Remainder < 0; bounce++ {
		if !w.backward() {
			break
		}
		w.forward()
	}
}
