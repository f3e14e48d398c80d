package engine

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/coaster/motion"
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/ride"
	"github.com/lixenwraith/coaster/track"
	"github.com/lixenwraith/coaster/vehicle"
)

// ErrNoCableHill is returned when a cable lift ride has no cable lift hill to run on
var ErrNoCableHill = errors.New("cable lift without cable lift hill")

// cableCars is the length of the helper chain
const cableCars = 4

// CreateCableLift builds the helper chain of a cable lift ride on its first cable hill
func (e *Engine) CreateCableLift(id ride.ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.rides[id]
	if !ok {
		return fmt.Errorf("ride %d: %w", id, ErrUnknownRide)
	}
	if r.CableLift != ride.NoTrain {
		return nil
	}
	if err := e.createCableLift(r); err != nil {
		return err
	}
	r.Set(ride.LifecycleCableLift)
	return nil
}

func (e *Engine) createCableLift(r *ride.Ride) error {
	hill, ok := cableHill(r)
	if !ok {
		return fmt.Errorf("ride %d: %w", r.ID, ErrNoCableHill)
	}
	typeID, err := e.types.Lookup(vehicle.TypeNameCableLift)
	if err != nil {
		return err
	}

	head, err := e.spawnTrain(r, typeID, 0, cableCars)
	if err != nil {
		return err
	}
	e.motion.Bind(r, e.tick)
	if err := e.motion.Place(head, hill, parameter.CableLiftStartProgress); err != nil {
		e.freeChain(head.ID)
		return fmt.Errorf("ride %d cable lift: %w", r.ID, err)
	}
	e.cars = e.pool.Cars(head.ID, e.cars)
	for _, c := range e.cars {
		car := e.pool.Get(c)
		car.SetStatus(e.cable.Initial, 0)
		car.Stop()
		car.Partner = vehicle.NoVehicle
	}
	r.CableLift = uint16(head.ID)
	e.log.Debug().Uint16("ride", uint16(r.ID)).Uint16("vehicle", uint16(head.ID)).Msg("cable lift created")
	return nil
}

// cableHill finds the first cable lift hill of a laid-out track
func cableHill(r *ride.Ride) (track.SegmentID, bool) {
	l, ok := r.Track.(*track.Layout)
	if !ok {
		return 0, false
	}
	for _, seg := range l.Segments() {
		if seg.Element == track.ElemCableLiftHill {
			return seg.ID, true
		}
	}
	return 0, false
}

// runCable updates the cable lift chain of a ride
func (e *Engine) runCable(r *ride.Ride, v *vehicle.Vehicle) {
	s := e.st.bind(r, v)
	tr, err := e.cable.Run(s, func() vehicle.Status { return v.Status })
	e.record(r, v, tr, err)
	e.syncCars(v)
}

// partner returns the train the cable is pulling, nil when none
func (s *step) partner() *vehicle.Vehicle {
	if s.v.Partner == vehicle.NoVehicle {
		return nil
	}
	return s.e.pool.Get(s.v.Partner)
}

// cableReturning runs the chain back down to the foot of the hill
func (s *step) cableReturning() {
	v := s.v
	if v.Velocity >= -parameter.CableLiftMaxVelocity {
		v.Acceleration = parameter.CableLiftReturnAccel
	} else {
		v.Velocity -= v.Velocity / 16
		v.Acceleration = 0
	}
	if !s.e.motion.AdvanceCableLift(v).Has(motion.FlagAtStation) {
		return
	}
	v.Stop()
	s.setStatus(vehicle.StatusWaitingForPassengers, 0)
}

// cableAttaching moves the chain under the waiting train until it hooks on
func (s *step) cableAttaching() {
	v := s.v
	if v.Velocity >= parameter.CableLiftAttachVelocity {
		v.Acceleration = parameter.CableLiftAttachAccel
	} else {
		v.Velocity -= v.Velocity / 16
		v.Acceleration = 0
	}
	flags := s.e.motion.AdvanceCableLift(v)

	train := s.partner()
	if train == nil {
		v.Stop()
		s.setStatus(vehicle.StatusMovingToEndOfStation, 0)
		return
	}
	hook := v
	if v.Next != vehicle.NoVehicle {
		if second := s.e.pool.Get(v.Next); second != nil {
			hook = second
		}
	}
	dx, dy := train.Pos.X-hook.Pos.X, train.Pos.Y-hook.Pos.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx+dy > parameter.CableLiftAttachDistance && !flags.Has(motion.FlagAtStation) {
		return
	}
	v.Stop()
	s.setStatus(vehicle.StatusDeparting, 0)
}

// cableDeparting holds the hooked chain, then hands the train over to the cable
func (s *step) cableDeparting() {
	v := s.v
	v.SubState++
	if v.SubState < parameter.CableLiftDepartTicks {
		return
	}
	train := s.partner()
	if train == nil {
		s.setStatus(vehicle.StatusMovingToEndOfStation, 0)
		return
	}
	s.setStatus(vehicle.StatusTravelling, 0)

	from := train.Status
	train.SetStatus(vehicle.StatusTravellingCableLift, 0)
	other := s.e.other.bind(s.ride, train)
	if err := s.e.train.Enter(other, from, train.Status); err != nil {
		s.e.report.Illegal++
		s.e.log.Warn().Err(err).Uint16("ride", uint16(s.ride.ID)).Uint16("vehicle", uint16(train.ID)).Msg("cable lift hand-over")
	}
	s.e.syncCars(train)
	s.e.sink.Invalidate(uint16(train.ID))
}

// cableHauling pulls the train up the hill at its speed until the chain tops out
func (s *step) cableHauling() {
	v := s.v
	train := s.partner()
	if train == nil {
		v.Stop()
		s.setStatus(vehicle.StatusArriving, 0)
		return
	}
	v.Velocity = min(train.Velocity, parameter.CableLiftMaxVelocity)
	v.Acceleration = 0
	if train.Has(vehicle.FlagBrokenTrain) {
		return
	}
	if !s.e.motion.AdvanceCableLift(v).Has(motion.FlagCableLiftEnd) {
		return
	}
	v.Stop()
	s.setStatus(vehicle.StatusArriving, 0)
}

// cableArriving pauses the chain at the top before it returns
func (s *step) cableArriving() {
	v := s.v
	v.SubState++
	if v.SubState < parameter.CableLiftArriveTicks {
		return
	}
	v.Partner = vehicle.NoVehicle
	s.setStatus(vehicle.StatusMovingToEndOfStation, 0)
}

// waitingForCableLift calls the chain down to a train parked before the cable hill
func (s *step) waitingForCableLift() {
	s.v.Velocity = 0
	cable := s.e.pool.Get(vehicle.ID(s.ride.CableLift))
	if cable == nil || cable.Status != vehicle.StatusWaitingForPassengers {
		return
	}
	cable.SetStatus(vehicle.StatusWaitingToDepart, 0)
	cable.Partner = s.v.ID
	s.e.syncCars(cable)
	s.e.sink.Invalidate(uint16(cable.ID))
}

// travellingCableLift climbs the cable hill behind the chain
func (s *step) travellingCableLift() {
	v := s.v
	if v.SubState == 0 {
		if v.Has(vehicle.FlagBrokenTrain) {
			s.breakDown()
			v.Velocity = 0
			return
		}
		v.SubState = 1
		s.checkTest()
	}

	if v.Velocity <= parameter.CableLiftMaxVelocity {
		v.Acceleration = parameter.CableLiftTrainAccel
	}
	flags, station := s.advance()
	if flags.Has(motion.FlagCableLiftEnd) {
		s.setStatus(vehicle.StatusTravelling, 1)
		v.LostTicks = 0
		return
	}
	if v.SubState == 2 {
		return
	}
	if flags.Has(motion.FlagInStation) && station == v.Station {
		return
	}
	v.SubState = 2
	if s.mode().BlockSectioned() {
		return
	}
	if st := s.station(); st != nil {
		st.Delay(s.ride.DepartDelay())
	}
}
