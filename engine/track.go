package engine

import (
	"fmt"

	"github.com/lixenwraith/coaster/event"
	"github.com/lixenwraith/coaster/motion"
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/ride"
	"github.com/lixenwraith/coaster/track"
	"github.com/lixenwraith/coaster/vehicle"
)

// departing accelerates a train out of the station until it is clear of the platform
func (s *step) departing() {
	v := s.v
	mode := s.mode()

	if v.SubState == 0 {
		if v.Has(vehicle.FlagBrokenTrain) {
			s.breakDown()
			v.Velocity = 0
			return
		}
		v.SubState = 1
		switch {
		case s.ride.Kind.Has(ride.KindTrainWhistle):
			s.play(event.SoundTrainWhistle)
		case s.ride.Kind.Has(ride.KindTramBell):
			s.play(event.SoundTramBell)
		}
		if mode == ride.ModeUpwardLaunch || (mode == ride.ModeDownwardLaunch && v.Laps > 1) {
			s.play(event.SoundLaunch)
		}
		s.checkTest()
	}

	launch := int32(s.ride.Config.LaunchSpeed) << 16
	switch {
	case mode == ride.ModeReverseInclineLaunchedShuttle:
		if v.Velocity >= -parameter.CreepVelocity {
			v.Acceleration = -parameter.CreepAccel
		}
	case mode.Launched() || mode == ride.ModeUpwardLaunch:
		if launch > v.Velocity {
			v.Acceleration = int32(s.ride.Config.LaunchSpeed) << parameter.LaunchAccelShift
		}
	case mode == ride.ModeDownwardLaunch && v.Laps >= 1:
		if parameter.DownwardLaunchSpeed<<16 > v.Velocity {
			v.Acceleration = parameter.DownwardLaunchSpeed << parameter.LaunchAccelShift
		}
	case mode == ride.ModeShuttle:
	default:
		if !s.typ.Has(vehicle.TypePowered) && v.Velocity <= parameter.CreepVelocity {
			v.Acceleration = parameter.CreepAccel
		}
	}

	flags, station := s.advance()

	if flags.Has(motion.FlagLeftLiftBackward) && mode == ride.ModeReverseInclineLaunchedShuttle {
		v.Velocity = -v.Velocity
		s.finishDeparting()
		return
	}
	if flags.Has(motion.FlagEndOfTrack) {
		switch mode {
		case ride.ModeBoatHire:
			s.departBoat()
			return
		case ride.ModeReverseInclineLaunchedShuttle:
			v.Velocity = -v.Velocity
			s.finishDeparting()
			return
		case ride.ModeShuttle:
			v.Flags ^= vehicle.FlagReversed
			v.Velocity = 0
		}
	}
	if flags.Has(motion.FlagOnLiftHill) {
		s.liftRatchet(mode == ride.ModeReverseInclineLaunchedShuttle)
	}

	if mode == ride.ModeFreefallDrop {
		v.Frame++
	} else if mode != ride.ModeDownwardLaunch || v.Laps >= 1 {
		if !flags.Has(motion.FlagInStation) || station != v.Station {
			s.finishDeparting()
			return
		}
		if !flags.Has(motion.FlagEndOfTrack) {
			return
		}
		switch mode {
		case ride.ModeBoatHire, ride.ModeRotatingLift, ride.ModeShuttle:
			return
		}
		s.crashSetup()
		return
	}

	if !s.nextIsTowerTop() {
		if mode == ride.ModeFreefallDrop {
			s.e.sink.Invalidate(uint16(v.ID))
		}
		return
	}
	s.finishDeparting()
}

// liftRatchet holds a train on a chain lift at the configured lift speed
// A safety cut-out freezes a moving train on the lift.
func (s *step) liftRatchet(reverse bool) {
	v := s.v
	speed := int32(s.ride.Config.LiftHillSpeed) * parameter.LiftHillSpeedScale
	accel := int32(parameter.LiftHillAccel)
	if reverse {
		if v.Velocity < -speed {
			return
		}
		accel = -accel
	} else if v.Velocity > speed {
		return
	}
	v.Acceleration = accel
	if v.Velocity != 0 && s.breakdown == ride.BreakdownSafetyCutOut {
		v.Set(vehicle.FlagZeroVelocity)
	}
}

// finishDeparting hands a train that left the platform to the travelling state
// Launch modes wait for launch speed before letting go.
func (s *step) finishDeparting() {
	v := s.v
	mode := s.mode()
	switch mode {
	case ride.ModeDownwardLaunch:
		if v.Laps >= 1 && parameter.DownwardLaunchSpeed<<16 > v.Velocity {
			return
		}
		s.play(event.SoundLaunch)
	case ride.ModeUpwardLaunch:
		if int32(s.ride.Config.LaunchSpeed)<<16 > v.Velocity {
			return
		}
		s.play(event.SoundLaunch)
	}

	if mode != ride.ModeRace && !mode.BlockSectioned() {
		if st := s.station(); st != nil {
			st.Delay(s.ride.DepartDelay())
		}
	}

	sub := uint8(1)
	if v.Velocity < 0 {
		sub = 0
	}
	s.setStatus(vehicle.StatusTravelling, sub)
	v.LostTicks = 0
}

// nextIsTowerTop reports whether the tower above the head ends within two pieces
func (s *step) nextIsTowerTop() bool {
	next, err := s.ride.Track.Next(s.v.Segment)
	if err != nil {
		return true
	}
	if next.Element == track.ElemTowerSection {
		return false
	}
	after, err := s.ride.Track.Next(next.ID)
	return err != nil || after.Element != track.ElemTowerSection
}

// checkMissing raises a news item once a train has been away from its station too long
func (s *step) checkMissing() {
	r := s.ride
	if r.Any(ride.LifecycleBrokenDown|ride.LifecycleCrashed) || r.Config.Mode.BlockSectioned() {
		return
	}
	if !r.Kind.Has(ride.KindTesting) && r.Config.Mode != ride.ModeBoatHire {
		return
	}
	if s.v.LostTicks != 0xFFFF {
		s.v.LostTicks++
	}
	if r.Is(ride.LifecycleStalledVehicle) {
		return
	}
	limit := uint16(parameter.MissingTrainTicks)
	if r.Config.Mode == ride.ModeBoatHire {
		limit = parameter.MissingBoatTicks
	}
	if s.v.LostTicks <= limit {
		return
	}
	r.Set(ride.LifecycleStalledVehicle)
	n := 1
	for i, h := range r.Trains {
		if h == s.trainID() {
			n = i + 1
			break
		}
	}
	s.e.sink.News(event.NewsPayload{
		Kind: event.NewsMissingTrain,
		Ride: uint16(r.ID),
		Text: fmt.Sprintf("Train %d of %s is missing", n, r.Name),
	})
	s.e.log.Warn().Uint16("ride", uint16(r.ID)).Int("train", n).Uint16("lost_ticks", s.v.LostTicks).Msg("train missing")
}

// travelling runs a train around the circuit until it pulls into a station
func (s *step) travelling() {
	v := s.v
	mode := s.mode()
	s.checkMissing()

	if s.breakdown == ride.BreakdownSafetyCutOut && mode == ride.ModeRotatingLift {
		return
	}
	if v.SubState == 2 {
		v.Stop()
		v.Hold--
		if v.Hold <= 0 {
			v.SubState = 0
		}
	}
	if mode == ride.ModeFreefallDrop && v.Frame != 0 {
		v.Frame++
		v.Stop()
		s.e.sink.Invalidate(uint16(v.ID))
		return
	}

	flags, station := s.advance()

	skip := false
	if flags.Any(motion.FlagLeftLiftBackward|motion.FlagRollbackFromLift) &&
		mode == ride.ModeReverseInclineLaunchedShuttle && v.SubState == 0 {
		v.SubState = 1
		v.Velocity = 0
		skip = true
	}
	if !skip {
		if flags.Has(motion.FlagDerailed) {
			s.crashSetup()
			return
		}
		if flags.Has(motion.FlagCollision) {
			s.collisionSetup()
			return
		}
		if flags.Has(motion.FlagEndOfTrack) {
			switch mode {
			case ride.ModeRotatingLift:
				if v.SubState <= 1 {
					s.setStatus(vehicle.StatusArriving, 1)
					v.Hold = 0
					return
				}
			case ride.ModeBoatHire:
				s.boatSetup()
				return
			case ride.ModeShuttle:
				v.Flags ^= vehicle.FlagReversed
				v.Velocity = 0
			default:
				if v.SubState != 0 {
					s.crashSetup()
					return
				}
				v.SubState = 1
				v.Velocity = 0
			}
		}
	}

	if mode == ride.ModeRotatingLift && v.SubState <= 1 {
		if v.SubState == 0 {
			if v.Velocity >= -parameter.CreepVelocity {
				v.Acceleration = -parameter.CreepAccel
			}
			if v.Velocity < -parameter.CreepVelocity {
				v.Velocity = -parameter.CreepVelocity
			}
		} else if s.nextIsTowerTop() {
			v.Velocity = 0
			v.SubState = 2
			v.Hold = parameter.RotatingLiftHoldTicks
		} else if v.Velocity <= parameter.CreepVelocity {
			v.Acceleration = parameter.CreepAccel
		}
	}

	if flags.Has(motion.FlagOnLiftHill) {
		if mode == ride.ModeReverseInclineLaunchedShuttle {
			if v.SubState == 0 && !v.Has(vehicle.FlagRelaunch) {
				s.liftRatchet(true)
			}
		} else {
			s.liftRatchet(false)
		}
	}

	if !flags.Has(motion.FlagInStation) {
		return
	}
	if mode == ride.ModeReverseInclineLaunchedShuttle && v.Velocity >= 0 && !v.Has(vehicle.FlagRelaunch) {
		return
	}
	if mode == ride.ModePoweredLaunchPassthrough && v.Velocity < 0 {
		return
	}

	sub := uint8(0)
	if v.Velocity < 0 {
		sub = 1
	}
	s.setStatus(vehicle.StatusArriving, sub)
	if station >= 0 {
		v.Station = station
	}
	v.Hold = 0
}

func (s *step) circuits() uint8 {
	if c := s.ride.Config.Circuits; c > 1 {
		return c
	}
	return 1
}

// brakesWork reports whether the station brakes of the platform the train approaches hold
func (s *step) brakesWork() bool {
	b := s.ride.Breakdown
	return !(s.ride.Is(ride.LifecycleBrokenDown) && b.Pending == ride.BreakdownBrakesFailure &&
		b.InspectionStation == s.v.Station && b.Mechanic != ride.MechanicFixedStationBrakes)
}

// arriving brakes a train into the station and decides between another circuit and unloading
func (s *step) arriving() {
	v := s.v
	mode := s.mode()
	if mode.Stationary() {
		v.Clear(vehicle.FlagRelaunch)
		v.Stop()
		s.setStatus(vehicle.StatusUnloadingPassengers, 0)
		return
	}

	brakes := s.brakesWork()
	circuits := s.circuits()
	passing := mode == ride.ModeRace && s.ride.Is(ride.LifecyclePassStationNoStopping)

	switch {
	case passing:
	case v.SubState == 0:
		if v.Velocity <= parameter.CreepVelocity {
			v.Acceleration = parameter.CreepAccel
			break
		}
		diff := v.Velocity / 16
		if v.Velocity >= parameter.ArriveFastVelocity {
			diff = v.Velocity / 8
		}
		if !brakes || (circuits != 1 && v.Circuit+1 < circuits) {
			break
		}
		v.Velocity -= diff
		v.Acceleration = 0
	default:
		if !s.typ.Has(vehicle.TypePowered) && v.Velocity >= -parameter.CreepVelocity {
			v.Acceleration = -parameter.CreepAccel
		}
		if v.Velocity >= -parameter.CreepVelocity {
			break
		}
		diff := v.Velocity / 16
		if v.Velocity < -parameter.ArriveFastVelocity {
			diff = v.Velocity / 8
		}
		if !brakes || v.Circuit+1 < circuits {
			break
		}
		if v.Circuit+1 == circuits && s.ride.Kind.Has(ride.KindMultipleCircuits) &&
			mode != ride.ModeShuttle && mode != ride.ModePoweredLaunch {
			v.Set(vehicle.FlagRelaunch)
			break
		}
		v.Velocity -= diff
		v.Acceleration = 0
	}

	flags, station := s.advance()
	if flags.Has(motion.FlagCollision) && !brakes {
		s.collisionSetup()
		return
	}
	if flags.Has(motion.FlagAtStation) && !brakes {
		s.setStatus(vehicle.StatusDeparting, 1)
		return
	}
	if !flags.Any(motion.FlagAtStation | motion.FlagHitVehicleAhead | motion.FlagEndOfTrack) {
		if v.Velocity > parameter.ArriveSettleVelocity {
			v.Hold = 0
		}
		return
	}

	v.Hold++
	if flags.Has(motion.FlagHitVehicleAhead) && s.typ.Has(vehicle.TypeShortArriveHold) && v.Hold < parameter.ShortArriveHoldTicks {
		return
	}

	if station >= 0 {
		v.Station = station
	}
	v.Circuit++
	if mode.Tower() {
		v.Laps++
	}

	if v.SubState != 0 {
		if v.Circuit < circuits || (v.Circuit == circuits && v.Has(vehicle.FlagRelaunch)) {
			s.setStatus(vehicle.StatusDeparting, 1)
			return
		}
	}
	if circuits != 1 && v.Circuit < circuits {
		s.setStatus(vehicle.StatusDeparting, 1)
		return
	}
	if (mode == ride.ModeUpwardLaunch || mode == ride.ModeDownwardLaunch) && v.Laps < 2 {
		s.play(event.SoundLaunch)
		v.Stop()
		s.setStatus(vehicle.StatusDeparting, 1)
		return
	}
	if passing {
		if v.Circuit < circuits {
			s.setStatus(vehicle.StatusDeparting, 1)
			return
		}
		// the first train home ends the race
		s.ride.Clear(ride.LifecyclePassStationNoStopping)
	}

	v.Clear(vehicle.FlagRelaunch)
	v.Stop()
	s.setStatus(vehicle.StatusUnloadingPassengers, 0)
}

// unloading opens the restraints and lets riders off, then sends the train to the stopping point
// A ferris wheel only empties the cabin at the bottom; riders in the other cabins stay for the next turn.
func (s *step) unloading() {
	v := s.v
	if v.SubState == 0 && s.openRestraints() == 0 {
		v.SubState = 1
	}

	aboard := 0
	if mode := s.mode(); mode == ride.ModeForwardRotation || mode == ride.ModeBackwardRotation {
		seats := s.bottomCabin()
		if v.Restraints == parameter.RestraintOpen {
			s.e.riders.Alight(s.ride.ID, v.Station, seats)
		}
		aboard = occupied(seats)
	} else {
		s.cars(func(car *vehicle.Vehicle) {
			if car.Restraints == parameter.RestraintOpen && car.Riding() {
				s.e.riders.Alight(s.ride.ID, v.Station, car.Riders)
			}
		})
		aboard = s.riders()
	}

	if v.SubState != 1 || aboard != 0 {
		return
	}
	if !s.ride.Is(ride.LifecycleTested) && v.Has(vehicle.FlagTesting) && int(s.ride.TestSegment)+1 >= len(s.ride.Stations) {
		s.finishTest()
	}
	s.setStatus(vehicle.StatusMovingToEndOfStation, 0)
}

// bottomCabin returns the seat pair of the ferris wheel cabin at the platform
func (s *step) bottomCabin() []uint32 {
	v := s.v
	if len(v.Riders) == 0 {
		return nil
	}
	pairs := (len(v.Riders) + 1) / 2
	cabin := int((-int(v.Frame))>>3&0xF) % pairs
	end := cabin*2 + 2
	if end > len(v.Riders) {
		end = len(v.Riders)
	}
	return v.Riders[cabin*2 : end]
}

func occupied(seats []uint32) int {
	n := 0
	for _, r := range seats {
		if r != 0 {
			n++
		}
	}
	return n
}

// departBoat restarts the platform countdown and releases a hired boat onto the water
func (s *step) departBoat() {
	v := s.v
	v.LostTicks = 0
	if st := s.station(); st != nil {
		w := s.ride.Config.MinWait
		if w < parameter.DepartMinimumSlot {
			w = parameter.DepartMinimumSlot
		}
		if w > parameter.DepartMaximumSlot {
			w = parameter.DepartMaximumSlot
		}
		st.Delay(w)
	}
	s.boatSetup()
}

// boatSetup switches a boat from the track to free roaming
func (s *step) boatSetup() {
	v := s.v
	s.setStatus(vehicle.StatusTravellingBoat, 0)
	v.Timer = 0
	v.Velocity += parameter.BoatHireLaunchVelocity
	s.travellingBoat()
}

// travellingBoat roams a hired boat until its hire time is up or the ride closes
func (s *step) travellingBoat() {
	v := s.v
	s.checkMissing()
	s.roam()

	if v.Timer != 0xFFFF {
		v.Timer++
	}
	if v.Timer < parameter.BoatHireTicks && s.ride.Open() {
		return
	}
	st := s.station()
	if st == nil {
		return
	}
	seg, err := s.ride.Track.Segment(st.Start)
	if err != nil {
		return
	}
	if err := s.e.motion.Place(v, seg.ID, seg.Length()-1); err != nil {
		s.e.log.Warn().Err(err).Uint16("vehicle", uint16(v.ID)).Msg("boat return")
		return
	}
	v.Stop()
	v.Circuit = 0
	s.setStatus(vehicle.StatusArriving, 0)
	v.Hold = 0
}
