package engine

import (
	"github.com/lixenwraith/coaster/motion"
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/ride"
	"github.com/lixenwraith/coaster/track"
	"github.com/lixenwraith/coaster/vehicle"
)

// openRestraints moves every car's restraints one step towards open
// Returns the number of cars still moving. A car whose restraints are stuck
// closed breaks the ride down and stays shut.
func (s *step) openRestraints() int {
	moving := 0
	s.cars(func(car *vehicle.Vehicle) {
		car.Timer = 0
		if car.Has(vehicle.FlagBrokenCar) && car.Restraints != parameter.RestraintOpen && s.ride.Breakdown.Pending.StuckClosed() {
			s.breakDown()
			return
		}
		if int(car.Restraints)+parameter.RestraintStep > parameter.RestraintOpen {
			car.Restraints = parameter.RestraintOpen
			return
		}
		car.Restraints += parameter.RestraintStep
		s.e.sink.Invalidate(uint16(car.ID))
		moving++
	})
	return moving
}

// closeRestraints moves every car's restraints one step towards closed
// Returns the number of cars not yet closed, a car stuck open never closes.
func (s *step) closeRestraints() int {
	moving := 0
	s.cars(func(car *vehicle.Vehicle) {
		if car.Has(vehicle.FlagBrokenCar) && car.Restraints != parameter.RestraintClosed && s.ride.Breakdown.Pending.StuckOpen() {
			s.breakDown()
		} else {
			if int(car.Restraints)-parameter.RestraintStep < parameter.RestraintClosed {
				car.Restraints = parameter.RestraintClosed
				return
			}
			car.Restraints -= parameter.RestraintStep
		}
		s.e.sink.Invalidate(uint16(car.ID))
		moving++
	})
	return moving
}

// movingToEndOfStation creeps a train to the stopping point of its platform
func (s *step) movingToEndOfStation() {
	v := s.v
	mode := s.mode()
	switch {
	case mode.Tower():
		if v.Velocity >= parameter.TowerDescentVelocity {
			v.Acceleration = -parameter.CreepAccel
		} else {
			v.Velocity -= v.Velocity / 16
			v.Acceleration = 0
		}
		flags, _ := s.advance()
		if !flags.Has(motion.FlagEndOfTrack) {
			return
		}
		s.parkAtPlatform()

	case mode.Stationary() || mode == ride.ModeBumperCar:
		s.parkAtPlatform()

	default:
		if v.Velocity <= parameter.CreepVelocity {
			if !s.typ.Has(vehicle.TypePowered) {
				v.Acceleration = parameter.CreepAccel
			}
		} else {
			v.Velocity -= v.Velocity / 16
			v.Acceleration = 0
		}

		flags, station := s.advance()
		if flags.Has(motion.FlagHitVehicleAhead) {
			v.Stop()
			v.SubState++
			if mode == ride.ModeRace && v.SubState >= parameter.RaceStationHoldTicks {
				s.parkAtPlatform()
			}
			return
		}
		if v.Velocity > parameter.ArriveSettleVelocity {
			v.SubState = 0
		}
		if !flags.Has(motion.FlagAtStation) {
			return
		}
		if station >= 0 {
			v.Station = station
		}
		s.parkAtPlatform()
	}
}

// parkAtPlatform stops the train and starts loading
func (s *step) parkAtPlatform() {
	if s.mode().Stationary() || s.mode() == ride.ModeBumperCar {
		s.v.Station = 0
	}
	s.v.Stop()
	s.setStatus(vehicle.StatusWaitingForPassengers, 0)
	s.v.WaitTicks = 0
}

// leavePlatform frees the platform when loading ends
func (s *step) leavePlatform() {
	if st := s.station(); st != nil {
		st.Release(s.trainID())
	}
}

// waitingForPassengers boards riders and decides when the train may leave
func (s *step) waitingForPassengers() {
	v := s.v
	v.Velocity = 0

	switch v.SubState {
	case 0:
		if s.openRestraints() != 0 {
			return
		}
		st := s.station()
		if st == nil {
			v.SubState = 2
			return
		}
		if st.Occupant != ride.NoTrain && st.Occupant != s.trainID() {
			return
		}
		st.Claim(s.trainID())
		v.SubState = 1
		v.WaitTicks = 0
		s.e.sink.Invalidate(uint16(v.ID))

	case 1:
		if v.WaitTicks != parameter.WaitTicksSaturated {
			v.WaitTicks++
		}
		v.Clear(vehicle.FlagReadyToDepart)

		if s.ride.Open() && !s.ride.Is(ride.LifecycleBrokenDown) {
			s.cars(func(car *vehicle.Vehicle) {
				s.e.riders.Board(s.ride.ID, v.Station, car.Riders)
			})
		}

		riders, seats := s.riders(), s.seats()
		kind := s.ride.Kind
		cfg := s.ride.Config
		if kind.Has(ride.KindTesting) {
			if v.WaitTicks < parameter.BoardingGraceTicks {
				s.readyToDepart(riders)
				return
			}
		} else if riders == 0 {
			s.readyToDepart(riders)
			return
		}

		if kind.Has(ride.KindLoadOptions) {
			waited := uint32(v.WaitTicks)
			if cfg.Depart&ride.DepartMinWait != 0 && uint32(cfg.MinWait)*parameter.TicksPerWaitUnit > waited {
				s.readyToDepart(riders)
				return
			}
			if cfg.Depart&ride.DepartMaxWait != 0 && uint32(cfg.MaxWait)*parameter.TicksPerWaitUnit < waited {
				v.Set(vehicle.FlagReadyToDepart)
				s.readyToDepart(riders)
				return
			}
		}

		if cfg.Depart&ride.DepartLeaveWhenAnotherArrives != 0 && s.anotherArrived() {
			v.Set(vehicle.FlagReadyToDepart)
			s.readyToDepart(riders)
			return
		}

		if kind.Has(ride.KindLoadOptions) && cfg.Depart&ride.DepartWaitForLoad != 0 {
			if riders == seats || cfg.Load.Satisfied(riders, seats) {
				v.Set(vehicle.FlagReadyToDepart)
			}
			s.readyToDepart(riders)
			return
		}

		v.Set(vehicle.FlagReadyToDepart)
		s.readyToDepart(riders)

	case 2:
		if s.closeRestraints() != 0 {
			return
		}
		v.Stop()
		s.setStatus(vehicle.StatusWaitingToDepart, 0)
		v.Clear(vehicle.FlagWaitOnAdjacent)
		if s.ride.Config.Depart&ride.DepartSyncAdjacent != 0 && s.ride.Kind.Has(ride.KindSyncAdjacent) {
			v.Set(vehicle.FlagWaitOnAdjacent)
		}
	}
}

// anotherArrived reports another train unloading or pulling in at this platform
func (s *step) anotherArrived() bool {
	for _, h := range s.ride.Trains {
		if h == s.trainID() {
			continue
		}
		other := s.e.pool.Get(vehicle.ID(h))
		if other == nil || other.Station != s.v.Station {
			continue
		}
		if other.Status == vehicle.StatusUnloadingPassengers || other.Status == vehicle.StatusMovingToEndOfStation {
			return true
		}
	}
	return false
}

// readyToDepart ends loading once the ready flag is up or the ride stops taking riders
func (s *step) readyToDepart(riders int) {
	v := s.v
	broken := s.ride.Is(ride.LifecycleBrokenDown)
	if s.ride.Open() && !broken && !v.Has(vehicle.FlagReadyToDepart) {
		return
	}
	if !broken && (s.ride.Status != ride.StatusClosed || s.e.ridersAboard(s.ride) != 0) {
		s.leavePlatform()
		v.SubState = 2
		return
	}
	if riders == 0 {
		return
	}
	s.leavePlatform()
	s.setStatus(vehicle.StatusUnloadingPassengers, 0)
}

// waitingToDepart holds a loaded train until its platform releases it
func (s *step) waitingToDepart() {
	v := s.v
	stuck := s.ride.Is(ride.LifecycleBrokenDown) && !s.ride.Breakdown.Pending.Restraint()
	if (stuck || !s.ride.Open()) && s.riders() != 0 {
		s.setStatus(vehicle.StatusUnloadingPassengers, 0)
		return
	}
	if st := s.station(); st != nil && !st.Ready() {
		return
	}
	if v.Has(vehicle.FlagWaitOnAdjacent) {
		if s.adjacentLoading() {
			return
		}
		v.Clear(vehicle.FlagWaitOnAdjacent)
	}

	s.setStatus(vehicle.StatusDeparting, 0)
	if s.ride.Is(ride.LifecycleCableLift) && s.nextIsCableHill() {
		s.setStatus(vehicle.StatusWaitingForCableLift, 0)
		return
	}
	s.dispatch()
}

// adjacentLoading reports a synchronised neighbour ride still loading at a platform next to ours
func (s *step) adjacentLoading() bool {
	for _, h := range s.ride.Trains {
		if h == s.trainID() {
			continue
		}
		other := s.e.pool.Get(vehicle.ID(h))
		if other == nil || other.Status != vehicle.StatusWaitingForPassengers {
			continue
		}
		d := other.Station - s.v.Station
		if d == 1 || d == -1 {
			return true
		}
	}
	return false
}

func (s *step) nextIsCableHill() bool {
	next, err := s.ride.Track.Next(s.v.Segment)
	return err == nil && next.Element == track.ElemCableLiftHill
}

// dispatch starts the program of the ride mode
func (s *step) dispatch() {
	v := s.v
	cfg := s.ride.Config
	switch cfg.Mode {
	case ride.ModeBumperCar:
		s.setStatus(vehicle.StatusTravellingBumperCars, 0)
		v.Laps = 0
		s.bumperCars()
	case ride.ModeSwing:
		s.setStatus(vehicle.StatusSwinging, 0)
		v.Laps, v.Timer = 0, 0xFFFF
		s.swinging()
	case ride.ModeRotation:
		s.setStatus(vehicle.StatusRotating, 0)
		v.Laps, v.Timer = 0, 0xFFFF
		s.rotating()
	case ride.ModeFilmSimulator:
		s.setStatus(vehicle.StatusSimulatorOperating, cfg.Variant%uint8(len(simulatorFrames)))
		v.Timer = 0xFFFF
		s.simulator()
	case ride.ModeTopSpin:
		s.setStatus(vehicle.StatusTopSpinOperating, cfg.Variant%uint8(len(topSpinFrames)))
		v.Timer = 0xFFFF
		v.Frame, v.Frame2 = 0, 0
		s.topSpin()
	case ride.ModeForwardRotation, ride.ModeBackwardRotation:
		s.setStatus(vehicle.StatusFerrisWheelRotating, v.Frame)
		v.Laps, v.Timer = 0, parameter.FerrisStartTimer
		s.ferrisWheel()
	case ride.Mode3DFilm:
		s.setStatus(vehicle.StatusShowingFilm, cfg.Variant%uint8(len(parameter.FilmLength)))
		v.Timer = 0xFFFF
		s.showingFilm()
	case ride.ModeCircus:
		s.setStatus(vehicle.StatusDoingCircusShow, 0)
		v.Timer = 0xFFFF
		s.circusShow()
	case ride.ModeSpaceRings:
		s.setStatus(vehicle.StatusSpaceRingsOperating, 0)
		v.Frame, v.Timer = 0, 0xFFFF
		s.spaceRings()
	case ride.ModeHauntedHouse:
		s.setStatus(vehicle.StatusHauntedHouseOperating, 0)
		v.Frame, v.Timer = 0, 0xFFFF
		s.hauntedHouse()
	case ride.ModeCrookedHouse:
		s.setStatus(vehicle.StatusCrookedHouseOperating, 0)
		v.Frame, v.Timer = 0, 0xFFFF
		s.crookedHouse()
	default:
		v.SubState = 0
		v.Laps = 0
		v.Circuit = 0
		if cfg.Mode == ride.ModeRace && s.ride.Open() {
			s.ride.Set(ride.LifecyclePassStationNoStopping)
		}
	}
}
