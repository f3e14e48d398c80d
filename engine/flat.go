package engine

import (
	"github.com/lixenwraith/coaster/event"
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/ride"
	"github.com/lixenwraith/coaster/vehicle"
)

// updateSessions decides whether bumper cars keep driving and racing trains keep passing the station
func (e *Engine) updateSessions(r *ride.Ride) {
	mode := r.Config.Mode
	if mode != ride.ModeBumperCar && mode != ride.ModeRace {
		return
	}
	running := r.Open() && !r.Any(ride.LifecycleBrokenDown|ride.LifecycleCrashed)
	if !running {
		r.Clear(ride.LifecyclePassStationNoStopping)
		return
	}
	if mode == ride.ModeRace {
		return
	}

	limit := r.Config.Rotations
	if limit == 0 {
		limit = 1
	}
	for _, h := range r.Trains {
		car := e.pool.Get(vehicle.ID(h))
		if car != nil && car.Status == vehicle.StatusTravellingBumperCars && car.Laps >= limit {
			r.Clear(ride.LifecyclePassStationNoStopping)
			return
		}
	}
	r.Set(ride.LifecyclePassStationNoStopping)
}

func (s *step) rotations() int {
	return int(s.ride.Config.Rotations)
}

// bumperCars drives a bumper car until the session ends
// Laps counts blocks of 256 ticks.
func (s *step) bumperCars() {
	v := s.v
	s.roam()
	v.SubState++
	if v.SubState == 0 {
		v.Laps++
	}
	if s.ride.Is(ride.LifecyclePassStationNoStopping) {
		return
	}
	v.Stop()
	s.setStatus(vehicle.StatusUnloadingPassengers, 0)
}

// frame shows timeline frame f
func (s *step) frame(f uint8) {
	if f == s.v.Frame {
		return
	}
	s.v.Frame = f
	s.e.sink.Invalidate(uint16(s.v.ID))
}

// swinging plays the swing timeline, ramping up to full swing and back down
func (s *step) swinging() {
	v := s.v
	for {
		frames := swingFrames[v.SubState]
		if f := frames[uint16(v.Timer+1)]; f != swingEnd {
			v.Timer++
			s.frame(f)
			return
		}
		v.Timer = 0xFFFF
		v.Laps++
		if s.ride.Status != ride.StatusClosed && int(v.Laps)+parameter.SwingRampSwings < s.rotations() {
			if int(v.SubState) != len(swingFrames)-1 {
				v.SubState++
			}
			continue
		}
		if v.SubState == 0 {
			s.toArriving()
			return
		}
		v.SubState--
	}
}

// rotating plays the spin-up, rotation and slow-down timelines
// A control failure speeds the timeline up and keeps the ride turning.
func (s *step) rotating() {
	if s.breakdown == ride.BreakdownSafetyCutOut {
		return
	}
	v := s.v
	enterprise := s.ride.Kind.Has(ride.KindEnterprise)
	for {
		frames := rotationFrames[v.SubState]
		t := int(int16(v.Timer))
		if s.breakdown == ride.BreakdownControlFailure {
			t += int(s.ride.ControlFailureSpeed>>6) + 1
		}
		t++
		if t < len(frames) && frames[t] != timelineEnd {
			v.Timer = uint16(t)
			s.frame(frames[t])
			return
		}

		v.Timer = 0xFFFF
		v.Laps++
		if s.breakdown != ride.BreakdownControlFailure {
			n := int(v.Laps) + 1
			if enterprise {
				n += parameter.EnterpriseExtraRotations
			}
			if s.ride.Status == ride.StatusClosed || n >= s.rotations() {
				if v.SubState == 2 {
					s.toArriving()
					return
				}
				v.SubState++
				continue
			}
		}
		if enterprise && v.SubState == 2 {
			s.toArriving()
			return
		}
		v.SubState = 1
	}
}

// ferrisWheel turns the wheel one cabin position per step
// Timer holds the ticks to the next step in its high byte and the signed speed in its low byte.
func (s *step) ferrisWheel() {
	if s.breakdown == ride.BreakdownSafetyCutOut {
		return
	}
	v := s.v
	v.Timer -= parameter.FerrisStepTicks
	if v.Timer&0xFF00 != 0 {
		return
	}

	speed := int8(v.Timer)
	switch {
	case speed == 3:
		v.Timer = ferrisTimer(speed, speed)
	case speed < 3:
		if speed != parameter.FerrisBrakeStep {
			speed--
		}
		v.Timer = ferrisTimer(speed, -speed)
	default:
		speed--
		v.Timer = ferrisTimer(speed, speed)
	}

	dir := uint8(1)
	if s.mode() == ride.ModeBackwardRotation {
		dir = 0xFF
	}
	v.Frame = (v.Frame + dir) & (parameter.FerrisWheelPositions - 1)
	if v.Frame == v.SubState {
		v.Laps++
	}
	s.e.sink.Invalidate(uint16(v.ID))

	if (v.SubState+dir)&(parameter.FerrisWheelPositions-1) == v.Frame {
		if s.ride.Status == ride.StatusClosed || int(v.Laps) > s.rotations() {
			if sp := int8(v.Timer); sp > 0 {
				v.Timer = v.Timer&0xFF00 | uint16(uint8(-sp))
			}
		}
	}

	if int8(v.Timer) != parameter.FerrisBrakeStep {
		return
	}
	if (v.SubState+8*dir)&(parameter.FerrisWheelPositions-1) != v.Frame {
		return
	}
	s.toArriving()
}

func ferrisTimer(speed, wait int8) uint16 {
	return uint16(uint8(speed)) | uint16(uint8(wait))<<8
}

// simulator plays the film timeline chosen at dispatch
func (s *step) simulator() {
	if s.breakdown == ride.BreakdownSafetyCutOut {
		return
	}
	s.playTimeline(simulatorFrames[s.v.SubState])
}

// spaceRings plays the rings timeline
func (s *step) spaceRings() {
	if s.breakdown == ride.BreakdownSafetyCutOut {
		return
	}
	s.playTimeline(spaceRingsFrames[s.v.SubState])
}

func (s *step) playTimeline(frames []uint8) {
	v := s.v
	i := int(uint16(v.Timer + 1))
	if i >= len(frames) || frames[i] == timelineEnd {
		s.toArriving()
		return
	}
	v.Timer++
	s.frame(frames[i])
}

// topSpin plays the arm and seat timeline of the chosen intensity
func (s *step) topSpin() {
	if s.breakdown == ride.BreakdownSafetyCutOut {
		return
	}
	v := s.v
	frames := topSpinFrames[v.SubState]
	i := int(uint16(v.Timer + 1))
	if i*2+1 >= len(frames) || frames[i*2] == timelineEnd {
		s.toArriving()
		return
	}
	v.Timer++
	s.frame(frames[i*2])
	if seat := frames[i*2+1]; seat != v.Frame2 {
		v.Frame2 = seat
		s.e.sink.Invalidate(uint16(v.ID))
	}
}

// hauntedHouse runs the show with its scares and door animation
func (s *step) hauntedHouse() {
	if s.breakdown == ride.BreakdownSafetyCutOut {
		return
	}
	v := s.v
	if v.Frame != 0 && s.e.tick&1 != 0 {
		v.Frame++
		if v.Frame == parameter.HauntedHouseDoorFrames {
			v.Frame = 0
		}
		s.e.sink.Invalidate(uint16(v.ID))
	}
	if v.Timer+1 > parameter.HauntedHouseLength {
		s.toArriving()
		return
	}
	v.Timer++
	switch v.Timer {
	case parameter.HauntedHouseScareA, parameter.HauntedHouseScareB:
		s.play(event.SoundHauntedScare)
	case parameter.HauntedHouseDoorA, parameter.HauntedHouseDoorB:
		s.frame(1)
	case parameter.HauntedHouseScreamA:
		s.play(event.SoundHauntedScream1)
	case parameter.HauntedHouseScreamB:
		s.play(event.SoundHauntedScream2)
	}
}

// crookedHouse only runs the clock
func (s *step) crookedHouse() {
	if s.breakdown == ride.BreakdownSafetyCutOut {
		return
	}
	s.countdown(parameter.CrookedHouseLength)
}

// showingFilm runs the film selected at dispatch
func (s *step) showingFilm() {
	if s.breakdown == ride.BreakdownSafetyCutOut {
		return
	}
	s.countdown(parameter.FilmLength[s.v.SubState])
}

func (s *step) circusShow() {
	if s.breakdown == ride.BreakdownSafetyCutOut {
		return
	}
	s.countdown(parameter.CircusShowLength)
}

// countdown advances a show clock that starts at 0xFFFF and ends the show after length ticks
func (s *step) countdown(length uint16) {
	if next := s.v.Timer + 1; next <= length {
		s.v.Timer = next
		return
	}
	s.toArriving()
}
