package engine

import (
	"fmt"

	"github.com/lixenwraith/coaster/crash"
	"github.com/lixenwraith/coaster/event"
	"github.com/lixenwraith/coaster/ride"
	"github.com/lixenwraith/coaster/vehicle"
)

// roam moves a free-roaming car and resolves what it bumped into
func (s *step) roam() {
	v := s.v
	_, contact := s.e.motion.Roam(v)
	if contact.Hit {
		if contact.Other != nil {
			crash.Bounce(v, contact.Other, contact.Heading, s.e.rng)
		} else {
			crash.HitWall(v, contact.Heading, s.e.rng)
		}
	}
	s.e.motion.Throttle(v)
}

// crashSetup throws a derailed train off the track
// Riders are lost when each car lands.
func (s *step) crashSetup() {
	v := s.v
	if s.riders() != 0 {
		s.play(event.SoundHauntedScream2)
	}
	s.e.thrown = s.e.crash.SetupCrash(v, v.Velocity, s.e.thrown)
	s.wreckTrain()
	s.e.report.Derailments++
	s.e.log.Warn().Uint16("ride", uint16(s.ride.ID)).Uint16("vehicle", uint16(v.ID)).Msg("train derailed")
}

// collisionSetup wrecks a train that hit another one
func (s *step) collisionSetup() {
	v := s.v
	s.e.thrown = s.e.crash.SetupCollision(v, v.Velocity, s.e.thrown)
	s.rideCrashed()
	for _, id := range s.e.thrown {
		if car := s.e.pool.Get(id); car != nil {
			s.e.riders.Kill(s.ride.ID, car.Riders)
		}
	}
	s.wreckTrain()
	s.e.report.Collisions++
	s.e.log.Warn().Uint16("ride", uint16(s.ride.ID)).Uint16("vehicle", uint16(v.ID)).Msg("train collided")
}

// wreckTrain moves the thrown cars from the ride ring to the wreckage list
func (s *step) wreckTrain() {
	r := s.ride
	r.RemoveTrain(s.trainID())
	if s.v.Has(vehicle.FlagTesting) {
		r.Clear(ride.LifecycleTesting)
	}
	for _, id := range s.e.thrown {
		if car := s.e.pool.Get(id); car != nil {
			car.Clear(vehicle.FlagTesting)
			s.e.sink.Invalidate(uint16(id))
		}
	}
	s.e.wrecks[r.ID] = append(s.e.wrecks[r.ID], s.e.thrown...)
}

// rideCrashed closes the ride and raises the news the first time one of its trains crashes
func (s *step) rideCrashed() {
	r := s.ride
	if !r.Is(ride.LifecycleCrashed) {
		s.e.report.Crashes++
		s.e.sink.News(event.NewsPayload{
			Kind: event.NewsCrash,
			Ride: uint16(r.ID),
			Text: fmt.Sprintf("A vehicle of %s has crashed", r.Name),
		})
		if r.Status != ride.StatusClosed {
			r.Close()
		}
		s.e.log.Warn().Uint16("ride", uint16(r.ID)).Str("name", r.Name).Msg("ride crashed")
	}
	r.Set(ride.LifecycleCrashed)
}

// crashing flies a thrown car until it lands, then lets it smoke
func (s *step) crashing() {
	car := s.v
	out := s.e.crash.Update(car)
	if !out.Landed() {
		return
	}
	s.rideCrashed()
	if n := s.e.riders.Kill(s.ride.ID, car.Riders); n > 0 {
		s.e.sink.News(event.NewsPayload{
			Kind: event.NewsCrash,
			Ride: uint16(s.ride.ID),
			Text: fmt.Sprintf("%d people have died in an accident on %s", n, s.ride.Name),
		})
	}
	s.e.log.Debug().Uint16("vehicle", uint16(car.ID)).Stringer("outcome", out).Msg("wreck landed")
}
