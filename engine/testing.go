package engine

import (
	"fmt"

	"github.com/lixenwraith/coaster/event"
	"github.com/lixenwraith/coaster/ride"
	"github.com/lixenwraith/coaster/vehicle"
)

// measure records one tick of the testing train into the ride statistics
func (s *step) measure() {
	v, r := s.v, s.ride
	if v.Status == vehicle.StatusTravellingBoat {
		r.AbandonTest()
		v.Clear(vehicle.FlagTesting)
		s.e.log.Debug().Uint16("ride", uint16(r.ID)).Msg("test abandoned, boat left the track")
		return
	}
	seg, err := r.Track.Segment(v.Segment)
	if err != nil {
		return
	}
	r.Measurements.Record(ride.Sample{
		Velocity:     v.Velocity,
		Acceleration: v.Acceleration,
		Vertical:     v.VerticalG,
		Lateral:      v.LateralG,
		Position:     v.Pos,
		Segment:      seg,
		Circuit:      v.Circuit,
		OnLift:       v.Has(vehicle.FlagOnLiftHill),
	}, r.TestSegment, r.Kind.Has(ride.KindGForces))
}

// checkTest starts, advances or finishes the test run as a train leaves a platform
func (s *step) checkTest() {
	r := s.ride
	if r.Is(ride.LifecycleTested) || !r.Kind.Has(ride.KindTesting) {
		return
	}
	if s.v.Has(vehicle.FlagTesting) {
		if r.AdvanceTest(s.v.Station) {
			s.finishTest()
		}
		return
	}
	if !r.Is(ride.LifecycleTesting) {
		s.v.Set(vehicle.FlagTesting)
		r.StartTest(s.v.Station)
		s.e.log.Debug().Uint16("ride", uint16(r.ID)).Uint16("vehicle", uint16(s.v.ID)).Msg("test started")
	}
}

// finishTest stores the result and reports it
func (s *step) finishTest() {
	r := s.ride
	s.v.Clear(vehicle.FlagTesting)
	res := r.FinishTest(s.e.now())
	s.e.report.Tests++
	s.e.sink.TestFinished(uint16(r.ID), res)
	s.e.sink.News(event.NewsPayload{
		Kind: event.NewsTestFinished,
		Ride: uint16(r.ID),
		Text: fmt.Sprintf("%s has finished testing", r.Name),
	})
	s.e.log.Info().Uint16("ride", uint16(r.ID)).Int32("max_speed", res.MaxSpeed).
		Int32("length", res.Length).Uint8("inversions", res.Inversions).Msg("test finished")
}
