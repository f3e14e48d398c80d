package engine

import (
	"github.com/lixenwraith/coaster/event"
	"github.com/lixenwraith/coaster/motion"
	"github.com/lixenwraith/coaster/ride"
	"github.com/lixenwraith/coaster/vehicle"
)

// step is the context a status handler runs with
// One step is reused for every head, handlers must not keep it
type step struct {
	e    *Engine
	ride *ride.Ride
	v    *vehicle.Vehicle
	typ  *vehicle.Type
	// breakdown is the failure the ride acts on this tick, ride.BreakdownNone when healthy
	breakdown ride.BreakdownKind
}

func (s *step) bind(r *ride.Ride, v *vehicle.Vehicle) *step {
	s.ride = r
	s.v = v
	s.typ = s.e.types.Get(v.Type)
	s.breakdown = r.ActiveBreakdown()
	return s
}

// prepare runs the per-tick work that precedes the status handler
func (s *step) prepare() {
	if s.v.Has(vehicle.FlagTesting) {
		s.measure()
	}
	if s.breakdown != ride.BreakdownSafetyCutOut {
		s.v.Clear(vehicle.FlagZeroVelocity)
	} else if s.typ.Has(vehicle.TypePowered) {
		s.v.Set(vehicle.FlagZeroVelocity)
	}
}

func (s *step) mode() ride.Mode {
	return s.ride.Config.Mode
}

// setStatus switches the head status and invalidates it
func (s *step) setStatus(st vehicle.Status, sub uint8) {
	s.v.SetStatus(st, sub)
	s.e.sink.Invalidate(uint16(s.v.ID))
}

// toArriving ends a flat-ride program
func (s *step) toArriving() {
	s.setStatus(vehicle.StatusArriving, 0)
	s.v.Hold = 0
}

// advance runs the integrator for the head
func (s *step) advance() (motion.Flags, int8) {
	return s.e.motion.Advance(s.v)
}

func (s *step) station() *ride.Station {
	return s.ride.Station(int(s.v.Station))
}

func (s *step) trainID() uint16 {
	return uint16(s.v.ID)
}

func (s *step) play(snd event.Sound) {
	s.e.sink.PlaySound(snd, s.v.Pos)
}

// breakDown turns the pending failure into an active one and raises the news once
func (s *step) breakDown() {
	if !s.ride.BreakDown(s.v.Station) {
		return
	}
	s.e.report.Breakdowns++
	s.e.sink.News(event.NewsPayload{
		Kind: event.NewsBreakdown,
		Ride: uint16(s.ride.ID),
		Text: s.ride.Name + " has broken down: " + s.ride.Breakdown.Current.String(),
	})
	s.e.log.Info().Uint16("ride", uint16(s.ride.ID)).Stringer("reason", s.ride.Breakdown.Current).Msg("ride broken down")
}

// cars iterates the train from the head
func (s *step) cars(fn func(*vehicle.Vehicle)) {
	for id := s.v.ID; id != vehicle.NoVehicle; {
		car := s.e.pool.Get(id)
		if car == nil {
			return
		}
		fn(car)
		id = car.Next
	}
}

func (s *step) riders() int {
	return s.e.pool.TotalRiders(s.v.ID)
}

func (s *step) seats() int {
	return s.e.pool.TotalSeats(s.v.ID)
}
