package engine

import (
	"fmt"

	"github.com/lixenwraith/coaster/event"
	"github.com/lixenwraith/coaster/ride"
	"github.com/lixenwraith/coaster/vehicle"
)

// RequestBreakdown prepares a failure on a ride
// Restraint and door failures mark one random car, a vehicle malfunction one
// random train; both wait for that train to reach the affected state. A
// safety cut-out or control failure takes effect immediately.
func (e *Engine) RequestBreakdown(id ride.ID, kind ride.BreakdownKind) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.rides[id]
	if !ok {
		return fmt.Errorf("ride %d: %w", id, ErrUnknownRide)
	}
	if kind >= ride.BreakdownCount {
		return fmt.Errorf("ride %d: unknown breakdown %d", id, kind)
	}
	if r.Any(ride.LifecycleBreakdownPending | ride.LifecycleBrokenDown) {
		return nil
	}
	if len(r.Trains) == 0 {
		return fmt.Errorf("ride %d: %w", id, ErrNoTrains)
	}

	r.RequestBreakdown(kind)
	head := e.pool.Get(vehicle.ID(r.Trains[e.rng.Intn(len(r.Trains))]))
	switch {
	case kind.Restraint():
		e.cars = e.pool.Cars(head.ID, e.cars)
		car := e.pool.Get(e.cars[e.rng.Intn(len(e.cars))])
		car.Set(vehicle.FlagBrokenCar)
	case kind == ride.BreakdownVehicleMalfunction:
		head.Set(vehicle.FlagBrokenTrain)
	case kind == ride.BreakdownBrakesFailure:
		r.Breakdown.InspectionStation = head.Station
	default:
		st := e.st.bind(r, head)
		st.breakDown()
	}
	e.log.Info().Uint16("ride", uint16(r.ID)).Stringer("kind", kind).Msg("breakdown requested")
	return nil
}

// Fix repairs a ride and clears the broken marks of its vehicles
func (e *Engine) Fix(id ride.ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.rides[id]
	if !ok {
		return fmt.Errorf("ride %d: %w", id, ErrUnknownRide)
	}
	for _, h := range r.Trains {
		e.cars = e.pool.Cars(vehicle.ID(h), e.cars)
		for _, c := range e.cars {
			e.pool.Get(c).Clear(vehicle.FlagBrokenCar | vehicle.FlagBrokenTrain)
		}
	}
	broken := r.Is(ride.LifecycleBrokenDown)
	r.Fix()
	if broken {
		e.sink.News(event.NewsPayload{
			Kind: event.NewsFixed,
			Ride: uint16(r.ID),
			Text: r.Name + " has been fixed",
		})
	}
	e.log.Info().Uint16("ride", uint16(r.ID)).Msg("ride fixed")
	return nil
}

// SetMechanic records the progress of the mechanic answering a breakdown
func (e *Engine) SetMechanic(id ride.ID, status ride.MechanicStatus) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.rides[id]
	if !ok {
		return fmt.Errorf("ride %d: %w", id, ErrUnknownRide)
	}
	r.Breakdown.Mechanic = status
	return nil
}
