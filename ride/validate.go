package ride

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/coaster/track"
)

var (
	// ErrNoStation is returned for rides without a platform
	ErrNoStation = errors.New("ride has no station")
	// ErrModeCapability is returned when the kind or vehicles cannot run the selected mode
	ErrModeCapability = errors.New("mode not supported")
	// ErrNoCableLift is returned when the track has a cable lift hill but the ride has no cable lift
	ErrNoCableLift = errors.New("cable lift hill without cable lift")
	// ErrLiftSpeed is returned when a chain lift would run outside the speeds the kind allows
	ErrLiftSpeed = errors.New("lift hill speed out of range")
)

// Validator is implemented by track graphs that can check their own joints
type Validator interface {
	Validate() error
}

// Validate checks the ride before it is admitted to the simulation
// caps is the combined capability of the vehicle types assigned to the ride
// segments lists every piece of the layout, used to find cable lift hills
func (r *Ride) Validate(caps Capability, segments []track.Segment) error {
	var errs []error
	if r.Kind == nil {
		errs = append(errs, fmt.Errorf("ride %d: %w: no ride kind", r.ID, ErrModeCapability))
	} else if !r.Kind.Allows(r.Config.Mode) {
		errs = append(errs, fmt.Errorf("ride %d: %w: %s cannot run %s", r.ID, ErrModeCapability, r.Kind.Name, r.Config.Mode))
	}
	if need := r.Config.Mode.Requires(); !caps.Has(need) {
		errs = append(errs, fmt.Errorf("ride %d: %w: vehicles lack capabilities %#x for %s", r.ID, ErrModeCapability, need&^caps, r.Config.Mode))
	}
	if len(r.Stations) == 0 && !r.Config.Mode.Stationary() && r.Config.Mode != ModeBumperCar {
		errs = append(errs, fmt.Errorf("ride %d: %w", r.ID, ErrNoStation))
	}
	for _, seg := range segments {
		if seg.Element == track.ElemCableLiftHill && !r.Is(LifecycleCableLift) {
			errs = append(errs, fmt.Errorf("ride %d segment %d: %w", r.ID, seg.ID, ErrNoCableLift))
			break
		}
	}
	if r.Kind != nil {
		for _, seg := range segments {
			if !seg.LiftHill || seg.Element == track.ElemCableLiftHill {
				continue
			}
			if lo, hi := r.Kind.LiftSpeedRange(); r.Config.LiftHillSpeed < lo || r.Config.LiftHillSpeed > hi {
				errs = append(errs, fmt.Errorf("ride %d: %w: %d not in [%d, %d]", r.ID, ErrLiftSpeed, r.Config.LiftHillSpeed, lo, hi))
			}
			break
		}
	}
	if v, ok := r.Track.(Validator); ok {
		if err := v.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("ride %d track: %w", r.ID, err))
		}
	}
	return errors.Join(errs...)
}
