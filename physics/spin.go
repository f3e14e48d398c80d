package physics

import (
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/track"
	"github.com/lixenwraith/coaster/vmath"
)

// Spin holds the free rotation of a spinning car
type Spin struct {
	Angle    uint16
	Momentum int32
}

// SpinParams are the per-type inertia and friction shifts
type SpinParams struct {
	Inertia  uint8
	Friction uint8
}

// UpdateSpin applies the torque of the current element, clamps the momentum,
// turns the car and damps the momentum by its friction
// odd flips the direction of elements whose torque depends on the car's parity
func UpdateSpin(s *Spin, p SpinParams, seg track.Segment, progress uint16, v int32, odd bool) {
	profile := seg.Descriptor().Spin
	shift, sign := profile.Torque(progress)
	if sign != 0 {
		torque := v >> (uint(p.Inertia) + uint(shift))
		if odd && profile.Alternate {
			sign = -sign
		}
		if sign > 0 {
			s.Momentum += torque
		} else {
			s.Momentum -= torque
		}
	}

	m := vmath.Clamp(s.Momentum, -parameter.SpinMomentumClamp, parameter.SpinMomentumClamp)
	s.Angle += uint16(m >> parameter.SpinAngleShift)
	s.Momentum = m - (m >> p.Friction)
}

// LockSpin stops the rotation of a car held by a spin lock
func LockSpin(s *Spin) {
	s.Momentum = 0
}
