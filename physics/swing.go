package physics

import (
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/vmath"
)

// Swing is the sideways pendulum of a suspended car
type Swing struct {
	Pos   int32
	Speed int32
}

// UpdateSwing drives the pendulum from lateral g, pulls it back to centre and damps it
// amplitude bounds the deflection, 0 uses the default
func UpdateSwing(s *Swing, lateral, amplitude int32) {
	if amplitude <= 0 {
		amplitude = parameter.SwingPositionClamp
	}
	s.Speed += lateral*parameter.SwingLateralScale - (s.Pos >> parameter.SwingSpringShift)
	s.Speed -= s.Speed >> parameter.SwingDampShift
	s.Speed = vmath.Clamp(s.Speed, -parameter.SwingMomentumClamp, parameter.SwingMomentumClamp)

	s.Pos += s.Speed
	if s.Pos > amplitude || s.Pos < -amplitude {
		s.Pos = vmath.Clamp(s.Pos, -amplitude, amplitude)
		s.Speed = -(s.Speed >> 1)
	}
}

// SwingFrame maps a deflection to one of frames sprite positions, centre frame at frames/2
func SwingFrame(pos, amplitude int32, frames uint8) uint8 {
	if frames == 0 {
		return 0
	}
	if amplitude <= 0 {
		amplitude = parameter.SwingPositionClamp
	}
	half := int32(frames) / 2
	f := half + pos*half/amplitude
	return uint8(vmath.Clamp(f, 0, int32(frames)-1))
}
