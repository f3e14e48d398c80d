package physics

import (
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/track"
	"github.com/lixenwraith/coaster/vmath"
)

// GForces returns vertical and lateral g for a car, 100 = 1 g
// Gravity is projected by pitch and bank, then the curvature factors of the
// element add |v|*98/f per axis
func GForces(pitch track.Pitch, bank track.Bank, v, vertFactor, latFactor int32) (vertical, lateral int32) {
	vert := int64(vmath.Mul(vmath.Mul(parameter.GForceVerticalBase, pitch.Cos()), bank.Cos()))
	var lat int64

	speed := int64(vmath.Abs(v))
	if vertFactor != 0 {
		vert += speed * parameter.GForceVelocityMul / int64(vertFactor)
	}
	if latFactor != 0 {
		lat += speed * parameter.GForceVelocityMul / int64(latFactor)
	}

	vert = (vert * parameter.GForceOutputMul) >> parameter.GForceOutputShift
	lat = (lat * parameter.GForceOutputMul) >> parameter.GForceOutputShift
	return int32(vert), int32(lat)
}

// SegmentGForces evaluates GForces at a way-point of a placed segment
func SegmentGForces(seg track.Segment, progress uint16, pitch track.Pitch, bank track.Bank, v int32) (int32, int32) {
	vf, lf := seg.Descriptor().GForce.Factors(progress, seg.Length())
	return GForces(pitch, bank, v, vf, lf)
}

// UpStop selects the derailment rule of a vehicle type without up-stop wheels
type UpStop uint8

const (
	UpStopNone UpStop = iota
	UpStopCoaster
	UpStopBobsleigh
)

// Derails reports whether a car without up-stops leaves the rail at the given g-forces
// Climbing classes use the tighter vertical limit
func (u UpStop) Derails(pitch track.Pitch, vertical, lateral int32) bool {
	climbing := pitch < track.PitchCount && parameter.PitchAcceleration[pitch] < 0
	switch u {
	case UpStopCoaster:
		if vmath.Abs(lateral) <= parameter.UpStopLateralLimit {
			if climbing && vertical > parameter.UpStopClimbVerticalMin {
				return false
			}
			if !climbing && vertical > parameter.UpStopVerticalMin {
				return false
			}
		}
		return pitch != track.PitchDown60
	case UpStopBobsleigh:
		if climbing && vertical > parameter.BobsleighClimbVertical {
			return false
		}
		if !climbing && vertical > parameter.BobsleighVerticalMin {
			return false
		}
		return pitch != track.PitchDown60 && pitch != track.PitchDown75
	}
	return false
}
