package physics

import (
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/track"
	"github.com/lixenwraith/coaster/vmath"
)

// Train is the per-tick aggregate the head car gathers over its whole train
type Train struct {
	// AccelSum is the sum of every car's way-point averaged pitch acceleration
	AccelSum int64
	Cars     int32
	// Friction is the summed drag divisor of all cars, never below 1
	Friction int32
	Velocity int32
	Pitch    track.Pitch
	Reversed bool
}

// AverageAcceleration scales the mean pitch acceleration of the cars to one tick
func AverageAcceleration(sum int64, cars int32) int32 {
	if cars <= 0 {
		return 0
	}
	avg := (sum / int64(cars)) * parameter.AccelAverageMul
	if avg < 0 {
		avg += parameter.AccelRoundBias
	}
	return int32(avg >> parameter.AccelAverageShift)
}

// Drag returns the linear plus quadratic resistance for a velocity and train friction
// The quadratic term keeps the sign of v
func Drag(v, friction int32) int32 {
	if friction < 1 {
		friction = 1
	}
	linear := vmath.ShrTowardZero(v, parameter.LinearDragShift)
	q := int64(v >> parameter.QuadDragShift)
	q *= q
	if v < 0 {
		q = -q
	}
	q >>= parameter.QuadDragDiv
	return linear + int32(q/int64(friction))
}

// Acceleration returns the passive acceleration of a train for the coming tick
// Powered trains pass a non-nil Drive, spin receives the water-ride spin clamp
func Acceleration(t *Train, d *Drive, spin *int32) int32 {
	acc := AverageAcceleration(t.AccelSum, t.Cars) - Drag(t.Velocity, t.Friction)
	if d == nil {
		return StandstillNudge(acc, t.Velocity)
	}
	p, ok := d.Seek(acc, t, spin)
	if !ok {
		return StandstillNudge(acc, t.Velocity)
	}
	return p
}

// StandstillNudge pushes a nearly stopped train over a flat spot
func StandstillNudge(acc, v int32) int32 {
	if acc <= 0 && acc >= parameter.StandstillFloor && v <= parameter.StandstillVelocity {
		return acc + parameter.StandstillNudge
	}
	return acc
}

// WaterDrag is the extra resistance of a splash trough or a covered slide
func WaterDrag(v int32) int32 {
	return v >> parameter.WaterDragShift
}

// HaulAcceleration is the passive acceleration of a cable lift chain
// The mean pitch term is not scaled up the way a train's is
func HaulAcceleration(sum int64, cars, v, friction int32) int32 {
	if cars <= 0 {
		return -Drag(v, friction)
	}
	return int32((sum/int64(cars))>>parameter.AccelAverageShift) - Drag(v, friction)
}
