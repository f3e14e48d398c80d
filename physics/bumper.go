package physics

import (
	"github.com/lixenwraith/coaster/parameter"
)

// BumperDrag is the rolling resistance of a free-roaming car
func BumperDrag(v, friction int32) int32 {
	if friction < 1 {
		friction = 1
	}
	q := int64(v >> 8)
	q *= q
	if v < 0 {
		q = -q
	}
	q >>= parameter.BumperQuadShift
	return int32((int64(v/2) + q) / int64(friction))
}

// BumperAcceleration returns the next-tick acceleration of a bumper car
// A nil drive coasts, otherwise the car seeks the drive speed in its heading
func BumperAcceleration(v, friction int32, d *Drive, reversed bool) int32 {
	drag := BumperDrag(v, friction)
	if d == nil {
		return -drag
	}
	div := (int64(d.Speed) * int64(friction)) >> 2
	if div == 0 {
		div = 1
	}
	target := int64(d.Speed) << parameter.PoweredTargetShift
	if reversed {
		target = -target
	}
	p := (target - int64(v)) * (int64(d.Accel) << 1) / div
	return int32(p) - drag
}
