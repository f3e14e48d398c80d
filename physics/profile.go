package physics

import (
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/track"
	"github.com/lixenwraith/coaster/vmath"
)

// DriveFlag modifies how a powered train seeks its target speed
type DriveFlag uint8

const (
	// DriveUnrestricted lets gravity carry the train past the target speed
	DriveUnrestricted DriveFlag = 1 << iota
	// DriveWater softens braking and stops driving on slopes
	DriveWater
	// DriveSpinning clamps spin momentum while the drive is engaged
	DriveSpinning
	// DriveBoosted quadruples the seek gain
	DriveBoosted
)

// Drive is the motor of a powered vehicle type
type Drive struct {
	// Speed is the target in speed units, the velocity target is Speed << 14
	Speed int32
	Accel int32
	Flags DriveFlag
}

func (d *Drive) Has(f DriveFlag) bool {
	return d.Flags&f != 0
}

// Seek returns the train acceleration with the motor engaged
// ok is false when the motor stays idle and the passive model applies
func (d *Drive) Seek(acc int32, t *Train, spin *int32) (int32, bool) {
	if d.Has(DriveUnrestricted) && t.Velocity > d.Speed*(1<<parameter.PoweredTargetShift) {
		return acc, false
	}

	target := int64(d.Speed) << parameter.PoweredTargetShift
	if t.Reversed {
		target = -target
	}
	div := (int64(d.Speed) * int64(t.Friction)) >> 2
	if div == 0 {
		div = 1
	}
	p := (target - int64(t.Velocity)) * (int64(d.Accel) << 1) / div
	if d.Has(DriveBoosted) {
		p <<= 2
	}

	if d.Has(DriveWater) {
		if p < 0 {
			p >>= parameter.PoweredNegGainShift
		}
		if d.Has(DriveSpinning) && spin != nil {
			*spin = vmath.Clamp(*spin, -parameter.PoweredSpinClamp, parameter.PoweredSpinClamp)
		}
		if t.Pitch != track.PitchFlat {
			if p < 0 {
				p = 0
			}
			if !d.Has(DriveSpinning) && t.Pitch == track.PitchUp25 && spin != nil {
				*spin = 0
			}
			return vmath.Saturate(int64(acc) + p), true
		}
	}

	if vmath.Abs(t.Velocity) <= parameter.PoweredAssistLimit {
		acc = 0
	}
	return vmath.Saturate(int64(acc) + p), true
}

// Inter-car collision profiles, pre-defined for zero allocation in the hot path

// CarToCar exchanges half of each velocity and may end in a crash
var CarToCar = CollisionProfile{
	Mode:       ExchangeHalf,
	CrashDelta: parameter.CollisionVelocityDelta,
}

// BoatToBoat bumps without crashing, each boat keeps three quarters of its speed
var BoatToBoat = CollisionProfile{
	Mode:       LoseQuarter,
	CrashDelta: 0,
}

// CableLiftDrive pulls trains up a cable hill
var CableLiftDrive = Drive{
	Speed: parameter.CableLiftSpeed,
	Accel: parameter.CableLiftPoweredAccel,
}
