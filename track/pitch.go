package track

import "github.com/lixenwraith/coaster/vmath"

// Pitch is the vertical attitude class of a way-point
// Classes 1-8 cover ordinary slopes, 9-23 the steep and inverted half of a vertical loop
type Pitch uint8

const (
	PitchFlat Pitch = iota
	PitchUp12
	PitchUp25
	PitchUp42
	PitchUp60
	PitchDown12
	PitchDown25
	PitchDown42
	PitchDown60
	PitchUp75
	PitchUp90
	PitchUp105
	PitchUp120
	PitchUp135
	PitchUp150
	PitchUp165
	PitchInverted
	PitchDown75
	PitchDown90
	PitchDown105
	PitchDown120
	PitchDown135
	PitchDown150
	PitchDown165
	PitchCount
)

// pitchAngle is the nominal attitude of each class in tenths of a degree
var pitchAngle = [PitchCount]int32{
	0,
	125, 250, 425, 600,
	-125, -250, -425, -600,
	750, 900, 1050, 1200, 1350, 1500, 1650,
	1800,
	-750, -900, -1050, -1200, -1350, -1500, -1650,
}

// Angle returns the nominal attitude in tenths of a degree
func (p Pitch) Angle() int32 {
	if p >= PitchCount {
		return 0
	}
	return pitchAngle[p]
}

// Cos returns the Q16.16 cosine of the class attitude
func (p Pitch) Cos() int32 {
	return vmath.Cos(TenthsToAngle(p.Angle()))
}

// UpsideDown reports whether riders hang below the rail at this attitude
func (p Pitch) UpsideDown() bool {
	return p.Cos() < 0
}

// Descending reports whether the class points below the horizon
func (p Pitch) Descending() bool {
	return (p >= PitchDown12 && p <= PitchDown60) || p >= PitchDown75
}

// Ascending reports whether the class points above the horizon
func (p Pitch) Ascending() bool {
	return (p >= PitchUp12 && p <= PitchUp60) || (p >= PitchUp75 && p <= PitchUp165)
}

// PitchFromAngle returns the class nearest to an attitude in tenths of a degree
func PitchFromAngle(tenths int32) Pitch {
	best, bestDist := PitchFlat, int32(3600)
	for p := PitchFlat; p < PitchCount; p++ {
		if d := angularDistance(tenths, pitchAngle[p]); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

// Bank is the roll class of a way-point, positive angles roll to the left
type Bank uint8

const (
	BankNone Bank = iota
	BankLeft22
	BankLeft45
	BankLeft67
	BankLeft90
	BankRight22
	BankRight45
	BankRight67
	BankRight90
	BankUpsideDown
	BankCount
)

var bankAngle = [BankCount]int32{0, 225, 450, 675, 900, -225, -450, -675, -900, 1800}

// Angle returns the roll in tenths of a degree
func (b Bank) Angle() int32 {
	if b >= BankCount {
		return 0
	}
	return bankAngle[b]
}

// Cos returns the Q16.16 cosine of the roll
func (b Bank) Cos() int32 {
	return vmath.Cos(TenthsToAngle(b.Angle()))
}

// BankFromAngle returns the roll class nearest to an angle in tenths of a degree
func BankFromAngle(tenths int32) Bank {
	best, bestDist := BankNone, int32(3600)
	for b := BankNone; b < BankCount; b++ {
		if d := angularDistance(tenths, bankAngle[b]); d < bestDist {
			best, bestDist = b, d
		}
	}
	return best
}

// Slope is the attitude at an element boundary, two elements connect only when their slopes match
type Slope uint8

const (
	SlopeFlat Slope = iota
	SlopeUp25
	SlopeUp60
	SlopeUp90
	SlopeDown25
	SlopeDown60
	SlopeDown90
)

var slopeName = [...]string{"flat", "25 up", "60 up", "90 up", "25 down", "60 down", "90 down"}

func (s Slope) String() string {
	if int(s) < len(slopeName) {
		return slopeName[s]
	}
	return "unknown"
}

// TenthsToAngle converts tenths of a degree into vmath rotation units
func TenthsToAngle(tenths int32) int32 {
	return int32(int64(tenths) * vmath.Scale / 3600)
}

func angularDistance(a, b int32) int32 {
	d := (a - b) % 3600
	if d < 0 {
		d = -d
	}
	if d > 1800 {
		d = 3600 - d
	}
	return d
}

// Up reports climbing boundary slopes
func (s Slope) Up() bool {
	return s >= SlopeUp25 && s <= SlopeUp90
}

// Down reports descending boundary slopes
func (s Slope) Down() bool {
	return s >= SlopeDown25 && s <= SlopeDown90
}
