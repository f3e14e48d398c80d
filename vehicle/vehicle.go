package vehicle

import (
	"github.com/lixenwraith/coaster/event"
	"github.com/lixenwraith/coaster/ride"
	"github.com/lixenwraith/coaster/track"
	"github.com/lixenwraith/coaster/vmath"
)

// ID is a stable index into a Pool
type ID uint16

// NoVehicle is the empty link
const NoVehicle ID = 0xFFFF

// Vehicle is one car of a train, or a free-roaming car, boat or cabin
type Vehicle struct {
	ID   ID
	Ride ride.ID
	Type TypeID

	// Prev and Next link the cars of one train, front to back
	Prev, Next ID

	Status   Status
	SubState uint8
	Flags    Flag

	// Pos is the world position in world units
	Pos vmath.Vec3
	// Velocity and Acceleration are Q16.16
	Velocity     int32
	Acceleration int32
	// Remainder is the unspent step budget towards the next way-point
	Remainder int32

	Segment   track.SegmentID
	Progress  uint16
	Direction uint8
	Pitch     track.Pitch
	Bank      track.Bank

	Station int8
	// Circuit counts station passes of a multi-circuit run
	Circuit uint8
	// Laps counts launches, swings or rotations depending on status
	Laps uint8

	// Riders holds one rider id per seat, 0 is an empty seat
	Riders     []uint32
	Restraints uint8
	WaitTicks  uint16
	LostTicks  uint16

	VerticalG int32
	LateralG  int32

	SpinAngle    uint16
	SpinMomentum int32
	SwingPos     int32
	SwingSpeed   int32

	// Hold counts down a brake-for-drop or rotating lift pause
	Hold int16
	// Timer and Frame drive flat-ride timelines
	Timer  uint16
	Frame  uint8
	Frame2 uint8

	Sound SoundState

	// CrashVelocity and CrashPos are in 1/256 world units, CrashPos keeps the fraction not yet moved
	CrashVelocity vmath.Vec3
	CrashPos      vmath.Vec3

	// Partner links a cable lift and the train it is pulling
	Partner ID
	// Turn is the number of pending two-step heading changes of a free-roaming car, signed by side
	Turn int8
	// Bounce queues a push in direction Bounce&0x1E after a hard hit, 0 is none
	Bounce uint8
	// Parity alternates the step pattern of diagonal headings
	Parity uint8
}

// SoundState is the per-vehicle input to the sound synthesizer
type SoundState struct {
	Friction       event.Sound
	FrictionVolume uint8
	Scream         event.Sound
	ScreamVolume   uint8
	// Chosen is the scream or bell rolled for the current window, SoundNone when none was rolled
	Chosen event.Sound
	// Variation nudges the playback rate, derived from velocity and heading
	Variation int8
}

// Riding reports whether any seat is taken
func (v *Vehicle) Riding() bool {
	for _, r := range v.Riders {
		if r != 0 {
			return true
		}
	}
	return false
}

// RiderCount returns the number of occupied seats
func (v *Vehicle) RiderCount() int {
	n := 0
	for _, r := range v.Riders {
		if r != 0 {
			n++
		}
	}
	return n
}

// Board puts a rider in the first free seat
func (v *Vehicle) Board(rider uint32) bool {
	for i, r := range v.Riders {
		if r == 0 {
			v.Riders[i] = rider
			return true
		}
	}
	return false
}

// Has reports whether all bits of f are set
func (v *Vehicle) Has(f Flag) bool {
	return v.Flags&f == f
}

func (v *Vehicle) Set(f Flag) {
	v.Flags |= f
}

func (v *Vehicle) Clear(f Flag) {
	v.Flags &^= f
}

// SetStatus switches status and restarts the sub-state counter
func (v *Vehicle) SetStatus(s Status, sub uint8) {
	v.Status = s
	v.SubState = sub
}

// Stop zeroes velocity and pending acceleration
func (v *Vehicle) Stop() {
	v.Velocity = 0
	v.Acceleration = 0
}

// IsHead reports whether the vehicle leads its train
func (v *Vehicle) IsHead() bool {
	return v.Prev == NoVehicle
}

// Snapshot is the read-only view of a vehicle exposed to callers
type Snapshot struct {
	ID        ID         `json:"id"`
	Ride      ride.ID    `json:"ride"`
	Status    string     `json:"status"`
	SubState  uint8      `json:"sub_state"`
	Position  vmath.Vec3 `json:"position"`
	Velocity  int32      `json:"velocity"`
	Segment   int32      `json:"segment"`
	Progress  uint16     `json:"progress"`
	Direction uint8      `json:"direction"`
	Riders    int        `json:"riders"`
	VerticalG int32      `json:"vertical_g"`
	LateralG  int32      `json:"lateral_g"`
	Head      bool       `json:"head"`
}

// Snapshot copies the caller-visible state
func (v *Vehicle) Snapshot() Snapshot {
	return Snapshot{
		ID:        v.ID,
		Ride:      v.Ride,
		Status:    v.Status.String(),
		SubState:  v.SubState,
		Position:  v.Pos,
		Velocity:  v.Velocity,
		Segment:   int32(v.Segment),
		Progress:  v.Progress,
		Direction: v.Direction,
		Riders:    v.RiderCount(),
		VerticalG: v.VerticalG,
		LateralG:  v.LateralG,
		Head:      v.IsHead(),
	}
}
