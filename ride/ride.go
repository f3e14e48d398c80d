package ride

import (
	"github.com/lixenwraith/coaster/track"
)

// ID identifies a ride within a park
type ID uint16

// NoTrain is the empty vehicle reference used in station and block records
const NoTrain uint16 = 0xFFFF

// Status is the operating status chosen by the park
type Status uint8

const (
	StatusClosed Status = iota
	StatusOpen
	StatusTesting
)

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusTesting:
		return "testing"
	}
	return "closed"
}

// Lifecycle holds the runtime flags of a ride
type Lifecycle uint16

const (
	LifecycleTesting Lifecycle = 1 << iota
	LifecycleTested
	LifecycleNoRawStats
	LifecycleBreakdownPending
	LifecycleBrokenDown
	LifecycleCrashed
	// LifecyclePassStationNoStopping lets racing trains and bumper cars keep going
	LifecyclePassStationNoStopping
	LifecycleCableLift
	LifecycleStalledVehicle
	LifecycleOnRidePhoto
)

// DepartFlag selects the boarding rules of a ride
type DepartFlag uint8

const (
	DepartWaitForLoad DepartFlag = 1 << iota
	DepartLeaveWhenAnotherArrives
	DepartSyncAdjacent
	DepartMinWait
	DepartMaxWait
)

// LoadPolicy is the fill level a train waits for when DepartWaitForLoad is set
type LoadPolicy uint8

const (
	LoadQuarter LoadPolicy = iota
	LoadHalf
	LoadThreeQuarter
	LoadFull
	LoadAny
)

// Satisfied reports whether riders out of seats meets the policy
func (p LoadPolicy) Satisfied(riders, seats int) bool {
	switch p {
	case LoadQuarter:
		return riders*4 >= seats
	case LoadHalf:
		return riders*2 >= seats
	case LoadThreeQuarter:
		return riders*4 >= seats*3
	case LoadAny:
		return riders > 0
	}
	return riders >= seats
}

// Config is the operator-facing configuration of a ride
type Config struct {
	Mode   Mode
	Depart DepartFlag
	Load   LoadPolicy
	// MinWait and MaxWait are in wait units of parameter.TicksPerWaitUnit ticks
	MinWait uint8
	MaxWait uint8
	// LaunchSpeed is in velocity units >> 16
	LaunchSpeed   uint8
	LiftHillSpeed uint8
	Circuits      uint8
	// Rotations counts swings, turns or laps of flat rides
	Rotations uint8
	// Variant picks the film, show or intensity of flat modes
	Variant uint8
}

// Ride is the shared state of one attraction read and written by its vehicles
type Ride struct {
	ID        ID
	Name      string
	Kind      *Kind
	Config    Config
	Status    Status
	Lifecycle Lifecycle
	Track     track.Graph

	Stations  []Station
	Blocks    Blocks
	Breakdown Breakdown

	Measurements Measurements
	// Result holds the last finished test
	Result *TestResult
	// TestSegment and TestStation track which station-to-station leg is being measured
	TestSegment uint8
	TestStation int8

	// Trains lists the head vehicle of every train in ride order
	Trains []uint16
	// CableLift is the head of the cable lift helper chain
	CableLift uint16
	// ControlFailureSpeed speeds up flat rides whose controls have failed
	ControlFailureSpeed uint8
	// Arena is the floor free-roaming cars and boats stay inside
	Arena Bounds
}

// Bounds is a ground-plane rectangle in world units, Max is inclusive
type Bounds struct {
	MinX, MinY, MaxX, MaxY int32
}

// Contains reports whether a point keeps margin units away from every edge
func (b Bounds) Contains(x, y, margin int32) bool {
	return x-margin >= b.MinX && y-margin >= b.MinY && x+margin <= b.MaxX && y+margin <= b.MaxY
}

// Empty reports a zero-size rectangle
func (b Bounds) Empty() bool {
	return b.MaxX <= b.MinX || b.MaxY <= b.MinY
}

// New creates a closed ride on a track graph
func New(id ID, name string, kind *Kind, cfg Config, graph track.Graph) *Ride {
	return &Ride{
		ID:        id,
		Name:      name,
		Kind:      kind,
		Config:    cfg,
		Track:     graph,
		CableLift: NoTrain,
		Breakdown: Breakdown{Pending: BreakdownNone, Current: BreakdownNone},
	}
}

// Is reports whether all bits of f are set
func (r *Ride) Is(f Lifecycle) bool {
	return r.Lifecycle&f == f
}

// Any reports whether any bit of f is set
func (r *Ride) Any(f Lifecycle) bool {
	return r.Lifecycle&f != 0
}

func (r *Ride) Set(f Lifecycle) {
	r.Lifecycle |= f
}

func (r *Ride) Clear(f Lifecycle) {
	r.Lifecycle &^= f
}

// Open reports whether guests may board
func (r *Ride) Open() bool {
	return r.Status == StatusOpen
}

// Close stops the ride from taking new riders
func (r *Ride) Close() {
	r.Status = StatusClosed
}

// AddStation registers a platform whose end-station piece is start
func (r *Ride) AddStation(start track.SegmentID) int {
	r.Stations = append(r.Stations, Station{Start: start, Occupant: NoTrain})
	return len(r.Stations) - 1
}

// Station returns station i or nil
func (r *Ride) Station(i int) *Station {
	if i < 0 || i >= len(r.Stations) {
		return nil
	}
	return &r.Stations[i]
}

// AddTrain appends a train head to the ride ring
func (r *Ride) AddTrain(head uint16) {
	r.Trains = append(r.Trains, head)
}

// RemoveTrain drops a train from the ride ring and every block or station it held
func (r *Ride) RemoveTrain(head uint16) {
	for i, t := range r.Trains {
		if t == head {
			r.Trains = append(r.Trains[:i], r.Trains[i+1:]...)
			break
		}
	}
	r.Blocks.Release(head)
	for i := range r.Stations {
		if r.Stations[i].Occupant == head {
			r.Stations[i].Occupant = NoTrain
		}
	}
}

// TrainAhead returns the train after head in ride order, wrapping around
func (r *Ride) TrainAhead(head uint16) (uint16, bool) {
	return r.neighbour(head, 1)
}

// TrainBehind returns the train before head in ride order, wrapping around
func (r *Ride) TrainBehind(head uint16) (uint16, bool) {
	return r.neighbour(head, -1)
}

func (r *Ride) neighbour(head uint16, step int) (uint16, bool) {
	n := len(r.Trains)
	if n < 2 {
		return NoTrain, false
	}
	for i, t := range r.Trains {
		if t == head {
			return r.Trains[(i+step+n)%n], true
		}
	}
	return NoTrain, false
}

// ReplaceTrain swaps a train head reference after chain surgery
func (r *Ride) ReplaceTrain(old, head uint16) {
	for i, t := range r.Trains {
		if t == old {
			r.Trains[i] = head
		}
	}
	r.Blocks.Rename(old, head)
	for i := range r.Stations {
		if r.Stations[i].Occupant == old {
			r.Stations[i].Occupant = head
		}
	}
}
