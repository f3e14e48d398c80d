package main

import (
	"fmt"

	"github.com/lixenwraith/coaster/engine"
	"github.com/lixenwraith/coaster/ride"
	"github.com/lixenwraith/coaster/rider"
	"github.com/lixenwraith/coaster/track"
	"github.com/lixenwraith/coaster/vehicle"
)

// demoRide is one attraction of the demo park
type demoRide struct {
	id     ride.ID
	name   string
	kind   *ride.Kind
	cfg    ride.Config
	layout func(origin track.Point) *track.Layout
	trains engine.TrainSpec
	// demand is the number of riders queued every demandInterval ticks
	demand int
}

const demandInterval = 200

var waitForHalf = ride.Config{
	Mode:    ride.ModeContinuousCircuit,
	Depart:  ride.DepartWaitForLoad | ride.DepartMinWait | ride.DepartMaxWait,
	Load:    ride.LoadHalf,
	MinWait: 2,
	MaxWait: 20,

	LiftHillSpeed: 6,
}

var demoRides = []demoRide{
	{
		id: 1, name: "Looper", kind: ride.LoopingCoaster, cfg: waitForHalf,
		layout: coasterLayout,
		trains: engine.TrainSpec{Type: vehicle.TypeNameCoasterCar, Trains: 2, Cars: 4},
		demand: 12,
	},
	{
		id: 2, name: "Timber Run", kind: ride.WoodenCoaster,
		cfg: ride.Config{Mode: ride.ModeContinuousCircuit, Depart: ride.DepartMaxWait, Load: ride.LoadAny, MaxWait: 10, LiftHillSpeed: 6},
		layout: func(o track.Point) *track.Layout {
			return coasterLayout(track.Point{X: o.X, Y: o.Y + 12*track.TileSize, Z: o.Z})
		},
		trains: engine.TrainSpec{Type: vehicle.TypeNameWoodenCar, Trains: 1, Cars: 3},
		demand: 6,
	},
	{
		id: 3, name: "Galleon", kind: ride.SwingingShip,
		cfg:    ride.Config{Mode: ride.ModeSwing, Depart: ride.DepartMaxWait, Load: ride.LoadAny, MaxWait: 6, Rotations: 4},
		layout: platformAt(14, 0),
		trains: engine.TrainSpec{Type: vehicle.TypeNameShip, Trains: 1, Cars: 1},
		demand: 8,
	},
	{
		id: 4, name: "Dodgems", kind: ride.BumperCars,
		cfg:    ride.Config{Mode: ride.ModeBumperCar, Depart: ride.DepartMaxWait, Load: ride.LoadAny, MaxWait: 4, Rotations: 3},
		layout: platformAt(14, 6),
		trains: engine.TrainSpec{Type: vehicle.TypeNameBumperCar, Trains: 6, Cars: 1},
		demand: 6,
	},
	{
		id: 5, name: "Big Wheel", kind: ride.FerrisWheel,
		cfg:    ride.Config{Mode: ride.ModeForwardRotation, Depart: ride.DepartMaxWait, Load: ride.LoadAny, MaxWait: 4, Rotations: 2},
		layout: platformAt(14, 12),
		trains: engine.TrainSpec{Type: vehicle.TypeNameGondola, Trains: 1, Cars: 1},
		demand: 4,
	},
}

// coasterLayout is a closed circuit with a chain lift, a drop and four right turns
func coasterLayout(origin track.Point) *track.Layout {
	l := track.NewLayout(origin, 0)
	l.Append(track.ElemEndStation)
	l.Append(track.ElemFlat)
	l.Append(track.ElemFlatToUp25, track.WithLiftHill())
	l.Append(track.ElemUp25, track.WithLiftHill())
	l.Append(track.ElemUp25ToFlat, track.WithLiftHill())
	l.Append(track.ElemRightQuarterTurn3)
	l.Append(track.ElemFlatToDown25)
	l.Append(track.ElemDown25)
	l.Append(track.ElemDown25ToFlat)
	l.Append(track.ElemRightQuarterTurn3)
	l.Append(track.ElemFlat)
	l.Append(track.ElemFlat)
	l.Append(track.ElemRightQuarterTurn3)
	l.Append(track.ElemFlat)
	l.Append(track.ElemBlockBrakes, track.WithBrakeSpeed(2))
	l.Append(track.ElemRightQuarterTurn3)
	l.Close()
	return l
}

// platformAt is a single station tile for a stationary ride, offset in tiles from the park origin
func platformAt(tx, ty int32) func(track.Point) *track.Layout {
	return func(o track.Point) *track.Layout {
		l := track.NewLayout(track.Point{X: o.X + tx*track.TileSize, Y: o.Y + ty*track.TileSize, Z: o.Z}, 0)
		l.Append(track.ElemEndStation)
		return l
	}
}

// buildPark admits every demo ride and opens it
func buildPark(e *engine.Engine) error {
	for _, d := range demoRides {
		r := ride.New(d.id, d.name, d.kind, d.cfg, d.layout(track.Point{}))
		r.Status = ride.StatusOpen
		if err := e.AddRide(r, d.trains); err != nil {
			return fmt.Errorf("demo ride %q: %w", d.name, err)
		}
	}
	return nil
}

// feedQueues adds riders to the first station of every demo ride
func feedQueues(roster *rider.Roster) {
	for _, d := range demoRides {
		if roster.Waiting(d.id, 0) < d.demand*2 {
			roster.Enqueue(d.id, 0, d.demand)
		}
	}
}
