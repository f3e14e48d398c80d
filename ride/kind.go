package ride

import (
	"sort"

	"github.com/lixenwraith/coaster/event"
	"github.com/lixenwraith/coaster/parameter"
)

// KindFlag describes static behavior shared by every ride of a kind
type KindFlag uint32

const (
	// KindTesting marks track rides whose first runs are measured
	KindTesting KindFlag = 1 << iota
	KindGForces
	KindLoadOptions
	KindSyncAdjacent
	// KindChairlift detects the station early and never leaves the cable
	KindChairlift
	// KindSplashDrag slows boats through the middle of a water splash
	KindSplashDrag
	// KindCoveredSlide drags the head car through covered pieces
	KindCoveredSlide
	KindTrainWhistle
	KindTramBell
	KindCableLift
	KindNoCollisionCrashes
	// KindEnterprise adds extra rotations to the rotation mode
	KindEnterprise
	// KindMultipleCircuits lets a train run several circuits per ride
	KindMultipleCircuits
)

// Kind is a ride type definition
type Kind struct {
	Name  string
	Flags KindFlag
	Modes []Mode
	// BoosterAccel and PoweredLiftAccel feed the booster and powered lift pieces
	BoosterAccel     int32
	PoweredLiftAccel int32
	LiftSound        event.Sound
	Screams          []event.Sound
	// LiftSpeedMin and LiftSpeedMax bound Config.LiftHillSpeed, zero uses the parameter defaults
	LiftSpeedMin uint8
	LiftSpeedMax uint8
}

// Has reports whether all bits of f are set
func (k *Kind) Has(f KindFlag) bool {
	return k.Flags&f == f
}

// LiftSpeedRange returns the chain lift speeds the kind accepts
func (k *Kind) LiftSpeedRange() (lo, hi uint8) {
	lo, hi = k.LiftSpeedMin, k.LiftSpeedMax
	if lo == 0 {
		lo = parameter.LiftHillSpeedMin
	}
	if hi == 0 {
		hi = parameter.LiftHillSpeedMax
	}
	return lo, hi
}

// Allows reports whether the kind can run in mode m
func (k *Kind) Allows(m Mode) bool {
	for _, allowed := range k.Modes {
		if allowed == m {
			return true
		}
	}
	return false
}

var (
	screamsSteel  = []event.Sound{event.SoundScream1, event.SoundScream2, event.SoundScream3, event.SoundScream4}
	screamsWooden = []event.Sound{event.SoundScream3, event.SoundScream5, event.SoundScream6}
	screamsWater  = []event.Sound{event.SoundScream7}
)

var coasterModes = []Mode{ModeNormal, ModeContinuousCircuit, ModeContinuousCircuitBlockSectioned, ModeRace}

var kinds = map[string]*Kind{}

func register(k *Kind) *Kind {
	kinds[k.Name] = k
	return k
}

var (
	LoopingCoaster = register(&Kind{
		Name:  "looping coaster",
		Flags: KindTesting | KindGForces | KindLoadOptions | KindSyncAdjacent | KindMultipleCircuits,
		Modes: append([]Mode{ModePoweredLaunch, ModePoweredLaunchPassthrough, ModePoweredLaunchBlockSectioned,
			ModeReverseInclineLaunchedShuttle, ModeShuttle}, coasterModes...),
		BoosterAccel: 18, PoweredLiftAccel: 0, LiftSound: event.SoundLiftChain, Screams: screamsSteel,
	})
	WoodenCoaster = register(&Kind{
		Name:  "wooden coaster",
		Flags: KindTesting | KindGForces | KindLoadOptions | KindSyncAdjacent | KindMultipleCircuits,
		Modes: coasterModes, LiftSound: event.SoundLiftWooden, Screams: screamsWooden,
		LiftSpeedMax: 7,
	})
	GigaCoaster = register(&Kind{
		Name:  "giga coaster",
		Flags: KindTesting | KindGForces | KindLoadOptions | KindCableLift | KindMultipleCircuits,
		Modes: coasterModes, BoosterAccel: 17, LiftSound: event.SoundLiftCable, Screams: screamsSteel,
	})
	SpinningCoaster = register(&Kind{
		Name:  "spinning coaster",
		Flags: KindTesting | KindGForces | KindLoadOptions | KindSyncAdjacent | KindMultipleCircuits,
		Modes: coasterModes, LiftSound: event.SoundLiftChain, Screams: screamsSteel,
	})
	BobsleighCoaster = register(&Kind{
		Name:  "bobsleigh coaster",
		Flags: KindTesting | KindGForces | KindLoadOptions | KindSyncAdjacent | KindMultipleCircuits,
		Modes: coasterModes, LiftSound: event.SoundLiftChain, Screams: screamsSteel,
	})
	WaterCoaster = register(&Kind{
		Name:  "water coaster",
		Flags: KindTesting | KindGForces | KindLoadOptions | KindSplashDrag | KindMultipleCircuits,
		Modes: coasterModes, LiftSound: event.SoundLiftChain, Screams: screamsWater,
	})
	LogFlume = register(&Kind{
		Name:  "log flume",
		Flags: KindTesting | KindGForces | KindLoadOptions | KindSplashDrag,
		Modes: []Mode{ModeContinuousCircuit}, PoweredLiftAccel: 18,
		LiftSound: event.SoundLiftChain, Screams: screamsWater,
	})
	CoveredSlide = register(&Kind{
		Name:  "covered slide",
		Flags: KindTesting | KindGForces | KindLoadOptions | KindCoveredSlide | KindNoCollisionCrashes,
		Modes: coasterModes, LiftSound: event.SoundLiftChain, Screams: screamsWater,
	})
	LaunchedFreefall = register(&Kind{
		Name:  "launched freefall",
		Flags: KindTesting | KindGForces | KindLoadOptions,
		Modes: []Mode{ModeUpwardLaunch, ModeDownwardLaunch}, Screams: screamsSteel,
	})
	RotoDrop = register(&Kind{
		Name:  "roto-drop",
		Flags: KindTesting | KindGForces | KindLoadOptions,
		Modes: []Mode{ModeFreefallDrop, ModeRotatingLift}, Screams: screamsSteel,
	})
	Chairlift = register(&Kind{
		Name:  "chairlift",
		Flags: KindTesting | KindChairlift | KindNoCollisionCrashes,
		Modes: []Mode{ModeStationToStation},
	})
	MiniatureRailway = register(&Kind{
		Name:  "miniature railway",
		Flags: KindTesting | KindLoadOptions | KindSyncAdjacent | KindTrainWhistle,
		Modes: []Mode{ModeContinuousCircuit, ModeShuttle},
	})
	Tram = register(&Kind{
		Name:  "tram",
		Flags: KindTesting | KindLoadOptions | KindSyncAdjacent | KindTramBell,
		Modes: []Mode{ModeContinuousCircuit, ModeShuttle},
	})
	BoatHire = register(&Kind{
		Name:  "boat hire",
		Flags: KindNoCollisionCrashes,
		Modes: []Mode{ModeBoatHire},
	})
	BumperCars = register(&Kind{
		Name:  "bumper cars",
		Flags: KindNoCollisionCrashes,
		Modes: []Mode{ModeBumperCar},
	})
	SwingingShip = register(&Kind{Name: "swinging ship", Modes: []Mode{ModeSwing}})
	Enterprise   = register(&Kind{Name: "enterprise", Flags: KindEnterprise, Modes: []Mode{ModeRotation}})
	Twist        = register(&Kind{Name: "twist", Modes: []Mode{ModeRotation}})
	FerrisWheel  = register(&Kind{Name: "ferris wheel", Modes: []Mode{ModeForwardRotation, ModeBackwardRotation}})
	Simulator    = register(&Kind{Name: "motion simulator", Modes: []Mode{ModeFilmSimulator}})
	Cinema3D     = register(&Kind{Name: "3d cinema", Modes: []Mode{Mode3DFilm}})
	TopSpin      = register(&Kind{Name: "top spin", Modes: []Mode{ModeTopSpin}})
	SpaceRings   = register(&Kind{Name: "space rings", Modes: []Mode{ModeSpaceRings}})
	HauntedHouse = register(&Kind{Name: "haunted house", Modes: []Mode{ModeHauntedHouse}})
	CrookedHouse = register(&Kind{Name: "crooked house", Modes: []Mode{ModeCrookedHouse}})
	Circus       = register(&Kind{Name: "circus", Modes: []Mode{ModeCircus}})
)

// Lookup returns the kind registered under name
func Lookup(name string) (*Kind, bool) {
	k, ok := kinds[name]
	return k, ok
}

// Kinds returns every registered kind ordered by name
func Kinds() []*Kind {
	out := make([]*Kind, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
