package vehicle

import (
	"fmt"

	"github.com/lixenwraith/coaster/event"
	"github.com/lixenwraith/coaster/ride"
)

// TypeFlag describes the physical behavior of a vehicle type
type TypeFlag uint32

const (
	// TypePowered drives toward its own target speed
	TypePowered TypeFlag = 1 << iota
	// TypePoweredUnrestricted lets gravity carry the car above its powered speed
	TypePoweredUnrestricted
	TypeWaterRide
	TypeSpinning
	TypeSwinging
	// TypeNoUpStops derails when riders would lift off the rail
	TypeNoUpStops
	// TypeNoUpStopsBobsleigh uses the gentler bobsleigh derailment limits
	TypeNoUpStopsBobsleigh
	TypeBoat
	TypeChairlift
	TypeBumper
	// TypeShortArriveHold releases a train blocked at the platform after a short hold
	TypeShortArriveHold
	// TypeNoCollisionCrash bounces instead of crashing on hard contact
	TypeNoCollisionCrash
	// TypeRidersScream enables scream sounds
	TypeRidersScream
	// TypeLiftSound plays the ride kind lift sound on lift hills
	TypeLiftSound
)

// TypeID indexes a Registry
type TypeID uint8

// Type is a vehicle type definition shared by every car built from it
type Type struct {
	Name  string
	Flags TypeFlag
	Caps  ride.Capability
	// Friction is the car's share of the train drag divisor
	Friction int32
	Seats    uint8
	// Spacing is the distance between this car and the next in step units, 13962 per way-point
	Spacing int32
	// PoweredAccel and PoweredSpeed drive powered vehicles
	PoweredAccel uint8
	PoweredSpeed uint8
	// SpinInertia and SpinFriction shape the spin momentum of spinning cars
	SpinInertia   uint8
	SpinFriction  uint8
	FrictionSound event.Sound
	// Reverser is the type a log flume reverser swaps the car to
	Reverser TypeID
	// SwingAmplitude bounds the swing of swinging cars
	SwingAmplitude int32
}

// Has reports whether all bits of f are set
func (t *Type) Has(f TypeFlag) bool {
	return t.Flags&f == f
}

// Registry is the table of vehicle types known to a simulation
type Registry struct {
	types []*Type
	names map[string]TypeID
}

func NewRegistry() *Registry {
	return &Registry{names: make(map[string]TypeID)}
}

// Register adds a type and returns its id, registering the same name twice replaces the entry
func (r *Registry) Register(t Type) TypeID {
	if id, ok := r.names[t.Name]; ok {
		*r.types[id] = t
		return id
	}
	id := TypeID(len(r.types))
	r.types = append(r.types, &t)
	r.names[t.Name] = id
	return id
}

// Get returns the type for id, unknown ids resolve to the first type
func (r *Registry) Get(id TypeID) *Type {
	if int(id) >= len(r.types) {
		if len(r.types) == 0 {
			return &Type{Name: "unknown", Friction: 1}
		}
		return r.types[0]
	}
	return r.types[id]
}

// Lookup returns the id of a named type
func (r *Registry) Lookup(name string) (TypeID, error) {
	id, ok := r.names[name]
	if !ok {
		return 0, fmt.Errorf("vehicle type %q not registered", name)
	}
	return id, nil
}

// Len returns the number of registered types
func (r *Registry) Len() int {
	return len(r.types)
}

// Default vehicle type names
const (
	TypeNameCoasterCar  = "coaster car"
	TypeNameWoodenCar   = "wooden car"
	TypeNameSpinningCar = "spinning car"
	TypeNameBobsleigh   = "bobsleigh"
	TypeNameLog         = "log"
	TypeNameLogReversed = "log reversed"
	TypeNameWaterCar    = "water coaster boat"
	TypeNameSlideCar    = "slide car"
	TypeNameTowerCar    = "tower car"
	TypeNameChair       = "chair"
	TypeNameLocomotive  = "locomotive"
	TypeNameTramCar     = "tram car"
	TypeNameRowingBoat  = "rowing boat"
	TypeNameBumperCar   = "bumper car"
	TypeNameShip        = "ship"
	TypeNameGondola     = "gondola"
	TypeNameRotor       = "rotor"
	TypeNameCapsule     = "simulator capsule"
	TypeNameSeats       = "seats"
	TypeNameCableLift   = "cable lift"
	TypeNameSwingingCar = "suspended swinging car"
)

// DefaultRegistry returns the built-in vehicle types
func DefaultRegistry() *Registry {
	r := NewRegistry()
	flat := ride.CapRotate | ride.CapFerrisWheel | ride.CapSimulator | ride.CapCinema |
		ride.CapTopSpin | ride.CapSpaceRings | ride.CapHauntedHouse | ride.CapCrookedHouse | ride.CapCircus

	r.Register(Type{Name: TypeNameCoasterCar, Flags: TypeNoUpStops | TypeRidersScream | TypeLiftSound,
		Caps: ride.CapTrack, Friction: 260, Seats: 4, Spacing: 0x3D000, FrictionSound: event.SoundFrictionSteel})
	r.Register(Type{Name: TypeNameWoodenCar, Flags: TypeRidersScream | TypeLiftSound,
		Caps: ride.CapTrack, Friction: 280, Seats: 4, Spacing: 0x40000, FrictionSound: event.SoundFrictionWooden})
	r.Register(Type{Name: TypeNameSpinningCar, Flags: TypeSpinning | TypeRidersScream | TypeLiftSound,
		Caps: ride.CapTrack, Friction: 250, Seats: 4, Spacing: 0x38000, SpinInertia: 2, SpinFriction: 4,
		FrictionSound: event.SoundFrictionSteel})
	r.Register(Type{Name: TypeNameBobsleigh, Flags: TypeNoUpStopsBobsleigh | TypeRidersScream | TypeLiftSound,
		Caps: ride.CapTrack, Friction: 220, Seats: 2, Spacing: 0x30000, FrictionSound: event.SoundFrictionSteel})
	logReversed := r.Register(Type{Name: TypeNameLogReversed, Flags: TypeWaterRide | TypeRidersScream,
		Caps: ride.CapTrack, Friction: 200, Seats: 4, Spacing: 0x30000, FrictionSound: event.SoundFrictionWater})
	r.Register(Type{Name: TypeNameLog, Flags: TypeWaterRide | TypeRidersScream,
		Caps: ride.CapTrack, Friction: 200, Seats: 4, Spacing: 0x30000, FrictionSound: event.SoundFrictionWater,
		Reverser: logReversed})
	r.Register(Type{Name: TypeNameWaterCar, Flags: TypeWaterRide | TypeRidersScream | TypeLiftSound,
		Caps: ride.CapTrack, Friction: 240, Seats: 4, Spacing: 0x38000, FrictionSound: event.SoundFrictionWater})
	r.Register(Type{Name: TypeNameSlideCar, Flags: TypeNoCollisionCrash | TypeRidersScream,
		Caps: ride.CapTrack, Friction: 160, Seats: 2, Spacing: 0x28000, FrictionSound: event.SoundFrictionWater})
	r.Register(Type{Name: TypeNameTowerCar, Flags: TypeRidersScream,
		Caps: ride.CapTrack | ride.CapTower, Friction: 400, Seats: 16, Spacing: 0x20000, FrictionSound: event.SoundNone})
	r.Register(Type{Name: TypeNameChair, Flags: TypePowered | TypeChairlift | TypeNoCollisionCrash,
		Caps: ride.CapTrack, Friction: 100, Seats: 2, Spacing: 0x60000, PoweredAccel: 40, PoweredSpeed: 8,
		FrictionSound: event.SoundNone})
	r.Register(Type{Name: TypeNameLocomotive, Flags: TypePowered | TypeShortArriveHold,
		Caps: ride.CapTrack, Friction: 600, Seats: 0, Spacing: 0x48000, PoweredAccel: 60, PoweredSpeed: 10,
		FrictionSound: event.SoundFrictionTrain})
	r.Register(Type{Name: TypeNameTramCar, Flags: TypePowered | TypePoweredUnrestricted | TypeShortArriveHold,
		Caps: ride.CapTrack, Friction: 500, Seats: 8, Spacing: 0x48000, PoweredAccel: 50, PoweredSpeed: 9,
		FrictionSound: event.SoundFrictionTrain})
	r.Register(Type{Name: TypeNameRowingBoat, Flags: TypeBoat | TypeWaterRide | TypePowered | TypeNoCollisionCrash,
		Caps: ride.CapBoat, Friction: 200, Seats: 2, Spacing: 0x30000, PoweredAccel: 20, PoweredSpeed: 4, FrictionSound: event.SoundFrictionWater})
	r.Register(Type{Name: TypeNameBumperCar, Flags: TypeBumper | TypePowered | TypeNoCollisionCrash,
		Caps: ride.CapBumper, Friction: 180, Seats: 1, Spacing: 0x20000, PoweredAccel: 30, PoweredSpeed: 6,
		FrictionSound: event.SoundFrictionBumper})
	r.Register(Type{Name: TypeNameShip, Flags: TypeRidersScream, Caps: ride.CapSwing, Friction: 300, Seats: 20,
		FrictionSound: event.SoundNone})
	r.Register(Type{Name: TypeNameGondola, Caps: flat, Friction: 300, Seats: 4, FrictionSound: event.SoundNone})
	r.Register(Type{Name: TypeNameRotor, Flags: TypeRidersScream, Caps: flat, Friction: 300, Seats: 12, FrictionSound: event.SoundNone})
	r.Register(Type{Name: TypeNameCapsule, Caps: flat, Friction: 300, Seats: 8, FrictionSound: event.SoundNone})
	r.Register(Type{Name: TypeNameSeats, Caps: flat, Friction: 300, Seats: 32, FrictionSound: event.SoundNone})
	r.Register(Type{Name: TypeNameCableLift, Flags: TypePowered, Caps: ride.CapTrack,
		Friction: 100, Spacing: 0x10000, PoweredAccel: 80, PoweredSpeed: 20, FrictionSound: event.SoundNone})
	r.Register(Type{Name: TypeNameSwingingCar, Flags: TypeSwinging | TypeRidersScream | TypeLiftSound,
		Caps: ride.CapTrack, Friction: 270, Seats: 4, Spacing: 0x3D000, SwingAmplitude: 0x2000,
		FrictionSound: event.SoundFrictionSteel})
	return r
}
