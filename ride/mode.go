package ride

// Mode is the operating mode selected for a ride
type Mode uint8

const (
	ModeNormal Mode = iota
	ModeContinuousCircuit
	ModeContinuousCircuitBlockSectioned
	ModeReverseInclineLaunchedShuttle
	ModePoweredLaunch
	ModePoweredLaunchPassthrough
	ModePoweredLaunchBlockSectioned
	ModeShuttle
	ModeBoatHire
	ModeUpwardLaunch
	ModeDownwardLaunch
	ModeRotatingLift
	ModeFreefallDrop
	ModeStationToStation
	ModeRace
	ModeBumperCar
	ModeSwing
	ModeRotation
	ModeForwardRotation
	ModeBackwardRotation
	// ModeFilmSimulator plays the film selected by Config.Variant
	ModeFilmSimulator
	// Mode3DFilm shows the film selected by Config.Variant
	Mode3DFilm
	// ModeTopSpin runs the intensity selected by Config.Variant
	ModeTopSpin
	ModeSpaceRings
	ModeHauntedHouse
	ModeCrookedHouse
	ModeCircus
	ModeCount
)

var modeName = [ModeCount]string{
	"normal", "continuous circuit", "continuous circuit block sectioned",
	"reverse incline launched shuttle", "powered launch", "powered launch passthrough",
	"powered launch block sectioned", "shuttle", "boat hire", "upward launch",
	"downward launch", "rotating lift", "freefall drop", "station to station", "race",
	"bumper car", "swing", "rotation", "forward rotation", "backward rotation",
	"film simulator", "3d film", "top spin", "space rings", "haunted house",
	"crooked house", "circus",
}

func (m Mode) String() string {
	if m < ModeCount {
		return modeName[m]
	}
	return "unknown"
}

// ParseMode returns the mode with the given name
func ParseMode(name string) (Mode, bool) {
	for m := Mode(0); m < ModeCount; m++ {
		if modeName[m] == name {
			return m, true
		}
	}
	return ModeNormal, false
}

// BlockSectioned reports modes where block sections space the trains
func (m Mode) BlockSectioned() bool {
	return m == ModeContinuousCircuitBlockSectioned || m == ModePoweredLaunchBlockSectioned
}

// Stationary reports modes whose vehicles never leave the platform
func (m Mode) Stationary() bool {
	switch m {
	case ModeSwing, ModeRotation, ModeForwardRotation, ModeBackwardRotation,
		ModeFilmSimulator, Mode3DFilm, ModeTopSpin, ModeSpaceRings,
		ModeHauntedHouse, ModeCrookedHouse, ModeCircus:
		return true
	}
	return false
}

// Tower reports modes that run up and down a tower
func (m Mode) Tower() bool {
	switch m {
	case ModeUpwardLaunch, ModeRotatingLift, ModeDownwardLaunch, ModeFreefallDrop:
		return true
	}
	return false
}

// Launched reports the powered launch family
func (m Mode) Launched() bool {
	switch m {
	case ModePoweredLaunch, ModePoweredLaunchPassthrough, ModePoweredLaunchBlockSectioned:
		return true
	}
	return false
}

// Shuttles reports modes that reverse direction at the end of the track
func (m Mode) Shuttles() bool {
	return m == ModeShuttle || m == ModeReverseInclineLaunchedShuttle
}

// Requires returns the vehicle capabilities the mode needs
func (m Mode) Requires() Capability {
	switch m {
	case ModeBumperCar:
		return CapBumper
	case ModeSwing:
		return CapSwing
	case ModeRotation:
		return CapRotate
	case ModeForwardRotation, ModeBackwardRotation:
		return CapFerrisWheel
	case ModeFilmSimulator:
		return CapSimulator
	case Mode3DFilm:
		return CapCinema
	case ModeTopSpin:
		return CapTopSpin
	case ModeSpaceRings:
		return CapSpaceRings
	case ModeHauntedHouse:
		return CapHauntedHouse
	case ModeCrookedHouse:
		return CapCrookedHouse
	case ModeCircus:
		return CapCircus
	case ModeBoatHire:
		return CapBoat
	case ModeUpwardLaunch, ModeRotatingLift, ModeDownwardLaunch, ModeFreefallDrop:
		return CapTower
	case ModeRace, ModeNormal, ModeContinuousCircuit, ModeContinuousCircuitBlockSectioned,
		ModeReverseInclineLaunchedShuttle, ModePoweredLaunch, ModePoweredLaunchPassthrough,
		ModePoweredLaunchBlockSectioned, ModeShuttle, ModeStationToStation:
		return CapTrack
	}
	return 0
}

// Capability is a bit set of what a vehicle type can physically do
type Capability uint32

const (
	CapTrack Capability = 1 << iota
	CapBumper
	CapSwing
	CapRotate
	CapFerrisWheel
	CapSimulator
	CapCinema
	CapTopSpin
	CapSpaceRings
	CapHauntedHouse
	CapCrookedHouse
	CapCircus
	CapBoat
	CapTower
)

// Has reports whether all bits of c are present
func (c Capability) Has(want Capability) bool {
	return c&want == want
}
