package vehicle

// Status is the high-level behavior a vehicle is in
type Status uint8

const (
	StatusMovingToEndOfStation Status = iota
	StatusWaitingForPassengers
	StatusWaitingToDepart
	StatusDeparting
	StatusTravelling
	StatusArriving
	StatusUnloadingPassengers
	StatusTravellingBoat
	StatusCrashing
	StatusCrashed
	StatusTravellingBumperCars
	StatusSwinging
	StatusSimulatorOperating
	StatusRotating
	StatusFerrisWheelRotating
	StatusSpaceRingsOperating
	StatusTopSpinOperating
	StatusHauntedHouseOperating
	StatusCrookedHouseOperating
	StatusWaitingForCableLift
	StatusTravellingCableLift
	StatusShowingFilm
	StatusDoingCircusShow
	StatusCount
)

var statusName = [StatusCount]string{
	"moving to end of station", "waiting for passengers", "waiting to depart",
	"departing", "travelling", "arriving", "unloading passengers", "travelling boat",
	"crashing", "crashed", "travelling bumper cars", "swinging", "simulator operating",
	"rotating", "ferris wheel rotating", "space rings operating", "top spin operating",
	"haunted house operating", "crooked house operating", "waiting for cable lift",
	"travelling cable lift", "showing film", "doing circus show",
}

func (s Status) String() string {
	if s < StatusCount {
		return statusName[s]
	}
	return "invalid"
}

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	return s < StatusCount
}

// Flag holds transient per-vehicle update flags
type Flag uint16

const (
	FlagOnLiftHill Flag = 1 << iota
	// FlagCollisionDisabled marks a head that must not check for the train ahead
	FlagCollisionDisabled
	FlagWaitOnAdjacent
	FlagTesting
	FlagReadyToDepart
	// FlagReversed flips the powered direction of shuttles
	FlagReversed
	// FlagZeroVelocity freezes the train during a safety cut-out
	FlagZeroVelocity
	FlagBrokenCar
	FlagBrokenTrain
	// FlagOnBrakeForDrop holds the head on a brake-for-drop piece
	FlagOnBrakeForDrop
	// FlagStoppedOnLift is set when a block stops a train mid-lift
	FlagStoppedOnLift
	// FlagSpinLocked stops a spinning car from rotating
	FlagSpinLocked
	// FlagUseAlternateSprites is toggled by heartline transfers and rotation control
	FlagUseAlternateSprites
	FlagCrashed
	// FlagRelaunch sends an arriving train round again instead of stopping
	FlagRelaunch
)
