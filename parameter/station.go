package parameter

// Station approach and departure
const (
	CreepVelocity        = 131940
	CreepAccel           = 3298
	ArriveFastVelocity   = 1572864
	ArriveSettleVelocity = 98955
	LiftHillSpeedScale   = 31079
	LiftHillSpeedMin     = 5
	LiftHillSpeedMax     = 26
	LiftHillAccel        = 15539
	LaunchAccelShift     = 12
	DownwardLaunchSpeed  = 14
	RaceStationHoldTicks = 40
	ShortArriveHoldTicks = 40
)

// Restraints
const (
	RestraintStep   = 20
	RestraintClosed = 0
	RestraintOpen   = 255
)

// Boarding timers
const (
	// TicksPerWaitUnit converts configured wait seconds to ticks
	TicksPerWaitUnit = 32
	// BoardingGraceTicks keeps a fresh train at the platform before any load rule applies
	BoardingGraceTicks = 20
	DepartMinimumSlot  = 3
	DepartMaximumSlot  = 127
	// DepartTimerMask and BrokenDepartTimerMask gate the station depart countdown
	DepartTimerMask       = 31
	BrokenDepartTimerMask = 7
	WaitTicksSaturated    = 0xFFFF
)

// Missing train detection
const (
	MissingTrainTicks = 9600
	MissingBoatTicks  = 15360
)

// Boat hire
const (
	// BoatHireTicks is the length of a hire before the boat is returned to the dock
	BoatHireTicks          = 2400
	BoatHireLaunchVelocity = 27924
)

// Bumper and boat arenas
const (
	// ArenaTiles is the half-width in tiles of an arena derived from the station
	ArenaTiles = 2
)

// Tower rides
const (
	RotatingLiftHoldTicks = 150
	TowerDescentVelocity  = -131940
)

// Cable lift
const (
	CableLiftMaxVelocity    = 439800
	CableLiftReturnAccel    = -2932
	CableLiftAttachVelocity = -58640
	CableLiftAttachAccel    = -14660
	CableLiftAttachDistance = 2
	CableLiftTrainAccel     = 4398
	CableLiftDepartTicks    = 16
	CableLiftArriveTicks    = 64
	CableLiftStartProgress  = 164
	CableLiftEndProgress    = 160
	CableLiftSpeed          = 20
	CableLiftPoweredAccel   = 80
)

// Flat ride timelines
const (
	SwingRampSwings          = 3
	EnterpriseExtraRotations = 9
	FerrisStartTimer         = 0x808
	FerrisStepTicks          = 0x100
	FerrisWheelPositions     = 0x80
	FerrisBrakeStep          = -8
	HauntedHouseScareA       = 45
	HauntedHouseDoorA        = 75
	HauntedHouseScreamA      = 400
	HauntedHouseScareB       = 745
	HauntedHouseDoorB        = 775
	HauntedHouseScreamB      = 1100
	HauntedHouseLength       = 1200
	HauntedHouseDoorFrames   = 19
	CrookedHouseLength       = 600
	CircusShowLength         = 5000
)

// FilmLength holds the running time of each film variant
var FilmLength = [3]uint16{5000, 6000, 7000}

// Ride testing
const (
	TestAverageSpeedInterval = 32
	TestAverageSpeedMin      = 0x8000
)
