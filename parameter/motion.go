package parameter

// Way-point walk
const (
	// WayPointBudget is the step remainder at which a car advances one way-point
	WayPointBudget = 13962
	// DistanceShift and DistanceScale convert velocity into step units per tick: (v >> 10) * 42
	DistanceShift = 10
	DistanceScale = 42
)

// Axis-change mask bits used to index StepCost
const (
	StepAxisX    = 1 << 0
	StepAxisY    = 1 << 1
	StepAxisZ    = 1 << 2
	StepRotation = 1 << 3
)

// StepCost is the remainder consumed by one way-point move, indexed by the mask
// of axes whose coordinate changed. Bit 3 is set while a turntable rotates.
// Entries never exceed WayPointBudget-1 so a single step cannot overdraw.
var StepCost = [16]int32{
	0, 8716, 8716, 12327, 6554, 10905, 10905, 13961,
	3265, 9178, 9178, 12466, 7314, 11562, 11562, 13961,
}

// PitchAcceleration is the calibrated per-tick acceleration contribution of a
// way-point, indexed by pitch class (see track.Pitch). Climbing classes are
// negative and their descending twins mirror them.
var PitchAcceleration = [24]int32{
	0,
	-124548, -242590, -328125, -368700,
	124548, 242590, 328125, 368700,
	-399457, -405565, -399457, -368700, -328125, -242590, -124548,
	0,
	399457, 405565, 399457, 368700, 328125, 242590, 124548,
}

// Inter-car collision
const (
	// CollisionVelocityDelta is the closing speed above which contact is a crash
	CollisionVelocityDelta = 0xE0000
	// CollisionSpacingCap bounds the summed spacing of two cars before scaling
	CollisionSpacingCap = 560
	// CollisionReach is the Manhattan window for any contact test
	CollisionReach = 0xFFFF
)

// Block sections
const (
	BlockBrakeCreepVelocity = 0x20364
	BlockStopVelocity       = 0x20000
)

// Special track elements
const (
	HeartlineFlipProgress  = 80
	HeartlineFastVelocity  = 0x40000
	HeartlineSlowVelocity  = 0x20000
	HeartlineSlowAccel     = 0x50000
	HeartlineBrakeMultiple = -8

	BrakesForwardMultiple  = -16
	BrakesBackwardMultiple = -4
	BrakesSoundInterval    = 16

	BrakeForDropBrakeProgress = 8
	BrakeForDropHoldProgress  = 24
	BrakeForDropHoldTicks     = 90
	BrakeForDropReleaseTicks  = -70

	LogFlumeSkipProgress = 16
	LogFlumeSkipSteps    = 17
	LogFlumeSkipVelocity = 0x40000
	LogFlumeSwapProgress = 32

	SplashProgress         = 48
	SplashVelocity         = 0x20364
	SplashDropProgress     = 12
	CoveredSplashProgress  = 4
	SplashDragStart        = 48
	SplashDragEnd          = 128
	CoveredDragVelocity    = 0x20000
	WaterDragShift         = 6
	TowerBaseStationLimit  = 3
	EndStationForward      = 17
	EndStationForwardLift  = 6
	EndStationBackwardStop = 22
)

// Train aggregate
const (
	AccelAverageMul   = 21
	AccelAverageShift = 9
	AccelRoundBias    = 511
	LinearDragShift   = 12
	QuadDragShift     = 8
	QuadDragDiv       = 4

	PoweredTargetShift  = 14
	PoweredAssistLimit  = 0x10000
	PoweredSpinClamp    = 512
	PoweredNegGainShift = 4

	StandstillVelocity = 0x8000
	StandstillFloor    = -500
	StandstillNudge    = 400
)

// Spinning
const (
	SpinMomentumClamp = 0x600
	SpinAngleShift    = 8
)

// Swinging
const (
	SwingMomentumClamp = 0x2000
	SwingPositionClamp = 0x6000
	SwingSpringShift   = 4
	SwingDampShift     = 5
	SwingLateralScale  = 48
)

// G-force
const (
	// GForceVerticalBase is 1 g in Q16.16 before pitch/bank projection and output scaling
	GForceVerticalBase = 0xA0000
	GForceVelocityMul  = 98
	GForceOutputMul    = 10
	GForceOutputShift  = 16
)

// Up-stop derailment thresholds, 100 = 1 g
const (
	UpStopLateralLimit     = 150
	UpStopClimbVerticalMin = -40
	UpStopVerticalMin      = -80
	BobsleighClimbVertical = -45
	BobsleighVerticalMin   = -80
)

// Bumper cars
const (
	BumperJitterChance   = 2849
	BumperBounceVelocity = 131072
	BumperWallTurn       = 6
	BumperCarTurn        = 1
	BumperQuadShift      = 5
	BumperCollisionScale = 30
)
