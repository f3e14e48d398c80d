package parameter

// Crash ballistics
const (
	CrashVelocityShift  = 10
	CrashJitterMask     = 0xF
	CrashJitterBias     = 8
	CrashGravity        = -20
	CrashPositionShift  = 8
	CrashWaterWindow    = -20
	CrashGroundWindow   = -20
	CrashFloorZ         = 16
	CrashWorldLimit     = 0x1FFF
	CrashSmokeTicks     = 96
	CrashSmokeChance    = 0x1555
	CrashTumbleStep     = 7281
	CrashTumbleFrames   = 8
	CrashParticleCount  = 10
	CrashSpinMask       = 0x7
	CrashHorizontalSpan = 15
	CrashVerticalSpan   = 23
)
