package vmath

import (
	"math"
)

func init() {
	// Sin/Cos LUT calculation
	for i := 0; i < LUTSize; i++ {
		rad := 2.0 * math.Pi * float64(i) / LUTSize
		SinLUT[i] = int32(math.Round(math.Sin(rad) * ScaleF))
		CosLUT[i] = int32(math.Round(math.Cos(rad) * ScaleF))
	}

	// Atan2 LUT: ratio [0,1] -> angle [0, π/4] in rotation units
	for i := 0; i < LUTSize; i++ {
		ratio := float64(i) / float64(LUTMask)
		angle := math.Atan(ratio)
		atan2LUT[i] = int32(angle / (2 * math.Pi) * ScaleF)
	}
}

// SinLUT and CosLUT scaled by Q16.16
var (
	SinLUT [LUTSize]int32
	CosLUT [LUTSize]int32

	// atan2LUT maps ratio [0,1] to angle [0, Scale/8] (one octant)
	atan2LUT [LUTSize]int32
)

// Atan2 returns angle in [0, Scale) for (dy, dx) using LUT
// Scale = full rotation (2π). Zero vector returns 0
func Atan2(dy, dx int32) int32 {
	if dx == 0 && dy == 0 {
		return 0
	}

	adx, ady := int64(dx), int64(dy)
	if adx < 0 {
		adx = -adx
	}
	if ady < 0 {
		ady = -ady
	}

	var baseAngle int32
	if adx >= ady {
		idx := (ady * LUTMask) / adx
		if idx > LUTMask {
			idx = LUTMask
		}
		baseAngle = atan2LUT[idx]
	} else {
		// angle = π/2 - atan(dx/dy)
		idx := (adx * LUTMask) / ady
		if idx > LUTMask {
			idx = LUTMask
		}
		baseAngle = Scale/4 - atan2LUT[idx]
	}

	if dx > 0 {
		if dy >= 0 {
			return baseAngle
		}
		return Scale - baseAngle
	} else if dx < 0 {
		if dy >= 0 {
			return Scale/2 - baseAngle
		}
		return Scale/2 + baseAngle
	}
	if dy > 0 {
		return Scale / 4
	}
	return 3 * Scale / 4
}

// DirectionAngle converts one of 32 sprite directions into rotation units
func DirectionAngle(direction uint8) int32 {
	return int32(direction&31) * (Scale / 32)
}
