package vmath

import "math"

// Q16.16 fixed point constants
// Velocities, accelerations and sub-unit positions are int32 Q16.16
const (
	Shift   = 16
	Scale   = 1 << Shift
	Mask    = Scale - 1
	Half    = 1 << (Shift - 1)
	ScaleF  = float64(Scale)
	LUTSize = 1024
	LUTMask = LUTSize - 1
)

// --- Arithmetic ---

func FromInt(i int) int32       { return int32(i) << Shift }
func ToInt(f int32) int         { return int(f >> Shift) }
func FromFloat(f float64) int32 { return int32(f * ScaleF) }
func ToFloat(f int32) float64   { return float64(f) / ScaleF }

// Mul multiplies two Q16.16 values with a 64-bit intermediate, saturating on overflow
func Mul(a, b int32) int32 {
	return Saturate((int64(a) * int64(b)) >> Shift)
}

// Div divides two Q16.16 values, saturating on overflow. Division by zero returns 0
func Div(a, b int32) int32 {
	if b == 0 {
		return 0
	}
	return Saturate((int64(a) << Shift) / int64(b))
}

// Saturate clamps a 64-bit intermediate into int32 range
func Saturate(x int64) int32 {
	if x > math.MaxInt32 {
		return math.MaxInt32
	}
	if x < math.MinInt32 {
		return math.MinInt32
	}
	return int32(x)
}

// Abs returns absolute value
func Abs(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

// Sign returns -1, 0, or 1
func Sign(x int32) int32 {
	if x < 0 {
		return -1
	}
	if x > 0 {
		return 1
	}
	return 0
}

// Clamp limits x to [lo, hi]
func Clamp(x, lo, hi int32) int32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// ShrTowardZero shifts right rounding toward zero instead of toward negative infinity
func ShrTowardZero(x int32, n uint) int32 {
	if x < 0 {
		return -((-x) >> n)
	}
	return x >> n
}

// --- Trigonometry ---

// Sin returns Q16.16 sine of an angle where 0..Scale maps to 0..2pi
func Sin(angle int32) int32 {
	return SinLUT[(angle>>(Shift-10))&LUTMask]
}

// Cos returns Q16.16 cosine of an angle where 0..Scale maps to 0..2pi
func Cos(angle int32) int32 {
	return CosLUT[(angle>>(Shift-10))&LUTMask]
}

// Sqrt returns the integer square root of a non-negative 64-bit value
func Sqrt(x int64) int64 {
	if x <= 0 {
		return 0
	}
	r := int64(math.Sqrt(float64(x)))
	// Float rounding correction
	for r*r > x {
		r--
	}
	for (r+1)*(r+1) <= x {
		r++
	}
	return r
}

// --- Randomness ---

// FastRand is the xorshift64 stream shared by one simulation
type FastRand struct {
	state uint64
}

func NewFastRand(seed uint64) *FastRand {
	if seed == 0 {
		seed = 1
	}
	return &FastRand{state: seed}
}

func (r *FastRand) Next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// Uint16 returns the low 16 bits of the next value
func (r *FastRand) Uint16() uint16 {
	return uint16(r.Next() >> 24)
}

func (r *FastRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n))
}

// Chance returns true with probability threshold/65536
func (r *FastRand) Chance(threshold uint16) bool {
	return r.Uint16() <= threshold
}
