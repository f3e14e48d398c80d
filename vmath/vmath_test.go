package vmath

import (
	"math"
	"testing"
)

// TestMulDivRoundTrip verifies Q16.16 multiply and divide agree on simple ratios
func TestMulDivRoundTrip(t *testing.T) {
	cases := []struct {
		a, b int32
		want int32
	}{
		{FromInt(2), FromInt(3), FromInt(6)},
		{FromInt(-2), FromInt(3), FromInt(-6)},
		{Half, FromInt(4), FromInt(2)},
		{0, FromInt(7), 0},
	}
	for _, tc := range cases {
		if got := Mul(tc.a, tc.b); got != tc.want {
			t.Errorf("Mul(%d, %d) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
		if tc.b != 0 && tc.want != 0 {
			if got := Div(tc.want, tc.b); got != tc.a {
				t.Errorf("Div(%d, %d) = %d, want %d", tc.want, tc.b, got, tc.a)
			}
		}
	}
}

// TestSaturation verifies overflow clamps instead of wrapping
func TestSaturation(t *testing.T) {
	if got := Mul(math.MaxInt32, FromInt(4)); got != math.MaxInt32 {
		t.Errorf("Mul overflow = %d, want MaxInt32", got)
	}
	if got := Div(FromInt(-30000), 1); got != math.MinInt32 {
		t.Errorf("Div underflow = %d, want MinInt32", got)
	}
	if got := Div(FromInt(1), 0); got != 0 {
		t.Errorf("Div by zero = %d, want 0", got)
	}
}

// TestShrTowardZero verifies negative values round toward zero
func TestShrTowardZero(t *testing.T) {
	if got := ShrTowardZero(-5, 1); got != -2 {
		t.Errorf("ShrTowardZero(-5,1) = %d, want -2", got)
	}
	if got := ShrTowardZero(5, 1); got != 2 {
		t.Errorf("ShrTowardZero(5,1) = %d, want 2", got)
	}
}

// TestTrigLUT verifies cardinal angles of the sine/cosine tables
func TestTrigLUT(t *testing.T) {
	if Cos(0) != Scale {
		t.Errorf("Cos(0) = %d, want %d", Cos(0), Scale)
	}
	if Sin(Scale/4) != Scale {
		t.Errorf("Sin(π/2) = %d, want %d", Sin(Scale/4), Scale)
	}
	if got := Cos(Scale / 2); got != -Scale {
		t.Errorf("Cos(π) = %d, want %d", got, -Scale)
	}
}

// TestAtan2Quadrants verifies axis-aligned directions
func TestAtan2Quadrants(t *testing.T) {
	cases := []struct {
		dy, dx int32
		want   int32
	}{
		{0, 10, 0},
		{10, 0, Scale / 4},
		{0, -10, Scale / 2},
		{-10, 0, 3 * Scale / 4},
	}
	for _, tc := range cases {
		if got := Atan2(tc.dy, tc.dx); got != tc.want {
			t.Errorf("Atan2(%d,%d) = %d, want %d", tc.dy, tc.dx, got, tc.want)
		}
	}
}

// TestSqrt verifies integer square root floors correctly
func TestSqrt(t *testing.T) {
	for _, tc := range []struct{ in, want int64 }{{0, 0}, {1, 1}, {15, 3}, {16, 4}, {1 << 40, 1 << 20}} {
		if got := Sqrt(tc.in); got != tc.want {
			t.Errorf("Sqrt(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

// TestFastRandDeterminism verifies two streams with equal seeds agree
func TestFastRandDeterminism(t *testing.T) {
	a, b := NewFastRand(42), NewFastRand(42)
	for i := 0; i < 100; i++ {
		if a.Next() != b.Next() {
			t.Fatalf("streams diverged at %d", i)
		}
	}
	if NewFastRand(0).Next() == 0 {
		t.Error("zero seed must not produce a stuck stream")
	}
}
