package physics

import (
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/vmath"
)

// ExchangeMode defines how two touching cars share velocity
type ExchangeMode uint8

const (
	// ExchangeHalf swaps velocities and halves both
	ExchangeHalf ExchangeMode = iota
	// LoseQuarter leaves the other car alone and takes a quarter off the striker
	LoseQuarter
)

// CollisionProfile defines inter-car contact parameters
// Profiles are pre-defined as package variables
type CollisionProfile struct {
	Mode ExchangeMode
	// CrashDelta is the closing speed above which contact is fatal, 0 never crashes
	CrashDelta int32
}

// ApplyCollision resolves contact between a striking car and the car it ran into
// Returns true when the closing speed exceeds the profile's crash threshold
func ApplyCollision(striker, struck *int32, profile *CollisionProfile) bool {
	crash := profile.CrashDelta > 0 && vmath.Abs(*striker-*struck) > profile.CrashDelta

	switch profile.Mode {
	case ExchangeHalf:
		*striker, *struck = *struck>>1, *striker>>1
	case LoseQuarter:
		*striker -= *striker >> 2
	}
	return crash
}

// spacingUnits reduces a car spacing in step units to the collision scale
func spacingUnits(spacing int32) int32 {
	return spacing >> 10
}

// ContactRadius returns the distance in world units below which two trains touch
func ContactRadius(spacingA, spacingB int32) int32 {
	sum := spacingUnits(spacingA) + spacingUnits(spacingB)
	if sum > parameter.CollisionSpacingCap {
		sum = parameter.CollisionSpacingCap
	}
	return ((sum >> 1) * 30) >> 8
}

// FacingEachOther reports whether two 32-step headings are within the contact cone
func FacingEachOther(a, b uint8) bool {
	return (int32(a)-int32(b)+7)&31 < 15
}

// ElasticExchange resolves a bumper-car bounce between two cars moving along their headings
// The signed sum of velocities is conserved, each car ends with the other's share
func ElasticExchange(a, b *int32) {
	*a, *b = *b, *a
}

// BumperRadius returns the Chebyshev contact distance of two bumper cars
func BumperRadius(spacingA, spacingB int32) int32 {
	return (((spacingUnits(spacingA) + spacingUnits(spacingB)) / 2) * parameter.BumperCollisionScale) >> 8
}

// WallMargin returns how close a bumper car centre may come to the ride boundary
func WallMargin(spacing int32) int32 {
	return (spacingUnits(spacing) * parameter.BumperCollisionScale) >> 9
}
