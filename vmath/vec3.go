package vmath

// Vec3 is an integer world-space vector
// Positions are raw world units, crash ballistics store Q16.16 velocities in the same shape
type Vec3 struct {
	X, Y, Z int32
}

func V3Add(a, b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func V3Sub(a, b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// V3Shr arithmetic-shifts every component, converting Q16.16 towards world units
func V3Shr(v Vec3, n uint) Vec3 {
	return Vec3{v.X >> n, v.Y >> n, v.Z >> n}
}
