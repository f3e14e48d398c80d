package track

// Terrain reports the ground and water surface under a ground-plane point
type Terrain interface {
	Ground(x, y int32) int32
	// Water returns the surface height and whether the point is over water
	Water(x, y int32) (int32, bool)
}

// FlatTerrain is a level park, optionally flooded to a fixed depth
type FlatTerrain struct {
	GroundZ int32
	WaterZ  int32
	// Lake limits the water to a rectangle, empty floods nothing
	Lake [4]int32
}

func (f FlatTerrain) Ground(x, y int32) int32 {
	return f.GroundZ
}

func (f FlatTerrain) Water(x, y int32) (int32, bool) {
	l := f.Lake
	if l[2] <= l[0] || l[3] <= l[1] {
		return 0, false
	}
	if x < l[0] || y < l[1] || x > l[2] || y > l[3] {
		return 0, false
	}
	return f.WaterZ, true
}
