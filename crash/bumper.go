package crash

import (
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/physics"
	"github.com/lixenwraith/coaster/vehicle"
	"github.com/lixenwraith/coaster/vmath"
)

// Bounce resolves a hit between car, travelling in heading, and other
// Velocities are exchanged and both cars veer away on opposite sides
func Bounce(car, other *vehicle.Vehicle, heading uint8, rng *vmath.FastRand) {
	old := vmath.Abs(car.Velocity)
	physics.ElasticExchange(&car.Velocity, &other.Velocity)

	turn := int8(parameter.BumperCarTurn)
	if rng.Next()&1 == 0 {
		turn = -turn
	}
	car.Turn, other.Turn = turn, -turn

	if old >= parameter.BumperBounceVelocity {
		car.Bounce = (heading^16)&0x1E | 1
		other.Bounce = heading&0x1E | 1
	}
}

// HitWall stops car against the arena edge and swings it round
func HitWall(car *vehicle.Vehicle, heading uint8, rng *vmath.FastRand) {
	old := vmath.Abs(car.Velocity)
	car.Velocity = 0

	turn := int8(parameter.BumperWallTurn)
	if rng.Next()&1 == 0 {
		turn = -turn
	}
	car.Turn = turn

	if old >= parameter.BumperBounceVelocity {
		car.Bounce = (heading^16)&0x1E | 1
	}
}
