// Package crash throws derailed and colliding trains off the track and settles the wreckage
package crash

import (
	"github.com/lixenwraith/coaster/event"
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/track"
	"github.com/lixenwraith/coaster/vehicle"
	"github.com/lixenwraith/coaster/vmath"
)

// Outcome reports what one crash update did to a car
type Outcome uint8

const (
	Airborne Outcome = iota
	Tumbling
	LandedGround
	LandedWater
	LeftWorld
)

var outcomeName = [...]string{"airborne", "tumbling", "landed on ground", "landed in water", "left world"}

func (o Outcome) String() string {
	if int(o) < len(outcomeName) {
		return outcomeName[o]
	}
	return "unknown"
}

// Landed reports outcomes that end the ballistic flight this tick
func (o Outcome) Landed() bool {
	return o == LandedGround || o == LandedWater || o == LeftWorld
}

// Resolver owns the services every crash step writes into
type Resolver struct {
	Pool    *vehicle.Pool
	Sink    event.Sink
	Rand    *vmath.FastRand
	Terrain track.Terrain
}

// NewResolver creates a resolver, nil sink and terrain default to a discarding sink and flat ground
func NewResolver(pool *vehicle.Pool, sink event.Sink, rng *vmath.FastRand, terrain track.Terrain) *Resolver {
	if sink == nil {
		sink = event.Discard{}
	}
	if rng == nil {
		rng = vmath.NewFastRand(1)
	}
	if terrain == nil {
		terrain = track.FlatTerrain{}
	}
	return &Resolver{Pool: pool, Sink: sink, Rand: rng, Terrain: terrain}
}

// SetupCrash throws every car of the train at head off the track with velocity v
// Each car becomes its own single-car chain. Returns the ids of the thrown cars.
func (r *Resolver) SetupCrash(head *vehicle.Vehicle, v int32, buf []vehicle.ID) []vehicle.ID {
	buf = r.throw(head, v, buf)
	for _, id := range buf {
		if car := r.Pool.Get(id); car != nil {
			car.SetStatus(vehicle.StatusCrashing, 0)
		}
	}
	return buf
}

// SetupCollision wrecks every car of the train at once and throws the wreckage clear
func (r *Resolver) SetupCollision(head *vehicle.Vehicle, v int32, buf []vehicle.ID) []vehicle.ID {
	buf = r.throw(head, v, buf)
	for _, id := range buf {
		if car := r.Pool.Get(id); car != nil {
			r.wreck(car)
			car.SetStatus(vehicle.StatusCrashed, 0)
		}
	}
	return buf
}

// throw gives each car a ballistic velocity along its heading and attitude, then splits the chain
func (r *Resolver) throw(head *vehicle.Vehicle, v int32, buf []vehicle.ID) []vehicle.ID {
	v = vmath.Clamp(v, -parameter.CollisionVelocityDelta, parameter.CollisionVelocityDelta)
	speed := v >> parameter.CrashVelocityShift

	buf = r.Pool.Cars(head.ID, buf[:0])
	for _, id := range buf {
		car := r.Pool.Get(id)
		if car == nil {
			continue
		}
		pitch := track.TenthsToAngle(car.Pitch.Angle())
		heading := vmath.DirectionAngle(car.Direction)
		h := (speed * vmath.Cos(pitch)) >> vmath.Shift

		car.CrashVelocity = vmath.Vec3{
			X: (h*vmath.Cos(heading))>>vmath.Shift + r.jitter(),
			Y: (h*vmath.Sin(heading))>>vmath.Shift + r.jitter(),
			Z: (speed*vmath.Sin(pitch))>>vmath.Shift + r.jitter(),
		}
		car.CrashPos = vmath.Vec3{}
		car.Frame = uint8(r.Rand.Next() & parameter.CrashSpinMask)
		car.Timer = 0
		car.Segment = track.NoSegment
		car.Stop()
	}
	for i := 1; i < len(buf); i++ {
		r.Pool.Split(buf[i])
	}
	return buf
}

func (r *Resolver) jitter() int32 {
	return int32(r.Rand.Next()&parameter.CrashJitterMask) - parameter.CrashJitterBias
}

// Update advances one crashing or crashed car by a tick
func (r *Resolver) Update(car *vehicle.Vehicle) Outcome {
	if car.SubState > 1 {
		r.tumble(car)
		return Tumbling
	}

	car.CrashVelocity.Z += parameter.CrashGravity
	acc := vmath.V3Add(car.CrashPos, car.CrashVelocity)
	step := vmath.V3Shr(acc, parameter.CrashPositionShift)
	car.CrashPos = vmath.V3Sub(acc, vmath.Vec3{
		X: step.X << parameter.CrashPositionShift,
		Y: step.Y << parameter.CrashPositionShift,
		Z: step.Z << parameter.CrashPositionShift,
	})
	car.Pos = vmath.V3Add(car.Pos, step)
	r.Sink.Invalidate(uint16(car.ID))

	p := car.Pos
	if vmath.Abs(p.X) > parameter.CrashWorldLimit || vmath.Abs(p.Y) > parameter.CrashWorldLimit {
		r.settle(car)
		return LeftWorld
	}

	if level, ok := r.Terrain.Water(p.X, p.Y); ok {
		if dz := p.Z - level; dz <= 0 && dz >= parameter.CrashWaterWindow {
			r.Sink.PlaySound(event.SoundWaterSplash, p)
			r.Sink.Spawn(event.EffectSplash, p)
			r.settle(car)
			return LandedWater
		}
	}

	if dz := p.Z - r.Terrain.Ground(p.X, p.Y); (dz <= 0 && dz >= parameter.CrashGroundWindow) || p.Z < parameter.CrashFloorZ {
		if car.Status == vehicle.StatusCrashing {
			r.wreck(car)
		}
		r.settle(car)
		return LandedGround
	}
	return Airborne
}

// settle brings a car to rest as a wreck
func (r *Resolver) settle(car *vehicle.Vehicle) {
	car.SetStatus(vehicle.StatusCrashed, 2)
	car.CrashVelocity = vmath.Vec3{}
	car.CrashPos = vmath.Vec3{}
	car.Timer = 0
	car.Stop()
}

// tumble animates a settled wreck and lets it smoke for a while
func (r *Resolver) tumble(car *vehicle.Vehicle) {
	if car.Timer < parameter.CrashSmokeTicks {
		car.Timer++
		if car.Timer%8 == 0 && r.Rand.Chance(parameter.CrashSmokeChance) {
			r.Sink.Spawn(event.EffectSmoke, car.Pos)
		}
	}
	prev := car.SpinAngle
	car.SpinAngle += parameter.CrashTumbleStep
	if car.SpinAngle < prev {
		car.Frame = (car.Frame + 1) % parameter.CrashTumbleFrames
		r.Sink.Invalidate(uint16(car.ID))
	}
}

// wreck plays the crash sound and scatters debris around a car
func (r *Resolver) wreck(car *vehicle.Vehicle) {
	r.Sink.PlaySound(event.SoundCrash, car.Pos)
	r.Sink.Spawn(event.EffectExplosion, car.Pos)

	d := event.AcquireDebris(car.Pos)
	for i := 0; i < parameter.CrashParticleCount; i++ {
		d.Particles = append(d.Particles, vmath.Vec3{
			X: car.Pos.X + r.spread(parameter.CrashHorizontalSpan),
			Y: car.Pos.Y + r.spread(parameter.CrashHorizontalSpan),
			Z: car.Pos.Z + r.spread(parameter.CrashVerticalSpan),
		})
	}
	r.Sink.Debris(d)
}

func (r *Resolver) spread(span int32) int32 {
	return int32(r.Rand.Intn(int(2*span+1))) - span
}
