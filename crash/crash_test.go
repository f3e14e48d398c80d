package crash

import (
	"testing"

	"github.com/lixenwraith/coaster/event"
	"github.com/lixenwraith/coaster/track"
	"github.com/lixenwraith/coaster/vehicle"
	"github.com/lixenwraith/coaster/vmath"
)

type recordSink struct {
	event.Discard
	sounds    []event.Sound
	effects   []event.Effect
	particles int
}

func (s *recordSink) PlaySound(snd event.Sound, _ vmath.Vec3) { s.sounds = append(s.sounds, snd) }
func (s *recordSink) Spawn(e event.Effect, _ vmath.Vec3)      { s.effects = append(s.effects, e) }
func (s *recordSink) Debris(p *event.DebrisPayload) {
	s.particles += len(p.Particles)
	event.ReleaseDebris(p)
}

func (s *recordSink) count(e event.Effect) int {
	n := 0
	for _, x := range s.effects {
		if x == e {
			n++
		}
	}
	return n
}

func spawnCar(t *testing.T, p *vehicle.Pool, types *vehicle.Registry, name string) *vehicle.Vehicle {
	t.Helper()
	id, err := types.Lookup(name)
	if err != nil {
		t.Fatalf("Lookup(%q): %v", name, err)
	}
	v, err := p.Spawn(1, id, 1)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	return v
}

// TestBounceConservesVelocity verifies the signed velocity sum survives a bounce and the cars veer apart
func TestBounceConservesVelocity(t *testing.T) {
	p := vehicle.NewPool(4)
	types := vehicle.DefaultRegistry()
	a := spawnCar(t, p, types, vehicle.TypeNameBumperCar)
	b := spawnCar(t, p, types, vehicle.TypeNameBumperCar)
	a.Velocity, b.Velocity = 0x30000, -0x10000
	before := a.Velocity + b.Velocity

	Bounce(a, b, 8, vmath.NewFastRand(7))

	if got := a.Velocity + b.Velocity; got != before {
		t.Errorf("velocity sum = %#x, want %#x", got, before)
	}
	if a.Turn == 0 || a.Turn != -b.Turn {
		t.Errorf("turns = %d, %d, want opposite non-zero", a.Turn, b.Turn)
	}
	if a.Bounce&0x1E != 24 || b.Bounce&0x1E != 8 {
		t.Errorf("bounce directions = %d, %d, want 24, 8", a.Bounce&0x1E, b.Bounce&0x1E)
	}
}

// TestHitWallStops verifies a wall hit zeroes velocity and queues a wide turn
func TestHitWallStops(t *testing.T) {
	p := vehicle.NewPool(2)
	types := vehicle.DefaultRegistry()
	a := spawnCar(t, p, types, vehicle.TypeNameBumperCar)
	a.Velocity = 0x8000

	HitWall(a, 0, vmath.NewFastRand(3))

	if a.Velocity != 0 {
		t.Errorf("velocity = %#x, want 0", a.Velocity)
	}
	if a.Turn != 6 && a.Turn != -6 {
		t.Errorf("turn = %d, want ±6", a.Turn)
	}
	if a.Bounce != 0 {
		t.Errorf("slow hit recorded bounce %d", a.Bounce)
	}
}

// TestSetupCrashSplitsChain verifies every car leaves as its own chain in the crashing state
func TestSetupCrashSplitsChain(t *testing.T) {
	p := vehicle.NewPool(8)
	types := vehicle.DefaultRegistry()
	var ids []vehicle.ID
	for i := 0; i < 3; i++ {
		v := spawnCar(t, p, types, vehicle.TypeNameCoasterCar)
		v.Segment = 4
		if i > 0 {
			if err := p.Link(ids[i-1], v.ID); err != nil {
				t.Fatalf("Link: %v", err)
			}
		}
		ids = append(ids, v.ID)
	}

	r := NewResolver(p, nil, vmath.NewFastRand(11), nil)
	cars := r.SetupCrash(p.Get(ids[0]), 0x80000, nil)
	if len(cars) != 3 {
		t.Fatalf("thrown %d cars, want 3", len(cars))
	}
	for _, id := range ids {
		v := p.Get(id)
		if err := p.CheckChain(id); err != nil {
			t.Errorf("car %d: %v", id, err)
		}
		if v.Next != vehicle.NoVehicle {
			t.Errorf("car %d still linked to %d", id, v.Next)
		}
		if v.Status != vehicle.StatusCrashing || v.Segment != track.NoSegment {
			t.Errorf("car %d status %v segment %d", id, v.Status, v.Segment)
		}
		if v.CrashVelocity.X <= 0 {
			t.Errorf("car %d thrown x velocity %d, want forward", id, v.CrashVelocity.X)
		}
	}
}

// TestCrashLanding verifies ground and water landings settle the wreck with the right effects
func TestCrashLanding(t *testing.T) {
	lake := track.FlatTerrain{WaterZ: 50, Lake: [4]int32{0, 0, 10, 10}}
	tests := []struct {
		name      string
		at        vmath.Vec3
		want      Outcome
		explosion int
		splash    int
	}{
		{"ground", vmath.Vec3{X: 40, Y: 40, Z: 100}, LandedGround, 1, 0},
		{"water", vmath.Vec3{X: 5, Y: 5, Z: 100}, LandedWater, 0, 1},
	}
	for _, tt := range tests {
		p := vehicle.NewPool(2)
		sink := &recordSink{}
		r := NewResolver(p, sink, vmath.NewFastRand(5), lake)
		car := spawnCar(t, p, vehicle.DefaultRegistry(), vehicle.TypeNameCoasterCar)
		car.Pos = tt.at
		car.SetStatus(vehicle.StatusCrashing, 0)

		got := Airborne
		for i := 0; i < 200 && got == Airborne; i++ {
			got = r.Update(car)
		}
		if got != tt.want {
			t.Errorf("%s: outcome = %v, want %v", tt.name, got, tt.want)
		}
		if car.Status != vehicle.StatusCrashed || car.SubState != 2 {
			t.Errorf("%s: status %v/%d, want crashed/2", tt.name, car.Status, car.SubState)
		}
		if n := sink.count(event.EffectExplosion); n != tt.explosion {
			t.Errorf("%s: explosions = %d, want %d", tt.name, n, tt.explosion)
		}
		if n := sink.count(event.EffectSplash); n != tt.splash {
			t.Errorf("%s: splashes = %d, want %d", tt.name, n, tt.splash)
		}
		if tt.explosion > 0 && sink.particles != 10 {
			t.Errorf("%s: particles = %d, want 10", tt.name, sink.particles)
		}
	}
}

// TestTumbleSmokeStops verifies a settled wreck only smokes for a bounded time
func TestTumbleSmokeStops(t *testing.T) {
	p := vehicle.NewPool(1)
	sink := &recordSink{}
	r := NewResolver(p, sink, vmath.NewFastRand(9), nil)
	car := spawnCar(t, p, vehicle.DefaultRegistry(), vehicle.TypeNameCoasterCar)
	car.SetStatus(vehicle.StatusCrashed, 2)

	for i := 0; i < 300; i++ {
		if got := r.Update(car); got != Tumbling {
			t.Fatalf("tick %d: outcome %v, want tumbling", i, got)
		}
	}
	if car.Timer != 96 {
		t.Errorf("timer = %d, want 96", car.Timer)
	}
	smoke := sink.count(event.EffectSmoke)
	for i := 0; i < 100; i++ {
		r.Update(car)
	}
	if sink.count(event.EffectSmoke) != smoke {
		t.Errorf("wreck kept smoking after the smoke period")
	}
}
