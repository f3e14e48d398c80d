package motion

import (
	"testing"

	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/ride"
	"github.com/lixenwraith/coaster/track"
	"github.com/lixenwraith/coaster/vehicle"
	"github.com/lixenwraith/coaster/vmath"
)

type rig struct {
	pool  *vehicle.Pool
	types *vehicle.Registry
	ride  *ride.Ride
	ctx   *Context
}

func newRig(t *testing.T, kind *ride.Kind, mode ride.Mode, l *track.Layout) *rig {
	t.Helper()
	r := &rig{
		pool:  vehicle.NewPool(16),
		types: vehicle.DefaultRegistry(),
		ride:  ride.New(1, "test", kind, ride.Config{Mode: mode}, l),
	}
	r.ctx = NewContext(r.pool, r.types, nil, vmath.NewFastRand(42))
	r.ctx.Bind(r.ride, 1)
	return r
}

func (r *rig) spawn(t *testing.T, name string) *vehicle.Vehicle {
	t.Helper()
	id, err := r.types.Lookup(name)
	if err != nil {
		t.Fatalf("Lookup(%q): %v", name, err)
	}
	v, err := r.pool.Spawn(r.ride.ID, id, 2)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	return v
}

func flats(n int) *track.Layout {
	l := track.NewLayout(track.Point{}, 0)
	for i := 0; i < n; i++ {
		l.Append(track.ElemFlat)
	}
	return l
}

// TestStepDistance verifies the velocity to step conversion
func TestStepDistance(t *testing.T) {
	cases := []struct {
		v    int32
		want int32
	}{
		{0, 0},
		{0x10000, 64 * 42},
		{0x100000, 1024 * 42},
		{-0x100000, -1024 * 42},
		{0x3FF, 0},
	}
	for _, tc := range cases {
		if got := StepDistance(tc.v); got != tc.want {
			t.Errorf("StepDistance(%#x) = %d, want %d", tc.v, got, tc.want)
		}
	}
}

// TestFlagsString verifies flag names are joined in bit order
func TestFlagsString(t *testing.T) {
	if got := Flags(0).String(); got != "none" {
		t.Errorf("zero flags = %q", got)
	}
	f := FlagAtStation | FlagCollision
	if got := f.String(); got != "at station|collision" {
		t.Errorf("String() = %q", got)
	}
	if !f.Has(FlagCollision) || f.Has(FlagDerailed) || !f.Any(FlagDerailed|FlagAtStation) {
		t.Errorf("Has/Any disagree for %v", f)
	}
}

// TestForwardBackwardRoundTrip verifies a car driven forward then back by the same speed returns to its way-point
func TestForwardBackwardRoundTrip(t *testing.T) {
	r := newRig(t, ride.LoopingCoaster, ride.ModeNormal, flats(5))
	car := r.spawn(t, vehicle.TypeNameWoodenCar)
	if err := r.ctx.Place(car, 2, 10); err != nil {
		t.Fatalf("Place: %v", err)
	}
	start := car.Pos

	car.Velocity, car.Acceleration = 0x100000, 0
	flags, _ := r.ctx.Advance(car)
	if flags.Has(FlagEndOfTrack) {
		t.Fatalf("forward run hit end of track")
	}
	if car.Progress <= 10 {
		t.Fatalf("car did not move forward: progress %d", car.Progress)
	}

	car.Velocity, car.Acceleration = -0x100000, 0
	r.ctx.Advance(car)

	if car.Segment != 2 || car.Progress != 10 || car.Remainder != 0 {
		t.Errorf("after round trip at segment %d progress %d remainder %d, want 2/10/0",
			car.Segment, car.Progress, car.Remainder)
	}
	if car.Pos != start {
		t.Errorf("position %v, want %v", car.Pos, start)
	}
}

// TestProgressStaysInSegment verifies progress never reaches the segment length across many ticks
func TestProgressStaysInSegment(t *testing.T) {
	l := flats(4)
	l.Close()
	r := newRig(t, ride.LoopingCoaster, ride.ModeNormal, l)
	car := r.spawn(t, vehicle.TypeNameWoodenCar)
	if err := r.ctx.Place(car, 0, 0); err != nil {
		t.Fatalf("Place: %v", err)
	}

	for tick := 0; tick < 500; tick++ {
		car.Velocity, car.Acceleration = 0x180000, 0
		flags, _ := r.ctx.Advance(car)
		seg, err := l.Segment(car.Segment)
		if err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
		if car.Progress >= seg.Length() {
			t.Fatalf("tick %d: progress %d past length %d", tick, car.Progress, seg.Length())
		}
		if car.Remainder < 0 || car.Remainder >= parameter.WayPointBudget {
			t.Fatalf("tick %d: remainder %d out of range", tick, car.Remainder)
		}
		if flags.Has(FlagEndOfTrack) {
			t.Fatalf("tick %d: end of track on a closed circuit", tick)
		}
	}
}

// TestEndOfTrack verifies running off an open end raises the flag and keeps the car on the last piece
func TestEndOfTrack(t *testing.T) {
	r := newRig(t, ride.LoopingCoaster, ride.ModeNormal, flats(1))
	car := r.spawn(t, vehicle.TypeNameWoodenCar)
	if err := r.ctx.Place(car, 0, 30); err != nil {
		t.Fatalf("Place: %v", err)
	}
	car.Velocity = 0x100000
	flags, _ := r.ctx.Advance(car)
	if !flags.Has(FlagEndOfTrack) {
		t.Errorf("flags = %v, want end of track", flags)
	}
	if car.Segment != 0 || car.Progress >= track.Length(track.ElemFlat) {
		t.Errorf("car left the track: segment %d progress %d", car.Segment, car.Progress)
	}
}

// TestLoopApexDerails verifies a car without up-stops stalling upside down leaves the rail
func TestLoopApexDerails(t *testing.T) {
	l := track.NewLayout(track.Point{}, 0)
	loop := l.Append(track.ElemLeftVerticalLoop)
	apex := -1
	for i, w := range track.Path(track.ElemLeftVerticalLoop, 0) {
		if w.Pitch == track.PitchInverted {
			apex = i
			break
		}
	}
	if apex < 0 {
		t.Fatalf("loop has no inverted way-point")
	}

	cases := []struct {
		name string
		typ  string
		want bool
	}{
		{"no up-stops", vehicle.TypeNameCoasterCar, true},
		{"with up-stops", vehicle.TypeNameWoodenCar, false},
	}
	for _, tc := range cases {
		r := newRig(t, ride.LoopingCoaster, ride.ModeNormal, l)
		car := r.spawn(t, tc.typ)
		if err := r.ctx.Place(car, loop, uint16(apex)); err != nil {
			t.Fatalf("Place: %v", err)
		}
		car.Velocity = 0
		flags, _ := r.ctx.Advance(car)
		if got := flags.Has(FlagDerailed); got != tc.want {
			t.Errorf("%s: derailed = %v, want %v (vertical g %d)", tc.name, got, tc.want, car.VerticalG)
		}
	}
}

// TestLoopEntryDerails verifies a car without up-stops creeping into a loop leaves the rail before the loop ends
func TestLoopEntryDerails(t *testing.T) {
	l := track.NewLayout(track.Point{}, 0)
	entry := l.Append(track.ElemFlat)
	loop := l.Append(track.ElemLeftVerticalLoop)
	l.Append(track.ElemFlat)

	r := newRig(t, ride.LoopingCoaster, ride.ModeNormal, l)
	car := r.spawn(t, vehicle.TypeNameCoasterCar)
	seg, err := r.ride.Track.Segment(entry)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if err := r.ctx.Place(car, entry, seg.Length()-1); err != nil {
		t.Fatalf("Place: %v", err)
	}

	entered := false
	for tick := 0; tick < 20000; tick++ {
		car.Velocity, car.Acceleration = 0x4000, 0
		flags, _ := r.ctx.Advance(car)
		if car.Segment == loop {
			entered = true
		}
		if flags.Has(FlagDerailed) {
			if !entered || car.Segment != loop {
				t.Fatalf("derailed on segment %d, want inside the loop", car.Segment)
			}
			return
		}
		if car.Segment != entry && car.Segment != loop {
			t.Fatalf("tick %d: completed the loop without derailing", tick)
		}
	}
	t.Fatalf("never derailed, segment %d progress %d", car.Segment, car.Progress)
}

// TestBlockBrakes verifies a closed block section stops the train and an open one lets it creep
func TestBlockBrakes(t *testing.T) {
	l := track.NewLayout(track.Point{}, 0)
	l.Append(track.ElemEndStation)
	l.Append(track.ElemFlat)
	brakes := l.Append(track.ElemBlockBrakes)
	l.Append(track.ElemFlat)
	l.Close()

	r := newRig(t, ride.LoopingCoaster, ride.ModeContinuousCircuitBlockSectioned, l)
	car := r.spawn(t, vehicle.TypeNameWoodenCar)
	if err := r.ctx.Place(car, brakes, 5); err != nil {
		t.Fatalf("Place: %v", err)
	}
	r.ride.Blocks.Enter(brakes, 99)

	car.Velocity, car.Acceleration = 0x40000, 0x1000
	flags, _ := r.ctx.Advance(car)
	if !flags.Has(FlagBlockedByBrake) {
		t.Errorf("flags = %v, want blocked by brake", flags)
	}
	if want := int32(0x40000 - 0x40000>>3); car.Velocity != want {
		t.Errorf("held velocity = %#x, want %#x", car.Velocity, want)
	}

	r.ride.Blocks.Release(99)
	car.Velocity, car.Acceleration = 0x10000, 0
	flags, _ = r.ctx.Advance(car)
	if flags.Has(FlagBlockedByBrake) {
		t.Errorf("open block still reported closed")
	}
	if car.Velocity != parameter.BlockBrakeCreepVelocity {
		t.Errorf("creep velocity = %#x, want %#x", car.Velocity, parameter.BlockBrakeCreepVelocity)
	}
}

// TestTrainCarsFollowHead verifies trailing cars are placed behind the head and share its velocity
func TestTrainCarsFollowHead(t *testing.T) {
	r := newRig(t, ride.LoopingCoaster, ride.ModeNormal, flats(6))
	head := r.spawn(t, vehicle.TypeNameWoodenCar)
	tail := r.spawn(t, vehicle.TypeNameWoodenCar)
	if err := r.pool.Link(head.ID, tail.ID); err != nil {
		t.Fatalf("Link: %v", err)
	}
	if err := r.ctx.Place(head, 4, 10); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if tail.Pos.X >= head.Pos.X {
		t.Fatalf("tail at x=%d not behind head at x=%d", tail.Pos.X, head.Pos.X)
	}
	gap := head.Pos.X - tail.Pos.X

	head.Velocity = 0x80000
	r.ctx.Advance(head)
	if tail.Velocity != head.Velocity {
		t.Errorf("tail velocity %#x, head %#x", tail.Velocity, head.Velocity)
	}
	if d := head.Pos.X - tail.Pos.X; vmath.Abs(d-gap) > 1 {
		t.Errorf("gap changed from %d to %d", gap, d)
	}
}

// TestTrainRoundTripAcrossSegments verifies a two-car train returns to its start after crossing a segment boundary and backing over it
func TestTrainRoundTripAcrossSegments(t *testing.T) {
	r := newRig(t, ride.LoopingCoaster, ride.ModeNormal, flats(6))
	head := r.spawn(t, vehicle.TypeNameWoodenCar)
	tail := r.spawn(t, vehicle.TypeNameWoodenCar)
	if err := r.pool.Link(head.ID, tail.ID); err != nil {
		t.Fatalf("Link: %v", err)
	}
	seg, err := r.ride.Track.Segment(3)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if err := r.ctx.Place(head, 3, seg.Length()-2); err != nil {
		t.Fatalf("Place: %v", err)
	}
	type pose struct {
		seg       track.SegmentID
		progress  uint16
		remainder int32
		pos       vmath.Vec3
	}
	at := func(v *vehicle.Vehicle) pose { return pose{v.Segment, v.Progress, v.Remainder, v.Pos} }
	startHead, startTail := at(head), at(tail)

	head.Velocity, head.Acceleration = 0x100000, 0
	flags, _ := r.ctx.Advance(head)
	if flags.Has(FlagEndOfTrack) {
		t.Fatalf("forward run hit end of track")
	}
	if head.Segment != 4 {
		t.Fatalf("head on segment %d after forward run, want 4", head.Segment)
	}

	head.Velocity, head.Acceleration = -0x100000, 0
	r.ctx.Advance(head)

	if got := at(head); got != startHead {
		t.Errorf("head at %+v, want %+v", got, startHead)
	}
	if got := at(tail); got != startTail {
		t.Errorf("tail at %+v, want %+v", got, startTail)
	}
}

// TestRoamContact verifies a car stops short of another car and reports it without settling the bounce
func TestRoamContact(t *testing.T) {
	r := newRig(t, ride.BumperCars, ride.ModeBumperCar, track.NewLayout(track.Point{}, 0))
	r.ride.Arena = ride.Bounds{MinX: 0, MinY: 0, MaxX: 200, MaxY: 200}
	a := r.spawn(t, vehicle.TypeNameBumperCar)
	b := r.spawn(t, vehicle.TypeNameBumperCar)
	r.ride.AddTrain(uint16(a.ID))
	r.ride.AddTrain(uint16(b.ID))

	a.Pos, a.Direction, a.Velocity = vmath.Vec3{X: 100, Y: 100}, 0, 0x100000
	b.Pos, b.Direction, b.Velocity = vmath.Vec3{X: 116, Y: 100}, 16, 0x20000

	flags, contact := r.ctx.Roam(a)
	if !flags.Has(FlagHitVehicleAhead) {
		t.Fatalf("flags = %v, want a hit", flags)
	}
	if !contact.Hit || contact.Other != b || contact.Heading != 0 {
		t.Fatalf("contact = %+v, want car %d at heading 0", contact, b.ID)
	}
	if a.Velocity != 0x100000 || b.Velocity != 0x20000 || a.Turn != 0 || b.Turn != 0 {
		t.Errorf("contact settled in motion: velocities %#x, %#x turns %d, %d", a.Velocity, b.Velocity, a.Turn, b.Turn)
	}
	if a.Pos.X != 101 || a.Remainder != 0 {
		t.Errorf("car stopped at x=%d remainder %d, want 101/0", a.Pos.X, a.Remainder)
	}

	r.ctx.Throttle(a)
	if a.Acceleration >= 0 {
		t.Errorf("empty car acceleration %d, want drag", a.Acceleration)
	}
}

// TestRoamWallContact verifies the arena edge is reported as a contact with no other car
func TestRoamWallContact(t *testing.T) {
	r := newRig(t, ride.BumperCars, ride.ModeBumperCar, track.NewLayout(track.Point{}, 0))
	r.ride.Arena = ride.Bounds{MinX: 0, MinY: 0, MaxX: 64, MaxY: 64}
	a := r.spawn(t, vehicle.TypeNameBumperCar)
	r.ride.AddTrain(uint16(a.ID))

	margin := int32(0x20000>>10) * parameter.BumperCollisionScale >> 9
	a.Pos, a.Direction, a.Velocity = vmath.Vec3{X: 64 - margin, Y: 32}, 0, 0x100000
	flags, contact := r.ctx.Roam(a)
	if flags.Has(FlagHitVehicleAhead) {
		t.Errorf("flags = %v, wall counted as a car", flags)
	}
	if !contact.Hit || contact.Other != nil {
		t.Errorf("contact = %+v, want a wall hit", contact)
	}
}

// TestObstacle verifies the contact square and that wrecks are ignored
func TestObstacle(t *testing.T) {
	r := newRig(t, ride.BumperCars, ride.ModeBumperCar, track.NewLayout(track.Point{}, 0))
	a := r.spawn(t, vehicle.TypeNameBumperCar)
	b := r.spawn(t, vehicle.TypeNameBumperCar)
	r.ride.AddTrain(uint16(a.ID))
	r.ride.AddTrain(uint16(b.ID))
	b.Pos = vmath.Vec3{X: 100, Y: 100}

	tests := []struct {
		name string
		at   vmath.Vec3
		hit  bool
	}{
		{"touching", vmath.Vec3{X: 90, Y: 95}, true},
		{"clear on x", vmath.Vec3{X: 80, Y: 100}, false},
		{"clear on y", vmath.Vec3{X: 100, Y: 120}, false},
	}
	for _, tt := range tests {
		got := r.ctx.Obstacle(a, tt.at)
		if (got != nil) != tt.hit {
			t.Errorf("%s: Obstacle = %v, want hit %v", tt.name, got, tt.hit)
		}
	}

	b.Status = vehicle.StatusCrashed
	if got := r.ctx.Obstacle(a, vmath.Vec3{X: 100, Y: 100}); got != nil {
		t.Errorf("crashed car blocks")
	}
}

// TestRoamStaysInArena verifies a car driven at a wall stops at the margin
func TestRoamStaysInArena(t *testing.T) {
	r := newRig(t, ride.BumperCars, ride.ModeBumperCar, track.NewLayout(track.Point{}, 0))
	r.ride.Arena = ride.Bounds{MinX: 0, MinY: 0, MaxX: 64, MaxY: 64}
	a := r.spawn(t, vehicle.TypeNameBumperCar)
	r.ride.AddTrain(uint16(a.ID))
	a.Pos, a.Direction = vmath.Vec3{X: 32, Y: 32}, 0

	margin := int32(0x20000>>10) * parameter.BumperCollisionScale >> 9
	for tick := uint32(1); tick < 400; tick += 2 {
		r.ctx.Bind(r.ride, tick)
		a.Velocity, a.Acceleration = 0x100000, 0
		a.Turn, a.Bounce = 0, 0
		r.ctx.Roam(a)
		if a.Pos.X+margin > 64 {
			t.Fatalf("tick %d: car at x=%d beyond wall", tick, a.Pos.X)
		}
	}
	if a.Pos.X+margin != 64 {
		t.Errorf("car rests at x=%d, want against the wall", a.Pos.X)
	}
}

// TestCableLiftClimbs verifies the cable chain walks its hill and gets a haul acceleration
func TestCableLiftClimbs(t *testing.T) {
	l := track.NewLayout(track.Point{}, 0)
	hill := l.Append(track.ElemCableLiftHill, track.WithLiftHill())
	r := newRig(t, ride.GigaCoaster, ride.ModeContinuousCircuit, l)
	cable := r.spawn(t, vehicle.TypeNameCableLift)
	if err := r.ctx.Place(cable, hill, 10); err != nil {
		t.Fatalf("Place: %v", err)
	}
	cable.Velocity, cable.Acceleration = 0x80000, 0
	flags := r.ctx.AdvanceCableLift(cable)
	if flags.Has(FlagEndOfTrack) {
		t.Errorf("cable ran off its hill")
	}
	if cable.Progress <= 10 {
		t.Errorf("cable progress %d, want past 10", cable.Progress)
	}
	if cable.Acceleration >= 0 {
		t.Errorf("climbing cable acceleration %d, want negative", cable.Acceleration)
	}
}
