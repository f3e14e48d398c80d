package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/lixenwraith/coaster/event"
	"github.com/lixenwraith/coaster/ride"
	"github.com/lixenwraith/coaster/rider"
	"github.com/lixenwraith/coaster/track"
	"github.com/lixenwraith/coaster/vehicle"
	"github.com/lixenwraith/coaster/vmath"
)

func newEngine(t *testing.T, riders rider.Service, sink event.Sink) *Engine {
	t.Helper()
	e, err := New(Options{Riders: riders, Sink: sink, Seed: 7})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func circuit() *track.Layout {
	l := track.NewLayout(track.Point{}, 0)
	l.Append(track.ElemEndStation)
	for i := 0; i < 6; i++ {
		l.Append(track.ElemFlat)
	}
	l.Close()
	return l
}

func platform() *track.Layout {
	l := track.NewLayout(track.Point{}, 0)
	l.Append(track.ElemEndStation)
	return l
}

// flatRide admits a single-car stationary ride with riders queued at its platform
func flatRide(t *testing.T, e *Engine, kind *ride.Kind, cfg ride.Config, typ string) (*ride.Ride, *vehicle.Vehicle) {
	t.Helper()
	r := ride.New(1, kind.Name, kind, cfg, platform())
	r.Status = ride.StatusOpen
	if err := e.AddRide(r, TrainSpec{Type: typ, Trains: 1, Cars: 1}); err != nil {
		t.Fatalf("AddRide: %v", err)
	}
	return r, e.pool.Get(vehicle.ID(r.Trains[0]))
}

// runUntil advances the engine until the head reaches status or limit ticks pass
func runUntil(e *Engine, tick *uint32, head *vehicle.Vehicle, status vehicle.Status, limit int) bool {
	for i := 0; i < limit; i++ {
		*tick++
		e.AdvanceAll(*tick)
		if head.Status == status {
			return true
		}
	}
	return false
}

// TestAddRideValidation verifies configuration violations are rejected before the ride runs
func TestAddRideValidation(t *testing.T) {
	e := newEngine(t, nil, nil)

	hill := track.NewLayout(track.Point{}, 0)
	hill.Append(track.ElemEndStation)
	hill.Append(track.ElemFlatToUp25)
	hill.Append(track.ElemCableLiftHill)
	hill.Append(track.ElemUp25ToFlat)

	cases := []struct {
		name string
		ride *ride.Ride
		spec TrainSpec
		want error
	}{
		{"cable hill without cable lift", ride.New(1, "giga", ride.GigaCoaster, ride.Config{Mode: ride.ModeContinuousCircuit}, hill),
			TrainSpec{Type: vehicle.TypeNameCoasterCar, Trains: 1, Cars: 2}, ride.ErrNoCableLift},
		{"no trains", ride.New(2, "loop", ride.LoopingCoaster, ride.Config{Mode: ride.ModeContinuousCircuit}, circuit()),
			TrainSpec{Type: vehicle.TypeNameCoasterCar}, ErrNoTrains},
		{"mode not allowed", ride.New(3, "loop", ride.LoopingCoaster, ride.Config{Mode: ride.ModeSwing}, circuit()),
			TrainSpec{Type: vehicle.TypeNameCoasterCar, Trains: 1, Cars: 1}, ride.ErrModeCapability},
	}
	for _, tc := range cases {
		err := e.AddRide(tc.ride, tc.spec)
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: AddRide error %v, want %v", tc.name, err, tc.want)
		}
		if _, ok := e.Ride(tc.ride.ID); ok {
			t.Errorf("%s: rejected ride was admitted", tc.name)
		}
	}
	if n := e.pool.Len(); n != 0 {
		t.Errorf("rejected rides left %d vehicles in the pool", n)
	}

	ok := ride.New(4, "loop", ride.LoopingCoaster, ride.Config{Mode: ride.ModeContinuousCircuit}, circuit())
	if err := e.AddRide(ok, TrainSpec{Type: vehicle.TypeNameCoasterCar, Trains: 1, Cars: 3}); err != nil {
		t.Fatalf("AddRide: %v", err)
	}
	if err := e.AddRide(ok, TrainSpec{Type: vehicle.TypeNameCoasterCar, Trains: 1, Cars: 3}); !errors.Is(err, ErrDuplicateRide) {
		t.Errorf("second AddRide error %v, want %v", err, ErrDuplicateRide)
	}
}

// TestBoardingWaitsForMaxWait verifies an empty train only leaves once the maximum wait has passed
func TestBoardingWaitsForMaxWait(t *testing.T) {
	e := newEngine(t, nil, nil)
	cfg := ride.Config{
		Mode:    ride.ModeContinuousCircuit,
		Depart:  ride.DepartWaitForLoad | ride.DepartMinWait | ride.DepartMaxWait,
		Load:    ride.LoadHalf,
		MinWait: 3,
		MaxWait: 60,
	}
	r := ride.New(1, "loop", ride.LoopingCoaster, cfg, circuit())
	r.Status = ride.StatusOpen
	if err := e.AddRide(r, TrainSpec{Type: vehicle.TypeNameCoasterCar, Trains: 1, Cars: 1}); err != nil {
		t.Fatalf("AddRide: %v", err)
	}
	head := e.pool.Get(vehicle.ID(r.Trains[0]))
	head.SetStatus(vehicle.StatusWaitingForPassengers, 0)
	head.Restraints = 255

	var tick uint32
	for ; tick < 1888; tick++ {
		e.AdvanceAll(tick + 1)
	}
	if head.Status != vehicle.StatusWaitingForPassengers {
		t.Fatalf("tick %d: status %s, want still waiting for passengers", tick, head.Status)
	}
	for ; tick < 1952; tick++ {
		e.AdvanceAll(tick + 1)
	}
	if head.Status == vehicle.StatusWaitingForPassengers || head.Status == vehicle.StatusWaitingToDepart {
		t.Errorf("tick %d: status %s, want departed after the maximum wait", tick, head.Status)
	}
}

// TestBoardingLeavesAtHalfLoad verifies a half-full train leaves after the minimum wait without waiting for the maximum
func TestBoardingLeavesAtHalfLoad(t *testing.T) {
	roster := rider.NewRoster()
	e := newEngine(t, roster, nil)
	cfg := ride.Config{
		Mode:    ride.ModeContinuousCircuit,
		Depart:  ride.DepartWaitForLoad | ride.DepartMinWait | ride.DepartMaxWait,
		Load:    ride.LoadHalf,
		MinWait: 3,
		MaxWait: 60,
	}
	r := ride.New(1, "loop", ride.LoopingCoaster, cfg, circuit())
	r.Status = ride.StatusOpen
	if err := e.AddRide(r, TrainSpec{Type: vehicle.TypeNameCoasterCar, Trains: 1, Cars: 1}); err != nil {
		t.Fatalf("AddRide: %v", err)
	}
	head := e.pool.Get(vehicle.ID(r.Trains[0]))
	head.SetStatus(vehicle.StatusWaitingForPassengers, 0)
	head.Restraints = 255
	roster.Enqueue(r.ID, 0, len(head.Riders)/2)

	var tick uint32
	for ; tick < 80; tick++ {
		e.AdvanceAll(tick + 1)
	}
	if head.Status != vehicle.StatusWaitingForPassengers {
		t.Fatalf("tick %d: status %s, want waiting out the minimum wait", tick, head.Status)
	}
	if n, _ := e.TotalRiders(head.ID); n != len(head.Riders)/2 {
		t.Fatalf("riders aboard = %d, want %d", n, len(head.Riders)/2)
	}

	for ; tick < 400; tick++ {
		e.AdvanceAll(tick + 1)
	}
	if head.Status == vehicle.StatusWaitingForPassengers || head.Status == vehicle.StatusWaitingToDepart {
		t.Errorf("tick %d: status %s, want departed once half loaded", tick, head.Status)
	}
}

// TestFilmRunsFullLength verifies a cinema shows its film for the configured length and lets everyone off
func TestFilmRunsFullLength(t *testing.T) {
	roster := rider.NewRoster()
	e := newEngine(t, roster, nil)
	r, head := flatRide(t, e, ride.Cinema3D, ride.Config{Mode: ride.Mode3DFilm}, vehicle.TypeNameSeats)
	roster.Enqueue(r.ID, 0, 10)

	var tick uint32
	if !runUntil(e, &tick, head, vehicle.StatusShowingFilm, 200) {
		t.Fatalf("film never started, status %s", head.Status)
	}
	if n, _ := e.TotalRiders(head.ID); n != 10 {
		t.Fatalf("riders aboard = %d, want 10", n)
	}

	for i := 0; i < 5000; i++ {
		tick++
		e.AdvanceAll(tick)
	}
	if head.Status != vehicle.StatusShowingFilm {
		t.Fatalf("film ended early with status %s", head.Status)
	}
	tick++
	e.AdvanceAll(tick)
	if head.Status != vehicle.StatusArriving {
		t.Fatalf("after the film status %s, want arriving", head.Status)
	}

	if !runUntil(e, &tick, head, vehicle.StatusWaitingForPassengers, 100) {
		t.Fatalf("cinema never reopened, status %s", head.Status)
	}
	if n := roster.Count(rider.StateExited); n != 10 {
		t.Errorf("%d riders exited, want 10", n)
	}
}

// TestSwingRampsAndStops verifies a swinging ship completes its swings and returns to the platform
func TestSwingRampsAndStops(t *testing.T) {
	roster := rider.NewRoster()
	e := newEngine(t, roster, nil)
	r, head := flatRide(t, e, ride.SwingingShip, ride.Config{Mode: ride.ModeSwing, Rotations: 2}, vehicle.TypeNameShip)
	roster.Enqueue(r.ID, 0, 4)

	var tick uint32
	if !runUntil(e, &tick, head, vehicle.StatusSwinging, 200) {
		t.Fatalf("ship never started swinging, status %s", head.Status)
	}
	for i := 0; i < 1000 && head.Status == vehicle.StatusSwinging; i++ {
		if head.Frame == swingEnd {
			t.Fatalf("tick %d: swing end marker shown as a frame", tick)
		}
		tick++
		e.AdvanceAll(tick)
	}
	if head.Status == vehicle.StatusSwinging {
		t.Fatalf("ship still swinging after 1000 ticks")
	}
	if head.Laps == 0 {
		t.Errorf("no swing counted")
	}
}

// TestSafetyCutOutFreezesShow verifies a cut-out stops the show clock until the ride is fixed
func TestSafetyCutOutFreezesShow(t *testing.T) {
	roster := rider.NewRoster()
	q := event.NewQueue()
	e := newEngine(t, roster, event.NewQueueSink(q))
	r, head := flatRide(t, e, ride.Cinema3D, ride.Config{Mode: ride.Mode3DFilm}, vehicle.TypeNameSeats)
	roster.Enqueue(r.ID, 0, 4)

	var tick uint32
	if !runUntil(e, &tick, head, vehicle.StatusShowingFilm, 200) {
		t.Fatalf("film never started, status %s", head.Status)
	}
	q.Consume()

	if err := e.RequestBreakdown(r.ID, ride.BreakdownSafetyCutOut); err != nil {
		t.Fatalf("RequestBreakdown: %v", err)
	}
	if !r.Is(ride.LifecycleBrokenDown) {
		t.Fatalf("cut-out did not break the ride down")
	}
	news := 0
	for _, ev := range q.Consume() {
		if p, ok := ev.Payload.(*event.NewsPayload); ok && p.Kind == event.NewsBreakdown {
			news++
		}
	}
	if news != 1 {
		t.Errorf("%d breakdown news items, want 1", news)
	}

	frozen := head.Timer
	for i := 0; i < 50; i++ {
		tick++
		e.AdvanceAll(tick)
	}
	if head.Timer != frozen || head.Status != vehicle.StatusShowingFilm {
		t.Fatalf("show moved during cut-out: timer %d -> %d, status %s", frozen, head.Timer, head.Status)
	}

	if err := e.Fix(r.ID); err != nil {
		t.Fatalf("Fix: %v", err)
	}
	tick++
	e.AdvanceAll(tick)
	if head.Timer != frozen+1 {
		t.Errorf("timer %d after fix, want %d", head.Timer, frozen+1)
	}
	if err := e.RequestBreakdown(99, ride.BreakdownSafetyCutOut); !errors.Is(err, ErrUnknownRide) {
		t.Errorf("unknown ride error %v, want %v", err, ErrUnknownRide)
	}
}

// TestFerrisWheelUnloadsBottomCabin verifies unloading ends once the cabin at the platform is empty
// while riders in the other cabins stay aboard for the next turn
func TestFerrisWheelUnloadsBottomCabin(t *testing.T) {
	roster := rider.NewRoster()
	e := newEngine(t, roster, nil)
	_, head := flatRide(t, e, ride.FerrisWheel, ride.Config{Mode: ride.ModeForwardRotation, Rotations: 1}, vehicle.TypeNameGondola)
	if len(head.Riders) != 4 {
		t.Fatalf("gondola has %d seats, want 4", len(head.Riders))
	}

	copy(head.Riders, []uint32{11, 12, 13, 14})
	head.Frame = 0
	head.Restraints = 0
	head.SetStatus(vehicle.StatusUnloadingPassengers, 0)

	var tick uint32
	for i := 0; i < 100 && head.Status == vehicle.StatusUnloadingPassengers; i++ {
		tick++
		e.AdvanceAll(tick)
	}
	if head.Status == vehicle.StatusUnloadingPassengers {
		t.Fatalf("wheel still unloading after %d ticks with riders %v", tick, head.Riders)
	}
	if head.Riders[0] != 0 || head.Riders[1] != 0 {
		t.Errorf("bottom cabin not emptied: %v", head.Riders)
	}
	if head.Riders[2] != 13 || head.Riders[3] != 14 {
		t.Errorf("upper cabin riders let off early: %v", head.Riders)
	}
}

// TestBumperCarsBounceApart verifies the engine resolves a roaming contact into opposite turns
func TestBumperCarsBounceApart(t *testing.T) {
	e := newEngine(t, nil, nil)
	r := ride.New(1, "dodgems", ride.BumperCars, ride.Config{Mode: ride.ModeBumperCar}, platform())
	r.Status = ride.StatusOpen
	if err := e.AddRide(r, TrainSpec{Type: vehicle.TypeNameBumperCar, Trains: 2, Cars: 1}); err != nil {
		t.Fatalf("AddRide: %v", err)
	}
	a := e.pool.Get(vehicle.ID(r.Trains[0]))
	b := e.pool.Get(vehicle.ID(r.Trains[1]))
	cx, cy := (r.Arena.MinX+r.Arena.MaxX)/2, (r.Arena.MinY+r.Arena.MaxY)/2
	a.Pos, a.Direction, a.Velocity, a.Acceleration = vmath.Vec3{X: cx, Y: cy, Z: a.Pos.Z}, 0, 0x100000, 0
	b.Pos, b.Direction, b.Velocity, b.Acceleration = vmath.Vec3{X: cx + 16, Y: cy, Z: b.Pos.Z}, 16, 0x20000, 0
	for _, car := range []*vehicle.Vehicle{a, b} {
		car.Turn, car.Bounce = 0, 0
		car.SetStatus(vehicle.StatusTravellingBumperCars, 0)
	}

	e.AdvanceAll(1)

	if a.Turn == 0 || a.Turn != -b.Turn {
		t.Errorf("turns = %d, %d, want opposite non-zero", a.Turn, b.Turn)
	}
	if d := b.Pos.X - a.Pos.X; d <= 0 {
		t.Errorf("cars passed through each other, gap %d", d)
	}
}

// TestVehicleMalfunctionMarksTrain verifies a malfunction flags one train instead of stopping the ride at once
func TestVehicleMalfunctionMarksTrain(t *testing.T) {
	e := newEngine(t, nil, nil)
	r := ride.New(1, "loop", ride.LoopingCoaster, ride.Config{Mode: ride.ModeContinuousCircuit}, circuit())
	if err := e.AddRide(r, TrainSpec{Type: vehicle.TypeNameCoasterCar, Trains: 1, Cars: 2}); err != nil {
		t.Fatalf("AddRide: %v", err)
	}
	if err := e.RequestBreakdown(r.ID, ride.BreakdownVehicleMalfunction); err != nil {
		t.Fatalf("RequestBreakdown: %v", err)
	}
	head := e.pool.Get(vehicle.ID(r.Trains[0]))
	if !head.Has(vehicle.FlagBrokenTrain) {
		t.Errorf("head not marked broken")
	}
	if r.Is(ride.LifecycleBrokenDown) || !r.Is(ride.LifecycleBreakdownPending) {
		t.Errorf("lifecycle %#x, want pending only", r.Lifecycle)
	}

	if err := e.Fix(r.ID); err != nil {
		t.Fatalf("Fix: %v", err)
	}
	if head.Has(vehicle.FlagBrokenTrain) || r.Any(ride.LifecycleBreakdownPending|ride.LifecycleBrokenDown) {
		t.Errorf("fix left breakdown state behind")
	}
}

// TestCreateCableLift verifies the helper chain is built on the cable hill and waits at the top
func TestCreateCableLift(t *testing.T) {
	e := newEngine(t, nil, nil)
	l := track.NewLayout(track.Point{}, 0)
	l.Append(track.ElemEndStation)
	l.Append(track.ElemFlatToUp25)
	hill := l.Append(track.ElemCableLiftHill)
	l.Append(track.ElemUp25ToFlat)

	r := ride.New(1, "giga", ride.GigaCoaster, ride.Config{Mode: ride.ModeContinuousCircuit}, l)
	r.Set(ride.LifecycleCableLift)
	if err := e.AddRide(r, TrainSpec{Type: vehicle.TypeNameCoasterCar, Trains: 1, Cars: 2}); err != nil {
		t.Fatalf("AddRide: %v", err)
	}
	if r.CableLift == ride.NoTrain {
		t.Fatalf("no cable lift built")
	}
	cable := e.pool.Get(vehicle.ID(r.CableLift))
	if cable.Segment != hill {
		t.Errorf("cable on segment %d, want %d", cable.Segment, hill)
	}
	if cable.Status != vehicle.StatusMovingToEndOfStation {
		t.Errorf("cable status %s, want moving to end of station", cable.Status)
	}
	if n := len(e.pool.Cars(cable.ID, nil)); n != cableCars {
		t.Errorf("cable chain has %d cars, want %d", n, cableCars)
	}
	if err := e.pool.CheckChain(cable.ID); err != nil {
		t.Errorf("cable chain: %v", err)
	}

	flat := ride.New(2, "loop", ride.LoopingCoaster, ride.Config{Mode: ride.ModeContinuousCircuit}, circuit())
	if err := e.AddRide(flat, TrainSpec{Type: vehicle.TypeNameCoasterCar, Trains: 1, Cars: 1}); err != nil {
		t.Fatalf("AddRide: %v", err)
	}
	if err := e.CreateCableLift(flat.ID); !errors.Is(err, ErrNoCableHill) {
		t.Errorf("CreateCableLift without hill error %v, want %v", err, ErrNoCableHill)
	}
}

// TestFrameTables verifies every timeline ends with its marker and never shows the marker early
func TestFrameTables(t *testing.T) {
	for i, frames := range swingFrames {
		if frames[len(frames)-1] != swingEnd {
			t.Errorf("swing %d not terminated", i)
		}
		for j, f := range frames[:len(frames)-1] {
			if f == swingEnd {
				t.Errorf("swing %d frame %d is the end marker", i, j)
			}
		}
	}
	tables := [][]uint8{rotationFrames[0], rotationFrames[1], rotationFrames[2], spaceRingsFrames[0]}
	tables = append(tables, simulatorFrames...)
	for i, frames := range tables {
		if frames[len(frames)-1] != timelineEnd {
			t.Errorf("timeline %d not terminated", i)
		}
		for j, f := range frames[:len(frames)-1] {
			if f == timelineEnd {
				t.Errorf("timeline %d frame %d is the end marker", i, j)
			}
		}
	}
	for i, frames := range topSpinFrames {
		if len(frames)%2 != 0 || frames[len(frames)-2] != timelineEnd {
			t.Errorf("top spin %d not terminated on a pair", i)
		}
	}
}

// TestClock verifies paused time does not count as simulation time
func TestClock(t *testing.T) {
	var wall int64
	c := NewClock(func() time.Time { return time.Unix(0, wall) })
	wall = int64(time.Second)
	c.Pause()
	wall = int64(3 * time.Second)
	if got := c.Now().Sub(time.Unix(0, 0)); got != time.Second {
		t.Errorf("paused now = %v, want 1s", got)
	}
	c.Resume()
	wall = int64(4 * time.Second)
	if got := c.Now().Sub(time.Unix(0, 0)); got != 2*time.Second {
		t.Errorf("now = %v, want 2s", got)
	}
	if got := c.PausedFor(); got != 2*time.Second {
		t.Errorf("PausedFor = %v, want 2s", got)
	}
}
