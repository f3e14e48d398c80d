package ride

import (
	"errors"
	"testing"

	"github.com/lixenwraith/coaster/track"
)

func testLayout() *track.Layout {
	l := track.NewLayout(track.Point{}, 0)
	l.Append(track.ElemEndStation)
	l.Append(track.ElemFlat)
	l.Append(track.ElemBlockBrakes)
	l.Append(track.ElemFlat)
	l.Close()
	return l
}

// TestLoadPolicy verifies each threshold against a 16-seat train
func TestLoadPolicy(t *testing.T) {
	cases := []struct {
		policy LoadPolicy
		riders int
		want   bool
	}{
		{LoadQuarter, 3, false},
		{LoadQuarter, 4, true},
		{LoadHalf, 7, false},
		{LoadHalf, 8, true},
		{LoadThreeQuarter, 11, false},
		{LoadThreeQuarter, 12, true},
		{LoadFull, 15, false},
		{LoadFull, 16, true},
		{LoadAny, 0, false},
		{LoadAny, 1, true},
	}
	for _, tc := range cases {
		if got := tc.policy.Satisfied(tc.riders, 16); got != tc.want {
			t.Errorf("policy %d with %d riders = %v, want %v", tc.policy, tc.riders, got, tc.want)
		}
	}
}

// TestStationCountdown verifies the depart timer ticks every 32 ticks and releases at zero
func TestStationCountdown(t *testing.T) {
	r := New(1, "test", LoopingCoaster, Config{Mode: ModeNormal}, testLayout())
	r.Status = StatusOpen
	r.AddStation(0)
	s := r.Station(0)
	s.Delay(2)

	for tick := uint32(1); tick < 32; tick++ {
		r.UpdateStations(tick, 0)
	}
	if s.Depart != 2 {
		t.Fatalf("timer moved before tick 32: %d", s.Depart)
	}
	r.UpdateStations(32, 0)
	r.UpdateStations(64, 0)
	if s.Ready() {
		t.Fatalf("released while timer reached zero this tick")
	}
	r.UpdateStations(65, 0)
	if !s.Ready() {
		t.Errorf("station not released after countdown, depart=%#x", s.Depart)
	}
	if s.Depart != DepartRelease {
		t.Errorf("released depart = %#x, want only the release bit", s.Depart)
	}

	r.Set(LifecycleBrokenDown)
	s.Delay(5)
	r.UpdateStations(8, 0)
	r.UpdateStations(9, 0)
	if s.Ready() || s.Depart != 4 {
		t.Errorf("broken ride depart = %#x, want 4 without release", s.Depart)
	}
}

// TestDepartDelay verifies the minimum wait is clamped into the timer range
func TestDepartDelay(t *testing.T) {
	r := New(1, "test", LoopingCoaster, Config{}, testLayout())
	if got := r.DepartDelay(); got != 3 {
		t.Errorf("default delay = %d, want 3", got)
	}
	r.Config.Depart = DepartMinWait
	r.Config.MinWait = 1
	if got := r.DepartDelay(); got != 3 {
		t.Errorf("short min wait delay = %d, want 3", got)
	}
	r.Config.MinWait = 200
	if got := r.DepartDelay(); got != 127 {
		t.Errorf("long min wait delay = %d, want 127", got)
	}
}

// TestBlocks verifies a train never blocks itself and entering a new block opens the old one
func TestBlocks(t *testing.T) {
	var b Blocks
	b.Enter(0, 10)
	if b.Closed(0, 10) {
		t.Errorf("train blocked by its own section")
	}
	if !b.Closed(0, 20) {
		t.Errorf("occupied section open to another train")
	}
	b.Enter(2, 10)
	if b.Closed(0, 20) {
		t.Errorf("previous section still closed after the train moved on")
	}
	if !b.Closed(2, 20) {
		t.Errorf("new section not closed")
	}
	b.Rename(10, 11)
	if occ, ok := b.Occupant(2); !ok || occ != 11 {
		t.Errorf("renamed occupant = %d, %v", occ, ok)
	}
	b.Release(11)
	if b.Closed(2, 20) {
		t.Errorf("section closed after release")
	}
}

// TestBreakdownLifecycle verifies pending, active and fixed states
func TestBreakdownLifecycle(t *testing.T) {
	r := New(1, "test", LoopingCoaster, Config{}, testLayout())
	if r.ActiveBreakdown() != BreakdownNone {
		t.Fatalf("healthy ride reports a breakdown")
	}
	r.RequestBreakdown(BreakdownBrakesFailure)
	if !r.BrakesFailed() {
		t.Errorf("pending brakes failure not active")
	}
	if !r.BreakDown(0) {
		t.Errorf("first BreakDown returned false")
	}
	if r.BreakDown(0) {
		t.Errorf("second BreakDown returned true")
	}
	r.Breakdown.Mechanic = MechanicFixedStationBrakes
	if r.BrakesFailed() {
		t.Errorf("brakes still failed after the station brakes were fixed")
	}
	r.Fix()
	if r.Any(LifecycleBrokenDown|LifecycleBreakdownPending) || r.Breakdown.Pending != BreakdownNone {
		t.Errorf("Fix left state %+v", r.Breakdown)
	}
}

// TestValidate verifies construction-time checks report every violation
func TestValidate(t *testing.T) {
	l := testLayout()
	r := New(1, "ok", LoopingCoaster, Config{Mode: ModeContinuousCircuit}, l)
	r.AddStation(0)
	if err := r.Validate(CapTrack, l.Segments()); err != nil {
		t.Errorf("valid ride rejected: %v", err)
	}

	bad := New(2, "bad", LoopingCoaster, Config{Mode: ModeBoatHire}, l)
	err := bad.Validate(CapTrack, l.Segments())
	if !errors.Is(err, ErrModeCapability) || !errors.Is(err, ErrNoStation) {
		t.Errorf("Validate() = %v, want mode and station errors", err)
	}

	cl := track.NewLayout(track.Point{}, 0)
	cl.Append(track.ElemEndStation)
	cl.Append(track.ElemFlatToUp25)
	cl.Append(track.ElemCableLiftHill)
	giga := New(3, "giga", GigaCoaster, Config{Mode: ModeContinuousCircuit}, cl)
	giga.AddStation(0)
	if err := giga.Validate(CapTrack, cl.Segments()); !errors.Is(err, ErrNoCableLift) {
		t.Errorf("Validate() = %v, want ErrNoCableLift", err)
	}
	giga.Set(LifecycleCableLift)
	if err := giga.Validate(CapTrack, cl.Segments()); err != nil {
		t.Errorf("giga with cable lift rejected: %v", err)
	}
}

// TestValidateLiftSpeed verifies a chain lift needs a speed inside the kind's range
func TestValidateLiftSpeed(t *testing.T) {
	l := track.NewLayout(track.Point{}, 0)
	l.Append(track.ElemEndStation)
	l.Append(track.ElemFlatToUp25, track.WithLiftHill())
	l.Append(track.ElemUp25ToFlat, track.WithLiftHill())

	cases := []struct {
		kind  *Kind
		speed uint8
		ok    bool
	}{
		{LoopingCoaster, 0, false},
		{LoopingCoaster, 4, false},
		{LoopingCoaster, 5, true},
		{LoopingCoaster, 26, true},
		{LoopingCoaster, 27, false},
		{WoodenCoaster, 7, true},
		{WoodenCoaster, 8, false},
	}
	for _, tc := range cases {
		r := New(1, "lift", tc.kind, Config{Mode: ModeContinuousCircuit, LiftHillSpeed: tc.speed}, nil)
		r.AddStation(0)
		err := r.Validate(CapTrack, l.Segments())
		if got := !errors.Is(err, ErrLiftSpeed); got != tc.ok {
			t.Errorf("%s speed %d: Validate() = %v, want ok=%v", tc.kind.Name, tc.speed, err, tc.ok)
		}
	}

	flat := New(2, "flat", LoopingCoaster, Config{Mode: ModeContinuousCircuit}, testLayout())
	flat.AddStation(0)
	if err := flat.Validate(CapTrack, testLayout().Segments()); errors.Is(err, ErrLiftSpeed) {
		t.Errorf("layout without a lift rejected for its speed: %v", err)
	}
}

// TestTrainRing verifies neighbour lookup wraps and removal clears holds
func TestTrainRing(t *testing.T) {
	r := New(1, "test", LoopingCoaster, Config{}, testLayout())
	r.AddStation(0)
	r.AddTrain(1)
	r.AddTrain(5)
	r.AddTrain(9)
	if a, ok := r.TrainAhead(9); !ok || a != 1 {
		t.Errorf("TrainAhead(9) = %d, %v", a, ok)
	}
	if b, ok := r.TrainBehind(1); !ok || b != 9 {
		t.Errorf("TrainBehind(1) = %d, %v", b, ok)
	}
	r.Stations[0].Claim(5)
	r.Blocks.Enter(2, 5)
	r.RemoveTrain(5)
	if r.Stations[0].Occupant != NoTrain || r.Blocks.Closed(2, 1) {
		t.Errorf("removed train still holds station or block")
	}
	if a, _ := r.TrainAhead(1); a != 9 {
		t.Errorf("TrainAhead(1) after removal = %d", a)
	}
}

// TestMeasurements verifies speed, g-force and inversion bookkeeping
func TestMeasurements(t *testing.T) {
	var m Measurements
	m.Reset()
	l := testLayout()
	seg, _ := l.Segment(0)
	loop := track.Segment{Element: track.ElemLeftVerticalLoop, Origin: track.Point{X: 320}}

	m.Record(Sample{Velocity: 0x50000, Vertical: 300, Segment: seg}, 0, true)
	m.Record(Sample{Velocity: -0x60000, Vertical: -100, Lateral: 80, Segment: loop, Position: loop.Origin}, 0, true)

	if m.MaxSpeed != 0x60000 {
		t.Errorf("MaxSpeed = %#x", m.MaxSpeed)
	}
	if m.MaxVerticalG != 150 {
		t.Errorf("MaxVerticalG = %d, want 150", m.MaxVerticalG)
	}
	if m.MaxLateralG != 40 {
		t.Errorf("MaxLateralG = %d, want 40", m.MaxLateralG)
	}
	if m.Inversions != 1 {
		t.Errorf("Inversions = %d, want 1", m.Inversions)
	}
	if m.Legs[0].Length == 0 {
		t.Errorf("no length recorded")
	}
}
