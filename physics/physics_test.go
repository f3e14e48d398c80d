package physics

import (
	"testing"

	"github.com/lixenwraith/coaster/track"
)

// TestAverageAccelerationSymmetric verifies the rounding bias keeps climbs and descents mirrored
func TestAverageAccelerationSymmetric(t *testing.T) {
	cases := []struct {
		sum  int64
		cars int32
	}{
		{124548, 1},
		{124548 * 2, 2},
		{368700 + 242590, 3},
		{1, 1},
		{0, 4},
	}
	for _, tc := range cases {
		up := AverageAcceleration(tc.sum, tc.cars)
		down := AverageAcceleration(-tc.sum, tc.cars)
		if up != -down {
			t.Errorf("AverageAcceleration(%d, %d) = %d, mirrored = %d", tc.sum, tc.cars, up, down)
		}
	}
	if got := AverageAcceleration(124548, 1); got != 5108 {
		t.Errorf("AverageAcceleration(124548, 1) = %d, want 5108", got)
	}
	if got := AverageAcceleration(100, 0); got != 0 {
		t.Errorf("empty train acceleration = %d, want 0", got)
	}
}

// TestDrag verifies linear plus signed quadratic resistance
func TestDrag(t *testing.T) {
	cases := []struct {
		v, friction int32
		want        int32
	}{
		{0, 100, 0},
		{0x100000, 100, 10741},
		{-0x100000, 100, -10741},
		{0x100000, 0, 256 + 1048576},
	}
	for _, tc := range cases {
		if got := Drag(tc.v, tc.friction); got != tc.want {
			t.Errorf("Drag(%#x, %d) = %d, want %d", tc.v, tc.friction, got, tc.want)
		}
	}
}

// TestStandstillNudge verifies only small braking near standstill is overridden
func TestStandstillNudge(t *testing.T) {
	cases := []struct {
		acc, v int32
		want   int32
	}{
		{-100, 0, 300},
		{0, 0x8000, 400},
		{-600, 0, -600},
		{-100, 0x9000, -100},
		{10, 0, 10},
	}
	for _, tc := range cases {
		if got := StandstillNudge(tc.acc, tc.v); got != tc.want {
			t.Errorf("StandstillNudge(%d, %#x) = %d, want %d", tc.acc, tc.v, got, tc.want)
		}
	}
}

// TestDriveSeek verifies target seeking, reversal, unrestricted overspeed and water slopes
func TestDriveSeek(t *testing.T) {
	d := &Drive{Speed: 10, Accel: 50}
	train := &Train{Friction: 100, Cars: 1}

	if got, ok := d.Seek(-200, train, nil); !ok || got != 65536 {
		t.Errorf("Seek from rest = %d, %v, want 65536", got, ok)
	}
	train.Reversed = true
	if got, _ := d.Seek(-200, train, nil); got != -65536 {
		t.Errorf("reversed Seek = %d, want -65536", got)
	}
	train.Reversed = false

	free := &Drive{Speed: 10, Accel: 50, Flags: DriveUnrestricted}
	train.Velocity = 200000
	if _, ok := free.Seek(-200, train, nil); ok {
		t.Errorf("unrestricted drive engaged above target speed")
	}

	water := &Drive{Speed: 10, Accel: 50, Flags: DriveWater}
	spin := int32(900)
	slope := &Train{Friction: 100, Cars: 1, Velocity: 0x20000, Pitch: track.PitchUp25}
	if got, _ := water.Seek(-1000, slope, &spin); got != 12107 {
		t.Errorf("water climb Seek = %d, want 12107", got)
	}
	if spin != 0 {
		t.Errorf("spin = %d after water climb, want 0", spin)
	}
	slope.Velocity = 0x30000
	if got, _ := water.Seek(-1000, slope, nil); got != -1000 {
		t.Errorf("water overspeed on slope = %d, want braking suppressed (-1000)", got)
	}
}

// TestApplyCollision verifies the half exchange crashes on hard contact and boats only slow down
func TestApplyCollision(t *testing.T) {
	a, b := int32(0x100000), int32(0)
	if !ApplyCollision(&a, &b, &CarToCar) {
		t.Errorf("closing speed %#x did not crash", 0x100000)
	}
	if a != 0 || b != 0x80000 {
		t.Errorf("after exchange striker=%#x struck=%#x, want 0 and 0x80000", a, b)
	}

	a, b = 0x60000, 0x20000
	if ApplyCollision(&a, &b, &CarToCar) {
		t.Errorf("gentle contact crashed")
	}

	a, b = 0x100000, 0
	if ApplyCollision(&a, &b, &BoatToBoat) {
		t.Errorf("boats crashed")
	}
	if a != 0xC0000 || b != 0 {
		t.Errorf("boat bump striker=%#x struck=%#x, want 0xC0000 and 0", a, b)
	}
}

// TestElasticExchangeConservesSum verifies the bumper bounce keeps the signed velocity total
func TestElasticExchangeConservesSum(t *testing.T) {
	cases := [][2]int32{{0x30000, 0x10000}, {0x40000, -0x20000}, {0, 0x50000}}
	for _, c := range cases {
		a, b := c[0], c[1]
		ElasticExchange(&a, &b)
		if a+b != c[0]+c[1] {
			t.Errorf("sum %d -> %d", c[0]+c[1], a+b)
		}
		if a != c[1] || b != c[0] {
			t.Errorf("exchange of %v gave %d, %d", c, a, b)
		}
	}
}

// TestGForces verifies gravity projection and curvature terms
func TestGForces(t *testing.T) {
	cases := []struct {
		name       string
		pitch      track.Pitch
		v, vf, lf  int32
		vert, late int32
	}{
		{"level at rest", track.PitchFlat, 0, 0, 0, 100, 0},
		{"upside down at rest", track.PitchInverted, 0, 0, 0, -100, 0},
		{"dip", track.PitchFlat, 0x10000, 98, 0, 110, 0},
		{"right turn", track.PitchFlat, 0x10000, 0, -98, 100, -10},
	}
	for _, tc := range cases {
		vert, lat := GForces(tc.pitch, track.BankNone, tc.v, tc.vf, tc.lf)
		if vert != tc.vert || lat != tc.late {
			t.Errorf("%s: GForces = %d, %d, want %d, %d", tc.name, vert, lat, tc.vert, tc.late)
		}
	}
}

// TestUpStopDerails verifies the coaster and bobsleigh derailment limits
func TestUpStopDerails(t *testing.T) {
	cases := []struct {
		name       string
		rule       UpStop
		pitch      track.Pitch
		vert, late int32
		want       bool
	}{
		{"slow loop apex", UpStopCoaster, track.PitchInverted, -100, 0, true},
		{"fast enough apex", UpStopCoaster, track.PitchInverted, -50, 0, false},
		{"hard lateral", UpStopCoaster, track.PitchFlat, 100, 200, true},
		{"steep drop exempt", UpStopCoaster, track.PitchDown60, -100, 0, false},
		{"climb tighter limit", UpStopCoaster, track.PitchUp25, -50, 0, true},
		{"bobsleigh ignores lateral", UpStopBobsleigh, track.PitchFlat, 100, 200, false},
		{"bobsleigh airtime", UpStopBobsleigh, track.PitchFlat, -90, 0, true},
		{"up-stops never derail", UpStopNone, track.PitchInverted, -300, 400, false},
	}
	for _, tc := range cases {
		if got := tc.rule.Derails(tc.pitch, tc.vert, tc.late); got != tc.want {
			t.Errorf("%s: Derails = %v, want %v", tc.name, got, tc.want)
		}
	}
}

// TestUpdateSpin verifies torque, the momentum clamp and friction damping
func TestUpdateSpin(t *testing.T) {
	var s Spin
	seg := track.Segment{Element: track.ElemLeftQuarterTurn1}
	UpdateSpin(&s, SpinParams{Inertia: 2, Friction: 4}, seg, 0, 0x100000, false)
	if s.Angle != 6 || s.Momentum != 1440 {
		t.Errorf("after one tick angle=%d momentum=%d, want 6 and 1440", s.Angle, s.Momentum)
	}

	var r Spin
	right := track.Segment{Element: track.ElemRightQuarterTurn1}
	UpdateSpin(&r, SpinParams{Inertia: 2, Friction: 4}, right, 0, 0x100000, false)
	if r.Momentum != -1440 {
		t.Errorf("right turn momentum = %d, want -1440", r.Momentum)
	}

	var c Spin
	cork := track.Segment{Element: track.ElemLeftCorkscrew}
	UpdateSpin(&c, SpinParams{Inertia: 2, Friction: 4}, cork, 0, 0x10000, true)
	if c.Momentum >= 0 {
		t.Errorf("odd car on corkscrew momentum = %d, want negative", c.Momentum)
	}
}

// TestSwingBounded verifies a sustained lateral load never pushes the pendulum past its amplitude
func TestSwingBounded(t *testing.T) {
	var s Swing
	const amp = 0x2000
	for i := 0; i < 1000; i++ {
		UpdateSwing(&s, 150, amp)
		if s.Pos > amp || s.Pos < -amp {
			t.Fatalf("tick %d: swing position %d out of bounds", i, s.Pos)
		}
	}
	if got := SwingFrame(0, amp, 9); got != 4 {
		t.Errorf("SwingFrame(centre) = %d, want 4", got)
	}
	if got := SwingFrame(amp, amp, 9); got != 8 {
		t.Errorf("SwingFrame(full) = %d, want 8", got)
	}
}

// TestBumperAcceleration verifies drive seeking and coasting drag
func TestBumperAcceleration(t *testing.T) {
	d := &Drive{Speed: 6, Accel: 30}
	fwd := BumperAcceleration(0, 180, d, false)
	rev := BumperAcceleration(0, 180, d, true)
	if fwd != 21845 || rev != -21845 {
		t.Errorf("BumperAcceleration from rest = %d, %d, want 21845, -21845", fwd, rev)
	}
	if got := BumperAcceleration(0x20000, 180, nil, false); got >= 0 {
		t.Errorf("coasting acceleration = %d, want negative", got)
	}
}
