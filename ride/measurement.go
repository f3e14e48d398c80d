package ride

import (
	"time"

	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/track"
	"github.com/lixenwraith/coaster/vmath"
)

// TurnKind buckets counted turns
type TurnKind uint8

const (
	TurnFlat TurnKind = iota
	TurnBanked
	TurnSloped
)

// Leg is the distance and speed-sample count between two stations
type Leg struct {
	Length int64
	Time   uint32
}

const maxLegs = 4

type testingFlag uint8

const (
	testTurnLeft testingFlag = 1 << iota
	testTurnRight
	testTurnBanked
	testTurnSloped
	testDropDown
	testDropUp
	testPoweredLift
	testSheltered
)

// Measurements accumulate the statistics of a test run
type Measurements struct {
	MaxSpeed      int32
	AverageSpeed  int64
	Legs          [maxLegs]Leg
	MaxVerticalG  int32
	MinVerticalG  int32
	MaxLateralG   int32
	AirTime       uint32
	Drops         uint8
	PoweredDrops  uint8
	HighestDrop   int32
	Inversions    uint8
	Turns         [3][4]uint8
	Sheltered     uint8
	ShelteredSpan int64
	SplashFast    bool

	prevVertical, prevLateral int32
	sampleClock               uint8
	flags                     testingFlag
	turnRun                   uint8
	dropStart                 int32
	tile                      vmath.Vec3
}

// Sample is what the head car reports each tick while testing
type Sample struct {
	Velocity     int32
	Acceleration int32
	Vertical     int32
	Lateral      int32
	Position     vmath.Vec3
	Segment      track.Segment
	// Circuit is the lap in progress, only the first lap adds length
	Circuit uint8
	OnLift  bool
}

// Reset clears every statistic before a test run
func (m *Measurements) Reset() {
	*m = Measurements{MaxVerticalG: 100, MinVerticalG: 100, tile: vmath.Vec3{X: -1, Y: -1, Z: -1}}
}

// Record folds one tick of the testing vehicle into the statistics
func (m *Measurements) Record(s Sample, leg uint8, gforces bool) {
	if leg >= maxLegs {
		leg = maxLegs - 1
	}
	m.sampleClock = (m.sampleClock + 1) % parameter.TestAverageSpeedInterval

	speed := vmath.Abs(s.Velocity)
	if speed > m.MaxSpeed {
		m.MaxSpeed = speed
	}
	if m.sampleClock == 0 && speed > parameter.TestAverageSpeedMin {
		m.AverageSpeed += int64(speed)
		m.Legs[leg].Time++
	}

	step := vmath.Abs(((s.Velocity + s.Acceleration) >> parameter.DistanceShift) * parameter.DistanceScale)
	if s.Circuit == 0 {
		m.Legs[leg].Length += int64(step)
	}

	if gforces {
		vert := (s.Vertical + m.prevVertical) >> 1
		lat := (s.Lateral + m.prevLateral) >> 1
		m.prevVertical, m.prevLateral = vert, lat
		if vert <= 0 {
			m.AirTime++
		}
		if vert > m.MaxVerticalG {
			m.MaxVerticalG = vert
		}
		if vert < m.MinVerticalG {
			m.MinVerticalG = vert
		}
		if lat = vmath.Abs(lat); lat > m.MaxLateralG {
			m.MaxLateralG = lat
		}
	}

	tile := vmath.Vec3{X: s.Position.X / track.TileSize, Y: s.Position.Y / track.TileSize, Z: s.Position.Z / 8}
	if tile != m.tile {
		m.tile = tile
		m.enterTile(s)
	}
	m.shelter(s, step)
}

func (m *Measurements) enterTile(s Sample) {
	d := s.Segment.Descriptor()

	if s.Segment.Element == track.ElemPoweredLift || s.OnLift {
		if m.flags&testPoweredLift == 0 {
			m.flags |= testPoweredLift
			if m.PoweredDrops < 0xFF {
				m.PoweredDrops++
			}
		}
	} else {
		m.flags &^= testPoweredLift
	}
	if s.Segment.Element == track.ElemWaterSplash && s.Velocity >= 0xB0000 {
		m.SplashFast = true
	}

	m.countTurn(d)
	m.countDrop(d, s)

	if d.Has(track.FlagInversion) && m.Inversions < 0x1F {
		m.Inversions++
	}
}

func (m *Measurements) countTurn(d *track.Descriptor) {
	left, right := d.Turn > 0, d.Turn < 0
	switch {
	case m.flags&testTurnLeft != 0 && left, m.flags&testTurnRight != 0 && right:
		m.turnRun++
	case m.flags&(testTurnLeft|testTurnRight) != 0:
		kind := TurnFlat
		if m.flags&testTurnBanked != 0 {
			kind = TurnBanked
		} else if m.flags&testTurnSloped != 0 {
			kind = TurnSloped
		}
		run := m.turnRun
		if run > 3 {
			run = 3
		}
		if m.Turns[kind][run] < 0xFF {
			m.Turns[kind][run]++
		}
		m.flags &^= testTurnLeft | testTurnRight | testTurnBanked | testTurnSloped
	default:
		if left || right {
			m.turnRun = 0
			if left {
				m.flags |= testTurnLeft
			} else {
				m.flags |= testTurnRight
			}
			if d.Has(track.FlagBanked) {
				m.flags |= testTurnBanked
			}
			if d.StartSlope != track.SlopeFlat || d.EndSlope != track.SlopeFlat {
				m.flags |= testTurnSloped
			}
		}
	}
}

func (m *Measurements) countDrop(d *track.Descriptor, s Sample) {
	down := d.StartSlope.Down() || d.EndSlope.Down()
	up := d.StartSlope.Up() || d.EndSlope.Up()
	z := s.Position.Z

	if m.flags&testDropDown != 0 {
		if s.Velocity < 0 || !down {
			m.flags &^= testDropDown
			m.closeDrop(z)
		}
	} else if down && s.Velocity >= 0 {
		m.flags = m.flags&^testDropUp | testDropDown
		m.openDrop(z)
	}

	if m.flags&testDropUp != 0 {
		if s.Velocity > 0 || !up {
			m.flags &^= testDropUp
			m.closeDrop(z)
		}
	} else if up && s.Velocity <= 0 {
		m.flags = m.flags&^testDropDown | testDropUp
		m.openDrop(z)
	}
}

func (m *Measurements) openDrop(z int32) {
	if m.Drops < 0x3F {
		m.Drops++
	}
	m.dropStart = z
}

func (m *Measurements) closeDrop(z int32) {
	if h := m.dropStart - z; h > m.HighestDrop {
		m.HighestDrop = h
	}
}

func (m *Measurements) shelter(s Sample, step int32) {
	if !s.Segment.Descriptor().Has(track.FlagCovered) {
		m.flags &^= testSheltered
		return
	}
	if m.flags&testSheltered == 0 {
		m.flags |= testSheltered
		if m.Sheltered < 0x1F {
			m.Sheltered++
		}
	}
	if s.Velocity+s.Acceleration >= 0 {
		m.ShelteredSpan += int64(step)
	}
}

// TestResult is the summary of a finished test run
type TestResult struct {
	Ride          ID           `json:"ride"`
	Name          string       `json:"name"`
	Finished      time.Time    `json:"finished"`
	MaxSpeed      int32        `json:"max_speed"`
	AverageSpeed  int32        `json:"average_speed"`
	Length        int32        `json:"length"`
	RideTime      uint32       `json:"ride_time"`
	MaxVerticalG  int32        `json:"max_vertical_g"`
	MinVerticalG  int32        `json:"min_vertical_g"`
	MaxLateralG   int32        `json:"max_lateral_g"`
	AirTime       uint32       `json:"air_time"`
	Drops         uint8        `json:"drops"`
	HighestDrop   int32        `json:"highest_drop"`
	Inversions    uint8        `json:"inversions"`
	Turns         [3][4]uint8  `json:"turns"`
	Sheltered     uint8        `json:"sheltered"`
	ShelteredSpan int32        `json:"sheltered_length"`
	Legs          [maxLegs]Leg `json:"legs"`
}

// Result compacts empty legs to the front and averages the speed samples
func (m *Measurements) Result(stations int) TestResult {
	if stations > maxLegs {
		stations = maxLegs
	}
	for i := stations - 1; i >= 1; i-- {
		if m.Legs[i-1].Time != 0 {
			continue
		}
		m.Legs[i-1], m.Legs[i] = m.Legs[i], m.Legs[i-1]
	}
	var total uint32
	var length int64
	for i := 0; i < stations; i++ {
		total += m.Legs[i].Time
		length += m.Legs[i].Length
	}
	if total == 0 {
		total = 1
	}
	return TestResult{
		MaxSpeed:      m.MaxSpeed,
		AverageSpeed:  int32(m.AverageSpeed / int64(total)),
		Length:        int32(length >> 16),
		RideTime:      total * parameter.TestAverageSpeedInterval,
		MaxVerticalG:  m.MaxVerticalG,
		MinVerticalG:  m.MinVerticalG,
		MaxLateralG:   m.MaxLateralG,
		AirTime:       m.AirTime,
		Drops:         m.Drops + m.PoweredDrops,
		HighestDrop:   m.HighestDrop,
		Inversions:    m.Inversions,
		Turns:         m.Turns,
		Sheltered:     m.Sheltered,
		ShelteredSpan: int32(m.ShelteredSpan >> 16),
		Legs:          m.Legs,
	}
}

// StartTest begins measuring from the station a vehicle is leaving
func (r *Ride) StartTest(station int8) {
	r.Set(LifecycleTesting)
	r.Clear(LifecycleNoRawStats)
	r.Measurements.Reset()
	r.TestSegment = 0
	r.TestStation = station
}

// AdvanceTest moves measuring to the next station leg and reports whether that was the last one
func (r *Ride) AdvanceTest(station int8) bool {
	next := int(r.TestSegment) + 1
	if next >= len(r.Stations) {
		return true
	}
	r.TestSegment = uint8(next)
	r.TestStation = station
	return false
}

// FinishTest closes the running test and stores its result
func (r *Ride) FinishTest(now time.Time) TestResult {
	r.Clear(LifecycleTesting)
	r.Set(LifecycleTested)
	res := r.Measurements.Result(len(r.Stations))
	res.Ride = r.ID
	res.Name = r.Name
	res.Finished = now
	r.Result = &res
	return res
}

// AbandonTest marks a ride tested without raw statistics, used by free-roaming boats
func (r *Ride) AbandonTest() {
	r.Clear(LifecycleTesting)
	r.Set(LifecycleTested | LifecycleNoRawStats)
}
