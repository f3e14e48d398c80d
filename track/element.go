package track

// ElementType enumerates the track pieces a layout is assembled from
type ElementType uint8

const (
	ElemFlat ElementType = iota
	ElemEndStation
	ElemBeginStation
	ElemMiddleStation
	ElemUp25
	ElemUp60
	ElemFlatToUp25
	ElemUp25ToUp60
	ElemUp60ToUp25
	ElemUp25ToFlat
	ElemDown25
	ElemDown60
	ElemFlatToDown25
	ElemDown25ToDown60
	ElemDown60ToDown25
	ElemDown25ToFlat
	ElemFlatToUp60
	ElemUp60ToFlat
	ElemFlatToDown60
	ElemDown60ToFlat
	ElemUp60ToUp90
	ElemUp90
	ElemUp90ToUp60
	ElemDown60ToDown90
	ElemDown90
	ElemDown90ToDown60
	ElemLeftQuarterTurn5
	ElemRightQuarterTurn5
	ElemLeftBankedQuarterTurn5
	ElemRightBankedQuarterTurn5
	ElemLeftQuarterTurn3
	ElemRightQuarterTurn3
	ElemLeftBankedQuarterTurn3
	ElemRightBankedQuarterTurn3
	ElemLeftQuarterTurn1
	ElemRightQuarterTurn1
	ElemFlatToLeftBank
	ElemFlatToRightBank
	ElemLeftBankToFlat
	ElemRightBankToFlat
	ElemLeftBank
	ElemRightBank
	ElemSBendLeft
	ElemSBendRight
	ElemLeftVerticalLoop
	ElemRightVerticalLoop
	ElemLeftCorkscrew
	ElemRightCorkscrew
	ElemBlockBrakes
	ElemBrakes
	ElemBooster
	ElemPoweredLift
	ElemCableLiftHill
	ElemOnRidePhoto
	ElemWaterSplash
	ElemBrakeForDrop
	ElemLogFlumeReverser
	ElemHeartlineTransferUp
	ElemHeartlineTransferDown
	ElemLeftReverser
	ElemRightReverser
	ElemRotationControlToggle
	ElemTowerBase
	ElemTowerSection
	ElemFlatCovered
	ElemCount
)

// ElementFlag describes static properties of an element type
type ElementFlag uint32

const (
	// FlagStation marks platform pieces where trains load
	FlagStation ElementFlag = 1 << iota
	// FlagBlockStart marks pieces that always start a block section
	FlagBlockStart
	// FlagLiftBlockStart marks pieces that start a block section when built as a lift hill
	FlagLiftBlockStart
	FlagInversion
	FlagCovered
	// FlagRollback lets a train roll back off a lift hill built from this piece
	FlagRollback
	FlagTurn
	FlagBanked
	FlagWater
	// FlagTurntable marks pieces whose cars rotate in place on part of the path
	FlagTurntable
	FlagTower
)

// Descriptor is the static definition of one element type
type Descriptor struct {
	Name       string
	StartSlope Slope
	EndSlope   Slope
	StartBank  Bank
	EndBank    Bank
	// Turn is the heading change in quarter turns, positive to the left
	Turn   int8
	Flags  ElementFlag
	GForce GForceProfile
	Spin   SpinProfile

	geometry geometry
	// turntable is the inclusive progress window where cars rotate in place
	turntable [2]uint16
}

// Has reports whether all bits of f are set
func (d *Descriptor) Has(f ElementFlag) bool {
	return d.Flags&f == f
}

// SpinProfile is the torque a track piece applies to free-spinning cars
// Torque is velocity >> (inertia + Shift) with the given sign, switching to the After pair past Split
type SpinProfile struct {
	Shift      uint8
	Sign       int8
	Split      uint16
	AfterShift uint8
	AfterSign  int8
	// Alternate spins every other car of a train the opposite way
	Alternate bool
}

// Torque returns the shift and sign in effect at a progress, sign 0 means no torque
func (s SpinProfile) Torque(progress uint16) (uint8, int8) {
	if s.Split != 0 && progress >= s.Split {
		return s.AfterShift, s.AfterSign
	}
	return s.Shift, s.Sign
}

// Info returns the descriptor of an element type
func Info(e ElementType) *Descriptor {
	if e >= ElemCount {
		return &descriptors[ElemFlat]
	}
	return &descriptors[e]
}

func (e ElementType) String() string {
	return Info(e).Name
}

// World geometry constants in world units
const (
	TileSize = 32
	HalfTile = 16

	deg25 = 26.565051177077994
	deg60 = 63.43494882292201
)

func straight(name string, slope Slope, length, pitch float64) Descriptor {
	return Descriptor{
		Name: name, StartSlope: slope, EndSlope: slope,
		geometry: geometry{kind: shapeArc, length: length, pitch0: pitch, pitch1: pitch},
	}
}

func transition(name string, from, to Slope, length, p0, p1 float64, vert int32) Descriptor {
	d := Descriptor{
		Name: name, StartSlope: from, EndSlope: to,
		geometry: geometry{kind: shapeArc, length: length, pitch0: p0, pitch1: p1},
	}
	if vert != 0 {
		d.GForce = GForceProfile{Kind: GForceFixed, Vertical: vert}
	}
	return d
}

func turn(name string, tiles int, left, banked bool) Descriptor {
	d := Descriptor{
		Name:  name,
		Turn:  -1,
		Flags: FlagTurn,
		geometry: geometry{
			kind:   shapeTurn,
			radius: float64(tiles*TileSize - HalfTile),
			sign:   -1,
		},
	}
	if left {
		d.Turn = 1
		d.geometry.sign = 1
	}
	if banked {
		d.Flags |= FlagBanked
		d.StartBank, d.EndBank = BankRight45, BankRight45
		d.geometry.bank0, d.geometry.bank1 = -45, -45
		if left {
			d.StartBank, d.EndBank = BankLeft45, BankLeft45
			d.geometry.bank0, d.geometry.bank1 = 45, 45
		}
	}
	return d
}

func bankTransition(name string, from, to float64) Descriptor {
	return Descriptor{
		Name:      name,
		StartBank: BankFromAngle(int32(from * 10)),
		EndBank:   BankFromAngle(int32(to * 10)),
		Flags:     FlagBanked,
		geometry:  geometry{kind: shapeArc, length: TileSize, bank0: from, bank1: to},
	}
}

func fixed(vert, lat int32) GForceProfile {
	return GForceProfile{Kind: GForceFixed, Vertical: vert, Lateral: lat}
}

func spin(shift uint8, sign int8) SpinProfile {
	return SpinProfile{Shift: shift, Sign: sign}
}

var descriptors = [ElemCount]Descriptor{}

func init() {
	d := &descriptors

	d[ElemFlat] = straight("flat", SlopeFlat, TileSize, 0)
	d[ElemEndStation] = straight("end station", SlopeFlat, TileSize, 0)
	d[ElemEndStation].Flags = FlagStation | FlagBlockStart
	d[ElemBeginStation] = straight("begin station", SlopeFlat, TileSize, 0)
	d[ElemBeginStation].Flags = FlagStation
	d[ElemMiddleStation] = straight("middle station", SlopeFlat, TileSize, 0)
	d[ElemMiddleStation].Flags = FlagStation

	d[ElemUp25] = straight("25 up", SlopeUp25, TileSize, deg25)
	d[ElemUp60] = straight("60 up", SlopeUp60, TileSize, deg60)
	d[ElemFlatToUp25] = transition("flat to 25 up", SlopeFlat, SlopeUp25, TileSize, 0, deg25, 103)
	d[ElemUp25ToUp60] = transition("25 up to 60 up", SlopeUp25, SlopeUp60, TileSize, deg25, deg60, 82)
	d[ElemUp60ToUp25] = transition("60 up to 25 up", SlopeUp60, SlopeUp25, TileSize, deg60, deg25, -82)
	d[ElemUp25ToFlat] = transition("25 up to flat", SlopeUp25, SlopeFlat, TileSize, deg25, 0, -103)
	d[ElemUp25ToFlat].Flags = FlagLiftBlockStart | FlagRollback

	d[ElemDown25] = straight("25 down", SlopeDown25, TileSize, -deg25)
	d[ElemDown60] = straight("60 down", SlopeDown60, TileSize, -deg60)
	d[ElemFlatToDown25] = transition("flat to 25 down", SlopeFlat, SlopeDown25, TileSize, 0, -deg25, -103)
	d[ElemDown25ToDown60] = transition("25 down to 60 down", SlopeDown25, SlopeDown60, TileSize, -deg25, -deg60, -82)
	d[ElemDown60ToDown25] = transition("60 down to 25 down", SlopeDown60, SlopeDown25, TileSize, -deg60, -deg25, 82)
	d[ElemDown25ToFlat] = transition("25 down to flat", SlopeDown25, SlopeFlat, TileSize, -deg25, 0, 103)

	d[ElemFlatToUp60] = transition("flat to 60 up", SlopeFlat, SlopeUp60, 2*TileSize, 0, deg60, 56)
	d[ElemUp60ToFlat] = transition("60 up to flat", SlopeUp60, SlopeFlat, 2*TileSize, deg60, 0, -56)
	d[ElemUp60ToFlat].Flags = FlagLiftBlockStart | FlagRollback
	d[ElemFlatToDown60] = transition("flat to 60 down", SlopeFlat, SlopeDown60, 2*TileSize, 0, -deg60, -56)
	d[ElemDown60ToFlat] = transition("60 down to flat", SlopeDown60, SlopeFlat, 2*TileSize, -deg60, 0, 56)

	d[ElemUp60ToUp90] = transition("60 up to 90 up", SlopeUp60, SlopeUp90, 8, deg60, 90, 110)
	d[ElemUp90] = Descriptor{Name: "90 up", StartSlope: SlopeUp90, EndSlope: SlopeUp90,
		geometry: geometry{kind: shapeVertical, rise: TileSize}}
	d[ElemUp90ToUp60] = transition("90 up to 60 up", SlopeUp90, SlopeUp60, 8, 90, deg60, -110)
	d[ElemDown60ToDown90] = transition("60 down to 90 down", SlopeDown60, SlopeDown90, 8, -deg60, -90, -110)
	d[ElemDown90] = Descriptor{Name: "90 down", StartSlope: SlopeDown90, EndSlope: SlopeDown90,
		geometry: geometry{kind: shapeVertical, rise: -TileSize}}
	d[ElemDown90ToDown60] = transition("90 down to 60 down", SlopeDown90, SlopeDown60, 8, -90, -deg60, 110)

	d[ElemLeftQuarterTurn5] = turn("left quarter turn 5 tiles", 5, true, false)
	d[ElemLeftQuarterTurn5].GForce = fixed(0, 98)
	d[ElemLeftQuarterTurn5].Spin = spin(8, 1)
	d[ElemRightQuarterTurn5] = turn("right quarter turn 5 tiles", 5, false, false)
	d[ElemRightQuarterTurn5].GForce = fixed(0, -98)
	d[ElemRightQuarterTurn5].Spin = spin(8, -1)
	d[ElemLeftBankedQuarterTurn5] = turn("banked left quarter turn 5 tiles", 5, true, true)
	d[ElemLeftBankedQuarterTurn5].GForce = fixed(200, 160)
	d[ElemLeftBankedQuarterTurn5].Spin = spin(8, 1)
	d[ElemRightBankedQuarterTurn5] = turn("banked right quarter turn 5 tiles", 5, false, true)
	d[ElemRightBankedQuarterTurn5].GForce = fixed(200, -160)
	d[ElemRightBankedQuarterTurn5].Spin = spin(8, -1)

	d[ElemLeftQuarterTurn3] = turn("left quarter turn 3 tiles", 3, true, false)
	d[ElemLeftQuarterTurn3].GForce = fixed(0, 59)
	d[ElemLeftQuarterTurn3].Spin = spin(7, 1)
	d[ElemRightQuarterTurn3] = turn("right quarter turn 3 tiles", 3, false, false)
	d[ElemRightQuarterTurn3].GForce = fixed(0, -59)
	d[ElemRightQuarterTurn3].Spin = spin(7, -1)
	d[ElemLeftBankedQuarterTurn3] = turn("banked left quarter turn 3 tiles", 3, true, true)
	d[ElemLeftBankedQuarterTurn3].GForce = fixed(100, 100)
	d[ElemLeftBankedQuarterTurn3].Spin = spin(7, 1)
	d[ElemRightBankedQuarterTurn3] = turn("banked right quarter turn 3 tiles", 3, false, true)
	d[ElemRightBankedQuarterTurn3].GForce = fixed(100, -100)
	d[ElemRightBankedQuarterTurn3].Spin = spin(7, -1)

	d[ElemLeftQuarterTurn1] = turn("left quarter turn 1 tile", 1, true, false)
	d[ElemLeftQuarterTurn1].GForce = fixed(0, 45)
	d[ElemLeftQuarterTurn1].Spin = spin(5, 1)
	d[ElemRightQuarterTurn1] = turn("right quarter turn 1 tile", 1, false, false)
	d[ElemRightQuarterTurn1].GForce = fixed(0, -45)
	d[ElemRightQuarterTurn1].Spin = spin(5, -1)

	d[ElemFlatToLeftBank] = bankTransition("flat to left bank", 0, 45)
	d[ElemFlatToRightBank] = bankTransition("flat to right bank", 0, -45)
	d[ElemLeftBankToFlat] = bankTransition("left bank to flat", 45, 0)
	d[ElemRightBankToFlat] = bankTransition("right bank to flat", -45, 0)
	d[ElemLeftBank] = bankTransition("left bank", 45, 45)
	d[ElemRightBank] = bankTransition("right bank", -45, -45)

	d[ElemSBendLeft] = Descriptor{Name: "s-bend left", Flags: FlagTurn,
		GForce:   GForceProfile{Kind: GForceSplit, Lateral: 98, Split: 48},
		Spin:     SpinProfile{Shift: 8, Sign: 1, Split: 48, AfterShift: 9, AfterSign: -1},
		geometry: geometry{kind: shapeSBend, length: 3 * TileSize, lateral: TileSize}}
	d[ElemSBendRight] = Descriptor{Name: "s-bend right", Flags: FlagTurn,
		GForce:   GForceProfile{Kind: GForceSplit, Lateral: -98, Split: 48},
		Spin:     SpinProfile{Shift: 8, Sign: -1, Split: 48, AfterShift: 9, AfterSign: 1},
		geometry: geometry{kind: shapeSBend, length: 3 * TileSize, lateral: -TileSize}}

	d[ElemLeftVerticalLoop] = Descriptor{Name: "left vertical loop", Flags: FlagInversion,
		GForce:   GForceProfile{Kind: GForceLoop},
		geometry: geometry{kind: shapeLoop, length: 2 * TileSize, rise: 40, lateral: TileSize}}
	d[ElemRightVerticalLoop] = Descriptor{Name: "right vertical loop", Flags: FlagInversion,
		GForce:   GForceProfile{Kind: GForceLoop},
		geometry: geometry{kind: shapeLoop, length: 2 * TileSize, rise: 40, lateral: -TileSize}}
	d[ElemLeftCorkscrew] = Descriptor{Name: "left corkscrew", Turn: 1, Flags: FlagInversion | FlagTurn,
		GForce:   fixed(52, 70),
		Spin:     SpinProfile{Shift: 6, Sign: 1, Alternate: true},
		geometry: geometry{kind: shapeCorkscrew, radius: 3*TileSize - HalfTile, rise: TileSize, sign: 1}}
	d[ElemRightCorkscrew] = Descriptor{Name: "right corkscrew", Turn: -1, Flags: FlagInversion | FlagTurn,
		GForce:   fixed(52, -70),
		Spin:     SpinProfile{Shift: 6, Sign: -1, Alternate: true},
		geometry: geometry{kind: shapeCorkscrew, radius: 3*TileSize - HalfTile, rise: TileSize, sign: -1}}

	d[ElemBlockBrakes] = straight("block brakes", SlopeFlat, TileSize, 0)
	d[ElemBlockBrakes].Flags = FlagBlockStart
	d[ElemBrakes] = straight("brakes", SlopeFlat, TileSize, 0)
	d[ElemBooster] = straight("booster", SlopeFlat, TileSize, 0)
	d[ElemPoweredLift] = straight("powered lift", SlopeUp25, TileSize, deg25)
	d[ElemCableLiftHill] = straight("cable lift hill", SlopeUp25, 6*TileSize, deg25)
	d[ElemCableLiftHill].Flags = FlagBlockStart
	d[ElemCableLiftHill].GForce = fixed(-103, 0)
	d[ElemOnRidePhoto] = straight("on-ride photo", SlopeFlat, TileSize, 0)

	d[ElemWaterSplash] = Descriptor{Name: "water splash", Flags: FlagWater,
		GForce: GForceProfile{Kind: GForcePhased, Phases: []GForcePhase{
			{Until: 32, Vertical: -150}, {Until: 64, Vertical: 150}, {Until: 96, Vertical: 0},
			{Until: 128, Vertical: 150}, {Until: 0xFFFF, Vertical: -150},
		}},
		geometry: geometry{kind: shapeDip, length: 5 * TileSize, rise: HalfTile}}
	d[ElemBrakeForDrop] = straight("brake for drop", SlopeFlat, TileSize, 0)
	d[ElemBrakeForDrop].GForce = fixed(-56, 0)
	d[ElemLogFlumeReverser] = straight("log flume reverser", SlopeFlat, 2*TileSize, 0)
	d[ElemLogFlumeReverser].Flags = FlagWater

	d[ElemHeartlineTransferUp] = Descriptor{Name: "heartline transfer up",
		GForce: GForceProfile{Kind: GForcePhased, Phases: []GForcePhase{
			{Until: 32, Vertical: 103}, {Until: 64, Vertical: -103}, {Until: 96, Vertical: 0},
			{Until: 128, Vertical: 103}, {Until: 0xFFFF, Vertical: -103},
		}},
		geometry: geometry{kind: shapeShift, length: 5 * TileSize, rise: TileSize}}
	d[ElemHeartlineTransferDown] = Descriptor{Name: "heartline transfer down",
		GForce: GForceProfile{Kind: GForcePhased, Phases: []GForcePhase{
			{Until: 32, Vertical: -103}, {Until: 64, Vertical: 103}, {Until: 96, Vertical: 0},
			{Until: 128, Vertical: -103}, {Until: 0xFFFF, Vertical: 103},
		}},
		geometry: geometry{kind: shapeShift, length: 5 * TileSize, rise: -TileSize}}

	d[ElemLeftReverser] = straight("left reverser", SlopeFlat, 3*TileSize, 0)
	d[ElemLeftReverser].Flags = FlagTurntable
	d[ElemLeftReverser].turntable = [2]uint16{30, 66}
	d[ElemRightReverser] = straight("right reverser", SlopeFlat, 3*TileSize, 0)
	d[ElemRightReverser].Flags = FlagTurntable
	d[ElemRightReverser].turntable = [2]uint16{30, 66}
	d[ElemRotationControlToggle] = straight("rotation control toggle", SlopeFlat, TileSize, 0)

	d[ElemTowerBase] = Descriptor{Name: "tower base", StartSlope: SlopeUp90, EndSlope: SlopeUp90,
		Flags:    FlagStation | FlagTower,
		geometry: geometry{kind: shapeVertical, rise: TileSize}}
	d[ElemTowerSection] = Descriptor{Name: "tower section", StartSlope: SlopeUp90, EndSlope: SlopeUp90,
		Flags:    FlagTower,
		geometry: geometry{kind: shapeVertical, rise: TileSize}}
	d[ElemFlatCovered] = straight("flat covered", SlopeFlat, TileSize, 0)
	d[ElemFlatCovered].Flags = FlagCovered

	buildPaths()
}
