package track

import (
	"math"

	"github.com/lixenwraith/coaster/vmath"
)

// WayPoint is one precomputed sample along an element path, relative to the segment origin
type WayPoint struct {
	X, Y, Z int16
	// Direction is the 32-step heading of the car body
	Direction uint8
	Pitch     Pitch
	Bank      Bank
	// Turntable is set while the car rotates in place
	Turntable bool
}

// Point is a world position in world units
type Point = vmath.Vec3

// Offset returns p displaced by a way-point
func Offset(p Point, w WayPoint) Point {
	return Point{X: p.X + int32(w.X), Y: p.Y + int32(w.Y), Z: p.Z + int32(w.Z)}
}

type shapeKind uint8

const (
	shapeArc shapeKind = iota
	shapeTurn
	shapeLoop
	shapeCorkscrew
	shapeVertical
	shapeShift
	shapeDip
	shapeSBend
)

// geometry is the continuous centre line of an element in its local frame
// The local frame starts at the origin heading +X with +Y to the left
type geometry struct {
	kind           shapeKind
	length         float64
	pitch0, pitch1 float64
	bank0, bank1   float64
	radius         float64
	rise           float64
	lateral        float64
	sign           float64
}

type sample struct {
	x, y, z, roll float64
}

func smooth(t float64) float64 {
	return t * t * (3 - 2*t)
}

func rad(deg float64) float64 {
	return deg * math.Pi / 180
}

func (g geometry) at(t float64) sample {
	roll := g.bank0 + (g.bank1-g.bank0)*smooth(t)
	switch g.kind {
	case shapeArc:
		p0, p1 := rad(g.pitch0), rad(g.pitch1)
		delta := p1 - p0
		if delta == 0 {
			s := g.length / math.Cos(p0)
			return sample{x: g.length * t, z: s * t * math.Sin(p0), roll: roll}
		}
		s := g.length * delta / (math.Sin(p1) - math.Sin(p0))
		return sample{
			x:    s * (math.Sin(p0+delta*t) - math.Sin(p0)) / delta,
			z:    s * (math.Cos(p0) - math.Cos(p0+delta*t)) / delta,
			roll: roll,
		}
	case shapeTurn:
		phi := math.Pi / 2 * t
		return sample{x: g.radius * math.Sin(phi), y: g.sign * g.radius * (1 - math.Cos(phi)), roll: roll}
	case shapeLoop:
		theta := 2 * math.Pi * t
		return sample{
			x: g.length*t + g.rise*math.Sin(theta),
			y: g.lateral * smooth(t),
			z: g.rise * (1 - math.Cos(theta)),
		}
	case shapeCorkscrew:
		phi := math.Pi / 2 * t
		return sample{
			x:    g.radius * math.Sin(phi),
			y:    g.sign * g.radius * (1 - math.Cos(phi)),
			z:    g.rise * math.Sin(math.Pi*t),
			roll: g.sign * 360 * t,
		}
	case shapeVertical:
		return sample{z: g.rise * t}
	case shapeShift:
		return sample{x: g.length * t, z: g.rise * smooth(t)}
	case shapeDip:
		return sample{x: g.length * t, z: -g.rise * math.Sin(math.Pi*t)}
	case shapeSBend:
		return sample{x: g.length * t, y: g.lateral * smooth(t)}
	}
	return sample{}
}

// extent bounds the arc length, used to pick a sampling density
func (g geometry) extent() float64 {
	switch g.kind {
	case shapeArc:
		return g.arcLength() + g.length
	case shapeTurn:
		return g.radius * math.Pi / 2
	case shapeLoop:
		return g.length + 2*math.Pi*g.rise
	case shapeCorkscrew:
		return g.radius*math.Pi/2 + 2*g.rise
	case shapeVertical:
		return math.Abs(g.rise)
	case shapeShift, shapeSBend:
		return g.length + math.Abs(g.rise) + math.Abs(g.lateral)
	case shapeDip:
		return g.length + 2*g.rise
	}
	return TileSize
}

func (g geometry) arcLength() float64 {
	p0, p1 := rad(g.pitch0), rad(g.pitch1)
	delta := p1 - p0
	if delta == 0 {
		return g.length / math.Cos(p0)
	}
	return math.Abs(g.length * delta / (math.Sin(p1) - math.Sin(p0)))
}

// fixedYaw reports shapes whose body heading stays on the entry axis
func (g geometry) fixedYaw() bool {
	switch g.kind {
	case shapeTurn, shapeCorkscrew, shapeSBend:
		return false
	}
	return true
}

// attitude returns yaw, pitch and roll in degrees at t from the local tangent
func (g geometry) attitude(t float64) (yaw, pitch, roll float64) {
	const h = 1e-4
	t0, t1 := math.Max(0, t-h), math.Min(1, t+h)
	a, b := g.at(t0), g.at(t1)
	tx, ty, tz := b.x-a.x, b.y-a.y, b.z-a.z

	fwd := tx
	if !g.fixedYaw() {
		yaw = math.Atan2(ty, tx) * 180 / math.Pi
		fwd = math.Hypot(tx, ty)
	}
	pitch = math.Atan2(tz, fwd) * 180 / math.Pi
	roll = g.at(t).roll
	return yaw, pitch, roll
}

func yawToDirection(yaw float64) uint8 {
	n := int(math.Round(yaw / 11.25))
	return uint8(((n % 32) + 32) % 32)
}

func round32(v float64) int32 {
	return int32(math.Round(v))
}

// trace samples a geometry into unit way-point moves, excluding the exit point
func trace(g geometry) ([]WayPoint, Point) {
	n := int(g.extent()*8) + 16
	var out []WayPoint
	var last Point
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n)
		s := g.at(t)
		p := Point{X: round32(s.x), Y: round32(s.y), Z: round32(s.z)}
		if len(out) > 0 && p == last {
			continue
		}
		yaw, pitch, roll := g.attitude(t)
		out = append(out, WayPoint{
			X: int16(p.X), Y: int16(p.Y), Z: int16(p.Z),
			Direction: yawToDirection(yaw),
			Pitch:     PitchFromAngle(int32(math.Round(pitch * 10))),
			Bank:      BankFromAngle(int32(math.Round(roll * 10))),
		})
		last = p
	}
	end := g.at(1)
	exit := Point{X: round32(end.x), Y: round32(end.y), Z: round32(end.z)}
	for len(out) > 1 {
		w := out[len(out)-1]
		if int32(w.X) != exit.X || int32(w.Y) != exit.Y || int32(w.Z) != exit.Z {
			break
		}
		out = out[:len(out)-1]
	}
	return out, exit
}

// applyTurntable spins the body heading one full turn across the window
func applyTurntable(path []WayPoint, window [2]uint16) {
	from, to := int(window[0]), int(window[1])
	if to >= len(path) || to <= from {
		return
	}
	span := float64(to - from)
	for i := from; i <= to; i++ {
		path[i].Direction = yawToDirection(360 * float64(i-from) / span)
		path[i].Turntable = true
	}
}

func rotate(x, y int32, direction uint8) (int32, int32) {
	switch direction & 3 {
	case 1:
		return -y, x
	case 2:
		return -x, -y
	case 3:
		return y, -x
	}
	return x, y
}

var (
	paths [ElemCount][4][]WayPoint
	exits [ElemCount][4]Point
)

func buildPaths() {
	for e := ElemFlat; e < ElemCount; e++ {
		desc := &descriptors[e]
		base, exit := trace(desc.geometry)
		if desc.Has(FlagTurntable) {
			applyTurntable(base, desc.turntable)
		}
		for dir := uint8(0); dir < 4; dir++ {
			rotated := make([]WayPoint, len(base))
			for i, w := range base {
				x, y := rotate(int32(w.X), int32(w.Y), dir)
				w.X, w.Y = int16(x), int16(y)
				w.Direction = (w.Direction + 8*dir) & 31
				rotated[i] = w
			}
			paths[e][dir] = rotated
			x, y := rotate(exit.X, exit.Y, dir)
			exits[e][dir] = Point{X: x, Y: y, Z: exit.Z}
		}
	}
}

// Path returns the way-points of an element laid in a direction (0..3)
func Path(e ElementType, direction uint8) []WayPoint {
	if e >= ElemCount {
		e = ElemFlat
	}
	return paths[e][direction&3]
}

// Length returns the number of way-points on an element
func Length(e ElementType) uint16 {
	return uint16(len(Path(e, 0)))
}

// Exit returns the offset of the next element's origin and the heading it continues in
func Exit(e ElementType, direction uint8) (Point, uint8) {
	if e >= ElemCount {
		e = ElemFlat
	}
	turn := int(Info(e).Turn)
	return exits[e][direction&3], uint8((int(direction) + turn) & 3)
}
