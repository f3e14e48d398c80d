package track

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/coaster/vmath"
)

type node struct {
	seg        Segment
	next, prev SegmentID
}

// Layout is an in-memory track graph assembled piece by piece
// Each appended element starts where the previous one exits
type Layout struct {
	nodes     []node
	cursor    Point
	direction uint8
	stations  []SegmentID
}

// SegmentOption adjusts a segment as it is appended
type SegmentOption func(*Segment)

// WithLiftHill builds a chain lift into the piece
func WithLiftHill() SegmentOption {
	return func(s *Segment) { s.LiftHill = true }
}

// WithBrakeSpeed sets the target speed of a brake piece
func WithBrakeSpeed(speed uint8) SegmentOption {
	return func(s *Segment) { s.BrakeSpeed = speed }
}

// WithStation assigns a platform piece to a station index
func WithStation(index int8) SegmentOption {
	return func(s *Segment) { s.Station = index }
}

// NewLayout starts an empty layout at origin heading in direction (0..3)
func NewLayout(origin Point, direction uint8) *Layout {
	return &Layout{cursor: origin, direction: direction & 3}
}

// Append places an element at the current cursor and links it after the last piece
func (l *Layout) Append(e ElementType, opts ...SegmentOption) SegmentID {
	id := SegmentID(len(l.nodes))
	seg := Segment{ID: id, Element: e, Direction: l.direction, Origin: l.cursor, Station: -1}
	for _, opt := range opts {
		opt(&seg)
	}
	if seg.Station < 0 && Info(e).Has(FlagStation) {
		seg.Station = 0
	}

	n := node{seg: seg, next: NoSegment, prev: NoSegment}
	if id > 0 {
		n.prev = id - 1
		l.nodes[id-1].next = id
	}
	l.nodes = append(l.nodes, n)

	offset, dir := Exit(e, l.direction)
	l.cursor = vmath.V3Add(l.cursor, offset)
	l.direction = dir

	if e == ElemEndStation {
		l.stations = append(l.stations, id)
	}
	return id
}

// Close links the last piece back to the first, forming a circuit
func (l *Layout) Close() {
	if len(l.nodes) < 2 {
		return
	}
	last := SegmentID(len(l.nodes) - 1)
	l.Link(last, 0)
}

// Link connects from's exit to to's entry, replacing existing links
func (l *Layout) Link(from, to SegmentID) {
	if !l.valid(from) || !l.valid(to) {
		return
	}
	l.nodes[from].next = to
	l.nodes[to].prev = from
}

// Cursor returns the position and heading where the next piece would be placed
func (l *Layout) Cursor() (Point, uint8) {
	return l.cursor, l.direction
}

// Len returns the number of placed pieces
func (l *Layout) Len() int {
	return len(l.nodes)
}

// StationEnd returns the end-station segment of station i
func (l *Layout) StationEnd(i int) (SegmentID, bool) {
	if i < 0 || i >= len(l.stations) {
		return NoSegment, false
	}
	return l.stations[i], true
}

func (l *Layout) valid(id SegmentID) bool {
	return id >= 0 && int(id) < len(l.nodes)
}

// Segment implements Graph
func (l *Layout) Segment(id SegmentID) (Segment, error) {
	if !l.valid(id) {
		return Segment{}, fmt.Errorf("segment %d: %w", id, ErrNoSegment)
	}
	return l.nodes[id].seg, nil
}

// Next implements Graph
func (l *Layout) Next(id SegmentID) (Segment, error) {
	if !l.valid(id) {
		return Segment{}, fmt.Errorf("segment %d: %w", id, ErrNoSegment)
	}
	return l.Segment(l.nodes[id].next)
}

// Previous implements Graph
func (l *Layout) Previous(id SegmentID) (Segment, error) {
	if !l.valid(id) {
		return Segment{}, fmt.Errorf("segment %d: %w", id, ErrNoSegment)
	}
	return l.Segment(l.nodes[id].prev)
}

// Validate reports every link whose boundary slope or bank does not match
func (l *Layout) Validate() error {
	var errs []error
	for _, n := range l.nodes {
		if n.next == NoSegment {
			continue
		}
		a, b := n.seg.Descriptor(), l.nodes[n.next].seg.Descriptor()
		if a.EndSlope != b.StartSlope {
			errs = append(errs, fmt.Errorf("segment %d -> %d: slope %s meets %s", n.seg.ID, n.next, a.EndSlope, b.StartSlope))
		}
		if a.EndBank != b.StartBank {
			errs = append(errs, fmt.Errorf("segment %d -> %d: bank %d meets %d", n.seg.ID, n.next, a.EndBank, b.StartBank))
		}
	}
	return errors.Join(errs...)
}

// Segments returns a copy of every placed piece in placement order
func (l *Layout) Segments() []Segment {
	out := make([]Segment, len(l.nodes))
	for i, n := range l.nodes {
		out[i] = n.seg
	}
	return out
}
