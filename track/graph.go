package track

import (
	"errors"
	"fmt"
)

// ErrNoSegment is returned when a graph lookup leaves the traversable track
var ErrNoSegment = errors.New("no segment")

// SegmentID identifies a placed element within a ride's track graph
type SegmentID int32

// NoSegment is the zero link
const NoSegment SegmentID = -1

// Segment is one placed element: type, heading, world origin and build options
type Segment struct {
	ID        SegmentID
	Element   ElementType
	Direction uint8
	Origin    Point
	// LiftHill marks a chain lift built into this piece
	LiftHill bool
	// BrakeSpeed is the target speed of brake pieces in velocity units >> 16
	BrakeSpeed uint8
	// Station is the station index of platform pieces, -1 elsewhere
	Station int8
}

// Descriptor returns the static element definition
func (s Segment) Descriptor() *Descriptor {
	return Info(s.Element)
}

// Path returns the way-points of the segment relative to its origin
func (s Segment) Path() []WayPoint {
	return Path(s.Element, s.Direction)
}

// Length returns the number of way-points
func (s Segment) Length() uint16 {
	return uint16(len(s.Path()))
}

// WayPoint returns the way-point at progress, clamped to the segment
func (s Segment) WayPoint(progress uint16) WayPoint {
	p := s.Path()
	if len(p) == 0 {
		return WayPoint{}
	}
	if int(progress) >= len(p) {
		progress = uint16(len(p) - 1)
	}
	return p[progress]
}

// Position returns the world position at progress
func (s Segment) Position(progress uint16) Point {
	return Offset(s.Origin, s.WayPoint(progress))
}

// BlockStart reports whether a block section begins at this segment
func (s Segment) BlockStart() bool {
	d := s.Descriptor()
	return d.Has(FlagBlockStart) || (s.LiftHill && d.Has(FlagLiftBlockStart))
}

// IsStation reports whether the segment is a platform piece
func (s Segment) IsStation() bool {
	return s.Descriptor().Has(FlagStation)
}

func (s Segment) String() string {
	return fmt.Sprintf("#%d %s dir=%d", s.ID, s.Element, s.Direction)
}

// Graph is the read-only track service consumed by the motion integrator
type Graph interface {
	Segment(id SegmentID) (Segment, error)
	// Next returns the segment entered when leaving id forward
	Next(id SegmentID) (Segment, error)
	// Previous returns the segment entered when leaving id backward
	Previous(id SegmentID) (Segment, error)
}
