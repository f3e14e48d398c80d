package ride

import "github.com/lixenwraith/coaster/track"

// Blocks records which train occupies the section starting at each block start
// A section is closed to every train but its occupant
type Blocks struct {
	occupant map[track.SegmentID]uint16
	held     map[uint16]track.SegmentID
}

func (b *Blocks) init() {
	if b.occupant == nil {
		b.occupant = make(map[track.SegmentID]uint16)
		b.held = make(map[uint16]track.SegmentID)
	}
}

// Enter is called when the last car of train passes start, it closes start and opens the section behind
func (b *Blocks) Enter(start track.SegmentID, train uint16) {
	b.init()
	if prev, ok := b.held[train]; ok && prev != start {
		if b.occupant[prev] == train {
			delete(b.occupant, prev)
		}
	}
	b.occupant[start] = train
	b.held[train] = start
}

// Closed reports whether start is occupied by a train other than train
func (b *Blocks) Closed(start track.SegmentID, train uint16) bool {
	occ, ok := b.occupant[start]
	return ok && occ != train
}

// Occupant returns the train holding start
func (b *Blocks) Occupant(start track.SegmentID) (uint16, bool) {
	occ, ok := b.occupant[start]
	return occ, ok
}

// Held returns the block start currently held by train
func (b *Blocks) Held(train uint16) (track.SegmentID, bool) {
	s, ok := b.held[train]
	return s, ok
}

// Release opens the section held by train
func (b *Blocks) Release(train uint16) {
	if start, ok := b.held[train]; ok {
		if b.occupant[start] == train {
			delete(b.occupant, start)
		}
		delete(b.held, train)
	}
}

// Rename moves a hold from one train reference to another
func (b *Blocks) Rename(old, train uint16) {
	if start, ok := b.held[old]; ok {
		delete(b.held, old)
		b.held[train] = start
		if b.occupant[start] == old {
			b.occupant[start] = train
		}
	}
}
