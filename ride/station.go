package ride

import (
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/track"
)

// Depart timer layout: low bits count down, the high bit releases the next train
const (
	DepartRelease = 0x80
	DepartMask    = 0x7F
)

// Station is a platform where trains load and unload
type Station struct {
	// Start is the end-station piece trains stop on
	Start track.SegmentID
	// Depart is the countdown until the next train may leave, see DepartRelease
	Depart uint8
	// Occupant is the train currently loading here
	Occupant uint16
}

// Ready reports whether a train may depart
func (s *Station) Ready() bool {
	return s.Depart&DepartRelease != 0
}

// Delay clears the release flag and restarts the countdown
func (s *Station) Delay(slots uint8) {
	s.Depart = slots & DepartMask
}

// Claim marks the platform as used by a loading train
func (s *Station) Claim(train uint16) {
	if s.Occupant == NoTrain {
		s.Occupant = train
	}
}

// Release frees the platform if train holds it
func (s *Station) Release(train uint16) {
	if s.Occupant == train {
		s.Occupant = NoTrain
	}
}

// DepartDelay is the countdown set after a train clears the platform
func (r *Ride) DepartDelay() uint8 {
	if r.Config.Depart&DepartMinWait == 0 {
		return parameter.DepartMinimumSlot
	}
	w := r.Config.MinWait
	if w < parameter.DepartMinimumSlot {
		w = parameter.DepartMinimumSlot
	}
	if w > parameter.DepartMaximumSlot {
		w = parameter.DepartMaximumSlot
	}
	return w
}

// UpdateStations runs the depart countdown of every platform
// A broken, crashed or empty closed ride counts down faster but never releases a train
func (r *Ride) UpdateStations(tick uint32, ridersAboard int) {
	halted := r.Any(LifecycleBrokenDown|LifecycleCrashed) || (r.Status == StatusClosed && ridersAboard == 0)
	for i := range r.Stations {
		s := &r.Stations[i]
		t := s.Depart & DepartMask
		if halted {
			if t != 0 && t != parameter.DepartMaximumSlot && tick&parameter.BrokenDepartTimerMask == 0 {
				t--
			}
			s.Depart = t
			continue
		}
		if t == 0 {
			s.Depart |= DepartRelease
			continue
		}
		if t != parameter.DepartMaximumSlot && tick&parameter.DepartTimerMask == 0 {
			t--
		}
		s.Depart = t
	}
}

// StationAt returns the station whose end piece is seg
func (r *Ride) StationAt(seg track.SegmentID) (int, bool) {
	for i, s := range r.Stations {
		if s.Start == seg {
			return i, true
		}
	}
	return -1, false
}
