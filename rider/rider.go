// Package rider is the passenger side of the simulation as seen by the vehicle engine
// Vehicles hold rider ids in seats, the service owns everything else about a rider
package rider

import (
	"sort"
	"sync"

	"github.com/lixenwraith/coaster/ride"
)

// Service is the passenger simulation the engine calls at station and crash boundaries
// Seats are vehicle seat slices where 0 is an empty seat
type Service interface {
	// Board fills empty seats with riders queued at a station and returns how many boarded
	Board(r ride.ID, station int8, seats []uint32) int
	// Alight lets riders off at a station, clearing their seats
	Alight(r ride.ID, station int8, seats []uint32) int
	// Kill removes riders lost in a crash, clearing their seats
	Kill(r ride.ID, seats []uint32) int
	// Waiting returns the queue length at a station
	Waiting(r ride.ID, station int8) int
}

// State is where a rider is in their visit
type State uint8

const (
	StateQueuing State = iota
	StateRiding
	StateExited
	StateDead
)

func (s State) String() string {
	switch s {
	case StateQueuing:
		return "queuing"
	case StateRiding:
		return "riding"
	case StateExited:
		return "exited"
	}
	return "dead"
}

// Rider is one park guest
type Rider struct {
	ID      uint32  `json:"id"`
	State   State   `json:"state"`
	Ride    ride.ID `json:"ride"`
	Station int8    `json:"station"`
	// Rides counts completed rides
	Rides int `json:"rides"`
}

type queueKey struct {
	ride    ride.ID
	station int8
}

// Roster is an in-memory Service with per-station queues
type Roster struct {
	mu     sync.RWMutex
	next   uint32
	riders map[uint32]*Rider
	queues map[queueKey][]uint32
}

func NewRoster() *Roster {
	return &Roster{
		next:   1,
		riders: make(map[uint32]*Rider),
		queues: make(map[queueKey][]uint32),
	}
}

// Enqueue creates n riders waiting at a station and returns their ids
func (r *Roster) Enqueue(rideID ride.ID, station int8, n int) []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := queueKey{rideID, station}
	ids := make([]uint32, 0, n)
	for i := 0; i < n; i++ {
		id := r.next
		r.next++
		r.riders[id] = &Rider{ID: id, State: StateQueuing, Ride: rideID, Station: station}
		r.queues[key] = append(r.queues[key], id)
		ids = append(ids, id)
	}
	return ids
}

func (r *Roster) Board(rideID ride.ID, station int8, seats []uint32) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := queueKey{rideID, station}
	queue := r.queues[key]
	boarded := 0
	for i := range seats {
		if len(queue) == 0 {
			break
		}
		if seats[i] != 0 {
			continue
		}
		id := queue[0]
		queue = queue[1:]
		seats[i] = id
		if p := r.riders[id]; p != nil {
			p.State = StateRiding
		}
		boarded++
	}
	r.queues[key] = queue
	return boarded
}

func (r *Roster) Alight(rideID ride.ID, station int8, seats []uint32) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for i, id := range seats {
		if id == 0 {
			continue
		}
		if p := r.riders[id]; p != nil {
			p.State = StateExited
			p.Station = station
			p.Rides++
		}
		seats[i] = 0
		n++
	}
	return n
}

func (r *Roster) Kill(rideID ride.ID, seats []uint32) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for i, id := range seats {
		if id == 0 {
			continue
		}
		if p := r.riders[id]; p != nil {
			p.State = StateDead
		}
		seats[i] = 0
		n++
	}
	return n
}

func (r *Roster) Waiting(rideID ride.ID, station int8) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.queues[queueKey{rideID, station}])
}

// Rider returns a copy of one rider
func (r *Roster) Rider(id uint32) (Rider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.riders[id]
	if !ok {
		return Rider{}, false
	}
	return *p, true
}

// Lookup copies the riders for a set of seat ids, skipping empty seats, ordered by id
func (r *Roster) Lookup(seats []uint32) []Rider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Rider, 0, len(seats))
	for _, id := range seats {
		if p, ok := r.riders[id]; ok && id != 0 {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the number of riders in a state
func (r *Roster) Count(s State) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, p := range r.riders {
		if p.State == s {
			n++
		}
	}
	return n
}

// Nobody is a Service with empty queues that still clears seats
type Nobody struct{}

func (Nobody) Board(ride.ID, int8, []uint32) int { return 0 }
func (Nobody) Alight(_ ride.ID, _ int8, seats []uint32) int {
	return clearSeats(seats)
}
func (Nobody) Kill(_ ride.ID, seats []uint32) int { return clearSeats(seats) }
func (Nobody) Waiting(ride.ID, int8) int          { return 0 }

func clearSeats(seats []uint32) int {
	n := 0
	for i := range seats {
		if seats[i] != 0 {
			seats[i] = 0
			n++
		}
	}
	return n
}
