package vehicle

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/coaster/event"
	"github.com/lixenwraith/coaster/ride"
	"github.com/lixenwraith/coaster/track"
)

var (
	// ErrPoolFull is returned when every slot of the arena is in use
	ErrPoolFull = errors.New("vehicle pool full")
	// ErrChainCycle is returned when a train chain loops back on itself or has broken links
	ErrChainCycle = errors.New("train chain has a cycle")
)

// Pool is a fixed-capacity arena of vehicles addressed by stable ids
// Pointers returned by Get stay valid for the life of the pool
type Pool struct {
	slots []Vehicle
	used  []bool
	free  []ID
	count int
}

func NewPool(capacity int) *Pool {
	if capacity > int(NoVehicle) {
		capacity = int(NoVehicle)
	}
	p := &Pool{
		slots: make([]Vehicle, capacity),
		used:  make([]bool, capacity),
		free:  make([]ID, 0, capacity),
	}
	for i := capacity - 1; i >= 0; i-- {
		p.free = append(p.free, ID(i))
	}
	return p
}

// Spawn allocates an unlinked vehicle with seats empty seats
func (p *Pool) Spawn(rideID ride.ID, typ TypeID, seats int) (*Vehicle, error) {
	if len(p.free) == 0 {
		return nil, ErrPoolFull
	}
	id := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.used[id] = true
	p.count++

	p.slots[id] = Vehicle{
		ID:      id,
		Ride:    rideID,
		Type:    typ,
		Prev:    NoVehicle,
		Next:    NoVehicle,
		Segment: track.NoSegment,
		Riders:  make([]uint32, seats),
		Partner: NoVehicle,
		Sound: SoundState{
			Friction: event.SoundNone,
			Scream:   event.SoundNone,
			Chosen:   event.SoundNone,
		},
	}
	return &p.slots[id], nil
}

// Get returns the live vehicle with id or nil
func (p *Pool) Get(id ID) *Vehicle {
	if int(id) >= len(p.slots) || !p.used[id] {
		return nil
	}
	return &p.slots[id]
}

// Free unlinks and releases a vehicle
func (p *Pool) Free(id ID) {
	v := p.Get(id)
	if v == nil {
		return
	}
	p.Detach(id)
	p.used[id] = false
	p.count--
	p.free = append(p.free, id)
}

// Len returns the number of live vehicles
func (p *Pool) Len() int {
	return p.count
}

// Cap returns the arena capacity
func (p *Pool) Cap() int {
	return len(p.slots)
}

// Each visits every live vehicle in id order
func (p *Pool) Each(fn func(*Vehicle)) {
	for i := range p.slots {
		if p.used[i] {
			fn(&p.slots[i])
		}
	}
}

// Heads returns the id of every train head in id order
func (p *Pool) Heads(buf []ID) []ID {
	buf = buf[:0]
	for i := range p.slots {
		if p.used[i] && p.slots[i].Prev == NoVehicle {
			buf = append(buf, ID(i))
		}
	}
	return buf
}

// Link attaches back behind front, both must be loose ends
func (p *Pool) Link(front, back ID) error {
	f, b := p.Get(front), p.Get(back)
	if f == nil || b == nil {
		return fmt.Errorf("link %d -> %d: unknown vehicle", front, back)
	}
	if f.Next != NoVehicle || b.Prev != NoVehicle {
		return fmt.Errorf("link %d -> %d: already linked", front, back)
	}
	if p.Head(front) == back {
		return fmt.Errorf("link %d -> %d: %w", front, back, ErrChainCycle)
	}
	f.Next = back
	b.Prev = front
	return nil
}

// Head walks forward to the front car
func (p *Pool) Head(id ID) ID {
	v := p.Get(id)
	for steps := 0; v != nil && v.Prev != NoVehicle && steps < len(p.slots); steps++ {
		id = v.Prev
		v = p.Get(id)
	}
	return id
}

// Tail walks back to the last car
func (p *Pool) Tail(id ID) ID {
	v := p.Get(id)
	for steps := 0; v != nil && v.Next != NoVehicle && steps < len(p.slots); steps++ {
		id = v.Next
		v = p.Get(id)
	}
	return id
}

// Cars appends the train starting at head to buf, front to back
func (p *Pool) Cars(head ID, buf []ID) []ID {
	buf = buf[:0]
	for id := head; id != NoVehicle && len(buf) < len(p.slots); {
		v := p.Get(id)
		if v == nil {
			break
		}
		buf = append(buf, id)
		id = v.Next
	}
	return buf
}

// Detach removes one car from its train, rejoining its neighbours
// It returns the head of the remaining train, NoVehicle when nothing remains
func (p *Pool) Detach(id ID) ID {
	v := p.Get(id)
	if v == nil {
		return NoVehicle
	}
	prev, next := p.Get(v.Prev), p.Get(v.Next)
	if prev != nil {
		prev.Next = v.Next
	}
	if next != nil {
		next.Prev = v.Prev
	}
	rest := NoVehicle
	switch {
	case prev != nil:
		rest = p.Head(prev.ID)
	case next != nil:
		rest = next.ID
	}
	v.Prev, v.Next = NoVehicle, NoVehicle
	return rest
}

// Split cuts the train in front of id so id heads its own chain
func (p *Pool) Split(id ID) {
	v := p.Get(id)
	if v == nil || v.Prev == NoVehicle {
		return
	}
	if prev := p.Get(v.Prev); prev != nil {
		prev.Next = NoVehicle
	}
	v.Prev = NoVehicle
}

// CheckChain verifies the train at head is a finite, consistently linked line with one head
func (p *Pool) CheckChain(head ID) error {
	h := p.Get(head)
	if h == nil {
		return fmt.Errorf("chain %d: unknown vehicle", head)
	}
	if h.Prev != NoVehicle {
		return fmt.Errorf("chain %d: not a head", head)
	}
	prev := head
	for id, steps := h.Next, 0; id != NoVehicle; steps++ {
		if steps > len(p.slots) || id == head {
			return fmt.Errorf("chain %d: %w", head, ErrChainCycle)
		}
		v := p.Get(id)
		if v == nil {
			return fmt.Errorf("chain %d: dangling link to %d", head, id)
		}
		if v.Prev != prev {
			return fmt.Errorf("chain %d: car %d points back to %d, want %d: %w", head, id, v.Prev, prev, ErrChainCycle)
		}
		prev = id
		id = v.Next
	}
	return nil
}

// TotalRiders counts riders over the whole train
func (p *Pool) TotalRiders(head ID) int {
	n := 0
	for id := head; id != NoVehicle; {
		v := p.Get(id)
		if v == nil {
			break
		}
		n += v.RiderCount()
		id = v.Next
	}
	return n
}

// TotalSeats counts seats over the whole train
func (p *Pool) TotalSeats(head ID) int {
	n := 0
	for id := head; id != NoVehicle; {
		v := p.Get(id)
		if v == nil {
			break
		}
		n += len(v.Riders)
		id = v.Next
	}
	return n
}

// TrainFriction sums the friction of every car, never returning less than 1
func (p *Pool) TrainFriction(head ID, types *Registry) int32 {
	var sum int32
	for id := head; id != NoVehicle; {
		v := p.Get(id)
		if v == nil {
			break
		}
		sum += types.Get(v.Type).Friction
		id = v.Next
	}
	if sum < 1 {
		sum = 1
	}
	return sum
}
