package vehicle

import (
	"errors"
	"testing"
)

func buildTrain(t *testing.T, p *Pool, cars int) []ID {
	t.Helper()
	ids := make([]ID, 0, cars)
	for i := 0; i < cars; i++ {
		v, err := p.Spawn(1, 0, 4)
		if err != nil {
			t.Fatalf("Spawn: %v", err)
		}
		if i > 0 {
			if err := p.Link(ids[i-1], v.ID); err != nil {
				t.Fatalf("Link: %v", err)
			}
		}
		ids = append(ids, v.ID)
	}
	return ids
}

// TestPoolSpawnFree verifies capacity, reuse of freed slots and ErrPoolFull
func TestPoolSpawnFree(t *testing.T) {
	p := NewPool(2)
	a, err := p.Spawn(1, 0, 2)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if _, err := p.Spawn(1, 0, 2); err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if _, err := p.Spawn(1, 0, 2); !errors.Is(err, ErrPoolFull) {
		t.Errorf("third Spawn error = %v, want ErrPoolFull", err)
	}
	p.Free(a.ID)
	if p.Get(a.ID) != nil {
		t.Errorf("freed vehicle still reachable")
	}
	if p.Len() != 1 {
		t.Errorf("Len() = %d, want 1", p.Len())
	}
	c, err := p.Spawn(1, 0, 2)
	if err != nil || c.ID != a.ID {
		t.Errorf("respawn = %v, %v, want slot %d reused", c, err, a.ID)
	}
}

// TestChainOperations verifies head, tail, iteration and rider totals
func TestChainOperations(t *testing.T) {
	p := NewPool(8)
	ids := buildTrain(t, p, 4)
	p.Get(ids[1]).Board(7)
	p.Get(ids[3]).Board(8)
	p.Get(ids[3]).Board(9)

	if h := p.Head(ids[2]); h != ids[0] {
		t.Errorf("Head = %d, want %d", h, ids[0])
	}
	if tl := p.Tail(ids[0]); tl != ids[3] {
		t.Errorf("Tail = %d, want %d", tl, ids[3])
	}
	cars := p.Cars(ids[0], nil)
	if len(cars) != 4 || cars[3] != ids[3] {
		t.Errorf("Cars = %v", cars)
	}
	if n := p.TotalRiders(ids[0]); n != 3 {
		t.Errorf("TotalRiders = %d, want 3", n)
	}
	if n := p.TotalSeats(ids[0]); n != 16 {
		t.Errorf("TotalSeats = %d, want 16", n)
	}
	if err := p.Link(ids[3], ids[0]); err == nil {
		t.Errorf("linking tail to head accepted")
	}
}

// TestDetachKeepsChainsAcyclic verifies every remaining chain has one head and no cycle after crash surgery
func TestDetachKeepsChainsAcyclic(t *testing.T) {
	p := NewPool(16)
	ids := buildTrain(t, p, 5)

	rest := p.Detach(ids[2])
	if rest != ids[0] {
		t.Errorf("Detach middle returned %d, want %d", rest, ids[0])
	}
	rest = p.Detach(ids[0])
	if rest != ids[1] {
		t.Errorf("Detach head returned %d, want %d", rest, ids[1])
	}
	p.Split(ids[4])

	for _, h := range p.Heads(nil) {
		if err := p.CheckChain(h); err != nil {
			t.Errorf("CheckChain(%d): %v", h, err)
		}
	}
	if heads := p.Heads(nil); len(heads) != 4 {
		t.Errorf("heads = %v, want 4 chains", heads)
	}
	if cars := p.Cars(ids[1], nil); len(cars) != 2 || cars[1] != ids[3] {
		t.Errorf("remaining train = %v", cars)
	}
}

// TestCheckChainDetectsCorruption verifies a hand-made loop is reported
func TestCheckChainDetectsCorruption(t *testing.T) {
	p := NewPool(4)
	ids := buildTrain(t, p, 3)
	p.Get(ids[2]).Next = ids[1]
	if err := p.CheckChain(ids[0]); !errors.Is(err, ErrChainCycle) {
		t.Errorf("CheckChain = %v, want ErrChainCycle", err)
	}
}

// TestTrainFriction verifies friction sums over the registry types
func TestTrainFriction(t *testing.T) {
	reg := DefaultRegistry()
	id, err := reg.Lookup(TypeNameCoasterCar)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	p := NewPool(4)
	a, _ := p.Spawn(1, id, 4)
	b, _ := p.Spawn(1, id, 4)
	if err := p.Link(a.ID, b.ID); err != nil {
		t.Fatalf("Link: %v", err)
	}
	want := 2 * reg.Get(id).Friction
	if got := p.TrainFriction(a.ID, reg); got != want {
		t.Errorf("TrainFriction = %d, want %d", got, want)
	}
}
