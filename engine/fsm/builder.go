package fsm

import "fmt"

// NewTable creates a table for count states numbered 0..count-1
func NewTable[S State, T any](count int) *Table[S, T] {
	t := &Table[S, T]{
		handlers: make([]*Handler[T], count),
		allowed:  make([][]bool, count),
		names:    make(map[string]S, count),
	}
	for i := range t.allowed {
		t.allowed[i] = make([]bool, count)
	}
	return t
}

// Register attaches a handler to a state, registering a state twice replaces it
func (t *Table[S, T]) Register(s S, h Handler[T]) {
	if int(s) >= len(t.handlers) {
		return
	}
	if old := t.handlers[s]; old != nil {
		delete(t.names, old.Name)
	}
	t.handlers[s] = &h
	if h.Name != "" {
		t.names[h.Name] = s
	}
}

// Allow whitelists transitions from one state to each target
func (t *Table[S, T]) Allow(from S, to ...S) {
	if int(from) >= len(t.allowed) {
		return
	}
	for _, s := range to {
		if int(s) < len(t.allowed) {
			t.allowed[from][s] = true
		}
	}
	t.loaded = true
}

// Allowed reports whether a handler may move from one state to another
// Staying in a state is always allowed
func (t *Table[S, T]) Allowed(from, to S) bool {
	if from == to {
		return true
	}
	if int(from) >= len(t.allowed) || int(to) >= len(t.allowed) {
		return false
	}
	return t.allowed[from][to]
}

// Lookup resolves a registered state name
func (t *Table[S, T]) Lookup(name string) (S, bool) {
	s, ok := t.names[name]
	return s, ok
}

// Name returns the registered name of a state
func (t *Table[S, T]) Name(s S) string {
	if int(s) < len(t.handlers) && t.handlers[s] != nil {
		return t.handlers[s].Name
	}
	return fmt.Sprintf("state(%d)", s)
}

// Targets lists the states reachable from s in index order
func (t *Table[S, T]) Targets(s S) []S {
	if int(s) >= len(t.allowed) {
		return nil
	}
	var out []S
	for i, ok := range t.allowed[s] {
		if ok {
			out = append(out, S(i))
		}
	}
	return out
}
