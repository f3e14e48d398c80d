package fsm

import "errors"

var (
	// ErrUnknownState is returned when a context is in a state with no registered handler
	ErrUnknownState = errors.New("unknown state")
	// ErrIllegalTransition is returned when a handler moves to a state its table does not allow
	ErrIllegalTransition = errors.New("illegal transition")
)

// State is any small enum used to index a Table
type State interface {
	~uint8
}

// Table is a flat state machine: one handler per state and an explicit whitelist
// of transitions. The current state lives in the context, handlers change it
// directly and the table runs exit and entry actions afterwards.
// T is the per-call context passed to every action
type Table[S State, T any] struct {
	// Graph data, immutable after load
	handlers []*Handler[T]
	allowed  [][]bool
	names    map[string]S

	// Initial is the state new contexts start in
	Initial S
	loaded  bool
}

// Handler is the behavior attached to one state
type Handler[T any] struct {
	Name string

	// OnEnter runs after a transition into the state, before the next Update
	OnEnter func(ctx T)
	// Update runs once per tick while the state is active
	Update func(ctx T)
	// OnExit runs after a transition out of the state
	OnExit func(ctx T)
}

// Transition records one state change seen by Run
type Transition[S State] struct {
	From, To S
}

// Changed reports whether the state moved
func (t Transition[S]) Changed() bool {
	return t.From != t.To
}
