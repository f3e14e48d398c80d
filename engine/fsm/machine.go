package fsm

import "fmt"

// Run dispatches ctx to the handler of its current state
// state reads the state from the context before and after the update. When
// the handler changed it, the old state's OnExit and the new state's OnEnter
// run in that order. An illegal transition still runs both actions and is
// reported as ErrIllegalTransition so the caller can log it without losing the tick.
func (t *Table[S, T]) Run(ctx T, state func() S) (Transition[S], error) {
	from := state()
	h := t.handler(from)
	if h == nil || h.Update == nil {
		return Transition[S]{From: from, To: from}, fmt.Errorf("%w: %d", ErrUnknownState, from)
	}
	h.Update(ctx)

	to := state()
	tr := Transition[S]{From: from, To: to}
	if !tr.Changed() {
		return tr, nil
	}
	return tr, t.enter(ctx, from, to)
}

// Enter runs the exit and entry actions of a state change made outside Run
func (t *Table[S, T]) Enter(ctx T, from, to S) error {
	if from == to {
		return nil
	}
	return t.enter(ctx, from, to)
}

func (t *Table[S, T]) enter(ctx T, from, to S) error {
	var err error
	if t.loaded && !t.Allowed(from, to) {
		err = fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, t.Name(from), t.Name(to))
	}
	if h := t.handler(from); h != nil && h.OnExit != nil {
		h.OnExit(ctx)
	}
	next := t.handler(to)
	if next == nil {
		if err == nil {
			err = fmt.Errorf("%w: %d", ErrUnknownState, to)
		}
		return err
	}
	if next.OnEnter != nil {
		next.OnEnter(ctx)
	}
	return err
}

func (t *Table[S, T]) handler(s S) *Handler[T] {
	if int(s) >= len(t.handlers) {
		return nil
	}
	return t.handlers[s]
}
