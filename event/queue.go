package event

import (
	"sync/atomic"

	"github.com/lixenwraith/coaster/parameter"
)

// Queue is a lock-free MPSC ring buffer for presentation events
// Thread-Safety:
//   - Push: Lock-free CAS, the engine and the crash resolver may both produce
//   - Drain: Single consumer (the results loop)
//   - Published flags prevent reading partial writes
//
// Overflow: the oldest unread event is overwritten. Its type is counted in
// DroppedBy and a debris payload goes back to its pool.
type Queue struct {
	events    [parameter.EventQueueSize]Event
	published [parameter.EventQueueSize]atomic.Bool // True = slot written and unread
	head      atomic.Uint64                         // Read index
	tail      atomic.Uint64                         // Write index
	dropped   [eventTypeCount]atomic.Uint64
}

func NewQueue() *Queue {
	return &Queue{}
}

// Push adds event using lock-free CAS with published flags pattern
func (q *Queue) Push(ev Event) {
	for {
		currentTail := q.tail.Load()
		nextTail := currentTail + 1

		if q.tail.CompareAndSwap(currentTail, nextTail) {
			idx := currentTail & parameter.EventBufferMask

			stale := q.published[idx].Load()
			old := q.events[idx]
			q.events[idx] = ev
			q.published[idx].Store(true) // MUST be after write
			if stale {
				q.drop(old)
			}

			// Advance head past overwritten events
			currentHead := q.head.Load()
			if nextTail-currentHead > parameter.EventQueueSize {
				q.head.CompareAndSwap(currentHead, nextTail-parameter.EventQueueSize)
			}
			return
		}
	}
}

func (q *Queue) drop(ev Event) {
	if ev.Type >= 0 && ev.Type < eventTypeCount {
		q.dropped[ev.Type].Add(1)
	}
	if p, ok := ev.Payload.(*DebrisPayload); ok {
		ReleaseDebris(p)
	}
}

// Drain appends all pending events to dst in FIFO order and advances head
// Passing the previous result sliced to zero reuses its backing array between ticks
func (q *Queue) Drain(dst []Event) []Event {
	for {
		currentHead := q.head.Load()
		currentTail := q.tail.Load()

		if currentTail == currentHead {
			return dst
		}

		maxAvailable := currentTail - currentHead
		if maxAvailable > parameter.EventQueueSize {
			maxAvailable = parameter.EventQueueSize
			currentHead = currentTail - parameter.EventQueueSize
		}

		start := len(dst)
		for i := uint64(0); i < maxAvailable; i++ {
			idx := (currentHead + i) & parameter.EventBufferMask

			if !q.published[idx].Load() {
				break // Writer incomplete
			}

			dst = append(dst, q.events[idx])
			q.published[idx].Store(false)
		}

		newHead := currentHead + uint64(len(dst)-start)
		if q.head.CompareAndSwap(currentHead, newHead) {
			return dst
		}
		dst = dst[:start]
	}
}

// Consume returns all pending events in a fresh slice, nil when none are pending
func (q *Queue) Consume() []Event {
	return q.Drain(nil)
}

// Len returns approximate pending event count
func (q *Queue) Len() int {
	head := q.head.Load()
	tail := q.tail.Load()
	if tail <= head {
		return 0
	}
	diff := int(tail - head)
	if diff > parameter.EventQueueSize {
		return parameter.EventQueueSize
	}
	return diff
}

// Dropped returns the number of events overwritten before they were consumed
func (q *Queue) Dropped() uint64 {
	var n uint64
	for i := range q.dropped {
		n += q.dropped[i].Load()
	}
	return n
}

// DroppedBy returns the overwritten count for one event type
func (q *Queue) DroppedBy(t EventType) uint64 {
	if t < 0 || t >= eventTypeCount {
		return 0
	}
	return q.dropped[t].Load()
}
