package event

import "github.com/lixenwraith/coaster/vmath"

// Sink is the presentation contract the simulation writes into
// Implementations must not call back into the simulation
type Sink interface {
	Invalidate(vehicle uint16)
	PlaySound(s Sound, at vmath.Vec3)
	Spawn(e Effect, at vmath.Vec3)
	Debris(p *DebrisPayload)
	News(n NewsPayload)
	TestFinished(ride uint16, result any)
}

// QueueSink adapts a Queue to the Sink contract, stamping events with the current tick
type QueueSink struct {
	Queue *Queue
	Tick  uint32
}

func NewQueueSink(q *Queue) *QueueSink {
	return &QueueSink{Queue: q}
}

func (s *QueueSink) Invalidate(vehicle uint16) {
	s.Queue.Push(Event{Type: EventInvalidate, Vehicle: vehicle, Tick: s.Tick})
}

func (s *QueueSink) PlaySound(snd Sound, at vmath.Vec3) {
	s.Queue.Push(Event{Type: EventSound, Tick: s.Tick, Payload: &SoundPayload{Sound: snd, At: at}})
}

func (s *QueueSink) Spawn(e Effect, at vmath.Vec3) {
	s.Queue.Push(Event{Type: EventEffect, Tick: s.Tick, Payload: &EffectPayload{Effect: e, At: at}})
}

// Debris transfers ownership of a pooled payload to the consumer
func (s *QueueSink) Debris(p *DebrisPayload) {
	s.Queue.Push(Event{Type: EventDebris, Tick: s.Tick, Payload: p})
}

func (s *QueueSink) News(n NewsPayload) {
	s.Queue.Push(Event{Type: EventNews, Tick: s.Tick, Payload: &n})
}

func (s *QueueSink) TestFinished(ride uint16, result any) {
	s.Queue.Push(Event{Type: EventTestFinished, Tick: s.Tick, Payload: &TestPayload{Ride: ride, Result: result}})
}

// Discard drops every event
type Discard struct{}

func (Discard) Invalidate(uint16)           {}
func (Discard) PlaySound(Sound, vmath.Vec3) {}
func (Discard) Spawn(Effect, vmath.Vec3)    {}
func (Discard) Debris(p *DebrisPayload)     { ReleaseDebris(p) }
func (Discard) News(NewsPayload)            {}
func (Discard) TestFinished(uint16, any)    {}
