package event

// EventType represents the type of presentation event emitted by the simulation
type EventType int

const (
	// EventInvalidate marks a vehicle whose position or sprite changed
	// Trigger: motion integrator, flat-ride animation | Consumer: viewer | Payload: nil
	EventInvalidate EventType = iota

	// EventSound plays a one-shot sound at a world location
	// Trigger: state handlers, crash resolver | Consumer: audio | Payload: *SoundPayload
	EventSound

	// EventEffect spawns a particle or sprite effect
	// Trigger: crash resolver, water splash | Consumer: viewer | Payload: *EffectPayload
	EventEffect

	// EventDebris spawns a batch of crash debris
	// Trigger: collision setup | Consumer: viewer | Payload: *DebrisPayload
	EventDebris

	// EventNews appends a park news item
	// Trigger: breakdown, crash, missing train, test finished | Consumer: api, log | Payload: *NewsPayload
	EventNews

	// EventTestFinished reports a completed ride test
	// Trigger: unloading on the last circuit | Consumer: store, telemetry | Payload: *TestPayload
	EventTestFinished

	eventTypeCount
)

// Event is one queued presentation event
type Event struct {
	Type    EventType
	Vehicle uint16
	Tick    uint32
	Payload any
}
