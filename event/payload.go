package event

import "github.com/lixenwraith/coaster/vmath"

// SoundPayload carries a one-shot sound request
type SoundPayload struct {
	Sound Sound      `json:"sound"`
	At    vmath.Vec3 `json:"at"`
}

// Effect identifies a visual effect
type Effect uint8

const (
	EffectExplosion Effect = iota
	EffectSmoke
	EffectSplash
	EffectPhoto
	EffectDoor
)

var effectName = [...]string{"explosion", "smoke", "splash", "photo", "door"}

func (e Effect) String() string {
	if int(e) < len(effectName) {
		return effectName[e]
	}
	return "unknown"
}

// EffectPayload places a single effect
type EffectPayload struct {
	Effect Effect     `json:"effect"`
	At     vmath.Vec3 `json:"at"`
}

// DebrisPayload is a pooled batch of particles thrown by a wreck
type DebrisPayload struct {
	Origin    vmath.Vec3   `json:"origin"`
	Particles []vmath.Vec3 `json:"particles"`
}

// NewsKind classifies a news item
type NewsKind uint8

const (
	NewsBreakdown NewsKind = iota
	NewsCrash
	NewsMissingTrain
	NewsTestFinished
	NewsFixed
)

var newsName = [...]string{"breakdown", "crash", "missing train", "test finished", "fixed"}

func (k NewsKind) String() string {
	if int(k) < len(newsName) {
		return newsName[k]
	}
	return "unknown"
}

// NewsPayload is a park news item
type NewsPayload struct {
	Kind NewsKind `json:"kind"`
	Ride uint16   `json:"ride"`
	Text string   `json:"text"`
}

// TestPayload wraps a finished test result, the concrete type is owned by the ride package
type TestPayload struct {
	Ride   uint16 `json:"ride"`
	Result any    `json:"result"`
}
