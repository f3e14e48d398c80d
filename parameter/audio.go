package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100
	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 100 * time.Millisecond
	// AudioToneDuration is the length of one rendered tone buffer before it loops
	AudioToneDuration = 250 * time.Millisecond
	// ToneBaseRate is the rate the sound bank is rendered at, a playback rate equal to it plays unpitched
	ToneBaseRate = 22050
	// ResampleQuality is the beep resampler interpolation window
	ResampleQuality = 4
	// EffectVoices is the number of one-shot voices beside the channel pool
	EffectVoices = 4
)

// Channel pool
const (
	// SoundChannels is the default number of concurrently audible vehicles
	SoundChannels = 7
	// SoundAssignedBonus keeps a vehicle on the channel it already owns
	SoundAssignedBonus = 300
	// SoundVelocityShift scales |v| into the priority score
	SoundVelocityShift = 13
	// SoundVolumeStep is the per-tick smoothing step of a channel's attenuation
	SoundVolumeStep = 4
	// SoundFrequencyMask updates a playing channel's rate every 4 ticks
	SoundFrequencyMask = 3
)

// Spatial attenuation
const (
	SoundPanShift        = 4
	SoundPanCenter       = 0x8000
	SoundMinScreenExtent = 64
	SoundEdgeClamp       = 0xFFF
	SoundEdgeStart       = 0x800
	SoundEdgeFalloff     = 0x400
	SoundUnderground     = 0x30
	SoundZoomAdjustNear  = 35
	SoundZoomAdjustFar   = 70
	SoundMinDecibel      = -10000
	SoundDecibelOffset   = 0x1FFF
)

// Friction and scream slots
const (
	FrictionBaseFrequency   = 11025
	FrictionFrequencyMul    = 5512
	FrictionVariationMul    = 16
	FrictionVolumeBase      = 208
	FrictionVelocityFloor   = 0x10000
	FrictionVolumeShift     = 15
	ScreamFrequencyOffset   = 3248
	ScreamFrequencyCap      = 25700
	ScreamFixedFrequency    = 12649
	HalfRateOffset          = 4000
	LiftSoundVolume         = 243
	CrossfadeStepUp         = 15
	CrossfadeStepDown       = 9
	CrossfadeFloor          = 80
	ScreamVelocity          = 0x2C000
	WhistleVelocity         = 0x40000
	WhistleIntervalMask     = 0x7F
	WhistleChance           = 0x5555
	VariationVelocityShift  = 14
	VariationDirectionShift = 14
	VariationClamp          = 127
)
