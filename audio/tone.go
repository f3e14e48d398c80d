package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/lixenwraith/coaster/event"
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/vmath"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates a raw wave for a fixed number of samples
type oscillator struct {
	freq     float64
	glide    float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
	noise    *vmath.FastRand
}

// NewOscillator creates an oscillator, glide is the frequency change per second
func NewOscillator(freq, glide float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		glide:    glide,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		noise:    vmath.NewFastRand(uint64(freq*1000) + 7),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			val = 1
			if o.phase >= 0.5 {
				val = -1
			}
		case WaveSaw:
			val = 2 * (o.phase - 0.5)
		case WaveNoise:
			val = float64(o.noise.Uint16())/32767.5 - 1
		}
		samples[i][0] = val
		samples[i][1] = val

		f := o.freq + o.glide*float64(o.position)/float64(o.rate)
		o.phase += f / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope fades a stream in over attack and out over release
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}
		gain := 1.0
		if e.position < e.attack {
			gain = float64(e.position) / float64(e.attack)
		}
		if left := e.total - e.position; left < e.release {
			gain = min(gain, float64(left)/float64(e.release))
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales a stream by a linear gain, 0 silences it
func newVolume(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
}

// recipe describes how a sample of the sound bank is synthesized
// Tones are rendered at ToneBaseRate and pitched by the playback rate
type recipe struct {
	wave WaveType
	freq float64
	// glide sweeps the frequency, in Hz per second
	glide float64
	// overtone mixes a second partial at freq*overtone when non-zero
	overtone float64
	// noise mixes white noise at this gain
	noise    float64
	gain     float64
	duration time.Duration
	attack   time.Duration
	release  time.Duration
}

const loopLen = parameter.AudioToneDuration

var recipes = [event.SoundCount]recipe{
	event.SoundLiftChain:      {wave: WaveSquare, freq: 32, noise: 0.2, gain: 0.3, duration: loopLen},
	event.SoundLiftCable:      {wave: WaveSine, freq: 48, overtone: 3, gain: 0.3, duration: loopLen},
	event.SoundLiftWooden:     {wave: WaveSquare, freq: 24, noise: 0.3, gain: 0.3, duration: loopLen},
	event.SoundFrictionSteel:  {wave: WaveSaw, freq: 55, noise: 0.15, gain: 0.25, duration: loopLen},
	event.SoundFrictionWooden: {wave: WaveSquare, freq: 70, noise: 0.35, gain: 0.25, duration: loopLen},
	event.SoundFrictionTrain:  {wave: WaveSquare, freq: 45, overtone: 2, gain: 0.25, duration: loopLen},
	event.SoundFrictionWater:  {wave: WaveNoise, gain: 0.15, duration: loopLen},
	event.SoundFrictionBumper: {wave: WaveSaw, freq: 90, gain: 0.2, duration: loopLen},

	event.SoundScream1: {wave: WaveSaw, freq: 620, glide: 300, overtone: 2, gain: 0.2, duration: 900 * time.Millisecond, attack: 60 * time.Millisecond, release: 300 * time.Millisecond},
	event.SoundScream2: {wave: WaveSaw, freq: 700, glide: 200, overtone: 2, gain: 0.2, duration: 1100 * time.Millisecond, attack: 60 * time.Millisecond, release: 400 * time.Millisecond},
	event.SoundScream3: {wave: WaveSaw, freq: 540, glide: 400, gain: 0.2, duration: 800 * time.Millisecond, attack: 40 * time.Millisecond, release: 300 * time.Millisecond},
	event.SoundScream4: {wave: WaveSine, freq: 880, glide: 250, overtone: 1.5, gain: 0.2, duration: 1000 * time.Millisecond, attack: 50 * time.Millisecond, release: 350 * time.Millisecond},
	event.SoundScream5: {wave: WaveSaw, freq: 480, glide: 350, gain: 0.2, duration: 900 * time.Millisecond, attack: 50 * time.Millisecond, release: 300 * time.Millisecond},
	event.SoundScream6: {wave: WaveSine, freq: 760, glide: 150, overtone: 2, gain: 0.2, duration: 1200 * time.Millisecond, attack: 80 * time.Millisecond, release: 500 * time.Millisecond},
	event.SoundScream7: {wave: WaveSine, freq: 660, glide: 300, noise: 0.1, gain: 0.2, duration: 900 * time.Millisecond, attack: 50 * time.Millisecond, release: 300 * time.Millisecond},

	event.SoundTrainWhistle: {wave: WaveSine, freq: 1400, overtone: 2, gain: 0.25, duration: 700 * time.Millisecond, attack: 30 * time.Millisecond, release: 150 * time.Millisecond},
	event.SoundTramBell:     {wave: WaveSine, freq: 1800, overtone: 2.7, gain: 0.25, duration: 600 * time.Millisecond, attack: 2 * time.Millisecond, release: 550 * time.Millisecond},
	event.SoundLaunch:       {wave: WaveSaw, freq: 80, glide: 400, noise: 0.2, gain: 0.3, duration: 800 * time.Millisecond, attack: 20 * time.Millisecond, release: 300 * time.Millisecond},
	event.SoundBrakeRelease: {wave: WaveNoise, gain: 0.25, duration: 300 * time.Millisecond, attack: 5 * time.Millisecond, release: 250 * time.Millisecond},
	event.SoundSplash:       {wave: WaveNoise, gain: 0.35, duration: 500 * time.Millisecond, attack: 5 * time.Millisecond, release: 450 * time.Millisecond},
	event.SoundCrash:        {wave: WaveNoise, freq: 60, gain: 0.5, duration: 900 * time.Millisecond, attack: 2 * time.Millisecond, release: 800 * time.Millisecond},
	event.SoundWaterSplash:  {wave: WaveNoise, gain: 0.3, duration: 400 * time.Millisecond, attack: 5 * time.Millisecond, release: 350 * time.Millisecond},
	event.SoundHauntedScare: {wave: WaveSaw, freq: 150, glide: -80, gain: 0.3, duration: 700 * time.Millisecond, attack: 10 * time.Millisecond, release: 300 * time.Millisecond},
	event.SoundHauntedScream1: {wave: WaveSaw, freq: 900, glide: -300, gain: 0.2, duration: 800 * time.Millisecond,
		attack: 30 * time.Millisecond, release: 300 * time.Millisecond},
	event.SoundHauntedScream2: {wave: WaveSine, freq: 1100, glide: -500, overtone: 2, gain: 0.2, duration: 700 * time.Millisecond,
		attack: 30 * time.Millisecond, release: 300 * time.Millisecond},
	event.SoundBumperHit: {wave: WaveSquare, freq: 120, noise: 0.3, gain: 0.3, duration: 150 * time.Millisecond, attack: 2 * time.Millisecond, release: 120 * time.Millisecond},
}

// render synthesizes one sample of the bank
func render(s event.Sound, rate beep.SampleRate) beep.Streamer {
	r := recipes[s]
	if r.duration == 0 {
		r = recipes[event.SoundFrictionSteel]
	}

	parts := []beep.Streamer{NewOscillator(r.freq, r.glide, r.duration, r.wave, rate)}
	if r.overtone != 0 {
		parts = append(parts, newVolume(NewOscillator(r.freq*r.overtone, r.glide*r.overtone, r.duration, r.wave, rate), 0.4))
	}
	if r.noise != 0 {
		parts = append(parts, newVolume(NewOscillator(0, 0, r.duration, WaveNoise, rate), r.noise))
	}

	var out beep.Streamer = beep.Mix(parts...)
	if r.attack != 0 || r.release != 0 {
		out = NewEnvelope(out, r.duration, r.attack, r.release, rate)
	}
	return beep.Take(rate.N(r.duration), newVolume(out, r.gain))
}
