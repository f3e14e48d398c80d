package audio

import (
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/lixenwraith/coaster/event"
	"github.com/lixenwraith/coaster/parameter"
)

// Mixer renders synthesizer voices through beep
// Each voice is a cached tone resampled to its playback rate, panned and attenuated
type Mixer struct {
	mu          sync.Mutex
	format      beep.Format
	mixer       *beep.Mixer
	cache       *toneCache
	voices      map[int]*mixVoice
	initialized bool
}

type mixVoice struct {
	sound     event.Sound
	ctrl      *beep.Ctrl
	resampler *beep.Resampler
	pan       *effects.Pan
	volume    *effects.Volume
}

// NewMixer creates a mixer rendering at the given sample rate, 0 uses the default
func NewMixer(rate int) *Mixer {
	if rate <= 0 {
		rate = parameter.AudioSampleRate
	}
	format := beep.Format{SampleRate: beep.SampleRate(rate), NumChannels: 2, Precision: 2}
	return &Mixer{
		format: format,
		mixer:  &beep.Mixer{},
		cache:  newToneCache(format),
		voices: make(map[int]*mixVoice),
	}
}

// Initialize opens the speaker and starts streaming
func (m *Mixer) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	m.cache.preload()
	sr := m.format.SampleRate
	if err := speaker.Init(sr, sr.N(parameter.AudioBufferDuration)); err != nil {
		return err
	}
	speaker.Play(m.mixer)
	m.initialized = true
	return nil
}

// Close silences every voice and releases the speaker
func (m *Mixer) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.locked(func() {
		for id, v := range m.voices {
			v.ctrl.Streamer = nil
			delete(m.voices, id)
		}
		m.mixer.Clear()
	})
	if m.initialized {
		speaker.Close()
		m.initialized = false
	}
}

// Streamer exposes the mixed output, used when another sink drives playback
func (m *Mixer) Streamer() beep.Streamer {
	return m.mixer
}

// Voices returns the number of live voices
func (m *Mixer) Voices() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}

func (m *Mixer) Play(voice int, s event.Sound, loop bool, volume, pan, rate int32) {
	buf := m.cache.get(s)
	if buf == nil || buf.Len() == 0 {
		return
	}

	var src beep.Streamer = buf.Streamer(0, buf.Len())
	if loop {
		src = beep.Loop(-1, buf.Streamer(0, buf.Len()))
	}
	v := &mixVoice{sound: s}
	v.resampler = beep.ResampleRatio(parameter.ResampleQuality, rateRatio(rate), src)
	v.pan = &effects.Pan{Streamer: v.resampler, Pan: panRatio(pan)}
	v.volume = &effects.Volume{Streamer: v.pan, Base: 10}
	setGain(v.volume, volume)
	v.ctrl = &beep.Ctrl{Streamer: v.volume}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.locked(func() {
		if old, ok := m.voices[voice]; ok {
			old.ctrl.Streamer = nil
		}
		m.voices[voice] = v
		m.mixer.Add(v.ctrl)
	})
}

func (m *Mixer) Stop(voice int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locked(func() {
		if v, ok := m.voices[voice]; ok {
			v.ctrl.Streamer = nil
			delete(m.voices, voice)
		}
	})
}

func (m *Mixer) SetVolume(voice int, volume int32) {
	m.update(voice, func(v *mixVoice) { setGain(v.volume, volume) })
}

func (m *Mixer) SetPan(voice int, pan int32) {
	m.update(voice, func(v *mixVoice) { v.pan.Pan = panRatio(pan) })
}

func (m *Mixer) SetRate(voice int, rate int32) {
	m.update(voice, func(v *mixVoice) { v.resampler.SetRatio(rateRatio(rate)) })
}

func (m *Mixer) update(voice int, fn func(*mixVoice)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.voices[voice]
	if !ok {
		return
	}
	m.locked(func() { fn(v) })
}

// locked runs fn under the speaker lock once the speaker is streaming, caller holds m.mu
func (m *Mixer) locked(fn func()) {
	if m.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	fn()
}

// setGain converts hundredths of a decibel to a base-10 volume
func setGain(v *effects.Volume, volume int32) {
	v.Silent = volume <= parameter.SoundMinDecibel
	v.Volume = float64(volume) / 2000
}

func panRatio(pan int32) float64 {
	return max(-1, min(1, float64(pan)/parameter.SoundEdgeStart))
}

func rateRatio(rate int32) float64 {
	return max(0.05, float64(rate)/parameter.ToneBaseRate)
}
