// Package audio turns moving vehicles into spatial sound
// A Synthesizer runs once per tick after motion has settled and drives an Output,
// normally the beep Mixer, through a fixed pool of channels
package audio

import (
	"github.com/lixenwraith/coaster/event"
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/track"
	"github.com/lixenwraith/coaster/vehicle"
	"github.com/lixenwraith/coaster/vmath"
)

// Output is the mixer a Synthesizer drives
// Voices are numbered channel*2 + slot, volume is in hundredths of a decibel,
// pan spans ±0x800 and rate is a playback rate in Hz
type Output interface {
	Play(voice int, s event.Sound, loop bool, volume, pan, rate int32)
	Stop(voice int)
	SetVolume(voice int, volume int32)
	SetPan(voice int, pan int32)
	SetRate(voice int, rate int32)
}

// Mute discards every command
type Mute struct{}

func (Mute) Play(int, event.Sound, bool, int32, int32, int32) {}
func (Mute) Stop(int)                                         {}
func (Mute) SetVolume(int, int32)                             {}
func (Mute) SetPan(int, int32)                                {}
func (Mute) SetRate(int, int32)                               {}

// Candidate is one vehicle that can be heard this tick
type Candidate struct {
	Vehicle vehicle.ID
	// Score orders candidates, highest first
	Score      int32
	PanX, PanY int32
	Frequency  int32
	// Attenuation is the target channel attenuation, raised for vehicles below ground
	Attenuation int32
}

// Stats summarizes one synthesis pass
type Stats struct {
	Candidates int
	Active     int
	// Stolen counts channels taken from a vehicle that was still audible
	Stolen int
	// Dropped counts audible vehicles left without a channel
	Dropped int
}

// Synthesizer owns the channel pool
type Synthesizer struct {
	Pool     *vehicle.Pool
	Types    *vehicle.Registry
	Terrain  track.Terrain
	Out      Output
	Viewport Viewport

	channels   []Channel
	candidates []Candidate
	heads      []vehicle.ID
	// effect cycles through the one-shot voices after the channel pool
	effect int
}

// New creates a synthesizer with n channels, n < 1 uses the default pool size
func New(pool *vehicle.Pool, types *vehicle.Registry, terrain track.Terrain, out Output, n int) *Synthesizer {
	if n < 1 {
		n = parameter.SoundChannels
	}
	if terrain == nil {
		terrain = track.FlatTerrain{}
	}
	if out == nil {
		out = Mute{}
	}
	s := &Synthesizer{
		Pool:       pool,
		Types:      types,
		Terrain:    terrain,
		Out:        out,
		channels:   make([]Channel, n),
		candidates: make([]Candidate, 0, n),
	}
	for i := range s.channels {
		s.channels[i].reset()
	}
	return s
}

// Update gathers the audible vehicles, keeps channels with their owners, hands free
// channels to the loudest newcomers and drives the output
func (s *Synthesizer) Update(tick uint32) Stats {
	var st Stats
	s.candidates = s.candidates[:0]
	for i := range s.channels {
		s.channels[i].heard = false
	}

	s.heads = s.Pool.Heads(s.heads)
	for _, id := range s.heads {
		c, ok := s.candidate(s.Pool.Get(id))
		if !ok {
			continue
		}
		st.Candidates++
		st.Dropped += s.offer(c)
	}

	for i := range s.channels {
		ch := &s.channels[i]
		if ch.Vehicle == vehicle.NoVehicle || s.listed(ch.Vehicle) {
			continue
		}
		if ch.heard {
			st.Stolen++
		}
		s.release(i)
	}

	adjust := s.Viewport.ZoomAdjust()
	for _, c := range s.candidates {
		i := s.channelOf(c.Vehicle)
		if i < 0 {
			if i = s.claim(c, &st); i < 0 {
				st.Dropped++
				continue
			}
		}
		s.play(i, c, adjust, tick)
	}

	for i := range s.channels {
		if s.channels[i].Vehicle != vehicle.NoVehicle {
			st.Active++
		}
	}
	return st
}

// Candidates returns the ordered candidate list of the last pass
func (s *Synthesizer) Candidates() []Candidate {
	return s.candidates
}

// Channels returns a copy of the channel pool
func (s *Synthesizer) Channels() []Channel {
	out := make([]Channel, len(s.channels))
	copy(out, s.channels)
	return out
}

// ChannelOf returns the channel held by a vehicle
func (s *Synthesizer) ChannelOf(id vehicle.ID) (Channel, bool) {
	i := s.channelOf(id)
	if i < 0 {
		return Channel{}, false
	}
	return s.channels[i], true
}

// Reset silences every channel
func (s *Synthesizer) Reset() {
	for i := range s.channels {
		if s.channels[i].Vehicle != vehicle.NoVehicle {
			s.release(i)
		}
	}
	s.candidates = s.candidates[:0]
}

// Effect plays a one-shot sound at a world position when it is near the view
func (s *Synthesizer) Effect(snd event.Sound, at vmath.Vec3) bool {
	sx, sy := Project(at)
	if snd >= event.SoundCount || !s.Viewport.Audible(sx, sy) {
		return false
	}
	px, py := s.Viewport.Pan(sx, sy)
	vol := max(min(edgeVolume(px), edgeVolume(py))-s.Viewport.ZoomAdjust(), 0)
	id := 2*len(s.channels) + s.effect
	s.effect = (s.effect + 1) % parameter.EffectVoices
	s.Out.Play(id, snd, false, decibels(255, vol), px, parameter.ToneBaseRate)
	return true
}

// candidate scores a vehicle that has something to play and is near the view
func (s *Synthesizer) candidate(v *vehicle.Vehicle) (Candidate, bool) {
	if v == nil || (v.Sound.Friction == event.SoundNone && v.Sound.Scream == event.SoundNone) {
		return Candidate{}, false
	}
	sx, sy := Project(v.Pos)
	if !s.Viewport.Audible(sx, sy) {
		return Candidate{}, false
	}

	c := Candidate{
		Vehicle:   v.ID,
		Score:     s.Pool.TrainFriction(v.ID, s.Types) + vmath.Abs(v.Velocity)>>parameter.SoundVelocityShift,
		Frequency: frictionFrequency(v.Velocity, v.Sound.Variation),
	}
	if i := s.channelOf(v.ID); i >= 0 {
		c.Score += parameter.SoundAssignedBonus
		s.channels[i].heard = true
	}
	c.PanX, c.PanY = s.Viewport.Pan(sx, sy)
	if s.Terrain.Ground(v.Pos.X, v.Pos.Y) > v.Pos.Z {
		c.Attenuation = parameter.SoundUnderground
	}
	return c, true
}

// offer inserts c into the bounded candidate list, returning 1 when a candidate fell off the end
func (s *Synthesizer) offer(c Candidate) int {
	limit := len(s.channels)
	i := 0
	for i < len(s.candidates) && c.Score <= s.candidates[i].Score {
		i++
	}
	if i >= limit {
		return 1
	}
	dropped := 0
	if len(s.candidates) < limit {
		s.candidates = append(s.candidates, Candidate{})
	} else {
		dropped = 1
	}
	copy(s.candidates[i+1:], s.candidates[i:len(s.candidates)-1])
	s.candidates[i] = c
	return dropped
}

func (s *Synthesizer) listed(id vehicle.ID) bool {
	for i := range s.candidates {
		if s.candidates[i].Vehicle == id {
			return true
		}
	}
	return false
}

func (s *Synthesizer) channelOf(id vehicle.ID) int {
	for i := range s.channels {
		if s.channels[i].Vehicle == id {
			return i
		}
	}
	return -1
}

// claim finds a channel for a newcomer, evicting the lowest scored owner only when c outscores it
func (s *Synthesizer) claim(c Candidate, st *Stats) int {
	lowest := -1
	for i := range s.channels {
		ch := &s.channels[i]
		if ch.Vehicle == vehicle.NoVehicle {
			ch.assign(c.Vehicle)
			return i
		}
		if lowest < 0 || ch.Score < s.channels[lowest].Score {
			lowest = i
		}
	}
	if lowest < 0 || c.Score <= s.channels[lowest].Score {
		return -1
	}
	s.release(lowest)
	st.Stolen++
	s.channels[lowest].assign(c.Vehicle)
	return lowest
}

func (s *Synthesizer) release(i int) {
	ch := &s.channels[i]
	for slot := range ch.Slots {
		if ch.Slots[slot].Sound != event.SoundNone {
			s.Out.Stop(voice(i, slot))
		}
	}
	ch.reset()
}

// play smooths the channel attenuation and updates both slots from the vehicle's sound state
func (s *Synthesizer) play(i int, c Candidate, adjust int32, tick uint32) {
	ch := &s.channels[i]
	ch.Score = c.Score

	vol := min(edgeVolume(c.PanY), edgeVolume(c.PanX))
	vol = max(vol-adjust, 0)

	switch {
	case ch.Attenuation < c.Attenuation:
		ch.Attenuation = min(ch.Attenuation+parameter.SoundVolumeStep, c.Attenuation)
	case ch.Attenuation > c.Attenuation:
		ch.Attenuation = max(ch.Attenuation-parameter.SoundVolumeStep, c.Attenuation)
	}
	vol = max(vol-ch.Attenuation, 0)

	v := s.Pool.Get(c.Vehicle)
	s.drive(i, SlotFriction, v.Sound.Friction, v.Sound.FrictionVolume, vol, c, tick)
	s.drive(i, SlotScream, v.Sound.Scream, v.Sound.ScreamVolume, vol, c, tick)
}

// drive starts, stops or retunes one voice
// Rate changes are quantized to every fourth tick
func (s *Synthesizer) drive(i, slot int, snd event.Sound, level uint8, vol int32, c Candidate, tick uint32) {
	sl := &s.channels[i].Slots[slot]
	id := voice(i, slot)

	if snd == event.SoundNone {
		if sl.Sound != event.SoundNone {
			s.Out.Stop(id)
			sl.Sound = event.SoundNone
		}
		return
	}

	db := decibels(level, vol)
	if sl.Sound != snd {
		if sl.Sound != event.SoundNone {
			s.Out.Stop(id)
		}
		*sl = Slot{Sound: snd, Volume: db, Pan: c.PanX, Frequency: c.Frequency}
		s.Out.Play(id, snd, snd.Looping(), db, c.PanX, slotRate(slot, snd, c.Frequency))
		return
	}

	if db != sl.Volume {
		sl.Volume = db
		s.Out.SetVolume(id, db)
	}
	if c.PanX != sl.Pan {
		sl.Pan = c.PanX
		s.Out.SetPan(id, c.PanX)
	}
	if tick&parameter.SoundFrequencyMask == 0 && c.Frequency != sl.Frequency {
		sl.Frequency = c.Frequency
		if slot == SlotFriction || !fixedRate(snd) {
			s.Out.SetRate(id, slotRate(slot, snd, c.Frequency))
		}
	}
}

func voice(channel, slot int) int {
	return channel*2 + slot
}

// frictionFrequency maps speed and heading variation to a playback rate
func frictionFrequency(v int32, variation int8) int32 {
	f := (int64(vmath.Abs(v)>>5) * parameter.FrictionFrequencyMul) >> 14
	return int32(f) + parameter.FrictionBaseFrequency + parameter.FrictionVariationMul*int32(variation)
}

// decibels converts a slot level and channel volume, both 0..255, to hundredths of a decibel
func decibels(level uint8, vol int32) int32 {
	return max(int32(level)*vol/8-parameter.SoundDecibelOffset, parameter.SoundMinDecibel)
}
