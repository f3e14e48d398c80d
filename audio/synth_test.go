package audio

import (
	"testing"

	"github.com/lixenwraith/coaster/event"
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/track"
	"github.com/lixenwraith/coaster/vehicle"
	"github.com/lixenwraith/coaster/vmath"
)

// recorder counts output commands per voice
type recorder struct {
	plays map[int]event.Sound
	stops map[int]int
	rates map[int]int32
}

func newRecorder() *recorder {
	return &recorder{plays: map[int]event.Sound{}, stops: map[int]int{}, rates: map[int]int32{}}
}

func (r *recorder) Play(v int, s event.Sound, _ bool, _, _, _ int32) { r.plays[v] = s }
func (r *recorder) Stop(v int)                                       { r.stops[v]++ }
func (r *recorder) SetVolume(int, int32)                             {}
func (r *recorder) SetPan(int, int32)                                {}
func (r *recorder) SetRate(v int, rate int32)                        { r.rates[v] = rate }

type fixture struct {
	pool  *vehicle.Pool
	types *vehicle.Registry
	out   *recorder
	synth *Synthesizer
}

func newFixture(t *testing.T, channels int) *fixture {
	t.Helper()
	f := &fixture{pool: vehicle.NewPool(16), types: vehicle.DefaultRegistry(), out: newRecorder()}
	f.synth = New(f.pool, f.types, track.FlatTerrain{}, f.out, channels)
	f.synth.Viewport = Viewport{X: -200, Y: -200, Width: 400, Height: 400}
	return f
}

func (f *fixture) spawn(t *testing.T, typ string, velocity int32) *vehicle.Vehicle {
	t.Helper()
	id, err := f.types.Lookup(typ)
	if err != nil {
		t.Fatalf("lookup %s: %v", typ, err)
	}
	v, err := f.pool.Spawn(0, id, 4)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	v.Velocity = velocity
	v.Sound.Friction = event.SoundFrictionSteel
	v.Sound.FrictionVolume = 255
	return v
}

// TestChannelStealing verifies that a full pool ignores weaker newcomers and evicts exactly the weakest owner for a stronger one
func TestChannelStealing(t *testing.T) {
	f := newFixture(t, 2)
	a := f.spawn(t, vehicle.TypeNameCoasterCar, 0x100000)
	b := f.spawn(t, vehicle.TypeNameCoasterCar, 0x20000)

	if st := f.synth.Update(1); st.Active != 2 || st.Stolen != 0 {
		t.Fatalf("initial pass = %+v, want 2 active", st)
	}

	// 500 is below both owners (688 and 576 with the keep bonus)
	c := f.spawn(t, vehicle.TypeNameTramCar, 0)
	st := f.synth.Update(2)
	if st.Dropped != 1 || st.Stolen != 0 {
		t.Errorf("weak newcomer: stats %+v, want 1 dropped and nothing stolen", st)
	}
	if _, ok := f.synth.ChannelOf(c.ID); ok {
		t.Error("weak newcomer got a channel")
	}

	// 600 beats b (576) but not a (688)
	loco, _ := f.types.Lookup(vehicle.TypeNameLocomotive)
	c.Type = loco
	st = f.synth.Update(3)
	if st.Stolen != 1 {
		t.Errorf("strong newcomer: stolen = %d, want 1", st.Stolen)
	}
	if _, ok := f.synth.ChannelOf(a.ID); !ok {
		t.Error("strongest owner lost its channel")
	}
	if _, ok := f.synth.ChannelOf(b.ID); ok {
		t.Error("weakest owner kept its channel")
	}
	if _, ok := f.synth.ChannelOf(c.ID); !ok {
		t.Error("strong newcomer has no channel")
	}
	if f.out.stops[voice(1, SlotFriction)] != 1 {
		t.Errorf("evicted voice stops = %d, want 1", f.out.stops[voice(1, SlotFriction)])
	}
}

// TestCandidateOrdering verifies the candidate list is sorted by score and bounded by the pool size
func TestCandidateOrdering(t *testing.T) {
	f := newFixture(t, 2)
	f.spawn(t, vehicle.TypeNameCoasterCar, 0x10000)
	fast := f.spawn(t, vehicle.TypeNameCoasterCar, 0x200000)
	mid := f.spawn(t, vehicle.TypeNameCoasterCar, 0x80000)

	st := f.synth.Update(1)
	if st.Candidates != 3 || st.Dropped != 1 {
		t.Fatalf("stats = %+v, want 3 candidates and 1 dropped", st)
	}
	got := f.synth.Candidates()
	if len(got) != 2 || got[0].Vehicle != fast.ID || got[1].Vehicle != mid.ID {
		t.Errorf("candidates = %+v, want fast then mid", got)
	}
}

// TestSilentAndDistantVehiclesIgnored verifies only vehicles with sound inside the widened view are candidates
func TestSilentAndDistantVehiclesIgnored(t *testing.T) {
	f := newFixture(t, 4)
	silent := f.spawn(t, vehicle.TypeNameCoasterCar, 0x40000)
	silent.Sound.Friction = event.SoundNone
	far := f.spawn(t, vehicle.TypeNameCoasterCar, 0x40000)
	far.Pos = vmath.Vec3{X: -2000, Y: 2000}

	if st := f.synth.Update(1); st.Candidates != 0 || st.Active != 0 {
		t.Errorf("stats = %+v, want nothing audible", st)
	}
}

// TestAttenuationSmoothing verifies a new channel fades in by the volume step per tick
func TestAttenuationSmoothing(t *testing.T) {
	f := newFixture(t, 1)
	v := f.spawn(t, vehicle.TypeNameCoasterCar, 0x40000)

	f.synth.Update(1)
	ch, ok := f.synth.ChannelOf(v.ID)
	if !ok {
		t.Fatal("no channel")
	}
	if want := int32(parameter.SoundUnderground - parameter.SoundVolumeStep); ch.Attenuation != want {
		t.Errorf("attenuation after one tick = %d, want %d", ch.Attenuation, want)
	}
	for tick := uint32(2); tick < 20; tick++ {
		f.synth.Update(tick)
	}
	if ch, _ = f.synth.ChannelOf(v.ID); ch.Attenuation != 0 {
		t.Errorf("attenuation settled at %d, want 0", ch.Attenuation)
	}

	// burying the vehicle fades it back down
	v.Pos.Z = -10
	f.synth.Update(20)
	if ch, _ = f.synth.ChannelOf(v.ID); ch.Attenuation != parameter.SoundVolumeStep {
		t.Errorf("underground attenuation = %d, want %d", ch.Attenuation, parameter.SoundVolumeStep)
	}
}

// TestRateQuantization verifies playback rate changes reach the output only on every fourth tick
func TestRateQuantization(t *testing.T) {
	f := newFixture(t, 1)
	v := f.spawn(t, vehicle.TypeNameCoasterCar, 0x40000)
	f.synth.Update(1)
	if f.out.plays[0] != event.SoundFrictionSteel {
		t.Fatalf("friction voice plays %v", f.out.plays[0])
	}

	v.Velocity = 0x80000
	f.synth.Update(2)
	if _, ok := f.out.rates[0]; ok {
		t.Error("rate changed off the quantization tick")
	}
	f.synth.Update(4)
	want := frictionFrequency(0x80000, 0)
	if got := f.out.rates[0]; got != want {
		t.Errorf("rate = %d, want %d", got, want)
	}
}

// TestSlotRates verifies the friction and scream slot rate mapping
func TestSlotRates(t *testing.T) {
	tests := []struct {
		name string
		slot int
		snd  event.Sound
		f    int32
		want int32
	}{
		{"friction plain", SlotFriction, event.SoundFrictionSteel, 12000, 12000},
		{"friction half rate", SlotFriction, event.SoundFrictionTrain, 12000, 10000},
		{"scream", SlotScream, event.SoundScream1, 12000, 20752},
		{"scream capped", SlotScream, event.SoundScream1, 20000, parameter.ScreamFrequencyCap},
		{"fixed rate", SlotScream, event.SoundLiftChain, 30000, 12649*2 - 3248},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := slotRate(tt.slot, tt.snd, tt.f); got != tt.want {
				t.Errorf("slotRate = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestFrictionFrequency verifies the speed to rate mapping
func TestFrictionFrequency(t *testing.T) {
	if got := frictionFrequency(0, 0); got != parameter.FrictionBaseFrequency {
		t.Errorf("standstill = %d, want %d", got, parameter.FrictionBaseFrequency)
	}
	// (0x100000>>5)*5512>>14 = 11024
	if got := frictionFrequency(-0x100000, 2); got != 11024+11025+32 {
		t.Errorf("reverse with variation = %d", got)
	}
}

// TestEffectVoices verifies one-shots cycle through voices after the channel pool
func TestEffectVoices(t *testing.T) {
	f := newFixture(t, 2)
	for i := 0; i < parameter.EffectVoices+1; i++ {
		if !f.synth.Effect(event.SoundCrash, vmath.Vec3{}) {
			t.Fatal("effect at view center not played")
		}
	}
	for i := 0; i < parameter.EffectVoices; i++ {
		if f.out.plays[4+i] != event.SoundCrash {
			t.Errorf("voice %d plays %v", 4+i, f.out.plays[4+i])
		}
	}
	if f.synth.Effect(event.SoundCrash, vmath.Vec3{X: 5000, Y: -5000}) {
		t.Error("effect out of view played")
	}
}
