package audio

import (
	"github.com/lixenwraith/coaster/event"
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/ride"
	"github.com/lixenwraith/coaster/vehicle"
	"github.com/lixenwraith/coaster/vmath"
)

// Selector picks the friction and scream sounds of trains
type Selector struct {
	Pool  *vehicle.Pool
	Types *vehicle.Registry
	Rand  *vmath.FastRand
}

// Select updates the sound state of a train head after its motion for the tick
func (s *Selector) Select(head *vehicle.Vehicle, kind *ride.Kind, tick uint32) {
	typ := s.Types.Get(head.Type)
	st := &head.Sound

	friction, fvol := event.SoundNone, uint8(255)
	if d := vmath.Abs(head.Velocity) - parameter.FrictionVelocityFloor; d >= 0 {
		friction = typ.FrictionSound
		fvol = uint8(min(parameter.FrictionVolumeBase+d>>parameter.FrictionVolumeShift, 255))
	}

	scream, svol, ok := s.scream(head, typ, kind, tick)
	if !ok {
		st.Chosen = event.SoundNone
		scream, svol = event.SoundNone, 255
		if kind != nil && typ.Has(vehicle.TypeLiftSound) && head.Has(vehicle.FlagOnLiftHill) {
			scream, svol = kind.LiftSound, parameter.LiftSoundVolume
		}
	}

	st.Friction, st.FrictionVolume = crossfade(st.Friction, st.FrictionVolume, friction, fvol)
	st.Scream, st.ScreamVolume = crossfade(st.Scream, st.ScreamVolume, scream, svol)

	c := vmath.Cos(vmath.DirectionAngle(head.Direction)) >> 2
	variation := (int64(head.Velocity>>parameter.VariationVelocityShift) * int64(c)) >> parameter.VariationDirectionShift
	st.Variation = int8(vmath.Clamp(int32(variation), -parameter.VariationClamp, parameter.VariationClamp))
}

// scream returns the momentary sound of a train, ok is false when the lift sound should play instead
func (s *Selector) scream(head *vehicle.Vehicle, typ *vehicle.Type, kind *ride.Kind, tick uint32) (event.Sound, uint8, bool) {
	if kind != nil {
		switch {
		case kind.Has(ride.KindTrainWhistle):
			return s.signal(head, event.SoundTrainWhistle, tick)
		case kind.Has(ride.KindTramBell):
			return s.signal(head, event.SoundTramBell, tick)
		}
	}
	if !typ.Has(vehicle.TypeRidersScream) {
		return event.SoundNone, 255, false
	}
	snd := s.rollScream(head, kind)
	if snd == event.SoundNone || snd == event.SoundNoScream {
		return event.SoundNone, 255, false
	}
	return snd, 255, true
}

// signal rolls a whistle or bell on every 128th tick while the train runs fast
// A signal already chosen is dropped at the next roll
func (s *Selector) signal(head *vehicle.Vehicle, snd event.Sound, tick uint32) (event.Sound, uint8, bool) {
	st := &head.Sound
	if tick&parameter.WhistleIntervalMask == 0 {
		if head.Velocity < parameter.WhistleVelocity || st.Chosen != event.SoundNone {
			return event.SoundNone, 255, false
		}
		if s.Rand.Chance(parameter.WhistleChance) {
			st.Chosen = snd
			return snd, 255, true
		}
	}
	if st.Chosen == event.SoundNoScream {
		return event.SoundNone, 255, true
	}
	return st.Chosen, 255, true
}

// rollScream keeps the scream chosen for the current thrill, rolling a new one when riders
// hit a steep drop or climb backwards fast enough
func (s *Selector) rollScream(head *vehicle.Vehicle, kind *ride.Kind) event.Sound {
	riders := s.Pool.TotalRiders(head.ID)
	if riders == 0 {
		return event.SoundNone
	}

	v := head.Velocity
	backward := v < 0
	if backward && v > -parameter.ScreamVelocity || !backward && v < parameter.ScreamVelocity {
		return event.SoundNone
	}

	thrill := false
	for id := head.ID; id != vehicle.NoVehicle && !thrill; {
		car := s.Pool.Get(id)
		if car == nil {
			break
		}
		if backward {
			thrill = car.Pitch.Ascending()
		} else {
			thrill = car.Pitch.Descending()
		}
		id = car.Next
	}
	if !thrill {
		return event.SoundNone
	}

	st := &head.Sound
	if st.Chosen == event.SoundNone {
		r := s.Rand.Next()
		st.Chosen = event.SoundNoScream
		if kind != nil && len(kind.Screams) > 0 && riders >= int(r%16) {
			st.Chosen = kind.Screams[r%uint64(len(kind.Screams))]
		}
	}
	return st.Chosen
}

// crossfade moves a slot toward a target sound
// The same sound swells by 15 per tick, another sound fades the current one by 9
// and takes over below 80, starting at a quarter of its level
func crossfade(cur event.Sound, vol uint8, target event.Sound, tvol uint8) (event.Sound, uint8) {
	if cur != event.SoundNone {
		if cur == target {
			return cur, uint8(min(int(vol)+parameter.CrossfadeStepUp, int(tvol)))
		}
		if v := int(vol) - parameter.CrossfadeStepDown; v >= parameter.CrossfadeFloor {
			return cur, uint8(v)
		}
	}
	if tvol == 255 {
		return target, 255
	}
	return target, tvol / 4
}
