package audio

import (
	"github.com/lixenwraith/coaster/event"
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/vehicle"
)

// Slots of a channel
const (
	SlotFriction = iota
	SlotScream
)

// Channel is a voice pair held by one audible vehicle
type Channel struct {
	Vehicle vehicle.ID
	Score   int32
	// Attenuation trails the candidate attenuation by SoundVolumeStep per tick
	Attenuation int32
	Slots       [2]Slot

	heard bool
}

// Slot is what one voice of a channel last sent to the output
type Slot struct {
	Sound     event.Sound
	Volume    int32
	Pan       int32
	Frequency int32
}

func (c *Channel) reset() {
	*c = Channel{Vehicle: vehicle.NoVehicle}
	c.Slots[SlotFriction].Sound = event.SoundNone
	c.Slots[SlotScream].Sound = event.SoundNone
}

// assign hands the channel to a vehicle, starting muffled so new sources fade in
func (c *Channel) assign(id vehicle.ID) {
	c.reset()
	c.Vehicle = id
	c.Attenuation = parameter.SoundUnderground
}

// slotRate derives the playback rate of a slot from the friction frequency
func slotRate(slot int, s event.Sound, f int32) int32 {
	if slot == SlotFriction {
		if halfRate(s) {
			return f/2 + parameter.HalfRateOffset
		}
		return f
	}
	if fixedRate(s) {
		f = parameter.ScreamFixedFrequency
	}
	return min(f*2-parameter.ScreamFrequencyOffset, parameter.ScreamFrequencyCap)
}

// halfRate samples are recorded an octave up and play at half the friction rate
func halfRate(s event.Sound) bool {
	return s == event.SoundFrictionTrain || s == event.SoundFrictionWater
}

// fixedRate samples ignore the vehicle speed
func fixedRate(s event.Sound) bool {
	switch s {
	case event.SoundLiftChain, event.SoundLiftCable, event.SoundLiftWooden,
		event.SoundTrainWhistle, event.SoundTramBell:
		return true
	}
	return false
}
