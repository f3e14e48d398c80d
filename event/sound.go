package event

// Sound identifies a sample in the ride sound bank
type Sound uint8

const (
	SoundLiftChain Sound = iota
	SoundLiftCable
	SoundLiftWooden
	SoundFrictionSteel
	SoundFrictionWooden
	SoundFrictionTrain
	SoundFrictionWater
	SoundFrictionBumper
	SoundScream1
	SoundScream2
	SoundScream3
	SoundScream4
	SoundScream5
	SoundScream6
	SoundScream7
	SoundTrainWhistle
	SoundTramBell
	SoundLaunch
	SoundBrakeRelease
	SoundSplash
	SoundCrash
	SoundWaterSplash
	SoundHauntedScare
	SoundHauntedScream1
	SoundHauntedScream2
	SoundBumperHit
	SoundCount

	// SoundNoScream marks a scream roll that came up silent, kept until the scream window closes
	SoundNoScream Sound = 0xFE
	// SoundNone marks an empty slot
	SoundNone Sound = 0xFF
)

var soundName = [SoundCount]string{
	"lift chain", "lift cable", "lift wooden",
	"friction steel", "friction wooden", "friction train", "friction water", "friction bumper",
	"scream 1", "scream 2", "scream 3", "scream 4", "scream 5", "scream 6", "scream 7",
	"train whistle", "tram bell", "launch", "brake release", "splash", "crash", "water splash",
	"haunted scare", "haunted scream 1", "haunted scream 2", "bumper hit",
}

func (s Sound) String() string {
	if s < SoundCount {
		return soundName[s]
	}
	return "none"
}

// Looping reports samples that play continuously while a vehicle moves
func (s Sound) Looping() bool {
	return s <= SoundFrictionBumper
}

// Scream reports rider scream samples
func (s Sound) Scream() bool {
	return s >= SoundScream1 && s <= SoundScream7
}
