package motion

import "strings"

// Flags is the outcome bitmask of one integrator call
type Flags uint16

const (
	// FlagAtStation is raised when the head reaches the stopping point of a station
	FlagAtStation Flags = 1 << iota
	// FlagHitVehicleAhead is raised when the front car touched the train ahead
	FlagHitVehicleAhead
	// FlagHitVehicleBehind is raised when a reversing train touched the train behind
	FlagHitVehicleBehind
	// FlagInStation is raised while any car is on a platform piece
	FlagInStation
	// FlagOnLiftHill is raised while any car is on a lift piece
	FlagOnLiftHill
	// FlagEndOfTrack is raised when the graph has no piece to move onto
	FlagEndOfTrack
	FlagDerailed
	// FlagCollision is raised by contact fast enough to wreck both trains
	FlagCollision
	// FlagLeftLiftBackward is raised when the last car rolls off the bottom of a lift
	FlagLeftLiftBackward
	// FlagRollbackFromLift is raised when the last car rolls back onto a rollback-capable lift piece
	FlagRollbackFromLift
	// FlagBlockedByBrake is raised while a closed block section holds the head
	FlagBlockedByBrake
	// FlagCableLiftEnd is raised when the head leaves a cable lift hill
	FlagCableLiftEnd
	// FlagClearOfTowerBase is raised when a tower car climbs past its platform
	FlagClearOfTowerBase
)

var flagName = [...]string{
	"at station", "hit vehicle ahead", "hit vehicle behind", "in station",
	"on lift hill", "end of track", "derailed", "collision", "left lift backward",
	"rollback from lift", "blocked by brake", "cable lift end", "clear of tower base",
}

// Has reports whether all bits of f are set
func (f Flags) Has(want Flags) bool {
	return f&want == want
}

// Any reports whether any bit of want is set
func (f Flags) Any(want Flags) bool {
	return f&want != 0
}

func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	var b strings.Builder
	for i, name := range flagName {
		if f&(1<<i) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('|')
		}
		b.WriteString(name)
	}
	return b.String()
}
