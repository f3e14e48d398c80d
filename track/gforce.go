package track

// GForceKind selects how an element's curvature factors are looked up
type GForceKind uint8

const (
	// GForceNone contributes no curvature term
	GForceNone GForceKind = iota
	// GForceFixed uses constant factors over the whole element
	GForceFixed
	// GForceLoop derives the vertical factor from the distance to the loop apex
	GForceLoop
	// GForcePhased steps the vertical factor by progress
	GForcePhased
	// GForceSplit flips the lateral factor at a progress boundary
	GForceSplit
)

// loopApexFactor is the tightest vertical factor of a loop, reached at its apex
const loopApexFactor = 28

// GForcePhase applies Vertical while progress is below Until
type GForcePhase struct {
	Until    uint16
	Vertical int32
}

// GForceProfile holds calibrated curvature factors for an element
// A factor f adds |v|*98/f to the matching g-force axis, 0 disables the axis
type GForceProfile struct {
	Kind     GForceKind
	Vertical int32
	Lateral  int32
	Phases   []GForcePhase
	Split    uint16
}

// Factors returns the vertical and lateral factors at a progress along an element of the given length
func (g *GForceProfile) Factors(progress, length uint16) (vertical, lateral int32) {
	switch g.Kind {
	case GForceFixed:
		return g.Vertical, g.Lateral
	case GForceLoop:
		d := int32(progress) - int32(length/2)
		if d < 0 {
			d = -d
		}
		return d/2 + loopApexFactor, 0
	case GForcePhased:
		for _, p := range g.Phases {
			if progress < p.Until {
				return p.Vertical, 0
			}
		}
		if n := len(g.Phases); n > 0 {
			return g.Phases[n-1].Vertical, 0
		}
	case GForceSplit:
		if progress < g.Split {
			return 0, g.Lateral
		}
		return 0, -g.Lateral
	}
	return 0, 0
}
