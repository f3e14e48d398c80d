package event

import (
	"sync"

	"github.com/lixenwraith/coaster/vmath"
)

var debrisPool = sync.Pool{
	New: func() any {
		return &DebrisPayload{
			Particles: make([]vmath.Vec3, 0, 16),
		}
	},
}

// AcquireDebris returns a pooled debris payload anchored at origin
func AcquireDebris(origin vmath.Vec3) *DebrisPayload {
	p := debrisPool.Get().(*DebrisPayload)
	p.Particles = p.Particles[:0]
	p.Origin = origin
	return p
}

// ReleaseDebris returns payload to pool once the consumer is done with it
func ReleaseDebris(p *DebrisPayload) {
	if p == nil {
		return
	}
	p.Particles = p.Particles[:0]
	debrisPool.Put(p)
}
