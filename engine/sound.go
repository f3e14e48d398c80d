package engine

import "github.com/lixenwraith/coaster/vehicle"

// soundPass picks the sounds of every running train, then lets the synthesizer assign channels
func (e *Engine) soundPass() {
	for _, id := range e.order {
		r := e.rides[id]
		for _, h := range r.Trains {
			v := e.pool.Get(vehicle.ID(h))
			if v == nil || !v.IsHead() {
				continue
			}
			e.sounds.Select(v, r.Kind, e.tick)
		}
	}
	if e.synth != nil {
		e.report.Sound = e.synth.Update(e.tick)
	}
}
