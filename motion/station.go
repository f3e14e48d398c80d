package motion

import (
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/track"
	"github.com/lixenwraith/coaster/vehicle"
)

// finishCar averages the car's acceleration and reports platform and lift state
func (c *Context) finishCar(w *walker) {
	car := w.car
	if w.steps < 1 {
		w.steps = 1
	}
	car.Acceleration = int32(w.accel / int64(w.steps))

	if car.Has(vehicle.FlagOnLiftHill) {
		c.flags |= FlagOnLiftHill
	}

	seg := w.seg
	if !seg.IsStation() {
		return
	}
	c.flags |= FlagInStation
	if c.station < 0 {
		c.station = seg.Station
	}
	if car != c.head {
		return
	}

	switch seg.Element {
	case track.ElemTowerBase:
		if car.Progress > parameter.TowerBaseStationLimit && !car.Has(vehicle.FlagReversed) {
			if _, err := c.Ride.Track.Next(seg.ID); err == nil {
				c.flags |= FlagClearOfTowerBase
			}
		}
		if car.Progress <= parameter.TowerBaseStationLimit {
			c.flags |= FlagAtStation
		}

	case track.ElemEndStation:
		if c.velocity < 0 {
			if car.Progress <= parameter.EndStationBackwardStop {
				c.flags |= FlagAtStation
			}
			return
		}
		limit := uint16(parameter.EndStationForward)
		if w.typ.Has(vehicle.TypeChairlift) {
			limit = parameter.EndStationForwardLift
		}
		if car.Progress > limit {
			c.flags |= FlagAtStation
		}
	}
}
