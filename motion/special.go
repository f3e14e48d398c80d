package motion

import (
	"github.com/lixenwraith/coaster/event"
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/ride"
	"github.com/lixenwraith/coaster/track"
	"github.com/lixenwraith/coaster/vehicle"
)

// forwardTrigger applies the piece effects of the way-point a car is about to leave moving forward
func (w *walker) forwardTrigger() {
	c, car := w.c, w.car
	v := c.velocity

	switch w.seg.Element {
	case track.ElemHeartlineTransferUp, track.ElemHeartlineTransferDown:
		if car.Progress == parameter.HeartlineFlipProgress {
			car.Flags ^= vehicle.FlagUseAlternateSprites
		}
		if v >= parameter.HeartlineFastVelocity {
			w.accel = int64(v) * parameter.HeartlineBrakeMultiple
		} else if v < parameter.HeartlineSlowVelocity {
			w.accel = parameter.HeartlineSlowAccel
		}

	case track.ElemBrakes:
		if c.Ride.BrakesFailed() {
			break
		}
		if int32(w.seg.BrakeSpeed)<<16 < v {
			w.accel = int64(v) * parameter.BrakesForwardMultiple
		} else if c.Tick%parameter.BrakesSoundInterval == 0 && !c.brakeSound {
			c.brakeSound = true
			c.playSound(event.SoundBrakeRelease, car.Pos)
		}

	case track.ElemPoweredLift:
		if c.Ride.Kind != nil {
			w.accel = int64(c.Ride.Kind.PoweredLiftAccel) << 16
		}

	case track.ElemBooster:
		if c.Ride.Kind != nil {
			w.accel = int64(c.Ride.Kind.BoosterAccel) << 16
		}

	case track.ElemBrakeForDrop:
		if car.IsHead() && !car.Has(vehicle.FlagOnBrakeForDrop) && car.Progress >= parameter.BrakeForDropBrakeProgress {
			w.accel = int64(v) * parameter.BrakesForwardMultiple
			if car.Progress >= parameter.BrakeForDropHoldProgress {
				car.Set(vehicle.FlagOnBrakeForDrop)
				car.Hold = parameter.BrakeForDropHoldTicks
			}
		}

	case track.ElemLogFlumeReverser:
		if car.Progress == parameter.LogFlumeSkipProgress && v >= parameter.LogFlumeSkipVelocity {
			car.Progress += parameter.LogFlumeSkipSteps
		} else if car.Progress == parameter.LogFlumeSwapProgress {
			car.Type = w.typ.Reverser
			w.typ = c.Types.Get(car.Type)
		}
	}
}

// backwardTrigger applies the piece effects of the way-point a car is about to leave moving backward
func (w *walker) backwardTrigger() {
	c := w.c
	if w.seg.Element != track.ElemBrakes || c.Ride.BrakesFailed() {
		return
	}
	if -(int32(w.seg.BrakeSpeed) << 16) <= c.velocity {
		w.accel = int64(c.velocity) * parameter.BrakesBackwardMultiple
	}
}

// splash plays water sounds at fixed points of splash pieces
func (w *walker) splash() {
	c, car := w.c, w.car
	if c.velocity <= parameter.SplashVelocity || !car.IsHead() {
		return
	}
	seg := w.seg
	kind := c.Ride.Kind

	switch {
	case seg.Element == track.ElemWaterSplash && car.Progress == parameter.SplashProgress:
		c.playSound(event.SoundWaterSplash, car.Pos)
		c.Sink.Spawn(event.EffectSplash, car.Pos)
	case kind != nil && kind.Has(ride.KindSplashDrag) &&
		seg.Element == track.ElemDown25ToFlat && car.Progress == parameter.SplashDropProgress:
		c.playSound(event.SoundSplash, car.Pos)
	case kind != nil && kind.Has(ride.KindCoveredSlide) &&
		seg.Descriptor().Has(track.FlagCovered) && car.Progress == parameter.CoveredSplashProgress:
		if next, err := c.Ride.Track.Next(seg.ID); err == nil && !next.Descriptor().Has(track.FlagCovered) {
			c.playSound(event.SoundSplash, car.Pos)
		}
	}
}

// leaveForward runs when a car moves off the end of a piece
func (w *walker) leaveForward(old track.Segment) {
	c, car := w.c, w.car
	if old.Element == track.ElemCableLiftHill && car == c.head {
		c.flags |= FlagCableLiftEnd
	}
	if old.BlockStart() && car.Next == vehicle.NoVehicle {
		c.Ride.Blocks.Enter(old.ID, c.trainID())
		if old.Element == track.ElemEndStation || old.Element == track.ElemCableLiftHill {
			c.playSound(event.SoundBrakeRelease, car.Pos)
		}
	}
}

// enterForward runs when a car moves onto the start of a piece
func (w *walker) enterForward(old, next track.Segment) {
	c, car := w.c, w.car
	if next.LiftHill {
		car.Set(vehicle.FlagOnLiftHill)
	} else {
		car.Clear(vehicle.FlagOnLiftHill)
	}

	switch next.Element {
	case track.ElemOnRidePhoto:
		if car.Riding() {
			c.Ride.Set(ride.LifecycleOnRidePhoto)
			c.Sink.Spawn(event.EffectPhoto, next.Position(0))
		}
	case track.ElemRotationControlToggle:
		car.Flags ^= vehicle.FlagSpinLocked
	}

	w.door(old, next)
}

// door animates the tunnel door at the mouth of a covered section, opened by the head and shut by the tail
func (w *walker) door(old, next track.Segment) {
	if old.Descriptor().Has(track.FlagCovered) || !next.Descriptor().Has(track.FlagCovered) {
		return
	}
	if w.car.IsHead() || w.car.Next == vehicle.NoVehicle {
		w.c.Sink.Spawn(event.EffectDoor, next.Position(0))
	}
}

// enterBackward runs when a car rolls back onto the end of a piece
func (w *walker) enterBackward(old, prev track.Segment) {
	c, car := w.c, w.car
	tail := car.Next == vehicle.NoVehicle

	if prev.LiftHill {
		if c.velocity < 0 {
			if tail && prev.Descriptor().Has(track.FlagRollback) {
				c.flags |= FlagRollbackFromLift
			}
			car.Set(vehicle.FlagOnLiftHill)
		}
		return
	}
	if car.Has(vehicle.FlagOnLiftHill) {
		car.Clear(vehicle.FlagOnLiftHill)
		if tail && c.velocity < 0 {
			c.flags |= FlagLeftLiftBackward
		}
	}
}
