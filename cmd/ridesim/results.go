package main

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/coaster/api"
	"github.com/lixenwraith/coaster/engine"
	"github.com/lixenwraith/coaster/event"
	"github.com/lixenwraith/coaster/ride"
	"github.com/lixenwraith/coaster/rider"
	"github.com/lixenwraith/coaster/status"
	"github.com/lixenwraith/coaster/store"
	"github.com/lixenwraith/coaster/telemetry"
	"github.com/lixenwraith/coaster/vehicle"
)

// influxEvery is the tick stride of train samples sent to InfluxDB
const influxEvery = 10

// consumer drains the presentation queue after every tick and fans reports out to the optional outputs
type consumer struct {
	log    zerolog.Logger
	engine *engine.Engine
	queue  *event.Queue
	roster *rider.Roster

	metrics *telemetry.Metrics
	influx  *telemetry.Influx
	store   *store.Manager
	api     *api.Server
	board   *status.Board

	snaps  []vehicle.Snapshot
	events []event.Event
	// dropped is the queue overflow count already reported
	dropped uint64
	// fed is the tick riders were last queued
	fed uint32
}

func (c *consumer) run(ctx context.Context, ticker *engine.Ticker) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Done():
			c.drain(ctx)
			return
		case rep := <-ticker.Reports():
			c.handle(ctx, rep)
		}
	}
}

func (c *consumer) handle(ctx context.Context, rep engine.Report) {
	if c.fed == 0 || rep.Tick-c.fed >= demandInterval {
		feedQueues(c.roster)
		c.fed = rep.Tick
	}
	if c.metrics != nil {
		c.metrics.Record(ctx, rep)
	}
	if c.board != nil {
		c.board.Record(rep, time.Now())
		if rep.Tick%influxEvery == 0 {
			c.recordRides()
		}
	}
	if c.influx != nil && rep.Tick%influxEvery == 0 {
		c.snaps = c.snaps[:0]
		for _, r := range c.engine.Rides() {
			c.snaps, _ = c.engine.Snapshots(r.ID, c.snaps)
		}
		c.influx.WriteTrains(c.snaps, time.Now())
	}
	if c.api != nil {
		c.api.Publish(rep)
	}
	if rep.Illegal > 0 {
		c.log.Warn().Uint32("tick", rep.Tick).Int("count", rep.Illegal).Msg("illegal status transitions")
	}
	c.drain(ctx)
}

func (c *consumer) recordRides() {
	rides := c.engine.Rides()
	c.engine.Do(func() {
		for _, r := range rides {
			c.board.RecordRide(r, c.roster.Waiting(r.ID, 0))
		}
	})
}

func (c *consumer) drain(ctx context.Context) {
	if n := c.queue.Dropped(); n != c.dropped {
		c.log.Warn().Uint64("dropped", n-c.dropped).
			Uint64("debris", c.queue.DroppedBy(event.EventDebris)).
			Uint64("news", c.queue.DroppedBy(event.EventNews)).
			Msg("presentation events overwritten before drain")
		c.dropped = n
	}
	c.events = c.queue.Drain(c.events[:0])
	for _, ev := range c.events {
		switch ev.Type {
		case event.EventNews:
			n := ev.Payload.(*event.NewsPayload)
			c.log.Info().Stringer("kind", n.Kind).Uint16("ride", n.Ride).Msg(n.Text)
		case event.EventTestFinished:
			p := ev.Payload.(*event.TestPayload)
			res, ok := p.Result.(ride.TestResult)
			if !ok {
				continue
			}
			c.saveResult(ctx, res)
		case event.EventDebris:
			event.ReleaseDebris(ev.Payload.(*event.DebrisPayload))
		default:
			c.log.Trace().Str("event", event.GetEventName(ev.Type)).Uint32("tick", ev.Tick).Msg("presentation event")
		}
	}
}

func (c *consumer) saveResult(ctx context.Context, res ride.TestResult) {
	c.log.Info().Uint16("ride", uint16(res.Ride)).Str("name", res.Name).
		Int32("maxSpeed", res.MaxSpeed).Uint8("inversions", res.Inversions).Msg("test result")
	if c.influx != nil {
		c.influx.WriteTest(res)
	}
	if c.store == nil {
		return
	}
	if _, err := c.store.SaveResult(ctx, res); err != nil {
		c.log.Error().Err(err).Msg("saving test result")
	}
}
