// Package telemetry exports simulation counters through OpenTelemetry and train samples to InfluxDB
package telemetry

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/lixenwraith/coaster/engine"
)

const instrumentationName = "github.com/lixenwraith/coaster/telemetry"

// Metrics holds the instruments fed from every tick report
type Metrics struct {
	ticks       metric.Int64Counter
	crashes     metric.Int64Counter
	derailments metric.Int64Counter
	breakdowns  metric.Int64Counter
	steals      metric.Int64Counter
	dropped     metric.Int64Counter
	vehicles    metric.Int64ObservableGauge

	// active is the train count of the last report, read by the gauge callback
	active atomic.Int64
}

// NewMetrics creates the instruments on m, nil uses the global meter provider
func NewMetrics(m metric.Meter) (*Metrics, error) {
	if m == nil {
		m = otel.Meter(instrumentationName)
	}
	mt := &Metrics{}

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&mt.ticks, "ridesim.ticks", "Total simulation ticks"},
		{&mt.crashes, "ridesim.crashes", "Trains crashed"},
		{&mt.derailments, "ridesim.derailments", "Trains derailed"},
		{&mt.breakdowns, "ridesim.breakdowns", "Rides broken down"},
		{&mt.steals, "ridesim.sound.steals", "Sound channels taken from an audible vehicle"},
		{&mt.dropped, "ridesim.sound.dropped", "Audible vehicles left without a channel"},
	}
	for _, c := range counters {
		var err error
		*c.dst, err = m.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, fmt.Errorf("creating %s counter: %w", c.name, err)
		}
	}

	var err error
	mt.vehicles, err = m.Int64ObservableGauge(
		"ridesim.trains.active",
		metric.WithDescription("Trains updated in the last tick"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating active trains gauge: %w", err)
	}
	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			o.ObserveInt64(mt.vehicles, mt.active.Load())
			return nil
		},
		mt.vehicles,
	)
	if err != nil {
		return nil, fmt.Errorf("registering active trains callback: %w", err)
	}
	return mt, nil
}

// Record adds one tick report to the counters
func (m *Metrics) Record(ctx context.Context, r engine.Report) {
	m.ticks.Add(ctx, 1)
	if r.Crashes > 0 {
		m.crashes.Add(ctx, int64(r.Crashes))
	}
	if r.Derailments > 0 {
		m.derailments.Add(ctx, int64(r.Derailments))
	}
	if r.Breakdowns > 0 {
		m.breakdowns.Add(ctx, int64(r.Breakdowns))
	}
	if r.Sound.Stolen > 0 {
		m.steals.Add(ctx, int64(r.Sound.Stolen))
	}
	if r.Sound.Dropped > 0 {
		m.dropped.Add(ctx, int64(r.Sound.Dropped))
	}
	m.active.Store(int64(r.Trains))
}

// Active returns the train count observed by the gauge
func (m *Metrics) Active() int64 {
	return m.active.Load()
}
