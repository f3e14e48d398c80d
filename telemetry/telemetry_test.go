package telemetry

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/lixenwraith/coaster/audio"
	"github.com/lixenwraith/coaster/config"
	"github.com/lixenwraith/coaster/engine"
	"github.com/lixenwraith/coaster/ride"
	"github.com/lixenwraith/coaster/vehicle"
	"github.com/lixenwraith/coaster/vmath"
)

// TestMetricsRecord verifies reports feed the gauge value on a no-op meter
func TestMetricsRecord(t *testing.T) {
	m, err := NewMetrics(noop.Meter{})
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	ctx := context.Background()
	m.Record(ctx, engine.Report{Tick: 1, Trains: 4, Crashes: 1, Sound: audio.Stats{Stolen: 2, Dropped: 1}})
	if m.Active() != 4 {
		t.Errorf("Active() = %d, want 4", m.Active())
	}
	m.Record(ctx, engine.Report{Tick: 2, Trains: 3})
	if m.Active() != 3 {
		t.Errorf("Active() = %d, want 3", m.Active())
	}
}

// TestNewInfluxDisabled verifies a disabled config never dials
func TestNewInfluxDisabled(t *testing.T) {
	_, err := NewInflux(context.Background(), config.InfluxConfig{}, zerolog.Nop())
	if !errors.Is(err, ErrInfluxDisabled) {
		t.Fatalf("NewInflux() = %v, want ErrInfluxDisabled", err)
	}
}

// TestTrainPoint verifies the line protocol of a train sample
func TestTrainPoint(t *testing.T) {
	at := time.Unix(1700000000, 0)
	p := TrainPoint(vehicle.Snapshot{
		ID:       3,
		Ride:     1,
		Status:   "travelling",
		Velocity: 131072,
		Position: vmath.Vec3{X: 32, Y: 64, Z: 16},
		Riders:   2,
		Head:     true,
	}, at)
	line := influxdb2_write.PointToLineProtocol(p, time.Second)

	for _, want := range []string{
		"train,ride=1,vehicle=3 ",
		"velocity=131072i",
		`status="travelling"`,
		"riders=2i",
		" 1700000000",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
}

// TestTestPoint verifies finished tests are tagged by ride
func TestTestPoint(t *testing.T) {
	p := TestPoint(ride.TestResult{Ride: 7, Name: "Looper", MaxSpeed: 500, Inversions: 2, Finished: time.Unix(10, 0)})
	line := influxdb2_write.PointToLineProtocol(p, time.Second)
	for _, want := range []string{"ride_test,", "name=Looper", "ride=7", "max_speed=500i", "inversions=2i"} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
}
