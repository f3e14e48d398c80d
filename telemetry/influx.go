package telemetry

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/coaster/config"
	"github.com/lixenwraith/coaster/core"
	"github.com/lixenwraith/coaster/ride"
	"github.com/lixenwraith/coaster/vehicle"
)

// ErrInfluxDisabled is returned by NewInflux when influx.enabled is false
var ErrInfluxDisabled = errors.New("influx disabled")

// Influx writes train samples and test results to one bucket
type Influx struct {
	client influxdb2.Client
	writer influxdb2_api.WriteAPI
	log    zerolog.Logger
}

// NewInflux connects to the configured server and checks it is reachable
func NewInflux(ctx context.Context, cfg config.InfluxConfig, log zerolog.Logger) (*Influx, error) {
	if !cfg.Enabled {
		return nil, ErrInfluxDisabled
	}
	client := influxdb2.NewClientWithOptions(
		fmt.Sprintf("%s://%s:%s", cfg.Protocol, cfg.Host, cfg.Port),
		cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(2500).
			SetFlushInterval(1000),
	)
	running, err := client.Ping(ctx)
	if err != nil || !running {
		client.Close()
		if err == nil {
			err = errors.New("server not running")
		}
		return nil, fmt.Errorf("influx ping: %w", err)
	}

	i := &Influx{
		client: client,
		writer: client.WriteAPI(cfg.Org, cfg.Bucket),
		log:    log.With().Str("component", "influx").Str("bucket", cfg.Bucket).Logger(),
	}
	errs := i.writer.Errors()
	core.Go(func() {
		for err := range errs {
			i.log.Error().Err(err).Msg("Error sending data to InfluxDB")
		}
	})
	i.log.Info().Msg("InfluxDB client initialized")
	return i, nil
}

// TrainPoint converts a head vehicle snapshot into a point
func TrainPoint(s vehicle.Snapshot, at time.Time) *influxdb2_write.Point {
	return influxdb2.NewPoint(
		"train",
		map[string]string{
			"ride":    strconv.Itoa(int(s.Ride)),
			"vehicle": strconv.Itoa(int(s.ID)),
		},
		map[string]interface{}{
			"status":     s.Status,
			"velocity":   int64(s.Velocity),
			"vertical_g": int64(s.VerticalG),
			"lateral_g":  int64(s.LateralG),
			"riders":     int64(s.Riders),
			"x":          int64(s.Position.X),
			"y":          int64(s.Position.Y),
			"z":          int64(s.Position.Z),
		},
		at,
	)
}

// TestPoint converts a finished test into a point
func TestPoint(res ride.TestResult) *influxdb2_write.Point {
	return influxdb2.NewPoint(
		"ride_test",
		map[string]string{
			"ride": strconv.Itoa(int(res.Ride)),
			"name": res.Name,
		},
		map[string]interface{}{
			"max_speed":      int64(res.MaxSpeed),
			"average_speed":  int64(res.AverageSpeed),
			"length":         int64(res.Length),
			"ride_time":      int64(res.RideTime),
			"max_vertical_g": int64(res.MaxVerticalG),
			"min_vertical_g": int64(res.MinVerticalG),
			"max_lateral_g":  int64(res.MaxLateralG),
			"air_time":       int64(res.AirTime),
			"drops":          int64(res.Drops),
			"inversions":     int64(res.Inversions),
		},
		res.Finished,
	)
}

// WriteTrains queues a point for every head in snaps
func (i *Influx) WriteTrains(snaps []vehicle.Snapshot, at time.Time) {
	for _, s := range snaps {
		if !s.Head {
			continue
		}
		i.writer.WritePoint(TrainPoint(s, at))
	}
}

// WriteTest queues a test result point
func (i *Influx) WriteTest(res ride.TestResult) {
	i.writer.WritePoint(TestPoint(res))
}

// Close flushes pending points and closes the client
func (i *Influx) Close() {
	i.writer.Flush()
	i.client.Close()
}
