// Command ridesim runs a small demo park through the ride vehicle simulation
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lixenwraith/coaster/config"
	"github.com/lixenwraith/coaster/core"
	"github.com/lixenwraith/coaster/engine"
	"github.com/lixenwraith/coaster/event"
	"github.com/lixenwraith/coaster/logging"
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/rider"
	"github.com/lixenwraith/coaster/service"
	"github.com/lixenwraith/coaster/status"
	"github.com/lixenwraith/coaster/telemetry"
	"github.com/lixenwraith/coaster/vehicle"
)

var (
	configDir = flag.String("config", ".", "directory holding "+config.FileName)
	headless  = flag.Bool("headless", false, "run without the terminal viewer")
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	flag.Parse()
	if err := run(*configDir, *headless); err != nil {
		fmt.Fprintf(os.Stderr, "ridesim: %v\n", err)
		os.Exit(1)
	}
}

func run(dir string, headless bool) error {
	cfgErr := config.Load(dir)
	if cfgErr != nil && !errors.Is(cfgErr, config.ErrDefaults) {
		return cfgErr
	}
	cfg, err := config.Sim()
	if err != nil {
		return err
	}

	// the viewer owns the terminal, logs then only go to the file
	view := cfg.Viewer.Enabled && !headless
	var console io.Writer = os.Stdout
	if view {
		console = nil
	}
	session, err := logging.Setup(cfg, console)
	if err != nil {
		return err
	}
	defer session.Close()
	logger := session.Logger
	if cfgErr != nil {
		logger.Info().Str("dir", dir).Msg(cfgErr.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue := event.NewQueue()
	roster := rider.NewRoster()
	pool := vehicle.NewPool(parameter.VehiclePoolSize)
	types := vehicle.DefaultRegistry()
	e, err := engine.New(engine.Options{
		Pool:   pool,
		Types:  types,
		Riders: roster,
		Sink:   event.NewQueueSink(queue),
		Seed:   cfg.Sim.Seed,
		Logger: &logger,
	})
	if err != nil {
		return err
	}
	if err := buildPark(e); err != nil {
		return err
	}

	ticker := engine.NewTicker(e, nil, time.Second/time.Duration(cfg.Sim.TickRate), cfg.Sim.Ticks)
	board := status.NewBoard(status.NewRegistry())
	c := &consumer{log: logger, engine: e, queue: queue, roster: roster, board: board}
	if c.metrics, err = telemetry.NewMetrics(nil); err != nil {
		logger.Warn().Err(err).Msg("metrics unavailable")
	}

	hub := service.NewHub()
	for _, svc := range []service.Service{
		soundService(cfg, e, pool, types, c),
		influxService(cfg, c),
		storeService(cfg, c),
		apiService(cfg, ticker, c),
		simService(ticker, c),
	} {
		if err := hub.Register(svc); err != nil {
			return err
		}
	}
	if err := hub.StartAll(ctx); err != nil {
		return err
	}
	logger.Info().Strs("services", hub.Started()).Msg("simulation started")

	if view {
		v, err := NewViewer(e, ticker, board)
		if err != nil {
			logger.Warn().Err(err).Msg("viewer unavailable, running headless")
		} else {
			v.Run(ticker.Done())
			v.Close()
			stop()
		}
	}

	<-ticker.Done()
	stop()
	if err := hub.StopAll(); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
	logger.Info().Uint32("ticks", ticker.Tick()).Msg("simulation stopped")
	return nil
}
