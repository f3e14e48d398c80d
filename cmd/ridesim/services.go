package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/lixenwraith/coaster/api"
	"github.com/lixenwraith/coaster/audio"
	"github.com/lixenwraith/coaster/config"
	"github.com/lixenwraith/coaster/core"
	"github.com/lixenwraith/coaster/engine"
	"github.com/lixenwraith/coaster/service"
	"github.com/lixenwraith/coaster/store"
	"github.com/lixenwraith/coaster/telemetry"
	"github.com/lixenwraith/coaster/vehicle"
)

// Outputs are optional, a service that cannot reach its backend logs and starts empty

func soundService(cfg config.Settings, e *engine.Engine, pool *vehicle.Pool, types *vehicle.Registry, c *consumer) *service.Func {
	var mixer *audio.Mixer
	return &service.Func{
		ID: "sound",
		OnStart: func(context.Context) error {
			var out audio.Output = audio.Mute{}
			if cfg.Audio.Enabled {
				m := audio.NewMixer(0)
				if err := m.Initialize(); err != nil {
					c.log.Warn().Err(err).Msg("Audio initialization failed, continuing without audio")
				} else {
					mixer, out = m, m
				}
			}
			synth := audio.New(pool, types, nil, out, cfg.Sound.Channels)
			vp := cfg.Sound.Viewport
			synth.Viewport = audio.Viewport{X: vp.X, Y: vp.Y, Width: vp.Width, Height: vp.Height, Zoom: vp.Zoom}
			e.AttachSound(synth)
			return nil
		},
		OnStop: func() error {
			if mixer != nil {
				mixer.Close()
			}
			return nil
		},
	}
}

func influxService(cfg config.Settings, c *consumer) *service.Func {
	return &service.Func{
		ID: "influx",
		OnStart: func(ctx context.Context) error {
			if !cfg.Influx.Enabled {
				return nil
			}
			inf, err := telemetry.NewInflux(ctx, cfg.Influx, c.log)
			if err != nil {
				c.log.Warn().Err(err).Msg("InfluxDB unavailable, not sending train samples")
				return nil
			}
			c.influx = inf
			return nil
		},
		OnStop: func() error {
			if c.influx != nil {
				c.influx.Close()
			}
			return nil
		},
	}
}

func storeService(cfg config.Settings, c *consumer) *service.Func {
	return &service.Func{
		ID: "store",
		OnStart: func(context.Context) error {
			if !cfg.DB.Enabled {
				return nil
			}
			m := store.NewManager(c.log)
			if err := m.Connect(cfg.DB); err != nil {
				c.log.Error().Err(err).Msg("test results will not be saved")
				return nil
			}
			c.store = m
			return nil
		},
		OnStop: func() error {
			if c.store == nil {
				return nil
			}
			return c.store.Close()
		},
	}
}

// apiService serves the HTTP API, it depends on store so saved results are readable once it is up
func apiService(cfg config.Settings, ticker *engine.Ticker, c *consumer) *service.Func {
	var srv *http.Server
	return &service.Func{
		ID:   "api",
		Deps: []string{"store"},
		OnStart: func(context.Context) error {
			if !cfg.API.Enabled {
				return nil
			}
			s := api.New(c.engine, ticker, c.log)
			s.SetStatus(c.board.Registry())
			c.api = s
			srv = &http.Server{Addr: cfg.API.Address, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
			core.Go(func() {
				c.log.Info().Str("address", cfg.API.Address).Msg("API listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					c.log.Error().Err(err).Msg("API server")
				}
			})
			return nil
		},
		OnStop: func() error {
			if srv == nil {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
}

// simService starts the ticker and the report consumer once every output is up
// Stop waits for both, the run context must already be cancelled or the tick limit reached
func simService(ticker *engine.Ticker, c *consumer) *service.Func {
	consumed := make(chan struct{})
	return &service.Func{
		ID:   "sim",
		Deps: []string{"sound", "influx", "store", "api"},
		OnStart: func(ctx context.Context) error {
			ticker.Start(ctx)
			core.Go(func() {
				defer close(consumed)
				c.run(ctx, ticker)
			})
			return nil
		},
		OnStop: func() error {
			<-ticker.Done()
			<-consumed
			return nil
		},
	}
}
