package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/coaster/core"
	"github.com/lixenwraith/coaster/engine"
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/ride"
	"github.com/lixenwraith/coaster/status"
	"github.com/lixenwraith/coaster/track"
	"github.com/lixenwraith/coaster/vehicle"
)

// Viewer draws a top-down map of every vehicle, one cell per half tile across and one tile down
type Viewer struct {
	screen        tcell.Screen
	width, height int

	engine *engine.Engine
	ticker *engine.Ticker

	board   *status.Board
	snaps   []vehicle.Snapshot
	message string
}

// NewViewer opens the terminal and registers it for crash restore
func NewViewer(e *engine.Engine, t *engine.Ticker, board *status.Board) (*Viewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	core.RegisterScreen(screen)

	v := &Viewer{screen: screen, engine: e, ticker: t, board: board}
	v.width, v.height = screen.Size()
	return v, nil
}

var statusStyles = func() [vehicle.StatusCount]tcell.Style {
	var s [vehicle.StatusCount]tcell.Style
	base := tcell.StyleDefault
	for i := range s {
		s[i] = base.Foreground(tcell.ColorWhite)
	}
	for _, st := range []vehicle.Status{vehicle.StatusWaitingForPassengers, vehicle.StatusWaitingToDepart, vehicle.StatusUnloadingPassengers} {
		s[st] = base.Foreground(tcell.ColorYellow)
	}
	for _, st := range []vehicle.Status{vehicle.StatusTravelling, vehicle.StatusDeparting, vehicle.StatusTravellingCableLift,
		vehicle.StatusTravellingBumperCars, vehicle.StatusTravellingBoat} {
		s[st] = base.Foreground(tcell.ColorGreen)
	}
	for _, st := range []vehicle.Status{vehicle.StatusSwinging, vehicle.StatusRotating, vehicle.StatusFerrisWheelRotating,
		vehicle.StatusTopSpinOperating, vehicle.StatusSpaceRingsOperating, vehicle.StatusSimulatorOperating,
		vehicle.StatusShowingFilm, vehicle.StatusDoingCircusShow, vehicle.StatusHauntedHouseOperating, vehicle.StatusCrookedHouseOperating} {
		s[st] = base.Foreground(tcell.ColorAqua)
	}
	s[vehicle.StatusCrashing] = base.Foreground(tcell.ColorRed).Bold(true)
	s[vehicle.StatusCrashed] = base.Foreground(tcell.ColorRed).Reverse(true)
	return s
}()

// styleNames maps snapshot status names back to their style
var styleNames = func() map[string]tcell.Style {
	m := make(map[string]tcell.Style, vehicle.StatusCount)
	for st := vehicle.Status(0); st < vehicle.StatusCount; st++ {
		m[st.String()] = statusStyles[st]
	}
	return m
}()

func (v *Viewer) collect() {
	v.snaps = v.snaps[:0]
	for _, r := range v.engine.Rides() {
		v.snaps, _ = v.engine.Snapshots(r.ID, v.snaps)
	}
}

func (v *Viewer) draw() {
	v.screen.Clear()
	v.collect()

	for _, s := range v.snaps {
		x := int(s.Position.X * 2 / track.TileSize)
		y := int(s.Position.Y / track.TileSize)
		if x < 0 || y < 0 || x >= v.width || y >= v.height-1 {
			continue
		}
		r := 'o'
		if s.Head {
			r = '#'
		}
		v.screen.SetContent(x, y, r, nil, styleNames[s.Status])
	}

	paused := ""
	if v.ticker.Clock().Paused() {
		paused = " [paused]"
	}
	line := fmt.Sprintf("tick %d%s  %s  %s  q quit  p pause  space step  b break  f fix", v.ticker.Tick(), paused, v.board.Line(), v.message)
	for i, c := range line {
		if i >= v.width {
			break
		}
		v.screen.SetContent(i, v.height-1, c, nil, tcell.StyleDefault.Reverse(true))
	}
	v.screen.Show()
}

func (v *Viewer) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		clock := v.ticker.Clock()
		switch ev.Rune() {
		case 'q':
			return false
		case 'p':
			if clock.Paused() {
				clock.Resume()
			} else {
				clock.Pause()
			}
			v.board.SetPaused(clock.Paused())
		case ' ':
			if clock.Paused() {
				v.ticker.Step()
			}
		case 'b':
			if err := v.engine.RequestBreakdown(demoRides[0].id, ride.BreakdownSafetyCutOut); err != nil {
				v.message = err.Error()
			} else {
				v.message = demoRides[0].name + " breakdown requested"
			}
		case 'f':
			for _, d := range demoRides {
				_ = v.engine.Fix(d.id)
			}
			v.message = "all rides fixed"
		}

	case *tcell.EventResize:
		v.width, v.height = v.screen.Size()
		v.screen.Sync()
	}
	return true
}

// Run draws until the user quits or done is closed
func (v *Viewer) Run(done <-chan struct{}) {
	frames := time.NewTicker(parameter.FrameUpdateInterval)
	defer frames.Stop()

	eventChan := make(chan tcell.Event, 100)
	core.Go(func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	})

	for {
		select {
		case <-done:
			return
		case ev := <-eventChan:
			if !v.handleInput(ev) {
				return
			}
		case <-frames.C:
			v.draw()
		}
	}
}

// Close restores the terminal
func (v *Viewer) Close() {
	v.screen.Fini()
	core.RegisterScreen(nil)
}
