// Package api serves the simulation over HTTP and streams vehicle snapshots over a websocket
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/coaster/engine"
	"github.com/lixenwraith/coaster/ride"
	"github.com/lixenwraith/coaster/status"
	"github.com/lixenwraith/coaster/vehicle"
)

// Server exposes an engine and the ticker that drives it
type Server struct {
	engine *engine.Engine
	ticker *engine.Ticker
	hub    *Hub
	stats  *status.Registry
	log    zerolog.Logger

	upgrader websocket.Upgrader
}

// RideSummary is the /rides entry of one ride
type RideSummary struct {
	ID     ride.ID          `json:"id"`
	Name   string           `json:"name"`
	Kind   string           `json:"kind"`
	Mode   string           `json:"mode"`
	Status string           `json:"status"`
	Trains int              `json:"trains"`
	Broken bool             `json:"broken"`
	Tested bool             `json:"tested"`
	Result *ride.TestResult `json:"result,omitempty"`
}

// New creates a server, ticker may be nil to disable POST /tick
func New(e *engine.Engine, t *engine.Ticker, log zerolog.Logger) *Server {
	s := &Server{
		engine: e,
		ticker: t,
		log:    log.With().Str("component", "api").Logger(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.hub = NewHub(s.log)
	return s
}

// Hub returns the websocket subscriber set
func (s *Server) Hub() *Hub {
	return s.hub
}

// SetStatus enables GET /status backed by reg
func (s *Server) SetStatus(reg *status.Registry) {
	s.stats = reg
}

// Handler constructs the HTTP router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/rides", s.handleRides)
	r.Get("/vehicles/{id}", s.handleVehicle)
	r.Get("/trains/{id}/riders", s.handleRiders)
	r.Get("/status", s.handleStatus)
	r.Post("/tick", s.handleTick)
	r.Get("/ws", s.handleWebsocket)

	return r
}

// Publish pushes the snapshots of every ride to websocket subscribers
func (s *Server) Publish(rep engine.Report) {
	if s.hub.Len() == 0 {
		return
	}
	s.hub.Broadcast(s.frame(rep.Tick))
}

func (s *Server) frame(tick uint32) Frame {
	f := Frame{Tick: tick}
	for _, r := range s.engine.Rides() {
		f.Vehicles, _ = s.engine.Snapshots(r.ID, f.Vehicles)
	}
	return f
}

func (s *Server) handleRides(w http.ResponseWriter, r *http.Request) {
	rides := s.engine.Rides()
	out := make([]RideSummary, 0, len(rides))
	s.engine.Do(func() {
		for _, rd := range rides {
			sum := RideSummary{
				ID:     rd.ID,
				Name:   rd.Name,
				Mode:   rd.Config.Mode.String(),
				Status: rd.Status.String(),
				Trains: len(rd.Trains),
				Broken: rd.Is(ride.LifecycleBrokenDown),
				Tested: rd.Is(ride.LifecycleTested),
			}
			if rd.Kind != nil {
				sum.Kind = rd.Kind.Name
			}
			if rd.Result != nil {
				res := *rd.Result
				sum.Result = &res
			}
			out = append(out, sum)
		}
	})
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := vehicleID(w, r)
	if !ok {
		return
	}
	snap, found := s.engine.Snapshot(id)
	if !found {
		writeJSONError(w, http.StatusNotFound, "vehicle not found")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleRiders(w http.ResponseWriter, r *http.Request) {
	id, ok := vehicleID(w, r)
	if !ok {
		return
	}
	n, err := s.engine.TotalRiders(id)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, engine.ErrUnknownTrain) {
			code = http.StatusNotFound
		}
		writeJSONError(w, code, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"train": int(id), "riders": n})
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	if s.ticker == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "no ticker attached")
		return
	}
	rep := s.ticker.Step()
	s.Publish(rep)
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	sub := s.hub.Subscribe(conn)
	defer s.hub.Unsubscribe(sub)

	var tick uint32
	if s.ticker != nil {
		tick = s.ticker.Tick()
	}
	if err := sub.WriteFrame(s.frame(tick)); err != nil {
		return
	}
	// clients only listen; reading detects the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func vehicleID(w http.ResponseWriter, r *http.Request) (vehicle.ID, bool) {
	n, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 16)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad vehicle id")
		return 0, false
	}
	return vehicle.ID(n), true
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "status not recorded")
		return
	}
	writeJSON(w, http.StatusOK, s.stats.Snapshot())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
