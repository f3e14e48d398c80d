package api

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/coaster/vehicle"
)

const writeWait = 2 * time.Second

// Frame is one websocket message
type Frame struct {
	Tick     uint32             `json:"tick"`
	Vehicles []vehicle.Snapshot `json:"vehicles"`
}

// Hub tracks websocket subscribers
type Hub struct {
	mu   sync.RWMutex
	subs map[*Subscriber]struct{}
	log  zerolog.Logger
}

// Subscriber is one websocket connection
type Subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewHub creates an empty hub
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{subs: make(map[*Subscriber]struct{}), log: log}
}

// Subscribe registers a connection
func (h *Hub) Subscribe(conn *websocket.Conn) *Subscriber {
	s := &Subscriber{conn: conn}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	h.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("websocket subscribed")
	return s
}

// Unsubscribe removes and closes a connection
func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	_, ok := h.subs[s]
	delete(h.subs, s)
	h.mu.Unlock()
	if ok {
		_ = s.conn.Close()
	}
}

// Len returns the number of subscribers
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Broadcast sends f to every subscriber, failed connections are dropped
func (h *Hub) Broadcast(f Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		h.log.Error().Err(err).Msg("encoding frame")
		return
	}
	h.mu.RLock()
	subs := make([]*Subscriber, 0, len(h.subs))
	for s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.RUnlock()

	for _, s := range subs {
		if err := s.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debug().Err(err).Msg("websocket write, dropping subscriber")
			h.Unsubscribe(s)
		}
	}
}

// WriteFrame encodes and sends one frame
func (s *Subscriber) WriteFrame(f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return s.WriteMessage(websocket.TextMessage, data)
}

// WriteMessage sends a websocket message guarded by the subscriber's mutex and write deadline
func (s *Subscriber) WriteMessage(messageType int, data []byte) error {
	if s == nil || s.conn == nil {
		return errors.New("subscriber closed")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(messageType, data)
}
