// Package ledserver feeds a strip from the network: binary frames come in
// over a websocket, get written to the hardware, and are mirrored to any
// watching clients.
package ledserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/ws2812-spi/ws2812"
)

// Strip is the output sink. All three ws2812 strategies satisfy it.
type Strip interface {
	Write(colors []ws2812.Color) error
	Halt() error
}

// Server serializes access to the strip: the encoder itself supports only
// one writer, so every frame goes through the mutex here.
type Server struct {
	mu        sync.Mutex
	strip     Strip
	numPixels int
	channels  int
	frameID   uint64
	start     time.Time
	colors    []ws2812.Color
	mirrors   map[*websocket.Conn]bool
}

func New(strip Strip, numPixels, channels int) *Server {
	return &Server{
		strip:     strip,
		numPixels: numPixels,
		channels:  channels,
		start:     time.Now(),
		colors:    make([]ws2812.Color, numPixels),
		mirrors:   map[*websocket.Conn]bool{},
	}
}

// Routes registers the handlers on mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/frames", s.handleFrames)
	mux.HandleFunc("/mirror", s.handleMirror)
	mux.HandleFunc("/health", s.handleHealth)
}

// handleFrames accepts binary messages of numPixels*channels bytes in
// R,G,B(,W) memory order and pushes each at the strip.
func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	log.Info().Str("remote", conn.RemoteAddr().String()).Msg("frame feeder connected")

	want := s.numPixels * s.channels
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			log.Info().Err(err).Msg("frame feeder gone")
			return
		}
		if mt != websocket.BinaryMessage {
			continue
		}
		if len(data) != want {
			log.Warn().Int("got", len(data)).Int("want", want).Msg("bad frame length")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(fmt.Sprintf("bad frame length %d, want %d", len(data), want)))
			continue
		}
		if err := s.writeFrame(data); err != nil {
			// The strip is mid-frame in an undefined state; the feeder
			// recovers by sending the next complete frame.
			log.Error().Err(err).Msg("strip write failed")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(err.Error()))
			continue
		}
		s.broadcast(data)
	}
}

// handleMirror streams every accepted frame back out, for previews.
func (s *Server) handleMirror(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.mirrors[conn] = true
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.mirrors, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := map[string]any{
		"frame_id": s.frameID,
		"uptime_s": time.Since(s.start).Seconds(),
		"pixels":   s.numPixels,
		"channels": s.channels,
	}
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) writeFrame(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.colors {
		off := i * s.channels
		c := ws2812.Color{R: data[off], G: data[off+1], B: data[off+2]}
		if s.channels == 4 {
			c.W = data[off+3]
		}
		s.colors[i] = c
	}
	if err := s.strip.Write(s.colors); err != nil {
		return err
	}
	s.frameID++
	return nil
}

func (s *Server) broadcast(frame []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.mirrors {
		if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			delete(s.mirrors, conn)
			conn.Close()
		}
	}
}

// Halt blanks the strip.
func (s *Server) Halt() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.strip.Halt()
}
