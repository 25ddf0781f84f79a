// Package server exposes the world over an HTTP/WebSocket observer
// endpoint: observers stream position updates in and receive world
// status back, and can patch configuration or trigger regeneration.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/islandforge/archipelago/internal/engine/config"
	"github.com/islandforge/archipelago/internal/engine/world"
)

const (
	readTimeout     = 60 * time.Second
	writeTimeout    = 5 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Options configures the observer endpoint.
type Options struct {
	Addr         string
	TickInterval time.Duration
}

// DefaultOptions returns the endpoint defaults.
func DefaultOptions() Options {
	return Options{
		Addr:         ":8787",
		TickInterval: 50 * time.Millisecond,
	}
}

// Server drives the orchestrator's tick loop and serves observers.
// The orchestrator itself is single-threaded; every access goes
// through the server's mutex.
type Server struct {
	opts Options
	log  *slog.Logger

	mu   sync.Mutex
	orch *world.Orchestrator

	upgrader websocket.Upgrader
	nextID   atomic.Uint64
}

// New creates a Server around an orchestrator. The server takes over
// the orchestrator's tick cadence once Start runs.
func New(orch *world.Orchestrator, log *slog.Logger, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultOptions().Addr
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultOptions().TickInterval
	}
	return &Server{
		opts: opts,
		log:  log,
		orch: orch,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

// Start serves the endpoint and runs the tick loop until the context
// is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/status", s.handleStatus)

	srv := &http.Server{Addr: s.opts.Addr, Handler: mux}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	s.log.Info("observer endpoint started",
		"addr", s.opts.Addr,
		"tickInterval", s.opts.TickInterval,
	)

	ticker := time.NewTicker(s.opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("observer endpoint shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		case err := <-serveErr:
			if err == http.ErrServerClosed {
				return nil
			}
			return fmt.Errorf("serve on %s: %w", s.opts.Addr, err)
		case <-ticker.C:
			s.mu.Lock()
			s.orch.Tick()
			s.mu.Unlock()
		}
	}
}

// clientMessage is every inbound frame; Type selects which fields
// matter.
type clientMessage struct {
	Type  string        `json:"type"`
	X     float64       `json:"x,omitempty"`
	Y     float64       `json:"y,omitempty"`
	Z     float64       `json:"z,omitempty"`
	Patch *config.Patch `json:"patch,omitempty"`
}

type statusMessage struct {
	Type              string         `json:"type"`
	Metadata          world.Metadata `json:"metadata"`
	Digest            string         `json:"digest"`
	PendingJobs       int            `json:"pending_jobs"`
	NeedsRegeneration bool           `json:"needs_regeneration"`
}

type errorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func (s *Server) status() statusMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return statusMessage{
		Type:              "status",
		Metadata:          s.orch.Metadata(),
		Digest:            fmt.Sprintf("%016x", s.orch.Digest()),
		PendingJobs:       s.orch.PendingJobs(),
		NeedsRegeneration: s.orch.NeedsRegeneration(),
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.status())
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sid := fmt.Sprintf("O%d", s.nextID.Add(1))
	s.log.Info("observer connected", "session", sid, "remote", r.RemoteAddr)
	defer s.log.Info("observer disconnected", "session", sid)

	write := func(v any) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		return conn.WriteJSON(v) == nil
	}

	for {
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if !s.handleMessage(sid, msg, write) {
			return
		}
	}
}

// handleMessage dispatches one observer frame. It returns false when
// the connection should close.
func (s *Server) handleMessage(sid string, msg clientMessage, write func(any) bool) bool {
	switch msg.Type {
	case "position":
		s.mu.Lock()
		s.orch.UpdatePlayerPosition(msg.X, msg.Y, msg.Z)
		s.mu.Unlock()
		return write(s.status())

	case "config":
		if msg.Patch == nil {
			return write(errorMessage{Type: "error", Error: "config message without patch"})
		}
		s.mu.Lock()
		_, err := s.orch.UpdateConfig(*msg.Patch)
		s.mu.Unlock()
		if err != nil {
			return write(errorMessage{Type: "error", Error: err.Error()})
		}
		return write(s.status())

	case "regenerate":
		s.mu.Lock()
		err := s.orch.GenerateWorld()
		s.mu.Unlock()
		if err != nil {
			s.log.Error("regenerate world", "session", sid, "error", err)
			return write(errorMessage{Type: "error", Error: err.Error()})
		}
		return write(s.status())

	case "status":
		return write(s.status())

	default:
		return write(errorMessage{Type: "error", Error: fmt.Sprintf("unknown message type %q", msg.Type)})
	}
}
