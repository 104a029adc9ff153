// Package server streams a running fluid to websocket clients and applies
// the injections they send back.
package server

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/san-kum/fluidsim/internal/fluid"
	"github.com/san-kum/fluidsim/internal/sim"
)

var ErrBadMessage = errors.New("server: bad message")

// FrameMessage carries the full (n+2)^2 density lattice, row-major.
type FrameMessage struct {
	Type    string    `json:"type"`
	Frame   int       `json:"frame"`
	N       int       `json:"n"`
	Dt      float64   `json:"dt"`
	Mass    float64   `json:"mass"`
	Peak    float64   `json:"peak"`
	Density []float64 `json:"density"`
}

// InputMessage is sent by clients. Type is one of density, velocity, dt or
// reset.
type InputMessage struct {
	Type  string  `json:"type"`
	X     int     `json:"x"`
	Y     int     `json:"y"`
	Value float64 `json:"value"`
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
}

type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type Server struct {
	mu      sync.Mutex
	sim     *sim.Simulator
	fluid   *fluid.Fluid
	scratch []float64
	pool    *sim.FramePool

	fps    int
	logger *log.Logger

	upgrader  websocket.Upgrader
	clients   map[*websocket.Conn]*sync.Mutex
	clientsMu sync.RWMutex
}

func New(s *sim.Simulator, fps int, logger *log.Logger) *Server {
	f := s.Fluid()
	if fps < 1 {
		fps = 30
	}
	return &Server{
		sim:     s,
		fluid:   f,
		scratch: make([]float64, f.BufferLength()),
		pool:    sim.NewFramePool(f.BufferLength()),
		fps:     fps,
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		frame, n := s.fluid.Frame(), s.fluid.InteriorSize()
		s.mu.Unlock()
		fmt.Fprintf(w, "fluidsim n=%d frame=%d clients=%d\n", n, frame, s.Clients())
	})
	return mux
}

func (s *Server) Clients() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	s.clientsMu.Lock()
	s.clients[conn] = connMutex
	s.clientsMu.Unlock()
	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, conn)
		s.clientsMu.Unlock()
	}()

	s.logger.Info("client connected", "remote", r.RemoteAddr)
	initial := s.frameMessage()
	s.send(conn, connMutex, initial)
	s.pool.Put(initial.Density)

	for {
		var msg InputMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed", "remote", r.RemoteAddr, "err", err)
			}
			break
		}
		if err := s.Apply(msg); err != nil {
			s.logger.Debug("rejected message", "remote", r.RemoteAddr, "err", err)
			s.send(conn, connMutex, ErrorMessage{Type: "error", Error: err.Error()})
		}
	}
	s.logger.Info("client disconnected", "remote", r.RemoteAddr)
}

func (s *Server) send(conn *websocket.Conn, mu *sync.Mutex, v any) error {
	mu.Lock()
	defer mu.Unlock()
	return conn.WriteJSON(v)
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Apply validates msg and applies it to the fluid. Invalid messages never
// touch the fluid.
func (s *Server) Apply(msg InputMessage) error {
	g := s.fluid.Grid()

	switch msg.Type {
	case "density":
		i, err := g.CheckedIndex(msg.X, msg.Y)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBadMessage, err)
		}
		if !finite(msg.Value) {
			return fmt.Errorf("%w: density must be finite", ErrBadMessage)
		}
		s.mu.Lock()
		s.fluid.AddDensity(i, msg.Value)
		s.mu.Unlock()
	case "velocity":
		i, err := g.CheckedIndex(msg.X, msg.Y)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBadMessage, err)
		}
		if !finite(msg.VX, msg.VY) {
			return fmt.Errorf("%w: velocity must be finite", ErrBadMessage)
		}
		s.mu.Lock()
		s.fluid.AddVelocity(i, msg.VX, msg.VY)
		s.mu.Unlock()
	case "dt":
		if !finite(msg.Value) || msg.Value <= 0 {
			return fmt.Errorf("%w: dt must be positive, got %g", ErrBadMessage, msg.Value)
		}
		s.mu.Lock()
		s.fluid.SetDt(msg.Value)
		s.mu.Unlock()
	case "reset":
		s.mu.Lock()
		s.fluid.Reset()
		s.mu.Unlock()
	default:
		return fmt.Errorf("%w: unknown type %q", ErrBadMessage, msg.Type)
	}
	return nil
}

// frameMessage snapshots the fluid. The density slice comes from the frame
// pool; release it with s.pool.Put once sent.
func (s *Server) frameMessage() FrameMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Server) snapshotLocked() FrameMessage {
	stat := sim.Measure(s.fluid, -1, s.scratch)
	return FrameMessage{
		Type:    "frame",
		Frame:   stat.Frame,
		N:       s.fluid.InteriorSize(),
		Dt:      s.fluid.Dt(),
		Mass:    stat.Mass,
		Peak:    stat.Peak,
		Density: s.pool.Snapshot(s.fluid),
	}
}

// Tick advances one frame and broadcasts it.
func (s *Server) Tick() {
	s.mu.Lock()
	s.sim.Advance()
	msg := s.snapshotLocked()
	s.mu.Unlock()

	s.broadcast(msg)
	s.pool.Put(msg.Density)
}

func (s *Server) broadcast(msg FrameMessage) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	for conn, mu := range s.clients {
		if err := s.send(conn, mu, msg); err != nil {
			s.logger.Debug("broadcast failed", "err", err)
			conn.Close()
		}
	}
}

// Run ticks at the configured rate until ctx is done.
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(s.fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

func (s *Server) closeClients() {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	for conn, mu := range s.clients {
		mu.Lock()
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		mu.Unlock()
		conn.Close()
	}
}

// ListenAndServe serves on addr and ticks the simulation until ctx is done,
// then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	go s.Run(ctx)

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("serving", "addr", addr, "fps", s.fps)

	select {
	case <-ctx.Done():
		s.closeClients()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		return err
	}
}
