package server

import (
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/fluidsim/internal/fluid"
	"github.com/san-kum/fluidsim/internal/logging"
	"github.com/san-kum/fluidsim/internal/sim"
)

func newTestServer(n int, diffusion float64) *Server {
	return New(sim.New(fluid.New(fluid.NewConfig(n, diffusion))), 30, logging.Discard())
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		msg  InputMessage
		ok   bool
	}{
		{"density", InputMessage{Type: "density", X: 2, Y: 2, Value: 10}, true},
		{"border density", InputMessage{Type: "density", X: 0, Y: 4, Value: 10}, true},
		{"velocity", InputMessage{Type: "velocity", X: 1, Y: 3, VX: 1, VY: -1}, true},
		{"dt", InputMessage{Type: "dt", Value: 0.2}, true},
		{"reset", InputMessage{Type: "reset"}, true},
		{"outside", InputMessage{Type: "density", X: 5, Y: 0, Value: 1}, false},
		{"negative", InputMessage{Type: "velocity", X: -1, Y: 2}, false},
		{"nan density", InputMessage{Type: "density", X: 1, Y: 1, Value: math.NaN()}, false},
		{"inf velocity", InputMessage{Type: "velocity", X: 1, Y: 1, VX: math.Inf(1)}, false},
		{"zero dt", InputMessage{Type: "dt", Value: 0}, false},
		{"unknown", InputMessage{Type: "explode"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(3, 0)
			err := s.Apply(tt.msg)
			if tt.ok && err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrBadMessage) {
				t.Fatalf("expected ErrBadMessage, got %v", err)
			}
		})
	}
}

func TestApplyRejectedLeavesFluid(t *testing.T) {
	s := newTestServer(3, 0)
	s.Apply(InputMessage{Type: "density", X: 9, Y: 9, Value: 100})
	s.Tick()

	for _, v := range s.fluid.Density() {
		if v != 0 {
			t.Fatalf("rejected injection reached the fluid: %v", s.fluid.Density())
		}
	}
}

func TestApplyDt(t *testing.T) {
	s := newTestServer(3, 0)
	if err := s.Apply(InputMessage{Type: "dt", Value: 0.5}); err != nil {
		t.Fatal(err)
	}
	if s.fluid.Dt() != 0.5 {
		t.Errorf("dt = %v, want 0.5", s.fluid.Dt())
	}
}

func TestStatusHandler(t *testing.T) {
	s := newTestServer(3, 0)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "n=3 frame=0") {
		t.Errorf("status = %q", body)
	}
}

func TestWebSocketSession(t *testing.T) {
	s := newTestServer(3, 0)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var initial FrameMessage
	if err := conn.ReadJSON(&initial); err != nil {
		t.Fatalf("initial frame: %v", err)
	}
	if initial.Type != "frame" || initial.N != 3 || len(initial.Density) != 25 {
		t.Fatalf("initial frame = %+v", initial)
	}
	if s.Clients() != 1 {
		t.Errorf("clients = %d, want 1", s.Clients())
	}

	if err := conn.WriteJSON(InputMessage{Type: "density", X: 2, Y: 2, Value: 100}); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(InputMessage{Type: "density", X: 7, Y: 2, Value: 100}); err != nil {
		t.Fatal(err)
	}

	// Messages are handled in order, so the error reply means the valid
	// injection before it has been applied.
	var reply ErrorMessage
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("error reply: %v", err)
	}
	if reply.Type != "error" || reply.Error == "" {
		t.Fatalf("reply = %+v", reply)
	}

	s.Tick()

	var frame FrameMessage
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("frame: %v", err)
	}
	if frame.Frame != 1 {
		t.Errorf("frame = %d, want 1", frame.Frame)
	}
	g := fluid.NewGrid(3)
	if got := frame.Density[g.Index(2, 2)]; got != 10 {
		t.Errorf("density at centre = %v, want 10", got)
	}
	if frame.Mass != 10 {
		t.Errorf("mass = %v, want 10", frame.Mass)
	}
}
