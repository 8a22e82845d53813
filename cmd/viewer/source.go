package main

import (
	"fmt"
	"log"
	"sync"

	"github.com/decker502/towers/internal/autoplay"
	"github.com/decker502/towers/pkg/engine"
	"github.com/decker502/towers/pkg/event"
	"github.com/decker502/towers/pkg/feed"
	"github.com/gorilla/websocket"
)

// source supplies the viewer with state and accepts its intents. It is
// either a local simulation or a remote feed.
type source interface {
	Map() engine.MapView
	// Step advances by one frame and returns the state to draw.
	Step(dtMs float64) (engine.Snapshot, []event.Event)
	Send(in engine.Intent)
	Close()
}

// localSource runs the simulation in process.
type localSource struct {
	sim    *engine.Simulation
	player *autoplay.Player
}

func (s *localSource) Map() engine.MapView { return s.sim.Map() }

func (s *localSource) Step(dtMs float64) (engine.Snapshot, []event.Event) {
	if s.player != nil {
		for _, in := range s.player.Plan(s.sim.Snapshot()) {
			s.sim.HandleIntent(in)
		}
	}
	events := s.sim.Tick(dtMs)
	return s.sim.Snapshot(), events
}

func (s *localSource) Send(in engine.Intent) { s.sim.HandleIntent(in) }

func (s *localSource) Close() { s.sim.Close() }

// remoteSource follows a feed served by tdsim -listen.
type remoteSource struct {
	conn *websocket.Conn
	m    engine.MapView

	mu      sync.Mutex
	snap    engine.Snapshot
	pending []event.Event
}

func dialRemote(url string) (*remoteSource, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to read map: %w", err)
	}
	f, err := feed.DecodeFrame(data)
	if err != nil || f.Kind != feed.FrameMap || f.Map == nil {
		conn.Close()
		return nil, fmt.Errorf("expected a map frame from %s", url)
	}
	s := &remoteSource{conn: conn, m: *f.Map}
	go s.readLoop()
	log.Printf("[Viewer] Connected to %s (%dx%d)", url, s.m.Cols, s.m.Rows)
	return s, nil
}

func (s *remoteSource) readLoop() {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			log.Printf("[Viewer] Feed closed: %v", err)
			return
		}
		f, err := feed.DecodeFrame(data)
		if err != nil {
			log.Printf("[Viewer] %v", err)
			continue
		}
		if f.Kind != feed.FrameSnapshot || f.Snapshot == nil {
			continue
		}
		s.mu.Lock()
		s.snap = *f.Snapshot
		s.pending = append(s.pending, f.Events...)
		s.mu.Unlock()
	}
}

func (s *remoteSource) Map() engine.MapView { return s.m }

func (s *remoteSource) Step(float64) (engine.Snapshot, []event.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.pending
	s.pending = nil
	return s.snap, events
}

func (s *remoteSource) Send(in engine.Intent) {
	data, err := feed.EncodeCommand(feed.CommandFor(in))
	if err != nil {
		log.Printf("[Viewer] Failed to encode %s: %v", in.Kind, err)
		return
	}
	if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		log.Printf("[Viewer] Failed to send %s: %v", in.Kind, err)
	}
}

func (s *remoteSource) Close() { s.conn.Close() }
