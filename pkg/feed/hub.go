package feed

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/decker502/towers/pkg/engine"
	"github.com/decker502/towers/pkg/event"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 30 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxCommandSize = 4096
	sendBuffer     = 64
	commandBuffer  = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type viewer struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (v *viewer) close() {
	v.once.Do(func() { close(v.send) })
}

// Hub fans snapshot frames out to connected viewers and collects their
// commands. Publish is called from the simulation goroutine; each viewer
// gets its own read and write goroutines. A viewer that cannot keep up is
// disconnected rather than slowing the simulation.
type Hub struct {
	mu       sync.Mutex
	viewers  map[*viewer]struct{}
	mapFrame []byte
	lastSnap []byte
	seq      uint64
	closed   bool

	commands chan engine.Intent
}

// NewHub creates a hub for one level layout.
func NewHub(m engine.MapView) (*Hub, error) {
	data, err := EncodeFrame(&Frame{Kind: FrameMap, Map: &m})
	if err != nil {
		return nil, err
	}
	return &Hub{
		viewers:  make(map[*viewer]struct{}),
		mapFrame: data,
		commands: make(chan engine.Intent, commandBuffer),
	}, nil
}

// Commands delivers intents sent by viewers. The simulation owner drains it
// between ticks and passes each intent to HandleIntent.
func (h *Hub) Commands() <-chan engine.Intent { return h.commands }

// Viewers returns the number of connected viewers.
func (h *Hub) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.viewers)
}

// Publish encodes a snapshot with the events of its tick and queues it for
// every viewer.
func (h *Hub) Publish(snap engine.Snapshot, events []event.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.seq++
	data, err := EncodeFrame(&Frame{Kind: FrameSnapshot, Seq: h.seq, Snapshot: &snap, Events: events})
	if err != nil {
		return err
	}
	h.lastSnap = data
	for v := range h.viewers {
		select {
		case v.send <- data:
		default:
			log.Printf("[Feed] Viewer %s too slow, disconnecting", v.conn.RemoteAddr())
			delete(h.viewers, v)
			v.close()
		}
	}
	return nil
}

// ServeHTTP upgrades the request and registers the viewer. The viewer first
// receives the map frame and the latest snapshot, if any.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Feed] Upgrade failed: %v", err)
		return
	}
	v := &viewer{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	v.send <- h.mapFrame
	if h.lastSnap != nil {
		v.send <- h.lastSnap
	}
	h.viewers[v] = struct{}{}
	h.mu.Unlock()
	log.Printf("[Feed] Viewer %s connected", conn.RemoteAddr())

	go h.writePump(v)
	go h.readPump(v)
}

// Close disconnects every viewer. Later publishes are dropped.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for v := range h.viewers {
		delete(h.viewers, v)
		v.close()
	}
}

func (h *Hub) unregister(v *viewer) {
	h.mu.Lock()
	if _, ok := h.viewers[v]; ok {
		delete(h.viewers, v)
		v.close()
	}
	h.mu.Unlock()
}

func (h *Hub) readPump(v *viewer) {
	defer func() {
		h.unregister(v)
		v.conn.Close()
	}()
	v.conn.SetReadLimit(maxCommandSize)
	_ = v.conn.SetReadDeadline(time.Now().Add(pongWait))
	v.conn.SetPongHandler(func(string) error {
		return v.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := v.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[Feed] Read error from %s: %v", v.conn.RemoteAddr(), err)
			}
			return
		}
		var cmd Command
		if err := msgpack.Unmarshal(data, &cmd); err != nil {
			log.Printf("[Feed] Dropping malformed command: %v", err)
			continue
		}
		in, err := cmd.Intent()
		if err != nil {
			log.Printf("[Feed] Dropping command: %v", err)
			continue
		}
		select {
		case h.commands <- in:
		default:
			log.Printf("[Feed] Command queue full, dropping %s", in.Kind)
		}
	}
}

func (h *Hub) writePump(v *viewer) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		v.conn.Close()
	}()
	for {
		select {
		case data, ok := <-v.send:
			_ = v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = v.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := v.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := v.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
