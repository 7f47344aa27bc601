package api

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/theoremus-urban-solutions/sldm/ldm"
	"github.com/theoremus-urban-solutions/sldm/metrics"
)

const streamWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// streamHub tracks the websocket sessions receiving event snapshots.
type streamHub struct {
	notifier *ldm.Notifier
	snapshot func() eventsResponse
	metrics  *metrics.Collector

	mutex   sync.Mutex
	clients map[string]*websocket.Conn
	closed  bool
}

func newStreamHub(n *ldm.Notifier, snapshot func() eventsResponse, m *metrics.Collector) *streamHub {
	return &streamHub{
		notifier: n,
		snapshot: snapshot,
		metrics:  m,
		clients:  make(map[string]*websocket.Conn),
	}
}

func (h *streamHub) register(conn *websocket.Conn) (string, bool) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.closed {
		return "", false
	}
	id := uuid.NewString()
	h.clients[id] = conn
	h.metrics.WebsocketClients(1)
	log.Printf("[API] stream client %s connected (%d total)", id, len(h.clients))
	return id, true
}

func (h *streamHub) unregister(id string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	conn, ok := h.clients[id]
	if !ok {
		return
	}
	delete(h.clients, id)
	_ = conn.Close()
	h.metrics.WebsocketClients(-1)
	log.Printf("[API] stream client %s disconnected (%d total)", id, len(h.clients))
}

// Count returns the number of connected sessions.
func (h *streamHub) Count() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// closeAll disconnects every session and refuses new ones.
func (h *streamHub) closeAll() {
	h.mutex.Lock()
	h.closed = true
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for _, c := range h.clients {
		conns = append(conns, c)
	}
	h.mutex.Unlock()

	for _, c := range conns {
		_ = c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		_ = c.Close()
	}
}

func (h *streamHub) handle(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		writeError(w, http.StatusBadRequest, "not a websocket upgrade request")
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[API] websocket upgrade failed: %v", err)
		return
	}
	id, ok := h.register(conn)
	if !ok {
		_ = conn.Close()
		return
	}
	defer h.unregister(id)

	versions, cancel := h.notifier.Subscribe()
	defer cancel()

	// The read loop only detects the peer going away; clients never send data.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("[API] stream client %s: %v", id, err)
				}
				return
			}
		}
	}()

	if err := h.send(conn); err != nil {
		return
	}
	for {
		select {
		case <-gone:
			return
		case <-r.Context().Done():
			return
		case _, ok := <-versions:
			if !ok {
				return
			}
			if err := h.send(conn); err != nil {
				log.Printf("[API] stream client %s write: %v", id, err)
				return
			}
		}
	}
}

func (h *streamHub) send(conn *websocket.Conn) error {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	return conn.WriteJSON(h.snapshot())
}
