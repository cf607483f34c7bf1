package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/karoux/oscsync/internal/logging"
)

const (
	// Time allowed to write a message to a subscriber
	writeWait = 10 * time.Second
)

// subscriber is one websocket connection with its write serialized.
// gorilla/websocket permits at most one concurrent writer per connection,
// and the connect-time snapshot and broadcasts arrive on different
// goroutines, so every write goes through send.
type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) send(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(v)
}

// Hub fans flat-parameter-map updates out to websocket subscribers. Each
// subscriber receives the current map on connect and every subsequent
// update, including the empty map published on peer loss.
type Hub struct {
	upgrader websocket.Upgrader

	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	last   map[string]any
	closed bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			// The query server is link-local; origin checks gate nothing
			// meaningful here.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		subs: make(map[*subscriber]struct{}),
		last: make(map[string]any),
	}
}

// ServeWS upgrades the request and registers the subscriber. The current
// map snapshot is sent immediately so late subscribers start consistent.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	sub := &subscriber{conn: conn}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.subs[sub] = struct{}{}
	snapshot := h.last
	h.mu.Unlock()

	logging.Debug("WebSocket subscriber connected",
		zap.String("remote_addr", r.RemoteAddr),
	)

	if err := sub.send(snapshot); err != nil {
		h.drop(sub)
		return
	}

	// Reader loop: subscribers send nothing we act on, but reading is how
	// close frames and dead connections are detected.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.drop(sub)
				return
			}
		}
	}()
}

// Broadcast publishes a new flat map to all subscribers. Subscribers that
// miss the write deadline are dropped.
func (h *Hub) Broadcast(params map[string]any) {
	h.mu.Lock()
	h.last = params
	subs := make([]*subscriber, 0, len(h.subs))
	for s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.Unlock()

	for _, s := range subs {
		if err := s.send(params); err != nil {
			h.drop(s)
		}
	}
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) drop(sub *subscriber) {
	h.mu.Lock()
	_, ok := h.subs[sub]
	delete(h.subs, sub)
	h.mu.Unlock()

	_ = sub.conn.Close()
	if ok {
		logging.Debug("WebSocket subscriber dropped")
	}
}

// Close disconnects all subscribers and rejects new ones. Idempotent.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	subs := make([]*subscriber, 0, len(h.subs))
	for s := range h.subs {
		subs = append(subs, s)
	}
	h.subs = make(map[*subscriber]struct{})
	h.mu.Unlock()

	for _, s := range subs {
		_ = s.conn.Close()
	}
}
