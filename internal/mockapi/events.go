package mockapi

import (
	"dealdesk/internal/logger"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

type hub struct {
	mu       sync.Mutex
	conns    map[*websocket.Conn]*sync.Mutex
	upgrader websocket.Upgrader
	log      *logger.Logger
}

func newHub(log *logger.Logger) *hub {
	return &hub{
		conns: map[*websocket.Conn]*sync.Mutex{},
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: log,
	}
}

func (h *hub) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithComponent("mockapi").WithError(err).Warn("Не удалось открыть WS соединение.")
		return
	}

	h.mu.Lock()
	h.conns[conn] = &sync.Mutex{}
	h.mu.Unlock()

	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

func (h *hub) broadcast(event Event) {
	h.mu.Lock()
	targets := make(map[*websocket.Conn]*sync.Mutex, len(h.conns))
	for conn, wmu := range h.conns {
		targets[conn] = wmu
	}
	h.mu.Unlock()

	for conn, wmu := range targets {
		wmu.Lock()
		err := conn.WriteJSON(event)
		wmu.Unlock()
		if err != nil {
			h.drop(conn)
		}
	}
}

// Subscribers reports how many feed clients are connected.
func (s *Server) Subscribers() int {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	return len(s.hub.conns)
}
