// Package notify follows the backend's deal event feed over a websocket.
package notify

import (
	"context"
	"dealdesk/internal/logger"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

func New(url, token string, log *logger.Logger) *Client {
	return &Client{
		url:          url,
		token:        token,
		log:          log,
		events:       make(chan Event, 100),
		stopCh:       make(chan struct{}),
		done:         make(chan struct{}),
		reconnectMin: 1 * time.Second,
		reconnectMax: 30 * time.Second,
	}
}

// SetBackoff overrides the reconnect delays.
func (w *Client) SetBackoff(min, max time.Duration) {
	w.reconnectMin = min
	w.reconnectMax = max
}

func (w *Client) Connect(ctx context.Context) error {
	w.logEntry().WithField("url", w.url).Info("Подключение к ленте событий.")

	conn, err := w.dial(ctx)
	if err != nil {
		return fmt.Errorf("Не удалось подключиться к ленте событий: %w", err)
	}
	w.setConn(conn)

	w.logEntry().Info("Лента событий подключена.")

	go w.readLoop()

	return nil
}

func (w *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	header := http.Header{}
	if w.token != "" {
		header.Set("Authorization", "Bearer "+w.token)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, w.url, header)
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(1 << 20)
	return conn, nil
}

func (w *Client) setConn(conn *websocket.Conn) {
	w.mu.Lock()
	old := w.conn
	w.conn = conn
	w.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
}

func (w *Client) currentConn() *websocket.Conn {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn
}

// Events is closed once the client stops.
func (w *Client) Events() <-chan Event {
	return w.events
}

func (w *Client) Close() error {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		if conn := w.currentConn(); conn != nil {
			_ = conn.Close()
		}
	})
	return nil
}

// Done is closed after the read loop has exited.
func (w *Client) Done() <-chan struct{} {
	return w.done
}

func (w *Client) logEntry() *logrus.Entry {
	return w.log.WithComponent("notify")
}
