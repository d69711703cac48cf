package notify

import (
	"context"
	"encoding/json"
	"time"
)

func (w *Client) readLoop() {
	defer close(w.done)
	defer close(w.events)

	w.logEntry().Debug("readLoop запущен.")

	for {
		select {
		case <-w.stopCh:
			return
		default:
		}

		_, data, err := w.currentConn().ReadMessage()
		if err != nil {
			select {
			case <-w.stopCh:
				return
			default:
			}
			w.logEntry().WithError(err).Warn("Ошибка чтения ленты событий.")

			if !w.reconnect() {
				return
			}
			continue
		}

		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			w.logEntry().WithError(err).Warn("Не удалось разобрать событие.")
			continue
		}
		if event.Type == "" || event.DealID <= 0 {
			continue
		}

		if !w.emit(event) {
			return
		}
	}
}

func (w *Client) emit(event Event) bool {
	select {
	case w.events <- event:
		return true
	case <-w.stopCh:
		return false
	}
}

func (w *Client) reconnect() bool {
	backoff := w.reconnectMin

	for {
		select {
		case <-w.stopCh:
			return false
		case <-time.After(backoff):
		}

		w.logEntry().Info("Попытка переподключения к ленте событий.")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		conn, err := w.dial(ctx)
		cancel()
		if err != nil {
			w.logEntry().WithError(err).Warn("Не удалось переподключиться к ленте событий.")
			backoff = w.nextBackoff(backoff)
			continue
		}

		w.setConn(conn)

		select {
		case <-w.stopCh:
			_ = conn.Close()
			return false
		default:
		}

		w.logEntry().Info("Лента событий переподключена.")
		return w.emit(Event{Type: EventReconnect})
	}
}

func (w *Client) nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > w.reconnectMax {
		return w.reconnectMax
	}
	return next
}
