package notify

import (
	"dealdesk/internal/logger"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type EventType string

const (
	EventDealUpdated     EventType = "deal_updated"
	EventVersionProposed EventType = "version_proposed"
	EventVersionAccepted EventType = "version_accepted"
	EventVersionRejected EventType = "version_rejected"
	EventDocumentUpdated EventType = "document_updated"
	EventReconnect       EventType = "reconnect"
)

type Event struct {
	Type   EventType `json:"type"`
	DealID int64     `json:"deal_id"`
}

type Client struct {
	url          string
	token        string
	log          *logger.Logger
	mu           sync.Mutex
	conn         *websocket.Conn
	events       chan Event
	stopCh       chan struct{}
	stopOnce     sync.Once
	done         chan struct{}
	reconnectMin time.Duration
	reconnectMax time.Duration
}
