package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrHubBusy is returned when a message could not be queued for delivery
var ErrHubBusy = errors.New("websocket hub is busy")

// Envelope is the JSON frame pushed to clients
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

type delivery struct {
	userID int64
	data   []byte
}

// Hub keeps the open connections of each user and pushes messages to them
type Hub struct {
	// Registered clients organized by user ID
	clients map[int64]map[*Client]bool

	deliver    chan delivery
	register   chan *Client
	unregister chan *Client

	// Guards clients for the read-only accessors
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		deliver:    make(chan delivery, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run handles registrations and deliveries until ctx is cancelled, then
// closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case d := <-h.deliver:
			h.deliverMessage(d)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	h.logger.Debug().
		Int64("userID", client.userID).
		Int("connections", len(h.clients[client.userID])).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	conns, ok := h.clients[client.userID]
	if !ok || !conns[client] {
		return
	}
	delete(conns, client)
	close(client.send)
	if len(conns) == 0 {
		delete(h.clients, client.userID)
	}
	h.logger.Debug().Int64("userID", client.userID).Msg("Client unregistered")
}

func (h *Hub) deliverMessage(d delivery) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[d.userID]
	if !ok {
		h.logger.Debug().Int64("userID", d.userID).Msg("No open connections for user")
		return
	}

	for client := range conns {
		select {
		case client.send <- d.data:
		default:
			// slow consumer, drop the connection
			h.removeLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conns := range h.clients {
		for client := range conns {
			h.removeLocked(client)
		}
	}
}

// SendToUser queues a message for every open connection of userID. It never
// blocks; when the delivery queue is full the message is dropped and ErrHubBusy returned.
func (h *Hub) SendToUser(userID int64, msgType string, payload interface{}) error {
	data, err := json.Marshal(Envelope{Type: msgType, Payload: payload, Timestamp: time.Now()})
	if err != nil {
		return err
	}

	select {
	case h.deliver <- delivery{userID: userID, data: data}:
		return nil
	default:
		return ErrHubBusy
	}
}

// ConnectionCount returns the number of open connections of a user
func (h *Hub) ConnectionCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
