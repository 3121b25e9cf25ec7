package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Hub maintains the set of active clients, organized per conversation
// group, and fans broadcast messages out to them.
type Hub struct {
	// Registered clients organized by group ID
	clients map[int64]map[*Client]bool

	// Channel for inbound messages from clients
	broadcast chan *Message

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	mu sync.RWMutex

	listenersMu      sync.RWMutex
	messageListeners []chan *Message

	logger zerolog.Logger
}

// Message is the wire shape delivered over the socket. Kind mirrors the
// chat message payload kinds; plain messages carry no metadata.
type Message struct {
	ID          int64           `json:"id,omitempty"`
	GroupID     int64           `json:"groupId"`
	CommunityID int64           `json:"communityId,omitempty"`
	SenderID    int64           `json:"senderId"`
	SenderName  string          `json:"senderName,omitempty"`
	Content     string          `json:"content"`
	Kind        string          `json:"kind,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:        make(chan *Message),
		register:         make(chan *Client),
		unregister:       make(chan *Client),
		clients:          make(map[int64]map[*Client]bool),
		messageListeners: []chan *Message{},
		logger:           logger,
	}
}

// Run starts the hub loop. It owns the clients map; all mutation goes
// through the channels.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	groupID := client.groupID
	if _, ok := h.clients[groupID]; !ok {
		h.clients[groupID] = make(map[*Client]bool)
	}
	h.clients[groupID][client] = true

	h.logger.Info().
		Int64("groupID", groupID).
		Int64("userID", client.userID).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	groupID := client.groupID
	if _, ok := h.clients[groupID]; ok {
		if _, ok := h.clients[groupID][client]; ok {
			delete(h.clients[groupID], client)
			close(client.send)

			if len(h.clients[groupID]) == 0 {
				delete(h.clients, groupID)
			}

			h.logger.Info().
				Int64("groupID", groupID).
				Int64("userID", client.userID).
				Msg("Client unregistered")
		}
	}
}

func (h *Hub) broadcastMessage(message *Message) {
	h.notifyMessageListeners(message)

	h.mu.RLock()

	clients, ok := h.clients[message.GroupID]
	if !ok {
		h.mu.RUnlock()
		h.logger.Debug().
			Int64("groupID", message.GroupID).
			Msg("No clients in group for broadcast")
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		h.mu.RUnlock()
		h.logger.Error().
			Err(err).
			Int64("groupID", message.GroupID).
			Msg("Failed to marshal message for broadcast")
		return
	}

	// Slow or disconnected clients are dropped after the lock is
	// released. The hub goroutine is the only receiver on h.unregister,
	// so it must never send on that channel itself.
	var slow []*Client
	for client := range clients {
		select {
		case client.send <- data:
		default:
			slow = append(slow, client)
		}
	}
	count := len(clients)
	h.mu.RUnlock()

	for _, client := range slow {
		h.unregisterClient(client)
	}

	h.logger.Debug().
		Int64("groupID", message.GroupID).
		Int("clientCount", count).
		Msg("Message broadcasted to group")
}

func (h *Hub) notifyMessageListeners(message *Message) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	for _, listener := range h.messageListeners {
		select {
		case listener <- message:
		default:
			h.logger.Warn().Msg("Skipped slow message listener")
		}
	}
}

// BroadcastToGroup sends a message to all connected clients in a group
func (h *Hub) BroadcastToGroup(message *Message) {
	h.broadcast <- message
}

// GetClientsCount returns the number of connected clients for a group
func (h *Hub) GetClientsCount(groupID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.clients[groupID]; ok {
		return len(clients)
	}
	return 0
}

// AddMessageListener registers a channel that receives every broadcast
func (h *Hub) AddMessageListener(listener chan *Message) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	h.messageListeners = append(h.messageListeners, listener)
}

// RemoveMessageListener removes a previously registered listener
func (h *Hub) RemoveMessageListener(listener chan *Message) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	for i, l := range h.messageListeners {
		if l == listener {
			h.messageListeners[i] = h.messageListeners[len(h.messageListeners)-1]
			h.messageListeners = h.messageListeners[:len(h.messageListeners)-1]
			break
		}
	}
}
