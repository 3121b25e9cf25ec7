package websocket

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// MessageStore persists socket-originated messages. The chat service
// implements it; the indirection keeps this package free of service
// imports.
type MessageStore interface {
	SaveIncoming(ctx context.Context, msg *Message) (int64, error)
}

// MessageHandler listens to hub broadcasts and persists the messages
// that originated from websocket clients. Messages that already carry a
// database ID came through the REST path and are skipped.
type MessageHandler struct {
	store  MessageStore
	hub    *Hub
	logger zerolog.Logger
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(store MessageStore, hub *Hub, logger zerolog.Logger) *MessageHandler {
	return &MessageHandler{
		store:  store,
		hub:    hub,
		logger: logger,
	}
}

// Start begins processing messages from the hub
func (h *MessageHandler) Start() {
	go h.processMessages()
}

func (h *MessageHandler) processMessages() {
	messageChan := make(chan *Message, 64)
	h.hub.AddMessageListener(messageChan)

	for message := range messageChan {
		if message.ID != 0 {
			continue
		}
		h.persistMessage(message)
	}
}

func (h *MessageHandler) persistMessage(message *Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messageID, err := h.store.SaveIncoming(ctx, message)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("groupID", message.GroupID).
			Int64("senderID", message.SenderID).
			Msg("Failed to save WebSocket message to database")
		return
	}

	message.ID = messageID

	h.logger.Debug().
		Int64("messageID", messageID).
		Int64("groupID", message.GroupID).
		Msg("WebSocket message saved to database")
}
