package websocket

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024
)

var (
	newline = []byte{'\n'}
	space   = []byte{' '}
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for development, in production this should be restricted
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is a middleman between one websocket connection and the hub
type Client struct {
	hub *Hub

	conn *websocket.Conn

	// Buffered channel of outbound messages
	send chan []byte

	userID     int64
	senderName string
	groupID    int64

	// canPost mirrors the group's messaging policy for this user's role,
	// resolved once at connect time
	canPost bool

	logger zerolog.Logger
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Info().
					Int64("userID", c.userID).
					Int64("groupID", c.groupID).
					Msg("WebSocket closed normally")
			} else if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().
					Err(err).
					Int64("userID", c.userID).
					Int64("groupID", c.groupID).
					Msg("Unexpected WebSocket close")
			} else {
				c.logger.Debug().
					Err(err).
					Int64("userID", c.userID).
					Int64("groupID", c.groupID).
					Msg("WebSocket read error")
			}
			break
		}

		if !c.canPost {
			c.logger.Debug().
				Int64("userID", c.userID).
				Int64("groupID", c.groupID).
				Msg("Dropped message from read-only client")
			continue
		}

		message = bytes.TrimSpace(bytes.Replace(message, newline, space, -1))

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			c.logger.Error().
				Err(err).
				Int64("userID", c.userID).
				Int64("groupID", c.groupID).
				Msg("Failed to unmarshal client message")
			continue
		}
		if msg.Content == "" {
			continue
		}

		// Clients cannot spoof sender, group or payload kind
		msg.SenderID = c.userID
		msg.SenderName = c.senderName
		msg.GroupID = c.groupID
		msg.Kind = "plain"
		msg.Metadata = nil
		msg.Timestamp = time.Now()

		c.hub.broadcast <- &msg
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Drain queued messages into the same frame
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write(newline)
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
