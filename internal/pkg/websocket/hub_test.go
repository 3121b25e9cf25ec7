package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, groupID, userID int64, buffer int) *Client {
	return &Client{
		hub:     hub,
		send:    make(chan []byte, buffer),
		groupID: groupID,
		userID:  userID,
		logger:  zerolog.Nop(),
	}
}

func TestBroadcastDeliversToGroupClients(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	client := newTestClient(hub, 42, 7, 4)
	hub.clients[42] = map[*Client]bool{client: true}
	go hub.Run()

	hub.BroadcastToGroup(&Message{GroupID: 42, SenderID: 9, Content: "hello"})

	select {
	case data := <-client.send:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, "hello", msg.Content)
		assert.Equal(t, int64(42), msg.GroupID)
		assert.Equal(t, int64(9), msg.SenderID)
	case <-time.After(time.Second):
		t.Fatal("message was not delivered")
	}
}

func TestBroadcastDropsSlowClientWithoutStalling(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	slowClient := newTestClient(hub, 42, 7, 0)
	hub.clients[42] = map[*Client]bool{slowClient: true}
	go hub.Run()

	done := make(chan struct{})
	go func() {
		hub.BroadcastToGroup(&Message{GroupID: 42, SenderID: 9, Content: "first"})
		hub.BroadcastToGroup(&Message{GroupID: 42, SenderID: 9, Content: "second"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast stalled behind a client that stopped draining its queue")
	}

	assert.Eventually(t, func() bool {
		return hub.GetClientsCount(42) == 0
	}, time.Second, 10*time.Millisecond, "slow client was not dropped")
}
