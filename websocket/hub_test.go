package websocket

import (
	"go-collab-api/logger"
	"go-collab-api/model"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func register(t *testing.T, hub *Hub, projectID, userID int) *Client {
	t.Helper()
	client := NewClient(hub, nil, projectID, model.PublicUser{ID: userID})
	hub.Register <- client
	return client
}

func receive(t *testing.T, client *Client) []byte {
	t.Helper()
	select {
	case msg := <-client.Send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a room message")
		return nil
	}
}

func assertSilent(t *testing.T, client *Client) {
	t.Helper()
	select {
	case msg := <-client.Send:
		t.Fatalf("unexpected message delivered: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_BroadcastTo(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	sender := register(t, hub, 1, 10)
	peer := register(t, hub, 1, 11)
	outsider := register(t, hub, 2, 12)

	t.Run("reaches the room except the sender", func(t *testing.T) {
		hub.BroadcastTo(1, []byte("hello"), sender)

		assert.Equal(t, []byte("hello"), receive(t, peer))
		assertSilent(t, sender)
		assertSilent(t, outsider)
	})

	t.Run("nil except reaches the whole room", func(t *testing.T) {
		hub.BroadcastTo(1, []byte("from-assistant"), nil)

		assert.Equal(t, []byte("from-assistant"), receive(t, sender))
		assert.Equal(t, []byte("from-assistant"), receive(t, peer))
		assertSilent(t, outsider)
	})

	t.Run("an empty room swallows the message", func(t *testing.T) {
		hub.BroadcastTo(99, []byte("void"), nil)

		assertSilent(t, sender)
		assertSilent(t, peer)
		assertSilent(t, outsider)
	})
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	left := register(t, hub, 1, 10)
	stayed := register(t, hub, 1, 11)

	hub.Unregister <- left

	// The departed client's channel closes; the room keeps working.
	select {
	case _, open := <-left.Send:
		assert.False(t, open, "unregistered client's send channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the send channel to close")
	}

	hub.BroadcastTo(1, []byte("still here"), nil)
	assert.Equal(t, []byte("still here"), receive(t, stayed))
}
