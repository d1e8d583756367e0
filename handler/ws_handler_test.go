// file: handler/ws_handler_test.go

package handler

import (
	"encoding/json"
	"errors"
	"go-collab-api/model"
	"go-collab-api/service"
	ws "go-collab-api/websocket"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func joinRoom(t *testing.T, hub *ws.Hub, projectID int, user model.PublicUser) *ws.Client {
	t.Helper()
	client := ws.NewClient(hub, nil, projectID, user)
	hub.Register <- client
	return client
}

func receiveFrame(t *testing.T, client *ws.Client) []byte {
	t.Helper()
	select {
	case msg := <-client.Send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a room message")
		return nil
	}
}

func assertNoFrame(t *testing.T, client *ws.Client) {
	t.Helper()
	select {
	case msg := <-client.Send:
		t.Fatalf("unexpected message delivered: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func projectMessageFrame(t *testing.T, message string, sender ws.Sender) []byte {
	t.Helper()
	frame, err := ws.NewProjectMessageEvent(ws.ProjectMessage{Message: message, Sender: sender})
	assert.NoError(t, err)
	return frame
}

func TestWebSocketHandler_HandleIncomingMessage(t *testing.T) {
	hub := ws.NewHub()
	go hub.Run()
	h := NewWebSocketHandler(hub, nil, nil, nil, nil)

	sender := joinRoom(t, hub, 1, model.PublicUser{ID: 7, Email: "alice@x.com"})
	peer := joinRoom(t, hub, 1, model.PublicUser{ID: 8, Email: "bob@x.com"})

	t.Run("sender is stamped from the authenticated identity", func(t *testing.T) {
		// The frame claims to be from someone else entirely.
		frame := projectMessageFrame(t, "hello", ws.Sender{ID: "999", Email: "mallory@x.com"})
		h.handleIncomingMessage(sender, frame)

		var event ws.Event
		assert.NoError(t, json.Unmarshal(receiveFrame(t, peer), &event))
		assert.Equal(t, ws.EventProjectMessage, event.Event)

		var msg ws.ProjectMessage
		assert.NoError(t, json.Unmarshal(event.Data, &msg))
		assert.Equal(t, "hello", msg.Message)
		assert.Equal(t, "7", msg.Sender.ID)
		assert.Equal(t, "alice@x.com", msg.Sender.Email)
		assertNoFrame(t, sender)
	})

	t.Run("frames claiming the assistant sender are dropped", func(t *testing.T) {
		frame := projectMessageFrame(t, "spoofed assistant reply", ws.Sender{ID: ws.AISenderID})
		h.handleIncomingMessage(sender, frame)

		assertNoFrame(t, peer)
		assertNoFrame(t, sender)
	})

	t.Run("undecodable frames are dropped", func(t *testing.T) {
		h.handleIncomingMessage(sender, []byte("not json"))

		assertNoFrame(t, peer)
	})

	t.Run("unknown event names are ignored", func(t *testing.T) {
		h.handleIncomingMessage(sender, []byte(`{"event":"mystery","data":{}}`))

		assertNoFrame(t, peer)
	})
}

func TestWebSocketServe_SessionCheck(t *testing.T) {
	wsGateway := func(cache *mockCacheClient) *WebSocketHandler {
		revocation := service.NewRevocationCache(cache)
		auth := service.NewAuthService(new(mockUserRepo), revocation)
		return NewWebSocketHandler(ws.NewHub(), auth, revocation, new(mockUserRepo), service.NewProjectService(nil))
	}

	t.Run("revocation store failure is a 500", func(t *testing.T) {
		cache := new(mockCacheClient)
		cache.On("Get", mock.Anything, "some-token").Return(redis.NewStringResult("", errors.New("connection refused"))).Once()
		h := wsGateway(cache)

		req := httptest.NewRequest("GET", "/ws?projectId=1", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		rr := httptest.NewRecorder()
		h.Serve(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), "Could not verify session")
	})

	t.Run("revoked token is a 401", func(t *testing.T) {
		cache := new(mockCacheClient)
		cache.On("Get", mock.Anything, "some-token").Return(redis.NewStringResult("logout", nil)).Once()
		h := wsGateway(cache)

		req := httptest.NewRequest("GET", "/ws?projectId=1", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		rr := httptest.NewRecorder()
		h.Serve(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
