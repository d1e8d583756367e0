package websocket

import (
	"encoding/json"
	"go-collab-api/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProjectMessageEvent(t *testing.T) {
	payload, err := NewProjectMessageEvent(ProjectMessage{
		Message: "hello room",
		Sender:  NewUserSender(model.PublicUser{ID: 7, Email: "alice@x.com"}),
	})
	assert.NoError(t, err)

	var event Event
	assert.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, EventProjectMessage, event.Event)

	var msg ProjectMessage
	assert.NoError(t, json.Unmarshal(event.Data, &msg))
	assert.Equal(t, "hello room", msg.Message)
	assert.Equal(t, "7", msg.Sender.ID)
	assert.Equal(t, "alice@x.com", msg.Sender.Email)
}

func TestNewUserSender_NeverProducesReservedID(t *testing.T) {
	// User ids are serial integers, so the reserved assistant id cannot
	// collide with a real sender.
	sender := NewUserSender(model.PublicUser{ID: 1, Email: "a@x.com"})
	assert.NotEqual(t, AISenderID, sender.ID)
}
