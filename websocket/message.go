package websocket

import (
	"encoding/json"
	"go-collab-api/model"
	"strconv"
)

// EventProjectMessage is the chat event exchanged over a project room.
const EventProjectMessage = "project-message"

// AISenderID is the reserved sender identifier for assistant-originated
// messages, whose message field is itself a JSON payload that may carry a
// replacement file tree. Clients cannot claim it.
const AISenderID = "ai"

// Event is the envelope for every frame on the wire.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ProjectMessage is the payload of a project-message event.
type ProjectMessage struct {
	Message string `json:"message"`
	Sender  Sender `json:"sender"`
}

// Sender identifies who produced a message. ID is a string so the reserved
// assistant identifier can share the field with numeric user ids.
type Sender struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// NewUserSender builds the sender record for an authenticated user.
func NewUserSender(user model.PublicUser) Sender {
	return Sender{
		ID:    strconv.Itoa(user.ID),
		Email: user.Email,
	}
}

// NewProjectMessageEvent marshals a chat payload into a broadcastable frame.
func NewProjectMessageEvent(msg ProjectMessage) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Event{Event: EventProjectMessage, Data: data})
}
