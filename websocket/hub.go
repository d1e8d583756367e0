package websocket

import "go-collab-api/logger"

// roomMessage is a payload addressed to a single project room.
type roomMessage struct {
	projectID int
	payload   []byte
	except    *Client
}

// Hub maintains the set of active clients and fans messages out to the
// clients subscribed to each project room. All map access happens on the Run
// goroutine; registration, unregistration, and broadcasts arrive on channels.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Inbound messages addressed to a project room.
	broadcast chan roomMessage

	// A map of project IDs to the set of clients subscribed to each.
	rooms map[int]map[*Client]bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		broadcast:  make(chan roomMessage),
		clients:    make(map[*Client]bool),
		rooms:      make(map[int]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			h.addToRoom(client)
			logger.Log.WithField("total_clients", len(h.clients)).Info("Realtime client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.removeFromRoom(client)
				logger.Log.WithField("total_clients", len(h.clients)).Info("Realtime client disconnected")
			}
		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

// BroadcastTo sends a message to every client in the project's room except
// the originator. Senders render their own message locally, matching the
// room's broadcast-to-others semantics. Pass a nil except to reach the whole
// room, as assistant messages do.
func (h *Hub) BroadcastTo(projectID int, message []byte, except *Client) {
	h.broadcast <- roomMessage{projectID: projectID, payload: message, except: except}
}

func (h *Hub) deliver(msg roomMessage) {
	for client := range h.rooms[msg.projectID] {
		if client == msg.except {
			continue
		}
		select {
		case client.Send <- msg.payload:
		default:
			close(client.Send)
			delete(h.clients, client)
			delete(h.rooms[msg.projectID], client)
		}
	}
}

func (h *Hub) addToRoom(client *Client) {
	if h.rooms[client.ProjectID] == nil {
		h.rooms[client.ProjectID] = make(map[*Client]bool)
	}
	h.rooms[client.ProjectID][client] = true
}

func (h *Hub) removeFromRoom(client *Client) {
	if room, ok := h.rooms[client.ProjectID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, client.ProjectID)
		}
	}
}
