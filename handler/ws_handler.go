// file: handler/ws_handler.go

package handler

import (
	"encoding/json"
	"go-collab-api/logger"
	"go-collab-api/repository"
	"go-collab-api/service"
	ws "go-collab-api/websocket"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// WebSocketHandler upgrades authenticated project members into the realtime
// room for their project.
type WebSocketHandler struct {
	hub        *ws.Hub
	auth       *service.AuthService
	revocation *service.RevocationCache
	userRepo   repository.IUserRepository
	projects   *service.ProjectService
}

func NewWebSocketHandler(hub *ws.Hub, auth *service.AuthService, revocation *service.RevocationCache, userRepo repository.IUserRepository, projects *service.ProjectService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:        hub,
		auth:       auth,
		revocation: revocation,
		userRepo:   userRepo,
		projects:   projects,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins (consider tightening this in production).
		return true
	},
}

// Serve handles the websocket connection request. The same gateway checks as
// HTTP routes apply before the upgrade: token presence, revocation, signature,
// and a membership check on the requested project.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	tokenString := ExtractToken(r)
	if tokenString == "" {
		tokenString = r.URL.Query().Get("token")
	}
	if tokenString == "" {
		http.Error(w, "Authentication token is required", http.StatusUnauthorized)
		return
	}

	revoked, err := h.revocation.IsRevoked(r.Context(), tokenString)
	if err != nil {
		http.Error(w, "Could not verify session", http.StatusInternalServerError)
		return
	}
	if revoked {
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return
	}

	claims, err := h.auth.VerifyJWT(tokenString)
	if err != nil {
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return
	}

	user, err := h.userRepo.GetUserByEmail(claims.Email)
	if err != nil {
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return
	}

	projectID, err := strconv.Atoi(r.URL.Query().Get("projectId"))
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	member, err := h.projects.IsMember(projectID, user.ID)
	if err != nil {
		http.Error(w, "Could not verify project membership", http.StatusInternalServerError)
		return
	}
	if !member {
		http.Error(w, "You are not a member of this project", http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to upgrade websocket connection")
		return
	}

	client := ws.NewClient(h.hub, conn, projectID, user.Public())
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump(h.handleIncomingMessage)
}

// handleIncomingMessage processes frames received from a room client. The
// sender is always stamped from the authenticated identity; a client claiming
// the reserved assistant sender is dropped.
func (h *WebSocketHandler) handleIncomingMessage(client *ws.Client, raw []byte) {
	var event ws.Event
	if err := json.Unmarshal(raw, &event); err != nil {
		logger.Log.WithError(err).Warn("Dropping undecodable websocket frame")
		return
	}

	switch event.Event {
	case ws.EventProjectMessage:
		var msg ws.ProjectMessage
		if err := json.Unmarshal(event.Data, &msg); err != nil {
			logger.Log.WithError(err).Warn("Dropping malformed project message")
			return
		}
		if msg.Sender.ID == ws.AISenderID {
			logger.Log.WithFields(logrus.Fields{
				"user_id":    client.User.ID,
				"project_id": client.ProjectID,
			}).Warn("Dropping client frame claiming the assistant sender")
			return
		}

		msg.Sender = ws.NewUserSender(client.User)
		payload, err := ws.NewProjectMessageEvent(msg)
		if err != nil {
			logger.Log.WithError(err).Error("Failed to encode project message")
			return
		}
		h.hub.BroadcastTo(client.ProjectID, payload, client)

	default:
		logger.Log.WithField("event", event.Event).Warn("Unknown websocket event received")
	}
}
