package socket

import (
	"encoding/json"

	"routinemelt/pkg/logger"
)

const (
	TaskCreatedType = "TASK_CREATED" // a task was logged for a day
	TaskDeletedType = "TASK_DELETED" // a task was removed from a day
)

// Event is pushed to every open session of the affected user so other tabs
// can refresh their heatmap and day list without polling.
type Event struct {
	Type    string          `json:"type"`
	UserID  string          `json:"userId"`
	Date    string          `json:"date"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Hub fans task events out to connected clients, grouped by user. All session
// maps are owned by the Run goroutine; other goroutines talk to it through the
// channels only.
type Hub struct {
	sessions map[string]map[*Client]bool // userID -> open connections

	Broadcast  chan Event
	Register   chan *Client
	Unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		Broadcast:  make(chan Event),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			if h.sessions[client.UserID] == nil {
				h.sessions[client.UserID] = make(map[*Client]bool)
			}
			h.sessions[client.UserID][client] = true

		case client := <-h.Unregister:
			if _, ok := h.sessions[client.UserID][client]; ok {
				delete(h.sessions[client.UserID], client)
				close(client.Send)
				if len(h.sessions[client.UserID]) == 0 {
					delete(h.sessions, client.UserID)
				}
			}

		case event := <-h.Broadcast:
			payload, err := json.Marshal(event)
			if err != nil {
				logger.Sugar.Errorf("Error marshalling event: %v", err)
				continue
			}

			for client := range h.sessions[event.UserID] {
				select {
				case client.Send <- payload:
				default:
					// The client is lagging; drop it rather than block the hub.
					logger.Sugar.Warnf("Session for user %s has a full send buffer. Closing.", client.UserID)
					delete(h.sessions[event.UserID], client)
					close(client.Send)
				}
			}
		}
	}
}
