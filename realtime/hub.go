package realtime

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
)

// Event types pushed to bracket rooms.
const (
	EventBracketPublished = "BRACKET_PUBLISHED"
	EventMatchUpdated     = "MATCH_UPDATED"
	EventTeamWithdrawn    = "TEAM_WITHDRAWN"
	EventStandingsUpdated = "STANDINGS_UPDATED"
)

// Event is the wire envelope sent to subscribed clients.
type Event struct {
	Type      string      `json:"type"`
	BracketID int         `json:"bracket_id"`
	Payload   interface{} `json:"payload,omitempty"`
}

// Hub fans bracket events out to websocket clients grouped into per-bracket
// rooms. Clients only listen; inbound frames are dropped.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	rooms  map[string]map[*Client]bool
	mu     sync.RWMutex
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.logger.Debug("realtime client registered", slog.String("room", client.room), slog.Int("room_size", len(h.rooms[client.room])))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.room]; ok {
				if _, known := clients[client]; known {
					client.closeSend()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.room)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastBracketEvent pushes an event to every client watching the bracket.
// Slow clients are skipped rather than blocking the caller.
func (h *Hub) BroadcastBracketEvent(event Event) {
	room := roomID(event.BracketID)

	message, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal realtime event", slog.String("type", event.Type), slog.Any("error", err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[room] {
		client.trySend(message)
	}
}

func roomID(bracketID int) string {
	return "bracket:" + strconv.Itoa(bracketID)
}
