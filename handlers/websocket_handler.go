package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/padelpoint/padel-system/realtime"
	"github.com/padelpoint/padel-system/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict allowed origins once the frontend domain is fixed.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub            *realtime.Hub
	bracketService services.BracketService
	logger         *slog.Logger
}

func NewWebSocketHandler(hub *realtime.Hub, bracketService services.BracketService, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:            hub,
		bracketService: bracketService,
		logger:         logger,
	}
}

// ServeWs upgrades the connection and subscribes the client to live updates
// for one bracket. Clients connect to /ws/brackets/{bracketID}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	bracketID, err := getIDFromURL(r, "bracketID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if _, err := h.bracketService.GetBracketData(r.Context(), bracketID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed",
			slog.Int("bracket_id", bracketID),
			slog.Any("error", err))
		return
	}

	client := realtime.NewClient(h.hub, conn, bracketID)
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
