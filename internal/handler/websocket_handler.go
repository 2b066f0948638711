package handler

import (
	"net/http"

	"github.com/budgetloop/budgetloop-backend/internal/websocket"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub            *websocket.Hub
	allowAll       bool
	allowedOrigins map[string]bool
	upgrader       ws.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler. An empty origin list
// or "*" accepts every origin.
func NewWebSocketHandler(hub *websocket.Hub, allowedOrigins []string) *WebSocketHandler {
	// Build origin lookup map
	originMap := make(map[string]bool)
	allowAll := len(allowedOrigins) == 0
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		originMap[origin] = true
	}

	h := &WebSocketHandler{
		hub:            hub,
		allowAll:       allowAll,
		allowedOrigins: originMap,
	}

	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return h
}

// checkOrigin validates the request origin against allowed origins
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowAll {
		// Non-browser clients send no Origin header
		return true
	}

	if h.allowedOrigins[origin] {
		return true
	}

	log.Warn().
		Str("origin", origin).
		Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// HandleWS godoc
// @Summary Change feed
// @Description Upgrades to a WebSocket that streams change events. The optional entities query is a comma separated list (transaction, budget, goal, settings, filters, storage) restricting which events are sent.
// @Tags events
// @Param entities query string false "Entities to subscribe to"
// @Success 101
// @Failure 403 {object} api.ErrorResponse
// @Router /ws [get]
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	if !h.checkOrigin(c.Request()) {
		return echo.NewHTTPError(http.StatusForbidden, "origin not allowed")
	}

	entities := websocket.ParseEntities(c.QueryParam("entities"))

	// Upgrade HTTP connection to WebSocket
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return nil
	}

	// Create client and register with hub
	client := websocket.NewClient(conn, h.hub, entities)
	h.hub.Register(client)

	log.Info().
		Str("client_id", client.ID()).
		Int("entities", len(entities)).
		Msg("WebSocket client connected")

	// Start read/write pumps in goroutines
	go client.WritePump()
	go client.ReadPump()

	return nil
}
