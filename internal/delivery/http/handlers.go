package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/prasetyodidi/campfire/internal/config"
	"github.com/prasetyodidi/campfire/internal/delivery/ws"
	"github.com/prasetyodidi/campfire/internal/usecase"
)

// isOriginAllowed checks if the origin is in the allowed list
func isOriginAllowed(origin string) bool {
	// Empty origin is allowed (same-origin requests)
	if origin == "" {
		return true
	}

	for _, allowed := range config.AppConfig.AllowedOrigins {
		if allowed == "*" || origin == allowed {
			return true
		}
	}
	return false
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return isOriginAllowed(r.Header.Get("Origin"))
	},
}

// Handler wires the websocket transport to the broadcast router
type Handler struct {
	hub    *ws.Hub
	router *usecase.Router
}

// NewHandler creates the HTTP delivery layer
func NewHandler(hub *ws.Hub, router *usecase.Router) *Handler {
	return &Handler{
		hub:    hub,
		router: router,
	}
}

// HandleWebSocket upgrades HTTP to WebSocket and starts the client pumps.
// Joining happens over the socket itself, not at upgrade time: a fresh
// connection is open but belongs to no room until its join event succeeds.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	client := ws.NewClient(h.hub, h.router, conn)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// HandleHealth reports liveness and current occupancy
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":      "ok",
		"connections": h.hub.ClientCount(),
		"users":       h.router.Registry().Count(),
	})
}
