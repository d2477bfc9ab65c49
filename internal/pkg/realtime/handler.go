package realtime

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin enforcement is delegated to the auth middleware; the feed
	// is only reachable with a valid bearer token.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades authenticated HTTP requests to audit feed subscriptions.
type Handler struct {
	hub    *Hub
	logger zerolog.Logger
}

// NewHandler creates a new audit feed handler
func NewHandler(hub *Hub, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		logger: logger,
	}
}

// HandleConnection godoc
// @Summary Subscribe to the live audit feed
// @Description Upgrades the HTTP connection to a WebSocket that streams audit log entries as they are recorded
// @Tags audit-logs, websocket
// @Produce json
// @Security BearerAuth
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 401 {object} gin.H "Unauthorized: JWT token missing or invalid"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /audit-logs/stream [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	actorID := c.GetString("actorID")
	if actorID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to upgrade audit feed connection")
		return
	}

	client := &Client{
		hub:     h.hub,
		conn:    conn,
		send:    make(chan []byte, 32),
		actorID: actorID,
		logger:  h.logger,
	}

	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}
