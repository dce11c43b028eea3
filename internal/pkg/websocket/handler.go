package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Handler upgrades authenticated requests to notification streams
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler. An empty allowedOrigins accepts any origin.
func NewHandler(hub *Hub, allowedOrigins []string, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:      hub,
		upgrader: newUpgrader(allowedOrigins),
		logger:   logger,
	}
}

// HandleConnection godoc
// @Summary Open the live notification stream
// @Description Upgrades the connection to a WebSocket that receives every new notification of the caller. Browsers may pass the JWT as the token query parameter.
// @Tags notifications
// @Security BearerAuth
// @Param token query string false "JWT access token"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 401 {object} gin.H "Unauthorized: JWT token missing or invalid"
// @Router /notifications/ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	userID, ok := c.Get("userID")
	id, isInt := userID.(int64)
	if !ok || !isInt {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Int64("userID", id).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, 64),
		userID: id,
		logger: h.logger,
	}
	h.hub.register <- client

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Int64("userID", id).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("Notification stream opened")
}
