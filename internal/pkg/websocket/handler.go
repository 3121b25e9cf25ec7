package websocket

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// GroupAccess answers the membership and posting questions the handler
// needs before upgrading a connection. The group service implements it.
type GroupAccess struct {
	IsMember   bool
	CanPost    bool
	SenderName string
}

// AccessChecker resolves a user's access to a conversation group
type AccessChecker interface {
	CheckGroupAccess(ctx context.Context, groupID, userID int64) (*GroupAccess, error)
}

// Handler upgrades authenticated HTTP requests to websocket clients
type Handler struct {
	hub    *Hub
	access AccessChecker
	logger zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, access AccessChecker, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		access: access,
		logger: logger,
	}
}

// HandleConnection godoc
// @Summary Establish a WebSocket connection for real-time group chat
// @Description Upgrades the HTTP connection to a WebSocket subscribed to one conversation group
// @Tags chat, websocket
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 400 {object} gin.H "Invalid group ID"
// @Failure 401 {object} gin.H "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} gin.H "Forbidden: User is not a member of the group"
// @Router /groups/{id}/ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	groupIDStr := c.Param("id")
	groupID, err := strconv.ParseInt(groupIDStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	userIDInterface, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}
	userID, ok := userIDInterface.(int64)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return
	}

	access, err := h.access.CheckGroupAccess(c, groupID, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("groupID", groupID).
			Int64("userID", userID).
			Msg("Failed to check group access")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check group access"})
		return
	}
	if !access.IsMember {
		c.JSON(http.StatusForbidden, gin.H{"error": "User is not a member of this group"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("groupID", groupID).
			Int64("userID", userID).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:        h.hub,
		conn:       conn,
		send:       make(chan []byte, 256),
		userID:     userID,
		senderName: access.SenderName,
		groupID:    groupID,
		canPost:    access.CanPost,
		logger:     h.logger,
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Int64("groupID", groupID).
		Int64("userID", userID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}
