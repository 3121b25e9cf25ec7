package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/proske/proske-backend/internal/app/models"
	"github.com/proske/proske-backend/internal/app/models/dto"
	"github.com/proske/proske-backend/internal/app/services"
	"github.com/proske/proske-backend/internal/middleware"
	"github.com/proske/proske-backend/internal/pkg/helpers"
)

// MessageController handles chat history endpoints
type MessageController struct {
	chatService services.ChatService
}

// NewMessageController creates a new MessageController
func NewMessageController(chatService services.ChatService) *MessageController {
	return &MessageController{chatService: chatService}
}

// Send godoc
// @Summary Post a message to a group
// @Description Persists the message and broadcasts it to connected websocket clients
// @Tags chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param request body dto.SendMessageRequest true "Message content"
// @Success 201 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 403 {object} dto.ErrorResponse "Not a member or messaging disabled for the caller's role"
// @Router /groups/{id}/messages [post]
func (ctrl *MessageController) Send(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	msg, err := ctrl.chatService.SendMessage(c, groupID, middleware.GetUserID(c), middleware.GetUserRole(c), req.Content)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(toMessageResponse(msg)))
}

// ListGroup godoc
// @Summary List a group's message history
// @Description Newest first. Pass before with the oldest seen message ID to page backwards.
// @Tags chat
// @Security BearerAuth
// @Produce json
// @Param id path int true "Group ID"
// @Param before query int false "Only messages older than this ID"
// @Success 200 {object} dto.APIResponse
// @Router /groups/{id}/messages [get]
func (ctrl *MessageController) ListGroup(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var filter dto.MessageFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	page, size := helpers.ParsePaginationParams(c)

	messages, total, err := ctrl.chatService.ListGroupMessages(c, groupID, middleware.GetUserID(c), middleware.GetUserRole(c), filter.Before, page, size)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"messages":   toMessageResponses(messages),
		"pagination": helpers.NewPaginationInfo(total, page, size),
	}))
}

// ListCommunityFeed godoc
// @Summary List the cross-group message feed of a community
// @Description Community managers only, since the feed spans hidden groups
// @Tags chat
// @Security BearerAuth
// @Produce json
// @Param id path int true "Community ID"
// @Success 200 {object} dto.APIResponse
// @Router /communities/{id}/messages [get]
func (ctrl *MessageController) ListCommunityFeed(c *gin.Context) {
	communityID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(c)

	messages, total, err := ctrl.chatService.ListCommunityFeed(c, communityID, middleware.GetUserID(c), middleware.GetUserRole(c), page, size)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"messages":   toMessageResponses(messages),
		"pagination": helpers.NewPaginationInfo(total, page, size),
	}))
}

// Delete removes a message the caller sent or moderates
func (ctrl *MessageController) Delete(c *gin.Context) {
	messageID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.chatService.DeleteMessage(c, messageID, middleware.GetUserID(c), middleware.GetUserRole(c)); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Message deleted"}))
}

func toMessageResponse(msg *models.Message) *dto.MessageResponse {
	resp := &dto.MessageResponse{
		ID:          msg.ID,
		GroupID:     msg.GroupID,
		CommunityID: msg.CommunityID,
		SenderID:    msg.SenderID,
		Content:     msg.Content,
		Kind:        string(models.MessageKindPlain),
		CreatedAt:   msg.CreatedAt,
	}
	if msg.Sender != nil && msg.Sender.Profile != nil {
		resp.SenderName = msg.Sender.Profile.FullName
	}
	if payload, err := models.ParsePayload(msg.Metadata); err == nil {
		resp.Kind = string(payload.Kind)
		if payload.Kind != models.MessageKindPlain {
			resp.Metadata = payload
		}
	}
	return resp
}

func toMessageResponses(messages []*models.Message) []*dto.MessageResponse {
	responses := make([]*dto.MessageResponse, len(messages))
	for i, msg := range messages {
		responses[i] = toMessageResponse(msg)
	}
	return responses
}
