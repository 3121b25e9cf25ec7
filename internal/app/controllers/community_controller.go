package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/proske/proske-backend/internal/app/models/dto"
	"github.com/proske/proske-backend/internal/app/services"
	"github.com/proske/proske-backend/internal/middleware"
	"github.com/proske/proske-backend/internal/pkg/helpers"
)

// CommunityController handles community and invite endpoints
type CommunityController struct {
	communityService services.CommunityService
	inviteService    services.InviteService
}

// NewCommunityController creates a new CommunityController
func NewCommunityController(communityService services.CommunityService, inviteService services.InviteService) *CommunityController {
	return &CommunityController{
		communityService: communityService,
		inviteService:    inviteService,
	}
}

// Create godoc
// @Summary Create a community
// @Description Teachers and admins only. The creator becomes the first member.
// @Tags communities
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateCommunityRequest true "Community details"
// @Success 201 {object} dto.APIResponse{data=models.Community}
// @Failure 403 {object} dto.ErrorResponse "Students cannot create communities"
// @Router /communities [post]
func (ctrl *CommunityController) Create(c *gin.Context) {
	var req dto.CreateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	community, err := ctrl.communityService.Create(c, middleware.GetUserID(c), middleware.GetUserRole(c), &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(community))
}

// List godoc
// @Summary List communities
// @Tags communities
// @Security BearerAuth
// @Produce json
// @Param subject query string false "Filter by subject"
// @Param search query string false "Search in name and description"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse
// @Router /communities [get]
func (ctrl *CommunityController) List(c *gin.Context) {
	page, size := helpers.ParsePaginationParams(c)
	communities, total, err := ctrl.communityService.List(c, c.Query("subject"), c.Query("search"), page, size)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"communities": communities,
		"pagination":  helpers.NewPaginationInfo(total, page, size),
	}))
}

// ListJoined returns the communities the caller belongs to
func (ctrl *CommunityController) ListJoined(c *gin.Context) {
	communities, err := ctrl.communityService.ListJoined(c, middleware.GetUserID(c))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(communities))
}

// Get returns one community
func (ctrl *CommunityController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	community, err := ctrl.communityService.GetByID(c, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(community))
}

// Update edits a community the caller manages
func (ctrl *CommunityController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	community, err := ctrl.communityService.Update(c, middleware.GetUserID(c), middleware.GetUserRole(c), id, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(community))
}

// UploadCover replaces a community's cover image
func (ctrl *CommunityController) UploadCover(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("cover")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Cover file is required").WithField("cover"),
		))
		return
	}

	community, err := ctrl.communityService.UploadCover(c, middleware.GetUserID(c), middleware.GetUserRole(c), id, fileHeader)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(community))
}

// Delete removes a community the caller manages
func (ctrl *CommunityController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.communityService.Delete(c, middleware.GetUserID(c), middleware.GetUserRole(c), id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Community deleted"}))
}

// Join adds the caller to a community
func (ctrl *CommunityController) Join(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.communityService.Join(c, id, middleware.GetUserID(c)); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Joined community"}))
}

// Leave removes the caller from a community
func (ctrl *CommunityController) Leave(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.communityService.Leave(c, id, middleware.GetUserID(c)); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Left community"}))
}

// RemoveMember kicks a member out of a community the caller manages
func (ctrl *CommunityController) RemoveMember(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	err := ctrl.communityService.RemoveMember(c, middleware.GetUserID(c), middleware.GetUserRole(c), id, userID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Member removed"}))
}

// GetMembers lists a community's members
func (ctrl *CommunityController) GetMembers(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(c)
	members, total, err := ctrl.communityService.GetMembers(c, id, middleware.GetUserID(c), page, size)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"members":    members,
		"pagination": helpers.NewPaginationInfo(total, page, size),
	}))
}

// CreateInvite godoc
// @Summary Mint an invite code for a community
// @Tags communities, invites
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Community ID"
// @Param request body dto.CreateInviteRequest false "Expiry override"
// @Success 201 {object} dto.APIResponse{data=models.Invite}
// @Router /communities/{id}/invites [post]
func (ctrl *CommunityController) CreateInvite(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		middleware.HandleAPIError(c, err)
		return
	}

	invite, err := ctrl.inviteService.Create(c, middleware.GetUserID(c), middleware.GetUserRole(c), id, req.ExpiresInHours)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(invite))
}

// ListInvites returns a community's invite codes
func (ctrl *CommunityController) ListInvites(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	invites, err := ctrl.inviteService.List(c, middleware.GetUserID(c), middleware.GetUserRole(c), id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(invites))
}

// DeleteInvite revokes an invite code
func (ctrl *CommunityController) DeleteInvite(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	inviteID, ok := parseIDParam(c, "inviteId")
	if !ok {
		return
	}
	err := ctrl.inviteService.Delete(c, middleware.GetUserID(c), middleware.GetUserRole(c), id, inviteID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Invite deleted"}))
}

// RedeemInvite godoc
// @Summary Join a community with an invite code
// @Tags invites
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.JoinByInviteRequest true "Invite code"
// @Success 200 {object} dto.APIResponse{data=models.Community}
// @Failure 400 {object} dto.ErrorResponse "Invite expired"
// @Failure 404 {object} dto.ErrorResponse "Invite not found"
// @Router /invites/redeem [post]
func (ctrl *CommunityController) RedeemInvite(c *gin.Context) {
	var req dto.JoinByInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	community, err := ctrl.inviteService.Redeem(c, req.Code, middleware.GetUserID(c))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(community))
}
