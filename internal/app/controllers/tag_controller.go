package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/proske/proske-backend/internal/app/models/dto"
	"github.com/proske/proske-backend/internal/app/services"
	"github.com/proske/proske-backend/internal/middleware"
	"github.com/proske/proske-backend/internal/pkg/helpers"
)

// TagController handles label and CRM lead endpoints
type TagController struct {
	tagService services.TagService
}

// NewTagController creates a new TagController
func NewTagController(tagService services.TagService) *TagController {
	return &TagController{tagService: tagService}
}

// CreateTag makes a new label
func (ctrl *TagController) CreateTag(c *gin.Context) {
	var req dto.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	tag, err := ctrl.tagService.CreateTag(c, middleware.GetUserRole(c), &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(tag))
}

// ListTags returns all labels
func (ctrl *TagController) ListTags(c *gin.Context) {
	tags, err := ctrl.tagService.ListTags(c, middleware.GetUserRole(c))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(tags))
}

// UpdateTag edits a label
func (ctrl *TagController) UpdateTag(c *gin.Context) {
	tagID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	tag, err := ctrl.tagService.UpdateTag(c, middleware.GetUserRole(c), tagID, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(tag))
}

// DeleteTag removes a label
func (ctrl *TagController) DeleteTag(c *gin.Context) {
	tagID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.tagService.DeleteTag(c, middleware.GetUserRole(c), tagID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Tag deleted"}))
}

// SetUserTags replaces the labels on a user
func (ctrl *TagController) SetUserTags(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	var req dto.SetUserTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	tags, err := ctrl.tagService.SetUserTags(c, middleware.GetUserRole(c), userID, req.TagIDs)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(tags))
}

// GetUserTags returns the labels on a user
func (ctrl *TagController) GetUserTags(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	tags, err := ctrl.tagService.GetUserTags(c, middleware.GetUserRole(c), userID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(tags))
}

// CreateLead godoc
// @Summary Record a prospective student
// @Tags leads
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateLeadRequest true "Lead details"
// @Success 201 {object} dto.APIResponse{data=models.Lead}
// @Router /leads [post]
func (ctrl *TagController) CreateLead(c *gin.Context) {
	var req dto.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	lead, err := ctrl.tagService.CreateLead(c, middleware.GetUserRole(c), &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(lead))
}

// GetLead returns one lead with its tags
func (ctrl *TagController) GetLead(c *gin.Context) {
	leadID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	lead, err := ctrl.tagService.GetLead(c, middleware.GetUserRole(c), leadID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(lead))
}

// ListLeads returns the lead list, newest first
func (ctrl *TagController) ListLeads(c *gin.Context) {
	page, size := helpers.ParsePaginationParams(c)
	leads, total, err := ctrl.tagService.ListLeads(c, middleware.GetUserRole(c), page, size)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"leads":      leads,
		"pagination": helpers.NewPaginationInfo(total, page, size),
	}))
}

// UpdateLead edits a lead
func (ctrl *TagController) UpdateLead(c *gin.Context) {
	leadID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	lead, err := ctrl.tagService.UpdateLead(c, middleware.GetUserRole(c), leadID, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(lead))
}

// DeleteLead removes a lead
func (ctrl *TagController) DeleteLead(c *gin.Context) {
	leadID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.tagService.DeleteLead(c, middleware.GetUserRole(c), leadID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Lead deleted"}))
}
