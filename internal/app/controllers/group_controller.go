package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/proske/proske-backend/internal/app/models/dto"
	"github.com/proske/proske-backend/internal/app/services"
	"github.com/proske/proske-backend/internal/middleware"
)

// GroupController handles conversation group endpoints
type GroupController struct {
	groupService services.GroupService
}

// NewGroupController creates a new GroupController
func NewGroupController(groupService services.GroupService) *GroupController {
	return &GroupController{groupService: groupService}
}

// Create godoc
// @Summary Create a conversation group in a community
// @Tags groups
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Community ID"
// @Param request body dto.CreateGroupRequest true "Group details"
// @Success 201 {object} dto.APIResponse{data=models.Group}
// @Router /communities/{id}/groups [post]
func (ctrl *GroupController) Create(c *gin.Context) {
	communityID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	group, err := ctrl.groupService.Create(c, middleware.GetUserID(c), middleware.GetUserRole(c), communityID, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(group))
}

// List godoc
// @Summary List a community's groups visible to the caller
// @Description Hidden groups are only listed for their members and community managers
// @Tags groups
// @Security BearerAuth
// @Produce json
// @Param id path int true "Community ID"
// @Success 200 {object} dto.APIResponse
// @Router /communities/{id}/groups [get]
func (ctrl *GroupController) List(c *gin.Context) {
	communityID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	groups, err := ctrl.groupService.List(c, communityID, middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(groups))
}

// Get returns one group
func (ctrl *GroupController) Get(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	group, err := ctrl.groupService.GetByID(c, groupID, middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(group))
}

// Update edits a group in a community the caller manages
func (ctrl *GroupController) Update(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	group, err := ctrl.groupService.Update(c, middleware.GetUserID(c), middleware.GetUserRole(c), groupID, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(group))
}

// Delete removes a group
func (ctrl *GroupController) Delete(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.groupService.Delete(c, middleware.GetUserID(c), middleware.GetUserRole(c), groupID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Group deleted"}))
}

// AddMember adds a community member to the group
func (ctrl *GroupController) AddMember(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.AddGroupMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	err := ctrl.groupService.AddMember(c, middleware.GetUserID(c), middleware.GetUserRole(c), groupID, req.UserID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Member added"}))
}

// RemoveMember removes a user from the group
func (ctrl *GroupController) RemoveMember(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	err := ctrl.groupService.RemoveMember(c, middleware.GetUserID(c), middleware.GetUserRole(c), groupID, userID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Member removed"}))
}

// GetMembers lists the group's members
func (ctrl *GroupController) GetMembers(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	members, err := ctrl.groupService.GetMembers(c, groupID, middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(members))
}
