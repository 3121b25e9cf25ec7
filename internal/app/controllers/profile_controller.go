package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/proske/proske-backend/internal/app/models/dto"
	"github.com/proske/proske-backend/internal/app/services"
	"github.com/proske/proske-backend/internal/middleware"
)

// ProfileController handles the caller's own account endpoints
type ProfileController struct {
	profileService services.ProfileService
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService services.ProfileService) *ProfileController {
	return &ProfileController{profileService: profileService}
}

// GetMe godoc
// @Summary Get the caller's account and profile
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Router /profile/me [get]
func (ctrl *ProfileController) GetMe(c *gin.Context) {
	user, err := ctrl.profileService.GetUser(c, middleware.GetUserID(c))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(user))
}

// UpdateMe godoc
// @Summary Update the caller's profile
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Router /profile/me [put]
func (ctrl *ProfileController) UpdateMe(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	user, err := ctrl.profileService.UpdateProfile(c, middleware.GetUserID(c), &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(user))
}

// UploadAvatar godoc
// @Summary Upload a profile picture
// @Tags profile
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param avatar formData file true "Image file"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Router /profile/me/avatar [post]
func (ctrl *ProfileController) UploadAvatar(c *gin.Context) {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Avatar file is required").WithField("avatar"),
		))
		return
	}

	user, err := ctrl.profileService.UploadAvatar(c, middleware.GetUserID(c), fileHeader)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(user))
}

// DeleteAvatar removes the caller's profile picture
func (ctrl *ProfileController) DeleteAvatar(c *gin.Context) {
	if err := ctrl.profileService.DeleteAvatar(c, middleware.GetUserID(c)); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Avatar removed"}))
}
