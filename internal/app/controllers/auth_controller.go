package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/proske/proske-backend/internal/app/models/dto"
	"github.com/proske/proske-backend/internal/app/services"
	"github.com/proske/proske-backend/internal/middleware"
)

// AuthController handles authentication endpoints
type AuthController struct {
	authService services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register godoc
// @Summary Register a new account
// @Description Creates a student or teacher account and returns a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.APIResponse{data=dto.AuthResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	resp, err := ctrl.authService.Register(c, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse}
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	resp, err := ctrl.authService.Login(c, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// RefreshToken godoc
// @Summary Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse}
// @Failure 401 {object} dto.ErrorResponse "Token invalid, expired or revoked"
// @Router /auth/refresh [post]
func (ctrl *AuthController) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	tokens, err := ctrl.authService.RefreshToken(c, req.RefreshToken)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(tokens))
}

// Logout godoc
// @Summary Revoke all refresh tokens for the caller
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Router /auth/logout [post]
func (ctrl *AuthController) Logout(c *gin.Context) {
	if err := ctrl.authService.Logout(c, middleware.GetUserID(c)); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Logged out"}))
}

// ChangePassword godoc
// @Summary Change the caller's password
// @Description Verifies the current password and revokes all sessions on success
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Password change"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 401 {object} dto.ErrorResponse "Current password incorrect"
// @Router /auth/password [put]
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	err := ctrl.authService.ChangePassword(c, middleware.GetUserID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Password changed"}))
}
