package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/proske/proske-backend/internal/app/models"
	"github.com/proske/proske-backend/internal/app/models/dto"
	"github.com/proske/proske-backend/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "userRole"
)

// JWTAuth validates the bearer token and stores the caller's identity
// in the gin context. Websocket upgrades may also pass the token as a
// query parameter since browsers cannot set headers on ws connections.
func JWTAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil || tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required")
			return
		}

		claims, err := jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, dto.ErrorCodeExpiredToken, "Token has expired")
				return
			}
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RoleRequired allows only the listed roles past this point
func RoleRequired(roles ...models.AppRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetUserRole(c)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeForbidden, "Insufficient permissions"),
		))
	}
}

// GetUserID returns the authenticated user's ID from the gin context
func GetUserID(c *gin.Context) int64 {
	id, _ := c.Get(ContextUserID)
	userID, _ := id.(int64)
	return userID
}

// GetUserRole returns the authenticated user's role from the gin context
func GetUserRole(c *gin.Context) models.AppRole {
	value, _ := c.Get(ContextRole)
	role, _ := value.(string)
	return models.AppRole(role)
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
		dto.NewErrorDetail(code, message),
	))
}
