package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/proske/proske-backend/internal/app/models/dto"
	"github.com/proske/proske-backend/internal/pkg/apperrors"
)

// HandleAPIError maps application errors to HTTP responses. Controllers
// funnel every service error through here so status codes and the error
// envelope stay consistent.
func HandleAPIError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")
		if len(validationErrs) > 0 {
			detail = detail.WithField(validationErrs[0].Field())
		}
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	status, detail := classifyError(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
	}
	c.JSON(status, dto.NewErrorResponse(detail))
}

func classifyError(err error) (int, *dto.ErrorDetail) {
	switch {
	// Authentication
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid email or password")
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token has expired")
	case errors.Is(err, apperrors.ErrTokenInvalid),
		errors.Is(err, apperrors.ErrTokenNotFound),
		errors.Is(err, apperrors.ErrTokenRevoked):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrAccountDisabled):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, "Account is disabled")

	// Authorization
	case errors.Is(err, apperrors.ErrPermissionDenied),
		errors.Is(err, apperrors.ErrNotCommunityOwner):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, err.Error())

	// Not found
	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrCommunityNotFound),
		errors.Is(err, apperrors.ErrGroupNotFound),
		errors.Is(err, apperrors.ErrCourseNotFound),
		errors.Is(err, apperrors.ErrModuleNotFound),
		errors.Is(err, apperrors.ErrLessonNotFound),
		errors.Is(err, apperrors.ErrEventNotFound),
		errors.Is(err, apperrors.ErrSubmissionNotFound),
		errors.Is(err, apperrors.ErrPlanNotFound),
		errors.Is(err, apperrors.ErrSubscriptionNotFound),
		errors.Is(err, apperrors.ErrPaymentNotFound),
		errors.Is(err, apperrors.ErrInviteNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error())

	// Conflicts
	case errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrResourceAlreadyExists),
		errors.Is(err, apperrors.ErrAlreadyMember),
		errors.Is(err, apperrors.ErrAlreadyReviewed),
		errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error())

	// Domain rule violations
	case errors.Is(err, apperrors.ErrNotGroupMember),
		errors.Is(err, apperrors.ErrMessagingOff),
		errors.Is(err, apperrors.ErrNotParticipant):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, err.Error())
	case errors.Is(err, apperrors.ErrEventInPast),
		errors.Is(err, apperrors.ErrNotEventKind),
		errors.Is(err, apperrors.ErrInvalidStudyTimes),
		errors.Is(err, apperrors.ErrInvalidStatusChange),
		errors.Is(err, apperrors.ErrInviteExpired),
		errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, err.Error())

	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "An unexpected error occurred")
	}
}
