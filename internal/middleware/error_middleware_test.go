package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proske/proske-backend/internal/pkg/apperrors"
)

func handleError(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/test", nil)

	HandleAPIError(c, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func errorCode(body map[string]interface{}) string {
	errObj, _ := body["error"].(map[string]interface{})
	code, _ := errObj["code"].(string)
	return code
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{"expired token", apperrors.ErrTokenExpired, http.StatusUnauthorized},
		{"permission denied", apperrors.ErrPermissionDenied, http.StatusForbidden},
		{"not group member", apperrors.ErrNotGroupMember, http.StatusForbidden},
		{"community not found", apperrors.ErrCommunityNotFound, http.StatusNotFound},
		{"plan not found", apperrors.ErrPlanNotFound, http.StatusNotFound},
		{"email taken", apperrors.ErrEmailAlreadyExists, http.StatusConflict},
		{"already reviewed", apperrors.ErrAlreadyReviewed, http.StatusConflict},
		{"event in past", apperrors.ErrEventInPast, http.StatusBadRequest},
		{"invalid status change", apperrors.ErrInvalidStatusChange, http.StatusBadRequest},
		{"invite expired", apperrors.ErrInviteExpired, http.StatusBadRequest},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, _ := handleError(t, tc.err)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestHandleAPIErrorUnwrapsCustomErrors(t *testing.T) {
	w, body := handleError(t, apperrors.NewBadRequestError("plan is not active"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	errObj, ok := body["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "plan is not active", errObj["message"])
}

func TestHandleAPIErrorHidesInternalDetails(t *testing.T) {
	w, body := handleError(t, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	errObj, ok := body["error"].(map[string]interface{})
	require.True(t, ok)
	assert.NotContains(t, errObj["message"], "connection refused")
}

func TestHandleAPIErrorSetsErrorCode(t *testing.T) {
	_, body := handleError(t, apperrors.ErrUserNotFound)
	assert.NotEmpty(t, errorCode(body))
}
