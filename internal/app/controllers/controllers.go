package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/proske/proske-backend/internal/app/models/dto"
	"github.com/proske/proske-backend/internal/app/services"
)

// Controllers bundles every HTTP controller for route registration
type Controllers struct {
	Auth         *AuthController
	Profile      *ProfileController
	Community    *CommunityController
	Group        *GroupController
	Message      *MessageController
	Course       *CourseController
	Event        *EventController
	Submission   *SubmissionController
	Subscription *SubscriptionController
	Payment      *PaymentController
	Tag          *TagController
}

// NewControllers wires the controllers over the service layer
func NewControllers(svcs *services.Services) *Controllers {
	return &Controllers{
		Auth:         NewAuthController(svcs.Auth),
		Profile:      NewProfileController(svcs.Profile),
		Community:    NewCommunityController(svcs.Community, svcs.Invite),
		Group:        NewGroupController(svcs.Group),
		Message:      NewMessageController(svcs.Chat),
		Course:       NewCourseController(svcs.Course, svcs.Progress),
		Event:        NewEventController(svcs.Event),
		Submission:   NewSubmissionController(svcs.Submission),
		Subscription: NewSubscriptionController(svcs.Subscription),
		Payment:      NewPaymentController(svcs.Payment),
		Tag:          NewTagController(svcs.Tag),
	}
}

// parseIDParam reads a positive integer path parameter, writing a 400
// response when it is malformed.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid "+name+" parameter"),
		))
		return 0, false
	}
	return id, true
}
