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

// EventController handles scheduled event endpoints
type EventController struct {
	eventService services.EventService
}

// NewEventController creates a new EventController
func NewEventController(eventService services.EventService) *EventController {
	return &EventController{eventService: eventService}
}

// Create godoc
// @Summary Schedule an event in a community
// @Description Group events (class, interview) invite participants with a pending RSVP. Individual studies start in the pending study state.
// @Tags events
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Community ID"
// @Param request body dto.CreateEventRequest true "Event details"
// @Success 201 {object} dto.APIResponse{data=models.Event}
// @Router /communities/{id}/events [post]
func (ctrl *EventController) Create(c *gin.Context) {
	communityID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	event, err := ctrl.eventService.Create(c, middleware.GetUserID(c), middleware.GetUserRole(c), communityID, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(event))
}

// List godoc
// @Summary List a community's events
// @Tags events
// @Security BearerAuth
// @Produce json
// @Param id path int true "Community ID"
// @Param eventType query string false "Filter by type" Enums(class, interview, individual_study)
// @Param from query string false "Earliest event date (YYYY-MM-DD)"
// @Param to query string false "Latest event date (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse
// @Router /communities/{id}/events [get]
func (ctrl *EventController) List(c *gin.Context) {
	communityID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var filter dto.EventFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	filter.Page, filter.PageSize = helpers.ParsePaginationParams(c)

	events, total, err := ctrl.eventService.List(c, communityID, middleware.GetUserID(c), &filter)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"events":     events,
		"pagination": helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
	}))
}

// Get returns one event with the caller's RSVP status
func (ctrl *EventController) Get(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	event, err := ctrl.eventService.Get(c, eventID, middleware.GetUserID(c))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(event))
}

// Update edits an event
func (ctrl *EventController) Update(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	event, err := ctrl.eventService.Update(c, middleware.GetUserID(c), middleware.GetUserRole(c), eventID, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(event))
}

// Delete removes an event
func (ctrl *EventController) Delete(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.eventService.Delete(c, middleware.GetUserID(c), middleware.GetUserRole(c), eventID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Event deleted"}))
}

// Respond godoc
// @Summary RSVP to a group event
// @Description Only class and interview events accept RSVPs, and only before the event date
// @Tags events
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param request body dto.RespondEventRequest true "RSVP status"
// @Success 200 {object} dto.APIResponse{data=models.Event}
// @Failure 400 {object} dto.ErrorResponse "Event is in the past or is an individual study"
// @Router /events/{id}/respond [post]
func (ctrl *EventController) Respond(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.RespondEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	event, err := ctrl.eventService.Respond(c, eventID, middleware.GetUserID(c), models.ParticipantStatus(req.Status))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(event))
}

// CompleteStudy godoc
// @Summary Complete an individual study with actual session times
// @Tags events
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param request body dto.CompleteStudyRequest true "Actual times and notes"
// @Success 200 {object} dto.APIResponse{data=models.Event}
// @Failure 400 {object} dto.ErrorResponse "End time not after start time, or study already completed"
// @Router /events/{id}/complete [post]
func (ctrl *EventController) CompleteStudy(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.CompleteStudyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	event, err := ctrl.eventService.CompleteStudy(c, middleware.GetUserID(c), middleware.GetUserRole(c), eventID, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(event))
}

// RescheduleStudy moves an individual study to a future date
func (ctrl *EventController) RescheduleStudy(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.RescheduleStudyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	event, err := ctrl.eventService.RescheduleStudy(c, middleware.GetUserID(c), middleware.GetUserRole(c), eventID, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(event))
}
