package dto

import "time"

// CreateEventRequest schedules an event in a community
type CreateEventRequest struct {
	Title           string    `json:"title" binding:"required,min=2,max=200"`
	Description     *string   `json:"description" binding:"omitempty,max=2000"`
	EventType       string    `json:"eventType" binding:"required,oneof=class interview individual_study"`
	EventDate       time.Time `json:"eventDate" binding:"required"`
	DurationMinutes int       `json:"durationMinutes" binding:"omitempty,min=5,max=1440"`

	// ParticipantIDs invites the listed users with a pending RSVP.
	// Ignored for individual studies.
	ParticipantIDs []int64 `json:"participantIds" binding:"omitempty,dive,min=1"`
}

// UpdateEventRequest is the payload for event edits
type UpdateEventRequest struct {
	Title           *string    `json:"title" binding:"omitempty,min=2,max=200"`
	Description     *string    `json:"description" binding:"omitempty,max=2000"`
	EventDate       *time.Time `json:"eventDate"`
	DurationMinutes *int       `json:"durationMinutes" binding:"omitempty,min=5,max=1440"`
}

// RespondEventRequest records the caller's RSVP on a group event
type RespondEventRequest struct {
	Status string `json:"status" binding:"required,oneof=accepted declined"`
}

// CompleteStudyRequest closes an individual study with actual times
type CompleteStudyRequest struct {
	ActualStart time.Time `json:"actualStart" binding:"required"`
	ActualEnd   time.Time `json:"actualEnd" binding:"required"`
	Notes       *string   `json:"notes" binding:"omitempty,max=2000"`
}

// RescheduleStudyRequest moves an individual study to a new date
type RescheduleStudyRequest struct {
	NewDate time.Time `json:"newDate" binding:"required"`
	Notes   *string   `json:"notes" binding:"omitempty,max=2000"`
}

// EventFilterRequest carries list filters for events
type EventFilterRequest struct {
	EventType string     `form:"eventType" binding:"omitempty,oneof=class interview individual_study"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"pageSize" binding:"omitempty,min=1,max=100"`
}
