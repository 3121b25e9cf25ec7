package models

import "time"

// EventType discriminates the two lifecycles that share the events table
type EventType string

const (
	EventTypeClass           EventType = "class"
	EventTypeInterview       EventType = "interview"
	EventTypeIndividualStudy EventType = "individual_study"
)

// ParticipantStatus is the RSVP state for group events
type ParticipantStatus string

const (
	ParticipantPending  ParticipantStatus = "pending"
	ParticipantAccepted ParticipantStatus = "accepted"
	ParticipantDeclined ParticipantStatus = "declined"
)

// StudyStatus is the lifecycle state for individual-study events
type StudyStatus string

const (
	StudyPending     StudyStatus = "pending"
	StudyCompleted   StudyStatus = "completed"
	StudyRescheduled StudyStatus = "rescheduled"
)

// Event is a scheduled occurrence in a community. Group events (class,
// interview) track RSVP through event_participants; individual studies
// track their own study_status columns and never touch participant rows.
type Event struct {
	ID              int64     `json:"id" db:"id"`
	CommunityID     int64     `json:"communityId" db:"community_id"`
	Title           string    `json:"title" db:"title"`
	Description     *string   `json:"description,omitempty" db:"description"`
	EventType       EventType `json:"eventType" db:"event_type"`
	EventDate       time.Time `json:"eventDate" db:"event_date"`
	DurationMinutes int       `json:"durationMinutes" db:"duration_minutes"`
	CreatedBy       int64     `json:"createdBy" db:"created_by"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`

	// Individual-study fields, null for group events
	StudyStatus *StudyStatus `json:"studyStatus,omitempty" db:"study_status"`
	ActualStart *time.Time   `json:"actualStart,omitempty" db:"actual_start"`
	ActualEnd   *time.Time   `json:"actualEnd,omitempty" db:"actual_end"`
	StudyNotes  *string      `json:"studyNotes,omitempty" db:"study_notes"`

	Participants []*EventParticipant `json:"participants,omitempty"`

	// MyStatus is the requesting user's RSVP, populated on listing queries
	MyStatus *ParticipantStatus `json:"myStatus,omitempty"`
}

// EventParticipant is one user's RSVP row for a group event
type EventParticipant struct {
	ID        int64             `json:"id" db:"id"`
	EventID   int64             `json:"eventId" db:"event_id"`
	UserID    int64             `json:"userId" db:"user_id"`
	Status    ParticipantStatus `json:"status" db:"status"`
	UpdatedAt time.Time         `json:"updatedAt" db:"updated_at"`

	User *User `json:"user,omitempty"`
}

// IsIndividualStudy reports whether the event follows the study lifecycle.
func (e *Event) IsIndividualStudy() bool {
	return e.EventType == EventTypeIndividualStudy
}

// IsPast reports whether the event date has passed. Past group events are
// read-only regardless of stored RSVP state.
func (e *Event) IsPast(now time.Time) bool {
	return e.EventDate.Before(now)
}

// ValidStudyCompletion checks the times required to complete a study session.
func ValidStudyCompletion(start, end time.Time) bool {
	return end.After(start)
}
