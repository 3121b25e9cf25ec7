package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/proske/proske-backend/internal/app/models"
	"github.com/proske/proske-backend/internal/app/models/dto"
	"github.com/proske/proske-backend/internal/pkg/apperrors"
)

// EventStore is the persistence surface the event service needs.
// *repositories.EventRepository satisfies it.
type EventStore interface {
	Create(ctx context.Context, event *models.Event, participantIDs []int64) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	List(ctx context.Context, communityID, viewerID int64, eventType string, from, to *time.Time, page, pageSize int) ([]*models.Event, int64, error)
	Update(ctx context.Context, id int64, title, description *string, eventDate *time.Time, durationMinutes *int) error
	Delete(ctx context.Context, id int64) error

	SetParticipantStatus(ctx context.Context, eventID, userID int64, status models.ParticipantStatus) error
	GetParticipants(ctx context.Context, eventID int64) ([]*models.EventParticipant, error)
	CompleteStudy(ctx context.Context, eventID int64, actualStart, actualEnd time.Time, notes *string) error
	RescheduleStudy(ctx context.Context, eventID int64, newDate time.Time, notes *string) error
}

// CommunityAccess is the slice of the community service the event
// operations use for membership and management checks.
type CommunityAccess interface {
	RequireMember(ctx context.Context, communityID, userID int64) error
	CanManage(ctx context.Context, communityID, callerID int64, callerRole models.AppRole) error
}

// EventService handles the two event lifecycles. Group events (class,
// interview) carry RSVP rows; individual studies carry their own
// study-status fields and ignore RSVP entirely.
type EventService interface {
	Create(ctx context.Context, callerID int64, callerRole models.AppRole, communityID int64, req *dto.CreateEventRequest) (*models.Event, error)
	Get(ctx context.Context, eventID, callerID int64) (*models.Event, error)
	List(ctx context.Context, communityID, callerID int64, filter *dto.EventFilterRequest) ([]*models.Event, int64, error)
	Update(ctx context.Context, callerID int64, callerRole models.AppRole, eventID int64, req *dto.UpdateEventRequest) (*models.Event, error)
	Delete(ctx context.Context, callerID int64, callerRole models.AppRole, eventID int64) error

	Respond(ctx context.Context, eventID, callerID int64, status models.ParticipantStatus) (*models.Event, error)
	CompleteStudy(ctx context.Context, callerID int64, callerRole models.AppRole, eventID int64, req *dto.CompleteStudyRequest) (*models.Event, error)
	RescheduleStudy(ctx context.Context, callerID int64, callerRole models.AppRole, eventID int64, req *dto.RescheduleStudyRequest) (*models.Event, error)
}

type eventService struct {
	eventRepo        EventStore
	communityService CommunityAccess
	logger           zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(eventRepo EventStore, communityService CommunityAccess, logger zerolog.Logger) EventService {
	return &eventService{
		eventRepo:        eventRepo,
		communityService: communityService,
		logger:           logger,
	}
}

// Create schedules an event. Individual studies start in the pending
// study state; group events invite the listed participants as pending.
func (s *eventService) Create(ctx context.Context, callerID int64, callerRole models.AppRole, communityID int64, req *dto.CreateEventRequest) (*models.Event, error) {
	if err := s.communityService.CanManage(ctx, communityID, callerID, callerRole); err != nil {
		return nil, err
	}

	eventType := models.EventType(req.EventType)
	duration := req.DurationMinutes
	if duration == 0 {
		duration = 60
	}

	event := &models.Event{
		CommunityID:     communityID,
		Title:           req.Title,
		Description:     req.Description,
		EventType:       eventType,
		EventDate:       req.EventDate,
		DurationMinutes: duration,
		CreatedBy:       callerID,
	}

	participantIDs := req.ParticipantIDs
	if event.IsIndividualStudy() {
		pending := models.StudyPending
		event.StudyStatus = &pending
		participantIDs = nil
	}

	id, err := s.eventRepo.Create(ctx, event, participantIDs)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("eventID", id).
		Int64("communityID", communityID).
		Str("eventType", string(eventType)).
		Msg("Event created")
	return s.Get(ctx, id, callerID)
}

func (s *eventService) Get(ctx context.Context, eventID, callerID int64) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.communityService.RequireMember(ctx, event.CommunityID, callerID); err != nil {
		return nil, err
	}

	if !event.IsIndividualStudy() {
		participants, err := s.eventRepo.GetParticipants(ctx, eventID)
		if err != nil {
			return nil, err
		}
		event.Participants = participants
		for _, p := range participants {
			if p.UserID == callerID {
				status := p.Status
				event.MyStatus = &status
				break
			}
		}
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context, communityID, callerID int64, filter *dto.EventFilterRequest) ([]*models.Event, int64, error) {
	if err := s.communityService.RequireMember(ctx, communityID, callerID); err != nil {
		return nil, 0, err
	}
	return s.eventRepo.List(ctx, communityID, callerID, filter.EventType, filter.From, filter.To, filter.Page, filter.PageSize)
}

func (s *eventService) Update(ctx context.Context, callerID int64, callerRole models.AppRole, eventID int64, req *dto.UpdateEventRequest) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.communityService.CanManage(ctx, event.CommunityID, callerID, callerRole); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, eventID, req.Title, req.Description, req.EventDate, req.DurationMinutes); err != nil {
		return nil, err
	}
	return s.Get(ctx, eventID, callerID)
}

func (s *eventService) Delete(ctx context.Context, callerID int64, callerRole models.AppRole, eventID int64) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if err := s.communityService.CanManage(ctx, event.CommunityID, callerID, callerRole); err != nil {
		return err
	}
	return s.eventRepo.Delete(ctx, eventID)
}

// Respond records the caller's RSVP. Only group events accept RSVPs,
// only from users invited at creation, and only while the event is
// still in the future.
func (s *eventService) Respond(ctx context.Context, eventID, callerID int64, status models.ParticipantStatus) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.IsIndividualStudy() {
		return nil, apperrors.ErrNotEventKind
	}
	if err := s.communityService.RequireMember(ctx, event.CommunityID, callerID); err != nil {
		return nil, err
	}
	if event.IsPast(time.Now()) {
		return nil, apperrors.ErrEventInPast
	}

	if err := s.eventRepo.SetParticipantStatus(ctx, eventID, callerID, status); err != nil {
		return nil, err
	}
	return s.Get(ctx, eventID, callerID)
}

// CompleteStudy closes an individual study with the actual session
// times. Rescheduled studies can still be completed; only a second
// completion is rejected.
func (s *eventService) CompleteStudy(ctx context.Context, callerID int64, callerRole models.AppRole, eventID int64, req *dto.CompleteStudyRequest) (*models.Event, error) {
	event, err := s.requireStudy(ctx, callerID, callerRole, eventID)
	if err != nil {
		return nil, err
	}
	if event.StudyStatus != nil && *event.StudyStatus == models.StudyCompleted {
		return nil, apperrors.ErrInvalidStatusChange
	}
	if !models.ValidStudyCompletion(req.ActualStart, req.ActualEnd) {
		return nil, apperrors.ErrInvalidStudyTimes
	}

	if err := s.eventRepo.CompleteStudy(ctx, eventID, req.ActualStart, req.ActualEnd, req.Notes); err != nil {
		return nil, err
	}
	return s.Get(ctx, eventID, callerID)
}

// RescheduleStudy moves a not-yet-completed study to a future date
func (s *eventService) RescheduleStudy(ctx context.Context, callerID int64, callerRole models.AppRole, eventID int64, req *dto.RescheduleStudyRequest) (*models.Event, error) {
	event, err := s.requireStudy(ctx, callerID, callerRole, eventID)
	if err != nil {
		return nil, err
	}
	if event.StudyStatus != nil && *event.StudyStatus == models.StudyCompleted {
		return nil, apperrors.ErrInvalidStatusChange
	}
	if !req.NewDate.After(time.Now()) {
		return nil, apperrors.NewBadRequestError("new date must be in the future")
	}

	if err := s.eventRepo.RescheduleStudy(ctx, eventID, req.NewDate, req.Notes); err != nil {
		return nil, err
	}
	return s.Get(ctx, eventID, callerID)
}

func (s *eventService) requireStudy(ctx context.Context, callerID int64, callerRole models.AppRole, eventID int64) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsIndividualStudy() {
		return nil, apperrors.ErrNotEventKind
	}
	if err := s.communityService.CanManage(ctx, event.CommunityID, callerID, callerRole); err != nil {
		return nil, err
	}
	return event, nil
}
