package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proske/proske-backend/internal/app/models"
	"github.com/proske/proske-backend/internal/app/models/dto"
	"github.com/proske/proske-backend/internal/pkg/apperrors"
)

type fakeEventStore struct {
	events       map[int64]*models.Event
	participants map[int64][]*models.EventParticipant
	nextID       int64

	participantWrites int
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{
		events:       make(map[int64]*models.Event),
		participants: make(map[int64][]*models.EventParticipant),
		nextID:       1,
	}
}

func (f *fakeEventStore) Create(_ context.Context, event *models.Event, participantIDs []int64) (int64, error) {
	id := f.nextID
	f.nextID++
	stored := *event
	stored.ID = id
	f.events[id] = &stored

	for _, userID := range participantIDs {
		f.participants[id] = append(f.participants[id], &models.EventParticipant{
			ID:      f.nextID,
			EventID: id,
			UserID:  userID,
			Status:  models.ParticipantPending,
		})
		f.nextID++
	}
	return id, nil
}

func (f *fakeEventStore) GetByID(_ context.Context, id int64) (*models.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	return event, nil
}

func (f *fakeEventStore) List(_ context.Context, communityID, _ int64, _ string, _, _ *time.Time, _, _ int) ([]*models.Event, int64, error) {
	var out []*models.Event
	for _, event := range f.events {
		if event.CommunityID == communityID {
			out = append(out, event)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeEventStore) Update(_ context.Context, id int64, title, _ *string, eventDate *time.Time, _ *int) error {
	event, ok := f.events[id]
	if !ok {
		return apperrors.ErrEventNotFound
	}
	if title != nil {
		event.Title = *title
	}
	if eventDate != nil {
		event.EventDate = *eventDate
	}
	return nil
}

func (f *fakeEventStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.events[id]; !ok {
		return apperrors.ErrEventNotFound
	}
	delete(f.events, id)
	delete(f.participants, id)
	return nil
}

func (f *fakeEventStore) SetParticipantStatus(_ context.Context, eventID, userID int64, status models.ParticipantStatus) error {
	for _, p := range f.participants[eventID] {
		if p.UserID == userID {
			p.Status = status
			f.participantWrites++
			return nil
		}
	}
	return apperrors.ErrNotParticipant
}

func (f *fakeEventStore) GetParticipants(_ context.Context, eventID int64) ([]*models.EventParticipant, error) {
	return f.participants[eventID], nil
}

func (f *fakeEventStore) CompleteStudy(_ context.Context, eventID int64, actualStart, actualEnd time.Time, notes *string) error {
	event, ok := f.events[eventID]
	if !ok || !event.IsIndividualStudy() {
		return apperrors.ErrNotEventKind
	}
	completed := models.StudyCompleted
	event.StudyStatus = &completed
	event.ActualStart = &actualStart
	event.ActualEnd = &actualEnd
	if notes != nil {
		event.StudyNotes = notes
	}
	return nil
}

func (f *fakeEventStore) RescheduleStudy(_ context.Context, eventID int64, newDate time.Time, notes *string) error {
	event, ok := f.events[eventID]
	if !ok || !event.IsIndividualStudy() {
		return apperrors.ErrNotEventKind
	}
	rescheduled := models.StudyRescheduled
	event.StudyStatus = &rescheduled
	event.EventDate = newDate
	event.ActualStart = nil
	event.ActualEnd = nil
	if notes != nil {
		event.StudyNotes = notes
	}
	return nil
}

type fakeCommunityAccess struct{}

func (fakeCommunityAccess) RequireMember(context.Context, int64, int64) error { return nil }

func (fakeCommunityAccess) CanManage(context.Context, int64, int64, models.AppRole) error {
	return nil
}

func newEventServiceForTest(store *fakeEventStore) EventService {
	return NewEventService(store, fakeCommunityAccess{}, zerolog.Nop())
}

func createTestEvent(t *testing.T, svc EventService, eventType string, date time.Time, participantIDs []int64) *models.Event {
	t.Helper()
	event, err := svc.Create(context.Background(), 1, models.RoleTeacher, 100, &dto.CreateEventRequest{
		Title:          "Session",
		EventType:      eventType,
		EventDate:      date,
		ParticipantIDs: participantIDs,
	})
	require.NoError(t, err)
	return event
}

func TestRespondRequiresInvitedParticipant(t *testing.T) {
	store := newFakeEventStore()
	svc := newEventServiceForTest(store)

	event := createTestEvent(t, svc, "interview", time.Now().Add(24*time.Hour), []int64{5})

	_, err := svc.Respond(context.Background(), event.ID, 9, models.ParticipantAccepted)
	assert.ErrorIs(t, err, apperrors.ErrNotParticipant)

	require.Len(t, store.participants[event.ID], 1)
	assert.Equal(t, int64(5), store.participants[event.ID][0].UserID)
	assert.Equal(t, models.ParticipantPending, store.participants[event.ID][0].Status)
}

func TestRespondUpdatesSeededParticipant(t *testing.T) {
	store := newFakeEventStore()
	svc := newEventServiceForTest(store)

	event := createTestEvent(t, svc, "class", time.Now().Add(24*time.Hour), []int64{5, 6})

	updated, err := svc.Respond(context.Background(), event.ID, 5, models.ParticipantAccepted)
	require.NoError(t, err)
	require.NotNil(t, updated.MyStatus)
	assert.Equal(t, models.ParticipantAccepted, *updated.MyStatus)
	require.Len(t, store.participants[event.ID], 2)
}

func TestRespondRejectsIndividualStudy(t *testing.T) {
	svc := newEventServiceForTest(newFakeEventStore())

	study := createTestEvent(t, svc, "individual_study", time.Now().Add(24*time.Hour), nil)

	_, err := svc.Respond(context.Background(), study.ID, 5, models.ParticipantAccepted)
	assert.ErrorIs(t, err, apperrors.ErrNotEventKind)
}

func TestRespondRejectsPastEvent(t *testing.T) {
	svc := newEventServiceForTest(newFakeEventStore())

	event := createTestEvent(t, svc, "class", time.Now().Add(-time.Hour), []int64{5})

	_, err := svc.Respond(context.Background(), event.ID, 5, models.ParticipantAccepted)
	assert.ErrorIs(t, err, apperrors.ErrEventInPast)
}

func TestCompleteStudyLeavesParticipantRowsUntouched(t *testing.T) {
	store := newFakeEventStore()
	svc := newEventServiceForTest(store)

	class := createTestEvent(t, svc, "class", time.Now().Add(24*time.Hour), []int64{5, 6})
	study := createTestEvent(t, svc, "individual_study", time.Now().Add(24*time.Hour), nil)

	start := time.Now().Add(-2 * time.Hour)
	completed, err := svc.CompleteStudy(context.Background(), 1, models.RoleTeacher, study.ID, &dto.CompleteStudyRequest{
		ActualStart: start,
		ActualEnd:   start.Add(time.Hour),
	})
	require.NoError(t, err)
	require.NotNil(t, completed.StudyStatus)
	assert.Equal(t, models.StudyCompleted, *completed.StudyStatus)

	assert.Zero(t, store.participantWrites)
	require.Len(t, store.participants[class.ID], 2)
	for _, p := range store.participants[class.ID] {
		assert.Equal(t, models.ParticipantPending, p.Status)
	}
}

func TestRescheduleStudyLeavesParticipantRowsUntouched(t *testing.T) {
	store := newFakeEventStore()
	svc := newEventServiceForTest(store)

	class := createTestEvent(t, svc, "interview", time.Now().Add(24*time.Hour), []int64{5})
	study := createTestEvent(t, svc, "individual_study", time.Now().Add(24*time.Hour), nil)

	newDate := time.Now().Add(72 * time.Hour)
	rescheduled, err := svc.RescheduleStudy(context.Background(), 1, models.RoleTeacher, study.ID, &dto.RescheduleStudyRequest{
		NewDate: newDate,
	})
	require.NoError(t, err)
	require.NotNil(t, rescheduled.StudyStatus)
	assert.Equal(t, models.StudyRescheduled, *rescheduled.StudyStatus)
	assert.True(t, rescheduled.EventDate.Equal(newDate))

	assert.Zero(t, store.participantWrites)
	require.Len(t, store.participants[class.ID], 1)
	assert.Equal(t, models.ParticipantPending, store.participants[class.ID][0].Status)
}

func TestCompleteStudyRejectsSecondCompletion(t *testing.T) {
	svc := newEventServiceForTest(newFakeEventStore())

	study := createTestEvent(t, svc, "individual_study", time.Now().Add(24*time.Hour), nil)

	start := time.Now().Add(-2 * time.Hour)
	req := &dto.CompleteStudyRequest{ActualStart: start, ActualEnd: start.Add(time.Hour)}

	_, err := svc.CompleteStudy(context.Background(), 1, models.RoleTeacher, study.ID, req)
	require.NoError(t, err)

	_, err = svc.CompleteStudy(context.Background(), 1, models.RoleTeacher, study.ID, req)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatusChange)
}
