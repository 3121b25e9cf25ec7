package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/proske/proske-backend/internal/app/models"
	"github.com/proske/proske-backend/internal/pkg/apperrors"
)

// EventRepository handles events and their RSVP rows
type EventRepository struct {
	db  *pgxpool.Pool
	sql squirrel.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{
		db:  db,
		sql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const eventColumns = `e.id, e.community_id, e.title, e.description, e.event_type, e.event_date,
	e.duration_minutes, e.created_by, e.created_at, e.updated_at,
	e.study_status, e.actual_start, e.actual_end, e.study_notes`

// Create inserts an event and, for group events, its pending RSVP rows
func (r *EventRepository) Create(ctx context.Context, event *models.Event, participantIDs []int64) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO events
			(community_id, title, description, event_type, event_date, duration_minutes, created_by, study_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`,
		event.CommunityID, event.Title, event.Description, event.EventType,
		event.EventDate, event.DurationMinutes, event.CreatedBy, event.StudyStatus,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}

	for _, userID := range participantIDs {
		_, err = tx.Exec(ctx, `
			INSERT INTO event_participants (event_id, user_id, status)
			VALUES ($1, $2, 'pending')
			ON CONFLICT (event_id, user_id) DO NOTHING
		`, id, userID)
		if err != nil {
			return 0, fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

// GetByID retrieves an event without participants
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e WHERE e.id = $1`

	var e models.Event
	err := r.db.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.CommunityID, &e.Title, &e.Description, &e.EventType, &e.EventDate,
		&e.DurationMinutes, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
		&e.StudyStatus, &e.ActualStart, &e.ActualEnd, &e.StudyNotes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &e, nil
}

// List returns a community's events with the viewer's RSVP joined in
func (r *EventRepository) List(ctx context.Context, communityID, viewerID int64, eventType string, from, to *time.Time, page, pageSize int) ([]*models.Event, int64, error) {
	builder := r.sql.Select(
		"e.id", "e.community_id", "e.title", "e.description", "e.event_type", "e.event_date",
		"e.duration_minutes", "e.created_by", "e.created_at", "e.updated_at",
		"e.study_status", "e.actual_start", "e.actual_end", "e.study_notes",
		"ep.status",
		"COUNT(*) OVER() AS total_count",
	).
		From("events e").
		LeftJoin("event_participants ep ON ep.event_id = e.id AND ep.user_id = ?", viewerID).
		Where(squirrel.Eq{"e.community_id": communityID})

	if eventType != "" {
		builder = builder.Where(squirrel.Eq{"e.event_type": eventType})
	}
	if from != nil {
		builder = builder.Where(squirrel.GtOrEq{"e.event_date": *from})
	}
	if to != nil {
		builder = builder.Where(squirrel.LtOrEq{"e.event_date": *to})
	}

	offset := (page - 1) * pageSize
	builder = builder.OrderBy("e.event_date", "e.id").Limit(uint64(pageSize)).Offset(uint64(offset))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []*models.Event{}
	var total int64
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(
			&e.ID, &e.CommunityID, &e.Title, &e.Description, &e.EventType, &e.EventDate,
			&e.DurationMinutes, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
			&e.StudyStatus, &e.ActualStart, &e.ActualEnd, &e.StudyNotes,
			&e.MyStatus, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, &e)
	}
	return events, total, rows.Err()
}

// Update applies a partial edit to scheduling fields
func (r *EventRepository) Update(ctx context.Context, id int64, title, description *string, eventDate *time.Time, durationMinutes *int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE events SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			event_date = COALESCE($4, event_date),
			duration_minutes = COALESCE($5, duration_minutes),
			updated_at = NOW()
		WHERE id = $1
	`, id, title, description, eventDate, durationMinutes)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// Delete removes an event; participant rows cascade
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// SetParticipantStatus updates the caller's RSVP. Only users invited at
// creation have a row to update; everyone else is rejected.
func (r *EventRepository) SetParticipantStatus(ctx context.Context, eventID, userID int64, status models.ParticipantStatus) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE event_participants SET
			status = $3,
			updated_at = NOW()
		WHERE event_id = $1 AND user_id = $2
	`, eventID, userID, status)
	if err != nil {
		return fmt.Errorf("failed to set participant status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotParticipant
	}
	return nil
}

// GetParticipants lists an event's RSVP rows with profile names
func (r *EventRepository) GetParticipants(ctx context.Context, eventID int64) ([]*models.EventParticipant, error) {
	rows, err := r.db.Query(ctx, `
		SELECT ep.id, ep.event_id, ep.user_id, ep.status, ep.updated_at,
			p.full_name, p.avatar_url
		FROM event_participants ep
		LEFT JOIN profiles p ON p.user_id = ep.user_id
		WHERE ep.event_id = $1
		ORDER BY ep.id
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	participants := []*models.EventParticipant{}
	for rows.Next() {
		var ep models.EventParticipant
		var fullName *string
		var avatarURL *string
		if err := rows.Scan(&ep.ID, &ep.EventID, &ep.UserID, &ep.Status, &ep.UpdatedAt, &fullName, &avatarURL); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		if fullName != nil {
			ep.User = &models.User{
				ID:      ep.UserID,
				Profile: &models.Profile{UserID: ep.UserID, FullName: *fullName, AvatarURL: avatarURL},
			}
		}
		participants = append(participants, &ep)
	}
	return participants, rows.Err()
}

// CompleteStudy closes an individual study in one statement. The guard
// on event_type keeps group events out of the study lifecycle.
func (r *EventRepository) CompleteStudy(ctx context.Context, eventID int64, actualStart, actualEnd time.Time, notes *string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE events SET
			study_status = 'completed',
			actual_start = $2,
			actual_end = $3,
			study_notes = COALESCE($4, study_notes),
			updated_at = NOW()
		WHERE id = $1 AND event_type = 'individual_study'
	`, eventID, actualStart, actualEnd, notes)
	if err != nil {
		return fmt.Errorf("failed to complete study: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotEventKind
	}
	return nil
}

// RescheduleStudy moves an individual study to a new date and resets
// its completion fields.
func (r *EventRepository) RescheduleStudy(ctx context.Context, eventID int64, newDate time.Time, notes *string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE events SET
			study_status = 'rescheduled',
			event_date = $2,
			actual_start = NULL,
			actual_end = NULL,
			study_notes = COALESCE($3, study_notes),
			updated_at = NOW()
		WHERE id = $1 AND event_type = 'individual_study'
	`, eventID, newDate, notes)
	if err != nil {
		return fmt.Errorf("failed to reschedule study: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotEventKind
	}
	return nil
}
