package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/proske/proske-backend/internal/app/models"
	"github.com/proske/proske-backend/internal/pkg/apperrors"
)

// SubmissionRepository handles task submissions
type SubmissionRepository struct {
	db  *pgxpool.Pool
	sql squirrel.StatementBuilderType
}

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(db *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{
		db:  db,
		sql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a pending submission
func (r *SubmissionRepository) Create(ctx context.Context, s *models.Submission) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO submissions (community_id, user_id, title, video_url, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING id
	`, s.CommunityID, s.UserID, s.Title, s.VideoURL).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert submission: %w", err)
	}
	return id, nil
}

// GetByID retrieves a submission
func (r *SubmissionRepository) GetByID(ctx context.Context, id int64) (*models.Submission, error) {
	var s models.Submission
	err := r.db.QueryRow(ctx, `
		SELECT id, community_id, user_id, title, video_url, status, grade,
			teacher_comments, reviewed_by, reviewed_at, created_at
		FROM submissions
		WHERE id = $1
	`, id).Scan(
		&s.ID, &s.CommunityID, &s.UserID, &s.Title, &s.VideoURL, &s.Status,
		&s.Grade, &s.TeacherComments, &s.ReviewedBy, &s.ReviewedAt, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return &s, nil
}

// List returns a community's submissions with optional status and user filters
func (r *SubmissionRepository) List(ctx context.Context, communityID int64, status string, userID *int64, page, pageSize int) ([]*models.Submission, int64, error) {
	builder := r.sql.Select(
		"s.id", "s.community_id", "s.user_id", "s.title", "s.video_url", "s.status",
		"s.grade", "s.teacher_comments", "s.reviewed_by", "s.reviewed_at", "s.created_at",
		"p.full_name",
		"COUNT(*) OVER() AS total_count",
	).
		From("submissions s").
		LeftJoin("profiles p ON p.user_id = s.user_id").
		Where(squirrel.Eq{"s.community_id": communityID})

	if status != "" {
		builder = builder.Where(squirrel.Eq{"s.status": status})
	}
	if userID != nil {
		builder = builder.Where(squirrel.Eq{"s.user_id": *userID})
	}

	offset := (page - 1) * pageSize
	builder = builder.OrderBy("s.id DESC").Limit(uint64(pageSize)).Offset(uint64(offset))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	submissions := []*models.Submission{}
	var total int64
	for rows.Next() {
		var s models.Submission
		var fullName *string
		if err := rows.Scan(
			&s.ID, &s.CommunityID, &s.UserID, &s.Title, &s.VideoURL, &s.Status,
			&s.Grade, &s.TeacherComments, &s.ReviewedBy, &s.ReviewedAt, &s.CreatedAt,
			&fullName, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan submission: %w", err)
		}
		if fullName != nil {
			s.User = &models.User{
				ID:      s.UserID,
				Profile: &models.Profile{UserID: s.UserID, FullName: *fullName},
			}
		}
		submissions = append(submissions, &s)
	}
	return submissions, total, rows.Err()
}

// Review writes all review fields in one atomic update and only on a
// pending row. Reviewing twice leaves the row untouched and reports
// ErrAlreadyReviewed.
func (r *SubmissionRepository) Review(ctx context.Context, id, reviewerID int64, grade *int, comments *string) (*models.Submission, error) {
	var s models.Submission
	err := r.db.QueryRow(ctx, `
		UPDATE submissions SET
			status = 'reviewed',
			grade = $3,
			teacher_comments = $4,
			reviewed_by = $2,
			reviewed_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING id, community_id, user_id, title, video_url, status, grade,
			teacher_comments, reviewed_by, reviewed_at, created_at
	`, id, reviewerID, grade, comments).Scan(
		&s.ID, &s.CommunityID, &s.UserID, &s.Title, &s.VideoURL, &s.Status,
		&s.Grade, &s.TeacherComments, &s.ReviewedBy, &s.ReviewedAt, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either missing or already reviewed; look it up to tell apart
			existing, getErr := r.GetByID(ctx, id)
			if getErr != nil {
				return nil, getErr
			}
			if existing.Status == models.SubmissionReviewed {
				return nil, apperrors.ErrAlreadyReviewed
			}
			return nil, apperrors.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to review submission: %w", err)
	}
	return &s, nil
}

// Delete removes a submission
func (r *SubmissionRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSubmissionNotFound
	}
	return nil
}
