package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/proske/proske-backend/internal/app/models"
)

// ProgressRepository handles per-lesson completion tracking
type ProgressRepository struct {
	db *pgxpool.Pool
}

// NewProgressRepository creates a new ProgressRepository
func NewProgressRepository(db *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Set upserts the (user, lesson) progress row. Completing stamps
// completed_at; un-completing clears it, keeping the pair consistent.
func (r *ProgressRepository) Set(ctx context.Context, userID, lessonID int64, completed bool) (*models.LessonProgress, error) {
	var p models.LessonProgress
	err := r.db.QueryRow(ctx, `
		INSERT INTO lesson_progress (user_id, lesson_id, completed, completed_at)
		VALUES ($1, $2, $3, CASE WHEN $3 THEN NOW() ELSE NULL END)
		ON CONFLICT (user_id, lesson_id) DO UPDATE SET
			completed = EXCLUDED.completed,
			completed_at = CASE WHEN EXCLUDED.completed THEN NOW() ELSE NULL END
		RETURNING id, user_id, lesson_id, completed, completed_at, created_at
	`, userID, lessonID, completed).Scan(
		&p.ID, &p.UserID, &p.LessonID, &p.Completed, &p.CompletedAt, &p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert lesson progress: %w", err)
	}
	return &p, nil
}

// Get returns the progress row for a (user, lesson) pair, nil when the
// lesson was never touched.
func (r *ProgressRepository) Get(ctx context.Context, userID, lessonID int64) (*models.LessonProgress, error) {
	var p models.LessonProgress
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, lesson_id, completed, completed_at, created_at
		FROM lesson_progress
		WHERE user_id = $1 AND lesson_id = $2
	`, userID, lessonID).Scan(
		&p.ID, &p.UserID, &p.LessonID, &p.Completed, &p.CompletedAt, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get lesson progress: %w", err)
	}
	return &p, nil
}

// ListByCourse returns the user's progress rows across one course
func (r *ProgressRepository) ListByCourse(ctx context.Context, userID, courseID int64) ([]*models.LessonProgress, error) {
	rows, err := r.db.Query(ctx, `
		SELECT lp.id, lp.user_id, lp.lesson_id, lp.completed, lp.completed_at, lp.created_at
		FROM lesson_progress lp
		JOIN course_lessons l ON l.id = lp.lesson_id
		JOIN course_modules m ON m.id = l.module_id
		WHERE lp.user_id = $1 AND m.course_id = $2
	`, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lesson progress: %w", err)
	}
	defer rows.Close()

	progress := []*models.LessonProgress{}
	for rows.Next() {
		var p models.LessonProgress
		if err := rows.Scan(&p.ID, &p.UserID, &p.LessonID, &p.Completed, &p.CompletedAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lesson progress: %w", err)
		}
		progress = append(progress, &p)
	}
	return progress, rows.Err()
}

// CountCourseCompletion returns total and completed lesson counts for a
// user over one course.
func (r *ProgressRepository) CountCourseCompletion(ctx context.Context, userID, courseID int64) (total, completed int, err error) {
	err = r.db.QueryRow(ctx, `
		SELECT COUNT(l.id),
			COUNT(lp.id) FILTER (WHERE lp.completed)
		FROM course_lessons l
		JOIN course_modules m ON m.id = l.module_id
		LEFT JOIN lesson_progress lp ON lp.lesson_id = l.id AND lp.user_id = $1
		WHERE m.course_id = $2
	`, userID, courseID).Scan(&total, &completed)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count course completion: %w", err)
	}
	return total, completed, nil
}
