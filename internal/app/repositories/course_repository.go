package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/proske/proske-backend/internal/app/models"
	"github.com/proske/proske-backend/internal/pkg/apperrors"
)

// CourseRepository handles the course/module/lesson hierarchy
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{db: db}
}

// CreateCourse inserts a course
func (r *CourseRepository) CreateCourse(ctx context.Context, course *models.Course) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO courses (community_id, title, description, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, course.CommunityID, course.Title, course.Description, course.CreatedBy).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert course: %w", err)
	}
	return id, nil
}

// GetCourseByID retrieves a course without its content tree
func (r *CourseRepository) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	var c models.Course
	err := r.db.QueryRow(ctx, `
		SELECT id, community_id, title, description, created_by, created_at, updated_at
		FROM courses
		WHERE id = $1
	`, id).Scan(&c.ID, &c.CommunityID, &c.Title, &c.Description, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return &c, nil
}

// GetCourseWithContent retrieves a course with modules and lessons in order
func (r *CourseRepository) GetCourseWithContent(ctx context.Context, id int64) (*models.Course, error) {
	course, err := r.GetCourseByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, course_id, title, order_index, created_at
		FROM course_modules
		WHERE course_id = $1
		ORDER BY order_index, id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}
	defer rows.Close()

	course.Modules = []*models.CourseModule{}
	moduleByID := map[int64]*models.CourseModule{}
	for rows.Next() {
		var m models.CourseModule
		if err := rows.Scan(&m.ID, &m.CourseID, &m.Title, &m.OrderIndex, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan module: %w", err)
		}
		m.Lessons = []*models.CourseLesson{}
		course.Modules = append(course.Modules, &m)
		moduleByID[m.ID] = &m
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lessonRows, err := r.db.Query(ctx, `
		SELECT l.id, l.module_id, l.title, l.content, l.video_url, l.order_index, l.created_at
		FROM course_lessons l
		JOIN course_modules m ON m.id = l.module_id
		WHERE m.course_id = $1
		ORDER BY l.order_index, l.id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	defer lessonRows.Close()

	for lessonRows.Next() {
		var l models.CourseLesson
		if err := lessonRows.Scan(&l.ID, &l.ModuleID, &l.Title, &l.Content, &l.VideoURL, &l.OrderIndex, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		if module, ok := moduleByID[l.ModuleID]; ok {
			module.Lessons = append(module.Lessons, &l)
		}
	}
	return course, lessonRows.Err()
}

// ListCoursesByCommunity lists a community's courses
func (r *CourseRepository) ListCoursesByCommunity(ctx context.Context, communityID int64) ([]*models.Course, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, community_id, title, description, created_by, created_at, updated_at
		FROM courses
		WHERE community_id = $1
		ORDER BY id
	`, communityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.CommunityID, &c.Title, &c.Description, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, &c)
	}
	return courses, rows.Err()
}

// UpdateCourse applies a partial course update
func (r *CourseRepository) UpdateCourse(ctx context.Context, id int64, title, description *string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE courses SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			updated_at = NOW()
		WHERE id = $1
	`, id, title, description)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// DeleteCourse removes a course; modules, lessons and progress cascade
func (r *CourseRepository) DeleteCourse(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// CreateModule inserts a module. With no explicit order it goes last.
func (r *CourseRepository) CreateModule(ctx context.Context, module *models.CourseModule) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO course_modules (course_id, title, order_index)
		VALUES ($1, $2, COALESCE($3, (
			SELECT COALESCE(MAX(order_index) + 1, 0) FROM course_modules WHERE course_id = $1
		)))
		RETURNING id
	`, module.CourseID, module.Title, nullableInt(module.OrderIndex, module.OrderIndex >= 0)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert module: %w", err)
	}
	return id, nil
}

// GetModuleByID retrieves a module
func (r *CourseRepository) GetModuleByID(ctx context.Context, id int64) (*models.CourseModule, error) {
	var m models.CourseModule
	err := r.db.QueryRow(ctx, `
		SELECT id, course_id, title, order_index, created_at
		FROM course_modules
		WHERE id = $1
	`, id).Scan(&m.ID, &m.CourseID, &m.Title, &m.OrderIndex, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrModuleNotFound
		}
		return nil, fmt.Errorf("failed to get module: %w", err)
	}
	return &m, nil
}

// UpdateModule applies a partial module update
func (r *CourseRepository) UpdateModule(ctx context.Context, id int64, title *string, orderIndex *int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE course_modules SET
			title = COALESCE($2, title),
			order_index = COALESCE($3, order_index)
		WHERE id = $1
	`, id, title, orderIndex)
	if err != nil {
		return fmt.Errorf("failed to update module: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrModuleNotFound
	}
	return nil
}

// DeleteModule removes a module; its lessons cascade
func (r *CourseRepository) DeleteModule(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM course_modules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete module: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrModuleNotFound
	}
	return nil
}

// CreateLesson inserts a lesson. With no explicit order it goes last.
func (r *CourseRepository) CreateLesson(ctx context.Context, lesson *models.CourseLesson) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO course_lessons (module_id, title, content, video_url, order_index)
		VALUES ($1, $2, $3, $4, COALESCE($5, (
			SELECT COALESCE(MAX(order_index) + 1, 0) FROM course_lessons WHERE module_id = $1
		)))
		RETURNING id
	`, lesson.ModuleID, lesson.Title, lesson.Content, lesson.VideoURL,
		nullableInt(lesson.OrderIndex, lesson.OrderIndex >= 0)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert lesson: %w", err)
	}
	return id, nil
}

// GetLessonByID retrieves a lesson
func (r *CourseRepository) GetLessonByID(ctx context.Context, id int64) (*models.CourseLesson, error) {
	var l models.CourseLesson
	err := r.db.QueryRow(ctx, `
		SELECT id, module_id, title, content, video_url, order_index, created_at
		FROM course_lessons
		WHERE id = $1
	`, id).Scan(&l.ID, &l.ModuleID, &l.Title, &l.Content, &l.VideoURL, &l.OrderIndex, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}
	return &l, nil
}

// UpdateLesson applies a partial lesson update
func (r *CourseRepository) UpdateLesson(ctx context.Context, id int64, title, content, videoURL *string, orderIndex *int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE course_lessons SET
			title = COALESCE($2, title),
			content = COALESCE($3, content),
			video_url = COALESCE($4, video_url),
			order_index = COALESCE($5, order_index)
		WHERE id = $1
	`, id, title, content, videoURL, orderIndex)
	if err != nil {
		return fmt.Errorf("failed to update lesson: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrLessonNotFound
	}
	return nil
}

// DeleteLesson removes a lesson; progress rows cascade
func (r *CourseRepository) DeleteLesson(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM course_lessons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrLessonNotFound
	}
	return nil
}

// GetCourseIDForLesson resolves the course a lesson belongs to
func (r *CourseRepository) GetCourseIDForLesson(ctx context.Context, lessonID int64) (int64, error) {
	var courseID int64
	err := r.db.QueryRow(ctx, `
		SELECT m.course_id
		FROM course_lessons l
		JOIN course_modules m ON m.id = l.module_id
		WHERE l.id = $1
	`, lessonID).Scan(&courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrLessonNotFound
		}
		return 0, fmt.Errorf("failed to resolve lesson course: %w", err)
	}
	return courseID, nil
}

func nullableInt(value int, ok bool) *int {
	if !ok {
		return nil
	}
	return &value
}
