package models

import "time"

// Course is the top level of the course content hierarchy
type Course struct {
	ID          int64     `json:"id" db:"id"`
	CommunityID int64     `json:"communityId" db:"community_id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedBy   int64     `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	Modules []*CourseModule `json:"modules,omitempty"`
}

// CourseModule is the middle level, ordered within its course
type CourseModule struct {
	ID         int64     `json:"id" db:"id"`
	CourseID   int64     `json:"courseId" db:"course_id"`
	Title      string    `json:"title" db:"title"`
	OrderIndex int       `json:"orderIndex" db:"order_index"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`

	Lessons []*CourseLesson `json:"lessons,omitempty"`
}

// CourseLesson is the leaf level, ordered within its module
type CourseLesson struct {
	ID         int64     `json:"id" db:"id"`
	ModuleID   int64     `json:"moduleId" db:"module_id"`
	Title      string    `json:"title" db:"title"`
	Content    *string   `json:"content,omitempty" db:"content"`
	VideoURL   *string   `json:"videoUrl,omitempty" db:"video_url"`
	OrderIndex int       `json:"orderIndex" db:"order_index"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// LessonProgress tracks completion per (user, lesson) pair.
// Invariant: Completed=false implies CompletedAt is nil.
type LessonProgress struct {
	ID          int64      `json:"id" db:"id"`
	UserID      int64      `json:"userId" db:"user_id"`
	LessonID    int64      `json:"lessonId" db:"lesson_id"`
	Completed   bool       `json:"completed" db:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty" db:"completed_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
}

// Consistent reports whether the record honors the completed/completed_at invariant.
func (p *LessonProgress) Consistent() bool {
	if !p.Completed {
		return p.CompletedAt == nil
	}
	return p.CompletedAt != nil && !p.CompletedAt.Before(p.CreatedAt)
}
