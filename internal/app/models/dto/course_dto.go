package dto

// CreateCourseRequest is the payload for course creation
type CreateCourseRequest struct {
	Title       string  `json:"title" binding:"required,min=2,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// UpdateCourseRequest is the payload for course edits
type UpdateCourseRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=2,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// CreateModuleRequest adds a module to a course
type CreateModuleRequest struct {
	Title      string `json:"title" binding:"required,min=2,max=200"`
	OrderIndex *int   `json:"orderIndex" binding:"omitempty,min=0"`
}

// UpdateModuleRequest is the payload for module edits
type UpdateModuleRequest struct {
	Title      *string `json:"title" binding:"omitempty,min=2,max=200"`
	OrderIndex *int    `json:"orderIndex" binding:"omitempty,min=0"`
}

// CreateLessonRequest adds a lesson to a module
type CreateLessonRequest struct {
	Title      string  `json:"title" binding:"required,min=2,max=200"`
	Content    *string `json:"content" binding:"omitempty"`
	VideoURL   *string `json:"videoUrl" binding:"omitempty,url,max=500"`
	OrderIndex *int    `json:"orderIndex" binding:"omitempty,min=0"`
}

// UpdateLessonRequest is the payload for lesson edits
type UpdateLessonRequest struct {
	Title      *string `json:"title" binding:"omitempty,min=2,max=200"`
	Content    *string `json:"content" binding:"omitempty"`
	VideoURL   *string `json:"videoUrl" binding:"omitempty,url,max=500"`
	OrderIndex *int    `json:"orderIndex" binding:"omitempty,min=0"`
}

// SetProgressRequest marks or unmarks a lesson as completed
type SetProgressRequest struct {
	Completed bool `json:"completed"`
}

// CourseProgressResponse aggregates a user's completion over one course
type CourseProgressResponse struct {
	CourseID         int64   `json:"courseId"`
	TotalLessons     int     `json:"totalLessons"`
	CompletedLessons int     `json:"completedLessons"`
	Percent          float64 `json:"percent"`
}
