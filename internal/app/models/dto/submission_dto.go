package dto

// CreateSubmissionRequest submits a task artifact for review
type CreateSubmissionRequest struct {
	Title    string `json:"title" binding:"required,min=2,max=200"`
	VideoURL string `json:"videoUrl" binding:"required,url,max=500"`

	// GroupID, when set, also announces the submission in that group's chat
	GroupID *int64 `json:"groupId" binding:"omitempty,min=1"`
}

// ReviewSubmissionRequest grades a pending submission. At least one of
// grade and comments must be present.
type ReviewSubmissionRequest struct {
	Grade    *int    `json:"grade" binding:"omitempty,min=0,max=10"`
	Comments *string `json:"comments" binding:"omitempty,max=2000"`
}

// SubmissionFilterRequest carries list filters for submissions
type SubmissionFilterRequest struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending reviewed"`
	UserID   *int64 `form:"userId" binding:"omitempty,min=1"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
}
