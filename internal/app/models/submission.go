package models

import "time"

// SubmissionStatus is the review state of a task submission
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionReviewed SubmissionStatus = "reviewed"
)

// Submission is a student's task artifact awaiting or having received review.
// Invariant: Status=reviewed if and only if ReviewedBy and ReviewedAt are set;
// review fields are written together in a single update.
type Submission struct {
	ID              int64            `json:"id" db:"id"`
	CommunityID     int64            `json:"communityId" db:"community_id"`
	UserID          int64            `json:"userId" db:"user_id"`
	Title           string           `json:"title" db:"title"`
	VideoURL        string           `json:"videoUrl" db:"video_url"`
	Status          SubmissionStatus `json:"status" db:"status"`
	Grade           *int             `json:"grade,omitempty" db:"grade"`
	TeacherComments *string          `json:"teacherComments,omitempty" db:"teacher_comments"`
	ReviewedBy      *int64           `json:"reviewedBy,omitempty" db:"reviewed_by"`
	ReviewedAt      *time.Time       `json:"reviewedAt,omitempty" db:"reviewed_at"`
	CreatedAt       time.Time        `json:"createdAt" db:"created_at"`

	User     *User `json:"user,omitempty"`
	Reviewer *User `json:"reviewer,omitempty"`
}

// ReviewConsistent reports whether the review fields honor the atomicity
// invariant: reviewed rows carry reviewer and timestamp plus at least one of
// grade/comments, pending rows carry none of them.
func (s *Submission) ReviewConsistent() bool {
	if s.Status == SubmissionReviewed {
		return s.ReviewedBy != nil && s.ReviewedAt != nil && (s.Grade != nil || s.TeacherComments != nil)
	}
	return s.ReviewedBy == nil && s.ReviewedAt == nil
}
