package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/proske/proske-backend/internal/app/models"
	"github.com/proske/proske-backend/internal/app/models/dto"
	"github.com/proske/proske-backend/internal/app/repositories"
)

// ProgressService tracks per-lesson completion for the calling user
type ProgressService interface {
	SetProgress(ctx context.Context, userID, lessonID int64, completed bool) (*models.LessonProgress, error)
	GetCourseProgress(ctx context.Context, userID, courseID int64) (*dto.CourseProgressResponse, error)
	ListCourseProgress(ctx context.Context, userID, courseID int64) ([]*models.LessonProgress, error)
}

type progressService struct {
	progressRepo     *repositories.ProgressRepository
	courseRepo       *repositories.CourseRepository
	communityService CommunityService
	logger           zerolog.Logger
}

// NewProgressService creates a new ProgressService
func NewProgressService(
	progressRepo *repositories.ProgressRepository,
	courseRepo *repositories.CourseRepository,
	communityService CommunityService,
	logger zerolog.Logger,
) ProgressService {
	return &progressService{
		progressRepo:     progressRepo,
		courseRepo:       courseRepo,
		communityService: communityService,
		logger:           logger,
	}
}

// SetProgress marks or unmarks a lesson. Progress rows belong to the
// caller only; completing and un-completing are both idempotent.
func (s *progressService) SetProgress(ctx context.Context, userID, lessonID int64, completed bool) (*models.LessonProgress, error) {
	courseID, err := s.courseRepo.GetCourseIDForLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if err := s.requireCourseMember(ctx, userID, courseID); err != nil {
		return nil, err
	}
	return s.progressRepo.Set(ctx, userID, lessonID, completed)
}

func (s *progressService) GetCourseProgress(ctx context.Context, userID, courseID int64) (*dto.CourseProgressResponse, error) {
	if err := s.requireCourseMember(ctx, userID, courseID); err != nil {
		return nil, err
	}

	total, completed, err := s.progressRepo.CountCourseCompletion(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	resp := &dto.CourseProgressResponse{
		CourseID:         courseID,
		TotalLessons:     total,
		CompletedLessons: completed,
	}
	if total > 0 {
		resp.Percent = float64(completed) / float64(total) * 100
	}
	return resp, nil
}

func (s *progressService) ListCourseProgress(ctx context.Context, userID, courseID int64) ([]*models.LessonProgress, error) {
	if err := s.requireCourseMember(ctx, userID, courseID); err != nil {
		return nil, err
	}
	return s.progressRepo.ListByCourse(ctx, userID, courseID)
}

func (s *progressService) requireCourseMember(ctx context.Context, userID, courseID int64) error {
	course, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return err
	}
	return s.communityService.RequireMember(ctx, course.CommunityID, userID)
}
