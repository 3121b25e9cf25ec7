package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/proske/proske-backend/internal/app/models"
	"github.com/proske/proske-backend/internal/app/models/dto"
	"github.com/proske/proske-backend/internal/app/repositories"
)

// CourseService handles the course content hierarchy
type CourseService interface {
	Create(ctx context.Context, callerID int64, callerRole models.AppRole, communityID int64, req *dto.CreateCourseRequest) (*models.Course, error)
	Get(ctx context.Context, courseID, callerID int64) (*models.Course, error)
	List(ctx context.Context, communityID, callerID int64) ([]*models.Course, error)
	Update(ctx context.Context, callerID int64, callerRole models.AppRole, courseID int64, req *dto.UpdateCourseRequest) (*models.Course, error)
	Delete(ctx context.Context, callerID int64, callerRole models.AppRole, courseID int64) error

	CreateModule(ctx context.Context, callerID int64, callerRole models.AppRole, courseID int64, req *dto.CreateModuleRequest) (*models.CourseModule, error)
	UpdateModule(ctx context.Context, callerID int64, callerRole models.AppRole, moduleID int64, req *dto.UpdateModuleRequest) (*models.CourseModule, error)
	DeleteModule(ctx context.Context, callerID int64, callerRole models.AppRole, moduleID int64) error

	CreateLesson(ctx context.Context, callerID int64, callerRole models.AppRole, moduleID int64, req *dto.CreateLessonRequest) (*models.CourseLesson, error)
	GetLesson(ctx context.Context, lessonID, callerID int64) (*models.CourseLesson, error)
	UpdateLesson(ctx context.Context, callerID int64, callerRole models.AppRole, lessonID int64, req *dto.UpdateLessonRequest) (*models.CourseLesson, error)
	DeleteLesson(ctx context.Context, callerID int64, callerRole models.AppRole, lessonID int64) error
}

type courseService struct {
	courseRepo       *repositories.CourseRepository
	communityService CommunityService
	logger           zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(courseRepo *repositories.CourseRepository, communityService CommunityService, logger zerolog.Logger) CourseService {
	return &courseService{
		courseRepo:       courseRepo,
		communityService: communityService,
		logger:           logger,
	}
}

func (s *courseService) Create(ctx context.Context, callerID int64, callerRole models.AppRole, communityID int64, req *dto.CreateCourseRequest) (*models.Course, error) {
	if err := s.communityService.CanManage(ctx, communityID, callerID, callerRole); err != nil {
		return nil, err
	}

	course := &models.Course{
		CommunityID: communityID,
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   callerID,
	}
	id, err := s.courseRepo.CreateCourse(ctx, course)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("courseID", id).Int64("communityID", communityID).Msg("Course created")
	return s.courseRepo.GetCourseByID(ctx, id)
}

// Get returns the full content tree to any community member
func (s *courseService) Get(ctx context.Context, courseID, callerID int64) (*models.Course, error) {
	course, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := s.communityService.RequireMember(ctx, course.CommunityID, callerID); err != nil {
		return nil, err
	}
	return s.courseRepo.GetCourseWithContent(ctx, courseID)
}

func (s *courseService) List(ctx context.Context, communityID, callerID int64) ([]*models.Course, error) {
	if err := s.communityService.RequireMember(ctx, communityID, callerID); err != nil {
		return nil, err
	}
	return s.courseRepo.ListCoursesByCommunity(ctx, communityID)
}

func (s *courseService) Update(ctx context.Context, callerID int64, callerRole models.AppRole, courseID int64, req *dto.UpdateCourseRequest) (*models.Course, error) {
	if err := s.requireManager(ctx, callerID, callerRole, courseID); err != nil {
		return nil, err
	}
	if err := s.courseRepo.UpdateCourse(ctx, courseID, req.Title, req.Description); err != nil {
		return nil, err
	}
	return s.courseRepo.GetCourseByID(ctx, courseID)
}

func (s *courseService) Delete(ctx context.Context, callerID int64, callerRole models.AppRole, courseID int64) error {
	if err := s.requireManager(ctx, callerID, callerRole, courseID); err != nil {
		return err
	}
	return s.courseRepo.DeleteCourse(ctx, courseID)
}

func (s *courseService) CreateModule(ctx context.Context, callerID int64, callerRole models.AppRole, courseID int64, req *dto.CreateModuleRequest) (*models.CourseModule, error) {
	if err := s.requireManager(ctx, callerID, callerRole, courseID); err != nil {
		return nil, err
	}

	module := &models.CourseModule{
		CourseID:   courseID,
		Title:      req.Title,
		OrderIndex: -1,
	}
	if req.OrderIndex != nil {
		module.OrderIndex = *req.OrderIndex
	}
	id, err := s.courseRepo.CreateModule(ctx, module)
	if err != nil {
		return nil, err
	}
	return s.courseRepo.GetModuleByID(ctx, id)
}

func (s *courseService) UpdateModule(ctx context.Context, callerID int64, callerRole models.AppRole, moduleID int64, req *dto.UpdateModuleRequest) (*models.CourseModule, error) {
	module, err := s.courseRepo.GetModuleByID(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManager(ctx, callerID, callerRole, module.CourseID); err != nil {
		return nil, err
	}
	if err := s.courseRepo.UpdateModule(ctx, moduleID, req.Title, req.OrderIndex); err != nil {
		return nil, err
	}
	return s.courseRepo.GetModuleByID(ctx, moduleID)
}

func (s *courseService) DeleteModule(ctx context.Context, callerID int64, callerRole models.AppRole, moduleID int64) error {
	module, err := s.courseRepo.GetModuleByID(ctx, moduleID)
	if err != nil {
		return err
	}
	if err := s.requireManager(ctx, callerID, callerRole, module.CourseID); err != nil {
		return err
	}
	return s.courseRepo.DeleteModule(ctx, moduleID)
}

func (s *courseService) CreateLesson(ctx context.Context, callerID int64, callerRole models.AppRole, moduleID int64, req *dto.CreateLessonRequest) (*models.CourseLesson, error) {
	module, err := s.courseRepo.GetModuleByID(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManager(ctx, callerID, callerRole, module.CourseID); err != nil {
		return nil, err
	}

	lesson := &models.CourseLesson{
		ModuleID:   moduleID,
		Title:      req.Title,
		Content:    req.Content,
		VideoURL:   req.VideoURL,
		OrderIndex: -1,
	}
	if req.OrderIndex != nil {
		lesson.OrderIndex = *req.OrderIndex
	}
	id, err := s.courseRepo.CreateLesson(ctx, lesson)
	if err != nil {
		return nil, err
	}
	return s.courseRepo.GetLessonByID(ctx, id)
}

func (s *courseService) GetLesson(ctx context.Context, lessonID, callerID int64) (*models.CourseLesson, error) {
	courseID, err := s.courseRepo.GetCourseIDForLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	course, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := s.communityService.RequireMember(ctx, course.CommunityID, callerID); err != nil {
		return nil, err
	}
	return s.courseRepo.GetLessonByID(ctx, lessonID)
}

func (s *courseService) UpdateLesson(ctx context.Context, callerID int64, callerRole models.AppRole, lessonID int64, req *dto.UpdateLessonRequest) (*models.CourseLesson, error) {
	courseID, err := s.courseRepo.GetCourseIDForLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManager(ctx, callerID, callerRole, courseID); err != nil {
		return nil, err
	}
	if err := s.courseRepo.UpdateLesson(ctx, lessonID, req.Title, req.Content, req.VideoURL, req.OrderIndex); err != nil {
		return nil, err
	}
	return s.courseRepo.GetLessonByID(ctx, lessonID)
}

func (s *courseService) DeleteLesson(ctx context.Context, callerID int64, callerRole models.AppRole, lessonID int64) error {
	courseID, err := s.courseRepo.GetCourseIDForLesson(ctx, lessonID)
	if err != nil {
		return err
	}
	if err := s.requireManager(ctx, callerID, callerRole, courseID); err != nil {
		return err
	}
	return s.courseRepo.DeleteLesson(ctx, lessonID)
}

func (s *courseService) requireManager(ctx context.Context, callerID int64, callerRole models.AppRole, courseID int64) error {
	course, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return err
	}
	return s.communityService.CanManage(ctx, course.CommunityID, callerID, callerRole)
}
