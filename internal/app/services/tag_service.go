package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/proske/proske-backend/internal/app/models"
	"github.com/proske/proske-backend/internal/app/models/dto"
	"github.com/proske/proske-backend/internal/app/repositories"
)

// TagService manages labels and the CRM lead list. Teacher and admin only.
type TagService interface {
	CreateTag(ctx context.Context, callerRole models.AppRole, req *dto.CreateTagRequest) (*models.Tag, error)
	ListTags(ctx context.Context, callerRole models.AppRole) ([]*models.Tag, error)
	UpdateTag(ctx context.Context, callerRole models.AppRole, tagID int64, req *dto.UpdateTagRequest) (*models.Tag, error)
	DeleteTag(ctx context.Context, callerRole models.AppRole, tagID int64) error

	SetUserTags(ctx context.Context, callerRole models.AppRole, userID int64, tagIDs []int64) ([]*models.Tag, error)
	GetUserTags(ctx context.Context, callerRole models.AppRole, userID int64) ([]*models.Tag, error)

	CreateLead(ctx context.Context, callerRole models.AppRole, req *dto.CreateLeadRequest) (*models.Lead, error)
	GetLead(ctx context.Context, callerRole models.AppRole, leadID int64) (*models.Lead, error)
	ListLeads(ctx context.Context, callerRole models.AppRole, page, pageSize int) ([]*models.Lead, int64, error)
	UpdateLead(ctx context.Context, callerRole models.AppRole, leadID int64, req *dto.UpdateLeadRequest) (*models.Lead, error)
	DeleteLead(ctx context.Context, callerRole models.AppRole, leadID int64) error
}

type tagService struct {
	tagRepo *repositories.TagRepository
	logger  zerolog.Logger
}

// NewTagService creates a new TagService
func NewTagService(tagRepo *repositories.TagRepository, logger zerolog.Logger) TagService {
	return &tagService{tagRepo: tagRepo, logger: logger}
}

func (s *tagService) CreateTag(ctx context.Context, callerRole models.AppRole, req *dto.CreateTagRequest) (*models.Tag, error) {
	if err := requirePlanManager(callerRole); err != nil {
		return nil, err
	}

	id, err := s.tagRepo.CreateTag(ctx, &models.Tag{Name: req.Name, Color: req.Color})
	if err != nil {
		return nil, err
	}
	return s.tagRepo.GetTagByID(ctx, id)
}

func (s *tagService) ListTags(ctx context.Context, callerRole models.AppRole) ([]*models.Tag, error) {
	if err := requirePlanManager(callerRole); err != nil {
		return nil, err
	}
	return s.tagRepo.ListTags(ctx)
}

func (s *tagService) UpdateTag(ctx context.Context, callerRole models.AppRole, tagID int64, req *dto.UpdateTagRequest) (*models.Tag, error) {
	if err := requirePlanManager(callerRole); err != nil {
		return nil, err
	}
	if err := s.tagRepo.UpdateTag(ctx, tagID, req.Name, req.Color); err != nil {
		return nil, err
	}
	return s.tagRepo.GetTagByID(ctx, tagID)
}

func (s *tagService) DeleteTag(ctx context.Context, callerRole models.AppRole, tagID int64) error {
	if err := requirePlanManager(callerRole); err != nil {
		return err
	}
	return s.tagRepo.DeleteTag(ctx, tagID)
}

// SetUserTags replaces the labels on a user and returns the new set
func (s *tagService) SetUserTags(ctx context.Context, callerRole models.AppRole, userID int64, tagIDs []int64) ([]*models.Tag, error) {
	if err := requirePlanManager(callerRole); err != nil {
		return nil, err
	}
	if err := s.tagRepo.SetUserTags(ctx, userID, tagIDs); err != nil {
		return nil, err
	}
	return s.tagRepo.GetUserTags(ctx, userID)
}

func (s *tagService) GetUserTags(ctx context.Context, callerRole models.AppRole, userID int64) ([]*models.Tag, error) {
	if err := requirePlanManager(callerRole); err != nil {
		return nil, err
	}
	return s.tagRepo.GetUserTags(ctx, userID)
}

func (s *tagService) CreateLead(ctx context.Context, callerRole models.AppRole, req *dto.CreateLeadRequest) (*models.Lead, error) {
	if err := requirePlanManager(callerRole); err != nil {
		return nil, err
	}

	lead := &models.Lead{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Source: req.Source,
		Notes:  req.Notes,
	}
	id, err := s.tagRepo.CreateLead(ctx, lead, req.TagIDs)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("leadID", id).Msg("Lead created")
	return s.tagRepo.GetLeadByID(ctx, id)
}

func (s *tagService) GetLead(ctx context.Context, callerRole models.AppRole, leadID int64) (*models.Lead, error) {
	if err := requirePlanManager(callerRole); err != nil {
		return nil, err
	}
	return s.tagRepo.GetLeadByID(ctx, leadID)
}

func (s *tagService) ListLeads(ctx context.Context, callerRole models.AppRole, page, pageSize int) ([]*models.Lead, int64, error) {
	if err := requirePlanManager(callerRole); err != nil {
		return nil, 0, err
	}
	return s.tagRepo.ListLeads(ctx, page, pageSize)
}

func (s *tagService) UpdateLead(ctx context.Context, callerRole models.AppRole, leadID int64, req *dto.UpdateLeadRequest) (*models.Lead, error) {
	if err := requirePlanManager(callerRole); err != nil {
		return nil, err
	}
	if err := s.tagRepo.UpdateLead(ctx, leadID, req.Name, req.Email, req.Phone, req.Source, req.Notes, req.TagIDs); err != nil {
		return nil, err
	}
	return s.tagRepo.GetLeadByID(ctx, leadID)
}

func (s *tagService) DeleteLead(ctx context.Context, callerRole models.AppRole, leadID int64) error {
	if err := requirePlanManager(callerRole); err != nil {
		return err
	}
	return s.tagRepo.DeleteLead(ctx, leadID)
}
