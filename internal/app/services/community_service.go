package services

import (
	"context"
	"mime/multipart"

	"github.com/rs/zerolog"

	"github.com/proske/proske-backend/internal/app/models"
	"github.com/proske/proske-backend/internal/app/models/dto"
	"github.com/proske/proske-backend/internal/app/repositories"
	"github.com/proske/proske-backend/internal/pkg/apperrors"
	"github.com/proske/proske-backend/internal/pkg/filestorage"
)

// CommunityService handles communities and their memberships
type CommunityService interface {
	Create(ctx context.Context, callerID int64, callerRole models.AppRole, req *dto.CreateCommunityRequest) (*models.Community, error)
	GetByID(ctx context.Context, id int64) (*models.Community, error)
	List(ctx context.Context, subject, search string, page, pageSize int) ([]*models.Community, int64, error)
	ListJoined(ctx context.Context, userID int64) ([]*models.Community, error)
	Update(ctx context.Context, callerID int64, callerRole models.AppRole, id int64, req *dto.UpdateCommunityRequest) (*models.Community, error)
	UploadCover(ctx context.Context, callerID int64, callerRole models.AppRole, id int64, fileHeader *multipart.FileHeader) (*models.Community, error)
	Delete(ctx context.Context, callerID int64, callerRole models.AppRole, id int64) error

	Join(ctx context.Context, communityID, userID int64) error
	Leave(ctx context.Context, communityID, userID int64) error
	RemoveMember(ctx context.Context, callerID int64, callerRole models.AppRole, communityID, userID int64) error
	GetMembers(ctx context.Context, communityID, callerID int64, page, pageSize int) ([]*models.CommunityMember, int64, error)
	RequireMember(ctx context.Context, communityID, userID int64) error
	CanManage(ctx context.Context, communityID, callerID int64, callerRole models.AppRole) error
}

type communityService struct {
	communityRepo *repositories.CommunityRepository
	storage       filestorage.FileStorage
	logger        zerolog.Logger
}

// NewCommunityService creates a new CommunityService
func NewCommunityService(communityRepo *repositories.CommunityRepository, storage filestorage.FileStorage, logger zerolog.Logger) CommunityService {
	return &communityService{
		communityRepo: communityRepo,
		storage:       storage,
		logger:        logger,
	}
}

// Create makes a community. Only teachers and admins may create one.
func (s *communityService) Create(ctx context.Context, callerID int64, callerRole models.AppRole, req *dto.CreateCommunityRequest) (*models.Community, error) {
	if callerRole != models.RoleTeacher && callerRole != models.RoleAdmin {
		return nil, apperrors.NewForbiddenError("only teachers can create communities")
	}

	community := &models.Community{
		Name:        req.Name,
		Description: req.Description,
		Subject:     req.Subject,
		CreatedBy:   callerID,
	}
	id, err := s.communityRepo.Create(ctx, community)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("communityID", id).Int64("createdBy", callerID).Msg("Community created")
	return s.communityRepo.GetByID(ctx, id)
}

func (s *communityService) GetByID(ctx context.Context, id int64) (*models.Community, error) {
	return s.communityRepo.GetByID(ctx, id)
}

func (s *communityService) List(ctx context.Context, subject, search string, page, pageSize int) ([]*models.Community, int64, error) {
	return s.communityRepo.GetAll(ctx, subject, search, page, pageSize)
}

func (s *communityService) ListJoined(ctx context.Context, userID int64) ([]*models.Community, error) {
	return s.communityRepo.GetJoinedCommunities(ctx, userID)
}

func (s *communityService) Update(ctx context.Context, callerID int64, callerRole models.AppRole, id int64, req *dto.UpdateCommunityRequest) (*models.Community, error) {
	if err := s.CanManage(ctx, id, callerID, callerRole); err != nil {
		return nil, err
	}
	if err := s.communityRepo.Update(ctx, id, req.Name, req.Description, req.Subject); err != nil {
		return nil, err
	}
	return s.communityRepo.GetByID(ctx, id)
}

func (s *communityService) UploadCover(ctx context.Context, callerID int64, callerRole models.AppRole, id int64, fileHeader *multipart.FileHeader) (*models.Community, error) {
	if err := s.CanManage(ctx, id, callerID, callerRole); err != nil {
		return nil, err
	}

	existing, err := s.communityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Cover images share the avatars bucket with user avatars
	url, err := s.storage.SaveFile(fileHeader, "avatars")
	if err != nil {
		return nil, err
	}
	if err := s.communityRepo.UpdateCoverImage(ctx, id, &url); err != nil {
		_ = s.storage.DeleteFile(url)
		return nil, err
	}

	if existing.CoverImageURL != nil {
		if err := s.storage.DeleteFile(*existing.CoverImageURL); err != nil {
			s.logger.Warn().Err(err).Str("path", *existing.CoverImageURL).Msg("Failed to delete previous cover image")
		}
	}

	return s.communityRepo.GetByID(ctx, id)
}

func (s *communityService) Delete(ctx context.Context, callerID int64, callerRole models.AppRole, id int64) error {
	if err := s.CanManage(ctx, id, callerID, callerRole); err != nil {
		return err
	}
	return s.communityRepo.Delete(ctx, id)
}

func (s *communityService) Join(ctx context.Context, communityID, userID int64) error {
	if _, err := s.communityRepo.GetByID(ctx, communityID); err != nil {
		return err
	}
	return s.communityRepo.AddMember(ctx, communityID, userID)
}

// Leave removes the caller's own membership. The owner cannot leave
// their community, they delete it instead.
func (s *communityService) Leave(ctx context.Context, communityID, userID int64) error {
	community, err := s.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return err
	}
	if community.CreatedBy == userID {
		return apperrors.NewBadRequestError("the community owner cannot leave")
	}
	return s.communityRepo.RemoveMember(ctx, communityID, userID)
}

func (s *communityService) RemoveMember(ctx context.Context, callerID int64, callerRole models.AppRole, communityID, userID int64) error {
	if err := s.CanManage(ctx, communityID, callerID, callerRole); err != nil {
		return err
	}
	community, err := s.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return err
	}
	if community.CreatedBy == userID {
		return apperrors.NewBadRequestError("the community owner cannot be removed")
	}
	return s.communityRepo.RemoveMember(ctx, communityID, userID)
}

func (s *communityService) GetMembers(ctx context.Context, communityID, callerID int64, page, pageSize int) ([]*models.CommunityMember, int64, error) {
	if err := s.RequireMember(ctx, communityID, callerID); err != nil {
		return nil, 0, err
	}
	return s.communityRepo.GetMembers(ctx, communityID, page, pageSize)
}

// RequireMember fails with a permission error when the user does not
// belong to the community.
func (s *communityService) RequireMember(ctx context.Context, communityID, userID int64) error {
	isMember, err := s.communityRepo.IsMember(ctx, communityID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// CanManage allows the community owner and platform admins
func (s *communityService) CanManage(ctx context.Context, communityID, callerID int64, callerRole models.AppRole) error {
	if callerRole == models.RoleAdmin {
		return nil
	}
	community, err := s.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return err
	}
	if community.CreatedBy != callerID {
		return apperrors.ErrNotCommunityOwner
	}
	return nil
}
