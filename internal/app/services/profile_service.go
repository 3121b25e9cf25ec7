package services

import (
	"context"
	"mime/multipart"

	"github.com/rs/zerolog"

	"github.com/proske/proske-backend/internal/app/models/dto"
	"github.com/proske/proske-backend/internal/app/repositories"
	"github.com/proske/proske-backend/internal/pkg/filestorage"
)

// ProfileService handles the caller's account view and profile edits
type ProfileService interface {
	GetUser(ctx context.Context, userID int64) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	UploadAvatar(ctx context.Context, userID int64, fileHeader *multipart.FileHeader) (*dto.UserResponse, error)
	DeleteAvatar(ctx context.Context, userID int64) error
}

type profileService struct {
	userRepo *repositories.UserRepository
	storage  filestorage.FileStorage
	logger   zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo *repositories.UserRepository, storage filestorage.FileStorage, logger zerolog.Logger) ProfileService {
	return &profileService{
		userRepo: userRepo,
		storage:  storage,
		logger:   logger,
	}
}

func (s *profileService) GetUser(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return UserToResponse(user), nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if err := s.userRepo.UpdateProfile(ctx, userID, req.FullName, req.Bio, req.Phone); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, userID)
}

// UploadAvatar stores the new image, swaps the URL and removes the old
// file afterwards.
func (s *profileService) UploadAvatar(ctx context.Context, userID int64, fileHeader *multipart.FileHeader) (*dto.UserResponse, error) {
	oldURL, err := s.userRepo.GetAvatarURL(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.SaveFile(fileHeader, "avatars")
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateAvatar(ctx, userID, &url); err != nil {
		_ = s.storage.DeleteFile(url)
		return nil, err
	}

	if oldURL != nil {
		if err := s.storage.DeleteFile(*oldURL); err != nil {
			s.logger.Warn().Err(err).Str("path", *oldURL).Msg("Failed to delete previous avatar")
		}
	}

	return s.GetUser(ctx, userID)
}

func (s *profileService) DeleteAvatar(ctx context.Context, userID int64) error {
	oldURL, err := s.userRepo.GetAvatarURL(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdateAvatar(ctx, userID, nil); err != nil {
		return err
	}
	if oldURL != nil {
		if err := s.storage.DeleteFile(*oldURL); err != nil {
			s.logger.Warn().Err(err).Str("path", *oldURL).Msg("Failed to delete avatar file")
		}
	}
	return nil
}
