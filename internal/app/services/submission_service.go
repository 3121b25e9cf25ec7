package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/proske/proske-backend/internal/app/models"
	"github.com/proske/proske-backend/internal/app/models/dto"
	"github.com/proske/proske-backend/internal/app/repositories"
	"github.com/proske/proske-backend/internal/pkg/apperrors"
)

// SubmissionService handles task submissions and their review lifecycle
type SubmissionService interface {
	Create(ctx context.Context, userID, communityID int64, req *dto.CreateSubmissionRequest) (*models.Submission, error)
	Get(ctx context.Context, submissionID, callerID int64, callerRole models.AppRole) (*models.Submission, error)
	List(ctx context.Context, communityID, callerID int64, callerRole models.AppRole, filter *dto.SubmissionFilterRequest) ([]*models.Submission, int64, error)
	Review(ctx context.Context, callerID int64, callerRole models.AppRole, submissionID int64, req *dto.ReviewSubmissionRequest) (*models.Submission, error)
	Delete(ctx context.Context, callerID int64, callerRole models.AppRole, submissionID int64) error
}

type submissionService struct {
	submissionRepo   *repositories.SubmissionRepository
	communityService CommunityService
	chatService      ChatService
	logger           zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(
	submissionRepo *repositories.SubmissionRepository,
	communityService CommunityService,
	chatService ChatService,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionService{
		submissionRepo:   submissionRepo,
		communityService: communityService,
		chatService:      chatService,
		logger:           logger,
	}
}

// Create records a pending submission. When a group is given the
// submission is also announced in that group's chat; a failed
// announcement does not undo the submission.
func (s *submissionService) Create(ctx context.Context, userID, communityID int64, req *dto.CreateSubmissionRequest) (*models.Submission, error) {
	if err := s.communityService.RequireMember(ctx, communityID, userID); err != nil {
		return nil, err
	}

	submission := &models.Submission{
		CommunityID: communityID,
		UserID:      userID,
		Title:       req.Title,
		VideoURL:    req.VideoURL,
	}
	id, err := s.submissionRepo.Create(ctx, submission)
	if err != nil {
		return nil, err
	}

	saved, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.GroupID != nil {
		payload := &models.MessagePayload{
			Kind: models.MessageKindTaskSubmission,
			TaskSubmission: &models.TaskSubmissionPayload{
				SubmissionID: id,
				VideoURL:     req.VideoURL,
			},
		}
		content := fmt.Sprintf("Submitted: %s", req.Title)
		if _, err := s.chatService.Announce(ctx, *req.GroupID, userID, content, payload); err != nil {
			s.logger.Warn().Err(err).
				Int64("submissionID", id).
				Int64("groupID", *req.GroupID).
				Msg("Failed to announce submission in chat")
		}
	}

	s.logger.Info().Int64("submissionID", id).Int64("userID", userID).Msg("Submission created")
	return saved, nil
}

// Get returns a submission to its owner or a community manager
func (s *submissionService) Get(ctx context.Context, submissionID, callerID int64, callerRole models.AppRole) (*models.Submission, error) {
	submission, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if submission.UserID != callerID {
		if err := s.communityService.CanManage(ctx, submission.CommunityID, callerID, callerRole); err != nil {
			return nil, err
		}
	}
	return submission, nil
}

// List returns a community's submissions. Students only ever see their
// own; managers see everything and may filter by user.
func (s *submissionService) List(ctx context.Context, communityID, callerID int64, callerRole models.AppRole, filter *dto.SubmissionFilterRequest) ([]*models.Submission, int64, error) {
	if err := s.communityService.RequireMember(ctx, communityID, callerID); err != nil {
		return nil, 0, err
	}

	userFilter := filter.UserID
	if s.communityService.CanManage(ctx, communityID, callerID, callerRole) != nil {
		userFilter = &callerID
	}
	return s.submissionRepo.List(ctx, communityID, filter.Status, userFilter, filter.Page, filter.PageSize)
}

// Review grades a pending submission. The update is conditional on the
// pending status so concurrent reviews cannot both win.
func (s *submissionService) Review(ctx context.Context, callerID int64, callerRole models.AppRole, submissionID int64, req *dto.ReviewSubmissionRequest) (*models.Submission, error) {
	if req.Grade == nil && req.Comments == nil {
		return nil, apperrors.NewBadRequestError("a grade or comments are required")
	}

	submission, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if err := s.communityService.CanManage(ctx, submission.CommunityID, callerID, callerRole); err != nil {
		return nil, err
	}

	reviewed, err := s.submissionRepo.Review(ctx, submissionID, callerID, req.Grade, req.Comments)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("submissionID", submissionID).
		Int64("reviewerID", callerID).
		Msg("Submission reviewed")
	return reviewed, nil
}

// Delete removes a submission. Owners may delete while pending;
// managers may delete at any point.
func (s *submissionService) Delete(ctx context.Context, callerID int64, callerRole models.AppRole, submissionID int64) error {
	submission, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return err
	}
	if submission.UserID == callerID && submission.Status == models.SubmissionPending {
		return s.submissionRepo.Delete(ctx, submissionID)
	}
	if err := s.communityService.CanManage(ctx, submission.CommunityID, callerID, callerRole); err != nil {
		return err
	}
	return s.submissionRepo.Delete(ctx, submissionID)
}
