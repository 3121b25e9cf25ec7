package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/proske/proske-backend/internal/app/models"
	"github.com/proske/proske-backend/internal/app/repositories"
	"github.com/proske/proske-backend/internal/pkg/apperrors"
	"github.com/proske/proske-backend/internal/pkg/validation"
)

const inviteCodeLength = 12
const inviteCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// InviteService mints and redeems community invite codes
type InviteService interface {
	Create(ctx context.Context, callerID int64, callerRole models.AppRole, communityID int64, expiresInHours int) (*models.Invite, error)
	List(ctx context.Context, callerID int64, callerRole models.AppRole, communityID int64) ([]*models.Invite, error)
	Delete(ctx context.Context, callerID int64, callerRole models.AppRole, communityID, inviteID int64) error
	Redeem(ctx context.Context, code string, userID int64) (*models.Community, error)
}

type inviteService struct {
	inviteRepo       *repositories.InviteRepository
	communityRepo    *repositories.CommunityRepository
	communityService CommunityService
	defaultExpiry    time.Duration
	logger           zerolog.Logger
}

// NewInviteService creates a new InviteService
func NewInviteService(
	inviteRepo *repositories.InviteRepository,
	communityRepo *repositories.CommunityRepository,
	communityService CommunityService,
	defaultExpiry time.Duration,
	logger zerolog.Logger,
) InviteService {
	return &inviteService{
		inviteRepo:       inviteRepo,
		communityRepo:    communityRepo,
		communityService: communityService,
		defaultExpiry:    defaultExpiry,
		logger:           logger,
	}
}

// Create mints a new multi-use invite code for the community
func (s *inviteService) Create(ctx context.Context, callerID int64, callerRole models.AppRole, communityID int64, expiresInHours int) (*models.Invite, error) {
	if err := s.communityService.CanManage(ctx, communityID, callerID, callerRole); err != nil {
		return nil, err
	}

	expiry := s.defaultExpiry
	if expiresInHours > 0 {
		expiry = time.Duration(expiresInHours) * time.Hour
	}

	code, err := generateInviteCode()
	if err != nil {
		return nil, err
	}

	invite := &models.Invite{
		CommunityID: communityID,
		Code:        code,
		CreatedBy:   callerID,
		ExpiresAt:   time.Now().Add(expiry),
	}
	id, err := s.inviteRepo.Create(ctx, invite)
	if err != nil {
		return nil, err
	}
	invite.ID = id

	s.logger.Info().Int64("communityID", communityID).Int64("inviteID", id).Msg("Invite created")
	return invite, nil
}

func (s *inviteService) List(ctx context.Context, callerID int64, callerRole models.AppRole, communityID int64) ([]*models.Invite, error) {
	if err := s.communityService.CanManage(ctx, communityID, callerID, callerRole); err != nil {
		return nil, err
	}
	return s.inviteRepo.ListByCommunity(ctx, communityID)
}

func (s *inviteService) Delete(ctx context.Context, callerID int64, callerRole models.AppRole, communityID, inviteID int64) error {
	if err := s.communityService.CanManage(ctx, communityID, callerID, callerRole); err != nil {
		return err
	}
	return s.inviteRepo.Delete(ctx, inviteID)
}

// Redeem joins the caller to the invite's community. Codes stay valid
// for any number of redemptions until they expire.
func (s *inviteService) Redeem(ctx context.Context, code string, userID int64) (*models.Community, error) {
	// Malformed codes never hit the database
	if !validation.ValidInviteCode(code) {
		return nil, apperrors.ErrInviteNotFound
	}

	invite, err := s.inviteRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if invite.Expired(time.Now()) {
		return nil, apperrors.ErrInviteExpired
	}

	if err := s.communityRepo.AddMember(ctx, invite.CommunityID, userID); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("communityID", invite.CommunityID).
		Int64("userID", userID).
		Msg("Invite redeemed")
	return s.communityRepo.GetByID(ctx, invite.CommunityID)
}

func generateInviteCode() (string, error) {
	buf := make([]byte, inviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate invite code: %w", err)
	}
	for i := range buf {
		buf[i] = inviteCodeAlphabet[int(buf[i])%len(inviteCodeAlphabet)]
	}
	return string(buf), nil
}
