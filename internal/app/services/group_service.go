package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/proske/proske-backend/internal/app/models"
	"github.com/proske/proske-backend/internal/app/models/dto"
	"github.com/proske/proske-backend/internal/app/repositories"
	"github.com/proske/proske-backend/internal/pkg/apperrors"
	"github.com/proske/proske-backend/internal/pkg/websocket"
)

// GroupService handles conversation groups and their memberships
type GroupService interface {
	Create(ctx context.Context, callerID int64, callerRole models.AppRole, communityID int64, req *dto.CreateGroupRequest) (*models.Group, error)
	GetByID(ctx context.Context, groupID, callerID int64, callerRole models.AppRole) (*models.Group, error)
	List(ctx context.Context, communityID, callerID int64, callerRole models.AppRole) ([]*models.Group, error)
	Update(ctx context.Context, callerID int64, callerRole models.AppRole, groupID int64, req *dto.UpdateGroupRequest) (*models.Group, error)
	Delete(ctx context.Context, callerID int64, callerRole models.AppRole, groupID int64) error

	AddMember(ctx context.Context, callerID int64, callerRole models.AppRole, groupID, userID int64) error
	RemoveMember(ctx context.Context, callerID int64, callerRole models.AppRole, groupID, userID int64) error
	GetMembers(ctx context.Context, groupID, callerID int64, callerRole models.AppRole) ([]*models.GroupMember, error)

	// CheckGroupAccess resolves websocket access for one user
	CheckGroupAccess(ctx context.Context, groupID, userID int64) (*websocket.GroupAccess, error)
}

type groupService struct {
	groupRepo        *repositories.GroupRepository
	userRepo         *repositories.UserRepository
	communityService CommunityService
	logger           zerolog.Logger
}

// NewGroupService creates a new GroupService
func NewGroupService(
	groupRepo *repositories.GroupRepository,
	userRepo *repositories.UserRepository,
	communityService CommunityService,
	logger zerolog.Logger,
) GroupService {
	return &groupService{
		groupRepo:        groupRepo,
		userRepo:         userRepo,
		communityService: communityService,
		logger:           logger,
	}
}

// Create makes a group inside a community the caller manages. The
// creator is added as the first member.
func (s *groupService) Create(ctx context.Context, callerID int64, callerRole models.AppRole, communityID int64, req *dto.CreateGroupRequest) (*models.Group, error) {
	if err := s.communityService.CanManage(ctx, communityID, callerID, callerRole); err != nil {
		return nil, err
	}

	group := &models.Group{
		CommunityID:         communityID,
		Name:                req.Name,
		Description:         req.Description,
		IsVisible:           true,
		StudentsCanMessage:  true,
		AllowedMessageRoles: toRoles(req.AllowedMessageRoles),
	}
	if req.IsVisible != nil {
		group.IsVisible = *req.IsVisible
	}
	if req.StudentsCanMessage != nil {
		group.StudentsCanMessage = *req.StudentsCanMessage
	}

	id, err := s.groupRepo.Create(ctx, group)
	if err != nil {
		return nil, err
	}
	if err := s.groupRepo.AddMember(ctx, id, callerID); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("groupID", id).Int64("communityID", communityID).Msg("Group created")
	return s.groupRepo.GetByID(ctx, id)
}

// GetByID returns a group the caller may see. Hidden groups are only
// visible to their members and community managers.
func (s *groupService) GetByID(ctx context.Context, groupID, callerID int64, callerRole models.AppRole) (*models.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := s.communityService.RequireMember(ctx, group.CommunityID, callerID); err != nil {
		return nil, err
	}
	if !group.IsVisible {
		if manageErr := s.communityService.CanManage(ctx, group.CommunityID, callerID, callerRole); manageErr != nil {
			isMember, err := s.groupRepo.IsMember(ctx, groupID, callerID)
			if err != nil {
				return nil, err
			}
			if !isMember {
				return nil, apperrors.ErrGroupNotFound
			}
		}
	}
	return group, nil
}

func (s *groupService) List(ctx context.Context, communityID, callerID int64, callerRole models.AppRole) ([]*models.Group, error) {
	if err := s.communityService.RequireMember(ctx, communityID, callerID); err != nil {
		return nil, err
	}
	includeHidden := s.communityService.CanManage(ctx, communityID, callerID, callerRole) == nil
	return s.groupRepo.ListByCommunity(ctx, communityID, callerID, includeHidden)
}

func (s *groupService) Update(ctx context.Context, callerID int64, callerRole models.AppRole, groupID int64, req *dto.UpdateGroupRequest) (*models.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := s.communityService.CanManage(ctx, group.CommunityID, callerID, callerRole); err != nil {
		return nil, err
	}

	var roles []models.AppRole
	if req.AllowedMessageRoles != nil {
		roles = toRoles(req.AllowedMessageRoles)
		if roles == nil {
			roles = []models.AppRole{}
		}
	}
	if err := s.groupRepo.Update(ctx, groupID, req.Name, req.Description, req.IsVisible, req.StudentsCanMessage, roles); err != nil {
		return nil, err
	}
	return s.groupRepo.GetByID(ctx, groupID)
}

func (s *groupService) Delete(ctx context.Context, callerID int64, callerRole models.AppRole, groupID int64) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if err := s.communityService.CanManage(ctx, group.CommunityID, callerID, callerRole); err != nil {
		return err
	}
	return s.groupRepo.Delete(ctx, groupID)
}

// AddMember adds a community member to the group
func (s *groupService) AddMember(ctx context.Context, callerID int64, callerRole models.AppRole, groupID, userID int64) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if err := s.communityService.CanManage(ctx, group.CommunityID, callerID, callerRole); err != nil {
		return err
	}
	if err := s.communityService.RequireMember(ctx, group.CommunityID, userID); err != nil {
		return apperrors.NewBadRequestError("user is not a member of the community")
	}
	return s.groupRepo.AddMember(ctx, groupID, userID)
}

func (s *groupService) RemoveMember(ctx context.Context, callerID int64, callerRole models.AppRole, groupID, userID int64) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	// Members may remove themselves; otherwise manager rights are needed
	if callerID != userID {
		if err := s.communityService.CanManage(ctx, group.CommunityID, callerID, callerRole); err != nil {
			return err
		}
	}
	return s.groupRepo.RemoveMember(ctx, groupID, userID)
}

func (s *groupService) GetMembers(ctx context.Context, groupID, callerID int64, callerRole models.AppRole) ([]*models.GroupMember, error) {
	if _, err := s.GetByID(ctx, groupID, callerID, callerRole); err != nil {
		return nil, err
	}
	return s.groupRepo.GetMembers(ctx, groupID)
}

// CheckGroupAccess implements websocket.AccessChecker
func (s *groupService) CheckGroupAccess(ctx context.Context, groupID, userID int64) (*websocket.GroupAccess, error) {
	isMember, err := s.groupRepo.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return &websocket.GroupAccess{}, nil
	}

	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	access := &websocket.GroupAccess{
		IsMember: true,
		CanPost:  group.CanPost(user.Role),
	}
	if user.Profile != nil {
		access.SenderName = user.Profile.FullName
	}
	return access, nil
}

func toRoles(values []string) []models.AppRole {
	if len(values) == 0 {
		return nil
	}
	roles := make([]models.AppRole, len(values))
	for i, v := range values {
		roles[i] = models.AppRole(v)
	}
	return roles
}
