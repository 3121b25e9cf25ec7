package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/proske/proske-backend/internal/app/models"
	"github.com/proske/proske-backend/internal/app/repositories"
	"github.com/proske/proske-backend/internal/pkg/apperrors"
	"github.com/proske/proske-backend/internal/pkg/websocket"
)

// ChatService handles message history and delivery. REST sends persist
// then broadcast; websocket sends are persisted through SaveIncoming.
type ChatService interface {
	SendMessage(ctx context.Context, groupID, senderID int64, senderRole models.AppRole, content string) (*models.Message, error)
	Announce(ctx context.Context, groupID, senderID int64, content string, payload *models.MessagePayload) (*models.Message, error)
	ListGroupMessages(ctx context.Context, groupID, callerID int64, callerRole models.AppRole, before *int64, page, pageSize int) ([]*models.Message, int64, error)
	ListCommunityFeed(ctx context.Context, communityID, callerID int64, callerRole models.AppRole, page, pageSize int) ([]*models.Message, int64, error)
	DeleteMessage(ctx context.Context, messageID, callerID int64, callerRole models.AppRole) error

	// SaveIncoming implements websocket.MessageStore
	SaveIncoming(ctx context.Context, msg *websocket.Message) (int64, error)
}

type chatService struct {
	messageRepo      *repositories.MessageRepository
	groupRepo        *repositories.GroupRepository
	userRepo         *repositories.UserRepository
	communityService CommunityService
	hub              *websocket.Hub
	logger           zerolog.Logger
}

// NewChatService creates a new ChatService
func NewChatService(
	messageRepo *repositories.MessageRepository,
	groupRepo *repositories.GroupRepository,
	userRepo *repositories.UserRepository,
	communityService CommunityService,
	hub *websocket.Hub,
	logger zerolog.Logger,
) ChatService {
	return &chatService{
		messageRepo:      messageRepo,
		groupRepo:        groupRepo,
		userRepo:         userRepo,
		communityService: communityService,
		hub:              hub,
		logger:           logger,
	}
}

// SendMessage posts a plain message after membership and policy checks
func (s *chatService) SendMessage(ctx context.Context, groupID, senderID int64, senderRole models.AppRole, content string) (*models.Message, error) {
	group, err := s.requirePoster(ctx, groupID, senderID, senderRole)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		GroupID:     groupID,
		CommunityID: group.CommunityID,
		SenderID:    senderID,
		Content:     content,
	}
	id, err := s.messageRepo.Create(ctx, msg)
	if err != nil {
		return nil, err
	}

	saved, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.broadcast(ctx, saved, models.MessageKindPlain)
	return saved, nil
}

// Announce posts a system-generated message with a typed payload, used
// for task lifecycle notifications. Policy checks do not apply; the
// sender is the acting teacher or student and the payload is trusted.
func (s *chatService) Announce(ctx context.Context, groupID, senderID int64, content string, payload *models.MessagePayload) (*models.Message, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	metadata, err := models.EncodePayload(payload)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		GroupID:     groupID,
		CommunityID: group.CommunityID,
		SenderID:    senderID,
		Content:     content,
		Metadata:    metadata,
	}
	id, err := s.messageRepo.Create(ctx, msg)
	if err != nil {
		return nil, err
	}

	saved, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	kind := models.MessageKindPlain
	if payload != nil {
		kind = payload.Kind
	}
	s.broadcast(ctx, saved, kind)
	return saved, nil
}

func (s *chatService) ListGroupMessages(ctx context.Context, groupID, callerID int64, callerRole models.AppRole, before *int64, page, pageSize int) ([]*models.Message, int64, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, 0, err
	}
	if err := s.requireReader(ctx, group, callerID, callerRole); err != nil {
		return nil, 0, err
	}
	return s.messageRepo.ListByGroup(ctx, groupID, before, page, pageSize)
}

// ListCommunityFeed returns the cross-group feed, restricted to
// community managers since it spans hidden groups.
func (s *chatService) ListCommunityFeed(ctx context.Context, communityID, callerID int64, callerRole models.AppRole, page, pageSize int) ([]*models.Message, int64, error) {
	if err := s.communityService.CanManage(ctx, communityID, callerID, callerRole); err != nil {
		return nil, 0, err
	}
	return s.messageRepo.ListByCommunity(ctx, communityID, page, pageSize)
}

// DeleteMessage removes a message. Senders may delete their own;
// community managers may delete any.
func (s *chatService) DeleteMessage(ctx context.Context, messageID, callerID int64, callerRole models.AppRole) error {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != callerID {
		if err := s.communityService.CanManage(ctx, msg.CommunityID, callerID, callerRole); err != nil {
			return err
		}
	}
	return s.messageRepo.Delete(ctx, messageID)
}

// SaveIncoming persists a message that arrived over the websocket. The
// hub already broadcast it; only storage happens here.
func (s *chatService) SaveIncoming(ctx context.Context, msg *websocket.Message) (int64, error) {
	group, err := s.groupRepo.GetByID(ctx, msg.GroupID)
	if err != nil {
		return 0, err
	}
	return s.messageRepo.Create(ctx, &models.Message{
		GroupID:     msg.GroupID,
		CommunityID: group.CommunityID,
		SenderID:    msg.SenderID,
		Content:     msg.Content,
	})
}

func (s *chatService) requirePoster(ctx context.Context, groupID, senderID int64, senderRole models.AppRole) (*models.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	isMember, err := s.groupRepo.IsMember(ctx, groupID, senderID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, apperrors.ErrNotGroupMember
	}
	if !group.CanPost(senderRole) {
		return nil, apperrors.ErrMessagingOff
	}
	return group, nil
}

func (s *chatService) requireReader(ctx context.Context, group *models.Group, callerID int64, callerRole models.AppRole) error {
	isMember, err := s.groupRepo.IsMember(ctx, group.ID, callerID)
	if err != nil {
		return err
	}
	if isMember {
		return nil
	}
	// Non-members can read only if they manage the community
	return s.communityService.CanManage(ctx, group.CommunityID, callerID, callerRole)
}

func (s *chatService) broadcast(ctx context.Context, msg *models.Message, kind models.MessageKind) {
	senderName := ""
	if user, err := s.userRepo.GetByID(ctx, msg.SenderID); err == nil && user.Profile != nil {
		senderName = user.Profile.FullName
	}

	s.hub.BroadcastToGroup(&websocket.Message{
		ID:          msg.ID,
		GroupID:     msg.GroupID,
		CommunityID: msg.CommunityID,
		SenderID:    msg.SenderID,
		SenderName:  senderName,
		Content:     msg.Content,
		Kind:        string(kind),
		Metadata:    msg.Metadata,
		Timestamp:   time.Now(),
	})
}
