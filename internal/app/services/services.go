package services

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/proske/proske-backend/internal/app/repositories"
	"github.com/proske/proske-backend/internal/config"
	"github.com/proske/proske-backend/internal/pkg/auth"
	"github.com/proske/proske-backend/internal/pkg/email"
	"github.com/proske/proske-backend/internal/pkg/filestorage"
	"github.com/proske/proske-backend/internal/pkg/websocket"
)

// Services bundles every application service for dependency injection
type Services struct {
	Auth         AuthService
	Profile      ProfileService
	Community    CommunityService
	Invite       InviteService
	Group        GroupService
	Chat         ChatService
	Course       CourseService
	Progress     ProgressService
	Event        EventService
	Submission   SubmissionService
	Subscription SubscriptionService
	Payment      PaymentService
	Tag          TagService
}

// NewServices wires the service layer over the repositories
func NewServices(
	repos *repositories.Repositories,
	jwtService *auth.JWTService,
	emails email.EmailService,
	storage filestorage.FileStorage,
	hub *websocket.Hub,
	cfg *config.Config,
	logger zerolog.Logger,
) *Services {
	communityService := NewCommunityService(repos.Community, storage, logger)
	chatService := NewChatService(repos.Message, repos.Group, repos.User, communityService, hub, logger)

	return &Services{
		Auth:      NewAuthService(repos.User, repos.Token, jwtService, emails, logger),
		Profile:   NewProfileService(repos.User, storage, logger),
		Community: communityService,
		Invite: NewInviteService(
			repos.Invite, repos.Community, communityService,
			time.Duration(cfg.Invites.DefaultExpiryHours)*time.Hour, logger,
		),
		Group:        NewGroupService(repos.Group, repos.User, communityService, logger),
		Chat:         chatService,
		Course:       NewCourseService(repos.Course, communityService, logger),
		Progress:     NewProgressService(repos.Progress, repos.Course, communityService, logger),
		Event:        NewEventService(repos.Event, communityService, logger),
		Submission:   NewSubmissionService(repos.Submission, communityService, chatService, logger),
		Subscription: NewSubscriptionService(repos.Subscription, repos.Group, logger),
		Payment:      NewPaymentService(repos.Payment, logger),
		Tag:          NewTagService(repos.Tag, logger),
	}
}
