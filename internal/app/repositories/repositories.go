package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories bundles every repository over one shared pool
type Repositories struct {
	User         *UserRepository
	Token        *TokenRepository
	Community    *CommunityRepository
	Invite       *InviteRepository
	Group        *GroupRepository
	Message      *MessageRepository
	Course       *CourseRepository
	Progress     *ProgressRepository
	Event        *EventRepository
	Submission   *SubmissionRepository
	Subscription *SubscriptionRepository
	Payment      *PaymentRepository
	Tag          *TagRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Token:        NewTokenRepository(db),
		Community:    NewCommunityRepository(db),
		Invite:       NewInviteRepository(db),
		Group:        NewGroupRepository(db),
		Message:      NewMessageRepository(db),
		Course:       NewCourseRepository(db),
		Progress:     NewProgressRepository(db),
		Event:        NewEventRepository(db),
		Submission:   NewSubmissionRepository(db),
		Subscription: NewSubscriptionRepository(db),
		Payment:      NewPaymentRepository(db),
		Tag:          NewTagRepository(db),
	}
}
