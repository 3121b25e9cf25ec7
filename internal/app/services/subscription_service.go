package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/proske/proske-backend/internal/app/models"
	"github.com/proske/proske-backend/internal/app/models/dto"
	"github.com/proske/proske-backend/internal/pkg/apperrors"
)

// SubscriptionStore is the persistence surface the subscription service
// needs. *repositories.SubscriptionRepository satisfies it.
type SubscriptionStore interface {
	CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) (int64, error)
	GetPlanByID(ctx context.Context, id int64) (*models.SubscriptionPlan, error)
	ListPlans(ctx context.Context, onlyActive bool) ([]*models.SubscriptionPlan, error)
	UpdatePlan(ctx context.Context, id int64, name, description *string, price *float64, correctionsLimit, monitoringsLimit, periodDays *int, isActive *bool, defaultGroupIDs []int64) error

	GetActiveSubscription(ctx context.Context, userID int64) (*models.UserSubscription, error)
	ListSubscriptions(ctx context.Context, userID int64) ([]*models.UserSubscription, error)
	AssignPlanTx(ctx context.Context, userID int64, plan *models.SubscriptionPlan, now time.Time) (*models.UserSubscription, error)
	CancelSubscription(ctx context.Context, userID int64) error
	ExpireLapsed(ctx context.Context, now time.Time) (int64, error)
}

// GroupFinder resolves group existence for plan default-group checks
type GroupFinder interface {
	GetByID(ctx context.Context, id int64) (*models.Group, error)
}

// SubscriptionService manages plans and user subscriptions
type SubscriptionService interface {
	CreatePlan(ctx context.Context, callerRole models.AppRole, req *dto.CreatePlanRequest) (*models.SubscriptionPlan, error)
	GetPlan(ctx context.Context, planID int64) (*models.SubscriptionPlan, error)
	ListPlans(ctx context.Context, callerRole models.AppRole) ([]*models.SubscriptionPlan, error)
	UpdatePlan(ctx context.Context, callerRole models.AppRole, planID int64, req *dto.UpdatePlanRequest) (*models.SubscriptionPlan, error)

	AssignPlan(ctx context.Context, callerRole models.AppRole, req *dto.AssignPlanRequest) (*models.UserSubscription, error)
	Cancel(ctx context.Context, callerRole models.AppRole, userID int64) error
	GetActive(ctx context.Context, userID int64) (*models.UserSubscription, error)
	ListForUser(ctx context.Context, userID int64) ([]*models.UserSubscription, error)
	ExpireLapsed(ctx context.Context) (int64, error)
}

type subscriptionService struct {
	store  SubscriptionStore
	groups GroupFinder
	logger zerolog.Logger
	now    func() time.Time
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(store SubscriptionStore, groups GroupFinder, logger zerolog.Logger) SubscriptionService {
	return &subscriptionService{
		store:  store,
		groups: groups,
		logger: logger,
		now:    time.Now,
	}
}

// CreatePlan defines a new plan. Teachers and admins only; every listed
// default group must exist.
func (s *subscriptionService) CreatePlan(ctx context.Context, callerRole models.AppRole, req *dto.CreatePlanRequest) (*models.SubscriptionPlan, error) {
	if err := requirePlanManager(callerRole); err != nil {
		return nil, err
	}
	if err := s.checkGroupsExist(ctx, req.DefaultGroupIDs); err != nil {
		return nil, err
	}

	plan := &models.SubscriptionPlan{
		Name:             req.Name,
		Description:      req.Description,
		Price:            req.Price,
		CorrectionsLimit: req.CorrectionsLimit,
		MonitoringsLimit: req.MonitoringsLimit,
		PeriodDays:       req.PeriodDays,
		DefaultGroupIDs:  req.DefaultGroupIDs,
	}
	id, err := s.store.CreatePlan(ctx, plan)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("planID", id).Str("name", req.Name).Msg("Subscription plan created")
	return s.store.GetPlanByID(ctx, id)
}

func (s *subscriptionService) GetPlan(ctx context.Context, planID int64) (*models.SubscriptionPlan, error) {
	return s.store.GetPlanByID(ctx, planID)
}

// ListPlans returns all plans for managers and only active plans for
// everyone else.
func (s *subscriptionService) ListPlans(ctx context.Context, callerRole models.AppRole) ([]*models.SubscriptionPlan, error) {
	onlyActive := requirePlanManager(callerRole) != nil
	return s.store.ListPlans(ctx, onlyActive)
}

func (s *subscriptionService) UpdatePlan(ctx context.Context, callerRole models.AppRole, planID int64, req *dto.UpdatePlanRequest) (*models.SubscriptionPlan, error) {
	if err := requirePlanManager(callerRole); err != nil {
		return nil, err
	}
	if err := s.checkGroupsExist(ctx, req.DefaultGroupIDs); err != nil {
		return nil, err
	}

	err := s.store.UpdatePlan(ctx, planID,
		req.Name, req.Description, req.Price,
		req.CorrectionsLimit, req.MonitoringsLimit, req.PeriodDays,
		req.IsActive, req.DefaultGroupIDs,
	)
	if err != nil {
		return nil, err
	}
	return s.store.GetPlanByID(ctx, planID)
}

// AssignPlan activates a plan for a user. Any existing active
// subscription is cancelled in the same transaction and the plan's
// default groups are joined idempotently.
func (s *subscriptionService) AssignPlan(ctx context.Context, callerRole models.AppRole, req *dto.AssignPlanRequest) (*models.UserSubscription, error) {
	if err := requirePlanManager(callerRole); err != nil {
		return nil, err
	}

	plan, err := s.store.GetPlanByID(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, apperrors.NewBadRequestError("plan is not active")
	}

	sub, err := s.store.AssignPlanTx(ctx, req.UserID, plan, s.now())
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("userID", req.UserID).
		Int64("planID", req.PlanID).
		Int64("subscriptionID", sub.ID).
		Msg("Plan assigned")
	sub.Plan = plan
	return sub, nil
}

// Cancel ends a user's active subscription
func (s *subscriptionService) Cancel(ctx context.Context, callerRole models.AppRole, userID int64) error {
	if err := requirePlanManager(callerRole); err != nil {
		return err
	}
	return s.store.CancelSubscription(ctx, userID)
}

func (s *subscriptionService) GetActive(ctx context.Context, userID int64) (*models.UserSubscription, error) {
	sub, err := s.store.GetActiveSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperrors.ErrSubscriptionNotFound
	}
	plan, err := s.store.GetPlanByID(ctx, sub.PlanID)
	if err == nil {
		sub.Plan = plan
	}
	return sub, nil
}

func (s *subscriptionService) ListForUser(ctx context.Context, userID int64) ([]*models.UserSubscription, error) {
	return s.store.ListSubscriptions(ctx, userID)
}

// ExpireLapsed transitions active subscriptions past their end date.
// Called from the scheduled sweep.
func (s *subscriptionService) ExpireLapsed(ctx context.Context) (int64, error) {
	count, err := s.store.ExpireLapsed(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.logger.Info().Int64("count", count).Msg("Expired lapsed subscriptions")
	}
	return count, nil
}

func (s *subscriptionService) checkGroupsExist(ctx context.Context, groupIDs []int64) error {
	for _, id := range groupIDs {
		if _, err := s.groups.GetByID(ctx, id); err != nil {
			return apperrors.NewBadRequestError("default group does not exist")
		}
	}
	return nil
}

func requirePlanManager(role models.AppRole) error {
	if role != models.RoleTeacher && role != models.RoleAdmin {
		return apperrors.ErrPermissionDenied
	}
	return nil
}
