package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proske/proske-backend/internal/app/models"
	"github.com/proske/proske-backend/internal/app/models/dto"
	"github.com/proske/proske-backend/internal/pkg/apperrors"
)

type fakeSubscriptionStore struct {
	plans  map[int64]*models.SubscriptionPlan
	active map[int64]*models.UserSubscription
	// memberships holds provisioned group members keyed by group then
	// user, mirroring the unique pair constraint on group_members
	memberships map[int64]map[int64]bool
	nextID      int64

	assignedAt   time.Time
	expiredCount int64
}

func newFakeSubscriptionStore() *fakeSubscriptionStore {
	return &fakeSubscriptionStore{
		plans:       make(map[int64]*models.SubscriptionPlan),
		active:      make(map[int64]*models.UserSubscription),
		memberships: make(map[int64]map[int64]bool),
		nextID:      1,
	}
}

func (f *fakeSubscriptionStore) membershipCount(userID int64) int {
	count := 0
	for _, members := range f.memberships {
		if members[userID] {
			count++
		}
	}
	return count
}

func (f *fakeSubscriptionStore) CreatePlan(_ context.Context, plan *models.SubscriptionPlan) (int64, error) {
	id := f.nextID
	f.nextID++
	stored := *plan
	stored.ID = id
	stored.IsActive = true
	f.plans[id] = &stored
	return id, nil
}

func (f *fakeSubscriptionStore) GetPlanByID(_ context.Context, id int64) (*models.SubscriptionPlan, error) {
	plan, ok := f.plans[id]
	if !ok {
		return nil, apperrors.ErrPlanNotFound
	}
	return plan, nil
}

func (f *fakeSubscriptionStore) ListPlans(_ context.Context, onlyActive bool) ([]*models.SubscriptionPlan, error) {
	var out []*models.SubscriptionPlan
	for _, plan := range f.plans {
		if onlyActive && !plan.IsActive {
			continue
		}
		out = append(out, plan)
	}
	return out, nil
}

func (f *fakeSubscriptionStore) UpdatePlan(_ context.Context, id int64, name, description *string, price *float64, correctionsLimit, monitoringsLimit, periodDays *int, isActive *bool, defaultGroupIDs []int64) error {
	plan, ok := f.plans[id]
	if !ok {
		return apperrors.ErrPlanNotFound
	}
	if name != nil {
		plan.Name = *name
	}
	if isActive != nil {
		plan.IsActive = *isActive
	}
	if defaultGroupIDs != nil {
		plan.DefaultGroupIDs = defaultGroupIDs
	}
	return nil
}

func (f *fakeSubscriptionStore) GetActiveSubscription(_ context.Context, userID int64) (*models.UserSubscription, error) {
	sub, ok := f.active[userID]
	if !ok || sub.Status != models.SubscriptionActive {
		return nil, nil
	}
	return sub, nil
}

func (f *fakeSubscriptionStore) ListSubscriptions(_ context.Context, userID int64) ([]*models.UserSubscription, error) {
	if sub, ok := f.active[userID]; ok {
		return []*models.UserSubscription{sub}, nil
	}
	return nil, nil
}

func (f *fakeSubscriptionStore) AssignPlanTx(_ context.Context, userID int64, plan *models.SubscriptionPlan, now time.Time) (*models.UserSubscription, error) {
	if existing, ok := f.active[userID]; ok {
		existing.Status = models.SubscriptionCancelled
	}
	f.assignedAt = now
	ends := now.AddDate(0, 0, plan.PeriodDays)
	sub := &models.UserSubscription{
		ID:        f.nextID,
		UserID:    userID,
		PlanID:    plan.ID,
		Status:    models.SubscriptionActive,
		StartedAt: now,
		EndsAt:    &ends,
	}
	f.nextID++
	f.active[userID] = sub

	for _, groupID := range plan.DefaultGroupIDs {
		if f.memberships[groupID] == nil {
			f.memberships[groupID] = make(map[int64]bool)
		}
		f.memberships[groupID][userID] = true
	}
	return sub, nil
}

func (f *fakeSubscriptionStore) CancelSubscription(_ context.Context, userID int64) error {
	sub, ok := f.active[userID]
	if !ok || sub.Status != models.SubscriptionActive {
		return apperrors.ErrSubscriptionNotFound
	}
	sub.Status = models.SubscriptionCancelled
	return nil
}

func (f *fakeSubscriptionStore) ExpireLapsed(_ context.Context, now time.Time) (int64, error) {
	var count int64
	for _, sub := range f.active {
		if sub.Status == models.SubscriptionActive && sub.EndsAt != nil && sub.EndsAt.Before(now) {
			sub.Status = models.SubscriptionExpired
			count++
		}
	}
	f.expiredCount = count
	return count, nil
}

type fakeGroupFinder struct {
	existing map[int64]bool
}

func (f *fakeGroupFinder) GetByID(_ context.Context, id int64) (*models.Group, error) {
	if !f.existing[id] {
		return nil, apperrors.ErrGroupNotFound
	}
	return &models.Group{ID: id}, nil
}

func newSubscriptionServiceForTest(store *fakeSubscriptionStore, groups *fakeGroupFinder, now time.Time) SubscriptionService {
	svc := NewSubscriptionService(store, groups, zerolog.Nop()).(*subscriptionService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestCreatePlanRequiresManager(t *testing.T) {
	svc := newSubscriptionServiceForTest(newFakeSubscriptionStore(), &fakeGroupFinder{}, time.Now())

	_, err := svc.CreatePlan(context.Background(), models.RoleStudent, &dto.CreatePlanRequest{Name: "Pro"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestCreatePlanRejectsMissingGroup(t *testing.T) {
	groups := &fakeGroupFinder{existing: map[int64]bool{1: true}}
	svc := newSubscriptionServiceForTest(newFakeSubscriptionStore(), groups, time.Now())

	_, err := svc.CreatePlan(context.Background(), models.RoleAdmin, &dto.CreatePlanRequest{
		Name:            "Pro",
		DefaultGroupIDs: []int64{1, 99},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestAssignPlanRejectsInactivePlan(t *testing.T) {
	store := newFakeSubscriptionStore()
	svc := newSubscriptionServiceForTest(store, &fakeGroupFinder{}, time.Now())

	plan, err := svc.CreatePlan(context.Background(), models.RoleAdmin, &dto.CreatePlanRequest{Name: "Pro", PeriodDays: 30})
	require.NoError(t, err)

	inactive := false
	_, err = svc.UpdatePlan(context.Background(), models.RoleAdmin, plan.ID, &dto.UpdatePlanRequest{IsActive: &inactive})
	require.NoError(t, err)

	_, err = svc.AssignPlan(context.Background(), models.RoleTeacher, &dto.AssignPlanRequest{UserID: 10, PlanID: plan.ID})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestAssignPlanReplacesActiveSubscription(t *testing.T) {
	store := newFakeSubscriptionStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newSubscriptionServiceForTest(store, &fakeGroupFinder{}, now)

	plan, err := svc.CreatePlan(context.Background(), models.RoleAdmin, &dto.CreatePlanRequest{Name: "Pro", PeriodDays: 30})
	require.NoError(t, err)

	first, err := svc.AssignPlan(context.Background(), models.RoleTeacher, &dto.AssignPlanRequest{UserID: 10, PlanID: plan.ID})
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionActive, first.Status)
	assert.Equal(t, now, store.assignedAt)
	require.NotNil(t, first.Plan)
	assert.Equal(t, plan.ID, first.Plan.ID)

	second, err := svc.AssignPlan(context.Background(), models.RoleTeacher, &dto.AssignPlanRequest{UserID: 10, PlanID: plan.ID})
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionActive, second.Status)
	assert.Equal(t, models.SubscriptionCancelled, first.Status)
}

func TestAssignPlanProvisionsDefaultGroupsOnce(t *testing.T) {
	store := newFakeSubscriptionStore()
	groups := &fakeGroupFinder{existing: map[int64]bool{1: true, 2: true}}
	svc := newSubscriptionServiceForTest(store, groups, time.Now())

	plan, err := svc.CreatePlan(context.Background(), models.RoleAdmin, &dto.CreatePlanRequest{
		Name:            "Pro",
		PeriodDays:      30,
		DefaultGroupIDs: []int64{1, 2},
	})
	require.NoError(t, err)

	_, err = svc.AssignPlan(context.Background(), models.RoleTeacher, &dto.AssignPlanRequest{UserID: 10, PlanID: plan.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, store.membershipCount(10))

	_, err = svc.AssignPlan(context.Background(), models.RoleTeacher, &dto.AssignPlanRequest{UserID: 10, PlanID: plan.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, store.membershipCount(10))
}

func TestGetActiveWithoutSubscription(t *testing.T) {
	svc := newSubscriptionServiceForTest(newFakeSubscriptionStore(), &fakeGroupFinder{}, time.Now())

	_, err := svc.GetActive(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrSubscriptionNotFound)
}

func TestListPlansHidesInactiveFromStudents(t *testing.T) {
	store := newFakeSubscriptionStore()
	svc := newSubscriptionServiceForTest(store, &fakeGroupFinder{}, time.Now())

	active, err := svc.CreatePlan(context.Background(), models.RoleAdmin, &dto.CreatePlanRequest{Name: "Pro"})
	require.NoError(t, err)

	retired, err := svc.CreatePlan(context.Background(), models.RoleAdmin, &dto.CreatePlanRequest{Name: "Legacy"})
	require.NoError(t, err)
	off := false
	_, err = svc.UpdatePlan(context.Background(), models.RoleAdmin, retired.ID, &dto.UpdatePlanRequest{IsActive: &off})
	require.NoError(t, err)

	studentView, err := svc.ListPlans(context.Background(), models.RoleStudent)
	require.NoError(t, err)
	require.Len(t, studentView, 1)
	assert.Equal(t, active.ID, studentView[0].ID)

	managerView, err := svc.ListPlans(context.Background(), models.RoleTeacher)
	require.NoError(t, err)
	assert.Len(t, managerView, 2)
}

func TestExpireLapsed(t *testing.T) {
	store := newFakeSubscriptionStore()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := newSubscriptionServiceForTest(store, &fakeGroupFinder{}, start)

	plan, err := svc.CreatePlan(context.Background(), models.RoleAdmin, &dto.CreatePlanRequest{Name: "Pro", PeriodDays: 30})
	require.NoError(t, err)
	_, err = svc.AssignPlan(context.Background(), models.RoleTeacher, &dto.AssignPlanRequest{UserID: 10, PlanID: plan.ID})
	require.NoError(t, err)

	later := start.AddDate(0, 0, 31)
	svc.(*subscriptionService).now = func() time.Time { return later }

	count, err := svc.ExpireLapsed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = svc.GetActive(context.Background(), 10)
	assert.Error(t, err)
}

func TestCancelRequiresManager(t *testing.T) {
	svc := newSubscriptionServiceForTest(newFakeSubscriptionStore(), &fakeGroupFinder{}, time.Now())

	err := svc.Cancel(context.Background(), models.RoleStudent, 10)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
