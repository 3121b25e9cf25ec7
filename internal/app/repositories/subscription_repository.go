package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/proske/proske-backend/internal/app/models"
	"github.com/proske/proske-backend/internal/pkg/apperrors"
)

// SubscriptionRepository handles plans, their default groups and user
// subscriptions.
type SubscriptionRepository struct {
	db *pgxpool.Pool
}

// NewSubscriptionRepository creates a new SubscriptionRepository
func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// CreatePlan inserts a plan with its default-group links
func (r *SubscriptionRepository) CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO subscription_plans
			(name, description, price, corrections_limit, monitorings_limit, period_days, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		RETURNING id
	`,
		plan.Name, plan.Description, plan.Price,
		plan.CorrectionsLimit, plan.MonitoringsLimit, plan.PeriodDays,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert plan: %w", err)
	}

	for _, groupID := range plan.DefaultGroupIDs {
		_, err = tx.Exec(ctx, `
			INSERT INTO plan_default_groups (plan_id, group_id)
			VALUES ($1, $2)
			ON CONFLICT (plan_id, group_id) DO NOTHING
		`, id, groupID)
		if err != nil {
			return 0, fmt.Errorf("failed to link default group: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

// GetPlanByID retrieves a plan with its default group IDs
func (r *SubscriptionRepository) GetPlanByID(ctx context.Context, id int64) (*models.SubscriptionPlan, error) {
	var p models.SubscriptionPlan
	err := r.db.QueryRow(ctx, `
		SELECT id, name, description, price, corrections_limit, monitorings_limit,
			period_days, is_active, created_at
		FROM subscription_plans
		WHERE id = $1
	`, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.CorrectionsLimit,
		&p.MonitoringsLimit, &p.PeriodDays, &p.IsActive, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	groupIDs, err := r.GetDefaultGroupIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	p.DefaultGroupIDs = groupIDs
	return &p, nil
}

// ListPlans returns plans, optionally only active ones
func (r *SubscriptionRepository) ListPlans(ctx context.Context, onlyActive bool) ([]*models.SubscriptionPlan, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, description, price, corrections_limit, monitorings_limit,
			period_days, is_active, created_at
		FROM subscription_plans
		WHERE NOT $1 OR is_active
		ORDER BY id
	`, onlyActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	plans := []*models.SubscriptionPlan{}
	for rows.Next() {
		var p models.SubscriptionPlan
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Price, &p.CorrectionsLimit,
			&p.MonitoringsLimit, &p.PeriodDays, &p.IsActive, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, &p)
	}
	return plans, rows.Err()
}

// UpdatePlan applies a partial plan update and, when defaultGroupIDs is
// non-nil, replaces the default-group links.
func (r *SubscriptionRepository) UpdatePlan(ctx context.Context, id int64, name, description *string, price *float64, correctionsLimit, monitoringsLimit, periodDays *int, isActive *bool, defaultGroupIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE subscription_plans SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			price = COALESCE($4, price),
			corrections_limit = COALESCE($5, corrections_limit),
			monitorings_limit = COALESCE($6, monitorings_limit),
			period_days = COALESCE($7, period_days),
			is_active = COALESCE($8, is_active)
		WHERE id = $1
	`, id, name, description, price, correctionsLimit, monitoringsLimit, periodDays, isActive)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPlanNotFound
	}

	if defaultGroupIDs != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM plan_default_groups WHERE plan_id = $1`, id); err != nil {
			return fmt.Errorf("failed to clear default groups: %w", err)
		}
		for _, groupID := range defaultGroupIDs {
			if _, err := tx.Exec(ctx, `
				INSERT INTO plan_default_groups (plan_id, group_id) VALUES ($1, $2)
			`, id, groupID); err != nil {
				return fmt.Errorf("failed to link default group: %w", err)
			}
		}
	}

	return tx.Commit(ctx)
}

// GetDefaultGroupIDs returns the groups a plan auto-joins on activation
func (r *SubscriptionRepository) GetDefaultGroupIDs(ctx context.Context, planID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT group_id FROM plan_default_groups WHERE plan_id = $1 ORDER BY group_id
	`, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to list default groups: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan group id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetActiveSubscription returns the user's single active subscription,
// nil when there is none.
func (r *SubscriptionRepository) GetActiveSubscription(ctx context.Context, userID int64) (*models.UserSubscription, error) {
	var s models.UserSubscription
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, plan_id, status, started_at, ends_at, created_at
		FROM user_subscriptions
		WHERE user_id = $1 AND status = 'active'
	`, userID).Scan(&s.ID, &s.UserID, &s.PlanID, &s.Status, &s.StartedAt, &s.EndsAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}
	return &s, nil
}

// ListSubscriptions returns a user's subscription history, newest first
func (r *SubscriptionRepository) ListSubscriptions(ctx context.Context, userID int64) ([]*models.UserSubscription, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.id, s.user_id, s.plan_id, s.status, s.started_at, s.ends_at, s.created_at,
			p.name, p.price, p.period_days
		FROM user_subscriptions s
		JOIN subscription_plans p ON p.id = s.plan_id
		WHERE s.user_id = $1
		ORDER BY s.id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	subs := []*models.UserSubscription{}
	for rows.Next() {
		var s models.UserSubscription
		var plan models.SubscriptionPlan
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.PlanID, &s.Status, &s.StartedAt, &s.EndsAt, &s.CreatedAt,
			&plan.Name, &plan.Price, &plan.PeriodDays,
		); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		plan.ID = s.PlanID
		s.Plan = &plan
		subs = append(subs, &s)
	}
	return subs, rows.Err()
}

// AssignPlanTx atomically replaces the user's active subscription and
// provisions the plan's default group memberships. The partial unique
// index on (user_id) WHERE status='active' backs the single-active
// invariant; the membership upserts make re-assignment idempotent.
func (r *SubscriptionRepository) AssignPlanTx(ctx context.Context, userID int64, plan *models.SubscriptionPlan, now time.Time) (*models.UserSubscription, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE user_subscriptions SET status = 'cancelled'
		WHERE user_id = $1 AND status = 'active'
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel active subscription: %w", err)
	}

	var endsAt *time.Time
	if plan.PeriodDays > 0 {
		t := now.AddDate(0, 0, plan.PeriodDays)
		endsAt = &t
	}

	var sub models.UserSubscription
	err = tx.QueryRow(ctx, `
		INSERT INTO user_subscriptions (user_id, plan_id, status, started_at, ends_at)
		VALUES ($1, $2, 'active', $3, $4)
		RETURNING id, user_id, plan_id, status, started_at, ends_at, created_at
	`, userID, plan.ID, now, endsAt).Scan(
		&sub.ID, &sub.UserID, &sub.PlanID, &sub.Status, &sub.StartedAt, &sub.EndsAt, &sub.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert subscription: %w", err)
	}

	for _, groupID := range plan.DefaultGroupIDs {
		_, err = tx.Exec(ctx, `
			INSERT INTO group_members (group_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT (group_id, user_id) DO NOTHING
		`, groupID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to provision group membership: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &sub, nil
}

// CancelSubscription cancels the user's active subscription
func (r *SubscriptionRepository) CancelSubscription(ctx context.Context, userID int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE user_subscriptions SET status = 'cancelled'
		WHERE user_id = $1 AND status = 'active'
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to cancel subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSubscriptionNotFound
	}
	return nil
}

// ExpireLapsed marks active subscriptions past their end date expired,
// returning the count. Run from the scheduled sweep.
func (r *SubscriptionRepository) ExpireLapsed(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE user_subscriptions SET status = 'expired'
		WHERE status = 'active' AND ends_at IS NOT NULL AND ends_at < $1
	`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire subscriptions: %w", err)
	}
	return tag.RowsAffected(), nil
}
