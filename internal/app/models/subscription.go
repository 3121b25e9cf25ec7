package models

import "time"

// SubscriptionStatus is the lifecycle state of a user subscription
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

// SubscriptionPlan is a priced offering with usage limits per period
type SubscriptionPlan struct {
	ID               int64     `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Description      *string   `json:"description,omitempty" db:"description"`
	Price            float64   `json:"price" db:"price"`
	CorrectionsLimit int       `json:"correctionsLimit" db:"corrections_limit"`
	MonitoringsLimit int       `json:"monitoringsLimit" db:"monitorings_limit"`
	PeriodDays       int       `json:"periodDays" db:"period_days"`
	IsActive         bool      `json:"isActive" db:"is_active"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`

	// DefaultGroupIDs are the groups auto-joined when this plan activates
	DefaultGroupIDs []int64 `json:"defaultGroupIds,omitempty"`
}

// UserSubscription is a user's time-bounded enrollment in a plan.
// A partial unique index guarantees at most one active row per user.
type UserSubscription struct {
	ID        int64              `json:"id" db:"id"`
	UserID    int64              `json:"userId" db:"user_id"`
	PlanID    int64              `json:"planId" db:"plan_id"`
	Status    SubscriptionStatus `json:"status" db:"status"`
	StartedAt time.Time          `json:"startedAt" db:"started_at"`
	EndsAt    *time.Time         `json:"endsAt,omitempty" db:"ends_at"`
	CreatedAt time.Time          `json:"createdAt" db:"created_at"`

	Plan *SubscriptionPlan `json:"plan,omitempty"`
}
