package dto

// CreatePlanRequest defines a new subscription plan
type CreatePlanRequest struct {
	Name             string  `json:"name" binding:"required,min=2,max=100"`
	Description      *string `json:"description" binding:"omitempty,max=1000"`
	Price            float64 `json:"price" binding:"min=0"`
	CorrectionsLimit int     `json:"correctionsLimit" binding:"omitempty,min=0"`
	MonitoringsLimit int     `json:"monitoringsLimit" binding:"omitempty,min=0"`
	PeriodDays       int     `json:"periodDays" binding:"omitempty,min=1,max=3650"`
	DefaultGroupIDs  []int64 `json:"defaultGroupIds" binding:"omitempty,dive,min=1"`
}

// UpdatePlanRequest is the payload for plan edits
type UpdatePlanRequest struct {
	Name             *string  `json:"name" binding:"omitempty,min=2,max=100"`
	Description      *string  `json:"description" binding:"omitempty,max=1000"`
	Price            *float64 `json:"price" binding:"omitempty,min=0"`
	CorrectionsLimit *int     `json:"correctionsLimit" binding:"omitempty,min=0"`
	MonitoringsLimit *int     `json:"monitoringsLimit" binding:"omitempty,min=0"`
	PeriodDays       *int     `json:"periodDays" binding:"omitempty,min=1,max=3650"`
	IsActive         *bool    `json:"isActive"`
	DefaultGroupIDs  []int64  `json:"defaultGroupIds" binding:"omitempty,dive,min=1"`
}

// AssignPlanRequest activates a plan for a user, replacing any active
// subscription and joining the plan's default groups.
type AssignPlanRequest struct {
	UserID int64 `json:"userId" binding:"required,min=1"`
	PlanID int64 `json:"planId" binding:"required,min=1"`
}
