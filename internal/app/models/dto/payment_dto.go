package dto

import "time"

// CreatePaymentRequest records a payment obligation for a user
type CreatePaymentRequest struct {
	UserID      int64     `json:"userId" binding:"required,min=1"`
	PlanID      *int64    `json:"planId" binding:"omitempty,min=1"`
	CommunityID *int64    `json:"communityId" binding:"omitempty,min=1"`
	Amount      float64   `json:"amount" binding:"required,gt=0"`
	Fees        float64   `json:"fees" binding:"omitempty,min=0"`
	DueDate     time.Time `json:"dueDate" binding:"required"`
	Notes       *string   `json:"notes" binding:"omitempty,max=1000"`
}

// UpdatePaymentStatusRequest moves a payment through its lifecycle
type UpdatePaymentStatusRequest struct {
	Status     string   `json:"status" binding:"required,oneof=pending confirmed overdue cancelled"`
	AmountPaid *float64 `json:"amountPaid" binding:"omitempty,min=0"`
	Notes      *string  `json:"notes" binding:"omitempty,max=1000"`
}

// PaymentFilterRequest carries list filters for the payment ledger
type PaymentFilterRequest struct {
	Status   string     `form:"status" binding:"omitempty,oneof=pending confirmed overdue cancelled"`
	UserID   *int64     `form:"userId" binding:"omitempty,min=1"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"pageSize" binding:"omitempty,min=1,max=100"`
}
