package models

import "time"

// PaymentStatus is the payment state enum. Part of the durable contract.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentConfirmed PaymentStatus = "confirmed"
	PaymentOverdue   PaymentStatus = "overdue"
	PaymentCancelled PaymentStatus = "cancelled"
)

// ValidPaymentStatus reports whether the given value is a declared payment status.
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentConfirmed, PaymentOverdue, PaymentCancelled:
		return true
	}
	return false
}

// Payment is a ledger record for a user, optionally tied to a plan and community
type Payment struct {
	ID          int64         `json:"id" db:"id"`
	UserID      int64         `json:"userId" db:"user_id"`
	PlanID      *int64        `json:"planId,omitempty" db:"plan_id"`
	CommunityID *int64        `json:"communityId,omitempty" db:"community_id"`
	Amount      float64       `json:"amount" db:"amount"`
	AmountPaid  float64       `json:"amountPaid" db:"amount_paid"`
	Fees        float64       `json:"fees" db:"fees"`
	Status      PaymentStatus `json:"status" db:"status"`
	DueDate     time.Time     `json:"dueDate" db:"due_date"`
	PaidAt      *time.Time    `json:"paidAt,omitempty" db:"paid_at"`
	Notes       *string       `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time     `json:"updatedAt" db:"updated_at"`

	User *User `json:"user,omitempty"`
}

// FinancialSummary aggregates payment totals per status
type FinancialSummary struct {
	PendingTotal   float64 `json:"pendingTotal"`
	ConfirmedTotal float64 `json:"confirmedTotal"`
	OverdueTotal   float64 `json:"overdueTotal"`
	CancelledTotal float64 `json:"cancelledTotal"`
	FeesTotal      float64 `json:"feesTotal"`
	PaymentCount   int64   `json:"paymentCount"`
}

// SummarizePayments folds a payment list into per-status totals. Confirmed
// totals count what was actually paid; the other buckets count face value.
func SummarizePayments(payments []*Payment) FinancialSummary {
	var summary FinancialSummary
	for _, p := range payments {
		summary.PaymentCount++
		summary.FeesTotal += p.Fees
		switch p.Status {
		case PaymentPending:
			summary.PendingTotal += p.Amount
		case PaymentConfirmed:
			summary.ConfirmedTotal += p.AmountPaid
		case PaymentOverdue:
			summary.OverdueTotal += p.Amount
		case PaymentCancelled:
			summary.CancelledTotal += p.Amount
		}
	}
	return summary
}
