package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/proske/proske-backend/internal/app/models"
	"github.com/proske/proske-backend/internal/app/models/dto"
	"github.com/proske/proske-backend/internal/app/repositories"
	"github.com/proske/proske-backend/internal/pkg/apperrors"
)

// PaymentService manages the payment ledger. All mutating operations
// are restricted to teachers and admins; students can only list their
// own rows.
type PaymentService interface {
	Create(ctx context.Context, callerRole models.AppRole, req *dto.CreatePaymentRequest) (*models.Payment, error)
	Get(ctx context.Context, callerID int64, callerRole models.AppRole, paymentID int64) (*models.Payment, error)
	List(ctx context.Context, callerID int64, callerRole models.AppRole, filter *dto.PaymentFilterRequest) ([]*models.Payment, int64, error)
	UpdateStatus(ctx context.Context, callerRole models.AppRole, paymentID int64, req *dto.UpdatePaymentStatusRequest) (*models.Payment, error)
	Summary(ctx context.Context, callerRole models.AppRole, from, to *time.Time) (*models.FinancialSummary, error)
	Delete(ctx context.Context, callerRole models.AppRole, paymentID int64) error

	// MarkOverdue is the scheduled sweep entry point
	MarkOverdue(ctx context.Context) (int64, error)
}

type paymentService struct {
	paymentRepo *repositories.PaymentRepository
	logger      zerolog.Logger
	now         func() time.Time
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(paymentRepo *repositories.PaymentRepository, logger zerolog.Logger) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// Create records a pending payment obligation
func (s *paymentService) Create(ctx context.Context, callerRole models.AppRole, req *dto.CreatePaymentRequest) (*models.Payment, error) {
	if err := requirePlanManager(callerRole); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		UserID:      req.UserID,
		PlanID:      req.PlanID,
		CommunityID: req.CommunityID,
		Amount:      req.Amount,
		Fees:        req.Fees,
		DueDate:     req.DueDate,
		Notes:       req.Notes,
	}
	id, err := s.paymentRepo.Create(ctx, payment)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("paymentID", id).Int64("userID", req.UserID).Msg("Payment created")
	return s.paymentRepo.GetByID(ctx, id)
}

// Get returns a payment to its owner or a ledger manager
func (s *paymentService) Get(ctx context.Context, callerID int64, callerRole models.AppRole, paymentID int64) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.UserID != callerID {
		if err := requirePlanManager(callerRole); err != nil {
			return nil, err
		}
	}
	return payment, nil
}

// List returns ledger rows. Students are pinned to their own rows
// regardless of the requested user filter.
func (s *paymentService) List(ctx context.Context, callerID int64, callerRole models.AppRole, filter *dto.PaymentFilterRequest) ([]*models.Payment, int64, error) {
	userFilter := filter.UserID
	if requirePlanManager(callerRole) != nil {
		userFilter = &callerID
	}
	return s.paymentRepo.List(ctx, filter.Status, userFilter, filter.From, filter.To, filter.Page, filter.PageSize)
}

// UpdateStatus moves a payment through its lifecycle. A confirmed or
// cancelled payment is final.
func (s *paymentService) UpdateStatus(ctx context.Context, callerRole models.AppRole, paymentID int64, req *dto.UpdatePaymentStatusRequest) (*models.Payment, error) {
	if err := requirePlanManager(callerRole); err != nil {
		return nil, err
	}

	status := models.PaymentStatus(req.Status)
	if !models.ValidPaymentStatus(status) {
		return nil, apperrors.ErrInvalidStatusChange
	}

	current, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if current.Status == models.PaymentConfirmed || current.Status == models.PaymentCancelled {
		if current.Status != status {
			return nil, apperrors.ErrInvalidStatusChange
		}
	}

	updated, err := s.paymentRepo.UpdateStatus(ctx, paymentID, status, req.AmountPaid, req.Notes, s.now())
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("paymentID", paymentID).
		Str("status", string(status)).
		Msg("Payment status updated")
	return updated, nil
}

// Summary folds the ledger into per-status totals for the given window
func (s *paymentService) Summary(ctx context.Context, callerRole models.AppRole, from, to *time.Time) (*models.FinancialSummary, error) {
	if err := requirePlanManager(callerRole); err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.ListAllForSummary(ctx, from, to)
	if err != nil {
		return nil, err
	}
	summary := models.SummarizePayments(payments)
	return &summary, nil
}

func (s *paymentService) Delete(ctx context.Context, callerRole models.AppRole, paymentID int64) error {
	if err := requirePlanManager(callerRole); err != nil {
		return err
	}
	return s.paymentRepo.Delete(ctx, paymentID)
}

// MarkOverdue flips pending payments past due to overdue
func (s *paymentService) MarkOverdue(ctx context.Context) (int64, error) {
	count, err := s.paymentRepo.MarkOverdue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.logger.Info().Int64("count", count).Msg("Marked overdue payments")
	}
	return count, nil
}
