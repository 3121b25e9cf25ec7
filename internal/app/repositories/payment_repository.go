package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/proske/proske-backend/internal/app/models"
	"github.com/proske/proske-backend/internal/pkg/apperrors"
)

// PaymentRepository handles the payment ledger
type PaymentRepository struct {
	db  *pgxpool.Pool
	sql squirrel.StatementBuilderType
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{
		db:  db,
		sql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a pending payment
func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO payments
			(user_id, plan_id, community_id, amount, amount_paid, fees, status, due_date, notes)
		VALUES ($1, $2, $3, $4, 0, $5, 'pending', $6, $7)
		RETURNING id
	`, p.UserID, p.PlanID, p.CommunityID, p.Amount, p.Fees, p.DueDate, p.Notes).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert payment: %w", err)
	}
	return id, nil
}

// GetByID retrieves a payment
func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	var p models.Payment
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, plan_id, community_id, amount, amount_paid, fees,
			status, due_date, paid_at, notes, created_at, updated_at
		FROM payments
		WHERE id = $1
	`, id).Scan(
		&p.ID, &p.UserID, &p.PlanID, &p.CommunityID, &p.Amount, &p.AmountPaid, &p.Fees,
		&p.Status, &p.DueDate, &p.PaidAt, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &p, nil
}

// List returns ledger rows with optional status, user and due-date filters
func (r *PaymentRepository) List(ctx context.Context, status string, userID *int64, from, to *time.Time, page, pageSize int) ([]*models.Payment, int64, error) {
	builder := r.sql.Select(
		"p.id", "p.user_id", "p.plan_id", "p.community_id", "p.amount", "p.amount_paid",
		"p.fees", "p.status", "p.due_date", "p.paid_at", "p.notes", "p.created_at", "p.updated_at",
		"pr.full_name",
		"COUNT(*) OVER() AS total_count",
	).
		From("payments p").
		LeftJoin("profiles pr ON pr.user_id = p.user_id")

	if status != "" {
		builder = builder.Where(squirrel.Eq{"p.status": status})
	}
	if userID != nil {
		builder = builder.Where(squirrel.Eq{"p.user_id": *userID})
	}
	if from != nil {
		builder = builder.Where(squirrel.GtOrEq{"p.due_date": *from})
	}
	if to != nil {
		builder = builder.Where(squirrel.LtOrEq{"p.due_date": *to})
	}

	offset := (page - 1) * pageSize
	builder = builder.OrderBy("p.due_date DESC", "p.id DESC").Limit(uint64(pageSize)).Offset(uint64(offset))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := []*models.Payment{}
	var total int64
	for rows.Next() {
		var p models.Payment
		var fullName *string
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.PlanID, &p.CommunityID, &p.Amount, &p.AmountPaid,
			&p.Fees, &p.Status, &p.DueDate, &p.PaidAt, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
			&fullName, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan payment: %w", err)
		}
		if fullName != nil {
			p.User = &models.User{
				ID:      p.UserID,
				Profile: &models.Profile{UserID: p.UserID, FullName: *fullName},
			}
		}
		payments = append(payments, &p)
	}
	return payments, total, rows.Err()
}

// ListAllForSummary returns every ledger row inside the optional due-date
// window, unpaginated, for the financial summary.
func (r *PaymentRepository) ListAllForSummary(ctx context.Context, from, to *time.Time) ([]*models.Payment, error) {
	builder := r.sql.Select(
		"id", "user_id", "plan_id", "community_id", "amount", "amount_paid",
		"fees", "status", "due_date", "paid_at", "notes", "created_at", "updated_at",
	).From("payments")

	if from != nil {
		builder = builder.Where(squirrel.GtOrEq{"due_date": *from})
	}
	if to != nil {
		builder = builder.Where(squirrel.LtOrEq{"due_date": *to})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments for summary: %w", err)
	}
	defer rows.Close()

	payments := []*models.Payment{}
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.PlanID, &p.CommunityID, &p.Amount, &p.AmountPaid,
			&p.Fees, &p.Status, &p.DueDate, &p.PaidAt, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}

// UpdateStatus moves a payment through its lifecycle. Confirming stamps
// paid_at and records the amount actually paid.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id int64, status models.PaymentStatus, amountPaid *float64, notes *string, now time.Time) (*models.Payment, error) {
	var p models.Payment
	err := r.db.QueryRow(ctx, `
		UPDATE payments SET
			status = $2,
			amount_paid = CASE
				WHEN $2 = 'confirmed' THEN COALESCE($3, amount)
				ELSE amount_paid
			END,
			paid_at = CASE WHEN $2 = 'confirmed' THEN $5 ELSE paid_at END,
			notes = COALESCE($4, notes),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, user_id, plan_id, community_id, amount, amount_paid, fees,
			status, due_date, paid_at, notes, created_at, updated_at
	`, id, status, amountPaid, notes, now).Scan(
		&p.ID, &p.UserID, &p.PlanID, &p.CommunityID, &p.Amount, &p.AmountPaid, &p.Fees,
		&p.Status, &p.DueDate, &p.PaidAt, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	return &p, nil
}

// MarkOverdue flips pending payments past their due date to overdue,
// returning the count. Run from the scheduled sweep.
func (r *PaymentRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE payments SET status = 'overdue', updated_at = NOW()
		WHERE status = 'pending' AND due_date < $1
	`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue payments: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes a payment record
func (r *PaymentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPaymentNotFound
	}
	return nil
}
