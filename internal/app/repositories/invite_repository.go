package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/proske/proske-backend/internal/app/models"
	"github.com/proske/proske-backend/internal/pkg/apperrors"
)

// InviteRepository handles community invite codes
type InviteRepository struct {
	db *pgxpool.Pool
}

// NewInviteRepository creates a new InviteRepository
func NewInviteRepository(db *pgxpool.Pool) *InviteRepository {
	return &InviteRepository{db: db}
}

// Create stores a new invite code
func (r *InviteRepository) Create(ctx context.Context, invite *models.Invite) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO community_invites (community_id, code, created_by, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, invite.CommunityID, invite.Code, invite.CreatedBy, invite.ExpiresAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert invite: %w", err)
	}
	return id, nil
}

// GetByCode retrieves an invite by its code
func (r *InviteRepository) GetByCode(ctx context.Context, code string) (*models.Invite, error) {
	var invite models.Invite
	err := r.db.QueryRow(ctx, `
		SELECT id, community_id, code, created_by, expires_at, created_at
		FROM community_invites
		WHERE code = $1
	`, code).Scan(
		&invite.ID, &invite.CommunityID, &invite.Code,
		&invite.CreatedBy, &invite.ExpiresAt, &invite.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}
	return &invite, nil
}

// ListByCommunity returns the community's invites, newest first
func (r *InviteRepository) ListByCommunity(ctx context.Context, communityID int64) ([]*models.Invite, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, community_id, code, created_by, expires_at, created_at
		FROM community_invites
		WHERE community_id = $1
		ORDER BY created_at DESC
	`, communityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	defer rows.Close()

	invites := []*models.Invite{}
	for rows.Next() {
		var invite models.Invite
		if err := rows.Scan(
			&invite.ID, &invite.CommunityID, &invite.Code,
			&invite.CreatedBy, &invite.ExpiresAt, &invite.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invite: %w", err)
		}
		invites = append(invites, &invite)
	}
	return invites, rows.Err()
}

// Delete removes an invite
func (r *InviteRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM community_invites WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete invite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInviteNotFound
	}
	return nil
}

// DeleteExpired drops invites past their expiry, returning the count
func (r *InviteRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM community_invites WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired invites: %w", err)
	}
	return tag.RowsAffected(), nil
}
