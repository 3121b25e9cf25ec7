package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/proske/proske-backend/internal/app/models"
	"github.com/proske/proske-backend/internal/pkg/apperrors"
	"github.com/proske/proske-backend/internal/pkg/dberrors"
)

// TagRepository handles tags and CRM leads
type TagRepository struct {
	db *pgxpool.Pool
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(db *pgxpool.Pool) *TagRepository {
	return &TagRepository{db: db}
}

// CreateTag inserts a tag. Names are unique.
func (r *TagRepository) CreateTag(ctx context.Context, tag *models.Tag) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO tags (name, color) VALUES ($1, $2) RETURNING id
	`, tag.Name, tag.Color).Scan(&id)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.NewConflictError("tag name already exists")
		}
		return 0, fmt.Errorf("failed to insert tag: %w", err)
	}
	return id, nil
}

// GetTagByID retrieves a tag
func (r *TagRepository) GetTagByID(ctx context.Context, id int64) (*models.Tag, error) {
	var t models.Tag
	err := r.db.QueryRow(ctx, `
		SELECT id, name, color, created_at FROM tags WHERE id = $1
	`, id).Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	return &t, nil
}

// ListTags returns all tags ordered by name
func (r *TagRepository) ListTags(ctx context.Context) ([]*models.Tag, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, color, created_at FROM tags ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := []*models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, &t)
	}
	return tags, rows.Err()
}

// UpdateTag applies a partial tag update
func (r *TagRepository) UpdateTag(ctx context.Context, id int64, name, color *string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE tags SET
			name = COALESCE($2, name),
			color = COALESCE($3, color)
		WHERE id = $1
	`, id, name, color)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError("tag name already exists")
		}
		return fmt.Errorf("failed to update tag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// DeleteTag removes a tag; lead links cascade
func (r *TagRepository) DeleteTag(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// CreateLead inserts a lead with its tag links
func (r *TagRepository) CreateLead(ctx context.Context, lead *models.Lead, tagIDs []int64) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO leads (name, email, phone, source, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, lead.Name, lead.Email, lead.Phone, lead.Source, lead.Notes).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert lead: %w", err)
	}

	for _, tagID := range tagIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO lead_tags (lead_id, tag_id) VALUES ($1, $2)
			ON CONFLICT (lead_id, tag_id) DO NOTHING
		`, id, tagID); err != nil {
			return 0, fmt.Errorf("failed to link tag: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

// GetLeadByID retrieves a lead with its tags
func (r *TagRepository) GetLeadByID(ctx context.Context, id int64) (*models.Lead, error) {
	var l models.Lead
	err := r.db.QueryRow(ctx, `
		SELECT id, name, email, phone, source, notes, created_at
		FROM leads WHERE id = $1
	`, id).Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Source, &l.Notes, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	tags, err := r.getLeadTags(ctx, id)
	if err != nil {
		return nil, err
	}
	l.Tags = tags
	return &l, nil
}

// ListLeads returns leads, newest first, with tags attached
func (r *TagRepository) ListLeads(ctx context.Context, page, pageSize int) ([]*models.Lead, int64, error) {
	offset := (page - 1) * pageSize
	rows, err := r.db.Query(ctx, `
		SELECT id, name, email, phone, source, notes, created_at,
			COUNT(*) OVER() AS total_count
		FROM leads
		ORDER BY id DESC
		LIMIT $1 OFFSET $2
	`, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	leads := []*models.Lead{}
	var total int64
	for rows.Next() {
		var l models.Lead
		if err := rows.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Source, &l.Notes, &l.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, lead := range leads {
		tags, err := r.getLeadTags(ctx, lead.ID)
		if err != nil {
			return nil, 0, err
		}
		lead.Tags = tags
	}
	return leads, total, nil
}

// UpdateLead applies a partial lead update and, when tagIDs is non-nil,
// replaces the tag links.
func (r *TagRepository) UpdateLead(ctx context.Context, id int64, name, email, phone, source, notes *string, tagIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE leads SET
			name = COALESCE($2, name),
			email = COALESCE($3, email),
			phone = COALESCE($4, phone),
			source = COALESCE($5, source),
			notes = COALESCE($6, notes)
		WHERE id = $1
	`, id, name, email, phone, source, notes)
	if err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	if tagIDs != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM lead_tags WHERE lead_id = $1`, id); err != nil {
			return fmt.Errorf("failed to clear lead tags: %w", err)
		}
		for _, tagID := range tagIDs {
			if _, err := tx.Exec(ctx, `
				INSERT INTO lead_tags (lead_id, tag_id) VALUES ($1, $2)
			`, id, tagID); err != nil {
				return fmt.Errorf("failed to link tag: %w", err)
			}
		}
	}

	return tx.Commit(ctx)
}

// DeleteLead removes a lead
func (r *TagRepository) DeleteLead(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// SetUserTags replaces the tag links on a user
func (r *TagRepository) SetUserTags(ctx context.Context, userID int64, tagIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM user_tags WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear user tags: %w", err)
	}
	for _, tagID := range tagIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO user_tags (user_id, tag_id) VALUES ($1, $2)
			ON CONFLICT (user_id, tag_id) DO NOTHING
		`, userID, tagID); err != nil {
			return fmt.Errorf("failed to link user tag: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// GetUserTags returns the tags attached to a user
func (r *TagRepository) GetUserTags(ctx context.Context, userID int64) ([]*models.Tag, error) {
	rows, err := r.db.Query(ctx, `
		SELECT t.id, t.name, t.color, t.created_at
		FROM tags t
		JOIN user_tags ut ON ut.tag_id = t.id
		WHERE ut.user_id = $1
		ORDER BY t.name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user tags: %w", err)
	}
	defer rows.Close()

	tags := []*models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, &t)
	}
	return tags, rows.Err()
}

func (r *TagRepository) getLeadTags(ctx context.Context, leadID int64) ([]*models.Tag, error) {
	rows, err := r.db.Query(ctx, `
		SELECT t.id, t.name, t.color, t.created_at
		FROM tags t
		JOIN lead_tags lt ON lt.tag_id = t.id
		WHERE lt.lead_id = $1
		ORDER BY t.name
	`, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lead tags: %w", err)
	}
	defer rows.Close()

	tags := []*models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, &t)
	}
	return tags, rows.Err()
}
