package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/proske/proske-backend/internal/app/models"
	"github.com/proske/proske-backend/internal/pkg/apperrors"
	"github.com/proske/proske-backend/internal/pkg/dberrors"
)

// CommunityRepository handles database operations for communities and
// their memberships
type CommunityRepository struct {
	db  *pgxpool.Pool
	sql squirrel.StatementBuilderType
}

// NewCommunityRepository creates a new CommunityRepository
func NewCommunityRepository(db *pgxpool.Pool) *CommunityRepository {
	return &CommunityRepository{
		db:  db,
		sql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a community and enrolls the creator as its first member
func (r *CommunityRepository) Create(ctx context.Context, community *models.Community) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO communities (name, description, subject, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, community.Name, community.Description, community.Subject, community.CreatedBy).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert community: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO community_members (community_id, user_id)
		VALUES ($1, $2)
	`, id, community.CreatedBy)
	if err != nil {
		return 0, fmt.Errorf("failed to enroll creator: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

// GetAll lists communities with optional subject and search filters
func (r *CommunityRepository) GetAll(ctx context.Context, subject, search string, page, pageSize int) ([]*models.Community, int64, error) {
	builder := r.sql.Select(
		"c.id", "c.name", "c.description", "c.subject", "c.cover_image_url",
		"c.created_by", "c.created_at", "c.updated_at",
		"COUNT(*) OVER() AS total_count",
	).From("communities c")

	if subject != "" {
		builder = builder.Where(squirrel.Eq{"c.subject": subject})
	}
	if search != "" {
		pattern := "%" + search + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"c.name": pattern},
			squirrel.ILike{"c.subject": pattern},
		})
	}

	offset := (page - 1) * pageSize
	builder = builder.OrderBy("c.id").Limit(uint64(pageSize)).Offset(uint64(offset))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list communities: %w", err)
	}
	defer rows.Close()

	communities := []*models.Community{}
	var total int64
	for rows.Next() {
		var c models.Community
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Description, &c.Subject, &c.CoverImageURL,
			&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan community: %w", err)
		}
		communities = append(communities, &c)
	}
	return communities, total, rows.Err()
}

// GetByID retrieves a community by ID
func (r *CommunityRepository) GetByID(ctx context.Context, id int64) (*models.Community, error) {
	var c models.Community
	err := r.db.QueryRow(ctx, `
		SELECT id, name, description, subject, cover_image_url, created_by, created_at, updated_at
		FROM communities
		WHERE id = $1
	`, id).Scan(
		&c.ID, &c.Name, &c.Description, &c.Subject, &c.CoverImageURL,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCommunityNotFound
		}
		return nil, fmt.Errorf("failed to get community: %w", err)
	}
	return &c, nil
}

// Update applies a partial community update
func (r *CommunityRepository) Update(ctx context.Context, id int64, name, description, subject *string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE communities SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			subject = COALESCE($4, subject),
			updated_at = NOW()
		WHERE id = $1
	`, id, name, description, subject)
	if err != nil {
		return fmt.Errorf("failed to update community: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCommunityNotFound
	}
	return nil
}

// UpdateCoverImage stores the cover image URL, nil clears it
func (r *CommunityRepository) UpdateCoverImage(ctx context.Context, id int64, coverImageURL *string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE communities SET cover_image_url = $2, updated_at = NOW()
		WHERE id = $1
	`, id, coverImageURL)
	if err != nil {
		return fmt.Errorf("failed to update cover image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCommunityNotFound
	}
	return nil
}

// Delete removes a community; dependent rows cascade
func (r *CommunityRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM communities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete community: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCommunityNotFound
	}
	return nil
}

// AddMember enrolls a user. Adding an existing member is not an error.
func (r *CommunityRepository) AddMember(ctx context.Context, communityID, userID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO community_members (community_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (community_id, user_id) DO NOTHING
	`, communityID, userID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "community_members_community_id_user_id_key") {
			return apperrors.ErrAlreadyMember
		}
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// RemoveMember removes a user's membership
func (r *CommunityRepository) RemoveMember(ctx context.Context, communityID, userID int64) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM community_members WHERE community_id = $1 AND user_id = $2
	`, communityID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// IsMember reports whether the user belongs to the community
func (r *CommunityRepository) IsMember(ctx context.Context, communityID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM community_members WHERE community_id = $1 AND user_id = $2
		)
	`, communityID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}

// GetMembers lists a community's members with profile names
func (r *CommunityRepository) GetMembers(ctx context.Context, communityID int64, page, pageSize int) ([]*models.CommunityMember, int64, error) {
	offset := (page - 1) * pageSize
	rows, err := r.db.Query(ctx, `
		SELECT cm.id, cm.community_id, cm.user_id, cm.joined_at,
			u.email, COALESCE(ur.role, 'student'), p.full_name, p.avatar_url,
			COUNT(*) OVER() AS total_count
		FROM community_members cm
		JOIN users u ON u.id = cm.user_id
		LEFT JOIN user_roles ur ON ur.user_id = u.id
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE cm.community_id = $1
		ORDER BY cm.joined_at
		LIMIT $2 OFFSET $3
	`, communityID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := []*models.CommunityMember{}
	var total int64
	for rows.Next() {
		var m models.CommunityMember
		var user models.User
		var profile models.Profile
		if err := rows.Scan(
			&m.ID, &m.CommunityID, &m.UserID, &m.JoinedAt,
			&user.Email, &user.Role, &profile.FullName, &profile.AvatarURL,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan member: %w", err)
		}
		user.ID = m.UserID
		profile.UserID = m.UserID
		user.Profile = &profile
		m.User = &user
		members = append(members, &m)
	}
	return members, total, rows.Err()
}

// GetJoinedCommunities lists communities the user belongs to
func (r *CommunityRepository) GetJoinedCommunities(ctx context.Context, userID int64) ([]*models.Community, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.name, c.description, c.subject, c.cover_image_url,
			c.created_by, c.created_at, c.updated_at
		FROM communities c
		JOIN community_members cm ON cm.community_id = c.id
		WHERE cm.user_id = $1
		ORDER BY cm.joined_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list joined communities: %w", err)
	}
	defer rows.Close()

	communities := []*models.Community{}
	for rows.Next() {
		var c models.Community
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Description, &c.Subject, &c.CoverImageURL,
			&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan community: %w", err)
		}
		communities = append(communities, &c)
	}
	return communities, rows.Err()
}
