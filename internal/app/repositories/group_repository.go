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

// GroupRepository handles conversation groups and their memberships
type GroupRepository struct {
	db *pgxpool.Pool
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create inserts a conversation group
func (r *GroupRepository) Create(ctx context.Context, group *models.Group) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO conversation_groups
			(community_id, name, description, is_visible, students_can_message, allowed_message_roles)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`,
		group.CommunityID, group.Name, group.Description,
		group.IsVisible, group.StudentsCanMessage, rolesToStrings(group.AllowedMessageRoles),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert group: %w", err)
	}
	return id, nil
}

// GetByID retrieves a group by ID
func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*models.Group, error) {
	var g models.Group
	var roles []string
	err := r.db.QueryRow(ctx, `
		SELECT id, community_id, name, description, is_visible, students_can_message,
			allowed_message_roles, created_at, updated_at
		FROM conversation_groups
		WHERE id = $1
	`, id).Scan(
		&g.ID, &g.CommunityID, &g.Name, &g.Description, &g.IsVisible,
		&g.StudentsCanMessage, &roles, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	g.AllowedMessageRoles = stringsToRoles(roles)
	return &g, nil
}

// ListByCommunity lists a community's groups with member counts.
// Hidden groups are included only when includeHidden is set; students
// always see their own hidden groups.
func (r *GroupRepository) ListByCommunity(ctx context.Context, communityID, viewerID int64, includeHidden bool) ([]*models.Group, error) {
	rows, err := r.db.Query(ctx, `
		SELECT g.id, g.community_id, g.name, g.description, g.is_visible,
			g.students_can_message, g.allowed_message_roles, g.created_at, g.updated_at,
			(SELECT COUNT(*) FROM group_members gm WHERE gm.group_id = g.id) AS member_count
		FROM conversation_groups g
		WHERE g.community_id = $1
		  AND ($3 OR g.is_visible OR EXISTS (
			SELECT 1 FROM group_members gm WHERE gm.group_id = g.id AND gm.user_id = $2
		  ))
		ORDER BY g.id
	`, communityID, viewerID, includeHidden)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	groups := []*models.Group{}
	for rows.Next() {
		var g models.Group
		var roles []string
		if err := rows.Scan(
			&g.ID, &g.CommunityID, &g.Name, &g.Description, &g.IsVisible,
			&g.StudentsCanMessage, &roles, &g.CreatedAt, &g.UpdatedAt, &g.MemberCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		g.AllowedMessageRoles = stringsToRoles(roles)
		groups = append(groups, &g)
	}
	return groups, rows.Err()
}

// Update applies a partial group update. Nil pointers leave fields
// untouched; a non-nil empty roles slice clears the restriction.
func (r *GroupRepository) Update(ctx context.Context, id int64, name, description *string, isVisible, studentsCanMessage *bool, allowedRoles []models.AppRole) error {
	var roles interface{}
	if allowedRoles != nil {
		roles = rolesToStrings(allowedRoles)
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE conversation_groups SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			is_visible = COALESCE($4, is_visible),
			students_can_message = COALESCE($5, students_can_message),
			allowed_message_roles = COALESCE($6, allowed_message_roles),
			updated_at = NOW()
		WHERE id = $1
	`, id, name, description, isVisible, studentsCanMessage, roles)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrGroupNotFound
	}
	return nil
}

// Delete removes a group; messages and memberships cascade
func (r *GroupRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM conversation_groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrGroupNotFound
	}
	return nil
}

// AddMember adds a user to a group, idempotently
func (r *GroupRepository) AddMember(ctx context.Context, groupID, userID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO group_members (group_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (group_id, user_id) DO NOTHING
	`, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return nil
}

// RemoveMember removes a user from a group
func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, userID int64) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM group_members WHERE group_id = $1 AND user_id = $2
	`, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove group member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// IsMember reports whether the user belongs to the group
func (r *GroupRepository) IsMember(ctx context.Context, groupID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2
		)
	`, groupID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check group membership: %w", err)
	}
	return exists, nil
}

// GetMembers lists the group's members with profile names
func (r *GroupRepository) GetMembers(ctx context.Context, groupID int64) ([]*models.GroupMember, error) {
	rows, err := r.db.Query(ctx, `
		SELECT gm.id, gm.group_id, gm.user_id, gm.joined_at,
			u.email, COALESCE(ur.role, 'student'), p.full_name, p.avatar_url
		FROM group_members gm
		JOIN users u ON u.id = gm.user_id
		LEFT JOIN user_roles ur ON ur.user_id = u.id
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE gm.group_id = $1
		ORDER BY gm.joined_at
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	defer rows.Close()

	members := []*models.GroupMember{}
	for rows.Next() {
		var m models.GroupMember
		var user models.User
		var profile models.Profile
		if err := rows.Scan(
			&m.ID, &m.GroupID, &m.UserID, &m.JoinedAt,
			&user.Email, &user.Role, &profile.FullName, &profile.AvatarURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		user.ID = m.UserID
		profile.UserID = m.UserID
		user.Profile = &profile
		m.User = &user
		members = append(members, &m)
	}
	return members, rows.Err()
}

func rolesToStrings(roles []models.AppRole) []string {
	out := make([]string, len(roles))
	for i, role := range roles {
		out[i] = string(role)
	}
	return out
}

func stringsToRoles(values []string) []models.AppRole {
	if len(values) == 0 {
		return nil
	}
	out := make([]models.AppRole, len(values))
	for i, v := range values {
		out[i] = models.AppRole(v)
	}
	return out
}
