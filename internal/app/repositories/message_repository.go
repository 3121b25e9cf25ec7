package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/proske/proske-backend/internal/app/models"
	"github.com/proske/proske-backend/internal/pkg/apperrors"
)

// MessageRepository handles chat message storage
type MessageRepository struct {
	db  *pgxpool.Pool
	sql squirrel.StatementBuilderType
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{
		db:  db,
		sql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a message. The community ID is denormalized from the
// group at write time.
func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) (int64, error) {
	var metadata interface{}
	if len(msg.Metadata) > 0 {
		metadata = json.RawMessage(msg.Metadata)
	}

	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO messages (group_id, community_id, sender_id, content, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, msg.GroupID, msg.CommunityID, msg.SenderID, msg.Content, metadata).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert message: %w", err)
	}
	return id, nil
}

// GetByID retrieves a single message
func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	var m models.Message
	err := r.db.QueryRow(ctx, `
		SELECT id, group_id, community_id, sender_id, content, metadata, created_at
		FROM messages
		WHERE id = $1
	`, id).Scan(&m.ID, &m.GroupID, &m.CommunityID, &m.SenderID, &m.Content, &m.Metadata, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return &m, nil
}

// ListByGroup returns a group's messages, newest first, with sender
// names joined in. The before cursor bounds the page by message ID.
func (r *MessageRepository) ListByGroup(ctx context.Context, groupID int64, before *int64, page, pageSize int) ([]*models.Message, int64, error) {
	builder := r.sql.Select(
		"m.id", "m.group_id", "m.community_id", "m.sender_id", "m.content",
		"m.metadata", "m.created_at", "p.full_name",
		"COUNT(*) OVER() AS total_count",
	).
		From("messages m").
		LeftJoin("profiles p ON p.user_id = m.sender_id").
		Where(squirrel.Eq{"m.group_id": groupID})

	if before != nil {
		builder = builder.Where(squirrel.Lt{"m.id": *before})
	}

	offset := (page - 1) * pageSize
	builder = builder.OrderBy("m.id DESC").Limit(uint64(pageSize)).Offset(uint64(offset))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := []*models.Message{}
	var total int64
	for rows.Next() {
		var m models.Message
		var senderName *string
		if err := rows.Scan(
			&m.ID, &m.GroupID, &m.CommunityID, &m.SenderID, &m.Content,
			&m.Metadata, &m.CreatedAt, &senderName, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan message: %w", err)
		}
		if senderName != nil {
			m.Sender = &models.User{
				ID:      m.SenderID,
				Profile: &models.Profile{UserID: m.SenderID, FullName: *senderName},
			}
		}
		messages = append(messages, &m)
	}
	return messages, total, rows.Err()
}

// ListByCommunity returns a community-wide feed across all its groups
func (r *MessageRepository) ListByCommunity(ctx context.Context, communityID int64, page, pageSize int) ([]*models.Message, int64, error) {
	offset := (page - 1) * pageSize
	rows, err := r.db.Query(ctx, `
		SELECT m.id, m.group_id, m.community_id, m.sender_id, m.content,
			m.metadata, m.created_at, p.full_name,
			COUNT(*) OVER() AS total_count
		FROM messages m
		LEFT JOIN profiles p ON p.user_id = m.sender_id
		WHERE m.community_id = $1
		ORDER BY m.id DESC
		LIMIT $2 OFFSET $3
	`, communityID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list community messages: %w", err)
	}
	defer rows.Close()

	messages := []*models.Message{}
	var total int64
	for rows.Next() {
		var m models.Message
		var senderName *string
		if err := rows.Scan(
			&m.ID, &m.GroupID, &m.CommunityID, &m.SenderID, &m.Content,
			&m.Metadata, &m.CreatedAt, &senderName, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan message: %w", err)
		}
		if senderName != nil {
			m.Sender = &models.User{
				ID:      m.SenderID,
				Profile: &models.Profile{UserID: m.SenderID, FullName: *senderName},
			}
		}
		messages = append(messages, &m)
	}
	return messages, total, rows.Err()
}

// Delete removes a message
func (r *MessageRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}
