package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/proske/proske-backend/internal/app/models"
	"github.com/proske/proske-backend/internal/pkg/apperrors"
	"github.com/proske/proske-backend/internal/pkg/dberrors"
)

// UserRepository handles database operations for users and their roles
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `u.id, u.email, u.password, u.created_at, u.updated_at, u.is_active, u.last_login_at,
	COALESCE(ur.role, 'student')`

// Create inserts a user with its role row and empty profile in one transaction.
func (r *UserRepository) Create(ctx context.Context, user *models.User, fullName string) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var userID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO users (email, password, is_active)
		VALUES ($1, $2, TRUE)
		RETURNING id
	`, user.Email, user.Password).Scan(&userID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO user_roles (user_id, role)
		VALUES ($1, $2)
	`, userID, user.Role)
	if err != nil {
		return 0, fmt.Errorf("failed to insert user role: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO profiles (user_id, full_name)
		VALUES ($1, $2)
	`, userID, fullName)
	if err != nil {
		return 0, fmt.Errorf("failed to insert profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return userID, nil
}

// GetByID retrieves a user with role and profile
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN user_roles ur ON ur.user_id = u.id
		WHERE u.id = $1
	`

	user, err := r.scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	profile, err := r.getProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Profile = profile
	return user, nil
}

// GetByEmail retrieves a user by email for authentication
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN user_roles ur ON ur.user_id = u.id
		WHERE u.email = $1
	`

	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.IsActive,
		&user.LastLoginAt,
		&user.Role,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) getProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.QueryRow(ctx, `
		SELECT user_id, full_name, bio, phone, avatar_url, updated_at
		FROM profiles
		WHERE user_id = $1
	`, userID).Scan(
		&profile.UserID,
		&profile.FullName,
		&profile.Bio,
		&profile.Phone,
		&profile.AvatarURL,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}
	return &profile, nil
}

// UpdateLastLogin stamps the user's last successful login
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET last_login_at = $2, updated_at = NOW()
		WHERE id = $1
	`, userID, at)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// UpdatePassword replaces the stored password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET password = $2, updated_at = NOW()
		WHERE id = $1
	`, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// UpdateProfile applies a partial profile update. Nil fields are untouched.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, fullName, bio, phone *string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE profiles SET
			full_name = COALESCE($2, full_name),
			bio = COALESCE($3, bio),
			phone = COALESCE($4, phone),
			updated_at = NOW()
		WHERE user_id = $1
	`, userID, fullName, bio, phone)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// UpdateAvatar stores the avatar URL, nil clears it
func (r *UserRepository) UpdateAvatar(ctx context.Context, userID int64, avatarURL *string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE profiles SET avatar_url = $2, updated_at = NOW()
		WHERE user_id = $1
	`, userID, avatarURL)
	if err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// GetAvatarURL returns the currently stored avatar URL, if any
func (r *UserRepository) GetAvatarURL(ctx context.Context, userID int64) (*string, error) {
	var url *string
	err := r.db.QueryRow(ctx, `
		SELECT avatar_url FROM profiles WHERE user_id = $1
	`, userID).Scan(&url)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to get avatar url: %w", err)
	}
	return url, nil
}
