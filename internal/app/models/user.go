package models

import "time"

// User defines the account model based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id"`
	Email       string     `json:"email" db:"email"`
	Password    string     `json:"-" db:"password"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	IsActive    bool       `json:"isActive" db:"is_active"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`

	// Role is resolved from the user_roles table, collapsed to one row per user
	Role AppRole `json:"role"`

	// Profile is the user's display profile, one per account
	Profile *Profile `json:"profile,omitempty"`
}

// Profile holds the user's display information, one row per account
type Profile struct {
	UserID    int64     `json:"userId" db:"user_id"`
	FullName  string    `json:"fullName" db:"full_name"`
	Bio       *string   `json:"bio,omitempty" db:"bio"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	AvatarURL *string   `json:"avatarUrl,omitempty" db:"avatar_url"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// RefreshToken is an opaque server-side session token
type RefreshToken struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Token     string    `json:"-" db:"token"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
