package dto

import "time"

// UserResponse is the public shape of an account
type UserResponse struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`

	Profile *ProfileResponse `json:"profile,omitempty"`
}

// ProfileResponse is the public shape of a user profile
type ProfileResponse struct {
	UserID    int64   `json:"userId"`
	FullName  string  `json:"fullName"`
	Bio       *string `json:"bio,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// UpdateProfileRequest is the payload for profile edits. All fields are
// optional; absent fields are left untouched.
type UpdateProfileRequest struct {
	FullName *string `json:"fullName" binding:"omitempty,min=2,max=100"`
	Bio      *string `json:"bio" binding:"omitempty,max=500"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
}

// ChangePasswordRequest is the payload for a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}
