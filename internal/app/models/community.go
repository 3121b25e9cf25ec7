package models

import "time"

// Community is the top-level tenant grouping users around a subject
type Community struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Description   *string   `json:"description,omitempty" db:"description"`
	Subject       string    `json:"subject" db:"subject"`
	CoverImageURL *string   `json:"coverImageUrl,omitempty" db:"cover_image_url"`
	CreatedBy     int64     `json:"createdBy" db:"created_by"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	Creator *User `json:"creator,omitempty"`
}

// CommunityMember is a user's membership in a community
type CommunityMember struct {
	ID          int64     `json:"id" db:"id"`
	CommunityID int64     `json:"communityId" db:"community_id"`
	UserID      int64     `json:"userId" db:"user_id"`
	JoinedAt    time.Time `json:"joinedAt" db:"joined_at"`

	User *User `json:"user,omitempty"`
}

// Invite is a shareable multi-use invite code for a community
type Invite struct {
	ID          int64     `json:"id" db:"id"`
	CommunityID int64     `json:"communityId" db:"community_id"`
	Code        string    `json:"code" db:"code"`
	CreatedBy   int64     `json:"createdBy" db:"created_by"`
	ExpiresAt   time.Time `json:"expiresAt" db:"expires_at"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Expired reports whether the invite is past its expiry.
func (i *Invite) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
