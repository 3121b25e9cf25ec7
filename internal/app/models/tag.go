package models

import "time"

// Tag is a shared colored label, not scoped to any community
type Tag struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Color     string    `json:"color" db:"color"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Lead is a prospective student tracked in the lightweight CRM view
type Lead struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     *string   `json:"email,omitempty" db:"email"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Source    *string   `json:"source,omitempty" db:"source"`
	Notes     *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Tags []*Tag `json:"tags,omitempty"`
}
