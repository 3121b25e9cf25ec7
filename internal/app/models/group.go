package models

import "time"

// Group is a conversation channel scoped to one community
type Group struct {
	ID                  int64     `json:"id" db:"id"`
	CommunityID         int64     `json:"communityId" db:"community_id"`
	Name                string    `json:"name" db:"name"`
	Description         *string   `json:"description,omitempty" db:"description"`
	IsVisible           bool      `json:"isVisible" db:"is_visible"`
	StudentsCanMessage  bool      `json:"studentsCanMessage" db:"students_can_message"`
	AllowedMessageRoles []AppRole `json:"allowedMessageRoles" db:"allowed_message_roles"`
	CreatedAt           time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time `json:"updatedAt" db:"updated_at"`

	// MemberCount is populated on listing queries
	MemberCount int `json:"memberCount,omitempty"`
}

// GroupMember is a user's membership in a conversation group
type GroupMember struct {
	ID       int64     `json:"id" db:"id"`
	GroupID  int64     `json:"groupId" db:"group_id"`
	UserID   int64     `json:"userId" db:"user_id"`
	JoinedAt time.Time `json:"joinedAt" db:"joined_at"`

	User *User `json:"user,omitempty"`
}

// CanPost reports whether a member with the given role may send messages to the group.
// Teachers and admins always may; students are gated by the group's flags.
func (g *Group) CanPost(role AppRole) bool {
	if role == RoleTeacher || role == RoleAdmin {
		return true
	}
	if role == RoleStudent && !g.StudentsCanMessage {
		return false
	}
	if len(g.AllowedMessageRoles) == 0 {
		return true
	}
	for _, allowed := range g.AllowedMessageRoles {
		if allowed == role {
			return true
		}
	}
	return false
}
