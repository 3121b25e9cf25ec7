package dto

// CreateGroupRequest is the payload for creating a conversation group
type CreateGroupRequest struct {
	Name                string   `json:"name" binding:"required,min=2,max=100" example:"General"`
	Description         *string  `json:"description" binding:"omitempty,max=500"`
	IsVisible           *bool    `json:"isVisible"`
	StudentsCanMessage  *bool    `json:"studentsCanMessage"`
	AllowedMessageRoles []string `json:"allowedMessageRoles" binding:"omitempty,dive,oneof=student teacher admin guest"`
}

// UpdateGroupRequest is the payload for group edits
type UpdateGroupRequest struct {
	Name                *string  `json:"name" binding:"omitempty,min=2,max=100"`
	Description         *string  `json:"description" binding:"omitempty,max=500"`
	IsVisible           *bool    `json:"isVisible"`
	StudentsCanMessage  *bool    `json:"studentsCanMessage"`
	AllowedMessageRoles []string `json:"allowedMessageRoles" binding:"omitempty,dive,oneof=student teacher admin guest"`
}

// AddGroupMemberRequest adds one user to a group
type AddGroupMemberRequest struct {
	UserID int64 `json:"userId" binding:"required,min=1"`
}
