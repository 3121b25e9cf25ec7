package dto

// CreateTagRequest defines a new label
type CreateTagRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=50"`
	Color string `json:"color" binding:"required,hexcolor" example:"#FF8800"`
}

// UpdateTagRequest is the payload for tag edits
type UpdateTagRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=50"`
	Color *string `json:"color" binding:"omitempty,hexcolor"`
}

// SetUserTagsRequest replaces the labels attached to a user
type SetUserTagsRequest struct {
	TagIDs []int64 `json:"tagIds" binding:"omitempty,dive,min=1"`
}

// CreateLeadRequest records a prospective student
type CreateLeadRequest struct {
	Name   string  `json:"name" binding:"required,min=2,max=100"`
	Email  *string `json:"email" binding:"omitempty,email"`
	Phone  *string `json:"phone" binding:"omitempty,max=20"`
	Source *string `json:"source" binding:"omitempty,max=100"`
	Notes  *string `json:"notes" binding:"omitempty,max=2000"`
	TagIDs []int64 `json:"tagIds" binding:"omitempty,dive,min=1"`
}

// UpdateLeadRequest is the payload for lead edits
type UpdateLeadRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=2,max=100"`
	Email  *string `json:"email" binding:"omitempty,email"`
	Phone  *string `json:"phone" binding:"omitempty,max=20"`
	Source *string `json:"source" binding:"omitempty,max=100"`
	Notes  *string `json:"notes" binding:"omitempty,max=2000"`
	TagIDs []int64 `json:"tagIds" binding:"omitempty,dive,min=1"`
}
