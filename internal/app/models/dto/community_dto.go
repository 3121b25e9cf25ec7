package dto

// CreateCommunityRequest is the payload for community creation
type CreateCommunityRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=100" example:"Guitar Academy"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Subject     string  `json:"subject" binding:"required,min=2,max=100" example:"Music"`
}

// UpdateCommunityRequest is the payload for community edits
type UpdateCommunityRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Subject     *string `json:"subject" binding:"omitempty,min=2,max=100"`
}

// CommunityFilterRequest carries list filters for communities
type CommunityFilterRequest struct {
	Subject  string `form:"subject" binding:"omitempty,max=100"`
	Search   string `form:"search" binding:"omitempty,max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

// CreateInviteRequest is the payload for minting an invite code
type CreateInviteRequest struct {
	ExpiresInHours int `json:"expiresInHours" binding:"omitempty,min=1,max=720" example:"168"`
}

// JoinByInviteRequest redeems an invite code
type JoinByInviteRequest struct {
	Code string `json:"code" binding:"required,len=12"`
}
