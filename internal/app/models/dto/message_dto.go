package dto

import "time"

// SendMessageRequest posts a message to a group. Metadata variants beyond
// plain text are attached by the server, not accepted from clients.
type SendMessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=4000"`
}

// MessageFilterRequest carries list filters for message history
type MessageFilterRequest struct {
	Before   *int64 `form:"before" binding:"omitempty,min=1"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

// MessageResponse is one chat message as delivered over REST and websocket
type MessageResponse struct {
	ID          int64       `json:"id"`
	GroupID     int64       `json:"groupId"`
	CommunityID int64       `json:"communityId"`
	SenderID    int64       `json:"senderId"`
	SenderName  string      `json:"senderName,omitempty"`
	Content     string      `json:"content"`
	Kind        string      `json:"kind"`
	Metadata    interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}
