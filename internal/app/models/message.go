package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// MessageKind discriminates the payload variants a chat message can carry
type MessageKind string

const (
	MessageKindPlain          MessageKind = "plain"
	MessageKindTaskSubmission MessageKind = "task_submission"
	MessageKindTaskAssigned   MessageKind = "task_assigned"
	MessageKindTaskReviewed   MessageKind = "task_reviewed"
)

var ErrUnknownMessageKind = errors.New("unknown message kind")

// Message is a chat message in a conversation group. CommunityID is
// denormalized alongside GroupID so community-wide feeds avoid a join.
type Message struct {
	ID          int64           `json:"id" db:"id"`
	GroupID     int64           `json:"groupId" db:"group_id"`
	CommunityID int64           `json:"communityId" db:"community_id"`
	SenderID    int64           `json:"senderId" db:"sender_id"`
	Content     string          `json:"content" db:"content"`
	Metadata    json.RawMessage `json:"metadata,omitempty" db:"metadata"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`

	Sender *User `json:"sender,omitempty"`
}

// MessagePayload is the parsed form of a message's metadata. Exactly one of
// the variant pointers is set, matching Kind.
type MessagePayload struct {
	Kind           MessageKind            `json:"kind"`
	TaskSubmission *TaskSubmissionPayload `json:"taskSubmission,omitempty"`
	TaskAssigned   *TaskAssignedPayload   `json:"taskAssigned,omitempty"`
	TaskReviewed   *TaskReviewedPayload   `json:"taskReviewed,omitempty"`
}

// TaskSubmissionPayload announces a student's submission in chat
type TaskSubmissionPayload struct {
	SubmissionID int64  `json:"submissionId"`
	VideoURL     string `json:"videoUrl"`
}

// TaskAssignedPayload announces a task assignment in chat
type TaskAssignedPayload struct {
	Title   string     `json:"title"`
	DueDate *time.Time `json:"dueDate,omitempty"`
}

// TaskReviewedPayload announces a finished review in chat
type TaskReviewedPayload struct {
	SubmissionID int64   `json:"submissionId"`
	Grade        *int    `json:"grade,omitempty"`
	Comments     *string `json:"comments,omitempty"`
}

// ParsePayload decodes a message's metadata into a typed payload. Nil or
// empty metadata is a plain message. Unknown kinds are rejected rather than
// passed through, so malformed rows surface at the boundary.
func ParsePayload(raw json.RawMessage) (*MessagePayload, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return &MessagePayload{Kind: MessageKindPlain}, nil
	}

	var payload MessagePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode message metadata: %w", err)
	}

	if payload.Kind == "" {
		payload.Kind = MessageKindPlain
	}

	switch payload.Kind {
	case MessageKindPlain:
	case MessageKindTaskSubmission:
		if payload.TaskSubmission == nil {
			return nil, fmt.Errorf("%w: task_submission metadata missing body", ErrUnknownMessageKind)
		}
	case MessageKindTaskAssigned:
		if payload.TaskAssigned == nil {
			return nil, fmt.Errorf("%w: task_assigned metadata missing body", ErrUnknownMessageKind)
		}
	case MessageKindTaskReviewed:
		if payload.TaskReviewed == nil {
			return nil, fmt.Errorf("%w: task_reviewed metadata missing body", ErrUnknownMessageKind)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageKind, payload.Kind)
	}

	return &payload, nil
}

// EncodePayload serializes a typed payload back to metadata JSON. A plain
// payload encodes to nil so plain messages store NULL metadata.
func EncodePayload(payload *MessagePayload) (json.RawMessage, error) {
	if payload == nil || payload.Kind == MessageKindPlain {
		return nil, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message metadata: %w", err)
	}
	return data, nil
}
