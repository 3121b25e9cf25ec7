package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayloadPlain(t *testing.T) {
	for _, raw := range []json.RawMessage{nil, json.RawMessage("null"), json.RawMessage(`{"kind":"plain"}`)} {
		payload, err := ParsePayload(raw)
		require.NoError(t, err)
		assert.Equal(t, MessageKindPlain, payload.Kind)
	}
}

func TestParsePayloadTaskSubmission(t *testing.T) {
	raw := json.RawMessage(`{"kind":"task_submission","taskSubmission":{"submissionId":7,"videoUrl":"https://videos.example/7"}}`)

	payload, err := ParsePayload(raw)
	require.NoError(t, err)
	assert.Equal(t, MessageKindTaskSubmission, payload.Kind)
	require.NotNil(t, payload.TaskSubmission)
	assert.Equal(t, int64(7), payload.TaskSubmission.SubmissionID)
	assert.Equal(t, "https://videos.example/7", payload.TaskSubmission.VideoURL)
}

func TestParsePayloadRejectsUnknownKind(t *testing.T) {
	_, err := ParsePayload(json.RawMessage(`{"kind":"sticker"}`))
	assert.ErrorIs(t, err, ErrUnknownMessageKind)
}

func TestParsePayloadRejectsMissingBody(t *testing.T) {
	_, err := ParsePayload(json.RawMessage(`{"kind":"task_reviewed"}`))
	assert.ErrorIs(t, err, ErrUnknownMessageKind)
}

func TestEncodePayloadRoundTrip(t *testing.T) {
	grade := 8
	payload := &MessagePayload{
		Kind:         MessageKindTaskReviewed,
		TaskReviewed: &TaskReviewedPayload{SubmissionID: 3, Grade: &grade},
	}

	raw, err := EncodePayload(payload)
	require.NoError(t, err)

	decoded, err := ParsePayload(raw)
	require.NoError(t, err)
	assert.Equal(t, payload.Kind, decoded.Kind)
	require.NotNil(t, decoded.TaskReviewed)
	assert.Equal(t, int64(3), decoded.TaskReviewed.SubmissionID)
	require.NotNil(t, decoded.TaskReviewed.Grade)
	assert.Equal(t, 8, *decoded.TaskReviewed.Grade)
}

func TestEncodePayloadPlainIsNil(t *testing.T) {
	raw, err := EncodePayload(&MessagePayload{Kind: MessageKindPlain})
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestGroupCanPost(t *testing.T) {
	group := &Group{StudentsCanMessage: false}
	assert.True(t, group.CanPost(RoleTeacher))
	assert.True(t, group.CanPost(RoleAdmin))
	assert.False(t, group.CanPost(RoleStudent))

	group.StudentsCanMessage = true
	assert.True(t, group.CanPost(RoleStudent))

	group.AllowedMessageRoles = []AppRole{RoleTeacher}
	assert.False(t, group.CanPost(RoleStudent))

	group.AllowedMessageRoles = []AppRole{RoleStudent, RoleTeacher}
	assert.True(t, group.CanPost(RoleStudent))
	assert.False(t, group.CanPost(RoleGuest))
}

func TestLessonProgressConsistent(t *testing.T) {
	created := time.Now().Add(-time.Hour)
	done := time.Now()

	incomplete := &LessonProgress{Completed: false, CreatedAt: created}
	assert.True(t, incomplete.Consistent())

	incomplete.CompletedAt = &done
	assert.False(t, incomplete.Consistent())

	complete := &LessonProgress{Completed: true, CreatedAt: created, CompletedAt: &done}
	assert.True(t, complete.Consistent())

	complete.CompletedAt = nil
	assert.False(t, complete.Consistent())

	early := created.Add(-time.Minute)
	complete.CompletedAt = &early
	assert.False(t, complete.Consistent())
}

func TestSubmissionReviewConsistent(t *testing.T) {
	pending := &Submission{Status: SubmissionPending}
	assert.True(t, pending.ReviewConsistent())

	reviewer := int64(5)
	now := time.Now()
	pending.ReviewedBy = &reviewer
	assert.False(t, pending.ReviewConsistent())

	grade := 9
	reviewed := &Submission{
		Status:     SubmissionReviewed,
		ReviewedBy: &reviewer,
		ReviewedAt: &now,
		Grade:      &grade,
	}
	assert.True(t, reviewed.ReviewConsistent())

	reviewed.Grade = nil
	reviewed.TeacherComments = nil
	assert.False(t, reviewed.ReviewConsistent())
}

func TestInviteExpired(t *testing.T) {
	now := time.Now()
	invite := &Invite{ExpiresAt: now.Add(time.Hour)}
	assert.False(t, invite.Expired(now))
	assert.True(t, invite.Expired(now.Add(2*time.Hour)))
}

func TestValidStudyCompletion(t *testing.T) {
	start := time.Now()
	assert.True(t, ValidStudyCompletion(start, start.Add(time.Minute)))
	assert.False(t, ValidStudyCompletion(start, start))
	assert.False(t, ValidStudyCompletion(start, start.Add(-time.Minute)))
}

func TestSummarizePayments(t *testing.T) {
	payments := []*Payment{
		{Status: PaymentPending, Amount: 100, Fees: 2},
		{Status: PaymentConfirmed, Amount: 100, AmountPaid: 100, Fees: 3},
		{Status: PaymentConfirmed, Amount: 50, AmountPaid: 45},
		{Status: PaymentOverdue, Amount: 80},
		{Status: PaymentCancelled, Amount: 30},
	}

	summary := SummarizePayments(payments)
	assert.Equal(t, int64(5), summary.PaymentCount)
	assert.Equal(t, 100.0, summary.PendingTotal)
	assert.Equal(t, 145.0, summary.ConfirmedTotal)
	assert.Equal(t, 80.0, summary.OverdueTotal)
	assert.Equal(t, 30.0, summary.CancelledTotal)
	assert.Equal(t, 5.0, summary.FeesTotal)
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleStudent))
	assert.True(t, ValidRole(RoleGuest))
	assert.False(t, ValidRole(AppRole("visitor")))
}
