package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Community errors
var (
	ErrCommunityNotFound = errors.New("community not found")
	ErrNotCommunityOwner = errors.New("only the community owner can perform this action")
	ErrAlreadyMember     = errors.New("user is already a member")
)

// Group errors
var (
	ErrGroupNotFound  = errors.New("group not found")
	ErrNotGroupMember = errors.New("user is not a member of this group")
	ErrMessagingOff   = errors.New("messaging is disabled for this role in this group")
)

// Course errors
var (
	ErrCourseNotFound = errors.New("course not found")
	ErrModuleNotFound = errors.New("course module not found")
	ErrLessonNotFound = errors.New("lesson not found")
)

// Event errors
var (
	ErrEventNotFound      = errors.New("event not found")
	ErrEventInPast        = errors.New("event date is in the past")
	ErrNotEventKind       = errors.New("operation does not apply to this event type")
	ErrInvalidStudyTimes  = errors.New("study end time must be after start time")
	ErrNotParticipant     = errors.New("user is not a participant of this event")
)

// Submission errors
var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAlreadyReviewed    = errors.New("submission has already been reviewed")
)

// Subscription and payment errors
var (
	ErrPlanNotFound         = errors.New("subscription plan not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrInvalidStatusChange  = errors.New("invalid status transition")
)

// Invite errors
var (
	ErrInviteNotFound = errors.New("invite code not found")
	ErrInviteExpired  = errors.New("invite code has expired")
)

// NewResourceNotFoundError creates a custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with an underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
