package utils

import "errors"

var (
	ErrDatabaseError      = errors.New("database error")
	ErrRecordNotFound     = errors.New("record not found")
	ErrInvalidPage        = errors.New("invalid page parameter")
	ErrInvalidPageSize    = errors.New("invalid page size parameter")
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrInvalidStep       = errors.New("step number must be between 1 and 7")
	ErrInvalidSteps      = errors.New("completed steps must be a subset of steps 1-7")
	ErrEntryNotFound     = errors.New("journal entry not found")
	ErrNotEntryOwner     = errors.New("journal entry belongs to another user")
	ErrConversationOwner = errors.New("conversation belongs to another user")

	ErrSessionNotFound   = errors.New("group session not found")
	ErrSessionFull       = errors.New("group session is full")
	ErrAlreadyJoined     = errors.New("already joined this session")
	ErrNotJoined         = errors.New("not a participant of this session")
	ErrSessionNotOpen    = errors.New("session is not open for joining")
	ErrInvalidTransition  = errors.New("invalid session status transition")
	ErrInvalidSessionType = errors.New("unknown session type")

	ErrPlanNotFound    = errors.New("plan not found")
	ErrAIUnavailable   = errors.New("ai guidance unavailable")
	ErrPaymentProvider = errors.New("payment provider error")
	ErrNoSubscription  = errors.New("no subscription on record")
)
