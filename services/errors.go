package services

import "errors"

// Shared sentinel errors, mapped to HTTP statuses in handlers.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")

	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrPasswordTooShort       = errors.New("password must be at least 8 characters")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	ErrContextNotFound     = errors.New("tournament context not found")
	ErrGuildNotFound       = errors.New("guild not found")
	ErrTournamentNotFound  = errors.New("custom tournament not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrMatchNotFound       = errors.New("match not found")

	ErrAlreadyApplied       = errors.New("user has already applied in this context")
	ErrAlreadyQueued        = errors.New("user is already in the boss queue")
	ErrQueueEmpty           = errors.New("boss queue is empty")
	ErrParticipantNotInGame = errors.New("only approved participants can leave voluntarily")
	ErrTitleRequired        = errors.New("tournament title is required")
	ErrBossRequired         = errors.New("boss name is required")
	ErrInvalidClearTime     = errors.New("clear time must be positive")
	ErrInvalidLeaveRange    = errors.New("leave end date must not be before its start date")
	ErrMessageRequired      = errors.New("notice message is required")
)
