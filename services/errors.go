package services

import (
	"errors"
	"fmt"
)

// ErrValidation marks malformed or missing input. Wrap with details via
// invalid(); handlers map it to a 400 response.
var ErrValidation = errors.New("validation failed")

// invalid wraps a formatted message as a validation error
func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Not-found conditions: no mutation performed
var (
	ErrMatchNotFound  = errors.New("match not found")
	ErrLeagueNotFound = errors.New("league not found")
	ErrUserNotFound   = errors.New("user not found")
)

// Authorization conditions: no mutation performed
var (
	ErrNotLeagueMember  = errors.New("user is not a member of this league")
	ErrNotLeagueCreator = errors.New("only the league creator may do this")
)

// Conflict conditions: existing state is preserved unchanged
var (
	ErrLeagueNameTaken        = errors.New("a league with this name already exists")
	ErrLeaguePasswordMismatch = errors.New("incorrect league password")
	ErrAlreadyLeagueMember    = errors.New("user is already a member of this league")
	ErrMatchExists            = errors.New("a match with this external id already exists")
	ErrEmailTaken             = errors.New("an account with this email already exists")
	ErrPredictionWindowClosed = errors.New("the prediction window for this match has closed")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrWrongPassword          = errors.New("current password is incorrect")
)
