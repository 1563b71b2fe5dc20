package services

import "errors"

// Shared service-level errors, mapped to HTTP statuses in the handlers.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Input rejected before any state change.
	ErrInvalidInput       = errors.New("invalid input")
	ErrTeamListInvalid    = errors.New("team list is empty or contains duplicates")
	ErrInsufficientTeams  = errors.New("not enough teams registered (minimum 2)")
	ErrInvalidGroupConfig = errors.New("group configuration does not fit the registered teams")

	// Score violates the category's format rules. Wrapped with the concrete
	// violated rule.
	ErrScoreValidation = errors.New("score validation failed")

	// Operation not allowed in the current state.
	ErrIllegalTransition        = errors.New("operation not allowed in the current state")
	ErrBracketAlreadyGenerated  = errors.New("bracket matches already generated")
	ErrBracketAlreadyPublished  = errors.New("bracket is already published")
	ErrGroupStageNotFinished    = errors.New("group stage is not finished yet")
	ErrRoundNotFinished         = errors.New("current round is not finished yet")
	ErrKnockoutAlreadyGenerated = errors.New("knockout stage already generated")

	// Conflicts
	ErrUserEmailConflict = errors.New("email address is already in use")
	ErrTeamNameConflict  = errors.New("team name is already registered in this category")

	// Authentication
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordTooShort   = errors.New("password is too short")

	// Tournament lifecycle
	ErrTournamentInvalidDateRange     = errors.New("tournament end date must be after start date")
	ErrTournamentInvalidStatusChange  = errors.New("invalid tournament status transition")
	ErrTournamentNameRequired         = errors.New("tournament name is required")
	ErrTournamentCategoryNameRequired = errors.New("category name is required")
	ErrTournamentNameConflict         = errors.New("tournament name already exists")
)
