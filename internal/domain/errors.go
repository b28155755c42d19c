package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a submission references an unknown session.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrQuestionSetNotFound indicates the question content could not be loaded.
	ErrQuestionSetNotFound = errors.New("question set not found")
	// ErrQuestionNotFound indicates a submitted question ID is invalid.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrOptionNotFound indicates a submitted option ID is invalid.
	ErrOptionNotFound = errors.New("option not found")
	// ErrUnknownMode signals a threshold lookup for a mode the deployment was
	// never configured with. Distinct from business-rule rejection on purpose.
	ErrUnknownMode = errors.New("unknown game mode")
	// ErrMissingCompletedAt is a caller contract violation: a qualified
	// leaderboard entry arrived without a completion timestamp.
	ErrMissingCompletedAt = errors.New("leaderboard entry missing completedAt")
	// ErrInvalidWinnerLimit flags a nonsensical maxWinners value; a
	// configuration error, surfaced instead of settling an empty winner set.
	ErrInvalidWinnerLimit = errors.New("invalid winner limit")
	// ErrFutureTimestamp flags a recorded timestamp ahead of the clock beyond
	// reasonable skew; a data-integrity problem, never silently swallowed.
	ErrFutureTimestamp = errors.New("timestamp is in the future")
	// ErrPeriodSettled is returned when settlement already ran for a period.
	ErrPeriodSettled = errors.New("period already settled")
	// ErrPeriodNotFound indicates an unknown period ID.
	ErrPeriodNotFound = errors.New("period not found")
	// ErrWalletNotFound indicates no wallet record exists for a user.
	ErrWalletNotFound = errors.New("wallet not found")
)
