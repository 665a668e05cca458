package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Validation errors: the caller passed a value outside the recognized
	// domain. The operation is rejected and state is unchanged.
	ErrInvalidDartValue     = errors.New("invalid dart value")
	ErrInvalidSide          = errors.New("invalid side")
	ErrInvalidStartingScore = errors.New("invalid starting score")
	ErrInvalidLegFormat     = errors.New("invalid leg format")
	ErrInvalidMatchType     = errors.New("invalid match type")

	// Game-state errors: the operation is illegal in the current state.
	// Distinct from validation errors so callers can react differently.
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchNotStarted     = errors.New("match has not started")
	ErrMatchAlreadyStarted = errors.New("match has already started")
	ErrMatchFinished       = errors.New("match is already finished")
	ErrMatchPaused         = errors.New("match is paused")
	ErrMatchNotPaused      = errors.New("match is not paused")
	ErrNoDartsThrown       = errors.New("no darts thrown this turn")

	// Leg / stats errors
	ErrLegNotFound   = errors.New("leg not found")
	ErrStatsNotFound = errors.New("stats not found")

	// ErrPersistence wraps storage failures that occur after an in-memory
	// state transition has already been applied. The transition stands;
	// the caller may retry persistence.
	ErrPersistence = errors.New("persistence failed")
)
