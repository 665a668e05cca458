package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oche-club/dartscore-go/internal/model"
	"github.com/oche-club/dartscore-go/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeInvalidDart          = "INVALID_DART"
	CodeInvalidSide          = "INVALID_SIDE"
	CodeInvalidStartingScore = "INVALID_STARTING_SCORE"
	CodeInvalidFormat        = "INVALID_FORMAT"
	CodeInvalidMatchType     = "INVALID_MATCH_TYPE"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodePlayerNotFound       = "PLAYER_NOT_FOUND"
	CodeMatchNotFound        = "MATCH_NOT_FOUND"
	CodeMatchNotStarted      = "MATCH_NOT_STARTED"
	CodeMatchAlreadyStarted  = "MATCH_ALREADY_STARTED"
	CodeMatchFinished        = "MATCH_FINISHED"
	CodeMatchPaused          = "MATCH_PAUSED"
	CodeMatchNotPaused       = "MATCH_NOT_PAUSED"
	CodeNoDartsThrown        = "NO_DARTS_THROWN"
	CodeLegNotFound          = "LEG_NOT_FOUND"
	CodeStatsNotFound        = "STATS_NOT_FOUND"
	CodeUsernameExists       = "USERNAME_EXISTS"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodePersistenceFailed    = "PERSISTENCE_FAILED"
	CodeInternalError        = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	// Validation errors
	case errors.Is(err, model.ErrInvalidDartValue):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidDart, "Dart value is not a scorable segment"}}
	case errors.Is(err, model.ErrInvalidSide):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidSide, "Side must be home or away"}}
	case errors.Is(err, model.ErrInvalidStartingScore):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidStartingScore, "Starting score must be 301, 501 or 701"}}
	case errors.Is(err, model.ErrInvalidLegFormat):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidFormat, "Unrecognized leg format"}}
	case errors.Is(err, model.ErrInvalidMatchType):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidMatchType, "Unrecognized match type"}}

	// Lookup failures
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrMatchNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeMatchNotFound, "Match not found"}}
	case errors.Is(err, model.ErrLegNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeLegNotFound, "Leg not found"}}
	case errors.Is(err, model.ErrStatsNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeStatsNotFound, "No stats recorded for this player"}}

	// Game-state conflicts
	case errors.Is(err, model.ErrMatchNotStarted):
		return &httpError{http.StatusConflict, APIError{CodeMatchNotStarted, "Match has not started"}}
	case errors.Is(err, model.ErrMatchAlreadyStarted):
		return &httpError{http.StatusConflict, APIError{CodeMatchAlreadyStarted, "Match has already started"}}
	case errors.Is(err, model.ErrMatchFinished):
		return &httpError{http.StatusConflict, APIError{CodeMatchFinished, "Match is already finished"}}
	case errors.Is(err, model.ErrMatchPaused):
		return &httpError{http.StatusConflict, APIError{CodeMatchPaused, "Match is paused"}}
	case errors.Is(err, model.ErrMatchNotPaused):
		return &httpError{http.StatusConflict, APIError{CodeMatchNotPaused, "Match is not paused"}}
	case errors.Is(err, model.ErrNoDartsThrown):
		return &httpError{http.StatusConflict, APIError{CodeNoDartsThrown, "No darts thrown this turn"}}

	// Persistence failures after the state transition was applied
	case errors.Is(err, model.ErrPersistence):
		return &httpError{http.StatusInternalServerError, APIError{CodePersistenceFailed, "Failed to persist match data"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
