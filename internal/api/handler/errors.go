package handler

import (
	"net/http"

	"github.com/oche-club/dartscore-go/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest       = apierr.CodeInvalidRequest
	CodeInvalidDart          = apierr.CodeInvalidDart
	CodeInvalidSide          = apierr.CodeInvalidSide
	CodeInvalidStartingScore = apierr.CodeInvalidStartingScore
	CodeInvalidFormat        = apierr.CodeInvalidFormat
	CodeInvalidMatchType     = apierr.CodeInvalidMatchType
	CodeUnauthorized         = apierr.CodeUnauthorized
	CodePlayerNotFound       = apierr.CodePlayerNotFound
	CodeMatchNotFound        = apierr.CodeMatchNotFound
	CodeMatchNotStarted      = apierr.CodeMatchNotStarted
	CodeMatchAlreadyStarted  = apierr.CodeMatchAlreadyStarted
	CodeMatchFinished        = apierr.CodeMatchFinished
	CodeMatchPaused          = apierr.CodeMatchPaused
	CodeMatchNotPaused       = apierr.CodeMatchNotPaused
	CodeNoDartsThrown        = apierr.CodeNoDartsThrown
	CodeLegNotFound          = apierr.CodeLegNotFound
	CodeStatsNotFound        = apierr.CodeStatsNotFound
	CodeUsernameExists       = apierr.CodeUsernameExists
	CodeInvalidCredentials   = apierr.CodeInvalidCredentials
	CodePersistenceFailed    = apierr.CodePersistenceFailed
	CodeInternalError        = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return apierr.NewUnauthorizedError()
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
