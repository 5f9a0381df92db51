package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mveld/empadmin/internal/model"
	"github.com/mveld/empadmin/internal/rcon"
	"github.com/mveld/empadmin/internal/services/auth"
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
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodePlayerNotFound        = "PLAYER_NOT_FOUND"
	CodeEmptyMessage          = "EMPTY_MESSAGE"
	CodeEmptyTarget           = "EMPTY_TARGET"
	CodeSlotOutOfRange        = "SLOT_OUT_OF_RANGE"
	CodeServerUnavailable     = "SERVER_UNAVAILABLE"
	CodeServerControlDisabled = "SERVER_CONTROL_DISABLED"
	CodeInternalError         = "INTERNAL_ERROR"
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
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Model errors
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrEmptyMessage):
		return &httpError{http.StatusBadRequest, APIError{CodeEmptyMessage, "Message body is empty"}}
	case errors.Is(err, model.ErrEmptyTarget):
		return &httpError{http.StatusBadRequest, APIError{CodeEmptyTarget, "Target player is empty"}}
	case errors.Is(err, model.ErrSlotOutOfRange):
		return &httpError{http.StatusBadRequest, APIError{CodeSlotOutOfRange, "Schedule slot index out of range"}}
	case errors.Is(err, model.ErrServerControlDisabled):
		return &httpError{http.StatusNotImplemented, APIError{CodeServerControlDisabled, "Server container control is not configured"}}

	// Console transport errors: the game server is down or unreachable
	case errors.Is(err, model.ErrAuthFailed),
		errors.Is(err, model.ErrNotConnected),
		errors.Is(err, rcon.ErrConnect),
		errors.Is(err, rcon.ErrTransport):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeServerUnavailable, "Game server is unreachable"}}

	// Auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}

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
