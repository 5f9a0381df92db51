package handler

import (
	"github.com/mveld/empadmin/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

var (
	WriteError             = apierr.WriteError
	NewInvalidRequestError = apierr.NewInvalidRequestError
	NewUnauthorizedError   = apierr.NewUnauthorizedError
	NewInternalError       = apierr.NewInternalError
)
