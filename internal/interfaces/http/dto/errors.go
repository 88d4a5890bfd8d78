package dto

import (
	"net/http"

	"github.com/retailcore/backend/internal/domain/shared"
)

// Transport-level error codes; domain codes pass through unchanged
const (
	// ErrCodeBadRequest is used for malformed or unbindable requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInternal is used for unexpected server errors
	ErrCodeInternal = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes. Unlisted codes
// fall back to 500 so unknown failures never masquerade as client errors.
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeUnauthenticated: http.StatusUnauthorized,
	shared.CodeAccessDenied:    http.StatusForbidden,
	shared.CodeNotFound:        http.StatusNotFound,
	shared.CodeValidation:      http.StatusBadRequest,
	shared.CodeStorage:         http.StatusInternalServerError,
	ErrCodeBadRequest:          http.StatusBadRequest,
	ErrCodeInternal:            http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an error code
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
