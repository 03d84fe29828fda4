package dto

import "net/http"

// Error codes surfaced by the API. Most originate in the domain layer;
// the handler layer adds the transport-only ones (bad request, rate
// limiting).
const (
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeAlreadyExists      = "ALREADY_EXISTS"
	ErrCodeAlreadyOwned       = "ALREADY_OWNED"
	ErrCodeNotOwner           = "NOT_OWNER"
	ErrCodeInvalidState       = "INVALID_STATE"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeInvalidPassword    = "INVALID_PASSWORD"
	ErrCodeDisallowedContent  = "DISALLOWED_CONTENT_TYPE"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps API error codes to HTTP status codes.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeNotFound: http.StatusNotFound,

	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeAlreadyOwned:  http.StatusConflict,
	ErrCodeInvalidState:  http.StatusConflict,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,

	ErrCodeForbidden: http.StatusForbidden,
	ErrCodeNotOwner:  http.StatusForbidden,

	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidPassword: http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,

	ErrCodeDisallowedContent: http.StatusUnsupportedMediaType,

	ErrCodeRateLimited: http.StatusTooManyRequests,

	ErrCodeInternal: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting to
// 500 for codes without an explicit mapping.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
