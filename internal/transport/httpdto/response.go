package httpdto

import (
	"errors"
	"net/http"

	apperrors "apply4me/pkg/errors"
)

// ErrorResponse is the uniform error envelope for every failure outcome.
type ErrorResponse struct {
	Error string `json:"error"`
}

func NewErrorResponse(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// ErrorStatus maps a service/repository error onto an HTTP status and a
// client-safe message. Unknown errors become a generic 500 unless detailed
// is set (development mode), in which case the underlying message is kept.
func ErrorStatus(err error, detailed bool) (int, ErrorResponse) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest, NewErrorResponse(err.Error())
	case errors.Is(err, apperrors.ErrTooLarge):
		return http.StatusBadRequest, NewErrorResponse("file too large")
	case errors.Is(err, apperrors.ErrUnauthorized), errors.Is(err, apperrors.ErrForbidden):
		return http.StatusUnauthorized, NewErrorResponse("Auth required")
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, NewErrorResponse("Not found")
	case errors.Is(err, apperrors.ErrRateLimited):
		return http.StatusTooManyRequests, NewErrorResponse("rate limit exceeded")
	case errors.Is(err, apperrors.ErrAdminNotConfigured):
		return http.StatusServiceUnavailable, NewErrorResponse("admin credentials not configured")
	}
	if detailed {
		return http.StatusInternalServerError, NewErrorResponse(err.Error())
	}
	return http.StatusInternalServerError, NewErrorResponse("Internal server error")
}
