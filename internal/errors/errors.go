package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned when the username or password is incorrect.
	ErrInvalidCredentials = errors.New("Invalid credentials")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid, expired or revoked.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("User not found")
	// ErrAdminRequired is returned when a non-admin calls an admin operation.
	ErrAdminRequired = errors.New("Admin access required")
	// ErrInvalidUser is returned when a user to seed is incomplete or has an unknown role.
	ErrInvalidUser = errors.New("invalid user")
	// ErrAnalysisNotFound is returned when an analysis record does not exist.
	ErrAnalysisNotFound = errors.New("Analysis not found")
	// ErrForbiddenUpdate is returned when a user updates someone else's record.
	ErrForbiddenUpdate = errors.New("Forbidden: You can only update your own analyses.")
	// ErrForbiddenDelete is returned when a user deletes someone else's record.
	ErrForbiddenDelete = errors.New("Forbidden: You can only delete your own analyses.")
	// ErrForbiddenView is returned when a user reads a private record of someone else.
	ErrForbiddenView = errors.New("Forbidden: This analysis is private.")
	// ErrNoUpdateFields is returned when a PATCH carries nothing to update.
	ErrNoUpdateFields = errors.New("No update fields provided.")
	// ErrInvalidStatus is returned for an unknown analysis status.
	ErrInvalidStatus = errors.New("invalid analysis status")
	// ErrInvalidVideo is returned when an upload is not a usable video.
	ErrInvalidVideo = errors.New("invalid video file")
	// ErrNotAnalyzed is returned when an operation needs a preliminary result that is not there yet.
	ErrNotAnalyzed = errors.New("analysis has no preliminary result yet")
	// ErrAIUnavailable is returned when the AI provider call fails.
	ErrAIUnavailable = errors.New("AI provider request failed")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Wrapped errors are unwrapped.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidRefreshToken):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidRefreshToken.Error(), "INVALID_REFRESH_TOKEN")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrAdminRequired):
		return NewHTTPError(http.StatusForbidden, ErrAdminRequired.Error(), "ADMIN_REQUIRED")
	case errors.Is(err, ErrInvalidUser):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_USER")
	case errors.Is(err, ErrAnalysisNotFound):
		return NewHTTPError(http.StatusNotFound, ErrAnalysisNotFound.Error(), "ANALYSIS_NOT_FOUND")
	case errors.Is(err, ErrForbiddenUpdate):
		return NewHTTPError(http.StatusForbidden, ErrForbiddenUpdate.Error(), "FORBIDDEN")
	case errors.Is(err, ErrForbiddenDelete):
		return NewHTTPError(http.StatusForbidden, ErrForbiddenDelete.Error(), "FORBIDDEN")
	case errors.Is(err, ErrForbiddenView):
		return NewHTTPError(http.StatusForbidden, ErrForbiddenView.Error(), "FORBIDDEN")
	case errors.Is(err, ErrNoUpdateFields):
		return NewHTTPError(http.StatusBadRequest, ErrNoUpdateFields.Error(), "NO_UPDATE_FIELDS")
	case errors.Is(err, ErrInvalidStatus):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidStatus.Error(), "INVALID_STATUS")
	case errors.Is(err, ErrInvalidVideo):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidVideo.Error(), "INVALID_VIDEO")
	case errors.Is(err, ErrNotAnalyzed):
		return NewHTTPError(http.StatusConflict, ErrNotAnalyzed.Error(), "NOT_ANALYZED")
	case errors.Is(err, ErrAIUnavailable):
		return NewHTTPError(http.StatusBadGateway, ErrAIUnavailable.Error(), "AI_UNAVAILABLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR")
	}
}
