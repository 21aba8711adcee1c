package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse standard API response structure
type APIResponse struct {
	Data  interface{} `json:"data"`
	Meta  *Meta       `json:"meta,omitempty"`
	Error *ErrorInfo  `json:"error,omitempty"`
}

// Meta pagination metadata
type Meta struct {
	Page  int   `json:"page,omitempty"`
	Limit int   `json:"limit,omitempty"`
	Total int64 `json:"total,omitempty"`
}

// ErrorInfo error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SuccessResponse returns a successful JSON response
func SuccessResponse(c *gin.Context, data interface{}, meta *Meta) {
	c.JSON(http.StatusOK, APIResponse{
		Data: data,
		Meta: meta,
	})
}

// ErrorResponse returns an error JSON response
func ErrorResponse(c *gin.Context, status int, message string, err error) {
	c.JSON(status, gin.H{
		"error": &ErrorInfo{
			Code:    getErrorCode(status),
			Message: message,
		},
	})
}

// ServiceErrorResponse maps a service error to its HTTP status and responds.
func ServiceErrorResponse(c *gin.Context, err error) {
	status := StatusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	ErrorResponse(c, status, message, err)
}

// StatusForError maps service errors to HTTP status codes. Unrecognized
// errors are infrastructure failures and map to 500.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrFriendRequestNotFound),
		errors.Is(err, ErrNotFriends),
		errors.Is(err, ErrNotificationNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRequestAlreadySent),
		errors.Is(err, ErrAlreadyFriends),
		errors.Is(err, ErrPairBlocked),
		errors.Is(err, ErrStaleFriendship):
		return http.StatusConflict
	case errors.Is(err, ErrSelfRequest),
		errors.Is(err, ErrSelfBlock),
		errors.Is(err, ErrNotAddressee),
		errors.Is(err, ErrNotPending),
		errors.Is(err, ErrInvalidAction):
		return http.StatusBadRequest
	case errors.Is(err, ErrMessagingNotAllowed):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// getErrorCode generates error code from HTTP status
func getErrorCode(status int) string {
	switch status {
	case 400:
		return "BAD_REQUEST"
	case 401:
		return "UNAUTHORIZED"
	case 403:
		return "FORBIDDEN"
	case 404:
		return "NOT_FOUND"
	case 409:
		return "CONFLICT"
	case 500:
		return "INTERNAL_SERVER_ERROR"
	default:
		return "ERROR"
	}
}
