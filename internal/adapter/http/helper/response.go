package helper

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"itemtracker/internal/core/domain"
	"itemtracker/internal/core/model/response"
)

func SendSuccess(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, data)
}

func SendError(c *gin.Context, statusCode int, code string, errors []response.ValidationError, details ...any) {
	errorResponse := response.ErrorResponse{
		Error: response.ResponseError{
			Code:   code,
			Errors: errors,
		},
	}

	if len(details) > 0 {
		errorResponse.Error.Details = details[0]
	}

	c.AbortWithStatusJSON(statusCode, errorResponse)
}

// SendValidationError renders a *domain.ValidationError as 422.
func SendValidationError(c *gin.Context, verr *domain.ValidationError) {
	errors := make([]response.ValidationError, 0, len(verr.Fields))

	for _, f := range verr.Fields {
		errors = append(errors, response.ValidationError{Field: f.Field, Message: f.Message})
	}

	SendError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", errors)
}

func SendInternalError(c *gin.Context, message string, details ...any) {
	errors := []response.ValidationError{
		{
			Field:   "server",
			Message: message,
		},
	}

	SendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", errors, details...)
}

func SendUnauthorizedError(c *gin.Context, message string) {
	errors := []response.ValidationError{
		{
			Field:   "auth",
			Message: message,
		},
	}

	SendError(c, http.StatusUnauthorized, "UNAUTHORIZED", errors)
}

func SendBadRequestError(c *gin.Context, field string, message string) {
	errors := []response.ValidationError{
		{
			Field:   field,
			Message: message,
		},
	}

	SendError(c, http.StatusBadRequest, "BAD_REQUEST", errors)
}

func SendNotFoundError(c *gin.Context, message string) {
	errors := []response.ValidationError{
		{
			Field:   "resource",
			Message: message,
		},
	}

	SendError(c, http.StatusNotFound, "NOT_FOUND", errors)
}

func SendTooManyRequests(c *gin.Context, message string, retryAfter int) {
	errors := []response.ValidationError{
		{
			Field:   "rate_limit",
			Message: message,
		},
	}

	SendError(c, http.StatusTooManyRequests, "RATE_LIMITED", errors, gin.H{"retry_after": retryAfter})
}

// SendDomainError maps core errors to their HTTP status. It reports false
// when err is not a known domain error so the caller can log and send 500.
func SendDomainError(c *gin.Context, err error) bool {
	var verr *domain.ValidationError

	switch {
	case errors.As(err, &verr):
		SendValidationError(c, verr)
	case errors.Is(err, domain.ErrItemNotFound):
		SendNotFoundError(c, "Item not found")
	case errors.Is(err, domain.ErrUserNotFound):
		SendNotFoundError(c, "User not found")
	case errors.Is(err, domain.ErrUserAlreadyExists):
		SendBadRequestError(c, "email", "Email is already registered")
	case errors.Is(err, domain.ErrInvalidCredentials):
		SendUnauthorizedError(c, "Invalid email or password")
	default:
		return false
	}

	return true
}
