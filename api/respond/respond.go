// Package respond defines the JSON error envelope shared by siphon's HTTP
// handlers and middleware, split out as its own package so middleware (which
// the router package imports) never has to import the router package back.
package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorDetail is the machine-readable error shape returned on every non-2xx
// response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorDetail in the envelope every handler returns on
// failure, matching the success envelope's Success field.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error"`
}

const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// Error aborts the request with a JSON ErrorResponse.
func Error(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Success: false,
		Error:   &ErrorDetail{Code: code, Message: message},
	})
}

// BadRequest is shorthand for Error(c, http.StatusBadRequest, ErrCodeInvalidInput, message).
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, ErrCodeInvalidInput, message)
}
