package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the failure half of the API envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// RespondWithError sends an error envelope with the given status code.
func RespondWithError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorResponse{
		Success: false,
		Message: message,
	})
}

// Helper functions for common error responses

// BadRequest sends a 400 response for malformed or missing input.
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 response for credential or token failures.
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, message)
}

// NotFound sends a 404 response. Ownership mismatches use this too, so a
// non-owner cannot tell a foreign resource from a missing one.
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, message)
}

// Conflict sends a 409 response for uniqueness violations.
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	RespondWithError(c, http.StatusConflict, message)
}

// InternalError sends a 500 response. The detail string is included only
// when the server is not running in release mode.
func InternalError(c *gin.Context, detail string) {
	resp := ErrorResponse{
		Success: false,
		Message: "Internal server error",
	}
	if gin.Mode() != gin.ReleaseMode {
		resp.Error = detail
	}
	c.JSON(http.StatusInternalServerError, resp)
}
