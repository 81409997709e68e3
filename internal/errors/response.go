package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error payload returned by every handler.
type ErrorResponse struct {
	Error   string `json:"error"`   // error code (for frontend mapping)
	Message string `json:"message"` // human-readable message
}

// RespondWithError writes a standard error response.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// Common shortcuts used by controllers.

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func PreconditionFailed(c *gin.Context, errorCode string, message string) {
	// Preconditions surface as 400 so the frontend treats them like
	// ordinary validation feedback.
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func UpstreamError(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadGateway, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Something went wrong. Please try again in a moment"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}
