package errors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ErrorInfo carries the classified result of an arbitrary service error.
type ErrorInfo struct {
	Status  int    // HTTP status code
	Code    string // error code (codes.go)
	Message string // human-readable message
}

// ParseError classifies an error from the service layer into a client-visible
// status, code and message. Sensitive upstream detail stays out of the message;
// the caller gets enough to know which step failed.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Status:  http.StatusInternalServerError,
			Code:    InternalServerError,
			Message: "Something went wrong. Please try again in a moment",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. Missing prerequisite steps
	if strings.Contains(errStrLower, "no pos data") {
		return ErrorInfo{
			Status:  http.StatusBadRequest,
			Code:    PreconditionPosRequired,
			Message: "No POS data loaded yet. Upload a file first.",
		}
	}
	if strings.Contains(errStrLower, "no competitor data") {
		return ErrorInfo{
			Status:  http.StatusBadRequest,
			Code:    PreconditionCompetitorsRequired,
			Message: "No competitor data yet. Run a nearby search first.",
		}
	}

	// 2. Missing credentials
	if strings.Contains(errStrLower, "google_maps_api_key") {
		return ErrorInfo{
			Status:  http.StatusInternalServerError,
			Code:    UpstreamMissingMapsKey,
			Message: "Missing GOOGLE_MAPS_API_KEY",
		}
	}
	if strings.Contains(errStrLower, "gemini_api_key") {
		return ErrorInfo{
			Status:  http.StatusInternalServerError,
			Code:    UpstreamMissingGeminiKey,
			Message: "Missing GEMINI_API_KEY",
		}
	}

	// 3. Network / connection errors toward third-party services
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") ||
		strings.Contains(errStrLower, "deadline exceeded") {
		return ErrorInfo{
			Status:  http.StatusBadGateway,
			Code:    InternalExternalAPI,
			Message: "Failed to reach an external service. Please try again in a moment",
		}
	}

	// 4. Default by context
	return ErrorInfo{
		Status:  http.StatusInternalServerError,
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

// getDefaultErrorMessage picks a generic message for the failed step.
func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "ingest") || strings.Contains(contextLower, "upload") {
		return "Failed to process the uploaded file. Please check the format and try again"
	}
	if strings.Contains(contextLower, "nearby") || strings.Contains(contextLower, "places") {
		return "Failed to search nearby competitors. Please try again in a moment"
	}
	if strings.Contains(contextLower, "report") {
		return "Failed to build the benchmark report. Please try again in a moment"
	}
	if strings.Contains(contextLower, "chat") {
		return "Chat failed to generate a response. Please try again in a moment"
	}

	return "Something went wrong. Please try again in a moment"
}

// ParseAndRespond classifies err and writes the standard error response.
func ParseAndRespond(c *gin.Context, err error, context string) {
	info := ParseError(err, context)
	RespondWithError(c, info.Status, info.Code, info.Message)
}
