package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// The frontend maps these codes to user-facing messages.

const (
	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // malformed request body or query
	ValidationInvalidFile   = "VALIDATION_INVALID_FILE"   // unreadable or unsupported upload
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"  // parameter outside accepted range
	ValidationRequired      = "VALIDATION_REQUIRED"       // required field missing
	ValidationEmptyMessages = "VALIDATION_EMPTY_MESSAGES" // chat history empty or malformed

	// ==================== Precondition (PRECONDITION_) ====================
	PreconditionPosRequired         = "PRECONDITION_POS_REQUIRED"         // report before POS upload
	PreconditionCompetitorsRequired = "PRECONDITION_COMPETITORS_REQUIRED" // report before nearby search

	// ==================== Upstream (UPSTREAM_) ====================
	UpstreamMissingMapsKey   = "UPSTREAM_MISSING_MAPS_KEY"   // maps API key unconfigured
	UpstreamMissingGeminiKey = "UPSTREAM_MISSING_GEMINI_KEY" // chat API key unconfigured
	UpstreamMapsError        = "UPSTREAM_MAPS_ERROR"         // places provider non-success
	UpstreamChatError        = "UPSTREAM_CHAT_ERROR"         // chat provider non-success

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR" // unexpected error
	InternalExternalAPI = "INTERNAL_EXTERNAL_API" // external service unreachable
)
