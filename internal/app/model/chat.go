package model

// ChatMessage is one turn of the assistant conversation.
type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=system user assistant"`
	Content string `json:"content" binding:"required,min=1"`
}

// ChatRequest is the /ai/chat request body. Context optionally carries
// whatever the frontend wants the assistant primed with (e.g. the shops the
// user just retrieved).
type ChatRequest struct {
	Messages []ChatMessage          `json:"messages" binding:"required,min=1,dive"`
	Context  map[string]interface{} `json:"context"`
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	Content string `json:"content"`
}
