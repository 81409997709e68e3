package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/brewbot/brewbot-backend/internal/app/model"
)

var (
	ErrMissingGeminiKey   = errors.New("missing GEMINI_API_KEY")
	ErrLastMessageNotUser = errors.New("last message must be from user")
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// chatFallbackReply is returned when the model produces no text.
const chatFallbackReply = "I couldn't generate a response. Please reload the page or try again."

// chatSystemInstruction fixes the assistant's persona. System-role messages
// from the client are folded into it.
const chatSystemInstruction = "You are a helpful café market research assistant working for your client, a coffee shop owner. " +
	"You have access to general web knowledge and can look up publicly available information about competitors, such as their menu items, bestsellers, store offerings, pricing, and brand positioning. " +
	"Use this information to give accurate, well-sourced insights about local coffee shops, their products, and what customers like about them. " +
	"You can also provide suggestions on business strategies that will maximize profits and grow sales for your client. " +
	"You can analyze or summarize any review excerpts the user provides, combine that with publicly known details, and provide strategic suggestions for menu development, marketing, and business growth. " +
	"If information is unavailable or uncertain, state that clearly instead of completely fabricating information."

// ChatService forwards conversations to the Gemini API.
type ChatService struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewChatService(apiKey, model string, timeout time.Duration) *ChatService {
	return &ChatService{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultGeminiBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Chat builds the Gemini history from the conversation and returns the
// model's reply. The final message must be user-authored.
func (s *ChatService) Chat(ctx context.Context, req *model.ChatRequest) (string, error) {
	if s.apiKey == "" {
		return "", ErrMissingGeminiKey
	}

	instruction := chatSystemInstruction
	var history []geminiContent

	for _, msg := range req.Messages {
		switch msg.Role {
		case "user":
			history = append(history, geminiContent{Role: "user", Parts: []geminiPart{{Text: msg.Content}}})
		case "assistant":
			history = append(history, geminiContent{Role: "model", Parts: []geminiPart{{Text: msg.Content}}})
		case "system":
			// Fold into the instruction preamble.
			instruction += "\n" + msg.Content
		}
	}

	if req.Context != nil {
		contextJSON, err := json.Marshal(req.Context)
		if err != nil {
			return "", err
		}
		lead := geminiContent{
			Role:  "user",
			Parts: []geminiPart{{Text: "Context (nearby shops):\n" + string(contextJSON)}},
		}
		history = append([]geminiContent{lead}, history...)
	}

	if len(history) == 0 || history[len(history)-1].Role != "user" {
		return "", ErrLastMessageNotUser
	}

	reply, err := s.generateContent(ctx, instruction, history)
	if err != nil {
		return "", err
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return chatFallbackReply, nil
	}
	return reply, nil
}

func (s *ChatService) generateContent(ctx context.Context, instruction string, history []geminiContent) (string, error) {
	payload := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: instruction}}},
		Contents:          history,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call Gemini API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read Gemini response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamStatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var result geminiResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("failed to parse Gemini response: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("gemini API error: %s", result.Error.Message)
	}
	if len(result.Candidates) == 0 {
		return "", nil
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return text.String(), nil
}
