package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brewbot/brewbot-backend/internal/app/model"
)

func newChatService(baseURL string) *ChatService {
	svc := NewChatService("test-key", "gemini-2.5-flash", 2*time.Second)
	svc.baseURL = baseURL
	return svc
}

func geminiServer(t *testing.T, reply string, capture *geminiRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}
		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": reply}},
				}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestChat_MissingKey(t *testing.T) {
	svc := NewChatService("", "gemini-2.5-flash", time.Second)
	_, err := svc.Chat(context.Background(), &model.ChatRequest{
		Messages: []model.ChatMessage{{Role: "user", Content: "hi"}},
	})
	assert.ErrorIs(t, err, ErrMissingGeminiKey)
}

func TestChat_LastMessageMustBeUser(t *testing.T) {
	svc := newChatService("http://unused.invalid")

	_, err := svc.Chat(context.Background(), &model.ChatRequest{
		Messages: []model.ChatMessage{
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "hello"},
		},
	})
	assert.ErrorIs(t, err, ErrLastMessageNotUser)

	// A history with only system messages has no user turn at all.
	_, err = svc.Chat(context.Background(), &model.ChatRequest{
		Messages: []model.ChatMessage{{Role: "system", Content: "be brief"}},
	})
	assert.ErrorIs(t, err, ErrLastMessageNotUser)
}

func TestChat_ReturnsReply(t *testing.T) {
	var captured geminiRequest
	server := geminiServer(t, "  Try adding a matcha latte.  ", &captured)
	defer server.Close()

	svc := newChatService(server.URL)
	reply, err := svc.Chat(context.Background(), &model.ChatRequest{
		Messages: []model.ChatMessage{
			{Role: "user", Content: "what should I add to my menu?"},
			{Role: "assistant", Content: "tell me about your shop"},
			{Role: "user", Content: "small espresso bar"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Try adding a matcha latte.", reply)

	require.Len(t, captured.Contents, 3)
	assert.Equal(t, "user", captured.Contents[0].Role)
	assert.Equal(t, "model", captured.Contents[1].Role)
	assert.Equal(t, "user", captured.Contents[2].Role)
	require.NotNil(t, captured.SystemInstruction)
	assert.Contains(t, captured.SystemInstruction.Parts[0].Text, "market research assistant")
}

func TestChat_ContextBecomesLeadingUserTurn(t *testing.T) {
	var captured geminiRequest
	server := geminiServer(t, "ok", &captured)
	defer server.Close()

	svc := newChatService(server.URL)
	_, err := svc.Chat(context.Background(), &model.ChatRequest{
		Messages: []model.ChatMessage{{Role: "user", Content: "summarize"}},
		Context:  map[string]interface{}{"competitors": []string{"Sunrise Coffee"}},
	})
	require.NoError(t, err)

	require.Len(t, captured.Contents, 2)
	assert.Equal(t, "user", captured.Contents[0].Role)
	assert.Contains(t, captured.Contents[0].Parts[0].Text, "Context (nearby shops):")
	assert.Contains(t, captured.Contents[0].Parts[0].Text, "Sunrise Coffee")
}

func TestChat_SystemMessagesFoldIntoInstruction(t *testing.T) {
	var captured geminiRequest
	server := geminiServer(t, "ok", &captured)
	defer server.Close()

	svc := newChatService(server.URL)
	_, err := svc.Chat(context.Background(), &model.ChatRequest{
		Messages: []model.ChatMessage{
			{Role: "system", Content: "Answer in one sentence."},
			{Role: "user", Content: "hello"},
		},
	})
	require.NoError(t, err)

	// System content never appears as a turn; it extends the preamble.
	require.Len(t, captured.Contents, 1)
	assert.Contains(t, captured.SystemInstruction.Parts[0].Text, "Answer in one sentence.")
}

func TestChat_EmptyReplyFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	svc := newChatService(server.URL)
	reply, err := svc.Chat(context.Background(), &model.ChatRequest{
		Messages: []model.ChatMessage{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "I couldn't generate a response. Please reload the page or try again.", reply)
}

func TestChat_UpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	svc := newChatService(server.URL)
	_, err := svc.Chat(context.Background(), &model.ChatRequest{
		Messages: []model.ChatMessage{{Role: "user", Content: "hi"}},
	})

	var upstream *UpstreamStatusError
	assert.ErrorAs(t, err, &upstream)
}
