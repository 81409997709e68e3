package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brewbot/brewbot-backend/internal/app/model"
	"github.com/brewbot/brewbot-backend/internal/app/service"
	apperrors "github.com/brewbot/brewbot-backend/internal/errors"
	"github.com/brewbot/brewbot-backend/pkg/logger"
)

type ChatController struct {
	chatService *service.ChatService
}

func NewChatController(chatService *service.ChatService) *ChatController {
	return &ChatController{
		chatService: chatService,
	}
}

// Chat forwards a conversation to the assistant.
// POST /ai/chat
func (ctrl *ChatController) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationEmptyMessages, "messages must be a non-empty list of {role, content}")
		return
	}

	content, err := ctrl.chatService.Chat(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrLastMessageNotUser) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Last message must be from user.")
			return
		}
		if errors.Is(err, service.ErrMissingGeminiKey) {
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UpstreamMissingGeminiKey, "Missing GEMINI_API_KEY")
			return
		}
		logger.Error("Chat request failed", err)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UpstreamChatError,
			"Chat failed to generate a response. Please try again in a moment")
		return
	}

	c.JSON(http.StatusOK, model.ChatResponse{Content: content})
}
