package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"leedsbot-backend/internal/logger"
	"leedsbot-backend/internal/models"
	"leedsbot-backend/internal/services"
)

type chatService interface {
	Turn(ctx context.Context, email string, req models.ChatRequest) (*models.ChatResult, error)
}

type ChatHandler struct {
	chat chatService
	log  *logger.Logger
}

func NewChatHandler(chat chatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, log: log}
}

// Chat handles one tutoring turn: an intake request, a guarded question, or
// an FAQ hit.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	email, ok := requireEmail(w, r)
	if !ok {
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	result, err := h.chat.Turn(r.Context(), email, req)
	if err != nil {
		switch err.(type) {
		case *services.ValidationError, *services.UnauthorizedError, *services.RateLimitError:
			handleServiceError(w, r, err)
		default:
			h.log.Error("chat turn failed", "email", email, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Chat failed", r))
		}
		return
	}

	writeJSON(w, http.StatusOK, result.Payload())
}
