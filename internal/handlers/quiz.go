package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"leedsbot-backend/internal/logger"
	"leedsbot-backend/internal/models"
)

type quizService interface {
	Generate(ctx context.Context, email string, req models.GenerateQuizRequest) (*models.GenerateQuizResponse, error)
	Submit(ctx context.Context, email string, req models.SubmitQuizRequest) (*models.SubmitQuizResponse, error)
}

type QuizHandler struct {
	quiz quizService
	log  *logger.Logger
}

func NewQuizHandler(quiz quizService, log *logger.Logger) *QuizHandler {
	return &QuizHandler{quiz: quiz, log: log}
}

func (h *QuizHandler) Generate(w http.ResponseWriter, r *http.Request) {
	email, ok := requireEmail(w, r)
	if !ok {
		return
	}

	var req models.GenerateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	resp, err := h.quiz.Generate(r.Context(), email, req)
	if err != nil {
		h.log.Error("quiz generation failed", "email", email, "error", err)
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *QuizHandler) Submit(w http.ResponseWriter, r *http.Request) {
	email, ok := requireEmail(w, r)
	if !ok {
		return
	}

	var req models.SubmitQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	resp, err := h.quiz.Submit(r.Context(), email, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
