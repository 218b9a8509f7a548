package handlers

import (
	"context"
	"net/http"

	"leedsbot-backend/internal/models"
)

type dashboardService interface {
	Get(ctx context.Context, email string) (*models.DashboardResponse, error)
}

type DashboardHandler struct {
	dashboard dashboardService
}

func NewDashboardHandler(dashboard dashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	email, ok := requireEmail(w, r)
	if !ok {
		return
	}

	resp, err := h.dashboard.Get(r.Context(), email)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
