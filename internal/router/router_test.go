package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"leedsbot-backend/internal/handlers"
	"leedsbot-backend/internal/logger"
	"leedsbot-backend/internal/middleware"
	"leedsbot-backend/internal/services"
)

func newTestRouter() http.Handler {
	log := logger.Nop()
	return New(
		middleware.NewJWTAuth("secret"),
		middleware.NewRateLimiter(middleware.NewMemoryCounter(), 30, time.Minute, log),
		handlers.NewChatHandler(nil, log),
		handlers.NewQuizHandler(nil, log),
		handlers.NewDocumentHandler(nil, 20),
		handlers.NewProfileHandler(services.NewProfileService(nil)),
		handlers.NewDashboardHandler(nil),
		"http://localhost:3000",
	)
}

func TestHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Body.String() != `{"status":"ok"}` {
		t.Errorf("unexpected body %q", rr.Body.String())
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Errorf("expected request id header")
	}
}

func TestAPIRequiresAuth(t *testing.T) {
	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/chat"},
		{http.MethodPost, "/api/v1/quiz/generate"},
		{http.MethodPut, "/api/v1/quiz/generate"},
		{http.MethodPost, "/api/v1/quiz/submit"},
		{http.MethodPost, "/api/v1/documents"},
		{http.MethodGet, "/api/v1/documents"},
		{http.MethodGet, "/api/v1/profile"},
		{http.MethodPost, "/api/v1/profile"},
		{http.MethodGet, "/api/v1/dashboard"},
	}

	h := newTestRouter()
	for _, rt := range routes {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(rt.method, rt.path, nil))
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", rt.method, rt.path, rr.Code)
		}
		if rr.Header().Get("Cache-Control") != "no-store" {
			t.Errorf("%s %s: expected no-store", rt.method, rt.path)
		}
	}
}
