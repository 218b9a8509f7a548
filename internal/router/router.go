package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"leedsbot-backend/internal/handlers"
	"leedsbot-backend/internal/middleware"
)

func New(
	jwtAuth *middleware.JWTAuth,
	limiter *middleware.RateLimiter,
	chatHandler *handlers.ChatHandler,
	quizHandler *handlers.QuizHandler,
	documentHandler *handlers.DocumentHandler,
	profileHandler *handlers.ProfileHandler,
	dashboardHandler *handlers.DashboardHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Use(jwtAuth.Middleware)
		r.Use(limiter.Middleware)

		// ──── Tutor Chat ────
		r.Post("/chat", chatHandler.Chat)

		// ──── Quiz Routes ────
		r.Route("/quiz", func(r chi.Router) {
			r.Post("/generate", quizHandler.Generate)
			r.Put("/generate", quizHandler.Submit)
			r.Post("/submit", quizHandler.Submit)
		})

		// ──── Documents ────
		r.Route("/documents", func(r chi.Router) {
			r.Post("/", documentHandler.Upload)
			r.Get("/", documentHandler.List)
		})

		// ──── Onboarding Profile ────
		r.Get("/profile", profileHandler.Get)
		r.Post("/profile", profileHandler.Save)

		r.Get("/dashboard", dashboardHandler.Get)
	})

	return r
}
