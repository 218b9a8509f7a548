package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leedsbot-backend/internal/config"
	"leedsbot-backend/internal/database"
	"leedsbot-backend/internal/guard"
	"leedsbot-backend/internal/handlers"
	"leedsbot-backend/internal/llm"
	"leedsbot-backend/internal/logger"
	"leedsbot-backend/internal/middleware"
	"leedsbot-backend/internal/repository"
	"leedsbot-backend/internal/router"
	"leedsbot-backend/internal/services"
	"leedsbot-backend/internal/studyctx"
	"leedsbot-backend/internal/worker"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("🚀 Starting LeedsBot Backend...")
	log.Info("✓ Environment variables loaded", "env", cfg.Env)

	ctx := context.Background()

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("✗ PostgreSQL connection failed", "error", err)
	}
	defer pool.Close()
	log.Info("✓ PostgreSQL connected")

	// ──── Step 3: Run Database Migrations ────
	applied, err := database.RunMigrations(ctx, pool, cfg.MigrationsDir, log)
	if err != nil {
		log.Fatal("✗ Database migration failed", "error", err)
	}
	log.Info("✓ Database migrations applied", "applied", applied)

	// ──── Step 4: Initialize Redis (optional) ────
	var (
		verdictCache guard.Cache
		counter      middleware.Counter = middleware.NewMemoryCounter()
	)
	if cfg.RedisURL != "" {
		rdb, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("✗ Redis unavailable, using in-process fallbacks", "error", err)
		} else {
			defer rdb.Close()
			verdictCache = guard.NewRedisCache(rdb)
			counter = middleware.NewRedisCounter(rdb)
			log.Info("✓ Redis connected")
		}
	} else {
		log.Info("✓ Redis disabled, using in-process rate limiting")
	}

	// ──── Step 5: Initialize Model Provider ────
	provider, closeProvider, err := llm.NewProvider(ctx, cfg.LLM(), log)
	if err != nil {
		log.Fatal("✗ Model provider initialization failed", "error", err)
	}
	defer closeProvider()
	if provider == nil {
		log.Warn("✗ No model API key configured, serving canned replies", "provider", cfg.LLMProvider)
	} else {
		log.Info("✓ Model provider initialized", "provider", cfg.LLMProvider, "model", provider.ModelID())
	}

	// ──── Step 6: Start Extraction Worker Pool ────
	extractPool := worker.NewPool(cfg.ExtractWorkers, log)
	extractPool.Start()
	log.Info(fmt.Sprintf("✓ Worker pool started (%d goroutines)", cfg.ExtractWorkers))

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	documentRepo := repository.NewDocumentRepo(pool)
	interactionRepo := repository.NewInteractionRepo(pool)
	attemptRepo := repository.NewQuizAttemptRepo(pool)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	builder := studyctx.NewBuilder(documentRepo, interactionRepo, attemptRepo, log)
	academicGuard := guard.New(provider, verdictCache, log)

	chatService := services.NewChatService(userRepo, interactionRepo, builder, academicGuard, provider, cfg.LLMTimeout(), log)
	quizService := services.NewQuizService(userRepo, attemptRepo, builder, provider, services.QuizServiceConfig{
		Timeout:             cfg.LLMTimeout(),
		PersistAdaptedLevel: cfg.PersistAdaptedLevel,
	}, log)
	documentService := services.NewDocumentService(documentRepo, services.NewFileExtractService(), extractPool, log)
	profileService := services.NewProfileService(userRepo)
	dashboardService := services.NewDashboardService(userRepo, attemptRepo)

	// ──── Initialize Handlers ────
	chatHandler := handlers.NewChatHandler(chatService, log)
	quizHandler := handlers.NewQuizHandler(quizService, log)
	documentHandler := handlers.NewDocumentHandler(documentService, cfg.MaxUploadMB)
	profileHandler := handlers.NewProfileHandler(profileService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	limiter := middleware.NewRateLimiter(counter, cfg.RateLimitPerMinute, time.Minute, log)

	// ──── Step 7: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		limiter,
		chatHandler,
		quizHandler,
		documentHandler,
		profileHandler,
		dashboardHandler,
		cfg.FrontendURL,
	)

	// Model calls can take most of LLM_TIMEOUT_SECONDS, twice for a quiz retry.
	writeTimeout := 2*cfg.LLMTimeout() + 15*time.Second

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
		extractPool.Stop()
	}()

	log.Info(fmt.Sprintf("✓ LeedsBot Backend ready on http://localhost:%s", cfg.Port))
	log.Info(fmt.Sprintf("  API: http://localhost:%s/api/v1", cfg.Port))

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal("Server error", "error", err)
	}
}
