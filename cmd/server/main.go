package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"empenglish-backend/internal/config"
	"empenglish-backend/internal/database"
	"empenglish-backend/internal/handlers"
	"empenglish-backend/internal/middleware"
	"empenglish-backend/internal/practice"
	"empenglish-backend/internal/repository"
	"empenglish-backend/internal/router"
	"empenglish-backend/internal/scoring"
	"empenglish-backend/internal/services"
	"empenglish-backend/internal/websocket"
	"empenglish-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting EmpEnglish Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	questionRepo := repository.NewQuestionRepo(pool)
	sessionRepo := repository.NewPracticeSessionRepo(pool)
	turnRepo := repository.NewPracticeTurnRepo(pool)
	reportRepo := repository.NewPracticeReportRepo(pool)
	jobRepo := repository.NewJobRepo(pool)

	// ──── Step 5: Initialize AI Clients ────
	asrService, err := services.NewAsrService(cfg.GeminiAPIKey, cfg.GeminiConcurrentReqs)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer asrService.Close()
	log.Println("✓ Gemini speech recognition client initialized")

	llmService := services.NewLlmService(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
	ttsService := services.NewTtsService(cfg.TTSBaseURL)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	emailService := services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.FrontendURL)
	authService := services.NewAuthService(userRepo, redisClients.Queue, jwtAuth, emailService)
	notifier := services.NewNotifierService(redisClients.Queue, jobRepo)

	orchestrator := practice.NewOrchestrator(
		sessionRepo,
		turnRepo,
		reportRepo,
		questionRepo,
		asrService,
		ttsService,
		llmService,
		scoring.NewAggregator(),
		notifier,
	)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService, cfg.FrontendURL)
	practiceHandler := handlers.NewPracticeHandler(orchestrator, userRepo, sessionRepo, turnRepo, reportRepo)
	questionHandler := handlers.NewQuestionHandler(questionRepo, userRepo)
	dashboardHandler := handlers.NewDashboardHandler(pool, userRepo)
	userHandler := handlers.NewUserHandler(userRepo)
	jobHandler := handlers.NewJobHandler(jobRepo)

	// ──── Step 6: Start Job Worker Pool ────
	workerPool := worker.NewPool(
		redisClients.Queue,
		notifier,
		emailService,
		userRepo,
		jobRepo,
		sessionRepo,
		reportRepo,
		cfg.WorkerCount,
	)
	workerPool.Start()
	log.Printf("✓ Worker pool started (%d goroutines)", cfg.WorkerCount)

	notificationScheduler := services.NewNotificationScheduler(userRepo, emailService)
	notificationScheduler.Start()
	log.Println("✓ Notification scheduler started")

	// ──── Step 7: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, cfg.JWTSecret, orchestrator, sessionRepo)
	log.Println("✓ WebSocket hub started")

	// ──── Step 8: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		practiceHandler,
		questionHandler,
		dashboardHandler,
		userHandler,
		jobHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		workerPool.Stop()
		notificationScheduler.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ EmpEnglish Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
