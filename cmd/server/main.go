package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"imagequest/internal/ai"
	"imagequest/internal/auth"
	"imagequest/internal/catalog"
	"imagequest/internal/config"
	"imagequest/internal/database"
	"imagequest/internal/game"
	"imagequest/internal/generate"
	"imagequest/internal/handlers"
	"imagequest/internal/jobs"
	"imagequest/internal/security"
	"imagequest/internal/store"
)

func main() {
	// Load .env if present, then configuration
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Load()

	// Initialize the job store (supports sqlite, postgres, mysql)
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(); err != nil {
		log.Fatalf("Failed to create job tables: %v", err)
	}

	log.Printf("Job store ready (type: %s)", cfg.DatabaseType)

	// Wire the character catalog and game engine
	characterStore := store.NewCharacterStore(cfg.CharactersPath)
	catalogService := catalog.NewService(characterStore, cfg.UploadDir)
	engine := game.NewEngine(characterStore)

	// Background generation
	jobRepo := jobs.NewRepository(db)
	aiClient := ai.NewClient(cfg.AIBaseURL)
	generator := generate.NewGenerator(aiClient, jobRepo, cfg.DownloadTimeout)

	// Admin password with reload-on-change semantics
	adminPassword := auth.NewAdminPassword(cfg.AdminPasswordPath)
	limiter := security.NewRateLimiter(10, time.Minute)

	// Initialize handlers
	middleware := handlers.NewMiddleware(adminPassword, limiter)
	authHandler := handlers.NewAuthHandler(adminPassword)
	promptsHandler := handlers.NewPromptsHandler(cfg.PromptsPath)
	catalogHandler := handlers.NewCatalogHandler(catalogService, jobRepo)
	uploadHandler := handlers.NewUploadHandler(catalogService, generator, aiClient, cfg.UploadMaxSize)
	gameHandler := handlers.NewGameHandler(engine)
	jobsHandler := handlers.NewJobsHandler(jobRepo)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/verify-password", middleware.RateLimit(authHandler.VerifyPassword))
	mux.HandleFunc("GET /api/prompts", promptsHandler.GetPrompts)
	mux.HandleFunc("GET /api/characters", catalogHandler.ListCharacters)

	// Admin routes
	mux.HandleFunc("GET /api/admin/characters", middleware.RequireAdmin(catalogHandler.AdminListCharacters))
	mux.HandleFunc("DELETE /api/admin/characters/{id}", middleware.RequireAdmin(catalogHandler.DeleteCharacter))
	mux.HandleFunc("PUT /api/admin/characters/{id}/make-public", middleware.RequireAdmin(catalogHandler.MakePublic))
	mux.HandleFunc("PUT /api/admin/characters/{id}/make-private", middleware.RequireAdmin(catalogHandler.MakePrivate))

	// Upload and AI routes
	mux.HandleFunc("POST /api/upload", uploadHandler.Upload)
	mux.HandleFunc("POST /api/generate-questions", uploadHandler.GenerateQuestions)
	mux.HandleFunc("GET /api/jobs/{id}", jobsHandler.GetJob)

	// Game routes
	mux.HandleFunc("POST /api/question/{qid}", gameHandler.GetQuestion)
	mux.HandleFunc("POST /api/answer", gameHandler.SubmitAnswer)

	// Wrap with CORS and logging middleware
	handler := handlers.Logging(handlers.CORS(mux))

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}
