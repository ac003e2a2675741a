package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"atelier/internal/auth"
	"atelier/internal/catalog"
	"atelier/internal/config"
	"atelier/internal/handler"
	"atelier/internal/middleware"
	"atelier/internal/repository/postgres"
	"atelier/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// JWT verifier backed by the auth provider's JWKS endpoint
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	fileRepo := postgres.NewFileRepository(repoConfig)
	projectRepo := postgres.NewProjectRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Sandbox model catalog (embedded YAML)
	modelRegistry, err := catalog.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load model catalog: %v", err)
	}

	// Create services
	resourceValidator := service.NewResourceValidator(fileRepo, projectRepo)
	fileService := service.NewFileService(fileRepo, resourceValidator, txManager, logger)
	projectService := service.NewProjectService(projectRepo, fileRepo, txManager, logger)

	// Create handlers
	fileHandler := handler.NewFileHandler(fileService, logger)
	projectHandler := handler.NewProjectHandler(projectService, logger)
	modelsHandler := handler.NewModelsHandler(modelRegistry, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", handler.HealthCheck)

	// File routes
	mux.HandleFunc("GET /api/files", fileHandler.List)
	mux.HandleFunc("POST /api/files", fileHandler.Create)
	mux.HandleFunc("POST /api/files/batch", fileHandler.Batch)
	mux.HandleFunc("GET /api/files/{id}", fileHandler.Get)
	mux.HandleFunc("PUT /api/files/{id}", fileHandler.Update)
	mux.HandleFunc("DELETE /api/files/{id}", fileHandler.Delete)

	// Project routes
	mux.HandleFunc("GET /api/projects", projectHandler.List)
	mux.HandleFunc("POST /api/projects", projectHandler.Create)
	mux.HandleFunc("GET /api/projects/{id}", projectHandler.Get)
	mux.HandleFunc("PATCH /api/projects/{id}", projectHandler.Update)
	mux.HandleFunc("DELETE /api/projects/{id}", projectHandler.Delete)

	// Sandbox model catalog
	mux.HandleFunc("GET /api/models", modelsHandler.List)

	// Build middleware chain (applied in reverse order - they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	var root http.Handler = mux
	root = middleware.AuthMiddleware(jwtVerifier)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
