package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fieldlex-client/internal/api"
	"fieldlex-client/internal/catalog"
	"fieldlex-client/internal/config"
	"fieldlex-client/internal/db"
	"fieldlex-client/internal/logger"
	"fieldlex-client/internal/queue"
	"fieldlex-client/internal/remote"
	"fieldlex-client/internal/storage"
	"fieldlex-client/internal/store"
	syncsvc "fieldlex-client/internal/sync"
	"fieldlex-client/internal/token"
	"fieldlex-client/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Get()

	log.Info().Str("version", cfg.App.Version).Msg("Starting field collection agent")

	// Open the local state database
	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open state database")
	}
	defer database.Close()

	repo := db.NewRepository(database)
	offlineQueue := queue.NewOffline(repo)
	submissions := store.NewSubmissions(repo)

	// Wire the remote pipeline
	tokens := token.NewStore(cfg.TokenPath())
	executor := remote.NewExecutor(cfg, tokens)
	auth := remote.NewAuthenticator(cfg, executor, tokens)
	catalogs := catalog.NewService(cfg, executor)
	svc := syncsvc.NewService(cfg, executor, offlineQueue, submissions)

	if cfg.Archive.Enabled {
		archive, err := storage.NewS3Archive(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize audio archive")
		}
		svc.SetArchive(archive)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional interval sync worker
	syncWorker := worker.NewSyncWorker(cfg, svc)
	go func() {
		if err := syncWorker.Start(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("Sync worker stopped")
		}
	}()

	// Setup Gin router
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(api.CORSMiddleware())
	router.Use(api.LoggingMiddleware())
	router.Use(api.RecoveryMiddleware())

	handler := api.NewHandler(cfg, svc, auth, catalogs, offlineQueue, submissions)
	api.SetupRoutes(router, handler)

	// The agent only ever serves the on-device UI.
	server := &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down agent...")

	cancel()
	syncWorker.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Agent exited")
}
