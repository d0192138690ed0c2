package main

import (
	"database/sql"
	"fmt"

	"fieldlex-client/internal/catalog"
	"fieldlex-client/internal/config"
	"fieldlex-client/internal/db"
	"fieldlex-client/internal/excel"
	"fieldlex-client/internal/logger"
	"fieldlex-client/internal/queue"
	"fieldlex-client/internal/remote"
	"fieldlex-client/internal/storage"
	"fieldlex-client/internal/store"
	syncsvc "fieldlex-client/internal/sync"
	"fieldlex-client/internal/token"
)

// app wires the pipeline for one CLI invocation.
type app struct {
	cfg      *config.Config
	database *sql.DB
	queue    *queue.Offline
	store    *store.Submissions
	auth     *remote.Authenticator
	catalogs *catalog.Service
	svc      *syncsvc.Service
	importer *excel.Importer
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	repo := db.NewRepository(database)
	offlineQueue := queue.NewOffline(repo)
	submissions := store.NewSubmissions(repo)

	tokens := token.NewStore(cfg.TokenPath())
	executor := remote.NewExecutor(cfg, tokens)
	svc := syncsvc.NewService(cfg, executor, offlineQueue, submissions)

	if cfg.Archive.Enabled {
		archive, err := storage.NewS3Archive(cfg)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to initialize audio archive: %w", err)
		}
		svc.SetArchive(archive)
	}

	return &app{
		cfg:      cfg,
		database: database,
		queue:    offlineQueue,
		store:    submissions,
		auth:     remote.NewAuthenticator(cfg, executor, tokens),
		catalogs: catalog.NewService(cfg, executor),
		svc:      svc,
		importer: excel.NewImporter(svc),
	}, nil
}

func (a *app) close() {
	a.database.Close()
}
