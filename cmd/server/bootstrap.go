package main

import (
	"github.com/collabhub/backend/internal/config"
	"github.com/collabhub/backend/internal/handlers"
	"github.com/collabhub/backend/internal/models"
	"github.com/collabhub/backend/internal/services"
	"github.com/collabhub/backend/internal/storage"
	"github.com/collabhub/backend/internal/utils"
	"github.com/collabhub/backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cfg              *config.Config
	blobStore        storage.BlobStore
	cleanupScheduler *cron.Cron
	authHandler      *handlers.AuthHandler
}

// bootstrap initializes all application dependencies: database, blob storage,
// schedulers, and the seed admin account.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize audit trail writer
	services.InitAudit(models.GetDB())

	// Initialize attachment blob storage
	blobStore, err := storage.New(&cfg.Storage)
	if err != nil {
		logger.Fatalf("Failed to initialize blob storage: %v", err)
	}

	// Start nightly cleanup of stale unread markers and old audit rows
	cleanupScheduler := services.StartCleanupScheduler(models.GetDB())

	// Create default admin user
	authHandler := handlers.NewAuthHandler(models.GetDB(), cfg)
	if err := authHandler.CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	return &appServices{
		cfg:              cfg,
		blobStore:        blobStore,
		cleanupScheduler: cleanupScheduler,
		authHandler:      authHandler,
	}
}

// shutdown gracefully stops background services.
func (s *appServices) shutdown() {
	if s.cleanupScheduler != nil {
		s.cleanupScheduler.Stop()
	}
	logger.Info().Msg("All schedulers stopped")
}
