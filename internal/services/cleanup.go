package services

import (
	"time"

	"github.com/collabhub/backend/internal/models"
	"github.com/collabhub/backend/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const (
	markerRetentionDays = 30
	auditRetentionDays  = 90
)

// StartCleanupScheduler runs nightly housekeeping: pruning zero-count
// unread markers that nobody touched for a month, and expiring old audit
// rows. Returns the scheduler so the caller can Stop it on shutdown.
func StartCleanupScheduler(db *gorm.DB) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("30 3 * * *", func() {
		runCleanup(db)
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to schedule cleanup job")
		return c
	}

	c.Start()
	return c
}

func runCleanup(db *gorm.DB) {
	cutoff := time.Now().AddDate(0, 0, -markerRetentionDays)
	res := db.Where("count = 0 AND updated_at < ?", cutoff).Delete(&models.UnreadMarker{})
	if res.Error != nil {
		logger.Error().Err(res.Error).Msg("unread marker cleanup failed")
	} else if res.RowsAffected > 0 {
		logger.Info().Int64("deleted", res.RowsAffected).Msg("pruned stale unread markers")
	}

	deleted, err := NewAuditLogService(db).CleanupOld(auditRetentionDays)
	if err != nil {
		logger.Error().Err(err).Msg("audit log cleanup failed")
	} else if deleted > 0 {
		logger.Info().Int64("deleted", deleted).Msg("pruned old audit logs")
	}
}
