package jobs

import (
	"log/slog"
	"time"

	"replayed/internal/config"
	"replayed/internal/database"
	"replayed/internal/ingest"
)

// CleanupJob removes orphaned upload batches: batch rows whose events were
// never inserted because the import failed after the batch row was committed.
// The import path already attempts its own cleanup; this job is the backstop
// for the cases where that best-effort delete failed too.
type CleanupJob struct {
	dbManager *database.DBManager
	logger    *slog.Logger
	cfg       *config.Config
}

func NewCleanupJob(dbManager *database.DBManager, logger *slog.Logger, cfg *config.Config) *CleanupJob {
	return &CleanupJob{
		dbManager: dbManager,
		logger:    logger,
		cfg:       cfg,
	}
}

// Run deletes batches with zero events that are older than the configured
// orphan age. The age threshold keeps the job from racing an import that has
// committed its batch row but not yet inserted its events.
func (j *CleanupJob) Run() error {
	maxAge := time.Duration(j.cfg.OrphanBatchMaxAgeHours) * time.Hour
	db := j.dbManager.GetConnection()
	cutoff := time.Now().UTC().Add(-maxAge)

	var orphanIDs []uint
	query := `
    SELECT b.id
    FROM upload_batches b
    LEFT JOIN play_events e ON e.batch_id = b.id
    WHERE b.created_at < ?
    GROUP BY b.id
    HAVING COUNT(e.id) = 0
    `
	if err := db.Raw(query, cutoff).Scan(&orphanIDs).Error; err != nil {
		j.logger.Error("Failed to find orphaned upload batches", slog.Any("error", err))
		return err
	}

	if len(orphanIDs) == 0 {
		j.logger.Debug("No orphaned upload batches to clean up")
		return nil
	}

	result := db.Where("id IN ?", orphanIDs).Delete(&ingest.UploadBatch{})
	if result.Error != nil {
		j.logger.Error("Failed to delete orphaned upload batches", slog.Any("error", result.Error))
		return result.Error
	}

	j.logger.Info("Cleaned up orphaned upload batches",
		slog.Int64("deleted_count", result.RowsAffected),
		slog.Duration("max_age", maxAge))
	return nil
}
