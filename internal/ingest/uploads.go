package ingest

import (
	"fmt"

	"log/slog"

	"github.com/karloscodes/cartridge"
	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"

	"replayed/internal/plays"
)

// ListUploads returns every accepted batch for a user, newest first, with the
// entry count and played-at range each batch contributed.
func ListUploads(db *gorm.DB, userID uint) ([]UploadSummary, error) {
	var results []UploadSummary

	query := `
    SELECT
        b.id as batch_id,
        b.file_name,
        b.size_bytes,
        b.uploaded_at,
        COUNT(e.id) as entry_count,
        MIN(e.played_at) as first_played_at,
        MAX(e.played_at) as last_played_at
    FROM upload_batches b
    LEFT JOIN play_events e ON e.batch_id = b.id
    WHERE b.user_id = ?
    GROUP BY b.id
    ORDER BY b.uploaded_at DESC
    `

	if err := db.Raw(query, userID).Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("error listing uploads: %w", err)
	}

	if results == nil {
		results = []UploadSummary{}
	}
	return results, nil
}

// DeleteBatchForUser removes one batch and its events, verifying ownership
// first. Returns the number of events deleted.
func DeleteBatchForUser(dbManager cartridge.DBManager, logger *slog.Logger, userID, batchID uint) (int64, error) {
	db := dbManager.GetConnection()

	var batch UploadBatch
	if err := db.Where("id = ? AND user_id = ?", batchID, userID).First(&batch).Error; err != nil {
		return 0, fmt.Errorf("upload batch not found: %w", err)
	}

	var deleted int64
	err := sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		result := tx.Where("batch_id = ?", batchID).Delete(&plays.PlayEvent{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return tx.Delete(&UploadBatch{}, batchID).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete upload batch: %w", err)
	}

	logger.Info("Deleted upload batch",
		slog.Uint64("user_id", uint64(userID)),
		slog.Uint64("batch_id", uint64(batchID)),
		slog.Int64("events_deleted", deleted))
	return deleted, nil
}

// DeleteAllData purges every play event and upload batch a user owns and
// returns the number of events removed.
func DeleteAllData(dbManager cartridge.DBManager, logger *slog.Logger, userID uint) (int64, error) {
	db := dbManager.GetConnection()

	var deleted int64
	err := sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		result := tx.Where("user_id = ?", userID).Delete(&plays.PlayEvent{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return tx.Where("user_id = ?", userID).Delete(&UploadBatch{}).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete user data: %w", err)
	}

	logger.Info("Purged all play data",
		slog.Uint64("user_id", uint64(userID)),
		slog.Int64("events_deleted", deleted))
	return deleted, nil
}
