package plays

import (
	"fmt"
	"time"

	"log/slog"

	"github.com/karloscodes/cartridge"
	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"
)

// EventsInRange returns all play events owned by userID, optionally restricted
// to [from, to]. Results are ordered by played_at ascending so downstream
// aggregation sees a deterministic iteration order.
func EventsInRange(db *gorm.DB, userID uint, from, to *time.Time) ([]PlayEvent, error) {
	query := db.Model(&PlayEvent{}).
		Where("user_id = ?", userID).
		Order("played_at ASC, id ASC")

	if from != nil {
		query = query.Where("played_at >= ?", from.UTC())
	}
	if to != nil {
		query = query.Where("played_at <= ?", to.UTC())
	}

	var events []PlayEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("error querying play events: %w", err)
	}
	return events, nil
}

// CountForUser returns the total number of play events stored for a user.
func CountForUser(db *gorm.DB, userID uint) (int64, error) {
	var count int64
	err := db.Model(&PlayEvent{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("error counting play events: %w", err)
	}
	return count, nil
}

// CoveredRange returns the earliest and latest played_at timestamp stored for
// a user. ok is false when the user has no events.
func CoveredRange(db *gorm.DB, userID uint) (first, last time.Time, ok bool, err error) {
	var result struct {
		First *time.Time
		Last  *time.Time
	}

	query := `
    SELECT MIN(played_at) as first, MAX(played_at) as last
    FROM play_events
    WHERE user_id = ?
    `

	if err := db.Raw(query, userID).Scan(&result).Error; err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("error querying covered range: %w", err)
	}
	if result.First == nil || result.Last == nil {
		return time.Time{}, time.Time{}, false, nil
	}
	return *result.First, *result.Last, true, nil
}

// DeleteAllForUser removes every play event owned by userID and returns the
// number of rows deleted.
func DeleteAllForUser(dbManager cartridge.DBManager, logger *slog.Logger, userID uint) (int64, error) {
	db := dbManager.GetConnection()

	var deleted int64
	err := sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		result := tx.Where("user_id = ?", userID).Delete(&PlayEvent{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete play events: %w", err)
	}

	logger.Info("Deleted play events", slog.Uint64("user_id", uint64(userID)), slog.Int64("deleted", deleted))
	return deleted, nil
}
