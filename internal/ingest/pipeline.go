package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"github.com/gabriel-vasile/mimetype"
	"github.com/goccy/go-json"
	"github.com/karloscodes/cartridge"
	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"

	"replayed/internal/pkg/platform"
	"replayed/internal/plays"
)

const (
	// MaxUploadSizeBytes caps accepted history files at 100 MiB. Multi-year
	// extended exports stay well under this.
	MaxUploadSizeBytes = 100 << 20

	// bulkInsertBatchSize bounds the multi-row INSERT statements used for the
	// converted events.
	bulkInsertBatchSize = 500
)

// ValidationError reports an upload rejected before any state was created.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Ingest runs the full import pipeline for one uploaded history file:
// validate, parse, dedup-gate, create the batch row, convert records and
// bulk-insert the surviving events.
//
// Individual records that fail conversion are counted and skipped; they never
// abort the batch. A malformed top-level document or a storage failure aborts
// the whole operation.
func Ingest(dbManager cartridge.DBManager, logger *slog.Logger, userID uint, fileName string, raw []byte) (*IngestResult, error) {
	if err := validateUpload(fileName, raw); err != nil {
		return nil, err
	}

	// An empty document or empty array is a valid no-op upload, not an error.
	if len(bytes.TrimSpace(raw)) == 0 {
		return &IngestResult{Success: true, Message: "No entries found in file"}, nil
	}

	var records []RawPlayRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("file is not a valid play history export: %v", err)}
	}
	if len(records) == 0 {
		return &IngestResult{Success: true, Message: "No entries found in file"}, nil
	}

	db := dbManager.GetConnection()
	fingerprint := Fingerprint(raw)

	existing, err := FindBatchByFingerprint(db, userID, fingerprint)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return duplicateResult(existing), nil
	}

	// The batch row is committed before the events so a mid-batch failure
	// never leaves events pointing at a missing batch id.
	batch := &UploadBatch{
		UserID:      userID,
		FileName:    fileName,
		Fingerprint: fingerprint,
		SizeBytes:   int64(len(raw)),
		UploadedAt:  time.Now().UTC(),
	}
	err = sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Create(batch).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			// Lost the race against a concurrent identical upload. The unique
			// index is the real dedup guarantor; treat this exactly like a
			// pre-check hit.
			existing, lookupErr := FindBatchByFingerprint(db, userID, fingerprint)
			if lookupErr == nil && existing != nil {
				return duplicateResult(existing), nil
			}
			return duplicateResult(batch), nil
		}
		return nil, fmt.Errorf("failed to create upload batch: %w", err)
	}

	events, skipped := convertRecords(logger, userID, batch.ID, records)

	if len(events) == 0 {
		// Nothing survived conversion; remove the batch row rather than
		// leaving an empty orphan behind.
		if delErr := deleteBatch(dbManager, logger, batch.ID); delErr != nil {
			logger.Error("Failed to roll back empty upload batch",
				slog.Uint64("batch_id", uint64(batch.ID)), slog.Any("error", delErr))
		}
		return &IngestResult{
			Success:      true,
			Message:      "No valid entries found in file",
			SkippedCount: skipped,
		}, nil
	}

	if err := bulkInsertEvents(dbManager, logger, events); err != nil {
		// Best effort: the daily cleanup job removes the orphan batch row if
		// this delete fails too.
		if delErr := deleteBatch(dbManager, logger, batch.ID); delErr != nil {
			logger.Error("Failed to clean up batch after insert failure",
				slog.Uint64("batch_id", uint64(batch.ID)), slog.Any("error", delErr))
		}
		return nil, fmt.Errorf("failed to store play events: %w", err)
	}

	logger.Info("Imported play history file",
		slog.Uint64("user_id", uint64(userID)),
		slog.String("file", fileName),
		slog.Int("saved", len(events)),
		slog.Int("skipped", skipped))

	return &IngestResult{
		Success:      true,
		Message:      fmt.Sprintf("Imported %d plays (%d entries skipped)", len(events), skipped),
		SavedCount:   len(events),
		SkippedCount: skipped,
	}, nil
}

// validateUpload rejects bad file names and oversized or non-JSON content
// before anything is parsed or written.
func validateUpload(fileName string, raw []byte) error {
	if strings.ToLower(filepath.Ext(fileName)) != ".json" {
		return &ValidationError{Reason: "only .json history exports are supported"}
	}
	if len(raw) > MaxUploadSizeBytes {
		return &ValidationError{Reason: fmt.Sprintf("file exceeds the %d MiB upload limit", MaxUploadSizeBytes>>20)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	detected := mimetype.Detect(raw)
	if !detected.Is("application/json") && !detected.Is("text/plain") {
		return &ValidationError{Reason: fmt.Sprintf("unexpected file content (%s), expected JSON", detected.String())}
	}
	return nil
}

func duplicateResult(existing *UploadBatch) *IngestResult {
	return &IngestResult{
		Success: false,
		Message: fmt.Sprintf("This file was already uploaded on %s",
			existing.UploadedAt.Format("2006-01-02 15:04")),
		DuplicateOf: existing,
	}
}

// convertRecords turns raw records into persistable events. A record whose
// timestamp cannot be parsed is dropped and counted; the batch continues.
func convertRecords(logger *slog.Logger, userID, batchID uint, records []RawPlayRecord) ([]plays.PlayEvent, int) {
	events := make([]plays.PlayEvent, 0, len(records))
	skipped := 0

	for i := range records {
		rec := &records[i]

		playedAt, err := parseTimestamp(rec.Timestamp)
		if err != nil {
			skipped++
			if skipped <= 3 {
				logger.Debug("Skipping record with unparseable timestamp",
					slog.Int("index", i), slog.Any("error", err))
			}
			continue
		}

		events = append(events, convertRecord(rec, userID, batchID, playedAt))
	}

	return events, skipped
}

func convertRecord(rec *RawPlayRecord, userID, batchID uint, playedAt time.Time) plays.PlayEvent {
	contentType := ClassifyContent(rec)

	event := plays.PlayEvent{
		UserID:        userID,
		BatchID:       batchID,
		PlayedAt:      playedAt,
		MsPlayed:      rec.MsPlayed,
		Platform:      rec.Platform,
		PlatformGroup: platform.Normalize(rec.Platform),
		Country:       strings.ToUpper(rec.Country),
		ContentType:   contentType,
		TrackURI:      rec.TrackURI,
		TrackName:     rec.TrackName,
		ArtistName:    rec.ArtistName,
		AlbumName:     rec.AlbumName,
		EpisodeName:   rec.EpisodeName,
		ShowName:      rec.ShowName,
		Shuffle:       rec.Shuffle,
		Skipped:       rec.Skipped,
		Offline:       rec.Offline,
		Incognito:     rec.Incognito,
		ReasonStart:   rec.ReasonStart,
		ReasonEnd:     rec.ReasonEnd,
		CreatedAt:     time.Now().UTC(),
	}

	// Unify the name fields so rankings group on one set of columns whatever
	// the content type.
	switch contentType {
	case plays.ContentTypePodcast:
		event.TrackName = rec.EpisodeName
		event.ArtistName = rec.ShowName
		event.AlbumName = rec.ShowName
	case plays.ContentTypeAudiobook:
		event.TrackName = rec.ChapterTitle
		event.AlbumName = rec.AudiobookTitle
	}

	return event
}

// parseTimestamp applies one parsing rule everywhere: RFC 3339 as written by
// the extended export, with a fallback for the minute-precision format of
// legacy account-data exports. Values are kept in UTC and stored naive.
func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("missing timestamp")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02 15:04", value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", value)
}

// bulkInsertEvents persists the converted events with as few round trips as
// possible. Per-row foreign key enforcement is switched off for the duration
// of the write and restored afterward regardless of outcome; every row
// references the batch committed just before.
func bulkInsertEvents(dbManager cartridge.DBManager, logger *slog.Logger, events []plays.PlayEvent) error {
	db := dbManager.GetConnection()

	db.Exec("PRAGMA foreign_keys = OFF")
	defer db.Exec("PRAGMA foreign_keys = ON")

	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.CreateInBatches(events, bulkInsertBatchSize).Error
	})
}

// deleteBatch removes a batch row and, through the cascade, any events that
// already reference it.
func deleteBatch(dbManager cartridge.DBManager, logger *slog.Logger, batchID uint) error {
	db := dbManager.GetConnection()
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		if err := tx.Where("batch_id = ?", batchID).Delete(&plays.PlayEvent{}).Error; err != nil {
			return err
		}
		return tx.Delete(&UploadBatch{}, batchID).Error
	})
}
