package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// DuplicateUploadError is returned when a user uploads bytes they already
// uploaded before. It carries the original batch so callers can tell the user
// when the first upload happened.
type DuplicateUploadError struct {
	Existing *UploadBatch
}

func (e *DuplicateUploadError) Error() string {
	return fmt.Sprintf("duplicate upload: identical file already imported on %s",
		e.Existing.UploadedAt.Format("2006-01-02 15:04"))
}

// Fingerprint computes the content fingerprint over the exact uploaded bytes.
func Fingerprint(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// FindBatchByFingerprint looks up a previously accepted batch for
// (userID, fingerprint). Returns nil without error when none exists.
func FindBatchByFingerprint(db *gorm.DB, userID uint, fingerprint string) (*UploadBatch, error) {
	var batch UploadBatch
	err := db.Where("user_id = ? AND fingerprint = ?", userID, fingerprint).First(&batch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying upload batch by fingerprint: %w", err)
	}
	return &batch, nil
}

// isUniqueViolation reports whether err is SQLite rejecting a row that would
// break the (user_id, fingerprint) unique index. The pre-check and the insert
// are not atomic, so under concurrent identical uploads this is an expected
// outcome, not a crash.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
