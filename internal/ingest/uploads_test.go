package ingest_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"replayed/internal/ingest"
	"replayed/internal/plays"
	"replayed/internal/testsupport"
)

func TestListUploads(t *testing.T) {
	dbManager, _, user := testsupport.SetupTestDBManagerWithUser(t)
	db := dbManager.GetConnection()

	older := testsupport.CreateTestBatch(t, db, user.ID, "fp-older")
	older.UploadedAt = time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, db.Save(older).Error)

	newer := testsupport.CreateTestBatch(t, db, user.ID, "fp-newer")
	newer.UploadedAt = time.Date(2023, 8, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, db.Save(newer).Error)

	testsupport.CreateTestPlay(t, db, user.ID, older.ID, func(e *plays.PlayEvent) {
		e.PlayedAt = time.Date(2022, 5, 1, 8, 0, 0, 0, time.UTC)
	})
	testsupport.CreateTestPlay(t, db, user.ID, older.ID, func(e *plays.PlayEvent) {
		e.PlayedAt = time.Date(2022, 9, 1, 8, 0, 0, 0, time.UTC)
	})
	testsupport.CreateTestPlay(t, db, user.ID, newer.ID)

	uploads, err := ingest.ListUploads(db, user.ID)
	require.NoError(t, err)
	require.Len(t, uploads, 2)

	// Newest upload first.
	assert.Equal(t, newer.ID, uploads[0].BatchID)
	assert.Equal(t, int64(1), uploads[0].EntryCount)

	assert.Equal(t, older.ID, uploads[1].BatchID)
	assert.Equal(t, int64(2), uploads[1].EntryCount)
	require.NotNil(t, uploads[1].FirstPlayedAt)
	require.NotNil(t, uploads[1].LastPlayedAt)
	assert.Equal(t, time.Date(2022, 5, 1, 8, 0, 0, 0, time.UTC), uploads[1].FirstPlayedAt.UTC())
	assert.Equal(t, time.Date(2022, 9, 1, 8, 0, 0, 0, time.UTC), uploads[1].LastPlayedAt.UTC())
}

func TestListUploadsEmpty(t *testing.T) {
	dbManager, _, user := testsupport.SetupTestDBManagerWithUser(t)

	uploads, err := ingest.ListUploads(dbManager.GetConnection(), user.ID)
	require.NoError(t, err)
	assert.NotNil(t, uploads)
	assert.Empty(t, uploads)
}

func TestDeleteBatchForUser(t *testing.T) {
	dbManager, logger, user := testsupport.SetupTestDBManagerWithUser(t)
	db := dbManager.GetConnection()

	keep := testsupport.CreateTestBatch(t, db, user.ID, "fp-keep")
	remove := testsupport.CreateTestBatch(t, db, user.ID, "fp-remove")
	testsupport.CreateTestPlay(t, db, user.ID, keep.ID)
	testsupport.CreateTestPlay(t, db, user.ID, remove.ID)
	testsupport.CreateTestPlay(t, db, user.ID, remove.ID)

	deleted, err := ingest.DeleteBatchForUser(dbManager, logger, user.ID, remove.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	count, err := plays.CountForUser(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	var batchCount int64
	require.NoError(t, db.Model(&ingest.UploadBatch{}).Where("user_id = ?", user.ID).Count(&batchCount).Error)
	assert.Equal(t, int64(1), batchCount)
}

func TestDeleteBatchForUserChecksOwnership(t *testing.T) {
	dbManager, logger, user := testsupport.SetupTestDBManagerWithUser(t)
	db := dbManager.GetConnection()

	other := testsupport.CreateTestUser(db, "other@example.com", "password")
	batch := testsupport.CreateTestBatch(t, db, other.ID, "fp-other")
	testsupport.CreateTestPlay(t, db, other.ID, batch.ID)

	_, err := ingest.DeleteBatchForUser(dbManager, logger, user.ID, batch.ID)
	require.Error(t, err)

	count, err := plays.CountForUser(db, other.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "the other user's data is untouched")
}

func TestDeleteAllData(t *testing.T) {
	dbManager, logger, user := testsupport.SetupTestDBManagerWithUser(t)
	db := dbManager.GetConnection()

	other := testsupport.CreateTestUser(db, "other@example.com", "password")

	batch := testsupport.CreateTestBatch(t, db, user.ID, "fp-mine")
	otherBatch := testsupport.CreateTestBatch(t, db, other.ID, "fp-theirs")
	testsupport.CreateTestPlay(t, db, user.ID, batch.ID)
	testsupport.CreateTestPlay(t, db, user.ID, batch.ID)
	testsupport.CreateTestPlay(t, db, other.ID, otherBatch.ID)

	deleted, err := ingest.DeleteAllData(dbManager, logger, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	count, err := plays.CountForUser(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	var batchCount int64
	require.NoError(t, db.Model(&ingest.UploadBatch{}).Where("user_id = ?", user.ID).Count(&batchCount).Error)
	assert.Equal(t, int64(0), batchCount)

	otherCount, err := plays.CountForUser(db, other.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), otherCount, "other users keep their data")
}
