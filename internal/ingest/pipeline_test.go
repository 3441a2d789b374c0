package ingest_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"replayed/internal/ingest"
	"replayed/internal/plays"
	"replayed/internal/testsupport"
)

func exportJSON(t *testing.T, records []ingest.RawPlayRecord) []byte {
	t.Helper()
	raw, err := json.Marshal(records)
	require.NoError(t, err)
	return raw
}

func sampleRecords() []ingest.RawPlayRecord {
	return []ingest.RawPlayRecord{
		{
			Timestamp:  "2023-06-15T20:30:00Z",
			Platform:   "iOS 16.5 (iPhone14,5)",
			MsPlayed:   210_000,
			Country:    "de",
			TrackName:  "Neon Rain",
			ArtistName: "The Midnight Hour",
			AlbumName:  "City Lights",
			TrackURI:   "spotify:track:abc",
			ReasonEnd:  "trackdone",
		},
		{
			Timestamp:  "2023-06-16T08:05:00Z",
			Platform:   "Android OS 13 API 33 (samsung, SM-G991B)",
			MsPlayed:   95_500,
			Country:    "DE",
			TrackName:  "Snowline",
			ArtistName: "Aurora Falls",
			AlbumName:  "Northern Skies",
			TrackURI:   "spotify:track:def",
			ReasonEnd:  "fwdbtn",
			Shuffle:    true,
		},
		{
			Timestamp:   "2023-06-17T18:00:00Z",
			Platform:    "windows 10 (10.0.19045; x64)",
			MsPlayed:    1_700_000,
			Country:     "ES",
			EpisodeName: "Monday Briefing",
			ShowName:    "The Daily Orbit",
			EpisodeURI:  "spotify:episode:ghi",
			ReasonEnd:   "endplay",
		},
	}
}

func TestIngestValidFile(t *testing.T) {
	dbManager, logger, user := testsupport.SetupTestDBManagerWithUser(t)
	db := dbManager.GetConnection()

	raw := exportJSON(t, sampleRecords())
	result, err := ingest.Ingest(dbManager, logger, user.ID, "history.json", raw)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, 3, result.SavedCount)
	assert.Equal(t, 0, result.SkippedCount)

	var batch ingest.UploadBatch
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&batch).Error)
	assert.Equal(t, "history.json", batch.FileName)
	assert.Equal(t, int64(len(raw)), batch.SizeBytes)
	assert.Equal(t, ingest.Fingerprint(raw), batch.Fingerprint)

	events, err := plays.EventsInRange(db, user.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, events, 3)

	// Ordered by played_at ascending.
	first := events[0]
	assert.Equal(t, plays.ContentTypeAudio, first.ContentType)
	assert.Equal(t, "Neon Rain", first.TrackName)
	assert.Equal(t, "DE", first.Country, "country codes are uppercased")
	assert.Equal(t, "iOS", first.PlatformGroup)
	assert.Equal(t, time.Date(2023, 6, 15, 20, 30, 0, 0, time.UTC), first.PlayedAt.UTC())

	// Podcast names are unified onto the track/artist columns.
	podcast := events[2]
	assert.Equal(t, plays.ContentTypePodcast, podcast.ContentType)
	assert.Equal(t, "Monday Briefing", podcast.TrackName)
	assert.Equal(t, "The Daily Orbit", podcast.ArtistName)
	assert.Equal(t, "Windows", podcast.PlatformGroup)
}

func TestIngestDuplicateUpload(t *testing.T) {
	dbManager, logger, user := testsupport.SetupTestDBManagerWithUser(t)
	db := dbManager.GetConnection()

	raw := exportJSON(t, sampleRecords())

	result, err := ingest.Ingest(dbManager, logger, user.ID, "history.json", raw)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, 3, result.SavedCount)

	// Same bytes again: no error, no new state, original batch reported.
	dup, err := ingest.Ingest(dbManager, logger, user.ID, "history_copy.json", raw)
	require.NoError(t, err)
	assert.False(t, dup.Success)
	assert.Equal(t, 0, dup.SavedCount)
	require.NotNil(t, dup.DuplicateOf)
	assert.Equal(t, "history.json", dup.DuplicateOf.FileName)

	count, err := plays.CountForUser(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	var batchCount int64
	require.NoError(t, db.Model(&ingest.UploadBatch{}).Where("user_id = ?", user.ID).Count(&batchCount).Error)
	assert.Equal(t, int64(1), batchCount)

	// A different user may upload the same bytes.
	other := testsupport.CreateTestUser(db, "other@example.com", "password")
	otherResult, err := ingest.Ingest(dbManager, logger, other.ID, "history.json", raw)
	require.NoError(t, err)
	assert.True(t, otherResult.Success)
	assert.Equal(t, 3, otherResult.SavedCount)
}

func TestIngestMalformedJSON(t *testing.T) {
	dbManager, logger, user := testsupport.SetupTestDBManagerWithUser(t)
	db := dbManager.GetConnection()

	_, err := ingest.Ingest(dbManager, logger, user.ID, "history.json", []byte(`{"not": "an array"`))
	require.Error(t, err)

	var validationErr *ingest.ValidationError
	assert.True(t, errors.As(err, &validationErr))

	var batchCount int64
	require.NoError(t, db.Model(&ingest.UploadBatch{}).Count(&batchCount).Error)
	assert.Equal(t, int64(0), batchCount, "no state is created for a malformed document")
}

func TestIngestRejectsWrongExtension(t *testing.T) {
	dbManager, logger, user := testsupport.SetupTestDBManagerWithUser(t)

	_, err := ingest.Ingest(dbManager, logger, user.ID, "history.csv", []byte(`[]`))
	require.Error(t, err)

	var validationErr *ingest.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestIngestEmptyDocument(t *testing.T) {
	dbManager, logger, user := testsupport.SetupTestDBManagerWithUser(t)
	db := dbManager.GetConnection()

	for _, raw := range []string{"", "   ", "[]"} {
		result, err := ingest.Ingest(dbManager, logger, user.ID, "history.json", []byte(raw))
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 0, result.SavedCount)
	}

	var batchCount int64
	require.NoError(t, db.Model(&ingest.UploadBatch{}).Count(&batchCount).Error)
	assert.Equal(t, int64(0), batchCount)
}

func TestIngestSkipsUnparseableTimestamps(t *testing.T) {
	dbManager, logger, user := testsupport.SetupTestDBManagerWithUser(t)

	records := sampleRecords()
	records[1].Timestamp = "not-a-timestamp"
	raw := exportJSON(t, records)

	result, err := ingest.Ingest(dbManager, logger, user.ID, "history.json", raw)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.SavedCount)
	assert.Equal(t, 1, result.SkippedCount)
}

func TestIngestLegacyTimestampFormat(t *testing.T) {
	dbManager, logger, user := testsupport.SetupTestDBManagerWithUser(t)
	db := dbManager.GetConnection()

	records := []ingest.RawPlayRecord{
		{
			Timestamp:  "2019-03-02 17:44",
			Platform:   "ios",
			MsPlayed:   180_000,
			TrackName:  "Harbor",
			ArtistName: "Aurora Falls",
			TrackURI:   "spotify:track:jkl",
		},
	}
	result, err := ingest.Ingest(dbManager, logger, user.ID, "history.json", exportJSON(t, records))
	require.NoError(t, err)
	assert.Equal(t, 1, result.SavedCount)

	events, err := plays.EventsInRange(db, user.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, time.Date(2019, 3, 2, 17, 44, 0, 0, time.UTC), events[0].PlayedAt.UTC())
}

func TestIngestAllRecordsInvalid(t *testing.T) {
	dbManager, logger, user := testsupport.SetupTestDBManagerWithUser(t)
	db := dbManager.GetConnection()

	records := make([]ingest.RawPlayRecord, 3)
	for i := range records {
		records[i] = ingest.RawPlayRecord{
			Timestamp: fmt.Sprintf("bad-%d", i),
			TrackName: "Static",
		}
	}

	result, err := ingest.Ingest(dbManager, logger, user.ID, "history.json", exportJSON(t, records))
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 0, result.SavedCount)
	assert.Equal(t, 3, result.SkippedCount)

	// The batch row created up front is rolled back when nothing survives.
	var batchCount int64
	require.NoError(t, db.Model(&ingest.UploadBatch{}).Count(&batchCount).Error)
	assert.Equal(t, int64(0), batchCount)
}

func TestFingerprintIsStable(t *testing.T) {
	raw := []byte(`[{"ts":"2023-06-15T20:30:00Z"}]`)
	assert.Equal(t, ingest.Fingerprint(raw), ingest.Fingerprint(raw))
	assert.Len(t, ingest.Fingerprint(raw), 64)
	assert.NotEqual(t, ingest.Fingerprint(raw), ingest.Fingerprint([]byte(`[]`)))
}
