package ingest

import (
	"time"

	"replayed/internal/plays"
)

// UploadBatch represents one accepted history file. The (user_id, fingerprint)
// unique index is what actually guarantees deduplication: the pre-insert
// lookup and the insert are not atomic, so concurrent uploads of the same
// bytes race and the loser is rejected by the constraint, not by the check.
type UploadBatch struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	UserID      uint   `gorm:"uniqueIndex:idx_user_fingerprint;not null"`
	FileName    string `gorm:"not null"`
	Fingerprint string `gorm:"uniqueIndex:idx_user_fingerprint;size:64;not null"`
	SizeBytes   int64  `gorm:"not null"`
	UploadedAt  time.Time
	CreatedAt   time.Time

	Events []plays.PlayEvent `gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE"`
}

// RawPlayRecord is one JSON-decoded entry of an exported history file. It is
// transient; only the converted PlayEvent is persisted.
type RawPlayRecord struct {
	Timestamp string `json:"ts"`
	Platform  string `json:"platform"`
	MsPlayed  int    `json:"ms_played"`
	Country   string `json:"conn_country"`

	TrackName  string `json:"master_metadata_track_name"`
	ArtistName string `json:"master_metadata_album_artist_name"`
	AlbumName  string `json:"master_metadata_album_album_name"`
	TrackURI   string `json:"spotify_track_uri"`

	EpisodeName string `json:"episode_name"`
	ShowName    string `json:"episode_show_name"`
	EpisodeURI  string `json:"spotify_episode_uri"`

	AudiobookTitle      string `json:"audiobook_title"`
	AudiobookURI        string `json:"audiobook_uri"`
	AudiobookChapterURI string `json:"audiobook_chapter_uri"`
	ChapterTitle        string `json:"audiobook_chapter_title"`

	ReasonStart string `json:"reason_start"`
	ReasonEnd   string `json:"reason_end"`

	Shuffle   bool `json:"shuffle"`
	Skipped   bool `json:"skipped"`
	Offline   bool `json:"offline"`
	Incognito bool `json:"incognito_mode"`
}

// IngestResult reports the outcome of one upload.
type IngestResult struct {
	Success      bool         `json:"success"`
	Message      string       `json:"message"`
	SavedCount   int          `json:"saved_count"`
	SkippedCount int          `json:"skipped_count"`
	DuplicateOf  *UploadBatch `json:"duplicate_of,omitempty"`
}

// UploadSummary is one row of the uploads listing.
type UploadSummary struct {
	BatchID       uint       `json:"batch_id"`
	FileName      string     `json:"file_name"`
	SizeBytes     int64      `json:"size_bytes"`
	UploadedAt    time.Time  `json:"uploaded_at"`
	EntryCount    int64      `json:"entry_count"`
	FirstPlayedAt *time.Time `json:"first_played_at,omitempty"`
	LastPlayedAt  *time.Time `json:"last_played_at,omitempty"`
}
