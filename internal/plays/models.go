package plays

import "time"

// ContentType classifies what kind of content a play event was.
type ContentType string

const (
	ContentTypeAudio     ContentType = "audio"
	ContentTypePodcast   ContentType = "podcast"
	ContentTypeAudiobook ContentType = "audiobook"
	ContentTypeUnknown   ContentType = "unknown"
)

// CompletionStatus classifies how fully a play event was consumed.
type CompletionStatus string

const (
	CompletionSkipped   CompletionStatus = "skipped"
	CompletionBarely    CompletionStatus = "barely_played"
	CompletionPartial   CompletionStatus = "partially_completed"
	CompletionCompleted CompletionStatus = "completed"
)

// PlayEvent represents one persisted playback occurrence in the main database.
// Rows are created once during import and never updated; they are removed only
// when their owning batch is deleted or the user purges their data.
type PlayEvent struct {
	ID      uint `gorm:"primaryKey;autoIncrement"`
	UserID  uint `gorm:"index:idx_user_played;not null"`
	BatchID uint `gorm:"index;not null"`

	// PlayedAt is stored naive in UTC; no timezone conversion is applied to
	// the exported timestamps.
	PlayedAt time.Time `gorm:"index:idx_user_played;not null"`
	MsPlayed int       `gorm:"not null"`

	Platform      string `gorm:"index"`
	PlatformGroup string `gorm:"index"`
	Country       string `gorm:"index"` // ISO 3166-1 alpha-2, empty when absent

	ContentType ContentType `gorm:"index;not null"`
	TrackURI    string

	// Unified name fields: for podcasts the episode maps to TrackName and the
	// show to AlbumName, so rankings can group on one set of columns.
	TrackName  string `gorm:"index"`
	ArtistName string `gorm:"index"`
	AlbumName  string

	EpisodeName string
	ShowName    string

	Shuffle   bool
	Skipped   bool
	Offline   bool
	Incognito bool

	ReasonStart string
	ReasonEnd   string

	CreatedAt time.Time
}
