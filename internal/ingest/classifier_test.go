package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"replayed/internal/plays"
)

func TestClassifyContent(t *testing.T) {
	tests := []struct {
		name     string
		record   RawPlayRecord
		expected plays.ContentType
	}{
		{
			name: "track fields only",
			record: RawPlayRecord{
				TrackName:  "Neon Rain",
				ArtistName: "The Midnight Hour",
				TrackURI:   "spotify:track:abc",
			},
			expected: plays.ContentTypeAudio,
		},
		{
			name: "track uri without name",
			record: RawPlayRecord{
				TrackURI: "spotify:track:abc",
			},
			expected: plays.ContentTypeAudio,
		},
		{
			name: "podcast fields",
			record: RawPlayRecord{
				EpisodeName: "Monday Briefing",
				ShowName:    "The Daily Orbit",
			},
			expected: plays.ContentTypePodcast,
		},
		{
			name: "episode uri only",
			record: RawPlayRecord{
				EpisodeURI: "spotify:episode:def",
			},
			expected: plays.ContentTypePodcast,
		},
		{
			name: "audiobook fields",
			record: RawPlayRecord{
				AudiobookTitle: "Project Hail Mary",
				ChapterTitle:   "Chapter 3",
			},
			expected: plays.ContentTypeAudiobook,
		},
		{
			name: "audiobook wins over podcast and track fields",
			record: RawPlayRecord{
				AudiobookURI: "spotify:show:ghi",
				EpisodeName:  "Chapter 3",
				TrackName:    "Chapter 3",
			},
			expected: plays.ContentTypeAudiobook,
		},
		{
			name: "podcast wins over track fields",
			record: RawPlayRecord{
				ShowName:  "History Unboxed",
				TrackName: "The Silk Road",
			},
			expected: plays.ContentTypePodcast,
		},
		{
			name:     "no identifying fields",
			record:   RawPlayRecord{Platform: "ios", MsPlayed: 1000},
			expected: plays.ContentTypeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyContent(&tt.record))
		})
	}
}
