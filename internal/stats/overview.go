// Package stats computes the listening overview for a user: totals,
// content-type/platform/behavior/country breakdowns, top rankings, skip
// analysis and time-based distributions. Everything is derived on demand from
// the stored play events; nothing here is persisted.
package stats

import (
	"time"

	"log/slog"

	"gorm.io/gorm"

	"replayed/internal/plays"
	"replayed/internal/timestats"
)

// Overview is the full statistics bundle for one user and date range.
type Overview struct {
	// Covered range: the min/max played-at among matching events, not the
	// requested bounds. Zero when HasData is false.
	HasData    bool      `json:"has_data"`
	RangeStart time.Time `json:"range_start"`
	RangeEnd   time.Time `json:"range_end"`

	Totals Totals `json:"totals"`

	ContentTypes ContentTypeBreakdown `json:"content_types"`
	Platforms    []PlatformStat       `json:"platforms"`
	Behavior     BehaviorStats        `json:"behavior"`

	TopArtists  []ArtistRank  `json:"top_artists"`
	TopTracks   []TrackRank   `json:"top_tracks"`
	TopAlbums   []AlbumRank   `json:"top_albums"`
	TopPodcasts []PodcastRank `json:"top_podcasts"`

	MostSkippedTracks  []SkipRank `json:"most_skipped_tracks"`
	MostSkippedArtists []SkipRank `json:"most_skipped_artists"`

	Countries []CountryStat `json:"countries"`

	TimeStats timestats.TimeBasedStats `json:"time_stats"`
}

// ComputeOverview loads the user's events for the given range and computes the
// full bundle in one pass over the loaded slice. No events in range is not an
// error: the returned bundle has HasData false and zero-valued fields.
func ComputeOverview(db *gorm.DB, logger *slog.Logger, params QueryParams) (*Overview, error) {
	events, err := plays.EventsInRange(db, params.UserID, params.From, params.To)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return emptyOverview(), nil
	}

	// Events arrive ordered by played_at, so the covered range is simply the
	// first and last element. Per-day rates divide by this range, not the
	// requested one.
	coveredStart := events[0].PlayedAt
	coveredEnd := events[len(events)-1].PlayedAt

	overview := &Overview{
		HasData:    true,
		RangeStart: coveredStart,
		RangeEnd:   coveredEnd,

		Totals: computeTotals(events, coveredStart, coveredEnd),

		ContentTypes: computeContentTypes(events),
		Platforms:    computePlatforms(events),
		Behavior:     computeBehavior(events),

		TopArtists:  topArtists(events),
		TopTracks:   topTracks(events),
		TopAlbums:   topAlbums(events),
		TopPodcasts: topPodcasts(events),

		MostSkippedTracks:  mostSkippedTracks(events),
		MostSkippedArtists: mostSkippedArtists(events),

		Countries: computeCountries(events),

		TimeStats: timestats.Compute(events, coveredStart, coveredEnd),
	}

	logger.Debug("Computed stats overview",
		slog.Uint64("user_id", uint64(params.UserID)),
		slog.Int("events", len(events)))

	return overview, nil
}

func emptyOverview() *Overview {
	return &Overview{
		Platforms:          []PlatformStat{},
		TopArtists:         []ArtistRank{},
		TopTracks:          []TrackRank{},
		TopAlbums:          []AlbumRank{},
		TopPodcasts:        []PodcastRank{},
		MostSkippedTracks:  []SkipRank{},
		MostSkippedArtists: []SkipRank{},
		Countries:          []CountryStat{},
		Behavior: BehaviorStats{
			ReasonsStart: map[string]int{},
			ReasonsEnd:   map[string]int{},
			Completion:   map[plays.CompletionStatus]int{},
		},
	}
}

func minutes(msPlayed int) float64 {
	return float64(msPlayed) / 60000.0
}
