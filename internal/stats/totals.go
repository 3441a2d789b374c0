package stats

import (
	"time"

	"replayed/internal/plays"
	"replayed/internal/timestats"
)

// Totals are the headline numbers of an overview.
type Totals struct {
	Plays            int     `json:"plays"`
	TotalMinutes     float64 `json:"total_minutes"`
	UniqueArtists    int     `json:"unique_artists"`
	UniqueTracks     int     `json:"unique_tracks"`
	AvgMinutesPerDay float64 `json:"avg_minutes_per_day"`
}

func computeTotals(events []plays.PlayEvent, coveredStart, coveredEnd time.Time) Totals {
	totalMinutes := 0.0
	artists := make(map[string]bool)
	tracks := make(map[[2]string]bool)

	for i := range events {
		e := &events[i]
		totalMinutes += minutes(e.MsPlayed)
		if e.ArtistName != "" {
			artists[e.ArtistName] = true
		}
		if e.TrackName != "" {
			tracks[[2]string{e.ArtistName, e.TrackName}] = true
		}
	}

	avgPerDay := 0.0
	if days := timestats.DaysInclusive(coveredStart, coveredEnd); days > 0 {
		avgPerDay = totalMinutes / float64(days)
	}

	return Totals{
		Plays:            len(events),
		TotalMinutes:     totalMinutes,
		UniqueArtists:    len(artists),
		UniqueTracks:     len(tracks),
		AvgMinutesPerDay: avgPerDay,
	}
}
