package stats

import (
	"sort"

	"replayed/internal/plays"
)

// ContentTypeBreakdown tallies plays and minutes per content type.
type ContentTypeBreakdown struct {
	AudioPlays       int     `json:"audio_plays"`
	AudioMinutes     float64 `json:"audio_minutes"`
	PodcastPlays     int     `json:"podcast_plays"`
	PodcastMinutes   float64 `json:"podcast_minutes"`
	AudiobookPlays   int     `json:"audiobook_plays"`
	AudiobookMinutes float64 `json:"audiobook_minutes"`
	UnknownPlays     int     `json:"unknown_plays"`
	UnknownMinutes   float64 `json:"unknown_minutes"`
}

// PlatformStat is the aggregate for one normalized platform group.
type PlatformStat struct {
	Platform     string  `json:"platform"`
	Plays        int     `json:"plays"`
	TotalMinutes float64 `json:"total_minutes"`
}

// BehaviorStats tallies playback behavior flags, the start/end reason
// histograms and the completion-status histogram.
type BehaviorStats struct {
	ShufflePlays   int `json:"shuffle_plays"`
	SkippedPlays   int `json:"skipped_plays"`
	OfflinePlays   int `json:"offline_plays"`
	IncognitoPlays int `json:"incognito_plays"`

	ReasonsStart map[string]int                  `json:"reasons_start"`
	ReasonsEnd   map[string]int                  `json:"reasons_end"`
	Completion   map[plays.CompletionStatus]int  `json:"completion"`
}

func computeContentTypes(events []plays.PlayEvent) ContentTypeBreakdown {
	var b ContentTypeBreakdown
	for i := range events {
		e := &events[i]
		m := minutes(e.MsPlayed)
		switch e.ContentType {
		case plays.ContentTypeAudio:
			b.AudioPlays++
			b.AudioMinutes += m
		case plays.ContentTypePodcast:
			b.PodcastPlays++
			b.PodcastMinutes += m
		case plays.ContentTypeAudiobook:
			b.AudiobookPlays++
			b.AudiobookMinutes += m
		default:
			b.UnknownPlays++
			b.UnknownMinutes += m
		}
	}
	return b
}

func computePlatforms(events []plays.PlayEvent) []PlatformStat {
	playCounts := make(map[string]int)
	totalMinutes := make(map[string]float64)

	for i := range events {
		group := events[i].PlatformGroup
		if group == "" {
			group = "Unknown"
		}
		playCounts[group]++
		totalMinutes[group] += minutes(events[i].MsPlayed)
	}

	stats := make([]PlatformStat, 0, len(playCounts))
	for group, count := range playCounts {
		stats = append(stats, PlatformStat{
			Platform:     group,
			Plays:        count,
			TotalMinutes: totalMinutes[group],
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Plays != stats[j].Plays {
			return stats[i].Plays > stats[j].Plays
		}
		return stats[i].Platform < stats[j].Platform
	})
	return stats
}

func computeBehavior(events []plays.PlayEvent) BehaviorStats {
	b := BehaviorStats{
		ReasonsStart: make(map[string]int),
		ReasonsEnd:   make(map[string]int),
		Completion:   make(map[plays.CompletionStatus]int),
	}

	for i := range events {
		e := &events[i]
		if e.Shuffle {
			b.ShufflePlays++
		}
		if e.Skipped {
			b.SkippedPlays++
		}
		if e.Offline {
			b.OfflinePlays++
		}
		if e.Incognito {
			b.IncognitoPlays++
		}
		if e.ReasonStart != "" {
			b.ReasonsStart[e.ReasonStart]++
		}
		if e.ReasonEnd != "" {
			b.ReasonsEnd[e.ReasonEnd]++
		}
		b.Completion[e.Completion()]++
	}

	return b
}
