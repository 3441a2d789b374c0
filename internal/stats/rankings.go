package stats

import (
	"sort"

	"replayed/internal/plays"
)

const (
	// musicRankLimit caps the music-specific artist/track/album rankings.
	musicRankLimit = 25
	// podcastRankLimit caps the podcast episode ranking.
	podcastRankLimit = 10
)

// ArtistRank is one row of the top-artists ranking.
type ArtistRank struct {
	ArtistName        string  `json:"artist_name"`
	Plays             int     `json:"plays"`
	TotalMinutes      float64 `json:"total_minutes"`
	AvgMinutesPerPlay float64 `json:"avg_minutes_per_play"`
}

// TrackRank is one row of the top-tracks ranking.
type TrackRank struct {
	TrackName         string  `json:"track_name"`
	ArtistName        string  `json:"artist_name"`
	Plays             int     `json:"plays"`
	TotalMinutes      float64 `json:"total_minutes"`
	AvgMinutesPerPlay float64 `json:"avg_minutes_per_play"`
}

// AlbumRank is one row of the top-albums ranking.
type AlbumRank struct {
	AlbumName    string  `json:"album_name"`
	ArtistName   string  `json:"artist_name"`
	Plays        int     `json:"plays"`
	TotalMinutes float64 `json:"total_minutes"`
}

// PodcastRank is one row of the top-podcast-episodes ranking.
type PodcastRank struct {
	ShowName     string  `json:"show_name"`
	EpisodeName  string  `json:"episode_name"`
	Plays        int     `json:"plays"`
	TotalMinutes float64 `json:"total_minutes"`
}

// rankKey identifies one ranking group. Primary is the grouping entity
// (artist, show); Secondary the sub-entity (track, album, episode) and may be
// empty for single-key rankings.
type rankKey struct {
	Primary   string
	Secondary string
}

type rankGroup struct {
	Key          rankKey
	Plays        int
	TotalMinutes float64
}

// rankByMinutes groups the selected events and returns the groups sorted by
// total minutes descending, then by name ascending so equal-minute groups come
// out in a stable, predictable order. keyFn returning ok=false excludes the
// event from the ranking.
func rankByMinutes(events []plays.PlayEvent, limit int, keyFn func(*plays.PlayEvent) (rankKey, bool)) []rankGroup {
	groups := make(map[rankKey]*rankGroup)

	for i := range events {
		key, ok := keyFn(&events[i])
		if !ok {
			continue
		}
		g := groups[key]
		if g == nil {
			g = &rankGroup{Key: key}
			groups[key] = g
		}
		g.Plays++
		g.TotalMinutes += minutes(events[i].MsPlayed)
	}

	ranked := make([]rankGroup, 0, len(groups))
	for _, g := range groups {
		ranked = append(ranked, *g)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalMinutes != ranked[j].TotalMinutes {
			return ranked[i].TotalMinutes > ranked[j].TotalMinutes
		}
		if ranked[i].Key.Primary != ranked[j].Key.Primary {
			return ranked[i].Key.Primary < ranked[j].Key.Primary
		}
		return ranked[i].Key.Secondary < ranked[j].Key.Secondary
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func topArtists(events []plays.PlayEvent) []ArtistRank {
	groups := rankByMinutes(events, musicRankLimit, func(e *plays.PlayEvent) (rankKey, bool) {
		if e.ContentType != plays.ContentTypeAudio || e.ArtistName == "" {
			return rankKey{}, false
		}
		return rankKey{Primary: e.ArtistName}, true
	})

	ranks := make([]ArtistRank, 0, len(groups))
	for _, g := range groups {
		ranks = append(ranks, ArtistRank{
			ArtistName:        g.Key.Primary,
			Plays:             g.Plays,
			TotalMinutes:      g.TotalMinutes,
			AvgMinutesPerPlay: g.TotalMinutes / float64(g.Plays),
		})
	}
	return ranks
}

func topTracks(events []plays.PlayEvent) []TrackRank {
	groups := rankByMinutes(events, musicRankLimit, func(e *plays.PlayEvent) (rankKey, bool) {
		if e.ContentType != plays.ContentTypeAudio || e.TrackName == "" {
			return rankKey{}, false
		}
		return rankKey{Primary: e.ArtistName, Secondary: e.TrackName}, true
	})

	ranks := make([]TrackRank, 0, len(groups))
	for _, g := range groups {
		ranks = append(ranks, TrackRank{
			TrackName:         g.Key.Secondary,
			ArtistName:        g.Key.Primary,
			Plays:             g.Plays,
			TotalMinutes:      g.TotalMinutes,
			AvgMinutesPerPlay: g.TotalMinutes / float64(g.Plays),
		})
	}
	return ranks
}

func topAlbums(events []plays.PlayEvent) []AlbumRank {
	groups := rankByMinutes(events, musicRankLimit, func(e *plays.PlayEvent) (rankKey, bool) {
		if e.ContentType != plays.ContentTypeAudio || e.AlbumName == "" {
			return rankKey{}, false
		}
		return rankKey{Primary: e.ArtistName, Secondary: e.AlbumName}, true
	})

	ranks := make([]AlbumRank, 0, len(groups))
	for _, g := range groups {
		ranks = append(ranks, AlbumRank{
			AlbumName:    g.Key.Secondary,
			ArtistName:   g.Key.Primary,
			Plays:        g.Plays,
			TotalMinutes: g.TotalMinutes,
		})
	}
	return ranks
}

func topPodcasts(events []plays.PlayEvent) []PodcastRank {
	groups := rankByMinutes(events, podcastRankLimit, func(e *plays.PlayEvent) (rankKey, bool) {
		if e.ContentType != plays.ContentTypePodcast || e.ShowName == "" {
			return rankKey{}, false
		}
		return rankKey{Primary: e.ShowName, Secondary: e.EpisodeName}, true
	})

	ranks := make([]PodcastRank, 0, len(groups))
	for _, g := range groups {
		ranks = append(ranks, PodcastRank{
			ShowName:     g.Key.Primary,
			EpisodeName:  g.Key.Secondary,
			Plays:        g.Plays,
			TotalMinutes: g.TotalMinutes,
		})
	}
	return ranks
}
