package stats

import (
	"sort"

	"replayed/internal/plays"
)

// skipRankLimit caps both skip rankings.
const skipRankLimit = 10

// SkipRank is one row of a most-skipped ranking. For the track ranking Name
// is the track and ArtistName its artist; for the artist ranking ArtistName
// is empty and Name is the artist.
type SkipRank struct {
	Name       string `json:"name"`
	ArtistName string `json:"artist_name,omitempty"`
	SkipCount  int    `json:"skip_count"`
}

// rankBySkips mirrors rankByMinutes but counts only skip-classified plays and
// orders by that count instead of minutes.
func rankBySkips(events []plays.PlayEvent, keyFn func(*plays.PlayEvent) (rankKey, bool)) []rankGroup {
	groups := make(map[rankKey]*rankGroup)

	for i := range events {
		if events[i].Completion() != plays.CompletionSkipped {
			continue
		}
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
	}

	ranked := make([]rankGroup, 0, len(groups))
	for _, g := range groups {
		ranked = append(ranked, *g)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Plays != ranked[j].Plays {
			return ranked[i].Plays > ranked[j].Plays
		}
		if ranked[i].Key.Primary != ranked[j].Key.Primary {
			return ranked[i].Key.Primary < ranked[j].Key.Primary
		}
		return ranked[i].Key.Secondary < ranked[j].Key.Secondary
	})

	if len(ranked) > skipRankLimit {
		ranked = ranked[:skipRankLimit]
	}
	return ranked
}

func mostSkippedTracks(events []plays.PlayEvent) []SkipRank {
	groups := rankBySkips(events, func(e *plays.PlayEvent) (rankKey, bool) {
		if e.TrackName == "" {
			return rankKey{}, false
		}
		return rankKey{Primary: e.ArtistName, Secondary: e.TrackName}, true
	})

	ranks := make([]SkipRank, 0, len(groups))
	for _, g := range groups {
		ranks = append(ranks, SkipRank{
			Name:       g.Key.Secondary,
			ArtistName: g.Key.Primary,
			SkipCount:  g.Plays,
		})
	}
	return ranks
}

func mostSkippedArtists(events []plays.PlayEvent) []SkipRank {
	groups := rankBySkips(events, func(e *plays.PlayEvent) (rankKey, bool) {
		if e.ArtistName == "" {
			return rankKey{}, false
		}
		return rankKey{Primary: e.ArtistName}, true
	})

	ranks := make([]SkipRank, 0, len(groups))
	for _, g := range groups {
		ranks = append(ranks, SkipRank{
			Name:      g.Key.Primary,
			SkipCount: g.Plays,
		})
	}
	return ranks
}
