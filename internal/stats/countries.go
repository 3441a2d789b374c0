package stats

import (
	"sort"

	"github.com/pariz/gountries"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"replayed/internal/plays"
)

// CountryStat is the aggregate for one country, identified by its ISO 3166-1
// alpha-2 code. The list is unbounded; every country present in the data gets
// a row.
type CountryStat struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Plays         int     `json:"plays"`
	TotalMinutes  float64 `json:"total_minutes"`
	UniqueTracks  int     `json:"unique_tracks"`
	UniqueArtists int     `json:"unique_artists"`
}

func computeCountries(events []plays.PlayEvent) []CountryStat {
	type agg struct {
		plays   int
		minutes float64
		tracks  map[[2]string]bool
		artists map[string]bool
	}

	byCode := make(map[string]*agg)
	for i := range events {
		e := &events[i]
		if e.Country == "" {
			continue
		}
		a := byCode[e.Country]
		if a == nil {
			a = &agg{tracks: make(map[[2]string]bool), artists: make(map[string]bool)}
			byCode[e.Country] = a
		}
		a.plays++
		a.minutes += minutes(e.MsPlayed)
		if e.TrackName != "" {
			a.tracks[[2]string{e.ArtistName, e.TrackName}] = true
		}
		if e.ArtistName != "" {
			a.artists[e.ArtistName] = true
		}
	}

	caser := cases.Upper(language.AmericanEnglish)
	countries := gountries.New()

	stats := make([]CountryStat, 0, len(byCode))
	for code, a := range byCode {
		name := caser.String(code)
		if country, err := countries.FindCountryByAlpha(code); err == nil {
			name = country.Name.Common
		}
		stats = append(stats, CountryStat{
			Code:          code,
			Name:          name,
			Plays:         a.plays,
			TotalMinutes:  a.minutes,
			UniqueTracks:  len(a.tracks),
			UniqueArtists: len(a.artists),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Plays != stats[j].Plays {
			return stats[i].Plays > stats[j].Plays
		}
		return stats[i].Code < stats[j].Code
	})
	return stats
}
