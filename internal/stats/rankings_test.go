package stats

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"replayed/internal/plays"
)

func musicPlay(artist, track, album string, msPlayed int) plays.PlayEvent {
	return plays.PlayEvent{
		PlayedAt:    time.Date(2023, 6, 15, 20, 0, 0, 0, time.UTC),
		MsPlayed:    msPlayed,
		ContentType: plays.ContentTypeAudio,
		TrackName:   track,
		ArtistName:  artist,
		AlbumName:   album,
	}
}

func podcastPlay(show, episode string, msPlayed int) plays.PlayEvent {
	return plays.PlayEvent{
		PlayedAt:    time.Date(2023, 6, 15, 9, 0, 0, 0, time.UTC),
		MsPlayed:    msPlayed,
		ContentType: plays.ContentTypePodcast,
		TrackName:   episode,
		ArtistName:  show,
		EpisodeName: episode,
		ShowName:    show,
	}
}

func TestTopArtistsOrderingAndDerivedFields(t *testing.T) {
	events := []plays.PlayEvent{
		musicPlay("Aurora Falls", "Snowline", "Northern Skies", 120_000),
		musicPlay("Aurora Falls", "Winter Sun", "Northern Skies", 120_000),
		musicPlay("The Midnight Hour", "Neon Rain", "City Lights", 600_000),
		// Podcasts never appear in the music rankings.
		podcastPlay("The Daily Orbit", "Monday Briefing", 3_000_000),
	}

	ranks := topArtists(events)
	require.Len(t, ranks, 2)

	assert.Equal(t, "The Midnight Hour", ranks[0].ArtistName)
	assert.InDelta(t, 10.0, ranks[0].TotalMinutes, 0.001)
	assert.Equal(t, 1, ranks[0].Plays)
	assert.InDelta(t, 10.0, ranks[0].AvgMinutesPerPlay, 0.001)

	assert.Equal(t, "Aurora Falls", ranks[1].ArtistName)
	assert.Equal(t, 2, ranks[1].Plays)
	assert.InDelta(t, 4.0, ranks[1].TotalMinutes, 0.001)
	assert.InDelta(t, 2.0, ranks[1].AvgMinutesPerPlay, 0.001)
}

func TestRankingTieBreakIsAlphabetical(t *testing.T) {
	events := []plays.PlayEvent{
		musicPlay("Zebra Crossing", "Stripes", "Savanna", 180_000),
		musicPlay("Aurora Falls", "Snowline", "Northern Skies", 180_000),
	}

	ranks := topArtists(events)
	require.Len(t, ranks, 2)
	assert.Equal(t, "Aurora Falls", ranks[0].ArtistName)
	assert.Equal(t, "Zebra Crossing", ranks[1].ArtistName)
}

func TestTopTracksGroupsByArtistAndTrack(t *testing.T) {
	events := []plays.PlayEvent{
		musicPlay("Aurora Falls", "Harbor", "Northern Skies", 100_000),
		musicPlay("Aurora Falls", "Harbor", "Northern Skies", 100_000),
		// Same track title by a different artist is a separate group.
		musicPlay("Cassette Club", "Harbor", "Rewind", 100_000),
	}

	ranks := topTracks(events)
	require.Len(t, ranks, 2)
	assert.Equal(t, "Aurora Falls", ranks[0].ArtistName)
	assert.Equal(t, 2, ranks[0].Plays)
	assert.Equal(t, "Cassette Club", ranks[1].ArtistName)
}

func TestTopTracksCappedAt25(t *testing.T) {
	var events []plays.PlayEvent
	for i := 0; i < 40; i++ {
		events = append(events, musicPlay(
			"Various", fmt.Sprintf("Track %02d", i), "Compilation", 60_000+i*1_000))
	}

	ranks := topTracks(events)
	assert.Len(t, ranks, 25)
	// Highest minutes first.
	assert.Equal(t, "Track 39", ranks[0].TrackName)
}

func TestTopPodcastsCappedAt10(t *testing.T) {
	var events []plays.PlayEvent
	for i := 0; i < 15; i++ {
		events = append(events, podcastPlay("The Daily Orbit", fmt.Sprintf("Episode %02d", i), 600_000+i*10_000))
	}

	ranks := topPodcasts(events)
	assert.Len(t, ranks, 10)
	assert.Equal(t, "Episode 14", ranks[0].EpisodeName)
	assert.Equal(t, "The Daily Orbit", ranks[0].ShowName)
}

func TestMostSkippedRankings(t *testing.T) {
	skippedPlay := func(artist, track string) plays.PlayEvent {
		e := musicPlay(artist, track, "Album", 10_000)
		e.Skipped = true
		return e
	}

	events := []plays.PlayEvent{
		skippedPlay("Cassette Club", "Static"),
		skippedPlay("Cassette Club", "Static"),
		skippedPlay("Cassette Club", "Tape Deck"),
		skippedPlay("Vera Lune", "Drift"),
		// Completed plays never count as skips.
		musicPlay("Cassette Club", "Static", "Rewind", 200_000),
	}
	events[len(events)-1].ReasonEnd = "trackdone"

	tracks := mostSkippedTracks(events)
	require.Len(t, tracks, 3)
	assert.Equal(t, "Static", tracks[0].Name)
	assert.Equal(t, 2, tracks[0].SkipCount)

	artists := mostSkippedArtists(events)
	require.Len(t, artists, 2)
	assert.Equal(t, "Cassette Club", artists[0].Name)
	assert.Equal(t, 3, artists[0].SkipCount)
	assert.Equal(t, "Vera Lune", artists[1].Name)
	assert.Equal(t, 1, artists[1].SkipCount)
}

func TestComputeCountries(t *testing.T) {
	withCountry := func(code string, e plays.PlayEvent) plays.PlayEvent {
		e.Country = code
		return e
	}

	events := []plays.PlayEvent{
		withCountry("DE", musicPlay("Aurora Falls", "Snowline", "Northern Skies", 120_000)),
		withCountry("DE", musicPlay("Vera Lune", "Drift", "Orbit", 120_000)),
		withCountry("ES", musicPlay("Aurora Falls", "Snowline", "Northern Skies", 300_000)),
		withCountry("XX", musicPlay("Aurora Falls", "Harbor", "Northern Skies", 60_000)),
		// Plays without a country are excluded entirely.
		musicPlay("Aurora Falls", "Harbor", "Northern Skies", 60_000),
	}

	stats := computeCountries(events)
	require.Len(t, stats, 3)

	// Sorted by play count, then code.
	assert.Equal(t, "DE", stats[0].Code)
	assert.Equal(t, "Germany", stats[0].Name)
	assert.Equal(t, 2, stats[0].Plays)
	assert.Equal(t, 2, stats[0].UniqueArtists)
	assert.Equal(t, 2, stats[0].UniqueTracks)

	assert.Equal(t, "ES", stats[1].Code)
	assert.Equal(t, "Spain", stats[1].Name)

	// Unrecognized codes fall back to the code itself.
	assert.Equal(t, "XX", stats[2].Code)
	assert.Equal(t, "XX", stats[2].Name)
}
