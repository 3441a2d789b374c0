// Package seeder generates a realistic demo listening history and pushes it
// through the regular import pipeline. Intended for development instances so
// the overview has something to show before a real export is uploaded.
package seeder

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"log/slog"

	"github.com/goccy/go-json"
	"github.com/karloscodes/cartridge"

	"replayed/internal/ingest"
)

// Seeder builds synthetic play history exports.
type Seeder struct {
	DBManager cartridge.DBManager
	Logger    *slog.Logger
	PlayCount int
}

// NewSeeder creates a new seeder instance
func NewSeeder(dbManager cartridge.DBManager, logger *slog.Logger, playCount int) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		DBManager: dbManager,
		Logger:    logger,
		PlayCount: playCount,
	}
}

var demoArtists = []struct {
	Artist string
	Album  string
	Tracks []string
}{
	{"The Midnight Hour", "City Lights", []string{"Neon Rain", "Last Train Home", "Glass Towers"}},
	{"Aurora Falls", "Northern Skies", []string{"Snowline", "Winter Sun", "Harbor"}},
	{"Cassette Club", "Rewind", []string{"Tape Deck", "Slow Dial", "Static"}},
	{"Vera Lune", "Orbit", []string{"Perigee", "Second Moon", "Drift"}},
}

var demoShows = []struct {
	Show     string
	Episodes []string
}{
	{"The Daily Orbit", []string{"Monday Briefing", "Deep Dive: Batteries", "Listener Questions"}},
	{"History Unboxed", []string{"The Silk Road", "Antarctic Expeditions"}},
}

var demoPlatforms = []string{
	"iOS 16.5 (iPhone14,5)",
	"Android OS 13 API 33 (samsung, SM-G991B)",
	"windows 10 (10.0.19045; x64)",
	"Partner sonos_v2 Sonos_One",
	"web_player windows 10;chrome 114.0",
}

var demoCountries = []string{"DE", "DE", "DE", "ES", "US"}

var demoReasonsStart = []string{"clickrow", "trackdone", "playbtn", "backbtn"}

// Seed generates PlayCount plays spread over the last year and imports them as
// one export file for the given user.
func (s *Seeder) Seed(ctx context.Context, userID uint) error {
	start := time.Now()
	s.Logger.Info("Seeding demo listening history...",
		slog.Uint64("user_id", uint64(userID)),
		slog.Int("playCount", s.PlayCount))

	records := make([]ingest.RawPlayRecord, 0, s.PlayCount)
	now := time.Now().UTC()

	for i := 0; i < s.PlayCount; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		playedAt := now.Add(-time.Duration(rand.IntN(365*24)) * time.Hour)
		// Evenings are busier than mornings.
		playedAt = playedAt.Truncate(time.Hour).Add(time.Duration(12+rand.IntN(11)) * time.Hour)

		if rand.IntN(10) < 8 {
			records = append(records, s.musicRecord(playedAt))
		} else {
			records = append(records, s.podcastRecord(playedAt))
		}
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal demo history: %w", err)
	}

	fileName := fmt.Sprintf("demo_history_%d.json", now.Unix())
	result, err := ingest.Ingest(s.DBManager, s.Logger, userID, fileName, raw)
	if err != nil {
		return fmt.Errorf("failed to import demo history: %w", err)
	}
	if !result.Success {
		s.Logger.Info("Demo history already imported", slog.String("message", result.Message))
		return nil
	}

	s.Logger.Info("Demo seeding completed",
		slog.Int("saved", result.SavedCount),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

func (s *Seeder) musicRecord(playedAt time.Time) ingest.RawPlayRecord {
	artist := demoArtists[rand.IntN(len(demoArtists))]
	track := artist.Tracks[rand.IntN(len(artist.Tracks))]

	msPlayed := 45_000 + rand.IntN(195_000)
	skipped := rand.IntN(10) == 0
	reasonEnd := "trackdone"
	if skipped {
		msPlayed = rand.IntN(25_000)
		reasonEnd = "fwdbtn"
	}

	return ingest.RawPlayRecord{
		Timestamp:   playedAt.Format(time.RFC3339),
		Platform:    demoPlatforms[rand.IntN(len(demoPlatforms))],
		MsPlayed:    msPlayed,
		Country:     demoCountries[rand.IntN(len(demoCountries))],
		TrackName:   track,
		ArtistName:  artist.Artist,
		AlbumName:   artist.Album,
		TrackURI:    fmt.Sprintf("spotify:track:demo%d", rand.IntN(1_000_000)),
		ReasonStart: demoReasonsStart[rand.IntN(len(demoReasonsStart))],
		ReasonEnd:   reasonEnd,
		Shuffle:     rand.IntN(2) == 0,
		Skipped:     skipped,
	}
}

func (s *Seeder) podcastRecord(playedAt time.Time) ingest.RawPlayRecord {
	show := demoShows[rand.IntN(len(demoShows))]
	episode := show.Episodes[rand.IntN(len(show.Episodes))]

	return ingest.RawPlayRecord{
		Timestamp:   playedAt.Format(time.RFC3339),
		Platform:    demoPlatforms[rand.IntN(len(demoPlatforms))],
		MsPlayed:    600_000 + rand.IntN(1_800_000),
		Country:     demoCountries[rand.IntN(len(demoCountries))],
		EpisodeName: episode,
		ShowName:    show.Show,
		EpisodeURI:  fmt.Sprintf("spotify:episode:demo%d", rand.IntN(1_000_000)),
		ReasonStart: "clickrow",
		ReasonEnd:   "endplay",
	}
}
