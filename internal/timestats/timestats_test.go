package timestats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"replayed/internal/plays"
	"replayed/internal/timestats"
)

func playAt(ts time.Time, msPlayed int) plays.PlayEvent {
	return plays.PlayEvent{PlayedAt: ts, MsPlayed: msPlayed}
}

func TestDaysInclusive(t *testing.T) {
	day := time.Date(2023, 6, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, timestats.DaysInclusive(day, day))
	assert.Equal(t, 1, timestats.DaysInclusive(day, day.Add(5*time.Hour)))
	assert.Equal(t, 2, timestats.DaysInclusive(day, day.Add(20*time.Hour)))
	assert.Equal(t, 14, timestats.DaysInclusive(
		time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 6, 14, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, timestats.DaysInclusive(day, day.Add(-48*time.Hour)))
}

func TestDayOfWeekNormalization(t *testing.T) {
	// Exactly two weeks: every weekday occurs twice.
	start := time.Date(2023, 6, 5, 0, 0, 0, 0, time.UTC)  // a Monday
	end := time.Date(2023, 6, 18, 23, 0, 0, 0, time.UTC) // the second Sunday

	events := []plays.PlayEvent{
		playAt(time.Date(2023, 6, 5, 9, 0, 0, 0, time.UTC), 600_000),  // Monday week 1
		playAt(time.Date(2023, 6, 12, 21, 0, 0, 0, time.UTC), 600_000), // Monday week 2
		playAt(time.Date(2023, 6, 7, 12, 0, 0, 0, time.UTC), 300_000),  // Wednesday week 1
	}

	result := timestats.Compute(events, start, end)
	require.Len(t, result.DaysOfWeek, 7)

	monday := result.DaysOfWeek[int(time.Monday)]
	assert.Equal(t, "Monday", monday.Weekday)
	assert.Equal(t, 2, monday.Occurrences)
	assert.Equal(t, 2, monday.Plays)
	assert.InDelta(t, 20.0, monday.TotalMinutes, 0.001)
	assert.InDelta(t, 10.0, monday.AvgMinutesPerOccurrence, 0.001)

	wednesday := result.DaysOfWeek[int(time.Wednesday)]
	assert.Equal(t, 2, wednesday.Occurrences)
	assert.InDelta(t, 2.5, wednesday.AvgMinutesPerOccurrence, 0.001, "5 minutes over 2 Wednesdays")

	friday := result.DaysOfWeek[int(time.Friday)]
	assert.Equal(t, 0, friday.Plays)
	assert.Zero(t, friday.AvgMinutesPerOccurrence)
}

func TestHourOfDayNormalization(t *testing.T) {
	start := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 6, 10, 23, 0, 0, 0, time.UTC) // 10 covered days

	events := []plays.PlayEvent{
		playAt(time.Date(2023, 6, 2, 20, 15, 0, 0, time.UTC), 600_000),
		playAt(time.Date(2023, 6, 5, 20, 45, 0, 0, time.UTC), 600_000),
		playAt(time.Date(2023, 6, 9, 8, 0, 0, 0, time.UTC), 300_000),
	}

	result := timestats.Compute(events, start, end)
	require.Len(t, result.Hours, 24)

	hour20 := result.Hours[20]
	assert.Equal(t, 20, hour20.Hour)
	assert.Equal(t, 2, hour20.Plays)
	assert.InDelta(t, 20.0, hour20.TotalMinutes, 0.001)
	assert.InDelta(t, 2.0, hour20.AvgMinutesPerDay, 0.001, "20 minutes over 10 days")

	hour8 := result.Hours[8]
	assert.InDelta(t, 0.5, hour8.AvgMinutesPerDay, 0.001)

	assert.Zero(t, result.Hours[3].Plays)
}

func TestMonthlyShortRangeUsesCalendarMonths(t *testing.T) {
	// June 10 to July 5: 21 in-range June days, 5 in-range July days.
	start := time.Date(2023, 6, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 7, 5, 23, 0, 0, 0, time.UTC)

	events := []plays.PlayEvent{
		playAt(time.Date(2023, 6, 12, 10, 0, 0, 0, time.UTC), 600_000),
		playAt(time.Date(2023, 6, 20, 10, 0, 0, 0, time.UTC), 660_000),
		playAt(time.Date(2023, 7, 2, 10, 0, 0, 0, time.UTC), 300_000),
	}

	result := timestats.Compute(events, start, end)
	require.Len(t, result.Months, 2)

	june := result.Months[0]
	assert.Equal(t, 2023, june.Year)
	assert.Equal(t, 6, june.Month)
	assert.Equal(t, "2023-06", june.Label)
	assert.Equal(t, 2, june.Plays)
	assert.InDelta(t, 21.0, june.TotalMinutes, 0.001)
	assert.InDelta(t, 1.0, june.AvgMinutes, 0.001, "21 minutes over 21 in-range June days")

	july := result.Months[1]
	assert.Equal(t, "2023-07", july.Label)
	assert.InDelta(t, 5.0, july.TotalMinutes, 0.001)
	assert.InDelta(t, 1.0, july.AvgMinutes, 0.001, "5 minutes over 5 in-range July days")
}

func TestMonthlyLongRangeCollapsesToTwelveBuckets(t *testing.T) {
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC)

	events := []plays.PlayEvent{
		// Two Januaries with data: normalized average halves the sum.
		playAt(time.Date(2021, 1, 10, 10, 0, 0, 0, time.UTC), 600_000),
		playAt(time.Date(2022, 1, 15, 10, 0, 0, 0, time.UTC), 1_200_000),
		// One March with data.
		playAt(time.Date(2022, 3, 8, 10, 0, 0, 0, time.UTC), 600_000),
	}

	result := timestats.Compute(events, start, end)
	require.Len(t, result.Months, 12, "long ranges always produce 12 month-of-year buckets")

	january := result.Months[0]
	assert.Equal(t, 0, january.Year)
	assert.Equal(t, 1, january.Month)
	assert.Equal(t, "January", january.Label)
	assert.Equal(t, 2, january.Plays)
	assert.InDelta(t, 30.0, january.TotalMinutes, 0.001)
	assert.InDelta(t, 15.0, january.AvgMinutes, 0.001, "30 minutes over 2 distinct Januaries")

	march := result.Months[2]
	assert.InDelta(t, 10.0, march.AvgMinutes, 0.001)

	november := result.Months[10]
	assert.Equal(t, 11, november.Month)
	assert.Zero(t, november.Plays)
	assert.Zero(t, november.AvgMinutes)
}

func TestMonthlyBranchBoundary(t *testing.T) {
	events := []plays.PlayEvent{
		playAt(time.Date(2023, 1, 15, 10, 0, 0, 0, time.UTC), 600_000),
	}

	// Exactly 365 days stays on the calendar-month branch.
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	result := timestats.Compute(events, start, start.Add(365*24*time.Hour))
	assert.Equal(t, 2023, result.Months[0].Year)

	// One hour past a year switches to month-of-year buckets.
	result = timestats.Compute(events, start, start.Add(365*24*time.Hour+time.Hour))
	require.Len(t, result.Months, 12)
	assert.Equal(t, 0, result.Months[0].Year)
}
