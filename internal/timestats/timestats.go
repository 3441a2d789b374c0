// Package timestats computes time-based listening distributions: day of week,
// hour of day and monthly breakdowns, each normalized by how often the
// calendar unit actually occurs inside the covered range so uneven ranges do
// not skew the averages.
package timestats

import (
	"fmt"
	"sort"
	"time"

	"replayed/internal/plays"
)

// longRangeThreshold is the covered-range length beyond which the monthly
// breakdown collapses to month-of-year buckets.
const longRangeThreshold = 365 * 24 * time.Hour

// DayOfWeekStat is the aggregate for one weekday across the covered range.
type DayOfWeekStat struct {
	Weekday                 string  `json:"weekday"`
	Plays                   int     `json:"plays"`
	TotalMinutes            float64 `json:"total_minutes"`
	Occurrences             int     `json:"occurrences"`
	AvgMinutesPerOccurrence float64 `json:"avg_minutes_per_occurrence"`
}

// HourStat is the aggregate for one hour of the day.
type HourStat struct {
	Hour             int     `json:"hour"`
	Plays            int     `json:"plays"`
	TotalMinutes     float64 `json:"total_minutes"`
	AvgMinutesPerDay float64 `json:"avg_minutes_per_day"`
}

// MonthStat is one monthly bucket. For covered ranges longer than a year the
// buckets are months-of-year (Year is 0 and AvgMinutes is normalized by the
// distinct (year, month) pairs present); otherwise one bucket per calendar
// month in the range, with AvgMinutes per in-range day of that month.
type MonthStat struct {
	Year         int     `json:"year,omitempty"`
	Month        int     `json:"month"`
	Label        string  `json:"label"`
	Plays        int     `json:"plays"`
	TotalMinutes float64 `json:"total_minutes"`
	AvgMinutes   float64 `json:"avg_minutes"`
}

// TimeBasedStats bundles the three breakdowns.
type TimeBasedStats struct {
	DaysOfWeek []DayOfWeekStat `json:"days_of_week"`
	Hours      []HourStat      `json:"hours"`
	Months     []MonthStat     `json:"months"`
}

// Compute builds all three breakdowns over events, which must already be
// restricted to [coveredStart, coveredEnd].
func Compute(events []plays.PlayEvent, coveredStart, coveredEnd time.Time) TimeBasedStats {
	return TimeBasedStats{
		DaysOfWeek: computeDaysOfWeek(events, coveredStart, coveredEnd),
		Hours:      computeHours(events, coveredStart, coveredEnd),
		Months:     computeMonths(events, coveredStart, coveredEnd),
	}
}

// DaysInclusive counts calendar days touched by [start, end], both ends
// included. A range within a single day counts as 1.
func DaysInclusive(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	startDay := truncateToDay(start)
	endDay := truncateToDay(end)
	return int(endDay.Sub(startDay).Hours()/24) + 1
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func computeDaysOfWeek(events []plays.PlayEvent, start, end time.Time) []DayOfWeekStat {
	// How many calendar dates of the range fall on each weekday. This is the
	// per-weekday denominator: a 14-day range has 2 occurrences of each.
	occurrences := [7]int{}
	for day := truncateToDay(start); !day.After(truncateToDay(end)); day = day.AddDate(0, 0, 1) {
		occurrences[int(day.Weekday())]++
	}

	plays := [7]int{}
	minutes := [7]float64{}
	for i := range events {
		wd := int(events[i].PlayedAt.Weekday())
		plays[wd]++
		minutes[wd] += float64(events[i].MsPlayed) / 60000.0
	}

	stats := make([]DayOfWeekStat, 7)
	for wd := 0; wd < 7; wd++ {
		avg := 0.0
		if occurrences[wd] > 0 {
			avg = minutes[wd] / float64(occurrences[wd])
		}
		stats[wd] = DayOfWeekStat{
			Weekday:                 time.Weekday(wd).String(),
			Plays:                   plays[wd],
			TotalMinutes:            minutes[wd],
			Occurrences:             occurrences[wd],
			AvgMinutesPerOccurrence: avg,
		}
	}
	return stats
}

func computeHours(events []plays.PlayEvent, start, end time.Time) []HourStat {
	// Every day of the range contributes one occurrence of every hour, so the
	// denominator is simply the day count.
	days := DaysInclusive(start, end)

	plays := [24]int{}
	minutes := [24]float64{}
	for i := range events {
		h := events[i].PlayedAt.Hour()
		plays[h]++
		minutes[h] += float64(events[i].MsPlayed) / 60000.0
	}

	stats := make([]HourStat, 24)
	for h := 0; h < 24; h++ {
		avg := 0.0
		if days > 0 {
			avg = minutes[h] / float64(days)
		}
		stats[h] = HourStat{
			Hour:             h,
			Plays:            plays[h],
			TotalMinutes:     minutes[h],
			AvgMinutesPerDay: avg,
		}
	}
	return stats
}

func computeMonths(events []plays.PlayEvent, start, end time.Time) []MonthStat {
	if end.Sub(start) > longRangeThreshold {
		return computeMonthsOfYear(events)
	}
	return computeCalendarMonths(events, start, end)
}

// computeMonthsOfYear aggregates by month-of-year across all years present.
// Because years contribute unevenly (five Januaries against one November,
// say), each bucket is normalized by the number of distinct (year, month)
// pairs actually present in the data.
func computeMonthsOfYear(events []plays.PlayEvent) []MonthStat {
	plays := [13]int{}
	minutes := [13]float64{}
	yearMonths := [13]map[int]bool{}
	for m := 1; m <= 12; m++ {
		yearMonths[m] = make(map[int]bool)
	}

	for i := range events {
		m := int(events[i].PlayedAt.Month())
		plays[m]++
		minutes[m] += float64(events[i].MsPlayed) / 60000.0
		yearMonths[m][events[i].PlayedAt.Year()] = true
	}

	stats := make([]MonthStat, 0, 12)
	for m := 1; m <= 12; m++ {
		avg := 0.0
		if n := len(yearMonths[m]); n > 0 {
			avg = minutes[m] / float64(n)
		}
		stats = append(stats, MonthStat{
			Month:        m,
			Label:        time.Month(m).String(),
			Plays:        plays[m],
			TotalMinutes: minutes[m],
			AvgMinutes:   avg,
		})
	}
	return stats
}

// computeCalendarMonths emits one bucket per (year, month) present in the
// data. The per-day average divides by the days of that month that fall
// inside the covered range, clipped at both ends, not the full month length.
func computeCalendarMonths(events []plays.PlayEvent, start, end time.Time) []MonthStat {
	type ym struct {
		year  int
		month int
	}

	plays := make(map[ym]int)
	minutes := make(map[ym]float64)
	for i := range events {
		key := ym{events[i].PlayedAt.Year(), int(events[i].PlayedAt.Month())}
		plays[key]++
		minutes[key] += float64(events[i].MsPlayed) / 60000.0
	}

	keys := make([]ym, 0, len(plays))
	for key := range plays {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	stats := make([]MonthStat, 0, len(keys))
	for _, key := range keys {
		days := monthDaysInRange(key.year, time.Month(key.month), start, end)
		avg := 0.0
		if days > 0 {
			avg = minutes[key] / float64(days)
		}
		stats = append(stats, MonthStat{
			Year:         key.year,
			Month:        key.month,
			Label:        fmt.Sprintf("%04d-%02d", key.year, key.month),
			Plays:        plays[key],
			TotalMinutes: minutes[key],
			AvgMinutes:   avg,
		})
	}
	return stats
}

// monthDaysInRange counts the days of the given calendar month that fall
// inside [start, end].
func monthDaysInRange(year int, month time.Month, start, end time.Time) int {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	from := monthStart
	if rangeStart := truncateToDay(start); rangeStart.After(from) {
		from = rangeStart
	}
	to := monthEnd
	if rangeEnd := truncateToDay(end); rangeEnd.Before(to) {
		to = rangeEnd
	}
	if to.Before(from) {
		return 0
	}
	return DaysInclusive(from, to)
}
