package stats

import (
	"fmt"
	"time"
)

// QueryParams selects which events feed an overview computation. From and To
// are optional; nil means unbounded on that side.
type QueryParams struct {
	UserID uint
	From   *time.Time
	To     *time.Time
}

// NewQueryParams parses optional date-only bounds ("2006-01-02") and widens
// them to full-day timestamps: From becomes 00:00:00 and To becomes
// 23:59:59.999999999 of the given day, both UTC. Empty strings leave the
// corresponding side unbounded.
func NewQueryParams(userID uint, fromDate, toDate string) (QueryParams, error) {
	params := QueryParams{UserID: userID}

	if fromDate != "" {
		day, err := time.Parse("2006-01-02", fromDate)
		if err != nil {
			return QueryParams{}, fmt.Errorf("invalid start date %q: %w", fromDate, err)
		}
		from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		params.From = &from
	}

	if toDate != "" {
		day, err := time.Parse("2006-01-02", toDate)
		if err != nil {
			return QueryParams{}, fmt.Errorf("invalid end date %q: %w", toDate, err)
		}
		to := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
		params.To = &to
	}

	if params.From != nil && params.To != nil && params.To.Before(*params.From) {
		return QueryParams{}, fmt.Errorf("end date %s is before start date %s", toDate, fromDate)
	}

	return params, nil
}
