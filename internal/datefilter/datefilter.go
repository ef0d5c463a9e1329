// Package datefilter turns a date range into the startDate/endDate filter of
// an HLTV stats listing.
package datefilter

import (
	"fmt"
	"net/url"
	"time"
)

// DefaultListing is the match listing used when only dates are given.
const DefaultListing = "https://www.hltv.org/stats/matches"

const layout = "2006-01-02"

// DateRange represents a date range filter.
type DateRange struct {
	From    time.Time
	To      time.Time
	Enabled bool
}

// NewDateRange creates a new DateRange from string dates.
// Date format: YYYY-MM-DD (e.g., "2023-01-01")
// Pass empty strings to disable filtering. A missing end means today; a
// missing start means one year before the end.
func NewDateRange(from, to string, now time.Time) (*DateRange, error) {
	dr := &DateRange{}
	if from == "" && to == "" {
		return dr, nil
	}
	dr.Enabled = true

	if to != "" {
		toDate, err := time.Parse(layout, to)
		if err != nil {
			return nil, fmt.Errorf("invalid 'to' date format (use YYYY-MM-DD): %w", err)
		}
		dr.To = toDate
	} else {
		dr.To = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	if from != "" {
		fromDate, err := time.Parse(layout, from)
		if err != nil {
			return nil, fmt.Errorf("invalid 'from' date format (use YYYY-MM-DD): %w", err)
		}
		dr.From = fromDate
	} else {
		dr.From = dr.To.AddDate(-1, 0, 0)
	}

	if dr.From.After(dr.To) {
		return nil, fmt.Errorf("'from' date (%s) is after 'to' date (%s)",
			dr.From.Format(layout), dr.To.Format(layout))
	}
	return dr, nil
}

// Apply sets the range on a listing URL, replacing any startDate/endDate it
// already has. An empty listing means DefaultListing. A disabled range
// returns listing unchanged.
func (dr *DateRange) Apply(listing string) (string, error) {
	if listing == "" {
		listing = DefaultListing
	}
	if !dr.Enabled {
		return listing, nil
	}

	u, err := url.Parse(listing)
	if err != nil {
		return "", fmt.Errorf("parse listing url: %w", err)
	}
	q := u.Query()
	q.Set("startDate", dr.From.Format(layout))
	q.Set("endDate", dr.To.Format(layout))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// String returns a human-readable representation of the date range.
func (dr *DateRange) String() string {
	if !dr.Enabled {
		return "all dates"
	}
	return fmt.Sprintf("%s to %s", dr.From.Format(layout), dr.To.Format(layout))
}
