// Package listing discovers match-page links from a paginated HLTV stats
// listing.
package listing

import (
	"errors"
	"net/url"
	"strings"
)

// StatsMarker identifies an HLTV statistics listing address.
const StatsMarker = "https://www.hltv.org/stats/"

// ErrInvalidListingURL is returned when the start address is not a stats listing.
var ErrInvalidListingURL = errors.New("incorrect link format: not an HLTV stats page")

// IsListingURL reports whether raw is an absolute URL (scheme and host) whose
// text contains marker. It never fails; anything malformed is simply false.
func IsListingURL(raw, marker string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme == "" || u.Host == "" {
		return false
	}
	return strings.Contains(raw, marker)
}
