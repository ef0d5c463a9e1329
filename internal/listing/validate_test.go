package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsListingURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"stats matches", "https://www.hltv.org/stats/matches?startDate=2024-01-01&endDate=2024-02-01", true},
		{"stats root", "https://www.hltv.org/stats/", true},
		{"not stats", "https://www.hltv.org/matches/2370000/a-vs-b", false},
		{"http scheme", "http://www.hltv.org/stats/matches", false},
		{"no scheme", "www.hltv.org/stats/matches", false},
		{"relative", "/stats/matches", false},
		{"marker only in query", "https://example.com/?next=https://www.hltv.org/stats/", true},
		{"malformed escape", "https://www.hltv.org/stats/%zz", false},
		{"control character", "https://www.hltv.org/stats/\x7f", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsListingURL(tt.input, StatsMarker))
		})
	}
}
