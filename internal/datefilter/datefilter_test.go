package datefilter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 20, 15, 30, 0, 0, time.UTC)

func TestNewDateRange(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		want     string
	}{
		{"disabled", "", "", "all dates"},
		{"both", "2024-01-01", "2024-01-31", "2024-01-01 to 2024-01-31"},
		{"open end", "2024-03-01", "", "2024-03-01 to 2024-05-20"},
		{"open start", "", "2024-03-31", "2023-03-31 to 2024-03-31"},
		{"single day", "2024-01-01", "2024-01-01", "2024-01-01 to 2024-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dr, err := NewDateRange(tt.from, tt.to, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, dr.String())
		})
	}
}

func TestNewDateRangeErrors(t *testing.T) {
	_, err := NewDateRange("01/02/2024", "", now)
	assert.Error(t, err)

	_, err = NewDateRange("", "2024-13-01", now)
	assert.Error(t, err)

	_, err = NewDateRange("2024-02-01", "2024-01-01", now)
	assert.ErrorContains(t, err, "after")
}

func TestApply(t *testing.T) {
	dr, err := NewDateRange("2024-01-01", "2024-01-31", now)
	require.NoError(t, err)

	got, err := dr.Apply("")
	require.NoError(t, err)
	assert.Equal(t, "https://www.hltv.org/stats/matches?endDate=2024-01-31&startDate=2024-01-01", got)

	got, err = dr.Apply("https://www.hltv.org/stats/matches?startDate=2020-01-01&rankingFilter=Top20")
	require.NoError(t, err)
	assert.Equal(t, "https://www.hltv.org/stats/matches?endDate=2024-01-31&rankingFilter=Top20&startDate=2024-01-01", got)
}

func TestApplyDisabled(t *testing.T) {
	dr, err := NewDateRange("", "", now)
	require.NoError(t, err)

	got, err := dr.Apply("https://www.hltv.org/stats/matches?startDate=2020-01-01")
	require.NoError(t, err)
	assert.Equal(t, "https://www.hltv.org/stats/matches?startDate=2020-01-01", got)
}
