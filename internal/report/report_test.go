package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cantalupo555/hltv-demo-downloader/internal/acquire"
)

var start = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func sampleSummary() acquire.Summary {
	return acquire.Summary{
		RunID:    "8c1f0e8e-4a43-4b7e-9d55-1a2b3c4d5e6f",
		Started:  start,
		Finished: start.Add(3*time.Minute + 5*time.Second),
		Total:    4,
		Results: []acquire.Result{
			{Index: 1, Link: "https://www.hltv.org/stats/matches/mapstatsid/1/a"},
			{Index: 2, Link: "https://www.hltv.org/stats/matches/mapstatsid/2/b", Reason: acquire.TriggerNotFound,
				Err: errors.New("match page link not found")},
			{Index: 3, Link: "https://www.hltv.org/stats/matches/mapstatsid/3/c", Reason: acquire.DownloadStalled},
		},
		Stopped: true,
	}
}

func TestFromSummary(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.dem.rar"), make([]byte, 2048), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.dem.rar"), make([]byte, 1024), 0o644))

	r := FromSummary(sampleSummary(), dir)

	assert.Equal(t, 4, r.Total)
	assert.Equal(t, 3, r.Attempted)
	assert.Equal(t, 1, r.Succeeded)
	assert.Equal(t, 1, r.Skipped())
	assert.Equal(t, int64(3072), r.TotalSize)
	assert.Equal(t, 3*time.Minute+5*time.Second, r.Duration())
	require.Len(t, r.Failures, 2)
	assert.Equal(t, Failure{
		Index:   2,
		Link:    "https://www.hltv.org/stats/matches/mapstatsid/2/b",
		Reason:  acquire.TriggerNotFound,
		Message: "match page link not found",
	}, r.Failures[0])
	assert.Empty(t, r.Failures[1].Message)
}

func TestHeadlineAndFailureLines(t *testing.T) {
	r := FromSummary(sampleSummary(), "")

	assert.Equal(t, "*** Finished: 1 of 4 demos downloaded successfully ***", r.Headline())
	assert.Equal(t, []string{
		"1. https://www.hltv.org/stats/matches/mapstatsid/2/b (match page link not found)",
		"2. https://www.hltv.org/stats/matches/mapstatsid/3/c (download stalled)",
	}, r.FailureLines())
	assert.Equal(t, "1 of 4 demos downloaded, 2 failed, 1 skipped in 3m 5s", r.Summary())
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	FromSummary(sampleSummary(), "").Print(&buf)

	out := buf.String()
	assert.Contains(t, out, "*** Finished: 1 of 4 demos downloaded successfully ***")
	assert.Contains(t, out, "FINAL REPORT")
	assert.Contains(t, out, "3m 5s")
	assert.Contains(t, out, "1 of 3, 2 failed")
	assert.Contains(t, out, "mapstatsid/3/c (download stalled)")
	assert.Contains(t, out, "8c1f0e8e-4a43-4b7e-9d55-1a2b3c4d5e6f")
}

func TestPrintWithoutFailures(t *testing.T) {
	sum := acquire.Summary{
		Started:  start,
		Finished: start.Add(time.Second),
		Total:    1,
		Results:  []acquire.Result{{Index: 1, Link: "https://www.hltv.org/stats/matches/mapstatsid/1/a"}},
	}
	var buf bytes.Buffer
	FromSummary(sum, "").Print(&buf)

	assert.Contains(t, buf.String(), "No failed demos")
	assert.NotContains(t, buf.String(), "Skipped")
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 bytes"},
		{2048, "2.00 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.in))
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "42s", formatDuration(42*time.Second))
	assert.Equal(t, "2m 0s", formatDuration(2*time.Minute))
	assert.Equal(t, "1h 1m 1s", formatDuration(time.Hour+time.Minute+time.Second+300*time.Millisecond))
}
