// Package report renders the end-of-run summary of a demo download run.
package report

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/cantalupo555/hltv-demo-downloader/internal/acquire"
)

// Failure is one link that produced no demo.
type Failure struct {
	Index   int
	Link    string
	Reason  acquire.Reason
	Message string
}

// Report holds everything shown at the end of a run.
type Report struct {
	RunID       string
	StartTime   time.Time
	EndTime     time.Time
	Total       int
	Attempted   int
	Succeeded   int
	Failures    []Failure
	Stopped     bool
	DownloadDir string
	TotalSize   int64 // bytes in DownloadDir after the run
}

// FromSummary builds a Report from a finished run. The download directory
// is measured if given.
func FromSummary(sum acquire.Summary, downloadDir string) *Report {
	r := &Report{
		RunID:       sum.RunID,
		StartTime:   sum.Started,
		EndTime:     sum.Finished,
		Total:       sum.Total,
		Attempted:   sum.Attempted(),
		Succeeded:   sum.Succeeded(),
		Stopped:     sum.Stopped,
		DownloadDir: downloadDir,
	}
	for _, res := range sum.Failures() {
		f := Failure{Index: res.Index, Link: res.Link, Reason: res.Reason}
		if res.Err != nil {
			f.Message = res.Err.Error()
		}
		r.Failures = append(r.Failures, f)
	}
	if downloadDir != "" {
		r.TotalSize = dirSize(downloadDir)
	}
	return r
}

// Skipped returns how many links were never tried.
func (r *Report) Skipped() int {
	return r.Total - r.Attempted
}

// Duration returns the run duration.
func (r *Report) Duration() time.Duration {
	if r.EndTime.IsZero() {
		return time.Since(r.StartTime)
	}
	return r.EndTime.Sub(r.StartTime)
}

// Headline is the closing line of a run.
func (r *Report) Headline() string {
	return fmt.Sprintf("*** Finished: %d of %d demos downloaded successfully ***", r.Succeeded, r.Total)
}

// FailureLines lists the failed links, numbered in run order.
func (r *Report) FailureLines() []string {
	lines := make([]string, 0, len(r.Failures))
	for i, f := range r.Failures {
		lines = append(lines, fmt.Sprintf("%d. %s (%s)", i+1, f.Link, f.Reason.Describe()))
	}
	return lines
}

var (
	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6")).
			Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Width(18)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Print writes the headline and the report box to w.
func (r *Report) Print(w io.Writer) {
	rows := []string{
		titleStyle.Render("📊 FINAL REPORT"),
		"",
		row("Duration", formatDuration(r.Duration()), lipgloss.NewStyle()),
	}

	downloads := fmt.Sprintf("%d of %d", r.Succeeded, r.Attempted)
	style := okStyle
	if len(r.Failures) > 0 {
		downloads += fmt.Sprintf(", %d failed", len(r.Failures))
		style = warnStyle
	}
	rows = append(rows, row("Demos", downloads, style))

	if r.Skipped() > 0 {
		rows = append(rows, row("Skipped", fmt.Sprintf("%d (run stopped)", r.Skipped()), warnStyle))
	}
	if r.TotalSize > 0 {
		rows = append(rows, row("Total size", formatBytes(r.TotalSize), lipgloss.NewStyle()))
	}
	if r.DownloadDir != "" {
		rows = append(rows, row("Folder", r.DownloadDir, dimStyle))
	}
	if r.RunID != "" {
		rows = append(rows, row("Run", r.RunID, dimStyle))
	}

	rows = append(rows, "")
	if len(r.Failures) == 0 {
		rows = append(rows, okStyle.Render("✅ No failed demos"))
	} else {
		rows = append(rows, errStyle.Render(fmt.Sprintf("❌ Failed demos (%d):", len(r.Failures))))
		for _, line := range r.FailureLines() {
			rows = append(rows, "   "+line)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, r.Headline())
	fmt.Fprintln(w, boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
}

func row(label, value string, style lipgloss.Style) string {
	return labelStyle.Render(label) + style.Render(value)
}

// Summary returns a one-line summary for the log.
func (r *Report) Summary() string {
	parts := []string{fmt.Sprintf("%d of %d demos downloaded", r.Succeeded, r.Total)}
	if len(r.Failures) > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", len(r.Failures)))
	}
	if r.Skipped() > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", r.Skipped()))
	}
	return strings.Join(parts, ", ") + " in " + formatDuration(r.Duration())
}

// dirSize returns the total size of the regular files under dir.
func dirSize(dir string) int64 {
	var size int64
	filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			size += info.Size()
		}
		return nil
	})
	return size
}

// formatBytes formats bytes into human-readable format.
func formatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
