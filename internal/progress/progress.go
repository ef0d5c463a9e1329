// Package progress shows a run's status events as a console progress bar.
package progress

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/cantalupo555/hltv-demo-downloader/internal/acquire"
)

// DefaultInterval is how often the queue is polled.
const DefaultInterval = 250 * time.Millisecond

// Console consumes an acquire.Queue and tracks the status of every link.
type Console struct {
	mu       sync.Mutex
	bar      *progressbar.ProgressBar
	statuses []acquire.Status
	interval time.Duration
}

// New returns a Console for total links drawing on w.
func New(w io.Writer, total int, interval time.Duration) *Console {
	if interval <= 0 {
		interval = DefaultInterval
	}
	statuses := make([]acquire.Status, total)
	for i := range statuses {
		statuses[i] = acquire.StatusPending
	}
	return &Console{
		bar: progressbar.NewOptions(total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("Demos"),
			progressbar.OptionSetItsString("demo"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
		),
		statuses: statuses,
		interval: interval,
	}
}

// Run polls q until it is closed and drained, or ctx is done. An empty
// queue just means nothing changed since the last poll.
func (c *Console) Run(ctx context.Context, q *acquire.Queue) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		for {
			e, ok := q.Poll()
			if !ok {
				break
			}
			c.apply(e)
		}
		if q.Drained() {
			c.bar.Finish()
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Console) apply(e acquire.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := e.Index - 1
	if i < 0 || i >= len(c.statuses) {
		return
	}
	prev := c.statuses[i]
	c.statuses[i] = e.Status

	switch {
	case e.Status == acquire.StatusDownloading:
		c.bar.Describe(fmt.Sprintf("Demo %d/%d", e.Index, len(c.statuses)))
	case e.Status.IsFinished() && !prev.IsFinished():
		c.bar.Add(1)
	}
}

// status returns the last known status of the 1-based link index.
func (c *Console) status(index int) acquire.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 1 || index > len(c.statuses) {
		return ""
	}
	return c.statuses[index-1]
}

// Counts returns how many links are in each status.
func (c *Console) Counts() map[acquire.Status]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	counts := make(map[acquire.Status]int)
	for _, s := range c.statuses {
		counts[s]++
	}
	return counts
}
