package acquire

import (
	"time"
)

// Result is the outcome of one link. It is never changed once recorded.
type Result struct {
	Index    int
	Link     string
	Reason   Reason
	Err      error
	Duration time.Duration
}

// Succeeded reports whether the demo was downloaded.
func (r Result) Succeeded() bool {
	return r.Reason == ReasonNone
}

// Summary is what a run produced, in link order.
type Summary struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Total    int
	Results  []Result
	// Stopped is set when the run ended before every link was tried.
	Stopped bool
}

// Attempted returns how many links were tried.
func (s Summary) Attempted() int {
	return len(s.Results)
}

// Succeeded returns how many links produced a demo.
func (s Summary) Succeeded() int {
	n := 0
	for _, r := range s.Results {
		if r.Succeeded() {
			n++
		}
	}
	return n
}

// Failures returns the failed results in link order.
func (s Summary) Failures() []Result {
	var out []Result
	for _, r := range s.Results {
		if !r.Succeeded() {
			out = append(out, r)
		}
	}
	return out
}

// Duration returns how long the run took.
func (s Summary) Duration() time.Duration {
	if s.Finished.IsZero() {
		return 0
	}
	return s.Finished.Sub(s.Started)
}
