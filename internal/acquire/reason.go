// Package acquire runs the per-link download attempts: it drives each match
// page to its demo, watches the download and records one result per link.
package acquire

import (
	"errors"

	"github.com/cantalupo555/hltv-demo-downloader/internal/download"
	"github.com/cantalupo555/hltv-demo-downloader/internal/navigation"
)

var (
	// ErrDownloadNotStarted means no in-progress file appeared in time.
	ErrDownloadNotStarted = errors.New("download did not start")
	// ErrDownloadStalled means the in-progress file stopped growing.
	ErrDownloadStalled = errors.New("download stalled")
)

// Reason is why a link failed. The zero value means it did not.
type Reason string

const (
	ReasonNone         Reason = ""
	TriggerNotFound    Reason = "TriggerNotFound"
	DemoUnavailable    Reason = "DemoUnavailable"
	DownloadNotStarted Reason = "DownloadNotStarted"
	DownloadStalled    Reason = "DownloadStalled"
	UnexpectedError    Reason = "UnexpectedError"
)

// Describe returns the reason in words.
func (r Reason) Describe() string {
	switch r {
	case ReasonNone:
		return "ok"
	case TriggerNotFound:
		return "match page link not found"
	case DemoUnavailable:
		return "demo unavailable"
	case DownloadNotStarted:
		return "download did not start"
	case DownloadStalled:
		return "download stalled"
	default:
		return "unexpected error"
	}
}

// Classify maps an attempt error onto a Reason. Anything unknown is an
// UnexpectedError.
func Classify(err error) Reason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, navigation.ErrTriggerNotFound):
		return TriggerNotFound
	case errors.Is(err, navigation.ErrDemoUnavailable):
		return DemoUnavailable
	case errors.Is(err, ErrDownloadNotStarted):
		return DownloadNotStarted
	case errors.Is(err, ErrDownloadStalled):
		return DownloadStalled
	default:
		return UnexpectedError
	}
}

// outcomeErr turns a watcher outcome into an attempt error.
func outcomeErr(o download.Outcome) error {
	switch o {
	case download.Completed:
		return nil
	case download.NotStarted:
		return ErrDownloadNotStarted
	case download.Stalled:
		return ErrDownloadStalled
	default:
		return errors.New("unknown download outcome " + o.String())
	}
}
