package download

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cantalupo555/hltv-demo-downloader/internal/poll"
)

// Outcome is how a watched download ended.
type Outcome int

const (
	// Completed means the artifact appeared and later disappeared.
	Completed Outcome = iota
	// NotStarted means no artifact appeared before the appearance timeout.
	NotStarted
	// Stalled means the artifact stopped growing for the whole stall window.
	Stalled
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case NotStarted:
		return "not started"
	case Stalled:
		return "stalled"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result describes a finished watch.
type Result struct {
	Outcome  Outcome
	Artifact Artifact // last observation; zero when NotStarted
	Elapsed  time.Duration
}

// Options tune a Watcher.
type Options struct {
	Suffix           string
	AppearTimeout    time.Duration
	AppearInterval   time.Duration
	StallTimeout     time.Duration
	ProgressInterval time.Duration
	Clock            poll.Clock
}

// DefaultOptions returns the watcher timings: appearance checked every second
// for 30s, progress sampled every 5s, stall after 5 minutes without growth.
func DefaultOptions() Options {
	return Options{
		Suffix:           DefaultSuffix,
		AppearTimeout:    30 * time.Second,
		AppearInterval:   time.Second,
		StallTimeout:     5 * time.Minute,
		ProgressInterval: 5 * time.Second,
		Clock:            poll.System,
	}
}

// Watcher observes one download directory. It only reads the directory; it
// must not run concurrently with another Watcher on the same directory.
type Watcher struct {
	dir  string
	opts Options
	log  *logrus.Entry
}

// NewWatcher returns a Watcher for dir. Zero option fields take defaults.
func NewWatcher(dir string, opts Options, log *logrus.Entry) *Watcher {
	def := DefaultOptions()
	if opts.Suffix == "" {
		opts.Suffix = def.Suffix
	}
	if opts.AppearTimeout <= 0 {
		opts.AppearTimeout = def.AppearTimeout
	}
	if opts.AppearInterval <= 0 {
		opts.AppearInterval = def.AppearInterval
	}
	if opts.StallTimeout <= 0 {
		opts.StallTimeout = def.StallTimeout
	}
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = def.ProgressInterval
	}
	if opts.Clock == nil {
		opts.Clock = def.Clock
	}
	return &Watcher{dir: dir, opts: opts, log: log}
}

// Watch blocks until the download completes, never starts, or stalls. A
// non-nil error means the directory could not be observed or ctx ended.
func (w *Watcher) Watch(ctx context.Context) (Result, error) {
	clk := w.opts.Clock
	start := clk.Now()

	artifact, err := w.waitForArtifact(ctx)
	if errors.Is(err, poll.ErrTimeout) {
		w.log.Warnf("⚠️ No %s file appeared within %v", w.opts.Suffix, w.opts.AppearTimeout)
		return Result{Outcome: NotStarted, Elapsed: clk.Now().Sub(start)}, nil
	}
	if err != nil {
		return Result{}, err
	}
	w.log.WithField("artifact", artifact.Name()).Info("✓ Download started")

	outcome, last, err := w.follow(ctx, artifact)
	if err != nil {
		return Result{}, err
	}
	return Result{Outcome: outcome, Artifact: last, Elapsed: clk.Now().Sub(start)}, nil
}

// waitForArtifact polls for the newest in-progress file.
func (w *Watcher) waitForArtifact(ctx context.Context) (Artifact, error) {
	var found Artifact
	err := poll.Until(ctx, w.opts.Clock, w.opts.AppearInterval, w.opts.AppearTimeout, func() (bool, error) {
		artifacts, err := FindArtifacts(w.dir, w.opts.Suffix)
		if err != nil {
			return false, err
		}
		newest, ok := Newest(artifacts)
		if ok {
			found = newest
		}
		return ok, nil
	})
	return found, err
}

// follow samples the artifact until no in-progress file is left or it stops
// growing for the stall window. Chrome may rename a transfer while it is
// still running (Unconfirmed N.crdownload to <name>.crdownload); the renamed
// file is followed with the same stall window.
func (w *Watcher) follow(ctx context.Context, a Artifact) (Outcome, Artifact, error) {
	clk := w.opts.Clock
	lastSize := int64(-1)
	lastChange := clk.Now()

	for {
		info, err := os.Stat(a.Path)
		if errors.Is(err, fs.ErrNotExist) {
			artifacts, err := FindArtifacts(w.dir, w.opts.Suffix)
			if err != nil {
				return 0, a, err
			}
			renamed, ok := Newest(artifacts)
			if !ok {
				w.log.WithField("bytes", lastSize).Debug("Artifact gone, download finished")
				return Completed, a, nil
			}
			w.log.WithField("artifact", renamed.Name()).Debugf("%s renamed while downloading", a.Name())
			a = renamed
			continue
		}
		if err != nil {
			return 0, a, fmt.Errorf("stat %s: %w", a.Name(), err)
		}

		now := clk.Now()
		a.Size, a.ModTime = info.Size(), info.ModTime()
		if a.Size != lastSize {
			lastSize = a.Size
			lastChange = now
			w.log.WithField("bytes", a.Size).Debug("Downloading...")
		} else if now.Sub(lastChange) >= w.opts.StallTimeout {
			w.log.WithField("bytes", a.Size).Warnf("⚠️ Download stuck without progress for %v", now.Sub(lastChange))
			return Stalled, a, nil
		}

		if err := poll.Sleep(ctx, clk, w.opts.ProgressInterval); err != nil {
			return 0, a, err
		}
	}
}
