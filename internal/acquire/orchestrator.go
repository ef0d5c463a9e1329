package acquire

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/cantalupo555/hltv-demo-downloader/internal/browser"
	"github.com/cantalupo555/hltv-demo-downloader/internal/download"
	"github.com/cantalupo555/hltv-demo-downloader/internal/poll"
)

// TabOpener opens a fresh browser tab.
type TabOpener interface {
	NewTab() (browser.Tab, error)
}

// Navigator clicks through a match page to its demo.
type Navigator interface {
	DismissConsent(ctx context.Context, d browser.Driver) bool
	OpenMatchPage(ctx context.Context, d browser.Driver) error
	StartDownload(ctx context.Context, d browser.Driver) error
}

// Watcher waits for the download started by the last click.
type Watcher interface {
	Watch(ctx context.Context) (download.Result, error)
}

// StaleResolver moves leftover in-progress files aside.
type StaleResolver interface {
	Resolve() ([]download.Rename, error)
}

// Options tune an Orchestrator.
type Options struct {
	// RequestInterval is the minimum wall-clock gap between two match page
	// loads. Zero disables pacing.
	RequestInterval time.Duration
	// Events receives status changes. It is closed when Run returns.
	Events *Queue
	RunID  string
	Clock  poll.Clock
}

// Orchestrator downloads the demos of a link list one at a time.
type Orchestrator struct {
	tabs     TabOpener
	nav      Navigator
	watcher  Watcher
	resolver StaleResolver
	events   *Queue
	pace     *rate.Limiter
	runID    string
	clock    poll.Clock
	log      *logrus.Entry
}

// New returns an Orchestrator.
func New(tabs TabOpener, nav Navigator, watcher Watcher, resolver StaleResolver, opts Options, log *logrus.Entry) *Orchestrator {
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.Clock == nil {
		opts.Clock = poll.System
	}
	limit := rate.Inf
	if opts.RequestInterval > 0 {
		limit = rate.Every(opts.RequestInterval)
	}
	return &Orchestrator{
		tabs:     tabs,
		nav:      nav,
		watcher:  watcher,
		resolver: resolver,
		events:   opts.Events,
		pace:     rate.NewLimiter(limit, 1),
		runID:    opts.RunID,
		clock:    opts.Clock,
		log:      log.WithField("run", opts.RunID),
	}
}

// RunID identifies the run in logs and the report.
func (o *Orchestrator) RunID() string {
	return o.runID
}

// Run tries every link in order. A failed link is recorded and the run goes
// on. Cancelling ctx stops the run after the attempt in flight; the rest are
// reported as skipped. Run returns an error only when the browser is gone, in
// which case the summary holds the results so far.
func (o *Orchestrator) Run(ctx context.Context, links []string) (Summary, error) {
	if o.events != nil {
		defer o.events.Close()
	}

	sum := Summary{
		RunID:   o.runID,
		Started: o.clock.Now(),
		Total:   len(links),
		Results: make([]Result, 0, len(links)),
	}
	finish := func() Summary {
		sum.Finished = o.clock.Now()
		return sum
	}

	for i, link := range links {
		if ctx.Err() != nil || o.pace.Wait(ctx) != nil {
			o.log.Warnf("⚠️ Stopped before link %d of %d", i+1, len(links))
			o.skip(links, i)
			sum.Stopped = true
			return finish(), nil
		}

		idx := i + 1
		o.log.Infof("*** (%d/%d) Demo download ***", idx, len(links))
		o.log.Infof("Link: %s", link)
		o.publish(Event{Index: idx, Link: link, Status: StatusDownloading})

		// the attempt in flight is never cut short by a stop request
		res := o.attempt(context.WithoutCancel(ctx), idx, link)
		sum.Results = append(sum.Results, res)

		if res.Succeeded() {
			o.log.Infof("✓ Demo %d downloaded in %v", idx, res.Duration.Round(time.Second))
			o.publish(Event{Index: idx, Link: link, Status: StatusCompleted})
			continue
		}
		o.log.WithError(res.Err).Warnf("⚠️ Demo %d failed: %s", idx, res.Reason.Describe())
		o.publish(Event{Index: idx, Link: link, Status: StatusFailed, Reason: res.Reason})

		if browser.IsBrowserClosed(res.Err) {
			o.skip(links, idx)
			sum.Stopped = true
			return finish(), fmt.Errorf("browser closed at link %d: %w", idx, res.Err)
		}
	}
	return finish(), nil
}

// attempt runs one link through the per-link state machine. Every failure,
// panics included, ends up in the returned Result.
func (o *Orchestrator) attempt(ctx context.Context, idx int, link string) (res Result) {
	start := o.clock.Now()
	log := o.log.WithFields(logrus.Fields{"index": idx, "link": link})
	res = Result{Index: idx, Link: link}
	state := StateIdle

	defer func() {
		if r := recover(); r != nil {
			log.WithField("stack", string(debug.Stack())).Errorf("Panic while %s: %v", state, r)
			res.Reason = UnexpectedError
			res.Err = fmt.Errorf("panic while %s: %v", state, r)
		}
		res.Duration = o.clock.Now().Sub(start)
		if res.Succeeded() {
			state = StateSucceeded
		} else {
			state = StateFailed
		}
		log.WithField("state", state).Debug("Attempt finished")
	}()

	fail := func(err error) Result {
		res.Reason = Classify(err)
		res.Err = err
		return res
	}
	enter := func(s State) {
		state = s
		log.WithField("state", s).Debug("Attempt state")
	}

	if _, err := o.resolver.Resolve(); err != nil {
		return fail(fmt.Errorf("move stale downloads: %w", err))
	}

	tab, err := o.tabs.NewTab()
	if err != nil {
		return fail(fmt.Errorf("open tab: %w", err))
	}
	defer tab.Close()

	enter(StateNavigating)
	if err := tab.Navigate(ctx, link); err != nil {
		return fail(err)
	}
	o.nav.DismissConsent(ctx, tab)
	if err := o.nav.OpenMatchPage(ctx, tab); err != nil {
		return fail(err)
	}

	enter(StateAwaitingDownloadTrigger)
	if err := o.nav.StartDownload(ctx, tab); err != nil {
		return fail(err)
	}

	enter(StateWatching)
	watched, err := o.watcher.Watch(ctx)
	if err != nil {
		return fail(fmt.Errorf("watch download: %w", err))
	}
	if err := outcomeErr(watched.Outcome); err != nil {
		if watched.Artifact.Path != "" {
			err = fmt.Errorf("%w: %s at %d bytes", err, watched.Artifact.Name(), watched.Artifact.Size)
		}
		return fail(err)
	}
	return res
}

// skip reports links[from:] as skipped.
func (o *Orchestrator) skip(links []string, from int) {
	for i := from; i < len(links); i++ {
		o.publish(Event{Index: i + 1, Link: links[i], Status: StatusSkipped})
	}
}

func (o *Orchestrator) publish(e Event) {
	if o.events == nil {
		return
	}
	if !o.events.Publish(e) {
		o.log.WithField("index", e.Index).Debug("Status queue full, event dropped")
	}
}
