package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/cantalupo555/hltv-demo-downloader/internal/acquire"
	"github.com/cantalupo555/hltv-demo-downloader/internal/browser"
	"github.com/cantalupo555/hltv-demo-downloader/internal/config"
	"github.com/cantalupo555/hltv-demo-downloader/internal/download"
	"github.com/cantalupo555/hltv-demo-downloader/internal/listing"
	"github.com/cantalupo555/hltv-demo-downloader/internal/navigation"
	"github.com/cantalupo555/hltv-demo-downloader/internal/progress"
	"github.com/cantalupo555/hltv-demo-downloader/internal/report"
)

func run(ctx context.Context, cfg *config.Config, downloadDir string, log *logrus.Logger) error {
	b, err := browser.New(cfg.BrowserConfig(downloadDir), log.WithField("component", "browser"))
	if err != nil {
		return err
	}
	defer b.Close()

	nav := navigation.New(cfg.NavigationSelectors(), cfg.Timeouts.Element, cfg.Timeouts.Consent,
		log.WithField("component", "navigation"))

	links, err := discover(ctx, b, nav, cfg, log.WithField("component", "listing"))
	if err != nil {
		return err
	}
	if len(links) == 0 {
		log.Warn("⚠️ No demos found on the listing")
		return nil
	}

	entry := log.WithField("component", "download")
	events := acquire.NewQueue(acquire.DefaultEventBuffer)
	orch := acquire.New(
		b,
		nav,
		download.NewWatcher(downloadDir, cfg.WatcherOptions(), entry),
		download.NewResolver(downloadDir, cfg.IncompleteSuffix, entry),
		acquire.Options{RequestInterval: cfg.Timeouts.RequestInterval, Events: events},
		log.WithField("component", "acquire"),
	)
	console := progress.New(os.Stdout, len(links), progress.DefaultInterval)

	var (
		g      errgroup.Group
		sum    acquire.Summary
		runErr error
	)
	g.Go(func() error {
		sum, runErr = orch.Run(ctx, links)
		return nil
	})
	g.Go(func() error {
		// keeps drawing through the in-flight demo after a stop request
		return console.Run(context.WithoutCancel(ctx), events)
	})
	if err := g.Wait(); err != nil {
		log.Warnf("⚠️ Progress display: %v", err)
	}
	if n := events.Dropped(); n > 0 {
		log.Debugf("%d status events dropped", n)
	}
	counts := console.Counts()
	log.WithFields(logrus.Fields{
		"completed": counts[acquire.StatusCompleted],
		"failed":    counts[acquire.StatusFailed],
		"skipped":   counts[acquire.StatusSkipped],
		"pending":   counts[acquire.StatusPending],
	}).Debug("Final link statuses")

	rep := report.FromSummary(sum, downloadDir)
	rep.Print(os.Stdout)
	for _, line := range rep.FailureLines() {
		log.WithField("run", sum.RunID).Warn(line)
	}
	log.WithField("run", sum.RunID).Info(rep.Summary())

	if runErr != nil {
		return fmt.Errorf("run stopped early: %w", runErr)
	}
	return nil
}

// discover walks the listing on its own tab and prints what it found.
func discover(ctx context.Context, b *browser.Browser, nav *navigation.Navigator, cfg *config.Config, log *logrus.Entry) ([]string, error) {
	tab, err := b.NewTab()
	if err != nil {
		return nil, err
	}
	defer tab.Close()

	links, err := listing.NewDiscoverer(tab, nav, cfg.ListingSelectors(), cfg.Selectors.StatsMarker, log).
		Discover(ctx, cfg.ListingURL)
	if err != nil {
		return nil, err
	}

	for i, link := range links {
		log.Infof("%d. %s", i+1, link)
	}
	log.Infof("Found %d demos.", len(links))
	return links, nil
}
