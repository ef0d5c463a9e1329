// Package browser provides the chromedp browser used to walk listings and
// trigger demo downloads.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

// Config holds browser configuration options.
type Config struct {
	ExecPath     string
	ProfilePath  string // empty means a throwaway profile
	DownloadDir  string
	Headless     bool
	WindowWidth  int
	WindowHeight int
	Timeout      time.Duration // zero disables the session deadline
}

// DefaultConfig returns default browser configuration.
func DefaultConfig() Config {
	return Config{
		ExecPath:     "chromium",
		Headless:     true,
		WindowWidth:  1920,
		WindowHeight: 1080,
	}
}

// Browser owns one Chrome process. Tabs opened from it share its download
// settings.
type Browser struct {
	ctx         context.Context
	allocCancel context.CancelFunc
	ctxCancel   context.CancelFunc
	log         *logrus.Entry
}

// New starts the browser and routes its downloads into cfg.DownloadDir.
func New(cfg Config, log *logrus.Entry) (*Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(cfg.ExecPath),
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
	)
	if cfg.ProfilePath != "" {
		opts = append(opts, chromedp.UserDataDir(cfg.ProfilePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, ctxCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(log.Debugf), chromedp.WithErrorf(log.Debugf))

	if cfg.Timeout > 0 {
		var timeoutCancel context.CancelFunc
		ctx, timeoutCancel = context.WithTimeout(ctx, cfg.Timeout)
		tabCancel := ctxCancel
		ctxCancel = func() {
			timeoutCancel()
			tabCancel()
		}
	}

	b := &Browser{
		ctx:         ctx,
		allocCancel: allocCancel,
		ctxCancel:   ctxCancel,
		log:         log,
	}

	// First Run launches the process.
	if err := chromedp.Run(ctx); err != nil {
		b.Close()
		return nil, fmt.Errorf("start browser %s: %w", cfg.ExecPath, err)
	}

	if cfg.DownloadDir != "" {
		if err := b.configureDownloads(cfg.DownloadDir); err != nil {
			b.Close()
			return nil, err
		}
	}
	return b, nil
}

// Close shuts the browser down.
func (b *Browser) Close() {
	if b.ctxCancel != nil {
		b.ctxCancel()
	}
	if b.allocCancel != nil {
		b.allocCancel()
	}
}

// NewTab opens a fresh tab. Closing it discards its page state.
func (b *Browser) NewTab() (Tab, error) {
	ctx, cancel := chromedp.NewContext(b.ctx)
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		return nil, fmt.Errorf("open tab: %w", err)
	}
	return &Session{ctx: ctx, cancel: cancel}, nil
}

// configureDownloads sets up the download directory for the browser.
func (b *Browser) configureDownloads(downloadDir string) error {
	if err := chromedp.Run(b.ctx,
		browser.SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllow).
			WithDownloadPath(downloadDir).
			WithEventsEnabled(true),
	); err != nil {
		return fmt.Errorf("configure downloads: %w", err)
	}
	b.log.Infof("✓ Downloads will be saved to: %s", downloadDir)
	return nil
}
