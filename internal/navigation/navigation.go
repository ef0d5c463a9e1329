// Package navigation clicks through HLTV pages: the cookie banner, the
// match-page trigger and the demo download link.
package navigation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cantalupo555/hltv-demo-downloader/internal/browser"
)

var (
	// ErrTriggerNotFound means the control leading to the demo was missing.
	ErrTriggerNotFound = errors.New("match page link not found")
	// ErrDemoUnavailable means the demo download control was missing.
	ErrDemoUnavailable = errors.New("download button not found - demo unavailable")
)

// Selectors locate the controls on HLTV pages.
type Selectors struct {
	CookieDecline    string
	MatchPageTrigger string
	DemoDownload     string
}

// DefaultSelectors returns the selectors for the current HLTV markup.
func DefaultSelectors() Selectors {
	return Selectors{
		CookieDecline:    "#CybotCookiebotDialogBodyButtonDecline",
		MatchPageTrigger: `//a[contains(normalize-space(.), "More info on match page")]`,
		DemoDownload:     `//a[contains(normalize-space(.), "Demo sponsored by")]`,
	}
}

// Navigator performs the clicks on a browser.Driver.
type Navigator struct {
	sel            Selectors
	elementTimeout time.Duration
	consentTimeout time.Duration
	consentSeen    bool
	log            *logrus.Entry
}

// New returns a Navigator. elementTimeout bounds the trigger and download
// waits, consentTimeout bounds the cookie banner wait.
func New(sel Selectors, elementTimeout, consentTimeout time.Duration, log *logrus.Entry) *Navigator {
	return &Navigator{
		sel:            sel,
		elementTimeout: elementTimeout,
		consentTimeout: consentTimeout,
		log:            log,
	}
}

// OpenMatchPage clicks the "More info on match page" link.
func (n *Navigator) OpenMatchPage(ctx context.Context, d browser.Driver) error {
	if err := n.clickWhenReady(ctx, d, n.sel.MatchPageTrigger, ErrTriggerNotFound); err != nil {
		return err
	}
	n.log.Debug("✓ Match page opened")
	return nil
}

// StartDownload clicks the demo download link.
func (n *Navigator) StartDownload(ctx context.Context, d browser.Driver) error {
	if err := n.clickWhenReady(ctx, d, n.sel.DemoDownload, ErrDemoUnavailable); err != nil {
		return err
	}
	n.log.Debug("✓ Demo download clicked")
	return nil
}

// clickWhenReady waits for selector and clicks it. An element timeout is
// reported as missing.
func (n *Navigator) clickWhenReady(ctx context.Context, d browser.Driver, selector string, missing error) error {
	el, err := d.WaitClickable(ctx, selector, n.elementTimeout)
	if err != nil {
		if errors.Is(err, browser.ErrElementTimeout) {
			return fmt.Errorf("%w: %v", missing, err)
		}
		return err
	}
	if err := d.Click(ctx, el); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}
