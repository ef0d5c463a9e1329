package navigation

import (
	"context"

	"github.com/cantalupo555/hltv-demo-downloader/internal/browser"
)

// DismissConsent declines the cookie banner if it shows up. It never fails:
// a missing banner or a failed click is only logged. Once the banner has been
// declined the browser remembers it, so later pages are only checked instead of
// waited on.
func (n *Navigator) DismissConsent(ctx context.Context, d browser.Driver) bool {
	if n.sel.CookieDecline == "" {
		return false
	}

	var el browser.Element
	if n.consentSeen {
		els, err := d.FindAll(ctx, n.sel.CookieDecline)
		if err != nil || len(els) == 0 {
			return false
		}
		el = els[0]
	} else {
		var err error
		el, err = d.WaitClickable(ctx, n.sel.CookieDecline, n.consentTimeout)
		if err != nil {
			n.log.Info("Cookie banner not found")
			return false
		}
	}

	if err := d.Click(ctx, el); err != nil {
		n.log.Warnf("⚠️ Could not decline cookies: %v", err)
		return false
	}
	n.consentSeen = true
	n.log.Debug("✓ Cookie banner declined")
	return true
}
