package listing

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cantalupo555/hltv-demo-downloader/internal/browser"
)

// ConsentDismisser declines a cookie banner if one is shown.
type ConsentDismisser interface {
	DismissConsent(ctx context.Context, d browser.Driver) bool
}

// Discoverer walks a paginated listing in a browser tab.
type Discoverer struct {
	driver  browser.Driver
	consent ConsentDismisser
	sel     Selectors
	marker  string
	log     *logrus.Entry
}

// NewDiscoverer returns a Discoverer reading pages through driver.
func NewDiscoverer(driver browser.Driver, consent ConsentDismisser, sel Selectors, marker string, log *logrus.Entry) *Discoverer {
	if marker == "" {
		marker = StatsMarker
	}
	return &Discoverer{
		driver:  driver,
		consent: consent,
		sel:     sel,
		marker:  marker,
		log:     log,
	}
}

// Discover returns every match link reachable from listingURL, in listing
// order, without query strings, each link once (first occurrence wins). It
// follows the next-page control until it is missing or has no address.
func (d *Discoverer) Discover(ctx context.Context, listingURL string) ([]string, error) {
	if !IsListingURL(listingURL, d.marker) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidListingURL, listingURL)
	}

	d.log.Info("Fetching match pages...")
	if err := d.driver.Navigate(ctx, listingURL); err != nil {
		return nil, err
	}
	if d.consent != nil {
		d.consent.DismissConsent(ctx, d.driver)
	}

	var links []string
	seen := make(map[string]struct{})
	visited := map[string]struct{}{listingURL: {}}
	pageURL := listingURL

	for pageNum := 1; ; pageNum++ {
		base, err := url.Parse(pageURL)
		if err != nil {
			return nil, fmt.Errorf("parse page url %s: %w", pageURL, err)
		}

		page, err := d.readPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNum, err)
		}
		if page.Surplus() > 1 {
			d.log.Warnf("⚠️ Page %d has %d unpaired rows (expected at most 1)", pageNum, page.Surplus())
		}

		added := 0
		for _, href := range page.Links() {
			if href == "" {
				d.log.Debugf("Page %d: row without link skipped", pageNum)
				continue
			}
			link, err := MatchLink(href, base)
			if err != nil {
				d.log.Warnf("⚠️ Page %d: %v", pageNum, err)
				continue
			}
			if _, dup := seen[link]; dup {
				d.log.Debugf("Page %d: duplicate %s skipped", pageNum, link)
				continue
			}
			seen[link] = struct{}{}
			links = append(links, link)
			added++
		}
		d.log.WithFields(logrus.Fields{"page": pageNum, "links": added}).Debug("Listing page read")

		if page.Next == "" {
			break
		}
		next, err := resolve(page.Next, base)
		if err != nil {
			d.log.Warnf("⚠️ Unusable next page link: %v", err)
			break
		}
		nextURL := next.String()
		if _, loop := visited[nextURL]; loop {
			d.log.Warnf("⚠️ Next page %s was already visited, stopping", nextURL)
			break
		}
		visited[nextURL] = struct{}{}

		if err := d.driver.Navigate(ctx, nextURL); err != nil {
			return nil, err
		}
		pageURL = nextURL
	}

	return links, nil
}

// readPage parses the rows from the rendered document and reads the next
// page address from the live pagination control.
func (d *Discoverer) readPage(ctx context.Context) (Page, error) {
	html, err := d.driver.HTML(ctx)
	if err != nil {
		return Page{}, err
	}
	page, err := ParsePage(html, d.sel)
	if err != nil {
		return Page{}, err
	}

	controls, err := d.driver.FindAll(ctx, d.sel.NextPage)
	if err != nil {
		return Page{}, err
	}
	if len(controls) > 0 {
		href, _ := d.driver.Attribute(controls[0], "href")
		page.Next = strings.TrimSpace(href)
	}
	return page, nil
}
