// Package browsertest provides an in-memory browser.Driver for tests.
package browsertest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"

	"github.com/cantalupo555/hltv-demo-downloader/internal/browser"
)

// Page is one fake document: its HTML snapshot plus the elements each
// selector resolves to.
type Page struct {
	HTML     string
	Elements map[string][]browser.Element
}

// Node builds an element with the given tag and attribute pairs.
func Node(tag string, attrs ...string) browser.Element {
	return &cdp.Node{NodeName: tag, Attributes: attrs}
}

// Link builds an anchor element pointing at href.
func Link(href string) browser.Element {
	return Node("A", "href", href)
}

// Driver is a fake browser.Driver serving Pages by URL.
type Driver struct {
	mu      sync.Mutex
	pages   map[string]*Page
	current string

	Visited []string
	Clicked []browser.Element
	Waited  []string

	// OnClick runs after every click with the current URL.
	OnClick func(url string, el browser.Element) error
	// NavigateErr, if set, fails every navigation.
	NavigateErr error
	closed      bool
}

// NewDriver returns a fake serving pages.
func NewDriver(pages map[string]*Page) *Driver {
	return &Driver{pages: pages}
}

// Navigate switches the current page.
func (d *Driver) Navigate(_ context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.NavigateErr != nil {
		return d.NavigateErr
	}
	if _, ok := d.pages[url]; !ok {
		return fmt.Errorf("navigate to %s: no such page", url)
	}
	d.current = url
	d.Visited = append(d.Visited, url)
	return nil
}

// WaitClickable returns the first element for selector or an element timeout.
func (d *Driver) WaitClickable(_ context.Context, selector string, _ time.Duration) (browser.Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Waited = append(d.Waited, selector)
	els := d.elements(selector)
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: %s", browser.ErrElementTimeout, selector)
	}
	return els[0], nil
}

// Click records el and runs OnClick.
func (d *Driver) Click(_ context.Context, el browser.Element) error {
	d.mu.Lock()
	d.Clicked = append(d.Clicked, el)
	url, hook := d.current, d.OnClick
	d.mu.Unlock()

	if hook != nil {
		return hook(url, el)
	}
	return nil
}

// FindAll returns every element for selector on the current page.
func (d *Driver) FindAll(_ context.Context, selector string) ([]browser.Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.elements(selector), nil
}

// Attribute reads an attribute of el.
func (d *Driver) Attribute(el browser.Element, name string) (string, bool) {
	if el == nil {
		return "", false
	}
	return el.Attribute(name)
}

// HTML returns the current page snapshot.
func (d *Driver) HTML(context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	page, ok := d.pages[d.current]
	if !ok {
		return "", fmt.Errorf("no page loaded")
	}
	return page.HTML, nil
}

// Close marks the fake as closed.
func (d *Driver) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

// Closed reports whether Close was called.
func (d *Driver) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *Driver) elements(selector string) []browser.Element {
	page, ok := d.pages[d.current]
	if !ok || page.Elements == nil {
		return nil
	}
	return page.Elements[selector]
}
