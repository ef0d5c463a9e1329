package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

// ErrElementTimeout means the element did not become clickable in time.
var ErrElementTimeout = errors.New("element not clickable before timeout")

// Element is a handle to a DOM node of the current page.
type Element = *cdp.Node

// Driver is the page-level automation contract the rest of the program uses.
// Selectors starting with "/" or "(" are XPath; anything else is CSS.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	WaitClickable(ctx context.Context, selector string, timeout time.Duration) (Element, error)
	Click(ctx context.Context, el Element) error
	FindAll(ctx context.Context, selector string) ([]Element, error)
	Attribute(el Element, name string) (string, bool)
	HTML(ctx context.Context) (string, error)
}

// Tab is a Driver bound to one browser tab.
type Tab interface {
	Driver
	Close()
}

// findAllTimeout bounds FindAll while the document is still loading.
const findAllTimeout = 10 * time.Second

// Session drives a single chromedp tab.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// Close closes the tab.
func (s *Session) Close() {
	s.cancel()
}

// run executes actions on the tab, bounded by timeout (if positive) and by ctx.
func (s *Session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.ctx)
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(s.ctx, timeout)
	}
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

// Navigate loads url and waits for the body to be ready.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.run(ctx, 0,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

// WaitClickable waits until selector matches a visible, enabled element.
func (s *Session) WaitClickable(ctx context.Context, selector string, timeout time.Duration) (Element, error) {
	var nodes []*cdp.Node
	err := s.run(ctx, timeout,
		chromedp.Nodes(selector, &nodes, queryBy(selector, false), chromedp.NodeVisible, chromedp.NodeEnabled),
	)
	if err != nil {
		if localTimeout(err, ctx, s.ctx) {
			return nil, fmt.Errorf("%w: %s", ErrElementTimeout, selector)
		}
		return nil, fmt.Errorf("wait for %s: %w", selector, err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrElementTimeout, selector)
	}
	return nodes[0], nil
}

// Click clicks the centre of el, scrolling it into view first.
func (s *Session) Click(ctx context.Context, el Element) error {
	if err := s.run(ctx, 0, chromedp.MouseClickNode(el)); err != nil {
		return fmt.Errorf("click %s: %w", el.NodeName, err)
	}
	return nil
}

// FindAll returns every element matching selector without waiting for one to
// appear. An empty result is not an error.
func (s *Session) FindAll(ctx context.Context, selector string) ([]Element, error) {
	var nodes []*cdp.Node
	if err := s.run(ctx, findAllTimeout,
		chromedp.Nodes(selector, &nodes, queryBy(selector, true), chromedp.AtLeast(0)),
	); err != nil {
		if localTimeout(err, ctx, s.ctx) {
			return nil, fmt.Errorf("%w: find %s", ErrElementTimeout, selector)
		}
		return nil, fmt.Errorf("find %s: %w", selector, err)
	}
	return nodes, nil
}

// Attribute returns the raw attribute value of el.
func (s *Session) Attribute(el Element, name string) (string, bool) {
	if el == nil {
		return "", false
	}
	return el.Attribute(name)
}

// HTML returns the rendered document.
func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, 0, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read page html: %w", err)
	}
	return html, nil
}

// localTimeout reports whether err is the expiry of a per-call timeout. A
// deadline on the caller's context or on the tab itself (the browser session
// timeout) is not local.
func localTimeout(err error, ctx, session context.Context) bool {
	return errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil && session.Err() == nil
}

// queryBy picks the chromedp query option for selector. CSS queries match
// only the first element unless all is set.
func queryBy(selector string, all bool) chromedp.QueryOption {
	switch {
	case strings.HasPrefix(selector, "/"), strings.HasPrefix(selector, "("):
		return chromedp.BySearch
	case all:
		return chromedp.ByQueryAll
	default:
		return chromedp.ByQuery
	}
}
