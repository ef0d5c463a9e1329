package listing

import (
	"fmt"
	"net/url"
	"strings"
)

// resolve parses href and resolves it against base.
func resolve(href string, base *url.URL) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil, fmt.Errorf("parse link %q: %w", href, err)
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("link %q is not absolute", href)
	}
	return u, nil
}

// MatchLink resolves href against base and strips its query string and
// fragment, which carry only tracking and session state.
func MatchLink(href string, base *url.URL) (string, error) {
	u, err := resolve(href, base)
	if err != nil {
		return "", err
	}
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), nil
}
