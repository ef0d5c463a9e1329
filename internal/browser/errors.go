package browser

import (
	"context"
	"errors"
	"strings"
)

// closedPatterns are chromedp/websocket error fragments seen when the
// browser process or its connection is gone.
var closedPatterns = []string{
	"websocket: close",
	"target closed",
	"browser: not connected",
	"session closed",
	"page closed",
	"connection refused",
	"broken pipe",
	"invalid context",
}

// IsBrowserClosed reports whether err means the browser is no longer usable.
// Element timeouts are never treated as a closed browser. Any other deadline
// is the browser session timeout expiring, after which every tab fails.
func IsBrowserClosed(err error) bool {
	if err == nil || errors.Is(err, ErrElementTimeout) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range closedPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
