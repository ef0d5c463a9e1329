package browser

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsBrowserClosed(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"context canceled", fmt.Errorf("navigate: %w", context.Canceled), true},
		{"websocket closed", errors.New("websocket: close 1006 (abnormal closure)"), true},
		{"target closed", errors.New("Target closed"), true},
		{"session deadline", fmt.Errorf("open tab: %w", context.DeadlineExceeded), true},
		{"element timeout", fmt.Errorf("%w: #cookie", ErrElementTimeout), false},
		{"element timeout from deadline", fmt.Errorf("%w: find .next: %w", ErrElementTimeout, context.DeadlineExceeded), false},
		{"plain error", errors.New("node not found"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBrowserClosed(tt.err))
		})
	}
}

func TestLocalTimeout(t *testing.T) {
	alive := context.Background()
	expired, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	err := fmt.Errorf("run: %w", context.DeadlineExceeded)

	assert.True(t, localTimeout(err, alive, alive), "per-call timeout")
	assert.False(t, localTimeout(err, alive, expired), "session deadline passed")
	assert.False(t, localTimeout(err, expired, alive), "caller deadline passed")
	assert.False(t, localTimeout(errors.New("node detached"), alive, alive))
}

func TestCandidatesPreferChrome(t *testing.T) {
	linux := candidates("linux")
	assert.Equal(t, "/usr/bin/google-chrome", linux[0])

	darwin := candidates("darwin")
	assert.Contains(t, darwin[0], "Google Chrome")
}
