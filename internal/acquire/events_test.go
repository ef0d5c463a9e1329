package acquire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuePollEmpty(t *testing.T) {
	q := NewQueue(4)
	_, ok := q.Poll()
	assert.False(t, ok)
	assert.False(t, q.Drained())
}

func TestQueueFIFO(t *testing.T) {
	q := NewQueue(4)
	require.True(t, q.Publish(Event{Index: 1, Status: StatusDownloading}))
	require.True(t, q.Publish(Event{Index: 1, Status: StatusCompleted}))

	e, ok := q.Poll()
	require.True(t, ok)
	assert.Equal(t, StatusDownloading, e.Status)
	e, ok = q.Poll()
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, e.Status)
}

func TestQueueDropsWhenFull(t *testing.T) {
	q := NewQueue(1)
	assert.True(t, q.Publish(Event{Index: 1}))
	assert.False(t, q.Publish(Event{Index: 2}))
	assert.Equal(t, int64(1), q.Dropped())

	e, ok := q.Poll()
	require.True(t, ok)
	assert.Equal(t, 1, e.Index)
}

func TestQueueClose(t *testing.T) {
	q := NewQueue(2)
	q.Publish(Event{Index: 1})
	q.Close()
	q.Close()

	assert.False(t, q.Publish(Event{Index: 2}))
	assert.False(t, q.Drained())

	e, ok := q.Poll()
	require.True(t, ok)
	assert.Equal(t, 1, e.Index)
	assert.True(t, q.Drained())

	_, ok = q.Poll()
	assert.False(t, ok)
}

func TestStatusIsFinished(t *testing.T) {
	assert.False(t, StatusPending.IsFinished())
	assert.False(t, StatusDownloading.IsFinished())
	assert.True(t, StatusCompleted.IsFinished())
	assert.True(t, StatusFailed.IsFinished())
	assert.True(t, StatusSkipped.IsFinished())
}
