package astack

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuePushPoll(t *testing.T) {
	q := NewFrameQueue(4)
	want := FrameRecord{Index: 3, Path: "x.tif", Buffer: uniformBuffer(2, 2, 9)}

	require.NoError(t, q.Push(context.Background(), want))
	assert.Equal(t, 1, q.Depth())

	got, ok, open := q.Poll(time.Second)
	assert.True(t, ok)
	assert.True(t, open)
	assert.Equal(t, want, got)
	assert.Equal(t, 0, q.Depth())
}

func TestQueuePollTimesOut(t *testing.T) {
	q := NewFrameQueue(4)

	_, ok, open := q.Poll(10 * time.Millisecond)
	assert.False(t, ok, "nothing queued, so the poll should time out")
	assert.True(t, open, "a timeout is not a closed queue")
}

func TestQueueCloseDrains(t *testing.T) {
	q := NewFrameQueue(4)
	require.NoError(t, q.Push(context.Background(), FrameRecord{Index: 0}))
	q.Close()

	// The record queued before Close still comes out.
	_, ok, open := q.Poll(time.Second)
	assert.True(t, ok)
	assert.True(t, open)

	// Then the queue reports closed.
	_, ok, open = q.Poll(time.Second)
	assert.False(t, ok)
	assert.False(t, open)
}

func TestQueuePushUnblocksOnCancel(t *testing.T) {
	q := NewFrameQueue(1)
	require.NoError(t, q.Push(context.Background(), FrameRecord{Index: 0}))

	// Queue is full; a push would block forever without the context.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := q.Push(ctx, FrameRecord{Index: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQueueDepthDefaults(t *testing.T) {
	q := NewFrameQueue(0)
	for i := 0; i < DefaultQueueDepth; i++ {
		require.NoError(t, q.Push(context.Background(), FrameRecord{Index: i}))
	}
	assert.Equal(t, DefaultQueueDepth, q.Depth())
}
