package astack

import (
	"context"
	"time"
)

// A FrameRecord pairs a decoded buffer with its position in the
// user's selection. The index only matters for progress reporting -
// all four reduction policies are order independent.
type FrameRecord struct {
	Index  int
	Path   string
	Buffer *FrameBuffer
}

// A FrameQueue hands FrameRecords from the decode goroutine to the
// aggregation goroutine. It is a bounded channel rather than a shared
// list and a lock: the bound gives backpressure if decoding outruns
// aggregation, and ownership of each buffer transfers with the send.
type FrameQueue struct {
	ch chan FrameRecord
}

func NewFrameQueue(depth int) *FrameQueue {
	if depth <= 0 {
		depth = DefaultQueueDepth
	}
	return &FrameQueue{ch: make(chan FrameRecord, depth)}
}

// Push blocks while the queue is full. Cancelling ctx aborts the
// send, which is how a dying consumer unblocks the producer.
func (q *FrameQueue)Push(ctx context.Context, rec FrameRecord) error {
	select {
	case q.ch <- rec:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close marks the producer side done. No pushes after this.
func (q *FrameQueue)Close() { close(q.ch) }

// Poll waits up to `wait` for a record. The bounded wait is what lets
// the consumer take a telemetry sample between frames instead of
// parking forever on an empty queue.
//
// ok is false on timeout; open is false once the queue is closed and
// drained.
func (q *FrameQueue)Poll(wait time.Duration) (rec FrameRecord, ok bool, open bool) {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case rec, open = <-q.ch:
		return rec, open, open
	case <-timer.C:
		return FrameRecord{}, false, true
	}
}

// Depth is how many decoded frames are waiting right now.
func (q *FrameQueue)Depth() int { return len(q.ch) }
