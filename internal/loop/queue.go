// Package loop holds the host-side scheduling primitives shared by every
// backend: a display-refresh frame queue and a timer list, both drained from
// the host's own goroutine so callbacks never run concurrently.
package loop

// FrameQueue collects single-shot frame callbacks. Callbacks requested while
// a flush is in progress are deferred to the following flush.
type FrameQueue struct {
	pending []func(ts float64)
	spare   []func(ts float64)
}

// Request schedules cb for the next Flush.
func (q *FrameQueue) Request(cb func(ts float64)) {
	q.pending = append(q.pending, cb)
}

// Len reports how many callbacks are waiting.
func (q *FrameQueue) Len() int { return len(q.pending) }

// Flush runs every callback that was queued before the call, in request order.
func (q *FrameQueue) Flush(ts float64) int {
	if len(q.pending) == 0 {
		return 0
	}
	run := q.pending
	q.pending = q.spare[:0]
	for i, cb := range run {
		cb(ts)
		run[i] = nil
	}
	q.spare = run[:0]
	return len(run)
}
