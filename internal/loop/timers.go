package loop

import (
	"sort"
	"time"
)

type timer struct {
	id   uint64
	due  time.Duration
	fn   func()
	dead bool
}

// Timers is a fixed-delay callback list keyed to a host-supplied clock.
// Nothing fires until Advance is called.
type Timers struct {
	now    time.Duration
	nextID uint64
	list   []*timer
}

// AfterFunc schedules fn to run once d has elapsed on the Timers clock.
// The returned cancel func is safe to call more than once.
func (t *Timers) AfterFunc(d time.Duration, fn func()) (cancel func()) {
	t.nextID++
	tm := &timer{id: t.nextID, due: t.now + d, fn: fn}
	t.list = append(t.list, tm)
	return func() { tm.dead = true }
}

// Now returns the clock value of the last Advance.
func (t *Timers) Now() time.Duration { return t.now }

// Pending reports the number of live timers.
func (t *Timers) Pending() int {
	n := 0
	for _, tm := range t.list {
		if !tm.dead {
			n++
		}
	}
	return n
}

// Advance moves the clock to now and fires every due timer, earliest first.
// Timers scheduled by a firing callback are not considered until the next call.
func (t *Timers) Advance(now time.Duration) int {
	if now > t.now {
		t.now = now
	}
	var due, keep []*timer
	for _, tm := range t.list {
		switch {
		case tm.dead:
		case tm.due <= t.now:
			due = append(due, tm)
		default:
			keep = append(keep, tm)
		}
	}
	t.list = keep
	sort.Slice(due, func(i, j int) bool {
		if due[i].due == due[j].due {
			return due[i].id < due[j].id
		}
		return due[i].due < due[j].due
	})
	fired := 0
	for _, tm := range due {
		if tm.dead {
			continue
		}
		tm.dead = true
		tm.fn()
		fired++
	}
	return fired
}
