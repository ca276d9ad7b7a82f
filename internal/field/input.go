package field

// InputTracker folds pointer and touch events into one Pointer state.
// Moves are coalesced to a single update per scheduled frame; leaving
// takes effect immediately.
type InputTracker struct {
	schedule func(cb func(ts float64))
	origin   func() (x, y float64)
	bounds   func() (w, h float64)

	pendingX, pendingY float64
	dirty              bool
	scheduled          bool

	state Pointer
}

// NewInputTracker wires a tracker to the host's frame scheduler, the
// surface origin and the current viewport.
func NewInputTracker(schedule func(func(float64)), origin, bounds func() (float64, float64)) *InputTracker {
	return &InputTracker{schedule: schedule, origin: origin, bounds: bounds}
}

// Move records a host-global coordinate. The last move before the next
// frame wins.
func (t *InputTracker) Move(x, y float64) {
	ox, oy := t.origin()
	t.pendingX = x - ox
	t.pendingY = y - oy
	t.dirty = true
	if t.scheduled {
		return
	}
	t.scheduled = true
	t.schedule(t.apply)
}

// Leave deactivates the pointer and drops any move still waiting.
func (t *InputTracker) Leave() {
	t.dirty = false
	t.state.Active = false
}

// State returns the current snapshot.
func (t *InputTracker) State() Pointer { return t.state }

func (t *InputTracker) apply(float64) {
	t.scheduled = false
	if !t.dirty {
		return
	}
	t.dirty = false
	w, h := t.bounds()
	x, y := t.pendingX, t.pendingY
	t.state = Pointer{
		X:      x,
		Y:      y,
		Active: x >= 0 && x <= w && y >= 0 && y <= h,
	}
}
