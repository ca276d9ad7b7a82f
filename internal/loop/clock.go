package loop

// tickStretch lengthens every tick by one part in 100k so float rounding
// never puts two consecutive stamps closer than one period.
const tickStretch = 1 + 1e-5

// TickClock stamps frames from a count of host ticks instead of the wall
// clock. A host whose tick rate equals the field's target rate then runs
// every frame, however much its wall-clock deliveries jitter.
type TickClock struct {
	ticks uint64
}

// Tick counts one host tick.
func (c *TickClock) Tick() { c.ticks++ }

// Ticks is the number of ticks counted so far.
func (c *TickClock) Ticks() uint64 { return c.ticks }

// Stamp is the time of the latest tick in milliseconds for a host running
// rate ticks per second. A rate of zero or less counts as 60.
func (c *TickClock) Stamp(rate int) float64 {
	if rate <= 0 {
		rate = 60
	}
	return float64(c.ticks) * (1000 / float64(rate) * tickStretch)
}
