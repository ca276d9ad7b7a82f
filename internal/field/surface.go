// Package field simulates and draws the animated knowledge-graph particle
// field. Everything here runs on the host's single event goroutine: the
// controller, its particles and the input tracker are never touched
// concurrently, so nothing in the package locks.
package field

import (
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// Surface is the immediate-mode drawing target. Coordinates are in
// device-independent pixels; the backing buffer is scale times larger.
type Surface interface {
	Resize(backingW, backingH int, scale float64)
	Clear(w, h float64)
	FillCircle(x, y, r float64, c colorful.Color, alpha float64)
	StrokeLine(x1, y1, x2, y2, width float64, c colorful.Color, alpha float64)
}

// Capable is implemented by surfaces that may be unusable at construction.
type Capable interface {
	Ready() bool
}

// Listener receives host input and lifecycle events. Coordinates are
// host-global; the controller translates them by Host.Origin.
type Listener interface {
	PointerMove(x, y float64)
	PointerLeave()
	TouchMove(x, y float64)
	TouchEnd()
	Resize()
	VisibilityChange(hidden bool)
}

// Host is the environment a controller is embedded in.
type Host interface {
	// RequestFrame asks for one invocation of cb at the next refresh.
	// ts is a monotonic timestamp in milliseconds.
	RequestFrame(cb func(ts float64))
	// AfterFunc runs fn once after d on the host's event goroutine.
	AfterFunc(d time.Duration, fn func()) (cancel func())
	Viewport() (w, h float64)
	DevicePixelRatio() float64
	// Origin is the surface's on-screen top-left corner.
	Origin() (x, y float64)
	Listen(l Listener) (remove func())
}
