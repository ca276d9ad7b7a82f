package field

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/knowledge-field/internal/config"
	"github.com/iburimskiy/knowledge-field/internal/loop"
)

type line struct {
	x1, y1, x2, y2 float64
	c              colorful.Color
	alpha          float64
}

type circle struct {
	x, y, r float64
	c       colorful.Color
	alpha   float64
}

// recordSurface remembers every call in order.
type recordSurface struct {
	calls    []string
	lines    []line
	circles  []circle
	backW    int
	backH    int
	scale    float64
	notReady bool
}

func (s *recordSurface) Ready() bool { return !s.notReady }

func (s *recordSurface) Resize(w, h int, scale float64) {
	s.calls = append(s.calls, "resize")
	s.backW, s.backH, s.scale = w, h, scale
}

func (s *recordSurface) Clear(w, h float64) {
	s.calls = append(s.calls, "clear")
	s.lines = s.lines[:0]
	s.circles = s.circles[:0]
}

func (s *recordSurface) FillCircle(x, y, r float64, c colorful.Color, a float64) {
	s.calls = append(s.calls, "circle")
	s.circles = append(s.circles, circle{x, y, r, c, a})
}

func (s *recordSurface) StrokeLine(x1, y1, x2, y2, w float64, c colorful.Color, a float64) {
	s.calls = append(s.calls, "line")
	s.lines = append(s.lines, line{x1, y1, x2, y2, c, a})
}

// fakeHost drives frames and timers by hand.
type fakeHost struct {
	frames    loop.FrameQueue
	timers    loop.Timers
	requests  int
	w, h      float64
	dpr       float64
	ox, oy    float64
	listeners []Listener
	listens   int
	now       float64
}

func newFakeHost(w, h float64) *fakeHost {
	return &fakeHost{w: w, h: h, dpr: 1}
}

func (h *fakeHost) RequestFrame(cb func(ts float64)) {
	h.requests++
	h.frames.Request(cb)
}

func (h *fakeHost) AfterFunc(d time.Duration, fn func()) func() {
	return h.timers.AfterFunc(d, fn)
}

func (h *fakeHost) Viewport() (float64, float64) { return h.w, h.h }
func (h *fakeHost) DevicePixelRatio() float64    { return h.dpr }
func (h *fakeHost) Origin() (float64, float64)   { return h.ox, h.oy }

func (h *fakeHost) Listen(l Listener) func() {
	h.listens++
	h.listeners = append(h.listeners, l)
	return func() {
		for i, x := range h.listeners {
			if x == l {
				h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
				return
			}
		}
	}
}

// step advances the clock by dt milliseconds and flushes one frame.
func (h *fakeHost) step(dt float64) int {
	h.now += dt
	h.timers.Advance(time.Duration(h.now * float64(time.Millisecond)))
	return h.frames.Flush(h.now)
}

func (h *fakeHost) resize(w, hh float64) {
	h.w, h.h = w, hh
	for _, l := range h.listeners {
		l.Resize()
	}
}

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func testOptions() Options {
	return Options{
		Config: config.Default(),
		Rand:   testRand(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// withReducedMotion swaps the cached query for the duration of a test.
func withReducedMotion(t *testing.T, v bool) {
	t.Helper()
	prev := reducedMotion
	reducedMotion = func() bool { return v }
	t.Cleanup(func() { reducedMotion = prev })
}
