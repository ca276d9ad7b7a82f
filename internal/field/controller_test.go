package field

import (
	"testing"

	"github.com/iburimskiy/knowledge-field/internal/config"
)

func newTestController(t *testing.T, w, h float64) (*Controller, *recordSurface, *fakeHost) {
	t.Helper()
	withReducedMotion(t, false)
	s := &recordSurface{}
	host := newFakeHost(w, h)
	c := New(s, host, testOptions())
	return c, s, host
}

func TestControllerConstruct(t *testing.T) {
	tests := []struct {
		name   string
		width  float64
		count  int
		device config.DeviceClass
	}{
		{"Desktop", 1024, 280, config.Desktop},
		{"Mobile", 700, 120, config.Mobile},
		{"Breakpoint is desktop", 768, 280, config.Desktop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, host := newTestController(t, tt.width, 600)
			if c.State() != Running {
				t.Errorf("Expected running, got %v", c.State())
			}
			if got := c.Count(); got != tt.count || len(c.Particles()) != got {
				t.Errorf("Expected %d particles, got %d", tt.count, got)
			}
			if c.Device() != tt.device {
				t.Errorf("Expected %v, got %v", tt.device, c.Device())
			}
			if host.requests != 1 || host.listens != 1 {
				t.Errorf("Expected one frame request and one listener, got %d/%d", host.requests, host.listens)
			}
		})
	}
}

func TestControllerBackingResolution(t *testing.T) {
	tests := []struct {
		name      string
		dpr       float64
		wantScale float64
		wantW     int
		wantH     int
	}{
		{"Standard", 1, 1, 1000, 600},
		{"Retina", 2, 2, 2000, 1200},
		{"Capped", 3, 2, 2000, 1200},
		{"Unknown ratio", 0, 1, 1000, 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withReducedMotion(t, false)
			s := &recordSurface{}
			host := newFakeHost(1000, 600)
			host.dpr = tt.dpr
			c := New(s, host, testOptions())

			w, h, scale := c.Backing()
			if w != tt.wantW || h != tt.wantH || scale != tt.wantScale {
				t.Errorf("Expected %dx%d@%v, got %dx%d@%v", tt.wantW, tt.wantH, tt.wantScale, w, h, scale)
			}
			if s.backW != tt.wantW || s.backH != tt.wantH || s.scale != tt.wantScale {
				t.Errorf("Surface not resized to backing: %dx%d@%v", s.backW, s.backH, s.scale)
			}
		})
	}
}

func TestControllerReducedMotion(t *testing.T) {
	withReducedMotion(t, true)
	s := &recordSurface{}
	host := newFakeHost(1024, 768)
	c := New(s, host, testOptions())

	if len(s.calls) != 0 {
		t.Errorf("Expected no surface calls, got %v", s.calls)
	}
	if host.requests != 0 || host.listens != 0 {
		t.Errorf("Expected no scheduling or listeners, got %d/%d", host.requests, host.listens)
	}
	if c.State() != Uninitialized || len(c.Particles()) != 0 {
		t.Errorf("Expected inert controller, got %v with %d particles", c.State(), len(c.Particles()))
	}
	c.Destroy()
	if c.State() != Destroyed {
		t.Errorf("Expected destroy to still be accepted")
	}
}

func TestControllerUnavailableSurface(t *testing.T) {
	withReducedMotion(t, false)

	t.Run("Nil surface", func(t *testing.T) {
		host := newFakeHost(1024, 768)
		c := New(nil, host, testOptions())
		if host.requests != 0 || host.listens != 0 || c.State() != Uninitialized {
			t.Errorf("Expected silent no-op, got state %v", c.State())
		}
		c.PointerMove(1, 1)
		c.Resize()
		c.VisibilityChange(false)
	})

	t.Run("Surface not ready", func(t *testing.T) {
		s := &recordSurface{notReady: true}
		host := newFakeHost(1024, 768)
		New(s, host, testOptions())
		if len(s.calls) != 0 || host.requests != 0 {
			t.Errorf("Expected no calls, got %v / %d requests", s.calls, host.requests)
		}
	})
}

func TestControllerFrameOrder(t *testing.T) {
	c, s, host := newTestController(t, 1024, 768)
	host.step(100)

	if c.Frames() != 1 {
		t.Fatalf("Expected one executed frame, got %d", c.Frames())
	}
	calls := s.calls
	// Skip the construction-time resize.
	for len(calls) > 0 && calls[0] == "resize" {
		calls = calls[1:]
	}
	if len(calls) == 0 || calls[0] != "clear" {
		t.Fatalf("Expected frame to begin with clear, got %v", calls)
	}
	seenCircle := false
	lines := 0
	for _, call := range calls[1:] {
		switch call {
		case "circle":
			seenCircle = true
		case "line":
			lines++
			if seenCircle {
				t.Fatalf("Connection drawn after a particle")
			}
		}
	}
	if lines != c.Links() {
		t.Errorf("Expected %d lines, recorded %d", c.Links(), lines)
	}
	if len(s.circles) < len(c.Particles()) {
		t.Errorf("Expected every particle drawn, got %d discs", len(s.circles))
	}
}

func TestControllerThrottle(t *testing.T) {
	c, _, host := newTestController(t, 1024, 768)

	steps := []struct {
		dt     float64
		frames uint64
	}{
		{10, 0}, // ts=10 < 16.7
		{10, 1}, // ts=20
		{5, 1},  // 5ms since last
		{10, 1}, // 15ms since last
		{5, 2},  // 20ms since last
	}
	for i, st := range steps {
		host.step(st.dt)
		if c.Frames() != st.frames {
			t.Fatalf("step %d: expected %d frames, got %d", i, st.frames, c.Frames())
		}
		if host.frames.Len() != 1 {
			t.Fatalf("step %d: expected exactly one outstanding tick, got %d", i, host.frames.Len())
		}
	}
}

func TestControllerPauseResume(t *testing.T) {
	c, _, host := newTestController(t, 1024, 768)
	host.step(20)
	if c.Frames() != 1 {
		t.Fatalf("Expected first frame to run")
	}

	c.VisibilityChange(true)
	if c.State() != Paused {
		t.Fatalf("Expected paused, got %v", c.State())
	}
	// The residual tick fires once and ends the chain.
	host.step(20)
	host.step(20)
	if c.Frames() != 1 {
		t.Errorf("Expected no frames while paused, got %d", c.Frames())
	}
	if host.frames.Len() != 0 {
		t.Errorf("Expected chain to stop, %d ticks pending", host.frames.Len())
	}

	c.VisibilityChange(false)
	if c.State() != Running || host.frames.Len() != 1 {
		t.Fatalf("Expected running with one tick queued, got %v/%d", c.State(), host.frames.Len())
	}
	host.step(20)
	if c.Frames() != 2 {
		t.Errorf("Expected frames to resume, got %d", c.Frames())
	}
}

func TestControllerQuickHideShowKeepsSingleTick(t *testing.T) {
	c, _, host := newTestController(t, 1024, 768)
	c.VisibilityChange(true)
	c.VisibilityChange(false)
	c.VisibilityChange(false)
	if host.frames.Len() != 1 {
		t.Fatalf("Expected one outstanding tick, got %d", host.frames.Len())
	}
	host.step(20)
	if c.Frames() != 1 || host.frames.Len() != 1 {
		t.Errorf("Expected the surviving tick to run and reschedule, frames=%d pending=%d", c.Frames(), host.frames.Len())
	}
}

func TestControllerDestroy(t *testing.T) {
	c, _, host := newTestController(t, 1024, 768)
	host.step(20)
	c.Destroy()
	c.Destroy()

	if c.State() != Destroyed {
		t.Fatalf("Expected destroyed, got %v", c.State())
	}
	if len(host.listeners) != 0 {
		t.Errorf("Expected listeners removed, %d left", len(host.listeners))
	}
	for i := 0; i < 5; i++ {
		host.step(20)
	}
	if c.Frames() != 1 {
		t.Errorf("Expected no frames after destroy, got %d", c.Frames())
	}
	c.VisibilityChange(false)
	if c.State() != Destroyed || host.frames.Len() != 0 {
		t.Errorf("Destroyed controller must not restart")
	}
}

func TestControllerResizeAcrossBreakpoint(t *testing.T) {
	c, _, host := newTestController(t, 900, 700)
	before := c.Particles()
	if len(before) != 280 {
		t.Fatalf("Expected 280 particles, got %d", len(before))
	}

	host.resize(700, 700)
	host.step(100)
	if len(c.Particles()) != 280 {
		t.Fatalf("Reseed must wait for the debounce")
	}
	host.step(150)

	after := c.Particles()
	if len(after) != 120 || c.Device() != config.Mobile {
		t.Fatalf("Expected 120 mobile particles, got %d (%v)", len(after), c.Device())
	}
	old := make(map[*Particle]bool, len(before))
	for _, p := range before {
		old[p] = true
	}
	for _, p := range after {
		if old[p] {
			t.Fatalf("Original particle survived reseed")
		}
	}
}

func TestControllerResizeWithinClass(t *testing.T) {
	c, s, host := newTestController(t, 1024, 768)
	before := c.Particles()

	for i := 0; i < 5; i++ {
		host.resize(1000-float64(i)*10, 700)
		host.step(50)
	}
	host.step(250)

	resizes := 0
	for _, call := range s.calls {
		if call == "resize" {
			resizes++
		}
	}
	if resizes != 2 {
		t.Errorf("Expected construction plus one debounced resize, got %d", resizes)
	}
	if w, _ := c.Viewport(); w != 960 {
		t.Errorf("Expected final width 960, got %v", w)
	}
	after := c.Particles()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("Particle set replaced without a class change")
		}
	}
}

func TestControllerPointer(t *testing.T) {
	c, _, host := newTestController(t, 1024, 768)
	host.ox, host.oy = 10, 20

	c.PointerMove(510, 420)
	host.step(20)
	if got := c.Pointer(); got.X != 500 || got.Y != 400 || !got.Active {
		t.Errorf("Expected active pointer at (500,400), got %+v", got)
	}

	c.TouchEnd()
	if c.Pointer().Active {
		t.Errorf("Expected touch end to deactivate pointer")
	}
}
