package field

import (
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/iburimskiy/knowledge-field/internal/config"
)

// State is the controller lifecycle position.
type State uint8

const (
	Uninitialized State = iota
	Running
	Paused
	Destroyed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Destroyed:
		return "destroyed"
	}
	return "uninitialized"
}

// Options tune a controller beyond its Config.
type Options struct {
	Config config.Config
	// Rand drives seeding. A time-seeded PCG source is used when nil.
	Rand   *rand.Rand
	Logger *slog.Logger
}

// Controller owns the particle set and the frame loop bound to one surface.
type Controller struct {
	id  uuid.UUID
	log *slog.Logger
	cfg config.Config
	rng *rand.Rand

	surface Surface
	host    Host
	input   *InputTracker

	unlisten     func()
	cancelResize func()

	width, height      float64
	dpr                float64
	backingW, backingH int
	device             config.DeviceClass

	particles []*Particle

	state     State
	running   bool
	ticking   bool
	lastFrame float64
	interval  float64
	clock     float64
	frames    uint64
	links     int
}

// New binds a controller to surface and starts animating. When reduced
// motion is preferred, or the surface is missing or unusable, it returns
// an inert controller without touching the surface or the host.
func New(surface Surface, host Host, opts Options) *Controller {
	cfg := opts.Config
	if cfg.ParticleCount == 0 && cfg.ParticleCountMobile == 0 {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	id := uuid.New()
	c := &Controller{
		id:       id,
		log:      logger.With("field", id.String()[:8]),
		cfg:      cfg,
		rng:      rng,
		interval: cfg.FrameInterval(),
	}

	if ReducedMotion() {
		c.log.Info("reduced motion preferred, animation disabled")
		return c
	}
	if surface == nil || host == nil {
		c.log.Debug("no drawing surface, animation disabled")
		return c
	}
	if cp, ok := surface.(Capable); ok && !cp.Ready() {
		c.log.Debug("drawing surface not ready, animation disabled")
		return c
	}

	c.surface = surface
	c.host = host
	c.input = NewInputTracker(host.RequestFrame, host.Origin, c.Viewport)

	c.measure()
	c.seed()
	c.unlisten = host.Listen(c)

	c.state = Running
	c.running = true
	c.schedule()

	c.log.Info("field started",
		"width", c.width,
		"height", c.height,
		"dpr", c.dpr,
		"device", c.device,
		"particles", len(c.particles),
		"fps", cfg.FPS,
	)
	return c
}

// Destroy stops the animation permanently and detaches from the host.
func (c *Controller) Destroy() {
	if c.state == Destroyed {
		return
	}
	c.running = false
	c.state = Destroyed
	if c.unlisten != nil {
		c.unlisten()
		c.unlisten = nil
	}
	if c.cancelResize != nil {
		c.cancelResize()
		c.cancelResize = nil
	}
	c.log.Info("field destroyed", "frames", c.frames)
}

func (c *Controller) State() State { return c.state }

// ID identifies this controller in logs.
func (c *Controller) ID() uuid.UUID { return c.id }

// Device is the class chosen at the last construction or resize.
func (c *Controller) Device() config.DeviceClass { return c.device }

// Frames counts executed frames; throttled ticks are not included.
func (c *Controller) Frames() uint64 { return c.frames }

// Links is the number of connections drawn in the last executed frame.
func (c *Controller) Links() int { return c.links }

// Viewport returns the size in device-independent pixels.
func (c *Controller) Viewport() (w, h float64) { return c.width, c.height }

// Backing returns the surface buffer size and the pixel ratio in use.
func (c *Controller) Backing() (w, h int, dpr float64) { return c.backingW, c.backingH, c.dpr }

// Pointer returns the cursor state the next frame will see.
func (c *Controller) Pointer() Pointer {
	if c.input == nil {
		return Pointer{}
	}
	return c.input.State()
}

// Count is the current particle count.
func (c *Controller) Count() int { return len(c.particles) }

// Particles returns the current set. The slice is a copy; the particles
// are shared.
func (c *Controller) Particles() []*Particle {
	out := make([]*Particle, len(c.particles))
	copy(out, c.particles)
	return out
}

func (c *Controller) schedule() {
	if c.ticking {
		return
	}
	c.ticking = true
	c.host.RequestFrame(c.tick)
}

func (c *Controller) tick(ts float64) {
	c.ticking = false
	if !c.running {
		return
	}
	c.schedule()

	if ts-c.lastFrame < c.interval {
		return
	}

	// One snapshot of viewport, device class and cursor for the whole frame.
	w, h := c.width, c.height
	act := c.cfg.ForDevice(c.device)
	ptr := c.input.State()

	c.surface.Clear(w, h)
	c.clock++
	for _, p := range c.particles {
		p.Update(w, h, ptr, c.cfg, act, c.clock)
	}
	c.links = DrawConnections(c.surface, c.particles, ptr, c.cfg, act)
	DrawParticles(c.surface, c.particles)

	c.lastFrame = ts
	c.frames++
}

func (c *Controller) measure() {
	w, h := c.host.Viewport()
	dpr := c.host.DevicePixelRatio()
	if dpr <= 0 {
		dpr = 1
	}
	dpr = math.Min(dpr, config.MaxPixelRatio)

	c.width, c.height = w, h
	c.dpr = dpr
	c.backingW = int(math.Round(w * dpr))
	c.backingH = int(math.Round(h * dpr))
	c.surface.Resize(c.backingW, c.backingH, dpr)
	c.device = config.ClassFor(w)
}

// seed replaces the whole particle set for the current device class.
func (c *Controller) seed() {
	act := c.cfg.ForDevice(c.device)
	ps := make([]*Particle, act.Count)
	for i := range ps {
		p := &Particle{}
		p.Reset(c.width, c.height, c.cfg, act, c.rng)
		ps[i] = p
	}
	c.particles = ps
}

func (c *Controller) applyResize() {
	c.cancelResize = nil
	if c.state == Destroyed {
		return
	}
	prev := c.device
	c.measure()
	if want := c.cfg.ForDevice(c.device).Count; want != len(c.particles) {
		from := len(c.particles)
		c.seed()
		c.log.Info("particle set reseeded",
			"from", from,
			"to", want,
			"device", c.device,
			"previous", prev,
		)
	}
}

func (c *Controller) live() bool {
	return c.input != nil && c.state != Destroyed
}

// PointerMove implements Listener.
func (c *Controller) PointerMove(x, y float64) {
	if c.live() {
		c.input.Move(x, y)
	}
}

// PointerLeave implements Listener.
func (c *Controller) PointerLeave() {
	if c.live() {
		c.input.Leave()
	}
}

// TouchMove implements Listener.
func (c *Controller) TouchMove(x, y float64) { c.PointerMove(x, y) }

// TouchEnd implements Listener.
func (c *Controller) TouchEnd() { c.PointerLeave() }

// Resize implements Listener. Bursts collapse into one remeasure after
// config.ResizeDebounce of quiet.
func (c *Controller) Resize() {
	if !c.live() {
		return
	}
	if c.cancelResize != nil {
		c.cancelResize()
	}
	c.cancelResize = c.host.AfterFunc(config.ResizeDebounce, c.applyResize)
}

// VisibilityChange implements Listener.
func (c *Controller) VisibilityChange(hidden bool) {
	switch {
	case hidden && c.state == Running:
		c.running = false
		c.state = Paused
		c.log.Debug("field paused")
	case !hidden && c.state == Paused:
		c.running = true
		c.state = Running
		c.lastFrame = 0
		c.schedule()
		c.log.Debug("field resumed")
	}
}
