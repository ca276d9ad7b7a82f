// Package game hosts the particle field in an ebiten window.
package game

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/iburimskiy/knowledge-field/internal/audio"
	"github.com/iburimskiy/knowledge-field/internal/config"
	"github.com/iburimskiy/knowledge-field/internal/field"
	"github.com/iburimskiy/knowledge-field/internal/loop"
)

var background = color.RGBA{R: 0x0b, G: 0x10, B: 0x20, A: 0xff}

// Game implements ebiten.Game and field.Host. ebiten calls Update, Draw and
// Layout from one goroutine, which is the only goroutine the field sees.
type Game struct {
	log    *slog.Logger
	cfg    config.Config
	player *audio.Player

	surface   *Surface
	ctrl      *field.Controller
	frames    loop.FrameQueue
	clock     loop.TickClock
	timers    loop.Timers
	listeners loop.Registry[field.Listener]
	start     time.Time

	width, height float64
	dpr           float64

	// The field stays hidden while either cause holds.
	paused    bool
	minimized bool
	hidden    bool

	cursorX, cursorY int
	cursorIn         bool
	touchIDs         []ebiten.TouchID
	touching         bool

	showHUD bool
}

// New prepares a game; the field itself is built on the first Update, once
// ebiten has reported the window size.
func New(cfg config.Config, player *audio.Player, logger *slog.Logger) *Game {
	if logger == nil {
		logger = slog.Default()
	}
	return &Game{
		log:     logger,
		cfg:     cfg,
		player:  player,
		surface: &Surface{},
		start:   time.Now(),
		width:   config.WindowWidth,
		height:  config.WindowHeight,
		dpr:     1,
		showHUD: true,
	}
}

// Controller returns the field controller, nil before the first Update.
func (g *Game) Controller() *field.Controller { return g.ctrl }

// Close tears the field down and stops audio.
func (g *Game) Close() error {
	if g.ctrl != nil {
		g.ctrl.Destroy()
	}
	if g.player != nil {
		return g.player.Close()
	}
	return nil
}

func (g *Game) now() time.Duration { return time.Since(g.start) }

func (g *Game) Update() error {
	g.clock.Tick()
	g.timers.Advance(g.now())

	if g.ctrl == nil {
		g.ctrl = field.New(g.surface, g, field.Options{Config: g.cfg, Logger: g.log})
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.setPaused(!g.paused)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}

	g.setMinimized(ebiten.IsWindowMinimized())

	g.pollPointer()
	g.pollTouches()
	return nil
}

func (g *Game) setPaused(paused bool) {
	g.paused = paused
	g.syncVisibility()
}

func (g *Game) setMinimized(minimized bool) {
	g.minimized = minimized
	g.syncVisibility()
}

func (g *Game) syncVisibility() {
	hidden := g.paused || g.minimized
	if hidden == g.hidden {
		return
	}
	g.hidden = hidden
	g.listeners.Each(func(l field.Listener) { l.VisibilityChange(hidden) })
	if g.player != nil {
		g.player.SetPaused(hidden)
	}
}

// pollPointer turns ebiten's cursor state into move/leave events.
func (g *Game) pollPointer() {
	x, y := ebiten.CursorPosition()
	inside := ebiten.IsFocused() &&
		x >= 0 && y >= 0 &&
		float64(x) <= g.width*g.dpr && float64(y) <= g.height*g.dpr

	if inside && (x != g.cursorX || y != g.cursorY || !g.cursorIn) {
		px, py := float64(x)/g.dpr, float64(y)/g.dpr
		g.listeners.Each(func(l field.Listener) { l.PointerMove(px, py) })
	}
	if !inside && g.cursorIn {
		g.listeners.Each(func(l field.Listener) { l.PointerLeave() })
	}
	g.cursorX, g.cursorY, g.cursorIn = x, y, inside
}

func (g *Game) pollTouches() {
	g.touchIDs = ebiten.AppendTouchIDs(g.touchIDs[:0])
	if len(g.touchIDs) > 0 {
		x, y := ebiten.TouchPosition(g.touchIDs[0])
		px, py := float64(x)/g.dpr, float64(y)/g.dpr
		g.listeners.Each(func(l field.Listener) { l.TouchMove(px, py) })
		g.touching = true
		return
	}
	released := inpututil.AppendJustReleasedTouchIDs(nil)
	if g.touching || len(released) > 0 {
		g.touching = false
		g.listeners.Each(func(l field.Listener) { l.TouchEnd() })
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.flushFrames(ebiten.TPS())

	screen.Fill(background)
	if img := g.surface.Image(); img != nil {
		screen.DrawImage(img, nil)
	}
	if g.showHUD {
		ebitenutil.DebugPrintAt(screen, g.hud(), 12, 12)
	}
}

// flushFrames runs queued frame callbacks. Frames are stamped by Update
// count so vsync jitter in Draw cannot throttle a frame that is due.
func (g *Game) flushFrames(tps int) int {
	return g.frames.Flush(g.clock.Stamp(tps))
}

func (g *Game) hud() string {
	uptime := formatDuration(g.now())
	if g.ctrl == nil {
		return uptime
	}
	state := g.ctrl.State()
	if state == field.Uninitialized {
		return fmt.Sprintf("animation off (reduced motion) | %s | Esc/Q: quit", uptime)
	}
	line := fmt.Sprintf("%s | %d particles | %s | %d links | %.0f fps | %s",
		state, g.ctrl.Count(), g.ctrl.Device(), g.ctrl.Links(), ebiten.ActualFPS(), uptime)
	if g.player != nil && g.player.Playing() {
		line += " | audio " + levelBar(g.player.Level(), 10)
	}
	return line + "\nSpace: pause  H: hud  Esc/Q: quit"
}

// Layout reports a backing-resolution screen and turns size or pixel-ratio
// changes into resize events.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	dpr := 1.0
	if m := ebiten.Monitor(); m != nil {
		dpr = m.DeviceScaleFactor()
	}
	dpr = math.Min(math.Max(dpr, 1), config.MaxPixelRatio)

	w, h := float64(outsideWidth), float64(outsideHeight)
	if w != g.width || h != g.height || dpr != g.dpr {
		g.width, g.height, g.dpr = w, h, dpr
		g.listeners.Each(func(l field.Listener) { l.Resize() })
	}
	return int(math.Round(w * dpr)), int(math.Round(h * dpr))
}

// RequestFrame implements field.Host. Callbacks run at the next Draw.
func (g *Game) RequestFrame(cb func(ts float64)) { g.frames.Request(cb) }

// AfterFunc implements field.Host on the Update clock.
func (g *Game) AfterFunc(d time.Duration, fn func()) func() {
	return g.timers.AfterFunc(d, fn)
}

func (g *Game) Viewport() (float64, float64) { return g.width, g.height }
func (g *Game) DevicePixelRatio() float64    { return g.dpr }

// Origin implements field.Host; the surface fills the window.
func (g *Game) Origin() (float64, float64) { return 0, 0 }

func (g *Game) Listen(l field.Listener) func() { return g.listeners.Add(l) }
