// Package term hosts the particle field in a terminal through tcell.
package term

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/knowledge-field/internal/audio"
	"github.com/iburimskiy/knowledge-field/internal/config"
	"github.com/iburimskiy/knowledge-field/internal/field"
	"github.com/iburimskiy/knowledge-field/internal/loop"
)

const (
	refreshRate     = 60
	refreshInterval = time.Second / refreshRate
)

// Host implements field.Host over a tcell screen. Every callback is
// delivered from the goroutine running Run.
type Host struct {
	log    *slog.Logger
	screen tcell.Screen
	player *audio.Player

	surface   *Surface
	frames    loop.FrameQueue
	clock     loop.TickClock
	timers    loop.Timers
	listeners loop.Registry[field.Listener]
	start     time.Time
	hidden    bool
}

func NewHost(screen tcell.Screen, player *audio.Player, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{
		log:     logger,
		screen:  screen,
		player:  player,
		surface: NewSurface(screen),
		start:   time.Now(),
	}
}

// Run opens the terminal, animates until ctx ends or the user quits, and
// restores the terminal.
func Run(ctx context.Context, cfg config.Config, player *audio.Player, logger *slog.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()
	screen.HideCursor()

	h := NewHost(screen, player, logger)
	ctrl := field.New(h.surface, h, field.Options{Config: cfg, Logger: logger})
	defer ctrl.Destroy()

	return h.Loop(ctx)
}

// Loop pumps screen events, timers and frames until quit.
func (h *Host) Loop(ctx context.Context) error {
	events := make(chan tcell.Event, 64)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(events)
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok || h.handle(ev) {
				return nil
			}
		case <-ticker.C:
			h.clock.Tick()
			h.timers.Advance(h.now())
			if h.frames.Flush(h.clock.Stamp(refreshRate)) > 0 {
				h.surface.Flush()
				h.screen.Show()
			}
		}
	}
}

// handle dispatches one terminal event and reports whether to quit.
func (h *Host) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return true
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return true
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'p':
			h.setHidden(!h.hidden)
		}
	case *tcell.EventMouse:
		cx, cy := ev.Position()
		x := float64(cx*config.CellWidth) + config.CellWidth/2
		y := float64(cy*config.CellHeight) + config.CellHeight/2
		h.listeners.Each(func(l field.Listener) { l.PointerMove(x, y) })
	case *tcell.EventFocus:
		if !ev.Focused {
			h.listeners.Each(func(l field.Listener) { l.PointerLeave() })
		}
	case *tcell.EventResize:
		h.screen.Sync()
		h.listeners.Each(func(l field.Listener) { l.Resize() })
	}
	return false
}

func (h *Host) setHidden(hidden bool) {
	h.hidden = hidden
	h.listeners.Each(func(l field.Listener) { l.VisibilityChange(hidden) })
	if h.player != nil {
		h.player.SetPaused(hidden)
	}
	h.log.Debug("visibility changed", "hidden", hidden)
}

func (h *Host) now() time.Duration { return time.Since(h.start) }

// RequestFrame implements field.Host.
func (h *Host) RequestFrame(cb func(ts float64)) { h.frames.Request(cb) }

// AfterFunc implements field.Host.
func (h *Host) AfterFunc(d time.Duration, fn func()) func() {
	return h.timers.AfterFunc(d, fn)
}

// Viewport implements field.Host in device-independent pixels.
func (h *Host) Viewport() (float64, float64) {
	cols, rows := h.screen.Size()
	return float64(cols * config.CellWidth), float64(rows * config.CellHeight)
}

// DevicePixelRatio implements field.Host; terminals have no backing scale.
func (h *Host) DevicePixelRatio() float64 { return 1 }

func (h *Host) Origin() (float64, float64) { return 0, 0 }

func (h *Host) Listen(l field.Listener) func() { return h.listeners.Add(l) }
