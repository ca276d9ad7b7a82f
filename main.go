package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/knowledge-field/internal/audio"
	"github.com/iburimskiy/knowledge-field/internal/config"
	"github.com/iburimskiy/knowledge-field/internal/field"
	"github.com/iburimskiy/knowledge-field/internal/game"
	"github.com/iburimskiy/knowledge-field/internal/term"
)

func main() {
	if err := run(); err != nil {
		slog.Error("exiting", "error", err)
		os.Exit(1)
	}
}

// run owns every resource so deferred cleanup finishes before main exits.
func run() error {
	backend := flag.String("backend", "window", "renderer: window or terminal")
	fps := flag.Int("fps", 0, "target frame rate (0 keeps the default)")
	soundtrack := flag.String("audio", "", "loop a wav/mp3/flac file while the field runs")
	pick := flag.Bool("pick-audio", false, "choose the soundtrack with a file dialog")
	reduced := flag.Bool("reduced-motion", false, "disable the animation as if reduced motion were preferred")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		return fmt.Errorf("invalid -log-level %q", *logLevel)
	}
	// The terminal backend owns stdout; keep logs on stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := config.Default()
	if *fps > 0 {
		cfg.FPS = *fps
	}
	if *reduced {
		field.MotionQuery = func() bool { return true }
	}

	player := audio.NewPlayer(logger)
	defer player.Close()

	path := *soundtrack
	if *pick {
		p, err := audio.PickFile()
		if err != nil {
			logger.Error("file dialog failed", "error", err)
		}
		if p != "" {
			path = p
		}
	}
	if path != "" {
		if err := player.Load(path); err != nil {
			logger.Error("soundtrack unavailable", "error", err)
		}
	}

	switch *backend {
	case "window":
		return runWindow(cfg, player, logger)
	case "terminal":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return term.Run(ctx, cfg, player, logger)
	}
	return fmt.Errorf("unknown backend %q", *backend)
}

func runWindow(cfg config.Config, player *audio.Player, logger *slog.Logger) error {
	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("Knowledge Field - Space: pause, H: HUD, Esc/Q: quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetRunnableOnUnfocused(true)

	g := game.New(cfg, player, logger)
	defer g.Close()
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
