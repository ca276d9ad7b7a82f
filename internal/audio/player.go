// Package audio plays the optional ambient soundtrack that accompanies the
// particle field and pauses with it.
package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/ncruces/zenity"
)

const (
	ringSize        = 8192
	levelWindow     = 2048
	smoothingFactor = 0.6
)

// ErrUnsupported is returned for files whose extension has no decoder.
var ErrUnsupported = errors.New("unsupported audio file type")

// Player loops one track through the system speaker.
type Player struct {
	log *slog.Logger

	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	tap      *levelTap

	paused   bool
	initDone bool
	level    float64
}

func NewPlayer(logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{log: logger.With("component", "audio")}
}

// decode opens path with the decoder matching its extension.
func decode(f *os.File, path string) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return wav.Decode(f)
	case ".mp3":
		return mp3.Decode(f)
	case ".flac":
		return flac.Decode(f)
	}
	return nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
}

// Load replaces the current track with path and starts it looping.
func (p *Player) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open soundtrack: %w", err)
	}
	streamer, format, err := decode(f, path)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	t := newLevelTap(beep.Loop(-1, streamer), ringSize)
	ctrl := &beep.Ctrl{Streamer: t, Paused: p.paused}

	bufferSize := format.SampleRate.N(time.Second / 20)
	switch {
	case !p.initDone:
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return fmt.Errorf("init speaker: %w", err)
		}
		p.initDone = true
	case p.format.SampleRate != format.SampleRate:
		speaker.Clear()
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return fmt.Errorf("reinit speaker: %w", err)
		}
	default:
		speaker.Clear()
	}
	p.release()

	p.file = f
	p.streamer = streamer
	p.format = format
	p.ctrl = ctrl
	p.tap = t
	p.level = 0

	speaker.Play(ctrl)
	p.log.Info("soundtrack loaded",
		"file", filepath.Base(path),
		"sample_rate", int(format.SampleRate),
		"length", format.SampleRate.D(streamer.Len()).Round(time.Second),
	)
	return nil
}

// SetPaused pauses or resumes playback. It is remembered across Load calls.
func (p *Player) SetPaused(paused bool) {
	p.paused = paused
	if p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = paused
	speaker.Unlock()
}

// Paused reports the requested pause state.
func (p *Player) Paused() bool { return p.paused }

// Playing reports whether a track is loaded and not paused.
func (p *Player) Playing() bool { return p.ctrl != nil && !p.paused }

// Level returns a smoothed loudness in [0,1] of what was played recently.
func (p *Player) Level() float64 {
	if p.tap == nil {
		return 0
	}
	mag := math.Pow(p.tap.rms(levelWindow), 0.3)
	p.level = smoothingFactor*p.level + (1-smoothingFactor)*mag
	return math.Min(p.level, 1)
}

// Close stops playback and releases the file.
func (p *Player) Close() error {
	if p.ctrl != nil {
		speaker.Clear()
		p.ctrl = nil
		p.tap = nil
	}
	return p.release()
}

func (p *Player) release() error {
	var errs []error
	if p.streamer != nil {
		errs = append(errs, p.streamer.Close())
		p.streamer = nil
	}
	if p.file != nil {
		if err := p.file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			errs = append(errs, err)
		}
		p.file = nil
	}
	return errors.Join(errs...)
}

// PickFile asks the user for a soundtrack with a native dialog. A cancelled
// dialog yields an empty path and no error.
func PickFile() (string, error) {
	filename, err := zenity.SelectFile(
		zenity.Title("Choose Soundtrack"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", nil
		}
		return "", err
	}
	return filename, nil
}
