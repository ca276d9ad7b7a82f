package config

import (
	"fmt"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	WindowWidth  = 1024
	WindowHeight = 768

	// Terminal cells are mapped onto this many device-independent pixels.
	CellWidth  = 8
	CellHeight = 16

	// Viewports narrower than this use the mobile variants.
	MobileBreakpoint = 768
	MaxPixelRatio    = 2.0

	ResizeDebounce = 200 * time.Millisecond

	// Particle kinematics
	WrapPad         = 20.0
	DriftAmplitude  = 0.05
	DriftRate       = 0.01
	DriftPhaseScale = 1.3
	Damping         = 0.998
	MaxSpeedFactor  = 3.0

	// Particle appearance
	BaseAlphaMin   = 0.2
	BaseAlphaMax   = 0.55
	PulseSpeedMin  = 0.005
	PulseSpeedMax  = 0.015
	PulseAmplitude = 0.06
	AlphaMin       = 0.08
	AlphaMax       = 0.7
	HoverAlpha     = 0.8
	HoverGrowth    = 0.5

	// Halo
	GlowThreshold = 0.45
	GlowRadius    = 3.0
	GlowAlpha     = 0.04

	LineWidth = 1.0
)

// DeviceClass selects which size/radius/count variant applies.
type DeviceClass uint8

const (
	Desktop DeviceClass = iota
	Mobile
)

func (d DeviceClass) String() string {
	if d == Mobile {
		return "mobile"
	}
	return "desktop"
}

// ClassFor classifies a viewport by its width in device-independent pixels.
func ClassFor(width float64) DeviceClass {
	if width < MobileBreakpoint {
		return Mobile
	}
	return Desktop
}

// Config is the full tunable set. It is read-only once a controller is built.
type Config struct {
	ParticleCount       int
	ParticleCountMobile int

	ConnectionDistance       float64
	ConnectionDistanceMobile float64

	MouseRadius       float64
	MouseRadiusMobile float64

	BaseSpeed      float64
	MouseInfluence float64

	ParticleMinSize       float64
	ParticleMaxSize       float64
	ParticleMinSizeMobile float64
	ParticleMaxSizeMobile float64

	ConnectionOpacity      float64
	ConnectionMouseOpacity float64

	FPS    int
	Colors []colorful.Color
}

// DefaultPalette is the fixed knowledge-graph color set.
var DefaultPalette = []string{
	"#6366f1", // indigo
	"#8b5cf6", // violet
	"#06b6d4", // cyan
	"#10b981", // emerald
	"#f59e0b", // amber
	"#ec4899", // pink
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		ParticleCount:       280,
		ParticleCountMobile: 120,

		ConnectionDistance:       140,
		ConnectionDistanceMobile: 100,

		MouseRadius:       180,
		MouseRadiusMobile: 120,

		BaseSpeed:      0.25,
		MouseInfluence: 0.012,

		ParticleMinSize:       1.2,
		ParticleMaxSize:       3.2,
		ParticleMinSizeMobile: 1.0,
		ParticleMaxSizeMobile: 2.4,

		ConnectionOpacity:      0.18,
		ConnectionMouseOpacity: 0.45,

		FPS:    60,
		Colors: MustPalette(DefaultPalette),
	}
}

// ParsePalette converts hex strings ("#rrggbb") to colors.
func ParsePalette(hex []string) ([]colorful.Color, error) {
	out := make([]colorful.Color, 0, len(hex))
	for _, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("palette entry %q: %w", h, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// MustPalette is ParsePalette for compile-time constants.
func MustPalette(hex []string) []colorful.Color {
	p, err := ParsePalette(hex)
	if err != nil {
		panic(err)
	}
	return p
}

// FrameInterval is the minimum gap between executed frames, in milliseconds.
func (c Config) FrameInterval() float64 {
	if c.FPS <= 0 {
		return 0
	}
	return 1000.0 / float64(c.FPS)
}

// Active is the device-class subset of Config used during one frame.
type Active struct {
	Class              DeviceClass
	Count              int
	ConnectionDistance float64
	MouseRadius        float64
	MinSize, MaxSize   float64
}

// ForDevice selects the variant values for class d.
func (c Config) ForDevice(d DeviceClass) Active {
	if d == Mobile {
		return Active{
			Class:              d,
			Count:              c.ParticleCountMobile,
			ConnectionDistance: c.ConnectionDistanceMobile,
			MouseRadius:        c.MouseRadiusMobile,
			MinSize:            c.ParticleMinSizeMobile,
			MaxSize:            c.ParticleMaxSizeMobile,
		}
	}
	return Active{
		Class:              d,
		Count:              c.ParticleCount,
		ConnectionDistance: c.ConnectionDistance,
		MouseRadius:        c.MouseRadius,
		MinSize:            c.ParticleMinSize,
		MaxSize:            c.ParticleMaxSize,
	}
}
