package field

import (
	"math"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/knowledge-field/internal/config"
)

// Pointer is the cursor snapshot a frame is simulated against.
type Pointer struct {
	X, Y   float64
	Active bool
}

type Particle struct {
	X, Y   float64
	VX, VY float64

	Color colorful.Color

	BaseSize, Size   float64
	BaseAlpha, Alpha float64

	PulsePhase, PulseSpeed float64
}

// Reset re-rolls every randomized attribute for a w×h viewport.
func (p *Particle) Reset(w, h float64, cfg config.Config, act config.Active, rng *rand.Rand) {
	p.X = rng.Float64() * w
	p.Y = rng.Float64() * h
	p.VX = uniform(rng, -cfg.BaseSpeed, cfg.BaseSpeed)
	p.VY = uniform(rng, -cfg.BaseSpeed, cfg.BaseSpeed)

	if n := len(cfg.Colors); n > 0 {
		p.Color = cfg.Colors[rng.IntN(n)]
	} else {
		p.Color = colorful.Color{R: 1, G: 1, B: 1}
	}

	p.BaseSize = uniform(rng, act.MinSize, act.MaxSize)
	p.Size = p.BaseSize
	p.BaseAlpha = uniform(rng, config.BaseAlphaMin, config.BaseAlphaMax)
	p.Alpha = p.BaseAlpha
	p.PulsePhase = rng.Float64() * 2 * math.Pi
	p.PulseSpeed = uniform(rng, config.PulseSpeedMin, config.PulseSpeedMax)
}

// Update advances the particle by one executed frame. t is the frame clock.
func (p *Particle) Update(w, h float64, ptr Pointer, cfg config.Config, act config.Active, t float64) {
	p.X += p.VX + math.Sin(t*config.DriftRate+p.PulsePhase)*config.DriftAmplitude
	p.Y += p.VY + math.Cos(t*config.DriftRate+p.PulsePhase*config.DriftPhaseScale)*config.DriftAmplitude

	p.X = wrap(p.X, w)
	p.Y = wrap(p.Y, h)

	// Highlight reverts instantly; the velocity impulse below does not.
	p.Alpha = p.BaseAlpha
	p.Size = p.BaseSize
	if ptr.Active {
		dx := p.X - ptr.X
		dy := p.Y - ptr.Y
		r := act.MouseRadius
		if d2 := dx*dx + dy*dy; d2 < r*r {
			prox := 1 - math.Sqrt(d2)/r
			force := prox * cfg.MouseInfluence
			p.VX += dx * force
			p.VY += dy * force
			p.Alpha = lerp(p.BaseAlpha, config.HoverAlpha, prox)
			p.Size = lerp(p.BaseSize, p.BaseSize*2, prox*config.HoverGrowth)
		}
	}

	p.Alpha += math.Sin(t*p.PulseSpeed+p.PulsePhase) * config.PulseAmplitude
	p.Alpha = clamp(p.Alpha, config.AlphaMin, config.AlphaMax)

	p.VX *= config.Damping
	p.VY *= config.Damping

	maxSpeed := cfg.BaseSpeed * config.MaxSpeedFactor
	if speed := math.Hypot(p.VX, p.VY); speed > maxSpeed {
		s := maxSpeed / speed
		p.VX *= s
		p.VY *= s
	}
}

// Speed returns the velocity magnitude.
func (p *Particle) Speed() float64 { return math.Hypot(p.VX, p.VY) }

// wrap moves a coordinate that left [-pad, dim+pad] to the opposite edge.
func wrap(v, dim float64) float64 {
	switch {
	case v < -config.WrapPad:
		return dim + config.WrapPad
	case v > dim+config.WrapPad:
		return -config.WrapPad
	}
	return v
}
