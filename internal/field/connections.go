package field

import (
	"math"

	"github.com/iburimskiy/knowledge-field/internal/config"
)

// LinkOpacity is the base opacity of an edge of length dist. It falls
// linearly from opacity at zero to nothing at maxDist.
func LinkOpacity(dist, maxDist, opacity float64) float64 {
	if maxDist <= 0 || dist >= maxDist {
		return 0
	}
	return (1 - dist/maxDist) * opacity
}

// DrawConnections strokes an edge between every pair of particles closer
// than the active connection distance and returns how many were drawn.
// Edges whose midpoint is near an active cursor brighten toward
// cfg.ConnectionMouseOpacity.
func DrawConnections(s Surface, ps []*Particle, ptr Pointer, cfg config.Config, act config.Active) int {
	maxDist := act.ConnectionDistance
	max2 := maxDist * maxDist
	r := act.MouseRadius
	r2 := r * r

	drawn := 0
	for i := 0; i < len(ps); i++ {
		a := ps[i]
		for j := i + 1; j < len(ps); j++ {
			b := ps[j]
			dx := a.X - b.X
			dy := a.Y - b.Y
			d2 := dx*dx + dy*dy
			if d2 >= max2 {
				continue
			}
			opacity := LinkOpacity(math.Sqrt(d2), maxDist, cfg.ConnectionOpacity)

			if ptr.Active {
				mx := (a.X+b.X)/2 - ptr.X
				my := (a.Y+b.Y)/2 - ptr.Y
				if m2 := mx*mx + my*my; m2 < r2 {
					prox := 1 - math.Sqrt(m2)/r
					opacity = lerp(opacity, cfg.ConnectionMouseOpacity, prox)
				}
			}

			s.StrokeLine(a.X, a.Y, b.X, b.Y, config.LineWidth, a.Color.BlendRgb(b.Color, 0.5), opacity)
			drawn++
		}
	}
	return drawn
}
