package field

import "github.com/iburimskiy/knowledge-field/internal/config"

// DrawParticles paints every particle body, with a faint halo behind the
// ones bright enough to read as highlighted.
func DrawParticles(s Surface, ps []*Particle) {
	for _, p := range ps {
		if p.Alpha > config.GlowThreshold {
			s.FillCircle(p.X, p.Y, p.Size*config.GlowRadius, p.Color, p.Alpha*config.GlowAlpha)
		}
		s.FillCircle(p.X, p.Y, p.Size, p.Color, p.Alpha)
	}
}
