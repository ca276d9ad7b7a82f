package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"
)

// Surface draws the field into an offscreen image at backing resolution so
// a throttled frame leaves the previous picture in place.
type Surface struct {
	img   *ebiten.Image
	scale float32
}

func (s *Surface) Resize(backingW, backingH int, scale float64) {
	if s.img != nil {
		b := s.img.Bounds()
		if b.Dx() == backingW && b.Dy() == backingH {
			s.scale = float32(scale)
			return
		}
		s.img.Deallocate()
	}
	s.img = ebiten.NewImage(max(backingW, 1), max(backingH, 1))
	s.scale = float32(scale)
}

func (s *Surface) Clear(w, h float64) {
	s.img.Clear()
}

func (s *Surface) FillCircle(x, y, r float64, c colorful.Color, alpha float64) {
	k := s.scale
	vector.DrawFilledCircle(s.img, float32(x)*k, float32(y)*k, float32(r)*k, premultiply(c, alpha), true)
}

func (s *Surface) StrokeLine(x1, y1, x2, y2, width float64, c colorful.Color, alpha float64) {
	k := s.scale
	vector.StrokeLine(s.img, float32(x1)*k, float32(y1)*k, float32(x2)*k, float32(y2)*k, float32(width)*k, premultiply(c, alpha), true)
}

// Image is the backing image, nil until the first Resize.
func (s *Surface) Image() *ebiten.Image { return s.img }

// premultiply converts a straight color plus opacity to ebiten's
// premultiplied RGBA.
func premultiply(c colorful.Color, alpha float64) color.RGBA {
	alpha = clamp01(alpha)
	c = c.Clamped()
	return color.RGBA{
		R: uint8(c.R*alpha*255 + 0.5),
		G: uint8(c.G*alpha*255 + 0.5),
		B: uint8(c.B*alpha*255 + 0.5),
		A: uint8(alpha*255 + 0.5),
	}
}
