package term

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/knowledge-field/internal/config"
)

var background = colorful.Color{R: 0x0b / 255.0, G: 0x10 / 255.0, B: 0x20 / 255.0}

type cell struct {
	c     colorful.Color
	glyph rune
}

// Surface rasterizes the field onto terminal cells. Each cell covers
// config.CellWidth × config.CellHeight device-independent pixels.
type Surface struct {
	screen     tcell.Screen
	cols, rows int
	cells      []cell
}

func NewSurface(screen tcell.Screen) *Surface {
	return &Surface{screen: screen}
}

// Ready implements field.Capable.
func (s *Surface) Ready() bool { return s.screen != nil }

func (s *Surface) Resize(backingW, backingH int, scale float64) {
	if scale <= 0 {
		scale = 1
	}
	s.cols = max(int(float64(backingW)/scale)/config.CellWidth, 0)
	s.rows = max(int(float64(backingH)/scale)/config.CellHeight, 0)
	s.cells = make([]cell, s.cols*s.rows)
	s.Clear(0, 0)
}

func (s *Surface) Clear(w, h float64) {
	for i := range s.cells {
		s.cells[i] = cell{c: background}
	}
}

func (s *Surface) at(x, y float64) *cell {
	cx := int(math.Floor(x / config.CellWidth))
	cy := int(math.Floor(y / config.CellHeight))
	if cx < 0 || cy < 0 || cx >= s.cols || cy >= s.rows {
		return nil
	}
	return &s.cells[cy*s.cols+cx]
}

func (s *Surface) FillCircle(x, y, r float64, c colorful.Color, alpha float64) {
	ce := s.at(x, y)
	if ce == nil {
		return
	}
	ce.c = ce.c.BlendRgb(c, clampAlpha(alpha*2))
	// Halos are wide and faint; they tint the cell but keep its glyph.
	if alpha < 0.05 {
		return
	}
	if r >= 2.5 {
		ce.glyph = '●'
	} else {
		ce.glyph = '•'
	}
}

func (s *Surface) StrokeLine(x1, y1, x2, y2, width float64, c colorful.Color, alpha float64) {
	steps := int(math.Max(math.Abs(x2-x1)/config.CellWidth, math.Abs(y2-y1)/config.CellHeight))
	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		ce := s.at(x1+(x2-x1)*t, y1+(y2-y1)*t)
		if ce == nil {
			continue
		}
		ce.c = ce.c.BlendRgb(c, clampAlpha(alpha*2))
		if ce.glyph == 0 {
			ce.glyph = '·'
		}
	}
}

// Flush copies the cell buffer to the screen.
func (s *Surface) Flush() {
	bg := tcellColor(background)
	for y := 0; y < s.rows; y++ {
		for x := 0; x < s.cols; x++ {
			ce := s.cells[y*s.cols+x]
			glyph := ce.glyph
			if glyph == 0 {
				glyph = ' '
			}
			style := tcell.StyleDefault.Background(bg).Foreground(tcellColor(ce.c))
			s.screen.SetContent(x, y, glyph, nil, style)
		}
	}
}

func tcellColor(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func clampAlpha(a float64) float64 {
	return math.Min(math.Max(a, 0), 1)
}
