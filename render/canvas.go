package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// Canvas is a target bound to a pass camera and effect, valid between BeginPass and Submit
type Canvas struct {
	target *Target
	camera Camera
	effect Effect
	time   float32
}

func (c *Canvas) Target() *Target { return c.target }
func (c *Canvas) Camera() Camera  { return c.camera }

// SetCell writes a target cell through the pass effect
func (c *Canvas) SetCell(x, y int, r rune, style tcell.Style) {
	if !c.target.InBounds(x, y) {
		return
	}
	cell := c.effect.Shade(x, y, Cell{Rune: r, Style: style}, c.time)
	c.target.Set(x, y, cell.Rune, cell.Style)
}

// Glyph draws a single rune at a world position
func (c *Canvas) Glyph(p mgl32.Vec2, r rune, style tcell.Style) {
	x, y := c.camera.Project(p)
	c.SetCell(x, y, r, style)
}

// FillCircle fills every cell whose center lies inside the projected circle
// Circles smaller than a cell still mark their center cell
func (c *Canvas) FillCircle(center mgl32.Vec2, radius float32, r rune, style tcell.Style) {
	cc := c.camera.Apply(center)
	rx := float64(radius * absf(c.camera.Zoom.X()))
	ry := float64(radius * absf(c.camera.Zoom.Y()))

	if rx < 0.5 && ry < 0.5 {
		c.SetCell(int(math.Floor(float64(cc.X()))), int(math.Floor(float64(cc.Y()))), r, style)
		return
	}
	if rx == 0 {
		rx = 0.5
	}
	if ry == 0 {
		ry = 0.5
	}

	x0 := int(math.Floor(float64(cc.X()) - rx))
	x1 := int(math.Ceil(float64(cc.X()) + rx))
	y0 := int(math.Floor(float64(cc.Y()) - ry))
	y1 := int(math.Ceil(float64(cc.Y()) + ry))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := (float64(x) + 0.5 - float64(cc.X())) / rx
			dy := (float64(y) + 0.5 - float64(cc.Y())) / ry
			if dx*dx+dy*dy <= 1 {
				c.SetCell(x, y, r, style)
			}
		}
	}
}

// HLine draws a horizontal run of length world units starting at p
func (c *Canvas) HLine(p mgl32.Vec2, length float32, r rune, style tcell.Style) {
	x0, y := c.camera.Project(p)
	x1, _ := c.camera.Project(p.Add(mgl32.Vec2{length, 0}))
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	for x := x0; x < x1; x++ {
		c.SetCell(x, y, r, style)
	}
}

// Blit samples src across the whole canvas through the inverse camera
// The camera maps src cell space to this target, so zoom is the magnification
func (c *Canvas) Blit(src *Target) {
	for y := 0; y < c.target.height; y++ {
		for x := 0; x < c.target.width; x++ {
			p := c.camera.Unproject(x, y)
			sx := int(math.Floor(float64(p.X())))
			sy := int(math.Floor(float64(p.Y())))
			if !src.InBounds(sx, sy) {
				continue
			}
			cell := src.Get(sx, sy)
			c.SetCell(x, y, cell.Rune, cell.Style)
		}
	}
}

// Fill shades every cell of the canvas, used by quads without a source
func (c *Canvas) Fill(style tcell.Style) {
	for y := 0; y < c.target.height; y++ {
		for x := 0; x < c.target.width; x++ {
			c.SetCell(x, y, ' ', style)
		}
	}
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
