package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/bullet-trial/component"
	"github.com/lixenwraith/bullet-trial/engine"
)

const (
	glyphCore    = '●'
	glyphGlow    = '·'
	glyphBar     = '━'
	glyphUnknown = '*'
)

var (
	styleCore = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleRing = tcell.StyleDefault.Foreground(tcell.ColorOlive)
)

// drawVisual dispatches on the closed set of visual kinds
// Returns false when the visual could not be drawn this frame
func (c *Compositor) drawVisual(cv *Canvas, ctx *engine.Context, pass *Pass, e *component.Entity, v *component.Visual) bool {
	switch v.Kind {
	case component.VisualCircle:
		// Halo at three radii, ring, then core
		glow := tcell.StyleDefault.Foreground(v.Color)
		cv.FillCircle(e.Position, v.Radius*3, glyphGlow, glow)
		cv.FillCircle(e.Position, v.Radius, glyphGlow, styleRing)
		cv.Glyph(e.Position, glyphCore, styleCore)
		return true

	case component.VisualSprite:
		r := glyphUnknown
		if ctx.Visuals != nil {
			if g, ok := ctx.Visuals.Glyph(v.Sprite); ok {
				r = g
			}
		}
		cv.Glyph(e.Position, r, tcell.StyleDefault.Foreground(v.Color))
		return true

	case component.VisualQuad:
		if v.Source == "" {
			cv.Fill(tcell.StyleDefault)
			return true
		}
		src, ok := c.targets[v.Source]
		if !ok || !src.Resolved() || !pass.reads(v.Source) {
			return false
		}
		cv.Blit(src)
		return true

	case component.VisualBar:
		color := v.Color
		if color == tcell.ColorDefault {
			color = ProgressColor(float64(v.Fill))
		}
		cv.HLine(e.Position, v.Length*clamp01(v.Fill), glyphBar, tcell.StyleDefault.Foreground(color))
		return true
	}
	return false
}

func (p *Pass) reads(name string) bool {
	for _, r := range p.Reads {
		if r == name {
			return true
		}
	}
	return false
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
