package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
)

// Effect names recognized by pass configuration
const (
	EffectSprite     = "sprite"
	EffectBackground = "background"
	EffectScreenQuad = "screenspacequad"
)

// Shader transforms a cell as it is written by a pass
// x, y are target cell coordinates; t is raw time in seconds
type Shader func(x, y int, c Cell, t float32) Cell

// Effect is a named shader bound to a pass
type Effect struct {
	Name   string
	Shader Shader
}

// Shade applies the effect, identity when no shader is bound
func (e Effect) Shade(x, y int, c Cell, t float32) Cell {
	if e.Shader == nil {
		return c
	}
	return e.Shader(x, y, c, t)
}

// Effects is the registry of known effects by name
type Effects map[string]Effect

// DefaultEffects returns the built-in effect set
func DefaultEffects() Effects {
	return Effects{
		EffectSprite:     {Name: EffectSprite},
		EffectScreenQuad: {Name: EffectScreenQuad},
		EffectBackground: {Name: EffectBackground, Shader: backgroundShader},
	}
}

// backgroundShader paints a slow diagonal wave of dark blues behind the playfield
func backgroundShader(x, y int, c Cell, t float32) Cell {
	if c.Rune != ' ' && c.Rune != 0 {
		return c
	}
	phase := float64(x+y)*0.15 - float64(t)*0.8
	level := int32(14 + 10*math.Sin(phase))
	c.Style = c.Style.Background(tcell.NewRGBColor(0, level/2, level+10))
	return c
}
