package component

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/bullet-trial/core"
)

// VisualKind selects the draw routine for a visual
type VisualKind uint8

const (
	VisualNone VisualKind = iota
	VisualCircle
	VisualSprite
	VisualQuad
	VisualBar
	VisualKindCount
)

var visualNames = [...]string{"none", "circle", "sprite", "quad", "bar"}

func (k VisualKind) String() string {
	if int(k) < len(visualNames) {
		return visualNames[k]
	}
	return "unknown"
}

// Visual is a tagged variant over the fixed set of draw routines
type Visual struct {
	Kind  VisualKind
	Owner core.Handle
	Color tcell.Color

	// Circle
	Radius float32

	// Sprite: instance handle owned by the asset service
	Sprite core.Handle

	// Quad: offscreen target sampled onto the pass target
	Source string

	// Bar: horizontal meter, Fill in [0,1] across Length world units
	Length float32
	Fill   float32
}

// NewCircle creates a filled circle visual
func NewCircle(radius float32, color tcell.Color) Visual {
	return Visual{Kind: VisualCircle, Radius: radius, Color: color}
}

// NewSprite wraps an asset service sprite instance
func NewSprite(sprite core.Handle, color tcell.Color) Visual {
	return Visual{Kind: VisualSprite, Sprite: sprite, Color: color}
}

// NewQuad creates a screen-space quad that samples a target
func NewQuad(source string) Visual {
	return Visual{Kind: VisualQuad, Source: source}
}

// NewBar creates a horizontal meter
func NewBar(length float32, color tcell.Color) Visual {
	return Visual{Kind: VisualBar, Length: length, Color: color}
}
