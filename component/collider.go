package component

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/bullet-trial/core"
)

// Collider is a circle shape positioned relative to its owner
type Collider struct {
	Owner  core.Handle
	Offset mgl32.Vec2
	Radius float32
}

// Center returns the collider center for an owner at pos
func (c *Collider) Center(pos mgl32.Vec2) mgl32.Vec2 {
	return pos.Add(c.Offset)
}

// CirclesOverlap reports strict overlap: distance between centers < sum of radii
// Compares squared distances to avoid the square root
func CirclesOverlap(a mgl32.Vec2, ra float32, b mgl32.Vec2, rb float32) bool {
	d := a.Sub(b)
	r := ra + rb
	return d.Dot(d) < r*r
}
