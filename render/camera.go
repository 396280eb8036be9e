package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a 2D orthographic transform from world units to target cells
// cell = (world - Position) * Zoom + Origin
type Camera struct {
	Position mgl32.Vec2
	Zoom     mgl32.Vec2
	Origin   mgl32.Vec2

	// CenterOrigin recomputes Origin as the target center at the start of each pass
	CenterOrigin bool
}

// NewCamera creates an identity camera
func NewCamera() Camera {
	return Camera{Zoom: mgl32.Vec2{1, 1}}
}

// Matrix returns the homogeneous world-to-cell transform
func (c Camera) Matrix() mgl32.Mat3 {
	zoom := c.Zoom
	if zoom.X() == 0 && zoom.Y() == 0 {
		zoom = mgl32.Vec2{1, 1}
	}
	return mgl32.Translate2D(c.Origin.X(), c.Origin.Y()).
		Mul3(mgl32.Scale2D(zoom.X(), zoom.Y())).
		Mul3(mgl32.Translate2D(-c.Position.X(), -c.Position.Y()))
}

// Apply transforms a world point to fractional cell coordinates
func (c Camera) Apply(p mgl32.Vec2) mgl32.Vec2 {
	return c.Matrix().Mul3x1(p.Vec3(1)).Vec2()
}

// Project transforms a world point to the containing cell
func (c Camera) Project(p mgl32.Vec2) (int, int) {
	v := c.Apply(p)
	return int(math.Floor(float64(v.X()))), int(math.Floor(float64(v.Y())))
}

// Unproject maps a cell center back to world coordinates
func (c Camera) Unproject(x, y int) mgl32.Vec2 {
	inv := c.Matrix().Inv()
	return inv.Mul3x1(mgl32.Vec3{float32(x) + 0.5, float32(y) + 0.5, 1}).Vec2()
}

// Scale2D sets a uniform zoom on both axes
func (c *Camera) Scale2D(s mgl32.Vec2) {
	c.Zoom = s
}

// fit applies CenterOrigin for a target of the given size
func (c *Camera) fit(width, height int) {
	if c.CenterOrigin {
		c.Origin = mgl32.Vec2{float32(width) * 0.5, float32(height) * 0.5}
	}
}
