package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestCameraProjectRoundTrip(t *testing.T) {
	cam := NewCamera()
	cam.Position = mgl32.Vec2{90, 90}
	cam.Zoom = mgl32.Vec2{0.5, 0.25}
	cam.Origin = mgl32.Vec2{45, 22.5}

	x, y := cam.Project(mgl32.Vec2{90, 90})
	assert.Equal(t, 45, x)
	assert.Equal(t, 22, y)

	x, y = cam.Project(mgl32.Vec2{0, 0})
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)

	p := cam.Unproject(45, 22)
	assert.InDelta(t, 91, p.X(), 1e-3)
	assert.InDelta(t, 90, p.Y(), 1e-3)
}

func TestCameraCenterOrigin(t *testing.T) {
	cam := NewCamera()
	cam.CenterOrigin = true
	cam.fit(40, 20)
	assert.Equal(t, mgl32.Vec2{20, 10}, cam.Origin)
}

func TestFilterMatch(t *testing.T) {
	f := Filter{Include: 0b011, Exclude: 0b100}
	assert.True(t, f.Match(0b001))
	assert.False(t, f.Match(0b101))
	assert.False(t, f.Match(0b1000))
	assert.True(t, Filter{}.Match(0))
}
