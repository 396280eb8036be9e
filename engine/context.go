package engine

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/lixenwraith/bullet-trial/status"
)

// Bounds is an axis-aligned rectangle in world units
type Bounds struct {
	Min, Max mgl32.Vec2
}

// Contains reports whether p lies inside the bounds, edges inclusive
func (b Bounds) Contains(p mgl32.Vec2) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() && p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y()
}

// Expand grows the bounds by margin on every side
func (b Bounds) Expand(margin float32) Bounds {
	m := mgl32.Vec2{margin, margin}
	return Bounds{Min: b.Min.Sub(m), Max: b.Max.Add(m)}
}

// Size returns width and height
func (b Bounds) Size() mgl32.Vec2 {
	return b.Max.Sub(b.Min)
}

// Context is the simulation state owned by the frame driver and passed to every stage
// Replaces process-wide pools and level state; one instance per run
type Context struct {
	World *World
	Clock *Clock
	Arena Bounds

	Log     *zap.Logger
	Metrics *status.Registry

	// External collaborators; nil services are treated as absent
	Visuals VisualService
	Audio   AudioService
	Input   InputService
}

// NewContext wires a context around an existing world and clock
func NewContext(world *World, clock *Clock, arena Bounds, log *zap.Logger, metrics *status.Registry) *Context {
	if log == nil {
		log = zap.NewNop()
	}
	return &Context{
		World:   world,
		Clock:   clock,
		Arena:   arena,
		Log:     log,
		Metrics: metrics,
	}
}

// Count bumps a counter when metrics are wired
func (c *Context) Count(key string, n float32) {
	if c.Metrics != nil {
		c.Metrics.Incr(key, n)
	}
}
