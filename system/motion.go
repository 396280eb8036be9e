package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/bullet-trial/component"
	"github.com/lixenwraith/bullet-trial/core"
	"github.com/lixenwraith/bullet-trial/engine"
)

// CullMargin is how far past the arena edge a culled entity may travel
// Emitters spawn on a ring that reaches beyond the arena, so the margin covers it
const CullMargin float32 = 48

// UpdateMotion moves the owner by velocity and queues it for removal once outside the arena
func UpdateMotion(ctx *engine.Context, h core.Handle, e *component.Entity, b *component.Behavior) error {
	dt := ctx.Clock.ScaledSeconds()
	if dt == 0 {
		return nil
	}
	e.Move(b.Motion.Velocity.Mul(dt))
	if b.Motion.Cull && !ctx.Arena.Expand(CullMargin).Contains(e.Position) {
		return ctx.World.QueueRemoval(h)
	}
	return nil
}

// UpdateControl steps the owner along the input axis in whole units
// The fractional part carries over to later frames
func UpdateControl(ctx *engine.Context, _ core.Handle, e *component.Entity, b *component.Behavior) error {
	if ctx.Input == nil {
		return nil
	}
	st := &b.Control
	axis := ctx.Input.Axis(st.Device)
	if axis.Len() <= st.Deadzone {
		axis = mgl32.Vec2{}
	}

	move := axis.Mul(st.Speed * ctx.Clock.ScaledSeconds()).Add(st.Remainder)
	step := mgl32.Vec2{round(move.X()), round(move.Y())}
	st.Remainder = move.Sub(step)

	e.Move(step)
	e.Position = clampTo(ctx.Arena, e.Position)
	return nil
}

func round(v float32) float32 {
	return float32(math.Round(float64(v)))
}

func clampTo(b engine.Bounds, p mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{
		mgl32.Clamp(p.X(), b.Min.X(), b.Max.X()),
		mgl32.Clamp(p.Y(), b.Min.Y(), b.Max.Y()),
	}
}
