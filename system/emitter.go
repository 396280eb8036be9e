package system

import (
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/lixenwraith/bullet-trial/component"
	"github.com/lixenwraith/bullet-trial/core"
	"github.com/lixenwraith/bullet-trial/engine"
	"github.com/lixenwraith/bullet-trial/status"
)

// BulletSpec describes the entities an emitter spawns
type BulletSpec struct {
	Tags   core.TagMask
	Radius float32 // Collider radius
	Depth  float32
	Clip   string // Sprite clip; falls back to a dot when no visual service is wired
	Color  tcell.Color
	Cull   bool
}

// Emitter spawns one bullet per update from a pattern
type Emitter struct {
	pattern Pattern
	bullet  BulletSpec
}

// NewEmitter creates the emitter updater
func NewEmitter(pattern Pattern, bullet BulletSpec) *Emitter {
	return &Emitter{pattern: pattern, bullet: bullet}
}

// Update implements Updater for BehaviorEmitter
// A full pool skips the emission and the emitter keeps running
func (em *Emitter) Update(ctx *engine.Context, h core.Handle, e *component.Entity, b *component.Behavior) error {
	if ctx.Clock.Paused() {
		return nil
	}
	st := &b.Emitter

	shot, err := em.pattern.Next(st.Pattern, st.Angle, float32(ctx.Clock.GameTime().Seconds()), ctx.Clock.ScaledSeconds())
	if err != nil {
		return errors.Wrapf(err, "pattern %q", st.Pattern)
	}
	st.Angle = shot.Angle

	_, err = em.Spawn(ctx, e.Position.Add(shot.Offset), shot.Velocity)
	switch {
	case errors.Is(err, core.ErrFull):
		st.Skipped++
		ctx.Count(status.KeySpawnSkipped, 1)
		return nil
	case err != nil:
		return err
	}
	st.Emitted++
	ctx.Count(status.KeySpawned, 1)
	return nil
}

// Spawn builds one bullet, releasing whatever was allocated when a later pool is full
func (em *Emitter) Spawn(ctx *engine.Context, pos, velocity mgl32.Vec2) (core.Handle, error) {
	w := ctx.World
	h, err := w.Spawn(pos, em.bullet.Tags)
	if err != nil {
		return core.InvalidHandle, err
	}
	if err := em.assemble(ctx, h, velocity); err != nil {
		if derr := w.Despawn(h); derr != nil {
			ctx.Log.Error("despawn after failed spawn", zap.Stringer("entity", h), zap.Error(derr))
			err = multierr.Append(err, derr)
		}
		return core.InvalidHandle, err
	}
	return h, nil
}

func (em *Emitter) assemble(ctx *engine.Context, h core.Handle, velocity mgl32.Vec2) error {
	w := ctx.World
	e, _ := w.Entity(h)
	e.Depth = em.bullet.Depth

	if _, err := w.AttachCollider(h, em.bullet.Radius); err != nil {
		return err
	}
	if _, err := w.AttachBehavior(h, component.NewMotion(velocity, em.bullet.Cull)); err != nil {
		return err
	}

	if ctx.Visuals == nil || em.bullet.Clip == "" {
		_, err := w.AttachVisual(h, component.NewCircle(0, em.bullet.Color))
		return err
	}

	sh, err := ctx.Visuals.CreateVisual(em.bullet.Clip)
	if err != nil {
		return err
	}
	if err := w.Attach(h, ctx.Visuals, sh); err != nil {
		return multierr.Append(err, ctx.Visuals.Release(sh))
	}
	if err := ctx.Visuals.Play(sh, em.bullet.Clip); err != nil {
		return err
	}
	_, err = w.AttachVisual(h, component.NewSprite(sh, em.bullet.Color))
	return err
}
