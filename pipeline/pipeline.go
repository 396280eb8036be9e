package pipeline

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lixenwraith/bullet-trial/core"
	"github.com/lixenwraith/bullet-trial/engine"
	"github.com/lixenwraith/bullet-trial/render"
	"github.com/lixenwraith/bullet-trial/status"
	"github.com/lixenwraith/bullet-trial/system"
)

// FrameHook runs at the start of each frame, after the clock tick
type FrameHook func(ctx *engine.Context) error

// StageHook observes stage transitions
type StageHook func(stage Stage, ctx *engine.Context)

// Pipeline drives one simulation frame through its stages in fixed order
// Update, flush, collision, flush, render, present; no stage is skipped
type Pipeline struct {
	ctx        *engine.Context
	behaviors  *system.Behaviors
	collision  *system.Collision
	compositor *render.Compositor
	backend    render.Backend

	stage    Stage
	frame    uint64
	removals uint64 // World removal count at the last metrics record
	before   []FrameHook
	hooks    []StageHook

	// Fatal error that stopped the simulation, sticky
	err error
}

// New assembles a pipeline; collision may be nil
func New(ctx *engine.Context, behaviors *system.Behaviors, collision *system.Collision, compositor *render.Compositor, backend render.Backend) *Pipeline {
	if collision == nil {
		collision = system.NewCollision()
	}
	return &Pipeline{
		ctx:        ctx,
		behaviors:  behaviors,
		collision:  collision,
		compositor: compositor,
		backend:    backend,
	}
}

// BeforeFrame registers a hook run after the clock tick, before the update stage
func (p *Pipeline) BeforeFrame(fn FrameHook) {
	p.before = append(p.before, fn)
}

// OnStage registers a stage transition observer
func (p *Pipeline) OnStage(fn StageHook) {
	p.hooks = append(p.hooks, fn)
}

// Stage returns the stage currently executing, StageIdle between frames
func (p *Pipeline) Stage() Stage { return p.stage }

// Frame returns the number of frames started
func (p *Pipeline) Frame() uint64 { return p.frame }

// Context returns the simulation context
func (p *Pipeline) Context() *engine.Context { return p.ctx }

// Err returns the error that stopped the pipeline, nil while running
func (p *Pipeline) Err() error { return p.err }

// RunFrame executes one frame at wall time now
// A lifecycle or render failure stops the pipeline; later calls return the same error
func (p *Pipeline) RunFrame(now time.Time) error {
	if p.err != nil {
		return p.err
	}
	defer p.enter(StageIdle)

	start := time.Now()
	clock := p.ctx.Clock
	clock.Tick(now)
	p.frame++
	if tb, ok := p.backend.(interface{ SetTime(float32) }); ok {
		tb.SetTime(float32(clock.RawTime().Seconds()))
	}

	for _, fn := range p.before {
		if err := p.fail(StageIdle, fn(p.ctx)); err != nil {
			return err
		}
	}

	world := p.ctx.World

	p.enter(StageUpdate)
	if p.ctx.Visuals != nil {
		p.ctx.Visuals.Advance(clock.Raw())
	}
	if err := p.fail(StageUpdate, p.behaviors.Update(p.ctx)); err != nil {
		return err
	}
	if err := p.fail(StageUpdate, world.Flush()); err != nil {
		return err
	}
	p.measure(StageUpdate, start)

	mark := time.Now()
	p.enter(StageCollision)
	if err := p.fail(StageCollision, p.collision.Run(p.ctx)); err != nil {
		return err
	}
	if err := p.fail(StageCollision, world.Flush()); err != nil {
		return err
	}
	p.measure(StageCollision, mark)

	mark = time.Now()
	p.enter(StageRender)
	p.compositor.Execute(p.ctx)
	p.measure(StageRender, mark)

	mark = time.Now()
	p.enter(StagePresent)
	if err := p.fail(StagePresent, p.backend.Present()); err != nil {
		return err
	}
	p.measure(StagePresent, mark)

	p.record(start)
	return nil
}

func (p *Pipeline) enter(s Stage) {
	p.stage = s
	for _, fn := range p.hooks {
		fn(s, p.ctx)
	}
}

// fail stops the pipeline on fatal errors; pool exhaustion is logged and the frame continues
func (p *Pipeline) fail(s Stage, err error) error {
	if err == nil {
		return nil
	}
	if !core.IsFatal(err) {
		p.ctx.Log.Warn("recoverable frame error", zap.Stringer("stage", s), zap.Error(err))
		return nil
	}
	p.err = errors.Wrapf(err, "frame %d %s stage", p.frame, s)
	p.ctx.Log.Error("simulation stopped", zap.Uint64("frame", p.frame), zap.Stringer("stage", s), zap.Error(err))
	return p.err
}

func (p *Pipeline) measure(s Stage, start time.Time) {
	if p.ctx.Metrics != nil {
		p.ctx.Metrics.MeasureSince(status.KeyStagePrefix+s.String(), start)
	}
}

func (p *Pipeline) record(start time.Time) {
	m := p.ctx.Metrics
	if m == nil {
		return
	}
	w := p.ctx.World
	m.Incr(status.KeyFrames, 1)
	if n := w.Removals(); n > p.removals {
		m.Incr(status.KeyRemoved, float32(n-p.removals))
		p.removals = n
	}
	m.MeasureSince(status.KeyStagePrefix+"frame", start)
	m.Gauge(status.KeyPoolPrefix+w.Entities.Name(), float32(w.Entities.Count()))
	m.Gauge(status.KeyPoolPrefix+w.Colliders.Name(), float32(w.Colliders.Count()))
	m.Gauge(status.KeyPoolPrefix+w.Behaviors.Name(), float32(w.Behaviors.Count()))
	m.Gauge(status.KeyPoolPrefix+w.Visuals.Name(), float32(w.Visuals.Count()))
	if skipped := p.compositor.Skipped(); skipped > 0 {
		m.Incr(status.KeyStagePrefix+"render.skipped", float32(skipped))
	}
}
