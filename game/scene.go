package game

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/lixenwraith/bullet-trial/audio"
	"github.com/lixenwraith/bullet-trial/component"
	"github.com/lixenwraith/bullet-trial/config"
	"github.com/lixenwraith/bullet-trial/core"
	"github.com/lixenwraith/bullet-trial/engine"
	"github.com/lixenwraith/bullet-trial/input"
	"github.com/lixenwraith/bullet-trial/pipeline"
	"github.com/lixenwraith/bullet-trial/render"
	"github.com/lixenwraith/bullet-trial/status"
	"github.com/lixenwraith/bullet-trial/system"
)

// Tag names the scene relies on beyond the configured vocabulary
const (
	TagBullet     = "bullet"
	TagBackground = "background"
	TagScreen     = "screen_texture"
	TagPlayer     = "player"
)

// clipPop is played on bullets touching the player at death
const clipPop = "pop"

// Depths, higher draws first
const (
	depthBackground float32 = 100
	depthBullet     float32 = 10
	depthPlayer     float32 = 0
	depthProgress   float32 = -1
)

type sceneTags struct {
	bullet, background, screen, player core.TagMask
}

// Scene owns the arena entities and the round state machine
type Scene struct {
	cfg     *config.Config
	ctx     *engine.Context
	backend render.Backend
	input   *input.Service
	events  <-chan tcell.Event

	tags       sceneTags
	compositor *render.Compositor
	behaviors  *system.Behaviors
	collision  *system.Collision
	pipe       *pipeline.Pipeline

	player   core.Handle
	emitter  core.Handle // Emitter behavior handle
	progress core.Handle // Progress behavior handle
	drone    core.Handle // Voice attached to the background entity

	state  State
	deadAt time.Duration // Raw time of death
	rumble core.Handle   // Zero when not playing
	quit   bool
	round  int
}

// NewEngineContext builds the world, clock and arena bounds described by cfg
func NewEngineContext(cfg *config.Config, log *zap.Logger, metrics *status.Registry) *engine.Context {
	w := engine.NewWorld(engine.Capacities{
		Entities:  cfg.Pools.Entities,
		Colliders: cfg.Pools.Colliders,
		Behaviors: cfg.Pools.Behaviors,
		Visuals:   cfg.Pools.Visuals,
	}, log)
	arena := engine.Bounds{Max: mgl32.Vec2{cfg.Arena.Width, cfg.Arena.Height}}
	return engine.NewContext(w, engine.NewClock(cfg.Time.MaxDelta), arena, log, metrics)
}

// NewScene declares tags, validates the render graph and populates the arena
// in is wired as the context input service; pattern drives the emitter
func NewScene(cfg *config.Config, ctx *engine.Context, backend render.Backend, in *input.Service, pattern system.Pattern) (*Scene, error) {
	w := ctx.World
	if err := w.Tags.Declare(cfg.Tags.Names...); err != nil {
		return nil, err
	}
	s := &Scene{
		cfg:     cfg,
		ctx:     ctx,
		backend: backend,
		input:   in,
	}
	for _, t := range []struct {
		name string
		dst  *core.TagMask
	}{
		{TagBullet, &s.tags.bullet},
		{TagBackground, &s.tags.background},
		{TagScreen, &s.tags.screen},
		{TagPlayer, &s.tags.player},
	} {
		m, err := w.Tags.TagFor(t.name)
		if err != nil {
			return nil, errors.Wrap(err, "scene tags")
		}
		*t.dst = m
	}
	if in != nil {
		ctx.Input = in
	}

	targets, passes, err := BuildPasses(cfg, w.Tags)
	if err != nil {
		return nil, err
	}
	s.compositor, err = render.NewCompositor(backend, targets, passes, render.DefaultEffects(), ctx.Log)
	if err != nil {
		return nil, err
	}

	em := system.NewEmitter(pattern, system.BulletSpec{
		Tags:   s.tags.bullet,
		Radius: cfg.Emitter.BulletRadius,
		Depth:  depthBullet,
		Clip:   cfg.Emitter.Sprite,
		Color:  render.RgbBullet,
		Cull:   true,
	})
	s.behaviors = system.NewBehaviors(em)
	s.collision = system.NewCollision()
	s.collision.Register("player-hit", system.Contact(s.Player, s.tags.bullet, s.onPlayerHit))

	s.pipe = pipeline.New(ctx, s.behaviors, s.collision, s.compositor, backend)
	s.pipe.BeforeFrame(s.beforeFrame)
	s.pipe.OnStage(s.drawHUD)

	if err := s.populate(); err != nil {
		return nil, err
	}
	return s, nil
}

// SetEvents sets the terminal event source drained at the start of each frame
func (s *Scene) SetEvents(ch <-chan tcell.Event) { s.events = ch }

func (s *Scene) Pipeline() *pipeline.Pipeline { return s.pipe }
func (s *Scene) Compositor() *render.Compositor { return s.compositor }
func (s *Scene) Context() *engine.Context { return s.ctx }
func (s *Scene) State() State { return s.state }
func (s *Scene) Player() core.Handle { return s.player }
func (s *Scene) QuitRequested() bool { return s.quit }
func (s *Scene) Round() int { return s.round }

func (s *Scene) center() mgl32.Vec2 {
	return mgl32.Vec2{s.cfg.Arena.Width / 2, s.cfg.Arena.Height / 2}
}

// populate spawns the fixed entities of a fresh arena
func (s *Scene) populate() error {
	w := s.ctx.World

	bg, err := w.Spawn(mgl32.Vec2{}, s.tags.background)
	if err != nil {
		return err
	}
	if e, ok := w.Entity(bg); ok {
		e.Depth = depthBackground
	}
	if _, err := w.AttachVisual(bg, component.NewQuad("")); err != nil {
		return err
	}
	if s.ctx.Audio != nil {
		s.drone, err = s.ctx.Audio.PlayLoop(audio.TrackDrone)
		if err != nil {
			return err
		}
		if err := w.Attach(bg, s.ctx.Audio, s.drone); err != nil {
			return multierr.Append(err, s.ctx.Audio.Release(s.drone))
		}
		if err := s.ctx.Audio.SetParam(s.drone, "volume", s.cfg.Audio.Volume); err != nil {
			return err
		}
	}

	screen, err := w.Spawn(mgl32.Vec2{}, s.tags.screen)
	if err != nil {
		return err
	}
	if _, err := w.AttachVisual(screen, component.NewQuad(s.sourceTarget())); err != nil {
		return err
	}

	if err := s.spawnPlayer(); err != nil {
		return err
	}

	source, err := w.Spawn(s.center(), 0)
	if err != nil {
		return err
	}
	s.emitter, err = w.AttachBehavior(source, component.NewEmitter(s.cfg.Emitter.Pattern))
	if err != nil {
		return err
	}

	bar, err := w.Spawn(mgl32.Vec2{0, s.cfg.Arena.Height - 1}, 0)
	if err != nil {
		return err
	}
	if e, ok := w.Entity(bar); ok {
		e.Depth = depthProgress
	}
	s.progress, err = w.AttachBehavior(bar, component.NewProgress(float32(s.cfg.Time.ProgressDuration.Seconds())))
	if err != nil {
		return err
	}
	_, err = w.AttachVisual(bar, component.NewBar(s.cfg.Arena.Width, tcell.ColorDefault))
	return err
}

// sourceTarget returns the first target sampled by a pass writing the framebuffer
func (s *Scene) sourceTarget() string {
	for _, p := range s.cfg.Passes {
		if p.Target == render.Framebuffer && len(p.Reads) > 0 {
			return p.Reads[0]
		}
	}
	return ""
}

func (s *Scene) spawnPlayer() error {
	w := s.ctx.World
	p := s.cfg.Player
	h, err := w.Spawn(s.center(), s.tags.player)
	if err != nil {
		return err
	}
	if e, ok := w.Entity(h); ok {
		e.Depth = depthPlayer
	}
	if _, err := w.AttachCollider(h, p.Collider); err != nil {
		return err
	}
	if _, err := w.AttachBehavior(h, component.NewControl(input.Keyboard, p.Speed, p.Deadzone)); err != nil {
		return err
	}
	if _, err := w.AttachVisual(h, component.NewCircle(p.Radius, render.RgbPlayerGlow)); err != nil {
		return err
	}
	s.player = h
	return nil
}

// onPlayerHit freezes game time, pops the touching bullets and starts the rumble
func (s *Scene) onPlayerHit(ctx *engine.Context, self, other core.Handle) error {
	if s.state != StatePlaying {
		return nil
	}
	s.state = StateDead
	s.deadAt = ctx.Clock.RawTime()
	ctx.Clock.SetRate(0)
	ctx.Log.Info("player hit", zap.Stringer("player", self), zap.Stringer("bullet", other),
		zap.Duration("survived", ctx.Clock.GameTime()), zap.Int("round", s.round))

	for _, b := range ctx.World.AllOverlapping(self, s.tags.bullet, nil) {
		s.pop(b)
	}
	if err := s.setDrone(false); err != nil {
		return err
	}

	if ctx.Audio != nil {
		h, err := ctx.Audio.PlayLoop(audio.TrackRumble)
		switch {
		case errors.Is(err, core.ErrFull):
			ctx.Log.Warn("no voice for rumble", zap.Error(err))
		case err != nil:
			return err
		default:
			s.rumble = h
		}
	}
	return nil
}

// beforeFrame polls input and advances the round state on raw time
func (s *Scene) beforeFrame(ctx *engine.Context) error {
	if s.input != nil {
		if s.events != nil {
			s.input.Drain(s.events)
		}
		s.input.BeginFrame(time.Unix(0, 0).Add(ctx.Clock.RawTime()))
	}
	s.fitScreen()

	if s.pressed(input.ButtonQuit) {
		s.quit = true
	}

	if s.state == StatePlaying {
		if beh, ok := ctx.World.Behaviors.Get(s.progress); ok && beh.Progress.Done {
			s.state = StateWon
			ctx.Log.Info("round won", zap.Int("round", s.round))
			if err := s.setDrone(false); err != nil {
				return err
			}
		} else if s.pressed(input.ButtonPause) {
			paused := ctx.Clock.Paused()
			if paused {
				ctx.Clock.SetRate(1)
			} else {
				ctx.Clock.SetRate(0)
			}
			if err := s.setDrone(paused); err != nil {
				return err
			}
		}
	}

	switch s.state {
	case StateDead:
		since := ctx.Clock.RawTime() - s.deadAt
		if !s.rumble.IsZero() && since >= s.cfg.Time.RumbleFor {
			if err := s.stopRumble(); err != nil {
				return err
			}
		}
		if since >= s.cfg.Time.DeathCooldown && s.pressed(input.ButtonConfirm) {
			return s.Restart()
		}
	case StateWon:
		if s.pressed(input.ButtonConfirm) {
			return s.Restart()
		}
	}
	return nil
}

// pop plays the bullet's pop clip and removes the bullet once it ends
// Bullets without a sprite, or whose sprite has no pop clip, stay frozen until the restart
func (s *Scene) pop(bullet core.Handle) {
	vis := s.ctx.Visuals
	if vis == nil {
		return
	}
	w := s.ctx.World
	e, ok := w.Entity(bullet)
	if !ok {
		return
	}
	for _, a := range e.Hooks {
		if a.Pool != vis {
			continue
		}
		if err := vis.Play(a.Handle, clipPop); err != nil {
			s.ctx.Log.Warn("bullet not popped", zap.Stringer("bullet", bullet), zap.Error(err))
			return
		}
		vis.OnFinish(a.Handle, func() { _ = w.QueueRemoval(bullet) })
		return
	}
}

// setDrone pauses or resumes the background voice
func (s *Scene) setDrone(on bool) error {
	if s.ctx.Audio == nil || s.drone.IsZero() {
		return nil
	}
	if on {
		return s.ctx.Audio.Resume(s.drone)
	}
	return s.ctx.Audio.Pause(s.drone)
}

func (s *Scene) pressed(id string) bool {
	return s.ctx.Input != nil && s.ctx.Input.ButtonPressed(input.Keyboard, id)
}

func (s *Scene) stopRumble() error {
	h := s.rumble
	s.rumble = core.InvalidHandle
	if h.IsZero() || s.ctx.Audio == nil {
		return nil
	}
	return s.ctx.Audio.Release(h)
}

// fitScreen rescales passes that present to the framebuffer by an integer factor
func (s *Scene) fitScreen() {
	vw, vh := s.backend.ViewSize()
	for _, pc := range s.cfg.Passes {
		if !pc.Camera.FitView || len(pc.Reads) == 0 {
			continue
		}
		p, ok := s.compositor.Pass(pc.ID)
		if !ok {
			continue
		}
		src, ok := s.compositor.Target(pc.Reads[0])
		if !ok {
			continue
		}
		scale := FitScale(vw, vh, src.Width(), src.Height())
		p.Camera.Scale2D(mgl32.Vec2{scale, scale})
	}
}

// Restart clears the bullets and starts a new round
func (s *Scene) Restart() error {
	w := s.ctx.World
	var errs error
	w.EachTagged(s.tags.bullet, 0, func(h core.Handle, _ *component.Entity) {
		errs = multierr.Append(errs, w.Remove(h))
	})
	errs = multierr.Append(errs, w.Flush())
	errs = multierr.Append(errs, s.stopRumble())
	errs = multierr.Append(errs, s.setDrone(true))
	if errs != nil {
		return errs
	}

	if e, ok := w.Entity(s.player); ok {
		e.Position = s.center()
		for _, bh := range e.Behaviors {
			if b, ok := w.Behaviors.Get(bh); ok && b.Kind == component.BehaviorControl {
				b.Control.Remainder = mgl32.Vec2{}
			}
		}
	}
	if b, ok := w.Behaviors.Get(s.emitter); ok {
		b.Emitter.Angle = 0
	}
	if b, ok := w.Behaviors.Get(s.progress); ok {
		b.Progress = component.ProgressState{Duration: b.Progress.Duration}
	}

	s.ctx.Clock.Reset()
	s.state = StatePlaying
	s.round++
	s.ctx.Log.Info("round started", zap.Int("round", s.round))
	return nil
}

// Shutdown removes every entity, releasing all attached resources
func (s *Scene) Shutdown() error {
	return multierr.Append(s.stopRumble(), s.ctx.World.Clear())
}
