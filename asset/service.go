package asset

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lixenwraith/bullet-trial/core"
	"github.com/lixenwraith/bullet-trial/engine"
)

var _ engine.VisualService = (*Service)(nil)

// instance is a playing sprite
type instance struct {
	sprite   *SpriteDef
	kind     string
	clip     *ClipDef
	clipName string
	frame    int
	elapsed  time.Duration
	finished bool
	onFinish func()
}

// Service allocates sprite instances from a fixed pool and animates them
// Instances are released through the entity removal hooks
type Service struct {
	bank *Bank
	pool *engine.Pool[instance]
	log  *zap.Logger
}

// NewService creates a sprite service with room for capacity live instances
func NewService(bank *Bank, capacity int, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		bank: bank,
		pool: engine.NewPool[instance](engine.PoolSprite, "sprites", capacity),
		log:  log,
	}
}

// Name implements core.Releaser
func (s *Service) Name() string { return s.pool.Name() }

// Count returns the number of live instances
func (s *Service) Count() int { return s.pool.Count() }

// CreateVisual allocates an instance of the named sprite and starts its default clip
func (s *Service) CreateVisual(kind string) (core.Handle, error) {
	def, ok := s.bank.Sprites[kind]
	if !ok {
		return core.InvalidHandle, errors.Errorf("unknown sprite %q", kind)
	}
	h, err := s.pool.Create(instance{sprite: def, kind: kind})
	if err != nil {
		return core.InvalidHandle, err
	}
	if def.Default != "" {
		inst, _ := s.pool.Get(h)
		inst.start(def.Default)
	}
	return h, nil
}

// Play restarts the instance on the named clip
func (s *Service) Play(h core.Handle, clip string) error {
	inst, ok := s.pool.Get(h)
	if !ok {
		return errors.Wrapf(core.ErrAlreadyRemoved, "sprite %s", h)
	}
	if _, ok := inst.sprite.Clips[clip]; !ok {
		return errors.Errorf("sprite %q has no clip %q", inst.kind, clip)
	}
	inst.start(clip)
	return nil
}

// OnFinish sets the callback run when a non-looping clip ends
func (s *Service) OnFinish(h core.Handle, fn func()) {
	if inst, ok := s.pool.Get(h); ok {
		inst.onFinish = fn
	}
}

// Advance steps every playing instance by dt
func (s *Service) Advance(dt time.Duration) {
	if dt <= 0 {
		return
	}
	s.pool.ForEach(func(_ core.Handle, inst *instance) {
		inst.advance(dt)
	})
}

// Glyph returns the rune of the current frame
func (s *Service) Glyph(h core.Handle) (rune, bool) {
	inst, ok := s.pool.Get(h)
	if !ok || inst.clip == nil {
		return 0, false
	}
	return inst.clip.glyphs[inst.frame], true
}

// Clip returns the name of the playing clip
func (s *Service) Clip(h core.Handle) (string, bool) {
	inst, ok := s.pool.Get(h)
	if !ok {
		return "", false
	}
	return inst.clipName, true
}

// Release implements core.Releaser
func (s *Service) Release(h core.Handle) error {
	return s.pool.Release(h)
}

func (i *instance) start(clip string) {
	i.clip = i.sprite.Clips[clip]
	i.clipName = clip
	i.frame = 0
	i.elapsed = 0
	i.finished = false
}

func (i *instance) advance(dt time.Duration) {
	if i.clip == nil || i.finished {
		return
	}
	i.elapsed += dt
	for i.elapsed >= i.clip.Delay {
		i.elapsed -= i.clip.Delay
		i.frame++
		if i.frame < len(i.clip.glyphs) {
			continue
		}
		if i.clip.Loop {
			i.frame = 0
			continue
		}

		i.frame = len(i.clip.glyphs) - 1
		i.finished = true
		next := i.clip.Goto
		if fn := i.onFinish; fn != nil {
			fn()
		}
		// Callback released the instance
		if i.sprite == nil {
			return
		}
		if next != "" {
			i.start(next)
		}
		return
	}
}
