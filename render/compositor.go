package render

import (
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lixenwraith/bullet-trial/component"
	"github.com/lixenwraith/bullet-trial/core"
	"github.com/lixenwraith/bullet-trial/engine"
)

// TargetSpec declares an offscreen target
type TargetSpec struct {
	Name   string
	Width  int
	Height int
}

// drawItem is a selected entity queued for drawing within a pass
type drawItem struct {
	entity *component.Entity
	depth  float32
}

// Compositor executes the ordered passes once per frame
type Compositor struct {
	passes  []*Pass
	byID    map[string]*Pass
	targets map[string]*Target
	effects Effects
	backend Backend
	log     *zap.Logger

	items   []drawItem
	skipped int
	onPass  func(p *Pass)
}

// Validate checks a pass graph without building it
// Every sampled target must be written by a pass with a strictly smaller order
func Validate(passes []Pass, targets []TargetSpec, effects Effects) error {
	declared := make(map[string]bool, len(targets))
	for _, t := range targets {
		if t.Name == "" || t.Name == Framebuffer {
			return errors.Errorf("target name %q is reserved or empty", t.Name)
		}
		if declared[t.Name] {
			return errors.Errorf("target %q declared twice", t.Name)
		}
		if t.Width <= 0 || t.Height <= 0 {
			return errors.Errorf("target %q has invalid size %dx%d", t.Name, t.Width, t.Height)
		}
		declared[t.Name] = true
	}

	ids := make(map[string]bool, len(passes))
	orders := make(map[int]string, len(passes))
	for _, p := range passes {
		if p.ID == "" {
			return errors.New("pass with empty id")
		}
		if ids[p.ID] {
			return errors.Errorf("pass %q declared twice", p.ID)
		}
		ids[p.ID] = true
		if other, ok := orders[p.Order]; ok {
			return errors.Errorf("passes %q and %q share order %d", other, p.ID, p.Order)
		}
		orders[p.Order] = p.ID
		if _, ok := effects[p.Effect]; !ok {
			return errors.Errorf("pass %q uses unknown effect %q", p.ID, p.Effect)
		}
		if p.Target != Framebuffer && !declared[p.Target] {
			return errors.Errorf("pass %q writes undeclared target %q", p.ID, p.Target)
		}
	}

	sorted := sortedPasses(passes)
	written := make(map[string]bool, len(targets))
	for _, p := range sorted {
		for _, r := range p.Reads {
			switch {
			case r == Framebuffer:
				return errors.Wrapf(core.ErrUnresolvedDependency, "pass %q samples the framebuffer", p.ID)
			case !declared[r]:
				return errors.Errorf("pass %q samples undeclared target %q", p.ID, r)
			case r == p.Target:
				return errors.Wrapf(core.ErrUnresolvedDependency, "pass %q samples its own target %q", p.ID, r)
			case !written[r]:
				return errors.Wrapf(core.ErrUnresolvedDependency, "pass %q samples %q before any pass writes it", p.ID, r)
			}
		}
		written[p.Target] = true
	}
	return nil
}

func sortedPasses(passes []Pass) []*Pass {
	out := make([]*Pass, len(passes))
	for i := range passes {
		p := passes[i]
		out[i] = &p
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// NewCompositor validates the pass graph and allocates its offscreen targets
func NewCompositor(backend Backend, targets []TargetSpec, passes []Pass, effects Effects, log *zap.Logger) (*Compositor, error) {
	if effects == nil {
		effects = DefaultEffects()
	}
	if err := Validate(passes, targets, effects); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	c := &Compositor{
		passes:  sortedPasses(passes),
		byID:    make(map[string]*Pass, len(passes)),
		targets: make(map[string]*Target, len(targets)+1),
		effects: effects,
		backend: backend,
		log:     log,
		items:   make([]drawItem, 0, 256),
	}
	for _, p := range c.passes {
		c.byID[p.ID] = p
	}
	for _, t := range targets {
		c.targets[t.Name] = NewTarget(t.Name, t.Width, t.Height)
	}
	c.targets[Framebuffer] = backend.Framebuffer()
	return c, nil
}

// Pass returns the named pass for per-frame adjustment such as camera rescaling
func (c *Compositor) Pass(id string) (*Pass, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Target returns a declared target or the framebuffer
func (c *Compositor) Target(name string) (*Target, bool) {
	t, ok := c.targets[name]
	return t, ok
}

// Passes returns the pass ids in execution order
func (c *Compositor) Passes() []string {
	ids := make([]string, len(c.passes))
	for i, p := range c.passes {
		ids[i] = p.ID
	}
	return ids
}

// OnPass registers an observer invoked after each pass resolves
func (c *Compositor) OnPass(fn func(p *Pass)) {
	c.onPass = fn
}

// Skipped returns the number of visuals not drawn during the last Execute
func (c *Compositor) Skipped() int {
	return c.skipped
}

// Execute runs every pass in ascending order against the world
func (c *Compositor) Execute(ctx *engine.Context) {
	c.skipped = 0
	c.targets[Framebuffer] = c.backend.Framebuffer()
	for _, t := range c.targets {
		t.invalidate()
	}

	for _, p := range c.passes {
		target := c.targets[p.Target]
		if !p.Clear.Discard {
			target.Clear(p.Clear.Style)
		}

		cv := c.backend.BeginPass(target, p.Camera, c.effects[p.Effect])
		// Keep CenterOrigin results so callers observe the fitted camera
		p.Camera = cv.Camera()

		c.items = c.items[:0]
		ctx.World.EachLive(func(_ core.Handle, e *component.Entity) {
			if p.Filter.Match(e.Tags) && len(e.Visuals) > 0 {
				c.items = append(c.items, drawItem{entity: e, depth: e.Depth})
			}
		})
		// Larger depth is farther away and drawn first
		sort.SliceStable(c.items, func(i, j int) bool { return c.items[i].depth > c.items[j].depth })

		for _, it := range c.items {
			for _, vh := range it.entity.Visuals {
				v, ok := ctx.World.Visuals.Get(vh)
				if !ok {
					continue
				}
				if !c.drawVisual(cv, ctx, p, it.entity, v) {
					c.skipped++
				}
			}
		}

		c.backend.Submit()
		c.backend.Resolve(target)
		if c.onPass != nil {
			c.onPass(p)
		}
	}

	if c.skipped > 0 {
		c.log.Debug("visuals skipped", zap.Int("count", c.skipped))
	}
}
