package engine

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lixenwraith/bullet-trial/component"
	"github.com/lixenwraith/bullet-trial/core"
)

// Pool ids issued by the simulation; external services use the later ids
const (
	PoolEntity core.PoolID = iota + 1
	PoolCollider
	PoolBehavior
	PoolVisual
	PoolSprite
	PoolVoice
)

// Capacities sets the fixed pool sizes, not resizable after construction
type Capacities struct {
	Entities  int
	Colliders int
	Behaviors int
	Visuals   int
}

// World holds the typed pools, the tag vocabulary and the removal bookkeeping
type World struct {
	Entities  *Pool[component.Entity]
	Colliders *Pool[component.Collider]
	Behaviors *Pool[component.Behavior]
	Visuals   *Pool[component.Visual]
	Tags      *TagRegistry

	log *zap.Logger

	queue     []core.Handle // Deferred removal requests
	graveyard []core.Handle // Removed entities awaiting slot reclamation
	removals  uint64
}

// NewWorld creates the pools with the given capacities
func NewWorld(caps Capacities, log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	return &World{
		Entities:  NewPool[component.Entity](PoolEntity, "entities", caps.Entities),
		Colliders: NewPool[component.Collider](PoolCollider, "colliders", caps.Colliders),
		Behaviors: NewPool[component.Behavior](PoolBehavior, "behaviors", caps.Behaviors),
		Visuals:   NewPool[component.Visual](PoolVisual, "visuals", caps.Visuals),
		Tags:      NewTagRegistry(),
		log:       log,
		queue:     make([]core.Handle, 0, 64),
		graveyard: make([]core.Handle, 0, 64),
	}
}

// Spawn creates an entity with no resources attached
func (w *World) Spawn(pos mgl32.Vec2, tags core.TagMask) (core.Handle, error) {
	return w.Entities.Create(component.Entity{Position: pos, Tags: tags})
}

// Entity returns the live entity for h; removed entities are reported as absent
func (w *World) Entity(h core.Handle) (*component.Entity, bool) {
	e, ok := w.Entities.Get(h)
	if !ok || e.Removed {
		return nil, false
	}
	return e, true
}

func (w *World) mustLive(h core.Handle) (*component.Entity, error) {
	e, ok := w.Entity(h)
	if !ok {
		return nil, errors.Wrapf(core.ErrAlreadyRemoved, "entity %s", h)
	}
	return e, nil
}

// Attach registers a release hook for an externally owned resource
// Hooks run in attachment order on removal
func (w *World) Attach(h core.Handle, pool core.Releaser, res core.Handle) error {
	e, err := w.mustLive(h)
	if err != nil {
		return err
	}
	e.Hooks = append(e.Hooks, component.Attachment{Pool: pool, Handle: res})
	return nil
}

// AttachCollider allocates a circle collider for the entity
func (w *World) AttachCollider(h core.Handle, radius float32) (core.Handle, error) {
	e, err := w.mustLive(h)
	if err != nil {
		return core.InvalidHandle, err
	}
	if !e.Collider.IsZero() {
		return core.InvalidHandle, errors.Errorf("entity %s already has a collider", h)
	}
	ch, err := w.Colliders.Create(component.Collider{Owner: h, Radius: radius})
	if err != nil {
		return core.InvalidHandle, err
	}
	e.Collider = ch
	e.Hooks = append(e.Hooks, component.Attachment{Pool: w.Colliders, Handle: ch})
	return ch, nil
}

// AttachBehavior allocates a behavior owned by the entity
func (w *World) AttachBehavior(h core.Handle, b component.Behavior) (core.Handle, error) {
	e, err := w.mustLive(h)
	if err != nil {
		return core.InvalidHandle, err
	}
	b.Owner = h
	bh, err := w.Behaviors.Create(b)
	if err != nil {
		return core.InvalidHandle, err
	}
	e.Behaviors = append(e.Behaviors, bh)
	e.Hooks = append(e.Hooks, component.Attachment{Pool: w.Behaviors, Handle: bh})
	return bh, nil
}

// AttachVisual allocates a visual owned by the entity
func (w *World) AttachVisual(h core.Handle, v component.Visual) (core.Handle, error) {
	e, err := w.mustLive(h)
	if err != nil {
		return core.InvalidHandle, err
	}
	v.Owner = h
	vh, err := w.Visuals.Create(v)
	if err != nil {
		return core.InvalidHandle, err
	}
	e.Visuals = append(e.Visuals, vh)
	e.Hooks = append(e.Hooks, component.Attachment{Pool: w.Visuals, Handle: vh})
	return vh, nil
}

// EachLive visits entities not yet removed, in pool slot order
func (w *World) EachLive(fn func(core.Handle, *component.Entity)) {
	w.Entities.ForEach(func(h core.Handle, e *component.Entity) {
		if !e.Removed {
			fn(h, e)
		}
	})
}

// EachTagged visits live entities matching include (zero = any) and not matching exclude
func (w *World) EachTagged(include, exclude core.TagMask, fn func(core.Handle, *component.Entity)) {
	w.EachLive(func(h core.Handle, e *component.Entity) {
		if include != 0 && !e.Tags.Intersects(include) {
			return
		}
		if e.Tags.Intersects(exclude) {
			return
		}
		fn(h, e)
	})
}

// Removals returns the number of entities removed since the world was created
func (w *World) Removals() uint64 {
	return w.removals
}

// LiveCount returns the number of entities not yet removed
func (w *World) LiveCount() int {
	return w.Entities.Count() - len(w.graveyard)
}

// Clear removes every live entity and reclaims all slots
func (w *World) Clear() error {
	var errs error
	w.EachLive(func(h core.Handle, _ *component.Entity) {
		errs = appendErr(errs, w.Remove(h))
	})
	return appendErr(errs, w.Flush())
}
