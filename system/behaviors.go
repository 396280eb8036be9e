package system

import (
	"github.com/pkg/errors"

	"github.com/lixenwraith/bullet-trial/component"
	"github.com/lixenwraith/bullet-trial/core"
	"github.com/lixenwraith/bullet-trial/engine"
)

// Updater advances one behavior of a live entity by the current scaled delta
type Updater func(ctx *engine.Context, h core.Handle, e *component.Entity, b *component.Behavior) error

// Behaviors is the update stage dispatch table, indexed by behavior kind
type Behaviors struct {
	table [component.BehaviorKindCount]Updater
}

// NewBehaviors creates the table with the built-in updaters
// emitter may be nil when no entity carries an emitter behavior
func NewBehaviors(emitter *Emitter) *Behaviors {
	b := &Behaviors{}
	b.Register(component.BehaviorMotion, UpdateMotion)
	b.Register(component.BehaviorControl, UpdateControl)
	b.Register(component.BehaviorProgress, UpdateProgress)
	if emitter != nil {
		b.Register(component.BehaviorEmitter, emitter.Update)
	}
	return b
}

// Register installs or replaces the updater for kind
func (b *Behaviors) Register(kind component.BehaviorKind, fn Updater) {
	if kind == component.BehaviorNone || kind >= component.BehaviorKindCount {
		panic(errors.Errorf("behavior kind %d out of range", kind))
	}
	b.table[kind] = fn
}

// Update visits every live entity in pool order and runs its behaviors in attachment order
// Entities spawned during the stage are first updated next frame
func (b *Behaviors) Update(ctx *engine.Context) error {
	var failed error
	ctx.World.Entities.Scan(func(h core.Handle, e *component.Entity) bool {
		if e.Removed {
			return true
		}
		for i := 0; i < len(e.Behaviors); i++ {
			bh := e.Behaviors[i]
			beh, ok := ctx.World.Behaviors.Get(bh)
			if !ok {
				continue
			}
			fn := b.table[beh.Kind]
			if fn == nil {
				continue
			}
			if err := fn(ctx, h, e, beh); err != nil {
				failed = errors.Wrapf(err, "%s behavior of entity %s", beh.Kind, h)
				return false
			}
			if e.Removed {
				break
			}
		}
		return true
	})
	return failed
}
