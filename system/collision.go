package system

import (
	"github.com/pkg/errors"

	"github.com/lixenwraith/bullet-trial/core"
	"github.com/lixenwraith/bullet-trial/engine"
)

// CollisionHandler runs once per frame in the collision stage
type CollisionHandler func(ctx *engine.Context) error

type namedHandler struct {
	name string
	fn   CollisionHandler
}

// Collision runs registered handlers in registration order
type Collision struct {
	handlers []namedHandler
}

// NewCollision creates an empty collision stage
func NewCollision() *Collision {
	return &Collision{}
}

// Register appends a handler
func (c *Collision) Register(name string, fn CollisionHandler) {
	c.handlers = append(c.handlers, namedHandler{name: name, fn: fn})
}

// Run executes every handler, stopping at the first error
func (c *Collision) Run(ctx *engine.Context) error {
	for _, h := range c.handlers {
		if err := h.fn(ctx); err != nil {
			return errors.Wrapf(err, "collision handler %s", h.name)
		}
	}
	return nil
}

// Contact builds a handler that reports the first entity matching mask touching the subject
// subject is resolved each frame so respawned entities are followed
func Contact(subject func() core.Handle, mask core.TagMask, onHit func(ctx *engine.Context, self, other core.Handle) error) CollisionHandler {
	return func(ctx *engine.Context) error {
		self := subject()
		if self.IsZero() {
			return nil
		}
		other, ok := ctx.World.FirstOverlapping(self, mask)
		if !ok {
			return nil
		}
		return onHit(ctx, self, other)
	}
}
