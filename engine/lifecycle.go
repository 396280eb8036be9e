package engine

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/lixenwraith/bullet-trial/core"
)

// Remove runs the entity's release hooks in attachment order and marks it removed
// The entity slot itself is reclaimed at the next Flush so its Removed flag stays
// observable for the rest of the stage
// Removing twice returns ErrAlreadyRemoved
func (w *World) Remove(h core.Handle) error {
	e, ok := w.Entities.Get(h)
	if !ok || e.Removed {
		return errors.Wrapf(core.ErrAlreadyRemoved, "entity %s", h)
	}

	// Marked before hooks run so a hook cannot re-enter removal of the same entity
	e.Removed = true
	e.Pending = false
	w.removals++
	hooks := e.Hooks
	e.Hooks = nil

	var errs error
	for _, hook := range hooks {
		if err := hook.Pool.Release(hook.Handle); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "entity %s hook %s", h, hook.Pool.Name()))
		}
	}

	e.Collider = core.InvalidHandle
	e.Behaviors = nil
	e.Visuals = nil
	w.graveyard = append(w.graveyard, h)

	if errs != nil {
		w.log.Error("removal hook failed", zap.Stringer("entity", h), zap.Error(errs))
	}
	return errs
}

// QueueRemoval defers removal to the next stage boundary
// Repeated requests within the same stage collapse into one
func (w *World) QueueRemoval(h core.Handle) error {
	e, ok := w.Entities.Get(h)
	if !ok || e.Removed {
		return errors.Wrapf(core.ErrAlreadyRemoved, "queue entity %s", h)
	}
	if e.Pending {
		return nil
	}
	e.Pending = true
	w.queue = append(w.queue, h)
	return nil
}

// Pending returns the number of queued removal requests
func (w *World) Pending() int {
	return len(w.queue)
}

// Flush applies queued removals then reclaims the slots of removed entities
// Hooks that queue further removals are drained in the same flush
func (w *World) Flush() error {
	var errs error

	for i := 0; i < len(w.queue); i++ {
		h := w.queue[i]
		e, ok := w.Entities.Get(h)
		if !ok || e.Removed {
			// Removed directly after being queued
			continue
		}
		errs = multierr.Append(errs, w.Remove(h))
	}
	w.queue = w.queue[:0]

	for _, h := range w.graveyard {
		errs = multierr.Append(errs, w.Entities.Destroy(h))
	}
	w.graveyard = w.graveyard[:0]

	return errs
}

// Despawn aborts a partially built spawn, releasing whatever was attached
// Used when a later pool in the spawn sequence reports ErrFull
func (w *World) Despawn(h core.Handle) error {
	return w.Remove(h)
}

func appendErr(dst, err error) error {
	return multierr.Append(dst, err)
}
