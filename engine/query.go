package engine

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/bullet-trial/component"
	"github.com/lixenwraith/bullet-trial/core"
)

// FirstOverlapping returns the first live entity whose tags intersect mask and whose
// collider overlaps origin's collider, in entity pool slot order
// Linear scan over all entities per query; adequate for low thousands of colliders
func (w *World) FirstOverlapping(origin core.Handle, mask core.TagMask) (core.Handle, bool) {
	center, radius, ok := w.colliderOf(origin)
	if !ok {
		return core.InvalidHandle, false
	}

	hit := core.InvalidHandle
	w.Entities.Scan(func(h core.Handle, e *component.Entity) bool {
		if w.overlaps(origin, center, radius, mask, h, e) {
			hit = h
			return false
		}
		return true
	})
	return hit, !hit.IsZero()
}

// AllOverlapping appends every match to dst, same ordering and cost as FirstOverlapping
func (w *World) AllOverlapping(origin core.Handle, mask core.TagMask, dst []core.Handle) []core.Handle {
	center, radius, ok := w.colliderOf(origin)
	if !ok {
		return dst
	}
	w.Entities.ForEach(func(h core.Handle, e *component.Entity) {
		if w.overlaps(origin, center, radius, mask, h, e) {
			dst = append(dst, h)
		}
	})
	return dst
}

func (w *World) colliderOf(h core.Handle) (center mgl32.Vec2, radius float32, ok bool) {
	e, live := w.Entity(h)
	if !live || e.Collider.IsZero() {
		return center, 0, false
	}
	c, found := w.Colliders.Get(e.Collider)
	if !found {
		return center, 0, false
	}
	return c.Center(e.Position), c.Radius, true
}

func (w *World) overlaps(origin core.Handle, center mgl32.Vec2, radius float32, mask core.TagMask, h core.Handle, e *component.Entity) bool {
	if h == origin || e.Removed || e.Collider.IsZero() || !e.Tags.Intersects(mask) {
		return false
	}
	c, ok := w.Colliders.Get(e.Collider)
	if !ok {
		return false
	}
	return component.CirclesOverlap(center, radius, c.Center(e.Position), c.Radius)
}
