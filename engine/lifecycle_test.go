package engine

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/bullet-trial/component"
	"github.com/lixenwraith/bullet-trial/core"
)

// recordingPool counts releases per handle and logs global order
type recordingPool struct {
	name     string
	inner    *Pool[int]
	releases map[core.Handle]int
	order    *[]string
}

func newRecordingPool(id core.PoolID, name string, order *[]string) *recordingPool {
	return &recordingPool{
		name:     name,
		inner:    NewPool[int](id, name, 8),
		releases: make(map[core.Handle]int),
		order:    order,
	}
}

func (p *recordingPool) Name() string { return p.name }

func (p *recordingPool) Release(h core.Handle) error {
	p.releases[h]++
	*p.order = append(*p.order, p.name)
	return p.inner.Destroy(h)
}

func newTestWorld() *World {
	return NewWorld(Capacities{Entities: 16, Colliders: 16, Behaviors: 16, Visuals: 16}, nil)
}

func TestRemoveReleasesEachPoolOnce(t *testing.T) {
	w := newTestWorld()
	var order []string
	a := newRecordingPool(10, "A", &order)
	b := newRecordingPool(11, "B", &order)

	e, err := w.Spawn(mgl32.Vec2{}, 0)
	require.NoError(t, err)
	ha, _ := a.inner.Create(1)
	hb, _ := b.inner.Create(2)
	require.NoError(t, w.Attach(e, a, ha))
	require.NoError(t, w.Attach(e, b, hb))

	require.NoError(t, w.Remove(e))
	assert.Equal(t, 0, a.inner.Count())
	assert.Equal(t, 0, b.inner.Count())
	assert.Equal(t, 1, a.releases[ha])
	assert.Equal(t, 1, b.releases[hb])
	assert.Equal(t, []string{"A", "B"}, order)

	raw, ok := w.Entities.Get(e)
	require.True(t, ok, "slot held until flush")
	assert.True(t, raw.Removed)

	err = w.Remove(e)
	assert.ErrorIs(t, err, core.ErrAlreadyRemoved)
	assert.Equal(t, 1, a.releases[ha], "hook must not fire twice")

	require.NoError(t, w.Flush())
	assert.Equal(t, 0, w.Entities.Count())
	assert.ErrorIs(t, w.Remove(e), core.ErrAlreadyRemoved)
}

func TestHooksRunInAttachmentOrder(t *testing.T) {
	w := newTestWorld()
	var order []string
	pools := []*recordingPool{
		newRecordingPool(10, "sprite", &order),
		newRecordingPool(11, "audio", &order),
		newRecordingPool(12, "extra", &order),
	}

	e, err := w.Spawn(mgl32.Vec2{}, 0)
	require.NoError(t, err)
	_, err = w.AttachCollider(e, 2)
	require.NoError(t, err)
	for _, p := range pools {
		h, _ := p.inner.Create(0)
		require.NoError(t, w.Attach(e, p, h))
	}
	_, err = w.AttachBehavior(e, component.NewMotion(mgl32.Vec2{1, 0}, false))
	require.NoError(t, err)

	ent, _ := w.Entity(e)
	require.Len(t, ent.Hooks, 5)
	assert.Equal(t, "colliders", ent.Hooks[0].Pool.Name())
	assert.Equal(t, "behaviors", ent.Hooks[4].Pool.Name())

	require.NoError(t, w.Remove(e))
	assert.Equal(t, []string{"sprite", "audio", "extra"}, order)
	assert.Equal(t, 0, w.Colliders.Count())
	assert.Equal(t, 0, w.Behaviors.Count())
}

func TestAttachResourcesReleasedByRemove(t *testing.T) {
	w := newTestWorld()
	e, err := w.Spawn(mgl32.Vec2{5, 5}, 0)
	require.NoError(t, err)

	ch, err := w.AttachCollider(e, 4)
	require.NoError(t, err)
	bh, err := w.AttachBehavior(e, component.NewMotion(mgl32.Vec2{0, 1}, true))
	require.NoError(t, err)
	vh, err := w.AttachVisual(e, component.NewCircle(3, 0))
	require.NoError(t, err)

	b, ok := w.Behaviors.Get(bh)
	require.True(t, ok)
	assert.Equal(t, e, b.Owner)

	_, err = w.AttachCollider(e, 1)
	assert.Error(t, err, "second collider rejected")

	require.NoError(t, w.Remove(e))
	assert.False(t, w.Colliders.Alive(ch))
	assert.False(t, w.Behaviors.Alive(bh))
	assert.False(t, w.Visuals.Alive(vh))

	_, ok = w.Entity(e)
	assert.False(t, ok)
	_, err = w.AttachVisual(e, component.NewCircle(1, 0))
	assert.ErrorIs(t, err, core.ErrAlreadyRemoved)
}

func TestQueueRemovalDeferredToFlush(t *testing.T) {
	w := newTestWorld()
	e, _ := w.Spawn(mgl32.Vec2{}, 0)
	_, _ = w.AttachCollider(e, 1)

	require.NoError(t, w.QueueRemoval(e))
	require.NoError(t, w.QueueRemoval(e), "duplicate request collapses")
	assert.Equal(t, 1, w.Pending())

	ent, ok := w.Entity(e)
	require.True(t, ok, "still live until the stage boundary")
	assert.True(t, ent.Pending)
	assert.Equal(t, 1, w.Colliders.Count())

	require.NoError(t, w.Flush())
	assert.Equal(t, 0, w.Colliders.Count())
	assert.Equal(t, 0, w.Entities.Count())
	assert.Equal(t, 0, w.Pending())

	assert.ErrorIs(t, w.QueueRemoval(e), core.ErrAlreadyRemoved)
}

func TestQueuedThenRemovedDirectly(t *testing.T) {
	w := newTestWorld()
	e, _ := w.Spawn(mgl32.Vec2{}, 0)
	require.NoError(t, w.QueueRemoval(e))
	require.NoError(t, w.Remove(e))
	assert.NoError(t, w.Flush())
	assert.Equal(t, 0, w.Entities.Count())
}

// cascadePool queues removal of another entity from inside its hook
type cascadePool struct {
	w      *World
	target core.Handle
	inner  *Pool[int]
}

func (p *cascadePool) Name() string { return "cascade" }
func (p *cascadePool) Release(h core.Handle) error {
	if err := p.w.QueueRemoval(p.target); err != nil {
		return err
	}
	return p.inner.Destroy(h)
}

func TestHookCascadeDrainedInSameFlush(t *testing.T) {
	w := newTestWorld()
	parent, _ := w.Spawn(mgl32.Vec2{}, 0)
	child, _ := w.Spawn(mgl32.Vec2{}, 0)
	_, _ = w.AttachCollider(child, 1)

	cp := &cascadePool{w: w, target: child, inner: NewPool[int](20, "cascade", 1)}
	h, _ := cp.inner.Create(0)
	require.NoError(t, w.Attach(parent, cp, h))

	require.NoError(t, w.QueueRemoval(parent))
	require.NoError(t, w.Flush())

	assert.Equal(t, 0, w.Entities.Count())
	assert.Equal(t, 0, w.Colliders.Count())
}

func TestRemoveDuringTraversal(t *testing.T) {
	w := newTestWorld()
	for i := 0; i < 10; i++ {
		e, err := w.Spawn(mgl32.Vec2{float32(i), 0}, 0)
		require.NoError(t, err)
		_, err = w.AttachCollider(e, 1)
		require.NoError(t, err)
	}

	visited := 0
	w.EachLive(func(h core.Handle, _ *component.Entity) {
		visited++
		require.NoError(t, w.Remove(h))
	})
	assert.Equal(t, 10, visited)
	assert.Equal(t, 0, w.Colliders.Count())
	assert.Equal(t, 0, w.LiveCount())

	require.NoError(t, w.Flush())
	assert.Equal(t, 0, w.Entities.Count())
}

func TestRemovedEntitiesNotVisited(t *testing.T) {
	w := newTestWorld()
	a, _ := w.Spawn(mgl32.Vec2{}, 0)
	b, _ := w.Spawn(mgl32.Vec2{}, 0)

	seen := make(map[core.Handle]int)
	w.EachLive(func(h core.Handle, _ *component.Entity) {
		seen[h]++
		if h == a {
			require.NoError(t, w.Remove(b))
		}
	})
	assert.Equal(t, 1, seen[a])
	assert.Equal(t, 0, seen[b])
}

func TestEachTaggedFilters(t *testing.T) {
	w := newTestWorld()
	bullet := w.Tags.MustTag("bullet")
	bg := w.Tags.MustTag("background")

	e1, _ := w.Spawn(mgl32.Vec2{}, bullet)
	e2, _ := w.Spawn(mgl32.Vec2{}, bg)
	e3, _ := w.Spawn(mgl32.Vec2{}, 0)

	collect := func(include, exclude core.TagMask) []core.Handle {
		var out []core.Handle
		w.EachTagged(include, exclude, func(h core.Handle, _ *component.Entity) {
			out = append(out, h)
		})
		return out
	}

	assert.Equal(t, []core.Handle{e1}, collect(bullet, 0))
	assert.Equal(t, []core.Handle{e1, e3}, collect(0, bg))
	assert.Equal(t, []core.Handle{e1, e2, e3}, collect(0, 0))
}

func TestClearReclaimsEverything(t *testing.T) {
	w := newTestWorld()
	for i := 0; i < 5; i++ {
		e, _ := w.Spawn(mgl32.Vec2{}, 0)
		_, _ = w.AttachVisual(e, component.NewCircle(1, 0))
	}
	require.NoError(t, w.Clear())
	assert.Equal(t, 0, w.Entities.Count())
	assert.Equal(t, 0, w.Visuals.Count())
}

func TestRemovalsCountsEachEntityOnce(t *testing.T) {
	w := newTestWorld()
	a, _ := w.Spawn(mgl32.Vec2{}, 0)
	b, _ := w.Spawn(mgl32.Vec2{}, 0)

	require.NoError(t, w.Remove(a))
	assert.Error(t, w.Remove(a))
	require.NoError(t, w.QueueRemoval(b))
	require.NoError(t, w.QueueRemoval(b))
	require.NoError(t, w.Flush())

	assert.Equal(t, uint64(2), w.Removals())
}
