package engine

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/bullet-trial/core"
)

func spawnCircle(t *testing.T, w *World, pos mgl32.Vec2, radius float32, tags core.TagMask) core.Handle {
	t.Helper()
	e, err := w.Spawn(pos, tags)
	require.NoError(t, err)
	_, err = w.AttachCollider(e, radius)
	require.NoError(t, err)
	return e
}

func TestFirstOverlappingNoneWhenApart(t *testing.T) {
	w := newTestWorld()
	bullet := w.Tags.MustTag("bullet")
	player := spawnCircle(t, w, mgl32.Vec2{0, 0}, 1, 0)
	spawnCircle(t, w, mgl32.Vec2{10, 0}, 4, bullet)

	_, ok := w.FirstOverlapping(player, bullet)
	assert.False(t, ok)
}

func TestFirstOverlappingRequiresTag(t *testing.T) {
	w := newTestWorld()
	bullet := w.Tags.MustTag("bullet")
	other := w.Tags.MustTag("other")
	player := spawnCircle(t, w, mgl32.Vec2{0, 0}, 1, 0)
	spawnCircle(t, w, mgl32.Vec2{1, 0}, 4, other)

	_, ok := w.FirstOverlapping(player, bullet)
	assert.False(t, ok)

	hit := spawnCircle(t, w, mgl32.Vec2{0, 2}, 4, bullet)
	got, ok := w.FirstOverlapping(player, bullet)
	require.True(t, ok)
	assert.Equal(t, hit, got)
}

func TestFirstOverlappingSlotOrder(t *testing.T) {
	w := newTestWorld()
	bullet := w.Tags.MustTag("bullet")
	player := spawnCircle(t, w, mgl32.Vec2{0, 0}, 1, 0)
	first := spawnCircle(t, w, mgl32.Vec2{2, 0}, 4, bullet)
	spawnCircle(t, w, mgl32.Vec2{0, 2}, 4, bullet)

	got, ok := w.FirstOverlapping(player, bullet)
	require.True(t, ok)
	assert.Equal(t, first, got)

	all := w.AllOverlapping(player, bullet, nil)
	assert.Len(t, all, 2)
	assert.Equal(t, first, all[0])
}

func TestFirstOverlappingTouchingIsNotHit(t *testing.T) {
	w := newTestWorld()
	bullet := w.Tags.MustTag("bullet")
	player := spawnCircle(t, w, mgl32.Vec2{0, 0}, 1, 0)
	spawnCircle(t, w, mgl32.Vec2{5, 0}, 4, bullet)

	_, ok := w.FirstOverlapping(player, bullet)
	assert.False(t, ok)
}

func TestFirstOverlappingSkipsRemovedAndSelf(t *testing.T) {
	w := newTestWorld()
	bullet := w.Tags.MustTag("bullet")
	player := spawnCircle(t, w, mgl32.Vec2{0, 0}, 1, bullet)
	b := spawnCircle(t, w, mgl32.Vec2{1, 0}, 1, bullet)

	require.NoError(t, w.Remove(b))
	_, ok := w.FirstOverlapping(player, bullet)
	assert.False(t, ok, "removed entity and origin never match")
}

func TestFirstOverlappingWithoutOriginCollider(t *testing.T) {
	w := newTestWorld()
	bullet := w.Tags.MustTag("bullet")
	origin, _ := w.Spawn(mgl32.Vec2{}, 0)
	spawnCircle(t, w, mgl32.Vec2{}, 4, bullet)

	_, ok := w.FirstOverlapping(origin, bullet)
	assert.False(t, ok)
}
