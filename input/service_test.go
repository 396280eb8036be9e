package input

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(k tcell.Key, r rune) *tcell.EventKey {
	return tcell.NewEventKey(k, r, tcell.ModNone)
}

func TestPressedIsOneFrameEdge(t *testing.T) {
	s := NewService(nil, 0)
	now := time.Unix(0, 0)
	s.BeginFrame(now)

	assert.True(t, s.HandleEvent(key(tcell.KeyRune, ' ')))
	assert.False(t, s.ButtonPressed(Keyboard, ButtonConfirm), "not visible until next frame")

	now = now.Add(16 * time.Millisecond)
	s.BeginFrame(now)
	assert.True(t, s.ButtonPressed(Keyboard, ButtonConfirm))
	assert.True(t, s.ButtonHeld(Keyboard, ButtonConfirm))
	assert.False(t, s.ButtonPressed(1, ButtonConfirm))

	now = now.Add(16 * time.Millisecond)
	s.BeginFrame(now)
	assert.False(t, s.ButtonPressed(Keyboard, ButtonConfirm))
	assert.True(t, s.ButtonHeld(Keyboard, ButtonConfirm))

	s.BeginFrame(now.Add(time.Second))
	assert.False(t, s.ButtonHeld(Keyboard, ButtonConfirm))
}

func TestAxisCombinesHeldDirections(t *testing.T) {
	s := NewService(nil, 100*time.Millisecond)
	now := time.Unix(0, 0)
	s.BeginFrame(now)

	s.HandleEvent(key(tcell.KeyRight, 0))
	s.BeginFrame(now.Add(10 * time.Millisecond))
	assert.Equal(t, mgl32.Vec2{1, 0}, s.Axis(Keyboard))

	s.HandleEvent(key(tcell.KeyRune, 'w'))
	s.BeginFrame(now.Add(20 * time.Millisecond))
	a := s.Axis(Keyboard)
	assert.InDelta(t, 1, a.Len(), 1e-5)
	assert.Greater(t, a.X(), float32(0))
	assert.Less(t, a.Y(), float32(0))

	assert.Equal(t, mgl32.Vec2{}, s.Axis(3))
	s.BeginFrame(now.Add(time.Second))
	assert.Equal(t, mgl32.Vec2{}, s.Axis(Keyboard))
}

func TestHoldStartsAtConsumingFrame(t *testing.T) {
	s := NewService(nil, 100*time.Millisecond)
	now := time.Unix(0, 0)
	s.BeginFrame(now)

	// Event queued long after the previous frame began
	s.HandleEvent(key(tcell.KeyLeft, 0))
	now = now.Add(90 * time.Millisecond)
	s.BeginFrame(now)
	assert.Equal(t, mgl32.Vec2{-1, 0}, s.Axis(Keyboard))

	s.BeginFrame(now.Add(80 * time.Millisecond))
	assert.Equal(t, mgl32.Vec2{-1, 0}, s.Axis(Keyboard), "hold window counts from the frame that consumed the key")

	s.BeginFrame(now.Add(120 * time.Millisecond))
	assert.Equal(t, mgl32.Vec2{}, s.Axis(Keyboard))
}

func TestUnboundAndResize(t *testing.T) {
	s := NewService(nil, 0)
	assert.False(t, s.HandleEvent(key(tcell.KeyRune, 'z')))

	var w, h int
	s.OnResize(func(nw, nh int) { w, h = nw, nh })
	assert.True(t, s.HandleEvent(tcell.NewEventResize(80, 24)))
	assert.Equal(t, 80, w)
	assert.Equal(t, 24, h)
}

func TestDrainAndPump(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	defer screen.Fini()

	quit := make(chan struct{})
	defer close(quit)
	events := Pump(screen, quit)
	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	s := NewService(nil, 0)
	now := time.Unix(0, 0)
	s.BeginFrame(now)
	require.Eventually(t, func() bool {
		s.Drain(events)
		return s.pending[ButtonQuit]
	}, time.Second, 5*time.Millisecond)

	s.BeginFrame(now.Add(time.Millisecond))
	assert.True(t, s.ButtonPressed(Keyboard, ButtonQuit))
}
