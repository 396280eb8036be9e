package asset

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/bullet-trial/core"
)

const testBank = `
sprites:
  blink:
    default: loop
    clips:
      loop:
        frames: "ab"
        delay: 10ms
        loop: true
      once:
        frames: "xyz"
        delay: 10ms
        goto: loop
`

func newTestService(t *testing.T, capacity int) *Service {
	t.Helper()
	bank, err := ParseBank([]byte(testBank))
	require.NoError(t, err)
	return NewService(bank, capacity, nil)
}

func TestDefaultBankParses(t *testing.T) {
	bank, err := DefaultBank()
	require.NoError(t, err)
	assert.Contains(t, bank.Names(), "blink")
}

func TestParseBankRejectsBadClips(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", "sprites: {}"},
		{"no frames", "sprites: {a: {clips: {c: {frames: '', delay: 1ms}}}}"},
		{"no delay", "sprites: {a: {clips: {c: {frames: 'x'}}}}"},
		{"bad goto", "sprites: {a: {clips: {c: {frames: 'x', delay: 1ms, goto: d}}}}"},
		{"bad default", "sprites: {a: {default: d, clips: {c: {frames: 'x', delay: 1ms}}}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBank([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestCreateStartsDefaultClip(t *testing.T) {
	s := newTestService(t, 2)
	h, err := s.CreateVisual("blink")
	require.NoError(t, err)
	g, ok := s.Glyph(h)
	require.True(t, ok)
	assert.Equal(t, 'a', g)

	s.Advance(10 * time.Millisecond)
	g, _ = s.Glyph(h)
	assert.Equal(t, 'b', g)

	s.Advance(10 * time.Millisecond)
	g, _ = s.Glyph(h)
	assert.Equal(t, 'a', g, "looping clip wraps")

	_, err = s.CreateVisual("missing")
	assert.Error(t, err)
}

func TestPoolExhaustionAndRelease(t *testing.T) {
	s := newTestService(t, 1)
	h, err := s.CreateVisual("blink")
	require.NoError(t, err)
	_, err = s.CreateVisual("blink")
	assert.True(t, errors.Is(err, core.ErrFull))

	require.NoError(t, s.Release(h))
	assert.Equal(t, 0, s.Count())
	_, ok := s.Glyph(h)
	assert.False(t, ok)
	assert.Error(t, s.Release(h))
}

func TestOnFinishAndGoto(t *testing.T) {
	s := newTestService(t, 2)
	h, _ := s.CreateVisual("blink")
	require.NoError(t, s.Play(h, "once"))

	finished := 0
	s.OnFinish(h, func() { finished++ })
	s.Advance(25 * time.Millisecond)
	g, _ := s.Glyph(h)
	assert.Equal(t, 'z', g)
	assert.Equal(t, 0, finished)

	s.Advance(10 * time.Millisecond)
	assert.Equal(t, 1, finished)
	clip, _ := s.Clip(h)
	assert.Equal(t, "loop", clip)

	assert.Error(t, s.Play(h, "nope"))
}

func TestReleaseFromFinishCallback(t *testing.T) {
	s := newTestService(t, 2)
	h, _ := s.CreateVisual("blink")
	require.NoError(t, s.Play(h, "once"))
	s.OnFinish(h, func() { require.NoError(t, s.Release(h)) })

	s.Advance(50 * time.Millisecond)
	assert.Equal(t, 0, s.Count())
}
