package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockFirstTickIsZero(t *testing.T) {
	tp := NewMockTimeProvider(time.Unix(1000, 0))
	c := NewClock(0)
	c.Tick(tp.Now())
	assert.Equal(t, time.Duration(0), c.Raw())
	assert.Equal(t, time.Duration(0), c.Scaled())
	assert.Equal(t, int64(1), c.Frame())
}

func TestClockScaledAndRaw(t *testing.T) {
	tp := NewMockTimeProvider(time.Unix(1000, 0))
	c := NewClock(0)
	c.Tick(tp.Now())

	tp.Advance(100 * time.Millisecond)
	c.SetRate(0.5)
	c.Tick(tp.Now())
	assert.Equal(t, 100*time.Millisecond, c.Raw())
	assert.Equal(t, 50*time.Millisecond, c.Scaled())
	assert.InDelta(t, 0.05, c.ScaledSeconds(), 1e-6)
	assert.InDelta(t, 0.1, c.RawSeconds(), 1e-6)
}

func TestClockPauseKeepsRawRunning(t *testing.T) {
	tp := NewMockTimeProvider(time.Unix(1000, 0))
	c := NewClock(0)
	c.Tick(tp.Now())

	c.SetRate(0)
	assert.True(t, c.Paused())
	for i := 0; i < 5; i++ {
		tp.Advance(100 * time.Millisecond)
		c.Tick(tp.Now())
	}
	assert.Equal(t, time.Duration(0), c.GameTime())
	assert.Equal(t, 500*time.Millisecond, c.RawTime())

	c.SetRate(1)
	tp.Advance(20 * time.Millisecond)
	c.Tick(tp.Now())
	assert.Equal(t, 20*time.Millisecond, c.GameTime())
}

func TestClockClampsDelta(t *testing.T) {
	tp := NewMockTimeProvider(time.Unix(1000, 0))
	c := NewClock(50 * time.Millisecond)
	c.Tick(tp.Now())
	tp.Advance(2 * time.Second)
	c.Tick(tp.Now())
	assert.Equal(t, 50*time.Millisecond, c.Raw())
}

func TestClockNegativeRateClamped(t *testing.T) {
	c := NewClock(0)
	c.SetRate(-3)
	assert.Equal(t, 0.0, c.Rate())

	c.Reset()
	assert.Equal(t, 1.0, c.Rate())
}
