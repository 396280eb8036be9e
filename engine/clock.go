package engine

import "time"

// Clock produces the two per-frame deltas
// Scaled follows the settable rate (0 pauses game state); raw always tracks wall time
type Clock struct {
	rate     float64
	maxDelta time.Duration

	last    time.Time
	started bool

	raw    time.Duration
	scaled time.Duration

	rawTotal  time.Duration
	gameTotal time.Duration
	frames    int64
}

// NewClock creates a clock at rate 1
// maxDelta clamps raw frame time so a stalled frame cannot teleport entities
func NewClock(maxDelta time.Duration) *Clock {
	return &Clock{rate: 1, maxDelta: maxDelta}
}

// Tick recomputes both deltas once per frame, before the update stage
// The first tick yields zero deltas
func (c *Clock) Tick(now time.Time) {
	if !c.started {
		c.started = true
		c.last = now
		c.raw, c.scaled = 0, 0
		c.frames++
		return
	}

	raw := now.Sub(c.last)
	c.last = now
	if raw < 0 {
		raw = 0
	}
	if c.maxDelta > 0 && raw > c.maxDelta {
		raw = c.maxDelta
	}

	c.raw = raw
	c.scaled = time.Duration(float64(raw) * c.rate)
	c.rawTotal += c.raw
	c.gameTotal += c.scaled
	c.frames++
}

// SetRate sets the time scale; negative rates clamp to 0
// Takes effect on the next Tick
func (c *Clock) SetRate(rate float64) {
	if rate < 0 {
		rate = 0
	}
	c.rate = rate
}

func (c *Clock) Rate() float64           { return c.rate }
func (c *Clock) Paused() bool            { return c.rate == 0 }
func (c *Clock) Raw() time.Duration      { return c.raw }
func (c *Clock) Scaled() time.Duration   { return c.scaled }
func (c *Clock) RawTime() time.Duration  { return c.rawTotal }
func (c *Clock) GameTime() time.Duration { return c.gameTotal }
func (c *Clock) Frame() int64            { return c.frames }

// ScaledSeconds returns the scaled delta in seconds for simulation math
func (c *Clock) ScaledSeconds() float32 { return float32(c.scaled.Seconds()) }

// RawSeconds returns the raw delta in seconds for pause-immune timers
func (c *Clock) RawSeconds() float32 { return float32(c.raw.Seconds()) }

// Reset restarts game time at rate 1; raw time keeps accumulating
func (c *Clock) Reset() {
	c.rate = 1
	c.gameTotal = 0
}
