package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

const sampleRate = beep.SampleRate(48000)

// Track names understood by PlayLoop
const (
	TrackDrone  = "drone"
	TrackRumble = "rumble"
)

// trackFactory builds a fresh endless streamer for one voice
type trackFactory func(sr beep.SampleRate) beep.Streamer

func defaultTracks() map[string]trackFactory {
	return map[string]trackFactory{
		TrackDrone:  func(sr beep.SampleRate) beep.Streamer { return newDroneGenerator(sr) },
		TrackRumble: func(sr beep.SampleRate) beep.Streamer { return newRumbleGenerator(sr) },
	}
}

// droneGenerator is a slow low sweep under the playfield
type droneGenerator struct {
	sr     beep.SampleRate
	pos    int
	period int
}

func newDroneGenerator(sr beep.SampleRate) *droneGenerator {
	return &droneGenerator{sr: sr, period: sr.N(4 * time.Second)}
}

func (g *droneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		cycle := float64(g.pos%g.period) / float64(g.period)
		freq := 55 + 25*math.Sin(cycle*2*math.Pi)
		amp := 0.08 * (0.6 + 0.4*math.Sin(cycle*math.Pi))
		v := amp * (math.Sin(2*math.Pi*freq*t) + 0.3*math.Sin(2*math.Pi*freq*1.5*t))

		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *droneGenerator) Err() error { return nil }

// rumbleGenerator is filtered noise over a low tone, the hit feedback
type rumbleGenerator struct {
	sr   beep.SampleRate
	pos  int
	seed int64
	last float64
}

func newRumbleGenerator(sr beep.SampleRate) *rumbleGenerator {
	return &rumbleGenerator{sr: sr, seed: 0x5eed}
}

func (g *rumbleGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(g.seed)/float64(0x7fffffff)*2 - 1
		// One-pole low-pass
		g.last += 0.05 * (noise - g.last)

		v := 0.4*g.last + 0.25*math.Sin(2*math.Pi*45*t)
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *rumbleGenerator) Err() error { return nil }
