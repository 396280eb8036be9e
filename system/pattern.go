package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Shot is one emission computed by a pattern
type Shot struct {
	Offset   mgl32.Vec2 // From the emitter position
	Velocity mgl32.Vec2 // Units per scaled second
	Angle    float32    // Emitter angle for the next emission
}

// Pattern computes emissions; angle in radians, t is accumulated game time, dt the scaled delta
type Pattern interface {
	Next(name string, angle, t, dt float32) (Shot, error)
}

// Spiral is the native fallback pattern: bullets leave a ring and spin against it,
// getting faster as the game goes on
type Spiral struct {
	Radius    float32
	BaseSpeed float32
	Accel     float32 // Speed gained per second of game time
	Spin      float32 // Radians per scaled second
}

// DefaultSpiral matches the stock arena layout
func DefaultSpiral() Spiral {
	return Spiral{Radius: 120, BaseSpeed: 50, Accel: 5, Spin: 100}
}

// Next implements Pattern
func (s Spiral) Next(_ string, angle, t, dt float32) (Shot, error) {
	return Shot{
		Offset:   angleToVector(angle, s.Radius),
		Velocity: angleToVector(-angle, s.BaseSpeed+s.Accel*t),
		Angle:    angle + dt*s.Spin,
	}, nil
}

func angleToVector(angle, length float32) mgl32.Vec2 {
	sin, cos := math.Sincos(float64(angle))
	return mgl32.Vec2{float32(cos) * length, float32(sin) * length}
}
