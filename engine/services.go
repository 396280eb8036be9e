package engine

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/bullet-trial/core"
)

// VisualService creates and animates sprite instances owned by entities
// Instances are pool-allocated by the service and released through core.Releaser
type VisualService interface {
	core.Releaser
	CreateVisual(kind string) (core.Handle, error)
	Play(h core.Handle, clip string) error
	OnFinish(h core.Handle, fn func())
	Advance(dt time.Duration)
	Glyph(h core.Handle) (rune, bool)
}

// AudioService plays looped tracks whose handles may be attached to entities
type AudioService interface {
	core.Releaser
	PlayLoop(track string) (core.Handle, error)
	Pause(h core.Handle) error
	Resume(h core.Handle) error
	SetParam(h core.Handle, name string, value float64) error
}

// InputService exposes polled device state for the current frame
type InputService interface {
	Axis(device int) mgl32.Vec2
	ButtonPressed(device int, id string) bool
	ButtonHeld(device int, id string) bool
}
