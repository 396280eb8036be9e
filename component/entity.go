package component

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/bullet-trial/core"
)

// Attachment is one removal hook: a resource handle and the pool that owns it
type Attachment struct {
	Pool   core.Releaser
	Handle core.Handle
}

// Entity is a logical simulation object referencing pool-allocated resources
type Entity struct {
	Position mgl32.Vec2
	Depth    float32 // Render sort key, higher depth draws first
	Tags     core.TagMask

	Collider  core.Handle   // Zero when the entity has no collider
	Behaviors []core.Handle // Attachment order, visited by the update stage
	Visuals   []core.Handle // Attachment order, drawn by render passes

	// Hooks release every owned resource, in attachment order, exactly once
	Hooks []Attachment

	Removed bool // Hooks already ran; never visited again
	Pending bool // Queued for removal at the next stage boundary
}

// Live reports whether stages may visit the entity
func (e *Entity) Live() bool {
	return !e.Removed
}

// Move offsets the entity position
func (e *Entity) Move(delta mgl32.Vec2) {
	e.Position = e.Position.Add(delta)
}
