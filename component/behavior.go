package component

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/bullet-trial/core"
)

// BehaviorKind selects the update routine for a behavior
// Closed set; dispatch is a table indexed by kind
type BehaviorKind uint8

const (
	BehaviorNone BehaviorKind = iota
	BehaviorMotion
	BehaviorControl
	BehaviorEmitter
	BehaviorProgress
	BehaviorKindCount
)

var behaviorNames = [...]string{"none", "motion", "control", "emitter", "progress"}

func (k BehaviorKind) String() string {
	if int(k) < len(behaviorNames) {
		return behaviorNames[k]
	}
	return "unknown"
}

// MotionState moves the owner at constant velocity (units per scaled second)
type MotionState struct {
	Velocity mgl32.Vec2
	// Cull queues the owner for removal once it leaves the arena
	Cull bool
}

// ControlState drives the owner from an input device with sub-unit remainder
type ControlState struct {
	Device    int
	Speed     float32
	Deadzone  float32
	Remainder mgl32.Vec2
}

// EmitterState spawns bullets along a scripted pattern
type EmitterState struct {
	Pattern string
	Angle   float32
	Emitted uint64
	Skipped uint64
}

// ProgressState fills from 0 to 1 over Duration scaled seconds
type ProgressState struct {
	Value    float32
	Duration float32
	Done     bool
}

// Behavior is a tagged variant over the fixed set of update routines
// Only the state matching Kind is meaningful
type Behavior struct {
	Kind  BehaviorKind
	Owner core.Handle

	Motion   MotionState
	Control  ControlState
	Emitter  EmitterState
	Progress ProgressState
}

// NewMotion creates a constant-velocity behavior
func NewMotion(velocity mgl32.Vec2, cull bool) Behavior {
	return Behavior{Kind: BehaviorMotion, Motion: MotionState{Velocity: velocity, Cull: cull}}
}

// NewControl creates an input-driven behavior
func NewControl(device int, speed, deadzone float32) Behavior {
	return Behavior{Kind: BehaviorControl, Control: ControlState{Device: device, Speed: speed, Deadzone: deadzone}}
}

// NewEmitter creates a pattern emitter
func NewEmitter(pattern string) Behavior {
	return Behavior{Kind: BehaviorEmitter, Emitter: EmitterState{Pattern: pattern}}
}

// NewProgress creates a progress meter
func NewProgress(duration float32) Behavior {
	return Behavior{Kind: BehaviorProgress, Progress: ProgressState{Duration: duration}}
}
