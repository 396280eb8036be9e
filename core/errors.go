package core

import "github.com/pkg/errors"

// Error taxonomy shared by pools, the lifecycle coordinator and the compositor
// Callers wrap with context and test with errors.Is
var (
	// ErrFull is returned by Create when the pool is at capacity; spawners skip the spawn
	ErrFull = errors.New("pool full")

	// ErrAlreadyRemoved signals double removal or double destroy, a lifecycle bug
	ErrAlreadyRemoved = errors.New("already removed")

	// ErrForeignHandle signals a handle released into a pool that did not issue it
	ErrForeignHandle = errors.New("handle from another pool")

	// ErrCapacityExceeded signals tag vocabulary overflow
	ErrCapacityExceeded = errors.New("tag capacity exceeded")

	// ErrUnresolvedDependency signals a render pass sampling a target not yet produced
	ErrUnresolvedDependency = errors.New("unresolved render dependency")
)

// IsFatal reports whether err must stop the simulation
// Only pool exhaustion is recoverable
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrFull)
}
