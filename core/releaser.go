package core

// Releaser is the type-erased release side of a pool
// Lets the lifecycle coordinator free resources without knowing their value type
type Releaser interface {
	// Name identifies the pool in logs and errors
	Name() string

	// Release frees the slot addressed by h
	// Stale or double release returns ErrAlreadyRemoved
	Release(h Handle) error
}
