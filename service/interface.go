package service

// Service defines the lifecycle interface for infrastructure subsystems
// Services own long-lived resources: the terminal screen, the audio device, the pattern VM
//
// Lifecycle:
//  1. Construction
//  2. Start() - acquire devices, launch library goroutines
//  3. [frame loop]
//  4. Stop() - release resources
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must Start before this one
	Dependencies() []string

	// Start acquires the service's resources
	Start() error

	// Stop releases resources; must be idempotent
	Stop() error
}

// Func adapts plain functions to Service
type Func struct {
	ID      string
	Deps    []string
	OnStart func() error
	OnStop  func() error
}

func (f *Func) Name() string           { return f.ID }
func (f *Func) Dependencies() []string { return f.Deps }

func (f *Func) Start() error {
	if f.OnStart == nil {
		return nil
	}
	return f.OnStart()
}

func (f *Func) Stop() error {
	if f.OnStop == nil {
		return nil
	}
	return f.OnStop()
}
