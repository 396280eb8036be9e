package engine

import "time"

var (
	_ TimeProvider = (*MonotonicTimeProvider)(nil)
	_ TimeProvider = (*MockTimeProvider)(nil)
)

// MockTimeProvider is a manually stepped wall clock for frame-driver tests
// Not synchronized; step it from the goroutine that runs frames
type MockTimeProvider struct {
	now  time.Time
	step time.Duration
}

// NewMockTimeProvider starts at start; each Now call advances by the frame step when one is set
func NewMockTimeProvider(start time.Time) *MockTimeProvider {
	return &MockTimeProvider{now: start}
}

// SetStep makes every Now call advance time by d, simulating a fixed frame rate
func (m *MockTimeProvider) SetStep(d time.Duration) {
	m.step = d
}

// Now returns the mocked time, then advances it by the frame step
func (m *MockTimeProvider) Now() time.Time {
	t := m.now
	m.now = m.now.Add(m.step)
	return t
}

// Advance moves the clock forward by d
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.now = m.now.Add(d)
}
