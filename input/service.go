package input

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/bullet-trial/core"
	"github.com/lixenwraith/bullet-trial/engine"
)

var _ engine.InputService = (*Service)(nil)

// DefaultHold is how long a key counts as held after its last event
// Terminals report no key release, only the auto-repeat stream
const DefaultHold = 180 * time.Millisecond

// Service turns terminal key events into per-frame device state
type Service struct {
	table *KeyTable
	hold  time.Duration
	now   time.Time

	lastSeen map[string]time.Time // Frame time that last consumed the key
	pending  map[string]bool // Edges since the last BeginFrame
	pressed  map[string]bool // Edges visible during the current frame

	onResize func(w, h int)
}

// NewService creates an input service over table; nil uses the default bindings
func NewService(table *KeyTable, hold time.Duration) *Service {
	if table == nil {
		table = DefaultKeyTable()
	}
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Service{
		table:    table,
		hold:     hold,
		lastSeen: make(map[string]time.Time),
		pending:  make(map[string]bool),
		pressed:  make(map[string]bool),
	}
}

// OnResize registers the handler for terminal resize events
func (s *Service) OnResize(fn func(w, h int)) {
	s.onResize = fn
}

// HandleEvent records one terminal event, returning false for unbound input
func (s *Service) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		b, ok := s.table.Resolve(ev)
		if !ok {
			return false
		}
		s.pending[b.ID] = true
		return true
	case *tcell.EventResize:
		if s.onResize != nil {
			w, h := ev.Size()
			s.onResize(w, h)
		}
		return true
	}
	return false
}

// Drain handles every event queued on ch without blocking
func (s *Service) Drain(ch <-chan tcell.Event) {
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			s.HandleEvent(ev)
		default:
			return
		}
	}
}

// BeginFrame publishes the edges gathered since the previous frame
// Keys seen since then are stamped with now, the time of the frame that consumes them
func (s *Service) BeginFrame(now time.Time) {
	s.now = now
	for id := range s.pending {
		s.lastSeen[id] = now
	}
	s.pressed, s.pending = s.pending, s.pressed
	clear(s.pending)
}

// Axis returns the movement direction for device, at most unit length
func (s *Service) Axis(device int) mgl32.Vec2 {
	if device != Keyboard {
		return mgl32.Vec2{}
	}
	var v mgl32.Vec2
	for _, d := range [...]Binding{dirUp, dirDown, dirLeft, dirRight} {
		if s.held(d.ID) {
			v = v.Add(d.Dir)
		}
	}
	if l := v.Len(); l > 1 {
		v = v.Mul(1 / l)
	}
	return v
}

// ButtonPressed reports a press received since the previous frame
func (s *Service) ButtonPressed(device int, id string) bool {
	return device == Keyboard && s.pressed[id]
}

// ButtonHeld reports a button whose key is still repeating
func (s *Service) ButtonHeld(device int, id string) bool {
	return device == Keyboard && s.held(id)
}

func (s *Service) held(id string) bool {
	t, ok := s.lastSeen[id]
	return ok && s.now.Sub(t) <= s.hold
}

// Pump polls screen on a goroutine and forwards events until quit closes
func Pump(screen tcell.Screen, quit <-chan struct{}) <-chan tcell.Event {
	ch := make(chan tcell.Event, 64)
	core.Go(func() {
		defer close(ch)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case ch <- ev:
			case <-quit:
				return
			}
		}
	})
	return ch
}
