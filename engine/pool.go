package engine

import (
	"github.com/pkg/errors"

	"github.com/lixenwraith/bullet-trial/core"
)

// Pool is a fixed-capacity arena for one value type
// Slots are reused LIFO; generations make stale handles detectable
type Pool[T any] struct {
	id   core.PoolID
	name string

	slots       []T
	generations []uint32
	occupied    []bool
	free        []uint32 // Stack of free slot indices
	count       int

	// Snapshot buffers, stacked so nested traversals do not share one
	scratch [][]core.Handle
}

// NewPool creates a pool with all capacity slots allocated up front
func NewPool[T any](id core.PoolID, name string, capacity int) *Pool[T] {
	if capacity < 0 {
		capacity = 0
	}
	if capacity > core.MaxSlots {
		panic(errors.Errorf("pool %s: capacity %d exceeds %d", name, capacity, core.MaxSlots))
	}

	p := &Pool[T]{
		id:          id,
		name:        name,
		slots:       make([]T, capacity),
		generations: make([]uint32, capacity),
		occupied:    make([]bool, capacity),
		free:        make([]uint32, capacity),
	}

	// Lowest index on top of the stack so fresh pools fill in slot order
	for i := range p.free {
		p.free[i] = uint32(capacity - 1 - i)
		p.generations[i] = 1
	}
	return p
}

func (p *Pool[T]) ID() core.PoolID { return p.id }
func (p *Pool[T]) Name() string    { return p.name }
func (p *Pool[T]) Capacity() int   { return len(p.slots) }
func (p *Pool[T]) Count() int      { return p.count }
func (p *Pool[T]) IsFull() bool    { return p.count == len(p.slots) }

// Create stores value in a free slot
// Returns ErrFull at capacity, never grows
func (p *Pool[T]) Create(value T) (core.Handle, error) {
	if len(p.free) == 0 {
		return core.InvalidHandle, errors.Wrapf(core.ErrFull, "pool %s (capacity %d)", p.name, len(p.slots))
	}

	idx := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]

	p.slots[idx] = value
	p.occupied[idx] = true
	p.count++
	return core.NewHandle(idx, p.id, p.generations[idx]), nil
}

// Alive reports whether h addresses a currently occupied slot of this pool
func (p *Pool[T]) Alive(h core.Handle) bool {
	if h.IsZero() || h.Pool() != p.id {
		return false
	}
	idx := h.Index()
	if int(idx) >= len(p.slots) {
		return false
	}
	return p.occupied[idx] && p.generations[idx] == h.Generation()
}

// Get returns a pointer to the live value, valid until the slot is destroyed
func (p *Pool[T]) Get(h core.Handle) (*T, bool) {
	if !p.Alive(h) {
		return nil, false
	}
	return &p.slots[h.Index()], true
}

// Destroy zeroes the slot and returns it to the free list
// Double destroy and foreign handles are lifecycle bugs and return an error
func (p *Pool[T]) Destroy(h core.Handle) error {
	if h.Pool() != p.id {
		return errors.Wrapf(core.ErrForeignHandle, "pool %s: handle %s", p.name, h)
	}
	if !p.Alive(h) {
		return errors.Wrapf(core.ErrAlreadyRemoved, "pool %s: handle %s", p.name, h)
	}

	idx := h.Index()
	var zero T
	p.slots[idx] = zero
	p.occupied[idx] = false
	p.generations[idx]++
	if p.generations[idx] == 0 {
		p.generations[idx] = 1
	}
	p.free = append(p.free, idx)
	p.count--
	return nil
}

// Release implements core.Releaser
func (p *Pool[T]) Release(h core.Handle) error {
	return p.Destroy(h)
}

// ForEach visits every element live at the start of the traversal, in slot order
// The visitor may destroy any element, including the visited one
func (p *Pool[T]) ForEach(fn func(core.Handle, *T)) {
	p.Scan(func(h core.Handle, v *T) bool {
		fn(h, v)
		return true
	})
}

// Scan is ForEach with early exit when fn returns false
// Handles are snapshotted first and re-checked before each visit, so elements
// destroyed mid-traversal are skipped and slots refilled mid-traversal are not visited
func (p *Pool[T]) Scan(fn func(core.Handle, *T) bool) {
	if p.count == 0 {
		return
	}

	snap := p.Handles(p.acquireScratch())

	for _, h := range snap {
		if !p.Alive(h) {
			continue
		}
		if !fn(h, &p.slots[h.Index()]) {
			break
		}
	}
	p.releaseScratch(snap)
}

// Handles returns the live handles in slot order
func (p *Pool[T]) Handles(dst []core.Handle) []core.Handle {
	for i, occ := range p.occupied {
		if occ {
			dst = append(dst, core.NewHandle(uint32(i), p.id, p.generations[i]))
		}
	}
	return dst
}

func (p *Pool[T]) acquireScratch() []core.Handle {
	if n := len(p.scratch); n > 0 {
		buf := p.scratch[n-1]
		p.scratch = p.scratch[:n-1]
		return buf[:0]
	}
	return make([]core.Handle, 0, p.count)
}

func (p *Pool[T]) releaseScratch(buf []core.Handle) {
	p.scratch = append(p.scratch, buf[:0])
}
