package core

import "fmt"

// PoolID identifies the pool that issued a handle
type PoolID uint8

// Handle addresses one occupied pool slot
// Layout: generation (32) | pool id (8) | slot index (24)
// Generation starts at 1 so the zero handle is never issued
type Handle uint64

// InvalidHandle is the zero handle, never issued by a pool
const InvalidHandle Handle = 0

// MaxSlots is the largest capacity a single pool can address
const MaxSlots = 1 << 24

const (
	indexBits = 24
	indexMask = MaxSlots - 1
	poolShift = indexBits
	poolMask  = 0xFF
	genShift  = 32
)

// NewHandle packs slot index, pool id and generation
func NewHandle(index uint32, pool PoolID, generation uint32) Handle {
	return Handle(uint64(generation)<<genShift | uint64(pool)<<poolShift | uint64(index&indexMask))
}

func (h Handle) Index() uint32      { return uint32(h) & indexMask }
func (h Handle) Pool() PoolID       { return PoolID(uint32(h)>>poolShift) & poolMask }
func (h Handle) Generation() uint32 { return uint32(h >> genShift) }
func (h Handle) IsZero() bool       { return h == InvalidHandle }

// String formats as pool:index@generation for logs
func (h Handle) String() string {
	if h.IsZero() {
		return "nil"
	}
	return fmt.Sprintf("%d:%d@%d", h.Pool(), h.Index(), h.Generation())
}
