package engine

import (
	"github.com/pkg/errors"

	"github.com/lixenwraith/bullet-trial/core"
)

// TagRegistry maps tag names to bits for the lifetime of the simulation
// Names are a fixed vocabulary declared at startup; tags are never removed
type TagRegistry struct {
	bits  map[string]core.TagMask
	names []string // Bit position order
}

// NewTagRegistry creates an empty registry
func NewTagRegistry() *TagRegistry {
	return &TagRegistry{
		bits:  make(map[string]core.TagMask, core.MaxTags),
		names: make([]string, 0, core.MaxTags),
	}
}

// TagFor returns the bit for name, assigning the next free bit on first request
func (r *TagRegistry) TagFor(name string) (core.TagMask, error) {
	if m, ok := r.bits[name]; ok {
		return m, nil
	}
	if len(r.names) >= core.MaxTags {
		return 0, errors.Wrapf(core.ErrCapacityExceeded, "tag %q (limit %d)", name, core.MaxTags)
	}
	m := core.TagMask(1) << uint(len(r.names))
	r.bits[name] = m
	r.names = append(r.names, name)
	return m, nil
}

// MustTag is TagFor for startup vocabularies; overflow is a configuration bug
func (r *TagRegistry) MustTag(name string) core.TagMask {
	m, err := r.TagFor(name)
	if err != nil {
		panic(err)
	}
	return m
}

// Declare registers a vocabulary in order
func (r *TagRegistry) Declare(names ...string) error {
	for _, n := range names {
		if _, err := r.TagFor(n); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the mask for an already declared name
func (r *TagRegistry) Lookup(name string) (core.TagMask, bool) {
	m, ok := r.bits[name]
	return m, ok
}

// MaskOf combines declared names; unknown names are an error
func (r *TagRegistry) MaskOf(names ...string) (core.TagMask, error) {
	var m core.TagMask
	for _, n := range names {
		bit, ok := r.bits[n]
		if !ok {
			return 0, errors.Errorf("unknown tag %q", n)
		}
		m |= bit
	}
	return m, nil
}

// Names lists the tag names set in m, in declaration order
func (r *TagRegistry) Names(m core.TagMask) []string {
	out := make([]string, 0, m.Count())
	for i, n := range r.names {
		if m&(core.TagMask(1)<<uint(i)) != 0 {
			out = append(out, n)
		}
	}
	return out
}

// Len returns the number of declared tags
func (r *TagRegistry) Len() int {
	return len(r.names)
}
