package core

import "math/bits"

// TagMask is a bit-set over the tag vocabulary, at most 64 names
type TagMask uint64

// MaxTags is the size of the tag universe
const MaxTags = 64

// Intersects reports whether any bit of o is set in m
func (m TagMask) Intersects(o TagMask) bool { return m&o != 0 }

// Contains reports whether every bit of o is set in m
func (m TagMask) Contains(o TagMask) bool { return m&o == o }

// Count returns the number of tags in the mask
func (m TagMask) Count() int { return bits.OnesCount64(uint64(m)) }

// Combine ORs masks together
func Combine(masks ...TagMask) TagMask {
	var out TagMask
	for _, m := range masks {
		out |= m
	}
	return out
}
