package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/bullet-trial/core"
)

// Filter selects entities for a pass by tag
// Include zero accepts every entity; Exclude removes any entity intersecting it
type Filter struct {
	Include core.TagMask
	Exclude core.TagMask
}

// Match reports whether tags pass the filter
func (f Filter) Match(tags core.TagMask) bool {
	if f.Include != 0 && !tags.Intersects(f.Include) {
		return false
	}
	return !tags.Intersects(f.Exclude)
}

// Clear controls how a pass prepares its target
type Clear struct {
	// Discard keeps the target contents written by earlier passes
	Discard bool
	Style   tcell.Style
}

// Pass is one render stage of the composition pipeline
type Pass struct {
	ID     string
	Order  int
	Filter Filter
	Target string   // Written target; Framebuffer for the final output
	Reads  []string // Targets sampled; each must be produced by an earlier pass
	Camera Camera
	Effect string
	Clear  Clear
}
