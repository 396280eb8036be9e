package render

import (
	"github.com/gdamore/tcell/v2"
)

// Framebuffer is the reserved name of the final target handed to Present
const Framebuffer = "framebuffer"

// Cell is one character cell of a target
type Cell struct {
	Rune  rune
	Style tcell.Style
}

// Target is a cell buffer written by render passes
// Offscreen targets become readable to later passes once resolved
type Target struct {
	name     string
	cells    []Cell
	width    int
	height   int
	resolved bool
}

// NewTarget creates a cleared target with the specified dimensions
func NewTarget(name string, width, height int) *Target {
	t := &Target{name: name}
	t.Resize(width, height)
	return t
}

func (t *Target) Name() string     { return t.name }
func (t *Target) Width() int       { return t.width }
func (t *Target) Height() int      { return t.height }
func (t *Target) Resolved() bool   { return t.resolved }
func (t *Target) IsFinal() bool    { return t.name == Framebuffer }
func (t *Target) invalidate()      { t.resolved = false }
func (t *Target) markResolved()    { t.resolved = true }
func (t *Target) Size() (int, int) { return t.width, t.height }

// Resize adjusts dimensions, reallocates only if capacity insufficient
func (t *Target) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	size := width * height
	if cap(t.cells) < size {
		t.cells = make([]Cell, size)
	} else {
		t.cells = t.cells[:size]
	}
	t.width = width
	t.height = height
	t.Clear(tcell.StyleDefault)
}

// Clear fills every cell with a blank in style using exponential copy
func (t *Target) Clear(style tcell.Style) {
	if len(t.cells) == 0 {
		return
	}
	t.cells[0] = Cell{Rune: ' ', Style: style}
	for filled := 1; filled < len(t.cells); filled *= 2 {
		copy(t.cells[filled:], t.cells[:filled])
	}
}

// InBounds reports whether x, y addresses a cell
func (t *Target) InBounds(x, y int) bool {
	return x >= 0 && x < t.width && y >= 0 && y < t.height
}

// Set writes a cell, ignoring out-of-bounds coordinates
func (t *Target) Set(x, y int, r rune, style tcell.Style) {
	if !t.InBounds(x, y) {
		return
	}
	t.cells[y*t.width+x] = Cell{Rune: r, Style: style}
}

// Get reads a cell; out-of-bounds reads return a blank default cell
func (t *Target) Get(x, y int) Cell {
	if !t.InBounds(x, y) {
		return Cell{Rune: ' ', Style: tcell.StyleDefault}
	}
	return t.cells[y*t.width+x]
}
