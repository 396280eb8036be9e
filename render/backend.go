package render

import (
	"github.com/gdamore/tcell/v2"
)

// Backend is the narrow contract the compositor drives each frame
type Backend interface {
	// BeginPass binds target, camera and effect and returns the canvas to draw on
	BeginPass(target *Target, camera Camera, effect Effect) *Canvas
	// Submit ends the current pass
	Submit()
	// Resolve makes target readable by later passes
	Resolve(target *Target)
	// Present hands the framebuffer to the platform
	Present() error
	// Framebuffer returns the final target
	Framebuffer() *Target
	// ViewSize returns the framebuffer size in cells
	ViewSize() (int, int)
}

// TerminalBackend presents the framebuffer on a tcell screen
type TerminalBackend struct {
	screen  tcell.Screen
	fb      *Target
	current *Canvas
	time    float32
}

// NewTerminalBackend wraps an initialized screen
func NewTerminalBackend(screen tcell.Screen) *TerminalBackend {
	w, h := screen.Size()
	return &TerminalBackend{
		screen: screen,
		fb:     NewTarget(Framebuffer, w, h),
	}
}

// SetTime sets the raw time seen by effect shaders this frame
func (b *TerminalBackend) SetTime(seconds float32) {
	b.time = seconds
}

// BeginPass implements Backend
func (b *TerminalBackend) BeginPass(target *Target, camera Camera, effect Effect) *Canvas {
	camera.fit(target.Size())
	b.current = &Canvas{target: target, camera: camera, effect: effect, time: b.time}
	return b.current
}

// Submit implements Backend
func (b *TerminalBackend) Submit() {
	b.current = nil
}

// Resolve implements Backend
func (b *TerminalBackend) Resolve(target *Target) {
	target.markResolved()
}

// Present copies the framebuffer to the screen and shows it
func (b *TerminalBackend) Present() error {
	for y := 0; y < b.fb.height; y++ {
		for x := 0; x < b.fb.width; x++ {
			c := b.fb.cells[y*b.fb.width+x]
			r := c.Rune
			if r == 0 {
				r = ' '
			}
			b.screen.SetContent(x, y, r, nil, c.Style)
		}
	}
	b.screen.Show()
	return nil
}

// Framebuffer implements Backend
func (b *TerminalBackend) Framebuffer() *Target {
	return b.fb
}

// ViewSize implements Backend
func (b *TerminalBackend) ViewSize() (int, int) {
	return b.fb.Size()
}

// Resize follows a terminal resize event
func (b *TerminalBackend) Resize(width, height int) {
	b.fb.Resize(width, height)
	b.screen.Sync()
}

// Screen exposes the underlying screen for event polling
func (b *TerminalBackend) Screen() tcell.Screen {
	return b.screen
}
