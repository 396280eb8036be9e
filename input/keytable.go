package input

import (
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// Button ids reported by ButtonPressed and ButtonHeld
const (
	ButtonConfirm = "confirm"
	ButtonQuit    = "quit"
	ButtonPause   = "pause"
)

// Keyboard is the only device id backed by terminal input
const Keyboard = 0

// Binding maps a key to a direction or a button
type Binding struct {
	ID  string
	Dir mgl32.Vec2 // Zero for buttons
}

var (
	dirUp    = Binding{ID: "up", Dir: mgl32.Vec2{0, -1}}
	dirDown  = Binding{ID: "down", Dir: mgl32.Vec2{0, 1}}
	dirLeft  = Binding{ID: "left", Dir: mgl32.Vec2{-1, 0}}
	dirRight = Binding{ID: "right", Dir: mgl32.Vec2{1, 0}}
)

// KeyTable resolves tcell key events to bindings
type KeyTable struct {
	Keys  map[tcell.Key]Binding
	Runes map[rune]Binding
}

// DefaultKeyTable binds arrows, WASD and hjkl to movement
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		Keys: map[tcell.Key]Binding{
			tcell.KeyUp:     dirUp,
			tcell.KeyDown:   dirDown,
			tcell.KeyLeft:   dirLeft,
			tcell.KeyRight:  dirRight,
			tcell.KeyEnter:  {ID: ButtonConfirm},
			tcell.KeyEscape: {ID: ButtonQuit},
			tcell.KeyCtrlC:  {ID: ButtonQuit},
		},
		Runes: map[rune]Binding{
			'w': dirUp, 'k': dirUp,
			's': dirDown, 'j': dirDown,
			'a': dirLeft, 'h': dirLeft,
			'd': dirRight, 'l': dirRight,
			' ': {ID: ButtonConfirm},
			'q': {ID: ButtonQuit},
			'p': {ID: ButtonPause},
		},
	}
}

// Resolve returns the binding for a key event
func (t *KeyTable) Resolve(ev *tcell.EventKey) (Binding, bool) {
	if ev.Key() == tcell.KeyRune {
		b, ok := t.Runes[ev.Rune()]
		return b, ok
	}
	b, ok := t.Keys[ev.Key()]
	return b, ok
}
