package render

import (
	"github.com/gdamore/tcell/v2"
)

// Palette shared by the scene and the HUD
var (
	RgbPlayerGlow = tcell.NewRGBColor(90, 60, 0)     // Dim halo around the player core
	RgbBullet     = tcell.NewRGBColor(255, 80, 80)   // Bullet sprites
	RgbBackground = tcell.NewRGBColor(10, 10, 24)    // Pass clear for the playfield
	RgbHudText    = tcell.NewRGBColor(220, 220, 220) // Status line
	RgbHudAlert   = tcell.NewRGBColor(255, 60, 60)   // Death banner
	RgbHudWin     = tcell.NewRGBColor(80, 255, 120)  // Win banner
)

// gradientStop is one color anchor of the progress gradient
type gradientStop struct {
	at      float64
	r, g, b int32
}

// Deep red through yellow and green to a cool blue
var progressStops = [...]gradientStop{
	{0.00, 139, 0, 0},
	{0.25, 255, 69, 0},
	{0.50, 255, 215, 0},
	{0.75, 34, 200, 60},
	{1.00, 65, 140, 255},
}

// ProgressColor returns the bar color for progress in [0,1]
// Zero or negative progress is black, for the unfilled meter
func ProgressColor(progress float64) tcell.Color {
	if progress <= 0 {
		return tcell.NewRGBColor(0, 0, 0)
	}
	if progress >= 1 {
		last := progressStops[len(progressStops)-1]
		return tcell.NewRGBColor(last.r, last.g, last.b)
	}
	for i := 1; i < len(progressStops); i++ {
		hi := progressStops[i]
		if progress > hi.at {
			continue
		}
		lo := progressStops[i-1]
		t := (progress - lo.at) / (hi.at - lo.at)
		return tcell.NewRGBColor(lerp(lo.r, hi.r, t), lerp(lo.g, hi.g, t), lerp(lo.b, hi.b, t))
	}
	return tcell.ColorDefault
}

func lerp(a, b int32, t float64) int32 {
	return a + int32(float64(b-a)*t)
}

// ParseClear maps a pass clear setting to a Clear
// Accepts "discard", "default" or empty, or any tcell color name
func ParseClear(name string) (Clear, bool) {
	switch name {
	case "discard":
		return Clear{Discard: true}, true
	case "", "default":
		return Clear{Style: tcell.StyleDefault}, true
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return Clear{}, false
	}
	return Clear{Style: tcell.StyleDefault.Background(c)}, true
}
