package game

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/bullet-trial/component"
	"github.com/lixenwraith/bullet-trial/core"
	"github.com/lixenwraith/bullet-trial/engine"
	"github.com/lixenwraith/bullet-trial/pipeline"
	"github.com/lixenwraith/bullet-trial/render"
)

// drawHUD writes the status line into the framebuffer before present
func (s *Scene) drawHUD(stage pipeline.Stage, ctx *engine.Context) {
	if stage != pipeline.StagePresent {
		return
	}
	fb := s.backend.Framebuffer()
	if fb.Height() == 0 {
		return
	}

	line, fg := s.statusLine(ctx)
	style := tcell.StyleDefault.Foreground(fg).Background(render.RgbBackground)
	x := 0
	for _, r := range line {
		if x >= fb.Width() {
			break
		}
		fb.Set(x, 0, r, style)
		x++
	}
}

func (s *Scene) statusLine(ctx *engine.Context) (string, tcell.Color) {
	t := ctx.Clock.GameTime().Seconds()
	bullets := 0
	ctx.World.EachTagged(s.tags.bullet, 0, func(_ core.Handle, _ *component.Entity) { bullets++ })

	switch s.state {
	case StateDead:
		wait := s.cfg.Time.DeathCooldown - (ctx.Clock.RawTime() - s.deadAt)
		if wait > 0 {
			return fmt.Sprintf(" HIT at %.1fs ", t), render.RgbHudAlert
		}
		return fmt.Sprintf(" HIT at %.1fs  [enter] retry  [q] quit ", t), render.RgbHudAlert
	case StateWon:
		return fmt.Sprintf(" SURVIVED %.0fs  [enter] again  [q] quit ", t), render.RgbHudWin
	}
	if ctx.Clock.Paused() {
		return fmt.Sprintf(" PAUSED  %.1fs  bullets %d ", t, bullets), render.RgbHudText
	}
	return fmt.Sprintf(" round %d  %.1fs  bullets %d ", s.round+1, t, bullets), render.RgbHudText
}
