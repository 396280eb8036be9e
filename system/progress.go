package system

import (
	"go.uber.org/zap"

	"github.com/lixenwraith/bullet-trial/component"
	"github.com/lixenwraith/bullet-trial/core"
	"github.com/lixenwraith/bullet-trial/engine"
)

// UpdateProgress fills the meter by scaled time and mirrors it on the owner's bar visuals
// Reaching full freezes the simulation
func UpdateProgress(ctx *engine.Context, h core.Handle, e *component.Entity, b *component.Behavior) error {
	st := &b.Progress
	if st.Done || st.Duration <= 0 {
		return nil
	}

	st.Value += ctx.Clock.ScaledSeconds() / st.Duration
	if st.Value >= 1 {
		st.Value = 1
		st.Done = true
		ctx.Clock.SetRate(0)
		ctx.Log.Info("progress complete", zap.Stringer("entity", h), zap.Duration("game_time", ctx.Clock.GameTime()))
	}

	for _, vh := range e.Visuals {
		if v, ok := ctx.World.Visuals.Get(vh); ok && v.Kind == component.VisualBar {
			v.Fill = st.Value
		}
	}
	return nil
}
