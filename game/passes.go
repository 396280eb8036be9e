package game

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/lixenwraith/bullet-trial/config"
	"github.com/lixenwraith/bullet-trial/engine"
	"github.com/lixenwraith/bullet-trial/render"
)

// BuildPasses converts configured targets and passes into render declarations
// Tags must already be declared in the registry
func BuildPasses(cfg *config.Config, tags *engine.TagRegistry) ([]render.TargetSpec, []render.Pass, error) {
	targets := make([]render.TargetSpec, len(cfg.Targets))
	for i, t := range cfg.Targets {
		targets[i] = render.TargetSpec{Name: t.Name, Width: t.Width, Height: t.Height}
	}

	passes := make([]render.Pass, len(cfg.Passes))
	for i, pc := range cfg.Passes {
		include, err := tags.MaskOf(pc.Include...)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "pass %q include", pc.ID)
		}
		exclude, err := tags.MaskOf(pc.Exclude...)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "pass %q exclude", pc.ID)
		}
		clr, ok := render.ParseClear(pc.Clear)
		if !ok {
			return nil, nil, errors.Errorf("pass %q: unknown clear %q", pc.ID, pc.Clear)
		}

		cam := render.NewCamera()
		cam.Position = mgl32.Vec2{pc.Camera.Position[0], pc.Camera.Position[1]}
		if pc.Camera.Zoom != [2]float32{} {
			cam.Zoom = mgl32.Vec2{pc.Camera.Zoom[0], pc.Camera.Zoom[1]}
		}
		cam.CenterOrigin = pc.Camera.Center

		passes[i] = render.Pass{
			ID:     pc.ID,
			Order:  pc.Order,
			Filter: render.Filter{Include: include, Exclude: exclude},
			Target: pc.Target,
			Reads:  pc.Reads,
			Camera: cam,
			Effect: pc.Effect,
			Clear:  clr,
		}
	}
	return targets, passes, nil
}

// FitScale returns the largest integer magnification of a target that fits the view, at least 1
func FitScale(viewW, viewH, targetW, targetH int) float32 {
	if targetW <= 0 || targetH <= 0 {
		return 1
	}
	sx := max(1, viewW/targetW)
	sy := max(1, viewH/targetH)
	return float32(min(sx, sy))
}
