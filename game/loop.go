package game

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/bullet-trial/engine"
)

// Run drives frames at interval until quit is requested, ctx is cancelled or a frame fails
func (s *Scene) Run(ctx context.Context, interval time.Duration, tp engine.TimeProvider) error {
	if tp == nil {
		tp = engine.NewMonotonicTimeProvider()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.ctx.Log.Info("frame loop started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.Step(tp.Now()); err != nil {
				return err
			}
			if s.quit {
				s.ctx.Log.Info("quit requested", zap.Uint64("frames", s.pipe.Frame()))
				return nil
			}
		}
	}
}

// Step runs a single frame at wall time now
func (s *Scene) Step(now time.Time) error {
	return s.pipe.RunFrame(now)
}
