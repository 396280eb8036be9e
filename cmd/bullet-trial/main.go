package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/lixenwraith/bullet-trial/asset"
	"github.com/lixenwraith/bullet-trial/audio"
	"github.com/lixenwraith/bullet-trial/config"
	"github.com/lixenwraith/bullet-trial/core"
	"github.com/lixenwraith/bullet-trial/engine"
	"github.com/lixenwraith/bullet-trial/game"
	"github.com/lixenwraith/bullet-trial/input"
	"github.com/lixenwraith/bullet-trial/render"
	"github.com/lixenwraith/bullet-trial/script"
	"github.com/lixenwraith/bullet-trial/service"
	"github.com/lixenwraith/bullet-trial/status"
	"github.com/lixenwraith/bullet-trial/system"
)

type options struct {
	config  string
	debug   bool
	profile string
}

func main() {
	// Panic recovery: restore the terminal before printing the trace
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "bullet-trial: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "bullet-trial",
		Short:         "Survive the spiral until the bar fills",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVarP(&opts.config, "config", "c", "", "TOML config file (defaults when empty)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "write a debug log under the logging dir")
	root.PersistentFlags().StringVar(&opts.profile, "profile", "", "profile the run: cpu or mem")

	root.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Start the game (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check the config, render graph, sprite bank and pattern script without starting",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validate(opts); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	})
	return root
}

// validate loads every data file the run would load and checks the render graph
func validate(opts *options) error {
	cfg, err := config.Load(opts.config)
	if err != nil {
		return err
	}
	tags := engine.NewTagRegistry()
	if err := tags.Declare(cfg.Tags.Names...); err != nil {
		return err
	}
	targets, passes, err := game.BuildPasses(cfg, tags)
	if err != nil {
		return err
	}
	if err := render.Validate(passes, targets, render.DefaultEffects()); err != nil {
		return err
	}
	bank, err := loadBank(cfg)
	if err != nil {
		return err
	}
	if _, ok := bank.Sprites[cfg.Emitter.Sprite]; cfg.Emitter.Sprite != "" && !ok {
		return errors.Errorf("emitter sprite %q not in bank", cfg.Emitter.Sprite)
	}
	vm, err := script.NewEngine(cfg.Emitter.Script, scriptParams(cfg), nil)
	if err != nil {
		return err
	}
	defer vm.Close()
	if cfg.Emitter.Script != "" && !vm.Has(cfg.Emitter.Pattern) {
		return errors.Errorf("pattern %q not defined by %s", cfg.Emitter.Pattern, cfg.Emitter.Script)
	}
	return nil
}

func loadBank(cfg *config.Config) (*asset.Bank, error) {
	if cfg.Assets.Sprites == "" {
		return asset.DefaultBank()
	}
	return asset.LoadBank(cfg.Assets.Sprites)
}

func scriptParams(cfg *config.Config) script.Params {
	return script.Params{Radius: cfg.Emitter.Radius, BaseSpeed: cfg.Emitter.BaseSpeed, Accel: cfg.Emitter.Accel}
}

func run(parent context.Context, opts *options) (err error) {
	cfg, err := config.Load(opts.config)
	if err != nil {
		return err
	}

	switch opts.profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		return errors.Errorf("unknown profile mode %q", opts.profile)
	}

	log, logSink, err := setupLogging(cfg.Logging, opts.debug)
	if err != nil {
		return err
	}
	if logSink != nil {
		defer logSink.Close()
	}
	defer log.Sync()
	log = log.With(zap.String("run", uuid.NewString()))

	metrics, err := status.NewRegistry("bullet-trial", cfg.Metrics.Interval, cfg.Metrics.Retain)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "create screen")
	}
	bank, err := loadBank(cfg)
	if err != nil {
		return err
	}
	sprites := asset.NewService(bank, cfg.Pools.Sprites, log)
	sound := audio.NewService(cfg.Pools.Voices, log)
	var patterns *script.Engine

	hub := service.NewHub(log)
	var finiOnce sync.Once
	fini := func() { finiOnce.Do(screen.Fini) }
	services := []service.Service{
		&service.Func{
			ID: "terminal",
			OnStart: func() error {
				if err := screen.Init(); err != nil {
					return errors.Wrap(err, "init screen")
				}
				core.SetCrashRestorer(fini)
				screen.HideCursor()
				screen.Clear()
				return nil
			},
			OnStop: func() error {
				core.SetCrashRestorer(nil)
				fini()
				return nil
			},
		},
		&service.Func{
			ID: "script",
			OnStart: func() error {
				vm, err := script.NewEngine(cfg.Emitter.Script, scriptParams(cfg), log)
				if err != nil {
					return err
				}
				patterns = vm
				return nil
			},
			OnStop: func() error {
				if patterns != nil {
					patterns.Close()
				}
				return nil
			},
		},
	}
	if cfg.Audio.Enabled {
		services = append(services, &service.Func{ID: "audio", OnStart: sound.Start, OnStop: sound.Stop})
	}
	for _, svc := range services {
		if err := hub.Register(svc); err != nil {
			return err
		}
	}
	if err := hub.StartAll(); err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, hub.StopAll()) }()

	ctx := game.NewEngineContext(cfg, log, metrics)
	ctx.Visuals = sprites
	if cfg.Audio.Enabled {
		ctx.Audio = sound
	}

	backend := render.NewTerminalBackend(screen)
	in := input.NewService(nil, input.DefaultHold)
	in.OnResize(backend.Resize)

	var pattern system.Pattern = patterns
	if !patterns.Has(cfg.Emitter.Pattern) {
		log.Warn("pattern not scripted, using native spiral", zap.String("pattern", cfg.Emitter.Pattern))
		pattern = system.Spiral{
			Radius:    float32(cfg.Emitter.Radius),
			BaseSpeed: float32(cfg.Emitter.BaseSpeed),
			Accel:     float32(cfg.Emitter.Accel),
			Spin:      system.DefaultSpiral().Spin,
		}
	}

	scene, err := game.NewScene(cfg, ctx, backend, in, pattern)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, scene.Shutdown()) }()

	quit := make(chan struct{})
	defer close(quit)
	scene.SetEvents(input.Pump(screen, quit))

	if parent == nil {
		parent = context.Background()
	}
	runCtx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	order, _ := hub.Order()
	log.Info("starting",
		zap.Int("frame_rate", cfg.Time.FrameRate),
		zap.Strings("passes", scene.Compositor().Passes()),
		zap.Strings("services", order))
	err = scene.Run(runCtx, cfg.FrameInterval(), engine.NewMonotonicTimeProvider())

	for _, g := range metrics.Gauges() {
		log.Debug("final gauge", zap.String("key", g.Name), zap.Float32("value", g.Value))
	}
	return err
}
