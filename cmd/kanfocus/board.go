package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/evanschultz/kanfocus/internal/app"
	"github.com/evanschultz/kanfocus/internal/config"
	"github.com/evanschultz/kanfocus/internal/tui"
)

// newID generates column and card identifiers.
var newID = uuid.NewString

// runBoard runs the interactive board until the user quits.
func runBoard(ctx context.Context, env *runtimeEnv) error {
	logger := env.logger
	runtimeCfg, err := toTUIRuntimeConfig(env.cfg)
	if err != nil {
		return fmt.Errorf("map runtime config: %w", err)
	}

	svc := env.newService(env.cfg.Board.SeedDemo)
	logger.Debug("board service initialized", "seed_demo", env.cfg.Board.SeedDemo, "blur_policy", runtimeCfg.BlurPolicy)

	m := tui.NewModel(
		svc,
		tui.WithRuntimeConfig(runtimeCfg),
		tui.WithNotifier(app.NewLogNotifier(logger)),
	)
	p := programFactory(m)

	if ctx == nil {
		ctx = context.Background()
	}
	watchCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(watchCtx)
	g.Go(func() error {
		watchRuntimeConfig(gctx, env, p)
		return nil
	})

	logger.Info("starting tui program loop")
	_, runErr := p.Run()
	cancel()
	_ = g.Wait()
	if runErr != nil {
		logger.Error("tui program terminated with error", "err", runErr)
		return fmt.Errorf("run tui program: %w", runErr)
	}
	logger.Info("command flow complete", "command", "tui", "drag_events", len(m.Events()))
	return nil
}

// watchRuntimeConfig forwards config file changes to p until ctx is done.
func watchRuntimeConfig(ctx context.Context, env *runtimeEnv, p program) {
	logger := env.logger
	if err := config.EnsureConfigDir(env.configPath); err != nil {
		logger.Warn("config watch disabled", "config_path", env.configPath, "err", err)
		return
	}
	err := config.Watch(ctx, env.configPath, env.defaults, func(cfg config.Config, err error) {
		if err != nil {
			logger.Error("runtime config reload failed", "config_path", env.configPath, "err", err)
			p.Send(tui.ConfigReloadedMsg{Err: err})
			return
		}
		reloaded, err := toTUIRuntimeConfig(cfg)
		if err != nil {
			logger.Error("runtime config reload failed", "config_path", env.configPath, "err", err)
		} else {
			logger.Info("runtime config reload complete", "config_path", env.configPath)
		}
		p.Send(tui.ConfigReloadedMsg{Config: reloaded, Err: err})
	})
	if err != nil {
		logger.Warn("config watch stopped", "config_path", env.configPath, "err", err)
	}
}
