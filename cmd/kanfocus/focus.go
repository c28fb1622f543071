package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/evanschultz/kanfocus/internal/focus"
	"github.com/evanschultz/kanfocus/internal/tui"
)

// focusOptions holds the flags of the focus command.
type focusOptions struct {
	id       string
	title    string
	duration time.Duration
}

// newFocusCommand runs the focus overlay on its own for one task.
func newFocusCommand(opts *globalOptions, stdout, stderr io.Writer) *cobra.Command {
	var fopts focusOptions
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Run the focus countdown for a single task",
		Long:  `Opens the full-screen focus overlay for one task and prints how it ended: focus-complete when the countdown runs out, exit-focus-mode when dismissed.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := resolveRuntime(*opts, stdout, stderr, "focus", true)
			if err != nil {
				return err
			}
			defer env.close(stderr)
			return runFocus(cmd.Context(), env, fopts)
		},
	}
	cmd.Flags().StringVar(&fopts.id, "id", "", "task identifier reported back with the signal")
	cmd.Flags().StringVar(&fopts.title, "title", "", "task title shown in the overlay")
	cmd.Flags().DurationVar(&fopts.duration, "duration", 0, "countdown length (defaults to focus.duration)")
	return cmd
}

// runFocus shows the overlay until the countdown completes or the user exits.
func runFocus(_ context.Context, env *runtimeEnv, fopts focusOptions) error {
	logger := env.logger
	runtimeCfg, err := toTUIRuntimeConfig(env.cfg)
	if err != nil {
		return fmt.Errorf("map runtime config: %w", err)
	}
	if fopts.duration < 0 {
		return fmt.Errorf("invalid --duration: %s", fopts.duration)
	}
	if fopts.duration > 0 {
		runtimeCfg.FocusDuration = fopts.duration
	}

	task := focus.DefaultTask
	if title := strings.TrimSpace(fopts.title); title != "" {
		task = focus.Task{ID: strings.TrimSpace(fopts.id), Title: title}
		if task.ID == "" {
			task.ID = newID()
		}
	}

	m := tui.NewModel(
		env.newService(false),
		tui.WithRuntimeConfig(runtimeCfg),
		tui.WithFocusTask(task),
	)

	logger.Info("starting focus overlay", "task_id", task.ID, "duration", runtimeCfg.FocusDuration)
	final, err := programFactory(m).Run()
	if err != nil {
		logger.Error("focus overlay terminated with error", "err", err)
		return fmt.Errorf("run focus overlay: %w", err)
	}

	fm, ok := final.(tui.Model)
	if !ok {
		return nil
	}
	if signal := fm.FocusSignal(); signal != focus.SignalNone {
		logger.Info("focus overlay closed", "task_id", task.ID, "signal", signal)
		_, _ = fmt.Fprintf(env.stdout, "%s %s\n", signal, task.ID)
	}
	return nil
}
