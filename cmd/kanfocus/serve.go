package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/evanschultz/kanfocus/internal/adapters/queue/pgmq"
	"github.com/evanschultz/kanfocus/internal/adapters/server"
	"github.com/evanschultz/kanfocus/internal/adapters/server/common"
)

// serveOptions holds the flags of the serve command.
type serveOptions struct {
	bind          string
	basePath      string
	drainInterval time.Duration
}

// newServeCommand runs the tasks function over HTTP.
func newServeCommand(opts *globalOptions, stdout, stderr io.Writer) *cobra.Command {
	var sopts serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tasks function and queue endpoints over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := resolveRuntime(*opts, stdout, stderr, "serve", false)
			if err != nil {
				return err
			}
			defer env.close(stderr)
			return runServe(cmd.Context(), env, sopts)
		},
	}
	cmd.Flags().StringVar(&sopts.bind, "bind", "", "HTTP listen address (defaults to server.http_bind)")
	cmd.Flags().StringVar(&sopts.basePath, "base-path", "", "mount path of the tasks function (defaults to server.base_path)")
	cmd.Flags().DurationVar(&sopts.drainInterval, "drain-interval", 10*time.Second, "how often the default queue is drained (0 disables)")
	return cmd
}

// runServe blocks until ctx is cancelled or the listener fails.
func runServe(ctx context.Context, env *runtimeEnv, sopts serveOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := env.logger
	sink := logger.Console()

	cfg := server.Config{
		HTTPBind: firstNonEmpty(sopts.bind, env.cfg.Server.HTTPBind),
		BasePath: firstNonEmpty(sopts.basePath, env.cfg.Server.BasePath),
	}
	deps := server.Dependencies{Logger: sink}
	var adapter *common.QueueAdapter

	databaseURL := firstNonEmpty(os.Getenv("KANFOCUS_DATABASE_URL"), env.cfg.Queue.DatabaseURL)
	if databaseURL != "" {
		db, err := pgmq.Open(ctx, databaseURL)
		if err != nil {
			logger.Error("queue database open failed", "err", err)
			return fmt.Errorf("open queue database: %w", err)
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				logger.Warn("queue database close failed", "err", closeErr)
			}
		}()
		queue := pgmq.New(pgmq.NewPostgresStore(db), pgmq.Options{
			VisibilityTimeout: time.Duration(env.cfg.Queue.VisibilityTimeoutSeconds) * time.Second,
			BatchSize:         env.cfg.Queue.BatchSize,
			MaxReadCount:      env.cfg.Queue.MaxReadCount,
		}, sink)
		if name := strings.TrimSpace(env.cfg.Queue.DefaultQueue); name != "" {
			if err := queue.EnsureQueue(ctx, name); err != nil {
				logger.Warn("default queue not created", "queue", name, "err", err)
			}
		}
		adapter = common.NewQueueAdapter(queue, sink)
		deps.Queue = adapter
		deps.Ready = pingReady(db)
		logger.Info("queue backend ready", "default_queue", env.cfg.Queue.DefaultQueue)
	} else {
		logger.Info("queue backend disabled", "reason", "no database url")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server starting", "bind", cfg.HTTPBind, "base_path", cfg.BasePath)
		if err := server.Run(gctx, cfg, deps); err != nil {
			return fmt.Errorf("run server: %w", err)
		}
		logger.Info("http server stopped")
		return nil
	})
	if adapter != nil && sopts.drainInterval > 0 {
		name := strings.TrimSpace(env.cfg.Queue.DefaultQueue)
		g.Go(func() error {
			drainLoop(gctx, adapter, name, sopts.drainInterval, logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("command flow failed", "command", "serve", "err", err)
		return err
	}
	logger.Info("command flow complete", "command", "serve")
	return nil
}

// drainLoop processes one batch of queue every interval until ctx is done.
func drainLoop(ctx context.Context, queue common.TaskQueue, name string, interval time.Duration, logger *runtimeLogger) {
	if name == "" {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result, err := queue.Drain(ctx, name)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Warn("queue drain failed", "queue", name, "err", err)
				continue
			}
			if result.Read > 0 {
				logger.Info("queue drained", "queue", name, "read", result.Read, "processed", result.Processed, "failed", result.Failed, "abandoned", result.Abandoned)
			}
		}
	}
}

func pingReady(db *sql.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		return db.PingContext(ctx)
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
