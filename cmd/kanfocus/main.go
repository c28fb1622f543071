package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/evanschultz/kanfocus/internal/app"
	"github.com/evanschultz/kanfocus/internal/config"
	"github.com/evanschultz/kanfocus/internal/platform"
	"github.com/evanschultz/kanfocus/internal/tui"
)

// version is stamped at build time.
var version = "dev"

// program is the slice of *tea.Program the commands drive.
type program interface {
	Run() (tea.Model, error)
	Send(msg tea.Msg)
}

var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCommand(os.Stdout, os.Stderr)
	if err := fang.Execute(ctx, root, fang.WithVersion(version)); err != nil {
		stop()
		os.Exit(1)
	}
}

// run executes the command tree for args without fang's styled error output.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	appName    string
	devMode    bool
}

// runtimeEnv is the resolved state every command starts from.
type runtimeEnv struct {
	opts       globalOptions
	paths      platform.Paths
	configPath string
	defaults   config.Config
	cfg        config.Config
	logger     *runtimeLogger
	stdout     io.Writer
}

// newRootCommand builds the kanfocus command tree writing to stdout and stderr.
func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	opts := globalOptions{appName: "kanfocus", devMode: version == "dev"}
	if envDev, ok := parseBoolEnv("KANFOCUS_DEV_MODE"); ok {
		opts.devMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("KANFOCUS_APP_NAME")); envApp != "" {
		opts.appName = envApp
	}

	root := &cobra.Command{
		Use:           "kanfocus",
		Short:         "Keyboard-driven kanban board with a focus timer",
		Long:          `kanfocus is a terminal kanban board. Cards move between columns with the keyboard, and any card can be opened in a countdown focus overlay.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := resolveRuntime(opts, stdout, stderr, "tui", true)
			if err != nil {
				return err
			}
			defer env.close(stderr)
			return runBoard(cmd.Context(), env)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config TOML")
	flags.StringVar(&opts.appName, "app", opts.appName, "application name for config/data path resolution")
	flags.BoolVar(&opts.devMode, "dev", opts.devMode, "use dev mode paths (<app>-dev)")

	root.AddCommand(
		newPathsCommand(&opts, stdout),
		newFocusCommand(&opts, stdout, stderr),
		newServeCommand(&opts, stdout, stderr),
	)
	return root
}

// newPathsCommand prints the resolved runtime paths.
func newPathsCommand(opts *globalOptions, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config, data, and log paths",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			paths, err := resolvePaths(*opts)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(stdout, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(stdout, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(stdout, "config: %s\n", resolveConfigPath(*opts, paths))
			_, _ = fmt.Fprintf(stdout, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(stdout, "log_dir: %s\n", paths.LogDir)
			return nil
		},
	}
}

func resolvePaths(opts globalOptions) (platform.Paths, error) {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: opts.appName,
		DevMode: opts.devMode,
	})
	if err != nil {
		return platform.Paths{}, fmt.Errorf("resolve paths: %w", err)
	}
	return paths, nil
}

// resolveConfigPath applies flag, then env, then platform default.
func resolveConfigPath(opts globalOptions, paths platform.Paths) string {
	if path := strings.TrimSpace(opts.configPath); path != "" {
		return path
	}
	if envPath := strings.TrimSpace(os.Getenv("KANFOCUS_CONFIG")); envPath != "" {
		return envPath
	}
	return paths.ConfigPath
}

// resolveRuntime loads config and opens the runtime logger for one command. Full-screen
// commands pass muteConsole so runtime logs only reach the dev-file sink.
func resolveRuntime(opts globalOptions, stdout, stderr io.Writer, command string, muteConsole bool) (*runtimeEnv, error) {
	paths, err := resolvePaths(opts)
	if err != nil {
		return nil, err
	}
	configPath := resolveConfigPath(opts, paths)
	defaults := config.Default()
	cfg, err := config.Load(configPath, defaults)
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}

	logger, err := newRuntimeLogger(stderr, opts.appName, opts.devMode, cfg.Logging, time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	if muteConsole {
		logger.SetConsoleEnabled(false)
	}
	logger.Info("startup configuration resolved", "app", opts.appName, "dev_mode", opts.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "log_dir", paths.LogDir)
	logger.Info("configuration loaded", "config_path", configPath, "log_level", cfg.Logging.Level)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	return &runtimeEnv{
		opts:       opts,
		paths:      paths,
		configPath: configPath,
		defaults:   defaults,
		cfg:        cfg,
		logger:     logger,
		stdout:     stdout,
	}, nil
}

// close releases the logger, warning on stderr only when the console sink is live.
func (e *runtimeEnv) close(stderr io.Writer) {
	if e == nil {
		return
	}
	if err := e.logger.Close(); err != nil && e.logger.shouldLogToSink(e.logger.consoleSink) {
		_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", err)
	}
}

// newService builds the board service from config.
func (e *runtimeEnv) newService(seed bool) *app.Service {
	return app.NewService(newID, app.ServiceConfig{
		SeedDemo:       seed,
		MaxTitleLength: e.cfg.Board.MaxTitleLength,
	})
}

// parseBoolEnv parses input into a normalized form.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// toTUIRuntimeConfig maps persisted config values into runtime model options.
func toTUIRuntimeConfig(cfg config.Config) (tui.RuntimeConfig, error) {
	policy, err := app.ParseBlurPolicy(string(cfg.Board.BlurPolicy))
	if err != nil {
		return tui.RuntimeConfig{}, err
	}
	duration, err := cfg.FocusDuration()
	if err != nil {
		return tui.RuntimeConfig{}, err
	}
	return tui.RuntimeConfig{
		Keys: tui.KeyConfig{
			FocusMode:     cfg.Keys.FocusMode,
			FocusSelected: cfg.Keys.FocusSelected,
			ExitFocus:     cfg.Keys.ExitFocus,
			Details:       cfg.Keys.Details,
			Yank:          cfg.Keys.Yank,
		},
		BlurPolicy:    policy,
		FocusDuration: duration,
	}, nil
}
