package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"
)

type BlurPolicy string

const (
	BlurPolicyDrop   BlurPolicy = "drop"
	BlurPolicyCancel BlurPolicy = "cancel"
)

type Config struct {
	Board   BoardConfig   `toml:"board"`
	Focus   FocusConfig   `toml:"focus"`
	Keys    KeyConfig     `toml:"keys"`
	Logging LoggingConfig `toml:"logging"`
	Queue   QueueConfig   `toml:"queue"`
	Server  ServerConfig  `toml:"server"`
}

type BoardConfig struct {
	SeedDemo       bool       `toml:"seed_demo"`
	BlurPolicy     BlurPolicy `toml:"blur_policy"` // drop | cancel
	MaxTitleLength int        `toml:"max_title_length"`
}

type FocusConfig struct {
	Duration string `toml:"duration"`
}

type KeyConfig struct {
	FocusMode     string `toml:"focus_mode"`
	FocusSelected string `toml:"focus_selected"`
	ExitFocus     string `toml:"exit_focus"`
	Details       string `toml:"details"`
	Yank          string `toml:"yank"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type QueueConfig struct {
	DatabaseURL              string `toml:"database_url"`
	DefaultQueue             string `toml:"default_queue"`
	VisibilityTimeoutSeconds int    `toml:"visibility_timeout_seconds"`
	BatchSize                int    `toml:"batch_size"`
	MaxReadCount             int    `toml:"max_read_count"`
}

type ServerConfig struct {
	HTTPBind string `toml:"http_bind"`
	BasePath string `toml:"base_path"`
}

func Default() Config {
	return Config{
		Board: BoardConfig{
			SeedDemo:       true,
			BlurPolicy:     BlurPolicyDrop,
			MaxTitleLength: 1000,
		},
		Focus: FocusConfig{
			Duration: "25m",
		},
		Keys: KeyConfig{
			FocusMode:     "f",
			FocusSelected: "F",
			ExitFocus:     "x",
			Details:       "i",
			Yank:          "y",
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     ".kanfocus/log",
			},
		},
		Queue: QueueConfig{
			DefaultQueue:             "tasks",
			VisibilityTimeoutSeconds: 120,
			BatchSize:                1,
			MaxReadCount:             3,
		},
		Server: ServerConfig{
			HTTPBind: "127.0.0.1:8080",
			BasePath: "/tasks",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	cfg.Board.BlurPolicy = BlurPolicy(strings.TrimSpace(strings.ToLower(string(cfg.Board.BlurPolicy))))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Board.BlurPolicy {
	case "", BlurPolicyDrop, BlurPolicyCancel:
	default:
		return fmt.Errorf("invalid board.blur_policy: %q", c.Board.BlurPolicy)
	}
	if c.Board.MaxTitleLength < 0 {
		return errors.New("board.max_title_length must be >= 0")
	}

	if _, err := c.FocusDuration(); err != nil {
		return err
	}

	keys := map[string]string{
		"focus_mode":     c.Keys.FocusMode,
		"focus_selected": c.Keys.FocusSelected,
		"exit_focus":     c.Keys.ExitFocus,
		"details":        c.Keys.Details,
		"yank":           c.Keys.Yank,
	}
	seen := map[string]string{}
	for _, name := range []string{"focus_mode", "focus_selected", "exit_focus", "details", "yank"} {
		key := strings.TrimSpace(keys[name])
		if key == "" {
			continue
		}
		switch key {
		case " ", "enter", "esc", "up", "down", "left", "right", "q", "?":
			return fmt.Errorf("keys.%s %q is reserved", name, key)
		}
		if other, ok := seen[key]; ok {
			return fmt.Errorf("keys.%s duplicates keys.%s: %q", name, other, key)
		}
		seen[key] = name
	}

	if _, err := log.ParseLevel(strings.TrimSpace(c.Logging.Level)); err != nil {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	if c.Queue.VisibilityTimeoutSeconds < 0 {
		return errors.New("queue.visibility_timeout_seconds must be >= 0")
	}
	if c.Queue.BatchSize < 0 {
		return errors.New("queue.batch_size must be >= 0")
	}
	if c.Queue.MaxReadCount < 0 {
		return errors.New("queue.max_read_count must be >= 0")
	}

	if bind := strings.TrimSpace(c.Server.HTTPBind); bind != "" && !strings.Contains(bind, ":") {
		return fmt.Errorf("invalid server.http_bind: %q", c.Server.HTTPBind)
	}
	return nil
}

// FocusDuration parses focus.duration; empty selects 25 minutes.
func (c Config) FocusDuration() (time.Duration, error) {
	raw := strings.TrimSpace(c.Focus.Duration)
	if raw == "" {
		return 25 * time.Minute, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid focus.duration: %w", err)
	}
	if d < time.Second {
		return 0, fmt.Errorf("focus.duration must be at least 1s, got %s", d)
	}
	return d, nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
