package tui

import (
	"time"

	"github.com/evanschultz/kanfocus/internal/app"
	"github.com/evanschultz/kanfocus/internal/focus"
)

type KeyConfig struct {
	FocusMode     string
	FocusSelected string
	ExitFocus     string
	Details       string
	Yank          string
}

// RuntimeConfig holds the settings the board can pick up without a restart.
type RuntimeConfig struct {
	Keys          KeyConfig
	BlurPolicy    app.BlurPolicy
	FocusDuration time.Duration
}

type Option func(*Model)

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		BlurPolicy:    app.BlurPolicyDrop,
		FocusDuration: focus.DefaultDuration,
	}
}

func WithRuntimeConfig(cfg RuntimeConfig) Option {
	return func(m *Model) {
		m.runtime = cfg
	}
}

// WithNotifier adds a drag event listener next to the built-in announcer.
func WithNotifier(n app.Notifier) Option {
	return func(m *Model) {
		if n != nil {
			m.extraNotifiers = append(m.extraNotifiers, n)
		}
	}
}

func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.writeClipboard = write
		}
	}
}

// WithFocusTask starts the model directly in focus mode for task.
func WithFocusTask(task focus.Task) Option {
	return func(m *Model) {
		m.launchFocus = &task
	}
}

// WithTickInterval sets the countdown tick period.
func WithTickInterval(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.tickInterval = d
		}
	}
}
