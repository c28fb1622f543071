package focus

import "time"

// Signal is the teardown signal an overlay sends back to the board.
type Signal string

// Signal values.
const (
	SignalNone     Signal = ""
	SignalComplete Signal = "focus-complete"
	SignalExit     Signal = "exit-focus-mode"
)

// Session tracks whether focus mode is active and which task it shows.
type Session struct {
	duration  time.Duration
	active    bool
	task      Task
	countdown Countdown
	last      Signal
}

// NewSession constructs an inactive session with the given countdown length.
func NewSession(duration time.Duration) *Session {
	return &Session{duration: duration}
}

// Toggle enters focus mode for task when inactive and exits when active. It reports whether
// the session is active afterwards.
func (s *Session) Toggle(task Task) bool {
	if s.active {
		s.Exit()
		return false
	}
	if task.ID == "" && task.Title == "" {
		task = DefaultTask
	}
	s.active = true
	s.task = task
	s.countdown = NewCountdown(s.duration)
	s.last = SignalNone
	return true
}

// Tick advances the countdown by one second and completes the session when it reaches zero.
func (s *Session) Tick() Signal {
	if !s.active {
		return SignalNone
	}
	if s.countdown.Tick() {
		s.Complete()
		return SignalComplete
	}
	return SignalNone
}

// Complete tears the session down after the countdown finished.
func (s *Session) Complete() {
	s.teardown(SignalComplete)
}

// Exit tears the session down at the user's request.
func (s *Session) Exit() {
	s.teardown(SignalExit)
}

// Active reports whether focus mode is on.
func (s *Session) Active() bool {
	return s.active
}

// Task returns the task shown by the overlay.
func (s *Session) Task() Task {
	return s.task
}

// Countdown returns the current countdown.
func (s *Session) Countdown() Countdown {
	return s.countdown
}

// LastSignal returns the signal that ended the previous session.
func (s *Session) LastSignal() Signal {
	return s.last
}

// teardown clears the active task and records why the session ended.
func (s *Session) teardown(signal Signal) {
	if !s.active {
		return
	}
	s.active = false
	s.task = Task{}
	s.last = signal
}
