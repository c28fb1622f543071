package tui

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/evanschultz/kanfocus/internal/focus"
)

// focusTickMsg advances the countdown of one focus session generation.
type focusTickMsg struct {
	generation int
}

// enterFocus toggles the focus overlay for task and starts its countdown.
func (m *Model) enterFocus(task focus.Task) tea.Cmd {
	if !m.session.Toggle(task) {
		return m.leaveFocus()
	}
	m.focusGen++
	m.mode = modeFocus
	m.help.ShowAll = false
	m.status = "focus: " + m.session.Task().Title
	return m.focusTick()
}

// focusTick schedules the next countdown tick for the current session.
func (m Model) focusTick() tea.Cmd {
	generation := m.focusGen
	return tea.Tick(m.tickInterval, func(time.Time) tea.Msg {
		return focusTickMsg{generation: generation}
	})
}

// handleFocusTick counts down and tears the overlay down when time runs out.
func (m Model) handleFocusTick(msg focusTickMsg) (tea.Model, tea.Cmd) {
	if msg.generation != m.focusGen || !m.session.Active() {
		return m, nil
	}
	title := m.session.Task().Title
	if m.session.Tick() == focus.SignalComplete {
		m.mode = modeNone
		m.status = fmt.Sprintf("focus complete: %s", title)
		if m.standalone {
			return m, tea.Quit
		}
		return m, nil
	}
	return m, m.focusTick()
}

// handleFocusKey handles keys while the overlay is shown.
func (m Model) handleFocusKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case msg.String() == "esc", key.Matches(msg, m.keys.exitFocus), key.Matches(msg, m.keys.focusMode):
		cmd := m.leaveFocus()
		return m, cmd
	default:
		return m, nil
	}
}

// leaveFocus exits the session and restores the board view.
func (m *Model) leaveFocus() tea.Cmd {
	m.session.Exit()
	m.mode = modeNone
	m.status = "focus exited"
	if m.standalone {
		return tea.Quit
	}
	return nil
}

// renderFocusModeView renders the full-screen focus countdown.
func (m Model) renderFocusModeView() tea.View {
	accent := lipgloss.Color("212")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")

	task := m.session.Task()
	countdown := m.session.Countdown()

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	clockStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).Padding(1, 4)
	hintStyle := lipgloss.NewStyle().Foreground(muted)

	elapsed := countdown.Total() - countdown.Remaining()
	progress := renderProgress(elapsed, countdown.Total(), 32)

	lines := []string{
		titleStyle.Render("Focus Mode"),
		"",
		truncate(task.Title, max(24, m.width-16)),
		clockStyle.Render(countdown.Format()),
		hintStyle.Render(progress),
		"",
		hintStyle.Render(fmt.Sprintf("%s/esc exit focus", m.keys.exitFocus.Help().Key)),
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(1, 3).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))

	content := box
	if m.width > 0 && m.height > 0 {
		content = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	v := tea.NewView(content)
	v.AltScreen = true
	v.ReportFocus = true
	return v
}

// renderProgress draws a fixed-width bar for elapsed out of total.
func renderProgress(elapsed, total time.Duration, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if total > 0 {
		filled = int(int64(width) * int64(elapsed) / int64(total))
	}
	filled = clamp(filled, 0, width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
