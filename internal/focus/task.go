// Package focus models the single-task focus overlay and its countdown.
package focus

import (
	"strings"

	"github.com/evanschultz/kanfocus/internal/domain"
)

// focusColumnTitle names the column whose first card seeds focus mode.
const focusColumnTitle = "To Do"

// Task is the one-shot payload handed to the focus overlay.
type Task struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// DefaultTask is shown when the overlay starts without a payload.
var DefaultTask = Task{ID: "focus", Title: "Focus Mode"}

// NoTask is used when the board has no cards at all.
var NoTask = Task{ID: "default", Title: "No tasks available"}

// TaskFromCard converts a board card into an overlay payload.
func TaskFromCard(card domain.Card) Task {
	return Task{ID: card.ID, Title: card.Title}
}

// FirstTask picks the first card of the "To Do" column, else the first card anywhere, else NoTask.
func FirstTask(columns []domain.Column) Task {
	for _, column := range columns {
		if strings.EqualFold(strings.TrimSpace(column.Title), focusColumnTitle) && len(column.Cards) > 0 {
			return TaskFromCard(column.Cards[0])
		}
	}
	for _, column := range columns {
		if len(column.Cards) > 0 {
			return TaskFromCard(column.Cards[0])
		}
	}
	return NoTask
}
