package domain

import "time"

// DragEventKind describes one step of a pick-up cycle.
type DragEventKind string

// DragEventKind values emitted by the move controller.
const (
	DragEventStart  DragEventKind = "start"
	DragEventOver   DragEventKind = "over"
	DragEventDrop   DragEventKind = "drop"
	DragEventCancel DragEventKind = "cancel"
)

// Terminal reports whether the kind ends a pick-up cycle.
func (k DragEventKind) Terminal() bool {
	return k == DragEventDrop || k == DragEventCancel
}

// DragEvent represents a single notification in the drag activity log.
type DragEvent struct {
	Kind       DragEventKind
	ActiveID   string
	OverID     string
	OccurredAt time.Time
}
