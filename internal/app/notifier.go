package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/evanschultz/kanfocus/internal/domain"
)

// Notifier receives fire-and-forget drag lifecycle events.
type Notifier interface {
	NotifyPickUp(cardID string)
	NotifyMove(cardID, overID string)
	NotifyDrop(cardID, overID string)
	NotifyCancel(cardID string)
}

// Announcer turns drag events into human-readable sentences.
type Announcer struct {
	titles TitleLookup
	sink   func(string)
}

// NewAnnouncer constructs an announcer that writes sentences to sink.
func NewAnnouncer(titles TitleLookup, sink func(string)) *Announcer {
	if sink == nil {
		sink = func(string) {}
	}
	return &Announcer{titles: titles, sink: sink}
}

// NotifyPickUp announces a pick-up.
func (a *Announcer) NotifyPickUp(cardID string) {
	a.sink(fmt.Sprintf("Picked up card %s.", a.cardName(cardID)))
}

// NotifyMove announces the new neighbor of a moved card.
func (a *Announcer) NotifyMove(cardID, overID string) {
	a.sink(fmt.Sprintf("Card %s was moved over %s.", a.cardName(cardID), a.overName(overID)))
}

// NotifyDrop announces a completed drop.
func (a *Announcer) NotifyDrop(cardID, overID string) {
	if overID == "" {
		a.sink(fmt.Sprintf("Card %s was dropped.", a.cardName(cardID)))
		return
	}
	a.sink(fmt.Sprintf("Card %s was dropped over %s.", a.cardName(cardID), a.overName(overID)))
}

// NotifyCancel announces a cancelled drag.
func (a *Announcer) NotifyCancel(cardID string) {
	a.sink(fmt.Sprintf("Dragging was cancelled. Card %s was dropped.", a.cardName(cardID)))
}

// cardName returns the quoted card title, or the raw id for unknown cards.
func (a *Announcer) cardName(cardID string) string {
	if a.titles != nil {
		if card, ok := a.titles.Card(cardID); ok {
			return fmt.Sprintf("%q", card.Title)
		}
	}
	return cardID
}

// overName describes an over reference as a card or a column.
func (a *Announcer) overName(overID string) string {
	if a.titles != nil {
		if card, ok := a.titles.Card(overID); ok {
			return fmt.Sprintf("card %q", card.Title)
		}
		if column, ok := a.titles.Column(overID); ok {
			return fmt.Sprintf("column %q", column.Title)
		}
	}
	return overID
}

// LogNotifier writes each drag event to a structured logger.
type LogNotifier struct {
	logger Logger
}

// NewLogNotifier constructs a log-backed notifier.
func NewLogNotifier(logger Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// NotifyPickUp logs a pick-up.
func (n *LogNotifier) NotifyPickUp(cardID string) {
	n.log(domain.DragEventStart, cardID, "")
}

// NotifyMove logs a move.
func (n *LogNotifier) NotifyMove(cardID, overID string) {
	n.log(domain.DragEventOver, cardID, overID)
}

// NotifyDrop logs a drop.
func (n *LogNotifier) NotifyDrop(cardID, overID string) {
	n.log(domain.DragEventDrop, cardID, overID)
}

// NotifyCancel logs a cancel.
func (n *LogNotifier) NotifyCancel(cardID string) {
	n.log(domain.DragEventCancel, cardID, "")
}

// log emits terminal events at info level and the rest at debug level.
func (n *LogNotifier) log(kind domain.DragEventKind, cardID, overID string) {
	if n == nil || n.logger == nil {
		return
	}
	keyvals := []any{"event", string(kind), "card_id", cardID}
	if overID != "" {
		keyvals = append(keyvals, "over_id", overID)
	}
	if kind.Terminal() {
		n.logger.Info("drag event", keyvals...)
		return
	}
	n.logger.Debug("drag event", keyvals...)
}

// MultiNotifier fans events out to every non-nil notifier in order.
type MultiNotifier []Notifier

// NotifyPickUp forwards a pick-up.
func (m MultiNotifier) NotifyPickUp(cardID string) {
	for _, n := range m {
		if n != nil {
			n.NotifyPickUp(cardID)
		}
	}
}

// NotifyMove forwards a move.
func (m MultiNotifier) NotifyMove(cardID, overID string) {
	for _, n := range m {
		if n != nil {
			n.NotifyMove(cardID, overID)
		}
	}
}

// NotifyDrop forwards a drop.
func (m MultiNotifier) NotifyDrop(cardID, overID string) {
	for _, n := range m {
		if n != nil {
			n.NotifyDrop(cardID, overID)
		}
	}
}

// NotifyCancel forwards a cancel.
func (m MultiNotifier) NotifyCancel(cardID string) {
	for _, n := range m {
		if n != nil {
			n.NotifyCancel(cardID)
		}
	}
}

// EventLog keeps the most recent drag events in memory.
type EventLog struct {
	mu     sync.Mutex
	clock  Clock
	limit  int
	events []domain.DragEvent
}

// NewEventLog constructs a bounded event log. A non-positive limit keeps every event.
func NewEventLog(clock Clock, limit int) *EventLog {
	if clock == nil {
		clock = time.Now
	}
	return &EventLog{clock: clock, limit: limit}
}

// NotifyPickUp records a pick-up.
func (l *EventLog) NotifyPickUp(cardID string) {
	l.record(domain.DragEventStart, cardID, "")
}

// NotifyMove records a move.
func (l *EventLog) NotifyMove(cardID, overID string) {
	l.record(domain.DragEventOver, cardID, overID)
}

// NotifyDrop records a drop.
func (l *EventLog) NotifyDrop(cardID, overID string) {
	l.record(domain.DragEventDrop, cardID, overID)
}

// NotifyCancel records a cancel.
func (l *EventLog) NotifyCancel(cardID string) {
	l.record(domain.DragEventCancel, cardID, "")
}

// Events returns a copy of the recorded events, oldest first.
func (l *EventLog) Events() []domain.DragEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.DragEvent, len(l.events))
	copy(out, l.events)
	return out
}

// Last returns the most recent event.
func (l *EventLog) Last() (domain.DragEvent, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) == 0 {
		return domain.DragEvent{}, false
	}
	return l.events[len(l.events)-1], true
}

// record appends one event and trims the log to its limit.
func (l *EventLog) record(kind domain.DragEventKind, cardID, overID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, domain.DragEvent{
		Kind:       kind,
		ActiveID:   cardID,
		OverID:     overID,
		OccurredAt: l.clock().UTC(),
	})
	if l.limit > 0 && len(l.events) > l.limit {
		l.events = append([]domain.DragEvent(nil), l.events[len(l.events)-l.limit:]...)
	}
}

var (
	_ Notifier = (*Announcer)(nil)
	_ Notifier = (*LogNotifier)(nil)
	_ Notifier = MultiNotifier(nil)
	_ Notifier = (*EventLog)(nil)
)
