package app

import (
	"reflect"
	"testing"
	"time"

	"github.com/evanschultz/kanfocus/internal/domain"
)

// recordedEvent is one notifier call captured by tests.
type recordedEvent struct {
	kind   domain.DragEventKind
	cardID string
	overID string
}

// newRecorder returns an event log with a fixed clock.
func newRecorder() *EventLog {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return NewEventLog(func() time.Time { return now }, 0)
}

// recorded flattens an event log for comparison.
func recorded(log *EventLog) []recordedEvent {
	out := []recordedEvent{}
	for _, event := range log.Events() {
		out = append(out, recordedEvent{kind: event.Kind, cardID: event.ActiveID, overID: event.OverID})
	}
	return out
}

// newControllerBoard builds columns A and B with the given card ids.
func newControllerBoard(a, b []string) *domain.Board {
	colA := domain.Column{ID: "A", Title: "Column A", Color: domain.ColorPrimary}
	colB := domain.Column{ID: "B", Title: "Column B", Color: domain.ColorGray}
	for _, id := range a {
		colA.Cards = append(colA.Cards, domain.Card{ID: id, Title: "card " + id})
	}
	for _, id := range b {
		colB.Cards = append(colB.Cards, domain.Card{ID: id, Title: "card " + id})
	}
	return domain.NewBoard(nil, colA, colB)
}

// ids flattens one column of the board.
func ids(t *testing.T, board *domain.Board, columnID string) []string {
	t.Helper()
	column, ok := board.Column(columnID)
	if !ok {
		t.Fatalf("column %s missing", columnID)
	}
	out := []string{}
	for _, card := range column.Cards {
		out = append(out, card.ID)
	}
	return out
}

func TestMoveControllerRightTwiceClampsToLastColumn(t *testing.T) {
	board := newControllerBoard([]string{"1", "2"}, nil)
	log := newRecorder()
	ctrl := NewMoveController(board, log, BlurPolicyDrop)

	if !ctrl.HandleKey("1", KeyActivate) {
		t.Fatal("expected pick-up to be handled")
	}
	ctrl.HandleKey("1", KeyRight)
	ctrl.HandleKey("1", KeyRight)

	if got := ids(t, board, "A"); !reflect.DeepEqual(got, []string{"2"}) {
		t.Fatalf("column A = %v", got)
	}
	if got := ids(t, board, "B"); !reflect.DeepEqual(got, []string{"1"}) {
		t.Fatalf("column B = %v", got)
	}
	want := []recordedEvent{
		{kind: domain.DragEventStart, cardID: "1"},
		{kind: domain.DragEventOver, cardID: "1", overID: "B"},
		{kind: domain.DragEventOver, cardID: "1", overID: "B"},
	}
	if got := recorded(log); !reflect.DeepEqual(got, want) {
		t.Fatalf("events = %#v, want %#v", got, want)
	}
	if ctrl.State() != MoveStatePickedUp || ctrl.Active() != "1" {
		t.Fatalf("expected card 1 still picked up, got %s/%q", ctrl.State(), ctrl.Active())
	}
}

func TestMoveControllerDownThenEscapeRestoresBoard(t *testing.T) {
	board := newControllerBoard([]string{"1", "2", "3"}, []string{"4"})
	before := board.Columns()
	log := newRecorder()
	ctrl := NewMoveController(board, log, BlurPolicyDrop)

	ctrl.HandleKey("2", KeyActivate)
	origin, ok := ctrl.Origin()
	if !ok || origin.ColumnID != "A" || origin.CardIndex != 1 {
		t.Fatalf("unexpected origin %#v ok=%t", origin, ok)
	}
	ctrl.HandleKey("2", KeyDown)
	if got := ids(t, board, "A"); !reflect.DeepEqual(got, []string{"1", "3", "2"}) {
		t.Fatalf("column A after down = %v", got)
	}
	ctrl.HandleKey("2", KeyCancel)

	if !reflect.DeepEqual(before, board.Columns()) {
		t.Fatalf("expected board restored, got %#v", board.Columns())
	}
	want := []recordedEvent{
		{kind: domain.DragEventStart, cardID: "2"},
		{kind: domain.DragEventOver, cardID: "2", overID: "A"},
		{kind: domain.DragEventCancel, cardID: "2"},
	}
	if got := recorded(log); !reflect.DeepEqual(got, want) {
		t.Fatalf("events = %#v, want %#v", got, want)
	}
	if ctrl.State() != MoveStateIdle || ctrl.Active() != "" {
		t.Fatalf("expected idle after cancel, got %s/%q", ctrl.State(), ctrl.Active())
	}
	if _, ok := ctrl.Origin(); ok {
		t.Fatal("expected origin cleared")
	}
}

func TestMoveControllerCancelRestoresOriginAcrossColumns(t *testing.T) {
	board := newControllerBoard([]string{"1", "2", "3"}, []string{"4", "5"})
	before := board.Columns()
	ctrl := NewMoveController(board, nil, BlurPolicyDrop)

	ctrl.HandleKey("1", KeyActivate)
	for _, key := range []Key{KeyRight, KeyDown, KeyDown, KeyLeft, KeyUp, KeyRight} {
		ctrl.HandleKey("1", key)
	}
	ctrl.HandleKey("1", KeyCancel)
	if !reflect.DeepEqual(before, board.Columns()) {
		t.Fatalf("expected original board, got %#v", board.Columns())
	}
}

func TestMoveControllerCancelWithoutMoveDoesNotMutate(t *testing.T) {
	board := newControllerBoard([]string{"1", "2"}, nil)
	log := newRecorder()
	ctrl := NewMoveController(board, log, BlurPolicyDrop)

	ctrl.HandleKey("1", KeyActivate)
	ctrl.HandleKey("1", KeyUp)
	ctrl.HandleKey("1", KeyCancel)

	if got := ids(t, board, "A"); !reflect.DeepEqual(got, []string{"1", "2"}) {
		t.Fatalf("column A = %v", got)
	}
	events := recorded(log)
	if events[1] != (recordedEvent{kind: domain.DragEventOver, cardID: "1", overID: "2"}) {
		t.Fatalf("expected clamped up move to announce card 2, got %#v", events[1])
	}
	if last := events[len(events)-1]; last.kind != domain.DragEventCancel {
		t.Fatalf("expected cancel, got %#v", last)
	}
}

func TestMoveControllerDropReportsOverReference(t *testing.T) {
	cases := []struct {
		name string
		key  Key
	}{
		{name: "space", key: KeyActivate},
		{name: "enter", key: KeyConfirm},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			board := newControllerBoard([]string{"1", "2"}, []string{"3"})
			log := newRecorder()
			ctrl := NewMoveController(board, log, BlurPolicyDrop)
			ctrl.HandleKey("2", KeyActivate)
			ctrl.HandleKey("2", KeyRight)
			ctrl.HandleKey("2", tc.key)

			if got := ids(t, board, "B"); !reflect.DeepEqual(got, []string{"3", "2"}) {
				t.Fatalf("column B = %v", got)
			}
			last, ok := log.Last()
			if !ok || last.Kind != domain.DragEventDrop || last.OverID != "B" {
				t.Fatalf("expected drop over column B, got %#v", last)
			}
			if ctrl.State() != MoveStateIdle {
				t.Fatalf("expected idle, got %s", ctrl.State())
			}
		})
	}
}

func TestMoveControllerBoundsAtEdges(t *testing.T) {
	board := newControllerBoard([]string{"1", "2"}, []string{"3"})
	ctrl := NewMoveController(board, nil, BlurPolicyDrop)

	ctrl.HandleKey("1", KeyActivate)
	ctrl.HandleKey("1", KeyUp)
	ctrl.HandleKey("1", KeyLeft)
	if pos, _ := board.Locate("1"); pos.ColumnID != "A" || pos.CardIndex != 0 {
		t.Fatalf("expected card 1 first in A, got %#v", pos)
	}
	ctrl.HandleKey("1", KeyDown)
	ctrl.HandleKey("1", KeyDown)
	if pos, _ := board.Locate("1"); pos.ColumnID != "A" || pos.CardIndex != 1 {
		t.Fatalf("expected card 1 last in A, got %#v", pos)
	}
	ctrl.HandleKey("1", KeyConfirm)
}

func TestMoveControllerIgnoresOtherCardsAndIdleKeys(t *testing.T) {
	board := newControllerBoard([]string{"1", "2"}, nil)
	log := newRecorder()
	ctrl := NewMoveController(board, log, BlurPolicyDrop)

	for _, key := range []Key{KeyConfirm, KeyCancel, KeyDown, KeyNone} {
		if ctrl.HandleKey("1", key) {
			t.Fatalf("expected idle key %d to be ignored", key)
		}
	}
	if ctrl.HandleKey("missing", KeyActivate) {
		t.Fatal("expected pick-up of unknown card to be ignored")
	}
	ctrl.HandleKey("1", KeyActivate)
	if ctrl.HandleKey("2", KeyDown) || ctrl.HandleKey("2", KeyActivate) {
		t.Fatal("expected keys for another card to be ignored")
	}
	if ctrl.Active() != "1" {
		t.Fatalf("expected card 1 active, got %q", ctrl.Active())
	}
	if got := len(log.Events()); got != 1 {
		t.Fatalf("expected only the pick-up event, got %d", got)
	}
}

func TestMoveControllerBlurPolicies(t *testing.T) {
	t.Run("drop keeps position", func(t *testing.T) {
		board := newControllerBoard([]string{"1", "2"}, nil)
		log := newRecorder()
		ctrl := NewMoveController(board, log, BlurPolicyDrop)
		ctrl.HandleKey("1", KeyActivate)
		ctrl.HandleKey("1", KeyDown)
		if !ctrl.Blur() {
			t.Fatal("expected blur to end the pick-up")
		}
		if got := ids(t, board, "A"); !reflect.DeepEqual(got, []string{"2", "1"}) {
			t.Fatalf("column A = %v", got)
		}
		if last, _ := log.Last(); last.Kind != domain.DragEventDrop || last.OverID != "A" {
			t.Fatalf("expected drop, got %#v", last)
		}
	})
	t.Run("cancel reverts", func(t *testing.T) {
		board := newControllerBoard([]string{"1", "2"}, nil)
		log := newRecorder()
		ctrl := NewMoveController(board, log, BlurPolicyCancel)
		ctrl.HandleKey("1", KeyActivate)
		ctrl.HandleKey("1", KeyDown)
		ctrl.Blur()
		if got := ids(t, board, "A"); !reflect.DeepEqual(got, []string{"1", "2"}) {
			t.Fatalf("column A = %v", got)
		}
		if last, _ := log.Last(); last.Kind != domain.DragEventCancel {
			t.Fatalf("expected cancel, got %#v", last)
		}
	})
	t.Run("idle blur is a no-op", func(t *testing.T) {
		ctrl := NewMoveController(newControllerBoard(nil, nil), nil, "")
		if ctrl.Blur() {
			t.Fatal("expected idle blur to be ignored")
		}
		if ctrl.BlurPolicy() != BlurPolicyDrop {
			t.Fatalf("expected default drop policy, got %q", ctrl.BlurPolicy())
		}
	})
}

func TestMoveControllerLostCardEndsCycleOnce(t *testing.T) {
	board := newControllerBoard([]string{"1", "2"}, nil)
	log := newRecorder()
	ctrl := NewMoveController(board, log, BlurPolicyDrop)
	ctrl.HandleKey("1", KeyActivate)
	board.DeleteCard("1")
	before := board.Columns()

	if !ctrl.HandleKey("1", KeyDown) {
		t.Fatal("expected key for active card to be consumed")
	}
	if !reflect.DeepEqual(before, board.Columns()) {
		t.Fatal("expected no board change for a lost card")
	}
	if ctrl.State() != MoveStateIdle {
		t.Fatalf("expected idle, got %s", ctrl.State())
	}
	terminal := 0
	for _, event := range log.Events() {
		if event.Kind.Terminal() {
			terminal++
		}
	}
	if terminal != 1 {
		t.Fatalf("expected one terminal event, got %d", terminal)
	}
	if ctrl.HandleKey("1", KeyCancel) {
		t.Fatal("expected controller to be idle after lost card")
	}
}

func TestMoveControllerEditingSuppressesMoves(t *testing.T) {
	board := newControllerBoard([]string{"1", "2"}, nil)
	ctrl := NewMoveController(board, nil, BlurPolicyDrop)

	if !ctrl.BeginEdit("1") {
		t.Fatal("expected edit to begin from idle")
	}
	if ctrl.HandleKey("1", KeyActivate) || ctrl.HandleKey("1", KeyDown) {
		t.Fatal("expected keys suppressed while editing")
	}
	if ctrl.State() != MoveStateEditing || ctrl.Editing() != "1" {
		t.Fatalf("expected editing card 1, got %s/%q", ctrl.State(), ctrl.Editing())
	}
	if !ctrl.EndEdit() {
		t.Fatal("expected edit to end")
	}
	ctrl.HandleKey("1", KeyActivate)
	if ctrl.BeginEdit("1") {
		t.Fatal("expected edit to be refused while picked up")
	}
	if ctrl.EndEdit() {
		t.Fatal("expected EndEdit to be a no-op while picked up")
	}
}

func TestParseBlurPolicy(t *testing.T) {
	cases := map[string]BlurPolicy{"": BlurPolicyDrop, " Drop ": BlurPolicyDrop, "cancel": BlurPolicyCancel}
	for raw, want := range cases {
		got, err := ParseBlurPolicy(raw)
		if err != nil {
			t.Fatalf("ParseBlurPolicy(%q) error = %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseBlurPolicy(%q) = %q, want %q", raw, got, want)
		}
	}
	if _, err := ParseBlurPolicy("revert"); err == nil {
		t.Fatal("expected invalid blur policy error")
	}
}
