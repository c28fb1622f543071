package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/evanschultz/kanfocus/internal/app"
	"github.com/evanschultz/kanfocus/internal/domain"
	"github.com/evanschultz/kanfocus/internal/focus"
)

// newTestService builds "To Do" [First card, Second card] and an empty "Done" column.
func newTestService(t *testing.T) *app.Service {
	t.Helper()
	n := 0
	svc := app.NewService(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}, app.ServiceConfig{})
	todo, _, err := svc.AddColumn("To Do")
	if err != nil {
		t.Fatalf("AddColumn() error = %v", err)
	}
	if _, _, err := svc.AddColumn("Done"); err != nil {
		t.Fatalf("AddColumn() error = %v", err)
	}
	for _, title := range []string{"First card", "Second card"} {
		if _, _, err := svc.AddCard(todo.ID, title); err != nil {
			t.Fatalf("AddCard() error = %v", err)
		}
	}
	return svc
}

func cardIDs(column domain.Column) []string {
	out := make([]string, 0, column.Len())
	for _, card := range column.Cards {
		out = append(out, card.ID)
	}
	return out
}

func TestModelLoadAndNavigation(t *testing.T) {
	m := loadReadyModel(t, NewModel(newTestService(t)))
	if len(m.columns) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(m.columns))
	}
	if m.status != "ready" {
		t.Fatalf("expected ready status, got %q", m.status)
	}

	m = press(t, m, keyRune('j'))
	if m.selectedCard != 1 {
		t.Fatalf("expected second card selected, got %d", m.selectedCard)
	}
	m = press(t, m, keyRune('j'))
	if m.selectedCard != 1 {
		t.Fatalf("expected cursor to stop at last card, got %d", m.selectedCard)
	}
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyRight})
	if m.selectedColumn != 1 || m.selectedCard != 0 {
		t.Fatalf("expected empty Done column selected, got col=%d card=%d", m.selectedColumn, m.selectedCard)
	}
	m = press(t, m, keyRune('l'))
	if m.selectedColumn != 1 {
		t.Fatalf("expected cursor to stop at last column, got %d", m.selectedColumn)
	}
	m = press(t, m, keyRune('h'))
	if m.selectedColumn != 0 {
		t.Fatalf("expected first column, got %d", m.selectedColumn)
	}
}

func TestModelKeyboardMoveAnnouncesAndDrops(t *testing.T) {
	svc := newTestService(t)
	m := loadReadyModel(t, NewModel(svc))

	m = press(t, m, spaceKey())
	if m.moves.State() != app.MoveStatePickedUp || m.moves.Active() != "id-3" {
		t.Fatalf("expected id-3 picked up, got state=%s active=%q", m.moves.State(), m.moves.Active())
	}
	if m.status != `Picked up card "First card".` {
		t.Fatalf("unexpected pick-up announcement %q", m.status)
	}

	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyRight})
	if m.status != `Card "First card" was moved over column "Done".` {
		t.Fatalf("unexpected move announcement %q", m.status)
	}
	if m.selectedColumn != 1 || m.selectedCard != 0 {
		t.Fatalf("expected cursor to follow the card, got col=%d card=%d", m.selectedColumn, m.selectedCard)
	}

	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyRight})
	done, _ := svc.Board().ColumnAt(1)
	todo, _ := svc.Board().ColumnAt(0)
	if got := cardIDs(done); len(got) != 1 || got[0] != "id-3" {
		t.Fatalf("expected Done=[id-3], got %#v", got)
	}
	if got := cardIDs(todo); len(got) != 1 || got[0] != "id-4" {
		t.Fatalf("expected To Do=[id-4], got %#v", got)
	}

	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.moves.State() != app.MoveStateIdle {
		t.Fatalf("expected idle after drop, got %s", m.moves.State())
	}
	if m.status != `Card "First card" was dropped over column "Done".` {
		t.Fatalf("unexpected drop announcement %q", m.status)
	}

	events := m.Events()
	kinds := make([]domain.DragEventKind, 0, len(events))
	for _, event := range events {
		kinds = append(kinds, event.Kind)
	}
	want := []domain.DragEventKind{domain.DragEventStart, domain.DragEventOver, domain.DragEventOver, domain.DragEventDrop}
	if fmt.Sprint(kinds) != fmt.Sprint(want) {
		t.Fatalf("unexpected event kinds %v, want %v", kinds, want)
	}
}

func TestModelEscapeRevertsMove(t *testing.T) {
	svc := newTestService(t)
	m := loadReadyModel(t, NewModel(svc))
	before := svc.Columns()

	m = press(t, m, spaceKey())
	m = press(t, m, keyRune('j'))
	m = press(t, m, keyRune('l'))
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})

	after := svc.Columns()
	for idx := range before {
		if fmt.Sprint(cardIDs(before[idx])) != fmt.Sprint(cardIDs(after[idx])) {
			t.Fatalf("column %d changed: before=%v after=%v", idx, cardIDs(before[idx]), cardIDs(after[idx]))
		}
	}
	if m.status != `Dragging was cancelled. Card "First card" was dropped.` {
		t.Fatalf("unexpected cancel announcement %q", m.status)
	}
	if m.selectedColumn != 0 || m.selectedCard != 0 {
		t.Fatalf("expected cursor back at origin, got col=%d card=%d", m.selectedColumn, m.selectedCard)
	}
}

func TestModelBlurDuringMove(t *testing.T) {
	t.Run("drop policy keeps position", func(t *testing.T) {
		svc := newTestService(t)
		m := loadReadyModel(t, NewModel(svc))
		m = press(t, m, spaceKey())
		m = press(t, m, keyRune('l'))
		m = press(t, m, tea.BlurMsg{})
		if m.moves.State() != app.MoveStateIdle {
			t.Fatalf("expected idle after blur, got %s", m.moves.State())
		}
		done, _ := svc.Board().ColumnAt(1)
		if got := cardIDs(done); len(got) != 1 || got[0] != "id-3" {
			t.Fatalf("expected card to stay in Done, got %#v", got)
		}
		last := m.Events()[len(m.Events())-1]
		if last.Kind != domain.DragEventDrop {
			t.Fatalf("expected drop event, got %s", last.Kind)
		}
	})

	t.Run("cancel policy reverts", func(t *testing.T) {
		svc := newTestService(t)
		cfg := DefaultRuntimeConfig()
		cfg.BlurPolicy = app.BlurPolicyCancel
		m := loadReadyModel(t, NewModel(svc, WithRuntimeConfig(cfg)))
		m = press(t, m, spaceKey())
		m = press(t, m, keyRune('l'))
		m = press(t, m, tea.MouseClickMsg{})
		todo, _ := svc.Board().ColumnAt(0)
		if got := cardIDs(todo); len(got) != 2 || got[0] != "id-3" {
			t.Fatalf("expected card back in To Do, got %#v", got)
		}
		last := m.Events()[len(m.Events())-1]
		if last.Kind != domain.DragEventCancel {
			t.Fatalf("expected cancel event, got %s", last.Kind)
		}
	})

	t.Run("blur while idle is ignored", func(t *testing.T) {
		m := loadReadyModel(t, NewModel(newTestService(t)))
		m = press(t, m, tea.BlurMsg{})
		if len(m.Events()) != 0 {
			t.Fatalf("expected no events, got %#v", m.Events())
		}
	})
}

func TestModelAddCardAndColumn(t *testing.T) {
	svc := newTestService(t)
	m := loadReadyModel(t, NewModel(svc))

	m = press(t, m, keyRune('a'))
	if m.mode != modeAddCard {
		t.Fatalf("expected add card mode, got %v", m.mode)
	}
	m = typeText(t, m, "Third card")
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeNone {
		t.Fatalf("expected prompt closed, got %v", m.mode)
	}
	todo, _ := svc.Board().ColumnAt(0)
	if todo.Len() != 3 || todo.Cards[2].Title != "Third card" {
		t.Fatalf("expected Third card appended, got %#v", todo.Cards)
	}
	if m.selectedCard != 2 {
		t.Fatalf("expected cursor on new card, got %d", m.selectedCard)
	}

	m = press(t, m, keyRune('a'))
	m = typeText(t, m, "   ")
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeAddCard || m.status != "title is required" {
		t.Fatalf("expected blank title rejected, mode=%v status=%q", m.mode, m.status)
	}
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.mode != modeNone {
		t.Fatalf("expected prompt closed on esc, got %v", m.mode)
	}

	m = press(t, m, keyRune('A'))
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if len(svc.Columns()) != 2 || m.status != "add column cancelled" {
		t.Fatalf("expected empty column title to cancel, columns=%d status=%q", len(svc.Columns()), m.status)
	}

	m = press(t, m, keyRune('A'))
	m = typeText(t, m, "Review")
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	columns := svc.Columns()
	if len(columns) != 3 || columns[2].Title != "Review" {
		t.Fatalf("expected Review column, got %#v", columns)
	}
	if m.selectedColumn != 2 {
		t.Fatalf("expected new column selected, got %d", m.selectedColumn)
	}
}

func TestModelRenameCardSuppressesMoves(t *testing.T) {
	svc := newTestService(t)
	m := loadReadyModel(t, NewModel(svc))

	m = press(t, m, keyRune('e'))
	if m.moves.State() != app.MoveStateEditing || m.moves.Editing() != "id-3" {
		t.Fatalf("expected editing id-3, got state=%s editing=%q", m.moves.State(), m.moves.Editing())
	}
	if m.input.Value() != "First card" {
		t.Fatalf("expected prompt prefilled, got %q", m.input.Value())
	}
	m = press(t, m, spaceKey())
	if m.moves.State() != app.MoveStateEditing {
		t.Fatalf("expected space to type while editing, got %s", m.moves.State())
	}
	m.input.SetValue("Renamed card")
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.moves.State() != app.MoveStateIdle {
		t.Fatalf("expected idle after rename, got %s", m.moves.State())
	}
	card, _ := svc.Board().Card("id-3")
	if card.Title != "Renamed card" {
		t.Fatalf("expected renamed card, got %q", card.Title)
	}
}

func TestModelRenameAndDeleteColumn(t *testing.T) {
	svc := newTestService(t)
	m := loadReadyModel(t, NewModel(svc))

	m = press(t, m, keyRune('E'))
	m.input.SetValue("Backlog")
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if column, _ := svc.Board().ColumnAt(0); column.Title != "Backlog" {
		t.Fatalf("expected renamed column, got %q", column.Title)
	}

	m = press(t, m, keyRune('d'))
	if _, ok := svc.Board().Card("id-3"); ok {
		t.Fatal("expected id-3 deleted")
	}
	if m.selectedCard != 0 {
		t.Fatalf("expected cursor clamped, got %d", m.selectedCard)
	}

	m = press(t, m, keyRune('D'))
	if len(svc.Columns()) != 1 {
		t.Fatalf("expected one column left, got %d", len(svc.Columns()))
	}
	if !strings.Contains(m.status, "deleted column") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestModelDetailsAndYank(t *testing.T) {
	var copied string
	m := loadReadyModel(t, NewModel(newTestService(t), WithClipboard(func(s string) error {
		copied = s
		return nil
	})))

	m = press(t, m, keyRune('i'))
	if m.mode != modeCardDetails || m.detailCardID != "id-3" {
		t.Fatalf("expected details for id-3, mode=%v card=%q", m.mode, m.detailCardID)
	}
	out := viewContent(m)
	if !strings.Contains(out, "Card Details") {
		t.Fatalf("expected details overlay in view")
	}

	m = applyMsg(t, m, keyRune('y'))
	if copied != "First card" {
		t.Fatalf("expected title copied, got %q", copied)
	}
	if m.status != `copied "First card"` {
		t.Fatalf("unexpected yank status %q", m.status)
	}

	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.mode != modeNone {
		t.Fatalf("expected details closed, got %v", m.mode)
	}
}

func TestModelYankFailure(t *testing.T) {
	m := loadReadyModel(t, NewModel(newTestService(t), WithClipboard(func(string) error {
		return errors.New("no clipboard")
	})))
	m = applyMsg(t, m, keyRune('y'))
	if m.status != "copy failed: no clipboard" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestModelFocusModeCountdown(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	cfg.FocusDuration = 2 * time.Second
	m := loadReadyModel(t, NewModel(newTestService(t), WithRuntimeConfig(cfg)))

	m = press(t, m, keyRune('f'))
	if m.mode != modeFocus || !m.session.Active() {
		t.Fatalf("expected focus mode, mode=%v active=%t", m.mode, m.session.Active())
	}
	if got := m.session.Task(); got.ID != "id-3" || got.Title != "First card" {
		t.Fatalf("expected first To Do card, got %#v", got)
	}
	if !strings.Contains(viewContent(m), "0:02") {
		t.Fatalf("expected countdown in view")
	}

	stale := focusTickMsg{generation: m.focusGen - 1}
	m = press(t, m, stale)
	if m.session.Countdown().Remaining() != 2*time.Second {
		t.Fatalf("expected stale tick ignored, got %s", m.session.Countdown().Remaining())
	}

	m = press(t, m, focusTickMsg{generation: m.focusGen})
	m = press(t, m, focusTickMsg{generation: m.focusGen})
	if m.session.Active() || m.mode != modeNone {
		t.Fatalf("expected session completed, active=%t mode=%v", m.session.Active(), m.mode)
	}
	if m.session.LastSignal() != focus.SignalComplete {
		t.Fatalf("expected complete signal, got %q", m.session.LastSignal())
	}
	if m.status != "focus complete: First card" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestModelFocusSelectedAndExit(t *testing.T) {
	m := loadReadyModel(t, NewModel(newTestService(t)))
	m = press(t, m, keyRune('j'))
	m = press(t, m, keyRune('F'))
	if got := m.session.Task(); got.ID != "id-4" {
		t.Fatalf("expected selected card in focus, got %#v", got)
	}

	m = press(t, m, spaceKey())
	if m.moves.State() != app.MoveStateIdle {
		t.Fatalf("expected board keys ignored in focus mode")
	}

	m = press(t, m, keyRune('x'))
	if m.session.Active() || m.mode != modeNone {
		t.Fatalf("expected focus exited")
	}
	if m.session.LastSignal() != focus.SignalExit {
		t.Fatalf("expected exit signal, got %q", m.session.LastSignal())
	}
}

func TestModelFocusOnEmptyBoardUsesPlaceholder(t *testing.T) {
	svc := app.NewService(func() string { return "x" }, app.ServiceConfig{})
	m := loadReadyModel(t, NewModel(svc))
	m = press(t, m, keyRune('f'))
	if got := m.session.Task(); got != focus.NoTask {
		t.Fatalf("expected placeholder task, got %#v", got)
	}
}

func TestModelConfigReload(t *testing.T) {
	svc := newTestService(t)
	m := loadReadyModel(t, NewModel(svc))

	m = press(t, m, spaceKey())
	reloaded := DefaultRuntimeConfig()
	reloaded.BlurPolicy = app.BlurPolicyCancel
	reloaded.Keys.Details = "o"
	m = press(t, m, ConfigReloadedMsg{Config: reloaded})
	if m.status != "config reloaded" {
		t.Fatalf("unexpected status %q", m.status)
	}
	if m.moves.BlurPolicy() != app.BlurPolicyDrop {
		t.Fatalf("expected in-flight move to keep drop policy")
	}

	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.moves.BlurPolicy() != app.BlurPolicyCancel {
		t.Fatalf("expected cancel policy after the move ended, got %s", m.moves.BlurPolicy())
	}

	m = press(t, m, keyRune('o'))
	if m.mode != modeCardDetails {
		t.Fatalf("expected reloaded details key to open details, got %v", m.mode)
	}

	m = press(t, m, ConfigReloadedMsg{Err: errors.New("bad toml")})
	if m.status != "reload config failed: bad toml" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestModelViewStates(t *testing.T) {
	m := NewModel(newTestService(t))
	if got := viewContent(m); !strings.Contains(got, "loading...") {
		t.Fatalf("expected loading view, got %q", got)
	}
	m = loadReadyModel(t, m)
	out := viewContent(m)
	for _, want := range []string{"kanfocus", "To Do", "Done", "First card", "(empty)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in board view", want)
		}
	}

	m = press(t, m, keyRune('?'))
	if !strings.Contains(viewContent(m), "kanfocus help") {
		t.Fatalf("expected help overlay")
	}
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.help.ShowAll {
		t.Fatal("expected help closed")
	}

	m = press(t, m, spaceKey())
	if !strings.Contains(viewContent(m), "moving") {
		t.Fatalf("expected moving mode label")
	}
}

func TestModelQuitKey(t *testing.T) {
	m := loadReadyModel(t, NewModel(newTestService(t)))
	_, cmd := m.Update(keyRune('q'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestHelpersCoverage(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Fatalf("unexpected truncate %q", got)
	}
	if got := truncate("abc", 0); got != "" {
		t.Fatalf("unexpected truncate %q", got)
	}
	if got := clamp(5, 0, 3); got != 3 {
		t.Fatalf("unexpected clamp %d", got)
	}
	if got := clamp(1, 0, -1); got != 0 {
		t.Fatalf("unexpected clamp %d", got)
	}
	if got := fitLines("a\nb\nc", 2); got != "a\n…" {
		t.Fatalf("unexpected fitLines %q", got)
	}
	if got := fitLines("a", 3); got != "a\n\n" {
		t.Fatalf("unexpected fitLines %q", got)
	}
	if got := renderProgress(time.Second, 2*time.Second, 4); got != "██░░" {
		t.Fatalf("unexpected progress %q", got)
	}
	if got := (&markdownRenderer{}).render("  ", 40); got != "" {
		t.Fatalf("expected empty markdown, got %q", got)
	}
}

func loadReadyModel(t *testing.T, m Model) Model {
	t.Helper()
	return applyMsg(t, applyCmd(t, m, m.Init()), tea.WindowSizeMsg{Width: 120, Height: 40})
}

// press applies msg and drops any returned command.
func press(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	out, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return out
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = press(t, m, keyRune(r))
	}
	return m
}

func applyMsg(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	out, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return applyCmd(t, out, cmd)
}

func applyCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	out := m
	currentCmd := cmd
	for i := 0; i < 6 && currentCmd != nil; i++ {
		msg := currentCmd()
		updated, nextCmd := out.Update(msg)
		casted, ok := updated.(Model)
		if !ok {
			t.Fatalf("expected Model, got %T", updated)
		}
		out = casted
		currentCmd = nextCmd
	}
	return out
}

func keyRune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func spaceKey() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
}

func viewContent(m Model) string {
	return fmt.Sprint(m.View().Content)
}
