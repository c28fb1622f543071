package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
	"github.com/evanschultz/kanfocus/internal/app"
	"github.com/evanschultz/kanfocus/internal/domain"
	"github.com/evanschultz/kanfocus/internal/focus"
)

// Service is the board surface the model drives.
type Service interface {
	Board() *domain.Board
	Columns() []domain.Column
	AddColumn(title string) (domain.Column, bool, error)
	DeleteColumn(columnID string) bool
	RenameColumn(columnID, title string) (bool, error)
	AddCard(columnID, content string) (domain.Card, bool, error)
	DeleteCard(cardID string) bool
	RenameCard(cardID, title string) (bool, error)
}

// inputMode identifies which overlay or prompt owns key input.
type inputMode int

// input modes.
const (
	modeNone inputMode = iota
	modeAddCard
	modeAddColumn
	modeRenameCard
	modeRenameColumn
	modeCardDetails
	modeFocus
)

// eventLogLimit bounds the in-memory drag event history.
const eventLogLimit = 200

// liveRegion receives announcer sentences and hands the latest one to the status line.
type liveRegion struct {
	message string
}

func (r *liveRegion) announce(sentence string) {
	r.message = sentence
}

func (r *liveRegion) take() string {
	out := r.message
	r.message = ""
	return out
}

// Model is the bubbletea model for the board and the focus overlay.
type Model struct {
	svc Service

	ready  bool
	width  int
	height int

	status string

	help    help.Model
	keys    keyMap
	runtime RuntimeConfig

	columns        []domain.Column
	selectedColumn int
	selectedCard   int

	mode         inputMode
	input        textinput.Model
	editTargetID string
	detailCardID string

	moves          *app.MoveController
	events         *app.EventLog
	live           *liveRegion
	extraNotifiers []app.Notifier
	rebuildMoves   bool

	session      *focus.Session
	focusGen     int
	launchFocus  *focus.Task
	standalone   bool
	tickInterval time.Duration

	markdown       *markdownRenderer
	writeClipboard func(string) error
}

// boardLoadedMsg carries a fresh copy of the board columns.
type boardLoadedMsg struct {
	columns []domain.Column
}

// ConfigReloadedMsg delivers runtime settings reloaded from disk.
type ConfigReloadedMsg struct {
	Config RuntimeConfig
	Err    error
}

// clipboardMsg reports the outcome of a yank.
type clipboardMsg struct {
	title string
	err   error
}

// NewModel constructs the board model.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	in := textinput.New()
	in.CharLimit = 1000
	m := Model{
		svc:            svc,
		status:         "loading...",
		help:           h,
		keys:           newKeyMap(),
		runtime:        DefaultRuntimeConfig(),
		input:          in,
		live:           &liveRegion{},
		events:         app.NewEventLog(nil, eventLogLimit),
		tickInterval:   time.Second,
		markdown:       &markdownRenderer{},
		writeClipboard: clipboard.WriteAll,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	m.keys.applyConfig(m.runtime.Keys)
	m.session = focus.NewSession(m.runtime.FocusDuration)
	m.moves = m.newMoveController()
	if m.launchFocus != nil {
		m.standalone = true
		m.enterFocus(*m.launchFocus)
	}
	return m
}

// Events returns the drag events recorded since the model was built.
func (m Model) Events() []domain.DragEvent {
	return m.events.Events()
}

// FocusSignal returns how the last focus session ended, empty while none has.
func (m Model) FocusSignal() focus.Signal {
	return m.session.LastSignal()
}

// Init loads the board and starts the countdown when launched in focus mode.
func (m Model) Init() tea.Cmd {
	if m.session.Active() {
		return tea.Batch(m.loadBoard, m.focusTick())
	}
	return m.loadBoard
}

// Update applies one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case boardLoadedMsg:
		m.columns = msg.columns
		m.clampSelection()
		if m.status == "" || m.status == "loading..." {
			m.status = "ready"
		}
		return m, nil

	case ConfigReloadedMsg:
		if msg.Err != nil {
			m.status = "reload config failed: " + msg.Err.Error()
			return m, nil
		}
		m.applyRuntimeConfig(msg.Config)
		m.status = "config reloaded"
		return m, nil

	case focusTickMsg:
		return m.handleFocusTick(msg)

	case clipboardMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("copied %q", msg.title)
		return m, nil

	case tea.BlurMsg:
		return m.handleBlur(), nil

	case tea.MouseClickMsg:
		// A click moves focus away from the picked-up card.
		return m.handleBlur(), nil

	case tea.KeyPressMsg:
		switch m.mode {
		case modeFocus:
			return m.handleFocusKey(msg)
		case modeCardDetails:
			return m.handleDetailsKey(msg)
		case modeNone:
			return m.handleBoardKey(msg)
		default:
			return m.handleInputKey(msg)
		}

	default:
		if m.mode != modeNone && m.mode != modeFocus && m.mode != modeCardDetails {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
}

// loadBoard reads the current columns from the service.
func (m Model) loadBoard() tea.Msg {
	return boardLoadedMsg{columns: m.svc.Columns()}
}

// newMoveController wires the keyboard move flow to the board and every listener.
func (m Model) newMoveController() *app.MoveController {
	board := m.svc.Board()
	notifiers := app.MultiNotifier{app.NewAnnouncer(board, m.live.announce), m.events}
	notifiers = append(notifiers, m.extraNotifiers...)
	return app.NewMoveController(board, notifiers, m.runtime.BlurPolicy)
}

// applyRuntimeConfig swaps in reloaded settings. A blur policy change waits for an in-flight
// pick-up to end.
func (m *Model) applyRuntimeConfig(cfg RuntimeConfig) {
	previous := m.runtime
	m.runtime = cfg
	m.keys = newKeyMap()
	m.keys.applyConfig(cfg.Keys)
	if cfg.FocusDuration != previous.FocusDuration && !m.session.Active() {
		m.session = focus.NewSession(cfg.FocusDuration)
	}
	if cfg.BlurPolicy != previous.BlurPolicy {
		if m.moves.State() == app.MoveStateIdle {
			m.moves = m.newMoveController()
		} else {
			m.rebuildMoves = true
		}
	}
}

// handleBoardKey handles keys while no prompt or overlay is open.
func (m Model) handleBoardKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.moves.State() == app.MoveStatePickedUp {
		return m.handleMoveKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		if m.help.ShowAll {
			m.status = "help"
		} else {
			m.status = "ready"
		}
		return m, nil
	case key.Matches(msg, m.keys.cancel):
		if m.help.ShowAll {
			m.help.ShowAll = false
			m.status = "ready"
		}
		return m, nil
	case key.Matches(msg, m.keys.moveLeft):
		if m.selectedColumn > 0 {
			m.selectedColumn--
			m.clampSelection()
		}
		return m, nil
	case key.Matches(msg, m.keys.moveRight):
		if m.selectedColumn < len(m.columns)-1 {
			m.selectedColumn++
			m.clampSelection()
		}
		return m, nil
	case key.Matches(msg, m.keys.moveUp):
		if m.selectedCard > 0 {
			m.selectedCard--
		}
		return m, nil
	case key.Matches(msg, m.keys.moveDown):
		if column, ok := m.currentColumn(); ok && m.selectedCard < column.Len()-1 {
			m.selectedCard++
		}
		return m, nil
	case key.Matches(msg, m.keys.pickUp):
		card, ok := m.selectedCardValue()
		if !ok {
			m.status = "no card selected"
			return m, nil
		}
		return m.applyMoveKey(card.ID, app.KeyActivate), nil
	case key.Matches(msg, m.keys.addCard):
		column, ok := m.currentColumn()
		if !ok {
			m.status = "add a column first"
			return m, nil
		}
		cmd := m.startInput(modeAddCard, "card: ", "card title", "", column.ID)
		return m, cmd
	case key.Matches(msg, m.keys.addColumn):
		cmd := m.startInput(modeAddColumn, "column: ", "column title (empty cancels)", "", "")
		return m, cmd
	case key.Matches(msg, m.keys.renameCard):
		card, ok := m.selectedCardValue()
		if !ok {
			m.status = "no card selected"
			return m, nil
		}
		if !m.moves.BeginEdit(card.ID) {
			return m, nil
		}
		cmd := m.startInput(modeRenameCard, "rename: ", "card title", card.Title, card.ID)
		return m, cmd
	case key.Matches(msg, m.keys.renameColumn):
		column, ok := m.currentColumn()
		if !ok {
			m.status = "no column selected"
			return m, nil
		}
		cmd := m.startInput(modeRenameColumn, "rename column: ", "column title", column.Title, column.ID)
		return m, cmd
	case key.Matches(msg, m.keys.deleteCard):
		card, ok := m.selectedCardValue()
		if !ok {
			m.status = "no card selected"
			return m, nil
		}
		if m.svc.DeleteCard(card.ID) {
			m.status = fmt.Sprintf("deleted card %q", card.Title)
		}
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.deleteColumn):
		column, ok := m.currentColumn()
		if !ok {
			m.status = "no column selected"
			return m, nil
		}
		if m.svc.DeleteColumn(column.ID) {
			m.status = fmt.Sprintf("deleted column %q", column.Title)
		}
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.details):
		card, ok := m.selectedCardValue()
		if !ok {
			m.status = "no card selected"
			return m, nil
		}
		m.mode = modeCardDetails
		m.detailCardID = card.ID
		m.status = "card details"
		return m, nil
	case key.Matches(msg, m.keys.yank):
		card, ok := m.selectedCardValue()
		if !ok {
			m.status = "no card selected"
			return m, nil
		}
		return m, m.copyTitle(card.Title)
	case key.Matches(msg, m.keys.focusMode):
		cmd := m.enterFocus(focus.FirstTask(m.columns))
		return m, cmd
	case key.Matches(msg, m.keys.focusSelected):
		card, ok := m.selectedCardValue()
		if !ok {
			cmd := m.enterFocus(focus.FirstTask(m.columns))
			return m, cmd
		}
		cmd := m.enterFocus(focus.TaskFromCard(card))
		return m, cmd
	default:
		return m, nil
	}
}

// handleMoveKey routes keys to the move controller while a card is picked up.
func (m Model) handleMoveKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	var k app.Key
	switch {
	case key.Matches(msg, m.keys.pickUp):
		k = app.KeyActivate
	case key.Matches(msg, m.keys.drop):
		k = app.KeyConfirm
	case key.Matches(msg, m.keys.cancel):
		k = app.KeyCancel
	case key.Matches(msg, m.keys.moveUp):
		k = app.KeyUp
	case key.Matches(msg, m.keys.moveDown):
		k = app.KeyDown
	case key.Matches(msg, m.keys.moveLeft):
		k = app.KeyLeft
	case key.Matches(msg, m.keys.moveRight):
		k = app.KeyRight
	default:
		return m, nil
	}
	return m.applyMoveKey(m.moves.Active(), k), nil
}

// applyMoveKey hands one key to the controller and follows the active card.
func (m Model) applyMoveKey(cardID string, k app.Key) Model {
	if !m.moves.HandleKey(cardID, k) {
		return m
	}
	m.syncAfterMove(cardID)
	return m
}

// handleBlur ends an in-flight pick-up when the board loses focus.
func (m Model) handleBlur() Model {
	active := m.moves.Active()
	if !m.moves.Blur() {
		return m
	}
	m.syncAfterMove(active)
	return m
}

// syncAfterMove refreshes columns, keeps the cursor on cardID, and shows the latest announcement.
func (m *Model) syncAfterMove(cardID string) {
	m.columns = m.svc.Columns()
	if pos, ok := m.svc.Board().Locate(cardID); ok {
		m.selectedColumn = pos.ColumnIndex
		m.selectedCard = pos.CardIndex
	}
	m.clampSelection()
	if sentence := m.live.take(); sentence != "" {
		m.status = sentence
	}
	if m.rebuildMoves && m.moves.State() == app.MoveStateIdle {
		m.moves = m.newMoveController()
		m.rebuildMoves = false
	}
}

// startInput opens the single-line prompt.
func (m *Model) startInput(mode inputMode, prompt, placeholder, value, target string) tea.Cmd {
	m.mode = mode
	m.editTargetID = target
	m.input.Prompt = prompt
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

// closeInput leaves the prompt and any title edit.
func (m *Model) closeInput() {
	if m.mode == modeRenameCard {
		m.moves.EndEdit()
	}
	m.mode = modeNone
	m.editTargetID = ""
	m.input.Blur()
	m.input.SetValue("")
}

// handleInputKey handles keys while the prompt is open.
func (m Model) handleInputKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeInput()
		m.status = "cancelled"
		return m, nil
	case "enter":
		return m.submitInput()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitInput applies the prompt value for the current mode.
func (m Model) submitInput() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	target := m.editTargetID
	mode := m.mode

	var err error
	switch mode {
	case modeAddCard:
		var card domain.Card
		var added bool
		card, added, err = m.svc.AddCard(target, value)
		if err == nil && added {
			m.status = fmt.Sprintf("added card %q", card.Title)
			m.closeInput()
			m.refresh()
			m.focusCard(card.ID)
			return m, nil
		}
	case modeAddColumn:
		var column domain.Column
		var added bool
		column, added, err = m.svc.AddColumn(value)
		if err == nil {
			m.closeInput()
			m.refresh()
			if !added {
				m.status = "add column cancelled"
				return m, nil
			}
			m.status = fmt.Sprintf("added column %q", column.Title)
			m.selectedColumn = len(m.columns) - 1
			m.clampSelection()
			return m, nil
		}
	case modeRenameCard:
		_, err = m.svc.RenameCard(target, value)
		if err == nil {
			m.status = "card renamed"
		}
	case modeRenameColumn:
		_, err = m.svc.RenameColumn(target, value)
		if err == nil {
			m.status = "column renamed"
		}
	}
	if err != nil {
		if errors.Is(err, app.ErrInvalidTitle) {
			m.status = "title is required"
		} else {
			m.status = err.Error()
		}
		return m, nil
	}
	m.closeInput()
	m.refresh()
	return m, nil
}

// handleDetailsKey closes the details overlay or yanks from it.
func (m Model) handleDetailsKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "esc", key.Matches(msg, m.keys.details), msg.String() == "q":
		m.mode = modeNone
		m.detailCardID = ""
		m.status = "ready"
		return m, nil
	case key.Matches(msg, m.keys.yank):
		if card, ok := m.svc.Board().Card(m.detailCardID); ok {
			return m, m.copyTitle(card.Title)
		}
	}
	return m, nil
}

// copyTitle writes title to the system clipboard.
func (m Model) copyTitle(title string) tea.Cmd {
	write := m.writeClipboard
	return func() tea.Msg {
		return clipboardMsg{title: title, err: write(title)}
	}
}

// refresh reloads columns from the service after a synchronous mutation.
func (m *Model) refresh() {
	m.columns = m.svc.Columns()
	m.clampSelection()
}

// focusCard moves the cursor to cardID when it is on the board.
func (m *Model) focusCard(cardID string) {
	if pos, ok := m.svc.Board().Locate(cardID); ok {
		m.selectedColumn = pos.ColumnIndex
		m.selectedCard = pos.CardIndex
	}
}

// clampSelection keeps the cursor inside the board.
func (m *Model) clampSelection() {
	m.selectedColumn = clamp(m.selectedColumn, 0, len(m.columns)-1)
	if len(m.columns) == 0 {
		m.selectedCard = 0
		return
	}
	m.selectedCard = clamp(m.selectedCard, 0, m.columns[m.selectedColumn].Len()-1)
}

// currentColumn returns the column under the cursor.
func (m Model) currentColumn() (domain.Column, bool) {
	if m.selectedColumn < 0 || m.selectedColumn >= len(m.columns) {
		return domain.Column{}, false
	}
	return m.columns[m.selectedColumn], true
}

// selectedCardValue returns the card under the cursor.
func (m Model) selectedCardValue() (domain.Card, bool) {
	column, ok := m.currentColumn()
	if !ok || m.selectedCard < 0 || m.selectedCard >= column.Len() {
		return domain.Card{}, false
	}
	return column.Cards[m.selectedCard], true
}

// modeLabel names the current mode for the header.
func (m Model) modeLabel() string {
	switch m.mode {
	case modeAddCard:
		return "add card"
	case modeAddColumn:
		return "add column"
	case modeRenameCard:
		return "rename card"
	case modeRenameColumn:
		return "rename column"
	case modeCardDetails:
		return "details"
	case modeFocus:
		return "focus"
	}
	if m.moves.State() == app.MoveStatePickedUp {
		return "moving"
	}
	return "board"
}

// trimmedStatus hides the idle status text.
func trimmedStatus(status string) string {
	status = strings.TrimSpace(status)
	if status == "ready" {
		return ""
	}
	return status
}
