package app

import (
	"fmt"
	"strings"

	"github.com/evanschultz/kanfocus/internal/domain"
)

// MoveState identifies one state of the keyboard move controller.
type MoveState int

// MoveState values.
const (
	MoveStateIdle MoveState = iota
	MoveStatePickedUp
	MoveStateEditing
)

// String returns the state name.
func (s MoveState) String() string {
	switch s {
	case MoveStateIdle:
		return "idle"
	case MoveStatePickedUp:
		return "picked-up"
	case MoveStateEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// Key is one logical keyboard input understood by the move controller.
type Key int

// Key values. Activate is space, Confirm is enter, Cancel is escape.
const (
	KeyNone Key = iota
	KeyActivate
	KeyConfirm
	KeyCancel
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

// direction maps arrow keys to board directions.
func (k Key) direction() (domain.Direction, bool) {
	switch k {
	case KeyUp:
		return domain.DirectionUp, true
	case KeyDown:
		return domain.DirectionDown, true
	case KeyLeft:
		return domain.DirectionLeft, true
	case KeyRight:
		return domain.DirectionRight, true
	default:
		return 0, false
	}
}

// BlurPolicy decides how losing focus ends an in-progress pick-up.
type BlurPolicy string

// BlurPolicy values.
const (
	BlurPolicyDrop   BlurPolicy = "drop"
	BlurPolicyCancel BlurPolicy = "cancel"
)

// ParseBlurPolicy normalizes raw into a supported blur policy. Empty input selects drop.
func ParseBlurPolicy(raw string) (BlurPolicy, error) {
	switch policy := BlurPolicy(strings.TrimSpace(strings.ToLower(raw))); policy {
	case "":
		return BlurPolicyDrop, nil
	case BlurPolicyDrop, BlurPolicyCancel:
		return policy, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidBlurPolicy, raw)
	}
}

// MoveController drives keyboard pick-up, move, drop, and cancel for one board.
//
// Every directional move applies the board mutation and then reads the card's new neighbor
// inside the same call, so announcements never observe stale positions. Each pick-up cycle
// ends with exactly one NotifyDrop or NotifyCancel.
type MoveController struct {
	board    BoardState
	notifier Notifier
	blur     BlurPolicy

	state   MoveState
	active  string
	origin  domain.Position
	editing string
}

// NewMoveController constructs an idle controller.
func NewMoveController(board BoardState, notifier Notifier, blur BlurPolicy) *MoveController {
	if notifier == nil {
		notifier = MultiNotifier(nil)
	}
	if blur == "" {
		blur = BlurPolicyDrop
	}
	return &MoveController{board: board, notifier: notifier, blur: blur}
}

// State returns the current controller state.
func (c *MoveController) State() MoveState {
	return c.state
}

// Active returns the picked-up card id, or "" when idle.
func (c *MoveController) Active() string {
	return c.active
}

// Origin returns the position recorded at pick-up.
func (c *MoveController) Origin() (domain.Position, bool) {
	if c.state != MoveStatePickedUp {
		return domain.Position{}, false
	}
	return c.origin, true
}

// Editing returns the card whose title is being edited, or "".
func (c *MoveController) Editing() string {
	return c.editing
}

// BlurPolicy returns the configured blur policy.
func (c *MoveController) BlurPolicy() BlurPolicy {
	return c.blur
}

// HandleKey applies one key pressed while cardID has focus and reports whether it was consumed.
func (c *MoveController) HandleKey(cardID string, key Key) bool {
	switch c.state {
	case MoveStateEditing:
		return false
	case MoveStateIdle:
		if key != KeyActivate {
			return false
		}
		return c.pickUp(cardID)
	}

	if cardID != c.active {
		return false
	}
	switch key {
	case KeyActivate, KeyConfirm:
		c.drop()
		return true
	case KeyCancel:
		c.cancel()
		return true
	}
	if dir, ok := key.direction(); ok {
		c.move(dir)
		return true
	}
	return false
}

// Blur ends an in-progress pick-up according to the blur policy without a directional move.
func (c *MoveController) Blur() bool {
	if c.state != MoveStatePickedUp {
		return false
	}
	if c.blur == BlurPolicyCancel {
		c.cancel()
		return true
	}
	c.drop()
	return true
}

// BeginEdit enters title editing for cardID. Editing is only allowed while idle.
func (c *MoveController) BeginEdit(cardID string) bool {
	if c.state != MoveStateIdle || cardID == "" {
		return false
	}
	c.state = MoveStateEditing
	c.editing = cardID
	return true
}

// EndEdit leaves title editing.
func (c *MoveController) EndEdit() bool {
	if c.state != MoveStateEditing {
		return false
	}
	c.state = MoveStateIdle
	c.editing = ""
	return true
}

// pickUp records the origin of cardID and notifies the pick-up.
func (c *MoveController) pickUp(cardID string) bool {
	pos, ok := c.board.Locate(cardID)
	if !ok {
		return false
	}
	c.state = MoveStatePickedUp
	c.active = cardID
	c.origin = pos
	c.notifier.NotifyPickUp(cardID)
	return true
}

// move applies one clamped directional move and announces the new neighbor.
func (c *MoveController) move(dir domain.Direction) {
	cardID := c.active
	pos, ok := c.board.Locate(cardID)
	if !ok {
		c.lost(cardID)
		return
	}
	card, _ := c.board.Card(cardID)
	dest, ok := c.board.Destination(pos, dir)
	if !ok {
		c.lost(cardID)
		return
	}
	c.board.MoveCard(dest.ColumnID, dest.CardIndex, card)

	moved, ok := c.board.Locate(cardID)
	if !ok {
		c.lost(cardID)
		return
	}
	c.notifier.NotifyMove(cardID, c.board.OverID(moved.ColumnIndex, moved.CardIndex))
}

// drop confirms the card at its current position.
func (c *MoveController) drop() {
	cardID := c.active
	pos, ok := c.board.Locate(cardID)
	if !ok {
		c.lost(cardID)
		return
	}
	c.reset()
	c.notifier.NotifyDrop(cardID, c.board.OverID(pos.ColumnIndex, pos.CardIndex))
}

// cancel reverts the card to its origin when it moved and notifies the cancellation.
func (c *MoveController) cancel() {
	cardID := c.active
	origin := c.origin
	pos, ok := c.board.Locate(cardID)
	if !ok {
		c.lost(cardID)
		return
	}
	if pos.ColumnID != origin.ColumnID || pos.CardIndex != origin.CardIndex {
		card, _ := c.board.Card(cardID)
		c.board.MoveCard(origin.ColumnID, origin.CardIndex, card)
	}
	c.reset()
	c.notifier.NotifyCancel(cardID)
}

// lost ends the cycle for a card that is no longer on the board.
func (c *MoveController) lost(cardID string) {
	c.reset()
	c.notifier.NotifyCancel(cardID)
}

// reset returns the controller to idle.
func (c *MoveController) reset() {
	c.state = MoveStateIdle
	c.active = ""
	c.origin = domain.Position{}
}
