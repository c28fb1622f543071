package domain

import (
	"slices"
	"strings"
)

// IDGenerator returns unique identifiers for new columns and cards.
type IDGenerator func() string

// Board owns the ordered columns and their ordered cards.
//
// Every mutation is total: unknown identifiers are ignored and the boolean result reports
// whether the board changed. A card id is owned by at most one column after any call.
type Board struct {
	columns []Column
	newID   IDGenerator
}

// NewBoard constructs a board with the given id generator and initial columns.
func NewBoard(newID IDGenerator, columns ...Column) *Board {
	b := &Board{newID: newID}
	for _, column := range columns {
		b.columns = append(b.columns, column.clone())
	}
	return b
}

// Columns returns a deep copy of the board's columns in display order.
func (b *Board) Columns() []Column {
	out := make([]Column, 0, len(b.columns))
	for _, column := range b.columns {
		out = append(out, column.clone())
	}
	return out
}

// Replace swaps the board contents for copies of columns.
func (b *Board) Replace(columns []Column) {
	next := make([]Column, 0, len(columns))
	for _, column := range columns {
		next = append(next, column.clone())
	}
	b.columns = next
}

// Len returns the number of columns.
func (b *Board) Len() int {
	return len(b.columns)
}

// Clone returns an independent copy sharing the id generator.
func (b *Board) Clone() *Board {
	return NewBoard(b.newID, b.columns...)
}

// Column returns a copy of the column with the given id.
func (b *Board) Column(columnID string) (Column, bool) {
	idx := b.columnIndex(columnID)
	if idx < 0 {
		return Column{}, false
	}
	return b.columns[idx].clone(), true
}

// ColumnAt returns a copy of the column at idx.
func (b *Board) ColumnAt(idx int) (Column, bool) {
	if idx < 0 || idx >= len(b.columns) {
		return Column{}, false
	}
	return b.columns[idx].clone(), true
}

// Card returns the card with the given id.
func (b *Board) Card(cardID string) (Card, bool) {
	pos, ok := b.Locate(cardID)
	if !ok {
		return Card{}, false
	}
	return b.columns[pos.ColumnIndex].Cards[pos.CardIndex], true
}

// Locate returns the current position of cardID.
func (b *Board) Locate(cardID string) (Position, bool) {
	if cardID == "" {
		return Position{}, false
	}
	for colIdx, column := range b.columns {
		if cardIdx := column.IndexOf(cardID); cardIdx >= 0 {
			return Position{ColumnID: column.ID, ColumnIndex: colIdx, CardIndex: cardIdx}, true
		}
	}
	return Position{}, false
}

// OverID returns the id of the card following the given slot, or the column id when the slot
// is the last one. It returns "" for an unknown column index.
func (b *Board) OverID(columnIndex, cardIndex int) string {
	if columnIndex < 0 || columnIndex >= len(b.columns) {
		return ""
	}
	column := b.columns[columnIndex]
	if cardIndex >= 0 && cardIndex < len(column.Cards)-1 {
		return column.Cards[cardIndex+1].ID
	}
	return column.ID
}

// AddColumn appends a column titled title. An empty title is a cancelled add.
func (b *Board) AddColumn(title string) (Column, bool) {
	if title == "" {
		return Column{}, false
	}
	column, err := NewColumn(b.nextID(), title, ColorForIndex(len(b.columns)))
	if err != nil {
		return Column{}, false
	}
	b.columns = append(b.columns, column)
	return column.clone(), true
}

// DeleteColumn removes the column and every card it owns.
func (b *Board) DeleteColumn(columnID string) bool {
	idx := b.columnIndex(columnID)
	if idx < 0 {
		return false
	}
	b.columns = slices.Delete(b.columns, idx, idx+1)
	return true
}

// RenameColumn replaces the title of a column.
func (b *Board) RenameColumn(columnID, title string) bool {
	idx := b.columnIndex(columnID)
	if idx < 0 {
		return false
	}
	b.columns[idx].Title = title
	return true
}

// AddCard appends a card to the column when the trimmed content is non-empty.
func (b *Board) AddCard(columnID, content string) (Card, bool) {
	content = strings.TrimSpace(content)
	idx := b.columnIndex(columnID)
	if idx < 0 || content == "" {
		return Card{}, false
	}
	card, err := NewCard(b.nextID(), content)
	if err != nil {
		return Card{}, false
	}
	b.columns[idx].Cards = append(b.columns[idx].Cards, card)
	return card, true
}

// DeleteCard removes the card from whichever column owns it.
func (b *Board) DeleteCard(cardID string) bool {
	pos, ok := b.Locate(cardID)
	if !ok {
		return false
	}
	column := &b.columns[pos.ColumnIndex]
	column.Cards = slices.Delete(column.Cards, pos.CardIndex, pos.CardIndex+1)
	return true
}

// RenameCard replaces the title of the card wherever it is found.
func (b *Board) RenameCard(cardID, title string) bool {
	pos, ok := b.Locate(cardID)
	if !ok {
		return false
	}
	b.columns[pos.ColumnIndex].Cards[pos.CardIndex].Title = title
	return true
}

// MoveCard removes card from its owner, if any, and inserts it into the target column at
// targetIndex clamped to [0, len]. The index is applied after removal, so moving a card to
// its own position leaves the board unchanged. Unknown target columns are ignored.
func (b *Board) MoveCard(targetColumnID string, targetIndex int, card Card) bool {
	target := b.columnIndex(targetColumnID)
	if target < 0 || card.ID == "" {
		return false
	}
	for idx := range b.columns {
		b.columns[idx].Cards = slices.DeleteFunc(b.columns[idx].Cards, func(c Card) bool {
			return c.ID == card.ID
		})
	}
	cards := b.columns[target].Cards
	targetIndex = clampIndex(targetIndex, 0, len(cards))
	b.columns[target].Cards = slices.Insert(cards, targetIndex, card)
	return true
}

// Destination computes where a directional move from pos lands. Vertical moves stay inside
// the column's occupied slots; horizontal moves clamp the column index to the board and the
// card index to the destination column's length, inclusive.
func (b *Board) Destination(pos Position, dir Direction) (Position, bool) {
	if pos.ColumnIndex < 0 || pos.ColumnIndex >= len(b.columns) {
		return Position{}, false
	}
	colIdx := pos.ColumnIndex
	cardIdx := pos.CardIndex
	switch dir {
	case DirectionUp:
		cardIdx = max(cardIdx-1, 0)
	case DirectionDown:
		cardIdx = min(cardIdx+1, len(b.columns[colIdx].Cards)-1)
	case DirectionLeft:
		colIdx = max(colIdx-1, 0)
		cardIdx = min(cardIdx, len(b.columns[colIdx].Cards))
	case DirectionRight:
		colIdx = min(colIdx+1, len(b.columns)-1)
		cardIdx = min(cardIdx, len(b.columns[colIdx].Cards))
	default:
		return Position{}, false
	}
	cardIdx = max(cardIdx, 0)
	return Position{
		ColumnID:    b.columns[colIdx].ID,
		ColumnIndex: colIdx,
		CardIndex:   cardIdx,
	}, true
}

// CardOccurrences counts how often each card id appears across all columns.
func (b *Board) CardOccurrences() map[string]int {
	out := map[string]int{}
	for _, column := range b.columns {
		for _, card := range column.Cards {
			out[card.ID]++
		}
	}
	return out
}

// columnIndex returns the index of columnID or -1.
func (b *Board) columnIndex(columnID string) int {
	if columnID == "" {
		return -1
	}
	return slices.IndexFunc(b.columns, func(c Column) bool {
		return c.ID == columnID
	})
}

// nextID returns a fresh identifier.
func (b *Board) nextID() string {
	if b.newID == nil {
		return ""
	}
	return b.newID()
}

// clampIndex bounds v to [lo, hi].
func clampIndex(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
