package domain

import (
	"reflect"
	"testing"

	"pgregory.net/rapid"
)

// TestBoardOwnershipInvariant runs random add/delete/move sequences and checks every card id
// is owned by at most one column after each step.
func TestBoardOwnershipInvariant(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		b := NewBoard(sequentialIDs("id-"))
		colCount := rapid.IntRange(1, 4).Draw(rt, "columns")
		for i := 0; i < colCount; i++ {
			b.AddColumn("column")
		}
		known := []Card{}
		steps := rapid.IntRange(1, 60).Draw(rt, "steps")
		for step := 0; step < steps; step++ {
			cols := b.Columns()
			switch rapid.IntRange(0, 2).Draw(rt, "op") {
			case 0:
				col := cols[rapid.IntRange(0, len(cols)-1).Draw(rt, "addColumn")]
				if card, ok := b.AddCard(col.ID, "card"); ok {
					known = append(known, card)
				}
			case 1:
				if len(known) == 0 {
					continue
				}
				b.DeleteCard(known[rapid.IntRange(0, len(known)-1).Draw(rt, "deleteCard")].ID)
			case 2:
				if len(known) == 0 {
					continue
				}
				card := known[rapid.IntRange(0, len(known)-1).Draw(rt, "moveCard")]
				col := cols[rapid.IntRange(0, len(cols)-1).Draw(rt, "moveColumn")]
				b.MoveCard(col.ID, rapid.IntRange(-2, 10).Draw(rt, "moveIndex"), card)
			}
			for id, count := range b.CardOccurrences() {
				if count > 1 {
					rt.Fatalf("card %s owned %d times after step %d", id, count, step)
				}
			}
		}
	})
}

// TestMoveToCurrentPositionProperty checks moving any card to its own slot is a no-op.
func TestMoveToCurrentPositionProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		b := NewBoard(sequentialIDs("id-"))
		b.AddColumn("left")
		b.AddColumn("right")
		cols := b.Columns()
		cards := []Card{}
		cardCount := rapid.IntRange(1, 12).Draw(rt, "cards")
		for i := 0; i < cardCount; i++ {
			col := cols[rapid.IntRange(0, 1).Draw(rt, "column")]
			card, _ := b.AddCard(col.ID, "card")
			cards = append(cards, card)
		}
		card := cards[rapid.IntRange(0, len(cards)-1).Draw(rt, "pick")]
		pos, _ := b.Locate(card.ID)
		before := b.Columns()
		b.MoveCard(pos.ColumnID, pos.CardIndex, card)
		if !reflect.DeepEqual(before, b.Columns()) {
			rt.Fatalf("board changed after moving %s to its own position", card.ID)
		}
	})
}

// TestDestinationStaysInBounds checks directional destinations never leave the board.
func TestDestinationStaysInBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		b := NewBoard(sequentialIDs("id-"))
		colCount := rapid.IntRange(1, 5).Draw(rt, "columns")
		for i := 0; i < colCount; i++ {
			col, _ := b.AddColumn("column")
			cardCount := rapid.IntRange(0, 4).Draw(rt, "cards")
			for j := 0; j < cardCount; j++ {
				b.AddCard(col.ID, "card")
			}
		}
		cols := b.Columns()
		nonEmpty := []int{}
		for idx, col := range cols {
			if col.Len() > 0 {
				nonEmpty = append(nonEmpty, idx)
			}
		}
		if len(nonEmpty) == 0 {
			return
		}
		colIdx := nonEmpty[rapid.IntRange(0, len(nonEmpty)-1).Draw(rt, "from")]
		from := Position{
			ColumnID:    cols[colIdx].ID,
			ColumnIndex: colIdx,
			CardIndex:   rapid.IntRange(0, cols[colIdx].Len()-1).Draw(rt, "index"),
		}
		dir := Direction(rapid.IntRange(0, 3).Draw(rt, "direction"))
		to, ok := b.Destination(from, dir)
		if !ok {
			rt.Fatalf("Destination(%+v, %s) not ok", from, dir)
		}
		if to.ColumnIndex < 0 || to.ColumnIndex >= len(cols) {
			rt.Fatalf("column index %d out of bounds", to.ColumnIndex)
		}
		limit := cols[to.ColumnIndex].Len()
		if to.ColumnIndex == from.ColumnIndex {
			limit--
		}
		if to.CardIndex < 0 || to.CardIndex > limit {
			rt.Fatalf("card index %d out of bounds [0,%d]", to.CardIndex, limit)
		}
	})
}
