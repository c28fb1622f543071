package app

import "github.com/evanschultz/kanfocus/internal/domain"

// BoardState is the board surface the move controller mutates and reads.
type BoardState interface {
	Locate(cardID string) (domain.Position, bool)
	Card(cardID string) (domain.Card, bool)
	Destination(pos domain.Position, dir domain.Direction) (domain.Position, bool)
	MoveCard(targetColumnID string, targetIndex int, card domain.Card) bool
	OverID(columnIndex, cardIndex int) string
}

// TitleLookup resolves card and column titles for announcements.
type TitleLookup interface {
	Card(cardID string) (domain.Card, bool)
	Column(columnID string) (domain.Column, bool)
}

// Logger is the structured logging surface used by LogNotifier.
type Logger interface {
	Info(msg any, keyvals ...any)
	Debug(msg any, keyvals ...any)
}

var (
	_ BoardState  = (*domain.Board)(nil)
	_ TitleLookup = (*domain.Board)(nil)
)
