package domain

import (
	"slices"
	"strings"
)

// Column is a named, ordered container of cards with a display color.
type Column struct {
	ID    string
	Title string
	Color Color
	Cards []Card
}

// NewColumn constructs an empty column.
func NewColumn(id, title string, color Color) (Column, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Column{}, ErrInvalidID
	}
	if title == "" {
		return Column{}, ErrInvalidTitle
	}
	if color == "" {
		color = DefaultColor
	}
	if !slices.Contains(palette, color) {
		return Column{}, ErrInvalidColor
	}
	return Column{ID: id, Title: title, Color: color}, nil
}

// Len returns the number of cards in the column.
func (c Column) Len() int {
	return len(c.Cards)
}

// IndexOf returns the index of cardID in the column or -1.
func (c Column) IndexOf(cardID string) int {
	return slices.IndexFunc(c.Cards, func(card Card) bool {
		return card.ID == cardID
	})
}

// clone deep-copies the card slice.
func (c Column) clone() Column {
	c.Cards = slices.Clone(c.Cards)
	return c
}
