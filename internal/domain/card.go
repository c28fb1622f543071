package domain

import "strings"

// Card is a titled unit of work owned by exactly one column.
type Card struct {
	ID    string
	Title string
}

// NewCard constructs a card, rejecting blank ids and titles.
func NewCard(id, title string) (Card, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Card{}, ErrInvalidID
	}
	if IsBlank(title) {
		return Card{}, ErrInvalidTitle
	}
	return Card{ID: id, Title: title}, nil
}

// IsBlank reports whether s has no non-whitespace characters.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
