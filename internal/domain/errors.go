package domain

import "errors"

var (
	ErrInvalidID       = errors.New("invalid id")
	ErrInvalidTitle    = errors.New("invalid title")
	ErrInvalidColor    = errors.New("invalid color")
	ErrInvalidPosition = errors.New("invalid position")
)
