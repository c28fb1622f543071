package app

import (
	"errors"
	"fmt"

	"github.com/evanschultz/kanfocus/internal/domain"
)

// ErrInvalidTitle and related errors describe validation and runtime failures.
var (
	ErrInvalidTitle      = fmt.Errorf("board: %w", domain.ErrInvalidTitle)
	ErrInvalidBlurPolicy = errors.New("invalid blur policy")
)
