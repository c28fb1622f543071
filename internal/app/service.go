package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/evanschultz/kanfocus/internal/domain"
)

// defaultMaxTitleLength bounds card and column titles when no limit is configured.
const defaultMaxTitleLength = 1000

// ServiceConfig holds configuration for service.
type ServiceConfig struct {
	SeedDemo       bool
	MaxTitleLength int
}

// IDGenerator returns unique identifiers for new entities.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Service owns the board and validates user input before it reaches it.
type Service struct {
	board     *domain.Board
	validate  *validator.Validate
	maxLength int
}

// titleInput is the validated shape of every user-supplied title.
type titleInput struct {
	Title string `validate:"required,notblank"`
}

// NewService constructs a new value for this package.
func NewService(idGen IDGenerator, cfg ServiceConfig) *Service {
	if idGen == nil {
		idGen = func() string { return "" }
	}
	if cfg.MaxTitleLength <= 0 {
		cfg.MaxTitleLength = defaultMaxTitleLength
	}
	validate := validator.New()
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("register notblank validation: %v", err))
	}

	s := &Service{
		board:     domain.NewBoard(domain.IDGenerator(idGen)),
		validate:  validate,
		maxLength: cfg.MaxTitleLength,
	}
	if cfg.SeedDemo {
		s.SeedDemoBoard()
	}
	return s
}

// Board returns the owned board for read access and for the move controller.
func (s *Service) Board() *domain.Board {
	return s.board
}

// Columns returns a copy of the columns in display order.
func (s *Service) Columns() []domain.Column {
	return s.board.Columns()
}

// AddColumn appends a column. An empty title is a cancelled add and returns ok=false with no error.
func (s *Service) AddColumn(title string) (domain.Column, bool, error) {
	if title == "" {
		return domain.Column{}, false, nil
	}
	if err := s.validateTitle(title); err != nil {
		return domain.Column{}, false, err
	}
	column, ok := s.board.AddColumn(strings.TrimSpace(title))
	return column, ok, nil
}

// DeleteColumn deletes a column and its cards.
func (s *Service) DeleteColumn(columnID string) bool {
	return s.board.DeleteColumn(columnID)
}

// RenameColumn renames a column after validating the new title.
func (s *Service) RenameColumn(columnID, title string) (bool, error) {
	if err := s.validateTitle(title); err != nil {
		return false, err
	}
	return s.board.RenameColumn(columnID, strings.TrimSpace(title)), nil
}

// AddCard appends a card to a column after validating its content.
func (s *Service) AddCard(columnID, content string) (domain.Card, bool, error) {
	if err := s.validateTitle(content); err != nil {
		return domain.Card{}, false, err
	}
	card, ok := s.board.AddCard(columnID, content)
	return card, ok, nil
}

// DeleteCard deletes a card wherever it is owned.
func (s *Service) DeleteCard(cardID string) bool {
	return s.board.DeleteCard(cardID)
}

// RenameCard renames a card after validating the new title.
func (s *Service) RenameCard(cardID, title string) (bool, error) {
	if err := s.validateTitle(title); err != nil {
		return false, err
	}
	return s.board.RenameCard(cardID, strings.TrimSpace(title)), nil
}

// MoveCard moves a card to targetIndex within the target column.
func (s *Service) MoveCard(targetColumnID string, targetIndex int, card domain.Card) bool {
	return s.board.MoveCard(targetColumnID, targetIndex, card)
}

// validateTitle rejects empty, whitespace-only, and oversized titles.
func (s *Service) validateTitle(title string) error {
	if err := s.validate.Struct(titleInput{Title: title}); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTitle, err)
	}
	if err := s.validate.Var(title, fmt.Sprintf("max=%d", s.maxLength)); err != nil {
		return fmt.Errorf("%w: title longer than %d characters", ErrInvalidTitle, s.maxLength)
	}
	return nil
}
