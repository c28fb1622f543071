package domain

// Position locates a card on the board.
type Position struct {
	ColumnID    string
	ColumnIndex int
	CardIndex   int
}

// Direction is one directional input for keyboard moves.
type Direction int

// Directions understood by Board.Destination.
const (
	DirectionUp Direction = iota
	DirectionDown
	DirectionLeft
	DirectionRight
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	default:
		return "unknown"
	}
}
