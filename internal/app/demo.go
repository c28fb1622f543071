package app

import "github.com/evanschultz/kanfocus/internal/domain"

// demoColumn describes one seeded column.
type demoColumn struct {
	id    string
	title string
	color domain.Color
	cards []domain.Card
}

// demoBoard returns the columns installed by SeedDemoBoard.
func demoBoard() []demoColumn {
	return []demoColumn{
		{
			id:    "eowdjiak9f9jr27po347jr47",
			title: "Backlog",
			color: domain.ColorPrimary,
			cards: []domain.Card{
				{ID: "1", Title: "Add a new column"},
				{ID: "2", Title: "Add a new card"},
				{ID: "3", Title: "Move a card to another column"},
				{ID: "4", Title: "Delete a column"},
				{ID: "5", Title: "Delete a card"},
				{ID: "6", Title: "Update a card title"},
				{ID: "7", Title: "Edit a column title"},
				{ID: "8", Title: "Check out\n\nmulti line\n\ncard content"},
				{ID: "9", Title: "Move a card between two other cards"},
				{ID: "10", Title: "Turn on screen reader and listen to the announcements"},
				{ID: "11", Title: "Notice how with enough cards, the columns become scrollable"},
			},
		},
		{
			id:    "ad1wx5djclsilpu8sjmp9g70",
			title: "To Do",
			color: domain.ColorBlue,
			cards: []domain.Card{
				{ID: "12", Title: "Install the kanban board into your project"},
				{ID: "13", Title: "Build amazing apps"},
			},
		},
		{
			id:    "zm3vyxyo0x47tl60340w8jrl",
			title: "In Progress",
			color: domain.ColorRed,
			cards: []domain.Card{
				{ID: "14", Title: "Make some magic"},
				{ID: "15", Title: "Stay healthy"},
				{ID: "16", Title: "Drink water 💧"},
			},
		},
		{
			id:    "rzaksqoyfvgjbw466puqu9uk",
			title: "In Review",
			color: domain.ColorYellow,
		},
		{
			id:    "w27comaw16gy2jxphpmt9xxv",
			title: "Done",
			color: domain.ColorGreen,
			cards: []domain.Card{
				{ID: "17", Title: "Hey, the column to the left of me is empty!"},
				{ID: "18", Title: "And using the button to the right of me, you can add columns."},
			},
		},
	}
}

// SeedDemoBoard replaces the board contents with the demo columns and cards.
func (s *Service) SeedDemoBoard() {
	seeded := make([]domain.Column, 0, 5)
	for _, demo := range demoBoard() {
		seeded = append(seeded, domain.Column{
			ID:    demo.id,
			Title: demo.title,
			Color: demo.color,
			Cards: demo.cards,
		})
	}
	s.board.Replace(seeded)
}
