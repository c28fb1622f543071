package tui

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/evanschultz/kanfocus/internal/app"
	"github.com/evanschultz/kanfocus/internal/domain"
)

// paletteColors maps board palette names onto terminal colors.
var paletteColors = map[domain.Color]string{
	domain.ColorPrimary: "62",
	domain.ColorGray:    "245",
	domain.ColorRed:     "203",
	domain.ColorYellow:  "221",
	domain.ColorGreen:   "114",
	domain.ColorCyan:    "80",
	domain.ColorBlue:    "75",
	domain.ColorIndigo:  "105",
	domain.ColorViolet:  "141",
	domain.ColorPurple:  "135",
	domain.ColorPink:    "212",
}

// columnAccent returns the terminal color for a column.
func columnAccent(c domain.Color) color.Color {
	if code, ok := paletteColors[c]; ok {
		return lipgloss.Color(code)
	}
	return lipgloss.Color(paletteColors[domain.ColorPrimary])
}

// View renders the board, the focus overlay, or a loading screen.
func (m Model) View() tea.View {
	if m.mode == modeFocus && m.session.Active() {
		return m.renderFocusModeView()
	}
	if !m.ready {
		v := tea.NewView("loading...")
		v.AltScreen = true
		return v
	}

	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")
	accent := lipgloss.Color("62")
	if column, ok := m.currentColumn(); ok {
		accent = columnAccent(column.Color)
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)

	header := titleStyle.Render("kanfocus") + statusStyle.Render("  ["+m.modeLabel()+"]")
	if active := m.moves.Active(); active != "" {
		if card, ok := m.svc.Board().Card(active); ok {
			header += statusStyle.Render("  moving: " + truncate(card.Title, 40))
		}
	}

	var body string
	if len(m.columns) == 0 {
		body = lipgloss.NewStyle().Foreground(muted).Render("No columns yet. Press A to add one.")
	} else {
		body = m.renderBoard(dim)
	}

	sections := []string{header, "", body}
	if m.mode == modeAddCard || m.mode == modeAddColumn || m.mode == modeRenameCard || m.mode == modeRenameColumn {
		in := m.input
		in.SetWidth(max(20, m.width-24))
		sections = append(sections, "", in.View())
	}
	if status := trimmedStatus(m.status); status != "" {
		sections = append(sections, statusStyle.Render(status))
	}
	content := strings.Join(sections, "\n")

	helpBubble := m.help
	helpBubble.ShowAll = false
	helpBubble.SetWidth(max(0, m.width-2))
	var helpText string
	if m.moves.State() == app.MoveStatePickedUp {
		helpText = helpBubble.View(moveKeyMap{keys: m.keys})
	} else {
		helpText = helpBubble.View(m.keys)
	}
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpText)

	if m.height > 0 {
		contentHeight := max(0, m.height-lipgloss.Height(helpLine))
		content = fitLines(content, contentHeight)
	}
	fullContent := content + "\n" + helpLine

	overlay := ""
	switch {
	case m.help.ShowAll:
		overlay = m.renderHelpOverlay(accent, muted, dim, m.width-8)
	case m.mode == modeCardDetails:
		overlay = m.renderCardDetails(accent, muted, m.width-8)
	}
	if overlay != "" {
		overlayHeight := lipgloss.Height(fullContent)
		if m.height > 0 {
			overlayHeight = m.height
		}
		fullContent = overlayOnContent(fullContent, overlay, max(1, m.width), max(1, overlayHeight))
	}

	v := tea.NewView(fullContent)
	v.MouseMode = tea.MouseModeCellMotion
	v.AltScreen = true
	v.ReportFocus = true
	return v
}

// renderBoard lays the columns out side by side.
func (m Model) renderBoard(dim color.Color) string {
	colWidth := m.columnWidth()
	colHeight := m.columnHeight()
	active := m.moves.Active()

	itemStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	movingStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("57")).Bold(true)
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))

	views := make([]string, 0, len(m.columns))
	for colIdx, column := range m.columns {
		accent := columnAccent(column.Color)
		headerLine := lipgloss.NewStyle().Bold(true).Foreground(accent).
			Render(truncate(fmt.Sprintf("%s (%d)", column.Title, column.Len()), colWidth))

		cardLines := make([]string, 0, max(1, column.Len()*2))
		selectedRow := -1
		if column.Len() == 0 {
			cardLines = append(cardLines, emptyStyle.Render("(empty)"))
		}
		for cardIdx, card := range column.Cards {
			selected := colIdx == m.selectedColumn && cardIdx == m.selectedCard
			prefix := "  "
			if selected {
				prefix = "│ "
				selectedRow = len(cardLines)
			}
			title := prefix + truncate(card.Title, max(1, colWidth-2))
			switch {
			case card.ID == active:
				title = movingStyle.Render(title)
			case selected:
				title = selectedStyle.Render(title)
			default:
				title = itemStyle.Render(title)
			}
			cardLines = append(cardLines, title)
			if cardIdx < column.Len()-1 {
				cardLines = append(cardLines, "")
			}
		}

		innerHeight := max(1, colHeight-4)
		window := max(1, innerHeight-1)
		top := 0
		if selectedRow >= window {
			top = selectedRow - window + 1
		}
		top = clamp(top, 0, max(0, len(cardLines)-window))
		if len(cardLines) > window {
			cardLines = cardLines[top : top+window]
		}

		lines := append([]string{headerLine}, cardLines...)
		style := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dim).
			Padding(1, 2).
			MarginRight(1).
			Width(colWidth)
		if colIdx == m.selectedColumn {
			style = style.BorderForeground(accent)
		}
		views = append(views, style.Render(fitLines(strings.Join(lines, "\n"), innerHeight)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, views...)
}

// renderCardDetails renders the selected card as markdown.
func (m Model) renderCardDetails(accent, muted color.Color, maxWidth int) string {
	card, ok := m.svc.Board().Card(m.detailCardID)
	if !ok {
		return ""
	}
	pos, _ := m.svc.Board().Locate(card.ID)
	column, _ := m.svc.Board().ColumnAt(pos.ColumnIndex)

	width := clamp(maxWidth, 32, 80)
	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", card.Title)
	fmt.Fprintf(&md, "- **column:** %s\n", column.Title)
	fmt.Fprintf(&md, "- **position:** %d of %d\n", pos.CardIndex+1, column.Len())
	fmt.Fprintf(&md, "- **id:** `%s`\n", card.ID)

	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(accent).Render("Card Details"),
		m.markdown.render(md.String(), width-4),
		lipgloss.NewStyle().Foreground(muted).Render(fmt.Sprintf("%s copy title • esc close", m.keys.yank.Help().Key)),
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

// renderHelpOverlay renders the full key reference.
func (m Model) renderHelpOverlay(accent, muted, dim color.Color, maxWidth int) string {
	width := clamp(maxWidth, 56, 100)
	hb := m.help
	hb.ShowAll = true
	hb.SetWidth(width - 4)

	workflow := []string{
		lipgloss.NewStyle().Bold(true).Foreground(accent).Render("Moving cards"),
		"1. space picks up the selected card",
		"2. arrows or h/j/k/l move it; the status line announces where it is",
		"3. space or enter drops it • esc puts it back where it started",
	}
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(accent).Render("kanfocus help"),
		"",
		hb.View(m.keys),
		"",
		lipgloss.NewStyle().Foreground(muted).Render(strings.Join(workflow, "\n")),
		lipgloss.NewStyle().Foreground(muted).Render("press ? or esc to close"),
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

// columnWidth returns the rendered width of one column.
func (m Model) columnWidth() int {
	if len(m.columns) == 0 || m.width <= 0 {
		return 28
	}
	// border (2) + horizontal padding (4) + margin (1)
	const colOverhead = 7
	w := (m.width - len(m.columns)*colOverhead) / len(m.columns)
	return clamp(w, 18, 42)
}

// columnHeight returns the rendered height of one column.
func (m Model) columnHeight() int {
	h := m.height - 7
	if h < 10 {
		return 10
	}
	return h
}

// clamp bounds v to [minV, maxV].
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// fitLines pads or cuts content to exactly maxLines lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		lines = append(lines, make([]string, maxLines-len(lines))...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent centers overlay above base on a width x height canvas.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	centered := lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, overlay)
	canvas.Compose(lipgloss.NewLayer(base).X(0).Y(0).Z(0))
	canvas.Compose(lipgloss.NewLayer(centered).X(0).Y(0).Z(10))
	return canvas.Render()
}

// truncate shortens s to at most n runes with an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	if n == 1 {
		return string(rs[:1])
	}
	return string(rs[:n-1]) + "…"
}
