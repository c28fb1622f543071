package domain

import (
	"slices"
	"strings"
)

// Color identifies one entry of the column color palette.
type Color string

// Palette colors in assignment order.
const (
	ColorPrimary Color = "primary"
	ColorGray    Color = "gray"
	ColorRed     Color = "red"
	ColorYellow  Color = "yellow"
	ColorGreen   Color = "green"
	ColorCyan    Color = "cyan"
	ColorBlue    Color = "blue"
	ColorIndigo  Color = "indigo"
	ColorViolet  Color = "violet"
	ColorPurple  Color = "purple"
	ColorPink    Color = "pink"
)

// DefaultColor is used once the palette is exhausted.
const DefaultColor = ColorPrimary

var palette = []Color{
	ColorPrimary,
	ColorGray,
	ColorRed,
	ColorYellow,
	ColorGreen,
	ColorCyan,
	ColorBlue,
	ColorIndigo,
	ColorViolet,
	ColorPurple,
	ColorPink,
}

// Palette returns a copy of the column color palette.
func Palette() []Color {
	return slices.Clone(palette)
}

// ColorForIndex returns the palette color for the nth column, falling back to DefaultColor.
func ColorForIndex(n int) Color {
	if n < 0 || n >= len(palette) {
		return DefaultColor
	}
	return palette[n]
}

// ParseColor normalizes a palette color name.
func ParseColor(raw string) (Color, error) {
	c := Color(strings.ToLower(strings.TrimSpace(raw)))
	if !slices.Contains(palette, c) {
		return "", ErrInvalidColor
	}
	return c, nil
}
