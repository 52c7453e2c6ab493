package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/outlines/internal/ui/theme"
)

// CardWidth returns the inner width used for cards in a frame.
func CardWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 88 {
		w = 88
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded-border card at the given width.
func Card(content string, width int) string {
	return theme.Card.
		Width(width).
		Render(content)
}

// Center places content in the middle of the area.
func Center(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
