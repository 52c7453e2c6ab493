package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/outlines/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	HeaderHeight = 3
	FooterHeight = 3

	CompactWidthThreshold  = 100
	CompactHeightThreshold = 30
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsCompactWidth returns true if the terminal width is in compact range.
func IsCompactWidth(width int) bool {
	return width < CompactWidthThreshold
}

// IsCompactHeight returns true if the terminal height is in compact range.
func IsCompactHeight(height int) bool {
	return height < CompactHeightThreshold
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// ContentHeight returns the available height for screen content.
func ContentHeight(totalHeight int) int {
	h := totalHeight - HeaderHeight - FooterHeight
	if h < 0 {
		return 0
	}
	return h
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	msg := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
	return msg
}

// RenderHeader renders the header bar: app name and screen title on the
// left, status (backend and catalog version) on the right. The status is
// dropped first when the bar is too narrow.
func RenderHeader(title, status string, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("Outlines") +
		theme.Subtitle.Render(" · ") +
		lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	right := theme.Subtitle.Render(status)

	inner := max(width-4, 0)
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	content := left
	if status != "" && gap >= 2 {
		content += strings.Repeat(" ", gap) + right
	}
	return bar().Width(width).Render(content)
}

// RenderFooter renders key hints, wrapping onto extra lines when they do
// not fit the width.
func RenderFooter(hints []KeyHint, width int) string {
	const sep = "   "
	inner := max(width-4, 1)

	var lines []string
	line := ""
	for _, h := range hints {
		part := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) +
			" " + theme.Subtitle.Render(h.Description)
		switch {
		case line == "":
			line = part
		case lipgloss.Width(line)+len(sep)+lipgloss.Width(part) > inner:
			lines = append(lines, line)
			line = part
		default:
			line += sep + part
		}
	}
	lines = append(lines, line)
	return bar().Width(width).Render(strings.Join(lines, "\n"))
}

func bar() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)
}

// RenderFrame composes the full frame: header + content + footer.
func RenderFrame(header, content, footer string, width, height int) string {
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)

	contentHeight := height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	styledContent := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		Render(content)

	return header + "\n" + styledContent + "\n" + footer
}
