package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/outlines/internal/ui/theme"
)

const titleFull = `┌─┐┬ ┬┌┬┐┬  ┬┌┐┌┌─┐┌─┐
│ ││ │ │ │  ││││├┤ └─┐
└─┘└─┘ ┴ ┴─┘┴┘└┘└─┘└─┘`

const titleCompact = "O U T L I N E S"

// contentWidth returns the uniform inner width used for all sections so the
// boxes line up.
func contentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	title := titleFull
	if compact {
		title = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title) + "\n" + theme.Subtitle.Render("Course alignment and CB code compliance"))
}

// stats are the dashboard counts.
type stats struct {
	Courses  int
	Aligned  int
	Complete int
}

func renderStatsBar(s stats, cw int, compact bool) string {
	total := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	aligned := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	complete := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)

	var line string
	if compact {
		line = fmt.Sprintf("%s %s %s",
			total.Render(fmt.Sprintf("%d", s.Courses)),
			aligned.Render(fmt.Sprintf("≡%d", s.Aligned)),
			complete.Render(fmt.Sprintf("✓%d", s.Complete)),
		)
	} else {
		line = fmt.Sprintf("%s  %s  %s",
			total.Render(fmt.Sprintf("%d COURSES", s.Courses)),
			aligned.Render(fmt.Sprintf("≡ %d ALIGNED", s.Aligned)),
			complete.Render(fmt.Sprintf("✓ %d COMPLETE", s.Complete)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(line)
}

const buttonWidth = 22

func renderMenu(items []string, selected int, cw int) string {
	selectedBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.Text).
		Background(theme.Primary).
		Padding(0, 1)

	normalBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Padding(0, 1)

	buttons := make([]string, len(items))
	for i, label := range items {
		if i == selected {
			buttons[i] = selectedBtn.Render("▸ " + label)
		} else {
			buttons[i] = normalBtn.Render(label)
		}
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}
