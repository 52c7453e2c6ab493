package components

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/outlines/internal/ui/theme"
)

// ProgressBar is a horizontal bar for a fraction in [0,1].
type ProgressBar struct {
	Label    string
	Fraction float64
	Width    int
	Fill     color.Color

	showPercent bool
}

// NewProgressBar creates a bar filled in the secondary colour. Width covers
// the label and the percentage too.
func NewProgressBar(label string, fraction float64, width int) ProgressBar {
	return ProgressBar{
		Label:    label,
		Fraction: fraction,
		Width:    width,
		Fill:     theme.Secondary,
	}
}

// WithPercent shows the rounded percentage after the bar.
func (p ProgressBar) WithPercent() ProgressBar {
	p.showPercent = true
	return p
}

// Toned colours the fill by how far the fraction got: error below fair,
// accent below good, success otherwise.
func (p ProgressBar) Toned(fair, good float64) ProgressBar {
	switch {
	case p.Fraction >= good:
		p.Fill = theme.Success
	case p.Fraction >= fair:
		p.Fill = theme.Accent
	default:
		p.Fill = theme.Error
	}
	return p
}

// View renders the bar.
func (p ProgressBar) View() string {
	var label, percent string
	if p.Label != "" {
		label = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}
	frac := math.Max(0, math.Min(1, p.Fraction))
	if p.showPercent {
		percent = theme.Subtitle.Render(fmt.Sprintf("  %3d%%", int(math.Round(frac*100))))
	}

	barWidth := max(p.Width-lipgloss.Width(label)-lipgloss.Width(percent), 4)
	filled := int(float64(barWidth) * frac)

	fill := p.Fill
	if fill == nil {
		fill = theme.Secondary
	}
	return label +
		lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled)) +
		percent
}
