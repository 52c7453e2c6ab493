package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/outlines/internal/cbcode"
	"github.com/abhisek/outlines/internal/ccn"
	"github.com/abhisek/outlines/internal/justification"
	"github.com/abhisek/outlines/internal/router"
	"github.com/abhisek/outlines/internal/screen"
	"github.com/abhisek/outlines/internal/ui/layout"
	"github.com/abhisek/outlines/internal/ui/theme"
)

// Result is what a completed compliance pass saved.
type Result struct {
	CourseID      string
	CourseTitle   string
	Standard      *ccn.Standard
	Justification *justification.Justification
	Codes         cbcode.Set
}

// SummaryScreen displays the saved compliance result.
type SummaryScreen struct {
	result Result
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(result Result) *SummaryScreen {
	return &SummaryScreen{result: result}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Saved"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Courses"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	r := s.result
	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), "Compliance saved"))
	b.WriteString("\n\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), fmt.Sprintf("%s · %s", r.CourseID, r.CourseTitle)))
	b.WriteString("\n\n")

	switch {
	case r.Standard != nil:
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Success),
			fmt.Sprintf("Aligned to %s (%s)", r.Standard.ID, r.Standard.Title)))
	case r.Justification != nil:
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Accent),
			"Not aligned: "+r.Justification.ReasonCode.Label()))
	default:
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), "No CCN decision recorded"))
	}
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("CB codes")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	for _, q := range cbcode.Visible(r.Codes) {
		def, err := q.Code.Definition()
		if err != nil {
			continue
		}
		v, _ := r.Codes.Get(q.Code)
		line := fmt.Sprintf("%-5s %-28s %-30s", strings.ToUpper(string(q.Code)), def.Label, def.OptionLabel(v))
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if r.Codes.IsLocked(q.Code) {
			style = style.Foreground(theme.TextDim)
			line += " locked"
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}
