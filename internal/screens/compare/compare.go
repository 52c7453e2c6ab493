// Package compare shows a requirement-by-requirement comparison of a course
// against one standard.
package compare

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/outlines/internal/api"
	"github.com/abhisek/outlines/internal/ccn"
	"github.com/abhisek/outlines/internal/router"
	"github.com/abhisek/outlines/internal/screen"
	"github.com/abhisek/outlines/internal/ui/components"
	"github.com/abhisek/outlines/internal/ui/layout"
	"github.com/abhisek/outlines/internal/ui/theme"
)

// Comparer runs a comparison.
type Comparer interface {
	Compare(ctx context.Context, req api.CompareRequest) (ccn.Comparison, error)
}

type comparedMsg struct {
	cmp ccn.Comparison
	err error
}

// CompareScreen implements screen.Screen.
type CompareScreen struct {
	backend    Comparer
	standardID string
	course     api.Course

	ctx    context.Context
	cancel context.CancelFunc

	cmp     *ccn.Comparison
	errMsg  string
	scroll  int
	maxLine int
}

var _ screen.Screen = (*CompareScreen)(nil)
var _ screen.KeyHintProvider = (*CompareScreen)(nil)
var _ screen.Closer = (*CompareScreen)(nil)

// New creates a comparison of course against standardID.
func New(backend Comparer, standardID string, course api.Course) *CompareScreen {
	ctx, cancel := context.WithCancel(context.Background())
	return &CompareScreen{
		backend:    backend,
		standardID: standardID,
		course:     course,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (c *CompareScreen) Init() tea.Cmd {
	backend, ctx := c.backend, c.ctx
	req := api.CompareRequest{
		StandardID: c.standardID,
		Course:     api.NewMatchRequest(c.course.ID, c.course.Profile()),
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
		defer cancel()
		cmp, err := backend.Compare(ctx, req)
		return comparedMsg{cmp: cmp, err: err}
	}
}

func (c *CompareScreen) Title() string {
	return "Compare · " + c.standardID
}

// Close cancels an in-flight comparison.
func (c *CompareScreen) Close() {
	c.cancel()
}

func (c *CompareScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (c *CompareScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case comparedMsg:
		if msg.err != nil {
			c.errMsg = "Comparison failed: " + msg.err.Error()
			return c, nil
		}
		c.cmp = &msg.cmp
		return c, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if c.scroll > 0 {
				c.scroll--
			}
		case "down", "j":
			if c.scroll < c.maxLine {
				c.scroll++
			}
		case "q":
			return c, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return c, nil
}

func (c *CompareScreen) View(width, height int) string {
	cardW := components.CardWidth(width)
	switch {
	case c.errMsg != "":
		return components.Center(components.Card(theme.ErrorText.Render(c.errMsg), cardW), width, height)
	case c.cmp == nil:
		return components.Center(theme.Hint.Render("Comparing..."), width, height)
	}

	lines := c.lines(cardW - 6)
	visible := height - 4
	if visible < 1 {
		visible = 1
	}
	c.maxLine = max(len(lines)-visible, 0)
	if c.scroll > c.maxLine {
		c.scroll = c.maxLine
	}
	end := min(c.scroll+visible, len(lines))
	return components.Center(components.Card(strings.Join(lines[c.scroll:end], "\n"), cardW), width, height)
}

func (c *CompareScreen) lines(width int) []string {
	cmp := c.cmp
	var out []string
	out = append(out,
		theme.Title.Render(fmt.Sprintf("%s %s vs %s", c.course.SubjectCode, c.course.Number, cmp.StandardID)),
		"",
		components.NewProgressBar("Alignment", float64(cmp.AlignmentScorePercent)/100, min(width, 50)).WithPercent().Toned(0.5, 0.7).View(),
	)
	if cmp.UnitsMatch {
		out = append(out, theme.Matched.Render("✓ Units meet the minimum"))
	} else {
		out = append(out, theme.Missing.Render("✗ Units below the minimum"))
	}

	out = append(out, "", theme.Subtitle.Render("Student learning outcomes"))
	out = append(out, requirementLines(cmp.SLOMatches, width)...)
	out = append(out, "", theme.Subtitle.Render("Content"))
	out = append(out, requirementLines(cmp.ContentMatches, width)...)

	if len(cmp.ExtraSLOs)+len(cmp.ExtraContent) > 0 {
		out = append(out, "", theme.Subtitle.Render("Beyond the standard"))
		for _, e := range append(append([]string{}, cmp.ExtraSLOs...), cmp.ExtraContent...) {
			out = append(out, theme.Hint.Render(wrap("+ "+e, width)))
		}
	}
	return out
}

func requirementLines(matches []ccn.RequirementMatch, width int) []string {
	if len(matches) == 0 {
		return []string{theme.Hint.Render("  none required")}
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.Matched {
			out = append(out, theme.Matched.Render(wrap("✓ "+m.Requirement, width)))
		} else {
			out = append(out, theme.Missing.Render(wrap("✗ "+m.Requirement, width)))
		}
	}
	return out
}

func wrap(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}
