// Package courses lists stored courses and opens the compliance wizard.
package courses

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/outlines/internal/api"
	"github.com/abhisek/outlines/internal/cbcode"
	"github.com/abhisek/outlines/internal/router"
	"github.com/abhisek/outlines/internal/screen"
	"github.com/abhisek/outlines/internal/screens/compare"
	"github.com/abhisek/outlines/internal/screens/wizard"
	"github.com/abhisek/outlines/internal/ui/components"
	"github.com/abhisek/outlines/internal/ui/layout"
	"github.com/abhisek/outlines/internal/ui/theme"
)

type loadedMsg struct {
	courses []api.Course
	err     error
}

// CoursesScreen implements screen.Screen.
type CoursesScreen struct {
	deps wizard.Deps

	courses  []api.Course
	filtered []api.Course
	selected int
	loading  bool
	errMsg   string

	filtering bool
	filter    components.TextInput
}

var _ screen.Screen = (*CoursesScreen)(nil)
var _ screen.KeyHintProvider = (*CoursesScreen)(nil)
var _ screen.BackHandler = (*CoursesScreen)(nil)

// New creates the course list.
func New(deps wizard.Deps) *CoursesScreen {
	return &CoursesScreen{
		deps:    deps,
		loading: true,
		filter:  components.NewTextInput("filter by subject, number or title", 64),
	}
}

func (c *CoursesScreen) Init() tea.Cmd {
	return c.load()
}

func (c *CoursesScreen) Title() string {
	return "Courses"
}

// HandlesBack is true while a filter is being edited or applied.
func (c *CoursesScreen) HandlesBack() bool {
	return c.filtering || c.filter.Value() != ""
}

func (c *CoursesScreen) load() tea.Cmd {
	backend := c.deps.Backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		courses, err := backend.ListCourses(ctx)
		return loadedMsg{courses: courses, err: err}
	}
}

func (c *CoursesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		c.loading = false
		if msg.err != nil {
			c.errMsg = "Could not load courses: " + msg.err.Error()
			return c, nil
		}
		c.errMsg = ""
		c.courses = msg.courses
		sort.SliceStable(c.courses, func(i, j int) bool {
			a, b := c.courses[i], c.courses[j]
			if a.SubjectCode != b.SubjectCode {
				return a.SubjectCode < b.SubjectCode
			}
			return a.Number < b.Number
		})
		c.applyFilter()
		return c, nil

	case router.RefreshMsg:
		return c, c.load()

	case tea.KeyMsg:
		if c.filtering {
			return c.updateFilter(msg)
		}
		switch msg.String() {
		case "up", "k":
			if c.selected > 0 {
				c.selected--
			}
		case "down", "j":
			if c.selected < len(c.filtered)-1 {
				c.selected++
			}
		case "/":
			c.filtering = true
		case "esc":
			c.filter.Model.SetValue("")
			c.applyFilter()
		case "r":
			c.loading = true
			return c, c.load()
		case "enter":
			if course, ok := c.current(); ok {
				next := wizard.New(c.deps, course.ID)
				return c, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			}
		case "c":
			if course, ok := c.current(); ok && course.CCNStandardID != "" {
				next := compare.New(c.deps.Backend, course.CCNStandardID, course)
				return c, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			}
		}
	}
	return c, nil
}

func (c *CoursesScreen) updateFilter(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		c.filtering = false
		return c, nil
	case "esc":
		c.filtering = false
		c.filter.Model.SetValue("")
		c.applyFilter()
		return c, nil
	}
	var cmd tea.Cmd
	c.filter, cmd = c.filter.Update(msg)
	c.applyFilter()
	return c, cmd
}

func (c *CoursesScreen) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(c.filter.Value()))
	c.filtered = c.filtered[:0]
	for _, course := range c.courses {
		text := strings.ToLower(course.SubjectCode + " " + course.Number + " " + course.Title)
		if q == "" || strings.Contains(text, q) {
			c.filtered = append(c.filtered, course)
		}
	}
	if c.selected >= len(c.filtered) {
		c.selected = max(len(c.filtered)-1, 0)
	}
}

func (c *CoursesScreen) current() (api.Course, bool) {
	if c.selected < 0 || c.selected >= len(c.filtered) {
		return api.Course{}, false
	}
	return c.filtered[c.selected], true
}

func (c *CoursesScreen) KeyHints() []layout.KeyHint {
	if c.filtering {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Apply"},
			{Key: "Esc", Description: "Clear"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Compliance"},
		{Key: "/", Description: "Filter"},
	}
	if course, ok := c.current(); ok && course.CCNStandardID != "" {
		hints = append(hints, layout.KeyHint{Key: "C", Description: "Compare"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (c *CoursesScreen) View(width, height int) string {
	cardW := components.CardWidth(width)
	switch {
	case c.errMsg != "":
		return components.Center(components.Card(theme.ErrorText.Render(c.errMsg)+"\n\n"+theme.Hint.Render("Press r to retry."), cardW), width, height)
	case c.loading && c.courses == nil:
		return components.Center(theme.Hint.Render("Loading courses..."), width, height)
	}

	var b strings.Builder
	if c.filtering || c.filter.Value() != "" {
		b.WriteString(c.filter.View())
		b.WriteString("\n\n")
	}
	if len(c.filtered) == 0 {
		b.WriteString(theme.Hint.Render("No courses. Import some with `outlines course import`."))
		return components.Center(components.Card(b.String(), cardW), width, height)
	}

	rows := max(height-8, 3)
	first := 0
	if c.selected >= rows {
		first = c.selected - rows + 1
	}
	last := min(first+rows, len(c.filtered))
	for i := first; i < last; i++ {
		b.WriteString(courseLine(c.filtered[i], i == c.selected, cardW-6))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%d of %d courses", len(c.filtered), len(c.courses))))
	return components.Center(components.Card(b.String(), cardW), width, height)
}

func courseLine(course api.Course, selected bool, width int) string {
	name := fmt.Sprintf("%-5s %-6s %s", course.SubjectCode, course.Number, course.Title)
	status := theme.Missing.Render("incomplete")
	if complete(course) {
		status = theme.Matched.Render("complete")
	}
	if course.CCNStandardID != "" {
		status = theme.HighMatch.Render(course.CCNStandardID) + " " + status
	}

	gap := width - lipgloss.Width(name) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	line := name + strings.Repeat(" ", gap) + status
	if selected {
		return theme.Selected.Render("▸ ") + line
	}
	return "  " + line
}

func complete(course api.Course) bool {
	values := make(map[cbcode.Code]string, len(course.CBCodes))
	for k, v := range course.CBCodes {
		values[cbcode.Code(k)] = v
	}
	return cbcode.Complete(cbcode.NewSet(values))
}
