package home

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/outlines/internal/api"
	"github.com/abhisek/outlines/internal/cbcode"
	"github.com/abhisek/outlines/internal/router"
	"github.com/abhisek/outlines/internal/screen"
	"github.com/abhisek/outlines/internal/screens/courses"
	"github.com/abhisek/outlines/internal/screens/wizard"
	"github.com/abhisek/outlines/internal/ui/components"
	"github.com/abhisek/outlines/internal/ui/layout"
	"github.com/abhisek/outlines/internal/ui/theme"
)

type statsMsg struct {
	stats stats
	err   error
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	deps       wizard.Deps
	menu       components.Menu
	menuLabels []string
	stats      stats
	errMsg     string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps wizard.Deps) *HomeScreen {
	menuLabels := []string{"COURSES", "QUIT"}
	items := []components.MenuItem{
		{Label: menuLabels[0], Key: "c", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: courses.New(deps)}
			}
		}},
		{Label: menuLabels[1], Key: "q", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	return &HomeScreen{
		deps:       deps,
		menu:       components.NewMenu(items),
		menuLabels: menuLabels,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) loadStats() tea.Cmd {
	backend := h.deps.Backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		list, err := backend.ListCourses(ctx)
		if err != nil {
			return statsMsg{err: err}
		}
		return statsMsg{stats: countStats(list)}
	}
}

func countStats(list []api.Course) stats {
	s := stats{Courses: len(list)}
	for _, c := range list {
		if c.CCNStandardID != "" {
			s.Aligned++
		}
		values := make(map[cbcode.Code]string, len(c.CBCodes))
		for k, v := range c.CBCodes {
			values[cbcode.Code(k)] = v
		}
		if cbcode.Complete(cbcode.NewSet(values)) {
			s.Complete++
		}
	}
	return s
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsMsg:
		if msg.err != nil {
			h.errMsg = msg.err.Error()
			return h, nil
		}
		h.errMsg = ""
		h.stats = msg.stats
		return h, nil
	case router.RefreshMsg:
		return h, h.loadStats()
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height+layout.HeaderHeight+layout.FooterHeight) || layout.IsCompactWidth(width)
	cw := contentWidth(width)

	sections := []string{
		renderTitle(cw, compact),
		renderStatsBar(h.stats, cw, compact),
	}
	if h.errMsg != "" {
		sections = append(sections, theme.ErrorText.Width(cw).Render("Backend unavailable: "+h.errMsg))
	}
	sections = append(sections, renderMenu(h.menuLabels, h.menu.Selected, cw))
	return components.Center(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "c", Description: "Courses"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
