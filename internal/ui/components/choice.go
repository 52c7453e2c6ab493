package components

import (
	"fmt"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/outlines/internal/ui/theme"
)

// Choice is one selectable option.
type Choice struct {
	Value string
	Label string
}

// ChoiceList is a single-select option list. A read-only list shows its
// current value but ignores input.
type ChoiceList struct {
	Choices  []Choice
	Selected int
	// Current is the index of the stored value, or -1.
	Current  int
	ReadOnly bool
}

// NewChoiceList creates a list with the cursor on current, or on the first
// choice when current is not among the choices.
func NewChoiceList(choices []Choice, current string, readOnly bool) ChoiceList {
	l := ChoiceList{Choices: choices, Current: -1, ReadOnly: readOnly}
	for i, c := range choices {
		if c.Value == current && current != "" {
			l.Current = i
			l.Selected = i
			break
		}
	}
	return l
}

// Init returns nil.
func (l ChoiceList) Init() tea.Cmd {
	return nil
}

// Update moves the cursor. Digits jump to the matching position.
func (l ChoiceList) Update(msg tea.Msg) (ChoiceList, tea.Cmd) {
	if l.ReadOnly {
		return l, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if l.Selected > 0 {
			l.Selected--
		}
	case "down", "j":
		if l.Selected < len(l.Choices)-1 {
			l.Selected++
		}
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(l.Choices) && n <= 9 {
			l.Selected = n - 1
		}
	}
	return l, nil
}

// Value returns the value under the cursor.
func (l ChoiceList) Value() string {
	if l.Selected < 0 || l.Selected >= len(l.Choices) {
		return ""
	}
	return l.Choices[l.Selected].Value
}

// View renders the list. Long lists are windowed around the cursor.
func (l ChoiceList) View(maxRows int) string {
	first, last := 0, len(l.Choices)
	if maxRows > 0 && last > maxRows {
		first = l.Selected - maxRows/2
		if first < 0 {
			first = 0
		}
		last = first + maxRows
		if last > len(l.Choices) {
			last = len(l.Choices)
			first = last - maxRows
		}
	}

	var s string
	if first > 0 {
		s += theme.Hint.Render("    ↑ more") + "\n"
	}
	for i := first; i < last; i++ {
		c := l.Choices[i]
		marker := "  "
		if i == l.Current {
			marker = "✓ "
		}
		line := fmt.Sprintf("%s%d) %s", marker, i+1, c.Label)
		if i >= 9 {
			line = fmt.Sprintf("%s   %s", marker, c.Label)
		}

		switch {
		case l.ReadOnly && i == l.Current:
			s += theme.LockBadge.Render(line) + "\n"
		case l.ReadOnly:
			s += theme.Locked.Render(line) + "\n"
		case i == l.Selected:
			s += theme.Selected.Render("▸ "+line) + "\n"
		default:
			s += lipgloss.NewStyle().Foreground(theme.Text).Render("  "+line) + "\n"
		}
	}
	if last < len(l.Choices) {
		s += theme.Hint.Render("    ↓ more") + "\n"
	}
	return s
}
