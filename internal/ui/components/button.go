package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/outlines/internal/ui/theme"
)

// Button is one action in a ButtonRow. Key is a shortcut that presses it
// directly.
type Button struct {
	Label   string
	Key     string
	OnPress func() tea.Cmd
}

// ButtonRow is a horizontal row of actions navigated with left and right.
type ButtonRow struct {
	Buttons []Button
	Active  int
}

// NewButtonRow creates a row with the first button active.
func NewButtonRow(buttons ...Button) ButtonRow {
	return ButtonRow{Buttons: buttons}
}

// Update handles key events.
func (r ButtonRow) Update(msg tea.Msg) (ButtonRow, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(r.Buttons) == 0 {
		return r, nil
	}

	switch key := kmsg.String(); key {
	case "left", "h", "shift+tab":
		if r.Active > 0 {
			r.Active--
		}
	case "right", "l", "tab":
		if r.Active < len(r.Buttons)-1 {
			r.Active++
		}
	case "enter":
		return r, r.press(r.Active)
	default:
		for i, b := range r.Buttons {
			if b.Key != "" && b.Key == key {
				r.Active = i
				return r, r.press(i)
			}
		}
	}
	return r, nil
}

func (r ButtonRow) press(i int) tea.Cmd {
	if b := r.Buttons[i]; b.OnPress != nil {
		return b.OnPress()
	}
	return nil
}

// View renders the row.
func (r ButtonRow) View() string {
	parts := make([]string, len(r.Buttons))
	for i, b := range r.Buttons {
		label := b.Label
		if b.Key != "" {
			label = "[" + b.Key + "] " + label
		}
		if i == r.Active {
			parts[i] = theme.ButtonActive.Render(label)
		} else {
			parts[i] = theme.ButtonInactive.Render(label)
		}
	}
	return strings.Join(parts, " ")
}
