package components

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/outlines/internal/ui/theme"
)

// TextArea wraps bubbles/textarea with a character counter against
// inclusive bounds. The counter measures trimmed text, the way submissions
// are validated.
type TextArea struct {
	Model textarea.Model
	Min   int
	Max   int
}

// NewTextArea creates a text area. Typing stops a little past max so the
// counter can still show the overflow.
func NewTextArea(placeholder string, min, max int) TextArea {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.SetHeight(5)
	ta.SetWidth(60)
	// Static cursor; the form redraws on every key anyway.
	styles := ta.Styles()
	styles.Cursor.Blink = false
	ta.SetStyles(styles)
	if max > 0 {
		ta.CharLimit = max + max/10
	}
	return TextArea{Model: ta, Min: min, Max: max}
}

// Focus focuses the text area.
func (t *TextArea) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes focus.
func (t *TextArea) Blur() {
	t.Model.Blur()
}

// Focused reports whether the text area has focus.
func (t TextArea) Focused() bool {
	return t.Model.Focused()
}

// SetWidth resizes the text area.
func (t *TextArea) SetWidth(w int) {
	t.Model.SetWidth(w)
}

// SetValue replaces the content.
func (t *TextArea) SetValue(s string) {
	t.Model.SetValue(s)
}

// Update handles messages.
func (t TextArea) Update(msg tea.Msg) (TextArea, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// Value returns the raw content.
func (t TextArea) Value() string {
	return t.Model.Value()
}

// Count returns the trimmed character count.
func (t TextArea) Count() int {
	return utf8.RuneCountInString(strings.TrimSpace(t.Model.Value()))
}

// View renders the text area with its counter.
func (t TextArea) View() string {
	n := t.Count()
	counter := fmt.Sprintf("%d/%d", n, t.Max)
	style := theme.Hint
	if n < t.Min || (t.Max > 0 && n > t.Max) {
		style = theme.ErrorText
	}
	return t.Model.View() + "\n" + style.Render(counter)
}
