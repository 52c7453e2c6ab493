package wizard

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/outlines/internal/cbcode"
	"github.com/abhisek/outlines/internal/ccn"
	"github.com/abhisek/outlines/internal/detection"
	"github.com/abhisek/outlines/internal/justification"
	"github.com/abhisek/outlines/internal/ui/components"
	"github.com/abhisek/outlines/internal/ui/layout"
	"github.com/abhisek/outlines/internal/ui/theme"
	wz "github.com/abhisek/outlines/internal/wizard"
)

func (w *WizardScreen) View(width, height int) string {
	cardW := components.CardWidth(width)
	var body string

	switch {
	case w.errMsg != "":
		body = theme.ErrorText.Render(w.errMsg) + "\n\n" + theme.Hint.Render("Press Esc to go back.")
	case w.ctrl == nil:
		body = w.spinner.View() + " Loading course..."
	default:
		s := w.ctrl.State()
		switch s.Phase {
		case wz.PhaseDetection:
			body = w.viewDetection(s.Detection, cardW)
		case wz.PhaseQuestions:
			body = w.viewQuestion(s, height)
		case wz.PhaseReview:
			body = w.viewReview(s)
		}
		body += w.viewNotice(s)
	}

	return components.Center(components.Card(body, cardW), width, height)
}

func (w *WizardScreen) viewNotice(s wz.State) string {
	var b strings.Builder
	if s.Notice != "" {
		b.WriteString("\n\n" + theme.Notice.Render(s.Notice))
	}
	if w.notice != "" {
		b.WriteString("\n\n" + theme.Hint.Render(w.notice))
	}
	return b.String()
}

func (w *WizardScreen) viewDetection(d detection.State, width int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("CCN Detection"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%s %s · %s", w.course.SubjectCode, w.course.Number, w.course.Title)))
	b.WriteString("\n\n")

	switch d.Phase {
	case detection.PhaseLoading:
		b.WriteString(w.spinner.View() + " Looking for a matching Common Course Numbering standard...")
		return b.String()

	case detection.PhaseError:
		b.WriteString(theme.ErrorText.Render(d.Message))

	case detection.PhaseNoMatch:
		b.WriteString(theme.Body.Render("No matching CCN standard was found for this course."))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Justify why the course stands alone, or skip to the CB codes."))

	case detection.PhaseMatchFound:
		b.WriteString(viewMatch(d.Match, width))

	case detection.PhaseJustification:
		return b.String() + w.viewForm(d.Form)
	}

	b.WriteString("\n\n")
	b.WriteString(w.buttons.View())
	return b.String()
}

func viewMatch(m *ccn.MatchResult, width int) string {
	if m == nil {
		return ""
	}
	var b strings.Builder
	badge := theme.PotentialMatch.Render("Potential Match")
	if m.Alignment == ccn.AlignmentAligned {
		badge = theme.HighMatch.Render("High Match")
	}
	b.WriteString(theme.Selected.Render(m.Standard.ID) + "  " + badge)
	b.WriteString("\n")
	b.WriteString(theme.Body.Render(m.Standard.Title))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Confidence %.0f%% · minimum %g units", m.Confidence*100, m.Standard.MinimumUnits)))
	b.WriteString("\n")
	if m.Standard.Descriptor != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width - 6).Foreground(theme.TextDim).Render(m.Standard.Descriptor))
		b.WriteString("\n")
	}
	if len(m.Reasons) > 0 {
		b.WriteString("\n")
		for _, r := range m.Reasons {
			b.WriteString(theme.Hint.Render("  · " + r))
			b.WriteString("\n")
		}
	}
	if !m.UnitsSufficient {
		b.WriteString(theme.ErrorText.Render("  Course units are below the standard's minimum"))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (w *WizardScreen) viewForm(f detection.Form) string {
	var b strings.Builder
	b.WriteString(theme.Body.Render("Why does no CCN standard apply?"))
	b.WriteString("\n\n")

	reasons := w.reasons.View(0)
	if w.focus == focusReasons {
		reasons = theme.Selected.Render("Reason") + "\n" + reasons
	} else {
		reasons = theme.Subtitle.Render("Reason") + "\n" + reasons
	}
	b.WriteString(reasons)
	if msg, ok := f.Errors[justification.FieldReasonCode]; ok {
		b.WriteString(theme.ErrorText.Render(msg) + "\n")
	}
	b.WriteString("\n")

	label := theme.Subtitle.Render("Justification")
	if w.focus == focusText {
		label = theme.Selected.Render("Justification")
	}
	b.WriteString(label + "\n")
	b.WriteString(w.text.View())
	if msg, ok := f.Errors[justification.FieldText]; ok {
		b.WriteString("\n" + theme.ErrorText.Render(msg))
	}

	switch {
	case f.Submitting:
		b.WriteString("\n\n" + w.spinner.View() + " Submitting...")
	case f.SubmitErr != "":
		b.WriteString("\n\n" + theme.ErrorText.Render(f.SubmitErr))
	}
	return b.String()
}

func (w *WizardScreen) viewQuestion(s wz.State, height int) string {
	q, ok := s.Current()
	if !ok {
		return theme.Hint.Render("No questions apply. Press Enter to review.")
	}
	def, err := q.Code.Definition()
	if err != nil {
		return theme.ErrorText.Render(err.Error())
	}

	var b strings.Builder
	visible := s.Visible()
	pct := float64(s.QuestionIndex+1) / float64(len(visible))
	b.WriteString(components.NewProgressBar(
		fmt.Sprintf("Question %d of %d", s.QuestionIndex+1, len(visible)), pct, 30).View())
	b.WriteString("\n\n")

	title := theme.Title.Render(fmt.Sprintf("%s · %s", strings.ToUpper(string(def.Code)), def.Label))
	if s.Codes.IsLocked(q.Code) {
		lock := "Locked"
		if id := s.AdoptedStandardID(); id != "" {
			lock = "Locked by " + id
		}
		title += "  " + theme.LockBadge.Render(lock)
	}
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(def.Prompt))
	b.WriteString("\n\n")

	rows := layout.ContentHeight(height) - 14
	if rows < 4 {
		rows = 4
	}
	b.WriteString(w.choices.View(rows))
	return strings.TrimRight(b.String(), "\n")
}

func (w *WizardScreen) viewReview(s wz.State) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Review"))
	b.WriteString("\n\n")

	switch {
	case s.AdoptedStandard != nil:
		b.WriteString(theme.Matched.Render(fmt.Sprintf("Aligned to %s · %s", s.AdoptedStandard.ID, s.AdoptedStandard.Title)))
	case s.Justification != nil:
		b.WriteString(theme.Notice.Render("Not aligned: " + s.Justification.ReasonCode.Label()))
	default:
		b.WriteString(theme.Hint.Render("No CCN decision recorded"))
	}
	b.WriteString("\n\n")

	for _, q := range s.Visible() {
		b.WriteString(reviewLine(q.Code, s.Codes))
		b.WriteString("\n")
	}

	switch {
	case s.Saving:
		b.WriteString("\n" + w.spinner.View() + " Saving...")
	case s.SaveErr != "":
		b.WriteString("\n" + theme.ErrorText.Render("Save failed: "+s.SaveErr))
		b.WriteString("\n" + theme.Hint.Render("Press Enter to try again."))
	}
	return strings.TrimRight(b.String(), "\n")
}

func reviewLine(code cbcode.Code, codes cbcode.Set) string {
	def, err := code.Definition()
	if err != nil {
		return ""
	}
	value := "(unanswered)"
	style := theme.Missing
	if v, ok := codes.Get(code); ok {
		value = def.OptionLabel(v)
		style = theme.Body
	}
	line := fmt.Sprintf("%-5s %-28s %s", strings.ToUpper(string(code)), def.Label, value)
	if codes.IsLocked(code) {
		return theme.Locked.Render(line) + " " + theme.LockBadge.Render("locked")
	}
	return style.Render(line)
}
