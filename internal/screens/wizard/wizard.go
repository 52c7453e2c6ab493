// Package wizard is the course compliance screen: CCN detection followed by
// the CB code questions and a review before saving.
package wizard

import (
	"context"
	"fmt"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/outlines/internal/api"
	"github.com/abhisek/outlines/internal/cbcode"
	"github.com/abhisek/outlines/internal/ccn"
	"github.com/abhisek/outlines/internal/detection"
	"github.com/abhisek/outlines/internal/justification"
	"github.com/abhisek/outlines/internal/logger"
	"github.com/abhisek/outlines/internal/router"
	"github.com/abhisek/outlines/internal/screen"
	"github.com/abhisek/outlines/internal/screens/compare"
	"github.com/abhisek/outlines/internal/screens/summary"
	"github.com/abhisek/outlines/internal/session"
	"github.com/abhisek/outlines/internal/ui/components"
	"github.com/abhisek/outlines/internal/ui/layout"
	wz "github.com/abhisek/outlines/internal/wizard"
)

// jobTimeout bounds one collaborator call.
const jobTimeout = 20 * time.Second

// Deps are the screen's collaborators and settings.
type Deps struct {
	Backend session.Backend
	// Snapshots is optional; without it progress cannot be saved.
	Snapshots session.SnapshotStore
	Policy    ccn.Policy
	Bounds    justification.Bounds
	Detection bool
	Logger    *logger.Logger
}

type focus int

const (
	focusReasons focus = iota
	focusText
)

// WizardScreen implements screen.Screen for one course's compliance pass.
type WizardScreen struct {
	deps     Deps
	courseID string
	course   api.Course

	ctrl   *session.Controller
	ctx    context.Context
	cancel context.CancelFunc

	spinner spinner.Model
	buttons components.ButtonRow
	choices components.ChoiceList
	reasons components.ChoiceList
	text    components.TextArea
	focus   focus

	// view is the phase the widgets were last built for.
	view   string
	errMsg string
	notice string
}

var _ screen.Screen = (*WizardScreen)(nil)
var _ screen.KeyHintProvider = (*WizardScreen)(nil)
var _ screen.BackHandler = (*WizardScreen)(nil)
var _ screen.Closer = (*WizardScreen)(nil)

// New creates the screen for courseID.
func New(deps Deps, courseID string) *WizardScreen {
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.Policy == (ccn.Policy{}) {
		deps.Policy = ccn.DefaultPolicy()
	}
	if deps.Bounds == (justification.Bounds{}) {
		deps.Bounds = justification.DefaultBounds()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WizardScreen{
		deps:     deps,
		courseID: courseID,
		ctx:      ctx,
		cancel:   cancel,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		text:     components.NewTextArea("Explain why no common course standard applies...", deps.Bounds.Min, deps.Bounds.Max),
	}
}

func (w *WizardScreen) Init() tea.Cmd {
	return tea.Batch(w.load(), w.spinner.Tick)
}

func (w *WizardScreen) Title() string {
	if w.course.ID == "" {
		return "Compliance"
	}
	return fmt.Sprintf("Compliance · %s %s", w.course.SubjectCode, w.course.Number)
}

// Close cancels in-flight calls and detaches the controller so late results
// are dropped.
func (w *WizardScreen) Close() {
	w.cancel()
	if w.ctrl != nil {
		w.ctrl.Close()
	}
}

// State returns the wizard state, for tests and the summary.
func (w *WizardScreen) State() (wz.State, bool) {
	if w.ctrl == nil {
		return wz.State{}, false
	}
	return w.ctrl.State(), true
}

// HandlesBack reports whether Esc steps back inside the wizard rather than
// leaving it.
func (w *WizardScreen) HandlesBack() bool {
	if w.ctrl == nil {
		return false
	}
	s := w.ctrl.State()
	switch s.Phase {
	case wz.PhaseDetection:
		return s.Detection.Phase == detection.PhaseJustification
	case wz.PhaseQuestions:
		return s.QuestionIndex > 0 || s.DetectionEnabled
	case wz.PhaseReview:
		return true
	}
	return false
}

func (w *WizardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		return w.handleLoaded(msg)

	case jobDoneMsg:
		if msg.ctrl != w.ctrl {
			return w, nil
		}
		return w.after(w.ctrl.Deliver(msg.event))

	case eventMsg:
		return w.dispatch(msg.event)

	case snapshotSavedMsg:
		if msg.Err != nil {
			w.notice = "Could not save progress: " + msg.Err.Error()
		} else {
			w.notice = "Progress saved"
		}
		return w, nil

	case spinner.TickMsg:
		if !w.busy() {
			return w, nil
		}
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return w, cmd

	case tea.KeyMsg:
		if w.ctrl == nil {
			return w, nil
		}
		return w.handleKey(msg)
	}

	if w.inForm() && w.focus == focusText {
		return w.updateText(msg)
	}
	return w, nil
}

func (w *WizardScreen) load() tea.Cmd {
	deps, id, ctx := w.deps, w.courseID, w.ctx
	return func() tea.Msg {
		course, err := deps.Backend.GetCourse(ctx, id)
		if err != nil {
			return loadedMsg{Err: err}
		}
		msg := loadedMsg{Course: course}
		if course.CCNStandardID != "" {
			std, err := deps.Backend.GetStandard(ctx, course.CCNStandardID)
			if err != nil {
				deps.Logger.Warn("adopted standard unavailable", "course_id", id,
					"standard_id", course.CCNStandardID, "error", err)
			} else {
				msg.Standard = &std
			}
		}
		if deps.Snapshots != nil {
			snap, err := deps.Snapshots.Snapshot(ctx, id)
			if err != nil {
				deps.Logger.Warn("saved progress unavailable", "course_id", id, "error", err)
			}
			msg.Snapshot = snap
		}
		return msg
	}
}

func (w *WizardScreen) handleLoaded(msg loadedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		w.errMsg = "Could not load course: " + msg.Err.Error()
		w.deps.Logger.Warn("load course", "course_id", w.courseID, "error", msg.Err)
		return w, nil
	}
	w.course = msg.Course
	cfg := session.ConfigForCourse(msg.Course, msg.Standard, w.deps.Detection, w.deps.Policy, w.deps.Bounds)

	var jobs []session.Job
	if msg.Snapshot != nil {
		w.ctrl, jobs = session.Resume(*msg.Snapshot, cfg, msg.Course.Profile(), w.deps.Backend, w.deps.Logger)
		w.notice = "Resumed saved progress"
	} else {
		w.ctrl, jobs = session.New(cfg, msg.Course.Profile(), w.deps.Backend, w.deps.Logger)
	}
	w.sync()
	return w, w.run(jobs)
}

// dispatch applies an author action.
func (w *WizardScreen) dispatch(ev wz.Event) (screen.Screen, tea.Cmd) {
	if w.ctrl == nil {
		return w, nil
	}
	w.notice = ""
	return w.after(w.ctrl.Dispatch(ev))
}

// after syncs widgets with the new state and starts any jobs.
func (w *WizardScreen) after(jobs []session.Job) (screen.Screen, tea.Cmd) {
	w.sync()
	s := w.ctrl.State()
	if s.Phase == wz.PhaseComplete {
		return w, w.finish(s)
	}
	return w, w.run(jobs)
}

// run turns jobs into commands bound to the current controller.
func (w *WizardScreen) run(jobs []session.Job) tea.Cmd {
	if len(jobs) == 0 {
		return nil
	}
	ctrl, ctx := w.ctrl, w.ctx
	cmds := make([]tea.Cmd, 0, len(jobs)+1)
	for _, job := range jobs {
		cmds = append(cmds, func() tea.Msg {
			jctx, cancel := context.WithTimeout(ctx, jobTimeout)
			defer cancel()
			return jobDoneMsg{ctrl: ctrl, event: job(jctx)}
		})
	}
	cmds = append(cmds, w.spinner.Tick)
	return tea.Batch(cmds...)
}

func (w *WizardScreen) finish(s wz.State) tea.Cmd {
	result := summary.Result{
		CourseID:      w.course.ID,
		CourseTitle:   w.course.Title,
		Standard:      s.AdoptedStandard,
		Justification: s.Justification,
		Codes:         s.Codes,
	}
	next := summary.New(result)
	cmds := []tea.Cmd{func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }}
	if store := w.deps.Snapshots; store != nil {
		id, log := w.course.ID, w.deps.Logger
		cmds = append(cmds, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			if err := store.DiscardSnapshot(ctx, id); err != nil {
				log.Warn("discard saved progress", "course_id", id, "error", err)
			}
			return nil
		})
	}
	return tea.Batch(cmds...)
}

func (w *WizardScreen) saveProgress() tea.Cmd {
	if w.deps.Snapshots == nil {
		w.notice = "Saving progress is not available"
		return nil
	}
	store, id, snap := w.deps.Snapshots, w.course.ID, w.ctrl.State().Snapshot()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		return snapshotSavedMsg{Err: store.SaveSnapshot(ctx, id, snap)}
	}
}

func (w *WizardScreen) busy() bool {
	if w.ctrl == nil {
		return w.errMsg == ""
	}
	s := w.ctrl.State()
	return (s.Phase == wz.PhaseDetection && s.Detection.Busy()) || s.Saving
}

func (w *WizardScreen) inForm() bool {
	if w.ctrl == nil {
		return false
	}
	s := w.ctrl.State()
	return s.Phase == wz.PhaseDetection && s.Detection.Phase == detection.PhaseJustification
}

func (w *WizardScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	s := w.ctrl.State()
	key := msg.String()

	switch s.Phase {
	case wz.PhaseDetection:
		if s.Detection.Phase == detection.PhaseJustification {
			return w.handleFormKey(msg)
		}
		var cmd tea.Cmd
		w.buttons, cmd = w.buttons.Update(msg)
		return w, cmd

	case wz.PhaseQuestions:
		switch key {
		case "esc":
			return w.dispatch(wz.Back{})
		case "u":
			return w.dispatch(wz.Unadopt{})
		case "ctrl+s":
			return w, w.saveProgress()
		case "enter":
			q, ok := s.Current()
			if !ok {
				return w.dispatch(wz.Next{})
			}
			if v := w.choices.Value(); v != "" && !s.Codes.IsLocked(q.Code) {
				w.dispatch(wz.Answer{Code: q.Code, Value: v})
				if w.ctrl.State().Notice != "" {
					return w, nil
				}
			}
			return w.dispatch(wz.Next{})
		}
		var cmd tea.Cmd
		w.choices, cmd = w.choices.Update(msg)
		return w, cmd

	case wz.PhaseReview:
		if s.Saving {
			return w, nil
		}
		switch key {
		case "esc":
			return w.dispatch(wz.Back{})
		case "u":
			return w.dispatch(wz.Unadopt{})
		case "ctrl+s":
			return w, w.saveProgress()
		case "enter":
			return w.dispatch(wz.Confirm{})
		}
	}
	return w, nil
}

func (w *WizardScreen) handleFormKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if w.ctrl.State().Detection.Form.Submitting {
		return w, nil
	}
	switch msg.String() {
	case "esc":
		return w.dispatch(wz.DetectionEvent{Event: detection.Back{}})
	case "tab", "shift+tab":
		w.toggleFocus()
		return w, nil
	case "ctrl+s":
		return w.dispatch(wz.DetectionEvent{Event: detection.Submit{}})
	}

	if w.focus == focusReasons {
		if msg.String() == "enter" {
			w.toggleFocus()
			return w, nil
		}
		var cmd tea.Cmd
		w.reasons, cmd = w.reasons.Update(msg)
		if v := justification.ReasonCode(w.reasons.Value()); v != w.ctrl.State().Detection.Form.ReasonCode {
			w.ctrl.Dispatch(wz.DetectionEvent{Event: detection.SetReason{Reason: v}})
		}
		return w, cmd
	}
	return w.updateText(msg)
}

func (w *WizardScreen) updateText(msg tea.Msg) (screen.Screen, tea.Cmd) {
	before := w.text.Value()
	var cmd tea.Cmd
	w.text, cmd = w.text.Update(msg)
	if v := w.text.Value(); v != before {
		w.ctrl.Dispatch(wz.DetectionEvent{Event: detection.SetText{Text: v}})
	}
	return w, cmd
}

func (w *WizardScreen) toggleFocus() {
	if w.focus == focusReasons {
		w.focus = focusText
		w.text.Focus()
		return
	}
	w.focus = focusReasons
	w.text.Blur()
}

// sync rebuilds phase widgets when the visible step changes.
func (w *WizardScreen) sync() {
	s := w.ctrl.State()
	view := string(s.Phase)
	switch s.Phase {
	case wz.PhaseDetection:
		view += "/" + string(s.Detection.Phase)
	case wz.PhaseQuestions:
		if q, ok := s.Current(); ok {
			view += fmt.Sprintf("/%s/%t", q.Code, s.Codes.IsLocked(q.Code))
		}
	}
	if view == w.view {
		return
	}
	w.view = view

	switch s.Phase {
	case wz.PhaseDetection:
		w.syncDetection(s.Detection)
	case wz.PhaseQuestions:
		if q, ok := s.Current(); ok {
			w.choices = questionChoices(q.Code, s.Codes)
		}
	}
}

func (w *WizardScreen) syncDetection(d detection.State) {
	press := func(ev detection.Event) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return eventMsg{event: wz.DetectionEvent{Event: ev}} }
		}
	}

	switch d.Phase {
	case detection.PhaseError:
		w.buttons = components.NewButtonRow(
			components.Button{Label: "Retry", Key: "r", OnPress: press(detection.Retry{})},
			components.Button{Label: "Skip", Key: "s", OnPress: press(detection.Skip{})},
		)
	case detection.PhaseNoMatch:
		w.buttons = components.NewButtonRow(
			components.Button{Label: "Justify", Key: "j", OnPress: press(detection.OpenJustification{})},
			components.Button{Label: "Skip", Key: "s", OnPress: press(detection.Skip{})},
		)
	case detection.PhaseMatchFound:
		w.buttons = components.NewButtonRow(
			components.Button{Label: "Adopt", Key: "a", OnPress: press(detection.Adopt{})},
			components.Button{Label: "Decline", Key: "d", OnPress: press(detection.Dismiss{})},
			components.Button{Label: "Compare", Key: "c", OnPress: w.openCompare(d)},
		)
	case detection.PhaseJustification:
		choices := make([]components.Choice, len(justification.Reasons))
		for i, r := range justification.Reasons {
			choices[i] = components.Choice{Value: string(r), Label: r.Label()}
		}
		w.reasons = components.NewChoiceList(choices, string(d.Form.ReasonCode), false)
		w.text.SetValue(d.Form.Text)
		w.focus = focusReasons
		w.text.Blur()
	default:
		w.buttons = components.ButtonRow{}
	}
}

func (w *WizardScreen) openCompare(d detection.State) func() tea.Cmd {
	return func() tea.Cmd {
		if d.Match == nil {
			return nil
		}
		next := compare.New(w.deps.Backend, d.Match.Standard.ID, w.course)
		return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}
}

// questionChoices builds the option list for code. Locked codes are
// read-only.
func questionChoices(code cbcode.Code, codes cbcode.Set) components.ChoiceList {
	def, err := code.Definition()
	if err != nil {
		return components.ChoiceList{}
	}
	choices := make([]components.Choice, len(def.Options))
	for i, o := range def.Options {
		choices[i] = components.Choice{Value: o.Value, Label: o.Label}
	}
	return components.NewChoiceList(choices, codes.Value(code), codes.IsLocked(code))
}

func (w *WizardScreen) KeyHints() []layout.KeyHint {
	if w.ctrl == nil {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	s := w.ctrl.State()
	switch s.Phase {
	case wz.PhaseDetection:
		switch s.Detection.Phase {
		case detection.PhaseJustification:
			return []layout.KeyHint{
				{Key: "Tab", Description: "Switch field"},
				{Key: "Ctrl+S", Description: "Submit"},
				{Key: "Esc", Description: "Back"},
			}
		case detection.PhaseLoading:
			return []layout.KeyHint{{Key: "Esc", Description: "Leave"}}
		}
		return []layout.KeyHint{
			{Key: "←→", Description: "Choose"},
			{Key: "Enter", Description: "Select"},
			{Key: "Esc", Description: "Leave"},
		}
	case wz.PhaseQuestions:
		hints := []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+S", Description: "Save progress"},
		}
		if s.AdoptedStandard != nil {
			hints = append(hints, layout.KeyHint{Key: "U", Description: "Remove alignment"})
		}
		return hints
	case wz.PhaseReview:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+S", Description: "Save progress"},
		}
	}
	return nil
}
