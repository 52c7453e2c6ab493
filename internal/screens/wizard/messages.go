package wizard

import (
	"github.com/abhisek/outlines/internal/api"
	"github.com/abhisek/outlines/internal/ccn"
	"github.com/abhisek/outlines/internal/session"
	wz "github.com/abhisek/outlines/internal/wizard"
)

// loadedMsg carries the course, its adopted standard and any saved
// progress.
type loadedMsg struct {
	Course   api.Course
	Standard *ccn.Standard
	Snapshot *wz.Snapshot
	Err      error
}

// jobDoneMsg is a finished collaborator call. Results from a controller
// other than the screen's current one are dropped.
type jobDoneMsg struct {
	ctrl  *session.Controller
	event wz.Event
}

// eventMsg dispatches an author action from a button.
type eventMsg struct {
	event wz.Event
}

// snapshotSavedMsg reports an explicit progress save.
type snapshotSavedMsg struct {
	Err error
}
