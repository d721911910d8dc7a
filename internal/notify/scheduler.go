// Package notify schedules the local reminder notifications for tasks:
// a warning 10 minutes ahead of the due time and a final one at the due
// time itself.
package notify

import (
	"time"

	"github.com/duetick/duetick/internal/model"
)

// Scheduler is the contract the task store and background refresher program
// against. Schedule returns an opaque handle for later cancellation, or an
// empty handle when the target time is already in the past (a silent skip,
// not an error). Cancel is best-effort: cancelling an unknown, fired, or
// already-cancelled handle is not an error.
type Scheduler interface {
	Schedule(req model.Request) (string, error)
	Cancel(handle string)
}

// Event is one fired reminder, delivered on the engine's out channel.
type Event struct {
	Handle  string
	TaskID  string
	Title   string
	Message string
	Kind    model.Kind
	FiredAt time.Time
}

// Reschedule applies the cancel-then-schedule protocol to a task: both
// existing handles are cancelled unconditionally if present, then the
// warning/final pair is computed from the current due date and scheduled.
// Handles for requests that were skipped as past come back empty.
func Reschedule(sched Scheduler, t *model.Task) error {
	if t.WarnNotificationID != "" {
		sched.Cancel(t.WarnNotificationID)
		t.WarnNotificationID = ""
	}
	if t.FinalNotificationID != "" {
		sched.Cancel(t.FinalNotificationID)
		t.FinalNotificationID = ""
	}

	warn, err := sched.Schedule(model.WarningRequest(*t))
	if err != nil {
		return err
	}
	final, err := sched.Schedule(model.FinalRequest(*t))
	if err != nil {
		return err
	}
	t.WarnNotificationID = warn
	t.FinalNotificationID = final
	return nil
}

// CancelAll drops both of a task's live reminders and clears the handles.
func CancelAll(sched Scheduler, t *model.Task) {
	if t.WarnNotificationID != "" {
		sched.Cancel(t.WarnNotificationID)
		t.WarnNotificationID = ""
	}
	if t.FinalNotificationID != "" {
		sched.Cancel(t.FinalNotificationID)
		t.FinalNotificationID = ""
	}
}
