package store

import (
	"time"

	"github.com/duetick/duetick/internal/model"
)

// Update is one field-level mutation of a task. Each variant carries only
// the data it needs; Apply dispatches over the closed set. Variants that
// touch the title, due date, or repeat cadence re-run the notification
// reschedule protocol.
type Update interface {
	isUpdate()
}

// RenameTitle replaces the task title.
type RenameTitle struct {
	Title string
}

// SetDescription replaces the task description.
type SetDescription struct {
	Description string
}

// Reschedule moves the task's due date.
type Reschedule struct {
	DueDate time.Time
}

// SetRepeat changes the repeat cadence.
type SetRepeat struct {
	Repeat model.Repeat
}

// SetPriority sets the display priority flag.
type SetPriority struct {
	Priority bool
}

func (RenameTitle) isUpdate()    {}
func (SetDescription) isUpdate() {}
func (Reschedule) isUpdate()     {}
func (SetRepeat) isUpdate()      {}
func (SetPriority) isUpdate()    {}

// affectsNotifications reports whether applying u invalidates the task's
// currently scheduled reminder pair.
func affectsNotifications(u Update) bool {
	switch u.(type) {
	case RenameTitle, Reschedule, SetRepeat:
		return true
	default:
		return false
	}
}
