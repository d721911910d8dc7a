package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidRepeat = errors.New("model: invalid repeat option")

// Repeat is the cadence at which an overdue task's due date advances.
type Repeat string

const (
	RepeatNone    Repeat = "none"
	RepeatDaily   Repeat = "daily"
	RepeatWeekly  Repeat = "weekly"
	RepeatMonthly Repeat = "monthly"
)

func (r Repeat) IsValid() bool {
	switch r {
	case RepeatNone, RepeatDaily, RepeatWeekly, RepeatMonthly:
		return true
	default:
		return false
	}
}

// Task is a single reminder item. WarnNotificationID and FinalNotificationID
// are opaque scheduler handles; an empty string means no live notification.
type Task struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	DueDate             time.Time `json:"dueDate"`
	IsComplete          bool      `json:"isComplete"`
	IsPriority          bool      `json:"isPriority"`
	Repeat              Repeat    `json:"repeat"`
	WarnNotificationID  string    `json:"warnNotificationId,omitempty"`
	FinalNotificationID string    `json:"finalNotificationId,omitempty"`
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if t.DueDate.IsZero() {
		return errors.New("model: task due date is required")
	}
	if !t.Repeat.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidRepeat, t.Repeat)
	}
	return nil
}

// HasLiveNotifications reports whether either scheduler handle is set.
func (t Task) HasLiveNotifications() bool {
	return t.WarnNotificationID != "" || t.FinalNotificationID != ""
}

const shareTimeLayout = "Jan 02, 2006 • 03:04 PM"

// ShareText renders the task as the plain-text blurb used by the share action.
func (t Task) ShareText() string {
	return fmt.Sprintf("Task: %s\n%s\nDue: %s", t.Title, t.Description, t.DueDate.Format(shareTimeLayout))
}
