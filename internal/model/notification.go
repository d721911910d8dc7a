package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidKind = errors.New("model: invalid notification kind")

// Kind distinguishes the two reminders scheduled per task.
type Kind string

const (
	KindWarning Kind = "warning"
	KindFinal   Kind = "final"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindWarning, KindFinal:
		return true
	default:
		return false
	}
}

// Request describes one reminder to be handed to the notification scheduler.
// Requests are built transiently whenever a task's reminders are recomputed
// and are never persisted.
type Request struct {
	TaskID     string
	Title      string
	Message    string
	TargetTime time.Time
	Repeat     Repeat
	Kind       Kind
}

func (r Request) Validate() error {
	if strings.TrimSpace(r.TaskID) == "" {
		return errors.New("model: request task id is required")
	}
	if r.TargetTime.IsZero() {
		return errors.New("model: request target time is required")
	}
	if !r.Repeat.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidRepeat, r.Repeat)
	}
	if !r.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, r.Kind)
	}
	return nil
}

// WarningLead is how far ahead of the due time the warning reminder fires.
const WarningLead = 10 * time.Minute

// WarningRequest builds the "10 minutes before" reminder for a task.
func WarningRequest(t Task) Request {
	return Request{
		TaskID:     t.ID,
		Title:      fmt.Sprintf("Upcoming Task: %s", t.Title),
		Message:    "Due in 10 minutes",
		TargetTime: t.DueDate.Add(-WarningLead),
		Repeat:     t.Repeat,
		Kind:       KindWarning,
	}
}

// FinalRequest builds the "due now" reminder for a task.
func FinalRequest(t Task) Request {
	return Request{
		TaskID:     t.ID,
		Title:      t.Title,
		Message:    "Due Now",
		TargetTime: t.DueDate,
		Repeat:     t.Repeat,
		Kind:       KindFinal,
	}
}
