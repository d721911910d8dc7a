// Package recur rolls overdue recurring tasks forward to their next
// occurrence and establishes the display ordering of the task list.
// Resolve is pure; every load and background tick funnels through it so
// call sites never re-implement the rollover rule.
package recur

import (
	"sort"
	"time"

	"github.com/duetick/duetick/internal/model"
)

// Resolve returns a copy of tasks in which every overdue task has been
// resolved against now: non-recurring tasks are marked complete, recurring
// ones advance to their next future occurrence with completion reset.
// The result is sorted incomplete-first, then priority-first, then by
// ascending due date.
func Resolve(tasks []model.Task, now time.Time) []model.Task {
	out := make([]model.Task, len(tasks))
	for i, t := range tasks {
		out[i] = resolveOne(t, now)
	}
	sortTasks(out)
	return out
}

func resolveOne(t model.Task, now time.Time) model.Task {
	if !t.DueDate.Before(now) {
		return t
	}
	// Both outcomes invalidate the reminder pair that was aimed at the
	// old due date: a completed task holds no live handles, and a rolled
	// over one needs a fresh pair for the new occurrence.
	if t.Repeat == model.RepeatNone {
		t.IsComplete = true
		t.WarnNotificationID = ""
		t.FinalNotificationID = ""
		return t
	}
	t.DueDate = NextOccurrence(t.DueDate, t.Repeat, now)
	t.IsComplete = false
	t.WarnNotificationID = ""
	t.FinalNotificationID = ""
	return t
}

// NextOccurrence advances due by whole cadence units until it is after now,
// preserving the time-of-day of the original due date. A task overdue by
// several periods therefore lands on its next real occurrence in a single
// pass instead of creeping forward one unit per load.
func NextOccurrence(due time.Time, repeat model.Repeat, now time.Time) time.Time {
	next := due
	for !next.After(now) {
		switch repeat {
		case model.RepeatDaily:
			next = next.AddDate(0, 0, 1)
		case model.RepeatWeekly:
			next = next.AddDate(0, 0, 7)
		case model.RepeatMonthly:
			next = next.AddDate(0, 1, 0)
		default:
			return due
		}
	}
	return withClock(next, due)
}

// withClock re-anchors date's clock to the reference time-of-day. AddDate
// normally preserves it already; the re-anchor keeps month-end arithmetic
// from drifting the clock when the day itself normalizes.
func withClock(date time.Time, ref time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, ref.Hour(), ref.Minute(), ref.Second(), ref.Nanosecond(), ref.Location())
}

// Sort applies the list ordering invariant in place: incomplete before
// complete, priority before non-priority, then soonest due date first.
// Mutation paths use it directly so the display order holds without a full
// rollover pass.
func Sort(tasks []model.Task) {
	sortTasks(tasks)
}

func sortTasks(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.IsComplete != b.IsComplete {
			return !a.IsComplete
		}
		if a.IsPriority != b.IsPriority {
			return a.IsPriority
		}
		return a.DueDate.Before(b.DueDate)
	})
}
