package notify

import (
	"fmt"
	"testing"
	"time"

	"github.com/duetick/duetick/internal/model"
)

// fakeScheduler records schedule/cancel traffic for protocol tests.
type fakeScheduler struct {
	next      int
	scheduled []model.Request
	cancelled []string
	now       time.Time
}

func (f *fakeScheduler) Schedule(req model.Request) (string, error) {
	if !req.TargetTime.After(f.now) {
		return "", nil
	}
	f.next++
	f.scheduled = append(f.scheduled, req)
	return fmt.Sprintf("h%d", f.next), nil
}

func (f *fakeScheduler) Cancel(handle string) {
	f.cancelled = append(f.cancelled, handle)
}

func TestReschedulePopulatesBothHandles(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	sched := &fakeScheduler{now: now}
	task := model.Task{
		ID:      "t1",
		Title:   "Buy milk",
		DueDate: now.Add(15 * time.Minute),
		Repeat:  model.RepeatNone,
	}

	if err := Reschedule(sched, &task); err != nil {
		t.Fatalf("reschedule failed: %v", err)
	}
	if task.WarnNotificationID == "" || task.FinalNotificationID == "" {
		t.Fatalf("handles not populated: warn=%q final=%q", task.WarnNotificationID, task.FinalNotificationID)
	}
	if len(sched.scheduled) != 2 {
		t.Fatalf("expected 2 scheduled requests, got %d", len(sched.scheduled))
	}
	if sched.scheduled[0].Kind != model.KindWarning || sched.scheduled[1].Kind != model.KindFinal {
		t.Fatalf("unexpected request kinds: %s, %s", sched.scheduled[0].Kind, sched.scheduled[1].Kind)
	}
}

func TestRescheduleCancelsPreviousHandlesFirst(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	sched := &fakeScheduler{now: now}
	task := model.Task{
		ID:                  "t1",
		Title:               "Buy milk",
		DueDate:             now.Add(time.Hour),
		Repeat:              model.RepeatNone,
		WarnNotificationID:  "old-warn",
		FinalNotificationID: "old-final",
	}

	if err := Reschedule(sched, &task); err != nil {
		t.Fatalf("reschedule failed: %v", err)
	}
	if len(sched.cancelled) != 2 || sched.cancelled[0] != "old-warn" || sched.cancelled[1] != "old-final" {
		t.Fatalf("stale handles not cancelled: %v", sched.cancelled)
	}
	if task.WarnNotificationID == "old-warn" || task.FinalNotificationID == "old-final" {
		t.Fatal("handles not replaced")
	}
}

func TestRescheduleSkipsPastWarning(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	sched := &fakeScheduler{now: now}
	// Due in 5 minutes: the warning slot (due-10m) already passed.
	task := model.Task{
		ID:      "t1",
		Title:   "Soon",
		DueDate: now.Add(5 * time.Minute),
		Repeat:  model.RepeatNone,
	}

	if err := Reschedule(sched, &task); err != nil {
		t.Fatalf("reschedule failed: %v", err)
	}
	if task.WarnNotificationID != "" {
		t.Fatalf("expected empty warning handle, got %q", task.WarnNotificationID)
	}
	if task.FinalNotificationID == "" {
		t.Fatal("expected final handle to be set")
	}
}

func TestCancelAllClearsHandles(t *testing.T) {
	sched := &fakeScheduler{}
	task := model.Task{
		ID:                  "t1",
		WarnNotificationID:  "w",
		FinalNotificationID: "f",
	}

	CancelAll(sched, &task)
	if task.HasLiveNotifications() {
		t.Fatal("handles not cleared")
	}
	if len(sched.cancelled) != 2 {
		t.Fatalf("expected 2 cancels, got %d", len(sched.cancelled))
	}
}
