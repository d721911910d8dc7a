package model

import (
	"errors"
	"testing"
	"time"
)

func TestTaskValidateSuccess(t *testing.T) {
	task := Task{
		ID:      "task-1",
		Title:   "Buy milk",
		DueDate: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		Repeat:  RepeatNone,
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestTaskValidateRejectsUnknownRepeat(t *testing.T) {
	task := Task{
		ID:      "task-1",
		Title:   "Buy milk",
		DueDate: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		Repeat:  Repeat("fortnightly"),
	}
	if err := task.Validate(); !errors.Is(err, ErrInvalidRepeat) {
		t.Fatalf("expected ErrInvalidRepeat, got %v", err)
	}
}

func TestTaskValidateRequiresTitle(t *testing.T) {
	task := Task{
		ID:      "task-1",
		Title:   "   ",
		DueDate: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		Repeat:  RepeatNone,
	}
	if err := task.Validate(); err == nil {
		t.Fatal("expected error for blank title")
	}
}

func TestShareText(t *testing.T) {
	task := Task{
		ID:          "task-1",
		Title:       "Buy milk",
		Description: "Two liters",
		DueDate:     time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC),
		Repeat:      RepeatNone,
	}
	want := "Task: Buy milk\nTwo liters\nDue: Mar 02, 2026 • 02:30 PM"
	if got := task.ShareText(); got != want {
		t.Fatalf("share text mismatch:\ngot  %q\nwant %q", got, want)
	}
}

func TestHasLiveNotifications(t *testing.T) {
	task := Task{ID: "task-1"}
	if task.HasLiveNotifications() {
		t.Fatal("expected no live notifications")
	}
	task.WarnNotificationID = "h1"
	if !task.HasLiveNotifications() {
		t.Fatal("expected live notifications with warn handle set")
	}
}

func TestWarningAndFinalRequests(t *testing.T) {
	due := time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
	task := Task{ID: "task-1", Title: "Standup", DueDate: due, Repeat: RepeatDaily}

	warn := WarningRequest(task)
	if warn.TargetTime != due.Add(-10*time.Minute) {
		t.Fatalf("warning target %s, want 10 minutes before due", warn.TargetTime)
	}
	if warn.Title != "Upcoming Task: Standup" || warn.Message != "Due in 10 minutes" {
		t.Fatalf("unexpected warning content: %q / %q", warn.Title, warn.Message)
	}
	if warn.Kind != KindWarning {
		t.Fatalf("unexpected warning kind: %q", warn.Kind)
	}

	final := FinalRequest(task)
	if !final.TargetTime.Equal(due) {
		t.Fatalf("final target %s, want due time", final.TargetTime)
	}
	if final.Title != "Standup" || final.Message != "Due Now" {
		t.Fatalf("unexpected final content: %q / %q", final.Title, final.Message)
	}
	if final.Kind != KindFinal {
		t.Fatalf("unexpected final kind: %q", final.Kind)
	}
}

func TestPrayerScheduleLookup(t *testing.T) {
	slots, err := PrayerSchedule(FaithMuslim)
	if err != nil {
		t.Fatalf("prayer schedule lookup failed: %v", err)
	}
	if len(slots) != 5 {
		t.Fatalf("expected 5 muslim prayer slots, got %d", len(slots))
	}
	if slots[0].Title != "Fajr" || slots[0].Hour != 5 {
		t.Fatalf("unexpected first slot: %+v", slots[0])
	}

	if _, err := PrayerSchedule(Faith("pastafarian")); !errors.Is(err, ErrUnknownFaith) {
		t.Fatalf("expected ErrUnknownFaith, got %v", err)
	}
}

func TestPrayerSlotAt(t *testing.T) {
	day := time.Date(2026, 3, 2, 22, 15, 0, 0, time.UTC)
	slot := PrayerSlot{Title: "Sunset", Hour: 18, Minute: 0}
	got := slot.At(day)
	want := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("slot time %s, want %s", got, want)
	}
}
