package models

import (
	"testing"
	"time"
)

var entryNow = time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

func TestActivityConstructorsSetCommonFields(t *testing.T) {
	entries := []ActivityEntry{
		NewCreationEntry("you", entryNow),
		NewStatusChangeEntry("you", entryNow, StatusPending, StatusDone, "Report"),
		NewPropertyChangeEntry("you", entryNow, "project", "Old", "New"),
		NewNoteEntry("you", entryNow, "hello", false),
		NewReminderEntry("you", entryNow, entryNow.Add(time.Hour), "ping"),
		NewProjectLinkEntry("you", entryNow, LinkAdded, "Report"),
	}
	for i, e := range entries {
		if e.ID == "" {
			t.Errorf("entry %d has no identity", i)
		}
		if e.Actor != "you" {
			t.Errorf("entry %d actor = %q", i, e.Actor)
		}
		if !e.Timestamp.Equal(entryNow) {
			t.Errorf("entry %d timestamp = %v", i, e.Timestamp)
		}
	}
}

func TestBulkStatusChangeCountMatchesAffected(t *testing.T) {
	affected := []string{"One", "Two", "Three"}
	e := NewBulkStatusChangeEntry("you", entryNow, StatusPending, StatusDone, affected)
	if e.Count != 3 {
		t.Errorf("Count = %d, want 3", e.Count)
	}
	if len(e.AffectedTasks) != e.Count {
		t.Errorf("Count %d disagrees with AffectedTasks %d", e.Count, len(e.AffectedTasks))
	}
	if e.From != StatusPending || e.To != StatusDone {
		t.Errorf("unexpected transition %s -> %s", e.From, e.To)
	}
}

func TestReminderEntryCarriesNotifyAt(t *testing.T) {
	notifyAt := entryNow.Add(2 * time.Hour)
	e := NewReminderEntry("you", entryNow, notifyAt, "ping")
	if e.NotifyAt == nil || !e.NotifyAt.Equal(notifyAt) {
		t.Errorf("NotifyAt = %v, want %v", e.NotifyAt, notifyAt)
	}
	if e.Message != "ping" {
		t.Errorf("Message = %q", e.Message)
	}
}

func TestTaskReminderEntriesPreserveOrder(t *testing.T) {
	task := NewTask("t1", "Report", entryNow)
	first := NewReminderEntry("you", entryNow, entryNow.Add(time.Hour), "first")
	second := NewReminderEntry("you", entryNow, entryNow.Add(2*time.Hour), "second")
	task.Activity = append(task.Activity,
		first,
		NewNoteEntry("you", entryNow, "noise", false),
		second,
	)

	got := task.ReminderEntries()
	if len(got) != 2 {
		t.Fatalf("expected 2 reminder entries, got %d", len(got))
	}
	if got[0].ID != first.ID || got[1].ID != second.ID {
		t.Errorf("reminder entries out of order")
	}
}

func TestNotificationIdentityHelpers(t *testing.T) {
	if got := OverdueNotificationID("t1"); got != "t1-overdue" {
		t.Errorf("overdue identity = %q", got)
	}
	if got := UpcomingNotificationID("t1", 3); got != "t1-upcoming-3" {
		t.Errorf("upcoming identity = %q", got)
	}
	if got := HabitNotificationID("h1", "2025-06-10"); got != "habit-h1-2025-06-10" {
		t.Errorf("habit identity = %q", got)
	}

	if !IsHabitNotification(HabitNotificationID("h1", "2025-06-10")) {
		t.Errorf("habit identity not recognized")
	}
	if IsHabitNotification("t1-overdue") {
		t.Errorf("task identity misclassified as habit")
	}
}
