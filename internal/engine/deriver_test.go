package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/josephgoksu/TaskPulse/models"
)

// baseNow is a fixed Tuesday morning used across derivation tests.
var baseNow = time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

func taskDue(id, title string, due time.Time) models.Task {
	t := models.NewTask(id, title, baseNow.Add(-48*time.Hour))
	t.DueDate = &due
	return *t
}

func allOn() models.NotificationSettings {
	return models.DefaultNotificationSettings()
}

func TestDeriveOverdueAtExactlyNow(t *testing.T) {
	snap := Snapshot{Tasks: []models.Task{taskDue("t1", "Pay rent", baseNow)}}

	got := Derive(snap, allOn(), nil, baseNow)
	if len(got) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(got))
	}
	if got[0].ID != models.OverdueNotificationID("t1") {
		t.Errorf("expected overdue identity, got %s", got[0].ID)
	}
	if got[0].Message != "overdue" {
		t.Errorf("expected message 'overdue', got %q", got[0].Message)
	}
}

func TestDeriveOverdueByCalendarDay(t *testing.T) {
	// Due yesterday evening; the instant and the calendar day are both past.
	due := baseNow.Add(-12 * time.Hour)
	snap := Snapshot{Tasks: []models.Task{taskDue("t1", "Water plants", due)}}

	got := Derive(snap, allOn(), nil, baseNow)
	if len(got) != 1 || got[0].Message != "overdue" {
		t.Fatalf("expected a single overdue notification, got %+v", got)
	}
}

func TestDeriveUpcomingTieredMessages(t *testing.T) {
	cases := []struct {
		name    string
		due     time.Time
		wantMsg string
	}{
		{"due later today", baseNow.Add(6 * time.Hour), "due today"},
		{"due tomorrow", baseNow.Add(26 * time.Hour), "due tomorrow"},
		{"due in three days", baseNow.Add(3 * 24 * time.Hour), "due in 3 days"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := Snapshot{Tasks: []models.Task{taskDue("t1", "Report", tc.due)}}
			got := Derive(snap, allOn(), nil, baseNow)
			if len(got) != 1 {
				t.Fatalf("expected 1 notification, got %d", len(got))
			}
			if got[0].Message != tc.wantMsg {
				t.Errorf("expected message %q, got %q", tc.wantMsg, got[0].Message)
			}
		})
	}
}

func TestDeriveRemindDaysBeforeBoundary(t *testing.T) {
	settings := allOn()
	settings.RemindDaysBefore = 1

	tomorrow := taskDue("t1", "Tomorrow", baseNow.Add(26*time.Hour))
	inTwoDays := taskDue("t2", "Two days", baseNow.Add(2*24*time.Hour))
	snap := Snapshot{Tasks: []models.Task{tomorrow, inTwoDays}}

	got := Derive(snap, settings, nil, baseNow)
	if len(got) != 1 {
		t.Fatalf("expected exactly the due-tomorrow task, got %d notifications", len(got))
	}
	if got[0].SourceID != "t1" {
		t.Errorf("expected source t1, got %s", got[0].SourceID)
	}
	if got[0].Message != "due tomorrow" {
		t.Errorf("expected 'due tomorrow', got %q", got[0].Message)
	}
}

func TestDeriveUpcomingIdentityEmbedsDayCount(t *testing.T) {
	// The same task produces a different identity each day of the countdown,
	// so read/cleared state resets daily as the day count shrinks.
	due := baseNow.Add(2 * 24 * time.Hour)
	snap := Snapshot{Tasks: []models.Task{taskDue("t1", "Renew passport", due)}}

	today := Derive(snap, allOn(), nil, baseNow)
	tomorrow := Derive(snap, allOn(), nil, baseNow.Add(24*time.Hour))
	if len(today) != 1 || len(tomorrow) != 1 {
		t.Fatalf("expected 1 notification on both days, got %d and %d", len(today), len(tomorrow))
	}
	if today[0].ID == tomorrow[0].ID {
		t.Errorf("identity should change as the countdown advances, got %s twice", today[0].ID)
	}
	if today[0].ID != models.UpcomingNotificationID("t1", 2) {
		t.Errorf("unexpected identity %s", today[0].ID)
	}
	if tomorrow[0].ID != models.UpcomingNotificationID("t1", 1) {
		t.Errorf("unexpected identity %s", tomorrow[0].ID)
	}
}

func TestDeriveDoneTaskProducesNothing(t *testing.T) {
	task := taskDue("t1", "Shipped", baseNow.Add(-time.Hour))
	task.Status = models.StatusDone
	remindAt := baseNow.Add(-30 * time.Minute)
	task.Activity = append(task.Activity, models.NewReminderEntry("you", baseNow.Add(-time.Hour), remindAt, "check"))

	got := Derive(Snapshot{Tasks: []models.Task{task}}, allOn(), nil, baseNow)
	if len(got) != 0 {
		t.Fatalf("done task must be silent, got %+v", got)
	}
}

func TestDeriveReminderEntries(t *testing.T) {
	task := *models.NewTask("t1", "Call dentist", baseNow.Add(-time.Hour))
	past := models.NewReminderEntry("you", baseNow.Add(-time.Hour), baseNow.Add(-10*time.Minute), "ring them")
	future := models.NewReminderEntry("you", baseNow.Add(-time.Hour), baseNow.Add(time.Hour), "later")
	task.Activity = append(task.Activity, past, future)

	got := Derive(Snapshot{Tasks: []models.Task{task}}, allOn(), nil, baseNow)
	if len(got) != 1 {
		t.Fatalf("only the elapsed reminder should fire, got %d", len(got))
	}
	if got[0].ID != past.ID {
		t.Errorf("reminder notification identity must be the entry id, got %s", got[0].ID)
	}
	if got[0].Message != "ring them" {
		t.Errorf("unexpected message %q", got[0].Message)
	}
}

func TestDeriveRemindersSurviveTaskToggleOff(t *testing.T) {
	// TaskReminders gates due/upcoming only; explicit reminder entries are
	// gated by the master switch alone.
	settings := allOn()
	settings.TaskReminders = false

	task := taskDue("t1", "Dual", baseNow.Add(-time.Hour))
	entry := models.NewReminderEntry("you", baseNow.Add(-time.Hour), baseNow.Add(-time.Minute), "nudge")
	task.Activity = append(task.Activity, entry)

	got := Derive(Snapshot{Tasks: []models.Task{task}}, settings, nil, baseNow)
	if len(got) != 1 || got[0].ID != entry.ID {
		t.Fatalf("expected only the custom reminder, got %+v", got)
	}

	settings.Enabled = false
	got = Derive(Snapshot{Tasks: []models.Task{task}}, settings, nil, baseNow)
	if len(got) != 0 {
		t.Fatalf("master switch off must silence everything, got %+v", got)
	}
}

func TestDeriveHabitReminderTiming(t *testing.T) {
	habit := *models.NewHabit("h1", "Stretch", models.HabitManual, baseNow.Add(-72*time.Hour))
	habit.ReminderTime = "09:00"
	snap := Snapshot{Habits: []models.Habit{habit}}

	before := time.Date(2025, 6, 10, 8, 59, 0, 0, time.UTC)
	if got := Derive(snap, allOn(), nil, before); len(got) != 0 {
		t.Fatalf("reminder must not fire before its time, got %+v", got)
	}

	at := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	got := Derive(snap, allOn(), nil, at)
	if len(got) != 1 {
		t.Fatalf("reminder should fire at its time, got %d", len(got))
	}
	wantID := models.HabitNotificationID("h1", "2025-06-10")
	if got[0].ID != wantID {
		t.Errorf("expected identity %s, got %s", wantID, got[0].ID)
	}
	if got[0].Message != "habit reminder" {
		t.Errorf("unexpected message %q", got[0].Message)
	}
}

func TestDeriveHabitCompletedToday(t *testing.T) {
	habit := *models.NewHabit("h1", "Stretch", models.HabitManual, baseNow.Add(-72*time.Hour))
	habit.ReminderTime = "09:00"
	habit.LastCompletedDate = "2025-06-10"

	got := Derive(Snapshot{Habits: []models.Habit{habit}}, allOn(), nil, baseNow)
	if len(got) != 0 {
		t.Fatalf("completed habit must not remind, got %+v", got)
	}
}

func TestDeriveAutoHabitSilencedByTaskDone(t *testing.T) {
	habit := *models.NewHabit("h1", "Ship something", models.HabitAuto, baseNow.Add(-72*time.Hour))
	habit.ReminderTime = "09:00"

	task := *models.NewTask("t1", "Fix bug", baseNow.Add(-2*time.Hour))
	task.Status = models.StatusDone
	task.Activity = append(task.Activity,
		models.NewStatusChangeEntry("you", baseNow.Add(-time.Hour), models.StatusPending, models.StatusDone, ""))

	snap := Snapshot{Tasks: []models.Task{task}, Habits: []models.Habit{habit}}
	if got := Derive(snap, allOn(), nil, baseNow); len(got) != 0 {
		t.Fatalf("auto habit is complete once any task finished today, got %+v", got)
	}

	// An explicit skip overrides the derived completion.
	habit.OverrideDate = "2025-06-10"
	snap.Habits = []models.Habit{habit}
	got := Derive(snap, allOn(), nil, baseNow)
	if len(got) != 1 {
		t.Fatalf("override makes the habit incomplete again, got %d", len(got))
	}
}

func TestDeriveSortedAndDeterministic(t *testing.T) {
	t1 := taskDue("t1", "Latest", baseNow.Add(3*24*time.Hour))
	t2 := taskDue("t2", "Oldest", baseNow.Add(-2*time.Hour))
	t3 := taskDue("t3", "Middle", baseNow.Add(25*time.Hour))
	snap := Snapshot{Tasks: []models.Task{t1, t2, t3}}

	first := Derive(snap, allOn(), nil, baseNow)
	if len(first) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(first))
	}
	for i := 1; i < len(first); i++ {
		if first[i].NotifyAt.Before(first[i-1].NotifyAt) {
			t.Errorf("output not sorted by NotifyAt at index %d", i)
		}
	}

	second := Derive(snap, allOn(), nil, baseNow)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("derivation must be deterministic for identical inputs")
	}
}

func TestDeriveClearedFiltered(t *testing.T) {
	t1 := taskDue("t1", "Keep", baseNow.Add(-2*time.Hour))
	t2 := taskDue("t2", "Drop", baseNow.Add(-time.Hour))
	snap := Snapshot{Tasks: []models.Task{t1, t2}}

	cleared := map[string]struct{}{
		models.OverdueNotificationID("t2"): {},
	}
	got := Derive(snap, allOn(), cleared, baseNow)
	if len(got) != 1 {
		t.Fatalf("expected cleared identity filtered out, got %d", len(got))
	}
	if got[0].SourceID != "t1" {
		t.Errorf("wrong survivor: %s", got[0].SourceID)
	}
}

func TestAnyTaskDoneOn(t *testing.T) {
	task := *models.NewTask("t1", "Old win", baseNow.Add(-72*time.Hour))
	task.Activity = append(task.Activity,
		models.NewStatusChangeEntry("you", baseNow.Add(-48*time.Hour), models.StatusPending, models.StatusDone, ""))

	if AnyTaskDoneOn([]models.Task{task}, baseNow) {
		t.Errorf("transition two days ago must not count for today")
	}

	task.Activity = append(task.Activity,
		models.NewStatusChangeEntry("you", baseNow.Add(-time.Hour), models.StatusInProgress, models.StatusDone, ""))
	if !AnyTaskDoneOn([]models.Task{task}, baseNow) {
		t.Errorf("same-day transition to done must count")
	}
}
