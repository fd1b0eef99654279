package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/josephgoksu/TaskPulse/internal/session"
	"github.com/josephgoksu/TaskPulse/models"
)

func newTestEngine(t *testing.T, sink ToastSink) (*Engine, *session.MemoryStore) {
	t.Helper()
	st := newTestStore(t)
	acks := session.NewMemoryStore()
	eng := New(st, acks, models.DefaultNotificationSettings, sink, 2*time.Hour, "you",
		WithClock(func() time.Time { return baseNow }))
	return eng, acks
}

func TestEngineTickPublishesCurrent(t *testing.T) {
	sink := &captureSink{}
	eng, _ := newTestEngine(t, sink)

	task := models.NewTask(uuid.New().String(), "Pay rent", baseNow.Add(-48*time.Hour))
	due := baseNow.Add(-time.Hour)
	task.DueDate = &due
	if _, err := eng.store.CreateTask(*task); err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	if err := eng.Tick(); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	current := eng.Current()
	if len(current) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(current))
	}
	if current[0].ID != models.OverdueNotificationID(task.ID) {
		t.Errorf("unexpected identity %s", current[0].ID)
	}
	if len(sink.toasts) != 0 {
		t.Errorf("first tick must not toast, got %d", len(sink.toasts))
	}
}

func TestEngineClearAllHidesOnNextTick(t *testing.T) {
	eng, acks := newTestEngine(t, &captureSink{})

	task := models.NewTask(uuid.New().String(), "Pay rent", baseNow.Add(-48*time.Hour))
	due := baseNow.Add(-time.Hour)
	task.DueDate = &due
	if _, err := eng.store.CreateTask(*task); err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	if err := eng.Tick(); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if err := eng.ClearAll(); err != nil {
		t.Fatalf("clear-all failed: %v", err)
	}
	if isCleared, _ := acks.IsCleared(models.OverdueNotificationID(task.ID)); !isCleared {
		t.Fatalf("expected the overdue identity in the cleared set")
	}

	if err := eng.Tick(); err != nil {
		t.Fatalf("second tick failed: %v", err)
	}
	if got := eng.Current(); len(got) != 0 {
		t.Fatalf("cleared notification must stay hidden, got %d", len(got))
	}
}

func TestEngineMarkAllReadKeepsListing(t *testing.T) {
	eng, acks := newTestEngine(t, &captureSink{})

	task := models.NewTask(uuid.New().String(), "Pay rent", baseNow.Add(-48*time.Hour))
	due := baseNow.Add(-time.Hour)
	task.DueDate = &due
	if _, err := eng.store.CreateTask(*task); err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	if err := eng.Tick(); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if err := eng.MarkAllRead(); err != nil {
		t.Fatalf("read-all failed: %v", err)
	}
	if isRead, _ := acks.IsRead(models.OverdueNotificationID(task.ID)); !isRead {
		t.Fatalf("expected the identity in the read set")
	}

	if err := eng.Tick(); err != nil {
		t.Fatalf("second tick failed: %v", err)
	}
	if got := eng.Current(); len(got) != 1 {
		t.Fatalf("read notifications stay in the list, got %d", len(got))
	}
}

func TestEngineCompleteHabit(t *testing.T) {
	eng, _ := newTestEngine(t, &captureSink{})

	habit := models.NewHabit(uuid.New().String(), "Stretch", models.HabitManual, baseNow.Add(-72*time.Hour))
	habit.ReminderTime = "09:00"
	if _, err := eng.store.CreateHabit(*habit); err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	if err := eng.Tick(); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if got := eng.Current(); len(got) != 1 {
		t.Fatalf("expected the habit reminder, got %d", len(got))
	}

	n := eng.Current()[0]
	if err := eng.CompleteHabit(n); err != nil {
		t.Fatalf("complete habit failed: %v", err)
	}
	if err := eng.Tick(); err != nil {
		t.Fatalf("second tick failed: %v", err)
	}
	if got := eng.Current(); len(got) != 0 {
		t.Fatalf("completed habit must stop reminding, got %d", len(got))
	}

	// Completing a notification for a vanished habit is a no-op.
	ghost := models.Notification{ID: models.HabitNotificationID("gone", "2025-06-10"), SourceID: "gone"}
	if err := eng.CompleteHabit(ghost); err != nil {
		t.Fatalf("missing habit must be a no-op, got %v", err)
	}
}
