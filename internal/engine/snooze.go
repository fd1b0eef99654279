package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/josephgoksu/TaskPulse/internal/session"
	"github.com/josephgoksu/TaskPulse/models"
	"github.com/josephgoksu/TaskPulse/store"
)

// ErrHabitNotSnoozable is returned when a snooze targets a habit reminder.
// Habits support "mark complete" instead.
var ErrHabitNotSnoozable = errors.New("habit notifications cannot be snoozed")

// Snoozer converts a snooze action into a synthetic reminder on the source
// task and marks the original notification read.
type Snoozer struct {
	store  store.Store
	acks   session.AckStore
	offset time.Duration
	actor  string
	now    func() time.Time
}

// NewSnoozer creates a Snoozer. offset is how far into the future the
// synthetic reminder lands (2 hours in the reference behavior).
func NewSnoozer(st store.Store, acks session.AckStore, offset time.Duration, actor string) *Snoozer {
	return &Snoozer{
		store:  st,
		acks:   acks,
		offset: offset,
		actor:  actor,
		now:    time.Now,
	}
}

// Snooze appends one reminder entry (notifyAt = now + offset) to the
// notification's source task, then marks the original identity read — not
// cleared. A due-date notification will keep reappearing since its
// condition persists; read is the only acknowledgment available for it. A
// missing source task makes the whole snooze a no-op.
func (s *Snoozer) Snooze(n models.Notification) error {
	if models.IsHabitNotification(n.ID) {
		return ErrHabitNotSnoozable
	}

	task, err := s.store.GetTask(n.SourceID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil
		}
		return fmt.Errorf("resolve snooze target: %w", err)
	}

	now := s.now()
	entry := models.NewReminderEntry(s.actor, now, now.Add(s.offset), fmt.Sprintf("Snoozed: %s", n.Title))
	task.Activity = append(task.Activity, entry)
	task.UpdatedAt = now
	if _, err := s.store.PutTask(task); err != nil {
		return fmt.Errorf("append snooze reminder: %w", err)
	}

	if err := s.acks.MarkRead(n.ID); err != nil {
		return fmt.Errorf("mark snoozed notification read: %w", err)
	}
	return nil
}
