// Package engine derives the live notification feed from task and habit
// state and dispatches toast deltas. Derivation is pure and recomputed from
// scratch on every tick; the derived list replaces the previous one, it is
// never merged.
package engine

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/josephgoksu/TaskPulse/models"
)

// Snapshot is the immutable input of one derivation tick.
type Snapshot struct {
	Tasks    []models.Task
	Projects []models.Project
	Habits   []models.Habit
}

// startOfDay truncates an instant to its calendar day in its own location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// calendarDaysBetween returns the whole-day difference between the calendar
// days of from and to. Rounding absorbs DST-shortened days.
func calendarDaysBetween(from, to time.Time) int {
	return int(math.Round(startOfDay(to).Sub(startOfDay(from)).Hours() / 24))
}

// dueMessage is the tiered message for an upcoming due date.
func dueMessage(daysUntilDue int) string {
	switch daysUntilDue {
	case 0:
		return "due today"
	case 1:
		return "due tomorrow"
	default:
		return fmt.Sprintf("due in %d days", daysUntilDue)
	}
}

// AnyTaskDoneOn reports whether any task recorded a transition to done on
// the calendar day of at. It feeds auto-habit completion and is recomputed
// on the same tick as the rest of the derivation, never cached.
func AnyTaskDoneOn(tasks []models.Task, at time.Time) bool {
	day := startOfDay(at)
	for _, t := range tasks {
		for _, e := range t.Activity {
			if e.Type != models.ActivityStatusChange || e.To != models.StatusDone {
				continue
			}
			if startOfDay(e.Timestamp.In(at.Location())).Equal(day) {
				return true
			}
		}
	}
	return false
}

// Derive computes the sorted candidate notification list for one tick.
//
// It is deterministic given (snapshot, settings, cleared, now): calling it
// twice with identical inputs yields identical output, ids and order.
// Candidates whose identity is in the cleared set are dropped last, after
// sorting, so clearing never reorders survivors.
func Derive(snap Snapshot, settings models.NotificationSettings, cleared map[string]struct{}, now time.Time) []models.Notification {
	var candidates []models.Notification

	// Due / upcoming, gated by the master switch and the task sub-toggle.
	if settings.Enabled && settings.TaskReminders {
		for _, t := range snap.Tasks {
			if t.IsDone() || t.DueDate == nil {
				continue
			}
			due := *t.DueDate
			daysUntilDue := calendarDaysBetween(now, due)
			// A due instant at or before now is always overdue, regardless
			// of the calendar-day comparison.
			if !due.After(now) || daysUntilDue < 0 {
				candidates = append(candidates, models.Notification{
					ID:       models.OverdueNotificationID(t.ID),
					SourceID: t.ID,
					Title:    t.Title,
					Message:  "overdue",
					NotifyAt: due,
				})
				continue
			}
			if daysUntilDue <= settings.RemindDaysBefore {
				// The identity embeds the day count, so the same task shows
				// up as a fresh notification each day of the countdown.
				candidates = append(candidates, models.Notification{
					ID:       models.UpcomingNotificationID(t.ID, daysUntilDue),
					SourceID: t.ID,
					Title:    t.Title,
					Message:  dueMessage(daysUntilDue),
					NotifyAt: due,
				})
			}
		}
	}

	// Custom reminders, gated by the master switch only.
	if settings.Enabled {
		for _, t := range snap.Tasks {
			if t.IsDone() {
				continue
			}
			for _, e := range t.ReminderEntries() {
				if e.NotifyAt == nil || e.NotifyAt.After(now) {
					continue
				}
				candidates = append(candidates, models.Notification{
					ID:       e.ID,
					SourceID: t.ID,
					Title:    t.Title,
					Message:  e.Message,
					NotifyAt: *e.NotifyAt,
				})
			}
		}
	}

	// Habit reminders: one per habit per calendar day, once the reminder
	// time has passed and the habit is still derived-incomplete.
	if settings.Enabled && settings.HabitReminders {
		day := now.Format(models.DateLayout)
		anyDone := AnyTaskDoneOn(snap.Tasks, now)
		for _, h := range snap.Habits {
			remindAt, ok := h.ReminderAt(now)
			if !ok || now.Before(remindAt) {
				continue
			}
			if h.CompletedOn(day, anyDone) {
				continue
			}
			candidates = append(candidates, models.Notification{
				ID:       models.HabitNotificationID(h.ID, day),
				SourceID: h.ID,
				Title:    h.Title,
				Message:  "habit reminder",
				NotifyAt: remindAt,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].NotifyAt.Before(candidates[j].NotifyAt)
	})

	if len(cleared) == 0 {
		return candidates
	}
	out := candidates[:0]
	for _, n := range candidates {
		if _, isCleared := cleared[n.ID]; !isCleared {
			out = append(out, n)
		}
	}
	return out
}
