package models

import (
	"fmt"
	"time"
)

// HabitType distinguishes habits ticked off by hand from habits whose daily
// completion is derived from task activity.
type HabitType string

const (
	HabitManual HabitType = "manual"
	HabitAuto   HabitType = "auto"
)

// DateLayout is the calendar-date format used for habit completion and
// override dates. Habit state is tracked per calendar day, never per instant.
const DateLayout = "2006-01-02"

// ReminderTimeLayout is the time-of-day format for habit reminders.
const ReminderTimeLayout = "15:04"

// Habit is a recurring intention. Completion for "today" is a computed
// projection (see CompletedOn), never stored.
//
// Invariant: OverrideDate and LastCompletedDate are never both set to the
// same day; MarkCompleted and MarkSkipped each clear the other field when it
// points at the day being toggled.
type Habit struct {
	ID                string    `json:"id" yaml:"id" toml:"id" validate:"required,uuid4"`
	Title             string    `json:"title" yaml:"title" toml:"title" validate:"required,min=1,max=255"`
	Type              HabitType `json:"type" yaml:"type" toml:"type" validate:"required,oneof=manual auto"`
	ReminderTime      string    `json:"reminderTime,omitempty" yaml:"reminderTime,omitempty" toml:"reminderTime,omitempty"`
	LastCompletedDate string    `json:"lastCompletedDate,omitempty" yaml:"lastCompletedDate,omitempty" toml:"lastCompletedDate,omitempty"`
	OverrideDate      string    `json:"overrideDate,omitempty" yaml:"overrideDate,omitempty" toml:"overrideDate,omitempty"`
	CreatedAt         time.Time `json:"createdAt" yaml:"createdAt" toml:"createdAt" validate:"required"`
	UpdatedAt         time.Time `json:"updatedAt" yaml:"updatedAt" toml:"updatedAt" validate:"required"`
}

// NewHabit creates a habit with timestamps set.
func NewHabit(id, title string, habitType HabitType, now time.Time) *Habit {
	return &Habit{
		ID:        id,
		Title:     title,
		Type:      habitType,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CompletedOn computes the habit's derived completion for the given calendar
// day. Precedence: an explicit "not done" override wins, then an explicit
// completion, then (for auto habits) whether any task was moved to done that
// day. anyTaskDone is supplied by the caller from the same snapshot the rest
// of the derivation tick uses.
func (h *Habit) CompletedOn(day string, anyTaskDone bool) bool {
	if h.OverrideDate == day {
		return false
	}
	if h.LastCompletedDate == day {
		return true
	}
	if h.Type == HabitAuto {
		return anyTaskDone
	}
	return false
}

// MarkCompleted records an explicit completion for the day and drops a
// same-day override so the two never coexist.
func (h *Habit) MarkCompleted(day string) {
	h.LastCompletedDate = day
	if h.OverrideDate == day {
		h.OverrideDate = ""
	}
}

// MarkSkipped records an explicit "not done today" override for the day and
// drops a same-day completion.
func (h *Habit) MarkSkipped(day string) {
	h.OverrideDate = day
	if h.LastCompletedDate == day {
		h.LastCompletedDate = ""
	}
}

// ReminderAt resolves the habit's reminder time-of-day against the given
// day. The second return is false when the habit has no reminder configured
// or the stored value does not parse.
func (h *Habit) ReminderAt(day time.Time) (time.Time, bool) {
	if h.ReminderTime == "" {
		return time.Time{}, false
	}
	tod, err := time.Parse(ReminderTimeLayout, h.ReminderTime)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), tod.Hour(), tod.Minute(), 0, 0, day.Location()), true
}

// ValidateReminderTime checks the ReminderTime field, which validator tags
// cannot express.
func (h *Habit) ValidateReminderTime() error {
	if h.ReminderTime == "" {
		return nil
	}
	if _, err := time.Parse(ReminderTimeLayout, h.ReminderTime); err != nil {
		return fmt.Errorf("invalid reminder time %q (want HH:MM): %w", h.ReminderTime, err)
	}
	return nil
}
