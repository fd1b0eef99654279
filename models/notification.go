package models

import (
	"fmt"
	"strings"
	"time"
)

// Notification is a derived value, recomputed from scratch on every
// derivation tick and never persisted. Its ID is the deterministic identity
// used for read/cleared bookkeeping and toast dedup; SourceID is the
// underlying task or habit.
type Notification struct {
	ID       string    `json:"id"`
	SourceID string    `json:"sourceId"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	NotifyAt time.Time `json:"notifyAt"`
}

// NotificationSettings gates derivation. Enabled is the master switch for
// due/upcoming notifications; TaskReminders and HabitReminders gate their
// sub-rules independently.
type NotificationSettings struct {
	Enabled          bool `json:"enabled" mapstructure:"enabled"`
	TaskReminders    bool `json:"taskReminders" mapstructure:"taskReminders"`
	HabitReminders   bool `json:"habitReminders" mapstructure:"habitReminders"`
	RemindDaysBefore int  `json:"remindDaysBefore" mapstructure:"remindDaysBefore" validate:"min=0"`
}

// DefaultNotificationSettings returns the settings used when no
// configuration is present.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		Enabled:          true,
		TaskReminders:    true,
		HabitReminders:   true,
		RemindDaysBefore: 3,
	}
}

const habitNotificationPrefix = "habit-"

// OverdueNotificationID is the identity of a task's overdue notification.
// It is stable for the life of the overdue condition.
func OverdueNotificationID(taskID string) string {
	return taskID + "-overdue"
}

// UpcomingNotificationID is the identity of a task's upcoming notification.
// The day count is part of the identity, so the notification is a fresh,
// unacknowledged one each day as the countdown advances.
func UpcomingNotificationID(taskID string, daysUntilDue int) string {
	return fmt.Sprintf("%s-upcoming-%d", taskID, daysUntilDue)
}

// HabitNotificationID is the identity of a habit's reminder notification for
// a calendar day: one per habit per day.
func HabitNotificationID(habitID, day string) string {
	return fmt.Sprintf("%s%s-%s", habitNotificationPrefix, habitID, day)
}

// IsHabitNotification reports whether the identity belongs to a habit
// reminder. Habit notifications are not snoozable.
func IsHabitNotification(id string) bool {
	return strings.HasPrefix(id, habitNotificationPrefix)
}
