// Package config provides centralized configuration constants for TaskPulse.
// All default values should be defined here to ensure a single source of truth.
package config

import "time"

// Notification engine timing
const (
	// DefaultTickInterval is how often the engine re-derives notifications.
	DefaultTickInterval = 5 * time.Second

	// DefaultSnoozeOffset is how far a snooze pushes the synthetic reminder.
	DefaultSnoozeOffset = 2 * time.Hour

	// DefaultToastDuration is how long a toast stays up before
	// auto-dismissal.
	DefaultToastDuration = 6 * time.Second

	// DefaultRemindDaysBefore is the upcoming-notification window.
	DefaultRemindDaysBefore = 3
)

// DefaultActor attributes activity entries when no actor is configured.
const DefaultActor = "you"

// Data layout defaults
const (
	// DefaultRootDir is the per-project state directory.
	DefaultRootDir = ".taskpulse"

	// DefaultDataFile is the entity data file inside the root dir.
	DefaultDataFile = "data.json"

	// DefaultDataFormat is the serialization format of the data file.
	DefaultDataFormat = "json"
)
