package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose       bool                `mapstructure:"verbose"`
	Config        string              `mapstructure:"config"`
	Actor         string              `mapstructure:"actor"`
	Project       ProjectConfig       `mapstructure:"project" validate:"required"`
	Data          DataConfig          `mapstructure:"data" validate:"required"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
}

// ProjectConfig holds project-related settings
type ProjectConfig struct {
	RootDir string `mapstructure:"rootDir" validate:"required"`
}

// DataConfig holds data storage configuration
type DataConfig struct {
	File   string `mapstructure:"file" validate:"required"`
	Format string `mapstructure:"format" validate:"required,oneof=json yaml toml"`
}

// NotificationsConfig holds the notification engine settings.
type NotificationsConfig struct {
	Enabled          bool `mapstructure:"enabled"`
	TaskReminders    bool `mapstructure:"taskReminders"`
	HabitReminders   bool `mapstructure:"habitReminders"`
	RemindDaysBefore int  `mapstructure:"remindDaysBefore" validate:"min=0"`
	// IntervalSeconds controls the derivation tick interval for `watch`.
	IntervalSeconds int `mapstructure:"intervalSeconds" validate:"omitempty,min=1,max=300"`
	// SnoozeMinutes controls how far a snooze pushes the reminder.
	SnoozeMinutes int `mapstructure:"snoozeMinutes" validate:"omitempty,min=1"`
}
