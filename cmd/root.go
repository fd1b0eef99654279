/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/josephgoksu/TaskPulse/internal/activity"
	appcfg "github.com/josephgoksu/TaskPulse/internal/config"
	"github.com/josephgoksu/TaskPulse/internal/logger"
	"github.com/josephgoksu/TaskPulse/internal/session"
	"github.com/josephgoksu/TaskPulse/models"
	"github.com/josephgoksu/TaskPulse/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// ErrNoNotifications is returned when an interactive selection is
	// attempted but the current list is empty.
	ErrNoNotifications = errors.New("no notifications to act on")
	// version is the application version.
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "taskpulse",
	Short: "TaskPulse keeps a live notification feed over your tasks and habits.",
	Long: `TaskPulse derives a "things needing attention" feed from your tasks and
habits and maintains an append-only activity log across tasks and projects.
Run 'taskpulse watch' for the live feed, or use the task/habit subcommands
to mutate state with full audit trails.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetCommand(cmd.Name())
		logger.SetBasePath(GetConfig().Project.RootDir)
	},
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	defer logger.HandlePanic()
	logger.SetVersion(version)
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.taskpulse.yaml or ./.taskpulse.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// GetDataFilePath returns the full path to the entity data file.
func GetDataFilePath() string {
	config := GetConfig()
	return filepath.Join(config.Project.RootDir, config.Data.File)
}

// GetStore initializes and returns the entity store.
func GetStore() (store.Store, error) {
	s := store.NewFileStore()
	config := GetConfig()

	dataFilePath := GetDataFilePath()
	err := s.Initialize(map[string]string{
		"dataFile":       dataFilePath,
		"dataFileFormat": config.Data.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store at %s: %w", dataFilePath, err)
	}
	return s, nil
}

// GetSession returns the SQLite-backed acknowledgment store.
func GetSession() (session.AckStore, error) {
	config := GetConfig()
	s, err := session.NewSQLiteStore(config.Project.RootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	return s, nil
}

// GetRecorder builds the activity recorder over the given store.
func GetRecorder(st store.Store) *activity.Recorder {
	config := GetConfig()
	actor := config.Actor
	if actor == "" {
		actor = appcfg.DefaultActor
	}
	return activity.NewRecorder(st, actor)
}

// GetNotificationSettings maps config to engine settings.
func GetNotificationSettings() models.NotificationSettings {
	config := GetConfig()
	return models.NotificationSettings{
		Enabled:          config.Notifications.Enabled,
		TaskReminders:    config.Notifications.TaskReminders,
		HabitReminders:   config.Notifications.HabitReminders,
		RemindDaysBefore: config.Notifications.RemindDaysBefore,
	}
}

// GetTickInterval returns the configured derivation interval.
func GetTickInterval() time.Duration {
	config := GetConfig()
	if config.Notifications.IntervalSeconds > 0 {
		return time.Duration(config.Notifications.IntervalSeconds) * time.Second
	}
	return appcfg.DefaultTickInterval
}

// GetSnoozeOffset returns the configured snooze offset.
func GetSnoozeOffset() time.Duration {
	config := GetConfig()
	if config.Notifications.SnoozeMinutes > 0 {
		return time.Duration(config.Notifications.SnoozeMinutes) * time.Minute
	}
	return appcfg.DefaultSnoozeOffset
}
