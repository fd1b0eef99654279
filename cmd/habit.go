package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/josephgoksu/TaskPulse/internal/engine"
	"github.com/josephgoksu/TaskPulse/internal/ui"
	"github.com/josephgoksu/TaskPulse/models"
	"github.com/spf13/cobra"
)

var (
	habitAutoFlag     bool
	habitRemindAtFlag string
)

var habitCmd = &cobra.Command{
	Use:   "habit",
	Short: "Manage habits",
}

var habitAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a habit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		habitType := models.HabitManual
		if habitAutoFlag {
			habitType = models.HabitAuto
		}
		habit := models.NewHabit(uuid.New().String(), args[0], habitType, time.Now())
		habit.ReminderTime = habitRemindAtFlag

		created, err := st.CreateHabit(*habit)
		if err != nil {
			return fmt.Errorf("failed to create habit: %w", err)
		}
		fmt.Printf("%s %s (%s)\n", ui.StyleSuccess.Render("Created"), created.Title, created.ID)
		return nil
	},
}

var habitDoneCmd = &cobra.Command{
	Use:   "done <habit-id>",
	Short: "Mark a habit complete for today",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleHabit(args[0], true)
	},
}

var habitSkipCmd = &cobra.Command{
	Use:   "skip <habit-id>",
	Short: "Mark a habit explicitly not-done for today",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleHabit(args[0], false)
	},
}

func toggleHabit(habitID string, complete bool) error {
	st, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	habit, err := st.GetHabit(habitID)
	if err != nil {
		return err
	}
	now := time.Now()
	day := now.Format(models.DateLayout)
	if complete {
		habit.MarkCompleted(day)
	} else {
		habit.MarkSkipped(day)
	}
	habit.UpdatedAt = now
	if _, err := st.PutHabit(habit); err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	if complete {
		fmt.Printf("%s %s\n", ui.StyleSuccess.Render("Completed"), habit.Title)
	} else {
		fmt.Printf("%s %s\n", ui.StyleWarning.Render("Skipped"), habit.Title)
	}
	return nil
}

var habitListCmd = &cobra.Command{
	Use:   "list",
	Short: "List habits with today's derived completion",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		habits, err := st.ListHabits()
		if err != nil {
			return fmt.Errorf("failed to list habits: %w", err)
		}
		tasks, err := st.ListTasks(nil, nil)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		now := time.Now()
		day := now.Format(models.DateLayout)
		anyDone := engine.AnyTaskDoneOn(tasks, now)
		for _, h := range habits {
			mark := ui.StyleSubtle.Render("[ ]")
			if h.CompletedOn(day, anyDone) {
				mark = ui.StyleSuccess.Render("[x]")
			}
			remind := ""
			if h.ReminderTime != "" {
				remind = " @" + h.ReminderTime
			}
			fmt.Printf("%s %s  %s%s\n", mark, ui.StyleSubtle.Render(h.ID[:8]), h.Title, remind)
		}
		return nil
	},
}

func init() {
	habitAddCmd.Flags().BoolVar(&habitAutoFlag, "auto", false, "derive completion from task activity")
	habitAddCmd.Flags().StringVar(&habitRemindAtFlag, "remind-at", "", "daily reminder time (HH:MM)")

	habitCmd.AddCommand(habitAddCmd, habitDoneCmd, habitSkipCmd, habitListCmd)
	rootCmd.AddCommand(habitCmd)
}
