package cmd

import (
	"fmt"
	"time"

	"github.com/josephgoksu/TaskPulse/internal/ui"
	"github.com/josephgoksu/TaskPulse/models"
	"github.com/spf13/cobra"
)

var (
	addDueFlag     string
	addProjectFlag string
	noteAIFlag     bool
	remindInFlag   time.Duration
)

// parseDueDate accepts either a date or a full timestamp.
func parseDueDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized due date %q (want YYYY-MM-DD or RFC3339)", s)
}

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		due, err := parseDueDate(addDueFlag)
		if err != nil {
			return err
		}
		var projectID *string
		if addProjectFlag != "" {
			projectID = &addProjectFlag
		}

		rec := GetRecorder(st)
		task, err := rec.CreateTask(args[0], due, projectID)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		fmt.Printf("%s %s (%s)\n", ui.StyleSuccess.Render("Created"), task.Title, task.ID)
		return nil
	},
}

var doneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Mark a task as done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeStatus(args[0], models.StatusDone)
	},
}

var startCmd = &cobra.Command{
	Use:   "start <task-id>",
	Short: "Mark a task as in progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeStatus(args[0], models.StatusInProgress)
	},
}

var reopenCmd = &cobra.Command{
	Use:   "reopen <task-id>",
	Short: "Move a task back to pending",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeStatus(args[0], models.StatusPending)
	},
}

func changeStatus(taskID string, to models.TaskStatus) error {
	st, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	rec := GetRecorder(st)
	task, err := rec.ChangeStatus(taskID, to)
	if err != nil {
		return fmt.Errorf("failed to change status: %w", err)
	}
	fmt.Printf("%s %s -> %s\n", ui.StyleSuccess.Render("Updated"), task.Title, task.Status)
	return nil
}

var bulkDoneCmd = &cobra.Command{
	Use:   "bulk-done <task-id>...",
	Short: "Mark several tasks as done in one operation",
	Long: `Marks every listed task done. Each task gets its own activity entry; each
affected project gets one aggregated entry per group of tasks that shared a
prior status.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		rec := GetRecorder(st)
		changed, err := rec.BulkChangeStatus(args, models.StatusDone)
		if err != nil {
			return fmt.Errorf("bulk status change failed: %w", err)
		}
		fmt.Printf("%s %d task(s) marked done\n", ui.StyleSuccess.Render("Updated"), changed)
		return nil
	},
}

var linkCmd = &cobra.Command{
	Use:   "link <task-id> <project-id>",
	Short: "Move a task into a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		rec := GetRecorder(st)
		projectID := args[1]
		task, err := rec.MoveToProject(args[0], &projectID)
		if err != nil {
			return fmt.Errorf("failed to link task: %w", err)
		}
		fmt.Printf("%s %s -> project %s\n", ui.StyleSuccess.Render("Linked"), task.Title, projectID)
		return nil
	},
}

var unlinkCmd = &cobra.Command{
	Use:   "unlink <task-id>",
	Short: "Remove a task from its project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		rec := GetRecorder(st)
		task, err := rec.MoveToProject(args[0], nil)
		if err != nil {
			return fmt.Errorf("failed to unlink task: %w", err)
		}
		fmt.Printf("%s %s\n", ui.StyleSuccess.Render("Unlinked"), task.Title)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <task-id>",
	Short: "Delete a task (its activity log is discarded)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		rec := GetRecorder(st)
		if err := rec.DeleteTask(args[0]); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		fmt.Printf("%s %s\n", ui.StyleSuccess.Render("Deleted"), args[0])
		return nil
	},
}

var noteCmd = &cobra.Command{
	Use:   "note <task-id> <text>",
	Short: "Append a note to a task's activity log",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		rec := GetRecorder(st)
		if _, err := rec.AddTaskNote(args[0], args[1], noteAIFlag); err != nil {
			return fmt.Errorf("failed to add note: %w", err)
		}
		fmt.Println(ui.StyleSuccess.Render("Note added"))
		return nil
	},
}

var remindCmd = &cobra.Command{
	Use:   "remind <task-id> <message>",
	Short: "Schedule a reminder on a task",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		rec := GetRecorder(st)
		entry, err := rec.AddReminder(args[0], time.Now().Add(remindInFlag), args[1])
		if err != nil {
			return fmt.Errorf("failed to add reminder: %w", err)
		}
		fmt.Printf("%s at %s (id %s)\n", ui.StyleSuccess.Render("Reminder set"), entry.NotifyAt.Local().Format("15:04"), entry.ID)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		tasks, err := st.ListTasks(nil, nil)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		if len(tasks) == 0 {
			fmt.Println(ui.StyleSubtle.Render("No tasks."))
			return nil
		}
		for _, t := range tasks {
			due := ""
			if t.DueDate != nil {
				due = " due " + t.DueDate.Local().Format("2006-01-02")
			}
			fmt.Printf("%s  %s [%s]%s\n", ui.StyleSubtle.Render(t.ID[:8]), ui.StyleTitle.Render(t.Title), t.Status, due)
		}
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addDueFlag, "due", "", "due date (YYYY-MM-DD or RFC3339)")
	addCmd.Flags().StringVar(&addProjectFlag, "project", "", "project id to link the task to")
	noteCmd.Flags().BoolVar(&noteAIFlag, "ai", false, "flag the note as AI-generated")
	remindCmd.Flags().DurationVar(&remindInFlag, "in", time.Hour, "how far from now the reminder fires")

	rootCmd.AddCommand(addCmd, doneCmd, startCmd, reopenCmd, bulkDoneCmd, linkCmd, unlinkCmd, deleteCmd, noteCmd, remindCmd, listCmd)
}
