package cmd

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/TaskPulse/internal/ui"
	"github.com/josephgoksu/TaskPulse/models"
	"github.com/spf13/cobra"
)

var activityProjectFlag bool

var activityCmd = &cobra.Command{
	Use:   "activity <id>",
	Short: "Show an entity's activity log",
	Long: `Prints the append-only activity log of a task, or of a project with
--project. Entries are shown newest first; the stored order is always
insertion order.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		var entries []models.ActivityEntry
		if activityProjectFlag {
			project, err := st.GetProject(args[0])
			if err != nil {
				return err
			}
			entries = project.Activity
		} else {
			task, err := st.GetTask(args[0])
			if err != nil {
				return err
			}
			entries = task.Activity
		}

		if len(entries) == 0 {
			fmt.Println(ui.StyleSubtle.Render("No activity."))
			return nil
		}
		// Display newest first; the log itself stays insertion-ordered.
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			fmt.Printf("%s  %s\n", ui.StyleSubtle.Render(e.Timestamp.Local().Format("Jan 2 15:04")), renderEntry(e))
		}
		return nil
	},
}

// renderEntry formats one entry. The switch is exhaustive over the closed
// variant set.
func renderEntry(e models.ActivityEntry) string {
	switch e.Type {
	case models.ActivityCreation:
		return fmt.Sprintf("created by %s", e.Actor)
	case models.ActivityStatusChange:
		if e.Count > 0 {
			return fmt.Sprintf("%d task(s) moved %s -> %s: %s", e.Count, e.From, e.To, strings.Join(e.AffectedTasks, ", "))
		}
		if e.TaskTitle != "" {
			return fmt.Sprintf("%q moved %s -> %s", e.TaskTitle, e.From, e.To)
		}
		return fmt.Sprintf("status %s -> %s", e.From, e.To)
	case models.ActivityPropertyChange:
		return fmt.Sprintf("%s changed: %s -> %s", e.Property, e.OldValue, e.NewValue)
	case models.ActivityNote:
		note := e.Text
		if e.AIGenerated {
			note += ui.StyleSubtle.Render(" (ai)")
		}
		return note
	case models.ActivityReminder:
		when := ""
		if e.NotifyAt != nil {
			when = e.NotifyAt.Local().Format("Jan 2 15:04")
		}
		return fmt.Sprintf("reminder at %s: %s", when, e.Message)
	case models.ActivityProjectLink:
		return fmt.Sprintf("task %q %s", e.TaskTitle, e.Action)
	default:
		return string(e.Type)
	}
}

func init() {
	activityCmd.Flags().BoolVar(&activityProjectFlag, "project", false, "show a project's log instead of a task's")
	rootCmd.AddCommand(activityCmd)
}
