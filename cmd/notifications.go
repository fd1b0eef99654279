package cmd

import (
	"errors"
	"fmt"

	"github.com/josephgoksu/TaskPulse/internal/engine"
	"github.com/josephgoksu/TaskPulse/internal/session"
	"github.com/josephgoksu/TaskPulse/internal/ui"
	"github.com/josephgoksu/TaskPulse/models"
	"github.com/josephgoksu/TaskPulse/store"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

// deriveOnce runs a single derivation tick and returns the engine plus the
// current list. The first tick of a session never spawns toasts, so a
// discarding sink is safe here.
func deriveOnce(st store.Store, acks session.AckStore) (*engine.Engine, []models.Notification, error) {
	eng := engine.New(st, acks, GetNotificationSettings, engine.ToastSinkFunc(func(engine.Toast) {}), GetSnoozeOffset(), GetConfig().Actor)
	if err := eng.Tick(); err != nil {
		return nil, nil, fmt.Errorf("derivation failed: %w", err)
	}
	return eng, eng.Current(), nil
}

func withEngine(fn func(eng *engine.Engine, current []models.Notification, acks session.AckStore) error) error {
	st, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	acks, err := GetSession()
	if err != nil {
		return err
	}
	defer func() { _ = acks.Close() }()

	eng, current, err := deriveOnce(st, acks)
	if err != nil {
		return err
	}
	return fn(eng, current, acks)
}

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notify"},
	Short:   "Inspect and acknowledge the current notification list",
}

var notifyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the current notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(eng *engine.Engine, current []models.Notification, acks session.AckStore) error {
			if len(current) == 0 {
				fmt.Println(ui.StyleSubtle.Render("Nothing needs attention."))
				return nil
			}
			for _, n := range current {
				marker := ui.StyleUnread.Render("●")
				if isRead, _ := acks.IsRead(n.ID); isRead {
					marker = ui.StyleSubtle.Render("○")
				}
				fmt.Printf("%s %s — %s  %s\n", marker, ui.StyleTitle.Render(n.Title), n.Message, ui.StyleSubtle.Render(n.NotifyAt.Local().Format("Jan 2 15:04")))
			}
			return nil
		})
	},
}

var notifyReadCmd = &cobra.Command{
	Use:   "read <notification-id>",
	Short: "Mark one notification read (it stays listed)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(eng *engine.Engine, current []models.Notification, acks session.AckStore) error {
			return eng.MarkRead(args[0])
		})
	},
}

var notifyReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every current notification read",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(eng *engine.Engine, current []models.Notification, acks session.AckStore) error {
			return eng.MarkAllRead()
		})
	},
}

var notifyClearCmd = &cobra.Command{
	Use:   "clear <notification-id>",
	Short: "Hide one notification from all future derivations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(eng *engine.Engine, current []models.Notification, acks session.AckStore) error {
			return eng.Clear(args[0])
		})
	},
}

var notifyClearAllCmd = &cobra.Command{
	Use:   "clear-all",
	Short: "Hide every current notification",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(eng *engine.Engine, current []models.Notification, acks session.AckStore) error {
			return eng.ClearAll()
		})
	},
}

var notifySnoozeCmd = &cobra.Command{
	Use:   "snooze [notification-id]",
	Short: "Snooze a notification (reappears after the snooze offset)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(eng *engine.Engine, current []models.Notification, acks session.AckStore) error {
			var target models.Notification
			if len(args) == 1 {
				found := false
				for _, n := range current {
					if n.ID == args[0] {
						target = n
						found = true
						break
					}
				}
				if !found {
					// Snoozing a vanished notification is a no-op.
					return nil
				}
			} else {
				n, err := selectNotificationInteractive(current, "Snooze which notification")
				if err != nil {
					if errors.Is(err, ErrNoNotifications) {
						fmt.Println(ui.StyleSubtle.Render("Nothing to snooze."))
						return nil
					}
					return err
				}
				target = n
			}

			if err := eng.Snooze(target); err != nil {
				if errors.Is(err, engine.ErrHabitNotSnoozable) {
					return fmt.Errorf("habit reminders can't be snoozed; use 'taskpulse habit done' instead")
				}
				return err
			}
			fmt.Printf("%s %s\n", ui.StyleSuccess.Render("Snoozed"), target.Title)
			return nil
		})
	},
}

var notifyCompleteCmd = &cobra.Command{
	Use:   "complete [notification-id]",
	Short: "Mark a habit notification's habit complete for today",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(eng *engine.Engine, current []models.Notification, acks session.AckStore) error {
			var target models.Notification
			if len(args) == 1 {
				found := false
				for _, n := range current {
					if n.ID == args[0] {
						target = n
						found = true
						break
					}
				}
				if !found {
					return nil
				}
			} else {
				habitOnly := make([]models.Notification, 0, len(current))
				for _, n := range current {
					if models.IsHabitNotification(n.ID) {
						habitOnly = append(habitOnly, n)
					}
				}
				n, err := selectNotificationInteractive(habitOnly, "Complete which habit")
				if err != nil {
					if errors.Is(err, ErrNoNotifications) {
						fmt.Println(ui.StyleSubtle.Render("No habit reminders pending."))
						return nil
					}
					return err
				}
				target = n
			}

			if !models.IsHabitNotification(target.ID) {
				return fmt.Errorf("notification %s is not a habit reminder; use 'taskpulse done' for tasks", target.ID)
			}
			if err := eng.CompleteHabit(target); err != nil {
				return err
			}
			fmt.Printf("%s %s\n", ui.StyleSuccess.Render("Completed"), target.Title)
			return nil
		})
	},
}

// selectNotificationInteractive presents a prompt to pick a notification
// from the current list.
func selectNotificationInteractive(current []models.Notification, label string) (models.Notification, error) {
	if len(current) == 0 {
		return models.Notification{}, ErrNoNotifications
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   `> {{ .Title | cyan }} ({{ .Message }})`,
		Inactive: `  {{ .Title | faint }} ({{ .Message }})`,
		Selected: `{{ "✔" | green }} {{ .Title | faint }}`,
	}

	prompt := promptui.Select{
		Label:     label,
		Items:     current,
		Templates: templates,
		Size:      10,
	}

	i, _, err := prompt.Run()
	if err != nil {
		return models.Notification{}, fmt.Errorf("selection cancelled: %w", err)
	}
	return current[i], nil
}

func init() {
	notificationsCmd.AddCommand(notifyListCmd, notifyReadCmd, notifyReadAllCmd, notifyClearCmd, notifyClearAllCmd, notifySnoozeCmd, notifyCompleteCmd)
	rootCmd.AddCommand(notificationsCmd)
}
