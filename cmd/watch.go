package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	appcfg "github.com/josephgoksu/TaskPulse/internal/config"
	"github.com/josephgoksu/TaskPulse/internal/engine"
	"github.com/josephgoksu/TaskPulse/internal/ui"
	"github.com/josephgoksu/TaskPulse/models"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the live notification feed",
	Long: `Keeps deriving notifications on an interval and pops a toast whenever a
new one appears. External edits to the data file trigger an immediate
re-derivation. Stop with Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var eng *engine.Engine
		presenter := newToastPresenter(appcfg.DefaultToastDuration, func(id string) {
			if eng != nil {
				eng.ToastDone(id)
			}
		})

		eng = engine.New(
			st, acks, GetNotificationSettings, presenter,
			GetSnoozeOffset(), GetConfig().Actor,
			engine.WithInterval(GetTickInterval()),
			engine.WithOnUpdate(func(current []models.Notification) {
				unread := 0
				for _, n := range current {
					if isRead, _ := acks.IsRead(n.ID); !isRead {
						unread++
					}
				}
				fmt.Printf("\r%s %d notification(s), %d unread   ",
					ui.StyleSubtle.Render(time.Now().Format("15:04:05")), len(current), unread)
			}),
		)

		// Re-derive immediately when another process touches the data file.
		watcher, err := fsnotify.NewWatcher()
		if err == nil {
			defer func() { _ = watcher.Close() }()
			if addErr := watcher.Add(GetDataFilePath()); addErr == nil {
				go func() {
					for {
						select {
						case <-ctx.Done():
							return
						case ev, ok := <-watcher.Events:
							if !ok {
								return
							}
							if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
								eng.Kick()
							}
						case _, ok := <-watcher.Errors:
							if !ok {
								return
							}
						}
					}
				}()
			} else if verbose {
				fmt.Fprintf(os.Stderr, "[WARN] cannot watch data file: %v\n", addErr)
			}
		} else if verbose {
			fmt.Fprintf(os.Stderr, "[WARN] fsnotify unavailable: %v\n", err)
		}

		fmt.Println(ui.StyleHeader.Render("TaskPulse watch") + ui.StyleSubtle.Render("  (Ctrl-C to stop)"))
		err = eng.Run(ctx)
		presenter.Stop()
		if err == context.Canceled {
			fmt.Println()
			return nil
		}
		return err
	},
}

// toastPresenter prints toasts and auto-dismisses them after a fixed
// delay. Dismissal only releases the dedup slot; it never acknowledges the
// underlying notification.
type toastPresenter struct {
	ttl    time.Duration
	onDone func(notificationID string)
	timers chan *time.Timer
}

func newToastPresenter(ttl time.Duration, onDone func(string)) *toastPresenter {
	return &toastPresenter{
		ttl:    ttl,
		onDone: onDone,
		timers: make(chan *time.Timer, 64),
	}
}

// Enqueue implements engine.ToastSink.
func (p *toastPresenter) Enqueue(t engine.Toast) {
	body := fmt.Sprintf("%s\n%s", ui.StyleTitle.Render(t.Title), t.Message)
	if t.Category != "" {
		body += ui.StyleSubtle.Render("  [" + t.Category + "]")
	}
	fmt.Println("\n" + ui.StyleToastBox.Render(body))

	id := t.NotificationID
	timer := time.AfterFunc(p.ttl, func() { p.onDone(id) })
	select {
	case p.timers <- timer:
	default:
		// Oldest timer slot full; let the timer fire on its own.
	}
}

// Stop cancels outstanding auto-dismiss timers.
func (p *toastPresenter) Stop() {
	for {
		select {
		case timer := <-p.timers:
			timer.Stop()
		default:
			return
		}
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
