package engine

import (
	"github.com/josephgoksu/TaskPulse/models"
)

// Toast is a transient pop-up request. Auto-dismissal is the presenter's
// concern; dismissing a toast never acknowledges the underlying
// notification.
type Toast struct {
	NotificationID string
	SourceID       string
	Title          string
	Message        string
	// Category is the source task's project name, or "Habit" for habit
	// reminders.
	Category string
}

// ToastSink consumes toast requests.
type ToastSink interface {
	Enqueue(Toast)
}

// ToastSinkFunc adapts a function to the ToastSink interface.
type ToastSinkFunc func(Toast)

// Enqueue calls f(t).
func (f ToastSinkFunc) Enqueue(t Toast) { f(t) }

const habitCategory = "Habit"

// Dispatcher turns derivation deltas into toasts. It remembers the
// previously-held notification list only to compute which identities are
// new, and suppresses toasts entirely on the first dispatch of a session so
// pre-existing overdue items don't burst onto the screen right after start.
type Dispatcher struct {
	sink      ToastSink
	heldIDs   map[string]struct{}
	firstLoad bool
	// pending tracks toasts handed to the sink and not yet dismissed, for
	// dedup across ticks.
	pending map[string]struct{}
}

// NewDispatcher creates a dispatcher in its first-load state.
func NewDispatcher(sink ToastSink) *Dispatcher {
	return &Dispatcher{
		sink:      sink,
		heldIDs:   make(map[string]struct{}),
		firstLoad: true,
		pending:   make(map[string]struct{}),
	}
}

// Dispatch takes the freshly derived candidate list, spawns toasts for
// identities that are new since the previous dispatch and not already read,
// and returns the candidates unchanged as the new current list.
func (d *Dispatcher) Dispatch(candidates []models.Notification, snap Snapshot, read map[string]struct{}) []models.Notification {
	if d.firstLoad {
		d.firstLoad = false
		d.remember(candidates)
		return candidates
	}

	for _, n := range candidates {
		if _, held := d.heldIDs[n.ID]; held {
			continue
		}
		if _, isRead := read[n.ID]; isRead {
			continue
		}
		if _, inFlight := d.pending[n.ID]; inFlight {
			continue
		}
		toast, ok := resolveToast(n, snap)
		if !ok {
			// Source vanished between derivation and resolution; drop
			// silently rather than surface an error.
			continue
		}
		d.pending[n.ID] = struct{}{}
		d.sink.Enqueue(toast)
	}

	d.remember(candidates)
	return candidates
}

// ToastDone tells the dispatcher a toast left the screen, by timeout or by
// user dismissal, making its identity eligible for a future toast again.
func (d *Dispatcher) ToastDone(notificationID string) {
	delete(d.pending, notificationID)
}

func (d *Dispatcher) remember(candidates []models.Notification) {
	d.heldIDs = make(map[string]struct{}, len(candidates))
	for _, n := range candidates {
		d.heldIDs[n.ID] = struct{}{}
	}
}

// resolveToast builds the display tuple for a notification: the source task
// plus its project name, or a synthetic habit descriptor. The second return
// is false when the source cannot be resolved in the snapshot.
func resolveToast(n models.Notification, snap Snapshot) (Toast, bool) {
	if models.IsHabitNotification(n.ID) {
		for _, h := range snap.Habits {
			if h.ID == n.SourceID {
				return Toast{
					NotificationID: n.ID,
					SourceID:       h.ID,
					Title:          h.Title,
					Message:        n.Message,
					Category:       habitCategory,
				}, true
			}
		}
		return Toast{}, false
	}

	for _, t := range snap.Tasks {
		if t.ID != n.SourceID {
			continue
		}
		category := "Inbox"
		if t.ProjectID != nil {
			for _, p := range snap.Projects {
				if p.ID == *t.ProjectID {
					category = p.Name
					break
				}
			}
		}
		return Toast{
			NotificationID: n.ID,
			SourceID:       t.ID,
			Title:          t.Title,
			Message:        n.Message,
			Category:       category,
		}, true
	}
	return Toast{}, false
}
