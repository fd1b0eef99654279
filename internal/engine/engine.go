package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/josephgoksu/TaskPulse/internal/logger"
	"github.com/josephgoksu/TaskPulse/internal/session"
	"github.com/josephgoksu/TaskPulse/models"
	"github.com/josephgoksu/TaskPulse/store"
)

// Engine drives the derivation tick loop: snapshot the stores, derive
// candidates, dispatch toast deltas, publish the current list.
//
// Everything runs on the single goroutine inside Run; mutations issued from
// command handlers happen between ticks, so a tick never observes a
// half-applied mutation.
type Engine struct {
	store    store.Store
	acks     session.AckStore
	settings func() models.NotificationSettings
	disp     *Dispatcher
	snoozer  *Snoozer

	interval time.Duration
	now      func() time.Time

	// kick wakes the loop early, e.g. when the data file changed on disk.
	kick chan struct{}

	mu       sync.RWMutex
	current  []models.Notification
	onUpdate func([]models.Notification)
}

// Option configures an Engine.
type Option func(*Engine)

// WithInterval overrides the tick interval (default 5s).
func WithInterval(d time.Duration) Option {
	return func(e *Engine) { e.interval = d }
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithOnUpdate registers a callback invoked with the new current list after
// every tick.
func WithOnUpdate(fn func([]models.Notification)) Option {
	return func(e *Engine) { e.onUpdate = fn }
}

// New creates an engine. settings is re-read on every tick so toggles take
// effect without a restart. snoozeOffset is how far a snooze pushes the
// synthetic reminder into the future.
func New(st store.Store, acks session.AckStore, settings func() models.NotificationSettings, sink ToastSink, snoozeOffset time.Duration, actor string, opts ...Option) *Engine {
	e := &Engine{
		store:    st,
		acks:     acks,
		settings: settings,
		disp:     NewDispatcher(sink),
		snoozer:  NewSnoozer(st, acks, snoozeOffset, actor),
		interval: 5 * time.Second,
		now:      time.Now,
		kick:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// snapshot reads all collections in one pass.
func (e *Engine) snapshot() (Snapshot, error) {
	tasks, err := e.store.ListTasks(nil, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot tasks: %w", err)
	}
	projects, err := e.store.ListProjects()
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot projects: %w", err)
	}
	habits, err := e.store.ListHabits()
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot habits: %w", err)
	}
	return Snapshot{Tasks: tasks, Projects: projects, Habits: habits}, nil
}

// Tick runs one derivation + dispatch pass and publishes the result.
func (e *Engine) Tick() error {
	snap, err := e.snapshot()
	if err != nil {
		return err
	}
	cleared, err := e.acks.ClearedSet()
	if err != nil {
		return fmt.Errorf("load cleared set: %w", err)
	}
	read, err := e.acks.ReadSet()
	if err != nil {
		return fmt.Errorf("load read set: %w", err)
	}

	candidates := Derive(snap, e.settings(), cleared, e.now())
	current := e.disp.Dispatch(candidates, snap, read)

	e.mu.Lock()
	e.current = current
	e.mu.Unlock()

	if e.onUpdate != nil {
		e.onUpdate(current)
	}
	return nil
}

// safeTick runs Tick with panic recovery so one bad tick cannot kill the
// loop. Tick errors are reported once on stderr and the loop carries on.
func (e *Engine) safeTick() {
	defer logger.RecoverTick()
	if err := e.Tick(); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] notification tick failed: %v\n", err)
	}
}

// Run executes the tick loop: one eager tick, then one per interval, until
// the context is cancelled. Kick wakes it early.
func (e *Engine) Run(ctx context.Context) error {
	e.safeTick()

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.safeTick()
		case <-e.kick:
			e.safeTick()
		}
	}
}

// Kick requests an immediate re-derivation without waiting for the next
// interval. Non-blocking; coalesces with a pending kick.
func (e *Engine) Kick() {
	select {
	case e.kick <- struct{}{}:
	default:
	}
}

// Current returns the list published by the most recent tick.
func (e *Engine) Current() []models.Notification {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.Notification, len(e.current))
	copy(out, e.current)
	return out
}

// ToastDone forwards a presenter's dismissal signal to the dispatcher.
func (e *Engine) ToastDone(notificationID string) {
	e.disp.ToastDone(notificationID)
}

// MarkRead marks a single notification identity read.
func (e *Engine) MarkRead(id string) error {
	return e.acks.MarkRead(id)
}

// MarkAllRead marks every currently-held notification read.
func (e *Engine) MarkAllRead() error {
	ids := e.currentIDs()
	if len(ids) == 0 {
		return nil
	}
	return e.acks.MarkRead(ids...)
}

// Clear hides a single notification identity from all future derivations.
func (e *Engine) Clear(id string) error {
	return e.acks.Clear(id)
}

// ClearAll clears every currently-held notification. A candidate derived
// concurrently with the call may be missed; it converges on the next tick.
func (e *Engine) ClearAll() error {
	ids := e.currentIDs()
	if len(ids) == 0 {
		return nil
	}
	return e.acks.Clear(ids...)
}

func (e *Engine) currentIDs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]string, 0, len(e.current))
	for _, n := range e.current {
		ids = append(ids, n.ID)
	}
	return ids
}

// Snooze delegates to the snooze scheduler.
func (e *Engine) Snooze(n models.Notification) error {
	return e.snoozer.Snooze(n)
}

// CompleteHabit handles the "mark complete" action on a habit notification:
// it writes the completion date directly to the habit, so the next
// derivation drops the reminder. Missing habit is a no-op.
func (e *Engine) CompleteHabit(n models.Notification) error {
	if !models.IsHabitNotification(n.ID) {
		return fmt.Errorf("notification %s is not habit-sourced", n.ID)
	}
	habit, err := e.store.GetHabit(n.SourceID)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("resolve habit: %w", err)
	}
	now := e.now()
	habit.MarkCompleted(now.Format(models.DateLayout))
	habit.UpdatedAt = now
	if _, err := e.store.PutHabit(habit); err != nil {
		return fmt.Errorf("complete habit: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrTaskNotFound) || errors.Is(err, store.ErrHabitNotFound) || errors.Is(err, store.ErrProjectNotFound)
}
