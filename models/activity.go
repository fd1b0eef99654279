package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityType discriminates the closed set of activity entry variants.
// Consumers (renderers, aggregators) switch exhaustively on it; adding a
// variant means visiting every switch.
type ActivityType string

const (
	ActivityCreation       ActivityType = "creation"
	ActivityStatusChange   ActivityType = "status_change"
	ActivityPropertyChange ActivityType = "property_change"
	ActivityNote           ActivityType = "note"
	ActivityReminder       ActivityType = "reminder"
	ActivityProjectLink    ActivityType = "project_link"
)

// LinkAction is the direction of a project_link entry.
type LinkAction string

const (
	LinkAdded   LinkAction = "added"
	LinkRemoved LinkAction = "removed"
)

// ActivityEntry is one record of an entity's append-only audit log.
//
// It is a tagged union: Type selects which of the variant field groups is
// meaningful. Entries are immutable once written; they are deletable only as
// a whole record together with their owning entity. ID, Timestamp and Actor
// are set on every variant.
type ActivityEntry struct {
	ID        string       `json:"id" yaml:"id" toml:"id"`
	Type      ActivityType `json:"type" yaml:"type" toml:"type"`
	Timestamp time.Time    `json:"timestamp" yaml:"timestamp" toml:"timestamp"`
	Actor     string       `json:"actor" yaml:"actor" toml:"actor"`

	// status_change
	From          TaskStatus `json:"from,omitempty" yaml:"from,omitempty" toml:"from,omitempty"`
	To            TaskStatus `json:"to,omitempty" yaml:"to,omitempty" toml:"to,omitempty"`
	TaskTitle     string     `json:"taskTitle,omitempty" yaml:"taskTitle,omitempty" toml:"taskTitle,omitempty"`
	Count         int        `json:"count,omitempty" yaml:"count,omitempty" toml:"count,omitempty"`
	AffectedTasks []string   `json:"affectedTasks,omitempty" yaml:"affectedTasks,omitempty" toml:"affectedTasks,omitempty"`

	// property_change
	Property string `json:"property,omitempty" yaml:"property,omitempty" toml:"property,omitempty"`
	OldValue string `json:"oldValue,omitempty" yaml:"oldValue,omitempty" toml:"oldValue,omitempty"`
	NewValue string `json:"newValue,omitempty" yaml:"newValue,omitempty" toml:"newValue,omitempty"`

	// note
	Text        string `json:"text,omitempty" yaml:"text,omitempty" toml:"text,omitempty"`
	AIGenerated bool   `json:"aiGenerated,omitempty" yaml:"aiGenerated,omitempty" toml:"aiGenerated,omitempty"`

	// reminder
	NotifyAt *time.Time `json:"notifyAt,omitempty" yaml:"notifyAt,omitempty" toml:"notifyAt,omitempty"`
	Message  string     `json:"message,omitempty" yaml:"message,omitempty" toml:"message,omitempty"`

	// project_link
	Action LinkAction `json:"action,omitempty" yaml:"action,omitempty" toml:"action,omitempty"`
}

func newEntry(t ActivityType, actor string, at time.Time) ActivityEntry {
	return ActivityEntry{
		ID:        uuid.New().String(),
		Type:      t,
		Timestamp: at,
		Actor:     actor,
	}
}

// NewCreationEntry records the creation of a task or project.
func NewCreationEntry(actor string, at time.Time) ActivityEntry {
	return newEntry(ActivityCreation, actor, at)
}

// NewStatusChangeEntry records a single task's status transition. taskTitle
// is set when the entry lands on a project log, empty on the task itself.
func NewStatusChangeEntry(actor string, at time.Time, from, to TaskStatus, taskTitle string) ActivityEntry {
	e := newEntry(ActivityStatusChange, actor, at)
	e.From = from
	e.To = to
	e.TaskTitle = taskTitle
	return e
}

// NewBulkStatusChangeEntry records an aggregated status transition for a
// group of tasks sharing a project and prior status. Count always equals
// len(affectedTasks).
func NewBulkStatusChangeEntry(actor string, at time.Time, from, to TaskStatus, affectedTasks []string) ActivityEntry {
	e := newEntry(ActivityStatusChange, actor, at)
	e.From = from
	e.To = to
	e.Count = len(affectedTasks)
	e.AffectedTasks = affectedTasks
	return e
}

// NewPropertyChangeEntry records a property edit on a task.
func NewPropertyChangeEntry(actor string, at time.Time, property, oldValue, newValue string) ActivityEntry {
	e := newEntry(ActivityPropertyChange, actor, at)
	e.Property = property
	e.OldValue = oldValue
	e.NewValue = newValue
	return e
}

// NewNoteEntry records a free-form note.
func NewNoteEntry(actor string, at time.Time, text string, aiGenerated bool) ActivityEntry {
	e := newEntry(ActivityNote, actor, at)
	e.Text = text
	e.AIGenerated = aiGenerated
	return e
}

// NewReminderEntry records a future reminder. The entry's own ID doubles as
// the notification identity for the derived reminder, so it stays stable
// across derivation ticks.
func NewReminderEntry(actor string, at time.Time, notifyAt time.Time, message string) ActivityEntry {
	e := newEntry(ActivityReminder, actor, at)
	e.NotifyAt = &notifyAt
	e.Message = message
	return e
}

// NewProjectLinkEntry records a task being linked to or unlinked from a
// project. It is always written to the project's log, never the task's.
func NewProjectLinkEntry(actor string, at time.Time, action LinkAction, taskTitle string) ActivityEntry {
	e := newEntry(ActivityProjectLink, actor, at)
	e.Action = action
	e.TaskTitle = taskTitle
	return e
}
