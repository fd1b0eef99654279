package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// TaskStatus represents the possible statuses of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
)

// Task represents a unit of work.
//
// Activity is the task's append-only audit log. Entries are only ever
// appended; the slice order is insertion order and must be preserved by
// every store implementation. The log is discarded with the task on
// deletion.
type Task struct {
	ID        string          `json:"id" yaml:"id" toml:"id" validate:"required,uuid4"`
	Title     string          `json:"title" yaml:"title" toml:"title" validate:"required,min=1,max=255"`
	Status    TaskStatus      `json:"status" yaml:"status" toml:"status" validate:"required,oneof=pending in-progress done"`
	DueDate   *time.Time      `json:"dueDate,omitempty" yaml:"dueDate,omitempty" toml:"dueDate,omitempty"`
	ProjectID *string         `json:"projectId,omitempty" yaml:"projectId,omitempty" toml:"projectId,omitempty" validate:"omitempty,uuid4"`
	Activity  []ActivityEntry `json:"activity,omitempty" yaml:"activity,omitempty" toml:"activity,omitempty"`
	CreatedAt time.Time       `json:"createdAt" yaml:"createdAt" toml:"createdAt" validate:"required"`
	UpdatedAt time.Time       `json:"updatedAt" yaml:"updatedAt" toml:"updatedAt" validate:"required"`
}

// IsDone reports whether the task is in the terminal status. Done tasks
// never produce due-date or reminder notifications.
func (t *Task) IsDone() bool {
	return t.Status == StatusDone
}

// ReminderEntries returns the reminder activity entries of the task, in
// insertion order.
func (t *Task) ReminderEntries() []ActivityEntry {
	var out []ActivityEntry
	for _, e := range t.Activity {
		if e.Type == ActivityReminder {
			out = append(out, e)
		}
	}
	return out
}

// NewTask creates a task with default status and timestamps.
func NewTask(id, title string, now time.Time) *Task {
	return &Task{
		ID:        id,
		Title:     title,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	if validate == nil {
		// Safeguard for tests running in isolation.
		validate = validator.New()
	}
	err := validate.Struct(s)
	if err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, fmt.Sprintf("Validation failed on field '%s': rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
		}
		return fmt.Errorf("%s", strings.Join(errorMessages, "; "))
	}
	return nil
}
