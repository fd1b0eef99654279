// Package activity is the audit-log side of TaskPulse: every task/project
// mutation flows through the Recorder, which appends typed entries to the
// acting entity and, per the propagation rules, to a related entity.
// Entries are append-only; related-entity entries are written after the
// acting entity's, within the same logical operation.
package activity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/josephgoksu/TaskPulse/models"
	"github.com/josephgoksu/TaskPulse/store"
)

// Recorder applies mutations and enforces activity propagation.
type Recorder struct {
	store store.Store
	actor string
	now   func() time.Time
}

// NewRecorder creates a Recorder attributing entries to actor.
func NewRecorder(st store.Store, actor string) *Recorder {
	return &Recorder{
		store: st,
		actor: actor,
		now:   time.Now,
	}
}

// WithClock overrides the wall clock, for tests.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

// appendToProject appends entries to a project's log. A missing project
// degrades to a no-op: propagation never fails the originating mutation.
func (r *Recorder) appendToProject(projectID string, entries ...models.ActivityEntry) error {
	project, err := r.store.GetProject(projectID)
	if err != nil {
		if errors.Is(err, store.ErrProjectNotFound) {
			return nil
		}
		return fmt.Errorf("resolve project %s: %w", projectID, err)
	}
	project.Activity = append(project.Activity, entries...)
	project.UpdatedAt = r.now()
	if _, err := r.store.PutProject(project); err != nil {
		return fmt.Errorf("append project activity: %w", err)
	}
	return nil
}

// CreateTask creates a task, logs creation on it and, when it starts inside
// a project, project_link(added) on that project.
func (r *Recorder) CreateTask(title string, dueDate *time.Time, projectID *string) (models.Task, error) {
	now := r.now()
	task := models.NewTask(uuid.New().String(), title, now)
	task.DueDate = dueDate
	task.ProjectID = projectID
	task.Activity = append(task.Activity, models.NewCreationEntry(r.actor, now))

	created, err := r.store.CreateTask(*task)
	if err != nil {
		return models.Task{}, err
	}

	if projectID != nil {
		if err := r.appendToProject(*projectID, models.NewProjectLinkEntry(r.actor, now, models.LinkAdded, title)); err != nil {
			return created, err
		}
	}
	return created, nil
}

// ChangeStatus moves one task to a new status. The task gets a
// status_change entry; its project (when it has one — membership is never
// touched by this operation) gets a mirrored status_change carrying the
// task title.
func (r *Recorder) ChangeStatus(taskID string, to models.TaskStatus) (models.Task, error) {
	task, err := r.store.GetTask(taskID)
	if err != nil {
		return models.Task{}, err
	}
	from := task.Status
	if from == to {
		return task, nil
	}

	now := r.now()
	task.Status = to
	task.UpdatedAt = now
	task.Activity = append(task.Activity, models.NewStatusChangeEntry(r.actor, now, from, to, ""))

	updated, err := r.store.PutTask(task)
	if err != nil {
		return models.Task{}, err
	}

	if task.ProjectID != nil {
		if err := r.appendToProject(*task.ProjectID, models.NewStatusChangeEntry(r.actor, now, from, to, task.Title)); err != nil {
			return updated, err
		}
	}
	return updated, nil
}

// bulkGroupKey identifies one aggregation bucket of a bulk status change:
// tasks sharing a project and a prior status.
type bulkGroupKey struct {
	projectID  string
	fromStatus models.TaskStatus
}

// BulkChangeStatus moves every listed task to the new status. Each task gets
// its own status_change entry; each affected project gets one aggregated
// entry per (project, fromStatus) group, with Count == len(AffectedTasks).
// Unknown task ids are skipped, not errors. Returns the number of tasks
// actually changed.
func (r *Recorder) BulkChangeStatus(taskIDs []string, to models.TaskStatus) (int, error) {
	now := r.now()
	changed := 0
	groups := make(map[bulkGroupKey][]string)
	var groupOrder []bulkGroupKey

	for _, id := range taskIDs {
		task, err := r.store.GetTask(id)
		if err != nil {
			if errors.Is(err, store.ErrTaskNotFound) {
				continue
			}
			return changed, fmt.Errorf("resolve task %s: %w", id, err)
		}
		from := task.Status
		if from == to {
			continue
		}

		task.Status = to
		task.UpdatedAt = now
		task.Activity = append(task.Activity, models.NewStatusChangeEntry(r.actor, now, from, to, ""))
		if _, err := r.store.PutTask(task); err != nil {
			return changed, fmt.Errorf("update task %s: %w", id, err)
		}
		changed++

		if task.ProjectID != nil {
			key := bulkGroupKey{projectID: *task.ProjectID, fromStatus: from}
			if _, seen := groups[key]; !seen {
				groupOrder = append(groupOrder, key)
			}
			groups[key] = append(groups[key], task.Title)
		}
	}

	// Aggregated project entries land after all per-task entries.
	for _, key := range groupOrder {
		titles := groups[key]
		entry := models.NewBulkStatusChangeEntry(r.actor, now, key.fromStatus, to, titles)
		if err := r.appendToProject(key.projectID, entry); err != nil {
			return changed, err
		}
	}
	return changed, nil
}

// MoveToProject links a task to a new project (or unlinks it when
// projectID is nil). The task gets a property_change entry; the old project
// gets project_link(removed) and the new one project_link(added) — both,
// never a combined entry, and never a status_change for this update.
func (r *Recorder) MoveToProject(taskID string, projectID *string) (models.Task, error) {
	task, err := r.store.GetTask(taskID)
	if err != nil {
		return models.Task{}, err
	}

	oldID := task.ProjectID
	if equalID(oldID, projectID) {
		return task, nil
	}

	now := r.now()
	task.ProjectID = projectID
	task.UpdatedAt = now
	task.Activity = append(task.Activity, models.NewPropertyChangeEntry(
		r.actor, now, "project", r.projectLabel(oldID), r.projectLabel(projectID)))

	updated, err := r.store.PutTask(task)
	if err != nil {
		return models.Task{}, err
	}

	if oldID != nil {
		if err := r.appendToProject(*oldID, models.NewProjectLinkEntry(r.actor, now, models.LinkRemoved, task.Title)); err != nil {
			return updated, err
		}
	}
	if projectID != nil {
		if err := r.appendToProject(*projectID, models.NewProjectLinkEntry(r.actor, now, models.LinkAdded, task.Title)); err != nil {
			return updated, err
		}
	}
	return updated, nil
}

// DeleteTask removes a task, discarding its log, and leaves a final
// project_link(removed) on its project if it had one.
func (r *Recorder) DeleteTask(taskID string) error {
	task, err := r.store.GetTask(taskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil
		}
		return err
	}
	if err := r.store.DeleteTask(taskID); err != nil {
		return err
	}
	if task.ProjectID != nil {
		if err := r.appendToProject(*task.ProjectID, models.NewProjectLinkEntry(r.actor, r.now(), models.LinkRemoved, task.Title)); err != nil {
			return err
		}
	}
	return nil
}

// CreateProject creates a project with a creation entry. Later edits to
// name/description/color/icon are deliberately silent.
func (r *Recorder) CreateProject(name, description, color, icon string) (models.Project, error) {
	now := r.now()
	project := models.NewProject(uuid.New().String(), name, now)
	project.Description = description
	project.Color = color
	project.Icon = icon
	project.Activity = append(project.Activity, models.NewCreationEntry(r.actor, now))
	return r.store.CreateProject(*project)
}

// EditProject updates project presentation fields without logging.
func (r *Recorder) EditProject(projectID, name, description, color, icon string) (models.Project, error) {
	project, err := r.store.GetProject(projectID)
	if err != nil {
		return models.Project{}, err
	}
	if name != "" {
		project.Name = name
	}
	if description != "" {
		project.Description = description
	}
	if color != "" {
		project.Color = color
	}
	if icon != "" {
		project.Icon = icon
	}
	project.UpdatedAt = r.now()
	return r.store.PutProject(project)
}

// AddTaskNote appends a note entry to a task.
func (r *Recorder) AddTaskNote(taskID, text string, aiGenerated bool) (models.Task, error) {
	task, err := r.store.GetTask(taskID)
	if err != nil {
		return models.Task{}, err
	}
	now := r.now()
	task.Activity = append(task.Activity, models.NewNoteEntry(r.actor, now, text, aiGenerated))
	task.UpdatedAt = now
	return r.store.PutTask(task)
}

// AddProjectNote appends a note entry to a project.
func (r *Recorder) AddProjectNote(projectID, text string, aiGenerated bool) (models.Project, error) {
	project, err := r.store.GetProject(projectID)
	if err != nil {
		return models.Project{}, err
	}
	now := r.now()
	project.Activity = append(project.Activity, models.NewNoteEntry(r.actor, now, text, aiGenerated))
	project.UpdatedAt = now
	return r.store.PutProject(project)
}

// AddReminder appends a reminder entry to a task. The entry ID becomes the
// notification identity once notifyAt passes.
func (r *Recorder) AddReminder(taskID string, notifyAt time.Time, message string) (models.ActivityEntry, error) {
	task, err := r.store.GetTask(taskID)
	if err != nil {
		return models.ActivityEntry{}, err
	}
	now := r.now()
	entry := models.NewReminderEntry(r.actor, now, notifyAt, message)
	task.Activity = append(task.Activity, entry)
	task.UpdatedAt = now
	if _, err := r.store.PutTask(task); err != nil {
		return models.ActivityEntry{}, err
	}
	return entry, nil
}

// projectLabel resolves a project reference to its display name for
// property_change entries, falling back to the raw id, then "none".
func (r *Recorder) projectLabel(projectID *string) string {
	if projectID == nil {
		return "none"
	}
	project, err := r.store.GetProject(*projectID)
	if err != nil {
		return *projectID
	}
	return project.Name
}

func equalID(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
