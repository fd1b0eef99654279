package store

import "github.com/josephgoksu/TaskPulse/models"

// Store defines the persistence contract for tasks, projects and habits.
//
// Updates are total-replace: callers mutate a copy of the record (including
// appending activity entries) and put the whole record back. There is
// exactly one mutator per process, so implementations only need to guard
// against concurrent processes, not goroutines.
type Store interface {
	// Initialize configures the store with backend-specific settings such
	// as file path and data format. It must be called before any other
	// operation.
	Initialize(config map[string]string) error

	CreateTask(task models.Task) (models.Task, error)
	GetTask(id string) (models.Task, error)
	PutTask(task models.Task) (models.Task, error)
	DeleteTask(id string) error
	// ListTasks retrieves tasks, optionally filtered and sorted. A nil
	// filterFn returns all tasks; a nil sortFn returns creation order.
	ListTasks(filterFn func(models.Task) bool, sortFn func([]models.Task) []models.Task) ([]models.Task, error)

	CreateProject(project models.Project) (models.Project, error)
	GetProject(id string) (models.Project, error)
	PutProject(project models.Project) (models.Project, error)
	DeleteProject(id string) error
	ListProjects() ([]models.Project, error)

	CreateHabit(habit models.Habit) (models.Habit, error)
	GetHabit(id string) (models.Habit, error)
	PutHabit(habit models.Habit) (models.Habit, error)
	DeleteHabit(id string) error
	ListHabits() ([]models.Habit, error)

	// Backup writes a copy of the current data to destinationPath.
	Backup(destinationPath string) error

	// Close releases file locks and other resources.
	Close() error
}
