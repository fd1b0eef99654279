package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
	"github.com/josephgoksu/TaskPulse/models"
	yaml "gopkg.in/yaml.v3"
)

const (
	defaultDataFile   = "taskpulse.json"
	dataFileKey       = "dataFile"
	dataFileFormatKey = "dataFileFormat"
	defaultDataFormat = "json"
	formatJSON        = "json"
	formatYAML        = "yaml"
	formatTOML        = "toml"
	checksumSuffix    = ".checksum"
)

// Sentinel errors for missing records. Callers that treat a missing
// referent as a per-item no-op match on these.
var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrHabitNotFound   = errors.New("habit not found")
)

// document is the on-disk shape of the store: every entity collection in a
// single file, activity logs serialized in-line with their owners.
type document struct {
	Tasks    []models.Task    `json:"tasks" yaml:"tasks" toml:"tasks"`
	Projects []models.Project `json:"projects" yaml:"projects" toml:"projects"`
	Habits   []models.Habit   `json:"habits" yaml:"habits" toml:"habits"`
}

// FileStore implements the Store interface using a single file backend.
// It supports JSON, YAML, and TOML formats, guards the file with an
// advisory lock and verifies a SHA256 checksum sidecar on load.
type FileStore struct {
	filePath string
	format   string
	flk      *flock.Flock

	tasks    map[string]models.Task
	projects map[string]models.Project
	habits   map[string]models.Habit
	// creation order, for stable listing without timestamps ties
	taskOrder []string
}

// NewFileStore creates an uninitialized FileStore; Initialize must be
// called before use.
func NewFileStore() *FileStore {
	return &FileStore{
		tasks:    make(map[string]models.Task),
		projects: make(map[string]models.Project),
		habits:   make(map[string]models.Habit),
	}
}

// Initialize configures the FileStore. Recognized config keys: 'dataFile'
// (path to the data file) and 'dataFileFormat' (json, yaml or toml). It
// loads existing data if the file exists and establishes the file lock.
func (s *FileStore) Initialize(config map[string]string) error {
	if val, ok := config[dataFileKey]; ok && val != "" {
		s.filePath = val
	} else {
		s.filePath = defaultDataFile
	}

	if val, ok := config[dataFileFormatKey]; ok && val != "" {
		formatLower := strings.ToLower(val)
		switch formatLower {
		case formatJSON, formatYAML, formatTOML:
			s.format = formatLower
		default:
			return fmt.Errorf("unsupported dataFileFormat: %s. Supported formats are json, yaml, toml", val)
		}
	} else {
		s.format = defaultDataFormat
	}

	if s.filePath == defaultDataFile && s.format != formatJSON {
		ext := filepath.Ext(s.filePath)
		s.filePath = strings.TrimSuffix(s.filePath, ext) + "." + s.format
	}

	dir := filepath.Dir(s.filePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	s.flk = flock.New(s.filePath)
	locked, err := s.flk.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire initial lock for %s: %w", s.filePath, err)
	}
	if !locked {
		if err := s.flk.Lock(); err != nil {
			return fmt.Errorf("failed to acquire blocking initial lock for %s: %w", s.filePath, err)
		}
	}
	defer func() { _ = s.flk.Unlock() }()

	return s.loadInternal()
}

// calculateChecksum computes the SHA256 checksum of the given data.
func calculateChecksum(data []byte) string {
	hasher := sha256.New()
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}

// loadInternal reads the data file, verifies its checksum, and unmarshals.
// Assumes the file lock is held.
func (s *FileStore) loadInternal() error {
	checksumFilePath := s.filePath + checksumSuffix

	s.tasks = make(map[string]models.Task)
	s.projects = make(map[string]models.Project)
	s.habits = make(map[string]models.Habit)
	s.taskOrder = nil

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			_ = os.Remove(checksumFilePath)
			if f, createErr := os.OpenFile(s.filePath, os.O_CREATE|os.O_RDWR, 0o644); createErr != nil {
				return fmt.Errorf("failed to create data file %s: %w", s.filePath, createErr)
			} else {
				_ = f.Close()
			}
			_ = os.WriteFile(checksumFilePath, []byte(calculateChecksum([]byte{})), 0o644)
			return nil
		}
		return fmt.Errorf("failed to read data file %s: %w", s.filePath, err)
	}

	if _, err := os.Stat(checksumFilePath); err == nil {
		expectedChecksumBytes, readErr := os.ReadFile(checksumFilePath)
		if readErr != nil {
			return fmt.Errorf("failed to read checksum file %s: %w", checksumFilePath, readErr)
		}
		expectedChecksum := strings.TrimSpace(string(expectedChecksumBytes))
		actualChecksum := calculateChecksum(data)
		if actualChecksum != expectedChecksum {
			return fmt.Errorf("checksum mismatch for %s - expected %s, got %s - file is corrupt or tampered", s.filePath, expectedChecksum, actualChecksum)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("error checking checksum file %s: %w", checksumFilePath, err)
	}

	if len(data) == 0 {
		_ = os.WriteFile(checksumFilePath, []byte(calculateChecksum([]byte{})), 0o644)
		return nil
	}

	var doc document
	switch s.format {
	case formatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to unmarshal JSON from %s: %w", s.filePath, err)
		}
	case formatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to unmarshal YAML from %s: %w", s.filePath, err)
		}
	case formatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to unmarshal TOML from %s: %w", s.filePath, err)
		}
	default:
		return fmt.Errorf("unsupported data format for loading: %s", s.format)
	}

	for _, t := range doc.Tasks {
		s.tasks[t.ID] = t
		s.taskOrder = append(s.taskOrder, t.ID)
	}
	for _, p := range doc.Projects {
		s.projects[p.ID] = p
	}
	for _, h := range doc.Habits {
		s.habits[h.ID] = h
	}
	return nil
}

// saveInternal writes the document to file, then writes its checksum.
// Assumes the file lock is held.
func (s *FileStore) saveInternal() error {
	doc := document{
		Tasks:    make([]models.Task, 0, len(s.tasks)),
		Projects: make([]models.Project, 0, len(s.projects)),
		Habits:   make([]models.Habit, 0, len(s.habits)),
	}
	for _, id := range s.taskOrder {
		if t, ok := s.tasks[id]; ok {
			doc.Tasks = append(doc.Tasks, t)
		}
	}
	for _, p := range s.projects {
		doc.Projects = append(doc.Projects, p)
	}
	sort.Slice(doc.Projects, func(i, j int) bool { return doc.Projects[i].CreatedAt.Before(doc.Projects[j].CreatedAt) })
	for _, h := range s.habits {
		doc.Habits = append(doc.Habits, h)
	}
	sort.Slice(doc.Habits, func(i, j int) bool { return doc.Habits[i].CreatedAt.Before(doc.Habits[j].CreatedAt) })

	var marshaledData []byte
	var err error
	switch s.format {
	case formatJSON:
		marshaledData, err = json.MarshalIndent(doc, "", "  ")
	case formatYAML:
		marshaledData, err = yaml.Marshal(doc)
	case formatTOML:
		var buf strings.Builder
		err = toml.NewEncoder(&buf).Encode(doc)
		if err == nil {
			marshaledData = []byte(buf.String())
		}
	default:
		return fmt.Errorf("unsupported data format for saving: %s", s.format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal data to %s: %w", s.format, err)
	}

	if err := os.WriteFile(s.filePath, marshaledData, 0o644); err != nil {
		return fmt.Errorf("failed to write data file %s: %w", s.filePath, err)
	}
	checksumFilePath := s.filePath + checksumSuffix
	if err := os.WriteFile(checksumFilePath, []byte(calculateChecksum(marshaledData)), 0o644); err != nil {
		return fmt.Errorf("failed to write checksum file %s: %w", checksumFilePath, err)
	}
	return nil
}

// withLock runs fn under the exclusive file lock, reloading state first so
// changes from other processes are visible.
func (s *FileStore) withLock(fn func() error) error {
	if s.flk == nil {
		return fmt.Errorf("store not initialized")
	}
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock for %s: %w", s.filePath, err)
	}
	defer func() { _ = s.flk.Unlock() }()
	if err := s.loadInternal(); err != nil {
		return err
	}
	return fn()
}

// --- Tasks ---

// CreateTask adds a new task to the store.
func (s *FileStore) CreateTask(task models.Task) (models.Task, error) {
	if err := models.ValidateStruct(task); err != nil {
		return models.Task{}, fmt.Errorf("task validation failed: %w", err)
	}
	err := s.withLock(func() error {
		if _, exists := s.tasks[task.ID]; exists {
			return fmt.Errorf("task with ID %s already exists", task.ID)
		}
		s.tasks[task.ID] = task
		s.taskOrder = append(s.taskOrder, task.ID)
		return s.saveInternal()
	})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// GetTask retrieves a task by its unique identifier.
func (s *FileStore) GetTask(id string) (models.Task, error) {
	var out models.Task
	err := s.withLock(func() error {
		t, ok := s.tasks[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
		}
		out = t
		return nil
	})
	return out, err
}

// PutTask replaces an existing task wholesale, including its activity log.
func (s *FileStore) PutTask(task models.Task) (models.Task, error) {
	err := s.withLock(func() error {
		if _, ok := s.tasks[task.ID]; !ok {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, task.ID)
		}
		s.tasks[task.ID] = task
		return s.saveInternal()
	})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// DeleteTask removes a task; its activity log is discarded with it.
func (s *FileStore) DeleteTask(id string) error {
	return s.withLock(func() error {
		if _, ok := s.tasks[id]; !ok {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
		}
		delete(s.tasks, id)
		for i, tid := range s.taskOrder {
			if tid == id {
				s.taskOrder = append(s.taskOrder[:i], s.taskOrder[i+1:]...)
				break
			}
		}
		return s.saveInternal()
	})
}

// ListTasks retrieves tasks, optionally filtered and sorted.
func (s *FileStore) ListTasks(filterFn func(models.Task) bool, sortFn func([]models.Task) []models.Task) ([]models.Task, error) {
	var out []models.Task
	err := s.withLock(func() error {
		for _, id := range s.taskOrder {
			t, ok := s.tasks[id]
			if !ok {
				continue
			}
			if filterFn == nil || filterFn(t) {
				out = append(out, t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if sortFn != nil {
		out = sortFn(out)
	}
	return out, nil
}

// --- Projects ---

// CreateProject adds a new project to the store.
func (s *FileStore) CreateProject(project models.Project) (models.Project, error) {
	if err := models.ValidateStruct(project); err != nil {
		return models.Project{}, fmt.Errorf("project validation failed: %w", err)
	}
	err := s.withLock(func() error {
		if _, exists := s.projects[project.ID]; exists {
			return fmt.Errorf("project with ID %s already exists", project.ID)
		}
		s.projects[project.ID] = project
		return s.saveInternal()
	})
	if err != nil {
		return models.Project{}, err
	}
	return project, nil
}

// GetProject retrieves a project by ID.
func (s *FileStore) GetProject(id string) (models.Project, error) {
	var out models.Project
	err := s.withLock(func() error {
		p, ok := s.projects[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrProjectNotFound, id)
		}
		out = p
		return nil
	})
	return out, err
}

// PutProject replaces an existing project wholesale.
func (s *FileStore) PutProject(project models.Project) (models.Project, error) {
	err := s.withLock(func() error {
		if _, ok := s.projects[project.ID]; !ok {
			return fmt.Errorf("%w: %s", ErrProjectNotFound, project.ID)
		}
		s.projects[project.ID] = project
		return s.saveInternal()
	})
	if err != nil {
		return models.Project{}, err
	}
	return project, nil
}

// DeleteProject removes a project. Tasks pointing at it keep their
// ProjectID; resolution treats the dangling reference as "no project".
func (s *FileStore) DeleteProject(id string) error {
	return s.withLock(func() error {
		if _, ok := s.projects[id]; !ok {
			return fmt.Errorf("%w: %s", ErrProjectNotFound, id)
		}
		delete(s.projects, id)
		return s.saveInternal()
	})
}

// ListProjects returns all projects in creation order.
func (s *FileStore) ListProjects() ([]models.Project, error) {
	var out []models.Project
	err := s.withLock(func() error {
		for _, p := range s.projects {
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// --- Habits ---

// CreateHabit adds a new habit to the store.
func (s *FileStore) CreateHabit(habit models.Habit) (models.Habit, error) {
	if err := models.ValidateStruct(habit); err != nil {
		return models.Habit{}, fmt.Errorf("habit validation failed: %w", err)
	}
	if err := habit.ValidateReminderTime(); err != nil {
		return models.Habit{}, err
	}
	err := s.withLock(func() error {
		if _, exists := s.habits[habit.ID]; exists {
			return fmt.Errorf("habit with ID %s already exists", habit.ID)
		}
		s.habits[habit.ID] = habit
		return s.saveInternal()
	})
	if err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

// GetHabit retrieves a habit by ID.
func (s *FileStore) GetHabit(id string) (models.Habit, error) {
	var out models.Habit
	err := s.withLock(func() error {
		h, ok := s.habits[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrHabitNotFound, id)
		}
		out = h
		return nil
	})
	return out, err
}

// PutHabit replaces an existing habit wholesale.
func (s *FileStore) PutHabit(habit models.Habit) (models.Habit, error) {
	err := s.withLock(func() error {
		if _, ok := s.habits[habit.ID]; !ok {
			return fmt.Errorf("%w: %s", ErrHabitNotFound, habit.ID)
		}
		s.habits[habit.ID] = habit
		return s.saveInternal()
	})
	if err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

// DeleteHabit removes a habit.
func (s *FileStore) DeleteHabit(id string) error {
	return s.withLock(func() error {
		if _, ok := s.habits[id]; !ok {
			return fmt.Errorf("%w: %s", ErrHabitNotFound, id)
		}
		delete(s.habits, id)
		return s.saveInternal()
	})
}

// ListHabits returns all habits in creation order.
func (s *FileStore) ListHabits() ([]models.Habit, error) {
	var out []models.Habit
	err := s.withLock(func() error {
		for _, h := range s.habits {
			out = append(out, h)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// --- Maintenance ---

// Backup copies the current data file to destinationPath.
func (s *FileStore) Backup(destinationPath string) error {
	return s.withLock(func() error {
		data, err := os.ReadFile(s.filePath)
		if err != nil {
			return fmt.Errorf("failed to read data file for backup: %w", err)
		}
		if dir := filepath.Dir(destinationPath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create backup directory: %w", err)
			}
		}
		if err := os.WriteFile(destinationPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write backup file %s: %w", destinationPath, err)
		}
		return nil
	})
}

// FilePath returns the path of the backing data file.
func (s *FileStore) FilePath() string {
	return s.filePath
}

// Close releases the file lock.
func (s *FileStore) Close() error {
	if s.flk != nil {
		return s.flk.Unlock()
	}
	return nil
}
