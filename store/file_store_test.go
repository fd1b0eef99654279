package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/josephgoksu/TaskPulse/models"
)

var testNow = time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

func newStoreAt(t *testing.T, path, format string) *FileStore {
	t.Helper()
	st := NewFileStore()
	cfg := map[string]string{"dataFile": path}
	if format != "" {
		cfg["dataFileFormat"] = format
	}
	if err := st.Initialize(cfg); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	return st
}

func sampleTask(title string) models.Task {
	return *models.NewTask(uuid.New().String(), title, testNow)
}

func TestFileStoreTaskCRUD(t *testing.T) {
	st := newStoreAt(t, filepath.Join(t.TempDir(), "data.json"), "")
	defer func() { _ = st.Close() }()

	task := sampleTask("Pay rent")
	created, err := st.CreateTask(task)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID != task.ID {
		t.Errorf("unexpected id %s", created.ID)
	}

	if _, err := st.CreateTask(task); err == nil {
		t.Errorf("duplicate create must fail")
	}

	got, err := st.GetTask(task.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Title != "Pay rent" {
		t.Errorf("unexpected title %q", got.Title)
	}

	got.Title = "Pay rent (updated)"
	if _, err := st.PutTask(got); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	got, _ = st.GetTask(task.ID)
	if got.Title != "Pay rent (updated)" {
		t.Errorf("update not persisted")
	}

	if err := st.DeleteTask(task.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := st.GetTask(task.ID); err == nil {
		t.Errorf("expected missing after delete")
	}
	if err := st.DeleteTask(task.ID); err == nil {
		t.Errorf("deleting a missing task must error")
	}
}

func TestFileStoreActivityOrderSurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	st := newStoreAt(t, path, "")

	task := sampleTask("Audit me")
	task.Activity = append(task.Activity,
		models.NewCreationEntry("you", testNow),
		models.NewStatusChangeEntry("you", testNow.Add(time.Minute), models.StatusPending, models.StatusInProgress, ""),
		models.NewNoteEntry("you", testNow.Add(2*time.Minute), "halfway", false),
	)
	if _, err := st.CreateTask(task); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	reopened := newStoreAt(t, path, "")
	defer func() { _ = reopened.Close() }()
	got, err := reopened.GetTask(task.ID)
	if err != nil {
		t.Fatalf("get after reload failed: %v", err)
	}
	if len(got.Activity) != 3 {
		t.Fatalf("expected 3 activity entries, got %d", len(got.Activity))
	}
	wantTypes := []models.ActivityType{models.ActivityCreation, models.ActivityStatusChange, models.ActivityNote}
	for i, want := range wantTypes {
		if got.Activity[i].Type != want {
			t.Errorf("entry %d: expected %s, got %s", i, want, got.Activity[i].Type)
		}
	}
}

func TestFileStoreListTasksFilterAndOrder(t *testing.T) {
	st := newStoreAt(t, filepath.Join(t.TempDir(), "data.json"), "")
	defer func() { _ = st.Close() }()

	first := sampleTask("First")
	second := sampleTask("Second")
	second.Status = models.StatusDone
	third := sampleTask("Third")
	for _, task := range []models.Task{first, second, third} {
		if _, err := st.CreateTask(task); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	all, err := st.ListTasks(nil, nil)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(all))
	}
	if all[0].Title != "First" || all[2].Title != "Third" {
		t.Errorf("expected creation order, got %s .. %s", all[0].Title, all[2].Title)
	}

	open, err := st.ListTasks(func(task models.Task) bool { return !task.IsDone() }, nil)
	if err != nil {
		t.Fatalf("filtered list failed: %v", err)
	}
	if len(open) != 2 {
		t.Fatalf("expected 2 open tasks, got %d", len(open))
	}
}

func TestFileStoreChecksumMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	st := newStoreAt(t, path, "")
	if _, err := st.CreateTask(sampleTask("Honest data")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	tampered := append(data, []byte("\n")...)
	if err := os.WriteFile(path, tampered, 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	fresh := NewFileStore()
	if err := fresh.Initialize(map[string]string{"dataFile": path}); err == nil {
		_ = fresh.Close()
		t.Fatalf("expected checksum mismatch error")
	}
}

func TestFileStoreFormats(t *testing.T) {
	for _, format := range []string{"json", "yaml", "toml"} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data."+format)
			st := newStoreAt(t, path, format)

			habit := *models.NewHabit(uuid.New().String(), "Stretch", models.HabitManual, testNow)
			habit.ReminderTime = "09:00"
			if _, err := st.CreateHabit(habit); err != nil {
				t.Fatalf("create habit failed: %v", err)
			}
			project := *models.NewProject(uuid.New().String(), "Work", testNow)
			if _, err := st.CreateProject(project); err != nil {
				t.Fatalf("create project failed: %v", err)
			}
			if err := st.Close(); err != nil {
				t.Fatalf("close failed: %v", err)
			}

			reopened := newStoreAt(t, path, format)
			defer func() { _ = reopened.Close() }()
			habits, err := reopened.ListHabits()
			if err != nil {
				t.Fatalf("list habits failed: %v", err)
			}
			if len(habits) != 1 || habits[0].ReminderTime != "09:00" {
				t.Errorf("habit round trip failed: %+v", habits)
			}
			projects, err := reopened.ListProjects()
			if err != nil {
				t.Fatalf("list projects failed: %v", err)
			}
			if len(projects) != 1 || projects[0].Name != "Work" {
				t.Errorf("project round trip failed: %+v", projects)
			}
		})
	}
}

func TestFileStoreRejectsUnknownFormat(t *testing.T) {
	st := NewFileStore()
	err := st.Initialize(map[string]string{
		"dataFile":       filepath.Join(t.TempDir(), "data.xml"),
		"dataFileFormat": "xml",
	})
	if err == nil {
		_ = st.Close()
		t.Fatalf("expected an unsupported format error")
	}
}

func TestFileStoreValidationRejectsBadRecords(t *testing.T) {
	st := newStoreAt(t, filepath.Join(t.TempDir(), "data.json"), "")
	defer func() { _ = st.Close() }()

	bad := sampleTask("")
	if _, err := st.CreateTask(bad); err == nil {
		t.Errorf("empty title must fail validation")
	}

	habit := *models.NewHabit(uuid.New().String(), "Stretch", models.HabitManual, testNow)
	habit.ReminderTime = "9 o'clock"
	if _, err := st.CreateHabit(habit); err == nil {
		t.Errorf("malformed reminder time must fail validation")
	}
}

func TestFileStoreBackup(t *testing.T) {
	dir := t.TempDir()
	st := newStoreAt(t, filepath.Join(dir, "data.json"), "")
	defer func() { _ = st.Close() }()

	if _, err := st.CreateTask(sampleTask("Keep me safe")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	backupPath := filepath.Join(dir, "backups", "copy.json")
	if err := st.Backup(backupPath); err != nil {
		t.Fatalf("backup failed: %v", err)
	}
	info, err := os.Stat(backupPath)
	if err != nil {
		t.Fatalf("backup file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Errorf("backup file is empty")
	}
}
