package state

import (
	"path/filepath"
	"testing"
	"time"

	"taskpilot/pkg/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "taskpilot.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "taskpilot.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if db.Path() != path {
		t.Errorf("Path = %q, want %q", db.Path(), path)
	}
}

func TestTasksSnapshotRoundTrip(t *testing.T) {
	db := openTestDB(t)

	tasks := []models.Task{
		{
			ID:        "t1",
			Title:     "Write report",
			CreatedAt: time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:          "t2",
			Title:       "Outline sections",
			ParentID:    "t1",
			AIGenerated: true,
			CreatedAt:   time.Date(2026, 8, 31, 9, 5, 0, 0, time.UTC),
		},
	}

	if err := db.SaveTasks(tasks); err != nil {
		t.Fatalf("SaveTasks failed: %v", err)
	}

	loaded, err := db.LoadTasks()
	if err != nil {
		t.Fatalf("LoadTasks failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d tasks, want 2", len(loaded))
	}
	if loaded[1].ParentID != "t1" || !loaded[1].AIGenerated {
		t.Errorf("subtask fields lost in round trip: %+v", loaded[1])
	}
}

func TestLoadTasks_MissingSnapshot(t *testing.T) {
	db := openTestDB(t)

	tasks, err := db.LoadTasks()
	if err != nil {
		t.Fatalf("LoadTasks failed: %v", err)
	}
	if tasks != nil {
		t.Errorf("missing snapshot should yield nil, got %v", tasks)
	}
}

func TestSaveTasks_OverwritesSnapshot(t *testing.T) {
	db := openTestDB(t)

	if err := db.SaveTasks([]models.Task{{ID: "a", Title: "old"}}); err != nil {
		t.Fatalf("SaveTasks failed: %v", err)
	}
	if err := db.SaveTasks([]models.Task{{ID: "b", Title: "new"}}); err != nil {
		t.Fatalf("SaveTasks failed: %v", err)
	}

	loaded, err := db.LoadTasks()
	if err != nil {
		t.Fatalf("LoadTasks failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != "b" {
		t.Errorf("snapshot should be replaced wholesale, got %v", loaded)
	}
}

func TestPlanSnapshotLifecycle(t *testing.T) {
	db := openTestDB(t)

	plan, err := db.LoadPlan()
	if err != nil {
		t.Fatalf("LoadPlan failed: %v", err)
	}
	if plan != nil {
		t.Fatalf("fresh db should have no plan, got %+v", plan)
	}

	saved := models.Plan{Text: "# Today's Plan", SavedAt: time.Now().UTC().Truncate(time.Second)}
	if err := db.SavePlan(saved); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	plan, err = db.LoadPlan()
	if err != nil {
		t.Fatalf("LoadPlan failed: %v", err)
	}
	if plan == nil || plan.Text != saved.Text {
		t.Errorf("LoadPlan = %+v, want text %q", plan, saved.Text)
	}

	if err := db.DeletePlan(); err != nil {
		t.Fatalf("DeletePlan failed: %v", err)
	}
	plan, err = db.LoadPlan()
	if err != nil {
		t.Fatalf("LoadPlan failed: %v", err)
	}
	if plan != nil {
		t.Errorf("plan should be gone after delete, got %+v", plan)
	}
}
