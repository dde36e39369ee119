// Package store holds the task collection and the current plan artifact.
// Tasks live in one flat slice with parent references; parent/child views
// are derived by filtering rather than embedded, which keeps cascade
// delete a single pass and makes cycles impossible by construction.
package store

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskpilot/pkg/models"
)

// Persister saves and restores store snapshots. Persistence is
// best-effort: write failures are reported to the caller's logger but
// never block a mutation.
type Persister interface {
	SaveTasks(tasks []models.Task) error
	LoadTasks() ([]models.Task, error)
	SavePlan(plan models.Plan) error
	LoadPlan() (*models.Plan, error)
	DeletePlan() error
}

// ErrorLogger receives persistence failures. zap's SugaredLogger
// satisfies it.
type ErrorLogger interface {
	Errorw(msg string, keysAndValues ...any)
}

// Store is the mutex-guarded task collection. Newest tasks come first,
// matching insertion order in the task list UI.
type Store struct {
	mu        sync.RWMutex
	tasks     []models.Task
	plan      *models.Plan
	persister Persister
	log       ErrorLogger
}

// New creates an empty store. persister and log may be nil.
func New(persister Persister, log ErrorLogger) *Store {
	return &Store{persister: persister, log: log}
}

// Load restores tasks and the plan artifact from the persister.
// A missing or unreadable snapshot leaves the store empty.
func (s *Store) Load() error {
	if s.persister == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.persister.LoadTasks()
	if err != nil {
		return err
	}
	s.tasks = tasks

	plan, err := s.persister.LoadPlan()
	if err != nil {
		return err
	}
	s.plan = plan
	return nil
}

// Add creates a root task from a user-entered title. Titles are trimmed;
// blank titles create nothing and return nil.
func (s *Store) Add(title string) *models.Task {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}

	task := models.Task{
		ID:        uuid.New().String(),
		Title:     title,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.tasks = append([]models.Task{task}, s.tasks...)
	s.persistTasksLocked()
	s.mu.Unlock()

	return &task
}

// AddSubtasks batch-creates AI-generated subtasks under parentID from
// extracted titles. Blank titles are filtered; all created records share
// one creation timestamp. Returns the created subtasks, which may be
// empty when every title was blank.
func (s *Store) AddSubtasks(parentID string, titles []string) []models.Task {
	now := time.Now()
	subtasks := make([]models.Task, 0, len(titles))
	for _, title := range titles {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		subtasks = append(subtasks, models.Task{
			ID:          uuid.New().String(),
			Title:       title,
			CreatedAt:   now,
			ParentID:    parentID,
			AIGenerated: true,
		})
	}
	if len(subtasks) == 0 {
		return nil
	}

	s.mu.Lock()
	s.tasks = append(append([]models.Task{}, subtasks...), s.tasks...)
	s.persistTasksLocked()
	s.mu.Unlock()

	return subtasks
}

// Get returns the task with the given id, or nil.
func (s *Store) Get(id string) *models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			task := s.tasks[i]
			return &task
		}
	}
	return nil
}

// Toggle flips the completed flag on one task. No other task is touched.
// Returns false when the id is unknown.
func (s *Store) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Completed = !s.tasks[i].Completed
			s.persistTasksLocked()
			return true
		}
	}
	return false
}

// Delete removes the task with the given id and, in the same pass, every
// task whose parent it was. Returns the number of removed records.
func (s *Store) Delete(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.tasks[:0]
	removed := 0
	for _, t := range s.tasks {
		if t.ID == id || t.ParentID == id {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	s.tasks = kept
	if removed > 0 {
		s.persistTasksLocked()
	}
	return removed
}

// List returns a copy of all tasks, newest first.
func (s *Store) List() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Roots returns all root tasks in order.
func (s *Store) Roots() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Task
	for _, t := range s.tasks {
		if t.IsRoot() {
			out = append(out, t)
		}
	}
	return out
}

// Subtasks returns the subtasks of the given parent in order.
func (s *Store) Subtasks(parentID string) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Task
	for _, t := range s.tasks {
		if t.ParentID == parentID {
			out = append(out, t)
		}
	}
	return out
}

// Pending returns all tasks not yet completed, roots and subtasks alike.
func (s *Store) Pending() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Task
	for _, t := range s.tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// Len returns the number of tasks in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// SetPlan replaces the plan artifact wholesale.
func (s *Store) SetPlan(text string) models.Plan {
	plan := models.Plan{Text: text, SavedAt: time.Now()}

	s.mu.Lock()
	s.plan = &plan
	if s.persister != nil {
		if err := s.persister.SavePlan(plan); err != nil {
			s.logError("persist plan", err)
		}
	}
	s.mu.Unlock()

	return plan
}

// Plan returns the current plan artifact, or nil when none is saved.
func (s *Store) Plan() *models.Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.plan == nil {
		return nil
	}
	plan := *s.plan
	return &plan
}

// ClearPlan removes the plan artifact.
func (s *Store) ClearPlan() {
	s.mu.Lock()
	s.plan = nil
	if s.persister != nil {
		if err := s.persister.DeletePlan(); err != nil {
			s.logError("clear plan", err)
		}
	}
	s.mu.Unlock()
}

// persistTasksLocked writes the task snapshot through to the persister.
// Callers must hold the write lock.
func (s *Store) persistTasksLocked() {
	if s.persister == nil {
		return
	}
	snapshot := make([]models.Task, len(s.tasks))
	copy(snapshot, s.tasks)
	if err := s.persister.SaveTasks(snapshot); err != nil {
		s.logError("persist tasks", err)
	}
}

func (s *Store) logError(msg string, err error) {
	if s.log != nil {
		s.log.Errorw(msg, "error", err)
	}
}
