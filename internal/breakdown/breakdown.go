// Package breakdown turns a single task into AI-generated subtasks. It
// frames the prompt, hands the raw completion to the extraction
// pipeline, and applies the resulting batch to the store.
package breakdown

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"taskpilot/internal/extract"
	"taskpilot/internal/llm"
	"taskpilot/internal/store"
	"taskpilot/pkg/models"
)

// ErrInFlight is returned when a breakdown for the same task is already
// running. Breakdowns of different tasks may run concurrently.
var ErrInFlight = fmt.Errorf("breakdown already in flight for this task")

// Breaker orchestrates the breakdown flow against the task store.
type Breaker struct {
	generator llm.Generator
	store     *store.Store
	log       *zap.SugaredLogger

	mu       sync.Mutex
	inFlight map[string]bool
}

// New creates a Breaker. log may be nil.
func New(generator llm.Generator, st *store.Store, log *zap.SugaredLogger) *Breaker {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Breaker{
		generator: generator,
		store:     st,
		log:       log,
		inFlight:  make(map[string]bool),
	}
}

// Subtasks asks the model to decompose a title and extracts a bounded
// list of subtask titles. The model call is the only failure mode:
// unparseable output is absorbed by the pipeline and yields an empty
// list, which is a valid outcome, not an error.
func (b *Breaker) Subtasks(ctx context.Context, title string) ([]string, error) {
	prompt := fmt.Sprintf(breakdownPrompt, title)

	raw, err := b.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate subtasks: %w", err)
	}

	return extract.Subtasks(raw), nil
}

// Break runs the full breakdown flow for one stored task: model call,
// extraction, and a single batch insert of subtasks under the task. On
// any failure nothing is created. At most one breakdown per task id may
// be in flight at a time.
func (b *Breaker) Break(ctx context.Context, taskID string) ([]models.Task, error) {
	task := b.store.Get(taskID)
	if task == nil {
		return nil, fmt.Errorf("task %s not found", taskID)
	}
	if !task.IsRoot() {
		return nil, fmt.Errorf("task %s is a subtask; only root tasks can be broken down", taskID)
	}

	if !b.acquire(taskID) {
		return nil, ErrInFlight
	}
	defer b.release(taskID)

	titles, err := b.Subtasks(ctx, task.Title)
	if err != nil {
		b.log.Errorw("breakdown failed", "task", taskID, "error", err)
		return nil, err
	}

	subtasks := b.store.AddSubtasks(task.ID, titles)
	b.log.Infow("breakdown applied", "task", taskID, "subtasks", len(subtasks))
	return subtasks, nil
}

// Loading reports whether a breakdown is currently in flight for the
// given task id.
func (b *Breaker) Loading(taskID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inFlight[taskID]
}

func (b *Breaker) acquire(taskID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.inFlight[taskID] {
		return false
	}
	b.inFlight[taskID] = true
	return true
}

func (b *Breaker) release(taskID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.inFlight, taskID)
}
