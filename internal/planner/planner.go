// Package planner frames time-aware day-planning requests and manages
// the plan artifact. The scheduling reasoning itself is delegated to the
// model; this layer only transmits accurate temporal context and passes
// the returned text through untouched.
package planner

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"taskpilot/internal/llm"
	"taskpilot/internal/store"
	"taskpilot/pkg/models"
)

// ErrPlanning is returned when a planning request is already running.
// Planning is mutually exclusive with itself.
var ErrPlanning = fmt.Errorf("a planning request is already in progress")

// ErrNoTasks is returned when the store has nothing to plan.
var ErrNoTasks = fmt.Errorf("no tasks to plan")

// Planner orchestrates the plan flow against the task store.
type Planner struct {
	generator llm.Generator
	store     *store.Store
	log       *zap.SugaredLogger

	sem chan struct{}
}

// New creates a Planner. log may be nil.
func New(generator llm.Generator, st *store.Store, log *zap.SugaredLogger) *Planner {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Planner{
		generator: generator,
		store:     st,
		log:       log,
		sem:       make(chan struct{}, 1),
	}
}

// PlanDay runs the full plan flow: enumerate pending tasks, send the
// temporally-grounded instruction, and replace the plan artifact
// wholesale with the model's text. On a model failure the artifact is
// replaced with the fixed placeholder instead, and the error is returned
// for the caller's logging.
func (p *Planner) PlanDay(ctx context.Context, req Request) (models.Plan, error) {
	if p.store.Len() == 0 {
		return models.Plan{}, ErrNoTasks
	}

	select {
	case p.sem <- struct{}{}:
	default:
		return models.Plan{}, ErrPlanning
	}
	defer func() { <-p.sem }()

	req.Tasks = p.store.List()
	prompt := BuildPrompt(req)

	text, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		p.log.Errorw("plan request failed", "error", err)
		return p.store.SetPlan(Placeholder), fmt.Errorf("generate plan: %w", err)
	}

	p.log.Infow("plan generated", "chars", len(text))
	return p.store.SetPlan(text), nil
}

// Planning reports whether a planning request is in flight.
func (p *Planner) Planning() bool {
	return len(p.sem) > 0
}
