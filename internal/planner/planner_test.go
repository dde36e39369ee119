package planner

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"taskpilot/internal/store"
)

type stubGenerator struct {
	text  string
	err   error
	block chan struct{}

	mu      sync.Mutex
	prompts []string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	if g.block != nil {
		<-g.block
	}
	return g.text, g.err
}

func TestPlanDay_ReplacesArtifactWholesale(t *testing.T) {
	st := store.New(nil, nil)
	st.Add("Write report")
	st.SetPlan("stale plan")

	gen := &stubGenerator{text: "# Today's Plan\n\n1. **Write report**"}
	p := New(gen, st, nil)

	plan, err := p.PlanDay(context.Background(), Request{TimeZone: "UTC"})
	if err != nil {
		t.Fatalf("PlanDay failed: %v", err)
	}
	if plan.Text != gen.text {
		t.Errorf("plan text = %q, want pass-through of model output", plan.Text)
	}
	if saved := st.Plan(); saved == nil || saved.Text != gen.text {
		t.Errorf("stored plan = %+v, want replaced artifact", saved)
	}
}

func TestPlanDay_FailureSetsPlaceholder(t *testing.T) {
	st := store.New(nil, nil)
	st.Add("Write report")

	gen := &stubGenerator{err: errors.New("provider down")}
	p := New(gen, st, nil)

	plan, err := p.PlanDay(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error for caller logging")
	}
	if plan.Text != Placeholder {
		t.Errorf("plan text = %q, want placeholder", plan.Text)
	}
	if saved := st.Plan(); saved == nil || saved.Text != Placeholder {
		t.Errorf("stored plan = %+v, want placeholder artifact", saved)
	}
}

func TestPlanDay_GatedOnHavingTasks(t *testing.T) {
	p := New(&stubGenerator{text: "plan"}, store.New(nil, nil), nil)

	if _, err := p.PlanDay(context.Background(), Request{}); !errors.Is(err, ErrNoTasks) {
		t.Errorf("err = %v, want ErrNoTasks", err)
	}
}

func TestPlanDay_SingleFlight(t *testing.T) {
	st := store.New(nil, nil)
	st.Add("Write report")

	gen := &stubGenerator{text: "plan", block: make(chan struct{})}
	p := New(gen, st, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.PlanDay(context.Background(), Request{})
	}()

	for !p.Planning() {
		time.Sleep(time.Millisecond)
	}

	if _, err := p.PlanDay(context.Background(), Request{}); !errors.Is(err, ErrPlanning) {
		t.Errorf("concurrent plan err = %v, want ErrPlanning", err)
	}

	close(gen.block)
	<-done

	if p.Planning() {
		t.Error("planning flag should clear after completion")
	}
}

func TestPlanDay_UsesStoreTasks(t *testing.T) {
	st := store.New(nil, nil)
	st.Add("Visible task")
	doneTask := st.Add("Hidden task")
	st.Toggle(doneTask.ID)

	gen := &stubGenerator{text: "plan"}
	p := New(gen, st, nil)

	if _, err := p.PlanDay(context.Background(), Request{}); err != nil {
		t.Fatalf("PlanDay failed: %v", err)
	}

	prompt := gen.prompts[0]
	if !strings.Contains(prompt, "Visible task") {
		t.Error("pending task missing from prompt")
	}
	if strings.Contains(prompt, "Hidden task") {
		t.Error("completed task leaked into prompt")
	}
}
