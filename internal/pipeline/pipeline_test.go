package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nao1215/datecrawl/internal/model"
)

var may1 = model.NewDate(2024, time.May, 1)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, run *model.SeedRun) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, run *model.SeedRun) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, run)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

func testSeed(t *testing.T, pageURL string) model.Seed {
	t.Helper()
	seed, err := model.NewSeed(pageURL, model.NavigationPagination)
	if err != nil {
		t.Fatalf("NewSeed(%q) error = %v", pageURL, err)
	}
	return seed
}

// TestPipelineNew tests the Pipeline constructor.
func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default settings", func(t *testing.T) {
		t.Parallel()

		p := New()
		if p.StepCount() != 0 {
			t.Errorf("expected 0 steps, got %d", p.StepCount())
		}
		if p.logger == nil {
			t.Error("expected default logger")
		}
	})

	t.Run("nil logger keeps the default", func(t *testing.T) {
		t.Parallel()

		if p := New(WithLogger(nil)); p.logger == nil {
			t.Error("expected default logger")
		}
	})
}

// TestPipelineAddStep tests adding steps to the pipeline.
func TestPipelineAddStep(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddStep(&mockStep{name: "first"})
	p.AddSteps(&mockStep{name: "second"}, &mockStep{name: "third"})

	if p.StepCount() != 3 {
		t.Errorf("expected 3 steps, got %d", p.StepCount())
	}
	names := p.StepNames()
	want := []string{"first", "second", "third"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("StepNames()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

// TestPipelineExecute tests step execution and failure handling.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("runs steps in order and records them", func(t *testing.T) {
		t.Parallel()

		var order []string
		p := New()
		p.AddSteps(
			&mockStep{name: "navigate", doFunc: func(_ context.Context, run *model.SeedRun) error {
				order = append(order, "navigate")
				run.Outcome = model.OutcomeFound
				return nil
			}},
			&mockStep{name: "collect_links", doFunc: func(_ context.Context, run *model.SeedRun) error {
				order = append(order, "collect_links")
				run.Links = []string{"https://news.example.com/a"}
				return nil
			}},
		)

		run := model.NewSeedRun(testSeed(t, "https://news.example.com"), may1)
		if err := p.Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(order) != 2 || order[0] != "navigate" || order[1] != "collect_links" {
			t.Errorf("execution order = %v", order)
		}
		if len(run.PerformedSteps) != 2 {
			t.Errorf("PerformedSteps = %v", run.PerformedSteps)
		}
		if run.Failed() {
			t.Errorf("unexpected failure: %v", run.Err)
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		errStep := errors.New("navigation blew up")
		second := &mockStep{name: "collect_links"}
		p := New()
		p.AddSteps(
			&mockStep{name: "navigate", doFunc: func(context.Context, *model.SeedRun) error { return errStep }},
			second,
		)

		run := model.NewSeedRun(testSeed(t, "https://news.example.com"), may1)
		err := p.Execute(context.Background(), run)
		if !errors.Is(err, errStep) {
			t.Fatalf("expected step error, got %v", err)
		}
		if second.callCount != 0 {
			t.Error("second step should not run after a failure")
		}
		if !errors.Is(run.Err, errStep) || run.ErrorMessage() != errStep.Error() {
			t.Errorf("run.Err = %v", run.Err)
		}
		if len(run.PerformedSteps) != 0 {
			t.Errorf("PerformedSteps = %v, want none", run.PerformedSteps)
		}
	})

	t.Run("cancelled context stops before the next step", func(t *testing.T) {
		t.Parallel()

		step := &mockStep{name: "navigate"}
		p := New()
		p.AddStep(step)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		run := model.NewSeedRun(testSeed(t, "https://news.example.com"), may1)
		if err := p.Execute(ctx, run); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if step.callCount != 0 {
			t.Error("step should not run after cancellation")
		}
		if !errors.Is(run.Err, context.Canceled) {
			t.Errorf("run.Err = %v, want context.Canceled", run.Err)
		}
	})

	t.Run("cancellation inside a step skips the rest", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		second := &mockStep{name: "collect_links"}
		p := New()
		p.AddSteps(
			&mockStep{name: "navigate", doFunc: func(context.Context, *model.SeedRun) error {
				cancel()
				return nil
			}},
			second,
		)

		run := model.NewSeedRun(testSeed(t, "https://news.example.com"), may1)
		if err := p.Execute(ctx, run); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if second.callCount != 0 {
			t.Error("second step should not run after cancellation")
		}
		if len(run.PerformedSteps) != 1 || run.PerformedSteps[0] != "navigate" {
			t.Errorf("PerformedSteps = %v", run.PerformedSteps)
		}
	})
}
