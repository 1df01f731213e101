package valueiter

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gridlife/internal/domain/life"
)

func toyConfig() life.Config {
	return life.Config{
		GridN:          2,
		FoodEnergy:     3,
		MetabolismCost: 1,
		ReproduceCost:  1,
		MaxEnergy:      3,
		MaxAge:         3,
		Discount:       0.9,
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(life.Config{}, 1e-6, 100); !errors.Is(err, life.ErrInvalidConfig) {
		t.Fatalf("New with bad config = %v, want ErrInvalidConfig", err)
	}
	if _, err := New(toyConfig(), 0, 100); !errors.Is(err, ErrInvalidSolver) {
		t.Fatalf("New with zero tolerance = %v, want ErrInvalidSolver", err)
	}
	if _, err := New(toyConfig(), 1e-6, 0); !errors.Is(err, ErrInvalidSolver) {
		t.Fatalf("New with zero iterations = %v, want ErrInvalidSolver", err)
	}
}

func TestSolveToyGridConverges(t *testing.T) {
	cfg := toyConfig()
	solver, err := New(cfg, 1e-6, 1000)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res := solver.Solve()
	if !res.Converged {
		t.Fatalf("no convergence after %d sweeps, residual %v", res.Iterations, res.Residual)
	}
	if res.Residual >= 1e-6 {
		t.Fatalf("residual %v, want < 1e-6", res.Residual)
	}
	if want := len(life.EnumerateStates(cfg, false)); res.Policy.Len() != want {
		t.Fatalf("policy covers %d states, want %d", res.Policy.Len(), want)
	}
}

func TestSolveToyGridEatsWhenStarving(t *testing.T) {
	cfg := toyConfig()
	solver, err := New(cfg, 1e-6, 1000)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res := solver.Solve()

	// With one unit of energy left, any action other than eating at the food
	// cell starves the agent on the spot; the greedy policy has to eat.
	for _, s := range life.EnumerateStates(cfg, false) {
		if s.Energy != 1 || s.Age > 1 || !s.FoodAt(cfg, s.X, s.Y) {
			continue
		}
		a, ok := res.Policy.Action(s)
		if !ok {
			t.Fatalf("policy missing state %+v", s)
		}
		if a.Kind != life.ActionEat {
			t.Fatalf("policy at %+v = %+v, want eat", s, a)
		}
	}
}

func TestSolveReportsNonConvergence(t *testing.T) {
	solver, err := New(toyConfig(), 1e-6, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res := solver.Solve()
	if res.Converged {
		t.Fatalf("converged in 2 sweeps, expected best-effort result")
	}
	if res.Iterations != 2 {
		t.Fatalf("iterations = %d, want 2", res.Iterations)
	}
	if res.Policy.Len() == 0 {
		t.Fatalf("non-converged solve returned no policy")
	}
}

// TestSolveDefaultsEndToEnd pins the opening of a full simulation: starting
// nearly starved on top of food, the policy must eat first. Regrowth is
// resolved by always taking the first outcome (corner A), which keeps the
// trajectory deterministic.
func TestSolveDefaultsEndToEnd(t *testing.T) {
	cfg := life.MDPDefaults()
	solver, err := New(cfg, 1e-4, 120)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res := solver.Solve()

	stepFirst := func(s life.State, a life.Action) life.State {
		return cfg.Outcomes(s, a)[0].State
	}

	s0 := life.InitialState()
	a0, ok := res.Policy.Action(s0)
	if !ok {
		t.Fatalf("policy missing initial state")
	}
	if a0.Kind != life.ActionEat {
		t.Fatalf("first policy action = %+v, want eat", a0)
	}

	s1 := stepFirst(s0, a0)
	want1 := life.State{FoodA: true, X: 1, Y: 1, Energy: 10, Age: 1}
	if diff := cmp.Diff(want1, s1); diff != "" {
		t.Fatalf("state after step 1 mismatch (-want +got):\n%s", diff)
	}

	a1, ok := res.Policy.Action(s1)
	if !ok {
		t.Fatalf("policy missing state after step 1")
	}
	s2 := stepFirst(s1, a1)
	var want2 life.State
	switch a1.Kind {
	case life.ActionEat:
		want2 = life.State{FoodA: true, X: 1, Y: 1, Energy: 10, Age: 2}
	case life.ActionReproduce:
		want2 = life.State{FoodA: true, X: 1, Y: 1, Energy: 6, Age: 1}
	case life.ActionMove:
		want2 = life.State{
			FoodA: true,
			X:     clampInt(1+a1.DX, 1, cfg.GridN),
			Y:     clampInt(1+a1.DY, 1, cfg.GridN),
			Energy: 9,
			Age:    2,
		}
	default:
		t.Fatalf("unexpected action kind %q in fully observable policy", a1.Kind)
	}
	if diff := cmp.Diff(want2, s2); diff != "" {
		t.Fatalf("state after step 2 mismatch (-want +got):\n%s", diff)
	}

	// Ten policy-driven steps from the fixture start must not die early.
	s := life.InitialState()
	for i := 0; i < 10; i++ {
		if cfg.Terminal(s) {
			t.Fatalf("terminated at step %d in state %+v", i, s)
		}
		a, ok := res.Policy.Action(s)
		if !ok {
			t.Fatalf("policy missing state %+v at step %d", s, i)
		}
		s = stepFirst(s, a)
	}
	if cfg.Terminal(s) {
		t.Fatalf("terminated on the final fixture step: %+v", s)
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
