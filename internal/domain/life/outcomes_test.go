package life

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOutcomesDeterministicWhenFoodSurvives(t *testing.T) {
	cfg := MDPDefaults()
	s := State{FoodD: true, X: 2, Y: 2, Energy: 5, Age: 2}
	out := cfg.Outcomes(s, Action{Kind: ActionMove, DX: 1, DY: 1})
	if len(out) != 1 {
		t.Fatalf("len(Outcomes) = %d, want 1", len(out))
	}
	if out[0].Prob != 1 {
		t.Fatalf("Prob = %v, want 1", out[0].Prob)
	}
	want := State{FoodD: true, X: 3, Y: 3, Energy: 4, Age: 3}
	if diff := cmp.Diff(want, out[0].State); diff != "" {
		t.Fatalf("successor mismatch (-want +got):\n%s", diff)
	}
}

func TestOutcomesRegrowthFanout(t *testing.T) {
	cfg := MDPDefaults()
	// Eating the only food exhausts it; every regrowth corner is an equally
	// likely successor.
	s := State{FoodA: true, X: 1, Y: 1, Energy: 1, Age: 0}
	out := cfg.Outcomes(s, Action{Kind: ActionEat})
	if len(out) != 4 {
		t.Fatalf("len(Outcomes) = %d, want 4", len(out))
	}
	total := 0.0
	for i, o := range out {
		if o.Prob != 0.25 {
			t.Fatalf("outcome %d prob = %v, want 0.25", i, o.Prob)
		}
		total += o.Prob
		if n := countFood(o.State); n != 1 {
			t.Fatalf("outcome %d has %d food flags, want 1", i, n)
		}
		if o.State.X != 1 || o.State.Y != 1 || o.State.Energy != 10 || o.State.Age != 1 {
			t.Fatalf("outcome %d deterministic fields wrong: %+v", i, o.State)
		}
	}
	if total != 1 {
		t.Fatalf("probability mass = %v, want 1", total)
	}
}

func TestEnumerateStatesSize(t *testing.T) {
	cfg := MDPDefaults()
	states := EnumerateStates(cfg, false)
	want := 4 * cfg.GridN * cfg.GridN * (cfg.MaxEnergy + 1) * (cfg.MaxAge + 1)
	if len(states) != want {
		t.Fatalf("len(EnumerateStates) = %d, want %d", len(states), want)
	}

	withEmpty := EnumerateStates(cfg, true)
	wantEmpty := 5 * cfg.GridN * cfg.GridN * (cfg.MaxEnergy + 1) * (cfg.MaxAge + 1)
	if len(withEmpty) != wantEmpty {
		t.Fatalf("len(EnumerateStates, empty food) = %d, want %d", len(withEmpty), wantEmpty)
	}
}

func TestEnumerateStatesWellFormed(t *testing.T) {
	cfg := MDPDefaults()
	seen := make(map[State]struct{})
	foundInitial := false
	for _, s := range EnumerateStates(cfg, false) {
		if countFood(s) != 1 {
			t.Fatalf("enumerated state with %d food flags: %+v", countFood(s), s)
		}
		if s.X < 1 || s.X > cfg.GridN || s.Y < 1 || s.Y > cfg.GridN {
			t.Fatalf("enumerated state off grid: %+v", s)
		}
		if s.Energy < 0 || s.Energy > cfg.MaxEnergy || s.Age < 0 || s.Age > cfg.MaxAge {
			t.Fatalf("enumerated state out of vital range: %+v", s)
		}
		if _, dup := seen[s]; dup {
			t.Fatalf("duplicate enumerated state: %+v", s)
		}
		seen[s] = struct{}{}
		if s == InitialState() {
			foundInitial = true
		}
	}
	if !foundInitial {
		t.Fatalf("initial state missing from enumeration")
	}
}

func TestActionsOrder(t *testing.T) {
	cfg := POMDPDefaults()

	mdp := Actions(cfg, false)
	if len(mdp) != 10 {
		t.Fatalf("len(Actions, no look) = %d, want 10", len(mdp))
	}
	if mdp[0] != (Action{Kind: ActionMove, DX: 1, DY: 0}) {
		t.Fatalf("first action = %+v, want move +x", mdp[0])
	}
	if mdp[8].Kind != ActionEat || mdp[9].Kind != ActionReproduce {
		t.Fatalf("tail actions = %+v, %+v, want eat then reproduce", mdp[8], mdp[9])
	}

	pomdp := Actions(cfg, true)
	if len(pomdp) != 14 {
		t.Fatalf("len(Actions, with look) = %d, want 14", len(pomdp))
	}
	for i, p := range cfg.Corners() {
		a := pomdp[8+i]
		if a.Kind != ActionLook || a.LX != p.X || a.LY != p.Y {
			t.Fatalf("look action %d = %+v, want corner %v", i, a, p)
		}
	}
}
