// Package valueiter computes a stationary optimal policy for the fully
// observable life gridworld by dense tabular value iteration over the
// enumerated state space.
package valueiter

import (
	"errors"
	"fmt"
	"math"

	"gridlife/internal/domain/life"
)

var ErrInvalidSolver = errors.New("invalid solver settings")

type Solver struct {
	cfg           life.Config
	tolerance     float64
	maxIterations int
	states        []life.State
	actions       []life.Action
}

func New(cfg life.Config, tolerance float64, maxIterations int) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if tolerance <= 0 {
		return nil, fmt.Errorf("%w: tolerance %v, need > 0", ErrInvalidSolver, tolerance)
	}
	if maxIterations < 1 {
		return nil, fmt.Errorf("%w: max iterations %d, need at least 1", ErrInvalidSolver, maxIterations)
	}
	return &Solver{
		cfg:           cfg,
		tolerance:     tolerance,
		maxIterations: maxIterations,
		states:        life.EnumerateStates(cfg, false),
		actions:       life.Actions(cfg, false),
	}, nil
}

// Result is the solver output. A non-converged result still carries the
// best-effort policy; callers decide whether to warn.
type Result struct {
	Policy     Policy
	Values     map[life.State]float64
	Iterations int
	Residual   float64
	Converged  bool
}

// Solve sweeps the Bellman backup to a fixed point. Each sweep writes into a
// fresh table so no backup ever reads a partially updated sweep, and stops
// early once the residual drops below the tolerance.
func (s *Solver) Solve() Result {
	values := make(map[life.State]float64, len(s.states))
	for _, st := range s.states {
		values[st] = 0
	}

	iterations := 0
	residual := math.Inf(1)
	converged := false
	for iterations < s.maxIterations {
		iterations++
		next := make(map[life.State]float64, len(s.states))
		residual = 0
		for _, st := range s.states {
			best := math.Inf(-1)
			for _, a := range s.actions {
				if q := s.backup(st, a, values); q > best {
					best = q
				}
			}
			next[st] = best
			if d := math.Abs(best - values[st]); d > residual {
				residual = d
			}
		}
		values = next
		if residual < s.tolerance {
			converged = true
			break
		}
	}

	actions := make(map[life.State]life.Action, len(s.states))
	for _, st := range s.states {
		best := math.Inf(-1)
		bestAction := s.actions[0]
		for _, a := range s.actions {
			// Strict improvement keeps the first-enumerated action on ties.
			if q := s.backup(st, a, values); q > best {
				best = q
				bestAction = a
			}
		}
		actions[st] = bestAction
	}

	return Result{
		Policy:     Policy{actions: actions},
		Values:     values,
		Iterations: iterations,
		Residual:   residual,
		Converged:  converged,
	}
}

// backup is one Bellman Q backup: the chance node of a transition has at
// most a handful of successors, so the expectation sums over life.Outcomes,
// never over the whole state space.
func (s *Solver) backup(st life.State, a life.Action, values map[life.State]float64) float64 {
	q := s.cfg.StateReward(st)
	for _, o := range s.cfg.Outcomes(st, a) {
		q += s.cfg.Discount * o.Prob * values[o.State]
	}
	return q
}
