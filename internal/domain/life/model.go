package life

import "math/rand/v2"

// Terminal reports whether the agent is dead: starved or past the age cap.
// The model does not enforce an absorbing self-loop; drivers must stop
// stepping once this is true.
func (c Config) Terminal(s State) bool {
	return s.Energy <= 0 || s.Age >= c.MaxAge
}

// CauseOf names the terminal condition for diagnostics. Starvation wins when
// both hold, matching the original run trace.
func (c Config) CauseOf(s State) DeathCause {
	switch {
	case s.Energy <= 0:
		return DeathCauseStarvation
	case s.Age >= c.MaxAge:
		return DeathCauseOldAge
	}
	return DeathCauseNone
}

// successor applies the deterministic part of a transition: the action
// effect (with the move applied only when moved is true), then metabolism,
// then aging. Food regrowth is left to the caller; the result may transiently
// have no food anywhere.
func (c Config) successor(s State, a Action, moved bool) State {
	next := s
	switch a.Kind {
	case ActionMove:
		if moved {
			next.X = clamp(s.X+a.DX, 1, c.GridN)
			next.Y = clamp(s.Y+a.DY, 1, c.GridN)
		}
		next.Energy -= c.MoveCost
	case ActionEat:
		if i := c.cornerIndex(s.X, s.Y); i >= 0 && s.FoodAt(c, s.X, s.Y) {
			next = next.withFoodIndex(i, false)
			next.Energy += c.FoodEnergy
		}
	case ActionReproduce:
		next.Age = 0
		next.Energy -= c.ReproduceCost
	case ActionLook:
		// No state change; only the observation carries information.
	default:
		panic("life: unknown action kind " + string(a.Kind))
	}

	next.Energy = clamp(next.Energy-c.MetabolismCost, 0, c.MaxEnergy)
	next.Age = clamp(next.Age+1, 0, c.MaxAge)
	return next
}

// Outcome is one successor state with its probability.
type Outcome struct {
	State State
	Prob  float64
}

// Outcomes expands the chance node of the fully observable variant: the
// single deterministic successor when food survives the transition, or one
// regrowth variant per corner, equally likely, when the last food was eaten.
// Probability mass is normalized over the actual candidate count.
func (c Config) Outcomes(s State, a Action) []Outcome {
	next := c.successor(s, a, true)
	if next.HasFood() {
		return []Outcome{{State: next, Prob: 1}}
	}
	corners := c.Corners()
	p := 1.0 / float64(len(corners))
	out := make([]Outcome, 0, len(corners))
	for i := range corners {
		out = append(out, Outcome{State: next.withFoodIndex(i, true), Prob: p})
	}
	return out
}

// StateReward is the fully observable variant's utility, a function of the
// pre-transition state only: a massive penalty for being dead, otherwise the
// current energy level, which rewards staying well-fed over acting at all.
func (c Config) StateReward(s State) float64 {
	if c.Terminal(s) {
		return -DeathPenalty
	}
	return float64(s.Energy)
}

// Observe builds the observation produced by taking a in s. It describes s
// itself: the agent's own fields are always seen exactly, and a look reveals
// the food flag of the targeted corner.
func (c Config) Observe(s State, a Action) Observation {
	o := Observation{X: s.X, Y: s.Y, Energy: s.Energy, Age: s.Age}
	if a.Kind == ActionLook {
		o.Looked = true
		o.LookX = a.LX
		o.LookY = a.LY
		o.FoodSeen = s.FoodAt(c, a.LX, a.LY)
	}
	return o
}

// Step samples the partially observable variant's generative model once:
// successor state, observation and reward for taking a in s. A move fails
// when a uniform draw in [0, age] exceeds OldAgeThreshold (old-age frailty;
// the move charge is paid regardless), and when the transition leaves no
// food anywhere a uniformly chosen corner regrows.
func (c Config) Step(s State, a Action, rng *rand.Rand) (State, Observation, float64) {
	moved := true
	if a.Kind == ActionMove {
		moved = rng.IntN(s.Age+1) <= c.OldAgeThreshold
	}

	obs := c.Observe(s, a)
	next := c.successor(s, a, moved)
	if !next.HasFood() {
		next = next.withFoodIndex(rng.IntN(4), true)
	}
	return next, obs, c.stepReward(s, a, next)
}

// stepReward is the partially observable variant's utility, evaluated on the
// post-transition state.
func (c Config) stepReward(s State, a Action, next State) float64 {
	if c.Terminal(next) {
		return -DeathPenalty
	}
	r := float64(AliveReward)
	switch a.Kind {
	case ActionMove:
		r -= MoveRewardPenalty
	case ActionReproduce:
		r += ReproduceRewardBonus
	case ActionEat:
		if s.FoodAt(c, s.X, s.Y) {
			r += EatRewardBonus
		} else {
			r -= EatRewardPenalty
		}
	case ActionLook:
		// No shaping for looking.
	}
	return r
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
