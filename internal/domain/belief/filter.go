// Package belief maintains a particle approximation of the agent's
// posterior over hidden world state, conditioned on the action and
// observation history.
package belief

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gridlife/internal/domain/life"
)

var ErrInvalidFilter = errors.New("invalid filter settings")

// Belief is an unweighted particle cloud over states. It is owned by the
// filter that produced it; planners read it via Sample and never mutate it.
type Belief struct {
	particles []life.State
}

// FromParticles builds a belief from an explicit particle set.
func FromParticles(particles []life.State) *Belief {
	cloned := make([]life.State, len(particles))
	copy(cloned, particles)
	return &Belief{particles: cloned}
}

// Sample draws one state hypothesis uniformly.
func (b *Belief) Sample(rng *rand.Rand) life.State {
	return b.particles[rng.IntN(len(b.particles))]
}

// Len reports the particle count.
func (b *Belief) Len() int {
	return len(b.particles)
}

// Particles returns a copy of the particle set, for diagnostics and tests.
func (b *Belief) Particles() []life.State {
	out := make([]life.State, len(b.particles))
	copy(out, b.particles)
	return out
}

// Filter advances and resamples beliefs against the generative model.
type Filter struct {
	cfg       life.Config
	particles int
}

func NewFilter(cfg life.Config, particles int) (*Filter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if particles < 1 {
		return nil, fmt.Errorf("%w: particle count %d, need at least 1", ErrInvalidFilter, particles)
	}
	return &Filter{cfg: cfg, particles: particles}, nil
}

// Init builds the degenerate belief at a known start state.
func (f *Filter) Init(initial life.State) *Belief {
	particles := make([]life.State, f.particles)
	for i := range particles {
		particles[i] = initial
	}
	return &Belief{particles: particles}
}

// Update filters b through one real transition: particles inconsistent with
// the received observation are discarded, survivors are advanced through the
// generative model with independent randomness, and the cloud is resampled
// back to its fixed size. The observation describes the state the action was
// taken in, so consistency is checked against each particle before it moves.
func (f *Filter) Update(b *Belief, a life.Action, o life.Observation, rng *rand.Rand) *Belief {
	survivors := make([]life.State, 0, len(b.particles))
	for _, p := range b.particles {
		if f.consistent(p, o) {
			survivors = append(survivors, p)
		}
	}
	if len(survivors) == 0 {
		// Degenerate recovery: every hypothesis contradicted the evidence.
		// Rebuild from the fully observed fields; food placement is not
		// constrained by the model, so it is drawn uniformly over corners
		// that the observation does not rule out.
		survivors = f.reseed(o, rng)
	}

	advanced := make([]life.State, 0, len(survivors))
	for _, p := range survivors {
		next, _, _ := f.cfg.Step(p, a, rng)
		advanced = append(advanced, next)
	}

	resampled := make([]life.State, f.particles)
	for i := range resampled {
		resampled[i] = advanced[rng.IntN(len(advanced))]
	}
	return &Belief{particles: resampled}
}

// consistent reports whether a hypothesized pre-transition state could have
// produced the observation: the agent's own fields must match exactly, and a
// look must agree on the revealed food flag.
func (f *Filter) consistent(p life.State, o life.Observation) bool {
	if p.X != o.X || p.Y != o.Y || p.Energy != o.Energy || p.Age != o.Age {
		return false
	}
	if o.Looked && p.FoodAt(f.cfg, o.LookX, o.LookY) != o.FoodSeen {
		return false
	}
	return true
}

func (f *Filter) reseed(o life.Observation, rng *rand.Rand) []life.State {
	base := life.State{X: o.X, Y: o.Y, Energy: o.Energy, Age: o.Age}
	corners := f.cfg.Corners()

	candidates := make([]life.State, 0, len(corners))
	for i, c := range corners {
		if o.Looked && o.LookX == c.X && o.LookY == c.Y && !o.FoodSeen {
			continue
		}
		withFood := base
		switch i {
		case 0:
			withFood.FoodA = true
		case 1:
			withFood.FoodB = true
		case 2:
			withFood.FoodC = true
		case 3:
			withFood.FoodD = true
		}
		candidates = append(candidates, withFood)
	}
	if o.Looked && o.FoodSeen {
		// The look pinned the food down exactly.
		for _, c := range candidates {
			if c.FoodAt(f.cfg, o.LookX, o.LookY) {
				candidates = []life.State{c}
				break
			}
		}
	}

	out := make([]life.State, f.particles)
	for i := range out {
		out[i] = candidates[rng.IntN(len(candidates))]
	}
	return out
}
