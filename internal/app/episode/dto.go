package episode

import (
	"gridlife/internal/app/ports"
	"gridlife/internal/domain/life"
)

// Variant selects which planning engine drives an episode.
type Variant string

const (
	// VariantMDP runs fully observable with the exact value-iteration policy.
	VariantMDP Variant = "mdp"
	// VariantPOMDP runs partially observable with the online Monte-Carlo
	// planner over a particle belief.
	VariantPOMDP Variant = "pomdp"
)

type StartRequest struct {
	Variant Variant `json:"variant"`
	// Seed fixes the episode's random source; zero picks one from the clock.
	Seed int64 `json:"seed,omitempty"`
}

type StartResponse struct {
	Episode ports.EpisodeRecord `json:"episode"`
}

type StepRequest struct {
	EpisodeID string `json:"episode_id"`
}

type StepResponse struct {
	EpisodeID   string            `json:"episode_id"`
	Index       int               `json:"index"`
	Action      life.Action       `json:"action"`
	Observation *life.Observation `json:"observation,omitempty"`
	Reward      float64           `json:"reward"`
	State       life.State        `json:"state"`
	Terminal    bool              `json:"terminal"`
	DeathCause  life.DeathCause   `json:"death_cause,omitempty"`
	RewardTotal float64           `json:"reward_total"`
}

type RunRequest struct {
	EpisodeID string `json:"episode_id"`
	MaxSteps  int    `json:"max_steps"`
}

type RunResponse struct {
	Steps   []StepResponse      `json:"steps"`
	Episode ports.EpisodeRecord `json:"episode"`
}
