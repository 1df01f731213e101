package ports

import (
	"context"
	"time"

	"gridlife/internal/domain/life"
)

type EpisodeStatus string

const (
	EpisodeRunning  EpisodeStatus = "running"
	EpisodeFinished EpisodeStatus = "finished"
)

// EpisodeRecord is the persisted view of one simulation episode. The reward
// total is the driver-owned undiscounted running sum.
type EpisodeRecord struct {
	ID          string
	Variant     string
	Seed        int64
	Status      EpisodeStatus
	DeathCause  life.DeathCause
	StepCount   int
	RewardTotal float64
	State       life.State
	Version     int64
	UpdatedAt   time.Time
}

// StepRecord is one applied transition, kept for replay.
type StepRecord struct {
	EpisodeID   string
	Index       int
	Action      life.Action
	Observation *life.Observation
	Reward      float64
	StateAfter  life.State
	Terminal    bool
	OccurredAt  time.Time
}

type EpisodeRepository interface {
	GetByID(ctx context.Context, id string) (EpisodeRecord, error)
	// SaveWithVersion creates the record when expectedVersion is zero and
	// otherwise applies an optimistic-concurrency update.
	SaveWithVersion(ctx context.Context, rec EpisodeRecord, expectedVersion int64) error
}

type StepRepository interface {
	Append(ctx context.Context, steps []StepRecord) error
	ListByEpisodeID(ctx context.Context, episodeID string, limit int) ([]StepRecord, error)
}
