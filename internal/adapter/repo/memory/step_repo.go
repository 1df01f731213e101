package memory

import (
	"context"

	"gridlife/internal/app/ports"
)

type StepRepo struct {
	store *Store
}

func NewStepRepo(store *Store) StepRepo {
	return StepRepo{store: store}
}

func (r StepRepo) Append(ctx context.Context, steps []ports.StepRecord) error {
	defer r.store.lock(ctx)()
	for _, step := range steps {
		r.store.steps[step.EpisodeID] = append(r.store.steps[step.EpisodeID], step)
	}
	return nil
}

func (r StepRepo) ListByEpisodeID(ctx context.Context, episodeID string, limit int) ([]ports.StepRecord, error) {
	defer r.store.lock(ctx)()
	steps, ok := r.store.steps[episodeID]
	if !ok || len(steps) == 0 {
		return nil, ports.ErrNotFound
	}
	if limit > 0 && len(steps) > limit {
		steps = steps[:limit]
	}
	out := make([]ports.StepRecord, len(steps))
	copy(out, steps)
	return out, nil
}
