package memory

import (
	"context"

	"gridlife/internal/app/ports"
)

type EpisodeRepo struct {
	store *Store
}

func NewEpisodeRepo(store *Store) EpisodeRepo {
	return EpisodeRepo{store: store}
}

func (r EpisodeRepo) GetByID(ctx context.Context, id string) (ports.EpisodeRecord, error) {
	defer r.store.lock(ctx)()
	rec, ok := r.store.episodes[id]
	if !ok {
		return ports.EpisodeRecord{}, ports.ErrNotFound
	}
	return rec, nil
}

func (r EpisodeRepo) SaveWithVersion(ctx context.Context, rec ports.EpisodeRecord, expectedVersion int64) error {
	defer r.store.lock(ctx)()
	current, ok := r.store.episodes[rec.ID]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.store.episodes[rec.ID] = rec
		return nil
	}
	if expectedVersion == 0 || current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.store.episodes[rec.ID] = rec
	return nil
}
