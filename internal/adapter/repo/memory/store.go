package memory

import (
	"context"
	"sync"

	"gridlife/internal/app/ports"
)

// Store backs the in-memory repositories. The TxManager takes the store lock
// for the duration of a transaction and marks the context; repository calls
// outside a transaction lock around each operation themselves.
type Store struct {
	mu       sync.Mutex
	episodes map[string]ports.EpisodeRecord
	steps    map[string][]ports.StepRecord
}

func NewStore() *Store {
	return &Store{
		episodes: make(map[string]ports.EpisodeRecord),
		steps:    make(map[string][]ports.StepRecord),
	}
}

type txKeyType struct{}

var txKey = txKeyType{}

func withTx(ctx context.Context) context.Context {
	return context.WithValue(ctx, txKey, true)
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey).(bool)
	return v
}

// lock acquires the store lock unless a running transaction already holds it.
func (s *Store) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// SeedEpisode installs an episode record directly, for tests.
func (s *Store) SeedEpisode(rec ports.EpisodeRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.episodes[rec.ID] = rec
}
