package inmemory

import (
	"sync"

	"gridlife/internal/domain/life"
)

type Snapshot struct {
	StepTotal        uint64            `json:"step_total"`
	StepsByAction    map[string]uint64 `json:"steps_by_action"`
	EpisodesFinished uint64            `json:"episodes_finished"`
	FinishedByCause  map[string]uint64 `json:"finished_by_cause"`
	Conflicts        uint64            `json:"conflicts"`
	Failures         uint64            `json:"failures"`
}

type Recorder struct {
	mu        sync.Mutex
	steps     uint64
	byAction  map[string]uint64
	finished  uint64
	byCause   map[string]uint64
	conflicts uint64
	failures  uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byAction: map[string]uint64{},
		byCause:  map[string]uint64{},
	}
}

func (r *Recorder) RecordStep(kind life.ActionKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps++
	r.byAction[string(kind)]++
}

func (r *Recorder) RecordCompleted(cause life.DeathCause) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished++
	r.byCause[string(cause)]++
}

func (r *Recorder) RecordConflict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflicts++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		StepTotal:        r.steps,
		StepsByAction:    make(map[string]uint64, len(r.byAction)),
		EpisodesFinished: r.finished,
		FinishedByCause:  make(map[string]uint64, len(r.byCause)),
		Conflicts:        r.conflicts,
		Failures:         r.failures,
	}
	for k, v := range r.byAction {
		out.StepsByAction[k] = v
	}
	for k, v := range r.byCause {
		out.FinishedByCause[k] = v
	}
	return out
}

// SnapshotAny satisfies the KPI snapshot provider of the HTTP layer.
func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
