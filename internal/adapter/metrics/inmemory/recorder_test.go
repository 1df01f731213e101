package inmemory

import (
	"testing"

	"gridlife/internal/domain/life"
)

func TestRecorder_Counters(t *testing.T) {
	r := NewRecorder()

	r.RecordStep(life.ActionMove)
	r.RecordStep(life.ActionMove)
	r.RecordStep(life.ActionEat)
	r.RecordCompleted(life.DeathCauseStarvation)
	r.RecordConflict()
	r.RecordFailure()
	r.RecordFailure()

	snap := r.Snapshot()
	if snap.StepTotal != 3 {
		t.Fatalf("StepTotal=%d want 3", snap.StepTotal)
	}
	if got := snap.StepsByAction[string(life.ActionMove)]; got != 2 {
		t.Fatalf("move steps=%d want 2", got)
	}
	if got := snap.StepsByAction[string(life.ActionEat)]; got != 1 {
		t.Fatalf("eat steps=%d want 1", got)
	}
	if snap.EpisodesFinished != 1 {
		t.Fatalf("EpisodesFinished=%d want 1", snap.EpisodesFinished)
	}
	if got := snap.FinishedByCause[string(life.DeathCauseStarvation)]; got != 1 {
		t.Fatalf("starvation finishes=%d want 1", got)
	}
	if snap.Conflicts != 1 || snap.Failures != 2 {
		t.Fatalf("conflicts=%d failures=%d want 1/2", snap.Conflicts, snap.Failures)
	}
}

func TestRecorder_SnapshotIsIsolated(t *testing.T) {
	r := NewRecorder()
	r.RecordStep(life.ActionEat)

	snap := r.Snapshot()
	snap.StepsByAction[string(life.ActionEat)] = 99

	if got := r.Snapshot().StepsByAction[string(life.ActionEat)]; got != 1 {
		t.Fatalf("snapshot mutation leaked into recorder: %d", got)
	}
}

func TestRecorder_SnapshotAny(t *testing.T) {
	r := NewRecorder()
	if _, ok := r.SnapshotAny().(Snapshot); !ok {
		t.Fatalf("SnapshotAny should return a Snapshot")
	}
}
