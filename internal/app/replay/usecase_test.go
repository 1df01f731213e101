package replay

import (
	"context"
	"errors"
	"testing"
	"time"

	memoryrepo "gridlife/internal/adapter/repo/memory"
	"gridlife/internal/app/ports"
	"gridlife/internal/domain/life"
)

func TestExecute_RequiresEpisodeID(t *testing.T) {
	uc := UseCase{}
	if _, err := uc.Execute(context.Background(), Request{EpisodeID: "  "}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestExecute_ReturnsStepsInOrder(t *testing.T) {
	store := memoryrepo.NewStore()
	steps := memoryrepo.NewStepRepo(store)
	base := time.Unix(1000, 0)
	records := []ports.StepRecord{
		{EpisodeID: "ep-1", Index: 1, Action: life.Action{Kind: life.ActionEat}, Reward: 11, OccurredAt: base},
		{EpisodeID: "ep-1", Index: 2, Action: life.Action{Kind: life.ActionMove, DX: 1}, Reward: 0, OccurredAt: base.Add(time.Second)},
	}
	if err := steps.Append(context.Background(), records); err != nil {
		t.Fatalf("Append: %v", err)
	}

	uc := UseCase{Steps: steps}
	resp, err := uc.Execute(context.Background(), Request{EpisodeID: "ep-1"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(resp.Steps) != 2 {
		t.Fatalf("steps=%d want 2", len(resp.Steps))
	}
	if resp.Steps[0].Index != 1 || resp.Steps[1].Index != 2 {
		t.Fatalf("steps out of order: %+v", resp.Steps)
	}
}

func TestExecute_HonorsLimit(t *testing.T) {
	store := memoryrepo.NewStore()
	steps := memoryrepo.NewStepRepo(store)
	for i := 1; i <= 5; i++ {
		if err := steps.Append(context.Background(), []ports.StepRecord{
			{EpisodeID: "ep-1", Index: i, Action: life.Action{Kind: life.ActionEat}},
		}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	uc := UseCase{Steps: steps}
	resp, err := uc.Execute(context.Background(), Request{EpisodeID: "ep-1", Limit: 3})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(resp.Steps) != 3 {
		t.Fatalf("steps=%d want 3", len(resp.Steps))
	}
}

func TestExecute_UnknownEpisode(t *testing.T) {
	uc := UseCase{Steps: memoryrepo.NewStepRepo(memoryrepo.NewStore())}
	if _, err := uc.Execute(context.Background(), Request{EpisodeID: "missing"}); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
