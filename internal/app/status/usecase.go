package status

import (
	"context"
	"errors"
	"strings"
	"time"

	"gridlife/internal/app/ports"
	"gridlife/internal/domain/life"
)

var ErrInvalidRequest = errors.New("invalid status request")

type Request struct {
	EpisodeID string
}

type Response struct {
	EpisodeID   string              `json:"episode_id"`
	Variant     string              `json:"variant"`
	Status      ports.EpisodeStatus `json:"status"`
	DeathCause  life.DeathCause     `json:"death_cause,omitempty"`
	StepCount   int                 `json:"step_count"`
	RewardTotal float64             `json:"reward_total"`
	State       life.State          `json:"state"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type UseCase struct {
	Episodes ports.EpisodeRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.EpisodeID) == "" {
		return Response{}, ErrInvalidRequest
	}
	rec, err := u.Episodes.GetByID(ctx, req.EpisodeID)
	if err != nil {
		return Response{}, err
	}
	return Response{
		EpisodeID:   rec.ID,
		Variant:     rec.Variant,
		Status:      rec.Status,
		DeathCause:  rec.DeathCause,
		StepCount:   rec.StepCount,
		RewardTotal: rec.RewardTotal,
		State:       rec.State,
		UpdatedAt:   rec.UpdatedAt,
	}, nil
}
