package replay

import (
	"context"
	"errors"
	"strings"

	"gridlife/internal/app/ports"
)

var ErrInvalidRequest = errors.New("invalid replay request")

type Request struct {
	EpisodeID string
	Limit     int
}

type Response struct {
	Steps []ports.StepRecord `json:"steps"`
}

type UseCase struct {
	Steps ports.StepRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.EpisodeID) == "" {
		return Response{}, ErrInvalidRequest
	}
	steps, err := u.Steps.ListByEpisodeID(ctx, req.EpisodeID, req.Limit)
	if err != nil {
		return Response{}, err
	}
	return Response{Steps: steps}, nil
}
