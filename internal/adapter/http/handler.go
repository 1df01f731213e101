package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"gridlife/internal/app/episode"
	"gridlife/internal/app/ports"
	"gridlife/internal/app/replay"
	"gridlife/internal/app/status"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type Handler struct {
	EpisodeUC *episode.UseCase
	StatusUC  status.UseCase
	ReplayUC  replay.UseCase
	KPI       kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	sim := s.Group("/api/sim")
	sim.POST("/episodes", h.start)
	sim.POST("/episodes/:id/step", h.step)
	sim.POST("/episodes/:id/run", h.run)
	sim.GET("/episodes/:id", h.status)
	sim.GET("/episodes/:id/replay", h.replay)

	s.GET("/ops/kpi", h.kpi)
}

type startRequest struct {
	Variant string `json:"variant"`
	Seed    int64  `json:"seed,omitempty"`
}

type runRequest struct {
	MaxSteps int `json:"max_steps,omitempty"`
}

func (h Handler) start(c context.Context, ctx *app.RequestContext) {
	var body startRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.EpisodeUC.Start(c, episode.StartRequest{
		Variant: episode.Variant(body.Variant),
		Seed:    body.Seed,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) step(c context.Context, ctx *app.RequestContext) {
	resp, err := h.EpisodeUC.Step(c, episode.StepRequest{
		EpisodeID: string(ctx.Param("id")),
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) run(c context.Context, ctx *app.RequestContext) {
	var body runRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.EpisodeUC.Run(c, episode.RunRequest{
		EpisodeID: string(ctx.Param("id")),
		MaxSteps:  body.MaxSteps,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) status(c context.Context, ctx *app.RequestContext) {
	resp, err := h.StatusUC.Execute(c, status.Request{
		EpisodeID: string(ctx.Param("id")),
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) replay(c context.Context, ctx *app.RequestContext) {
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	resp, err := h.ReplayUC.Execute(c, replay.Request{
		EpisodeID: string(ctx.Param("id")),
		Limit:     limit,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, episode.ErrUnknownVariant):
		writeErrorBody(ctx, consts.StatusBadRequest, "unknown_variant", err.Error())
	case errors.Is(err, episode.ErrEpisodeOver):
		writeErrorBody(ctx, consts.StatusConflict, "episode_over", err.Error())
	case errors.Is(err, episode.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest),
		errors.Is(err, status.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
