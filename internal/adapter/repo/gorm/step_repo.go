package gormrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"gridlife/internal/adapter/repo/gorm/model"
	"gridlife/internal/app/ports"
	"gridlife/internal/domain/life"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StepRepo struct {
	db *gorm.DB
}

func NewStepRepo(db *gorm.DB) StepRepo {
	return StepRepo{db: db}
}

func (r StepRepo) Append(ctx context.Context, steps []ports.StepRecord) error {
	if len(steps) == 0 {
		return nil
	}
	rows := make([]model.Step, 0, len(steps))
	for _, s := range steps {
		actionJSON, err := json.Marshal(s.Action)
		if err != nil {
			return fmt.Errorf("encode step action: %w", err)
		}
		stateJSON, err := json.Marshal(s.StateAfter)
		if err != nil {
			return fmt.Errorf("encode step state: %w", err)
		}
		var obsJSON []byte
		if s.Observation != nil {
			obsJSON, err = json.Marshal(s.Observation)
			if err != nil {
				return fmt.Errorf("encode step observation: %w", err)
			}
		}
		rows = append(rows, model.Step{
			EpisodeID:   s.EpisodeID,
			Idx:         s.Index,
			Action:      actionJSON,
			Observation: obsJSON,
			Reward:      s.Reward,
			StateAfter:  stateJSON,
			Terminal:    s.Terminal,
			OccurredAt:  s.OccurredAt,
		})
	}
	return getDBFromCtx(ctx, r.db).Create(&rows).Error
}

func (r StepRepo) ListByEpisodeID(ctx context.Context, episodeID string, limit int) ([]ports.StepRecord, error) {
	rows := []model.Step{}
	query := getDBFromCtx(ctx, r.db).
		Where(&model.Step{EpisodeID: episodeID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "idx"}}},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ports.ErrNotFound
	}

	out := make([]ports.StepRecord, 0, len(rows))
	for _, row := range rows {
		var action life.Action
		if err := json.Unmarshal(row.Action, &action); err != nil {
			return nil, fmt.Errorf("decode step action: %w", err)
		}
		var state life.State
		if err := json.Unmarshal(row.StateAfter, &state); err != nil {
			return nil, fmt.Errorf("decode step state: %w", err)
		}
		var obs *life.Observation
		if len(row.Observation) > 0 {
			obs = new(life.Observation)
			if err := json.Unmarshal(row.Observation, obs); err != nil {
				return nil, fmt.Errorf("decode step observation: %w", err)
			}
		}
		out = append(out, ports.StepRecord{
			EpisodeID:   row.EpisodeID,
			Index:       row.Idx,
			Action:      action,
			Observation: obs,
			Reward:      row.Reward,
			StateAfter:  state,
			Terminal:    row.Terminal,
			OccurredAt:  row.OccurredAt,
		})
	}
	return out, nil
}
