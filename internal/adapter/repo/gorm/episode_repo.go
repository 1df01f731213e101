package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gridlife/internal/adapter/repo/gorm/model"
	"gridlife/internal/app/ports"
	"gridlife/internal/domain/life"

	"gorm.io/gorm"
)

type EpisodeRepo struct {
	db *gorm.DB
}

func NewEpisodeRepo(db *gorm.DB) EpisodeRepo {
	return EpisodeRepo{db: db}
}

func (r EpisodeRepo) GetByID(ctx context.Context, id string) (ports.EpisodeRecord, error) {
	var m model.Episode
	if err := getDBFromCtx(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.EpisodeRecord{}, ports.ErrNotFound
		}
		return ports.EpisodeRecord{}, err
	}

	var st life.State
	if err := json.Unmarshal(m.State, &st); err != nil {
		return ports.EpisodeRecord{}, fmt.Errorf("decode episode state: %w", err)
	}
	return ports.EpisodeRecord{
		ID:          m.ID,
		Variant:     m.Variant,
		Seed:        m.Seed,
		Status:      ports.EpisodeStatus(m.Status),
		DeathCause:  life.DeathCause(m.DeathCause),
		StepCount:   m.StepCount,
		RewardTotal: m.RewardTotal,
		State:       st,
		Version:     m.Version,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

func (r EpisodeRepo) SaveWithVersion(ctx context.Context, rec ports.EpisodeRecord, expectedVersion int64) error {
	db := getDBFromCtx(ctx, r.db)

	stateJSON, err := json.Marshal(rec.State)
	if err != nil {
		return fmt.Errorf("encode episode state: %w", err)
	}

	if expectedVersion == 0 {
		m := model.Episode{
			ID:          rec.ID,
			Variant:     rec.Variant,
			Seed:        rec.Seed,
			Status:      string(rec.Status),
			DeathCause:  string(rec.DeathCause),
			StepCount:   rec.StepCount,
			RewardTotal: rec.RewardTotal,
			State:       stateJSON,
			Version:     rec.Version,
			UpdatedAt:   rec.UpdatedAt,
		}
		if err := db.Create(&m).Error; err != nil {
			return err
		}
		return nil
	}

	updates := map[string]any{
		"status":       string(rec.Status),
		"death_cause":  string(rec.DeathCause),
		"step_count":   rec.StepCount,
		"reward_total": rec.RewardTotal,
		"state":        stateJSON,
		"version":      rec.Version,
		"updated_at":   rec.UpdatedAt,
	}

	res := db.Model(&model.Episode{}).
		Where("id = ? AND version = ?", rec.ID, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}
