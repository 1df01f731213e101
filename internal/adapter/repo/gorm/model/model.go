package model

import "time"

// Episode is the persistence row for a single simulation episode.
type Episode struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Variant     string    `gorm:"column:variant"`
	Seed        int64     `gorm:"column:seed"`
	Status      string    `gorm:"column:status"`
	DeathCause  string    `gorm:"column:death_cause"`
	StepCount   int       `gorm:"column:step_count"`
	RewardTotal float64   `gorm:"column:reward_total"`
	State       []byte    `gorm:"column:state;type:jsonb"`
	Version     int64     `gorm:"column:version"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (Episode) TableName() string { return "episodes" }

// Step is one recorded transition of an episode.
type Step struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	EpisodeID   string    `gorm:"column:episode_id;index"`
	Idx         int       `gorm:"column:idx"`
	Action      []byte    `gorm:"column:action;type:jsonb"`
	Observation []byte    `gorm:"column:observation;type:jsonb"`
	Reward      float64   `gorm:"column:reward"`
	StateAfter  []byte    `gorm:"column:state_after;type:jsonb"`
	Terminal    bool      `gorm:"column:terminal"`
	OccurredAt  time.Time `gorm:"column:occurred_at"`
}

func (Step) TableName() string { return "steps" }
