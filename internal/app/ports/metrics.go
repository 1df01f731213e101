package ports

import "gridlife/internal/domain/life"

type EpisodeMetrics interface {
	RecordStep(kind life.ActionKind)
	RecordCompleted(cause life.DeathCause)
	RecordConflict()
	RecordFailure()
}
