// Package events defines the engine events emitted on the event bus.
//
// Available event types:
//   - ObservationRecorded: a fill-level observation was appended
//   - ScheduleComputed: a full collection schedule run finished
package events

import (
	"time"

	"github.com/ecotrack/binsight/core/model"
)

// ObservationRecorded is published after an observation passes boundary
// validation and is stored.
type ObservationRecorded struct {
	Observation model.Observation
}

// ScheduleComputed is published after every collection schedule run.
type ScheduleComputed struct {
	Schedule model.CollectionSchedule
	Duration time.Duration
}
