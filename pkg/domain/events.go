package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart      EventType = "run_start"
	EventStageStart    EventType = "stage_start"
	EventStageComplete EventType = "stage_complete"
	EventRunComplete   EventType = "run_complete"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
}

// RunEvent marks the start or end of a pipeline run.
type RunEvent struct {
	EventBase
	Report *RunReport `json:"report,omitempty"` // set on run_complete
}

// StageEvent marks the start or end of a single stage.
type StageEvent struct {
	EventBase
	Stage      StageID     `json:"stage"`
	Invocation Invocation  `json:"invocation"`
	Result     StageResult `json:"result,omitempty"` // set on stage_complete
}

// LifecycleHooks defines callbacks for pipeline observability. Nil callbacks
// are skipped. Hooks run synchronously on the pipeline goroutine.
type LifecycleHooks struct {
	OnRunStart      func(context.Context, *RunEvent)
	OnStageStart    func(context.Context, *StageEvent)
	OnStageComplete func(context.Context, *StageEvent)
	OnRunComplete   func(context.Context, *RunEvent)
}
