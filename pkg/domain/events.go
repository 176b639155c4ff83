package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStepEnter    EventType = "step_enter"
	EventStepLeave    EventType = "step_leave"
	EventActionStart  EventType = "action_start"
	EventActionFinish EventType = "action_finish"
	EventFetchFailed  EventType = "fetch_failed"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// StepEvent represents entry or exit from a wizard step.
type StepEvent struct {
	EventBase
	StepID string `json:"step_id"`
	// Index is the 1-based position in the visit history.
	Index int `json:"index"`
}

// ActionEvent represents one pipeline action execution.
type ActionEvent struct {
	EventBase
	ActionID string        `json:"action_id"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// FetchEvent represents a background fetch that did not produce an update.
type FetchEvent struct {
	EventBase
	StepID string `json:"step_id"`
	Name   string `json:"name"`
	Err    error  `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnStepEnter    func(context.Context, *StepEvent)
	OnStepLeave    func(context.Context, *StepEvent)
	OnActionStart  func(context.Context, *ActionEvent)
	OnActionFinish func(context.Context, *ActionEvent)
	OnFetchFailed  func(context.Context, *FetchEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStepEnter:    chain(h.OnStepEnter, other.OnStepEnter),
		OnStepLeave:    chain(h.OnStepLeave, other.OnStepLeave),
		OnActionStart:  chain(h.OnActionStart, other.OnActionStart),
		OnActionFinish: chain(h.OnActionFinish, other.OnActionFinish),
		OnFetchFailed:  chain(h.OnFetchFailed, other.OnFetchFailed),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
