package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/switchyard/pkg/domain"
)

// LogHooks writes every lifecycle event to logger. Step and action transitions are
// logged at Debug, failures at Warn.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step_enter", "step_id", e.StepID, "index", e.Index)
		},
		OnStepLeave: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step_leave", "step_id", e.StepID, "index", e.Index)
		},
		OnActionStart: func(ctx context.Context, e *domain.ActionEvent) {
			logger.DebugContext(ctx, "action_start", "action_id", e.ActionID)
		},
		OnActionFinish: func(ctx context.Context, e *domain.ActionEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "action_finish", "action_id", e.ActionID, "duration", e.Duration, "err", e.Err)
				return
			}
			logger.DebugContext(ctx, "action_finish", "action_id", e.ActionID, "duration", e.Duration)
		},
		OnFetchFailed: func(ctx context.Context, e *domain.FetchEvent) {
			logger.WarnContext(ctx, "fetch_failed", "step_id", e.StepID, "fetch", e.Name, "err", e.Err)
		},
	}
}
