package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aretw0/switchyard/internal/logging"
	"github.com/aretw0/switchyard/pkg/domain"
)

const tracerName = "github.com/aretw0/switchyard/internal/runtime"

// Pipeline runs creation actions strictly in order on one background goroutine.
// The first failure stops the run; effects of earlier actions are kept.
type Pipeline struct {
	actions []domain.PipelineAction
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	tracer  trace.Tracer
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithPipelineLogger configures the structured logger.
func WithPipelineLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithPipelineHooks registers observability callbacks.
func WithPipelineHooks(hooks domain.LifecycleHooks) PipelineOption {
	return func(p *Pipeline) {
		p.hooks = hooks
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) PipelineOption {
	return func(p *Pipeline) {
		p.tracer = t
	}
}

// NewPipeline validates the action list. Action ids must be unique.
func NewPipeline(actions []domain.PipelineAction, opts ...PipelineOption) (*Pipeline, error) {
	seen := make(map[string]struct{}, len(actions))
	for _, a := range actions {
		if _, dup := seen[a.ID()]; dup {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateAction, a.ID())
		}
		seen[a.ID()] = struct{}{}
	}

	p := &Pipeline{
		actions: append([]domain.PipelineAction(nil), actions...),
		logger:  logging.NewNop(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Actions returns the action ids in execution order.
func (p *Pipeline) Actions() []string {
	ids := make([]string, len(p.actions))
	for i, a := range p.actions {
		ids[i] = a.ID()
	}
	return ids
}

// Start runs the pipeline in the background. The returned channel yields exactly one
// value, nil on success or a *domain.ActionError, and is then closed.
func (p *Pipeline) Start(ctx context.Context, pc *domain.ProjectContext, sink domain.ProgressSink) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- p.run(ctx, pc, sink)
	}()
	return done
}

// Run executes the pipeline and waits for it.
func (p *Pipeline) Run(ctx context.Context, pc *domain.ProjectContext, sink domain.ProgressSink) error {
	return <-p.Start(ctx, pc, sink)
}

func (p *Pipeline) run(ctx context.Context, pc *domain.ProjectContext, sink domain.ProgressSink) error {
	if sink == nil {
		sink = domain.DiscardProgress
	}
	for i, a := range p.actions {
		id := a.ID()
		if err := ctx.Err(); err != nil {
			p.logger.Info("pipeline cancelled", "action_id", id, "index", i)
			return &domain.ActionError{ActionID: id, Err: err}
		}

		actx, span := p.tracer.Start(ctx, "action "+id, trace.WithAttributes(
			attribute.String("action.id", id),
			attribute.Int("action.index", i),
			attribute.String("project.dir", pc.ProjectDir),
		))
		p.emit(ctx, p.hooks.OnActionStart, domain.EventActionStart, id, 0, nil)
		p.logger.Debug("running action", "action_id", id, "index", i)

		started := time.Now()
		err := a.Run(actx, pc, sink)
		elapsed := time.Since(started)

		p.emit(ctx, p.hooks.OnActionFinish, domain.EventActionFinish, id, elapsed, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()
			p.logger.Error("action failed", "action_id", id, "duration", elapsed, "err", err)
			return wrapActionError(id, err)
		}
		span.End()
		p.logger.Debug("action finished", "action_id", id, "duration", elapsed)
	}
	return nil
}

// wrapActionError attaches the action id unless the action already did.
func wrapActionError(id string, err error) error {
	if ae, ok := err.(*domain.ActionError); ok {
		return ae
	}
	return &domain.ActionError{ActionID: id, Err: err}
}

func (p *Pipeline) emit(ctx context.Context, hook func(context.Context, *domain.ActionEvent), typ domain.EventType, id string, d time.Duration, err error) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.ActionEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: typ},
		ActionID:  id,
		Duration:  d,
		Err:       err,
	})
}
