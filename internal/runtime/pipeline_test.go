package runtime_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/switchyard/internal/runtime"
	"github.com/aretw0/switchyard/pkg/domain"
)

type recordingAction struct {
	id  string
	err error
	log *[]string
	run func(pc *domain.ProjectContext)
}

func (a recordingAction) ID() string             { return a.id }
func (a recordingAction) TranslationKey() string { return "action." + a.id }

func (a recordingAction) Run(_ context.Context, pc *domain.ProjectContext, sink domain.ProgressSink) error {
	*a.log = append(*a.log, a.id)
	sink.Info("running " + a.id)
	if a.run != nil {
		a.run(pc)
	}
	return a.err
}

type collectSink struct {
	mu   sync.Mutex
	msgs []string
}

func (c *collectSink) Info(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
}

func newContext() *domain.ProjectContext {
	return domain.NewProjectContext(domain.NewStore(), "/tmp/project")
}

func TestPipeline_RunsInOrder(t *testing.T) {
	var log []string
	counter := domain.NewKey[int]("counter")
	bump := func(pc *domain.ProjectContext) {
		domain.Set(pc.Data, counter, domain.GetOr(pc.Data, counter, 0)+1)
	}

	p, err := runtime.NewPipeline([]domain.PipelineAction{
		recordingAction{id: "one", log: &log, run: bump},
		recordingAction{id: "two", log: &log, run: bump},
		recordingAction{id: "three", log: &log, run: bump},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, p.Actions())

	pc := newContext()
	sink := &collectSink{}
	require.NoError(t, p.Run(context.Background(), pc, sink))

	assert.Equal(t, []string{"one", "two", "three"}, log)
	assert.Equal(t, []string{"running one", "running two", "running three"}, sink.msgs)
	assert.Equal(t, 3, domain.GetOr(pc.Data, counter, 0))
}

func TestPipeline_StopsAtFirstFailure(t *testing.T) {
	var log []string
	boom := errors.New("disk full")
	marker := domain.NewKey[bool]("first_done")

	p, err := runtime.NewPipeline([]domain.PipelineAction{
		recordingAction{id: "first", log: &log, run: func(pc *domain.ProjectContext) { domain.Set(pc.Data, marker, true) }},
		recordingAction{id: "second", log: &log, err: boom},
		recordingAction{id: "third", log: &log},
	})
	require.NoError(t, err)

	pc := newContext()
	err = <-p.Start(context.Background(), pc, nil)
	require.Error(t, err)

	var ae *domain.ActionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "second", ae.ActionID)
	assert.Same(t, boom, ae.Err)
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, []string{"first", "second"}, log)
	// No rollback of earlier effects.
	assert.True(t, domain.GetOr(pc.Data, marker, false))
}

func TestPipeline_PassesActionErrorThrough(t *testing.T) {
	var log []string
	inner := &domain.ActionError{ActionID: "nested", Err: errors.New("x")}

	p, err := runtime.NewPipeline([]domain.PipelineAction{
		recordingAction{id: "outer", log: &log, err: inner},
	})
	require.NoError(t, err)

	err = p.Run(context.Background(), newContext(), nil)
	assert.Same(t, inner, err)
}

func TestPipeline_RejectsDuplicateIDs(t *testing.T) {
	var log []string
	_, err := runtime.NewPipeline([]domain.PipelineAction{
		recordingAction{id: "a", log: &log},
		recordingAction{id: "a", log: &log},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateAction)
}

func TestPipeline_Cancelled(t *testing.T) {
	var log []string
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, err := runtime.NewPipeline([]domain.PipelineAction{recordingAction{id: "a", log: &log}})
	require.NoError(t, err)

	err = p.Run(ctx, newContext(), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, log)
}

func TestPipeline_Hooks(t *testing.T) {
	var log, events []string
	boom := errors.New("boom")
	hooks := domain.LifecycleHooks{
		OnActionStart: func(_ context.Context, e *domain.ActionEvent) {
			events = append(events, "start:"+e.ActionID)
		},
		OnActionFinish: func(_ context.Context, e *domain.ActionEvent) {
			status := "ok"
			if e.Err != nil {
				status = "err"
			}
			events = append(events, "finish:"+e.ActionID+":"+status)
		},
	}

	p, err := runtime.NewPipeline([]domain.PipelineAction{
		recordingAction{id: "a", log: &log},
		recordingAction{id: "b", log: &log, err: boom},
	}, runtime.WithPipelineHooks(hooks))
	require.NoError(t, err)

	_ = p.Run(context.Background(), newContext(), nil)
	assert.Equal(t, []string{"start:a", "finish:a:ok", "start:b", "finish:b:err"}, events)
}
