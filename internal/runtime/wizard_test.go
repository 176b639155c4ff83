package runtime_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/switchyard/internal/runtime"
	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/aretw0/switchyard/pkg/dsl"
	"github.com/aretw0/switchyard/pkg/ports"
)

type testStep struct {
	id       string
	fields   []domain.Field
	onEnter  func(ctx context.Context, s *domain.Store, sched domain.Scheduler)
	onExit   func(s *domain.Store) error
	validate func(s *domain.Store) map[string]string
}

func (t *testStep) ID() string             { return t.id }
func (t *testStep) TranslationKey() string { return "step." + t.id }
func (t *testStep) Fields() []domain.Field { return t.fields }

func (t *testStep) OnExit(s *domain.Store) error {
	if t.onExit != nil {
		return t.onExit(s)
	}
	return nil
}

func (t *testStep) OnEnter(ctx context.Context, s *domain.Store, sched domain.Scheduler) {
	if t.onEnter != nil {
		t.onEnter(ctx, s, sched)
	}
}

func (t *testStep) Validate(s *domain.Store) map[string]string {
	if t.validate != nil {
		return t.validate(s)
	}
	return nil
}

// scriptPrompter answers prompts from a fixed list and records every request.
type scriptPrompter struct {
	mu        sync.Mutex
	responses []ports.PromptResponse
	requests  []ports.PromptRequest
	before    func(ctx context.Context, req ports.PromptRequest)
}

func (p *scriptPrompter) Prompt(ctx context.Context, req ports.PromptRequest) (ports.PromptResponse, error) {
	if p.before != nil {
		p.before(ctx, req)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)
	if len(p.responses) == 0 {
		return ports.PromptResponse{}, errors.New("script exhausted")
	}
	resp := p.responses[0]
	p.responses = p.responses[1:]
	return resp, nil
}

func (p *scriptPrompter) visited() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, len(p.requests))
	for i, r := range p.requests {
		ids[i] = r.StepID
	}
	return ids
}

func next(values map[string]string) ports.PromptResponse {
	return ports.PromptResponse{Decision: ports.DecisionNext, Values: values}
}

var (
	back   = ports.PromptResponse{Decision: ports.DecisionBack}
	cancel = ports.PromptResponse{Decision: ports.DecisionCancel}
)

func textField(key string, required bool) domain.Field {
	return domain.Field{Key: key, Label: key, Kind: domain.FieldText, Required: required}
}

func linearGraph(t *testing.T, steps ...*testStep) *domain.FlowGraph {
	t.Helper()
	b := dsl.New()
	for _, s := range steps {
		s := s
		b.Add(s.id, func() domain.WizardStep { return s })
	}
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func TestWizard_LinearRun(t *testing.T) {
	g := linearGraph(t,
		&testStep{id: "name", fields: []domain.Field{textField("project_name", true)}},
		&testStep{id: "git", fields: []domain.Field{{Key: "init_git", Kind: domain.FieldToggle}}},
	)
	p := &scriptPrompter{responses: []ports.PromptResponse{
		next(map[string]string{"project_name": "  Example Mod "}),
		next(map[string]string{"init_git": "true"}),
	}}

	store, err := runtime.NewWizard(g, p).Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "git"}, p.visited())
	v, _ := store.Value("project_name")
	assert.Equal(t, "Example Mod", v)
	v, _ = store.Value("init_git")
	assert.Equal(t, true, v)

	assert.Equal(t, 1, p.requests[0].Index)
	assert.Equal(t, 2, p.requests[0].Total)
	assert.False(t, p.requests[0].CanGoBack)
	assert.True(t, p.requests[1].CanGoBack)
}

func TestWizard_ConditionalTransition(t *testing.T) {
	license := domain.NewKey[string]("license")
	b := dsl.New()
	b.Add("license", func() domain.WizardStep {
		return &testStep{id: "license", fields: []domain.Field{textField("license", true)}}
	}).Branch(func(s *domain.Store) bool { return domain.GetOr(s, license, "") == "custom" }, "license_custom").Go("git")
	b.Add("license_custom", func() domain.WizardStep { return &testStep{id: "license_custom"} })
	b.Add("git", func() domain.WizardStep { return &testStep{id: "git"} })
	g, err := b.Build()
	require.NoError(t, err)

	p := &scriptPrompter{responses: []ports.PromptResponse{
		next(map[string]string{"license": "MIT"}),
		next(nil),
	}}
	_, err = runtime.NewWizard(g, p).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"license", "git"}, p.visited())

	p = &scriptPrompter{responses: []ports.PromptResponse{
		next(map[string]string{"license": "custom"}),
		next(nil),
		next(nil),
	}}
	_, err = runtime.NewWizard(g, p).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"license", "license_custom", "git"}, p.visited())
}

func TestWizard_BackReentersPreviousStep(t *testing.T) {
	var enters []string
	mk := func(id string) *testStep {
		return &testStep{id: id, onEnter: func(context.Context, *domain.Store, domain.Scheduler) {
			enters = append(enters, id)
		}}
	}
	g := linearGraph(t, mk("a"), mk("b"), mk("c"))
	p := &scriptPrompter{responses: []ports.PromptResponse{
		back, // ignored on the first step
		next(nil),
		back,
		next(nil),
		next(nil),
		next(nil),
	}}

	_, err := runtime.NewWizard(g, p).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a", "b", "a", "b", "c"}, p.visited())
	assert.Equal(t, []string{"a", "b", "a", "b", "c"}, enters)
}

func TestWizard_Cancel(t *testing.T) {
	g := linearGraph(t, &testStep{id: "a"}, &testStep{id: "b"})
	p := &scriptPrompter{responses: []ports.PromptResponse{next(nil), cancel}}

	store, err := runtime.NewWizard(g, p).Run(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrWizardCancelled)
	assert.Nil(t, store)
}

func TestWizard_RepromptsUntilValid(t *testing.T) {
	step := &testStep{
		id:     "coords",
		fields: []domain.Field{textField("group_id", true)},
		validate: func(s *domain.Store) map[string]string {
			if v, _ := s.Value("group_id"); v == "bad" {
				return map[string]string{"group_id": "invalid group"}
			}
			return nil
		},
	}
	g := linearGraph(t, step)
	p := &scriptPrompter{responses: []ports.PromptResponse{
		next(map[string]string{"group_id": ""}),
		next(map[string]string{"group_id": "bad"}),
		next(map[string]string{"group_id": "com.example"}),
	}}

	store, err := runtime.NewWizard(g, p).Run(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, p.requests, 3)
	assert.Empty(t, p.requests[0].Problems)
	assert.Equal(t, "required", p.requests[1].Problems["group_id"])
	assert.Equal(t, "invalid group", p.requests[2].Problems["group_id"])
	v, _ := store.Value("group_id")
	assert.Equal(t, "com.example", v)
}

func TestWizard_OnExitErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	g := linearGraph(t, &testStep{id: "a", onExit: func(*domain.Store) error { return boom }})
	p := &scriptPrompter{responses: []ports.PromptResponse{next(nil)}}

	_, err := runtime.NewWizard(g, p).Run(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
}

func TestWizard_BackgroundFetchUpdatesPrompt(t *testing.T) {
	versions := domain.OptionsKey("minecraft_version")
	step := &testStep{
		id:     "mc",
		fields: []domain.Field{{Key: "minecraft_version", Kind: domain.FieldChoice, Required: true}},
		onEnter: func(_ context.Context, _ *domain.Store, sched domain.Scheduler) {
			sched.Schedule("versions", func(context.Context) (domain.Update, error) {
				return domain.Update{Field: "minecraft_version", Apply: func(s *domain.Store) {
					domain.Set(s, versions, []string{"1.21.1", "1.20.4"})
				}}, nil
			})
		},
	}
	g := linearGraph(t, step)

	var got domain.FieldChange
	p := &scriptPrompter{
		responses: []ports.PromptResponse{next(map[string]string{"minecraft_version": "1.21.1"})},
		before: func(ctx context.Context, req ports.PromptRequest) {
			select {
			case got = <-req.Changes:
			case <-time.After(2 * time.Second):
			}
		},
	}

	store, err := runtime.NewWizard(g, p).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "mc", got.StepID)
	assert.Equal(t, "minecraft_version", got.Field)
	assert.Equal(t, []string{"1.21.1", "1.20.4"}, got.Options)

	opts, ok := domain.Get(store, versions)
	require.True(t, ok)
	assert.Len(t, opts, 2)
}

func TestWizard_FetchFailureIsNotFatal(t *testing.T) {
	var failed atomic.Int32
	fetched := make(chan struct{})
	step := &testStep{
		id: "mc",
		onEnter: func(_ context.Context, _ *domain.Store, sched domain.Scheduler) {
			sched.Schedule("versions", func(context.Context) (domain.Update, error) {
				return domain.Update{}, errors.New("catalog offline")
			})
		},
	}
	hooks := domain.LifecycleHooks{
		OnFetchFailed: func(_ context.Context, e *domain.FetchEvent) {
			assert.Equal(t, "versions", e.Name)
			failed.Add(1)
			close(fetched)
		},
	}
	p := &scriptPrompter{
		responses: []ports.PromptResponse{next(nil)},
		before: func(context.Context, ports.PromptRequest) {
			select {
			case <-fetched:
			case <-time.After(2 * time.Second):
			}
		},
	}

	_, err := runtime.NewWizard(linearGraph(t, step), p, runtime.WithLifecycleHooks(hooks)).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, failed.Load())
}

func TestWizard_LateResultsAreDiscarded(t *testing.T) {
	var applied atomic.Bool
	started := make(chan struct{})
	step := &testStep{
		id: "mc",
		onEnter: func(_ context.Context, _ *domain.Store, sched domain.Scheduler) {
			sched.Schedule("slow", func(ctx context.Context) (domain.Update, error) {
				close(started)
				<-ctx.Done()
				return domain.Update{Field: "x", Apply: func(*domain.Store) { applied.Store(true) }}, nil
			})
		},
	}
	p := &scriptPrompter{
		responses: []ports.PromptResponse{cancel},
		before:    func(context.Context, ports.PromptRequest) { <-started },
	}

	_, err := runtime.NewWizard(linearGraph(t, step), p).Run(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrWizardCancelled)
	assert.False(t, applied.Load())
}

func TestWizard_PoolIsBounded(t *testing.T) {
	const fetches = 10
	var running, peak atomic.Int32

	step := &testStep{
		id: "many",
		onEnter: func(_ context.Context, _ *domain.Store, sched domain.Scheduler) {
			for i := 0; i < fetches; i++ {
				field := "f" + string(rune('a'+i))
				sched.Schedule(field, func(context.Context) (domain.Update, error) {
					n := running.Add(1)
					for {
						p := peak.Load()
						if n <= p || peak.CompareAndSwap(p, n) {
							break
						}
					}
					time.Sleep(5 * time.Millisecond)
					running.Add(-1)
					return domain.Update{Field: field, Apply: func(s *domain.Store) { s.SetValue(field, true) }}, nil
				})
			}
		},
	}
	p := &scriptPrompter{
		responses: []ports.PromptResponse{next(nil)},
		before: func(_ context.Context, req ports.PromptRequest) {
			for i := 0; i < fetches; i++ {
				select {
				case <-req.Changes:
				case <-time.After(2 * time.Second):
					return
				}
			}
		},
	}

	store, err := runtime.NewWizard(linearGraph(t, step), p, runtime.WithWorkers(2)).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
	for i := 0; i < fetches; i++ {
		assert.True(t, store.Contains("f"+string(rune('a'+i))))
	}
}

func TestWizard_ContextCancellation(t *testing.T) {
	ctx, cancelFn := context.WithCancel(context.Background())
	p := &scriptPrompter{
		before: func(pctx context.Context, _ ports.PromptRequest) {
			cancelFn()
			<-pctx.Done()
		},
	}
	_, err := runtime.NewWizard(linearGraph(t, &testStep{id: "a"}), p).Run(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWizard_DefaultsAndPrefilledValues(t *testing.T) {
	step := &testStep{
		id: "details",
		fields: []domain.Field{
			textField("project_name", true),
			{Key: "artifact_id", Required: true, Default: func(s *domain.Store) string {
				v, _ := s.Value("project_name")
				return v.(string) + "-id"
			}},
		},
	}
	p := &scriptPrompter{responses: []ports.PromptResponse{next(nil)}}
	seed := domain.NewStoreFrom(map[string]any{"project_name": "demo"})

	store, err := runtime.NewWizard(linearGraph(t, step), p).Run(context.Background(), seed)
	require.NoError(t, err)

	assert.Equal(t, "demo", p.requests[0].Values["project_name"])
	assert.Equal(t, "demo-id", p.requests[0].Values["artifact_id"])
	v, _ := store.Value("artifact_id")
	assert.Equal(t, "demo-id", v)
}
