package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/switchyard/internal/logging"
	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/aretw0/switchyard/pkg/ports"
)

// DefaultWorkers is the size of the background fetch pool of a session.
const DefaultWorkers = 4

// changeBuffer bounds the field change events queued for a prompt.
const changeBuffer = 16

// Wizard drives one interactive session over a FlowGraph.
type Wizard struct {
	graph    *domain.FlowGraph
	prompter ports.Prompter
	workers  int
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Wizard) {
		w.logger = logger
	}
}

// WithWorkers sets the size of the background fetch pool.
func WithWorkers(n int) Option {
	return func(w *Wizard) {
		w.workers = n
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(w *Wizard) {
		w.hooks = hooks
	}
}

// NewWizard creates a wizard over graph that talks to the user through prompter.
func NewWizard(graph *domain.FlowGraph, prompter ports.Prompter, opts ...Option) *Wizard {
	w := &Wizard{
		graph:    graph,
		prompter: prompter,
		workers:  DefaultWorkers,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run walks the graph from its first step until a terminal step is confirmed and
// returns the accumulated answers. store may be nil or carry pre-filled values.
//
// Leaving the wizard returns domain.ErrWizardCancelled; context cancellation returns
// the context error. In both cases pending fetches are abandoned.
func (w *Wizard) Run(ctx context.Context, store *domain.Store) (*domain.Store, error) {
	if store == nil {
		store = domain.NewStore()
	}

	p := newPool(ctx, w.workers, w.logger)
	defer p.close()

	var history []string
	current := w.graph.FirstStep()

	for {
		step, err := w.graph.Instantiate(current)
		if err != nil {
			return nil, err
		}
		history = append(history, current)
		w.emitStepEnter(ctx, current, len(history))
		w.logger.Debug("entering step", "step_id", current, "index", len(history))

		step.OnEnter(p.ctx, store, p.scheduler(current))

		decision, err := w.interact(ctx, p, step, store, len(history))
		if err != nil {
			return nil, err
		}

		switch decision {
		case ports.DecisionCancel:
			w.logger.Info("wizard cancelled", "step_id", current)
			return nil, domain.ErrWizardCancelled
		case ports.DecisionBack:
			w.emitStepLeave(ctx, current, len(history))
			history = history[:len(history)-1]
			current = history[len(history)-1]
			history = history[:len(history)-1]
			continue
		}

		if err := step.OnExit(store); err != nil {
			return nil, fmt.Errorf("step %s: %w", current, err)
		}
		w.emitStepLeave(ctx, current, len(history))

		next, ok := w.graph.NextStep(current, store)
		if !ok {
			w.logger.Debug("wizard complete", "last_step", current, "visited", len(history))
			return store, nil
		}
		current = next
	}
}

type promptResult struct {
	resp ports.PromptResponse
	err  error
}

// interact prompts until the step validates or the user leaves it.
// While the prompter is busy, fetch results are applied here on the session goroutine.
func (w *Wizard) interact(ctx context.Context, p *pool, step domain.WizardStep, store *domain.Store, index int) (ports.Decision, error) {
	canGoBack := index > 1
	var problems map[string]string

	for {
		changes := make(chan domain.FieldChange, changeBuffer)
		req := w.request(step, store, problems, changes, index, canGoBack)

		done := make(chan promptResult, 1)
		go func() {
			resp, err := w.prompter.Prompt(ctx, req)
			done <- promptResult{resp: resp, err: err}
		}()

		res, err := w.await(ctx, p, store, done, changes)
		close(changes)
		if err != nil {
			return ports.DecisionCancel, err
		}
		if res.err != nil {
			if errors.Is(res.err, domain.ErrWizardCancelled) {
				return ports.DecisionCancel, nil
			}
			return ports.DecisionCancel, fmt.Errorf("prompt %s: %w", step.ID(), res.err)
		}

		switch res.resp.Decision {
		case ports.DecisionCancel:
			return ports.DecisionCancel, nil
		case ports.DecisionBack:
			if canGoBack {
				return ports.DecisionBack, nil
			}
			problems = nil
			continue
		}

		problems = applyValues(step.Fields(), store, res.resp.Values)
		for k, v := range step.Validate(store) {
			if _, seen := problems[k]; !seen {
				problems[k] = v
			}
		}
		if len(problems) == 0 {
			return ports.DecisionNext, nil
		}
		w.logger.Debug("step invalid", "step_id", step.ID(), "problems", len(problems))
	}
}

func (w *Wizard) await(ctx context.Context, p *pool, store *domain.Store, done <-chan promptResult, changes chan<- domain.FieldChange) (promptResult, error) {
	for {
		select {
		case res := <-done:
			return res, nil
		case r := <-p.results:
			if p.ctx.Err() != nil {
				continue
			}
			w.apply(ctx, store, r, changes)
		case <-ctx.Done():
			return promptResult{}, ctx.Err()
		}
	}
}

// apply runs a fetch update against the store and notifies the prompter.
func (w *Wizard) apply(ctx context.Context, store *domain.Store, r fetchResult, changes chan<- domain.FieldChange) {
	if r.err != nil {
		w.logger.Warn("background fetch failed", "step_id", r.stepID, "fetch", r.name, "err", r.err)
		if w.hooks.OnFetchFailed != nil {
			w.hooks.OnFetchFailed(ctx, &domain.FetchEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventFetchFailed},
				StepID:    r.stepID,
				Name:      r.name,
				Err:       r.err,
			})
		}
		return
	}
	if r.update.Apply == nil {
		return
	}

	before := store.Snapshot()
	r.update.Apply(store)
	diff := domain.Diff(before, store.Snapshot())
	if diff.IsEmpty() {
		return
	}
	w.logger.Debug("applied fetch update", "step_id", r.stepID, "field", r.update.Field, "keys", diff.Keys())

	change := domain.FieldChange{StepID: r.stepID, Field: r.update.Field}
	if v, ok := store.Value(r.update.Field); ok {
		change.Value = formatValue(v)
	}
	change.Options, _ = domain.Get(store, domain.OptionsKey(r.update.Field))

	select {
	case changes <- change:
	default:
		w.logger.Debug("field change dropped, prompter not keeping up", "field", r.update.Field)
	}
}

func (w *Wizard) request(step domain.WizardStep, store *domain.Store, problems map[string]string, changes <-chan domain.FieldChange, index int, canGoBack bool) ports.PromptRequest {
	fields := visibleFields(step.Fields(), store)
	req := ports.PromptRequest{
		StepID:    step.ID(),
		Title:     step.TranslationKey(),
		Index:     index,
		Total:     w.graph.TotalSteps(),
		Fields:    fields,
		Values:    make(map[string]string, len(fields)),
		Options:   make(map[string][]string),
		Problems:  problems,
		CanGoBack: canGoBack,
		Changes:   changes,
	}
	for _, f := range fields {
		if v, ok := store.Value(f.Key); ok {
			req.Values[f.Key] = formatValue(v)
		} else if f.Default != nil {
			req.Values[f.Key] = f.Default(store)
		}
		if opts, ok := domain.Get(store, domain.OptionsKey(f.Key)); ok {
			req.Options[f.Key] = append([]string(nil), opts...)
		}
	}
	return req
}

// applyValues writes the submitted text into the store and returns per-field problems.
// Fields absent from values keep their stored value.
func applyValues(fields []domain.Field, store *domain.Store, values map[string]string) map[string]string {
	problems := make(map[string]string)
	for _, f := range visibleFields(fields, store) {
		text, submitted := values[f.Key]
		if !submitted {
			if store.Contains(f.Key) {
				continue
			}
			if f.Default == nil {
				if f.Required {
					problems[f.Key] = "required"
				}
				continue
			}
			text = f.Default(store)
		}
		text = strings.TrimSpace(text)
		if text == "" && f.Required {
			problems[f.Key] = "required"
			continue
		}
		if f.Validate != nil {
			if err := f.Validate(text); err != nil {
				problems[f.Key] = err.Error()
				continue
			}
		}
		v, err := parseValue(f, text)
		if err != nil {
			problems[f.Key] = err.Error()
			continue
		}
		store.SetValue(f.Key, v)
	}
	return problems
}

func parseValue(f domain.Field, text string) (any, error) {
	if f.Parse != nil {
		return f.Parse(text)
	}
	if f.Kind == domain.FieldToggle {
		if text == "" {
			return false, nil
		}
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, fmt.Errorf("expected yes or no")
		}
		return b, nil
	}
	return text, nil
}

func visibleFields(fields []domain.Field, store *domain.Store) []domain.Field {
	out := make([]domain.Field, 0, len(fields))
	for _, f := range fields {
		if f.Visible == nil || f.Visible(store) {
			out = append(out, f)
		}
	}
	return out
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprint(v)
}

func (w *Wizard) emitStepEnter(ctx context.Context, id string, index int) {
	if w.hooks.OnStepEnter == nil {
		return
	}
	w.hooks.OnStepEnter(ctx, &domain.StepEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStepEnter},
		StepID:    id,
		Index:     index,
	})
}

func (w *Wizard) emitStepLeave(ctx context.Context, id string, index int) {
	if w.hooks.OnStepLeave == nil {
		return
	}
	w.hooks.OnStepLeave(ctx, &domain.StepEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStepLeave},
		StepID:    id,
		Index:     index,
	})
}
